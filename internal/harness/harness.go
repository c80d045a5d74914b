package harness

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/typebridge/internal/compiler"
	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/memstore"
	"github.com/roach88/typebridge/internal/query"
	"github.com/roach88/typebridge/internal/schema"
	"github.com/roach88/typebridge/internal/typeql"
)

// Harness holds the per-run schema, store and compiler.
type Harness struct {
	manager  *schema.Manager
	store    *memstore.Store
	compiler *typeql.Compiler
}

// Run executes a scenario in isolation and returns its result. Errors are
// returned for scenarios that cannot be set up (bad declarations or data);
// unmet expectations are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Define = h.manager.Define()

	ctx := context.Background()
	for _, q := range scenario.Queries {
		got, err := h.runQuery(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Name, err)
		}
		result.Queries = append(result.Queries, got)
		if err := checkQuery(q, got); err != nil {
			result.AddError(err.Error())
		}
	}
	return result, nil
}

func newHarness(scenario *Scenario) (*Harness, error) {
	decls, err := compiler.LoadDir(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	m := schema.NewManager(nil)
	if err := decls.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register schema: %w", err)
	}

	h := &Harness{
		manager:  m,
		store:    memstore.New(),
		compiler: typeql.NewCompiler(m),
	}
	for i, row := range scenario.Data {
		if err := h.insert(row); err != nil {
			return nil, fmt.Errorf("data[%d] %s: %w", i, row.ID, err)
		}
	}
	return h, nil
}

func (h *Harness) insert(row Row) error {
	t, ok := h.manager.Lookup(row.Type)
	if !ok {
		return errors.Schemaf(row.Type, "type is not registered")
	}

	attrs := make(map[string][]ir.Value, len(row.Attrs))
	for _, name := range sortedKeys(row.Attrs) {
		f, _, ok := t.FieldByName(name)
		if !ok {
			return errors.Schemaf(t.Name+"."+name, "%s has no field %q", t.Name, name)
		}
		raw := row.Attrs[name]
		items, isList := raw.([]any)
		if !isList {
			items = []any{raw}
		}
		for _, item := range items {
			v, err := ir.Coerce(f.Attribute.Kind, item)
			if err != nil {
				return err
			}
			attrs[f.Label()] = append(attrs[f.Label()], v)
		}
	}
	return h.store.InsertAs(row.ID, t, attrs, row.Roles)
}

func (h *Harness) runQuery(ctx context.Context, q Query) (QueryResult, error) {
	got := QueryResult{Name: q.Name, Type: q.Type, Matches: []string{}}

	t, _ := h.manager.Lookup(q.Type)
	b := query.New(h.compiler, q.Type)
	for _, l := range q.Where {
		v, err := query.Coerce(t, l.Key, l.Value)
		if err != nil {
			got.Error = errorLabel(err)
			return got, nil
		}
		b = b.Where(l.Key, v)
	}

	frag, err := b.Compile()
	if err != nil {
		got.Error = errorLabel(err)
		return got, nil
	}
	got.Fragment = frag.Text()
	got.Fingerprint = frag.Fingerprint()

	matches, err := h.store.Execute(ctx, frag)
	if err != nil {
		if label := errorLabel(err); label != "ERROR" {
			got.Error = label
			return got, nil
		}
		return got, err
	}
	got.Matches = matches
	return got, nil
}

// errorLabel names an error for scenario expectations.
func errorLabel(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return string(code)
	}
	if errors.Is(err, memstore.ErrPatternDelegated) {
		return "DELEGATED"
	}
	return "ERROR"
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

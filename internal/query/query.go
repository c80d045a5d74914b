// Package query is the filter entry point: an immutable builder that
// accumulates keyword lookups and typed comparisons, compiles them and
// hands the fragment to an executor.
package query

import (
	"context"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/queryir"
	"github.com/roach88/typebridge/internal/typeql"
)

// Executor runs a compiled fragment and returns the IIDs of matching
// instances.
type Executor interface {
	Execute(ctx context.Context, frag *typeql.Fragment) ([]string, error)
}

// Builder is a filter over one type. Every method returns a new Builder;
// the receiver is never modified, so builders can be shared and branched.
type Builder struct {
	compiler *typeql.Compiler
	typ      string
	preds    []queryir.Predicate
}

// New starts a filter over instances of typeName.
func New(compiler *typeql.Compiler, typeName string) *Builder {
	return &Builder{compiler: compiler, typ: typeName}
}

// Filter returns a builder whose predicates are b's followed by preds.
// Lookups and typed comparisons may be mixed freely; all are conjoined.
func (b *Builder) Filter(preds ...queryir.Predicate) *Builder {
	next := &Builder{
		compiler: b.compiler,
		typ:      b.typ,
		preds:    make([]queryir.Predicate, 0, len(b.preds)+len(preds)),
	}
	next.preds = append(next.preds, b.preds...)
	next.preds = append(next.preds, preds...)
	return next
}

// Where is Filter with a single keyword lookup.
func (b *Builder) Where(key string, value any) *Builder {
	return b.Filter(queryir.Kw(key, value))
}

// FilterExpr adds a typed comparison built by an accessor, keeping the
// accessor's error:
//
//	b.FilterExpr(employment.Role("employee").Attr("age").Gt(30))
//
// The error surfaces from Compile or Execute.
func (b *Builder) FilterExpr(c queryir.Comparison, err error) *Builder {
	if err != nil {
		return b.Filter(queryir.Invalid(err))
	}
	return b.Filter(c)
}

// Type returns the type under query.
func (b *Builder) Type() string {
	return b.typ
}

// Query returns the accumulated query.
func (b *Builder) Query() queryir.Select {
	return queryir.Select{Type: b.typ, Filter: queryir.Conj(b.preds...)}
}

// Comparisons returns the normalised predicate set in order.
func (b *Builder) Comparisons() ([]queryir.Comparison, error) {
	if err := b.deferred(); err != nil {
		return nil, err
	}
	return queryir.Normalize(b.Query().Filter)
}

// Compile compiles the accumulated filter.
func (b *Builder) Compile() (*typeql.Fragment, error) {
	if err := b.deferred(); err != nil {
		return nil, err
	}
	return b.compiler.Compile(b.Query())
}

// Execute compiles the filter and runs it through exec.
func (b *Builder) Execute(ctx context.Context, exec Executor) ([]string, error) {
	frag, err := b.Compile()
	if err != nil {
		return nil, err
	}
	iids, err := exec.Execute(ctx, frag)
	if err != nil {
		return nil, errors.Wrapf(err, "execute %s filter", b.typ)
	}
	return iids, nil
}

func (b *Builder) deferred() error {
	return queryir.Err(queryir.Conj(b.preds...))
}

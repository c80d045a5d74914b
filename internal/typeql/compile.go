package typeql

import (
	"fmt"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/logger"
	"github.com/roach88/typebridge/internal/metrics"
	"github.com/roach88/typebridge/internal/queryir"
	"github.com/roach88/typebridge/internal/schema"
)

// RootVar is the variable bound to instances of the queried type.
const RootVar = "$v0"

// Resolver looks up registered types by name. *schema.Manager implements it.
type Resolver interface {
	Lookup(name string) (*schema.Type, bool)
}

// Compiler compiles queries against the types known to a Resolver.
// It holds no per-query state and is safe for concurrent use.
type Compiler struct {
	types Resolver
}

// NewCompiler creates a Compiler.
func NewCompiler(types Resolver) *Compiler {
	return &Compiler{types: types}
}

// Compile converts q into a match fragment.
//
// Structural problems and unresolvable paths fail with a SchemaError;
// operands or operators incompatible with the resolved attribute fail with
// a TypeMismatchError.
func (c *Compiler) Compile(q queryir.Query) (*Fragment, error) {
	frag, err := c.compile(q)
	if err != nil {
		metrics.CompileErrors.WithLabelValues(string(errors.CodeOf(err))).Inc()
		return nil, err
	}
	metrics.CompiledFragments.Inc()
	logger.Logger.Debugw("Compiled filter",
		logger.FieldComponent, "typeql",
		logger.FieldType, frag.Type,
		logger.FieldCount, len(frag.Conditions))
	return frag, nil
}

func (c *Compiler) compile(q queryir.Query) (*Fragment, error) {
	var sel queryir.Select
	switch query := q.(type) {
	case queryir.Select:
		sel = query
	case *queryir.Select:
		if query == nil {
			return nil, errors.Schemaf("", "cannot compile nil query")
		}
		sel = *query
	default:
		return nil, errors.Schemaf("", "unsupported query type %T", q)
	}

	if err := queryir.Validate(sel).Err(sel.Type); err != nil {
		return nil, err
	}

	typ, ok := c.types.Lookup(sel.Type)
	if !ok {
		return nil, errors.Schemaf(sel.Type, "type is not registered")
	}

	comparisons, err := queryir.Normalize(sel.Filter)
	if err != nil {
		return nil, err
	}

	e := newEmitter(typ)
	for _, cmp := range comparisons {
		if err := e.add(cmp); err != nil {
			return nil, err
		}
	}
	return e.fragment(), nil
}

// emitter accumulates statements for one compilation.
type emitter struct {
	typ        *schema.Type
	next       int
	roleVars   map[string]string
	bindings   []Binding
	conditions []Condition
	statements []string
}

func newEmitter(typ *schema.Type) *emitter {
	e := &emitter{typ: typ, next: 1, roleVars: map[string]string{}}
	e.statements = append(e.statements, RootVar+" isa "+typ.Name+";")
	return e
}

func (e *emitter) fresh() string {
	v := fmt.Sprintf("$v%d", e.next)
	e.next++
	return v
}

func (e *emitter) add(cmp queryir.Comparison) error {
	res, err := e.typ.ResolvePath(cmp.Path)
	if err != nil {
		return err
	}
	if err := schema.CheckOperand(res.Field, cmp.Op, cmp.Operand); err != nil {
		return err
	}

	owner := RootVar
	role := ""
	if res.Qualified() {
		role = res.Role.Name
		v, bound := e.roleVars[role]
		if !bound {
			v = e.fresh()
			e.roleVars[role] = v
			e.bindings = append(e.bindings, Binding{Var: v, Role: role, Player: res.Role.Player.Name})
			e.statements = append(e.statements, fmt.Sprintf("%s links (%s: %s);", RootVar, role, v))
		}
		owner = v
	}

	cond := Condition{
		Owner:     owner,
		Role:      role,
		Field:     res.Field.Name,
		Attribute: res.Field.Label(),
		Kind:      res.Field.Attribute.Kind,
		Var:       e.fresh(),
		Op:        cmp.Op,
		Operand:   cmp.Operand,
	}
	e.conditions = append(e.conditions, cond)
	e.statements = append(e.statements,
		fmt.Sprintf("%s has %s %s;", owner, cond.Attribute, cond.Var),
		cond.Statement())
	return nil
}

func (e *emitter) fragment() *Fragment {
	return &Fragment{
		Type:       e.typ.Name,
		Root:       RootVar,
		Bindings:   e.bindings,
		Conditions: e.conditions,
		Statements: e.statements,
	}
}

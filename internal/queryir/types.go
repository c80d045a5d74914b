package queryir

import (
	"strings"

	"github.com/roach88/typebridge/internal/ir"
)

// Op is a comparison operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNeq      Op = "neq"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpContains Op = "contains"
	OpLike     Op = "like"
)

// Ops lists every operator in canonical order.
var Ops = []Op{OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpContains, OpLike}

var opSymbols = map[Op]string{
	OpEq:       "==",
	OpNeq:      "!=",
	OpGt:       ">",
	OpGte:      ">=",
	OpLt:       "<",
	OpLte:      "<=",
	OpContains: "contains",
	OpLike:     "like",
}

// ParseOp returns the operator named s.
func ParseOp(s string) (Op, bool) {
	op := Op(s)
	_, ok := opSymbols[op]
	return op, ok
}

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	_, ok := opSymbols[op]
	return ok
}

// Symbol returns the TypeQL rendering of op.
func (op Op) Symbol() string {
	return opSymbols[op]
}

// Ordered reports whether op needs a totally ordered attribute kind.
func (op Op) Ordered() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// StringOnly reports whether op needs a string attribute.
func (op Op) StringOnly() bool {
	return op == OpContains || op == OpLike
}

// Query is a filter query over one type.
//
// This is a sealed interface; Select is the only implementation.
type Query interface {
	queryNode()
}

// Predicate is a filter condition.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Comparison: resolved (path, op, operand)
//   - Lookup: raw keyword entry, parsed into a Comparison on normalisation
//   - And: all predicates must hold
//   - Invalid: an error raised while building a predicate
type Predicate interface {
	predicateNode()
}

// Select filters instances of Type.
//
// Example:
//
//	Select{
//	  Type: "employment",
//	  Filter: And{Predicates: []Predicate{
//	    Kw("employee__age__gt", 25),
//	    Comparison{Path: []string{"employer", "industry"}, Op: OpEq, Operand: ir.String("Technology")},
//	  }},
//	}
//
// Compiles to:
//
//	match
//	$v0 isa employment;
//	$v0 links (employee: $v1);
//	$v1 has age $v2;
//	$v2 > 25;
//	$v0 links (employer: $v3);
//	$v3 has industry $v4;
//	$v4 == "Technology";
type Select struct {
	Type   string    // Entity or relation type name
	Filter Predicate // nil = every instance of Type
}

func (Select) queryNode() {}

// Comparison is a resolved filter condition.
//
// Path is either [field] on the type under query or [role, field] on the
// player bound to role. Operand is never nil.
//
// Two Comparisons are equal when Path, Op and Operand are equal; this is
// what makes keyword lookups and typed expressions interchangeable.
type Comparison struct {
	Path    []string
	Op      Op
	Operand ir.Value
}

func (Comparison) predicateNode() {}

// Key renders the comparison as its canonical keyword key, e.g.
// "employee__age__gt".
func (c Comparison) Key() string {
	return strings.Join(c.Path, Separator) + Separator + string(c.Op)
}

// Equal reports structural equality.
func (c Comparison) Equal(other Comparison) bool {
	if c.Op != other.Op || len(c.Path) != len(other.Path) {
		return false
	}
	for i := range c.Path {
		if c.Path[i] != other.Path[i] {
			return false
		}
	}
	return ir.Equal(c.Operand, other.Operand)
}

// Lookup is an unparsed keyword filter entry.
//
// Value is any Go primitive or ir.Value; it is converted on normalisation.
type Lookup struct {
	Key   string
	Value any
}

func (Lookup) predicateNode() {}

// Kw builds a Lookup.
func Kw(key string, value any) Lookup {
	return Lookup{Key: key, Value: value}
}

// And is a conjunction. An empty And always holds.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Conj combines predicates into a single And, flattening nested Ands.
func Conj(preds ...Predicate) And {
	out := And{Predicates: make([]Predicate, 0, len(preds))}
	for _, p := range preds {
		if a, ok := p.(And); ok {
			out.Predicates = append(out.Predicates, Conj(a.Predicates...).Predicates...)
			continue
		}
		out.Predicates = append(out.Predicates, p)
	}
	return out
}

// Invalid returns a predicate carrying err, raised while the predicate was
// built. Validate reports it and Normalize returns err unchanged.
func Invalid(err error) Predicate {
	return invalid{err: err}
}

type invalid struct {
	err error
}

func (invalid) predicateNode() {}

// Err returns the error of the first Invalid predicate in p, or nil.
func Err(p Predicate) error {
	switch pred := p.(type) {
	case invalid:
		return pred.err
	case And:
		for _, inner := range pred.Predicates {
			if err := Err(inner); err != nil {
				return err
			}
		}
	case *And:
		return Err(*pred)
	}
	return nil
}

package schema

import (
	"strings"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/queryir"
	"github.com/roach88/typebridge/internal/valuetype"
)

// FieldRef is a typed accessor for one attribute path on a type:
//
//	employment.Role("employee").Attr("age").Gt(30)
//	person.Attr("name").Eq("Alice")
//
// Resolution errors are kept and returned by the operator methods, so an
// accessor chain never yields a predicate for a bad path.
type FieldRef struct {
	resolved ResolvedPath
	path     []string
	err      error
}

// RoleRef is a typed accessor for a role of a relation.
type RoleRef struct {
	owner *Type
	role  string
}

// Attr returns the accessor for field on t.
func (t *Type) Attr(field string) FieldRef {
	return t.ref([]string{field})
}

// Role returns the accessor for role on t.
func (t *Type) Role(role string) RoleRef {
	return RoleRef{owner: t, role: role}
}

// Attr returns the accessor for field on the role's player.
func (r RoleRef) Attr(field string) FieldRef {
	return r.owner.ref([]string{r.role, field})
}

// Field resolves path eagerly.
func (t *Type) Field(path ...string) (FieldRef, error) {
	ref := t.ref(path)
	return ref, ref.err
}

// MustField is like Field but panics on error.
func (t *Type) MustField(path ...string) FieldRef {
	ref, err := t.Field(path...)
	if err != nil {
		panic(err)
	}
	return ref
}

func (t *Type) ref(path []string) FieldRef {
	path = append([]string(nil), path...)
	res, err := t.ResolvePath(path)
	return FieldRef{resolved: res, path: path, err: err}
}

// Path returns the attribute path.
func (f FieldRef) Path() []string {
	return append([]string(nil), f.path...)
}

// Resolved returns the resolution of the path.
func (f FieldRef) Resolved() (ResolvedPath, error) {
	return f.resolved, f.err
}

// Key returns the equivalent keyword key for op.
func (f FieldRef) Key(op queryir.Op) string {
	return strings.Join(f.path, queryir.Separator) + queryir.Separator + string(op)
}

// Eq matches values equal to operand.
func (f FieldRef) Eq(operand any) (queryir.Comparison, error) {
	return f.compare(queryir.OpEq, operand)
}

// Neq matches values different from operand.
func (f FieldRef) Neq(operand any) (queryir.Comparison, error) {
	return f.compare(queryir.OpNeq, operand)
}

// Gt matches values greater than operand. The attribute must be integer,
// double or datetime.
func (f FieldRef) Gt(operand any) (queryir.Comparison, error) {
	return f.compare(queryir.OpGt, operand)
}

// Gte is Gt including operand. The attribute must be integer, double or
// datetime.
func (f FieldRef) Gte(operand any) (queryir.Comparison, error) {
	return f.compare(queryir.OpGte, operand)
}

// Lt matches values less than operand. The attribute must be integer,
// double or datetime.
func (f FieldRef) Lt(operand any) (queryir.Comparison, error) {
	return f.compare(queryir.OpLt, operand)
}

// Lte is Lt including operand. The attribute must be integer, double or
// datetime.
func (f FieldRef) Lte(operand any) (queryir.Comparison, error) {
	return f.compare(queryir.OpLte, operand)
}

// Contains matches a case-sensitive substring.
func (f FieldRef) Contains(operand any) (queryir.Comparison, error) {
	return f.compare(queryir.OpContains, operand)
}

// Like matches the database's native pattern syntax. The pattern is passed
// through uninterpreted.
func (f FieldRef) Like(operand any) (queryir.Comparison, error) {
	return f.compare(queryir.OpLike, operand)
}

// Op applies an operator by value.
func (f FieldRef) Op(op queryir.Op, operand any) (queryir.Comparison, error) {
	return f.compare(op, operand)
}

func (f FieldRef) compare(op queryir.Op, operand any) (queryir.Comparison, error) {
	if f.err != nil {
		return queryir.Comparison{}, f.err
	}
	field := f.resolved.Field

	var value ir.Value
	switch v := operand.(type) {
	case valuetype.Literal:
		if v.Type.Name != field.Attribute.Name {
			return queryir.Comparison{}, errors.TypeMismatchf(strings.Join(f.path, "."),
				"%s literal for %s attribute", v.Type.Name, field.Attribute.Name)
		}
		value = v.Value
	default:
		var err error
		if value, err = ir.FromGo(operand); err != nil {
			return queryir.Comparison{}, errors.Wrapf(err, "%s", strings.Join(f.path, "."))
		}
	}

	if err := CheckOperand(field, op, value); err != nil {
		return queryir.Comparison{}, err
	}
	return queryir.Comparison{Path: f.Path(), Op: op, Operand: value}, nil
}

package schema

import (
	"strings"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/queryir"
)

// ResolvedPath is an attribute path resolved against a type.
//
// For [field], Owner is the type under query and Role is nil. For
// [role, field], Role is the relation's role and Owner its player type.
type ResolvedPath struct {
	Owner *Type
	Role  *Role
	Field Field
}

// Qualified reports whether the path crosses a role.
func (p ResolvedPath) Qualified() bool {
	return p.Role != nil
}

// ResolvePath resolves path against t. Wrong arity, an unknown role or an
// unknown attribute fail with a SchemaError.
func (t *Type) ResolvePath(path []string) (ResolvedPath, error) {
	subject := t.Name + "." + strings.Join(path, ".")
	switch len(path) {
	case 1:
		f, _, ok := t.FieldByName(path[0])
		if !ok {
			return ResolvedPath{}, errors.Schemaf(subject, "%s %s has no attribute %q", t.Kind, t.Name, path[0])
		}
		return ResolvedPath{Owner: t, Field: f}, nil
	case 2:
		role, ok := t.RoleByName(path[0])
		if !ok {
			if !t.IsRelation() {
				return ResolvedPath{}, errors.Schemaf(subject, "entity %s has no roles", t.Name)
			}
			return ResolvedPath{}, errors.Schemaf(subject, "relation %s has no role %q", t.Name, path[0])
		}
		f, _, ok := role.Player.FieldByName(path[1])
		if !ok {
			return ResolvedPath{}, errors.Schemaf(subject, "role player %s has no attribute %q", role.Player.Name, path[1])
		}
		return ResolvedPath{Owner: role.Player, Role: &role, Field: f}, nil
	default:
		return ResolvedPath{}, errors.Schemaf(subject, "path has %d segments, want 1 or 2", len(path))
	}
}

// CheckOperand reports whether op with operand can be applied to f.
// Failures are TypeMismatchErrors.
func CheckOperand(f Field, op queryir.Op, operand ir.Value) error {
	kind := f.Attribute.Kind
	switch {
	case operand == nil:
		return errors.TypeMismatchf(f.Label(), "missing operand")
	case !op.Valid():
		return errors.TypeMismatchf(f.Label(), "unknown operator %q", op)
	case op.Ordered() && !kind.Ordered():
		return errors.TypeMismatchf(f.Label(), "%s needs an ordered attribute, %s is %s", op, f.Label(), kind)
	case op.StringOnly() && !kind.StringLike():
		return errors.TypeMismatchf(f.Label(), "%s needs a string attribute, %s is %s", op, f.Label(), kind)
	case !kind.Accepts(operand.Kind()):
		return errors.TypeMismatchf(f.Label(), "%s operand for %s attribute", operand.Kind(), kind)
	}
	return nil
}

package schema

import (
	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/flags"
	"github.com/roach88/typebridge/internal/valuetype"
)

// TypeKind distinguishes entity types from relation types.
type TypeKind string

const (
	KindEntity   TypeKind = "entity"
	KindRelation TypeKind = "relation"
)

// Field is an attribute owned by a type.
//
// Name is the lookup name used in filter paths. Attribute.Name is the
// database label written to schema and query text.
type Field struct {
	Name      string
	Attribute valuetype.ValueType
	Flags     flags.Resolution
}

// Label returns the attribute label.
func (f Field) Label() string {
	return f.Attribute.Name
}

// Role is a slot on a relation filled by instances of Player.
type Role struct {
	Name   string
	Player *Type
}

// Type is a declared entity or relation type. It is immutable once built.
type Type struct {
	Name     string
	Kind     TypeKind
	Super    *Type
	Abstract bool
	Fields   []Field // own fields, declaration order
	Roles    []Role  // own roles, declaration order
}

// IsRelation reports whether t is a relation type.
func (t *Type) IsRelation() bool {
	return t.Kind == KindRelation
}

// FieldByName returns the field named name, searching supertypes. owner is the
// type that declares it.
func (t *Type) FieldByName(name string) (field Field, owner *Type, ok bool) {
	for cur := t; cur != nil; cur = cur.Super {
		for _, f := range cur.Fields {
			if f.Name == name {
				return f, cur, true
			}
		}
	}
	return Field{}, nil, false
}

// RoleByName returns the role named name, searching supertypes.
func (t *Type) RoleByName(name string) (Role, bool) {
	for cur := t; cur != nil; cur = cur.Super {
		for _, r := range cur.Roles {
			if r.Name == name {
				return r, true
			}
		}
	}
	return Role{}, false
}

// AllFields returns inherited fields first, then own fields.
func (t *Type) AllFields() []Field {
	if t.Super == nil {
		return append([]Field(nil), t.Fields...)
	}
	return append(t.Super.AllFields(), t.Fields...)
}

// AllRoles returns inherited roles first, then own roles.
func (t *Type) AllRoles() []Role {
	if t.Super == nil {
		return append([]Role(nil), t.Roles...)
	}
	return append(t.Super.AllRoles(), t.Roles...)
}

// IsA reports whether t is name or a subtype of it.
func (t *Type) IsA(name string) bool {
	for cur := t; cur != nil; cur = cur.Super {
		if cur.Name == name {
			return true
		}
	}
	return false
}

// String returns the type name.
func (t *Type) String() string {
	return t.Name
}

// Option configures a type under construction.
type Option func(*Type)

// Sub makes the type a subtype of super.
func Sub(super *Type) Option {
	return func(t *Type) { t.Super = super }
}

// Abstract marks the type abstract.
func Abstract() Option {
	return func(t *Type) { t.Abstract = true }
}

// Builder declares a type. Declaration errors are kept and reported by
// Build; the first one wins.
type Builder struct {
	t   *Type
	err error
}

// NewEntity starts an entity type declaration.
func NewEntity(name string, opts ...Option) *Builder {
	return newBuilder(name, KindEntity, opts)
}

// NewRelation starts a relation type declaration.
func NewRelation(name string, opts ...Option) *Builder {
	return newBuilder(name, KindRelation, opts)
}

func newBuilder(name string, kind TypeKind, opts []Option) *Builder {
	b := &Builder{t: &Type{Name: name, Kind: kind}}
	for _, opt := range opts {
		opt(b.t)
	}
	switch {
	case name == "":
		b.fail(errors.Configurationf("", "%s name is empty", kind))
	case b.t.Super != nil && b.t.Super.Kind != kind:
		b.fail(errors.Schemaf(name, "%s cannot sub %s %s", kind, b.t.Super.Kind, b.t.Super.Name))
	}
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Owns declares an attribute field. The markers are resolved against
// mult immediately, so malformed cardinality fails at declaration.
func (b *Builder) Owns(field string, attr valuetype.ValueType, mult flags.Multiplicity, markers ...flags.Marker) *Builder {
	subject := b.t.Name + "." + field
	if field == "" || attr.Name == "" {
		b.fail(errors.Configurationf(subject, "field and attribute names are required"))
		return b
	}
	if _, _, dup := b.t.FieldByName(field); dup {
		b.fail(errors.Configurationf(subject, "field declared twice"))
		return b
	}
	for _, f := range b.t.AllFields() {
		if f.Attribute.Name == attr.Name {
			b.fail(errors.Configurationf(subject, "attribute %s already owned by field %s", attr.Name, f.Name))
			return b
		}
	}
	res, err := flags.Resolve(mult, markers...)
	if err != nil {
		b.fail(errors.Wrapf(err, "field %s", subject))
		return b
	}
	b.t.Fields = append(b.t.Fields, Field{Name: field, Attribute: attr, Flags: res})
	return b
}

// Relates declares a role played by instances of player.
func (b *Builder) Relates(role string, player *Type) *Builder {
	subject := b.t.Name + "." + role
	switch {
	case b.t.Kind != KindRelation:
		b.fail(errors.Configurationf(subject, "only relations declare roles"))
	case role == "":
		b.fail(errors.Configurationf(subject, "role name is empty"))
	case player == nil:
		b.fail(errors.Configurationf(subject, "role has no player type"))
	default:
		if _, dup := b.t.RoleByName(role); dup {
			b.fail(errors.Configurationf(subject, "role declared twice"))
			return b
		}
		b.t.Roles = append(b.t.Roles, Role{Name: role, Player: player})
	}
	return b
}

// Build returns the declared type or the first declaration error.
func (b *Builder) Build() (*Type, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.t.IsRelation() && len(b.t.AllRoles()) == 0 {
		return nil, errors.Configurationf(b.t.Name, "relation declares no roles")
	}
	t := *b.t
	t.Fields = append([]Field(nil), b.t.Fields...)
	t.Roles = append([]Role(nil), b.t.Roles...)
	return &t, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

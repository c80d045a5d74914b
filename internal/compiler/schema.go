package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/typebridge/internal/flags"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/schema"
	"github.com/roach88/typebridge/internal/valuetype"
)

// Declarations is the result of compiling a schema declaration value.
type Declarations struct {
	// Attributes in declaration order.
	Attributes []valuetype.ValueType
	// Types holds entities, then relations, each in declaration order.
	Types []*schema.Type
}

// Register adds the declared attributes and types to m.
func (d *Declarations) Register(m *schema.Manager) error {
	for _, vt := range d.Attributes {
		if err := m.Registry().Register(vt); err != nil {
			return err
		}
	}
	return m.Register(d.Types...)
}

// CompileSchema parses a CUE value into value types and entity/relation
// types. The value is the root of the declaration files:
//
//	attribute: name: value: "string"
//	entity: person: owns: name: key: true
//	relation: employment: {
//		relates: {employee: "person", employer: "company"}
//		owns: salary: optional: true
//	}
func CompileSchema(v cue.Value) (*Declarations, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &declCompiler{
		attrs: map[string]valuetype.ValueType{},
		types: map[string]*schema.Type{},
	}
	if err := c.attributes(v.LookupPath(cue.ParsePath("attribute"))); err != nil {
		return nil, err
	}
	if err := c.typesOf(v.LookupPath(cue.ParsePath("entity")), schema.KindEntity); err != nil {
		return nil, err
	}
	if err := c.typesOf(v.LookupPath(cue.ParsePath("relation")), schema.KindRelation); err != nil {
		return nil, err
	}
	return &c.decls, nil
}

type declCompiler struct {
	decls Declarations
	attrs map[string]valuetype.ValueType
	types map[string]*schema.Type
}

func (c *declCompiler) attributes(v cue.Value) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		val := iter.Value()
		field := "attribute." + name
		vt := valuetype.ValueType{Name: name}

		if kindVal := val.LookupPath(cue.ParsePath("value")); kindVal.Exists() {
			s, err := kindVal.String()
			if err != nil {
				return formatCUEError(err)
			}
			kind, ok := ir.ParseKind(s)
			if !ok {
				return compileErrorf(field+".value", kindVal.Pos(), "unknown value kind %q, want one of %v", s, ir.ValidKinds)
			}
			vt.Kind = kind
		}

		if superVal := val.LookupPath(cue.ParsePath("sub")); superVal.Exists() {
			super, err := superVal.String()
			if err != nil {
				return formatCUEError(err)
			}
			parent, ok := c.attrs[super]
			if !ok {
				return compileErrorf(field+".sub", superVal.Pos(), "attribute %q must be declared before %s", super, name)
			}
			vt.Super = super
			if vt.Kind == "" {
				vt.Kind = parent.Kind
			}
			if vt.Kind != parent.Kind {
				return compileErrorf(field+".value", val.Pos(), "%s is %s but its supertype %s is %s", name, vt.Kind, super, parent.Kind)
			}
		}
		if vt.Kind == "" {
			return compileErrorf(field+".value", val.Pos(), "value kind is required")
		}

		abstract, err := optionalBool(val, "abstract")
		if err != nil {
			return err
		}
		vt.Abstract = abstract

		c.attrs[name] = vt
		c.decls.Attributes = append(c.decls.Attributes, vt)
	}
	return nil
}

func (c *declCompiler) typesOf(v cue.Value, kind schema.TypeKind) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		t, err := c.compileType(name, kind, iter.Value())
		if err != nil {
			return err
		}
		c.types[name] = t
		c.decls.Types = append(c.decls.Types, t)
	}
	return nil
}

func (c *declCompiler) compileType(name string, kind schema.TypeKind, v cue.Value) (*schema.Type, error) {
	field := string(kind) + "." + name
	if _, dup := c.types[name]; dup {
		return nil, compileErrorf(field, v.Pos(), "type %q is declared as both entity and relation", name)
	}

	var opts []schema.Option
	if superVal := v.LookupPath(cue.ParsePath("sub")); superVal.Exists() {
		super, err := superVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		parent, ok := c.types[super]
		if !ok {
			return nil, compileErrorf(field+".sub", superVal.Pos(), "type %q must be declared before %s", super, name)
		}
		opts = append(opts, schema.Sub(parent))
	}
	abstract, err := optionalBool(v, "abstract")
	if err != nil {
		return nil, err
	}
	if abstract {
		opts = append(opts, schema.Abstract())
	}

	var b *schema.Builder
	if kind == schema.KindRelation {
		b = schema.NewRelation(name, opts...)
		if err := c.relates(b, field, v.LookupPath(cue.ParsePath("relates"))); err != nil {
			return nil, err
		}
	} else {
		b = schema.NewEntity(name, opts...)
		if rel := v.LookupPath(cue.ParsePath("relates")); rel.Exists() {
			return nil, compileErrorf(field+".relates", rel.Pos(), "entities cannot declare roles")
		}
	}

	if err := c.owns(b, field, v.LookupPath(cue.ParsePath("owns"))); err != nil {
		return nil, err
	}

	t, err := b.Build()
	if err != nil {
		return nil, wrapCompileError(err, field, v.Pos())
	}
	return t, nil
}

func (c *declCompiler) relates(b *schema.Builder, field string, v cue.Value) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		role := iter.Label()
		player, err := iter.Value().String()
		if err != nil {
			return formatCUEError(err)
		}
		t, ok := c.types[player]
		if !ok {
			return compileErrorf(field+".relates."+role, iter.Value().Pos(), "player %q must be declared before this relation", player)
		}
		b.Relates(role, t)
	}
	return nil
}

func (c *declCompiler) owns(b *schema.Builder, field string, v cue.Value) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		path := field + ".owns." + name
		val := iter.Value()

		label := name
		if labelVal := val.LookupPath(cue.ParsePath("attribute")); labelVal.Exists() {
			if label, err = labelVal.String(); err != nil {
				return formatCUEError(err)
			}
		}
		vt, ok := c.attrs[label]
		if !ok {
			return compileErrorf(path, val.Pos(), "unknown attribute %q", label)
		}

		mult, markers, err := fieldFlags(val, path)
		if err != nil {
			return err
		}
		b.Owns(name, vt, mult, markers...)
	}
	return nil
}

// fieldFlags reads key, unique, optional, many, card and card_max.
func fieldFlags(v cue.Value, path string) (flags.Multiplicity, []flags.Marker, error) {
	var markers []flags.Marker

	key, err := optionalBool(v, "key")
	if err != nil {
		return 0, nil, err
	}
	if key {
		markers = append(markers, flags.Key{})
	}
	unique, err := optionalBool(v, "unique")
	if err != nil {
		return 0, nil, err
	}
	if unique {
		markers = append(markers, flags.Unique{})
	}

	optional, err := optionalBool(v, "optional")
	if err != nil {
		return 0, nil, err
	}
	many, err := optionalBool(v, "many")
	if err != nil {
		return 0, nil, err
	}
	mult := flags.Required
	switch {
	case optional && many:
		return 0, nil, compileErrorf(path, v.Pos(), "optional and many are exclusive")
	case optional:
		mult = flags.Optional
	case many:
		mult = flags.Many
	}

	cardVal := v.LookupPath(cue.ParsePath("card"))
	maxVal := v.LookupPath(cue.ParsePath("card_max"))
	if cardVal.Exists() && maxVal.Exists() {
		return 0, nil, compileErrorf(path, v.Pos(), "card and card_max are exclusive")
	}
	if cardVal.Exists() {
		bounds, err := intList(cardVal)
		if err != nil {
			return 0, nil, err
		}
		card, err := flags.Card(bounds...)
		if err != nil {
			return 0, nil, wrapCompileError(err, path+".card", cardVal.Pos())
		}
		markers = append(markers, card)
	}
	if maxVal.Exists() {
		n, err := maxVal.Int64()
		if err != nil {
			return 0, nil, formatCUEError(err)
		}
		card, err := flags.CardMax(int(n))
		if err != nil {
			return 0, nil, wrapCompileError(err, path+".card_max", maxVal.Pos())
		}
		markers = append(markers, card)
	}

	// Resolve here so conflicting markers point at the field.
	if _, err := flags.Resolve(mult, markers...); err != nil {
		return 0, nil, wrapCompileError(err, path, v.Pos())
	}
	return mult, markers, nil
}

func optionalBool(v cue.Value, name string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func intList(v cue.Value) ([]int, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []int
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, int(n))
	}
	return out, nil
}

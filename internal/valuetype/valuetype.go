// Package valuetype holds attribute value type definitions and the registry
// that resolves them by name.
package valuetype

import (
	"strings"

	"github.com/roach88/typebridge/internal/ir"
)

// ValueType is a named attribute value type.
// Kind is the primitive kind; Super names an optional supertype.
type ValueType struct {
	Name     string  `json:"name"`
	Kind     ir.Kind `json:"value"`
	Super    string  `json:"sub,omitempty"`
	Abstract bool    `json:"abstract,omitempty"`
}

// New returns a concrete value type with no supertype.
func New(name string, kind ir.Kind) ValueType {
	return ValueType{Name: name, Kind: kind}
}

// Sub returns a subtype of vt named name. The kind is inherited.
func (vt ValueType) Sub(name string) ValueType {
	return ValueType{Name: name, Kind: vt.Kind, Super: vt.Name}
}

// AsAbstract returns a copy of vt with the abstract flag set.
func (vt ValueType) AsAbstract() ValueType {
	vt.Abstract = true
	return vt
}

// Equal reports whether two definitions are identical.
func (vt ValueType) Equal(other ValueType) bool {
	return vt == other
}

// IsZero reports whether vt is the zero value.
func (vt ValueType) IsZero() bool {
	return vt == ValueType{}
}

// SchemaText renders the attribute definition statement:
//
//	attribute <name>[, sub <super>], value <kind>[, abstract];
func (vt ValueType) SchemaText() string {
	var b strings.Builder
	b.WriteString("attribute ")
	b.WriteString(vt.Name)
	if vt.Super != "" {
		b.WriteString(", sub ")
		b.WriteString(vt.Super)
	}
	b.WriteString(", value ")
	b.WriteString(string(vt.Kind))
	if vt.Abstract {
		b.WriteString(", abstract")
	}
	b.WriteString(";")
	return b.String()
}

// String returns the type name.
func (vt ValueType) String() string {
	return vt.Name
}

// Literal is an operand tagged with the value type it was declared for.
// Typed expressions check Type against the resolved attribute.
type Literal struct {
	Type  ValueType
	Value ir.Value
}

// Of builds a Literal of type vt. A value whose kind cannot be compared
// with vt fails with a TypeMismatchError.
func (vt ValueType) Of(v any) (Literal, error) {
	val, err := ir.FromGo(v)
	if err != nil {
		return Literal{}, wrapMismatch(err, vt)
	}
	if !vt.Kind.Accepts(val.Kind()) {
		return Literal{}, mismatchf(vt, "%s value for %s attribute", val.Kind(), vt.Kind)
	}
	return Literal{Type: vt, Value: val}, nil
}

// MustOf is like Of but panics on error.
func (vt ValueType) MustOf(v any) Literal {
	lit, err := vt.Of(v)
	if err != nil {
		panic(err)
	}
	return lit
}

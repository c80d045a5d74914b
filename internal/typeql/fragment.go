package typeql

import (
	"strings"

	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/queryir"
)

// Binding ties a variable to the player of a role on the root instance.
type Binding struct {
	Var    string `json:"var"`
	Role   string `json:"role"`
	Player string `json:"player"`
}

// Condition is one compiled comparison.
//
// Owner is the variable whose attribute is tested: the root for
// unqualified paths, a role binding otherwise.
type Condition struct {
	Owner     string
	Role      string // empty for unqualified paths
	Field     string
	Attribute string
	Kind      ir.Kind
	Var       string
	Op        queryir.Op
	Operand   ir.Value
}

// Statement renders the condition on its attribute variable.
func (c Condition) Statement() string {
	return c.Var + " " + c.Op.Symbol() + " " + ir.Literal(c.Operand) + ";"
}

// Fragment is a compiled filter. It is immutable.
type Fragment struct {
	Type       string
	Root       string
	Bindings   []Binding
	Conditions []Condition
	Statements []string
}

// Text renders the match clause.
func (f *Fragment) Text() string {
	return "match\n" + strings.Join(f.Statements, "\n")
}

// String is Text.
func (f *Fragment) String() string {
	return f.Text()
}

// Binding returns the binding of role, if the fragment constrains it.
func (f *Fragment) Binding(role string) (Binding, bool) {
	for _, b := range f.Bindings {
		if b.Role == role {
			return b, true
		}
	}
	return Binding{}, false
}

// Fingerprint identifies the fragment by content. Equal text yields equal
// fingerprints.
func (f *Fragment) Fingerprint() string {
	return ir.MustFingerprint(ir.DomainFragment, map[string]any{
		"version":    ir.FragmentVersion,
		"type":       f.Type,
		"statements": append([]string{}, f.Statements...),
	})
}

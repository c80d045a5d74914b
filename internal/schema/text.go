package schema

import (
	"strings"
)

// OwnsClause renders "owns <label>[ <annotations>]".
func (f Field) OwnsClause() string {
	clause := "owns " + f.Attribute.Name
	if ann := f.Flags.AnnotationText(); ann != "" {
		clause += " " + ann
	}
	return clause
}

// DefineStatement renders the type's definition statement:
//
//	entity <name>[, sub <super>][, abstract][, owns <attr> <annotations>]*;
//	relation <name>[, sub <super>][, abstract][, relates <role>]*[, owns <attr> <annotations>]*;
//
// Only own roles and fields are listed; inherited ones come from the
// supertype's statement.
func (t *Type) DefineStatement() string {
	parts := []string{string(t.Kind) + " " + t.Name}
	if t.Super != nil {
		parts = append(parts, "sub "+t.Super.Name)
	}
	if t.Abstract {
		parts = append(parts, "abstract")
	}
	for _, r := range t.Roles {
		parts = append(parts, "relates "+r.Name)
	}
	for _, f := range t.Fields {
		parts = append(parts, f.OwnsClause())
	}
	return strings.Join(parts, ", ") + ";"
}

// PlaysStatement renders "<player> plays <relation>:<role>;".
func PlaysStatement(player, relation, role string) string {
	return player + " plays " + relation + ":" + role + ";"
}

// PlaysStatements renders one plays statement per own role of t.
func (t *Type) PlaysStatements() []string {
	out := make([]string, 0, len(t.Roles))
	for _, r := range t.Roles {
		out = append(out, PlaysStatement(r.Player.Name, t.Name, r.Name))
	}
	return out
}

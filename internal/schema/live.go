package schema

import (
	"context"
	"slices"

	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/valuetype"
)

// LiveSchema describes the schema a database currently holds.
type LiveSchema struct {
	Attributes []valuetype.ValueType `json:"attributes"`
	Types      []LiveType            `json:"types"`
}

// LiveType is one entity or relation type of a LiveSchema.
type LiveType struct {
	Name     string     `json:"name"`
	Kind     TypeKind   `json:"kind"`
	Super    string     `json:"sub,omitempty"`
	Abstract bool       `json:"abstract,omitempty"`
	Owns     []LiveOwns `json:"owns,omitempty"`
	Relates  []LiveRole `json:"relates,omitempty"`
}

// LiveOwns is an ownership with its annotations in canonical order.
type LiveOwns struct {
	Attribute   string   `json:"attribute"`
	Annotations []string `json:"annotations,omitempty"`
}

// LiveRole is a role and the types that play it.
type LiveRole struct {
	Name    string   `json:"name"`
	Players []string `json:"players,omitempty"`
}

// Introspector reads the live schema of a database.
type Introspector interface {
	Introspect(ctx context.Context) (*LiveSchema, error)
}

// Attribute returns the live attribute named name.
func (s *LiveSchema) Attribute(name string) (valuetype.ValueType, bool) {
	if s == nil {
		return valuetype.ValueType{}, false
	}
	for _, vt := range s.Attributes {
		if vt.Name == name {
			return vt, true
		}
	}
	return valuetype.ValueType{}, false
}

// Type returns the live type named name.
func (s *LiveSchema) Type(name string) (*LiveType, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Types {
		if s.Types[i].Name == name {
			return &s.Types[i], true
		}
	}
	return nil, false
}

// IsEmpty reports whether s holds no definitions.
func (s *LiveSchema) IsEmpty() bool {
	return s == nil || (len(s.Attributes) == 0 && len(s.Types) == 0)
}

// OwnsOf returns the ownership of attribute.
func (t *LiveType) OwnsOf(attribute string) (LiveOwns, bool) {
	for _, o := range t.Owns {
		if o.Attribute == attribute {
			return o, true
		}
	}
	return LiveOwns{}, false
}

// Role returns the live role named name.
func (t *LiveType) Role(name string) (LiveRole, bool) {
	for _, r := range t.Relates {
		if r.Name == name {
			return r, true
		}
	}
	return LiveRole{}, false
}

// Fingerprint hashes the canonical encoding of s.
func (s *LiveSchema) Fingerprint() string {
	return ir.MustFingerprint(ir.DomainSchema, s.canonical())
}

func (s *LiveSchema) canonical() map[string]any {
	attrs := []any{}
	types := []any{}
	if s != nil {
		for _, vt := range s.Attributes {
			attrs = append(attrs, vt.SchemaText())
		}
		for _, t := range s.Types {
			owns := []any{}
			for _, o := range t.Owns {
				owns = append(owns, map[string]any{"attribute": o.Attribute, "annotations": append([]string{}, o.Annotations...)})
			}
			roles := []any{}
			for _, r := range t.Relates {
				roles = append(roles, map[string]any{"name": r.Name, "players": append([]string{}, r.Players...)})
			}
			types = append(types, map[string]any{
				"name":     t.Name,
				"kind":     string(t.Kind),
				"sub":      t.Super,
				"abstract": t.Abstract,
				"owns":     owns,
				"relates":  roles,
			})
		}
	}
	return map[string]any{"attributes": attrs, "types": types}
}

// Snapshot returns the declared schema as the LiveSchema a database holds
// after a successful sync.
func (m *Manager) Snapshot() *LiveSchema {
	snap := &LiveSchema{
		Attributes: m.registry.All(),
		Types:      []LiveType{},
	}
	for _, t := range m.Types() {
		lt := LiveType{Name: t.Name, Kind: t.Kind, Abstract: t.Abstract}
		if t.Super != nil {
			lt.Super = t.Super.Name
		}
		for _, f := range t.Fields {
			lt.Owns = append(lt.Owns, LiveOwns{Attribute: f.Label(), Annotations: f.Flags.Annotations()})
		}
		for _, r := range t.Roles {
			lt.Relates = append(lt.Relates, LiveRole{Name: r.Name, Players: []string{r.Player.Name}})
		}
		snap.Types = append(snap.Types, lt)
	}
	return snap
}

// livePlayers returns the sorted player names of role on relation, or nil.
func livePlayers(live *LiveSchema, relation, role string) ([]string, bool) {
	lt, ok := live.Type(relation)
	if !ok {
		return nil, false
	}
	r, ok := lt.Role(role)
	if !ok {
		return nil, false
	}
	players := append([]string(nil), r.Players...)
	slices.Sort(players)
	return players, true
}

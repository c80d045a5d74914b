package schema

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/logger"
	"github.com/roach88/typebridge/internal/metrics"
)

// SyncMode selects how declared and live schemas are reconciled.
type SyncMode string

const (
	// SyncDiff emits only missing definitions and refuses to touch
	// incompatible live ones.
	SyncDiff SyncMode = "diff"
	// SyncForce undefines incompatible live definitions, then defines the
	// full declared schema.
	SyncForce SyncMode = "force"
)

// ParseSyncMode maps "diff" or "force" to a SyncMode.
func ParseSyncMode(s string) (SyncMode, error) {
	switch SyncMode(s) {
	case SyncDiff, SyncForce:
		return SyncMode(s), nil
	}
	return "", errors.Configurationf("sync", "unknown mode %q", s)
}

// Executor runs schema statements against a database.
type Executor interface {
	Define(ctx context.Context, statements []string) error
	Undefine(ctx context.Context, statements []string) error
}

// SyncPlan is the statement script that reconciles a live schema with the
// declared one. Undefine runs before Define.
type SyncPlan struct {
	Mode        SyncMode `json:"mode"`
	Undefine    []string `json:"undefine"`
	Define      []string `json:"define"`
	Conflicts   []string `json:"conflicts,omitempty"`
	Fingerprint string   `json:"fingerprint"`
}

// Empty reports whether the plan changes nothing.
func (p *SyncPlan) Empty() bool {
	return len(p.Undefine) == 0 && len(p.Define) == 0
}

// Text renders the plan as a TypeQL script.
func (p *SyncPlan) Text() string {
	var b strings.Builder
	if len(p.Undefine) > 0 {
		b.WriteString("undefine\n")
		for _, s := range p.Undefine {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}
	if len(p.Define) > 0 {
		b.WriteString("define\n")
		for _, s := range p.Define {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// conflict is an incompatible live definition.
type conflict struct {
	attribute string // set for attribute conflicts
	typ       string // set for type conflicts
	message   string
}

// Plan computes the statements that bring live to the declared schema.
//
// In diff mode any incompatibility fails with one SchemaConflictError that
// lists every conflict. In force mode the conflicting live types (and live
// types depending on conflicting attributes or types) are undefined,
// subtypes first, followed by conflicting attributes; then the full
// declared schema is defined.
func (m *Manager) Plan(live *LiveSchema, mode SyncMode) (*SyncPlan, error) {
	if _, err := ParseSyncMode(string(mode)); err != nil {
		return nil, err
	}

	plan := &SyncPlan{
		Mode:        mode,
		Undefine:    []string{},
		Define:      []string{},
		Fingerprint: m.Snapshot().Fingerprint(),
	}

	conflicts := m.conflicts(live)
	for _, c := range conflicts {
		plan.Conflicts = append(plan.Conflicts, c.message)
	}

	if mode == SyncForce {
		plan.Undefine = undefineStatements(live, conflicts)
		plan.Define = m.Define()
		return plan, nil
	}

	if len(conflicts) > 0 {
		return nil, errors.WithHint(
			errors.SchemaConflictf("", "%d conflicting definition(s): %s", len(conflicts), strings.Join(plan.Conflicts, "; ")),
			"resolve the conflicts or run a forced sync")
	}
	plan.Define = m.diff(live)
	return plan, nil
}

func (m *Manager) conflicts(live *LiveSchema) []conflict {
	var out []conflict

	for _, vt := range m.registry.All() {
		lv, ok := live.Attribute(vt.Name)
		if !ok {
			continue
		}
		switch {
		case lv.Kind != vt.Kind:
			out = append(out, conflict{attribute: vt.Name, message: fmt.Sprintf("attribute %s: value %s, declared %s", vt.Name, lv.Kind, vt.Kind)})
		case lv.Super != vt.Super:
			out = append(out, conflict{attribute: vt.Name, message: fmt.Sprintf("attribute %s: sub %q, declared %q", vt.Name, lv.Super, vt.Super)})
		case lv.Abstract != vt.Abstract:
			out = append(out, conflict{attribute: vt.Name, message: fmt.Sprintf("attribute %s: abstract %t, declared %t", vt.Name, lv.Abstract, vt.Abstract)})
		}
	}

	for _, t := range m.Types() {
		lt, ok := live.Type(t.Name)
		if !ok {
			continue
		}
		super := ""
		if t.Super != nil {
			super = t.Super.Name
		}
		switch {
		case lt.Kind != t.Kind:
			out = append(out, conflict{typ: t.Name, message: fmt.Sprintf("type %s: %s, declared %s", t.Name, lt.Kind, t.Kind)})
			continue
		case lt.Super != super:
			out = append(out, conflict{typ: t.Name, message: fmt.Sprintf("type %s: sub %q, declared %q", t.Name, lt.Super, super)})
			continue
		case lt.Abstract != t.Abstract:
			out = append(out, conflict{typ: t.Name, message: fmt.Sprintf("type %s: abstract %t, declared %t", t.Name, lt.Abstract, t.Abstract)})
			continue
		}
		for _, f := range t.Fields {
			lo, ok := lt.OwnsOf(f.Label())
			if !ok {
				continue
			}
			want := f.Flags.Annotations()
			if !slices.Equal(lo.Annotations, want) {
				out = append(out, conflict{typ: t.Name, message: fmt.Sprintf("type %s owns %s: %q, declared %q",
					t.Name, f.Label(), strings.Join(lo.Annotations, " "), strings.Join(want, " "))})
			}
		}
		for _, r := range t.Roles {
			lr, ok := lt.Role(r.Name)
			if !ok {
				continue
			}
			for _, p := range lr.Players {
				if p != r.Player.Name {
					out = append(out, conflict{typ: t.Name, message: fmt.Sprintf("relation %s role %s: played by %s, declared %s",
						t.Name, r.Name, p, r.Player.Name)})
					break
				}
			}
		}
	}
	return out
}

// diff returns only the statements live is missing.
func (m *Manager) diff(live *LiveSchema) []string {
	var out []string

	for _, vt := range m.registry.All() {
		if _, ok := live.Attribute(vt.Name); !ok {
			out = append(out, vt.SchemaText())
		}
	}

	types := m.Types()
	for _, t := range types {
		lt, ok := live.Type(t.Name)
		if !ok {
			out = append(out, t.DefineStatement())
			continue
		}
		var parts []string
		for _, r := range t.Roles {
			if _, ok := lt.Role(r.Name); !ok {
				parts = append(parts, "relates "+r.Name)
			}
		}
		for _, f := range t.Fields {
			if _, ok := lt.OwnsOf(f.Label()); !ok {
				parts = append(parts, f.OwnsClause())
			}
		}
		if len(parts) > 0 {
			out = append(out, string(t.Kind)+" "+t.Name+", "+strings.Join(parts, ", ")+";")
		}
	}

	for _, t := range types {
		for _, r := range t.Roles {
			players, _ := livePlayers(live, t.Name, r.Name)
			if !slices.Contains(players, r.Player.Name) {
				out = append(out, PlaysStatement(r.Player.Name, t.Name, r.Name))
			}
		}
	}
	return out
}

// undefineStatements lists the live definitions a forced sync removes.
func undefineStatements(live *LiveSchema, conflicts []conflict) []string {
	if live.IsEmpty() || len(conflicts) == 0 {
		return []string{}
	}

	attrs := map[string]bool{}
	types := map[string]bool{}
	for _, c := range conflicts {
		if c.attribute != "" {
			attrs[c.attribute] = true
		}
		if c.typ != "" {
			types[c.typ] = true
		}
	}

	// Attribute subtypes go with their supertype.
	for changed := true; changed; {
		changed = false
		for _, vt := range live.Attributes {
			if !attrs[vt.Name] && vt.Super != "" && attrs[vt.Super] {
				attrs[vt.Name] = true
				changed = true
			}
		}
	}

	// Types owning a removed attribute, subtyping a removed type, or
	// relating a removed player go too.
	for changed := true; changed; {
		changed = false
		for _, lt := range live.Types {
			if types[lt.Name] {
				continue
			}
			if dependsOn(lt, attrs, types) {
				types[lt.Name] = true
				changed = true
			}
		}
	}

	out := []string{}
	for i := len(live.Types) - 1; i >= 0; i-- {
		if lt := live.Types[i]; types[lt.Name] {
			out = append(out, lt.Name+";")
		}
	}
	for i := len(live.Attributes) - 1; i >= 0; i-- {
		if vt := live.Attributes[i]; attrs[vt.Name] {
			out = append(out, vt.Name+";")
		}
	}
	return out
}

func dependsOn(lt LiveType, attrs, types map[string]bool) bool {
	if lt.Super != "" && types[lt.Super] {
		return true
	}
	for _, o := range lt.Owns {
		if attrs[o.Attribute] {
			return true
		}
	}
	for _, r := range lt.Relates {
		for _, p := range r.Players {
			if types[p] {
				return true
			}
		}
	}
	return false
}

// Apply runs plan through exec: undefine first, then define.
func (m *Manager) Apply(ctx context.Context, exec Executor, plan *SyncPlan) error {
	log := logger.Named("schema")

	if len(plan.Undefine) > 0 {
		if err := exec.Undefine(ctx, plan.Undefine); err != nil {
			return errors.Wrapf(err, "%s sync: undefine", plan.Mode)
		}
		metrics.SyncStatements.WithLabelValues(string(plan.Mode), "undefine").Add(float64(len(plan.Undefine)))
	}
	if len(plan.Define) > 0 {
		if err := exec.Define(ctx, plan.Define); err != nil {
			return errors.Wrapf(err, "%s sync: define", plan.Mode)
		}
		metrics.SyncStatements.WithLabelValues(string(plan.Mode), "define").Add(float64(len(plan.Define)))
	}

	log.Infow("Schema synced",
		logger.FieldMode, plan.Mode,
		"undefined", len(plan.Undefine),
		"defined", len(plan.Define),
		logger.FieldFingerprint, plan.Fingerprint)
	return nil
}

// Sync reconciles the database behind exec with the declared schema. The
// live schema is read from exec when it implements Introspector; otherwise
// the database is assumed empty.
func (m *Manager) Sync(ctx context.Context, exec Executor, mode SyncMode) (*SyncPlan, error) {
	live := &LiveSchema{}
	if intro, ok := exec.(Introspector); ok {
		var err error
		if live, err = intro.Introspect(ctx); err != nil {
			return nil, errors.Wrap(err, "introspect live schema")
		}
	}

	plan, err := m.Plan(live, mode)
	if err != nil {
		return nil, err
	}
	if err := m.Apply(ctx, exec, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

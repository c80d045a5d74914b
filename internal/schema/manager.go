package schema

import (
	"strings"
	"sync"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/logger"
	"github.com/roach88/typebridge/internal/metrics"
	"github.com/roach88/typebridge/internal/valuetype"
)

// Manager holds the registered types of one schema and the value type
// registry their attributes resolve through. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	registry *valuetype.Registry
	types    map[string]*Type
	order    []string
}

// NewManager returns a Manager resolving attributes through reg. A nil reg
// gets a fresh registry.
func NewManager(reg *valuetype.Registry) *Manager {
	if reg == nil {
		reg = valuetype.NewRegistry()
	}
	return &Manager{
		registry: reg,
		types:    make(map[string]*Type),
	}
}

// Registry returns the value type registry.
func (m *Manager) Registry() *valuetype.Registry {
	return m.registry
}

// Register adds types in order.
//
// A supertype or role player must be registered before the type that
// references it (SchemaError); a relation may play its own roles.
// Re-registering an identical definition is a no-op; a different
// definition under a registered name fails with DuplicateTypeError.
// Owned attributes are registered into the value type registry.
//
// Types before the first failing one stay registered.
func (m *Manager) Register(types ...*Type) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range types {
		if err := m.register(t); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) register(t *Type) error {
	if t == nil {
		return errors.Configurationf("", "nil type")
	}
	if existing, ok := m.types[t.Name]; ok {
		if sameDefinition(existing, t) {
			return nil
		}
		return errors.DuplicateTypef(t.Name, "already registered as %q", existing.DefineStatement())
	}

	if t.Super != nil {
		if err := m.requireRegistered(t.Super, t.Name, "supertype"); err != nil {
			return err
		}
	}
	for _, r := range t.Roles {
		if r.Player == t || r.Player.Name == t.Name {
			continue
		}
		if err := m.requireRegistered(r.Player, t.Name+"."+r.Name, "role player"); err != nil {
			return err
		}
	}

	attrs := make([]valuetype.ValueType, len(t.Fields))
	for i, f := range t.Fields {
		attrs[i] = f.Attribute
	}
	if err := m.registry.RegisterAll(attrs...); err != nil {
		return errors.Wrapf(err, "type %s attributes", t.Name)
	}

	m.types[t.Name] = t
	m.order = append(m.order, t.Name)
	metrics.RegisteredTypes.Inc()
	logger.Logger.Debugw("Registered type",
		logger.FieldComponent, "schema",
		logger.FieldType, t.Name,
		"kind", t.Kind)
	return nil
}

func (m *Manager) requireRegistered(ref *Type, subject, what string) error {
	registered, ok := m.types[ref.Name]
	if !ok {
		return errors.WithHintf(
			errors.Schemaf(subject, "%s %s is not registered", what, ref.Name),
			"register %s first", ref.Name)
	}
	if !sameDefinition(registered, ref) {
		return errors.Schemaf(subject, "%s %s differs from the registered definition", what, ref.Name)
	}
	return nil
}

// sameDefinition compares the rendered statements and role players.
func sameDefinition(a, b *Type) bool {
	if a == b {
		return true
	}
	if a.DefineStatement() != b.DefineStatement() {
		return false
	}
	return strings.Join(a.PlaysStatements(), "\n") == strings.Join(b.PlaysStatements(), "\n")
}

// MustRegister is like Register but panics on error.
func (m *Manager) MustRegister(types ...*Type) {
	if err := m.Register(types...); err != nil {
		panic(err)
	}
}

// Lookup returns the type registered under name.
func (m *Manager) Lookup(name string) (*Type, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.types[name]
	return t, ok
}

// Types returns the registered types in registration order.
func (m *Manager) Types() []*Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Type, len(m.order))
	for i, name := range m.order {
		out[i] = m.types[name]
	}
	return out
}

// Define renders the full declared schema: attribute statements in
// registration order, then type statements in registration order, then
// plays statements.
func (m *Manager) Define() []string {
	types := m.Types()

	var out []string
	for _, vt := range m.registry.All() {
		out = append(out, vt.SchemaText())
	}
	for _, t := range types {
		out = append(out, t.DefineStatement())
	}
	for _, t := range types {
		out = append(out, t.PlaysStatements()...)
	}
	return out
}

// DefineText joins Define with newlines.
func (m *Manager) DefineText() string {
	stmts := m.Define()
	if len(stmts) == 0 {
		return ""
	}
	return strings.Join(stmts, "\n") + "\n"
}

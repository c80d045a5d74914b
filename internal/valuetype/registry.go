package valuetype

import (
	"sync"
	"sync/atomic"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
)

// snapshot is an immutable view of the registry contents.
type snapshot struct {
	byName map[string]ValueType
	order  []string
}

// Registry maps value type names to definitions.
//
// Register calls are serialised; each successful registration publishes a
// new snapshot, so Resolve and the other readers never take the lock.
type Registry struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.snap.Store(&snapshot{byName: map[string]ValueType{}})
	return r
}

// Register adds vt.
//
// Re-registering an identical definition is a no-op. A different definition
// under an existing name fails with DuplicateTypeError. A supertype must
// already be registered (UnknownTypeError) and share vt's kind (SchemaError).
// A subtype declared without a kind inherits the supertype's.
func (r *Registry) Register(vt ValueType) error {
	return r.RegisterAll(vt)
}

// RegisterAll registers vts as one batch. Every definition is checked
// before any is published: on error the registry is unchanged. A supertype
// may be registered earlier in the same batch.
func (r *Registry) RegisterAll(vts ...ValueType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snap.Load()
	var next *snapshot
	for _, vt := range vts {
		view := cur
		if next != nil {
			view = next
		}
		vt, added, err := admit(view, vt)
		if err != nil {
			return err
		}
		if !added {
			continue
		}
		if next == nil {
			next = cur.clone(len(vts))
		}
		next.byName[vt.Name] = vt
		next.order = append(next.order, vt.Name)
	}
	if next != nil {
		r.snap.Store(next)
	}
	return nil
}

// admit normalises vt against snap and reports whether it is new.
func admit(snap *snapshot, vt ValueType) (ValueType, bool, error) {
	if vt.Name == "" {
		return vt, false, errors.Configurationf("", "value type name is empty")
	}

	if vt.Kind != "" {
		if kind, ok := ir.ParseKind(string(vt.Kind)); ok {
			vt.Kind = kind
		} else if _, exists := snap.byName[vt.Name]; !exists {
			return vt, false, errors.Configurationf(vt.Name, "unknown value kind %q", vt.Kind)
		}
	}
	super, superOK := snap.byName[vt.Super]
	if vt.Kind == "" && vt.Super != "" && superOK {
		vt.Kind = super.Kind
	}

	if existing, ok := snap.byName[vt.Name]; ok {
		if existing.Equal(vt) {
			return vt, false, nil
		}
		return vt, false, errors.DuplicateTypef(vt.Name, "already registered as %q", existing.SchemaText())
	}

	if vt.Super != "" {
		if !superOK {
			return vt, false, errors.WithHintf(
				errors.UnknownTypef(vt.Super, "supertype of %q is not registered", vt.Name),
				"register %s before %s", vt.Super, vt.Name)
		}
		if vt.Kind != super.Kind {
			return vt, false, errors.Schemaf(vt.Name, "kind %s differs from supertype %s kind %s", vt.Kind, super.Name, super.Kind)
		}
	}
	if vt.Kind == "" {
		return vt, false, errors.Configurationf(vt.Name, "value kind is required")
	}
	return vt, true, nil
}

func (s *snapshot) clone(extra int) *snapshot {
	next := &snapshot{
		byName: make(map[string]ValueType, len(s.byName)+extra),
		order:  make([]string, len(s.order), len(s.order)+extra),
	}
	for k, v := range s.byName {
		next.byName[k] = v
	}
	copy(next.order, s.order)
	return next
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(vts ...ValueType) {
	for _, vt := range vts {
		if err := r.Register(vt); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the definition registered under name.
func (r *Registry) Resolve(name string) (ValueType, error) {
	vt, ok := r.snap.Load().byName[name]
	if !ok {
		return ValueType{}, errors.UnknownTypef(name, "value type is not registered")
	}
	return vt, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.snap.Load().byName[name]
	return ok
}

// SchemaText renders the definition registered under name.
func (r *Registry) SchemaText(name string) (string, error) {
	vt, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	return vt.SchemaText(), nil
}

// All returns every definition in registration order.
func (r *Registry) All() []ValueType {
	snap := r.snap.Load()
	out := make([]ValueType, len(snap.order))
	for i, name := range snap.order {
		out[i] = snap.byName[name]
	}
	return out
}

// Len returns the number of registered value types.
func (r *Registry) Len() int {
	return len(r.snap.Load().order)
}

// IsSubtype reports whether name is ancestor or inherits from it.
func (r *Registry) IsSubtype(name, ancestor string) bool {
	snap := r.snap.Load()
	for name != "" {
		if name == ancestor {
			return true
		}
		vt, ok := snap.byName[name]
		if !ok {
			return false
		}
		name = vt.Super
	}
	return false
}

func mismatchf(vt ValueType, format string, args ...any) error {
	return errors.TypeMismatchf(vt.Name, format, args...)
}

func wrapMismatch(err error, vt ValueType) error {
	return errors.Wrapf(err, "literal for %s", vt.Name)
}

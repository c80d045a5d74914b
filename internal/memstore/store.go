// Package memstore is an in-memory instance store that executes compiled
// match fragments. It backs scenario runs and tests; it is not a database.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/btree"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/queryir"
	"github.com/roach88/typebridge/internal/schema"
	"github.com/roach88/typebridge/internal/typeql"
)

type instance struct {
	seq   int64
	iid   string
	typ   *schema.Type
	attrs map[string][]ir.Value // by attribute label
	roles map[string][]string   // role name -> player IIDs
}

func lessBySeq(a, b *instance) bool {
	return a.seq < b.seq
}

// Store holds instances in insertion order. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	seq       int64
	instances *btree.BTreeG[*instance]
	byIID     map[string]*instance
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		instances: btree.NewG(8, lessBySeq),
		byIID:     make(map[string]*instance),
	}
}

// Insert adds an instance of t with generated IID.
//
// attrs is keyed by attribute label, roles by role name with player IIDs.
// Attributes must be owned by t and match their kind; roles must be
// declared on t and refer to existing instances of the player type.
func (s *Store) Insert(t *schema.Type, attrs map[string][]ir.Value, roles map[string][]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert("", t, attrs, roles)
}

// InsertAs is Insert with a caller-chosen IID.
func (s *Store) InsertAs(iid string, t *schema.Type, attrs map[string][]ir.Value, roles map[string][]string) error {
	if iid == "" {
		return errors.Configurationf("", "empty iid")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.insert(iid, t, attrs, roles)
	return err
}

func (s *Store) insert(iid string, t *schema.Type, attrs map[string][]ir.Value, roles map[string][]string) (string, error) {
	if t == nil {
		return "", errors.Configurationf("", "nil type")
	}
	if t.Abstract {
		return "", errors.Schemaf(t.Name, "cannot insert an instance of an abstract type")
	}

	inst := &instance{
		typ:   t,
		attrs: make(map[string][]ir.Value, len(attrs)),
		roles: make(map[string][]string, len(roles)),
	}

	owned := map[string]schema.Field{}
	for _, f := range t.AllFields() {
		owned[f.Label()] = f
	}
	for label, values := range attrs {
		f, ok := owned[label]
		if !ok {
			return "", errors.Schemaf(t.Name+"."+label, "%s does not own %s", t.Name, label)
		}
		for _, v := range values {
			if v == nil || f.Attribute.Kind != v.Kind() {
				return "", errors.TypeMismatchf(label, "value %s for %s attribute", ir.Format(v), f.Attribute.Kind)
			}
		}
		inst.attrs[label] = append([]ir.Value(nil), values...)
	}

	for role, players := range roles {
		r, ok := t.RoleByName(role)
		if !ok {
			return "", errors.Schemaf(t.Name+"."+role, "%s has no role %q", t.Name, role)
		}
		for _, pid := range players {
			p, ok := s.byIID[pid]
			if !ok {
				return "", errors.Schemaf(t.Name+"."+role, "player %s does not exist", pid)
			}
			if !p.typ.IsA(r.Player.Name) {
				return "", errors.Schemaf(t.Name+"."+role, "%s is a %s, role needs %s", pid, p.typ.Name, r.Player.Name)
			}
		}
		inst.roles[role] = append([]string(nil), players...)
	}

	seq := s.seq + 1
	if iid == "" {
		iid = s.freshIID(seq)
	} else if _, dup := s.byIID[iid]; dup {
		return "", errors.DuplicateTypef(iid, "instance already exists")
	}
	s.seq = seq
	inst.seq = seq
	inst.iid = iid

	s.byIID[iid] = inst
	s.instances.ReplaceOrInsert(inst)
	return iid, nil
}

// freshIID returns the first generated IID from n on that no caller took.
func (s *Store) freshIID(n int64) string {
	for ; ; n++ {
		iid := fmt.Sprintf("0x%016x", n)
		if _, taken := s.byIID[iid]; !taken {
			return iid
		}
	}
}

// Len returns the number of instances.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instances.Len()
}

// Execute returns, in insertion order, the IIDs of instances of the
// fragment's type (subtypes included) that satisfy every condition.
//
// Each condition on the root is existential over the root's values for
// that attribute. Conditions sharing a role binding must all hold for one
// player of that role.
func (s *Store) Execute(ctx context.Context, frag *typeql.Fragment) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{}
	var evalErr error
	s.instances.Ascend(func(inst *instance) bool {
		if err := ctx.Err(); err != nil {
			evalErr = err
			return false
		}
		if !inst.typ.IsA(frag.Type) {
			return true
		}
		ok, err := s.satisfies(inst, frag)
		if err != nil {
			evalErr = err
			return false
		}
		if ok {
			out = append(out, inst.iid)
		}
		return true
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return out, nil
}

func (s *Store) satisfies(root *instance, frag *typeql.Fragment) (bool, error) {
	byOwner := map[string][]typeql.Condition{}
	for _, c := range frag.Conditions {
		byOwner[c.Owner] = append(byOwner[c.Owner], c)
	}

	for _, c := range byOwner[frag.Root] {
		ok, err := holds(root, c)
		if err != nil || !ok {
			return false, err
		}
	}

	for _, b := range frag.Bindings {
		found := false
		for _, pid := range root.roles[b.Role] {
			player := s.byIID[pid]
			all := true
			for _, c := range byOwner[b.Var] {
				ok, err := holds(player, c)
				if err != nil {
					return false, err
				}
				if !ok {
					all = false
					break
				}
			}
			if all {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

// holds reports whether some value of c's attribute on inst satisfies c.
func holds(inst *instance, c typeql.Condition) (bool, error) {
	if c.Op == queryir.OpLike {
		return false, ErrPatternDelegated
	}
	for _, v := range inst.attrs[c.Attribute] {
		ok, err := matches(c.Op, v, c.Operand)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

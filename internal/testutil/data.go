package testutil

import (
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/memstore"
)

// Seed inserts the employment fixture data into store and returns the
// IIDs keyed by a short handle:
//
//	alice   30  NYC          techcorp  Technology
//	bob     25  LA           finco     Finance
//	charlie 40  NYC
//
//	e1  alice   -> techcorp  Engineer  100000
//	e2  bob     -> techcorp  Designer   80000
//	e3  charlie -> finco     Analyst    90000
func (s EmploymentSchema) Seed(store *memstore.Store) (map[string]string, error) {
	ids := map[string]string{}
	people := []struct {
		handle string
		age    int64
		city   string
	}{
		{"alice", 30, "NYC"},
		{"bob", 25, "LA"},
		{"charlie", 40, "NYC"},
	}
	for _, p := range people {
		iid, err := store.Insert(s.Person, map[string][]ir.Value{
			"name": {ir.String(p.handle)},
			"age":  {ir.Integer(p.age)},
			"city": {ir.String(p.city)},
		}, nil)
		if err != nil {
			return nil, err
		}
		ids[p.handle] = iid
	}

	companies := []struct{ handle, name, industry string }{
		{"techcorp", "TechCorp", "Technology"},
		{"finco", "FinCo", "Finance"},
	}
	for _, c := range companies {
		iid, err := store.Insert(s.Company, map[string][]ir.Value{
			"name":     {ir.String(c.name)},
			"industry": {ir.String(c.industry)},
		}, nil)
		if err != nil {
			return nil, err
		}
		ids[c.handle] = iid
	}

	employments := []struct {
		handle, employee, employer, title string
		salary                            float64
	}{
		{"e1", "alice", "techcorp", "Engineer", 100000},
		{"e2", "bob", "techcorp", "Designer", 80000},
		{"e3", "charlie", "finco", "Analyst", 90000},
	}
	for _, e := range employments {
		iid, err := store.Insert(s.Employment, map[string][]ir.Value{
			"title":  {ir.String(e.title)},
			"salary": {ir.Double(e.salary)},
		}, map[string][]string{
			"employee": {ids[e.employee]},
			"employer": {ids[e.employer]},
		})
		if err != nil {
			return nil, err
		}
		ids[e.handle] = iid
	}
	return ids, nil
}

// MustSeed is Seed that panics on error.
func (s EmploymentSchema) MustSeed(store *memstore.Store) map[string]string {
	ids, err := s.Seed(store)
	if err != nil {
		panic(err)
	}
	return ids
}

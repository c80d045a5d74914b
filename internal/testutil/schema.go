package testutil

import (
	"github.com/roach88/typebridge/internal/flags"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/schema"
	"github.com/roach88/typebridge/internal/valuetype"
)

// Attribute value types of the employment fixture.
var (
	Name     = valuetype.New("name", ir.KindString)
	Age      = valuetype.New("age", ir.KindInteger)
	City     = valuetype.New("city", ir.KindString)
	Industry = valuetype.New("industry", ir.KindString)
	Title    = valuetype.New("title", ir.KindString)
	Salary   = valuetype.New("salary", ir.KindDouble)
)

// EmploymentSchema is a registered person/company/employment schema.
type EmploymentSchema struct {
	Manager    *schema.Manager
	Person     *schema.Type
	Company    *schema.Type
	Employment *schema.Type
}

// Employment builds and registers the fixture:
//
//	entity person, owns name @key, owns age @card(0..1), owns city @card(0..1);
//	entity company, owns name @key, owns industry @card(0..1);
//	relation employment, relates employee, relates employer,
//	    owns title @card(0..1), owns salary @card(0..1);
//
// Each call returns fresh types and a fresh manager.
func Employment() EmploymentSchema {
	person := schema.NewEntity("person").
		Owns("name", Name, flags.Required, flags.Key{}).
		Owns("age", Age, flags.Optional).
		Owns("city", City, flags.Optional).
		MustBuild()
	company := schema.NewEntity("company").
		Owns("name", Name, flags.Required, flags.Key{}).
		Owns("industry", Industry, flags.Optional).
		MustBuild()
	employment := schema.NewRelation("employment").
		Relates("employee", person).
		Relates("employer", company).
		Owns("title", Title, flags.Optional).
		Owns("salary", Salary, flags.Optional).
		MustBuild()

	m := schema.NewManager(nil)
	m.MustRegister(person, company, employment)
	return EmploymentSchema{Manager: m, Person: person, Company: company, Employment: employment}
}

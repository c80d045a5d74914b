package schema

import (
	"github.com/roach88/typebridge/internal/flags"
	"github.com/roach88/typebridge/internal/ir"
	"github.com/roach88/typebridge/internal/valuetype"
)

var (
	nameAttr     = valuetype.New("name", ir.KindString)
	ageAttr      = valuetype.New("age", ir.KindInteger)
	cityAttr     = valuetype.New("city", ir.KindString)
	industryAttr = valuetype.New("industry", ir.KindString)
	titleAttr    = valuetype.New("title", ir.KindString)
	salaryAttr   = valuetype.New("salary", ir.KindDouble)
)

type employmentSchema struct {
	person, company, employment *Type
}

func buildEmployment() employmentSchema {
	person := NewEntity("person").
		Owns("name", nameAttr, flags.Required, flags.Key{}).
		Owns("age", ageAttr, flags.Optional).
		Owns("city", cityAttr, flags.Optional).
		MustBuild()
	company := NewEntity("company").
		Owns("name", nameAttr, flags.Required, flags.Key{}).
		Owns("industry", industryAttr, flags.Optional).
		MustBuild()
	employment := NewRelation("employment").
		Relates("employee", person).
		Relates("employer", company).
		Owns("title", titleAttr, flags.Optional).
		Owns("salary", salaryAttr, flags.Optional).
		MustBuild()
	return employmentSchema{person: person, company: company, employment: employment}
}

func newEmploymentManager() (*Manager, employmentSchema) {
	s := buildEmployment()
	m := NewManager(nil)
	m.MustRegister(s.person, s.company, s.employment)
	return m, s
}

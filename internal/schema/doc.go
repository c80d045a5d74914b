// Package schema declares entity and relation types, registers them with a
// Manager, renders their definition statements and reconciles them with a
// live database schema.
//
// Types are declared with builders:
//
//	person := schema.NewEntity("person").
//		Owns("name", name, flags.Required, flags.Key{}).
//		Owns("age", age, flags.Optional).
//		MustBuild()
//
//	employment := schema.NewRelation("employment").
//		Relates("employee", person).
//		Relates("employer", company).
//		Owns("salary", salary, flags.Optional).
//		MustBuild()
//
// and render as:
//
//	entity person, owns name @key, owns age @card(0..1);
//	relation employment, relates employee, relates employer, owns salary @card(0..1);
//	person plays employment:employee;
//
// Typed accessors build filter comparisons checked against the declared
// attribute:
//
//	employment.Role("employee").Attr("age").Gt(30)
package schema

// Package harness runs filter scenarios end to end.
//
// A scenario names a directory of CUE declarations, a set of instances to
// load and a list of filters with their expected matches:
//
//	name: employment_filters
//	description: role paths and keyword lookups
//	schema: ../../compiler/testdata/employment
//	data:
//	  - {id: alice, type: person, attrs: {name: Alice, age: 30, city: NYC}}
//	  - {id: e1, type: employment, roles: {employee: [alice], employer: [techcorp]}}
//	queries:
//	  - name: senior_staff
//	    type: employment
//	    where:
//	      - {key: employee__age__gte, value: 30}
//	    expect: [e1]
//
// Each run uses a fresh schema manager and in-memory store, so scenarios
// are isolated and repeatable. RunWithGolden additionally compares the
// compiled define statements, fragments and fingerprints with a golden
// file under testdata/golden.
package harness

// Package typeql compiles filter queries into TypeQL match fragments.
//
// Compilation resolves every comparison against the type under query and
// emits statements in a fixed shape:
//
//	match
//	$v0 isa employment;                  root binding
//	$v0 links (employee: $v1);           role binding, first use only
//	$v1 has age $v2;                     fresh attribute variable
//	$v2 > 25;                            condition
//
// Variables are numbered by first appearance and statements follow the
// insertion order of comparisons, so compiling the same query twice yields
// byte-identical text.
//
// Compilation is all or nothing: any resolution or type error aborts it and
// no fragment is returned.
package typeql

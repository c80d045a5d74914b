// Package queryir provides the filter expression IR shared by the keyword
// lookup surface and the typed accessor surface.
//
// ARCHITECTURE:
//
// Both filter surfaces produce the same node, a Comparison:
//
//	Kw("employee__age__gt", 25)           ─┐
//	                                       ├─→ Comparison{[employee age], gt, 25}
//	Employment.Role("employee").Attr("age").Gt(25) ─┘
//
// and the back end (package typeql) consumes only Comparisons, so the two
// surfaces can be freely mixed in one filter call.
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed with marker methods. Only this package
// implements them, so back ends can switch exhaustively:
//
//	switch p := pred.(type) {
//	case Comparison:
//	case And:
//	case Lookup:
//	}
//
// CONJUNCTION ONLY:
//
// There is no Or node. Chained filter calls append to an And; a result
// set can only be narrowed.
//
// KEYWORD KEYS:
//
//	segment[__segment...][__op]
//
// A trailing segment naming a known operator is the operator, unless it is
// the only segment. Otherwise the operator is eq and the final segment is
// the attribute.
package queryir

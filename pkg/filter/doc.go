// Package filter compiles the visual query tree into the AQL filter string
// understood by the search backend.
//
// Layers, bottom up:
//
//	operators.go   (type, format, enum) -> ordered operator templates
//	condition.go   one leaf (field, operator, value) -> fragment
//	expression.go  one node (connector, brackets, not, context) -> Fragment
//	builder.go     expression list + Meta -> CompiledQuery
package filter

// --- OUTPUT DSL ---
//
// comparison  : FIELD ( "==" | "!=" | "<" | ">" | "<=" | ">=" | "in" ) operand ;
// operand     : STRING | NUMBER | "true" | "false" | "[" list "]"
//             | "exists(true)" | "type(10)" | "size(" N ")"
//             | "regex(" STRING [ "," "\"i\"" ] ")"
//             | "date(" STRING ")"
//             | "match([" filter "])"
//             | "match({\"$gte\": " N ", \"$lte\": " N "})" ;
// filter      : [ "not" ] ( comparison | "(" filter ")" ) ( ( "and" | "or" ) filter )* ;
//
// Dates are relative to NOW: date("NOW - 7d"), date("NOW + 3h").
// IP subnets and versions are compared on the companion FIELD_raw field.
//
// Examples:
//
//	specific_data.data.hostname == regex("a\.b", "i")
//	(specific_data.data.last_seen >= date("NOW - 7d"))
//	("specific_data.data.network_interfaces.ips_raw" == match({"$gte": 167772160, "$lte": 167772415}))
//	specific_data == match([plugin_name == 'aws_adapter' and (data.hostname == "h")])
//	INCLUDE OUTDATED: (adapters_data.esx_adapter.os.type == "Windows")
//
// A saved query is referenced as {{QueryID=<id>}} and resolved by the backend.

// Package search parses the text filter accepted when listing saved queries
// and renders it as a squirrel predicate.
//
// Grammar
//
// --- PARSER RULES ---
//
// expression  : term ( "or" term )* ;
// term        : factor ( "and" factor )* ;
//
// factor      : "not" factor
//             | "(" expression ")"
//             | comparison ;
//
// comparison  : IDENTIFIER ( "=" | "!=" | "<" | "<=" | ">" | ">=" ) value
//             | IDENTIFIER ( "~" | "!~" ) REGEX_LITERAL ;
//
// value       : STRING | BOOLEAN ;
//
// --- LEXER RULES ---
//
// IDENTIFIER    : [a-zA-Z_] [a-zA-Z0-9_.]* ;
//
// // AWK-style regex, "i" makes it case insensitive
// REGEX_LITERAL : '/' ( '\\/' | . )*? '/' 'i'? ;
//
// STRING        : "'" ( "\\'" | . )*? "'" | "\"" ( "\\\"" | . )*? "\"" ;
// BOOLEAN       : "true" | "false" ;
//
// Examples:
//
//	name ~ /^prod/i and namespace = 'devices'
//	not (description = '') or updated_at >= '2026-01-01'
//	filter ~ /QueryID=6b1f/ and unique_adapters = true
//
// Identifiers are resolved against a Fields list. Unknown identifiers, and
// values that do not fit the field kind, are parse errors.
package search

// Package handlers implements the HTTP API of the query compiler.
//
// Handlers delegate to the services layer and only bind requests, map
// errors to status codes and convert models to API types.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request binding                                              │
//	│  - Pagination                                                   │
//	│  - Error mapping to HTTP status codes                           │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  Compiler │ Schema │ SavedQuery                                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// The Handler implements the ServerInterface generated from api/v1/openapi.yaml:
//
//	v1.RegisterHandlers(router, handler)
//
// # API Endpoints
//
// Compiler Endpoints (compile.go):
//
//	┌────────┬──────────────────┬─────────────────────────────────────────┐
//	│ Method │ Endpoint         │ Description                             │
//	├────────┼──────────────────┼─────────────────────────────────────────┤
//	│ POST   │ /queries/compile │ Compile an expression list to a filter  │
//	│ GET    │ /operators       │ Operators offered for a field schema    │
//	│ GET    │ /adapters        │ Adapter catalog (name and title)        │
//	└────────┴──────────────────┴─────────────────────────────────────────┘
//
// Schema Endpoints (schemas.go):
//
//	┌────────┬──────────────────────┬─────────────────────────────────────┐
//	│ Method │ Endpoint             │ Description                         │
//	├────────┼──────────────────────┼─────────────────────────────────────┤
//	│ GET    │ /schemas             │ List stored namespaces              │
//	│ GET    │ /schemas/{namespace} │ Get the fields of a namespace       │
//	│ PUT    │ /schemas/{namespace} │ Replace the fields of a namespace   │
//	│ DELETE │ /schemas/{namespace} │ Remove a namespace                  │
//	└────────┴──────────────────────┴─────────────────────────────────────┘
//
// Saved Query Endpoints (saved_queries.go):
//
//	┌────────┬──────────────────────────┬─────────────────────────────────┐
//	│ Method │ Endpoint                 │ Description                     │
//	├────────┼──────────────────────────┼─────────────────────────────────┤
//	│ GET    │ /saved-queries           │ List with filtering/pagination  │
//	│ POST   │ /saved-queries           │ Compile and store a query       │
//	│ POST   │ /saved-queries/recompile │ Recompile every stored query    │
//	│ GET    │ /saved-queries/{id}      │ Get a saved query               │
//	│ PUT    │ /saved-queries/{id}      │ Recompile and replace a query   │
//	│ DELETE │ /saved-queries/{id}      │ Remove a saved query            │
//	└────────┴──────────────────────────┴─────────────────────────────────┘
//
// # Compile Handler
//
// POST /queries/compile
//
// Request:
//
//	{
//	    "session": "tab-1",          // optional, reuses cached fragments
//	    "recompile": false,          // default true, false reuses the cache
//	    "expand": false,             // inline {{QueryID=...}} references
//	    "meta": {"uniqueAdapters": true},
//	    "expressions": [
//	        {"field": "specific_data.data.hostname", "compOp": "contains", "value": "web"}
//	    ]
//	}
//
// Response:
//
//	{
//	    "resultFilter": "INCLUDE OUTDATED: (specific_data.data.hostname == regex(\"web\", \"i\"))",
//	    "onlyExpressionsFilter": "(specific_data.data.hostname == regex(\"web\", \"i\"))",
//	    "error": null,
//	    "errors": null
//	}
//
// Validation errors of the expressions do not fail the request. They are
// reported in "error" (the first one) and "errors" with 200 OK, next to the
// last valid filter.
//
// # Saved Query Handler
//
// GET /saved-queries query parameters:
//
//	┌───────────┬────────┬──────────────────────────────────────────┐
//	│ Parameter │ Type   │ Description                              │
//	├───────────┼────────┼──────────────────────────────────────────┤
//	│ namespace │ string │ Entity view the query belongs to         │
//	│ name      │ string │ Case insensitive substring of the name   │
//	│ filter    │ string │ Search expression, see pkg/search        │
//	│ page      │ int    │ Page number (default: 1)                 │
//	│ pageSize  │ int    │ Items per page (default: 20, max: 100)   │
//	└───────────┴────────┴──────────────────────────────────────────┘
//
// A filter such as `name ~ /^prod/i and not unique_adapters = true` that
// fails to parse is a ValidationError carrying the position.
//
// # Error Handling
//
// Errors use the format:
//
//	{ "error": "error message" }
//
// HTTP Status Code Mapping:
//
//	┌─────────────────────────────┬────────┬────────────────────────────────┐
//	│ Error Type                  │ Status │ When                           │
//	├─────────────────────────────┼────────┼────────────────────────────────┤
//	│ Binding error               │ 400    │ Malformed body or parameters   │
//	│ ValidationError             │ 400    │ Field or namespace rejected    │
//	│ InvalidQueryError           │ 400    │ Query fails to compile/expand  │
//	│ ResourceNotFoundError       │ 404    │ Unknown id or namespace        │
//	│ Internal error              │ 500    │ Unexpected service errors      │
//	└─────────────────────────────┴────────┴────────────────────────────────┘
//
// InvalidQueryError is checked first: a reference to a missing saved query
// wraps a ResourceNotFoundError but is a bad request.
package handlers

// Package router implements hash-fragment routing for client-side apps.
//
// The router provides:
//   - An insertion-ordered registry of route definitions
//   - Exact-fragment literals and compiled patterns as definitions
//   - Named parameter extraction from pattern captures
//   - A fallback handler for unmatched fragments
//   - An after-each hook observing every resolution
//   - A connect/disconnect lifecycle driven by location changes
//
// # Definitions
//
// A route definition is either an exact fragment string or a compiled
// *regexp.Regexp, typically built with the fragment package:
//
//	r := router.New(loc)
//	r.On("#/home", showHome)
//	r.On(fragment.MustRoute("#/users/", fragment.Param("id")), showUser)
//	r.Fallback(showNotFound)
//	r.Connect()
//
// String definitions match by exact comparison. Pattern definitions match
// when they match the entire fragment; named captures become Params on
// the ResolvedRoute. Definitions are tried in registration order and the
// first match wins. Patterns are compared by identity, so compiling the
// same route twice yields two distinct definitions.
//
// # Lifecycle
//
// A Router starts unconnected: registrations are recorded but nothing
// resolves. Connect subscribes to the Location and resolves the current
// fragment once (or applies the configured start route when the fragment
// is empty). Disconnect unsubscribes permanently; a disconnected Router
// never resolves again.
//
// # Concurrency
//
// A Router mirrors the single-threaded browser event loop: its methods
// and handlers must run on one goroutine. Location implementations
// deliver change signals on the goroutine that mutated the fragment.
package router

// Package errors provides structured, coded error messages for the reactor
// runtime and its tooling.
//
// Each error has a unique code (e.g., "R001") that maps to a category, a
// short message, a detailed explanation and a documentation URL. Runtime
// packages wrap a registry entry in their own typed errors so callers can
// use errors.As on the concrete type and still get a consistent message.
//
// # Categories
//
//   - hooks: hook order or shape violations (fatal)
//   - effect: effect body or cleanup failures (contained)
//   - render: render panics and update loops (fatal)
//   - runtime: lifecycle misuse (dispatch after close, unknown handler)
//   - config: configuration file problems
//   - host: render output consumers failing to accept a commit
//
// # Usage
//
//	err := errors.New("R001").
//	    WithDetail("TodoList declared 3 state cells, previously 2").
//	    WithSuggestion("Call UseState unconditionally at the top of Render")
//
//	fmt.Println(err.Format())
package errors

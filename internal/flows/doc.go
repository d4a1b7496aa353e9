// Package flows holds the engine's multi-step operations as pure functions.
//
// A flow takes a dependency struct of funcs and sentinel values, so the
// root package wires its own errors, metrics and audit names in and tests
// can drive every branch with stubs.
//
// # What this package must NOT do
//
//   - Hold state between calls.
//   - Import sessionauth (the root package imports this one).
//   - Perform I/O other than through its dependencies.
package flows

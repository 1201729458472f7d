// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing core model objects (sessions, turns,
// responses). These helpers are intentionally minimal and not intended for
// production usage.
package testutil

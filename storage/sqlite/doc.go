// Package sqlite provides durable SQLite-backed implementations of the
// session, memory and knowledge stores. Schema management runs through
// embedded goose migrations; the driver is the pure-Go modernc.org/sqlite,
// so no cgo toolchain is needed.
package sqlite

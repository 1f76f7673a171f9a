// Package database provides SQLite-based storage for link check runs.
//
// Each completed run is stored with its summary counters, the full
// result snapshot as JSON, and a denormalized table of broken links
// so the history command can compare runs without deserializing every
// snapshot.
//
// The package uses modernc.org/sqlite, a pure-Go SQLite driver, so
// linklint builds without CGO.
package database

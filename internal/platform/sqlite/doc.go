// Package sqlite opens the embedded, file-backed SQLite engine, bootstraps its
// schema and translates SQLite result codes into store errors. Queries are
// served by the shared sqlstore gateway.
package sqlite

// Package sqlstore implements store.TaskStore once for every SQL engine the
// service supports. Queries are written with '?' placeholders and rebound for
// the connection's driver; engine-specific error codes are translated by an
// ErrorMapper supplied by the engine package (sqlite, postgres).
package sqlstore

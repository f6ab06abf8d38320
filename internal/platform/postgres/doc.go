// Package postgres opens PostgreSQL connections through the pgx driver,
// bootstraps the schema and translates PostgreSQL error codes into store
// errors. Queries are served by the shared sqlstore gateway.
package postgres

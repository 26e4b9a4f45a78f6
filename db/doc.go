// Package db provides the SQLite-backed implementation of the repository
// interfaces defined in the domain package. It uses sqlx for database access
// and goose for schema migrations, which are embedded in the binary and
// applied automatically when a connection is opened.
package db

// Package pgstore is the PostgreSQL draw store.
//
// The schema is managed with embedded golang-migrate migrations; call
// MigrateUp before Open on a fresh database.
package pgstore

// Package store provides the default SQLite-backed draw store.
//
// The store keeps two tables:
//   - draws: the full history, ordered by position (0 is the newest draw)
//   - sync_runs: one journal row per synchronization run
//
// WriteAll replaces the whole history inside a single transaction, so a
// reader sees either the previous dataset or the new one.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

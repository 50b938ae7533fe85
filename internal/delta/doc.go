// Package delta implements incremental synchronization of the local draw
// history with the remote paginated source.
//
// ARCHITECTURE:
//
// Resolver -> Fetcher (Walker) -> draw.Merge -> Store.WriteAll
//
//  1. Resolver requests page 1 and compares the remote newest id with the
//     local newest id. Equal or lower is a no-op; a failure means no fetch
//     and no merge.
//  2. Walker pulls pages 1, 2, 3 ... one at a time and yields the valid
//     records newer than the boundary. It stops at the first entry with
//     id <= boundary, on an empty page, at the page cap, or on a failed
//     request. Records gathered before a failure are kept.
//  3. Synchronizer merges the delta in front of the existing dataset and
//     replaces the store contents in one write.
//
// Everything runs on the caller's goroutine with one request in flight.
// Page N must be inspected before page N+1 is requested because page N may
// hold the boundary, so there is no prefetching. The context is checked
// between pages.
//
// Ids seen earlier in the same walk are skipped. When the source publishes
// a draw mid-walk every page shifts by one entry and the last id of page N
// reappears as the first id of page N+1; that repeat is dropped on purpose.
package delta

// Package draw provides the value types for historical draw records and the
// ordering rules that every other package relies on.
//
// This package imports nothing internal. Records are ephemeral values built
// per fetch cycle; the only persisted state lives behind a store adapter.
//
// Key constraints:
//   - DrawID ordering is numeric, never lexical ("999" < "1000")
//   - Numbers is a fixed-size array; a record cannot hold another token count
//   - A merged dataset is sorted by DrawID descending with no repeated ids
//   - DrawDate is opaque and never reparsed
package draw

// Package source is the HTTP client for the remote paginated draw history.
//
// Pages are numbered from 1 and hold a fixed number of entries, newest
// first. Every request carries a browser-like User-Agent and is bounded by
// the configured timeout. Failures are reported as *Error with one of the
// codes CONNECTIVITY, TIMEOUT or PROTOCOL.
package source

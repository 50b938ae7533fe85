// Package testutil provides fakes shared by package tests: an HTTP server
// speaking the remote wire format, an in-memory page source, an in-memory
// store and a deterministic clock.
package testutil

package testutil

import (
	"context"
	"sync"

	"github.com/roach88/drawsync/internal/source"
)

// FakeSource is an in-memory page source. Pages beyond the configured ones
// are empty; pages with an injected error fail.
type FakeSource struct {
	mu     sync.Mutex
	pages  [][]source.Entry
	errs   map[int]error
	calls  []int
	onCall func(page int)
}

// NewFakeSource creates a source serving pages in order (page 1 first).
func NewFakeSource(pages ...[]source.Entry) *FakeSource {
	return &FakeSource{pages: pages, errs: map[int]error{}}
}

// FakePages splits newest-first ids into pages of pageSize valid entries.
func FakePages(pageSize int, ids ...string) [][]source.Entry {
	var pages [][]source.Entry
	for _, wp := range Paginate(pageSize, ids...) {
		pages = append(pages, ToSourceEntries(wp))
	}
	return pages
}

// FakeEntries returns valid source entries for ids.
func FakeEntries(ids ...string) []source.Entry {
	return ToSourceEntries(Entries(ids...))
}

// ToSourceEntries converts wire entries to source entries.
func ToSourceEntries(wire []WireEntry) []source.Entry {
	out := make([]source.Entry, len(wire))
	for i, e := range wire {
		out[i] = source.Entry{DrawID: e.DrawID, DrawDate: e.DrawDate, Result: e.Result}
	}
	return out
}

// FailPage makes FetchPage(page) return err.
func (f *FakeSource) FailPage(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[page] = err
}

// OnCall registers a hook run at the start of every FetchPage call.
func (f *FakeSource) OnCall(fn func(page int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onCall = fn
}

// Calls returns the requested page numbers in order.
func (f *FakeSource) Calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

// FetchPage implements the page source contract.
func (f *FakeSource) FetchPage(ctx context.Context, page int) (*source.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	hook := f.onCall
	err := f.errs[page]
	var entries []source.Entry
	if page >= 1 && page <= len(f.pages) {
		entries = append(entries, f.pages[page-1]...)
	}
	total := len(f.pages)
	f.mu.Unlock()

	if hook != nil {
		hook(page)
	}
	if err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return &source.Page{Number: page, Entries: entries, Pages: total}, nil
}

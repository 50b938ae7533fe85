package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// WireEntry is one entry in the remote wire format.
type WireEntry struct {
	DrawID   string `json:"lotteryDrawNum"`
	DrawDate string `json:"lotteryDrawTime"`
	Result   string `json:"lotteryDrawResult"`
}

// Entry returns a valid wire entry for id.
func Entry(id string) WireEntry {
	return WireEntry{DrawID: id, DrawDate: "date-" + id, Result: "1 2 3 4 5 6 7"}
}

// Entries returns valid wire entries for ids, in order.
func Entries(ids ...string) []WireEntry {
	out := make([]WireEntry, len(ids))
	for i, id := range ids {
		out[i] = Entry(id)
	}
	return out
}

// Paginate splits a newest-first id list into pages of pageSize.
func Paginate(pageSize int, ids ...string) [][]WireEntry {
	var pages [][]WireEntry
	for start := 0; start < len(ids); start += pageSize {
		end := min(start+pageSize, len(ids))
		pages = append(pages, Entries(ids[start:end]...))
	}
	return pages
}

// DescendingIDs returns ids from newest down to oldest inclusive.
func DescendingIDs(newest, oldest int) []string {
	var ids []string
	for id := newest; id >= oldest; id-- {
		ids = append(ids, strconv.Itoa(id))
	}
	return ids
}

// SourceServer serves a paginated draw history over HTTP using the remote
// wire format. Pages past the configured ones are served empty.
type SourceServer struct {
	*httptest.Server

	mu       sync.Mutex
	pages    [][]WireEntry
	failures map[int]int
	requests []int
	agents   []string
}

// NewSourceServer starts a server that is closed when the test ends.
func NewSourceServer(t *testing.T, pages ...[]WireEntry) *SourceServer {
	t.Helper()
	s := &SourceServer{pages: pages, failures: map[int]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Endpoint returns the URL to configure as the source endpoint.
func (s *SourceServer) Endpoint() string {
	return s.URL + "/gateway/lottery/getHistoryPageListV1.qry"
}

// SetPages replaces the served history.
func (s *SourceServer) SetPages(pages ...[]WireEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = pages
}

// FailPage makes requests for page answer with status.
func (s *SourceServer) FailPage(page, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[page] = status
}

// Requests returns the requested page numbers in order.
func (s *SourceServer) Requests() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.requests...)
}

// UserAgents returns the User-Agent header of every request.
func (s *SourceServer) UserAgents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.agents...)
}

// ResetRequests clears the request log.
func (s *SourceServer) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.agents = nil
}

func (s *SourceServer) handle(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("pageNo"))
	if err != nil || page < 1 {
		http.Error(w, "bad pageNo", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, page)
	s.agents = append(s.agents, r.UserAgent())
	status, fail := s.failures[page]
	var list []WireEntry
	if page <= len(s.pages) {
		list = s.pages[page-1]
	}
	total := len(s.pages)
	s.mu.Unlock()

	if fail {
		http.Error(w, "injected failure", status)
		return
	}
	if list == nil {
		list = []WireEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":      true,
		"errorCode":    "0",
		"errorMessage": "处理成功",
		"value": map[string]any{
			"list":   list,
			"pageNo": page,
			"pages":  total,
		},
	})
}

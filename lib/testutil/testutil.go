package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Report is one call captured by RecordingAPI.
type Report struct {
	Kind   string
	ID     string
	Params []any
}

// RecordingAPI is a telemetry.API that keeps every report in memory so
// tests can assert on warnings and breakages.
type RecordingAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *RecordingAPI) record(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *RecordingAPI) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
}

func (r *RecordingAPI) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
}

func (r *RecordingAPI) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
}

func (r *RecordingAPI) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
}

// Reports returns the captured reports of the given kind, all of them when
// kind is empty.
func (r *RecordingAPI) Reports(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []Report
	for _, rep := range r.reports {
		if kind == "" || rep.Kind == kind {
			out = append(out, rep)
		}
	}
	return out
}

// Count returns how many reports of kind have an id containing substr.
func (r *RecordingAPI) Count(kind, substr string) int {
	n := 0
	for _, rep := range r.Reports(kind) {
		if strings.Contains(rep.ID, substr) {
			n++
		}
	}
	return n
}

// Site is a fixture web server, every route maps a path (query included
// when present) to a handler.
type Site struct {
	*httptest.Server

	mutex sync.Mutex
	hits  map[string]int
}

func (s *Site) URL(path string) string {
	return s.Server.URL + path
}

func (s *Site) Hits(path string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.hits[path]
}

// HTML returns a handler answering with a fixed html body.
func HTML(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}
}

func NewSite(t testing.TB, routes map[string]http.HandlerFunc) *Site {
	site := &Site{hits: map[string]int{}}
	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		site.mutex.Lock()
		site.hits[key]++
		site.mutex.Unlock()

		handler, ok := routes[key]
		if !ok {
			handler, ok = routes[r.URL.Path]
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(site.Close)
	return site
}

package reqhunter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "127.0.0.1:8000" {
		t.Fatalf("default url = %q, want http://127.0.0.1:8000", u.String())
	}

	u, err = parseBaseURL("10.0.0.2:9000")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != "http://10.0.0.2:9000" {
		t.Fatalf("url = %q, want scheme added", u.String())
	}

	u, err = parseBaseURL("https://hunter.example.com/ui?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestRunSourcePath(t *testing.T) {
	if got := RunSourcePath(7); got != "/scrape/run/7" {
		t.Fatalf("RunSourcePath(7) = %q, want /scrape/run/7", got)
	}
}

func TestCall_DefaultHeadersAndOverrides(t *testing.T) {
	t.Parallel()

	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	res, err := c.Call(context.Background(), Request{
		Path:    "/ping",
		Headers: http.Header{"Content-Type": {"text/plain"}, "X-Extra": {"1"}},
	})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if got.Get("Content-Type") != "text/plain" {
		t.Fatalf("Content-Type = %q, want caller override", got.Get("Content-Type"))
	}
	if got.Get("X-Extra") != "1" {
		t.Fatalf("X-Extra = %q, want caller extension", got.Get("X-Extra"))
	}
	if got.Get("X-Request-ID") == "" {
		t.Fatalf("X-Request-ID missing")
	}
	if !strings.HasPrefix(got.Get("User-Agent"), "reqdeck/") {
		t.Fatalf("User-Agent = %q, want reqdeck/*", got.Get("User-Agent"))
	}
	var body map[string]bool
	if err := res.Decode(&body); err != nil || !body["ok"] {
		t.Fatalf("Decode = %v, %v; want ok=true", body, err)
	}
}

func TestCall_NoContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	res, err := c.Call(context.Background(), Request{Method: http.MethodDelete, Path: "/sources/1"})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if !res.NoContent || res.Body != nil {
		t.Fatalf("result = %#v, want NoContent with nil body", res)
	}
	dest := map[string]any{"untouched": true}
	if err := res.Decode(&dest); err != nil || !dest["untouched"].(bool) {
		t.Fatalf("Decode on no-content should leave dest untouched, got %v (%v)", dest, err)
	}
}

func TestCall_HTTPErrorMessages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/text":
			http.Error(w, "Source not found", http.StatusNotFound)
		case "/api/v1/empty":
			w.WriteHeader(http.StatusBadGateway)
		case "/api/v1/html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html><head><title>502</title><style>h1{}</style></head><body><h1>Bad   Gateway</h1><p>nginx</p></body></html>`))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/text", http.StatusNotFound, "Source not found"},
		{"/empty", http.StatusBadGateway, "Bad Gateway"},
		{"/html", http.StatusBadGateway, "Bad Gateway nginx"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := c.Call(context.Background(), Request{Path: tt.path})
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("Call error = %v, want *HTTPError", err)
			}
			if httpErr.Status != tt.status || httpErr.Message != tt.message {
				t.Fatalf("HTTPError = %d %q, want %d %q", httpErr.Status, httpErr.Message, tt.status, tt.message)
			}
		})
	}
}

func TestCall_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c, err := NewClient(addr)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Call(context.Background(), Request{Path: "/jobs/"})
	if err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("Call error = %v, want execute request error", err)
	}
}

func TestClient_EndpointsEncodeRequests(t *testing.T) {
	t.Parallel()

	type seen struct {
		method string
		path   string
		query  url.Values
		body   string
	}
	var calls []seen

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, seen{r.Method, r.URL.Path, r.URL.Query(), string(body)})
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/api/v1/jobs/" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(JobListResponse{Items: []Job{{ID: 3, Title: "Go Engineer"}}, Total: 120})
		case r.URL.Path == "/api/v1/jobs/3" && r.Method == http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/v1/sources/" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(SourceListResponse{Items: []Source{{ID: 7, Name: "Acme"}}})
		case r.URL.Path == "/api/v1/sources/" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Source{ID: 8, Name: "New"})
		case r.URL.Path == "/api/v1/sources/7" && r.Method == http.MethodPatch:
			// servers may echo the record instead of answering 204
			_ = json.NewEncoder(w).Encode(Source{ID: 7, IsActive: false})
		case r.URL.Path == "/api/v1/scrape/run/7":
			_ = json.NewEncoder(w).Encode(ScrapeResult{JobsNew: 2, SourcesProcessed: 1, Errors: []string{"x"}})
		case r.URL.Path == "/api/v1/logs/":
			_ = json.NewEncoder(w).Encode(LogBatch{Items: []string{"a", "b"}, Total: 2})
		case r.URL.Path == "/api/v1/schedule/":
			_ = json.NewEncoder(w).Encode(Schedule{IsEnabled: true, IntervalMinutes: 30})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	page, err := c.ListJobs(ctx, JobQuery{Limit: 50, Offset: 100, Status: StatusApplied})
	if err != nil || page.Total != 120 || len(page.Items) != 1 {
		t.Fatalf("ListJobs = %#v, %v", page, err)
	}
	if q := calls[0].query; q.Get("limit") != "50" || q.Get("offset") != "100" || q.Get("status") != "applied" {
		t.Fatalf("ListJobs query = %v", q)
	}

	if _, err := c.ListJobs(ctx, JobQuery{Limit: 50}); err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if calls[1].query.Has("status") {
		t.Fatalf("ListJobs without status should omit it, got %v", calls[1].query)
	}

	if err := c.UpdateJobStatus(ctx, 3, StatusSeen); err != nil {
		t.Fatalf("UpdateJobStatus returned error: %v", err)
	}
	if calls[2].body != `{"status":"seen"}` {
		t.Fatalf("UpdateJobStatus body = %s", calls[2].body)
	}

	sources, err := c.ListSources(ctx)
	if err != nil || len(sources) != 1 || sources[0].Name != "Acme" {
		t.Fatalf("ListSources = %#v, %v", sources, err)
	}

	created, err := c.CreateSource(ctx, SourceInput{Name: "New", BaseURL: "https://x", Keyword: "go", QueryParam: "q"})
	if err != nil || created.ID != 8 {
		t.Fatalf("CreateSource = %#v, %v", created, err)
	}
	if !strings.Contains(calls[4].body, `"url_path_filter":null`) {
		t.Fatalf("CreateSource body = %s, want explicit null filter", calls[4].body)
	}

	active := false
	if err := c.UpdateSource(ctx, 7, SourcePatch{IsActive: &active}); err != nil {
		t.Fatalf("UpdateSource returned error: %v", err)
	}
	if calls[5].body != `{"is_active":false}` {
		t.Fatalf("UpdateSource body = %s", calls[5].body)
	}

	result, err := c.RunScrape(ctx, RunSourcePath(7))
	if err != nil || result.JobsNew != 2 || len(result.Errors) != 1 {
		t.Fatalf("RunScrape = %#v, %v", result, err)
	}
	if calls[6].method != http.MethodPost {
		t.Fatalf("RunScrape method = %s, want POST", calls[6].method)
	}

	lines, err := c.FetchLogs(ctx, 200)
	if err != nil || len(lines) != 2 {
		t.Fatalf("FetchLogs = %v, %v", lines, err)
	}
	if calls[7].query.Get("limit") != "200" {
		t.Fatalf("FetchLogs query = %v", calls[7].query)
	}

	sched, err := c.FetchSchedule(ctx)
	if err != nil || !sched.IsEnabled || sched.IntervalMinutes != 30 {
		t.Fatalf("FetchSchedule = %#v, %v", sched, err)
	}

	if err := c.DeleteSource(ctx, 99); !IsNotFound(err) {
		t.Fatalf("DeleteSource unknown = %v, want not found", err)
	}
}

package reqhunter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// API is the subset of the req-hunter REST API the console consumes.
// *Client implements it; tests substitute fakes.
type API interface {
	ListJobs(ctx context.Context, query JobQuery) (JobListResponse, error)
	FetchJob(ctx context.Context, id int64) (Job, error)
	UpdateJobStatus(ctx context.Context, id int64, status JobStatus) error
	ListSources(ctx context.Context) ([]Source, error)
	FetchSource(ctx context.Context, id int64) (Source, error)
	CreateSource(ctx context.Context, in SourceInput) (Source, error)
	UpdateSource(ctx context.Context, id int64, patch SourcePatch) error
	DeleteSource(ctx context.Context, id int64) error
	RunScrape(ctx context.Context, path string) (ScrapeResult, error)
	FetchLogs(ctx context.Context, limit int) ([]string, error)
	FetchSchedule(ctx context.Context) (Schedule, error)
	UpdateSchedule(ctx context.Context, patch SchedulePatch) (Schedule, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the req-hunter HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// Version is the reqdeck release, reported in the User-Agent header.
var Version = "0.1.0"

const (
	defaultAPIURL = "http://127.0.0.1:8000"
	apiPrefix     = "/api/v1"

	// RunAllPath triggers a scrape across every active source.
	RunAllPath = "/scrape/run"
)

// RunSourcePath returns the scrape path for a single source.
func RunSourcePath(id int64) string {
	return RunAllPath + "/" + strconv.FormatInt(id, 10)
}

// NewClient builds a Client for the server at apiURL (host:port or full URL).
// Scrape runs can take minutes, so the client carries no timeout; callers
// cancel through the context.
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: "reqdeck/" + Version,
	}, nil
}

// BaseURL reports the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Request describes one gateway call. Path is relative to the API prefix and
// may carry a query string.
type Request struct {
	Method  string
	Path    string
	Body    any
	Headers http.Header
}

// Result is a successful gateway response. NoContent is set for 204 and
// empty bodies; Body is nil in that case.
type Result struct {
	Status    int
	NoContent bool
	Body      json.RawMessage
}

// Decode unmarshals the body into dest. A no-content result leaves dest untouched.
func (r Result) Decode(dest any) error {
	if r.NoContent || dest == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Call issues req against the API prefix. Non-2xx responses fail with
// *HTTPError whose message is safe to show to the user.
func (c *Client) Call(ctx context.Context, req Request) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("client is nil")
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	rel, err := url.Parse(apiPrefix + req.Path)
	if err != nil {
		return Result{}, fmt.Errorf("parse path %q: %w", req.Path, err)
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return Result{}, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	for key, values := range req.Headers {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, newHTTPError(resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return Result{Status: resp.StatusCode, NoContent: true}, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Result{Status: resp.StatusCode, NoContent: true}, nil
	}
	return Result{Status: resp.StatusCode, Body: raw}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	res, err := c.Call(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}
	return res.Decode(dest)
}

// ListJobs fetches one page of postings.
func (c *Client) ListJobs(ctx context.Context, query JobQuery) (JobListResponse, error) {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(query.Limit))
	values.Set("offset", strconv.Itoa(query.Offset))
	if query.Status != "" {
		values.Set("status", string(query.Status))
	}
	var payload JobListResponse
	if err := c.do(ctx, http.MethodGet, "/jobs/?"+values.Encode(), nil, &payload); err != nil {
		return JobListResponse{}, err
	}
	return payload, nil
}

// FetchJob retrieves a single posting.
func (c *Client) FetchJob(ctx context.Context, id int64) (Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, jobPath(id), nil, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// UpdateJobStatus sets the status of one posting.
func (c *Client) UpdateJobStatus(ctx context.Context, id int64, status JobStatus) error {
	return c.do(ctx, http.MethodPatch, jobPath(id), map[string]JobStatus{"status": status}, nil)
}

// ListSources fetches every configured source.
func (c *Client) ListSources(ctx context.Context) ([]Source, error) {
	var payload SourceListResponse
	if err := c.do(ctx, http.MethodGet, "/sources/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// FetchSource retrieves one source by id.
func (c *Client) FetchSource(ctx context.Context, id int64) (Source, error) {
	var src Source
	if err := c.do(ctx, http.MethodGet, sourcePath(id), nil, &src); err != nil {
		return Source{}, err
	}
	return src, nil
}

// CreateSource adds a source.
func (c *Client) CreateSource(ctx context.Context, in SourceInput) (Source, error) {
	var src Source
	if err := c.do(ctx, http.MethodPost, "/sources/", in, &src); err != nil {
		return Source{}, err
	}
	return src, nil
}

// UpdateSource applies a partial update.
func (c *Client) UpdateSource(ctx context.Context, id int64, patch SourcePatch) error {
	return c.do(ctx, http.MethodPatch, sourcePath(id), patch, nil)
}

// DeleteSource removes a source permanently.
func (c *Client) DeleteSource(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, sourcePath(id), nil, nil)
}

// RunScrape posts to a scrape path (RunAllPath or RunSourcePath) and returns
// the aggregated result.
func (c *Client) RunScrape(ctx context.Context, path string) (ScrapeResult, error) {
	var result ScrapeResult
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return ScrapeResult{}, err
	}
	return result, nil
}

// FetchLogs returns up to limit recent application log lines in server order.
func (c *Client) FetchLogs(ctx context.Context, limit int) ([]string, error) {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	var payload LogBatch
	if err := c.do(ctx, http.MethodGet, "/logs/?"+values.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// FetchSchedule returns the server's scrape schedule.
func (c *Client) FetchSchedule(ctx context.Context) (Schedule, error) {
	var sched Schedule
	if err := c.do(ctx, http.MethodGet, "/schedule/", nil, &sched); err != nil {
		return Schedule{}, err
	}
	return sched, nil
}

// UpdateSchedule patches the schedule and returns the stored result.
func (c *Client) UpdateSchedule(ctx context.Context, patch SchedulePatch) (Schedule, error) {
	var sched Schedule
	if err := c.do(ctx, http.MethodPatch, "/schedule/", patch, &sched); err != nil {
		return Schedule{}, err
	}
	return sched, nil
}

func jobPath(id int64) string {
	return "/jobs/" + strconv.FormatInt(id, 10)
}

func sourcePath(id int64) string {
	return "/sources/" + strconv.FormatInt(id, 10)
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

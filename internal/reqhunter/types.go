package reqhunter

import (
	"strings"
	"time"
)

// JobStatus is the triage state of a scraped posting.
type JobStatus string

const (
	StatusNew      JobStatus = "new"
	StatusSeen     JobStatus = "seen"
	StatusApplied  JobStatus = "applied"
	StatusRejected JobStatus = "rejected"
	StatusIgnored  JobStatus = "ignored"
)

// Statuses lists every status in display order.
var Statuses = []JobStatus{StatusNew, StatusSeen, StatusApplied, StatusRejected, StatusIgnored}

// ParseStatus normalizes s into a known status. The empty string is not a status.
func ParseStatus(s string) (JobStatus, bool) {
	norm := JobStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Statuses {
		if st == norm {
			return st, true
		}
	}
	return "", false
}

// Job mirrors a JobRecord as served by /jobs/.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    *string   `json:"location"`
	URL         string    `json:"url"`
	Description *string   `json:"description"`
	Source      string    `json:"source"`
	Status      JobStatus `json:"status"`
	ScrapedAt   string    `json:"scraped_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// LocationLabel returns the location or a dash when absent.
func (j Job) LocationLabel() string {
	if j.Location == nil || strings.TrimSpace(*j.Location) == "" {
		return "—"
	}
	return *j.Location
}

// ParsedScrapedAt returns the scrape timestamp as time.Time when possible.
func (j Job) ParsedScrapedAt() time.Time {
	return parseTime(j.ScrapedAt)
}

// ParsedUpdatedAt returns the last status change as time.Time when possible.
func (j Job) ParsedUpdatedAt() time.Time {
	return parseTime(j.UpdatedAt)
}

// JobListResponse mirrors GET /jobs/.
type JobListResponse struct {
	Items []Job `json:"items"`
	Total int   `json:"total"`
}

// JobQuery configures GET /jobs/ requests. An empty Status lists every job.
type JobQuery struct {
	Limit  int
	Offset int
	Status JobStatus
}

// Source mirrors a SourceConfig.
type Source struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	BaseURL       string  `json:"base_url"`
	Keyword       string  `json:"keyword"`
	QueryParam    string  `json:"query_param"`
	URLPathFilter *string `json:"url_path_filter"`
	IsActive      bool    `json:"is_active"`
	IsBlocked     bool    `json:"is_blocked"`
	BlockedReason *string `json:"blocked_reason"`
	BlockedAt     *string `json:"blocked_at"`
	LastError     *string `json:"last_error"`
	LastScrapedAt *string `json:"last_scraped_at"`
	CreatedAt     string  `json:"created_at"`
}

// ParsedLastScrapedAt returns the last scrape time, zero when the source never ran.
func (s Source) ParsedLastScrapedAt() time.Time {
	if s.LastScrapedAt == nil {
		return time.Time{}
	}
	return parseTime(*s.LastScrapedAt)
}

// SourceListResponse mirrors GET /sources/.
type SourceListResponse struct {
	Items []Source `json:"items"`
	Total int      `json:"total"`
}

// SourceInput is the create payload. QueryParam defaults to "q" on the server.
type SourceInput struct {
	Name          string  `json:"name"`
	BaseURL       string  `json:"base_url"`
	Keyword       string  `json:"keyword"`
	QueryParam    string  `json:"query_param"`
	URLPathFilter *string `json:"url_path_filter"`
}

// SourcePatch is a partial update; nil fields are left untouched.
type SourcePatch struct {
	Name          *string `json:"name,omitempty"`
	BaseURL       *string `json:"base_url,omitempty"`
	Keyword       *string `json:"keyword,omitempty"`
	QueryParam    *string `json:"query_param,omitempty"`
	URLPathFilter *string `json:"url_path_filter,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	ClearBlocked  bool    `json:"clear_blocked,omitempty"`
}

// ScrapeResult mirrors POST /scrape/run and /scrape/run/{id}.
type ScrapeResult struct {
	JobsNew          int      `json:"jobs_new"`
	JobsFound        int      `json:"jobs_found"`
	SourcesProcessed int      `json:"sources_processed"`
	Errors           []string `json:"errors"`
}

// LogBatch mirrors GET /logs/.
type LogBatch struct {
	Items []string `json:"items"`
	Total int      `json:"total"`
}

// Schedule mirrors the singleton scrape schedule.
type Schedule struct {
	IsEnabled       bool    `json:"is_enabled"`
	IntervalMinutes int     `json:"interval_minutes"`
	LastRunAt       *string `json:"last_run_at"`
	NextRunAt       *string `json:"next_run_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// ParsedNextRunAt returns the next scheduled run, zero when none is planned.
func (s Schedule) ParsedNextRunAt() time.Time {
	if s.NextRunAt == nil {
		return time.Time{}
	}
	return parseTime(*s.NextRunAt)
}

// ParsedLastRunAt returns the previous scheduled run, zero when none ran yet.
func (s Schedule) ParsedLastRunAt() time.Time {
	if s.LastRunAt == nil {
		return time.Time{}
	}
	return parseTime(*s.LastRunAt)
}

// SchedulePatch is a partial schedule update.
type SchedulePatch struct {
	IsEnabled       *bool `json:"is_enabled,omitempty"`
	IntervalMinutes *int  `json:"interval_minutes,omitempty"`
}

const serverTimestampLayout = "2006-01-02T15:04:05.999999"

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	// naive timestamps come back from sqlite-backed deployments
	if t, err := time.ParseInLocation(serverTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}

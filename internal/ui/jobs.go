package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reqdeck/internal/console"
	"github.com/five82/reqdeck/internal/reqhunter"
)

// jobFilters is the filter pill order; "" is All.
var jobFilters = append([]reqhunter.JobStatus{""}, reqhunter.Statuses...)

// jobsView holds the jobs table selection and the detail pane.
type jobsView struct {
	snap     console.JobsSnapshot
	selected int
	detail   viewport.Model
	detailID int64
	width    int
	height   int
}

func (v *jobsView) resize(width, height int) {
	v.width = width
	v.height = height
	w, h := v.detailSize()
	v.detail.Width = w
	v.detail.Height = h
}

// detailSize is the inner size of the detail box.
func (v jobsView) detailSize() (int, int) {
	boxWidth := v.width
	if v.width >= LayoutSplitWidth {
		boxWidth = v.width * 45 / 100
	}
	return max(boxWidth-4, 10), max(v.height-2, 1)
}

func (v *jobsView) sync(snap console.JobsSnapshot, theme Theme) {
	v.snap = snap
	if v.selected >= len(snap.Rows) {
		v.selected = max(len(snap.Rows)-1, 0)
	}
	if snap.Detail == nil {
		v.detailID = 0
		return
	}
	width, _ := v.detailSize()
	v.detail.SetContent(renderJobDetail(*snap.Detail, theme, width))
	if snap.Detail.ID != v.detailID {
		v.detailID = snap.Detail.ID
		v.detail.GotoTop()
	}
}

func (v jobsView) selectedJob() (reqhunter.Job, bool) {
	if v.selected < 0 || v.selected >= len(v.snap.Rows) {
		return reqhunter.Job{}, false
	}
	return v.snap.Rows[v.selected], true
}

// nextFilter returns the filter after current in pill order.
func nextFilter(current reqhunter.JobStatus) reqhunter.JobStatus {
	for i, f := range jobFilters {
		if f == current {
			return jobFilters[(i+1)%len(jobFilters)]
		}
	}
	return ""
}

// handleJobsKey processes keyboard input for the jobs view.
func (m Model) handleJobsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	jobs := m.console.Jobs
	rows := len(m.jobs.snap.Rows)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.jobs.selected > 0 {
			m.jobs.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.jobs.selected < rows-1 {
			m.jobs.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.jobs.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.jobs.selected = max(rows-1, 0)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.jobs.detail.HalfViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.jobs.detail.HalfViewUp()

	case key.Matches(msg, m.keys.CycleFilter):
		m.jobs.selected = 0
		return m, m.runTask("filter jobs", jobs.SelectFilter(nextFilter(m.jobs.snap.Pager.Filter)))
	case key.Matches(msg, m.keys.ClearFilter):
		m.jobs.selected = 0
		return m, m.runTask("filter jobs", jobs.SelectFilter(""))
	case key.Matches(msg, m.keys.NextPage):
		if task := jobs.NextPage(); task != nil {
			m.jobs.selected = 0
			return m, m.runTask("next page", task)
		}
	case key.Matches(msg, m.keys.PrevPage):
		if task := jobs.PrevPage(); task != nil {
			m.jobs.selected = 0
			return m, m.runTask("previous page", task)
		}

	case key.Matches(msg, m.keys.Inspect):
		if job, ok := m.jobs.selectedJob(); ok {
			return m, m.runTask("inspect job", jobs.Inspect(job.ID))
		}
	case key.Matches(msg, m.keys.Cancel):
		jobs.CloseDetail()

	case key.Matches(msg, m.keys.MarkNew):
		return m, m.markSelected(reqhunter.StatusNew)
	case key.Matches(msg, m.keys.MarkSeen):
		return m, m.markSelected(reqhunter.StatusSeen)
	case key.Matches(msg, m.keys.MarkApplied):
		return m, m.markSelected(reqhunter.StatusApplied)
	case key.Matches(msg, m.keys.MarkRejected):
		return m, m.markSelected(reqhunter.StatusRejected)
	case key.Matches(msg, m.keys.MarkIgnored):
		return m, m.markSelected(reqhunter.StatusIgnored)
	}
	return m, nil
}

func (m Model) markSelected(status reqhunter.JobStatus) tea.Cmd {
	job, ok := m.jobs.selectedJob()
	if !ok {
		return nil
	}
	return m.runTask("update job status", m.console.Jobs.ChangeStatus(job.ID, status))
}

// renderJobs renders the filter pills, the table and the pager, with the
// detail pane beside or over the table when a job is inspected.
func (m Model) renderJobs() string {
	height := max(m.height-chromeHeight, 1)
	snap := m.jobs.snap

	if snap.Detail != nil && m.width < LayoutSplitWidth {
		return m.renderTitledBox(jobDetailTitle(*snap.Detail), m.jobs.detail.View(), m.width, height, true)
	}

	tableWidth := m.width
	if snap.Detail != nil {
		tableWidth = m.width - m.width*45/100
	}

	list := m.renderJobList(tableWidth, height)
	if snap.Detail == nil {
		return list
	}
	detail := m.renderTitledBox(jobDetailTitle(*snap.Detail), m.jobs.detail.View(), m.width-tableWidth, height, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

func (m Model) renderJobList(width, height int) string {
	styles := m.theme.Styles()
	snap := m.jobs.snap

	pills := m.renderFilterPills()
	pager := m.renderPager()
	bodyHeight := max(height-lipgloss.Height(pills)-lipgloss.Height(pager)-1, 1)

	var body string
	switch {
	case snap.Empty():
		msg := "No jobs found."
		if snap.Pager.Filter != "" {
			msg = fmt.Sprintf("No %s jobs.", snap.Pager.Filter)
		}
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	case !snap.Loaded:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, styles.MutedText.Render("Loading jobs..."))
	default:
		body = m.renderJobTable(width, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, pills, body, "", pager)
}

func (m Model) renderFilterPills() string {
	bg := NewBgStyle(m.theme.Background)
	current := m.jobs.snap.Pager.Filter

	pills := make([]string, 0, len(jobFilters))
	for _, f := range jobFilters {
		label := "All"
		color := m.theme.Accent
		if f != "" {
			label = titleCase(string(f))
			color = string(m.theme.StatusColor(string(f)))
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if f == current {
			style = style.Background(lipgloss.Color(color)).Foreground(lipgloss.Color(m.theme.Background)).Bold(true)
		} else {
			style = style.Foreground(lipgloss.Color(m.theme.Muted))
		}
		pills = append(pills, style.Render(label))
	}
	return bg.Space() + strings.Join(pills, bg.Space())
}

// jobColumns sizes the table columns for width. Zero means hidden.
type jobColumns struct {
	title, company, location, source, status, scraped int
}

func jobColumnsFor(width int) jobColumns {
	cols := jobColumns{company: 20, status: 9, scraped: 9}
	if width >= LayoutCompactWidth {
		cols.location = 16
		cols.source = 14
	}
	used := cols.company + cols.status + cols.scraped + cols.location + cols.source
	gaps := 5
	if cols.location == 0 {
		gaps = 3
	}
	cols.title = max(width-used-gaps-2, 12)
	return cols
}

func (m Model) renderJobTable(width, height int) string {
	styles := m.theme.Styles()
	rows := m.jobs.snap.Rows
	cols := jobColumnsFor(width)

	header := cols.lead("Title", "Company", "Location", "Source") + " " +
		fit("Status", cols.status) + " " + fit("Scraped", cols.scraped)
	lines := []string{styles.FaintText.Bold(true).Render(" " + header)}

	visible := max(height-1, 1)
	first := 0
	if m.jobs.selected >= visible {
		first = m.jobs.selected - visible + 1
	}
	last := min(first+visible, len(rows))

	for i := first; i < last; i++ {
		job := rows[i]
		status := fit(string(job.Status), cols.status)
		lead := cols.lead(job.Title, job.Company, job.LocationLabel(), job.Source)
		scraped := fit(relativeTime(job.ParsedScrapedAt(), m.now), cols.scraped)

		if i == m.jobs.selected {
			lines = append(lines, styles.Selected.Width(width).Render(" "+lead+" "+status+" "+scraped))
			continue
		}
		statusCell := lipgloss.NewStyle().Foreground(m.theme.StatusColor(string(job.Status))).Render(status)
		lines = append(lines, " "+styles.Text.Render(lead)+" "+statusCell+" "+styles.MutedText.Render(scraped))
	}
	return strings.Join(lines, "\n")
}

// lead lays out the cells left of the status column.
func (c jobColumns) lead(title, company, location, source string) string {
	cells := []string{fit(title, c.title), fit(company, c.company)}
	if c.location > 0 {
		cells = append(cells, fit(location, c.location), fit(source, c.source))
	}
	return strings.Join(cells, " ")
}

func (m Model) renderPager() string {
	styles := m.theme.Styles()
	snap := m.jobs.snap
	shown := len(snap.Rows)
	pager := snap.Pager

	var summary string
	if start, end := pager.Window(shown); shown > 0 {
		summary = fmt.Sprintf("Showing %d-%d of %d", start, end, pager.Total)
	} else {
		summary = fmt.Sprintf("Showing 0 of %d", pager.Total)
	}
	if snap.Loading && snap.Loaded {
		summary += " · loading"
	}

	control := func(label string, disabled bool) string {
		if disabled {
			return styles.FaintText.Render(label)
		}
		return styles.AccentText.Render(label)
	}
	return " " + styles.MutedText.Render(summary) + "   " +
		control("[ prev", snap.Loading || pager.PrevDisabled()) + "  " +
		control("next ]", snap.Loading || pager.NextDisabled(shown))
}

func jobDetailTitle(job reqhunter.Job) string {
	return fmt.Sprintf("Job #%d", job.ID)
}

// renderJobDetail formats one posting for the detail viewport.
func renderJobDetail(job reqhunter.Job, theme Theme, width int) string {
	styles := theme.Styles()
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Faint)).Width(10)
	wrap := lipgloss.NewStyle().Width(width)

	field := func(name, value string) string {
		if strings.TrimSpace(value) == "" {
			value = "—"
		}
		return label.Render(name) + styles.Text.Render(value)
	}

	lines := []string{
		wrap.Inherit(styles.Text).Bold(true).Render(job.Title),
		"",
		field("Company", job.Company),
		field("Location", job.LocationLabel()),
		label.Render("Status") + styles.StatusStyle(string(job.Status)).Render(string(job.Status)),
		field("Source", job.Source),
		field("Scraped", formatTimestamp(job.ParsedScrapedAt())),
		field("Updated", formatTimestamp(job.ParsedUpdatedAt())),
		"",
		styles.AccentText.Render(job.URL),
	}
	if job.Description != nil && strings.TrimSpace(*job.Description) != "" {
		lines = append(lines, "", wrap.Inherit(styles.MutedText).Render(strings.TrimSpace(*job.Description)))
	}
	return strings.Join(lines, "\n")
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

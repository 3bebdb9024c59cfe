package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reqdeck/internal/console"
	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/prefs"
	"github.com/five82/reqdeck/internal/state"
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Console     *console.Console
	APIURL      string
	LogFile     string
	AutoRefresh <-chan time.Time // nil disables background refresh
	ThemeName   string
	PrefsPath   string
	Prefs       prefs.Prefs
	InitialTab  state.Tab
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	console     *console.Console
	apiURL      string
	logFile     string
	autoRefresh <-chan time.Time
	prefsPath   string
	prefs       prefs.Prefs
	initialTab  state.Tab

	// UI state
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	now      time.Time
	showHelp bool
	modal    Modal

	// Per-view state
	jobs     jobsView
	sources  sourcesView
	logs     logsView
	schedule scheduleView

	// notifications that already have an expiry tick scheduled
	toastTimers map[string]struct{}
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	initialTab := opts.InitialTab
	if initialTab == "" {
		initialTab = state.TabJobs
	}

	m := Model{
		ctx:         ctx,
		console:     opts.Console,
		apiURL:      opts.APIURL,
		logFile:     opts.LogFile,
		autoRefresh: opts.AutoRefresh,
		prefsPath:   prefsPath,
		prefs:       opts.Prefs,
		initialTab:  initialTab,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		now:         time.Now(),
		sources:     newSourcesView(),
		logs:        newLogsView(opts.Console.Logs.Limit()),
		schedule:    newScheduleView(),
		toastTimers: make(map[string]struct{}),
	}
	m.applyTheme(GetTheme(themeName))
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(DefaultUIInterval),
		waitForRefresh(m.autoRefresh),
		m.runTask("load jobs", m.console.Jobs.Refresh()),
	}
	if m.initialTab != state.TabJobs {
		cmds = append(cmds, m.openTab(m.initialTab))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model. Every message ends with the views resynced
// from the controllers, since tasks mutate them off the event loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.syncViews()
	return m, tea.Batch(cmd, m.scheduleToasts())
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		m.console.Notes.Prune(m.now)
		return m, tickCmd(DefaultUIInterval)

	case taskDoneMsg:
		return m, nil

	case autoRefreshMsg:
		return m.handleAutoRefresh()

	case toastExpiredMsg:
		m.console.Notes.Expire(msg.id)
		delete(m.toastTimers, msg.id)
		return m, nil

	case localLogsMsg:
		m.logs.applyLocal(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.console.Orchestrator.Running() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	// ctrl+c always quits, even while typing
	if msg.Type == tea.KeyCtrlC {
		cmd := m.quit()
		return m, cmd
	}

	if m.inputFocused() {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		cmd := m.quit()
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		cmd := m.openTab(m.neighborTab(1))
		return m, cmd

	case key.Matches(msg, m.keys.PrevTab):
		cmd := m.openTab(m.neighborTab(-1))
		return m, cmd

	case key.Matches(msg, m.keys.ViewJobs):
		cmd := m.openTab(state.TabJobs)
		return m, cmd

	case key.Matches(msg, m.keys.ViewSources):
		cmd := m.openTab(state.TabSources)
		return m, cmd

	case key.Matches(msg, m.keys.ViewLogs):
		cmd := m.openTab(state.TabLogs)
		return m, cmd

	case key.Matches(msg, m.keys.ViewSchedule):
		cmd := m.openTab(state.TabSchedule)
		return m, cmd

	case key.Matches(msg, m.keys.RunAll):
		return m, m.startRun(m.console.Orchestrator.RunAll())

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshVisible()
	}

	switch m.console.Store.Tab() {
	case state.TabJobs:
		return m.handleJobsKey(msg)
	case state.TabSources:
		return m.handleSourcesKey(msg)
	case state.TabLogs:
		return m.handleLogsKey(msg)
	case state.TabSchedule:
		return m.handleScheduleKey(msg)
	}
	return m, nil
}

// inputFocused reports whether a text input owns the keyboard.
func (m Model) inputFocused() bool {
	switch m.console.Store.Tab() {
	case state.TabSources:
		return m.sources.form.focused()
	case state.TabLogs:
		return m.logs.inputFocused()
	case state.TabSchedule:
		return m.schedule.input.Focused()
	}
	return false
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.console.Store.Tab() {
	case state.TabSources:
		return m.handleFormKey(msg)
	case state.TabLogs:
		return m.handleLogsInputKey(msg)
	case state.TabSchedule:
		return m.handleIntervalInputKey(msg)
	}
	return m, nil
}

// updateInputs forwards non-key messages (cursor blink) to the focused input.
func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.sources.form.focused():
		cmd = m.sources.form.update(msg)
	case m.logs.limitInput.Focused():
		m.logs.limitInput, cmd = m.logs.limitInput.Update(msg)
	case m.logs.searchInput.Focused():
		m.logs.searchInput, cmd = m.logs.searchInput.Update(msg)
	case m.schedule.input.Focused():
		m.schedule.input, cmd = m.schedule.input.Update(msg)
	}
	return m, cmd
}

func (m Model) neighborTab(step int) state.Tab {
	current := m.console.Store.Tab()
	for i, tab := range state.Tabs {
		if tab == current {
			return state.Tabs[(i+step+len(state.Tabs))%len(state.Tabs)]
		}
	}
	return state.TabJobs
}

// openTab switches views and starts whatever refresh entering the view needs.
func (m *Model) openTab(tab state.Tab) tea.Cmd {
	cmds := []tea.Cmd{m.runTask("open "+string(tab), m.console.SwitchTab(tab))}
	if tab == state.TabLogs && m.logs.local {
		cmds = append(cmds, readLocalLogsCmd(m.logFile))
	}
	m.savePrefs()
	return tea.Batch(cmds...)
}

func (m Model) refreshVisible() tea.Cmd {
	tab := m.console.Store.Tab()
	if tab == state.TabLogs && m.logs.local {
		return readLocalLogsCmd(m.logFile)
	}
	return m.runTask("refresh "+string(tab), m.console.RefreshVisible())
}

// startRun runs a scrape task with the spinner going. A nil task means a run
// is already in flight.
func (m Model) startRun(task console.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	return tea.Batch(m.runTask("scrape", task), m.spinner.Tick)
}

// handleAutoRefresh refreshes the visible view on the background schedule.
// A scrape in flight refreshes the visible view itself when it finishes.
func (m Model) handleAutoRefresh() (Model, tea.Cmd) {
	next := waitForRefresh(m.autoRefresh)
	if m.console.Orchestrator.Running() || m.inputFocused() {
		return m, next
	}
	return m, tea.Batch(next, m.refreshVisible())
}

// scheduleToasts starts an expiry tick for each notification that lacks one.
func (m Model) scheduleToasts() tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range m.console.Notes.Active() {
		if _, ok := m.toastTimers[n.ID]; ok {
			continue
		}
		m.toastTimers[n.ID] = struct{}{}
		cmds = append(cmds, expireToastCmd(n))
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyTheme(theme Theme) {
	m.theme = theme
	styles := theme.Styles()
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.spinner.Style = styles.WarningText
}

// savePrefs persists theme, tab and line count. Failures are logged only.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	m.prefs.Theme = m.theme.Name
	m.prefs.LastTab = string(m.console.Store.Tab())
	m.prefs.LogLines = m.console.Logs.Limit()
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Printf("[ui] save prefs: %v", err)
	}
}

func (m *Model) quit() tea.Cmd {
	m.savePrefs()
	return tea.Quit
}

// resize distributes the terminal size over the scrollable panes.
func (m *Model) resize() {
	contentHeight := max(m.height-chromeHeight, 1)
	m.help.Width = m.width
	m.jobs.resize(m.width, contentHeight)
	m.logs.resize(m.width, contentHeight)
	m.sources.form.setWidth(m.width)
}

// syncViews copies controller state into the view models.
func (m *Model) syncViews() {
	m.jobs.sync(m.console.Jobs.Snapshot(), m.theme)
	m.sources.sync(m.console.Sources.Snapshot())
	m.logs.sync(m.console.Logs.Snapshot(), m.theme)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabBar())
	b.WriteString("\n")

	content := m.renderContent()
	contentHeight := max(m.height-chromeHeight, 1)
	if toasts := m.renderToasts(); toasts != "" {
		content = overlayBottomRight(content, toasts, m.width, contentHeight)
	}
	b.WriteString(lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content))
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.console.Store.Tab() {
	case state.TabSources:
		return m.renderSources()
	case state.TabLogs:
		return m.renderLogs()
	case state.TabSchedule:
		return m.renderSchedule()
	default:
		return m.renderJobs()
	}
}

// Messages

type tickMsg time.Time

type autoRefreshMsg time.Time

type taskDoneMsg struct {
	op  string
	err error
}

type toastExpiredMsg struct {
	id string
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// runTask runs a controller task off the event loop. Failures were already
// turned into notifications by the controller; here they are only logged.
func (m Model) runTask(op string, task console.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		err := task.Run(ctx)
		if err != nil {
			log.Printf("[ui] %s: %v", op, err)
		}
		return taskDoneMsg{op: op, err: err}
	}
}

func waitForRefresh(ch <-chan time.Time) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return autoRefreshMsg(t)
	}
}

func expireToastCmd(n notify.Notification) tea.Cmd {
	return tea.Tick(time.Until(n.ExpiresAt()), func(time.Time) tea.Msg {
		return toastExpiredMsg{id: n.ID}
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// cancelled by signal
		return nil
	}
	return err
}

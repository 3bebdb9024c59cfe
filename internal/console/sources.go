package console

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

const defaultQueryParam = "q"

// FormMode is the source form state: Create, or Edit of one source id.
type FormMode struct {
	editing bool
	id      int64
}

// CreateMode is the initial form state.
func CreateMode() FormMode { return FormMode{} }

// EditMode targets an existing source.
func EditMode(id int64) FormMode { return FormMode{editing: true, id: id} }

// Editing returns the edited id and true in Edit mode.
func (m FormMode) Editing() (int64, bool) {
	return m.id, m.editing
}

func (m FormMode) String() string {
	if m.editing {
		return fmt.Sprintf("edit(%d)", m.id)
	}
	return "create"
}

// Form holds the raw text of the source form fields.
type Form struct {
	Name          string
	BaseURL       string
	Keyword       string
	QueryParam    string
	URLPathFilter string
}

func formFromSource(src reqhunter.Source) Form {
	f := Form{
		Name:       src.Name,
		BaseURL:    src.BaseURL,
		Keyword:    src.Keyword,
		QueryParam: src.QueryParam,
	}
	if f.QueryParam == "" {
		f.QueryParam = defaultQueryParam
	}
	if src.URLPathFilter != nil {
		f.URLPathFilter = *src.URLPathFilter
	}
	return f
}

// RunRequest asks the orchestrator to scrape one source.
type RunRequest struct {
	Path    string
	Trigger Trigger
}

// SourceRow is one rendered source with its run control.
type SourceRow struct {
	reqhunter.Source
	Running bool
}

// SourcesSnapshot is what the sources view renders.
type SourcesSnapshot struct {
	Rows   []SourceRow
	Loaded bool
	Mode   FormMode
	Form   Form
	// FormRev changes whenever the controller replaces the form contents,
	// so the UI knows to reload its inputs.
	FormRev int
	// PendingDelete is the source awaiting confirmation, if any.
	PendingDelete *reqhunter.Source
}

// Empty reports whether a fetch completed with no sources.
func (s SourcesSnapshot) Empty() bool {
	return s.Loaded && len(s.Rows) == 0
}

// Sources drives the source list, the create/edit form, and per-row actions.
type Sources struct {
	api   reqhunter.API
	store *state.Store
	notes notify.Notifier

	mu      sync.Mutex
	seq     uint64
	editSeq uint64
	rows    []reqhunter.Source
	loaded  bool
	buttons map[int64]*Button
	mode    FormMode
	form    Form
	formRev int
	pending *reqhunter.Source
	onRun   func(RunRequest) Task
}

// NewSources wires a sources controller in Create mode.
func NewSources(api reqhunter.API, store *state.Store, notes notify.Notifier) *Sources {
	return &Sources{
		api:     api,
		store:   store,
		notes:   notes,
		buttons: make(map[int64]*Button),
	}
}

// OnRun registers the listener for per-row run requests.
func (s *Sources) OnRun(fn func(RunRequest) Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRun = fn
}

// Snapshot returns a copy of the list and form state.
func (s *Sources) Snapshot() SourcesSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]SourceRow, len(s.rows))
	for i, src := range s.rows {
		rows[i] = SourceRow{Source: src}
		if b := s.buttons[src.ID]; b != nil {
			rows[i].Running = b.Disabled()
		}
	}
	var pending *reqhunter.Source
	if s.pending != nil {
		p := *s.pending
		pending = &p
	}
	return SourcesSnapshot{
		Rows:          rows,
		Loaded:        s.loaded,
		Mode:          s.mode,
		Form:          s.form,
		FormRev:       s.formRev,
		PendingDelete: pending,
	}
}

// Refresh fetches the full source list.
func (s *Sources) Refresh() Task {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	return func(ctx context.Context) error {
		items, err := s.api.ListSources(ctx)
		recordResult(s.store, err)

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return nil
		}
		if err != nil {
			s.notes.Push("Failed to load sources: "+err.Error(), notify.LevelErr)
			return fmt.Errorf("list sources: %w", err)
		}
		s.rows = items
		s.loaded = true
		s.syncButtons()
		return nil
	}
}

// syncButtons keeps one run button per listed source. Buttons of sources
// that are mid-run survive so the run can re-enable them.
func (s *Sources) syncButtons() {
	keep := make(map[int64]*Button, len(s.rows))
	for _, src := range s.rows {
		b := s.buttons[src.ID]
		if b == nil {
			b = NewButton("Run")
		}
		keep[src.ID] = b
	}
	for id, b := range s.buttons {
		if _, ok := keep[id]; !ok && b.Disabled() {
			keep[id] = b
		}
	}
	s.buttons = keep
}

// RunButton returns the run control of a listed source.
func (s *Sources) RunButton(id int64) *Button {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[id]
}

// BeginEdit loads a source and switches the form to Edit mode once it arrives.
func (s *Sources) BeginEdit(id int64) Task {
	s.mu.Lock()
	s.editSeq++
	seq := s.editSeq
	s.mu.Unlock()

	return func(ctx context.Context) error {
		src, err := s.api.FetchSource(ctx, id)
		recordResult(s.store, err)
		if err != nil {
			s.notes.Push("Failed to load source for editing", notify.LevelErr)
			return fmt.Errorf("fetch source %d: %w", id, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.editSeq {
			return nil
		}
		s.mode = EditMode(src.ID)
		s.setForm(formFromSource(src))
		return nil
	}
}

// Cancel leaves Edit mode and clears the form without touching the network.
func (s *Sources) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editSeq++
	s.resetForm()
}

func (s *Sources) resetForm() {
	s.mode = CreateMode()
	s.setForm(Form{})
}

func (s *Sources) setForm(f Form) {
	s.form = f
	s.formRev++
}

// Submit validates the form and creates or updates a source depending on the
// current mode. Validation failures notify and return a nil task.
func (s *Sources) Submit(f Form) Task {
	f = Form{
		Name:          strings.TrimSpace(f.Name),
		BaseURL:       strings.TrimSpace(f.BaseURL),
		Keyword:       strings.TrimSpace(f.Keyword),
		QueryParam:    strings.TrimSpace(f.QueryParam),
		URLPathFilter: strings.TrimSpace(f.URLPathFilter),
	}

	s.mu.Lock()
	s.form = f
	mode := s.mode
	s.mu.Unlock()

	if f.Name == "" || f.BaseURL == "" || f.Keyword == "" {
		s.notes.Push("Name, URL, and keyword are required", notify.LevelErr)
		return nil
	}
	if f.QueryParam == "" {
		f.QueryParam = defaultQueryParam
	}
	var filter *string
	if f.URLPathFilter != "" {
		filter = &f.URLPathFilter
	}

	return func(ctx context.Context) error {
		var err error
		id, editing := mode.Editing()
		if editing {
			err = s.api.UpdateSource(ctx, id, reqhunter.SourcePatch{
				Name:          &f.Name,
				BaseURL:       &f.BaseURL,
				Keyword:       &f.Keyword,
				QueryParam:    &f.QueryParam,
				URLPathFilter: filter,
			})
		} else {
			_, err = s.api.CreateSource(ctx, reqhunter.SourceInput{
				Name:          f.Name,
				BaseURL:       f.BaseURL,
				Keyword:       f.Keyword,
				QueryParam:    f.QueryParam,
				URLPathFilter: filter,
			})
		}
		recordResult(s.store, err)
		if err != nil {
			action := "add"
			if editing {
				action = "update"
			}
			s.notes.Push(fmt.Sprintf("Failed to %s source: %s", action, err.Error()), notify.LevelErr)
			return fmt.Errorf("%s source: %w", action, err)
		}

		if editing {
			s.notes.Push("Source updated", notify.LevelOK)
		} else {
			s.notes.Push("Source added", notify.LevelOK)
		}
		s.mu.Lock()
		// a newer edit started while this request was in flight keeps its form
		if s.mode == mode {
			s.resetForm()
		}
		s.mu.Unlock()
		return s.Refresh().Run(ctx)
	}
}

// ToggleActive flips the active flag immediately and reverts it if the
// server rejects the change.
func (s *Sources) ToggleActive(id int64) Task {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	active := !s.rows[idx].IsActive
	s.rows[idx].IsActive = active
	s.mu.Unlock()

	return func(ctx context.Context) error {
		err := s.api.UpdateSource(ctx, id, reqhunter.SourcePatch{IsActive: &active})
		recordResult(s.store, err)
		if err != nil {
			s.mu.Lock()
			if idx := s.indexOf(id); idx >= 0 && s.rows[idx].IsActive == active {
				s.rows[idx].IsActive = !active
			}
			s.mu.Unlock()
			s.notes.Push("Failed to update source", notify.LevelErr)
			return fmt.Errorf("toggle source %d: %w", id, err)
		}
		if active {
			s.notes.Push("Source activated", notify.LevelOK)
		} else {
			s.notes.Push("Source paused", notify.LevelOK)
		}
		return nil
	}
}

// ClearBlock lifts an automatic block and reactivates the source.
func (s *Sources) ClearBlock(id int64) Task {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 || !s.rows[idx].IsBlocked {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return func(ctx context.Context) error {
		err := s.api.UpdateSource(ctx, id, reqhunter.SourcePatch{ClearBlocked: true})
		recordResult(s.store, err)
		if err != nil {
			s.notes.Push("Failed to unblock source: "+err.Error(), notify.LevelErr)
			return fmt.Errorf("unblock source %d: %w", id, err)
		}
		s.notes.Push("Source unblocked", notify.LevelOK)
		return s.Refresh().Run(ctx)
	}
}

// RequestDelete stages a deletion and returns the confirmation prompt. No
// request is made until ConfirmDelete.
func (s *Sources) RequestDelete(id int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return "", false
	}
	src := s.rows[idx]
	s.pending = &src
	return fmt.Sprintf("Delete %q?", src.Name), true
}

// DismissDelete drops a staged deletion.
func (s *Sources) DismissDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// ConfirmDelete issues the staged deletion, then reloads the list.
func (s *Sources) ConfirmDelete() Task {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	if pending == nil {
		return nil
	}
	id := pending.ID

	return func(ctx context.Context) error {
		err := s.api.DeleteSource(ctx, id)
		recordResult(s.store, err)
		if err != nil {
			s.notes.Push("Delete failed", notify.LevelErr)
			return fmt.Errorf("delete source %d: %w", id, err)
		}
		s.notes.Push("Source deleted", notify.LevelOK)
		s.mu.Lock()
		if editID, editing := s.mode.Editing(); editing && editID == id {
			s.editSeq++
			s.resetForm()
		}
		s.mu.Unlock()
		return s.Refresh().Run(ctx)
	}
}

// Run asks the registered listener to scrape one source. The controller
// itself makes no request.
func (s *Sources) Run(id int64) Task {
	s.mu.Lock()
	listener := s.onRun
	button := s.buttons[id]
	s.mu.Unlock()

	if listener == nil || button == nil {
		return nil
	}
	return listener(RunRequest{Path: reqhunter.RunSourcePath(id), Trigger: button})
}

func (s *Sources) indexOf(id int64) int {
	for i, row := range s.rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reqdeck/internal/console"
)

const (
	fieldName = iota
	fieldBaseURL
	fieldKeyword
	fieldQueryParam
	fieldPathFilter
	fieldCount
)

var formFields = [fieldCount]struct {
	label       string
	placeholder string
}{
	fieldName:       {"Name", "Acme careers"},
	fieldBaseURL:    {"Base URL", "https://careers.example.com/search"},
	fieldKeyword:    {"Keyword", "golang"},
	fieldQueryParam: {"Query param", "q"},
	fieldPathFilter: {"Path filter", "/jobs/ (optional)"},
}

// sourceForm is the text inputs behind the source create/edit form.
type sourceForm struct {
	inputs [fieldCount]textinput.Model
	focus  int // -1 when the form does not own the keyboard
	rev    int // last controller FormRev loaded into the inputs
}

func newSourceForm() sourceForm {
	f := sourceForm{focus: -1}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = formFields[i].placeholder
		in.CharLimit = 512
		f.inputs[i] = in
	}
	return f
}

func (f sourceForm) focused() bool {
	return f.focus >= 0
}

func (f *sourceForm) focusField(i int) tea.Cmd {
	f.blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *sourceForm) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = -1
}

// load replaces the input contents with the controller's form.
func (f *sourceForm) load(form console.Form) {
	values := [fieldCount]string{
		fieldName:       form.Name,
		fieldBaseURL:    form.BaseURL,
		fieldKeyword:    form.Keyword,
		fieldQueryParam: form.QueryParam,
		fieldPathFilter: form.URLPathFilter,
	}
	for i, v := range values {
		f.inputs[i].SetValue(v)
		f.inputs[i].CursorEnd()
	}
}

func (f sourceForm) values() console.Form {
	return console.Form{
		Name:          f.inputs[fieldName].Value(),
		BaseURL:       f.inputs[fieldBaseURL].Value(),
		Keyword:       f.inputs[fieldKeyword].Value(),
		QueryParam:    f.inputs[fieldQueryParam].Value(),
		URLPathFilter: f.inputs[fieldPathFilter].Value(),
	}
}

// update forwards msg to the focused input.
func (f *sourceForm) update(msg tea.Msg) tea.Cmd {
	if !f.focused() {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *sourceForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(width/2-18, 16)
	}
}

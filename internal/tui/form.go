package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field is a labelled text input
type field struct {
	label string
	input textinput.Model
}

func newField(label, placeholder string, limit int) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	return field{label: label, input: ti}
}

func newPasswordField(label string) field {
	f := newField(label, "", 128)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// form is an ordered set of text fields. Screens put their own controls
// (pickers, lists, buttons) after the fields, so a focus index at or past
// len(fields) belongs to the screen.
type form struct {
	fields []field
}

func newForm(fields ...field) form {
	return form{fields: fields}
}

// focusOn focuses field i and blurs the rest
func (f *form) focusOn(i int) {
	for j := range f.fields {
		if j == i {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}

// update sends a key to the focused field
func (f *form) update(i int, msg tea.KeyMsg) tea.Cmd {
	if i < 0 || i >= len(f.fields) {
		return nil
	}
	var cmd tea.Cmd
	f.fields[i].input, cmd = f.fields[i].input.Update(msg)
	return cmd
}

func (f form) value(i int) string {
	return f.fields[i].input.Value()
}

func (f *form) set(i int, v string) {
	f.fields[i].input.SetValue(v)
}

func (f form) isField(i int) bool {
	return i >= 0 && i < len(f.fields)
}

// view renders every field, highlighting the focused one
func (f form) view(focus int) string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := LabelStyle
		if i == focus {
			label = FocusedLabelStyle
		}
		b.WriteString(label.Render(fl.label) + "\n")
		b.WriteString(fl.input.View() + "\n\n")
	}
	return b.String()
}

// cycle moves focus forward or backward over n slots
func cycle(focus, n int, backward bool) int {
	if n <= 0 {
		return 0
	}
	if backward {
		return (focus - 1 + n) % n
	}
	return (focus + 1) % n
}

// button renders a submit control
func button(label string, focused, busy bool, busyLabel string) string {
	if busy {
		label = busyLabel
	}
	if focused {
		return ButtonFocusedStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}

// banner renders the inline error and success lines of a screen
func banner(errMsg, success string) string {
	var b strings.Builder
	if errMsg != "" {
		b.WriteString(ErrorStyle.Render("✗ "+errMsg) + "\n")
	}
	if success != "" {
		b.WriteString(SuccessStyle.Render("✓ "+success) + "\n")
	}
	return b.String()
}

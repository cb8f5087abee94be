package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerpilot/internal/ui/theme"
)

// AnswerCharLimit bounds a single typed answer.
const AnswerCharLimit = 2000

// TextInput wraps bubbles/textinput for free-form answers. Slash commands
// such as /hint are reported separately from answers.
type TextInput struct {
	Model  textinput.Model
	locked bool
}

// NewTextInput creates a focused input with the given placeholder.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards messages to the input unless it is locked.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.locked {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input, dimmed while locked.
func (t TextInput) View() string {
	if t.locked {
		return theme.Hint.Render(t.Model.Prompt + t.Model.Value())
	}
	return t.Model.View()
}

// Value returns the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Command returns the slash command typed into the input, if any.
func (t TextInput) Command() (string, bool) {
	v := t.Value()
	if !strings.HasPrefix(v, "/") || strings.ContainsAny(v, " \t") {
		return "", false
	}
	return strings.ToLower(v), true
}

// Lock stops the input from taking keys while a request is in flight.
func (t *TextInput) Lock() { t.locked = true }

// Unlock makes the input editable again.
func (t *TextInput) Unlock() { t.locked = false }

// Locked reports whether the input is locked.
func (t TextInput) Locked() bool { return t.locked }

// Clear empties the input.
func (t *TextInput) Clear() { t.Model.SetValue("") }

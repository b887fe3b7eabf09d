package widgets

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// NewlineKeys insert a line break in multi-line inputs. Plain enter is left
// to the wizard so it can advance.
var NewlineKeys = []string{"shift+enter", "alt+enter", "ctrl+j"}

// TextArea is a multi-line input.
type TextArea struct {
	area    textarea.Model
	focused bool
}

// NewTextArea returns a multi-line input.
func NewTextArea(placeholder string) *TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys(NewlineKeys...))
	return &TextArea{area: ta}
}

func (t *TextArea) Value() any { return strings.TrimSpace(t.area.Value()) }

func (t *TextArea) SetValue(v any) {
	if s, ok := v.(string); ok {
		t.area.SetValue(s)
	}
}

func (t *TextArea) Update(msg tea.KeyMsg) (Widget, tea.Cmd) {
	var cmd tea.Cmd
	t.area, cmd = t.area.Update(msg)
	return t, cmd
}

func (t *TextArea) View() string { return frame(t.focused, t.area.View()) }

func (t *TextArea) Focus() tea.Cmd {
	t.focused = true
	return t.area.Focus()
}

func (t *TextArea) Blur() {
	t.focused = false
	t.area.Blur()
}

func (t *TextArea) Validate() error { return nil }

func (t *TextArea) Hint() string { return "Shift/Alt + Enter for new line • Enter ↵ to continue" }

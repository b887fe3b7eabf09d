package widgets

import (
	"errors"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var linkedInPattern = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/in/[A-Za-z0-9_-]+/?$`)

// ErrInvalidLinkedIn is returned for URLs that are not a LinkedIn profile.
var ErrInvalidLinkedIn = errors.New("enter a LinkedIn profile URL like https://linkedin.com/in/you")

// ValidateLinkedIn accepts an empty value or a LinkedIn profile URL.
func ValidateLinkedIn(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || linkedInPattern.MatchString(s) {
		return nil
	}
	return ErrInvalidLinkedIn
}

// Text is a single-line input.
type Text struct {
	input    textinput.Model
	validate func(string) error
	focused  bool
}

// NewText returns a single-line input. validate may be nil.
func NewText(placeholder string, validate func(string) error) *Text {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = "› "
	return &Text{input: ti, validate: validate}
}

func (t *Text) Value() any { return strings.TrimSpace(t.input.Value()) }

func (t *Text) SetValue(v any) {
	if s, ok := v.(string); ok {
		t.input.SetValue(s)
	}
}

func (t *Text) Update(msg tea.KeyMsg) (Widget, tea.Cmd) {
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

func (t *Text) View() string {
	body := t.input.View()
	if err := t.Validate(); err != nil && strings.TrimSpace(t.input.Value()) != "" {
		body += "\n" + errorStyle.Render(err.Error())
	}
	return frame(t.focused, body)
}

func (t *Text) Focus() tea.Cmd {
	t.focused = true
	return t.input.Focus()
}

func (t *Text) Blur() {
	t.focused = false
	t.input.Blur()
}

func (t *Text) Validate() error {
	if t.validate == nil {
		return nil
	}
	return t.validate(t.input.Value())
}

func (t *Text) Hint() string { return "press Enter ↵" }

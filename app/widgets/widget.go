// Package widgets holds the field inputs the wizard renders, one per step.
// Each one satisfies Widget so the wizard can bind any of them to the form
// store without knowing what it edits.
package widgets

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Widget is the contract every field input satisfies.
type Widget interface {
	// Value returns the current value in the shape the form store keeps.
	Value() any
	// SetValue loads a stored value. Unusable values are ignored.
	SetValue(v any)
	Update(msg tea.KeyMsg) (Widget, tea.Cmd)
	View() string
	Focus() tea.Cmd
	Blur()
	// Validate reports an error that should block leaving the step.
	Validate() error
	// Hint is the keyboard help shown under the control.
	Hint() string
}

// Option is a selectable choice with a stored value and a display label.
type Option struct {
	Value string
	Label string
}

// Opts builds options whose value and label are the same string.
func Opts(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

var (
	accent       = lipgloss.Color("#ff3600")
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	choiceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	chosenStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	pillStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	pillOnStyle  = pillStyle.BorderForeground(accent).Bold(true)
	boxStyle     = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62"))
	boxBlurStyle = boxStyle.BorderForeground(lipgloss.Color("240"))
)

func frame(focused bool, body string) string {
	if focused {
		return boxStyle.Render(body)
	}
	return boxBlurStyle.Render(body)
}

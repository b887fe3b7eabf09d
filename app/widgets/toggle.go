package widgets

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Toggle is a single-choice pill group. Moving onto a pill selects it.
type Toggle struct {
	options  []Option
	selected int
	focused  bool
}

// NewToggle returns a toggle group with nothing selected.
func NewToggle(options []Option) *Toggle {
	return &Toggle{options: options, selected: -1}
}

func (t *Toggle) Value() any {
	if t.selected < 0 {
		return ""
	}
	return t.options[t.selected].Value
}

func (t *Toggle) SetValue(v any) {
	s, ok := v.(string)
	if !ok {
		return
	}
	for i, o := range t.options {
		if o.Value == s {
			t.selected = i
			return
		}
	}
}

func (t *Toggle) Update(msg tea.KeyMsg) (Widget, tea.Cmd) {
	n := len(t.options)
	if n == 0 {
		return t, nil
	}
	switch msg.String() {
	case "left", "h", "shift+tab":
		if t.selected <= 0 {
			t.selected = n - 1
		} else {
			t.selected--
		}
	case "right", "l", "tab", " ":
		t.selected = (t.selected + 1) % n
	}
	return t, nil
}

func (t *Toggle) View() string {
	pills := make([]string, len(t.options))
	for i, o := range t.options {
		if i == t.selected {
			pills[i] = pillOnStyle.Render(o.Label)
		} else {
			pills[i] = pillStyle.Render(o.Label)
		}
	}
	return joinRow(pills)
}

func joinRow(cells []string) string {
	var rows [][]string
	for _, c := range cells {
		rows = append(rows, strings.Split(c, "\n"))
	}
	height := 0
	for _, r := range rows {
		height = max(height, len(r))
	}
	var b strings.Builder
	for line := 0; line < height; line++ {
		for _, r := range rows {
			if line < len(r) {
				b.WriteString(r[line])
			}
			b.WriteString(" ")
		}
		if line < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (t *Toggle) Focus() tea.Cmd {
	t.focused = true
	return nil
}

func (t *Toggle) Blur() { t.focused = false }

func (t *Toggle) Validate() error { return nil }

func (t *Toggle) Hint() string { return "←/→ choose • Enter ↵ to continue" }

// Switch is an on/off control.
type Switch struct {
	on      bool
	label   string
	focused bool
}

// NewSwitch returns a switch with the given label.
func NewSwitch(label string) *Switch { return &Switch{label: label} }

func (s *Switch) Value() any { return s.on }

func (s *Switch) SetValue(v any) {
	if b, ok := v.(bool); ok {
		s.on = b
	}
}

func (s *Switch) Update(msg tea.KeyMsg) (Widget, tea.Cmd) {
	switch msg.String() {
	case " ", "left", "right", "h", "l":
		s.on = !s.on
	case "y":
		s.on = true
	case "n":
		s.on = false
	}
	return s, nil
}

func (s *Switch) View() string {
	state := pillStyle.Render("Off")
	if s.on {
		state = pillOnStyle.Render("On")
	}
	return joinRow([]string{state, "\n" + choiceStyle.Render(s.label)})
}

func (s *Switch) Focus() tea.Cmd {
	s.focused = true
	return nil
}

func (s *Switch) Blur() { s.focused = false }

func (s *Switch) Validate() error { return nil }

func (s *Switch) Hint() string { return "space toggles • Enter ↵ to continue" }

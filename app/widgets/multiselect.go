package widgets

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// MultiSelect picks any number of options, optionally capped at Max.
// Enter toggles the item under the cursor, so steps using it suppress
// enter-to-advance.
type MultiSelect struct {
	options  []Option
	selected []string
	cursor   int
	max      int
	focused  bool
	notice   string
}

// NewMultiSelect returns a multi-select. max <= 0 means unlimited.
func NewMultiSelect(options []Option, max int) *MultiSelect {
	return &MultiSelect{options: options, max: max}
}

func (m *MultiSelect) Value() any { return append([]string{}, m.selected...) }

func (m *MultiSelect) SetValue(v any) {
	var in []string
	switch t := v.(type) {
	case []string:
		in = t
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				in = append(in, s)
			}
		}
	default:
		return
	}
	m.selected = m.selected[:0]
	for _, s := range in {
		if m.known(s) && !slices.Contains(m.selected, s) {
			m.selected = append(m.selected, s)
		}
	}
}

func (m *MultiSelect) known(v string) bool {
	for _, o := range m.options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Cursor returns the option under the cursor.
func (m *MultiSelect) Cursor() Option {
	if len(m.options) == 0 {
		return Option{}
	}
	return m.options[m.cursor]
}

func (m *MultiSelect) Update(msg tea.KeyMsg) (Widget, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ", "enter", "x":
		m.toggle(m.Cursor().Value)
	}
	return m, nil
}

func (m *MultiSelect) toggle(v string) {
	if v == "" {
		return
	}
	if i := slices.Index(m.selected, v); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
		return
	}
	if m.max > 0 && len(m.selected) >= m.max {
		m.notice = fmt.Sprintf("You can pick at most %d", m.max)
		return
	}
	m.selected = append(m.selected, v)
}

func (m *MultiSelect) View() string {
	return frame(m.focused, m.render(nil))
}

// render draws the list; suffix, when set, appends text to a chosen row.
func (m *MultiSelect) render(suffix func(Option) string) string {
	var b strings.Builder
	for i, o := range m.options {
		pointer := "  "
		if i == m.cursor && m.focused {
			pointer = cursorStyle.Render("› ")
		}
		box, style := "[ ]", choiceStyle
		if slices.Contains(m.selected, o.Value) {
			box, style = "[x]", chosenStyle
		}
		line := pointer + style.Render(box+" "+o.Label)
		if suffix != nil && slices.Contains(m.selected, o.Value) {
			line += " " + suffix(o)
		}
		b.WriteString(line)
		if i < len(m.options)-1 {
			b.WriteString("\n")
		}
	}
	if m.max > 0 {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d/%d selected", len(m.selected), m.max)))
	}
	if m.notice != "" {
		b.WriteString("\n" + errorStyle.Render(m.notice))
	}
	return b.String()
}

func (m *MultiSelect) Focus() tea.Cmd {
	m.focused = true
	return nil
}

func (m *MultiSelect) Blur() { m.focused = false }

func (m *MultiSelect) Validate() error { return nil }

func (m *MultiSelect) Hint() string { return "↑/↓ move • space/enter toggle • ctrl+n next" }

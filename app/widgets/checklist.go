package widgets

import (
	"maps"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Checklist edits a set of named flags.
type Checklist struct {
	options []Option
	flags   map[string]bool
	cursor  int
	focused bool
}

// NewChecklist returns a checklist with every flag off.
func NewChecklist(options []Option) *Checklist {
	c := &Checklist{options: options, flags: map[string]bool{}}
	for _, o := range options {
		c.flags[o.Value] = false
	}
	return c
}

func (c *Checklist) Value() any { return maps.Clone(c.flags) }

func (c *Checklist) SetValue(v any) {
	switch t := v.(type) {
	case map[string]bool:
		for k, on := range t {
			if _, ok := c.flags[k]; ok {
				c.flags[k] = on
			}
		}
	case map[string]any:
		for k, raw := range t {
			on, isBool := raw.(bool)
			if _, ok := c.flags[k]; ok && isBool {
				c.flags[k] = on
			}
		}
	}
}

func (c *Checklist) Update(msg tea.KeyMsg) (Widget, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.options)-1 {
			c.cursor++
		}
	case " ", "x":
		if len(c.options) > 0 {
			k := c.options[c.cursor].Value
			c.flags[k] = !c.flags[k]
		}
	}
	return c, nil
}

func (c *Checklist) View() string {
	var b strings.Builder
	for i, o := range c.options {
		pointer := "  "
		if i == c.cursor && c.focused {
			pointer = cursorStyle.Render("› ")
		}
		box, style := "[ ]", choiceStyle
		if c.flags[o.Value] {
			box, style = "[x]", chosenStyle
		}
		b.WriteString(pointer + style.Render(box+" "+o.Label))
		if i < len(c.options)-1 {
			b.WriteString("\n")
		}
	}
	return frame(c.focused, b.String())
}

func (c *Checklist) Focus() tea.Cmd {
	c.focused = true
	return nil
}

func (c *Checklist) Blur() { c.focused = false }

func (c *Checklist) Validate() error { return nil }

func (c *Checklist) Hint() string { return "↑/↓ move • space toggles • Enter ↵ to continue" }

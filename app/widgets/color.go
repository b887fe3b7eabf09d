package widgets

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the preset accent colors.
var Palette = []string{
	"#ff3600", "#ef4444", "#f97316", "#eab308", "#22c55e",
	"#14b8a6", "#3b82f6", "#6366f1", "#7c3aed", "#ec4899",
}

// ErrInvalidColor is returned for a custom value that is not a hex color.
var ErrInvalidColor = errors.New("enter a hex color like #7c3aed")

// NormalizeHex parses s as a hex color and returns it as lowercase #rrggbb.
func NormalizeHex(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", ErrInvalidColor
	}
	return c.Hex(), nil
}

// ColorPicker chooses an accent color from the palette or a custom hex.
// Tab switches between the two.
type ColorPicker struct {
	index   int
	custom  bool
	input   textinput.Model
	focused bool
}

// NewColorPicker returns a picker with nothing chosen.
func NewColorPicker() *ColorPicker {
	ti := textinput.New()
	ti.Placeholder = "#rrggbb"
	ti.CharLimit = 7
	ti.Width = 10
	ti.Prompt = "hex › "
	return &ColorPicker{index: -1, input: ti}
}

func (c *ColorPicker) Value() any {
	if c.custom {
		hex, err := NormalizeHex(c.input.Value())
		if err != nil {
			return ""
		}
		return hex
	}
	if c.index < 0 {
		return ""
	}
	return Palette[c.index]
}

func (c *ColorPicker) SetValue(v any) {
	s, ok := v.(string)
	if !ok || s == "" {
		return
	}
	hex, err := NormalizeHex(s)
	if err != nil {
		return
	}
	for i, p := range Palette {
		if p == hex {
			c.index, c.custom = i, false
			return
		}
	}
	c.custom = true
	c.input.SetValue(hex)
}

func (c *ColorPicker) Update(msg tea.KeyMsg) (Widget, tea.Cmd) {
	if msg.String() == "tab" || msg.String() == "shift+tab" {
		c.custom = !c.custom
		if c.custom {
			return c, c.input.Focus()
		}
		c.input.Blur()
		return c, nil
	}
	if c.custom {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	n := len(Palette)
	switch msg.String() {
	case "left", "h":
		if c.index <= 0 {
			c.index = n - 1
		} else {
			c.index--
		}
	case "right", "l", " ":
		c.index = (c.index + 1) % n
	}
	return c, nil
}

func (c *ColorPicker) View() string {
	swatches := make([]string, len(Palette))
	for i, p := range Palette {
		mark := "  "
		if !c.custom && i == c.index {
			mark = "██"
		}
		swatches[i] = lipgloss.NewStyle().Background(lipgloss.Color(p)).Foreground(lipgloss.Color("#ffffff")).Render(" " + mark + " ")
	}
	out := strings.Join(swatches, " ")
	line := c.input.View()
	if c.custom {
		if hex, err := NormalizeHex(c.input.Value()); err == nil {
			line += "  " + lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
		} else if c.input.Value() != "" {
			line += "  " + errorStyle.Render(err.Error())
		}
	}
	out += "\n\n" + line
	if v, _ := c.Value().(string); v != "" {
		out += "\n" + mutedStyle.Render("selected "+v)
	}
	return frame(c.focused, out)
}

func (c *ColorPicker) Focus() tea.Cmd {
	c.focused = true
	if c.custom {
		return c.input.Focus()
	}
	return nil
}

func (c *ColorPicker) Blur() {
	c.focused = false
	c.input.Blur()
}

func (c *ColorPicker) Validate() error {
	if c.custom {
		_, err := NormalizeHex(c.input.Value())
		return err
	}
	return nil
}

func (c *ColorPicker) Hint() string { return "←/→ palette • tab custom hex • Enter ↵ to continue" }

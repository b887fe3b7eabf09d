package widgets

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Slider picks an integer in [min, max].
type Slider struct {
	min, max int
	value    int
	unit     string
	bar      progress.Model
	focused  bool
}

// NewSlider returns a slider starting at lo.
func NewSlider(lo, hi int, unit string) *Slider {
	bar := progress.New(progress.WithSolidFill(string(accent)), progress.WithWidth(40), progress.WithoutPercentage())
	return &Slider{min: lo, max: hi, value: lo, unit: unit, bar: bar}
}

func (s *Slider) Value() any { return s.value }

func (s *Slider) SetValue(v any) {
	switch t := v.(type) {
	case int:
		s.set(t)
	case float64:
		s.set(int(t))
	}
}

func (s *Slider) set(n int) {
	s.value = min(max(n, s.min), s.max)
}

func (s *Slider) Update(msg tea.KeyMsg) (Widget, tea.Cmd) {
	switch msg.String() {
	case "left", "h", "down", "j":
		s.set(s.value - 1)
	case "right", "l", "up", "k":
		s.set(s.value + 1)
	case "pgdown":
		s.set(s.value - 5)
	case "pgup":
		s.set(s.value + 5)
	case "home":
		s.set(s.min)
	case "end":
		s.set(s.max)
	}
	return s, nil
}

func (s *Slider) View() string {
	pct := 0.0
	if s.max > s.min {
		pct = float64(s.value-s.min) / float64(s.max-s.min)
	}
	label := fmt.Sprintf("%d %s", s.value, s.unit)
	if s.value == s.max {
		label = fmt.Sprintf("%d+ %s", s.value, s.unit)
	}
	return s.bar.ViewAs(pct) + "  " + chosenStyle.Render(label)
}

func (s *Slider) Focus() tea.Cmd {
	s.focused = true
	return nil
}

func (s *Slider) Blur() { s.focused = false }

func (s *Slider) Validate() error { return nil }

func (s *Slider) Hint() string { return "←/→ adjust • Enter ↵ to continue" }

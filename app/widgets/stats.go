package widgets

import (
	"maps"
	"slices"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatCards are the GitHub stat cards a profile can embed.
var StatCards = []string{"GitHub Stats Card", "Top Languages Card", "GitHub Streak Stats"}

// MaxStats caps how many cards can be chosen.
const MaxStats = 3

// Stats picks stat cards and a color for each.
type Stats struct {
	list   *MultiSelect
	colors map[string]string
}

// NewStats returns a stats picker.
func NewStats() *Stats {
	return &Stats{list: NewMultiSelect(Opts(StatCards...), MaxStats), colors: map[string]string{}}
}

func (s *Stats) Value() any {
	sel, _ := s.list.Value().([]string)
	colors := map[string]string{}
	for _, name := range sel {
		if c, ok := s.colors[name]; ok {
			colors[name] = c
		}
	}
	return form.Stats{Selected: sel, Colors: colors}.Record()
}

func (s *Stats) SetValue(v any) {
	st := form.State{form.KeyStatsConfig: v}.Stats()
	s.list.SetValue(st.Selected)
	maps.Copy(s.colors, st.Colors)
}

func (s *Stats) Update(msg tea.KeyMsg) (Widget, tea.Cmd) {
	if msg.String() == "c" {
		name := s.list.Cursor().Value
		sel, _ := s.list.Value().([]string)
		if slices.Contains(sel, name) {
			s.colors[name] = nextColor(s.colors[name])
		}
		return s, nil
	}
	_, cmd := s.list.Update(msg)
	return s, cmd
}

func nextColor(cur string) string {
	i := slices.Index(Palette, cur)
	return Palette[(i+1)%len(Palette)]
}

func (s *Stats) View() string {
	body := s.list.render(func(o Option) string {
		c, ok := s.colors[o.Value]
		if !ok {
			return mutedStyle.Render("default color")
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("● " + c)
	})
	return frame(s.list.focused, body)
}

func (s *Stats) Focus() tea.Cmd { return s.list.Focus() }

func (s *Stats) Blur() { s.list.Blur() }

func (s *Stats) Validate() error { return nil }

func (s *Stats) Hint() string { return "↑/↓ move • space toggle • c cycle color • ctrl+n next" }

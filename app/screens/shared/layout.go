package shared

import (
	"github.com/Guerrilla-Interactive/readmegen/app"
	"github.com/charmbracelet/lipgloss"
)

// ComputeLeftPanelWidth returns a stable left column width based on the
// terminal width, clamped so the right side keeps at least 32 columns.
func ComputeLeftPanelWidth(termWidth int) int {
	const (
		defaultLeft = 56
		minLeft     = 36
		maxLeft     = 72
		gap         = 1
		rightMin    = 32
	)
	if termWidth <= 0 {
		return defaultLeft
	}
	left := (termWidth * 9) / 20 // ~45%
	left = min(max(left, minLeft), maxLeft)
	if left+gap+rightMin > termWidth {
		left = termWidth - gap - rightMin
	}
	return max(left, 20)
}

// ComputeRightPanelWidth returns the remaining width after the left panel and a gap.
func ComputeRightPanelWidth(termWidth, left, gap int) int {
	return max(termWidth-left-gap, 0)
}

// ContentHeight is the room left for a screen body above its footer.
func ContentHeight(m app.Model, footer string) int {
	h := m.TerminalHeight - lipgloss.Height(footer) - 2
	return max(h, 10)
}

// Place bottom-aligns view in the terminal like every other screen.
func Place(m app.Model, view string) string {
	if m.TerminalWidth > 0 && m.TerminalHeight > 0 {
		return lipgloss.Place(m.TerminalWidth, m.TerminalHeight, lipgloss.Left, lipgloss.Bottom, view)
	}
	return view
}

// Chips renders labels as inline pills. colors, when set, tints each pill.
func Chips(labels []string, colors []string) string {
	out := make([]string, len(labels))
	for i, l := range labels {
		style := app.ChipStyle
		if i < len(colors) && colors[i] != "" {
			style = style.Background(lipgloss.Color(colors[i]))
		}
		out[i] = style.Render(l)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, interleave(out, " ")...)
}

func interleave(items []string, sep string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items)*2-1)
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}

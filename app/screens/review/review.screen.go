package review

import (
	"fmt"
	"strings"

	"github.com/Guerrilla-Interactive/readmegen/app"
	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/Guerrilla-Interactive/readmegen/app/review"
	"github.com/Guerrilla-Interactive/readmegen/app/wizard"
	sharedScreens "github.com/Guerrilla-Interactive/readmegen/app/screens/shared"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// UpdateScreenReview handles keys on the final review step. Step changes
// are made on the wizard engine; the caller finishes the transition.
// Submitting goes through the engine's Next, which reports OutcomeSubmitted
// on the last step; this screen owns what happens next.
func UpdateScreenReview(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	sections := review.Sections()
	switch msg.String() {
	case "left", "h", "shift+tab", "up", "k":
		m.Wizard.ReviewIndex = (m.Wizard.ReviewIndex - 1 + len(sections)) % len(sections)
	case "right", "l", "tab", "down", "j":
		m.Wizard.ReviewIndex = (m.Wizard.ReviewIndex + 1) % len(sections)
	case "e":
		s := sections[m.Wizard.ReviewIndex]
		m.Wizard.Engine.JumpTo(s.EditStep)
	case "esc", "ctrl+p":
		m.Wizard.Engine.Previous()
	case "enter", "g", "ctrl+n":
		if m.Wizard.Engine.Next() == wizard.OutcomeSubmitted {
			return Submit(m)
		}
	}
	return m, nil
}

// Submit hands the collected answers to the preview screen.
func Submit(m app.Model) (app.Model, tea.Cmd) {
	snap := m.Store.Snapshot()
	if m.Storage != nil {
		form.Persist(m.Storage, m.Log())(snap)
	}
	m.Log().Info("profile submitted", zap.Int("fields", len(snap)))
	m.CancelGeneration()
	m.Preview = app.PreviewState{}
	m.CurrentScreen = app.ScreenPreview
	return m, nil
}

// ViewScreenReview renders every section with its answers.
func ViewScreenReview(m app.Model) string {
	state := m.Store.Snapshot()
	width := m.TerminalWidth - 4
	if width <= 0 {
		width = 80
	}
	width = min(width, 100)

	var blocks []string
	blocks = append(blocks, app.TitleStyle.Render("Review your profile"))
	blocks = append(blocks, app.HelpStyle.Render("Check your answers before generating your README."))
	for i, s := range review.Sections() {
		blocks = append(blocks, renderSection(s, state, width, i == m.Wizard.ReviewIndex))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, blocks...)

	footer := sharedScreens.Footer("←/→ section", "e edit", "enter generate", "esc back", "ctrl+o settings", "ctrl+c quit")
	body = sharedScreens.TruncateLines(body, sharedScreens.ContentHeight(m, footer))
	view := lipgloss.JoinVertical(lipgloss.Left, body, "", footer)
	if m.Status != "" {
		view += "\n" + app.HelpStyle.Render(m.Status)
	}
	return sharedScreens.Place(m, view)
}

func renderSection(s review.Section, state form.State, width int, focused bool) string {
	var b strings.Builder
	title := app.SubtitleStyle.Render(s.Title)
	if focused {
		title = app.HighlightStyle.Render("› "+s.Title) + app.PathStyle.Render(fmt.Sprintf("  (e to edit, step %d)", s.EditStep))
	}
	b.WriteString(title + "\n")
	for _, key := range s.Fields {
		v := review.Render(state, key)
		label := app.PathStyle.Render(fmt.Sprintf("%-22s", review.Label(key)))
		var value string
		switch {
		case len(v.Chips) > 0:
			value = sharedScreens.Chips(v.Chips, v.Colors)
		case !v.IsSet():
			value = app.HelpStyle.Render(review.NotSet)
		default:
			value = sharedScreens.WrapText(v.Text, max(width-26, 20))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, value) + "\n")
	}
	border := lipgloss.Color("240")
	if focused {
		border = app.Accent
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).MarginTop(1).
		Border(lipgloss.RoundedBorder()).BorderForeground(border).
		Render(strings.TrimRight(b.String(), "\n"))
}

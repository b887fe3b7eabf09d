package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/Guerrilla-Interactive/readmegen/app"
	reviewScreen "github.com/Guerrilla-Interactive/readmegen/app/screens/review"
	sharedScreens "github.com/Guerrilla-Interactive/readmegen/app/screens/shared"
	"github.com/Guerrilla-Interactive/readmegen/app/steps"
	"github.com/Guerrilla-Interactive/readmegen/app/widgets"
	"github.com/Guerrilla-Interactive/readmegen/app/wizard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// focusDelay lets the step transition render before the widget grabs focus.
const focusDelay = 150 * time.Millisecond

// FocusMsg focuses the widget of Step if it is still current.
type FocusMsg struct{ Step int }

func focusAfter(step int) tea.Cmd {
	return tea.Tick(focusDelay, func(time.Time) tea.Msg { return FocusMsg{Step: step} })
}

func engineSteps() []wizard.Step {
	reg := steps.Registry()
	out := make([]wizard.Step, len(reg))
	for i, d := range reg {
		out[i] = wizard.Step{SuppressEnterAdvance: d.SuppressEnterAdvance, Multiline: d.Multiline}
	}
	return out
}

// Enter prepares the wizard. Existing progress is kept.
func Enter(m app.Model) (app.Model, tea.Cmd) {
	if m.Wizard.Engine == nil {
		m.Wizard.Engine = wizard.New(engineSteps(), nil)
		m.Wizard.Widgets = map[int]widgets.Widget{}
		m.Wizard.ReviewIndex = 0
	}
	m.Wizard.Err = ""
	step := m.Wizard.Engine.Current()
	widgetFor(&m, step)
	return m, focusAfter(step)
}

// HandleMsg processes non-key messages addressed to the wizard.
func HandleMsg(m app.Model, msg tea.Msg) (app.Model, tea.Cmd) {
	if fm, ok := msg.(FocusMsg); ok && m.Wizard.Engine != nil && fm.Step == m.Wizard.Engine.Current() {
		if w := m.Wizard.Widgets[fm.Step]; w != nil {
			return m, w.Focus()
		}
	}
	return m, nil
}

func widgetFor(m *app.Model, step int) widgets.Widget {
	if w, ok := m.Wizard.Widgets[step]; ok {
		return w
	}
	d, ok := steps.At(step)
	if !ok || d.NewWidget == nil {
		return nil
	}
	w := d.NewWidget()
	if v, ok := m.Store.Get(d.Key); ok {
		w.SetValue(v)
	}
	m.Wizard.Widgets[step] = w
	return w
}

func commit(m *app.Model, step int) {
	w := m.Wizard.Widgets[step]
	d, ok := steps.At(step)
	if w == nil || !ok {
		return
	}
	m.Store.SetField(d.Key, w.Value())
}

// arrive finishes a transition away from step from.
func arrive(m app.Model, from int) (app.Model, tea.Cmd) {
	to := m.Wizard.Engine.Current()
	if to == from {
		return m, nil
	}
	if w := m.Wizard.Widgets[from]; w != nil {
		w.Blur()
	}
	m.Wizard.Err = ""
	m.Log().Debug("wizard step changed", zap.Int("from", from), zap.Int("to", to))
	widgetFor(&m, to)
	return m, focusAfter(to)
}

// UpdateScreenWizard handles key events for the questionnaire.
func UpdateScreenWizard(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	if m.Wizard.Engine == nil {
		m, _ = Enter(m)
	}
	eng := m.Wizard.Engine
	from := eng.Current()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+o":
		m.ReturnScreen = app.ScreenWizard
		m.CurrentScreen = app.ScreenSettings
		return m, nil
	}

	if eng.AtLast() {
		var cmd tea.Cmd
		m, cmd = reviewScreen.UpdateScreenReview(m, msg)
		m, focus := arrive(m, from)
		return m, tea.Batch(cmd, focus)
	}

	w := widgetFor(&m, from)
	action := eng.Decide(msg.String())
	switch action {
	case wizard.ActionPassThrough:
		if w == nil {
			return m, nil
		}
		var cmd tea.Cmd
		w, cmd = w.Update(msg)
		m.Wizard.Widgets[from] = w
		m.Wizard.Err = ""
		commit(&m, from)
		return m, cmd
	case wizard.ActionNext:
		if w != nil {
			if err := w.Validate(); err != nil {
				m.Wizard.Err = err.Error()
				return m, nil
			}
		}
		commit(&m, from)
	case wizard.ActionPrevious, wizard.ActionDone:
		commit(&m, from)
	default:
		return m, nil
	}
	eng.Apply(action)
	return arrive(m, from)
}

// ViewScreenWizard renders the current step with the step timeline.
func ViewScreenWizard(m app.Model) string {
	if m.Wizard.Engine == nil {
		return ""
	}
	eng := m.Wizard.Engine
	if eng.AtLast() {
		return reviewScreen.ViewScreenReview(m)
	}
	step := eng.Current()
	d, _ := steps.At(step)

	leftWidth := sharedScreens.ComputeLeftPanelWidth(m.TerminalWidth)
	timeline := lipgloss.NewStyle().Width(leftWidth).Padding(1, 2).
		Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).
		Render(renderTimeline(m, step))

	var body strings.Builder
	body.WriteString(app.PathStyle.Render(fmt.Sprintf("Step %d of %d", step, eng.Len())) + "\n")
	body.WriteString(progressBar(step, eng.Len(), 30) + "\n")
	body.WriteString(app.TitleStyle.Render(d.Title) + "\n")
	if d.Subtitle != "" {
		body.WriteString(app.HelpStyle.Render(d.Subtitle) + "\n")
	}
	body.WriteString("\n")
	w := m.Wizard.Widgets[step]
	if w != nil {
		body.WriteString(w.View() + "\n")
	}
	if m.Wizard.Err != "" {
		body.WriteString(app.ErrorStyle.Render(m.Wizard.Err) + "\n")
	}
	right := lipgloss.NewStyle().Padding(1, 2).Render(body.String())

	tips := []string{}
	if w != nil {
		tips = append(tips, w.Hint())
	}
	if step > 1 {
		tips = append(tips, "esc back")
	}
	if eng.ReviewMode() {
		tips = append(tips, "ctrl+d review")
	}
	tips = append(tips, "ctrl+o settings", "ctrl+c quit")
	footer := sharedScreens.Footer(tips...)

	view := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, timeline, " ", right),
		footer,
	)
	if m.Status != "" {
		view += "\n" + app.HelpStyle.Render(m.Status)
	}
	return sharedScreens.Place(m, view)
}

func renderTimeline(m app.Model, current int) string {
	var b strings.Builder
	b.WriteString(app.SubtitleStyle.Render("Your profile") + "\n\n")
	state := m.Store.Snapshot()
	for i, d := range steps.Registry() {
		n := i + 1
		mark := "○"
		if _, ok := state[d.Key]; ok {
			mark = "●"
		}
		line := fmt.Sprintf("%s %2d  %s", mark, n, d.Title)
		switch {
		case n == current:
			b.WriteString(app.HighlightStyle.Render("› "+line) + "\n")
		default:
			b.WriteString(app.ChoiceStyle.Render("  "+line) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func progressBar(step, total, width int) string {
	filled := 0
	if total > 0 {
		filled = step * width / total
	}
	return app.HighlightStyle.Render(strings.Repeat("━", filled)) + app.PathStyle.Render(strings.Repeat("━", width-filled))
}

package settings

import (
	"strings"

	"github.com/Guerrilla-Interactive/readmegen/app"
	sharedScreens "github.com/Guerrilla-Interactive/readmegen/app/screens/shared"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var options = []string{"Account", "Start over", "Logout", "Back"}

const (
	optAccount = iota
	optStartOver
	optLogout
	optBack
)

// UpdateScreenSettings handles input on the Settings screen.
func UpdateScreenSettings(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	n := len(options)
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.SettingsIndex = (m.SettingsIndex + n - 1) % n
	case "down", "j":
		m.SettingsIndex = (m.SettingsIndex + 1) % n
	case "enter":
		switch m.SettingsIndex {
		case optStartOver:
			m = clearAnswers(m)
			m.ReturnScreen = app.ScreenWizard
			m.Status = "Saved answers cleared."
			return back(m), nil
		case optLogout:
			return Logout(m), nil
		case optBack:
			return back(m), nil
		}
	case "esc", "b":
		return back(m), nil
	}
	return m, nil
}

func back(m app.Model) app.Model {
	m.CurrentScreen = m.ReturnScreen
	if m.CurrentScreen == app.ScreenSettings || m.CurrentScreen == app.ScreenLogin {
		m.CurrentScreen = app.ScreenWizard
	}
	m.SettingsIndex = 0
	return m
}

func clearAnswers(m app.Model) app.Model {
	m.CancelGeneration()
	if m.Storage != nil {
		if err := m.Storage.Clear(); err != nil {
			m.Log().Warn("failed to clear local storage", zap.Error(err))
		}
	}
	if m.Store != nil {
		m.Store.Clear()
	}
	m.Wizard = app.WizardState{}
	m.Preview = app.PreviewState{}
	m.Receipt = app.ReceiptState{}
	return m
}

// Logout drops the session and every saved answer.
func Logout(m app.Model) app.Model {
	cfg, _ := config.LoadConfig()
	if err := config.SaveConfig(cfg.SignOut()); err != nil {
		m.Log().Warn("failed to save config", zap.Error(err))
	}
	m = clearAnswers(m)
	m.IsLoggedIn = false
	m.User = nil
	m.Status = ""
	m.CurrentScreen = app.ScreenLogin
	m.SettingsIndex = 0
	return m
}

// ViewSettingsScreen renders the interactive settings screen.
func ViewSettingsScreen(m app.Model) string {
	leftHeader := app.TitleStyle.Render("Settings")
	var left strings.Builder
	for i, item := range options {
		if i == m.SettingsIndex {
			left.WriteString(app.HighlightStyle.Render("> "+item) + "\n")
		} else {
			left.WriteString(app.ChoiceStyle.Render("  "+item) + "\n")
		}
	}
	leftWidth := sharedScreens.ComputeLeftPanelWidth(m.TerminalWidth)
	leftPanel := lipgloss.NewStyle().Width(leftWidth).Padding(2, 2).
		Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).
		Render(lipgloss.JoinVertical(lipgloss.Left, leftHeader, left.String()))

	var preview string
	switch m.SettingsIndex {
	case optAccount:
		var b strings.Builder
		b.WriteString(app.SubtitleStyle.Render("Signed in as") + "\n\n")
		if m.User != nil {
			b.WriteString("Name:   " + m.User.DisplayName() + "\n")
			if m.User.Email != "" {
				b.WriteString("Email:  " + m.User.Email + "\n")
			}
			if m.User.GitHubUsername != "" {
				b.WriteString("GitHub: " + app.LinkStyle.Render("github.com/"+m.User.GitHubUsername) + "\n")
			}
		} else {
			b.WriteString(app.ChoiceStyle.Render("Account details not loaded.") + "\n")
		}
		cfg, _ := config.LoadConfig()
		b.WriteString("\nServer: " + app.PathStyle.Render(cfg.ServerBaseURL()) + "\n")
		if m.Storage != nil {
			b.WriteString("Saved answers: " + app.PathStyle.Render(m.Storage.Path()) + "\n")
		}
		preview = b.String()
	case optStartOver:
		preview = app.HelpStyle.Render("Forget every saved answer and begin the questionnaire again.")
	case optLogout:
		preview = app.HelpStyle.Render("Sign out, forget saved answers and return to the login screen.")
	case optBack:
		preview = app.HelpStyle.Render("Return to where you were.")
	}
	rightPanel := lipgloss.NewStyle().Padding(2, 2).Border(lipgloss.RoundedBorder()).Render(preview)

	footer := sharedScreens.Footer("↑/↓ navigate", "enter select", "esc back")
	view := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, "  ", rightPanel), "", footer)
	return sharedScreens.Place(m, view)
}

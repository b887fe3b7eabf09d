package main

import (
	"fmt"
	"os"

	"github.com/Guerrilla-Interactive/readmegen/app"
	loginScreen "github.com/Guerrilla-Interactive/readmegen/app/screens/login"
	previewScreen "github.com/Guerrilla-Interactive/readmegen/app/screens/preview"
	receiptScreen "github.com/Guerrilla-Interactive/readmegen/app/screens/receipt"
	settingsScreen "github.com/Guerrilla-Interactive/readmegen/app/screens/settings"
	wizardScreen "github.com/Guerrilla-Interactive/readmegen/app/screens/wizard"
	tea "github.com/charmbracelet/bubbletea"
)

// Version is set via linker flags during build.
var Version = "v0.1.0"

// ProgramModel wraps app.Model so we can hold Update logic in one place.
type ProgramModel struct {
	M       app.Model
	initCmd tea.Cmd
}

// NewProgramModel enters the starting screen of m.
func NewProgramModel(m app.Model) ProgramModel {
	m, cmd := enterScreen(m)
	return ProgramModel{M: m, initCmd: cmd}
}

func (pm ProgramModel) Init() tea.Cmd {
	return pm.initCmd
}

// enterScreen runs the entry hook of the current screen.
func enterScreen(m app.Model) (app.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case app.ScreenWizard:
		return wizardScreen.Enter(m)
	case app.ScreenPreview:
		return previewScreen.Enter(m)
	case app.ScreenReceipt:
		return receiptScreen.Enter(m)
	}
	return m, nil
}

// Update handles incoming Msgs and enters a screen whenever it changes.
func (pm ProgramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := pm.M.CurrentScreen
	var cmd tea.Cmd

	switch typedMsg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.M.TerminalWidth = typedMsg.Width
		pm.M.TerminalHeight = typedMsg.Height
		if pm.M.CurrentScreen == app.ScreenPreview {
			pm.M, cmd = previewScreen.HandleMsg(pm.M, typedMsg)
		}
	case tea.KeyMsg:
		switch pm.M.CurrentScreen {
		case app.ScreenLogin:
			pm.M, cmd = loginScreen.UpdateScreenLogin(pm.M, typedMsg)
		case app.ScreenWizard:
			pm.M, cmd = wizardScreen.UpdateScreenWizard(pm.M, typedMsg)
		case app.ScreenPreview:
			pm.M, cmd = previewScreen.UpdateScreenPreview(pm.M, typedMsg)
		case app.ScreenReceipt:
			pm.M, cmd = receiptScreen.UpdateScreenReceipt(pm.M, typedMsg)
		case app.ScreenSettings:
			pm.M, cmd = settingsScreen.UpdateScreenSettings(pm.M, typedMsg)
		}
	default:
		// Async results go to their owner regardless of the visible screen.
		var cmds []tea.Cmd
		for _, handle := range []func(app.Model, tea.Msg) (app.Model, tea.Cmd){
			loginScreen.HandleLoginMsg,
			wizardScreen.HandleMsg,
			previewScreen.HandleMsg,
			receiptScreen.HandleMsg,
		} {
			var c tea.Cmd
			pm.M, c = handle(pm.M, msg)
			cmds = append(cmds, c)
		}
		cmd = tea.Batch(cmds...)
	}

	if pm.M.CurrentScreen != before {
		var enterCmd tea.Cmd
		pm.M, enterCmd = enterScreen(pm.M)
		cmd = tea.Batch(cmd, enterCmd)
	}
	return pm, cmd
}

// View selects which screen's View function to call based on pm.M.CurrentScreen.
func (pm ProgramModel) View() string {
	switch pm.M.CurrentScreen {
	case app.ScreenLogin:
		return loginScreen.ViewScreenLogin(pm.M)
	case app.ScreenWizard:
		return wizardScreen.ViewScreenWizard(pm.M)
	case app.ScreenPreview:
		return previewScreen.ViewScreenPreview(pm.M)
	case app.ScreenReceipt:
		return receiptScreen.ViewScreenReceipt(pm.M)
	case app.ScreenSettings:
		return settingsScreen.ViewSettingsScreen(pm.M)
	}
	return ""
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

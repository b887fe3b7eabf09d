package app

import (
	"context"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/Guerrilla-Interactive/readmegen/app/widgets"
	"github.com/Guerrilla-Interactive/readmegen/app/wizard"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	"github.com/Guerrilla-Interactive/readmegen/internal/storage"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Screen indicates which screen is currently shown.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenWizard
	ScreenPreview
	ScreenReceipt
	ScreenSettings
)

// Model is the primary application state shared by all screens.
type Model struct {
	CurrentScreen  Screen
	IsLoggedIn     bool
	User           *config.User
	TerminalWidth  int
	TerminalHeight int
	// Status is a one-line message shown by the current screen.
	Status string

	Logger  *zap.Logger
	Storage *storage.Local
	Store   *form.Store
	// OutputDir is where README.md and the card are written.
	OutputDir string

	Wizard        WizardState
	Preview       PreviewState
	Receipt       ReceiptState
	SettingsIndex int
	// ReturnScreen is where settings goes back to.
	ReturnScreen Screen
}

// WizardState holds the questionnaire screen.
type WizardState struct {
	Engine *wizard.Engine
	// Widgets are created on first visit of a step and kept so edits survive
	// navigation.
	Widgets map[int]widgets.Widget
	Err     string
	// ReviewIndex is the focused section on the review step.
	ReviewIndex int
}

// PreviewState holds the generation preview screen.
type PreviewState struct {
	Content     string
	Generating  bool
	Done        bool
	Err         string
	Raw         bool
	ConfirmEdit bool
	Notice      string
	Cancel      context.CancelFunc
	// Stream is the id of the active stream; chunks from older ones are dropped.
	Stream   int
	Viewport viewport.Model
	Spinner  spinner.Model
}

// ReceiptState holds the download/share screen.
type ReceiptState struct {
	SavedPath    string
	CardPath     string
	Err          string
	Notice       string
	ConfirmShare string
	Written      []string
}

// CancelGeneration stops an in-flight stream, if any.
func (m *Model) CancelGeneration() {
	if m.Preview.Cancel != nil {
		m.Preview.Cancel()
		m.Preview.Cancel = nil
	}
	m.Preview.Generating = false
}

// Log returns the logger, never nil.
func (m Model) Log() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}

var (
	Accent         = lipgloss.Color("#ff3600")
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).MarginTop(1)
	SubtitleStyle  = lipgloss.NewStyle().Bold(true)
	HighlightStyle = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	ChoiceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	HelpStyle      = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#888888"))
	PathStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	LinkStyle      = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#5fafff"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	PanelStyle     = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62"))
	ChipStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#3a3a3a"))
)

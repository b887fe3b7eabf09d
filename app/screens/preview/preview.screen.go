package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Guerrilla-Interactive/readmegen/app"
	sharedScreens "github.com/Guerrilla-Interactive/readmegen/app/screens/shared"
	appUtils "github.com/Guerrilla-Interactive/readmegen/app/utils"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	"github.com/Guerrilla-Interactive/readmegen/internal/storage"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// NewClient builds the API client used for generation. Tests replace it.
var NewClient = func() *appUtils.Client {
	cfg, _ := config.LoadConfig()
	return appUtils.NewClient(cfg.ServerBaseURL(), cfg.Token)
}

// CopyToClipboard writes text to the system clipboard. Tests replace it.
var CopyToClipboard = clipboard.WriteAll

type streamStartedMsg struct {
	id int
	ch <-chan appUtils.StreamEvent
}

type chunkMsg struct {
	id    int
	chunk string
	ch    <-chan appUtils.StreamEvent
}

type streamEndMsg struct {
	id  int
	err error
}

// Enter starts generation unless a result or a stream already exists.
func Enter(m app.Model) (app.Model, tea.Cmd) {
	m.Preview.Spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(app.HighlightStyle))
	m = resize(m)
	if m.User == nil {
		cfg, _ := config.LoadConfig()
		m.User = cfg.User
	}
	if m.User == nil {
		m.Preview.Err = "Sign in to generate your README."
		return m, nil
	}
	if m.Preview.Generating || m.Preview.Content != "" {
		return m, nil
	}
	return Start(m)
}

// Start begins a new generation stream, dropping any previous one.
func Start(m app.Model) (app.Model, tea.Cmd) {
	m.CancelGeneration()
	ctx, cancel := context.WithCancel(context.Background())
	m.Preview.Cancel = cancel
	m.Preview.Stream++
	m.Preview.Generating = true
	m.Preview.Done = false
	m.Preview.Err = ""
	m.Preview.Notice = ""
	m.Preview.Content = ""
	m = refresh(m)

	id := m.Preview.Stream
	req := appUtils.GenerateRequest{FormData: m.Store.Snapshot(), User: m.User}
	client := NewClient()
	m.Log().Info("generation started", zap.Int("stream", id))
	open := func() tea.Msg {
		ch, err := client.GenerateStream(ctx, req)
		if err != nil {
			return streamEndMsg{id: id, err: err}
		}
		return streamStartedMsg{id: id, ch: ch}
	}
	return m, tea.Batch(open, m.Preview.Spinner.Tick)
}

func waitForChunk(id int, ch <-chan appUtils.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		switch {
		case !ok:
			return streamEndMsg{id: id}
		case ev.Err != nil:
			return streamEndMsg{id: id, err: ev.Err}
		}
		return chunkMsg{id: id, chunk: ev.Chunk, ch: ch}
	}
}

// HandleMsg processes stream and spinner messages.
func HandleMsg(m app.Model, msg tea.Msg) (app.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case streamStartedMsg:
		if msg.id != m.Preview.Stream {
			return m, nil
		}
		return m, waitForChunk(msg.id, msg.ch)
	case chunkMsg:
		if msg.id != m.Preview.Stream || !m.Preview.Generating {
			return m, nil
		}
		m.Preview.Content += msg.chunk
		m = refresh(m)
		m.Preview.Viewport.GotoBottom()
		return m, waitForChunk(msg.id, msg.ch)
	case streamEndMsg:
		if msg.id != m.Preview.Stream {
			return m, nil
		}
		if m.Preview.Cancel != nil {
			m.Preview.Cancel()
			m.Preview.Cancel = nil
		}
		m.Preview.Generating = false
		if msg.err != nil {
			m.Log().Warn("generation failed", zap.Error(msg.err))
			m.Preview.Err = errorText(msg.err)
			return m, nil
		}
		m.Preview.Content = appUtils.StripCodeFence(m.Preview.Content)
		m.Preview.Done = true
		m.Log().Info("generation finished", zap.Int("bytes", len(m.Preview.Content)))
		m = refresh(m)
		m.Preview.Viewport.GotoTop()
		return m, nil
	case spinner.TickMsg:
		if !m.Preview.Generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.Preview.Spinner, cmd = m.Preview.Spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		return refresh(resize(m)), nil
	}
	return m, nil
}

func errorText(err error) string {
	var apiErr *appUtils.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 401 {
			return "Your session expired. Sign in again from settings."
		}
		return apiErr.Message
	}
	return err.Error()
}

// UpdateScreenPreview handles keys on the preview screen.
func UpdateScreenPreview(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	if m.Preview.ConfirmEdit {
		switch msg.String() {
		case "y", "enter":
			m.CancelGeneration()
			m.Preview = app.PreviewState{}
			m.CurrentScreen = app.ScreenWizard
			m.Log().Info("returning to the questionnaire")
		case "n", "esc":
			m.Preview.ConfirmEdit = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.CancelGeneration()
		return m, tea.Quit
	case "r":
		m.Preview.Raw = !m.Preview.Raw
		return refresh(m), nil
	case "c":
		if m.Preview.Content == "" {
			return m, nil
		}
		if err := CopyToClipboard(m.Preview.Content); err != nil {
			m.Preview.Notice = fmt.Sprintf("Copy failed: %v", err)
		} else {
			m.Preview.Notice = "Copied README to clipboard."
		}
	case "d":
		if !m.Preview.Done {
			return m, nil
		}
		return Download(m)
	case "e", "esc":
		m.Preview.ConfirmEdit = true
	case "g":
		return Start(m)
	case "ctrl+o":
		m.ReturnScreen = app.ScreenPreview
		m.CurrentScreen = app.ScreenSettings
	default:
		var cmd tea.Cmd
		m.Preview.Viewport, cmd = m.Preview.Viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Download stashes the result for the receipt screen.
func Download(m app.Model) (app.Model, tea.Cmd) {
	if m.Storage != nil {
		if err := m.Storage.Set(storage.KeyDownloadContent, m.Preview.Content); err != nil {
			m.Preview.Notice = fmt.Sprintf("Could not stage download: %v", err)
			return m, nil
		}
	}
	m.Receipt = app.ReceiptState{}
	m.CurrentScreen = app.ScreenReceipt
	return m, nil
}

func footer(m app.Model) string {
	if m.Preview.ConfirmEdit {
		return sharedScreens.Footer("Edit your answers? The current result is discarded.", "y yes", "n no")
	}
	tips := []string{"↑/↓ scroll"}
	if m.Preview.Done {
		tips = append(tips, "d download", "c copy")
	}
	mode := "r raw"
	if m.Preview.Raw {
		mode = "r rendered"
	}
	tips = append(tips, mode, "g regenerate", "e edit", "ctrl+c quit")
	return sharedScreens.Footer(tips...)
}

func resize(m app.Model) app.Model {
	width := m.TerminalWidth - 4
	if width <= 0 {
		width = 80
	}
	height := sharedScreens.ContentHeight(m, footer(m)) - 4
	if m.Preview.Viewport.Width == 0 && m.Preview.Viewport.Height == 0 {
		m.Preview.Viewport = viewport.New(width, height)
	} else {
		m.Preview.Viewport.Width = width
		m.Preview.Viewport.Height = height
	}
	return m
}

func refresh(m app.Model) app.Model {
	if m.Preview.Viewport.Width == 0 {
		m = resize(m)
	}
	m.Preview.Viewport.SetContent(Render(m.Preview.Content, m.Preview.Raw, m.Preview.Viewport.Width))
	return m
}

// Render formats markdown for the terminal. Raw mode, or a renderer
// failure, returns the source wrapped to width.
func Render(content string, raw bool, width int) string {
	if content == "" {
		return ""
	}
	if !raw {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err == nil {
			if out, err := r.Render(content); err == nil {
				return strings.TrimRight(out, "\n")
			}
		}
	}
	return sharedScreens.WrapText(content, width)
}

// ViewScreenPreview renders the generated README.
func ViewScreenPreview(m app.Model) string {
	var header string
	switch {
	case m.Preview.Generating:
		header = m.Preview.Spinner.View() + " " + app.SubtitleStyle.Render("Writing your README...")
	case m.Preview.Err != "":
		header = app.ErrorStyle.Render("Generation failed: "+m.Preview.Err) + "\n" + app.HelpStyle.Render("Press g to try again.")
	case m.Preview.Done:
		header = app.SuccessStyle.Render("Your README is ready.")
	}
	title := app.TitleStyle.Render("Preview")
	body := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).
		Render(m.Preview.Viewport.View())
	parts := []string{title, header, body}
	if m.Preview.Notice != "" {
		parts = append(parts, app.HelpStyle.Render(m.Preview.Notice))
	}
	parts = append(parts, footer(m))
	return sharedScreens.Place(m, lipgloss.JoinVertical(lipgloss.Left, parts...))
}

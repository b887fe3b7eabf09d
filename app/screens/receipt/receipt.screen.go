package receipt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Guerrilla-Interactive/readmegen/app"
	"github.com/Guerrilla-Interactive/readmegen/app/form"
	sharedScreens "github.com/Guerrilla-Interactive/readmegen/app/screens/shared"
	"github.com/Guerrilla-Interactive/readmegen/app/share"
	appUtils "github.com/Guerrilla-Interactive/readmegen/app/utils"
	"github.com/Guerrilla-Interactive/readmegen/internal/storage"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	ReadmeName = "README.md"
	CardName   = "profile-card.png"
)

// CopyToClipboard writes text to the system clipboard. Tests replace it.
var CopyToClipboard = clipboard.WriteAll

type cardSavedMsg struct {
	path string
	err  error
}

// OutputDir resolves where files are written.
func OutputDir(m app.Model) string {
	if m.OutputDir != "" {
		return m.OutputDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Enter writes the staged README to disk, once.
func Enter(m app.Model) (app.Model, tea.Cmd) {
	if m.Storage == nil {
		return m, nil
	}
	content, err := m.Storage.Get(storage.KeyDownloadContent)
	if errors.Is(err, storage.ErrNotFound) {
		if m.Receipt.SavedPath == "" {
			m.Receipt.Err = "Nothing to download yet. Generate a README first."
		}
		return m, nil
	}
	if err != nil {
		m.Receipt.Err = err.Error()
		return m, nil
	}
	path, err := WriteReadme(OutputDir(m), content)
	if err != nil {
		m.Log().Error("failed to write README", zap.Error(err))
		m.Receipt.Err = err.Error()
		return m, nil
	}
	if err := m.Storage.Remove(storage.KeyDownloadContent); err != nil {
		m.Log().Warn("failed to clear staged download", zap.Error(err))
	}
	m.Log().Info("README saved", zap.String("path", path))
	m.Receipt.Err = ""
	m.Receipt.SavedPath = path
	m.Receipt.Written = appendUnique(m.Receipt.Written, path)
	return m, nil
}

// WriteReadme writes content as README.md inside dir.
func WriteReadme(dir, content string) (string, error) {
	path := filepath.Join(dir, ReadmeName)
	return path, WriteMarkdown(path, content)
}

// WriteMarkdown writes content to path with a single trailing newline.
func WriteMarkdown(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimRight(content, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// CardFor builds the card for the signed-in user and the chosen accent.
func CardFor(m app.Model) share.Card {
	c := share.Card{Accent: m.Store.Snapshot().String(form.KeyAccentColor)}
	if m.User != nil {
		c.Name = m.User.DisplayName()
		c.Handle = m.User.GitHubUsername
		c.ID = m.User.ID
	}
	return c
}

// SaveCard renders the card PNG to path, fetching the avatar if possible.
func SaveCard(ctx context.Context, path string, c share.Card, avatarURL string, logger *zap.Logger) (string, error) {
	if avatarURL != "" {
		img, err := share.FetchAvatar(ctx, avatarURL)
		if err != nil {
			logger.Warn("avatar unavailable, rendering without it", zap.Error(err))
		} else {
			c.Avatar = img
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := share.WritePNG(f, c); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// HandleMsg processes async receipt results.
func HandleMsg(m app.Model, msg tea.Msg) (app.Model, tea.Cmd) {
	if cm, ok := msg.(cardSavedMsg); ok {
		if cm.err != nil {
			m.Log().Warn("failed to save card", zap.Error(cm.err))
			m.Receipt.Notice = fmt.Sprintf("Could not save card: %v", cm.err)
			return m, nil
		}
		m.Receipt.CardPath = cm.path
		m.Receipt.Written = appendUnique(m.Receipt.Written, cm.path)
		m.Receipt.Notice = "Share card saved."
	}
	return m, nil
}

// UpdateScreenReceipt handles keys on the download screen.
func UpdateScreenReceipt(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	handle := ""
	if m.User != nil {
		handle = m.User.GitHubUsername
	}

	if m.Receipt.ConfirmShare != "" {
		switch msg.String() {
		case "y", "enter":
			p := share.Platform(m.Receipt.ConfirmShare)
			m.Receipt.ConfirmShare = ""
			if err := appUtils.OpenBrowser(share.IntentURL(p, handle)); err != nil {
				m.Receipt.Notice = fmt.Sprintf("Could not open browser: %v", err)
			} else {
				m.Receipt.Notice = "Opened the share page in your browser."
			}
		case "n", "esc":
			m.Receipt.ConfirmShare = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s":
		m.Receipt.Notice = "Rendering card..."
		out := filepath.Join(OutputDir(m), CardName)
		card := CardFor(m)
		avatar := ""
		if m.User != nil {
			avatar = m.User.AvatarURL
		}
		logger := m.Log()
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			path, err := SaveCard(ctx, out, card, avatar, logger)
			return cardSavedMsg{path: path, err: err}
		}
	case "t", "l":
		if handle == "" {
			m.Receipt.Notice = "Your account has no GitHub username to share."
			return m, nil
		}
		m.Receipt.ConfirmShare = string(share.Twitter)
		if msg.String() == "l" {
			m.Receipt.ConfirmShare = string(share.LinkedIn)
		}
	case "c":
		if handle == "" {
			m.Receipt.Notice = "Your account has no GitHub username to share."
			return m, nil
		}
		if err := CopyToClipboard(share.ProfileURL(handle)); err != nil {
			m.Receipt.Notice = fmt.Sprintf("Copy failed: %v", err)
		} else {
			m.Receipt.Notice = "Profile link copied."
		}
	case "b", "esc":
		m.CurrentScreen = app.ScreenPreview
	case "w":
		m.CurrentScreen = app.ScreenWizard
	}
	return m, nil
}

// ViewScreenReceipt renders the saved files and the card preview.
func ViewScreenReceipt(m app.Model) string {
	title := app.TitleStyle.Render("Download")
	var left strings.Builder
	switch {
	case m.Receipt.Err != "":
		left.WriteString(app.ErrorStyle.Render(m.Receipt.Err) + "\n")
	case m.Receipt.SavedPath != "":
		left.WriteString(app.SuccessStyle.Render("Saved your profile README.") + "\n\n")
		left.WriteString(appUtils.OutputTree(OutputDir(m), m.Receipt.Written, func(string) string {
			return app.SuccessStyle.Render("(saved)")
		}) + "\n\n")
		left.WriteString(app.HelpStyle.Render("Commit it to a repository named after your GitHub username.") + "\n")
	}
	leftWidth := sharedScreens.ComputeLeftPanelWidth(m.TerminalWidth)
	leftPanel := lipgloss.NewStyle().Width(leftWidth).Padding(1, 2).Render(left.String())

	right := CardPreview(CardFor(m))

	var footer string
	if p := m.Receipt.ConfirmShare; p != "" {
		footer = sharedScreens.Footer(
			fmt.Sprintf("Open %s in your browser? Attach your saved card image to the post yourself.", platformName(share.Platform(p))),
			"y yes", "n no")
	} else {
		footer = sharedScreens.Footer("s save card", "t share on X", "l share on LinkedIn", "c copy link", "b back", "w edit answers", "q quit")
	}
	parts := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, " ", right)}
	if m.Receipt.Notice != "" {
		parts = append(parts, app.HelpStyle.Render(m.Receipt.Notice))
	}
	parts = append(parts, footer)
	return sharedScreens.Place(m, lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// CardPreview is a terminal rendition of the share card.
func CardPreview(c share.Card) string {
	accent := lipgloss.Color(share.Accent(c.Accent).Hex())
	var b strings.Builder
	name := c.Name
	if name == "" {
		name = "GitHub profile"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(accent).Render(name) + "\n")
	if c.Handle != "" {
		b.WriteString("@" + c.Handle + "\n")
		b.WriteString(app.PathStyle.Render(share.ProfileURL(c.Handle)) + "\n")
		if q, err := qrcode.New(share.ProfileURL(c.Handle), qrcode.Low); err == nil {
			b.WriteString("\n" + strings.TrimRight(q.ToSmallString(false), "\n") + "\n")
		}
	}
	if c.ID != "" {
		b.WriteString(app.PathStyle.Render("#"+share.ShortID(c.ID)) + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(accent).
		Render(strings.TrimRight(b.String(), "\n"))
}

func platformName(p share.Platform) string {
	if p == share.LinkedIn {
		return "LinkedIn"
	}
	return "X / Twitter"
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}

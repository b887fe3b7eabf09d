package preview

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Guerrilla-Interactive/readmegen/app"
	"github.com/Guerrilla-Interactive/readmegen/app/form"
	appUtils "github.com/Guerrilla-Interactive/readmegen/app/utils"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	"github.com/Guerrilla-Interactive/readmegen/internal/storage"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	orig := NewClient
	NewClient = func() *appUtils.Client { return appUtils.NewClient(srv.URL, "tok") }
	t.Cleanup(func() { NewClient = orig })
}

func newModel(t *testing.T) app.Model {
	t.Helper()
	kv, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	store := form.NewStore(form.State{form.KeyAccentColor: "#ff3600"})
	return app.Model{CurrentScreen: app.ScreenPreview, Store: store, Storage: kv, TerminalWidth: 100, TerminalHeight: 40,
		User: &config.User{ID: "user_1", GitHubUsername: "janedoe"}}
}

// pump runs cmds and feeds their messages back until nothing is left.
// Spinner ticks are dropped so the loop ends.
func pump(m app.Model, cmd tea.Cmd) app.Model {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			var next tea.Cmd
			m, next = HandleMsg(m, msg)
			queue = append(queue, next)
		}
	}
	return m
}

func TestEnterStreamsAndStripsFence(t *testing.T) {
	var calls atomic.Int32
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte("```markdown\n# Hi"))
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte(" there\n```"))
	})

	m, cmd := Enter(newModel(t))
	assert.True(t, m.Preview.Generating)
	m = pump(m, cmd)

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, m.Preview.Generating)
	assert.True(t, m.Preview.Done)
	assert.Equal(t, "# Hi there", m.Preview.Content)

	// Re-entering with a result does not generate again.
	m, cmd = Enter(m)
	assert.Nil(t, cmd)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServerErrorIsShown(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"Failed to generate profile"}`))
	})
	m, cmd := Enter(newModel(t))
	m = pump(m, cmd)
	assert.False(t, m.Preview.Generating)
	assert.False(t, m.Preview.Done)
	assert.Equal(t, "Failed to generate profile", m.Preview.Err)
	assert.Contains(t, ViewScreenPreview(m), "Generation failed")
}

func TestStaleChunksAreDropped(t *testing.T) {
	m := newModel(t)
	m.Preview.Stream = 2
	m.Preview.Generating = true
	m, cmd := HandleMsg(m, chunkMsg{id: 1, chunk: "old"})
	assert.Nil(t, cmd)
	assert.Empty(t, m.Preview.Content)
}

func TestKeys(t *testing.T) {
	m := newModel(t)
	m.Preview.Content = "# Done"
	m.Preview.Done = true

	var copied string
	orig := CopyToClipboard
	CopyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { CopyToClipboard = orig })

	m, _ = UpdateScreenPreview(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Equal(t, "# Done", copied)

	m, _ = UpdateScreenPreview(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.True(t, m.Preview.Raw)

	m, _ = UpdateScreenPreview(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	assert.True(t, m.Preview.ConfirmEdit)
	m, _ = UpdateScreenPreview(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.False(t, m.Preview.ConfirmEdit)
	assert.Equal(t, app.ScreenPreview, m.CurrentScreen)

	m, _ = UpdateScreenPreview(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Equal(t, app.ScreenReceipt, m.CurrentScreen)
	staged, err := m.Storage.Get(storage.KeyDownloadContent)
	require.NoError(t, err)
	assert.Equal(t, "# Done", staged)
}

func TestConfirmEditReturnsToWizard(t *testing.T) {
	m := newModel(t)
	m.Preview.Content = "# Done"
	m.Preview.Done = true
	m, _ = UpdateScreenPreview(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m, _ = UpdateScreenPreview(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Equal(t, app.ScreenWizard, m.CurrentScreen)
	assert.Empty(t, m.Preview.Content)
}

func TestEnterWithoutUser(t *testing.T) {
	dir := t.TempDir()
	orig := config.Dir
	config.Dir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { config.Dir = orig })

	m := newModel(t)
	m.User = nil
	m, cmd := Enter(m)
	assert.Nil(t, cmd)
	assert.False(t, m.Preview.Generating)
	assert.NotEmpty(t, m.Preview.Err)
}

func TestRenderRaw(t *testing.T) {
	assert.Equal(t, "# Title", Render("# Title", true, 40))
	assert.Empty(t, Render("", false, 40))
}

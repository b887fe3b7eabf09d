package settings

import (
	"testing"

	"github.com/Guerrilla-Interactive/readmegen/app"
	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	"github.com/Guerrilla-Interactive/readmegen/internal/storage"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T) app.Model {
	t.Helper()
	dir := t.TempDir()
	orig := config.Dir
	config.Dir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { config.Dir = orig })
	require.NoError(t, config.SaveConfig(config.Config{IsLoggedIn: true, Token: "tok", User: &config.User{ID: "u"}}))

	kv, err := storage.Open(dir)
	require.NoError(t, err)
	store := form.NewStore(form.State{form.KeyProfessionalTitle: "Engineer"})
	store.Subscribe(form.Persist(kv, nil))
	store.SetField(form.KeyOrganization, "Acme")
	return app.Model{
		CurrentScreen: app.ScreenSettings,
		ReturnScreen:  app.ScreenPreview,
		IsLoggedIn:    true,
		User:          &config.User{ID: "u"},
		Storage:       kv,
		Store:         store,
	}
}

func press(m app.Model, keys ...tea.KeyType) app.Model {
	for _, k := range keys {
		m, _ = UpdateScreenSettings(m, tea.KeyMsg{Type: k})
	}
	return m
}

func TestLogoutClearsEverything(t *testing.T) {
	m := press(newModel(t), tea.KeyDown, tea.KeyDown, tea.KeyEnter)

	assert.Equal(t, app.ScreenLogin, m.CurrentScreen)
	assert.False(t, m.IsLoggedIn)
	assert.Nil(t, m.User)
	assert.Empty(t, m.Store.Snapshot())
	_, err := m.Storage.Get(storage.KeyProfileData)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsLoggedIn)
	assert.Empty(t, cfg.Token)
}

func TestStartOverReturnsToWizard(t *testing.T) {
	m := press(newModel(t), tea.KeyDown, tea.KeyEnter)
	assert.Equal(t, app.ScreenWizard, m.CurrentScreen)
	assert.Empty(t, m.Store.Snapshot())
	assert.True(t, m.IsLoggedIn)
}

func TestBackReturnsToCaller(t *testing.T) {
	m := press(newModel(t), tea.KeyEsc)
	assert.Equal(t, app.ScreenPreview, m.CurrentScreen)
	assert.Equal(t, "Engineer", m.Store.Snapshot().String(form.KeyProfessionalTitle))
}

func TestViewShowsAccount(t *testing.T) {
	m := newModel(t)
	m.User = &config.User{ID: "u", Name: "Jane", GitHubUsername: "janedoe"}
	view := ViewSettingsScreen(m)
	assert.Contains(t, view, "Jane")
	assert.Contains(t, view, "github.com/janedoe")
}

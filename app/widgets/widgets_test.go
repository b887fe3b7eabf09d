package widgets

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(w Widget, ks ...string) Widget {
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		w, _ = w.Update(msg)
	}
	return w
}

func TestValidateLinkedIn(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"", true},
		{"https://linkedin.com/in/jane-doe", true},
		{"https://www.linkedin.com/in/jane_doe/", true},
		{"http://linkedin.com/in/x", true},
		{"linkedin.com/in/jane", false},
		{"https://linkedin.com/company/acme", false},
		{"https://example.com/in/jane", false},
	}
	for _, tt := range tests {
		err := ValidateLinkedIn(tt.in)
		if tt.valid {
			assert.NoError(t, err, tt.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidLinkedIn, tt.in)
		}
	}
}

func TestText_TypingAndValidation(t *testing.T) {
	w := NewText("", ValidateLinkedIn)
	w.Focus()
	keys(w, "not a url")
	assert.Equal(t, "not a url", w.Value())
	assert.Error(t, w.Validate())

	w.SetValue("https://linkedin.com/in/me")
	assert.NoError(t, w.Validate())
}

func TestTextArea_SetValueRoundTrip(t *testing.T) {
	w := NewTextArea("")
	w.SetValue("line one\nline two")
	assert.Equal(t, "line one\nline two", w.Value())
}

func TestMultiSelect_ToggleAndCap(t *testing.T) {
	w := NewMultiSelect(Opts("a", "b", "c"), 2)
	w.Focus()
	keys(w, " ", "down", "enter", "down", " ")
	assert.Equal(t, []string{"a", "b"}, w.Value())
	assert.Contains(t, w.View(), "at most 2")

	keys(w, "up", "up", " ")
	assert.Equal(t, []string{"b"}, w.Value())
}

func TestMultiSelect_SetValueDropsUnknown(t *testing.T) {
	w := NewMultiSelect(Opts("English", "French"), 0)
	w.SetValue([]any{"French", "Klingon", "French"})
	assert.Equal(t, []string{"French"}, w.Value())
}

func TestToggle(t *testing.T) {
	w := NewToggle(Opts("yes", "no"))
	assert.Equal(t, "", w.Value())
	keys(w, "right")
	assert.Equal(t, "yes", w.Value())
	keys(w, "right")
	assert.Equal(t, "no", w.Value())
	keys(w, "right")
	assert.Equal(t, "yes", w.Value())
	keys(w, "left")
	assert.Equal(t, "no", w.Value())

	w.SetValue("yes")
	assert.Equal(t, "yes", w.Value())
}

func TestSwitch(t *testing.T) {
	w := NewSwitch("Use emojis")
	w.SetValue(true)
	keys(w, " ")
	assert.Equal(t, false, w.Value())
	keys(w, "y")
	assert.Equal(t, true, w.Value())
}

func TestChecklist(t *testing.T) {
	w := NewChecklist([]Option{{Value: "email", Label: "Email"}, {Value: "discord", Label: "Discord"}})
	keys(w, "down", " ")
	assert.Equal(t, map[string]bool{"email": false, "discord": true}, w.Value())

	w.SetValue(map[string]any{"email": true, "unknown": true})
	assert.Equal(t, map[string]bool{"email": true, "discord": true}, w.Value())
}

func TestSlider_Clamps(t *testing.T) {
	w := NewSlider(0, 30, "years")
	w.SetValue(2.0)
	assert.Equal(t, 2, w.Value())
	keys(w, "right", "right")
	assert.Equal(t, 4, w.Value())
	w.SetValue(99)
	assert.Equal(t, 30, w.Value())
	keys(w, "right")
	assert.Equal(t, 30, w.Value())
	w.SetValue(-3)
	assert.Equal(t, 0, w.Value())
}

func TestColorPicker(t *testing.T) {
	w := NewColorPicker()
	assert.Equal(t, "", w.Value())
	keys(w, "right")
	assert.Equal(t, Palette[0], w.Value())

	keys(w, "tab", "#", "1", "2")
	assert.Equal(t, "", w.Value())
	assert.ErrorIs(t, w.Validate(), ErrInvalidColor)
	keys(w, "3", "4", "5", "6")
	assert.Equal(t, "#123456", w.Value())
	assert.NoError(t, w.Validate())

	w2 := NewColorPicker()
	w2.SetValue("#7C3AED")
	assert.Equal(t, "#7c3aed", w2.Value())
}

func TestNormalizeHex(t *testing.T) {
	hex, err := NormalizeHex("ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", hex)
	_, err = NormalizeHex("#zzz")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestStats_SelectAndColor(t *testing.T) {
	w := NewStats()
	w.Focus()
	keys(w, " ", "c", "c", "down", " ")
	rec, ok := w.Value().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"GitHub Stats Card", "Top Languages Card"}, rec["selectedStats"])
	assert.Equal(t, Palette[1], rec["GitHub Stats CardColor"])
	_, hasColor := rec["Top Languages CardColor"]
	assert.False(t, hasColor)

	w2 := NewStats()
	w2.SetValue(rec)
	assert.Equal(t, rec, w2.Value())
}

package review

import (
	"testing"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/Guerrilla-Interactive/readmegen/app/steps"
	"github.com/stretchr/testify/assert"
)

func TestSections_CoverEveryField(t *testing.T) {
	covered := map[string]bool{}
	for _, sec := range Sections() {
		assert.Positive(t, sec.EditStep, sec.Title)
		for _, f := range sec.Fields {
			covered[f] = true
			assert.NotEqual(t, f, Label(f), "missing label for %s", f)
		}
	}
	for _, d := range steps.Registry() {
		if d.Key == steps.KeyReview {
			continue
		}
		assert.True(t, covered[d.Key], "%s not reviewed", d.Key)
	}
}

func TestRender(t *testing.T) {
	s := form.State{
		form.KeyProfessionalTitle:  "Engineer",
		form.KeyYearsExperience:    2.0,
		form.KeySummary:            "  ",
		form.KeyLanguages:          []any{"English", "English", "French"},
		form.KeyExpertise:          []string{},
		form.KeyContactPreferences: map[string]any{"email": true, "discord": false, "twitter": true},
		form.KeyUseEmojis:          true,
		form.KeyAnimatedSvg:        false,
		form.KeyStatsConfig: form.Stats{
			Selected: []string{"GitHub Stats Card"},
			Colors:   map[string]string{"GitHub Stats Card": "#ff0000"},
		}.Record(),
		"extra": map[string]any{"b": 2, "a": "x"},
	}

	tests := []struct {
		key  string
		want Value
	}{
		{form.KeyProfessionalTitle, Value{Text: "Engineer"}},
		{form.KeyYearsExperience, Value{Text: "2"}},
		{form.KeySummary, Value{Text: NotSet}},
		{form.KeyOrganization, Value{Text: NotSet}},
		{form.KeyLanguages, Value{Chips: []string{"English", "English", "French"}}},
		{form.KeyExpertise, Value{Text: NotSet}},
		{form.KeyContactPreferences, Value{Chips: []string{"Email", "X / Twitter"}}},
		{form.KeyUseEmojis, Value{Text: "Yes"}},
		{form.KeyAnimatedSvg, Value{Text: NotSet}},
		{form.KeyStatsConfig, Value{Chips: []string{"GitHub Stats Card"}, Colors: []string{"#ff0000"}}},
		{"extra", Value{Text: "a: x, b: 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(s, tt.key))
		})
	}
}

func TestRender_NoFlagsEnabled(t *testing.T) {
	s := form.State{form.KeyContactPreferences: map[string]bool{"email": false}}
	assert.Equal(t, NotSet, Render(s, form.KeyContactPreferences).String())
	assert.False(t, Render(s, form.KeyContactPreferences).IsSet())
}

func TestRender_FalsyScalarsAreNotSet(t *testing.T) {
	s := form.State{
		form.KeyUseEmojis:       false,
		form.KeyYearsExperience: 0.0,
		form.KeyOrganization:    "",
		"count":                 0,
	}
	for _, key := range []string{form.KeyUseEmojis, form.KeyYearsExperience, form.KeyOrganization, "count"} {
		v := Render(s, key)
		assert.Equal(t, NotSet, v.String(), key)
		assert.False(t, v.IsSet(), key)
	}
}

package prompt

import (
	"testing"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/stretchr/testify/assert"
)

func sampleState() form.State {
	return form.State{
		form.KeyProfessionalTitle:  "Platform Engineer",
		form.KeyYearsExperience:    7.0,
		form.KeyLanguages:          []any{"English", "German"},
		form.KeyExpertise:          []string{"DevOps", "Cloud Computing"},
		form.KeyContactPreferences: map[string]any{"email": true, "discord": true, "twitter": false},
		form.KeyAccentColor:        "#7c3aed",
		form.KeyUseEmojis:          false,
		form.KeyAnimatedSvg:        true,
		form.KeyStatsConfig: form.Stats{
			Selected: []string{"GitHub Stats Card", "GitHub Streak Stats"},
			Colors:   map[string]string{"GitHub Streak Stats": "#22c55e"},
		}.Record(),
	}
}

func TestBuild_SubstitutesFields(t *testing.T) {
	user := User{Email: "jane@example.com", GitHubUsername: "janedoe"}
	p := Build(sampleState(), user)

	assert.Contains(t, p, "- Name: jane@example.com")
	assert.Contains(t, p, "- GitHub Profile: janedoe")
	assert.Contains(t, p, "- Title: Platform Engineer")
	assert.Contains(t, p, "- Years of Experience: 7")
	assert.Contains(t, p, "- Languages Spoken: English, German")
	assert.Contains(t, p, "- Areas of Expertise: DevOps, Cloud Computing")
	assert.Contains(t, p, "- Preferred Contact: Discord, Email")
	assert.Contains(t, p, "- Primary Color: #7c3aed")
	assert.Contains(t, p, "without emojis")
	assert.Contains(t, p, "including animated SVG elements")
}

func TestBuild_BadgeURLs(t *testing.T) {
	p := Build(sampleState(), User{Name: "Jane", GitHubUsername: "janedoe"})

	assert.Contains(t, p, "https://github-readme-stats.vercel.app/api?username=janedoe&show_icons=true&title_color=7c3aed")
	assert.Contains(t, p, "https://streak-stats.demolab.com?user=janedoe&ring=22c55e")
	assert.Contains(t, p, "https://github-profile-trophy.vercel.app/?username=janedoe")
	assert.Contains(t, p, "https://komarev.com/ghpvc/?username=janedoe&color=7c3aed")
	assert.Contains(t, p, "https://img.shields.io/badge/<Label>-7c3aed")
	assert.NotContains(t, p, "top-langs")
}

func TestBuild_IsDeterministic(t *testing.T) {
	u := User{Name: "Jane", GitHubUsername: "janedoe"}
	assert.Equal(t, Build(sampleState(), u), Build(sampleState(), u))
}

func TestBuild_EmptyState(t *testing.T) {
	p := Build(form.State{}, User{})
	assert.Contains(t, p, "Selected GitHub Stats to Show: none")
	assert.Contains(t, p, "without emojis")
}

func TestStatURL_Unknown(t *testing.T) {
	assert.Empty(t, StatURL("Nope", "x", "fff"))
}

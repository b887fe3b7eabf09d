// Package steps declares the wizard's ordered question list.
package steps

import (
	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/Guerrilla-Interactive/readmegen/app/widgets"
)

// KeyReview is the pseudo key of the final step.
const KeyReview = "review"

// Descriptor describes one wizard step.
type Descriptor struct {
	Title    string
	Subtitle string
	Key      string
	// NewWidget builds a fresh input for the step. Nil for the review step.
	NewWidget func() widgets.Widget
	// SuppressEnterAdvance leaves enter to the widget (it toggles items).
	SuppressEnterAdvance bool
	// Multiline steps accept newline keys.
	Multiline bool
	Optional  bool
}

// Kind is the value shape stored under the step's key.
func (d Descriptor) Kind() form.Kind { return form.KindOf(d.Key) }

var (
	pronounOptions = []widgets.Option{
		{Value: "he/him", Label: "He/Him"},
		{Value: "she/her", Label: "She/Her"},
		{Value: "they/them", Label: "They/Them"},
		{Value: "custom", Label: "Custom"},
	}
	languageOptions  = widgets.Opts("English", "Spanish", "French", "German", "Chinese", "Japanese")
	expertiseOptions = widgets.Opts("Frontend Development", "Backend Development", "DevOps", "Cloud Computing", "Machine Learning")
	yesNoOptions     = []widgets.Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}
	mentorOptions    = []widgets.Option{
		{Value: "mentor", Label: "I want to mentor"},
		{Value: "mentee", Label: "I want a mentor"},
		{Value: "both", Label: "Both"},
	}
	contactOptions = []widgets.Option{
		{Value: "email", Label: form.FlagLabels["email"]},
		{Value: "linkedin", Label: form.FlagLabels["linkedin"]},
		{Value: "calendly", Label: form.FlagLabels["calendly"]},
		{Value: "twitter", Label: form.FlagLabels["twitter"]},
		{Value: "discord", Label: form.FlagLabels["discord"]},
	}
)

var registry = []Descriptor{
	{
		Title: "What's your professional title?", Subtitle: "e.g. Senior Frontend Engineer",
		Key: form.KeyProfessionalTitle,
		NewWidget: func() widgets.Widget { return widgets.NewText("Software Engineer", nil) },
	},
	{
		Title: "How many years of experience do you have?",
		Key:   form.KeyYearsExperience,
		NewWidget: func() widgets.Widget { return widgets.NewSlider(0, 30, "years") },
	},
	{
		Title: "Where do you currently work?",
		Key:   form.KeyOrganization,
		NewWidget: func() widgets.Widget { return widgets.NewText("Company or organization", nil) },
	},
	{
		Title: "What's your LinkedIn profile URL?",
		Key:   form.KeyLinkedIn,
		NewWidget: func() widgets.Widget {
			return widgets.NewText("https://linkedin.com/in/you", widgets.ValidateLinkedIn)
		},
	},
	{
		Title: "Write a brief professional summary", Subtitle: "A few sentences about what you do",
		Key:       form.KeySummary,
		Multiline: true,
		NewWidget: func() widgets.Widget { return widgets.NewTextArea("I build ...") },
	},
	{
		Title: "What's your time zone?",
		Key:   form.KeyTimeZone,
		NewWidget: func() widgets.Widget { return widgets.NewText("e.g. UTC+1, CET, America/New_York", nil) },
	},
	{
		Title: "What are your pronouns?",
		Key:   form.KeyPronouns,
		NewWidget: func() widgets.Widget { return widgets.NewToggle(pronounOptions) },
	},
	{
		Title: "Which languages do you speak?",
		Key:   form.KeyLanguages,
		SuppressEnterAdvance: true,
		NewWidget: func() widgets.Widget { return widgets.NewMultiSelect(languageOptions, 0) },
	},
	{
		Title: "What are your areas of expertise?",
		Key:   form.KeyExpertise,
		SuppressEnterAdvance: true,
		NewWidget: func() widgets.Widget { return widgets.NewMultiSelect(expertiseOptions, 0) },
	},
	{
		Title: "Share your recent achievements",
		Key:   form.KeyAchievements,
		Multiline: true,
		NewWidget: func() widgets.Widget { return widgets.NewTextArea("Shipped ..., spoke at ...") },
	},
	{
		Title: "Are you open to collaboration?",
		Key:   form.KeyCollaboration,
		NewWidget: func() widgets.Widget { return widgets.NewToggle(yesNoOptions) },
	},
	{
		Title: "Mentorship preferences",
		Key:   form.KeyMentorship,
		NewWidget: func() widgets.Widget { return widgets.NewToggle(mentorOptions) },
	},
	{
		Title: "Interested in open source?",
		Key:   form.KeyOpenSource,
		NewWidget: func() widgets.Widget { return widgets.NewToggle(yesNoOptions) },
	},
	{
		Title: "How should people reach you?",
		Key:   form.KeyContactPreferences,
		NewWidget: func() widgets.Widget { return widgets.NewChecklist(contactOptions) },
	},
	{
		Title: "Pick an accent color", Subtitle: "Used for badges, stats and your share card",
		Key:   form.KeyAccentColor,
		NewWidget: func() widgets.Widget { return widgets.NewColorPicker() },
	},
	{
		Title: "Which GitHub stats should we show?", Subtitle: "Up to three cards",
		Key:   form.KeyStatsConfig,
		SuppressEnterAdvance: true,
		NewWidget: func() widgets.Widget { return widgets.NewStats() },
	},
	{
		Title: "Any fun facts?", Subtitle: "Optional",
		Key:       form.KeyFunFacts,
		Multiline: true, Optional: true,
		NewWidget: func() widgets.Widget { return widgets.NewTextArea("I once ...") },
	},
	{
		Title: "Use emojis in your profile?",
		Key:   form.KeyUseEmojis,
		NewWidget: func() widgets.Widget { return widgets.NewSwitch("Sprinkle emojis through headings") },
	},
	{
		Title: "Include animated SVG elements?",
		Key:   form.KeyAnimatedSvg,
		NewWidget: func() widgets.Widget { return widgets.NewSwitch("Typing banner and animated dividers") },
	},
	{
		Title: "Review your profile",
		Key:   KeyReview,
	},
}

// Registry returns the ordered steps. Step numbers are 1-based indexes into
// this slice.
func Registry() []Descriptor {
	return append([]Descriptor(nil), registry...)
}

// Len returns the number of steps.
func Len() int { return len(registry) }

// At returns the descriptor for a 1-based step number.
func At(step int) (Descriptor, bool) {
	if step < 1 || step > len(registry) {
		return Descriptor{}, false
	}
	return registry[step-1], true
}

// Index returns the 1-based step number bound to key, or 0.
func Index(key string) int {
	for i, d := range registry {
		if d.Key == key {
			return i + 1
		}
	}
	return 0
}

// Package review builds the read-only summary shown before generation.
package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/Guerrilla-Interactive/readmegen/app/steps"
)

// NotSet is shown for fields without a usable value.
const NotSet = "Not set"

// Section groups fields under a heading with the step editing starts at.
type Section struct {
	Title    string
	EditStep int
	Fields   []string
}

// Sections returns the review layout.
func Sections() []Section {
	return []Section{
		{
			Title:    "Professional Profile",
			EditStep: steps.Index(form.KeyProfessionalTitle),
			Fields:   []string{form.KeyProfessionalTitle, form.KeyYearsExperience, form.KeyOrganization, form.KeyLinkedIn, form.KeySummary},
		},
		{
			Title:    "Communication & Languages",
			EditStep: steps.Index(form.KeyTimeZone),
			Fields:   []string{form.KeyTimeZone, form.KeyPronouns, form.KeyLanguages},
		},
		{
			Title:    "Expertise & Achievements",
			EditStep: steps.Index(form.KeyExpertise),
			Fields:   []string{form.KeyExpertise, form.KeyAchievements},
		},
		{
			Title:    "Collaboration Preferences",
			EditStep: steps.Index(form.KeyCollaboration),
			Fields:   []string{form.KeyCollaboration, form.KeyMentorship, form.KeyOpenSource, form.KeyContactPreferences},
		},
		{
			Title:    "Profile Customization",
			EditStep: steps.Index(form.KeyAccentColor),
			Fields:   []string{form.KeyAccentColor, form.KeyStatsConfig, form.KeyUseEmojis, form.KeyAnimatedSvg},
		},
		{
			Title:    "Personal Touches",
			EditStep: steps.Index(form.KeyFunFacts),
			Fields:   []string{form.KeyFunFacts},
		},
	}
}

// Label returns the display label for a field key.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

var labels = map[string]string{
	form.KeyProfessionalTitle:  "Title",
	form.KeyYearsExperience:    "Experience",
	form.KeyOrganization:       "Organization",
	form.KeyLinkedIn:           "LinkedIn",
	form.KeySummary:            "Summary",
	form.KeyTimeZone:           "Time zone",
	form.KeyPronouns:           "Pronouns",
	form.KeyLanguages:          "Languages",
	form.KeyExpertise:          "Expertise",
	form.KeyAchievements:       "Achievements",
	form.KeyCollaboration:      "Open to collaboration",
	form.KeyMentorship:         "Mentorship",
	form.KeyOpenSource:         "Open source",
	form.KeyContactPreferences: "Contact",
	form.KeyAccentColor:        "Accent color",
	form.KeyStatsConfig:        "GitHub stats",
	form.KeyUseEmojis:          "Emojis",
	form.KeyAnimatedSvg:        "Animated SVG",
	form.KeyFunFacts:           "Fun facts",
}

// Value is a rendered field: either a single text or a list of chips.
type Value struct {
	Text  string
	Chips []string
	// Colors holds an optional hex color per chip, same length as Chips.
	Colors []string
}

// IsSet reports whether the value carries anything beyond NotSet.
func (v Value) IsSet() bool { return len(v.Chips) > 0 || (v.Text != "" && v.Text != NotSet) }

func (v Value) String() string {
	if len(v.Chips) > 0 {
		return strings.Join(v.Chips, ", ")
	}
	return v.Text
}

func notSet() Value { return Value{Text: NotSet} }

// Render formats the value stored at key by the key's declared kind. Absent
// and falsy values (false, 0, blank text, empty lists) render as NotSet.
func Render(s form.State, key string) Value {
	raw, ok := s[key]
	if !ok || raw == nil {
		return notSet()
	}
	switch form.KindOf(key) {
	case form.KindList:
		return chips(s.Strings(key))
	case form.KindFlags:
		on := s.EnabledFlags(key)
		for i, k := range on {
			if l, ok := form.FlagLabels[k]; ok {
				on[i] = l
			}
		}
		return chips(on)
	case form.KindStats:
		st := s.Stats()
		v := chips(st.Selected)
		if v.IsSet() {
			v.Colors = make([]string, len(st.Selected))
			for i, name := range st.Selected {
				v.Colors[i] = st.Colors[name]
			}
		}
		return v
	}
	if m, isMap := raw.(map[string]any); isMap {
		return pairs(m)
	}
	return scalar(raw)
}

func chips(items []string) Value {
	if len(items) == 0 {
		return notSet()
	}
	return Value{Chips: items}
}

func pairs(m map[string]any) Value {
	if len(m) == 0 {
		return notSet()
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, m[k])
	}
	return Value{Text: strings.Join(parts, ", ")}
}

func scalar(raw any) Value {
	switch v := raw.(type) {
	case bool:
		if !v {
			return notSet()
		}
		return Value{Text: "Yes"}
	case string:
		if strings.TrimSpace(v) == "" {
			return notSet()
		}
		return Value{Text: v}
	case float64:
		if v == 0 {
			return notSet()
		}
		return Value{Text: formatNumber(v)}
	case int:
		if v == 0 {
			return notSet()
		}
		return Value{Text: fmt.Sprintf("%d", v)}
	}
	return Value{Text: fmt.Sprint(raw)}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

package form

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"
)

// Field keys. The step registry binds each one to a wizard step.
const (
	KeyProfessionalTitle  = "professionalTitle"
	KeyYearsExperience    = "yearsExperience"
	KeyOrganization       = "organization"
	KeyLinkedIn           = "linkedIn"
	KeySummary            = "summary"
	KeyTimeZone           = "timeZone"
	KeyPronouns           = "pronouns"
	KeyLanguages          = "languages"
	KeyExpertise          = "expertise"
	KeyAchievements       = "achievements"
	KeyCollaboration      = "collaboration"
	KeyMentorship         = "mentorship"
	KeyOpenSource         = "openSource"
	KeyContactPreferences = "contactPreferences"
	KeyAccentColor        = "accentColor"
	KeyStatsConfig        = "statsConfig"
	KeyFunFacts           = "funFacts"
	KeyUseEmojis          = "useEmojis"
	KeyAnimatedSvg        = "animatedSvg"
)

// State is the collected wizard answers. Values are whatever the widgets
// produce, or whatever encoding/json decoded from storage, so readers go
// through the typed accessors below.
type State map[string]any

// Defaults returns the seeded values a fresh wizard starts with.
func Defaults() State {
	return State{
		KeyYearsExperience: 2,
		KeyUseEmojis:       true,
		KeyAnimatedSvg:     true,
	}
}

// Clone returns a shallow copy.
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	return maps.Clone(s)
}

// Marshal serializes the state for storage.
func (s State) Marshal() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal form state: %w", err)
	}
	return string(data), nil
}

// Unmarshal parses a stored state.
func Unmarshal(data string) (State, error) {
	var s State
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal form state: %w", err)
	}
	if s == nil {
		s = State{}
	}
	return s, nil
}

// String returns the value at key as a string ("" if absent).
func (s State) String(key string) string {
	switch v := s[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case float64:
		return formatNumber(v)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprint(v)
	}
}

// Strings returns the value at key as a string list.
func (s State) Strings(key string) []string {
	return toStrings(s[key])
}

// Number returns the value at key as a number.
func (s State) Number(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Bool returns the value at key as a bool.
func (s State) Bool(key string) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case string:
		return v == "yes" || v == "true"
	}
	return false
}

// Flags returns the value at key as a flag set.
func (s State) Flags(key string) map[string]bool {
	out := map[string]bool{}
	switch v := s[key].(type) {
	case map[string]bool:
		maps.Copy(out, v)
	case map[string]any:
		for k, raw := range v {
			if b, ok := raw.(bool); ok {
				out[k] = b
			}
		}
	}
	return out
}

// EnabledFlags returns the enabled keys of a flag set, sorted.
func (s State) EnabledFlags(key string) []string {
	var on []string
	for k, v := range s.Flags(key) {
		if v {
			on = append(on, k)
		}
	}
	sort.Strings(on)
	return on
}

// Stats is the statsConfig record.
type Stats struct {
	Selected []string
	Colors   map[string]string
}

// Stats returns the statsConfig value.
func (s State) Stats() Stats {
	out := Stats{Colors: map[string]string{}}
	switch v := s[KeyStatsConfig].(type) {
	case Stats:
		out.Selected = append(out.Selected, v.Selected...)
		maps.Copy(out.Colors, v.Colors)
	case map[string]any:
		out.Selected = toStrings(v["selectedStats"])
		for k, raw := range v {
			if c, ok := raw.(string); ok && k != "selectedStats" && len(k) > len("Color") && k[len(k)-len("Color"):] == "Color" {
				out.Colors[k[:len(k)-len("Color")]] = c
			}
		}
	}
	return out
}

// Record converts the stats config to the map stored in the state.
func (st Stats) Record() map[string]any {
	rec := map[string]any{"selectedStats": append([]string{}, st.Selected...)}
	for name, c := range st.Colors {
		rec[name+"Color"] = c
	}
	return rec
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string{}, t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	}
	return nil
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

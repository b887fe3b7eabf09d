package form

// Kind classifies how a field's value is shaped. Renderers switch on the
// kind declared here instead of probing values at runtime.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindFlags
	KindStats
	KindMap
)

var kinds = map[string]Kind{
	KeyLanguages:          KindList,
	KeyExpertise:          KindList,
	KeyContactPreferences: KindFlags,
	KeyStatsConfig:        KindStats,
}

// KindOf returns the declared kind of key. Unknown keys are scalars unless
// the value itself is a map, which is shown as free-form pairs.
func KindOf(key string) Kind {
	if k, ok := kinds[key]; ok {
		return k
	}
	return KindScalar
}

// FlagLabels maps flag keys to display labels.
var FlagLabels = map[string]string{
	"email":    "Email",
	"linkedin": "LinkedIn",
	"calendly": "Calendly",
	"twitter":  "X / Twitter",
	"discord":  "Discord",
}

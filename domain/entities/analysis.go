package entities

// Analysis is the result of running a transcript through an AI provider.
// A new analysis always replaces the previous one wholesale.
type Analysis struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Actions   []string `json:"actions"`
	Decisions []string `json:"decisions"`
}

// IsEmpty reports whether the analysis carries no content at all.
func (a Analysis) IsEmpty() bool {
	return a.Summary == "" && len(a.KeyPoints) == 0 && len(a.Actions) == 0 && len(a.Decisions) == 0
}

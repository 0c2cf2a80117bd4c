package roast

// Section keys identify the six parts of an analysis reply.
const (
	KeyRoast     = "roast"
	KeyWins      = "wins"
	KeyATSScore  = "atsScore"
	KeyRewrites  = "rewrites"
	KeyQuickWins = "quickWins"
	KeyRedFlags  = "redFlags"
)

// AnalysisResult holds the segmented model reply. It is never mutated after Segment returns it.
type AnalysisResult struct {
	Roast     string `json:"roast"`
	Wins      string `json:"wins"`
	ATSScore  string `json:"atsScore"`
	Rewrites  string `json:"rewrites"`
	QuickWins string `json:"quickWins"`
	RedFlags  string `json:"redFlags"`
}

// Get returns the section body for key, or "" for an unknown key.
func (r AnalysisResult) Get(key string) string {
	switch key {
	case KeyRoast:
		return r.Roast
	case KeyWins:
		return r.Wins
	case KeyATSScore:
		return r.ATSScore
	case KeyRewrites:
		return r.Rewrites
	case KeyQuickWins:
		return r.QuickWins
	case KeyRedFlags:
		return r.RedFlags
	default:
		return ""
	}
}

// Map returns the sections keyed by section key.
func (r AnalysisResult) Map() map[string]string {
	out := make(map[string]string, len(sections))
	for _, s := range sections {
		out[s.key] = r.Get(s.key)
	}
	return out
}

// Empty reports whether no section was recognized.
func (r AnalysisResult) Empty() bool {
	return r == AnalysisResult{}
}

// Keys returns the section keys in reply order.
func Keys() []string {
	keys := make([]string, 0, len(sections))
	for _, s := range sections {
		keys = append(keys, s.key)
	}
	return keys
}

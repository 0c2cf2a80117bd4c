package roast

import "strings"

type section struct {
	key     string
	heading string
	// next is the prefix that terminates this section's body; empty means end of text.
	next string
}

// sections is ordered as the prompt requests them. Headings match literally.
var sections = []section{
	{key: KeyRoast, heading: "# 🔥 THE ROAST", next: "# ✅ WINS"},
	{key: KeyWins, heading: "# ✅ WINS", next: "# 📊 ATS"},
	{key: KeyATSScore, heading: "# 📊 ATS COMPATIBILITY SCORE", next: "# 💡 TOP"},
	{key: KeyRewrites, heading: "# 💡 TOP 3 REWRITES", next: "# 🎯 QUICK"},
	{key: KeyQuickWins, heading: "# 🎯 QUICK WINS", next: "# 🚩 RED"},
	{key: KeyRedFlags, heading: "# 🚩 RED FLAGS"},
}

// Segment splits a model reply into its six sections.
//
// Each body starts after the first "<heading>\n" and stops at the first
// occurrence of the following section's marker, or at end of text. A missing
// heading yields an empty section. Reordered headings are not repaired: a
// section whose successor appears earlier in the text runs to the end.
func Segment(text string) AnalysisResult {
	var out AnalysisResult
	for _, s := range sections {
		body, ok := extract(text, s)
		if !ok {
			continue
		}
		out.set(s.key, body)
	}
	return out
}

func extract(text string, s section) (string, bool) {
	marker := s.heading + "\n"
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", false
	}
	body := text[idx+len(marker):]
	if s.next != "" {
		if end := strings.Index(body, s.next); end >= 0 {
			body = body[:end]
		}
	}
	return strings.TrimSpace(body), true
}

func (r *AnalysisResult) set(key, body string) {
	switch key {
	case KeyRoast:
		r.Roast = body
	case KeyWins:
		r.Wins = body
	case KeyATSScore:
		r.ATSScore = body
	case KeyRewrites:
		r.Rewrites = body
	case KeyQuickWins:
		r.QuickWins = body
	case KeyRedFlags:
		r.RedFlags = body
	}
}

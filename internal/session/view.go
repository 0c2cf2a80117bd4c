package session

import (
	"unicode/utf8"

	"resume-roaster/internal/roast"
)

const previewChars = 300

// gatedKeys stay hidden until a contact detail is captured.
var gatedKeys = map[string]struct{}{
	roast.KeyQuickWins: {},
	roast.KeyRedFlags:  {},
}

// ViewModel is the presentation projection of a State. The credential is never included.
type ViewModel struct {
	Stage           Stage             `json:"stage"`
	LastError       string            `json:"lastError,omitempty"`
	HasCredential   bool              `json:"hasCredential"`
	TargetRole      string            `json:"targetRole"`
	ExperienceYears int               `json:"experienceYears"`
	ResumePreview   string            `json:"resumePreview,omitempty"`
	ContactCaptured bool              `json:"contactCaptured"`
	Sections        map[string]string `json:"sections,omitempty"`
	LockedSections  []string          `json:"lockedSections,omitempty"`
}

// View projects s for rendering. Sections are only present in the results stage.
func View(s State) ViewModel {
	vm := ViewModel{
		Stage:           s.Stage,
		LastError:       s.LastError,
		HasCredential:   s.Credential != "",
		TargetRole:      s.TargetRole,
		ExperienceYears: s.ExperienceYears,
		ContactCaptured: s.ContactCaptured,
	}
	if s.Stage == StageSetup || s.Stage == StageAnalyzing {
		vm.ResumePreview = preview(s.ResumeText)
	}
	if s.Stage != StageResults || s.Result == nil {
		return vm
	}
	vm.Sections = make(map[string]string, len(roast.Keys()))
	for _, key := range roast.Keys() {
		if _, gated := gatedKeys[key]; gated && !s.ContactCaptured {
			vm.LockedSections = append(vm.LockedSections, key)
			continue
		}
		vm.Sections[key] = s.Result.Get(key)
	}
	return vm
}

// Visible reports whether the section key is rendered for s.
func Visible(s State, key string) bool {
	if s.Stage != StageResults || s.Result == nil {
		return false
	}
	if _, gated := gatedKeys[key]; gated {
		return s.ContactCaptured
	}
	return true
}

func preview(text string) string {
	if text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) <= previewChars {
		return text + "..."
	}
	runes := []rune(text)
	return string(runes[:previewChars]) + "..."
}

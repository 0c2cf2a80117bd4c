package session

import "resume-roaster/internal/roast"

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// CredentialChanged records an edit of the provider key.
type CredentialChanged struct {
	Credential string
}

// ResumePasted submits pasted resume text.
type ResumePasted struct {
	Text string
}

// FileSelected reports an upload attempt. Uploads are never accepted.
type FileSelected struct {
	FileName    string
	ContentType string
}

// PreferencesChanged updates the target role and experience.
type PreferencesChanged struct {
	TargetRole      string
	ExperienceYears int
}

// AnalyzeRequested is the explicit user action that starts a model call.
type AnalyzeRequested struct{}

// AnalysisSucceeded completes the call identified by Attempt.
type AnalysisSucceeded struct {
	Attempt int
	Result  roast.AnalysisResult
}

// AnalysisFailed completes the call identified by Attempt with a user-facing message.
type AnalysisFailed struct {
	Attempt int
	Message string
}

// ContactSubmitted submits a contact detail that unlocks the gated sections.
type ContactSubmitted struct {
	Email string
}

// Reset starts over.
type Reset struct{}

func (CredentialChanged) isEvent()  {}
func (ResumePasted) isEvent()       {}
func (FileSelected) isEvent()       {}
func (PreferencesChanged) isEvent() {}
func (AnalyzeRequested) isEvent()   {}
func (AnalysisSucceeded) isEvent()  {}
func (AnalysisFailed) isEvent()     {}
func (ContactSubmitted) isEvent()   {}
func (Reset) isEvent()              {}

// EffectKind names the side effect a transition asks the caller to perform.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectStartAnalysis
	EffectCancelAnalysis
	EffectPersistCredential
)

// Effect is returned alongside the next state.
type Effect struct {
	Kind       EffectKind
	Attempt    int
	Prompt     roast.PromptInput
	Credential string
}

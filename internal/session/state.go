// Package session implements the disclosure state machine as a pure reducer.
package session

import (
	"resume-roaster/internal/roast"
)

// Stage is one discrete value of the disclosure state machine.
type Stage string

const (
	StageLanding   Stage = "landing"
	StageSetup     Stage = "setup"
	StageAnalyzing Stage = "analyzing"
	StageResults   Stage = "results"
)

// MinResumeChars is the shortest pasted resume that is accepted.
const MinResumeChars = 200

// State is the full session record. Reduce never mutates its input.
type State struct {
	Stage           Stage
	Credential      string
	ResumeText      string
	TargetRole      string
	ExperienceYears int
	LastError       string
	Result          *roast.AnalysisResult
	ContactEmail    string
	ContactCaptured bool
	// Attempt identifies the current model call; completions carrying another value are stale.
	Attempt int
}

// New returns a landing-stage state with default preferences.
func New(credential string) State {
	return State{
		Stage:           StageLanding,
		Credential:      credential,
		TargetRole:      roast.DefaultRole,
		ExperienceYears: roast.DefaultExperience,
	}
}

// PromptInput returns the prompt inputs held by the state.
func (s State) PromptInput() roast.PromptInput {
	return roast.PromptInput{
		ResumeText:      s.ResumeText,
		TargetRole:      s.TargetRole,
		ExperienceYears: s.ExperienceYears,
	}
}

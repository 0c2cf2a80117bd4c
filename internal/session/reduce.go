package session

import (
	"strings"
	"unicode/utf8"

	"resume-roaster/internal/roast"
)

const mimePDF = "application/pdf"

// Reduce applies e to s and returns the next state plus the effect the caller
// must run. Events that do not apply to the current stage return s unchanged.
func Reduce(s State, e Event) (State, Effect) {
	switch ev := e.(type) {
	case CredentialChanged:
		s.Credential = ev.Credential
		return s, Effect{Kind: EffectPersistCredential, Credential: ev.Credential}
	case ResumePasted:
		return pasteResume(s, ev), Effect{}
	case FileSelected:
		return selectFile(s, ev), Effect{}
	case PreferencesChanged:
		return changePreferences(s, ev), Effect{}
	case AnalyzeRequested:
		return requestAnalysis(s)
	case AnalysisSucceeded:
		if !Accepts(s, ev) {
			return s, Effect{}
		}
		result := ev.Result
		s.Result = &result
		s.Stage = StageResults
		s.LastError = ""
		s.ContactEmail = ""
		s.ContactCaptured = false
		return s, Effect{}
	case AnalysisFailed:
		if !Accepts(s, ev) {
			return s, Effect{}
		}
		s.Stage = StageSetup
		s.Result = nil
		s.LastError = ev.Message
		if strings.TrimSpace(s.LastError) == "" {
			s.LastError = MsgAnalysisFailed
		}
		return s, Effect{}
	case ContactSubmitted:
		return submitContact(s, ev), Effect{}
	case Reset:
		return reset(s)
	default:
		return s, Effect{}
	}
}

// Accepts reports whether e applies in the current stage. Reduce returns s
// unchanged for events it does not accept.
func Accepts(s State, e Event) bool {
	switch ev := e.(type) {
	case ResumePasted, FileSelected:
		return s.Stage == StageLanding
	case PreferencesChanged, AnalyzeRequested:
		return s.Stage == StageLanding || s.Stage == StageSetup
	case AnalysisSucceeded:
		return s.Stage == StageAnalyzing && ev.Attempt == s.Attempt
	case AnalysisFailed:
		return s.Stage == StageAnalyzing && ev.Attempt == s.Attempt
	case ContactSubmitted:
		return s.Stage == StageResults
	case CredentialChanged, Reset:
		return true
	default:
		return false
	}
}

func pasteResume(s State, ev ResumePasted) State {
	if !Accepts(s, ev) {
		return s
	}
	if s.Credential == "" {
		s.LastError = MsgCredentialRequired
		return s
	}
	if utf8.RuneCountInString(ev.Text) < MinResumeChars {
		s.LastError = MsgResumeTooShort
		return s
	}
	s.ResumeText = ev.Text
	s.LastError = ""
	s.Stage = StageSetup
	return s
}

func selectFile(s State, ev FileSelected) State {
	if !Accepts(s, ev) {
		return s
	}
	if s.Credential == "" {
		s.LastError = MsgCredentialRequired
		return s
	}
	if normalizeContentType(ev.ContentType) != mimePDF {
		s.LastError = MsgUploadNotPDF
		return s
	}
	s.LastError = MsgUploadUnsupported
	return s
}

func changePreferences(s State, ev PreferencesChanged) State {
	if !Accepts(s, ev) {
		return s
	}
	role, err := roast.ParseRole(ev.TargetRole)
	if err != nil {
		s.LastError = MsgInvalidRole
		return s
	}
	if err := roast.ValidateExperience(ev.ExperienceYears); err != nil {
		s.LastError = MsgInvalidExperience
		return s
	}
	s.TargetRole = role
	s.ExperienceYears = ev.ExperienceYears
	s.LastError = ""
	return s
}

func requestAnalysis(s State) (State, Effect) {
	if !Accepts(s, AnalyzeRequested{}) {
		return s, Effect{}
	}
	if s.Credential == "" {
		s.LastError = MsgCredentialRequired
		return s, Effect{}
	}
	if s.ResumeText == "" {
		s.LastError = MsgResumeRequired
		return s, Effect{}
	}
	s.Attempt++
	s.Stage = StageAnalyzing
	s.LastError = ""
	return s, Effect{
		Kind:       EffectStartAnalysis,
		Attempt:    s.Attempt,
		Prompt:     s.PromptInput(),
		Credential: s.Credential,
	}
}

func submitContact(s State, ev ContactSubmitted) State {
	if !Accepts(s, ev) {
		return s
	}
	email := strings.TrimSpace(ev.Email)
	if email == "" || !strings.Contains(email, "@") {
		s.LastError = MsgInvalidEmail
		return s
	}
	s.ContactEmail = email
	s.ContactCaptured = true
	s.LastError = ""
	return s
}

func reset(s State) (State, Effect) {
	effect := Effect{}
	if s.Stage == StageAnalyzing {
		effect = Effect{Kind: EffectCancelAnalysis, Attempt: s.Attempt}
		s.Attempt++
	}
	s.Stage = StageLanding
	s.ResumeText = ""
	s.Result = nil
	s.ContactEmail = ""
	s.ContactCaptured = false
	s.LastError = ""
	return s, effect
}

func normalizeContentType(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}

package session

// User-facing messages stored in State.LastError.
const (
	MsgResumeTooShort     = "This seems too short to be a resume. Please enter your complete resume."
	MsgCredentialRequired = "Please enter your Anthropic API key"
	MsgResumeRequired     = "Please upload or paste your resume"
	MsgUploadNotPDF       = "Please upload a PDF file"
	MsgUploadUnsupported  = "Failed to read PDF. Please try pasting your resume text instead."
	MsgInvalidEmail       = "Please enter a valid email address"
	MsgInvalidRole        = "Please choose one of the listed roles"
	MsgInvalidExperience  = "Years of experience must be between 0 and 15"
	MsgAnalysisFailed     = "Failed to analyze resume. Please check your API key and try again."
	MsgProviderFailed     = "API request failed"
)

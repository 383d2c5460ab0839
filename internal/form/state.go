package form

import (
	"strings"

	"github.com/karolswdev/promptarchitect/internal/llm"
)

// Phase is the display phase derived from a FormState.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// FormState is the complete display state of the form. An empty Error or
// Result means none is present.
type FormState struct {
	Idea    string `json:"idea"`
	Context string `json:"context"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Result  string `json:"result,omitempty"`
	Copied  bool   `json:"copied"`
}

// EnhancementRequest is what a submit hands to the enhancer.
type EnhancementRequest struct {
	Idea    string
	Context string
}

// Prompt returns the composed prompt for the request.
func (r EnhancementRequest) Prompt() string {
	return llm.ComposePrompt(r.Idea, r.Context)
}

// WithIdea returns s with the idea text replaced.
func (s FormState) WithIdea(text string) FormState {
	s.Idea = text
	return s
}

// WithContext returns s with the context text replaced.
func (s FormState) WithContext(text string) FormState {
	s.Context = text
	return s
}

// CanSubmit reports whether a submit would start a request.
func (s FormState) CanSubmit() bool {
	return !s.Loading && strings.TrimSpace(s.Idea) != ""
}

// Begin starts a submission. When it cannot proceed it returns s unchanged
// and ok=false.
func (s FormState) Begin() (next FormState, req EnhancementRequest, ok bool) {
	if !s.CanSubmit() {
		return s, EnhancementRequest{}, false
	}
	s.Error = ""
	s.Result = ""
	s.Loading = true
	return s, EnhancementRequest{Idea: s.Idea, Context: s.Context}, true
}

// Succeed records a result and leaves the loading phase.
func (s FormState) Succeed(result string) FormState {
	s.Loading = false
	s.Error = ""
	s.Result = result
	return s
}

// Fail records an error message and leaves the loading phase.
func (s FormState) Fail(message string) FormState {
	s.Loading = false
	s.Result = ""
	s.Error = message
	return s
}

// MarkCopied sets the copy confirmation if there is a result to copy.
func (s FormState) MarkCopied() (FormState, bool) {
	if s.Result == "" {
		return s, false
	}
	s.Copied = true
	return s, true
}

// ClearCopied resets the copy confirmation.
func (s FormState) ClearCopied() FormState {
	s.Copied = false
	return s
}

// Copy button labels.
const (
	CopyLabel   = "Copy JSON"
	CopiedLabel = "Copied"
)

// CopyButtonLabel returns the label the copy control shows.
func (s FormState) CopyButtonLabel() string {
	if s.Copied {
		return CopiedLabel
	}
	return CopyLabel
}

// Phase derives the display phase.
func (s FormState) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != "":
		return PhaseFailed
	case s.Result != "":
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

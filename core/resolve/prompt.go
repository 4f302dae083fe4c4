package resolve

import "fmt"

// correctiveTemplate is appended to the original prompt after a failed
// attempt. The %s receives the verbatim diagnostic.
const correctiveTemplate = "\n---\nYour previous response was invalid:\n%s\n\n" +
	"Please fix the JSON and return ONLY valid JSON matching the schema. No other text."

// PromptState is the immutable input of one attempt: the caller's original
// prompt and the diagnostic of the previous attempt, if any.
type PromptState struct {
	original  string
	lastError string
}

// NewPromptState starts a resolution from the caller's prompt.
func NewPromptState(original string) PromptState {
	return PromptState{original: original}
}

// WithError returns the state for the next attempt. The receiver is not
// modified and earlier diagnostics are discarded.
func (s PromptState) WithError(err error) PromptState {
	next := PromptState{original: s.original}
	if err != nil {
		next.lastError = err.Error()
	}
	return next
}

// Original returns the caller's prompt.
func (s PromptState) Original() string {
	return s.original
}

// LastError returns the previous attempt's diagnostic, or "" on the first
// attempt.
func (s PromptState) LastError() string {
	return s.lastError
}

// Prompt renders the text sent to the completer. Feedback always attaches to
// the original prompt, so prompts do not grow across attempts.
func (s PromptState) Prompt() string {
	if s.lastError == "" {
		return s.original
	}
	return s.original + fmt.Sprintf(correctiveTemplate, s.lastError)
}

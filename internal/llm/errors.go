package llm

import "errors"

// Sentinel errors for the LLM client and the enhancer.

// ErrMissingCredential indicates no API key could be resolved when the enhancer was built.
// Its message is shown to the user as-is.
var ErrMissingCredential = errors.New("API key not found in environment variables")

// ErrLLMClientNil indicates the underlying SDK client was nil when used.
var ErrLLMClientNil = errors.New("LLM client cannot be nil")

// ErrLLMPromptEmpty indicates the composed prompt was empty.
var ErrLLMPromptEmpty = errors.New("prompt cannot be empty")

// ErrLLMCompletion indicates an error occurred during the LLM API call (network, auth, rate limit).
// The underlying error from the SDK is wrapped.
var ErrLLMCompletion = errors.New("failed to create LLM completion")

// ErrEmptyResponse indicates the LLM returned no usable text.
var ErrEmptyResponse = errors.New("received an empty response from LLM")

// EnhanceFailedMessage is the only text a user sees when an enhancement fails after the credential check.
const EnhanceFailedMessage = "Failed to enhance prompt. Please check your API key and try again."

// EnhanceError is returned by Enhancer.Enhance for transport, API and empty-response failures.
// Its message is always EnhanceFailedMessage; the cause stays reachable through errors.Is/As.
type EnhanceError struct {
	Cause error
}

func (e *EnhanceError) Error() string {
	return EnhanceFailedMessage
}

func (e *EnhanceError) Unwrap() error {
	return e.Cause
}

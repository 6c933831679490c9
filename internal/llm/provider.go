package llm

import (
	"context"

	"prepvoice/interview/internal/conversation"
)

// Provider is the language-model responder the turn engine talks to. It
// receives the entire ordered conversation on every call.
type Provider interface {
	GenerateReply(ctx context.Context, conv conversation.Conversation) (*Reply, error)
	GetProviderName() string
}

// Reply is one assistant turn produced by a provider.
type Reply struct {
	Content  string
	Metadata ReplyMetadata
}

// additional information about how the reply was produced
type ReplyMetadata struct {
	Provider       string
	Model          string
	ProcessingTime int // milliseconds
}

// ProviderError represents an error from an LLM provider.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
// For current and future use across different providers
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)

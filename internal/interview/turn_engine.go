package interview

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"prepvoice/interview/internal/conversation"
	"prepvoice/interview/internal/llm"
)

// TurnEngine appends one user utterance, asks the responder for the next
// interviewer turn, and appends the reply. The caller's conversation is
// never modified: on responder failure nothing has been appended, so the
// same utterance can simply be resubmitted.
type TurnEngine struct {
	provider llm.Provider
	timeout  time.Duration
	logger   *zap.Logger
}

func NewTurnEngine(provider llm.Provider, timeout time.Duration, logger *zap.Logger) *TurnEngine {
	return &TurnEngine{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Advance runs one turn. Empty utterances are accepted and forwarded;
// validating input is the caller's job. The responder always sees the full
// ordered history.
func (e *TurnEngine) Advance(ctx context.Context, conv conversation.Conversation, utterance string) (conversation.Conversation, string, error) {
	if err := conv.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}

	working := conv.Append(conversation.Message{
		Role:    conversation.RoleUser,
		Content: utterance,
	})

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.provider.GenerateReply(ctx, working)
	if err != nil {
		e.logger.Error("responder call failed",
			zap.String("provider", e.provider.GetProviderName()),
			zap.Int("history_len", len(working)),
			zap.Error(err))
		return nil, "", err
	}
	if reply.Content == "" {
		return nil, "", &llm.ProviderError{
			Provider: e.provider.GetProviderName(),
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Responder returned empty reply",
		}
	}

	updated := working.Append(conversation.Message{
		Role:    conversation.RoleAssistant,
		Content: reply.Content,
	})

	e.logger.Info("turn advanced",
		zap.String("provider", reply.Metadata.Provider),
		zap.String("model", reply.Metadata.Model),
		zap.Int("processing_time_ms", reply.Metadata.ProcessingTime),
		zap.Int("history_len", len(updated)))

	return updated, reply.Content, nil
}

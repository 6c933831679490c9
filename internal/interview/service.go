package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"prepvoice/interview/internal/conversation"
	"prepvoice/interview/internal/models"
	"prepvoice/interview/internal/prompts"
	"prepvoice/interview/internal/repositories"
	"prepvoice/interview/internal/transcription"
)

// ReportAggregator turns a finished conversation plus the session recording
// into a report. It never fails; degraded sub-analyses become diagnostic
// feedback inside the report.
type ReportAggregator interface {
	Finalize(ctx context.Context, conv conversation.Conversation, audioPath string) models.Report
}

// Service owns the interview session lifecycle: creation, turn-taking,
// finalization into a report, and report retrieval.
type Service struct {
	repo          *repositories.SessionRepository
	engine        *TurnEngine
	transcriber   transcription.Transcriber
	aggregator    ReportAggregator
	promptManager prompts.PromptProvider
	logger        *zap.Logger

	transcriptionTimeout time.Duration
	locks                sessionLocks
}

func NewService(
	repo *repositories.SessionRepository,
	engine *TurnEngine,
	transcriber transcription.Transcriber,
	aggregator ReportAggregator,
	promptManager prompts.PromptProvider,
	transcriptionTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:                 repo,
		engine:               engine,
		transcriber:          transcriber,
		aggregator:           aggregator,
		promptManager:        promptManager,
		transcriptionTimeout: transcriptionTimeout,
		logger:               logger,
	}
}

// StartSession creates a session whose conversation holds only the
// interviewer system prompt. An empty style selects the default.
func (s *Service) StartSession(ctx context.Context, userID, style string) (string, error) {
	if style == "" {
		style = prompts.DefaultStyle
	}
	systemPrompt, err := s.promptManager.SystemPrompt(style)
	if err != nil {
		return "", err
	}

	conv := conversation.New(systemPrompt)
	encoded, err := conversation.Encode(conv)
	if err != nil {
		return "", err
	}

	sessionID := uuid.New().String()
	session := &models.InterviewSession{
		SessionID:   sessionID,
		UserID:      userID,
		ChatHistory: string(encoded),
	}
	if err := s.repo.Create(session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("interview session started",
		zap.String("session_id", sessionID),
		zap.String("style", style))

	return sessionID, nil
}

// SubmitTurn transcribes one recorded answer and advances the conversation.
// Returns the transcript and the interviewer's next question.
func (s *Service) SubmitTurn(ctx context.Context, userID, sessionID, audioPath string) (string, string, error) {
	lock := s.locks.acquire(sessionID)
	defer lock.Unlock()

	session, err := s.loadOwned(userID, sessionID)
	if err != nil {
		return "", "", err
	}
	if session.Finalized() {
		return "", "", ErrAlreadyFinalized
	}

	transcribeCtx, cancel := context.WithTimeout(ctx, s.transcriptionTimeout)
	transcript, err := s.transcriber.Transcribe(transcribeCtx, audioPath)
	cancel()
	if err != nil {
		s.logger.Error("transcription failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return "", "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	reply, err := s.advanceAndSave(ctx, session, transcript, audioPath)
	if err != nil {
		return "", "", err
	}
	return transcript, reply, nil
}

// CanSubmitTurn checks that the caller owns the session and that it is
// still open, without advancing it. The turn handler calls this before it
// stores an uploaded recording, so a rejected request never touches the
// session's audio on disk.
func (s *Service) CanSubmitTurn(ctx context.Context, userID, sessionID string) error {
	session, err := s.loadOwned(userID, sessionID)
	if err != nil {
		return err
	}
	if session.Finalized() {
		return ErrAlreadyFinalized
	}
	return nil
}

// SubmitTextTurn advances the conversation with an already-transcribed
// answer, skipping audio handling entirely.
func (s *Service) SubmitTextTurn(ctx context.Context, userID, sessionID, text string) (string, error) {
	lock := s.locks.acquire(sessionID)
	defer lock.Unlock()

	session, err := s.loadOwned(userID, sessionID)
	if err != nil {
		return "", err
	}
	if session.Finalized() {
		return "", ErrAlreadyFinalized
	}

	return s.advanceAndSave(ctx, session, text, "")
}

func (s *Service) advanceAndSave(ctx context.Context, session *models.InterviewSession, utterance, audioPath string) (string, error) {
	conv, err := conversation.Decode([]byte(session.ChatHistory))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}

	updated, reply, err := s.engine.Advance(ctx, conv, utterance)
	if err != nil {
		return "", err
	}

	encoded, err := conversation.Encode(updated)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateConversation(session.SessionID, string(encoded), audioPath); err != nil {
		return "", fmt.Errorf("failed to persist conversation: %w", err)
	}
	return reply, nil
}

// FinalizeSession aggregates the report and persists it. Finalization is
// one-shot: a second call is rejected with ErrAlreadyFinalized and the
// stored report is left untouched.
func (s *Service) FinalizeSession(ctx context.Context, userID, sessionID string) (string, error) {
	lock := s.locks.acquire(sessionID)
	defer lock.Unlock()

	session, err := s.loadOwned(userID, sessionID)
	if err != nil {
		return "", err
	}
	if session.Finalized() {
		return "", ErrAlreadyFinalized
	}

	conv, err := conversation.Decode([]byte(session.ChatHistory))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}

	report := s.aggregator.Finalize(ctx, conv, session.AudioPath)
	encoded, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	if err := s.repo.SaveReport(sessionID, string(encoded), time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAlreadyFinalized
		}
		return "", fmt.Errorf("failed to persist report: %w", err)
	}

	s.locks.forget(sessionID)

	s.logger.Info("interview session finalized",
		zap.String("session_id", sessionID),
		zap.Int("messages", len(conv)))

	return sessionID, nil
}

// GetReport returns the stored report for a finalized session.
func (s *Service) GetReport(ctx context.Context, userID, sessionID string) (*models.Report, error) {
	session, err := s.loadOwned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Finalized() {
		return nil, ErrReportNotReady
	}

	var report models.Report
	if err := json.Unmarshal([]byte(session.Report), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}
	return &report, nil
}

// ListSessions returns summaries of the user's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	sessions, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]models.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		turns := 0
		if conv, err := conversation.Decode([]byte(session.ChatHistory)); err == nil {
			turns = (len(conv) - 1) / 2
		} else {
			s.logger.Warn("corrupt conversation in session listing",
				zap.String("session_id", session.SessionID),
				zap.Error(err))
		}
		summaries = append(summaries, models.SessionSummary{
			SessionID:   session.SessionID,
			CreatedAt:   session.CreatedAt,
			FinalizedAt: session.FinalizedAt,
			Turns:       turns,
		})
	}
	return summaries, nil
}

func (s *Service) loadOwned(userID, sessionID string) (*models.InterviewSession, error) {
	session, err := s.repo.GetBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrUnauthorized
	}
	return session, nil
}

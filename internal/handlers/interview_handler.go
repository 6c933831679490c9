package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"prepvoice/interview/internal/interview"
	"prepvoice/interview/internal/llm"
	"prepvoice/interview/internal/middleware"
	"prepvoice/interview/internal/models"
	"prepvoice/interview/internal/utils"
)

// uploads above this size are rejected before touching disk
const maxAudioUploadBytes = 25 << 20

type InterviewHandler struct {
	service   *interview.Service
	uploadDir string
	logger    *zap.Logger
}

func NewInterviewHandler(service *interview.Service, uploadDir string, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		service:   service,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// StartHandler creates a new interview session. An optional ?style= query
// selects the interviewer style.
func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	sessionID, err := h.service.StartSession(r.Context(), userID, r.URL.Query().Get("style"))
	if err != nil {
		h.logger.Error("failed to start session", zap.Error(err))
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "start_failed",
			Message: err.Error(),
		})
		return
	}

	utils.JSON(w, http.StatusCreated, models.StartInterviewResponse{SessionID: sessionID})
}

// TurnHandler accepts one recorded answer as a multipart "audio" part,
// stores it, and advances the interview.
func (h *InterviewHandler) TurnHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	sessionID := chi.URLParam(r, "sessionID")

	// Reject before touching disk: the recording is stored under the
	// session's canonical path, so an unauthorized or late request must
	// not overwrite the owner's audio.
	if err := h.service.CanSubmitTurn(r.Context(), userID, sessionID); err != nil {
		h.writeServiceError(w, sessionID, err)
		return
	}

	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_upload",
			Message: "Expected multipart form with an audio part",
		})
		return
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_audio",
			Message: "No audio file provided",
		})
		return
	}
	defer file.Close()

	audioPath := filepath.Join(h.uploadDir, fmt.Sprintf("interview_%s.wav", sessionID))
	if err := saveUpload(file, audioPath); err != nil {
		h.logger.Error("failed to store upload",
			zap.String("session_id", sessionID),
			zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "upload_failed",
			Message: "Failed to store audio file",
		})
		return
	}

	transcript, reply, err := h.service.SubmitTurn(r.Context(), userID, sessionID, audioPath)
	if err != nil {
		h.writeServiceError(w, sessionID, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.TurnResponse{
		SessionID:  sessionID,
		Transcript: transcript,
		Reply:      reply,
	})
}

// TextTurnHandler advances the interview with a pre-transcribed answer.
func (h *InterviewHandler) TextTurnHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	sessionID := chi.URLParam(r, "sessionID")
	req := middleware.GetValidatedRequest[*models.TextTurnRequest](r)

	reply, err := h.service.SubmitTextTurn(r.Context(), userID, sessionID, req.Text)
	if err != nil {
		h.writeServiceError(w, sessionID, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.TurnResponse{
		SessionID:  sessionID,
		Transcript: req.Text,
		Reply:      reply,
	})
}

// FinalizeHandler closes the session and generates its report.
func (h *InterviewHandler) FinalizeHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	sessionID := chi.URLParam(r, "sessionID")

	reportID, err := h.service.FinalizeSession(r.Context(), userID, sessionID)
	if err != nil {
		h.writeServiceError(w, sessionID, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.FinalizeResponse{ReportID: reportID})
}

// ReportHandler returns the stored report of a finalized session.
func (h *InterviewHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	sessionID := chi.URLParam(r, "sessionID")

	report, err := h.service.GetReport(r.Context(), userID, sessionID)
	if err != nil {
		h.writeServiceError(w, sessionID, err)
		return
	}

	utils.JSON(w, http.StatusOK, report)
}

// ListHandler returns the caller's sessions, newest first.
func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	summaries, err := h.service.ListSessions(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "", err)
		return
	}

	utils.JSON(w, http.StatusOK, summaries)
}

func (h *InterviewHandler) writeServiceError(w http.ResponseWriter, sessionID string, err error) {
	var provErr *llm.ProviderError

	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "session_not_found",
			Message: "Interview session not found",
		})
	case errors.Is(err, interview.ErrUnauthorized):
		utils.JSON(w, http.StatusForbidden, models.ErrorResponse{
			Code:    "forbidden",
			Message: "Session belongs to a different user",
		})
	case errors.Is(err, interview.ErrAlreadyFinalized):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "already_finalized",
			Message: "Session has already been finalized",
		})
	case errors.Is(err, interview.ErrReportNotReady):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "report_not_ready",
			Message: "Finalize the session before requesting its report",
		})
	case errors.Is(err, interview.ErrTranscriptionFailed):
		h.logger.Error("transcription error", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "transcription_failed",
			Message: "Failed to transcribe audio; retry with the same recording",
		})
	case errors.As(err, &provErr):
		h.logger.Error("responder error", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "responder_error",
			Message: "Interviewer model unavailable; retry with the same answer",
		})
	case errors.Is(err, interview.ErrDataIntegrity):
		h.logger.Error("data integrity error", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "data_integrity",
			Message: "Stored session data is corrupt",
		})
	default:
		h.logger.Error("internal error", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
	}
}

func saveUpload(src io.Reader, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Sync()
}

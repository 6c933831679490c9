package repositories

import (
	"time"

	"gorm.io/gorm"

	"prepvoice/interview/internal/models"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Create inserts a new interview session record.
func (r *SessionRepository) Create(session *models.InterviewSession) error {
	return r.DB.Create(session).Error
}

// GetBySessionID retrieves one session by its public id.
func (r *SessionRepository) GetBySessionID(sessionID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.DB.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetByUser retrieves all sessions belonging to a user, newest first.
func (r *SessionRepository) GetByUser(userID string) ([]models.InterviewSession, error) {
	sessions := []models.InterviewSession{}
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// UpdateConversation replaces the serialized conversation (and audio path)
// in a single UPDATE, so a concurrent reader sees either the previous or
// the new history, never a partially written one.
func (r *SessionRepository) UpdateConversation(sessionID, history, audioPath string) error {
	updates := map[string]interface{}{
		"chat_history": history,
	}
	if audioPath != "" {
		updates["audio_path"] = audioPath
	}
	result := r.DB.Model(&models.InterviewSession{}).
		Where("session_id = ?", sessionID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveReport stores the serialized report and marks the session finalized.
// Guarded on finalized_at being unset so a concurrent double-finalize cannot
// overwrite an existing report.
func (r *SessionRepository) SaveReport(sessionID, report string, finalizedAt time.Time) error {
	result := r.DB.Model(&models.InterviewSession{}).
		Where("session_id = ? AND finalized_at IS NULL", sessionID).
		Updates(map[string]interface{}{
			"report":       report,
			"finalized_at": finalizedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteStaleUnfinalized removes sessions that were never finalized and have
// not been touched since the cutoff. Returns the number of deleted records.
func (r *SessionRepository) DeleteStaleUnfinalized(olderThan time.Time) (int64, error) {
	result := r.DB.Unscoped().
		Where("finalized_at IS NULL AND updated_at < ?", olderThan).
		Delete(&models.InterviewSession{})
	return result.RowsAffected, result.Error
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// InterviewSession is one interview attempt by one user. The conversation
// log and the final report are stored serialized so a reader always sees a
// complete history, never a partially written one.
type InterviewSession struct {
	gorm.Model
	SessionID   string     `gorm:"uniqueIndex;not null" json:"session_id"`
	UserID      string     `gorm:"index;not null" json:"user_id"`
	AudioPath   string     `json:"audio_path,omitempty"`
	ChatHistory string     `gorm:"type:text;not null" json:"-"`
	Report      string     `gorm:"type:text" json:"-"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

// Finalized reports whether the session has already been turned into a report.
func (s *InterviewSession) Finalized() bool {
	return s.FinalizedAt != nil
}

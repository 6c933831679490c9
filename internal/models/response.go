package models

import "time"

// session creation
type StartInterviewResponse struct {
	SessionID string `json:"session_id"`
}

// one processed turn
type TurnResponse struct {
	SessionID  string `json:"session_id"`
	Transcript string `json:"transcript"`
	Reply      string `json:"reply"`
}

// finalization
type FinalizeResponse struct {
	ReportID string `json:"report_id"`
}

// dashboard listing entry
type SessionSummary struct {
	SessionID   string     `json:"session_id"`
	CreatedAt   time.Time  `json:"created_at"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	Turns       int        `json:"turns"`
}

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error makes ErrorResponse usable as a validation error.
func (e *ErrorResponse) Error() string {
	return e.Code + ": " + e.Message
}

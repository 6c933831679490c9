package models

import "strings"

// TextTurnRequest submits an already-transcribed answer, bypassing audio
// upload. Used by text-only clients and by integration tests.
type TextTurnRequest struct {
	Text string `json:"text"`
}

// implements the Validator interface
func (r *TextTurnRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ErrorResponse{
			Code:    "missing_text",
			Message: "Text field is required",
		}
	}
	return nil
}

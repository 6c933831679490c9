package interview

import "errors"

// Client-facing error taxonomy. Handlers map these onto HTTP status codes;
// everything else surfaced by the service is treated as an internal error.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrUnauthorized        = errors.New("session belongs to a different user")
	ErrAlreadyFinalized    = errors.New("session already finalized")
	ErrReportNotReady      = errors.New("report not generated yet")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrDataIntegrity       = errors.New("corrupt session data")
)

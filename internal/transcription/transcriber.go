package transcription

import "context"

// Transcriber converts one recorded audio clip into text. Implementations
// are stateless per call and must honor context cancellation.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

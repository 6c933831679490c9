package transcription

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const transcriptionInstruction = "Transcribe this interview answer verbatim. " +
	"Return only the spoken words with normal punctuation, no commentary."

// GeminiTranscriber transcribes WAV recordings through the Gemini
// multimodal API.
type GeminiTranscriber struct {
	client *genai.Client
	model  string
}

// GeminiConfig holds transcription-specific settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

func NewGeminiConfig() (*GeminiConfig, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is required")
	}
	model := os.Getenv("TRANSCRIPTION_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiConfig{APIKey: apiKey, Model: model}, nil
}

func NewGeminiTranscriber(config *GeminiConfig) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription client: %w", err)
	}
	return &GeminiTranscriber{client: client, model: config.Model}, nil
}

// Transcribe reads the recording and asks the model for a verbatim
// transcript. An unreadable file or an empty model response is an error;
// the caller decides whether the turn is retried.
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file %s: %w", audioPath, err)
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: "audio/wav", Data: data}},
			{Text: transcriptionInstruction},
		},
	}}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	if result == nil {
		return "", errors.New("transcription returned no response")
	}

	transcript, err := result.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract transcript: %w", err)
	}
	return strings.TrimSpace(transcript), nil
}

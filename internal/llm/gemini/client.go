package gemini

import (
	"context"
	"time"

	"google.golang.org/genai"

	"prepvoice/interview/internal/conversation"
	"prepvoice/interview/internal/llm"
)

// Client represents a Gemini LLM client

type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// GenerateReply sends the full ordered conversation to Gemini and returns
// the next assistant turn. The leading system message becomes the system
// instruction; the remaining history is forwarded unchanged.
func (c *Client) GenerateReply(ctx context.Context, conv conversation.Conversation) (*llm.Reply, error) {
	if err := conv.Validate(); err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Invalid conversation history",
			Err:      err,
		}
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: conv[0].Content}},
		},
	}

	contents := make([]*genai.Content, 0, len(conv)-1)
	for _, msg := range conv[1:] {
		role := "user"
		if msg.Role == conversation.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	startTime := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, contents, config)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeServiceDown,
			Message:  "Failed to generate interview reply",
			Err:      err,
		}
	}

	// Extract the response text
	if result == nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "No response generated",
		}
	}

	reply, err := result.Text()
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if reply == "" {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}

	processingTime := time.Since(startTime).Milliseconds()

	return &llm.Reply{
		Content: reply,
		Metadata: llm.ReplyMetadata{
			Provider:       "gemini",
			Model:          c.config.Model,
			ProcessingTime: int(processingTime),
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return "gemini"
}

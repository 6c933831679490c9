package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// LanguageToolScorer checks grammar through a LanguageTool server's
// /v2/check endpoint.
type LanguageToolScorer struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

// LanguageToolConfig holds grammar checker settings.
type LanguageToolConfig struct {
	BaseURL  string
	Language string
	Timeout  time.Duration
}

func NewLanguageToolConfig() *LanguageToolConfig {
	baseURL := os.Getenv("LANGUAGETOOL_URL")
	if baseURL == "" {
		baseURL = "https://api.languagetool.org"
	}
	language := os.Getenv("LANGUAGETOOL_LANGUAGE")
	if language == "" {
		language = "en-US"
	}
	return &LanguageToolConfig{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Language: language,
		Timeout:  10 * time.Second,
	}
}

func NewLanguageToolScorer(config *LanguageToolConfig) *LanguageToolScorer {
	return &LanguageToolScorer{
		baseURL:    config.BaseURL,
		language:   config.Language,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// wire format of a LanguageTool check response (fields we consume)
type languageToolResponse struct {
	Matches []languageToolMatch `json:"matches"`
}

type languageToolMatch struct {
	Message string `json:"message"`
	Rule    struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	} `json:"rule"`
	Context struct {
		Text   string `json:"text"`
		Offset int    `json:"offset"`
		Length int    `json:"length"`
	} `json:"context"`
}

func (s *LanguageToolScorer) ScoreGrammar(ctx context.Context, text string) (GrammarResult, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", s.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return GrammarResult{}, fmt.Errorf("failed to build grammar check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return GrammarResult{}, fmt.Errorf("grammar check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return GrammarResult{}, fmt.Errorf("grammar check returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed languageToolResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return GrammarResult{}, fmt.Errorf("failed to decode grammar check response: %w", err)
	}

	if len(parsed.Matches) == 0 {
		return GrammarResult{
			Errors:   0,
			Feedback: []string{"No grammar issues detected"},
		}, nil
	}

	feedback := make([]string, 0, len(parsed.Matches))
	for _, match := range parsed.Matches {
		entry := match.Message
		if match.Rule.ID != "" {
			entry = fmt.Sprintf("%s (%s)", match.Message, match.Rule.ID)
		}
		feedback = append(feedback, entry)
	}

	return GrammarResult{
		Errors:   len(parsed.Matches),
		Feedback: feedback,
	}, nil
}

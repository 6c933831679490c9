package analysis

import (
	"context"
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

//go:embed ideal_answers.yaml
var idealAnswersYAML []byte

// Embedder turns texts into embedding vectors for similarity scoring.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingRelevanceScorer rates an answer by cosine similarity between its
// embedding and the embedding of the question's ideal answer. Questions
// without a known ideal answer score 0.0 with explanatory feedback, which is
// a defined outcome rather than a failure.
type EmbeddingRelevanceScorer struct {
	embedder     Embedder
	idealAnswers map[string]string
}

type idealAnswersFile struct {
	Answers map[string]string `yaml:"ideal_answers"`
}

func NewEmbeddingRelevanceScorer(embedder Embedder) (*EmbeddingRelevanceScorer, error) {
	var parsed idealAnswersFile
	if err := yaml.Unmarshal(idealAnswersYAML, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ideal answers: %w", err)
	}
	return &EmbeddingRelevanceScorer{
		embedder:     embedder,
		idealAnswers: parsed.Answers,
	}, nil
}

func (s *EmbeddingRelevanceScorer) ScoreRelevance(ctx context.Context, answer, question string) (RelevanceResult, error) {
	ideal, ok := s.idealAnswers[question]
	if !ok || ideal == "" {
		return RelevanceResult{
			Score:    0.0,
			Feedback: "No ideal answer defined",
		}, nil
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{answer, ideal})
	if err != nil {
		return RelevanceResult{}, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != 2 {
		return RelevanceResult{}, fmt.Errorf("expected 2 embeddings, got %d", len(vectors))
	}

	score := clamp01(cosineSimilarity(vectors[0], vectors[1]))

	feedback := "Include more relevant details"
	if score > 0.7 {
		feedback = "Highly relevant"
	}

	return RelevanceResult{Score: score, Feedback: feedback}, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
)

type stubEmbedder struct {
	vectors [][]float32
	err     error
}

func (s *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func TestScoreRelevanceNoIdealAnswer(t *testing.T) {
	scorer, err := NewEmbeddingRelevanceScorer(&stubEmbedder{err: errors.New("should not be called")})
	if err != nil {
		t.Fatalf("failed to build scorer: %v", err)
	}

	result, err := scorer.ScoreRelevance(context.Background(), "my answer", "What color is the bikeshed?")
	if err != nil {
		t.Fatalf("expected defined outcome, got error: %v", err)
	}
	if result.Score != 0.0 {
		t.Fatalf("expected score 0.0, got %f", result.Score)
	}
	if result.Feedback != "No ideal answer defined" {
		t.Fatalf("unexpected feedback: %q", result.Feedback)
	}
}

func TestScoreRelevanceHighSimilarity(t *testing.T) {
	scorer, err := NewEmbeddingRelevanceScorer(&stubEmbedder{
		vectors: [][]float32{{1, 0, 1}, {1, 0, 1}},
	})
	if err != nil {
		t.Fatalf("failed to build scorer: %v", err)
	}

	result, err := scorer.ScoreRelevance(context.Background(), "background and goals", "Tell me about yourself.")
	if err != nil {
		t.Fatalf("ScoreRelevance failed: %v", err)
	}
	if math.Abs(result.Score-1.0) > 1e-6 {
		t.Fatalf("expected score 1.0 for identical vectors, got %f", result.Score)
	}
	if result.Feedback != "Highly relevant" {
		t.Fatalf("unexpected feedback: %q", result.Feedback)
	}
}

func TestScoreRelevanceLowSimilarity(t *testing.T) {
	scorer, err := NewEmbeddingRelevanceScorer(&stubEmbedder{
		vectors: [][]float32{{1, 0, 0}, {0, 1, 0}},
	})
	if err != nil {
		t.Fatalf("failed to build scorer: %v", err)
	}

	result, err := scorer.ScoreRelevance(context.Background(), "off topic", "Tell me about yourself.")
	if err != nil {
		t.Fatalf("ScoreRelevance failed: %v", err)
	}
	if result.Score != 0.0 {
		t.Fatalf("expected score 0.0 for orthogonal vectors, got %f", result.Score)
	}
	if result.Feedback != "Include more relevant details" {
		t.Fatalf("unexpected feedback: %q", result.Feedback)
	}
}

func TestScoreRelevanceEmbedderFailure(t *testing.T) {
	scorer, err := NewEmbeddingRelevanceScorer(&stubEmbedder{err: errors.New("quota exhausted")})
	if err != nil {
		t.Fatalf("failed to build scorer: %v", err)
	}

	if _, err := scorer.ScoreRelevance(context.Background(), "answer", "Tell me about yourself."); err == nil {
		t.Fatal("expected embedder failure to propagate")
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"length mismatch", []float32{1}, []float32{1, 2}, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-6 {
				t.Fatalf("cosineSimilarity(%v, %v) = %f, want %f", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

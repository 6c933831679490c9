package analysis

import "context"

// The three scorers are independent capabilities with no shared state
// between invocations. Each failure mode is handled by the caller, which
// substitutes a fallback value; scorers do not retry internally.

// ToneScorer derives pitch and intensity metrics from a whole-session
// recording.
type ToneScorer interface {
	ScoreTone(ctx context.Context, audioPath string) (ToneResult, error)
}

// GrammarScorer checks one transcribed answer for grammatical errors.
type GrammarScorer interface {
	ScoreGrammar(ctx context.Context, text string) (GrammarResult, error)
}

// RelevanceScorer rates how well an answer addresses its question.
type RelevanceScorer interface {
	ScoreRelevance(ctx context.Context, answer, question string) (RelevanceResult, error)
}

// ToneResult holds normalized [0,1] audio metrics.
type ToneResult struct {
	Pitch     float64
	Intensity float64
	Feedback  string
}

type GrammarResult struct {
	Errors   int
	Feedback []string
}

// RelevanceResult carries a [0,1] similarity score. A score of 0.0 with
// explanatory feedback is a defined outcome when no reference answer exists
// for the question, not an error.
type RelevanceResult struct {
	Score    float64
	Feedback string
}

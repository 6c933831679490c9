package models

// Report is the aggregated analysis of one finalized interview session.
// It is created once and never mutated afterwards.
type Report struct {
	Tone      ToneAnalysis     `json:"tone"`
	Grammar   GrammarSummary   `json:"grammar"`
	Relevance RelevanceSummary `json:"relevance"`
}

// ToneAnalysis holds whole-session audio metrics, normalized to [0,1].
type ToneAnalysis struct {
	Pitch     float64 `json:"pitch"`
	Intensity float64 `json:"intensity"`
	Feedback  string  `json:"feedback"`
}

// GrammarSummary aggregates grammar checking across all answers.
type GrammarSummary struct {
	TotalErrors     int      `json:"total_errors"`
	FeedbackSamples []string `json:"feedback_samples"`
}

// RelevanceSummary aggregates per-pair relevance scoring. AverageScore is
// the mean over all question/answer pairs, 0.0 when the session had none.
type RelevanceSummary struct {
	AverageScore       float64             `json:"average_score"`
	IndividualFeedback []RelevanceFeedback `json:"individual_feedback"`
}

// RelevanceFeedback is the relevance verdict for one question/answer pair.
type RelevanceFeedback struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

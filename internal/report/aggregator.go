package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"prepvoice/interview/internal/analysis"
	"prepvoice/interview/internal/conversation"
	"prepvoice/interview/internal/models"
)

// at most this many grammar feedback strings end up in the report
const maxFeedbackSamples = 5

// fallback metrics reported when tone analysis cannot run
const (
	fallbackPitch     = 0.5
	fallbackIntensity = 0.5
)

// Pair is one reconstructed question/answer correspondence.
type Pair struct {
	Question string
	Answer   string
}

// BuildPairs scans the conversation in order and pairs each assistant reply
// with the most recent unanswered user message. A trailing user message with
// no reply contributes no pair. This reconstructs the Q->A correspondence
// from message order alone, with no external bookkeeping.
func BuildPairs(conv conversation.Conversation) []Pair {
	var pairs []Pair
	pending := ""
	havePending := false

	for _, msg := range conv {
		switch msg.Role {
		case conversation.RoleUser:
			pending = msg.Content
			havePending = true
		case conversation.RoleAssistant:
			if havePending {
				pairs = append(pairs, Pair{Question: pending, Answer: msg.Content})
				havePending = false
			}
		}
	}
	return pairs
}

// Aggregator merges independent per-answer analyses into one report. Every
// scorer failure degrades only its own contribution; the aggregator itself
// never fails.
type Aggregator struct {
	tone           analysis.ToneScorer
	grammar        analysis.GrammarScorer
	relevance      analysis.RelevanceScorer
	adapterTimeout time.Duration
	logger         *zap.Logger
}

func NewAggregator(
	tone analysis.ToneScorer,
	grammar analysis.GrammarScorer,
	relevance analysis.RelevanceScorer,
	adapterTimeout time.Duration,
	logger *zap.Logger,
) *Aggregator {
	return &Aggregator{
		tone:           tone,
		grammar:        grammar,
		relevance:      relevance,
		adapterTimeout: adapterTimeout,
		logger:         logger,
	}
}

// Finalize replays the conversation and produces the session report.
// Given the same conversation, recording, and scorer outputs the result is
// identical; any nondeterminism lives inside the scorers.
func (a *Aggregator) Finalize(ctx context.Context, conv conversation.Conversation, audioPath string) models.Report {
	pairs := BuildPairs(conv)

	report := models.Report{
		Tone: a.scoreTone(ctx, audioPath),
		Grammar: models.GrammarSummary{
			FeedbackSamples: []string{},
		},
		Relevance: models.RelevanceSummary{
			IndividualFeedback: []models.RelevanceFeedback{},
		},
	}

	var grammarFeedback []string
	totalRelevance := 0.0

	for i, pair := range pairs {
		grammarResult, err := a.callGrammar(ctx, pair.Answer)
		if err != nil {
			a.logger.Warn("grammar analysis failed",
				zap.Int("pair", i),
				zap.Error(err))
			grammarFeedback = append(grammarFeedback, fmt.Sprintf("Grammar analysis failed: %v", err))
		} else {
			report.Grammar.TotalErrors += grammarResult.Errors
			grammarFeedback = append(grammarFeedback, grammarResult.Feedback...)
		}

		relevanceResult, err := a.callRelevance(ctx, pair.Answer, pair.Question)
		if err != nil {
			a.logger.Warn("relevance analysis failed",
				zap.Int("pair", i),
				zap.Error(err))
			relevanceResult = analysis.RelevanceResult{
				Score:    0.0,
				Feedback: fmt.Sprintf("Relevance analysis failed: %v", err),
			}
		}
		totalRelevance += relevanceResult.Score
		report.Relevance.IndividualFeedback = append(report.Relevance.IndividualFeedback, models.RelevanceFeedback{
			Question: pair.Question,
			Score:    relevanceResult.Score,
			Feedback: relevanceResult.Feedback,
		})
	}

	if len(grammarFeedback) > maxFeedbackSamples {
		grammarFeedback = grammarFeedback[:maxFeedbackSamples]
	}
	if len(grammarFeedback) > 0 {
		report.Grammar.FeedbackSamples = grammarFeedback
	}

	if len(pairs) > 0 {
		report.Relevance.AverageScore = totalRelevance / float64(len(pairs))
	}

	return report
}

func (a *Aggregator) scoreTone(ctx context.Context, audioPath string) models.ToneAnalysis {
	if audioPath == "" {
		return models.ToneAnalysis{
			Pitch:     fallbackPitch,
			Intensity: fallbackIntensity,
			Feedback:  "No audio recording available",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.adapterTimeout)
	defer cancel()

	result, err := a.tone.ScoreTone(ctx, audioPath)
	if err != nil {
		a.logger.Warn("tone analysis failed",
			zap.String("audio_path", audioPath),
			zap.Error(err))
		return models.ToneAnalysis{
			Pitch:     fallbackPitch,
			Intensity: fallbackIntensity,
			Feedback:  fmt.Sprintf("Tone analysis failed: %v", err),
		}
	}

	return models.ToneAnalysis{
		Pitch:     result.Pitch,
		Intensity: result.Intensity,
		Feedback:  result.Feedback,
	}
}

func (a *Aggregator) callGrammar(ctx context.Context, answer string) (analysis.GrammarResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.adapterTimeout)
	defer cancel()
	return a.grammar.ScoreGrammar(ctx, answer)
}

func (a *Aggregator) callRelevance(ctx context.Context, answer, question string) (analysis.RelevanceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.adapterTimeout)
	defer cancel()
	return a.relevance.ScoreRelevance(ctx, answer, question)
}

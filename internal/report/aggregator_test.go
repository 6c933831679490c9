package report

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"prepvoice/interview/internal/analysis"
	"prepvoice/interview/internal/conversation"
)

type stubTone struct {
	result analysis.ToneResult
	err    error
}

func (s *stubTone) ScoreTone(ctx context.Context, audioPath string) (analysis.ToneResult, error) {
	return s.result, s.err
}

type stubGrammar struct {
	results map[string]analysis.GrammarResult
	errs    map[string]error
}

func (s *stubGrammar) ScoreGrammar(ctx context.Context, text string) (analysis.GrammarResult, error) {
	if err, ok := s.errs[text]; ok {
		return analysis.GrammarResult{}, err
	}
	if r, ok := s.results[text]; ok {
		return r, nil
	}
	return analysis.GrammarResult{Errors: 0, Feedback: []string{"No grammar issues detected"}}, nil
}

type stubRelevance struct {
	scores map[string]float64
	errs   map[string]error
}

func (s *stubRelevance) ScoreRelevance(ctx context.Context, answer, question string) (analysis.RelevanceResult, error) {
	if err, ok := s.errs[answer]; ok {
		return analysis.RelevanceResult{}, err
	}
	score := s.scores[answer]
	return analysis.RelevanceResult{Score: score, Feedback: "scored"}, nil
}

func newTestAggregator(tone analysis.ToneScorer, grammar analysis.GrammarScorer, relevance analysis.RelevanceScorer) *Aggregator {
	if tone == nil {
		tone = &stubTone{result: analysis.ToneResult{Pitch: 0.3, Intensity: 0.4, Feedback: "Good tone"}}
	}
	if grammar == nil {
		grammar = &stubGrammar{}
	}
	if relevance == nil {
		relevance = &stubRelevance{}
	}
	return NewAggregator(tone, grammar, relevance, time.Second, zap.NewNop())
}

func conv(msgs ...conversation.Message) conversation.Conversation {
	c := conversation.New("You are an interview coach.")
	for _, m := range msgs {
		c = c.Append(m)
	}
	return c
}

func user(content string) conversation.Message {
	return conversation.Message{Role: conversation.RoleUser, Content: content}
}

func assistant(content string) conversation.Message {
	return conversation.Message{Role: conversation.RoleAssistant, Content: content}
}

func TestBuildPairsOrdering(t *testing.T) {
	pairs := BuildPairs(conv(user("Q1"), assistant("A1"), user("Q2"), assistant("A2")))

	want := []Pair{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}}
	if !reflect.DeepEqual(pairs, want) {
		t.Fatalf("unexpected pairs: %+v", pairs)
	}
}

func TestBuildPairsDanglingQuestion(t *testing.T) {
	pairs := BuildPairs(conv(user("Q1"), assistant("A1"), user("Q2")))

	if len(pairs) != 1 {
		t.Fatalf("dangling user message must not form a pair, got %d pairs", len(pairs))
	}
	if pairs[0].Question != "Q1" {
		t.Fatalf("unexpected pair: %+v", pairs[0])
	}
}

func TestBuildPairsAssistantWithoutPending(t *testing.T) {
	// An assistant message with no unanswered user message (the opening
	// question) pairs with nothing.
	pairs := BuildPairs(conv(assistant("Welcome, tell me about yourself."), user("Q1"), assistant("A1")))
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
}

func TestFinalizeEmptyConversation(t *testing.T) {
	agg := newTestAggregator(nil, nil, nil)
	report := agg.Finalize(context.Background(), conv(), "")

	if report.Relevance.AverageScore != 0.0 {
		t.Fatalf("expected average 0.0, got %f", report.Relevance.AverageScore)
	}
	if len(report.Relevance.IndividualFeedback) != 0 {
		t.Fatalf("expected no per-pair feedback, got %d entries", len(report.Relevance.IndividualFeedback))
	}
	if report.Tone.Pitch != fallbackPitch || report.Tone.Intensity != fallbackIntensity {
		t.Fatalf("expected tone fallback, got %+v", report.Tone)
	}
}

func TestFinalizeAveragesRelevance(t *testing.T) {
	relevance := &stubRelevance{scores: map[string]float64{"A1": 0.8, "A2": 0.4}}
	agg := newTestAggregator(nil, nil, relevance)

	report := agg.Finalize(context.Background(),
		conv(user("Q1"), assistant("A1"), user("Q2"), assistant("A2")), "")

	if report.Relevance.AverageScore != 0.6 {
		t.Fatalf("expected average 0.6, got %f", report.Relevance.AverageScore)
	}
	if len(report.Relevance.IndividualFeedback) != 2 {
		t.Fatalf("expected 2 feedback entries, got %d", len(report.Relevance.IndividualFeedback))
	}
	if report.Relevance.IndividualFeedback[0].Question != "Q1" {
		t.Fatalf("per-pair feedback out of order: %+v", report.Relevance.IndividualFeedback)
	}
}

func TestFinalizeGrammarFallbackIsolated(t *testing.T) {
	grammar := &stubGrammar{
		results: map[string]analysis.GrammarResult{
			"A1": {Errors: 2, Feedback: []string{"missing comma", "tense mismatch"}},
		},
		errs: map[string]error{"A2": errors.New("checker unreachable")},
	}
	relevance := &stubRelevance{scores: map[string]float64{"A1": 1.0, "A2": 0.5}}
	agg := newTestAggregator(nil, grammar, relevance)

	report := agg.Finalize(context.Background(),
		conv(user("Q1"), assistant("A1"), user("Q2"), assistant("A2")), "")

	if report.Grammar.TotalErrors != 2 {
		t.Fatalf("expected failed pair to contribute 0 errors, total %d", report.Grammar.TotalErrors)
	}

	foundDiagnostic := false
	for _, sample := range report.Grammar.FeedbackSamples {
		if sample == "Grammar analysis failed: checker unreachable" {
			foundDiagnostic = true
		}
	}
	if !foundDiagnostic {
		t.Fatalf("expected diagnostic feedback, got %v", report.Grammar.FeedbackSamples)
	}

	// Relevance for both pairs is unaffected by the grammar failure.
	if report.Relevance.AverageScore != 0.75 {
		t.Fatalf("expected relevance average 0.75, got %f", report.Relevance.AverageScore)
	}
}

func TestFinalizeRelevanceFallbackIsolated(t *testing.T) {
	relevance := &stubRelevance{
		scores: map[string]float64{"A1": 0.9},
		errs:   map[string]error{"A2": errors.New("embedding quota")},
	}
	agg := newTestAggregator(nil, nil, relevance)

	report := agg.Finalize(context.Background(),
		conv(user("Q1"), assistant("A1"), user("Q2"), assistant("A2")), "")

	if report.Relevance.AverageScore != 0.45 {
		t.Fatalf("failed pair must count as 0.0: got average %f", report.Relevance.AverageScore)
	}
	second := report.Relevance.IndividualFeedback[1]
	if second.Score != 0.0 || second.Feedback != "Relevance analysis failed: embedding quota" {
		t.Fatalf("unexpected fallback entry: %+v", second)
	}
}

func TestFinalizeTruncatesGrammarSamples(t *testing.T) {
	grammar := &stubGrammar{results: map[string]analysis.GrammarResult{}}
	var msgs []conversation.Message
	for i := 0; i < 4; i++ {
		answer := fmt.Sprintf("A%d", i)
		grammar.results[answer] = analysis.GrammarResult{
			Errors:   1,
			Feedback: []string{fmt.Sprintf("issue %d-a", i), fmt.Sprintf("issue %d-b", i)},
		}
		msgs = append(msgs, user(fmt.Sprintf("Q%d", i)), assistant(answer))
	}
	agg := newTestAggregator(nil, grammar, nil)

	report := agg.Finalize(context.Background(), conv(msgs...), "")

	if len(report.Grammar.FeedbackSamples) != maxFeedbackSamples {
		t.Fatalf("expected %d samples, got %d", maxFeedbackSamples, len(report.Grammar.FeedbackSamples))
	}
	if report.Grammar.FeedbackSamples[0] != "issue 0-a" {
		t.Fatalf("samples must keep scan order, got %v", report.Grammar.FeedbackSamples)
	}
	if report.Grammar.TotalErrors != 4 {
		t.Fatalf("error totals are not truncated: got %d", report.Grammar.TotalErrors)
	}
}

func TestFinalizeToneFailureFallback(t *testing.T) {
	tone := &stubTone{err: errors.New("unreadable wav")}
	agg := newTestAggregator(tone, nil, nil)

	report := agg.Finalize(context.Background(), conv(user("Q1"), assistant("A1")), "/tmp/missing.wav")

	if report.Tone.Pitch != fallbackPitch || report.Tone.Intensity != fallbackIntensity {
		t.Fatalf("expected fallback tone, got %+v", report.Tone)
	}
	if report.Tone.Feedback != "Tone analysis failed: unreadable wav" {
		t.Fatalf("unexpected tone feedback: %q", report.Tone.Feedback)
	}
	// Other analyses proceed regardless.
	if len(report.Relevance.IndividualFeedback) != 1 {
		t.Fatalf("tone failure must not abort pair analysis")
	}
}

func TestFinalizeDeterministic(t *testing.T) {
	relevance := &stubRelevance{scores: map[string]float64{"A1": 0.8, "A2": 0.4}}
	agg := newTestAggregator(nil, nil, relevance)
	c := conv(user("Q1"), assistant("A1"), user("Q2"), assistant("A2"))

	first := agg.Finalize(context.Background(), c, "")
	second := agg.Finalize(context.Background(), c, "")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reports differ for identical inputs:\n%+v\n%+v", first, second)
	}
}

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/stage"
)

// routedCompleter answers each stage by inspecting the system prompt, and
// counts calls per stage so tests can assert which stages ran.
type routedCompleter struct {
	category string
	summary  string
	draft    string

	classifyErr error
	draftErr    error

	classifyCalls  int
	summarizeCalls int
	draftCalls     int
}

func (f *routedCompleter) Complete(
	_ context.Context, system, _ string,
) (string, error) {
	switch {
	case strings.Contains(system, "classifier"):
		f.classifyCalls++
		return f.category, f.classifyErr
	case strings.Contains(system, "summarizing"):
		f.summarizeCalls++
		return f.summary, nil
	default:
		f.draftCalls++
		return f.draft, f.draftErr
	}
}

// scriptedReviewer returns a fixed decision and remembers being called.
type scriptedReviewer struct {
	decision stage.ReviewDecision
	err      error
	calls    int
}

func (r *scriptedReviewer) Review(
	_ context.Context, _ *model.Record,
) (stage.ReviewDecision, error) {
	r.calls++
	return r.decision, r.err
}

func newPipeline(llm stage.Completer, reviewer stage.Reviewer) *Pipeline {
	log := zap.NewNop()
	return New(
		stage.NewClassifier(llm, log),
		stage.NewSummarizer(llm, log),
		stage.NewDrafter(llm, log),
		reviewer,
		log,
	)
}

func newRecord(subject, body string) *model.Record {
	return model.NewRecord("test-1", subject, "sender@example.com", body, body)
}

func TestSpamEndsRunWithoutFurtherStages(t *testing.T) {
	llm := &routedCompleter{category: "spam"}
	reviewer := &scriptedReviewer{}
	rec := newRecord("Free money now!!", "Click here to claim your prize")

	newPipeline(llm, reviewer).Process(context.Background(), rec)

	assert.Equal(t, model.CategorySpam, rec.Category)
	assert.Equal(t, model.StatusProcessed, rec.Status)
	assert.Zero(t, llm.summarizeCalls)
	assert.Zero(t, llm.draftCalls)
	assert.Zero(t, reviewer.calls)
	assert.Nil(t, rec.FinalResponse)
}

func TestInformationalProducesNoDraft(t *testing.T) {
	llm := &routedCompleter{
		category: "informational",
		summary:  "A routine notification.",
	}
	reviewer := &scriptedReviewer{}
	rec := newRecord("Weekly newsletter", "Here is what happened this week")

	newPipeline(llm, reviewer).Process(context.Background(), rec)

	assert.Equal(t, model.StatusProcessed, rec.Status)
	assert.Equal(t, 1, llm.summarizeCalls)
	assert.Zero(t, llm.draftCalls)
	assert.Empty(t, rec.Draft)
	assert.Nil(t, rec.FinalResponse)
}

func TestUrgentWithoutKeywordsAutoApproves(t *testing.T) {
	llm := &routedCompleter{
		category: "urgent",
		summary:  "Customer wants a quick answer.",
		draft:    "Happy to help right away.",
	}
	reviewer := &scriptedReviewer{}
	rec := newRecord("Quick question", "Can you call me back today?")

	newPipeline(llm, reviewer).Process(context.Background(), rec)

	assert.Equal(t, model.StatusApprovedForSending, rec.Status)
	require.NotNil(t, rec.FinalResponse)
	assert.Equal(t, "Happy to help right away.", *rec.FinalResponse)
	assert.Zero(t, reviewer.calls)
}

func TestKeywordRoutesThroughReviewApprove(t *testing.T) {
	llm := &routedCompleter{
		category: "urgent",
		summary:  "Customer asks about an invoice.",
		draft:    "Your invoice is attached.",
	}
	reviewer := &scriptedReviewer{
		decision: stage.ReviewDecision{Action: stage.ReviewApprove},
	}
	rec := newRecord("Please confirm invoice #4", "Where is invoice #4?")

	newPipeline(llm, reviewer).Process(context.Background(), rec)

	assert.True(t, rec.RequiresReview)
	assert.Equal(t, 1, reviewer.calls)
	assert.Equal(t, model.StatusApprovedForSending, rec.Status)
	require.NotNil(t, rec.FinalResponse)
	assert.Equal(t, rec.Draft, *rec.FinalResponse)
}

func TestReviewEditReplacesDraft(t *testing.T) {
	llm := &routedCompleter{
		category: "needs_review",
		summary:  "Complex query.",
		draft:    "Original draft.",
	}
	reviewer := &scriptedReviewer{
		decision: stage.ReviewDecision{
			Action:      stage.ReviewEdit,
			Replacement: "Edited reply text.",
		},
	}
	rec := newRecord("Complex request", "Lots of detail here")

	newPipeline(llm, reviewer).Process(context.Background(), rec)

	assert.Equal(t, model.StatusApprovedForSending, rec.Status)
	require.NotNil(t, rec.FinalResponse)
	assert.Equal(t, "Edited reply text.", *rec.FinalResponse)
}

func TestReviewRejectDiscardsDraft(t *testing.T) {
	llm := &routedCompleter{
		category: "needs_review",
		summary:  "Complex query.",
		draft:    "Original draft.",
	}
	reviewer := &scriptedReviewer{
		decision: stage.ReviewDecision{Action: stage.ReviewReject},
	}
	rec := newRecord("Complex request", "Lots of detail here")

	newPipeline(llm, reviewer).Process(context.Background(), rec)

	assert.Equal(t, model.StatusRejected, rec.Status)
	assert.Nil(t, rec.FinalResponse)
}

func TestReviewerFailureCountsAsRejection(t *testing.T) {
	llm := &routedCompleter{
		category: "needs_review",
		summary:  "Complex query.",
		draft:    "Original draft.",
	}
	reviewer := &scriptedReviewer{err: errors.New("terminal closed")}
	rec := newRecord("Complex request", "Lots of detail here")

	newPipeline(llm, reviewer).Process(context.Background(), rec)

	assert.Equal(t, model.StatusRejected, rec.Status)
	assert.Nil(t, rec.FinalResponse)
}

func TestClassifierFailureRoutesToReview(t *testing.T) {
	llm := &routedCompleter{
		classifyErr: errors.New("timeout"),
		summary:     "Summary anyway.",
		draft:       "Draft anyway.",
	}
	reviewer := &scriptedReviewer{
		decision: stage.ReviewDecision{Action: stage.ReviewReject},
	}
	rec := newRecord("Anything", "Anything at all")

	newPipeline(llm, reviewer).Process(context.Background(), rec)

	// Fail-open classification still reaches the human gate.
	assert.Equal(t, model.CategoryNeedsReview, rec.Category)
	assert.Equal(t, 1, reviewer.calls)
	assert.Equal(t, model.StatusRejected, rec.Status)
}

func TestDrafterFailureForcesHumanGate(t *testing.T) {
	llm := &routedCompleter{
		category: "urgent",
		summary:  "Customer wants help.",
		draftErr: errors.New("model unavailable"),
	}
	reviewer := &scriptedReviewer{
		decision: stage.ReviewDecision{Action: stage.ReviewReject},
	}
	rec := newRecord("Quick question", "Can you help?")

	newPipeline(llm, reviewer).Process(context.Background(), rec)

	// A failed draft is never auto-approved.
	assert.Equal(t, 1, reviewer.calls)
	assert.Equal(t, model.StatusRejected, rec.Status)
}

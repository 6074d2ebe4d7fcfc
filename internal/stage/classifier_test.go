package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
)

// fakeCompleter is a deterministic stand-in for the language-model client.
type fakeCompleter struct {
	reply string
	err   error

	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(
	_ context.Context, system, user string,
) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	return f.reply, f.err
}

func newTestRecord() *model.Record {
	return model.NewRecord(
		"test-123",
		"Question about your services",
		"test@example.com",
		"Hello, I'm interested in your services. Can you tell me more?",
		"Hello, I'm interested in your services. Can you tell me more?",
	)
}

func TestClassifierSetsCategory(t *testing.T) {
	tests := []struct {
		reply string
		want  model.Category
	}{
		{"spam", model.CategorySpam},
		{"urgent", model.CategoryUrgent},
		{"informational", model.CategoryInformational},
		{"needs_review", model.CategoryNeedsReview},
		// Sloppy model output is tolerated.
		{"  Urgent.\n", model.CategoryUrgent},
		{`"spam"`, model.CategorySpam},
	}

	for _, tt := range tests {
		llm := &fakeCompleter{reply: tt.reply}
		rec := newTestRecord()

		NewClassifier(llm, zap.NewNop()).Run(context.Background(), rec)

		assert.Equal(t, tt.want, rec.Category, "reply %q", tt.reply)
	}
}

func TestClassifierFailsOpenOnError(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("timeout")}
	rec := newTestRecord()

	NewClassifier(llm, zap.NewNop()).Run(context.Background(), rec)

	// Never left unclassified, never defaulted to spam.
	assert.Equal(t, model.CategoryNeedsReview, rec.Category)
}

func TestClassifierFailsOpenOnUnknownLabel(t *testing.T) {
	llm := &fakeCompleter{reply: "promotional"}
	rec := newTestRecord()

	NewClassifier(llm, zap.NewNop()).Run(context.Background(), rec)

	assert.Equal(t, model.CategoryNeedsReview, rec.Category)
}

func TestClassifierPromptIncludesEmail(t *testing.T) {
	llm := &fakeCompleter{reply: "informational"}
	rec := newTestRecord()

	NewClassifier(llm, zap.NewNop()).Run(context.Background(), rec)

	assert.Contains(t, llm.lastUser, rec.Sender)
	assert.Contains(t, llm.lastUser, rec.Subject)
	assert.Contains(t, llm.lastUser, rec.NormalizedBody)
	assert.Contains(t, llm.lastSystem, "needs_review")
}

package stage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
)

const classifierSystemPrompt = "You are an expert email classifier. " +
	"Your task is to analyze an email and classify it into one of the " +
	"following categories: 'spam', 'urgent', 'informational', 'needs_review'. " +
	"An email is 'urgent' if it requires an immediate response. " +
	"It is 'informational' if it's a notification or update not requiring " +
	"a reply. It 'needs_review' if it's a complex query that a human should " +
	"handle. It is 'spam' if it is an unsolicited commercial email. " +
	"Respond with the category name only, nothing else."

// Classifier assigns a category to a record via the language model.
// Any failure fails open to needs_review: an ambiguous or failed
// classification routes to a human, never silently to spam or
// informational.
type Classifier struct {
	llm Completer
	log *zap.Logger
}

// NewClassifier creates a classifier stage.
func NewClassifier(llm Completer, log *zap.Logger) *Classifier {
	return &Classifier{llm: llm, log: log}
}

// Run classifies the record and sets its category exactly once.
func (c *Classifier) Run(ctx context.Context, rec *model.Record) {
	prompt := fmt.Sprintf(
		"Please classify the following email:\nSender: %s\nSubject: %s\nBody:\n%s",
		rec.Sender, rec.Subject, rec.NormalizedBody,
	)

	raw, err := c.llm.Complete(ctx, classifierSystemPrompt, prompt)
	if err != nil {
		c.log.Error("classification failed, routing to review",
			zap.String("email_id", rec.ID),
			zap.Error(err),
		)
		rec.Category = model.CategoryNeedsReview
		return
	}

	category, ok := model.ParseCategory(normalizeLabel(raw))
	if !ok {
		c.log.Warn("unrecognized category label, routing to review",
			zap.String("email_id", rec.ID),
			zap.String("label", raw),
		)
		rec.Category = model.CategoryNeedsReview
		return
	}

	c.log.Info("email classified",
		zap.String("email_id", rec.ID),
		zap.String("category", string(category)),
	)
	rec.Category = category
}

// normalizeLabel reduces a model reply to a bare category label, tolerating
// surrounding whitespace, quotes, and a trailing period.
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, "\"'`.")
	return s
}

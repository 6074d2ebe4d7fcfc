package stage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
)

const drafterSystemPrompt = "You are a professional and helpful email " +
	"assistant. Your task is to draft a response to the following email. " +
	"The response should be polite, professional, and address the main " +
	"points of the email. Provide ONLY the email body as a response, " +
	"nothing else."

// FallbackDraft is substituted when draft generation fails. A failed draft
// is always forced into human review, never silently auto-approved.
const FallbackDraft = "Error during response generation."

// reviewKeywords flag a draft for human review when any of them appears in
// the subject or normalized body (case-insensitive substring match).
var reviewKeywords = []string{
	"confirm", "password", "invoice", "urgent", "complaint", "issue",
}

// Drafter produces a candidate reply and decides whether it needs a human
// reviewer before sending.
type Drafter struct {
	llm Completer
	log *zap.Logger
}

// NewDrafter creates a drafter stage.
func NewDrafter(llm Completer, log *zap.Logger) *Drafter {
	return &Drafter{llm: llm, log: log}
}

// Run drafts a reply for records that warrant one. Categories outside
// {urgent, needs_review} get no draft and no model call; the record is
// marked processed and Run reports false so the orchestrator ends the run.
func (d *Drafter) Run(ctx context.Context, rec *model.Record) bool {
	if rec.Category != model.CategoryUrgent &&
		rec.Category != model.CategoryNeedsReview {
		d.log.Info("skipping response generation",
			zap.String("email_id", rec.ID),
			zap.String("category", string(rec.Category)),
		)
		rec.Status = model.StatusProcessed
		return false
	}

	prompt := fmt.Sprintf(
		"Here is the email to respond to:\nSender: %s\nSubject: %s\nBody:\n%s\n\n"+
			"A summary of the email is: %s\n\nPlease draft a response.",
		rec.Sender, rec.Subject, rec.NormalizedBody, rec.Summary,
	)

	draft, err := d.llm.Complete(ctx, drafterSystemPrompt, prompt)
	if err != nil {
		d.log.Error("draft generation failed, forcing review",
			zap.String("email_id", rec.ID),
			zap.Error(err),
		)
		rec.Draft = FallbackDraft
		rec.RequiresReview = true
		return true
	}

	rec.Draft = draft
	rec.RequiresReview = needsReview(rec)

	d.log.Info("draft generated",
		zap.String("email_id", rec.ID),
		zap.Bool("requires_review", rec.RequiresReview),
	)
	return true
}

// needsReview applies the review heuristics: a keyword hit in the subject or
// body, or the needs_review category, which forces review unconditionally.
func needsReview(rec *model.Record) bool {
	if rec.Category == model.CategoryNeedsReview {
		return true
	}

	subject := strings.ToLower(rec.Subject)
	body := strings.ToLower(rec.NormalizedBody)
	for _, kw := range reviewKeywords {
		if strings.Contains(subject, kw) || strings.Contains(body, kw) {
			return true
		}
	}
	return false
}

package stage

import (
	"context"

	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
)

const summarizerSystemPrompt = "You are an expert at summarizing emails. " +
	"Generate a concise, 2-3 sentence summary of the following email content."

// FallbackSummary is substituted when summarization fails. Summarization
// failure never aborts the pipeline.
const FallbackSummary = "Error during summarization."

// Summarizer produces a short summary of a record's body.
type Summarizer struct {
	llm Completer
	log *zap.Logger
}

// NewSummarizer creates a summarizer stage.
func NewSummarizer(llm Completer, log *zap.Logger) *Summarizer {
	return &Summarizer{llm: llm, log: log}
}

// Run summarizes the record body. Spam records are skipped without a model
// call; the orchestrator already ends the run for spam, so this check is a
// defensive guard against being invoked out of order.
func (s *Summarizer) Run(ctx context.Context, rec *model.Record) {
	if rec.Category == model.CategorySpam {
		s.log.Info("skipping summarization for spam",
			zap.String("email_id", rec.ID),
		)
		return
	}

	summary, err := s.llm.Complete(
		ctx, summarizerSystemPrompt, "Email Body:\n"+rec.NormalizedBody,
	)
	if err != nil {
		s.log.Error("summarization failed",
			zap.String("email_id", rec.ID),
			zap.Error(err),
		)
		rec.Summary = FallbackSummary
		return
	}

	s.log.Info("email summarized", zap.String("email_id", rec.ID))
	rec.Summary = summary
}

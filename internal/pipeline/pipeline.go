// Package pipeline implements the stage orchestrator: a sequential state
// machine that drives a single record through classify, summarize, draft,
// and review, branching on classification and risk heuristics, with a
// human gate before anything becomes sendable.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/stage"
)

// state identifies a node in the orchestration graph.
type state int

const (
	stateClassifying state = iota
	stateSummarizing
	stateDrafting
	stateAwaitingHumanReview
	stateEnding
)

// Pipeline sequences the four stages for one record at a time. It owns the
// record exclusively for the duration of a run; there is no concurrency
// across records and no retry between stages.
type Pipeline struct {
	classifier *stage.Classifier
	summarizer *stage.Summarizer
	drafter    *stage.Drafter
	reviewer   stage.Reviewer
	log        *zap.Logger
}

// New creates a pipeline from its four stages.
func New(
	classifier *stage.Classifier,
	summarizer *stage.Summarizer,
	drafter *stage.Drafter,
	reviewer stage.Reviewer,
	log *zap.Logger,
) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		summarizer: summarizer,
		drafter:    drafter,
		reviewer:   reviewer,
		log:        log,
	}
}

// Process drives the record to a terminal status. The graph is linear with
// two binary branch points and one blocking human gate:
//
//	Classifying -> {Ending | Summarizing}
//	Summarizing -> Drafting
//	Drafting    -> {AwaitingHumanReview | Ending}
//	AwaitingHumanReview -> Ending
func (p *Pipeline) Process(ctx context.Context, rec *model.Record) {
	current := stateClassifying

	for current != stateEnding {
		switch current {
		case stateClassifying:
			p.classifier.Run(ctx, rec)
			if rec.Category == model.CategorySpam {
				// Spam ends the run: no summary, no draft, no send.
				p.log.Info("spam detected, ending run",
					zap.String("email_id", rec.ID),
				)
				rec.Status = model.StatusProcessed
				current = stateEnding
			} else {
				current = stateSummarizing
			}

		case stateSummarizing:
			p.summarizer.Run(ctx, rec)
			current = stateDrafting

		case stateDrafting:
			if !p.drafter.Run(ctx, rec) {
				// Drafter skipped: the record is already marked processed.
				current = stateEnding
				break
			}
			if rec.RequiresReview {
				current = stateAwaitingHumanReview
			} else {
				rec.Approve(rec.Draft)
				p.log.Info("draft auto-approved",
					zap.String("email_id", rec.ID),
				)
				current = stateEnding
			}

		case stateAwaitingHumanReview:
			p.runReview(ctx, rec)
			current = stateEnding
		}
	}

	p.log.Info("pipeline run finished",
		zap.String("email_id", rec.ID),
		zap.String("category", string(rec.Category)),
		zap.String("status", string(rec.Status)),
	)
}

// runReview blocks on the human gate and applies the decision. A reviewer
// failure counts as a rejection: an unreviewed draft is never sent.
func (p *Pipeline) runReview(ctx context.Context, rec *model.Record) {
	decision, err := p.reviewer.Review(ctx, rec)
	if err != nil {
		p.log.Error("review failed, rejecting draft",
			zap.String("email_id", rec.ID),
			zap.Error(err),
		)
		rec.Reject()
		return
	}

	switch decision.Action {
	case stage.ReviewApprove:
		rec.Approve(rec.Draft)
		p.log.Info("draft approved by reviewer",
			zap.String("email_id", rec.ID),
		)
	case stage.ReviewEdit:
		rec.Approve(decision.Replacement)
		p.log.Info("draft edited by reviewer",
			zap.String("email_id", rec.ID),
		)
	case stage.ReviewReject:
		rec.Reject()
		p.log.Warn("draft rejected by reviewer",
			zap.String("email_id", rec.ID),
		)
	}
}

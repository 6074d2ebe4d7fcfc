package stage

import (
	"context"

	"github.com/nhle/mail-assistant/internal/model"
)

// ReviewAction is the outcome of a human review.
type ReviewAction int

const (
	// ReviewApprove clears the draft for sending as-is.
	ReviewApprove ReviewAction = iota
	// ReviewEdit replaces the draft wholesale with the reviewer's text.
	ReviewEdit
	// ReviewReject discards the draft; nothing is sent.
	ReviewReject
)

// ReviewDecision is the tagged outcome returned by a Reviewer. Replacement
// is only meaningful for ReviewEdit.
type ReviewDecision struct {
	Action      ReviewAction
	Replacement string
}

// Reviewer is the human-in-the-loop gate. Review blocks until a decision is
// available. The shipped implementation is an interactive console prompt
// (internal/cli); the interface allows an API-driven approval flow to be
// swapped in without touching the orchestrator.
type Reviewer interface {
	Review(ctx context.Context, rec *model.Record) (ReviewDecision, error)
}

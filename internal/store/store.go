// Package store persists the terminal dispositions of processed emails.
// Only terminal outcomes are recorded; no in-flight pipeline state is ever
// persisted.
package store

import (
	"context"
	"time"

	"github.com/nhle/mail-assistant/internal/model"
)

// Disposition describes the post-pipeline action taken for a record.
const (
	DispositionSent    = "sent"
	DispositionDrafted = "drafted"
	DispositionNone    = "none"
)

// Outcome is one row of processing history: the terminal state of a single
// email within a run.
type Outcome struct {
	// ID is a generated unique identifier for the row.
	ID string `db:"id"`

	// RunID groups all outcomes produced by one invocation of the program.
	RunID string `db:"run_id"`

	// EmailID is the record's ingestion identifier.
	EmailID string `db:"email_id"`

	Sender  string `db:"sender"`
	Subject string `db:"subject"`

	Category model.Category `db:"category"`
	Status   model.Status   `db:"status"`

	// Disposition records the post-pipeline action: sent, drafted, or none.
	Disposition string `db:"disposition"`

	ProcessedAt time.Time `db:"processed_at"`
}

// Store defines the persistence interface for processing history.
type Store interface {
	AppendOutcome(ctx context.Context, o Outcome) error
	GetRunOutcomes(ctx context.Context, runID string) ([]Outcome, error)
	Close() error
}

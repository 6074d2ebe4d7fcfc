// Package source defines the mail-source contract: anything that can
// produce a batch of pipeline records at ingestion time.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/mail-assistant/internal/model"
)

// AuthError indicates that authentication failed for a source. It is
// returned by source clients when the server refuses the configured
// credentials.
type AuthError struct {
	SourceType SourceType
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.SourceType, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// SourceType identifies the kind of mail source.
type SourceType string

const (
	SourceTypeIMAP SourceType = "imap"
	SourceTypeFile SourceType = "file"
)

// Source produces records with their ingestion-time fields populated
// (id, subject, sender, raw body, normalized body). Fetch returns an empty
// slice when there is nothing to process; a single message that fails to
// decode is skipped, not fatal.
type Source interface {
	// Type returns the source type identifier.
	Type() SourceType

	// Fetch retrieves the batch of records to process.
	Fetch(ctx context.Context) ([]*model.Record, error)
}

// Package filesource implements the local-file record source: a flat JSON
// array of email objects, used for offline runs and testing.
package filesource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/source"
	"github.com/nhle/mail-assistant/internal/textutil"
)

// fileEmail is the on-disk shape of one email entry. Missing fields decode
// to empty strings.
type fileEmail struct {
	EmailID string `json:"email_id"`
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Body    string `json:"body"`
}

// Source implements source.Source over a local JSON file.
type Source struct {
	path string
	log  *zap.Logger
}

// New creates a file source reading from the given path.
func New(path string, log *zap.Logger) *Source {
	return &Source{path: path, log: log}
}

// Type returns the source type identifier.
func (s *Source) Type() source.SourceType {
	return source.SourceTypeFile
}

// Fetch loads all email entries from the file and maps them to pipeline
// records.
func (s *Source) Fetch(_ context.Context) ([]*model.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading email file %s: %w", s.path, err)
	}

	var entries []fileEmail
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding email file %s: %w", s.path, err)
	}

	records := make([]*model.Record, 0, len(entries))
	for _, e := range entries {
		id := e.EmailID
		if id == "" {
			id = "local-id"
		}
		records = append(records, model.NewRecord(
			id, e.Subject, e.Sender, e.Body, textutil.Clean(e.Body),
		))
	}

	s.log.Info("loaded emails from file",
		zap.String("path", s.path),
		zap.Int("count", len(records)),
	)

	return records, nil
}

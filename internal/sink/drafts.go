package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DraftStore writes unsent responses to a local drafts directory. It is the
// fallback when sending is declined or fails.
type DraftStore struct {
	dir string
	log *zap.Logger
}

// NewDraftStore creates a draft store rooted at dir, creating the directory
// if needed.
func NewDraftStore(dir string, log *zap.Logger) (*DraftStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating drafts directory %s: %w", dir, err)
	}
	return &DraftStore{dir: dir, log: log}, nil
}

// Save writes a draft as "Subject: <subject>" followed by the body.
func (d *DraftStore) Save(subject, body, filename string) error {
	path := filepath.Join(d.dir, filename)
	content := fmt.Sprintf("Subject: %s\n\n%s", subject, body)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		d.log.Error("failed to save draft",
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("saving draft %s: %w", path, err)
	}

	d.log.Info("draft saved", zap.String("path", path))
	return nil
}

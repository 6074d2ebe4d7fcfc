package imapsource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/emersion/go-imap/v2"
	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/source"
	"github.com/nhle/mail-assistant/internal/textutil"
)

// Source implements source.Source for a live IMAP mailbox. Record IDs are
// the message UIDs, so post-processing actions can address the original
// message.
type Source struct {
	client *Client
	log    *zap.Logger
}

// New creates a live-mailbox source from the mailbox configuration.
func New(cfg model.MailboxConfig, log *zap.Logger) *Source {
	return &Source{
		client: NewClient(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.TLS),
		log:    log,
	}
}

// Type returns the source type identifier.
func (s *Source) Type() source.SourceType {
	return source.SourceTypeIMAP
}

// Fetch retrieves all unread messages and maps them to pipeline records.
// Individual messages that fail to decode are skipped with a warning;
// ingestion continues with the rest.
func (s *Source) Fetch(ctx context.Context) ([]*model.Record, error) {
	messages, skipped, err := s.client.FetchUnread(ctx)
	for _, skipErr := range skipped {
		s.log.Warn("skipping undecodable message", zap.Error(skipErr))
	}
	if err != nil {
		// A partial batch is still usable; only fail with nothing in hand.
		if len(messages) == 0 {
			return nil, fmt.Errorf("fetching unread emails: %w", err)
		}
		s.log.Warn("fetch ended early, continuing with partial batch",
			zap.Int("fetched", len(messages)),
			zap.Error(err),
		)
	}

	records := make([]*model.Record, 0, len(messages))
	for _, m := range messages {
		rec := model.NewRecord(
			strconv.FormatUint(uint64(m.UID), 10),
			m.Subject,
			m.From,
			m.Body,
			textutil.Clean(m.Body),
		)
		records = append(records, rec)
		s.log.Info("parsed unread email",
			zap.String("email_id", rec.ID),
			zap.String("email", textutil.Preview(rec.Subject, rec.Sender, rec.NormalizedBody)),
		)
	}

	return records, nil
}

// MarkAnswered flags the original message for a record as answered after a
// reply has been sent. Best-effort: the send already happened.
func (s *Source) MarkAnswered(ctx context.Context, rec *model.Record) error {
	uid, err := strconv.ParseUint(rec.ID, 10, 32)
	if err != nil {
		return fmt.Errorf("record %s has no mailbox UID: %w", rec.ID, err)
	}

	return s.client.SetFlags(
		ctx, imap.UID(uid), []imap.Flag{imap.FlagAnswered}, true,
	)
}

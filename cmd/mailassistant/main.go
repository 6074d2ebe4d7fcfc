// Command mailassistant fetches emails, classifies them with a language
// model, drafts replies, and routes drafts through a human-approval step
// before anything is sent.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/ai"
	"github.com/nhle/mail-assistant/internal/cli"
	"github.com/nhle/mail-assistant/internal/credential"
	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/pipeline"
	"github.com/nhle/mail-assistant/internal/sink"
	"github.com/nhle/mail-assistant/internal/source"
	"github.com/nhle/mail-assistant/internal/source/filesource"
	"github.com/nhle/mail-assistant/internal/source/imapsource"
	"github.com/nhle/mail-assistant/internal/stage"
	"github.com/nhle/mail-assistant/internal/store"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Error("fatal error", zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger) error {
	ctx := context.Background()

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}
	resolveSecrets(cfg, log)

	// The model credential is the one hard startup requirement.
	if cfg.AI.APIKey == "" {
		key, err := cli.PromptSecret(
			"Model API key",
			"Not found in config, environment, or keyring; it will be stored in the keyring",
		)
		if err != nil {
			return err
		}
		if key == "" {
			return fmt.Errorf(
				"model API key not configured: set MAILASSISTANT_AI_API_KEY "+
					"or store it in the system keyring under %q", "ai_api_key",
			)
		}
		if err := credential.Set("ai_api_key", key); err != nil {
			log.Warn("failed to store API key in keyring", zap.Error(err))
		}
		cfg.AI.APIKey = key
	}

	if !cfg.Mailbox.Configured() {
		log.Warn("mailbox credentials incomplete; live ingestion disabled")
	}
	if !cfg.SMTP.Configured() {
		log.Warn("SMTP credentials incomplete; approved responses will be saved as drafts")
	}

	drafts, err := sink.NewDraftStore(cfg.DraftsDir, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	history, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer history.Close()

	mode, err := cli.PickIngestion(cfg.Mailbox.Configured(), cfg.InputFile)
	if err != nil {
		return err
	}

	var src source.Source
	var mailbox *imapsource.Source
	if mode == cli.IngestLive {
		mailbox = imapsource.New(cfg.Mailbox, log)
		src = mailbox
	} else {
		src = filesource.New(cfg.InputFile, log)
	}

	records, err := src.Fetch(ctx)
	if err != nil {
		// Fetch failure is not fatal: there is simply nothing to process.
		if source.IsAuthError(err) {
			log.Error("mailbox rejected the configured credentials", zap.Error(err))
		} else {
			log.Error("fetching emails failed", zap.Error(err))
		}
		records = nil
	}
	if len(records) == 0 {
		log.Info("no emails to process")
		return nil
	}
	log.Info("emails fetched", zap.Int("count", len(records)))

	llm := ai.New(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTokens)
	pipe := pipeline.New(
		stage.NewClassifier(llm, log),
		stage.NewSummarizer(llm, log),
		stage.NewDrafter(llm, log),
		cli.NewConsoleReviewer(log),
		log,
	)

	var sender sink.Sender
	if cfg.SMTP.Configured() {
		sender = sink.NewSMTPSender(cfg.SMTP, log)
	}

	app := &runLoop{
		log:     log,
		pipe:    pipe,
		sender:  sender,
		drafts:  drafts,
		history: history,
		mailbox: mailbox,
		runID:   uuid.NewString(),
	}

	for _, rec := range records {
		app.processOne(ctx, rec)
	}

	app.printSummary(ctx)
	log.Info("all emails processed")
	return nil
}

// resolveSecrets fills empty secret fields from the system keyring. Keyring
// misses are fine; the environment and config file take precedence anyway.
func resolveSecrets(cfg *model.AppConfig, log *zap.Logger) {
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		val, err := credential.Get(key)
		if err != nil {
			log.Debug("keyring lookup failed", zap.String("key", key), zap.Error(err))
			return
		}
		*dst = val
	}

	fill(&cfg.AI.APIKey, "ai_api_key")
	fill(&cfg.Mailbox.Password, "mailbox_password")
	fill(&cfg.SMTP.Password, "smtp_password")
}

// runLoop drives one record at a time through the pipeline and the
// post-processing actions (send, draft, history).
type runLoop struct {
	log     *zap.Logger
	pipe    *pipeline.Pipeline
	sender  sink.Sender
	drafts  *sink.DraftStore
	history *store.SQLiteStore
	mailbox *imapsource.Source
	runID   string
}

// processOne runs the pipeline for a single record and applies its terminal
// disposition.
func (a *runLoop) processOne(ctx context.Context, rec *model.Record) {
	cli.ShowPreview(rec)

	a.pipe.Process(ctx, rec)

	cli.ShowOutcome(rec)

	disposition := store.DispositionNone
	if rec.Status == model.StatusApprovedForSending && rec.FinalResponse != nil {
		disposition = a.deliver(ctx, rec)
	}

	outcome := store.Outcome{
		ID:          uuid.NewString(),
		RunID:       a.runID,
		EmailID:     rec.ID,
		Sender:      rec.Sender,
		Subject:     rec.Subject,
		Category:    rec.Category,
		Status:      rec.Status,
		Disposition: disposition,
		ProcessedAt: time.Now(),
	}
	if err := a.history.AppendOutcome(ctx, outcome); err != nil {
		a.log.Warn("failed to record outcome",
			zap.String("email_id", rec.ID),
			zap.Error(err),
		)
	}
}

// deliver sends an approved response after a final confirmation, falling
// back to a local draft when sending is declined, unavailable, or fails.
func (a *runLoop) deliver(ctx context.Context, rec *model.Record) string {
	subject := sink.ReplySubject(rec.Subject)
	body := *rec.FinalResponse

	confirmed, err := cli.ConfirmSend(rec.Sender, subject, body)
	if err != nil {
		a.log.Error("send confirmation failed", zap.Error(err))
		confirmed = false
	}

	if confirmed && a.sender != nil {
		if err := a.sender.Send(ctx, rec.Sender, subject, body); err == nil {
			a.markAnswered(ctx, rec)
			return store.DispositionSent
		}
		cli.ShowError("Sending failed; saving response as a draft instead")
	} else if confirmed {
		cli.ShowError("SMTP is not configured; saving response as a draft instead")
	} else {
		a.log.Warn("sending cancelled by user", zap.String("email_id", rec.ID))
	}

	filename := rec.ID + "_draft.txt"
	if err := a.drafts.Save(subject, body, filename); err != nil {
		return store.DispositionNone
	}
	return store.DispositionDrafted
}

// markAnswered flags the original mailbox message after a successful send.
func (a *runLoop) markAnswered(ctx context.Context, rec *model.Record) {
	if a.mailbox == nil {
		return
	}
	if err := a.mailbox.MarkAnswered(ctx, rec); err != nil {
		a.log.Warn("failed to mark message answered",
			zap.String("email_id", rec.ID),
			zap.Error(err),
		)
	}
}

// printSummary reports what happened to every record in this run.
func (a *runLoop) printSummary(ctx context.Context) {
	outcomes, err := a.history.GetRunOutcomes(ctx, a.runID)
	if err != nil {
		a.log.Warn("failed to load run summary", zap.Error(err))
		return
	}

	byStatus := make(map[model.Status]int)
	sent := 0
	for _, o := range outcomes {
		byStatus[o.Status]++
		if o.Disposition == store.DispositionSent {
			sent++
		}
	}

	a.log.Info("run summary",
		zap.Int("total", len(outcomes)),
		zap.Int("processed", byStatus[model.StatusProcessed]),
		zap.Int("approved", byStatus[model.StatusApprovedForSending]),
		zap.Int("rejected", byStatus[model.StatusRejected]),
		zap.Int("sent", sent),
	)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/mail-assistant/internal/model"
)

// IngestionMode is the user's choice of where records come from.
type IngestionMode string

const (
	IngestLive IngestionMode = "live"
	IngestFile IngestionMode = "file"
)

// PickIngestion asks whether to fetch from the live mailbox or load the
// local file. When the live mailbox is not configured the prompt is skipped
// and the file path is used.
func PickIngestion(liveAvailable bool, inputFile string) (IngestionMode, error) {
	if !liveAvailable {
		return IngestFile, nil
	}

	mode := string(IngestLive)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select email source").
				Options(
					huh.NewOption("Live mailbox (unread messages via IMAP)", string(IngestLive)),
					huh.NewOption(
						fmt.Sprintf("Local file (%s)", inputFile),
						string(IngestFile),
					),
				).
				Value(&mode),
		),
	)

	if err := form.Run(); err != nil {
		return IngestFile, fmt.Errorf("running ingestion prompt: %w", err)
	}

	return IngestionMode(mode), nil
}

// ShowPreview prints a styled preview of the record about to be processed.
func ShowPreview(rec *model.Record) {
	fmt.Println()
	fmt.Println(strings.Repeat("#", 70))
	fmt.Println(headerStyle.Render("Processing email " + rec.ID))
	fmt.Printf("%s %s\n", labelStyle.Render("From:"), rec.Sender)
	fmt.Printf("%s %s\n", labelStyle.Render("Subject:"), rec.Subject)

	preview := strings.ReplaceAll(rec.NormalizedBody, "\n", " ")
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	fmt.Printf("%s %s\n", labelStyle.Render("Body:"), preview)
}

// ShowOutcome prints the terminal disposition of a processed record.
func ShowOutcome(rec *model.Record) {
	switch rec.Status {
	case model.StatusApprovedForSending:
		fmt.Println(okStyle.Render("Response approved for sending"))
	case model.StatusRejected:
		fmt.Println(warnStyle.Render("Draft rejected during review; no action taken"))
	default:
		fmt.Printf("%s %s\n",
			warnStyle.Render("No response generated; category:"),
			categoryStyle(string(rec.Category)).Render(string(rec.Category)),
		)
	}
}

// ConfirmSend shows the outgoing message and asks for a final confirmation.
func ConfirmSend(to, subject, body string) (bool, error) {
	fmt.Println()
	fmt.Println(headerStyle.Render("Send email"))
	fmt.Printf("%s %s\n", labelStyle.Render("To:"), to)
	fmt.Printf("%s %s\n", labelStyle.Render("Subject:"), subject)
	fmt.Println(panelStyle.Render(body))

	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Confirm sending this email?").
				Affirmative("Send").
				Negative("Save as draft").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("running send confirmation: %w", err)
	}

	return confirmed, nil
}

// PromptSecret asks for a secret value with masked input. An empty result
// means the user declined.
func PromptSecret(title, description string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(description).
				EchoMode(huh.EchoModePassword).
				Value(&value),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("running secret prompt: %w", err)
	}

	return strings.TrimSpace(value), nil
}

// ShowError prints a styled error line for non-fatal failures.
func ShowError(msg string) {
	fmt.Println(errStyle.Render(msg))
}

package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/stage"
)

// ConsoleReviewer implements stage.Reviewer with a blocking terminal prompt.
// It displays the email and draft, then offers approve, edit, or reject.
// The select widget makes invalid input impossible; edit collects a full
// replacement text in a multi-line editor terminated by form submission.
type ConsoleReviewer struct {
	log *zap.Logger
}

// NewConsoleReviewer creates the interactive reviewer.
func NewConsoleReviewer(log *zap.Logger) *ConsoleReviewer {
	return &ConsoleReviewer{log: log}
}

// Review blocks until the human decides the fate of the draft.
func (r *ConsoleReviewer) Review(
	_ context.Context,
	rec *model.Record,
) (stage.ReviewDecision, error) {
	r.log.Info("awaiting human review", zap.String("email_id", rec.ID))

	fmt.Println()
	fmt.Println(headerStyle.Render("HUMAN REVIEW REQUIRED"))
	fmt.Printf("%s %s\n", labelStyle.Render("From:"), rec.Sender)
	fmt.Printf("%s %s\n", labelStyle.Render("Subject:"), rec.Subject)
	fmt.Println(labelStyle.Render("Email body:"))
	fmt.Println(panelStyle.Render(rec.NormalizedBody))
	fmt.Println(labelStyle.Render("Draft response:"))
	fmt.Println(panelStyle.Render(rec.Draft))

	var action string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Review draft").
				Description("Approve sends the draft as-is; edit replaces it wholesale").
				Options(
					huh.NewOption("Approve", "approve"),
					huh.NewOption("Edit", "edit"),
					huh.NewOption("Reject", "reject"),
				).
				Value(&action),
		),
	)

	if err := form.Run(); err != nil {
		return stage.ReviewDecision{}, fmt.Errorf("running review prompt: %w", err)
	}

	switch action {
	case "approve":
		return stage.ReviewDecision{Action: stage.ReviewApprove}, nil
	case "reject":
		return stage.ReviewDecision{Action: stage.ReviewReject}, nil
	}

	replacement := rec.Draft
	editForm := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Revised draft").
				Description("Replaces the draft wholesale; submit when done").
				CharLimit(0).
				Value(&replacement),
		),
	)

	if err := editForm.Run(); err != nil {
		return stage.ReviewDecision{}, fmt.Errorf("running edit prompt: %w", err)
	}

	return stage.ReviewDecision{
		Action:      stage.ReviewEdit,
		Replacement: replacement,
	}, nil
}

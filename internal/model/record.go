package model

// Category classifies an email into one of a closed set of handling classes.
type Category string

const (
	// CategoryUnclassified is the initial value before the classifier runs.
	CategoryUnclassified Category = "new"

	CategorySpam          Category = "spam"
	CategoryUrgent        Category = "urgent"
	CategoryInformational Category = "informational"
	CategoryNeedsReview   Category = "needs_review"

	// CategoryError marks a record whose classification could not be
	// determined at all. Normal fail-open routing uses CategoryNeedsReview
	// instead; this value only appears in stored history for records that
	// never reached the classifier.
	CategoryError Category = "error"
)

// ParseCategory validates a raw classifier label against the closed set of
// reply categories. The initial and error values are not valid classifier
// output and are rejected here.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategorySpam, CategoryUrgent, CategoryInformational, CategoryNeedsReview:
		return Category(s), true
	}
	return CategoryUnclassified, false
}

// Status is the terminal disposition of a record after a pipeline run.
type Status string

const (
	// StatusPending is the initial value before the pipeline runs.
	StatusPending Status = "pending"

	// StatusProcessed means the record was handled without producing a
	// sendable response (spam, informational, or no draft required).
	StatusProcessed Status = "processed"

	// StatusApprovedForSending means FinalResponse holds a reply that is
	// cleared for the mail sink.
	StatusApprovedForSending Status = "approved_for_sending"

	// StatusRejected means a human reviewer discarded the draft.
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status is a final disposition. Once a record
// reaches a terminal status no stage mutates it again.
func (s Status) Terminal() bool {
	switch s {
	case StatusProcessed, StatusApprovedForSending, StatusRejected:
		return true
	}
	return false
}

// Record is the unit of work: the mutable per-email state threaded through
// the pipeline stages. It is created at ingestion, owned exclusively by the
// orchestrator for the duration of one run, and read-only afterwards.
type Record struct {
	// ID is the opaque stable identifier assigned at ingestion.
	ID string `json:"email_id"`

	// Subject, Sender, and RawBody are immutable facts captured at ingestion.
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	RawBody string `json:"body"`

	// NormalizedBody is the markup-stripped body, computed once at ingestion.
	NormalizedBody string `json:"normalized_body"`

	// Category is set exactly once by the classifier stage.
	Category Category `json:"category"`

	// Summary is set by the summarizer stage; left empty for spam.
	Summary string `json:"summary"`

	// Draft is the candidate reply produced by the drafter stage.
	Draft string `json:"draft"`

	// RequiresReview is set by the drafter and forced true for the
	// needs_review category regardless of the drafter's own signal.
	RequiresReview bool `json:"requires_review"`

	// FinalResponse is the approved reply body. Nil means nothing is
	// sendable; it is non-nil if and only if Status is
	// StatusApprovedForSending.
	FinalResponse *string `json:"final_response,omitempty"`

	// Status is the terminal disposition, set exactly once per run.
	Status Status `json:"status"`
}

// NewRecord creates a pipeline record in its initial state.
func NewRecord(id, subject, sender, rawBody, normalizedBody string) *Record {
	return &Record{
		ID:             id,
		Subject:        subject,
		Sender:         sender,
		RawBody:        rawBody,
		NormalizedBody: normalizedBody,
		Category:       CategoryUnclassified,
		Status:         StatusPending,
	}
}

// Approve marks the record as cleared for sending with the given response
// body. It upholds the invariant that FinalResponse is set exactly when the
// status is approved_for_sending.
func (r *Record) Approve(response string) {
	r.FinalResponse = &response
	r.Status = StatusApprovedForSending
}

// Reject marks the record as rejected by review, discarding any draft.
func (r *Record) Reject() {
	r.FinalResponse = nil
	r.Status = StatusRejected
}

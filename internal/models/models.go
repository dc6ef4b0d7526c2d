package models

import (
	"time"

	"github.com/google/uuid"
)

type NewsletterStatus string

const (
	NewsletterDraft     NewsletterStatus = "draft"
	NewsletterPublished NewsletterStatus = "published"
	NewsletterArchived  NewsletterStatus = "archived"
)

type DraftStatus string

const (
	DraftStatusDraft           DraftStatus = "draft"
	DraftStatusDraftSent       DraftStatus = "draft_sent"
	DraftStatusPendingContacts DraftStatus = "pending_contacts"
	DraftStatusReadyToSend     DraftStatus = "ready_to_send"
	DraftStatusSending         DraftStatus = "sending"
	DraftStatusSent            DraftStatus = "sent"
	DraftStatusFailed          DraftStatus = "failed"
)

type SectionStatus string

const (
	SectionPending    SectionStatus = "pending"
	SectionInProgress SectionStatus = "in_progress"
	SectionCompleted  SectionStatus = "completed"
	SectionFailed     SectionStatus = "failed"
)

type QueueStatus string

const (
	QueuePending    QueueStatus = "pending"
	QueueProcessing QueueStatus = "processing"
	QueueCompleted  QueueStatus = "completed"
	QueueFailed     QueueStatus = "failed"
)

type RecipientStatus string

const (
	RecipientPending RecipientStatus = "pending"
	RecipientSent    RecipientStatus = "sent"
	RecipientFailed  RecipientStatus = "failed"
)

// Company is read-only context for content generation; it is referenced,
// never owned, by newsletters.
type Company struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"company_name"`
	Industry            string    `json:"industry"`
	TargetAudience      string    `json:"target_audience,omitempty"`
	AudienceDescription string    `json:"audience_description,omitempty"`
	ContactEmail        string    `json:"contact_email"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Newsletter struct {
	ID                  uuid.UUID        `json:"id"`
	CompanyID           uuid.UUID        `json:"company_id"`
	Subject             string           `json:"subject"`
	Status              NewsletterStatus `json:"status"`
	DraftStatus         DraftStatus      `json:"draft_status"`
	DraftRecipientEmail string           `json:"draft_recipient_email,omitempty"`
	SentCount           int              `json:"sent_count"`
	FailedCount         int              `json:"failed_count"`
	LastSendStatus      string           `json:"last_send_status,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// NewsletterSection is one content block of a newsletter, uniquely
// identified by (newsletter_id, section_number). Content is non-nil
// if and only if Status is completed.
type NewsletterSection struct {
	ID            uuid.UUID     `json:"id"`
	NewsletterID  uuid.UUID     `json:"newsletter_id"`
	SectionType   string        `json:"section_type"`
	SectionNumber int           `json:"section_number"`
	Title         string        `json:"title,omitempty"`
	Content       *string       `json:"content,omitempty"`
	ImageURL      *string       `json:"image_url,omitempty"`
	Status        SectionStatus `json:"status"`
	ErrorMessage  *string       `json:"error_message,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// QueueItem is the unit of generation work, 1:1 with a NewsletterSection.
type QueueItem struct {
	ID            uuid.UUID   `json:"id"`
	NewsletterID  uuid.UUID   `json:"newsletter_id"`
	SectionType   string      `json:"section_type"`
	SectionNumber int         `json:"section_number"`
	Status        QueueStatus `json:"status"`
	Attempts      int         `json:"attempts"`
	LastAttemptAt *time.Time  `json:"last_attempt_at,omitempty"`
	ErrorMessage  *string     `json:"error_message,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// SectionType configures the prompt for one kind of section. A row with
// a nil CompanyID is the global template; a company-specific row with the
// same Name overrides it for that company.
type SectionType struct {
	ID             uuid.UUID  `json:"id"`
	CompanyID      *uuid.UUID `json:"company_id,omitempty"`
	Name           string     `json:"section_type"`
	DisplayOrder   int        `json:"display_order"`
	PromptTemplate string     `json:"prompt_template"`
	Required       bool       `json:"required"`
}

type Contact struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Recipient is a contact joined with its per-newsletter send status.
type Recipient struct {
	ContactID uuid.UUID       `json:"contact_id"`
	Email     string          `json:"email"`
	Name      string          `json:"name,omitempty"`
	Status    RecipientStatus `json:"status"`
}

// Package dispatch assembles completed newsletter sections into an email
// and hands it to the transport: a single draft to the preview recipient,
// or independent per-contact sends for the full list.
package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/metrics"
	"LetterForge/internal/models"
)

type Store interface {
	GetNewsletter(ctx context.Context, id uuid.UUID) (*models.Newsletter, error)
	ListSections(ctx context.Context, newsletterID uuid.UUID) ([]models.NewsletterSection, error)
	UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) error
	ListPendingRecipients(ctx context.Context, newsletterID uuid.UUID) ([]models.Recipient, error)
	MarkRecipient(ctx context.Context, newsletterID, contactID uuid.UUID, status models.RecipientStatus) error
	RecordSendOutcome(ctx context.Context, id uuid.UUID, sent, failed int) error
}

type Mailer interface {
	Send(to, toName, subject, htmlBody string) error
}

type Dispatcher struct {
	store  Store
	mailer Mailer
	logger *zap.Logger
}

func New(store Store, mailer Mailer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, mailer: mailer, logger: logger}
}

// completedSections loads the newsletter's sections and enforces the
// dispatch precondition: every planned section must be completed before
// anything is sent.
func (d *Dispatcher) completedSections(ctx context.Context, newsletterID uuid.UUID) ([]models.NewsletterSection, error) {
	sections, err := d.store.ListSections(ctx, newsletterID)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: newsletter %s has no sections", apperrors.ErrSectionsIncomplete, newsletterID)
	}
	for _, sec := range sections {
		if sec.Status != models.SectionCompleted {
			return nil, fmt.Errorf("%w: section %d (%s) is %s",
				apperrors.ErrSectionsIncomplete, sec.SectionNumber, sec.SectionType, sec.Status)
		}
	}
	return sections, nil
}

// SendDraft emails the assembled newsletter to a single preview recipient
// and advances the draft status. When recipient is empty the newsletter's
// stored draft recipient is used.
func (d *Dispatcher) SendDraft(ctx context.Context, newsletterID uuid.UUID, recipient string) error {
	newsletter, err := d.store.GetNewsletter(ctx, newsletterID)
	if err != nil {
		return err
	}
	if recipient == "" {
		recipient = newsletter.DraftRecipientEmail
	}
	if recipient == "" {
		return apperrors.Configurationf("newsletter %s has no draft recipient", newsletterID)
	}

	sections, err := d.completedSections(ctx, newsletterID)
	if err != nil {
		return err
	}

	body, err := RenderHTML(sections)
	if err != nil {
		return err
	}

	if err := d.mailer.Send(recipient, "", "[DRAFT] "+newsletter.Subject, body); err != nil {
		metrics.EmailFailures.Inc()
		return fmt.Errorf("send draft: %w", err)
	}
	metrics.EmailsSent.Inc()

	if err := d.store.UpdateDraftStatus(ctx, newsletterID, models.DraftStatusDraftSent); err != nil {
		return err
	}

	d.logger.Info("draft sent",
		zap.String("newsletter_id", newsletterID.String()),
		zap.String("recipient", recipient),
	)
	return nil
}

// SendToContacts emails the newsletter to every pending contact. Sends are
// independent: failures are recorded per recipient, never rolled back. The
// newsletter is published only if no recipient failed.
func (d *Dispatcher) SendToContacts(ctx context.Context, newsletterID uuid.UUID) (sent, failed int, err error) {
	newsletter, err := d.store.GetNewsletter(ctx, newsletterID)
	if err != nil {
		return 0, 0, err
	}

	sections, err := d.completedSections(ctx, newsletterID)
	if err != nil {
		return 0, 0, err
	}

	body, err := RenderHTML(sections)
	if err != nil {
		return 0, 0, err
	}

	recipients, err := d.store.ListPendingRecipients(ctx, newsletterID)
	if err != nil {
		return 0, 0, err
	}

	for _, r := range recipients {
		if sendErr := d.mailer.Send(r.Email, r.Name, newsletter.Subject, body); sendErr != nil {
			failed++
			metrics.EmailFailures.Inc()
			d.logger.Error("failed to send newsletter",
				zap.String("newsletter_id", newsletterID.String()),
				zap.String("recipient", r.Email),
				zap.Error(sendErr),
			)
			if err := d.store.MarkRecipient(ctx, newsletterID, r.ContactID, models.RecipientFailed); err != nil {
				d.logger.Error("failed to mark recipient failed", zap.Error(err))
			}
			continue
		}

		sent++
		metrics.EmailsSent.Inc()
		if err := d.store.MarkRecipient(ctx, newsletterID, r.ContactID, models.RecipientSent); err != nil {
			d.logger.Error("failed to mark recipient sent", zap.Error(err))
		}
	}

	if err := d.store.RecordSendOutcome(ctx, newsletterID, sent, failed); err != nil {
		return sent, failed, err
	}

	d.logger.Info("newsletter send finished",
		zap.String("newsletter_id", newsletterID.String()),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	return sent, failed, nil
}

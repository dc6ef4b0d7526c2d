package db

import (
	"context"

	"github.com/google/uuid"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/models"
)

func (s *Store) InsertContact(ctx context.Context, c *models.Contact) error {
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO contacts (company_id, email, name, created_at)
		 VALUES ($1,$2,$3,NOW())
		 ON CONFLICT (company_id, email) DO UPDATE SET name=EXCLUDED.name
		 RETURNING id, created_at`,
		c.CompanyID, c.Email, c.Name,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return apperrors.Persistencef("insert contact: %v", err)
	}
	return nil
}

// AttachContacts links every contact of the newsletter's company to the
// newsletter with a pending per-recipient status. Already-linked contacts
// are left untouched.
func (s *Store) AttachContacts(ctx context.Context, newsletterID, companyID uuid.UUID) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO newsletter_contacts (newsletter_id, contact_id, status)
		 SELECT $1, id, $2 FROM contacts WHERE company_id=$3
		 ON CONFLICT (newsletter_id, contact_id) DO NOTHING`,
		newsletterID, models.RecipientPending, companyID,
	)
	if err != nil {
		return apperrors.Persistencef("attach contacts: %v", err)
	}
	return nil
}

// ListPendingRecipients returns contacts still awaiting this newsletter.
func (s *Store) ListPendingRecipients(ctx context.Context, newsletterID uuid.UUID) ([]models.Recipient, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT nc.contact_id, c.email, COALESCE(c.name, ''), nc.status
		 FROM newsletter_contacts nc
		 JOIN contacts c ON c.id = nc.contact_id
		 WHERE nc.newsletter_id=$1 AND nc.status=$2
		 ORDER BY c.email`,
		newsletterID, models.RecipientPending,
	)
	if err != nil {
		return nil, apperrors.Persistencef("list pending recipients: %v", err)
	}
	defer rows.Close()

	var recipients []models.Recipient
	for rows.Next() {
		var r models.Recipient
		if err := rows.Scan(&r.ContactID, &r.Email, &r.Name, &r.Status); err != nil {
			return nil, apperrors.Persistencef("scan recipient: %v", err)
		}
		recipients = append(recipients, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistencef("list pending recipients: %v", err)
	}
	return recipients, nil
}

func (s *Store) MarkRecipient(ctx context.Context, newsletterID, contactID uuid.UUID, status models.RecipientStatus) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE newsletter_contacts SET status=$1
		 WHERE newsletter_id=$2 AND contact_id=$3`,
		status, newsletterID, contactID,
	)
	if err != nil {
		return apperrors.Persistencef("mark recipient: %v", err)
	}
	return nil
}

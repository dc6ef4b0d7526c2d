package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/models"
)

func (s *Store) CreateNewsletter(ctx context.Context, n *models.Newsletter) error {
	if n.Status == "" {
		n.Status = models.NewsletterDraft
	}
	if n.DraftStatus == "" {
		n.DraftStatus = models.DraftStatusDraft
	}
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO newsletters
		 (company_id, subject, status, draft_status, draft_recipient_email, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		 RETURNING id, created_at, updated_at`,
		n.CompanyID,
		n.Subject,
		n.Status,
		n.DraftStatus,
		n.DraftRecipientEmail,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return apperrors.Persistencef("create newsletter: %v", err)
	}
	return nil
}

func (s *Store) GetNewsletter(ctx context.Context, id uuid.UUID) (*models.Newsletter, error) {
	var n models.Newsletter
	err := s.Pool.QueryRow(ctx,
		`SELECT id, company_id, subject, status, draft_status,
		        COALESCE(draft_recipient_email, ''),
		        sent_count, failed_count, COALESCE(last_send_status, ''),
		        created_at, updated_at
		 FROM newsletters WHERE id=$1`,
		id,
	).Scan(&n.ID, &n.CompanyID, &n.Subject, &n.Status, &n.DraftStatus,
		&n.DraftRecipientEmail, &n.SentCount, &n.FailedCount, &n.LastSendStatus,
		&n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFoundf("newsletter %s", id)
	}
	if err != nil {
		return nil, apperrors.Persistencef("get newsletter: %v", err)
	}
	return &n, nil
}

func (s *Store) UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE newsletters SET draft_status=$1, updated_at=NOW() WHERE id=$2`,
		status, id,
	)
	if err != nil {
		return apperrors.Persistencef("update draft status: %v", err)
	}
	return nil
}

// RecordSendOutcome stores the result of a contact-list send. The newsletter
// is published only when every recipient succeeded; otherwise it stays a
// draft for operator remediation.
func (s *Store) RecordSendOutcome(ctx context.Context, id uuid.UUID, sent, failed int) error {
	status := models.NewsletterPublished
	lastSendStatus := "sent"
	if failed > 0 {
		status = models.NewsletterDraft
		lastSendStatus = "partial_failure"
	}

	_, err := s.Pool.Exec(ctx,
		`UPDATE newsletters
		 SET status=$1,
		     sent_count=sent_count+$2,
		     failed_count=failed_count+$3,
		     last_send_status=$4,
		     updated_at=NOW()
		 WHERE id=$5`,
		status, sent, failed, lastSendStatus, id,
	)
	if err != nil {
		return apperrors.Persistencef("record send outcome: %v", err)
	}
	return nil
}

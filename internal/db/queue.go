package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/models"
)

const queueColumns = `id, newsletter_id, section_type, section_number, status,
	attempts, last_attempt_at, error_message, created_at, updated_at`

func scanQueueItem(row pgx.Row) (*models.QueueItem, error) {
	var item models.QueueItem
	err := row.Scan(&item.ID, &item.NewsletterID, &item.SectionType, &item.SectionNumber,
		&item.Status, &item.Attempts, &item.LastAttemptAt, &item.ErrorMessage,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) InsertQueueItem(ctx context.Context, item *models.QueueItem) error {
	if item.Status == "" {
		item.Status = models.QueuePending
	}
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO newsletter_generation_queue
		 (newsletter_id, section_type, section_number, status, attempts, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,0,NOW(),NOW())
		 RETURNING id, created_at, updated_at`,
		item.NewsletterID,
		item.SectionType,
		item.SectionNumber,
		item.Status,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return apperrors.Persistencef("insert queue item: %v", err)
	}
	return nil
}

func (s *Store) GetQueueItem(ctx context.Context, id uuid.UUID) (*models.QueueItem, error) {
	item, err := scanQueueItem(s.Pool.QueryRow(ctx,
		`SELECT `+queueColumns+` FROM newsletter_generation_queue WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFoundf("queue item %s", id)
	}
	if err != nil {
		return nil, apperrors.Persistencef("get queue item: %v", err)
	}
	return item, nil
}

func (s *Store) ListQueueItems(ctx context.Context, newsletterID uuid.UUID) ([]models.QueueItem, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+queueColumns+`
		 FROM newsletter_generation_queue
		 WHERE newsletter_id=$1
		 ORDER BY section_number`,
		newsletterID,
	)
	if err != nil {
		return nil, apperrors.Persistencef("list queue items: %v", err)
	}
	defer rows.Close()

	var items []models.QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, apperrors.Persistencef("scan queue item: %v", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistencef("list queue items: %v", err)
	}
	return items, nil
}

// FetchNextPending returns the oldest pending item, or nil when the queue
// is drained. Ties on created_at break by insertion order.
func (s *Store) FetchNextPending(ctx context.Context) (*models.QueueItem, error) {
	item, err := scanQueueItem(s.Pool.QueryRow(ctx,
		`SELECT `+queueColumns+`
		 FROM newsletter_generation_queue
		 WHERE status=$1
		 ORDER BY created_at, id
		 LIMIT 1`,
		models.QueuePending,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Persistencef("fetch next pending: %v", err)
	}
	return item, nil
}

// Claim transitions an item from pending to processing, bumping attempts
// and last_attempt_at. The update is conditional on the item still being
// pending, so exactly one of any concurrent claimers wins; a lost claim
// returns nil and is treated as "no item" by the caller.
func (s *Store) Claim(ctx context.Context, id uuid.UUID) (*models.QueueItem, error) {
	item, err := scanQueueItem(s.Pool.QueryRow(ctx,
		`UPDATE newsletter_generation_queue
		 SET status=$1, attempts=attempts+1, last_attempt_at=NOW(), updated_at=NOW()
		 WHERE id=$2 AND status=$3
		 RETURNING `+queueColumns,
		models.QueueProcessing, id, models.QueuePending,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Persistencef("claim queue item: %v", err)
	}
	return item, nil
}

func (s *Store) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE newsletter_generation_queue
		 SET status=$1, error_message=NULL, updated_at=NOW()
		 WHERE id=$2`,
		models.QueueCompleted, id,
	)
	if err != nil {
		return apperrors.Persistencef("mark queue item completed: %v", err)
	}
	return nil
}

// MarkFailed records a failed attempt. While attempts remain the item goes
// back to pending for a later pickup; once the attempt budget is exhausted
// it stays failed permanently. Returns the status the item landed in.
func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) (models.QueueStatus, error) {
	var status models.QueueStatus
	err := s.Pool.QueryRow(ctx,
		`UPDATE newsletter_generation_queue
		 SET status=CASE WHEN attempts >= $1 THEN $2::text ELSE $3::text END,
		     error_message=$4, updated_at=NOW()
		 WHERE id=$5
		 RETURNING status`,
		s.maxAttempts, models.QueueFailed, models.QueuePending, errMsg, id,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NotFoundf("queue item %s", id)
	}
	if err != nil {
		return "", apperrors.Persistencef("mark queue item failed: %v", err)
	}
	return status, nil
}

// MarkFailedPermanent fails an item immediately, regardless of attempts
// remaining. Used for configuration and data-integrity errors.
func (s *Store) MarkFailedPermanent(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE newsletter_generation_queue
		 SET status=$1, error_message=$2, updated_at=NOW()
		 WHERE id=$3`,
		models.QueueFailed, errMsg, id,
	)
	if err != nil {
		return apperrors.Persistencef("mark queue item failed permanently: %v", err)
	}
	return nil
}

package db

import (
	"context"

	"github.com/google/uuid"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/models"
)

func (s *Store) InsertSection(ctx context.Context, sec *models.NewsletterSection) error {
	if sec.Status == "" {
		sec.Status = models.SectionPending
	}
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO newsletter_sections
		 (newsletter_id, section_type, section_number, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,NOW(),NOW())
		 RETURNING id, created_at, updated_at`,
		sec.NewsletterID,
		sec.SectionType,
		sec.SectionNumber,
		sec.Status,
	).Scan(&sec.ID, &sec.CreatedAt, &sec.UpdatedAt)
	if err != nil {
		return apperrors.Persistencef("insert section: %v", err)
	}
	return nil
}

func (s *Store) ListSections(ctx context.Context, newsletterID uuid.UUID) ([]models.NewsletterSection, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, newsletter_id, section_type, section_number,
		        COALESCE(title, ''), content, image_url, status, error_message,
		        created_at, updated_at
		 FROM newsletter_sections
		 WHERE newsletter_id=$1
		 ORDER BY section_number`,
		newsletterID,
	)
	if err != nil {
		return nil, apperrors.Persistencef("list sections: %v", err)
	}
	defer rows.Close()

	var sections []models.NewsletterSection
	for rows.Next() {
		var sec models.NewsletterSection
		if err := rows.Scan(&sec.ID, &sec.NewsletterID, &sec.SectionType, &sec.SectionNumber,
			&sec.Title, &sec.Content, &sec.ImageURL, &sec.Status, &sec.ErrorMessage,
			&sec.CreatedAt, &sec.UpdatedAt); err != nil {
			return nil, apperrors.Persistencef("scan section: %v", err)
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistencef("list sections: %v", err)
	}
	return sections, nil
}

func (s *Store) MarkSectionInProgress(ctx context.Context, newsletterID uuid.UUID, sectionNumber int) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE newsletter_sections
		 SET status=$1, updated_at=NOW()
		 WHERE newsletter_id=$2 AND section_number=$3`,
		models.SectionInProgress, newsletterID, sectionNumber,
	)
	if err != nil {
		return apperrors.Persistencef("mark section in progress: %v", err)
	}
	return nil
}

// CompleteSection persists generated content. The status flip and the
// content write happen in one update so content is non-null exactly when
// the section is completed.
func (s *Store) CompleteSection(ctx context.Context, newsletterID uuid.UUID, sectionNumber int, title, content string, imageURL *string) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE newsletter_sections
		 SET status=$1, title=$2, content=$3, image_url=$4, error_message=NULL, updated_at=NOW()
		 WHERE newsletter_id=$5 AND section_number=$6`,
		models.SectionCompleted, title, content, imageURL, newsletterID, sectionNumber,
	)
	if err != nil {
		return apperrors.Persistencef("complete section: %v", err)
	}
	return nil
}

func (s *Store) MarkSectionFailed(ctx context.Context, newsletterID uuid.UUID, sectionNumber int, errMsg string) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE newsletter_sections
		 SET status=$1, error_message=$2, updated_at=NOW()
		 WHERE newsletter_id=$3 AND section_number=$4`,
		models.SectionFailed, errMsg, newsletterID, sectionNumber,
	)
	if err != nil {
		return apperrors.Persistencef("mark section failed: %v", err)
	}
	return nil
}

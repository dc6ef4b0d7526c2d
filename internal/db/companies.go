package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/models"
)

func (s *Store) CreateCompany(ctx context.Context, c *models.Company) error {
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO companies
		 (company_name, industry, target_audience, audience_description, contact_email, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		 RETURNING id, created_at, updated_at`,
		c.Name,
		c.Industry,
		c.TargetAudience,
		c.AudienceDescription,
		c.ContactEmail,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return apperrors.Persistencef("create company: %v", err)
	}
	return nil
}

func (s *Store) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var c models.Company
	err := s.Pool.QueryRow(ctx,
		`SELECT id, company_name, industry,
		        COALESCE(target_audience, ''), COALESCE(audience_description, ''),
		        contact_email, created_at, updated_at
		 FROM companies WHERE id=$1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Industry, &c.TargetAudience, &c.AudienceDescription,
		&c.ContactEmail, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFoundf("company %s", id)
	}
	if err != nil {
		return nil, apperrors.Persistencef("get company: %v", err)
	}
	return &c, nil
}

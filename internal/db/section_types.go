package db

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/models"
)

// ListSectionTypes returns the section types applicable to a company, with
// company-specific rows overriding the global row of the same name, ordered
// by display order.
func (s *Store) ListSectionTypes(ctx context.Context, companyID uuid.UUID) ([]models.SectionType, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT DISTINCT ON (section_type)
		        id, company_id, section_type, display_order, prompt_template, required
		 FROM newsletter_section_types
		 WHERE company_id=$1 OR company_id IS NULL
		 ORDER BY section_type, company_id NULLS LAST`,
		companyID,
	)
	if err != nil {
		return nil, apperrors.Persistencef("list section types: %v", err)
	}
	defer rows.Close()

	var types []models.SectionType
	for rows.Next() {
		var t models.SectionType
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.DisplayOrder, &t.PromptTemplate, &t.Required); err != nil {
			return nil, apperrors.Persistencef("scan section type: %v", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistencef("list section types: %v", err)
	}

	sort.SliceStable(types, func(i, j int) bool {
		return types[i].DisplayOrder < types[j].DisplayOrder
	})
	return types, nil
}

// ResolveSectionType finds the prompt configuration for one section type,
// preferring the company-specific row over the global one.
func (s *Store) ResolveSectionType(ctx context.Context, companyID uuid.UUID, name string) (*models.SectionType, error) {
	var t models.SectionType
	err := s.Pool.QueryRow(ctx,
		`SELECT id, company_id, section_type, display_order, prompt_template, required
		 FROM newsletter_section_types
		 WHERE section_type=$1 AND (company_id=$2 OR company_id IS NULL)
		 ORDER BY company_id NULLS LAST
		 LIMIT 1`,
		name, companyID,
	).Scan(&t.ID, &t.CompanyID, &t.Name, &t.DisplayOrder, &t.PromptTemplate, &t.Required)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Configurationf("no prompt template for section type %q", name)
	}
	if err != nil {
		return nil, apperrors.Persistencef("resolve section type: %v", err)
	}
	return &t, nil
}

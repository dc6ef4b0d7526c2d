// Package planner turns a newsletter into its ordered set of section rows
// and generation jobs. Planning is re-runnable: a retry after a partial
// insert skips whatever already exists instead of duplicating it.
package planner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/models"
)

type Store interface {
	GetNewsletter(ctx context.Context, id uuid.UUID) (*models.Newsletter, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListSectionTypes(ctx context.Context, companyID uuid.UUID) ([]models.SectionType, error)
	ListSections(ctx context.Context, newsletterID uuid.UUID) ([]models.NewsletterSection, error)
	ListQueueItems(ctx context.Context, newsletterID uuid.UUID) ([]models.QueueItem, error)
	InsertSection(ctx context.Context, sec *models.NewsletterSection) error
	InsertQueueItem(ctx context.Context, item *models.QueueItem) error
	UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) error
}

type Plan struct {
	Sections []models.NewsletterSection
	Jobs     []models.QueueItem
}

type Planner struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Planner {
	return &Planner{store: store, logger: logger}
}

// Plan resolves the section types applicable to the newsletter's company,
// assigns dense section numbers 1..N in display order, and creates one
// section row plus one queue job per type. When selected names are given the
// plan is restricted to them, but every type flagged required must still make
// it in. Finally the newsletter's draft status is advanced to acknowledge
// job creation.
func (p *Planner) Plan(ctx context.Context, newsletterID uuid.UUID, selected ...string) (*Plan, error) {
	newsletter, err := p.store.GetNewsletter(ctx, newsletterID)
	if err != nil {
		return nil, err
	}
	if _, err := p.store.GetCompany(ctx, newsletter.CompanyID); err != nil {
		return nil, err
	}

	available, err := p.store.ListSectionTypes(ctx, newsletter.CompanyID)
	if err != nil {
		return nil, err
	}

	types := available
	if len(selected) > 0 {
		wanted := make(map[string]bool, len(selected))
		for _, name := range selected {
			wanted[name] = true
		}
		types = types[:0:0]
		for _, t := range available {
			if wanted[t.Name] {
				types = append(types, t)
			}
		}
	}
	if len(types) == 0 {
		return nil, apperrors.Configurationf("no section types configured for company %s", newsletter.CompanyID)
	}

	planned := make(map[string]bool, len(types))
	for _, t := range types {
		planned[t.Name] = true
	}
	for _, t := range available {
		if t.Required && !planned[t.Name] {
			return nil, apperrors.Configurationf("required section type %q missing from plan", t.Name)
		}
	}

	existingSections, err := p.store.ListSections(ctx, newsletterID)
	if err != nil {
		return nil, err
	}
	existingJobs, err := p.store.ListQueueItems(ctx, newsletterID)
	if err != nil {
		return nil, err
	}

	sectionByType := make(map[string]models.NewsletterSection, len(existingSections))
	for _, sec := range existingSections {
		sectionByType[sec.SectionType] = sec
	}
	jobByType := make(map[string]models.QueueItem, len(existingJobs))
	for _, job := range existingJobs {
		jobByType[job.SectionType] = job
	}

	plan := &Plan{}
	for i, t := range types {
		number := i + 1

		sec, ok := sectionByType[t.Name]
		if !ok {
			sec = models.NewsletterSection{
				NewsletterID:  newsletterID,
				SectionType:   t.Name,
				SectionNumber: number,
				Status:        models.SectionPending,
			}
			if err := p.store.InsertSection(ctx, &sec); err != nil {
				return nil, err
			}
		}
		plan.Sections = append(plan.Sections, sec)

		job, ok := jobByType[t.Name]
		if !ok {
			job = models.QueueItem{
				NewsletterID:  newsletterID,
				SectionType:   t.Name,
				SectionNumber: number,
				Status:        models.QueuePending,
			}
			if err := p.store.InsertQueueItem(ctx, &job); err != nil {
				return nil, err
			}
		}
		plan.Jobs = append(plan.Jobs, job)
	}

	if err := p.store.UpdateDraftStatus(ctx, newsletterID, models.DraftStatusDraftSent); err != nil {
		return nil, err
	}

	p.logger.Info("newsletter generation planned",
		zap.String("newsletter_id", newsletterID.String()),
		zap.Int("sections", len(plan.Sections)),
	)
	return plan, nil
}

// Package processor consumes one queued generation job at a time: it claims
// the job, renders the section's prompt from the company profile, calls the
// content provider, and reconciles the outcome with the section and queue
// rows. No failure path may leave a job stranded in processing.
package processor

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"LetterForge/internal/ai"
	"LetterForge/internal/apperrors"
	"LetterForge/internal/metrics"
	"LetterForge/internal/models"
)

type Store interface {
	Claim(ctx context.Context, id uuid.UUID) (*models.QueueItem, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) (models.QueueStatus, error)
	MarkFailedPermanent(ctx context.Context, id uuid.UUID, errMsg string) error

	GetNewsletter(ctx context.Context, id uuid.UUID) (*models.Newsletter, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ResolveSectionType(ctx context.Context, companyID uuid.UUID, name string) (*models.SectionType, error)

	MarkSectionInProgress(ctx context.Context, newsletterID uuid.UUID, sectionNumber int) error
	CompleteSection(ctx context.Context, newsletterID uuid.UUID, sectionNumber int, title, content string, imageURL *string) error
	MarkSectionFailed(ctx context.Context, newsletterID uuid.UUID, sectionNumber int, errMsg string) error
}

type ContentProvider interface {
	GenerateText(ctx context.Context, system, user string, maxTokens int) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type Processor struct {
	store    Store
	provider ContentProvider
	images   bool
	logger   *zap.Logger
}

func New(store Store, provider ContentProvider, images bool, logger *zap.Logger) *Processor {
	return &Processor{
		store:    store,
		provider: provider,
		images:   images,
		logger:   logger,
	}
}

// Process runs one generation job to a terminal or retryable outcome. A lost
// claim is not an error: another worker got there first and this call is a
// no-op. The returned error mirrors the recorded outcome so the worker loop
// can track consecutive failures; the job's own state is always settled here.
func (p *Processor) Process(ctx context.Context, id uuid.UUID) error {
	item, err := p.store.Claim(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		p.logger.Debug("queue item already claimed", zap.String("queue_item_id", id.String()))
		return nil
	}

	log := p.logger.With(
		zap.String("queue_item_id", item.ID.String()),
		zap.String("newsletter_id", item.NewsletterID.String()),
		zap.String("section_type", item.SectionType),
		zap.Int("attempt", item.Attempts),
	)

	newsletter, err := p.store.GetNewsletter(ctx, item.NewsletterID)
	if err != nil {
		return p.fail(ctx, log, item, err)
	}
	company, err := p.store.GetCompany(ctx, newsletter.CompanyID)
	if err != nil {
		return p.fail(ctx, log, item, err)
	}

	if err := p.store.MarkSectionInProgress(ctx, item.NewsletterID, item.SectionNumber); err != nil {
		return p.fail(ctx, log, item, err)
	}

	sectionType, err := p.store.ResolveSectionType(ctx, newsletter.CompanyID, item.SectionType)
	if err != nil {
		return p.fail(ctx, log, item, err)
	}

	prompt := RenderPrompt(sectionType.PromptTemplate, company)
	budget := ai.CompletionBudget(prompt)

	raw, err := p.provider.GenerateText(ctx, ai.SystemPrompt(item.SectionType, budget), prompt, budget)
	if err != nil {
		return p.fail(ctx, log, item, err)
	}

	title, body, err := ai.ParseSectionContent(raw)
	if err != nil {
		return p.fail(ctx, log, item, err)
	}

	// Image generation is best-effort: a failure is logged and the section
	// still completes without an image.
	var imageURL *string
	if p.images {
		url, imgErr := p.provider.GenerateImage(ctx, title)
		if imgErr != nil {
			metrics.ImageFailures.Inc()
			log.Warn("image generation failed, continuing without image", zap.Error(imgErr))
		} else {
			imageURL = &url
			metrics.ImagesGenerated.Inc()
		}
	}

	if err := p.store.CompleteSection(ctx, item.NewsletterID, item.SectionNumber, title, body, imageURL); err != nil {
		return p.fail(ctx, log, item, err)
	}
	if err := p.store.MarkCompleted(ctx, item.ID); err != nil {
		return p.fail(ctx, log, item, err)
	}

	metrics.SectionsGenerated.Inc()
	log.Info("section generated", zap.String("title", title))
	return nil
}

// fail settles a claimed item after an error. Configuration and integrity
// errors fail the job permanently; anything else goes back to pending until
// the attempt budget runs out. Whenever the item lands in failed, the
// section is failed alongside it with the error message recorded.
func (p *Processor) fail(ctx context.Context, log *zap.Logger, item *models.QueueItem, cause error) error {
	msg := cause.Error()

	var final models.QueueStatus
	if apperrors.IsTerminal(cause) {
		if err := p.store.MarkFailedPermanent(ctx, item.ID, msg); err != nil {
			log.Error("failed to record permanent job failure", zap.Error(err))
			return cause
		}
		final = models.QueueFailed
	} else {
		status, err := p.store.MarkFailed(ctx, item.ID, msg)
		if err != nil {
			log.Error("failed to record job failure", zap.Error(err))
			return cause
		}
		final = status
	}

	switch final {
	case models.QueueFailed:
		metrics.SectionFailures.Inc()
		if err := p.store.MarkSectionFailed(ctx, item.NewsletterID, item.SectionNumber, msg); err != nil {
			log.Error("failed to mark section failed", zap.Error(err))
		}
		log.Error("generation job failed permanently", zap.Error(cause))
	default:
		metrics.JobRetries.Inc()
		log.Warn("generation job failed, requeued", zap.Error(cause))
	}
	return cause
}

package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/models"
)

type fakeStore struct {
	maxAttempts int

	item        *models.QueueItem
	claimLost   bool
	newsletter  *models.Newsletter
	company     *models.Company
	sectionType *models.SectionType

	queueStatus     models.QueueStatus
	queueErrMsg     string
	permanentFail   bool
	sectionStatus   models.SectionStatus
	sectionErrMsg   string
	completedTitle  string
	completedBody   string
	completedImage  *string
	inProgressCalls int
}

func (f *fakeStore) Claim(_ context.Context, id uuid.UUID) (*models.QueueItem, error) {
	if f.claimLost || f.item == nil || f.item.ID != id {
		return nil, nil
	}
	f.item.Attempts++
	f.item.Status = models.QueueProcessing
	f.queueStatus = models.QueueProcessing
	claimed := *f.item
	return &claimed, nil
}

func (f *fakeStore) MarkCompleted(_ context.Context, _ uuid.UUID) error {
	f.queueStatus = models.QueueCompleted
	f.queueErrMsg = ""
	return nil
}

func (f *fakeStore) MarkFailed(_ context.Context, _ uuid.UUID, errMsg string) (models.QueueStatus, error) {
	f.queueErrMsg = errMsg
	if f.item.Attempts >= f.maxAttempts {
		f.queueStatus = models.QueueFailed
	} else {
		f.queueStatus = models.QueuePending
	}
	return f.queueStatus, nil
}

func (f *fakeStore) MarkFailedPermanent(_ context.Context, _ uuid.UUID, errMsg string) error {
	f.queueStatus = models.QueueFailed
	f.queueErrMsg = errMsg
	f.permanentFail = true
	return nil
}

func (f *fakeStore) GetNewsletter(_ context.Context, id uuid.UUID) (*models.Newsletter, error) {
	if f.newsletter == nil || f.newsletter.ID != id {
		return nil, apperrors.NotFoundf("newsletter %s", id)
	}
	return f.newsletter, nil
}

func (f *fakeStore) GetCompany(_ context.Context, id uuid.UUID) (*models.Company, error) {
	if f.company == nil || f.company.ID != id {
		return nil, apperrors.NotFoundf("company %s", id)
	}
	return f.company, nil
}

func (f *fakeStore) ResolveSectionType(_ context.Context, _ uuid.UUID, name string) (*models.SectionType, error) {
	if f.sectionType == nil || f.sectionType.Name != name {
		return nil, apperrors.Configurationf("no prompt template for section type %q", name)
	}
	return f.sectionType, nil
}

func (f *fakeStore) MarkSectionInProgress(_ context.Context, _ uuid.UUID, _ int) error {
	f.inProgressCalls++
	f.sectionStatus = models.SectionInProgress
	return nil
}

func (f *fakeStore) CompleteSection(_ context.Context, _ uuid.UUID, _ int, title, content string, imageURL *string) error {
	f.sectionStatus = models.SectionCompleted
	f.completedTitle = title
	f.completedBody = content
	f.completedImage = imageURL
	return nil
}

func (f *fakeStore) MarkSectionFailed(_ context.Context, _ uuid.UUID, _ int, errMsg string) error {
	f.sectionStatus = models.SectionFailed
	f.sectionErrMsg = errMsg
	return nil
}

type fakeProvider struct {
	text     string
	textErr  error
	imageURL string
	imageErr error

	textCalls  int
	imageCalls int
}

func (f *fakeProvider) GenerateText(_ context.Context, _, _ string, _ int) (string, error) {
	f.textCalls++
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.text, nil
}

func (f *fakeProvider) GenerateImage(_ context.Context, _ string) (string, error) {
	f.imageCalls++
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return f.imageURL, nil
}

func newFixture(attempts int) (*fakeStore, *models.QueueItem) {
	companyID := uuid.New()
	newsletterID := uuid.New()
	item := &models.QueueItem{
		ID:            uuid.New(),
		NewsletterID:  newsletterID,
		SectionType:   "welcome",
		SectionNumber: 1,
		Status:        models.QueuePending,
		Attempts:      attempts,
	}
	store := &fakeStore{
		maxAttempts: 3,
		item:        item,
		newsletter: &models.Newsletter{
			ID:        newsletterID,
			CompanyID: companyID,
			Subject:   "September 2026 Acme Newsletter",
		},
		company: &models.Company{
			ID:       companyID,
			Name:     "Acme",
			Industry: "logistics",
		},
		sectionType: &models.SectionType{
			Name:           "welcome",
			PromptTemplate: "Write a welcome for {company_name} in {industry}.",
			Required:       true,
		},
		queueStatus:   models.QueuePending,
		sectionStatus: models.SectionPending,
	}
	return store, item
}

func TestProcessSuccess(t *testing.T) {
	store, item := newFixture(0)
	provider := &fakeProvider{
		text:     "# Welcome to Acme\nGlad to have you.\n\nMore soon.",
		imageURL: "https://img.example.com/welcome.png",
	}
	p := New(store, provider, true, zap.NewNop())

	require.NoError(t, p.Process(context.Background(), item.ID))

	assert.Equal(t, models.QueueCompleted, store.queueStatus)
	assert.Equal(t, models.SectionCompleted, store.sectionStatus)
	assert.Equal(t, 1, item.Attempts)
	assert.Equal(t, "Welcome to Acme", store.completedTitle)
	assert.Equal(t, "Glad to have you.\n\nMore soon.", store.completedBody)
	require.NotNil(t, store.completedImage)
	assert.Equal(t, "https://img.example.com/welcome.png", *store.completedImage)
	assert.Equal(t, 1, store.inProgressCalls)
}

func TestProcessLostClaimIsNoOp(t *testing.T) {
	store, item := newFixture(0)
	store.claimLost = true
	provider := &fakeProvider{text: "ignored"}
	p := New(store, provider, false, zap.NewNop())

	require.NoError(t, p.Process(context.Background(), item.ID))

	assert.Equal(t, 0, provider.textCalls)
	assert.Equal(t, models.QueuePending, store.queueStatus)
	assert.Equal(t, models.SectionPending, store.sectionStatus)
}

func TestProcessTransientFailureRequeues(t *testing.T) {
	store, item := newFixture(0)
	provider := &fakeProvider{textErr: apperrors.Transientf("provider unavailable")}
	p := New(store, provider, false, zap.NewNop())

	err := p.Process(context.Background(), item.ID)
	require.Error(t, err)

	assert.Equal(t, models.QueuePending, store.queueStatus)
	assert.Equal(t, 1, item.Attempts)
	assert.Contains(t, store.queueErrMsg, "provider unavailable")
	assert.NotEqual(t, models.SectionFailed, store.sectionStatus)
}

func TestProcessFailsAfterMaxAttempts(t *testing.T) {
	store, item := newFixture(2)
	provider := &fakeProvider{textErr: apperrors.Transientf("provider unavailable")}
	p := New(store, provider, false, zap.NewNop())

	err := p.Process(context.Background(), item.ID)
	require.Error(t, err)

	assert.Equal(t, models.QueueFailed, store.queueStatus)
	assert.Equal(t, 3, item.Attempts)
	assert.Equal(t, models.SectionFailed, store.sectionStatus)
	assert.Contains(t, store.sectionErrMsg, "provider unavailable")
}

func TestProcessSucceedsOnSecondAttempt(t *testing.T) {
	store, item := newFixture(1)
	provider := &fakeProvider{text: "Recovered Title\nBody."}
	p := New(store, provider, false, zap.NewNop())

	require.NoError(t, p.Process(context.Background(), item.ID))

	assert.Equal(t, models.QueueCompleted, store.queueStatus)
	assert.Equal(t, 2, item.Attempts)
	assert.Equal(t, models.SectionCompleted, store.sectionStatus)
}

func TestProcessImageFailureStillCompletes(t *testing.T) {
	store, item := newFixture(0)
	provider := &fakeProvider{
		text:     "# Title\nBody.",
		imageErr: errors.New("image quota exhausted"),
	}
	p := New(store, provider, true, zap.NewNop())

	require.NoError(t, p.Process(context.Background(), item.ID))

	assert.Equal(t, models.QueueCompleted, store.queueStatus)
	assert.Equal(t, models.SectionCompleted, store.sectionStatus)
	assert.Nil(t, store.completedImage)
}

func TestProcessImagesDisabledSkipsImageCall(t *testing.T) {
	store, item := newFixture(0)
	provider := &fakeProvider{text: "# Title\nBody.", imageURL: "https://img.example.com/x.png"}
	p := New(store, provider, false, zap.NewNop())

	require.NoError(t, p.Process(context.Background(), item.ID))

	assert.Equal(t, 0, provider.imageCalls)
	assert.Nil(t, store.completedImage)
}

func TestProcessMissingNewsletterFailsPermanently(t *testing.T) {
	store, item := newFixture(0)
	store.newsletter = nil
	p := New(store, &fakeProvider{text: "ignored"}, false, zap.NewNop())

	err := p.Process(context.Background(), item.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	assert.Equal(t, models.QueueFailed, store.queueStatus)
	assert.True(t, store.permanentFail)
	assert.Equal(t, 1, item.Attempts)
}

func TestProcessMissingTemplateFailsPermanently(t *testing.T) {
	store, item := newFixture(0)
	store.sectionType = nil
	p := New(store, &fakeProvider{text: "ignored"}, false, zap.NewNop())

	err := p.Process(context.Background(), item.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))

	assert.Equal(t, models.QueueFailed, store.queueStatus)
	assert.True(t, store.permanentFail)
	assert.Equal(t, models.SectionFailed, store.sectionStatus)
}

func TestProcessEmptyCompletionRequeues(t *testing.T) {
	store, item := newFixture(0)
	provider := &fakeProvider{text: "   \n\n  "}
	p := New(store, provider, false, zap.NewNop())

	err := p.Process(context.Background(), item.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransientProvider))
	assert.Equal(t, models.QueuePending, store.queueStatus)
}

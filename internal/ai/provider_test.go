package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"LetterForge/internal/apperrors"
)

type fakeAPI struct {
	completionCalls int
	completionErrs  []error
	completion      string

	imageCalls int
	imageErr   error
	imageURL   string
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.completionCalls++
	if len(f.completionErrs) > 0 {
		err := f.completionErrs[0]
		f.completionErrs = f.completionErrs[1:]
		if err != nil {
			return openai.ChatCompletionResponse{}, err
		}
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.completion}},
		},
	}, nil
}

func (f *fakeAPI) CreateImage(_ context.Context, _ openai.ImageRequest) (openai.ImageResponse, error) {
	f.imageCalls++
	if f.imageErr != nil {
		return openai.ImageResponse{}, f.imageErr
	}
	return openai.ImageResponse{Data: []openai.ImageResponseDataInner{{URL: f.imageURL}}}, nil
}

func testProvider(api *fakeAPI) *Provider {
	return &Provider{
		api:        api,
		model:      "gpt-4",
		attempts:   3,
		retryBase:  time.Millisecond,
		imageLimit: rate.NewLimiter(rate.Inf, 1),
		logger:     zap.NewNop(),
	}
}

func TestGenerateTextFirstAttempt(t *testing.T) {
	api := &fakeAPI{completion: "# Title\nBody."}
	p := testProvider(api)

	got, err := p.GenerateText(context.Background(), "system", "user", 512)
	require.NoError(t, err)
	assert.Equal(t, "# Title\nBody.", got)
	assert.Equal(t, 1, api.completionCalls)
}

func TestGenerateTextRetriesUntilSuccess(t *testing.T) {
	api := &fakeAPI{
		completionErrs: []error{errors.New("rate limited"), errors.New("rate limited")},
		completion:     "recovered",
	}
	p := testProvider(api)

	got, err := p.GenerateText(context.Background(), "system", "user", 512)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, 3, api.completionCalls)
}

func TestGenerateTextExhaustsAttempts(t *testing.T) {
	api := &fakeAPI{
		completionErrs: []error{
			errors.New("boom"), errors.New("boom"), errors.New("boom"), errors.New("boom"),
		},
	}
	p := testProvider(api)

	_, err := p.GenerateText(context.Background(), "system", "user", 512)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransientProvider))
	assert.Equal(t, 3, api.completionCalls)
}

func TestGenerateTextEmptyCompletionIsRetried(t *testing.T) {
	api := &fakeAPI{completion: ""}
	p := testProvider(api)

	_, err := p.GenerateText(context.Background(), "system", "user", 512)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransientProvider))
	assert.Equal(t, 3, api.completionCalls)
}

func TestGenerateTextCancelledContext(t *testing.T) {
	api := &fakeAPI{
		completionErrs: []error{errors.New("boom"), errors.New("boom"), errors.New("boom")},
	}
	p := testProvider(api)
	p.retryBase = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.GenerateText(ctx, "system", "user", 512)
	require.Error(t, err)
	assert.Equal(t, 1, api.completionCalls)
}

func TestGenerateImage(t *testing.T) {
	api := &fakeAPI{imageURL: "https://img.example.com/1.png"}
	p := testProvider(api)

	url, err := p.GenerateImage(context.Background(), "a calm harbor at dawn")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/1.png", url)
	assert.Equal(t, 1, api.imageCalls)
}

func TestGenerateImageFailureIsTransient(t *testing.T) {
	api := &fakeAPI{imageErr: errors.New("quota")}
	p := testProvider(api)

	_, err := p.GenerateImage(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransientProvider))
}

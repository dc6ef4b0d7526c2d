// Package ai wraps the generative content provider. The adapter owns two
// concerns the rest of the pipeline must not care about: retrying text
// completions with exponential backoff against provider quotas, and rate
// limiting image generation to the provider's per-minute ceiling.
package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"LetterForge/internal/apperrors"
)

// completionAPI is the slice of the OpenAI client the provider uses.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

type Provider struct {
	api        completionAPI
	model      string
	attempts   int
	retryBase  time.Duration
	imageLimit *rate.Limiter
	logger     *zap.Logger
}

// New builds a provider against the OpenAI API. attempts bounds the internal
// text-completion retries; retryBase is the first backoff interval, doubled on
// each subsequent attempt. Image calls beyond imageLimit per imageWindow block
// until the window admits them.
func New(
	apiKey string,
	model string,
	attempts int,
	retryBase time.Duration,
	imageLimit int,
	imageWindow time.Duration,
	logger *zap.Logger,
) *Provider {
	return &Provider{
		api:        openai.NewClient(apiKey),
		model:      model,
		attempts:   attempts,
		retryBase:  retryBase,
		imageLimit: rate.NewLimiter(rate.Limit(float64(imageLimit)/imageWindow.Seconds()), imageLimit),
		logger:     logger,
	}
}

// GenerateText runs one chat completion with the system/user message pair,
// retrying internally until the attempt budget is exhausted. An empty
// completion counts as a failed attempt. Errors surface as transient: the
// caller's own retry accounting treats one exhausted GenerateText call as a
// single failed attempt.
func (p *Provider) GenerateText(ctx context.Context, system, user string, maxTokens int) (string, error) {
	var content string

	operation := func() error {
		resp, err := p.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       p.model,
			Temperature: 0.7,
			MaxTokens:   maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return errors.New("provider returned empty completion")
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.retryBase
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = p.retryBase * 16
	b.MaxElapsedTime = 0

	notify := func(err error, next time.Duration) {
		p.logger.Warn("completion attempt failed, backing off",
			zap.Duration("next_retry_in", next),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(
		operation,
		backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(p.attempts-1)),
		notify,
	)
	if err != nil {
		return "", apperrors.Transientf("text generation failed after %d attempts: %v", p.attempts, err)
	}

	return content, nil
}

// GenerateImage produces one image for the prompt and returns its URL.
// The call blocks while the sliding rate window is full rather than failing.
func (p *Provider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := p.imageLimit.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := p.api.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", apperrors.Transientf("image generation: %v", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", apperrors.Transientf("image generation returned no url")
	}

	return resp.Data[0].URL, nil
}

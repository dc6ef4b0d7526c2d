package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionBudgetShortPrompt(t *testing.T) {
	// 40 chars is 10 estimated tokens.
	budget := CompletionBudget(strings.Repeat("x", 40))
	assert.Equal(t, maxTokensPerSection-10-tokenBuffer, budget)
}

func TestCompletionBudgetFloor(t *testing.T) {
	budget := CompletionBudget(strings.Repeat("x", 4*maxTokensPerSection))
	assert.Equal(t, minCompletionTokens, budget)
}

func TestSystemPromptMentionsSectionTypeAndBudget(t *testing.T) {
	got := SystemPrompt("industry_trends", 1400)
	assert.Contains(t, got, "industry_trends")
	assert.Contains(t, got, "1400 tokens")
}

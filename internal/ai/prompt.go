package ai

import "fmt"

// Token budget per section. Prompt plus completion must stay under the
// per-section ceiling; the buffer reserves room for the system message.
const (
	maxTokensPerSection = 2048
	tokenBuffer         = 200
	minCompletionTokens = 256
)

// CompletionBudget returns the max output tokens for a rendered prompt,
// estimating prompt size at four characters per token.
func CompletionBudget(prompt string) int {
	promptTokens := (len(prompt) + 3) / 4
	available := maxTokensPerSection - promptTokens - tokenBuffer
	if available < minCompletionTokens {
		return minCompletionTokens
	}
	return available
}

// SystemPrompt frames the completion for one section type and states the
// output ceiling so the model keeps the section within budget.
func SystemPrompt(sectionType string, budget int) string {
	return fmt.Sprintf(
		"You are a professional newsletter writer. Write a %s section for a newsletter. "+
			"Keep it concise, engaging, and relevant to the target audience. "+
			"Start with a short title on the first line. "+
			"Your response must not exceed %d tokens.",
		sectionType, budget,
	)
}

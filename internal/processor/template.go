package processor

import (
	"strings"

	"LetterForge/internal/models"
)

// Neutral fillers for placeholders the company profile cannot resolve.
var placeholderFillers = map[string]string{
	"company_name":         "your company",
	"industry":             "your industry",
	"target_audience":      "our audience",
	"audience_description": "interested in our products and services",
}

// RenderPrompt substitutes the company profile into the named placeholders
// of a prompt template. A placeholder whose value is empty gets its neutral
// filler instead of erroring.
func RenderPrompt(template string, c *models.Company) string {
	values := map[string]string{
		"company_name":         c.Name,
		"industry":             c.Industry,
		"target_audience":      c.TargetAudience,
		"audience_description": c.AudienceDescription,
	}

	out := template
	for name, value := range values {
		if value == "" {
			value = placeholderFillers[name]
		}
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}

package ai

import (
	"strings"

	"LetterForge/internal/apperrors"
)

// ParseSectionContent splits a raw completion into a section title and body.
// The title is the first non-empty line with leading markdown heading markers
// stripped; everything after that line is the body. An empty completion is a
// transient failure so the job can be retried.
//
// The first-line-is-title convention is deliberately isolated here; nothing
// else in the pipeline may assume it.
func ParseSectionContent(raw string) (title, body string, err error) {
	lines := strings.Split(raw, "\n")

	titleIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			titleIdx = i
			break
		}
	}
	if titleIdx == -1 {
		return "", "", apperrors.Transientf("empty generation output")
	}

	title = strings.TrimSpace(lines[titleIdx])
	title = strings.TrimSpace(strings.TrimLeft(title, "#"))

	body = strings.TrimSpace(strings.Join(lines[titleIdx+1:], "\n"))

	if title == "" {
		return "", "", apperrors.Transientf("generation output has no title line")
	}
	return title, body, nil
}

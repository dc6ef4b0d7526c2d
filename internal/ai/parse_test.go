package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LetterForge/internal/apperrors"
)

func TestParseSectionContent(t *testing.T) {
	title, body, err := ParseSectionContent("# Welcome Aboard\nFirst paragraph.\n\nSecond paragraph.")
	require.NoError(t, err)
	assert.Equal(t, "Welcome Aboard", title)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", body)
}

func TestParseSectionContentPlainTitle(t *testing.T) {
	title, body, err := ParseSectionContent("Welcome Aboard\nBody text.")
	require.NoError(t, err)
	assert.Equal(t, "Welcome Aboard", title)
	assert.Equal(t, "Body text.", body)
}

func TestParseSectionContentSkipsLeadingBlankLines(t *testing.T) {
	title, body, err := ParseSectionContent("\n\n## Trends\nBody.")
	require.NoError(t, err)
	assert.Equal(t, "Trends", title)
	assert.Equal(t, "Body.", body)
}

func TestParseSectionContentTitleOnly(t *testing.T) {
	title, body, err := ParseSectionContent("Just a title")
	require.NoError(t, err)
	assert.Equal(t, "Just a title", title)
	assert.Empty(t, body)
}

func TestParseSectionContentEmptyIsTransient(t *testing.T) {
	_, _, err := ParseSectionContent("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransientProvider))

	_, _, err = ParseSectionContent("   \n\n  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransientProvider))
}

func TestParseSectionContentHeadingMarkersOnly(t *testing.T) {
	_, _, err := ParseSectionContent("###\nBody.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransientProvider))
}

package csvparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContacts(t *testing.T) {
	in := strings.NewReader("Email,Name\na@acme.test,Ada\nb@acme.test,Ben\n")

	rows, err := ParseContacts(in, 0)
	require.NoError(t, err)
	assert.Equal(t, []ContactRow{
		{Email: "a@acme.test", Name: "Ada"},
		{Email: "b@acme.test", Name: "Ben"},
	}, rows)
}

func TestParseContactsHeaderCaseInsensitive(t *testing.T) {
	in := strings.NewReader("NAME,EMAIL\nAda,a@acme.test\n")

	rows, err := ParseContacts(in, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a@acme.test", rows[0].Email)
	assert.Equal(t, "Ada", rows[0].Name)
}

func TestParseContactsNameOptional(t *testing.T) {
	in := strings.NewReader("Email\na@acme.test\n")

	rows, err := ParseContacts(in, 0)
	require.NoError(t, err)
	assert.Equal(t, []ContactRow{{Email: "a@acme.test"}}, rows)
}

func TestParseContactsSkipsBlankAndMalformedRows(t *testing.T) {
	in := strings.NewReader("Email,Name\n,NoEmail\na@acme.test,Ada\nlonely-field\n")

	rows, err := ParseContacts(in, 0)
	require.NoError(t, err)
	assert.Equal(t, []ContactRow{{Email: "a@acme.test", Name: "Ada"}}, rows)
}

func TestParseContactsMaxRows(t *testing.T) {
	in := strings.NewReader("Email\na@acme.test\nb@acme.test\nc@acme.test\n")

	rows, err := ParseContacts(in, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParseContactsMissingEmailColumn(t *testing.T) {
	_, err := ParseContacts(strings.NewReader("Name\nAda\n"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email column")
}

func TestParseContactsNoDataRows(t *testing.T) {
	_, err := ParseContacts(strings.NewReader("Email,Name\n"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one data row")
}

package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	valid := []string{
		"a@acme.test",
		"first.last@sub.example.com",
		"user+tag@example.io",
	}
	for _, addr := range valid {
		assert.True(t, ValidateAddress(addr), addr)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@nodot",
		"user name@example.com",
		"user@exa mple.com",
	}
	for _, addr := range invalid {
		assert.False(t, ValidateAddress(addr), addr)
	}
}

func TestSendRejectsInvalidRecipient(t *testing.T) {
	s := &Sender{Host: "localhost", Port: 2525, From: "news@acme.test"}

	err := s.Send("not-an-address", "", "Subject", "<p>Body</p>")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email address")
}

package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"contactiq/internal/models"
)

func TestAccountID(t *testing.T) {
	assert.Equal(t, "gmail_jane@gmail.com", AccountID(models.ProviderGmail, "Jane@Gmail.com"))
	assert.Equal(t, "imap_jane@acme.io", AccountID(models.ProviderIMAP, "jane@acme.io"))
}

func TestParseSender(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		wantN  string
		wantE  string
	}{
		{"angle form", "Jane Doe <jane@acme.io>", "Jane Doe", "jane@acme.io"},
		{"quoted name", `"Doe, Jane" <Jane@Acme.IO>`, "Doe, Jane", "jane@acme.io"},
		{"bare address", "jane.doe@acme.io", "Jane Doe", "jane.doe@acme.io"},
		{"underscored local part", "jane_doe@acme.io", "Jane Doe", "jane_doe@acme.io"},
		{"no display name in brackets", "<jane@acme.io>", "Jane", "jane@acme.io"},
		{"invalid address", "not a sender", "", ""},
		{"angle form invalid address", "Jane <not-an-email>", "Jane", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, email := ParseSender(tt.sender)
			assert.Equal(t, tt.wantN, name)
			assert.Equal(t, tt.wantE, email)
		})
	}
}

func TestNameFromLocalPart(t *testing.T) {
	assert.Equal(t, "Jane Doe", nameFromLocalPart("jane.doe@acme.io"))
	assert.Equal(t, "Jane Doe Smith", nameFromLocalPart("jane-doe_smith@acme.io"))
	assert.Equal(t, "Jane", nameFromLocalPart("jane@acme.io"))
}

func TestTruncatePreview(t *testing.T) {
	assert.Equal(t, "short", truncatePreview("  short  ", 10))
	assert.Equal(t, "exact", truncatePreview("exact", 5))
	assert.Equal(t, "abc", truncatePreview("abcdef", 3))
	// rune-safe, not byte-safe
	assert.Equal(t, "héll", truncatePreview("héllo wörld", 4))
}

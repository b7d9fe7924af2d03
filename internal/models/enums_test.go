package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"simple address", "jane@example.com", true},
		{"dotted local part", "jane.doe@example.com", true},
		{"plus tag", "jane+tag@example.com", true},
		{"subdomain", "jane@mail.example.co.uk", true},
		{"empty", "", false},
		{"missing domain", "jane@", false},
		{"missing local part", "@example.com", false},
		{"no tld", "jane@example", false},
		{"spaces", "jane doe@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidEmail(tt.email))
		})
	}
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "example.com", Domain("jane@example.com"))
	assert.Equal(t, "example.com", Domain("jane@EXAMPLE.COM"))
	assert.Equal(t, "", Domain("not-an-email"))
}

func TestProviderFromEmail(t *testing.T) {
	tests := []struct {
		email    string
		provider Provider
	}{
		{"a@gmail.com", ProviderGmail},
		{"a@outlook.com", ProviderOutlook},
		{"a@hotmail.com", ProviderOutlook},
		{"a@live.com", ProviderOutlook},
		{"a@yahoo.com", ProviderYahoo},
		{"a@icloud.com", ProviderICloud},
		{"a@me.com", ProviderICloud},
		{"a@acme.io", ProviderOther},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.provider, ProviderFromEmail(tt.email))
		})
	}
}

func TestContactTypeFromEmail(t *testing.T) {
	tests := []struct {
		email       string
		contactType ContactType
	}{
		{"a@google.com", TypeBigTech},
		{"a@mit.edu", TypeAcademic},
		{"a@university-lab.org", TypeAcademic},
		{"a@irs.gov", TypeGovernment},
		{"a@gmail.com", TypePersonal},
		{"a@icloud.com", TypePersonal},
		{"a@acme.io", TypeBusiness},
		{"not-an-email", TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.contactType, ContactTypeFromEmail(tt.email))
		})
	}
}

func TestSkipAddress(t *testing.T) {
	assert.True(t, SkipAddress("noreply@example.com"))
	assert.True(t, SkipAddress("NO-REPLY@example.com"))
	assert.True(t, SkipAddress("newsletter@acme.io"))
	assert.True(t, SkipAddress("support@acme.io"))
	assert.True(t, SkipAddress("info@acme.io"))
	assert.False(t, SkipAddress("jane@example.com"))
	assert.False(t, SkipAddress("sales@acme.io"))
}

// Package connector is the boundary between mailbox providers and the core.
// A Source produces normalized raw records; it never touches contact state.
// Sources may run in parallel, but their output must be handed to a single
// aggregation pass.
package connector

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"contactiq/internal/models"
)

// Options bounds one extraction pass.
type Options struct {
	DaysBack    int
	MaxMessages int
}

// Source extracts raw per-message records from one mailbox account.
type Source interface {
	// AccountID identifies the source account, e.g. "imap_user@example.com".
	AccountID() string
	// Extract produces raw records for the aggregator.
	Extract(ctx context.Context, opts Options) ([]models.RawRecord, error)
}

// AccountID builds the canonical account identifier for a provider/address
// pair.
func AccountID(provider models.Provider, email string) string {
	return string(provider) + "_" + strings.ToLower(email)
}

// ParseSender splits sender header forms like `John Doe <john@example.com>`
// into a display name and a lower-cased address. When the header carries no
// display name, one is inferred from the address local part.
func ParseSender(sender string) (name, email string) {
	sender = strings.TrimSpace(sender)

	if open := strings.Index(sender, "<"); open >= 0 {
		if close := strings.Index(sender, ">"); close > open {
			name = strings.Trim(strings.TrimSpace(sender[:open]), `"'`)
			email = strings.ToLower(strings.TrimSpace(sender[open+1 : close]))
		}
	} else {
		email = strings.ToLower(sender)
	}

	if !models.ValidEmail(email) {
		return name, ""
	}
	if name == "" {
		name = nameFromLocalPart(email)
	}
	return name, email
}

var localPartCaser = cases.Title(language.Und)

// nameFromLocalPart guesses a display name from "jane.doe" style local parts.
func nameFromLocalPart(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	return localPartCaser.String(local)
}

// truncatePreview bounds a body preview to n runes.
func truncatePreview(body string, n int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= n {
		return body
	}
	return string(runes[:n])
}

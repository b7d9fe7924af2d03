package models

import (
	"regexp"
	"strings"
)

// Provider classifies the mail service behind a contact's address.
type Provider string

const (
	ProviderGmail   Provider = "gmail"
	ProviderOutlook Provider = "outlook"
	ProviderYahoo   Provider = "yahoo"
	ProviderICloud  Provider = "icloud"
	ProviderIMAP    Provider = "imap"
	ProviderOther   Provider = "other"
)

// ContactType classifies the kind of organization behind a contact's domain.
type ContactType string

const (
	TypePersonal   ContactType = "personal"
	TypeBusiness   ContactType = "business"
	TypeBigTech    ContactType = "big_tech"
	TypeAcademic   ContactType = "academic"
	TypeGovernment ContactType = "government"
	TypeUnknown    ContactType = "unknown"
)

// InteractionKind is the kind of observed interaction.
type InteractionKind string

const (
	KindSent     InteractionKind = "sent"
	KindReceived InteractionKind = "received"
	KindCC       InteractionKind = "cc"
	KindBCC      InteractionKind = "bcc"
	KindMeeting  InteractionKind = "meeting"
	KindCall     InteractionKind = "call"
)

// Direction of an interaction relative to the owner's account.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Sentiment label attached to an interaction by an analyzer.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether addr looks like a usable email address.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// Domain extracts the lower-cased domain part of an email address.
func Domain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return strings.ToLower(email[i+1:])
	}
	return ""
}

// ProviderFromEmail infers the mail provider from the address domain.
func ProviderFromEmail(email string) Provider {
	domain := Domain(email)
	switch {
	case strings.Contains(domain, "gmail.com"):
		return ProviderGmail
	case strings.Contains(domain, "outlook.com"),
		strings.Contains(domain, "hotmail.com"),
		strings.Contains(domain, "live.com"):
		return ProviderOutlook
	case strings.Contains(domain, "yahoo.com"):
		return ProviderYahoo
	case strings.Contains(domain, "icloud.com"), strings.Contains(domain, "me.com"):
		return ProviderICloud
	default:
		return ProviderOther
	}
}

var bigTechDomains = []string{"google.com", "apple.com", "microsoft.com", "amazon.com", "meta.com"}

var personalDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"icloud.com":  true,
}

// ContactTypeFromEmail infers a contact-type classification from the address domain.
func ContactTypeFromEmail(email string) ContactType {
	domain := Domain(email)
	if domain == "" {
		return TypeUnknown
	}

	for _, tech := range bigTechDomains {
		if strings.Contains(domain, tech) {
			return TypeBigTech
		}
	}
	if strings.HasSuffix(domain, ".edu") || strings.Contains(domain, "university") || strings.Contains(domain, "college") {
		return TypeAcademic
	}
	if strings.HasSuffix(domain, ".gov") || strings.Contains(domain, "government") {
		return TypeGovernment
	}
	if personalDomains[domain] {
		return TypePersonal
	}
	return TypeBusiness
}

var skipPatterns = []string{
	"noreply", "no-reply", "donotreply", "do-not-reply",
	"automated", "notifications", "newsletter", "marketing",
	"support@", "info@", "admin@", "webmaster@",
}

// SkipAddress reports whether an address is an automated sender that should
// never become a contact.
func SkipAddress(email string) bool {
	lower := strings.ToLower(email)
	for _, pattern := range skipPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

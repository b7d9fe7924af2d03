package enrichment

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"contactiq/internal/models"
)

// tldCountries maps country-code TLDs to an inferred location.
var tldCountries = map[string]string{
	".uk": "United Kingdom",
	".ca": "Canada",
	".au": "Australia",
	".de": "Germany",
	".fr": "France",
	".nl": "Netherlands",
	".il": "Israel",
}

// DomainInference is the zero-cost source: it infers a company name and a
// location from the address domain alone. No network, low confidence.
type DomainInference struct{}

// NewDomainInference creates the domain inference source.
func NewDomainInference() *DomainInference {
	return &DomainInference{}
}

func (d *DomainInference) ID() string { return "domain_inference" }

func (d *DomainInference) Enabled() bool { return true }

// Enrich infers company and location fields from the contact's domain.
func (d *DomainInference) Enrich(_ context.Context, contact *models.Contact) (Result, error) {
	fields := make(map[string]string)

	if contact.Domain != "" && contact.ContactType != models.TypePersonal {
		fields["company"] = companyFromDomain(contact.Domain)
	}

	for tld, country := range tldCountries {
		if strings.HasSuffix(contact.Domain, tld) {
			fields["location"] = country
			break
		}
	}

	return Result{
		Fields:     fields,
		Source:     d.ID(),
		Confidence: 0.3,
		Cost:       0,
	}, nil
}

var titleCaser = cases.Title(language.Und)

// companyFromDomain turns "acme-corp.com" into "Acme Corp".
func companyFromDomain(domain string) string {
	base := domain
	for _, suffix := range []string{".com", ".org", ".net", ".io", ".co"} {
		base = strings.TrimSuffix(base, suffix)
	}
	base = strings.TrimPrefix(base, "www.")
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return titleCaser.String(base)
}

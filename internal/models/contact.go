package models

import (
	"strings"
	"time"
)

// Stats holds interaction counters, either globally or for one source account.
type Stats struct {
	Frequency    int `json:"frequency"`
	SentTo       int `json:"sent_to"`
	ReceivedFrom int `json:"received_from"`
	CCCount      int `json:"cc_count"`
	BCCCount     int `json:"bcc_count"`
	MeetingCount int `json:"meeting_count"`
	CallCount    int `json:"call_count"`
}

// Add counts one interaction of the given kind.
func (s *Stats) Add(kind InteractionKind) {
	s.Frequency++
	switch kind {
	case KindSent:
		s.SentTo++
	case KindReceived:
		s.ReceivedFrom++
	case KindCC:
		s.CCCount++
	case KindBCC:
		s.BCCCount++
	case KindMeeting:
		s.MeetingCount++
	case KindCall:
		s.CallCount++
	}
}

// Sum returns the counter-wise sum of two stat tables.
func (s Stats) Sum(other Stats) Stats {
	return Stats{
		Frequency:    s.Frequency + other.Frequency,
		SentTo:       s.SentTo + other.SentTo,
		ReceivedFrom: s.ReceivedFrom + other.ReceivedFrom,
		CCCount:      s.CCCount + other.CCCount,
		BCCCount:     s.BCCCount + other.BCCCount,
		MeetingCount: s.MeetingCount + other.MeetingCount,
		CallCount:    s.CallCount + other.CallCount,
	}
}

// EnrichmentMetadata tracks how a contact's profile was enriched.
type EnrichmentMetadata struct {
	SourcesUsed      []string           `json:"sources_used"`
	TotalCost        float64            `json:"total_cost"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	APICalls         int                `json:"api_calls"`
	LastEnriched     time.Time          `json:"last_enriched"`
}

// ContactScore is the derived relationship intelligence for a contact.
// It is recomputed on demand by the scoring engine, never maintained
// incrementally, so it is always consistent with the contact at read time.
type ContactScore struct {
	OverallScore         float64 `json:"overall_score"`
	RelationshipStrength float64 `json:"relationship_strength"`
	EngagementScore      float64 `json:"engagement_score"`
	ImportanceScore      float64 `json:"importance_score"`
	ResponseLikelihood   float64 `json:"response_likelihood"`

	// Factors records the raw counts and boolean signals that produced the
	// score, for auditability.
	Factors      map[string]interface{} `json:"factors"`
	CalculatedAt time.Time              `json:"calculated_at"`
}

// Contact is the aggregate record of one real-world correspondent, keyed by
// normalized email address.
type Contact struct {
	Email       string      `json:"email"`
	Domain      string      `json:"domain"`
	Name        string      `json:"name"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Provider    Provider    `json:"provider"`
	ContactType ContactType `json:"contact_type"`

	SourceAccounts       []string `json:"source_accounts"`
	PrimarySourceAccount string   `json:"primary_source_account"`

	PhoneNumbers      []string `json:"phone_numbers"`
	AlternativeEmails []string `json:"alternative_emails"`
	Location          string   `json:"location"`
	Timezone          string   `json:"timezone"`

	JobTitle          string `json:"job_title"`
	Company           string `json:"company"`
	CompanySize       string `json:"company_size"`
	Industry          string `json:"industry"`
	Department        string `json:"department"`
	SeniorityLevel    string `json:"seniority_level"`
	EstimatedNetWorth string `json:"estimated_net_worth"`

	LinkedInURL    string `json:"linkedin_url"`
	TwitterHandle  string `json:"twitter_handle"`
	GitHubUsername string `json:"github_username"`

	Stats        Stats            `json:"stats"`
	AccountStats map[string]Stats `json:"account_stats"`

	FirstSeen     time.Time  `json:"first_seen"`
	LastSeen      time.Time  `json:"last_seen"`
	LastContacted *time.Time `json:"last_contacted,omitempty"`
	LastResponse  *time.Time `json:"last_response,omitempty"`

	Interactions []Interaction `json:"interactions"`
	Tags         []string      `json:"tags"`
	Notes        string        `json:"notes"`

	Enrichment  EnrichmentMetadata `json:"enrichment"`
	DataSources []string           `json:"data_sources"`
	Confidence  float64            `json:"confidence"`
	Verified    bool               `json:"verified"`

	Score *ContactScore `json:"score,omitempty"`
}

// NewContact creates a contact for a normalized email address, deriving the
// domain, provider and contact-type classifications and parsing the display
// name into first/last parts.
func NewContact(email, name string, seen time.Time) *Contact {
	email = strings.ToLower(strings.TrimSpace(email))
	c := &Contact{
		Email:        email,
		Domain:       Domain(email),
		Name:         name,
		Provider:     ProviderFromEmail(email),
		ContactType:  ContactTypeFromEmail(email),
		AccountStats: make(map[string]Stats),
		FirstSeen:    seen,
		LastSeen:     seen,
		Enrichment: EnrichmentMetadata{
			ConfidenceScores: make(map[string]float64),
		},
	}
	c.FirstName, c.LastName = ParseName(name)
	return c
}

// ParseName splits a display name into first and last parts.
func ParseName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch {
	case len(parts) >= 2:
		return parts[0], strings.Join(parts[1:], " ")
	case len(parts) == 1:
		return parts[0], ""
	}
	return "", ""
}

// AddSourceAccount registers a source account, creating its stats entry. The
// first account ever associated becomes the primary source account.
func (c *Contact) AddSourceAccount(accountID string) {
	if accountID == "" {
		return
	}
	for _, id := range c.SourceAccounts {
		if id == accountID {
			if c.PrimarySourceAccount == "" {
				c.PrimarySourceAccount = accountID
			}
			return
		}
	}
	c.SourceAccounts = append(c.SourceAccounts, accountID)
	if c.AccountStats == nil {
		c.AccountStats = make(map[string]Stats)
	}
	if _, ok := c.AccountStats[accountID]; !ok {
		c.AccountStats[accountID] = Stats{}
	}
	if c.PrimarySourceAccount == "" {
		c.PrimarySourceAccount = accountID
	}
}

// AddInteraction appends an interaction and updates global and per-account
// counters and timestamps. LastContacted and LastResponse track the most
// recently ingested event of each direction, not the temporally latest one;
// callers that need temporal semantics must ingest in timestamp order.
func (c *Contact) AddInteraction(in Interaction) {
	c.Interactions = append(c.Interactions, in)
	c.Stats.Add(in.Kind)

	if in.SourceAccount != "" {
		if c.AccountStats == nil {
			c.AccountStats = make(map[string]Stats)
		}
		stats := c.AccountStats[in.SourceAccount]
		stats.Add(in.Kind)
		c.AccountStats[in.SourceAccount] = stats
	}

	if in.Timestamp.After(c.LastSeen) {
		c.LastSeen = in.Timestamp
	}
	if c.FirstSeen.IsZero() || in.Timestamp.Before(c.FirstSeen) {
		c.FirstSeen = in.Timestamp
	}

	ts := in.Timestamp
	switch in.Direction {
	case DirectionOutbound:
		c.LastContacted = &ts
	case DirectionInbound:
		c.LastResponse = &ts
	}
}

// StatsForAccount returns the interaction counters for one account, or a zero
// table when the account is unknown.
func (c *Contact) StatsForAccount(accountID string) Stats {
	if stats, ok := c.AccountStats[accountID]; ok {
		return stats
	}
	return Stats{}
}

// enrichable maps enrichment field names onto contact profile fields.
// Unknown field names are ignored by ApplyEnrichment.
func (c *Contact) enrichable(field string) *string {
	switch field {
	case "name":
		return &c.Name
	case "first_name":
		return &c.FirstName
	case "last_name":
		return &c.LastName
	case "location":
		return &c.Location
	case "timezone":
		return &c.Timezone
	case "job_title":
		return &c.JobTitle
	case "company":
		return &c.Company
	case "company_size":
		return &c.CompanySize
	case "industry":
		return &c.Industry
	case "department":
		return &c.Department
	case "seniority_level":
		return &c.SeniorityLevel
	case "estimated_net_worth":
		return &c.EstimatedNetWorth
	case "linkedin_url":
		return &c.LinkedInURL
	case "twitter_handle":
		return &c.TwitterHandle
	case "github_username":
		return &c.GitHubUsername
	}
	return nil
}

// ApplyEnrichment merges enrichment fields into the profile and updates the
// enrichment metadata. Non-empty values overwrite, unknown field names are
// ignored and missing keys never fail. The aggregate confidence becomes the
// arithmetic mean of all recorded per-source confidences.
func (c *Contact) ApplyEnrichment(fields map[string]string, sourceID string, confidence, cost float64) {
	for name, value := range fields {
		if value == "" {
			continue
		}
		switch name {
		case "phone_number":
			c.PhoneNumbers = appendUnique(c.PhoneNumbers, value)
		case "alternative_email":
			c.AlternativeEmails = appendUnique(c.AlternativeEmails, strings.ToLower(value))
		default:
			if target := c.enrichable(name); target != nil {
				*target = value
			}
		}
	}

	c.Enrichment.SourcesUsed = appendUnique(c.Enrichment.SourcesUsed, sourceID)
	c.Enrichment.TotalCost += cost
	if c.Enrichment.ConfidenceScores == nil {
		c.Enrichment.ConfidenceScores = make(map[string]float64)
	}
	c.Enrichment.ConfidenceScores[sourceID] = confidence
	c.Enrichment.APICalls++
	c.Enrichment.LastEnriched = time.Now().UTC()

	var total float64
	for _, score := range c.Enrichment.ConfidenceScores {
		total += score
	}
	c.Confidence = total / float64(len(c.Enrichment.ConfidenceScores))

	c.DataSources = appendUnique(c.DataSources, sourceID)
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

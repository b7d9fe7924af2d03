package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ToRecord converts a contact to a flat field→value mapping suitable for any
// persistence or export layer. Timestamps are ISO-8601, list fields are
// comma-joined and per-account stats are carried as a JSON blob. Derived
// scores are not part of the record; they are recomputed from state.
func (c *Contact) ToRecord() map[string]interface{} {
	record := map[string]interface{}{
		"email":                  c.Email,
		"domain":                 c.Domain,
		"name":                   c.Name,
		"first_name":             c.FirstName,
		"last_name":              c.LastName,
		"provider":               string(c.Provider),
		"contact_type":           string(c.ContactType),
		"phone_numbers":          strings.Join(c.PhoneNumbers, ","),
		"alternative_emails":     strings.Join(c.AlternativeEmails, ","),
		"location":               c.Location,
		"timezone":               c.Timezone,
		"job_title":              c.JobTitle,
		"company":                c.Company,
		"company_size":           c.CompanySize,
		"industry":               c.Industry,
		"department":             c.Department,
		"seniority_level":        c.SeniorityLevel,
		"estimated_net_worth":    c.EstimatedNetWorth,
		"linkedin_url":           c.LinkedInURL,
		"twitter_handle":         c.TwitterHandle,
		"github_username":        c.GitHubUsername,
		"frequency":              c.Stats.Frequency,
		"sent_to":                c.Stats.SentTo,
		"received_from":          c.Stats.ReceivedFrom,
		"cc_count":               c.Stats.CCCount,
		"bcc_count":              c.Stats.BCCCount,
		"meeting_count":          c.Stats.MeetingCount,
		"call_count":             c.Stats.CallCount,
		"source_accounts":        strings.Join(c.SourceAccounts, ","),
		"primary_source_account": c.PrimarySourceAccount,
		"data_sources":           strings.Join(c.DataSources, ","),
		"tags":                   strings.Join(c.Tags, ","),
		"confidence":             c.Confidence,
		"verified":               c.Verified,
		"enrichment_cost":        c.Enrichment.TotalCost,
		"first_seen":             c.FirstSeen.UTC().Format(time.RFC3339),
		"last_seen":              c.LastSeen.UTC().Format(time.RFC3339),
	}

	if c.LastContacted != nil {
		record["last_contacted"] = c.LastContacted.UTC().Format(time.RFC3339)
	}
	if c.LastResponse != nil {
		record["last_response"] = c.LastResponse.UTC().Format(time.RFC3339)
	}
	if len(c.AccountStats) > 0 {
		if blob, err := json.Marshal(c.AccountStats); err == nil {
			record["account_stats"] = string(blob)
		}
	}

	return record
}

// FromRecord rebuilds a contact from its flat record form. Domain, provider
// and contact-type are recomputed from the email rather than trusted from the
// record.
func FromRecord(record map[string]interface{}) *Contact {
	c := NewContact(recString(record, "email"), recString(record, "name"), time.Time{})

	if v := recString(record, "first_name"); v != "" {
		c.FirstName = v
	}
	if v := recString(record, "last_name"); v != "" {
		c.LastName = v
	}

	c.PhoneNumbers = splitList(recString(record, "phone_numbers"))
	c.AlternativeEmails = splitList(recString(record, "alternative_emails"))
	c.Location = recString(record, "location")
	c.Timezone = recString(record, "timezone")
	c.JobTitle = recString(record, "job_title")
	c.Company = recString(record, "company")
	c.CompanySize = recString(record, "company_size")
	c.Industry = recString(record, "industry")
	c.Department = recString(record, "department")
	c.SeniorityLevel = recString(record, "seniority_level")
	c.EstimatedNetWorth = recString(record, "estimated_net_worth")
	c.LinkedInURL = recString(record, "linkedin_url")
	c.TwitterHandle = recString(record, "twitter_handle")
	c.GitHubUsername = recString(record, "github_username")

	c.Stats = Stats{
		Frequency:    recInt(record, "frequency"),
		SentTo:       recInt(record, "sent_to"),
		ReceivedFrom: recInt(record, "received_from"),
		CCCount:      recInt(record, "cc_count"),
		BCCCount:     recInt(record, "bcc_count"),
		MeetingCount: recInt(record, "meeting_count"),
		CallCount:    recInt(record, "call_count"),
	}

	c.SourceAccounts = splitList(recString(record, "source_accounts"))
	c.PrimarySourceAccount = recString(record, "primary_source_account")
	c.DataSources = splitList(recString(record, "data_sources"))
	c.Tags = splitList(recString(record, "tags"))
	c.Confidence = recFloat(record, "confidence")
	c.Verified = recBool(record, "verified")
	c.Enrichment.TotalCost = recFloat(record, "enrichment_cost")

	c.FirstSeen = recTime(record, "first_seen")
	c.LastSeen = recTime(record, "last_seen")
	if ts := recTime(record, "last_contacted"); !ts.IsZero() {
		c.LastContacted = &ts
	}
	if ts := recTime(record, "last_response"); !ts.IsZero() {
		c.LastResponse = &ts
	}

	if blob := recString(record, "account_stats"); blob != "" {
		stats := make(map[string]Stats)
		if err := json.Unmarshal([]byte(blob), &stats); err == nil {
			c.AccountStats = stats
		}
	}

	return c
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

func recString(record map[string]interface{}, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

func recInt(record map[string]interface{}, key string) int {
	switch v := record[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func recFloat(record map[string]interface{}, key string) float64 {
	switch v := record[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

func recBool(record map[string]interface{}, key string) bool {
	switch v := record[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func recTime(record map[string]interface{}, key string) time.Time {
	raw, ok := record[key].(string)
	if !ok || raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

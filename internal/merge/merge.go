// Package merge combines contact records that represent the same real-world
// person and scores candidate duplicates. Deciding WHICH contacts to merge is
// the caller's policy; this package only implements the mechanics.
package merge

import (
	"sort"
	"strings"
	"time"

	"contactiq/internal/models"
)

// Merge combines two contacts into a new one. Scalar profile fields take the
// primary's value when non-empty, set-valued fields are unioned, per-account
// stat tables are summed per key and interactions are concatenated and
// re-sorted by timestamp. Aggregate counters are summed from the inputs, not
// re-derived from the merged interaction list. Neither input is mutated, so a
// merge can be evaluated speculatively before committing.
func Merge(primary, secondary *models.Contact) *models.Contact {
	merged := &models.Contact{
		AccountStats: make(map[string]models.Stats),
		Enrichment: models.EnrichmentMetadata{
			ConfidenceScores: make(map[string]float64),
		},
	}

	merged.Email = prefer(primary.Email, secondary.Email)
	merged.Name = prefer(primary.Name, secondary.Name)
	merged.FirstName = prefer(primary.FirstName, secondary.FirstName)
	merged.LastName = prefer(primary.LastName, secondary.LastName)
	merged.Location = prefer(primary.Location, secondary.Location)
	merged.Timezone = prefer(primary.Timezone, secondary.Timezone)
	merged.JobTitle = prefer(primary.JobTitle, secondary.JobTitle)
	merged.Company = prefer(primary.Company, secondary.Company)
	merged.CompanySize = prefer(primary.CompanySize, secondary.CompanySize)
	merged.Industry = prefer(primary.Industry, secondary.Industry)
	merged.Department = prefer(primary.Department, secondary.Department)
	merged.SeniorityLevel = prefer(primary.SeniorityLevel, secondary.SeniorityLevel)
	merged.EstimatedNetWorth = prefer(primary.EstimatedNetWorth, secondary.EstimatedNetWorth)
	merged.LinkedInURL = prefer(primary.LinkedInURL, secondary.LinkedInURL)
	merged.TwitterHandle = prefer(primary.TwitterHandle, secondary.TwitterHandle)
	merged.GitHubUsername = prefer(primary.GitHubUsername, secondary.GitHubUsername)
	merged.Notes = prefer(primary.Notes, secondary.Notes)

	merged.Domain = models.Domain(merged.Email)
	merged.Provider = models.ProviderFromEmail(merged.Email)
	merged.ContactType = models.ContactTypeFromEmail(merged.Email)

	merged.SourceAccounts = union(primary.SourceAccounts, secondary.SourceAccounts)
	merged.PrimarySourceAccount = prefer(primary.PrimarySourceAccount, secondary.PrimarySourceAccount)
	merged.PhoneNumbers = union(primary.PhoneNumbers, secondary.PhoneNumbers)
	merged.AlternativeEmails = union(primary.AlternativeEmails, secondary.AlternativeEmails)
	merged.Tags = union(primary.Tags, secondary.Tags)
	merged.DataSources = union(primary.DataSources, secondary.DataSources)

	for _, accountID := range merged.SourceAccounts {
		merged.AccountStats[accountID] = primary.StatsForAccount(accountID).Sum(secondary.StatsForAccount(accountID))
	}

	merged.Interactions = make([]models.Interaction, 0, len(primary.Interactions)+len(secondary.Interactions))
	merged.Interactions = append(merged.Interactions, primary.Interactions...)
	merged.Interactions = append(merged.Interactions, secondary.Interactions...)
	sort.SliceStable(merged.Interactions, func(i, j int) bool {
		return merged.Interactions[i].Timestamp.Before(merged.Interactions[j].Timestamp)
	})

	// Aggregates are trusted from the inputs; a pre-existing mismatch between
	// an input's counters and its interaction list carries through unchanged.
	merged.Stats = primary.Stats.Sum(secondary.Stats)

	merged.FirstSeen = primary.FirstSeen
	if secondary.FirstSeen.Before(merged.FirstSeen) {
		merged.FirstSeen = secondary.FirstSeen
	}
	merged.LastSeen = primary.LastSeen
	if secondary.LastSeen.After(merged.LastSeen) {
		merged.LastSeen = secondary.LastSeen
	}

	merged.LastContacted = laterOf(primary.LastContacted, secondary.LastContacted)
	merged.LastResponse = laterOf(primary.LastResponse, secondary.LastResponse)

	// A merge never loses the higher-confidence enrichment signal.
	merged.Confidence = max(primary.Confidence, secondary.Confidence)
	merged.Verified = primary.Verified || secondary.Verified
	merged.Enrichment.TotalCost = primary.Enrichment.TotalCost + secondary.Enrichment.TotalCost
	merged.Enrichment.APICalls = primary.Enrichment.APICalls + secondary.Enrichment.APICalls
	merged.Enrichment.SourcesUsed = union(primary.Enrichment.SourcesUsed, secondary.Enrichment.SourcesUsed)
	for source, confidence := range secondary.Enrichment.ConfidenceScores {
		merged.Enrichment.ConfidenceScores[source] = confidence
	}
	for source, confidence := range primary.Enrichment.ConfidenceScores {
		merged.Enrichment.ConfidenceScores[source] = confidence
	}

	return merged
}

// Similarity scores two contacts 0-1 as the mean of up to four factors, each
// counted only when both sides have data for it: exact email match, Jaccard
// similarity of name tokens, exact company match and exact domain match
// (worth 0.8). No applicable factors yields 0, never a false positive from
// absent data.
func Similarity(a, b *models.Contact) float64 {
	var score float64
	var factors int

	if a.Email != "" && b.Email != "" {
		if strings.EqualFold(a.Email, b.Email) {
			score += 1.0
		}
		factors++
	}

	if a.Name != "" && b.Name != "" {
		score += jaccard(nameTokens(a.Name), nameTokens(b.Name))
		factors++
	}

	if a.Company != "" && b.Company != "" {
		if strings.EqualFold(a.Company, b.Company) {
			score += 1.0
		}
		factors++
	}

	if a.Domain != "" && b.Domain != "" {
		if strings.EqualFold(a.Domain, b.Domain) {
			score += 0.8
		}
		factors++
	}

	if factors == 0 {
		return 0
	}
	return score / float64(factors)
}

func nameTokens(name string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(name)) {
		tokens[word] = true
	}
	return tokens
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var common int
	for token := range a {
		if b[token] {
			common++
		}
	}
	return float64(common) / float64(len(a)+len(b)-common)
}

func prefer(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	return secondary
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, value := range list {
			if value == "" || seen[value] {
				continue
			}
			seen[value] = true
			merged = append(merged, value)
		}
	}
	return merged
}

func laterOf(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return copyTime(b)
	case b == nil:
		return copyTime(a)
	case b.After(*a):
		return copyTime(b)
	default:
		return copyTime(a)
	}
}

func copyTime(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	clone := *ts
	return &clone
}

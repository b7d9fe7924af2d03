// Package scoring turns a contact's raw interaction state into
// relationship-strength, engagement, importance and overall scores. Every
// function here is a pure function of the contact snapshot; the only side
// effect of Score is writing the result into the contact's score cache.
package scoring

import (
	"strings"
	"time"

	"contactiq/internal/models"
)

// Weights of the overall score components.
const (
	weightRelationship = 0.4
	weightEngagement   = 0.2
	weightResponse     = 0.2
	weightImportance   = 0.2
)

// bigTech is the fixed company-tier list for the importance signal.
var bigTech = []string{"google", "apple", "microsoft", "amazon", "meta", "netflix"}

var execTerms = []string{"ceo", "cto", "cfo", "founder", "president", "vp", "director"}
var seniorTerms = []string{"senior", "principal", "lead"}

// Score computes the contact score. With a non-empty accountID the
// relationship, engagement and response components are scoped to that
// account's statistics and interactions; importance always reflects the whole
// profile. The result is cached on the contact and returned.
func Score(c *models.Contact, accountID string) *models.ContactScore {
	stats := c.Stats
	if accountID != "" {
		stats = c.StatsForAccount(accountID)
	}

	relationship := relationshipStrength(c, stats)
	engagement := engagementScore(c, accountID)
	response := responseLikelihood(stats)
	importance := importanceScore(c)

	score := &models.ContactScore{
		RelationshipStrength: relationship,
		EngagementScore:      engagement,
		ResponseLikelihood:   response,
		ImportanceScore:      importance,
		OverallScore: relationship*weightRelationship +
			engagement*weightEngagement +
			response*weightResponse +
			importance*weightImportance,
		Factors: map[string]interface{}{
			"total_interactions":          stats.Frequency,
			"bidirectional_communication": stats.SentTo > 0 && stats.ReceivedFrom > 0,
			"days_since_last_seen":        daysSince(c.LastSeen),
			"meeting_calls":               stats.MeetingCount + stats.CallCount,
			"company_known":               c.Company != "",
			"big_tech_company":            isBigTech(c.Company),
			"executive_title":             matchesAny(c.JobTitle, execTerms),
		},
		CalculatedAt: time.Now().UTC(),
	}
	if accountID != "" {
		score.Factors["account_id"] = accountID
	}

	c.Score = score
	return score
}

// RelationshipStrength computes the 0-1 relationship strength for the global
// stats, or for one account when accountID is non-empty.
func RelationshipStrength(c *models.Contact, accountID string) float64 {
	stats := c.Stats
	if accountID != "" {
		stats = c.StatsForAccount(accountID)
	}
	return relationshipStrength(c, stats)
}

// relationshipStrength is a weighted sum of four independently capped
// components: frequency base (≤0.4), bidirectional balance (≤0.3), recency
// (0.05-0.20, never zero) and meeting/call volume (≤0.1).
func relationshipStrength(c *models.Contact, stats models.Stats) float64 {
	if stats.Frequency == 0 {
		return 0
	}

	base := min(float64(stats.Frequency)/25.0, 0.4)

	var bidirectional float64
	if stats.SentTo > 0 && stats.ReceivedFrom > 0 {
		balance := float64(min(stats.SentTo, stats.ReceivedFrom)) / float64(max(stats.SentTo, stats.ReceivedFrom))
		bidirectional = balance * 0.3
	}

	var recency float64
	switch days := daysSince(c.LastSeen); {
	case days <= 7:
		recency = 0.20
	case days <= 30:
		recency = 0.15
	case days <= 90:
		recency = 0.10
	default:
		recency = 0.05
	}

	meetings := min(float64(stats.MeetingCount+stats.CallCount)/10.0, 0.1)

	return min(base+bidirectional+recency+meetings, 1.0)
}

// engagementScore is the share of distinct interaction kinds observed, with
// four kinds as the saturation point.
func engagementScore(c *models.Contact, accountID string) float64 {
	kinds := make(map[models.InteractionKind]bool)
	for _, in := range c.Interactions {
		if accountID != "" && in.SourceAccount != accountID {
			continue
		}
		kinds[in.Kind] = true
	}
	return min(float64(len(kinds))/4.0, 1.0)
}

// responseLikelihood is the received/sent ratio, 0.5 neutral when nothing was
// sent; absence of data is not zero responsiveness. Capped at 1.0 so the
// overall score stays bounded.
func responseLikelihood(stats models.Stats) float64 {
	if stats.SentTo == 0 {
		return 0.5
	}
	return min(float64(stats.ReceivedFrom)/float64(stats.SentTo), 1.0)
}

// importanceScore averages the company-tier and title-seniority signals when
// present; with neither signal it defaults to 0.5 neutral.
func importanceScore(c *models.Contact) float64 {
	var factors []float64

	if c.Company != "" {
		if isBigTech(c.Company) {
			factors = append(factors, 0.9)
		} else {
			factors = append(factors, 0.7)
		}
	}

	if c.JobTitle != "" {
		switch {
		case matchesAny(c.JobTitle, execTerms):
			factors = append(factors, 0.9)
		case matchesAny(c.JobTitle, seniorTerms):
			factors = append(factors, 0.7)
		case strings.Contains(strings.ToLower(c.JobTitle), "manager"):
			factors = append(factors, 0.6)
		default:
			factors = append(factors, 0.5)
		}
	}

	if len(factors) == 0 {
		return 0.5
	}
	var total float64
	for _, f := range factors {
		total += f
	}
	return total / float64(len(factors))
}

func isBigTech(company string) bool {
	return matchesAny(company, bigTech)
}

func matchesAny(value string, terms []string) bool {
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func daysSince(ts time.Time) int {
	return int(time.Since(ts).Hours() / 24)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContact(t *testing.T) *Contact {
	t.Helper()

	base := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	c := NewContact("jane@acme.io", "Jane Doe", base)
	c.AddSourceAccount("gmail_a")
	c.AddSourceAccount("outlook_b")

	c.AddInteraction(interactionAt(KindSent, base, "gmail_a"))
	c.AddInteraction(interactionAt(KindReceived, base.Add(time.Hour), "gmail_a"))
	c.AddInteraction(interactionAt(KindSent, base.Add(2*time.Hour), "outlook_b"))
	c.AddInteraction(interactionAt(KindMeeting, base.Add(3*time.Hour), "outlook_b"))

	c.ApplyEnrichment(map[string]string{
		"company":      "Acme",
		"job_title":    "VP Engineering",
		"phone_number": "+1-555-0100",
	}, "domain_inference", 0.3, 0)
	c.Tags = []string{"prospect", "warm"}
	c.Verified = true

	return c
}

func TestToRecordFields(t *testing.T) {
	c := sampleContact(t)
	record := c.ToRecord()

	assert.Equal(t, "jane@acme.io", record["email"])
	assert.Equal(t, "acme.io", record["domain"])
	assert.Equal(t, "Jane Doe", record["name"])
	assert.Equal(t, "business", record["contact_type"])
	assert.Equal(t, 4, record["frequency"])
	assert.Equal(t, 2, record["sent_to"])
	assert.Equal(t, 1, record["received_from"])
	assert.Equal(t, 1, record["meeting_count"])
	assert.Equal(t, "gmail_a,outlook_b", record["source_accounts"])
	assert.Equal(t, "gmail_a", record["primary_source_account"])
	assert.Equal(t, "prospect,warm", record["tags"])
	assert.Equal(t, "+1-555-0100", record["phone_numbers"])
	assert.Equal(t, "2024-05-10T09:30:00Z", record["first_seen"])
	assert.Equal(t, "2024-05-10T12:30:00Z", record["last_seen"])
	assert.Equal(t, "2024-05-10T11:30:00Z", record["last_contacted"])
	assert.Equal(t, "2024-05-10T10:30:00Z", record["last_response"])

	// derived scores never leak into the record
	assert.NotContains(t, record, "overall_score")
	assert.NotContains(t, record, "relationship_strength")
}

func TestToRecordOmitsUnsetTimestamps(t *testing.T) {
	c := NewContact("bob@example.com", "", time.Now().UTC())
	record := c.ToRecord()

	assert.NotContains(t, record, "last_contacted")
	assert.NotContains(t, record, "last_response")
	assert.NotContains(t, record, "account_stats")
}

func TestRecordRoundTripStable(t *testing.T) {
	c := sampleContact(t)

	first := c.ToRecord()
	rebuilt := FromRecord(first)
	second := rebuilt.ToRecord()

	assert.Equal(t, first, second)
}

func TestFromRecordRecomputesClassification(t *testing.T) {
	record := map[string]interface{}{
		"email":        "jane@google.com",
		"name":         "Jane Doe",
		"provider":     "yahoo", // stale, must be recomputed
		"contact_type": "personal",
		"frequency":    3,
		"sent_to":      "2", // SQLite drivers may hand back strings
		"confidence":   0.8,
		"verified":     true,
		"first_seen":   "2024-01-02T03:04:05Z",
		"last_seen":    "2024-03-02T03:04:05Z",
	}

	c := FromRecord(record)
	require.NotNil(t, c)

	assert.Equal(t, "google.com", c.Domain)
	assert.Equal(t, ProviderOther, c.Provider)
	assert.Equal(t, TypeBigTech, c.ContactType)
	assert.Equal(t, 3, c.Stats.Frequency)
	assert.Equal(t, 2, c.Stats.SentTo)
	assert.InDelta(t, 0.8, c.Confidence, 1e-9)
	assert.True(t, c.Verified)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), c.FirstSeen)
	assert.Nil(t, c.LastContacted)
}

func TestFromRecordAccountStatsBlob(t *testing.T) {
	c := sampleContact(t)
	rebuilt := FromRecord(c.ToRecord())

	assert.Equal(t, c.AccountStats, rebuilt.AccountStats)
	assert.Equal(t, Stats{Frequency: 2, SentTo: 1, ReceivedFrom: 1}, rebuilt.StatsForAccount("gmail_a"))
	assert.Equal(t, Stats{Frequency: 2, SentTo: 1, MeetingCount: 1}, rebuilt.StatsForAccount("outlook_b"))
}

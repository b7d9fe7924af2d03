// Package aggregator owns the email→contact map for one aggregation pass.
// It is single-writer by design: connectors may fetch in parallel, but their
// raw records must be serialized before being handed to Ingest.
package aggregator

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"contactiq/internal/merge"
	"contactiq/internal/models"
)

// Aggregator accumulates contacts from raw per-message records.
type Aggregator struct {
	contacts map[string]*models.Contact
	logger   zerolog.Logger

	accepted int
	rejected int
}

// New creates an empty aggregator.
func New(logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		contacts: make(map[string]*models.Contact),
		logger:   logger,
	}
}

// Ingest normalizes a raw record into an interaction and appends it to the
// matching contact, creating the contact on first sight. Records without a
// usable address, or from automated senders, are dropped and nil is returned;
// ingestion never fails any other way.
func (a *Aggregator) Ingest(rec models.RawRecord, accountID string) *models.Contact {
	email := strings.ToLower(strings.TrimSpace(rec.Email))
	if !models.ValidEmail(email) || models.SkipAddress(email) {
		a.rejected++
		a.logger.Debug().Str("email", rec.Email).Msg("dropped raw record")
		return nil
	}

	contact, ok := a.contacts[email]
	if !ok {
		contact = models.NewContact(email, rec.Name, rec.Timestamp)
		a.contacts[email] = contact
	} else if contact.Name == "" && rec.Name != "" {
		contact.Name = rec.Name
		contact.FirstName, contact.LastName = models.ParseName(rec.Name)
	}

	contact.AddSourceAccount(accountID)
	contact.AddInteraction(models.NewInteraction(rec, accountID))
	a.accepted++
	return contact
}

// IngestBatch ingests a slice of records from one source account and returns
// how many were accepted and rejected.
func (a *Aggregator) IngestBatch(records []models.RawRecord, accountID string) (accepted, rejected int) {
	for _, rec := range records {
		if a.Ingest(rec, accountID) != nil {
			accepted++
		} else {
			rejected++
		}
	}
	a.logger.Info().
		Str("account", accountID).
		Int("accepted", accepted).
		Int("rejected", rejected).
		Msg("ingested record batch")
	return accepted, rejected
}

// Get returns the contact for a normalized email address.
func (a *Aggregator) Get(email string) (*models.Contact, bool) {
	contact, ok := a.contacts[strings.ToLower(strings.TrimSpace(email))]
	return contact, ok
}

// Put registers a contact under its email key, replacing any existing entry.
// Used to commit merge results and to seed the map from storage.
func (a *Aggregator) Put(contact *models.Contact) {
	a.contacts[strings.ToLower(contact.Email)] = contact
}

// Remove drops a contact from the map, e.g. after it was merged into another.
func (a *Aggregator) Remove(email string) {
	delete(a.contacts, strings.ToLower(strings.TrimSpace(email)))
}

// Contacts returns all contacts ordered by email for deterministic output.
func (a *Aggregator) Contacts() []*models.Contact {
	list := make([]*models.Contact, 0, len(a.contacts))
	for _, contact := range a.contacts {
		list = append(list, contact)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return list
}

// Len returns the number of distinct contacts seen so far.
func (a *Aggregator) Len() int {
	return len(a.contacts)
}

// Counts returns how many records were accepted and rejected over the life of
// this aggregation pass.
func (a *Aggregator) Counts() (accepted, rejected int) {
	return a.accepted, a.rejected
}

// MergeDuplicates walks all contact pairs and merges those whose similarity
// meets the threshold, keeping the contact seen first as primary. The
// threshold is caller policy, not fixed here.
func (a *Aggregator) MergeDuplicates(threshold float64) int {
	contacts := a.Contacts()
	merged := 0

	for i := 0; i < len(contacts); i++ {
		primary := contacts[i]
		if _, ok := a.contacts[primary.Email]; !ok {
			continue
		}
		for j := i + 1; j < len(contacts); j++ {
			secondary := contacts[j]
			if _, ok := a.contacts[secondary.Email]; !ok {
				continue
			}
			similarity := merge.Similarity(primary, secondary)
			if similarity < threshold {
				continue
			}
			combined := merge.Merge(primary, secondary)
			a.Remove(primary.Email)
			a.Remove(secondary.Email)
			a.Put(combined)
			primary = combined
			merged++
			a.logger.Info().
				Str("primary", combined.Email).
				Str("secondary", secondary.Email).
				Float64("similarity", similarity).
				Msg("merged duplicate contacts")
		}
	}
	return merged
}

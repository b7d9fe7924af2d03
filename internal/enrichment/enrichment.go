// Package enrichment orchestrates external people-data sources. Sources do
// the network work and return plain (fields, confidence, cost) tuples; the
// contact itself is only ever mutated through ApplyEnrichment, so the core
// stays free of I/O.
package enrichment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"contactiq/internal/models"
)

// Result is what a source learned about one contact.
type Result struct {
	Fields     map[string]string
	Source     string
	Confidence float64
	Cost       float64
}

// Source supplies profile fields for a contact with a stated confidence and
// cost per call.
type Source interface {
	ID() string
	Enabled() bool
	Enrich(ctx context.Context, contact *models.Contact) (Result, error)
}

// Enricher runs every enabled source over contacts, applies the results and
// tracks spend against a budget.
type Enricher struct {
	sources []Source
	cache   *Cache
	logger  zerolog.Logger

	budget float64
	spent  float64
}

// New creates an enricher. A budget of 0 means unlimited spend.
func New(logger zerolog.Logger, budget float64, sources ...Source) *Enricher {
	return &Enricher{
		sources: sources,
		cache:   NewCache(DefaultCacheTTL),
		logger:  logger,
		budget:  budget,
	}
}

// Enrich runs all enabled sources over one contact. Cached results are
// re-applied without spending. Source failures are logged and skipped; a
// contact that cannot be enriched is still a valid contact.
func (e *Enricher) Enrich(ctx context.Context, contact *models.Contact) error {
	if contact.Email == "" {
		return fmt.Errorf("contact has no email")
	}

	if cached, ok := e.cache.Get(contact.Email); ok {
		for _, result := range cached {
			contact.ApplyEnrichment(result.Fields, result.Source, result.Confidence, 0)
		}
		return nil
	}

	var applied []Result
	for _, source := range e.sources {
		if !source.Enabled() {
			continue
		}
		if e.budget > 0 && e.spent >= e.budget {
			e.logger.Warn().Float64("budget", e.budget).Msg("enrichment budget exhausted")
			break
		}

		result, err := source.Enrich(ctx, contact)
		if err != nil {
			e.logger.Warn().Err(err).Str("source", source.ID()).Str("email", contact.Email).
				Msg("enrichment source failed")
			continue
		}

		contact.ApplyEnrichment(result.Fields, result.Source, result.Confidence, result.Cost)
		e.spent += result.Cost
		applied = append(applied, result)
	}

	if len(applied) > 0 {
		e.cache.Set(contact.Email, applied)
	}
	return nil
}

// EnrichAll enriches a contact list in place and returns how many contacts
// received data from at least one source.
func (e *Enricher) EnrichAll(ctx context.Context, contacts []*models.Contact) int {
	enriched := 0
	for _, contact := range contacts {
		before := contact.Enrichment.APICalls
		if err := e.Enrich(ctx, contact); err != nil {
			continue
		}
		if contact.Enrichment.APICalls > before {
			enriched++
		}
	}
	e.logger.Info().
		Int("contacts", len(contacts)).
		Int("enriched", enriched).
		Float64("spent", e.spent).
		Msg("enrichment pass complete")
	return enriched
}

// Spent returns the total cost accumulated so far.
func (e *Enricher) Spent() float64 {
	return e.spent
}

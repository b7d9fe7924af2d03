// Package storage persists aggregated contacts in a local sqlite database.
// Contacts are stored in their flat record form; a handful of columns are
// broken out for querying, the full record rides along as JSON.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"contactiq/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	email         TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	company       TEXT NOT NULL DEFAULT '',
	job_title     TEXT NOT NULL DEFAULT '',
	frequency     INTEGER NOT NULL DEFAULT 0,
	sent_to       INTEGER NOT NULL DEFAULT 0,
	received_from INTEGER NOT NULL DEFAULT 0,
	confidence    REAL NOT NULL DEFAULT 0,
	first_seen    TEXT NOT NULL DEFAULT '',
	last_seen     TEXT NOT NULL DEFAULT '',
	record        TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts(company);
CREATE INDEX IF NOT EXISTS idx_contacts_last_seen ON contacts(last_seen);
`

// Store wraps the contacts database.
type Store struct {
	db *sqlx.DB
}

// New opens (and initializes) the sqlite database at path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path not set")
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite: single writer

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection; used by tests.
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

const upsertQuery = `
	INSERT INTO contacts
		(email, name, company, job_title, frequency, sent_to, received_from,
		 confidence, first_seen, last_seen, record, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(email) DO UPDATE SET
		name = excluded.name,
		company = excluded.company,
		job_title = excluded.job_title,
		frequency = excluded.frequency,
		sent_to = excluded.sent_to,
		received_from = excluded.received_from,
		confidence = excluded.confidence,
		first_seen = excluded.first_seen,
		last_seen = excluded.last_seen,
		record = excluded.record,
		updated_at = excluded.updated_at`

// Save upserts one contact keyed by email.
func (s *Store) Save(ctx context.Context, contact *models.Contact) error {
	return upsert(ctx, s.db, contact)
}

// SaveAll upserts a batch of contacts in one transaction.
func (s *Store) SaveAll(ctx context.Context, contacts []*models.Contact) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, contact := range contacts {
		if err := upsert(ctx, tx, contact); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contacts: %w", err)
	}
	return nil
}

func upsert(ctx context.Context, ext sqlx.ExtContext, contact *models.Contact) error {
	blob, err := json.Marshal(contact.ToRecord())
	if err != nil {
		return fmt.Errorf("failed to encode contact record: %w", err)
	}

	_, err = ext.ExecContext(ctx, upsertQuery,
		contact.Email, contact.Name, contact.Company, contact.JobTitle,
		contact.Stats.Frequency, contact.Stats.SentTo, contact.Stats.ReceivedFrom,
		contact.Confidence,
		contact.FirstSeen.UTC().Format(time.RFC3339),
		contact.LastSeen.UTC().Format(time.RFC3339),
		string(blob),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save contact %s: %w", contact.Email, err)
	}
	return nil
}

// Load returns one contact by email, or nil when absent.
func (s *Store) Load(ctx context.Context, email string) (*models.Contact, error) {
	var blob string
	err := s.db.GetContext(ctx, &blob, `SELECT record FROM contacts WHERE email = ?`, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contact %s: %w", email, err)
	}
	return decodeRecord(blob)
}

// LoadAll returns every stored contact ordered by email.
func (s *Store) LoadAll(ctx context.Context) ([]*models.Contact, error) {
	var blobs []string
	err := s.db.SelectContext(ctx, &blobs, `SELECT record FROM contacts ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	contacts := make([]*models.Contact, 0, len(blobs))
	for _, blob := range blobs {
		contact, err := decodeRecord(blob)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

// Count returns the number of stored contacts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM contacts`); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// Delete removes a contact, e.g. after it was merged into another record.
func (s *Store) Delete(ctx context.Context, email string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE email = ?`, email); err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", email, err)
	}
	return nil
}

func decodeRecord(blob string) (*models.Contact, error) {
	var record map[string]interface{}
	if err := json.Unmarshal([]byte(blob), &record); err != nil {
		return nil, fmt.Errorf("failed to decode contact record: %w", err)
	}
	return models.FromRecord(record), nil
}

package connector

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/rs/zerolog"

	"contactiq/internal/models"
)

// sentFolders are tried in order when looking for the owner's sent mail.
var sentFolders = []string{"Sent", "Sent Messages", "[Gmail]/Sent Mail", "Sent Items"}

// IMAPSource extracts records from a live IMAP mailbox: the inbox for inbound
// interactions and the sent folder for outbound ones.
type IMAPSource struct {
	server   string
	port     int
	owner    string
	password string

	accountID string
	logger    zerolog.Logger
}

// NewIMAPSource creates an IMAP source for one authenticated account.
func NewIMAPSource(server string, port int, owner, password string, logger zerolog.Logger) *IMAPSource {
	owner = strings.ToLower(owner)
	return &IMAPSource{
		server:    server,
		port:      port,
		owner:     owner,
		password:  password,
		accountID: AccountID(models.ProviderIMAP, owner),
		logger:    logger,
	}
}

func (s *IMAPSource) AccountID() string { return s.accountID }

func (s *IMAPSource) connect() (*imapclient.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.server, s.port)

	client, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{ServerName: s.server},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := client.Login(s.owner, s.password).Wait(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return client, nil
}

// Extract fetches envelopes from the inbox and the sent folder and turns them
// into raw records.
func (s *IMAPSource) Extract(ctx context.Context, opts Options) ([]models.RawRecord, error) {
	client, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	cutoff := cutoffTime(opts)

	records, err := s.extractFolder(ctx, client, "INBOX", cutoff, opts.MaxMessages)
	if err != nil {
		return nil, err
	}

	for _, folder := range sentFolders {
		sent, err := s.extractFolder(ctx, client, folder, cutoff, opts.MaxMessages)
		if err != nil {
			continue // folder layout differs per provider; try the next name
		}
		records = append(records, sent...)
		break
	}

	s.logger.Info().
		Str("account", s.accountID).
		Int("records", len(records)).
		Msg("imap extraction complete")
	return records, nil
}

func (s *IMAPSource) extractFolder(ctx context.Context, client *imapclient.Client, folder string, cutoff time.Time, maxMessages int) ([]models.RawRecord, error) {
	mbox, err := client.Select(folder, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to select folder %s: %w", folder, err)
	}
	if mbox.NumMessages == 0 {
		return nil, nil
	}

	// Newest messages only when a cap is set.
	first := uint32(1)
	if maxMessages > 0 && mbox.NumMessages > uint32(maxMessages) {
		first = mbox.NumMessages - uint32(maxMessages) + 1
	}

	var seqSet imap.SeqSet
	seqSet.AddRange(first, mbox.NumMessages)

	fetchCmd := client.Fetch(seqSet, &imap.FetchOptions{
		UID:      true,
		Envelope: true,
	})

	var records []models.RawRecord
	for {
		if err := ctx.Err(); err != nil {
			fetchCmd.Close()
			return nil, err
		}

		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		msgData, err := msg.Collect()
		if err != nil {
			s.logger.Warn().Err(err).Str("folder", folder).Msg("error collecting message")
			continue
		}
		if msgData.Envelope == nil {
			continue
		}
		records = append(records, s.envelopeRecords(msgData.Envelope, cutoff)...)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	return records, nil
}

// envelopeRecords classifies one envelope relative to the owner: sent mail
// yields SENT/CC records per recipient, everything else a RECEIVED record for
// its sender.
func (s *IMAPSource) envelopeRecords(env *imap.Envelope, cutoff time.Time) []models.RawRecord {
	if !cutoff.IsZero() && env.Date.Before(cutoff) {
		return nil
	}

	base := models.RawRecord{
		Timestamp: env.Date,
		Subject:   env.Subject,
		MessageID: strings.Trim(env.MessageID, "<>"),
	}

	var records []models.RawRecord
	if len(env.From) > 0 && addressEmail(env.From[0]) == s.owner {
		for _, addr := range env.To {
			rec := base
			rec.Email = addressEmail(addr)
			rec.Name = addr.Name
			rec.Kind = models.KindSent
			rec.Direction = models.DirectionOutbound
			records = append(records, rec)
		}
		for _, addr := range env.Cc {
			rec := base
			rec.Email = addressEmail(addr)
			rec.Name = addr.Name
			rec.Kind = models.KindCC
			rec.Direction = models.DirectionOutbound
			records = append(records, rec)
		}
	} else if len(env.From) > 0 {
		rec := base
		rec.Email = addressEmail(env.From[0])
		rec.Name = env.From[0].Name
		rec.Kind = models.KindReceived
		rec.Direction = models.DirectionInbound
		records = append(records, rec)
	}
	return records
}

func addressEmail(addr imap.Address) string {
	if addr.Mailbox == "" || addr.Host == "" {
		return ""
	}
	return strings.ToLower(addr.Mailbox + "@" + addr.Host)
}

package connector

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"contactiq/internal/models"
)

const previewLength = 200

// MailboxSource extracts records from local mailbox archives: a single .eml
// file, a directory of .eml files, or an .mbox file. The owner address
// determines interaction direction.
type MailboxSource struct {
	path      string
	owner     string
	accountID string
	logger    zerolog.Logger
}

// NewMailboxSource creates a source over a local mailbox path for the given
// owner address.
func NewMailboxSource(path, owner string, logger zerolog.Logger) *MailboxSource {
	owner = strings.ToLower(owner)
	return &MailboxSource{
		path:      path,
		owner:     owner,
		accountID: AccountID(models.ProviderFromEmail(owner), owner),
		logger:    logger,
	}
}

func (m *MailboxSource) AccountID() string { return m.accountID }

// Extract walks the configured path and emits raw records for every message
// inside the extraction window.
func (m *MailboxSource) Extract(_ context.Context, opts Options) ([]models.RawRecord, error) {
	info, err := os.Stat(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to access mailbox path: %w", err)
	}

	cutoff := cutoffTime(opts)

	var records []models.RawRecord
	switch {
	case info.IsDir():
		records, err = m.extractDirectory(cutoff, opts.MaxMessages)
	case strings.HasSuffix(strings.ToLower(m.path), ".mbox"):
		records, err = m.extractMBOX(cutoff, opts.MaxMessages)
	case strings.HasSuffix(strings.ToLower(m.path), ".eml"):
		records, err = m.extractEML(m.path, cutoff)
	default:
		return nil, fmt.Errorf("unsupported mailbox file: %s", m.path)
	}
	if err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("account", m.accountID).
		Str("path", m.path).
		Int("records", len(records)).
		Msg("mailbox extraction complete")
	return records, nil
}

func (m *MailboxSource) extractDirectory(cutoff time.Time, maxMessages int) ([]models.RawRecord, error) {
	var records []models.RawRecord
	messages := 0

	err := filepath.Walk(m.path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(strings.ToLower(path), ".eml") {
			return nil
		}
		if maxMessages > 0 && messages >= maxMessages {
			return filepath.SkipAll
		}

		fileRecords, err := m.extractEML(path, cutoff)
		if err != nil {
			m.logger.Warn().Err(err).Str("path", path).Msg("failed to parse EML file")
			return nil
		}
		records = append(records, fileRecords...)
		messages++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk mailbox directory: %w", err)
	}
	return records, nil
}

func (m *MailboxSource) extractEML(path string, cutoff time.Time) ([]models.RawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open EML file: %w", err)
	}
	defer file.Close()

	return m.messageRecords(file, cutoff)
}

// extractMBOX streams an mbox file message by message; each message starts at
// a "From " separator line. Kept memory-bounded for large archives.
func (m *MailboxSource) extractMBOX(cutoff time.Time, maxMessages int) ([]models.RawRecord, error) {
	file, err := os.Open(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MBOX file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var records []models.RawRecord
	var current bytes.Buffer
	messages := 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		msgRecords, err := m.messageRecords(bytes.NewReader(current.Bytes()), cutoff)
		if err != nil {
			m.logger.Warn().Err(err).Int("message", messages+1).Msg("failed to parse mbox message")
		} else {
			records = append(records, msgRecords...)
		}
		messages++
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "From ") && current.Len() > 0 {
			flush()
			if maxMessages > 0 && messages >= maxMessages {
				return records, nil
			}
			continue
		}
		if strings.HasPrefix(line, "From ") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading MBOX file: %w", err)
	}
	return records, nil
}

// messageRecords turns one parsed message into raw records. A message the
// owner sent yields one SENT record per To recipient and one CC record per Cc
// recipient; any other message yields a single RECEIVED record for its
// sender.
func (m *MailboxSource) messageRecords(r io.Reader, cutoff time.Time) ([]models.RawRecord, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	ts := messageDate(msg.Header.Get("Date"))
	if !cutoff.IsZero() && ts.Before(cutoff) {
		return nil, nil
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	messageID := strings.Trim(msg.Header.Get("Message-ID"), "<>")
	preview := bodyPreview(msg.Body)

	fromName, fromEmail := ParseSender(msg.Header.Get("From"))
	base := models.RawRecord{
		Timestamp:      ts,
		Subject:        subject,
		MessageID:      messageID,
		ContentPreview: preview,
	}

	var records []models.RawRecord
	if fromEmail == m.owner {
		for _, kind := range []struct {
			header string
			kind   models.InteractionKind
		}{
			{"To", models.KindSent},
			{"Cc", models.KindCC},
			{"Bcc", models.KindBCC},
		} {
			addresses, err := msg.Header.AddressList(kind.header)
			if err != nil {
				continue
			}
			for _, addr := range addresses {
				rec := base
				rec.Email = strings.ToLower(addr.Address)
				rec.Name = addr.Name
				rec.Kind = kind.kind
				rec.Direction = models.DirectionOutbound
				records = append(records, rec)
			}
		}
	} else if fromEmail != "" {
		rec := base
		rec.Email = fromEmail
		rec.Name = fromName
		rec.Kind = models.KindReceived
		rec.Direction = models.DirectionInbound
		records = append(records, rec)
	}

	return records, nil
}

func bodyPreview(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	return truncatePreview(string(raw), previewLength)
}

func messageDate(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	ts, err := mail.ParseDate(raw)
	if err != nil {
		return time.Now().UTC()
	}
	return ts
}

func decodeHeader(header string) string {
	decoded, err := new(mime.WordDecoder).DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

func cutoffTime(opts Options) time.Time {
	if opts.DaysBack <= 0 {
		return time.Time{}
	}
	return time.Now().AddDate(0, 0, -opts.DaysBack)
}

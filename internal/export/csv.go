package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"contactiq/internal/models"
	"contactiq/internal/scoring"
)

// csvColumns fixes the column order; a stable header makes the output
// diffable across runs.
var csvColumns = []string{
	"email", "name", "first_name", "last_name", "company", "job_title",
	"location", "provider", "contact_type", "frequency", "sent_to",
	"received_from", "cc_count", "bcc_count", "meeting_count", "call_count",
	"relationship_strength", "overall_score", "confidence",
	"source_accounts", "primary_source_account", "data_sources", "tags",
	"first_seen", "last_seen",
}

// CSVExporter renders contacts as a spreadsheet-friendly CSV report,
// including the derived scores.
type CSVExporter struct{}

func (e *CSVExporter) Extension() string { return "csv" }

// Export writes one row per contact.
func (e *CSVExporter) Export(contacts []*models.Contact, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, contact := range contacts {
		record := contact.ToRecord()
		record["relationship_strength"] = scoring.RelationshipStrength(contact, "")
		record["overall_score"] = scoring.Score(contact, "").OverallScore

		row := make([]string, len(csvColumns))
		for i, column := range csvColumns {
			row[i] = cellString(record[column])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write contact %s: %w", contact.Email, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func cellString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.3f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

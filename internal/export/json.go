package export

import (
	"encoding/json"
	"fmt"
	"io"

	"contactiq/internal/models"
	"contactiq/internal/scoring"
)

// JSONExporter renders contacts as a JSON array of flat records with derived
// scores attached.
type JSONExporter struct{}

func (e *JSONExporter) Extension() string { return "json" }

// Export writes the full contact set as indented JSON.
func (e *JSONExporter) Export(contacts []*models.Contact, w io.Writer) error {
	records := make([]map[string]interface{}, 0, len(contacts))
	for _, contact := range contacts {
		record := contact.ToRecord()
		record["relationship_strength"] = scoring.RelationshipStrength(contact, "")
		record["overall_score"] = scoring.Score(contact, "").OverallScore
		records = append(records, record)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode contacts: %w", err)
	}
	return nil
}

// Package export renders aggregated contacts for downstream consumers. Each
// exporter works over the flat record form, so anything the serializer
// preserves is exportable.
package export

import (
	"fmt"
	"io"

	"contactiq/internal/models"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(contacts []*models.Contact, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "csv":
		return &CSVExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, json)", format)
	}
}

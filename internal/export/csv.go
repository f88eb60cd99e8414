// Package export renders record sets as flat delimited tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"SanctionsExplorer/internal/domain"
)

// WriteCSV streams the records as UTF-8 CSV: one header row with the eight
// field names, then one row per record, in the given order.
func WriteCSV(w io.Writer, records []domain.SanctionRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(domain.FieldNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, record := range records {
		if err := writer.Write(record.Row()); err != nil {
			return fmt.Errorf("write record %s: %w", record.ReferenceID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

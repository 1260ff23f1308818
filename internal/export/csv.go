package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"springnorm/internal/logging"
	"springnorm/internal/sequence"
	"springnorm/internal/specs"
)

// WriteCSV writes the canonical 7-column table with a header row.
func WriteCSV(dir string, rows []sequence.CommandRow, resolved specs.ResolvedSpec) (string, error) {
	path := filepath.Join(dir, baseName(resolved, "csv"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sequence.Columns[:]); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, sequence.NumColumns)
		for i := range record {
			record[i] = row.Cell(i)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}
	logging.Export("wrote %d rows to %s", len(rows), path)
	return path, nil
}

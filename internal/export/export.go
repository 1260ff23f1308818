// Package export writes normalized sequences to the machine-readable file
// formats the test bench and downstream tooling consume.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"springnorm/internal/logging"
	"springnorm/internal/sequence"
	"springnorm/internal/specs"
)

// Format names a supported output format.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Write exports rows in the given format into dir and returns the written
// file path.
func Write(format Format, dir string, rows []sequence.CommandRow, resolved specs.ResolvedSpec) (string, error) {
	switch format {
	case FormatTXT:
		return WriteTXT(dir, rows, resolved)
	case FormatCSV:
		return WriteCSV(dir, rows, resolved)
	case FormatJSON:
		return WriteJSON(dir, rows, resolved)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// WriteTXT writes the bench loader format: a pipe-separated header mapping
// the resolved specification fields, then one pipe-separated line per row.
// The filename is fixed by the loader's convention: "AS 01~<part number>.txt".
func WriteTXT(dir string, rows []sequence.CommandRow, resolved specs.ResolvedSpec) (string, error) {
	partNumber := resolved.PartNumber
	if partNumber == "" {
		partNumber = "unknown_part"
	}
	freeLength := resolved.FreeLength
	if freeLength == "" {
		freeLength = "--"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "1|Part Number|--|%s|\n", partNumber)
	fmt.Fprintf(&b, "2|Model Number|--|%s|\n", resolved.PartName)
	fmt.Fprintf(&b, "3|Free Length|mm|%s|\n", freeLength)
	fmt.Fprintf(&b, "<Test Sequence>|N|--|%s|%s|100|\n\n", resolved.TestMode, resolved.SafetyLimit)

	for _, row := range rows {
		fmt.Fprintf(&b, "%s|%s|%s|%s|%s|%s|\n",
			row.CMD, row.Description, row.Condition, row.Unit, row.Tolerance, row.SpeedRPM)
	}

	path := filepath.Join(dir, fmt.Sprintf("AS 01~%s.txt", partNumber))
	if err := writeFile(path, []byte(b.String())); err != nil {
		return "", err
	}
	logging.Export("wrote %d rows to %s", len(rows), path)
	return path, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logging.ExportError("write failed: %v", err)
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// baseName derives the non-TXT export filename from the resolved fields.
func baseName(resolved specs.ResolvedSpec, ext string) string {
	name := resolved.PartNumber
	if name == "" {
		name = "sequence"
	}
	return name + "." + ext
}

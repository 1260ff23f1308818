package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"springnorm/internal/logging"
	"springnorm/internal/sequence"
	"springnorm/internal/specs"
)

// jsonDocument is the self-describing export shape: specification fields
// alongside the canonical rows.
type jsonDocument struct {
	PartName    string                `json:"part_name,omitempty"`
	PartNumber  string                `json:"part_number,omitempty"`
	FreeLength  string                `json:"free_length,omitempty"`
	TestMode    string                `json:"test_mode,omitempty"`
	SafetyLimit string                `json:"safety_limit,omitempty"`
	Rows        []sequence.CommandRow `json:"rows"`
}

// WriteJSON writes the rows and resolved fields as one indented document.
func WriteJSON(dir string, rows []sequence.CommandRow, resolved specs.ResolvedSpec) (string, error) {
	doc := jsonDocument{
		PartName:    resolved.PartName,
		PartNumber:  resolved.PartNumber,
		FreeLength:  resolved.FreeLength,
		TestMode:    resolved.TestMode,
		SafetyLimit: resolved.SafetyLimit,
		Rows:        rows,
	}
	if doc.Rows == nil {
		doc.Rows = []sequence.CommandRow{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export: %w", err)
	}

	path := filepath.Join(dir, baseName(resolved, "json"))
	if err := writeFile(path, append(data, '\n')); err != nil {
		return "", err
	}
	logging.Export("wrote %d rows to %s", len(rows), path)
	return path, nil
}

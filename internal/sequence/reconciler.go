package sequence

import (
	"fmt"
	"strconv"
	"strings"
)

// columnAliases maps lowercased historical column spellings onto the
// canonical schema. The model has produced every one of these at some point;
// resolution is case-insensitive so "CMD", "Cmd" and "cmd" all land on CMD.
var columnAliases = map[string]string{
	"row":         ColRow,
	"row id":      ColRow,
	"row_id":      ColRow,
	"cmd":         ColCMD,
	"command":     ColCMD,
	"description": ColDescription,
	"desc":        ColDescription,
	"condition":   ColCondition,
	"cond":        ColCondition,
	"unit":        ColUnit,
	"units":       ColUnit,
	"tolerance":   ColTolerance,
	"tol":         ColTolerance,
	"speed rpm":   ColSpeedRPM,
	"speed_rpm":   ColSpeedRPM,
	"speedrpm":    ColSpeedRPM,
	"speed (rpm)": ColSpeedRPM,
	"speed":       ColSpeedRPM,
}

// CanonicalColumn resolves a column name to its canonical form, or "" when
// the column is unknown (and should be dropped).
func CanonicalColumn(name string) string {
	return columnAliases[strings.ToLower(strings.TrimSpace(name))]
}

// Reconcile normalizes loosely-keyed rows (typically decoded JSON objects)
// into the canonical 7-column schema. Aliased columns are renamed, missing
// canonical columns become empty strings, non-canonical columns are dropped,
// and the fixed column order is restored. Rows are never dropped.
func Reconcile(raw []map[string]interface{}) []CommandRow {
	rows := make([]CommandRow, 0, len(raw))
	for _, m := range raw {
		cells := make([]string, NumColumns)
		for k, v := range m {
			canon := CanonicalColumn(k)
			if canon == "" {
				continue
			}
			for i, col := range Columns {
				if col == canon {
					cells[i] = cellString(v)
					break
				}
			}
		}
		rows = append(rows, rowFromCells(cells))
	}
	return rows
}

// cellString renders a decoded JSON value as a display cell. Numbers keep
// their shortest representation (58 stays "58", 58.5 stays "58.5").
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

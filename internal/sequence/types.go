// Package sequence turns raw language-model output into a canonical test
// sequence. The model may answer with a strict JSON array, a bracket-per-line
// custom notation, or free prose with one embedded data block; all three are
// normalized into the same 7-column schema. Nothing in this package performs
// I/O and nothing here returns an error: a response that cannot be parsed as
// sequence data is still a valid chat message.
package sequence

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Canonical column names, in their fixed display/export order.
const (
	ColRow         = "Row"
	ColCMD         = "CMD"
	ColDescription = "Description"
	ColCondition   = "Condition"
	ColUnit        = "Unit"
	ColTolerance   = "Tolerance"
	ColSpeedRPM    = "Speed rpm"
)

// Columns is the canonical schema order. Index positions match the cell
// positions produced by SplitRow.
var Columns = [7]string{
	ColRow, ColCMD, ColDescription, ColCondition, ColUnit, ColTolerance, ColSpeedRPM,
}

// NumColumns is the fixed width of a command row.
const NumColumns = len(Columns)

// Markers delimiting an embedded data block inside a hybrid response.
// Literal and case-sensitive.
const (
	DataStartMarker = "---SEQUENCE_DATA_START---"
	DataEndMarker   = "---SEQUENCE_DATA_END---"
)

// CmdScrag is the repeated-motion conditioning command. Its condition cell
// carries a back-reference of the form R<row>,<count> (e.g. "R03,2") whose
// unquoted comma must survive tokenization.
const CmdScrag = "Scrag"

// Commands is the known command vocabulary. Membership is advisory: unknown
// codes pass through untouched, since the upstream producer is a language
// model and a novel code must still display.
var Commands = []string{
	"ZF", "ZD", "TH", "Mv(P)", "Calc", "TD", "PMsg", "Fr(P)", "FL(P)",
	"Scrag", "SR", "PkF", "PkP", "Po(F)", "Po(PkF)", "Mv(F)", "PUi", "LP",
}

// KnownCommand reports whether code is in the command vocabulary.
func KnownCommand(code string) bool {
	for _, c := range Commands {
		if c == code {
			return true
		}
	}
	return false
}

var scragRefPattern = regexp.MustCompile(`^R\d+,\d+$`)

// ValidScragRef reports whether s is a complete Scrag back-reference
// (R<digits>,<digits>). Referenced-row existence is not checked here.
func ValidScragRef(s string) bool {
	return scragRefPattern.MatchString(s)
}

// CommandRow is one instruction in a test sequence. All seven fields are
// always present; empty strings are meaningful (no unit, no tolerance).
type CommandRow struct {
	Row         string `json:"Row"`
	CMD         string `json:"CMD"`
	Description string `json:"Description"`
	Condition   string `json:"Condition"`
	Unit        string `json:"Unit"`
	Tolerance   string `json:"Tolerance"` // "value(min,max)" or ""
	SpeedRPM    string `json:"Speed rpm"`
}

// Cell returns the field at the given canonical column index.
func (r CommandRow) Cell(i int) string {
	switch i {
	case 0:
		return r.Row
	case 1:
		return r.CMD
	case 2:
		return r.Description
	case 3:
		return r.Condition
	case 4:
		return r.Unit
	case 5:
		return r.Tolerance
	case 6:
		return r.SpeedRPM
	default:
		return ""
	}
}

// rowFromCells builds a CommandRow from exactly NumColumns ordered cells.
func rowFromCells(cells []string) CommandRow {
	return CommandRow{
		Row:         cells[0],
		CMD:         cells[1],
		Description: cells[2],
		Condition:   cells[3],
		Unit:        cells[4],
		Tolerance:   cells[5],
		SpeedRPM:    cells[6],
	}
}

// SequenceBlock is an ordered command sequence extracted from one model
// response, plus the surrounding conversational text. Row order is execution
// order. Blocks are built once by Dispatch and read-only afterwards.
type SequenceBlock struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Rows      []CommandRow `json:"rows"`
	ChatText  string       `json:"chat_text"`
}

// HasRows reports whether the block carries any sequence data.
func (b *SequenceBlock) HasRows() bool {
	return b != nil && len(b.Rows) > 0
}

func newBlock(rows []CommandRow, chat string) *SequenceBlock {
	return &SequenceBlock{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Rows:      rows,
		ChatText:  chat,
	}
}

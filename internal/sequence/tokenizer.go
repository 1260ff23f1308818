package sequence

import (
	"regexp"
	"strings"
)

// Tokenizer states. The scanner is an explicit automaton rather than a pair
// of independent booleans: inside quotes, bracket characters are plain text,
// and inside a bracket run, quote characters are plain text. A single state
// (not a depth counter) tracks bracket mode, so a closing bracket always
// exits bracket mode even when one is still "owed". Changing that would
// alter how previously-accepted rows parse.
type scanState int

const (
	stateNormal scanState = iota
	stateQuoted
	stateBracket
)

// Back-reference sub-state patterns for the Scrag condition cell. A leading
// quote is tolerated because models sometimes quote the reference.
var (
	refIncomplete = regexp.MustCompile(`^"?R\d+$`)
	refComplete   = regexp.MustCompile(`^"?R\d+,\d+"?$`)
)

// SplitRow tokenizes one bracket-notation row body (enclosing brackets
// already stripped by the caller) into exactly NumColumns ordered cells.
//
// A comma separates cells unless the scanner is inside quotes, inside a
// bracket run (which keeps tolerance triples like 58.0(57.9,58.1) whole), or
// mid back-reference: when the command cell was Scrag and the condition cell
// so far matches R<digits>, the comma is part of the reference (R03,2). Once
// the full R<digits>,<digits> pattern is present the next comma separates
// again.
//
// Short rows are padded with empty cells; overlong rows are merged into the
// final cell rather than truncated. Unterminated quotes leave the scanner in
// quoted state for the rest of the line; no recovery is attempted.
func SplitRow(line string) []string {
	var cells []string
	var cell strings.Builder
	state := stateNormal
	cellIndex := 0
	scragCmd := false   // command cell was exactly "Scrag"
	pendingRef := false // condition cell is accumulating R<digits>,<digits>

	flush := func() {
		cells = append(cells, strings.TrimSpace(cell.String()))
		cell.Reset()
		cellIndex++
		pendingRef = false
	}

	// ASCII delimiters are safe to scan bytewise: UTF-8 never embeds ASCII
	// bytes inside a multi-byte sequence.
	for i := 0; i < len(line); i++ {
		b := line[i]

		switch state {
		case stateQuoted:
			if b == '"' && !endsWithBackslash(&cell) {
				state = stateNormal
			}
			cell.WriteByte(b)

		case stateBracket:
			if b == ')' || b == ']' {
				state = stateNormal
			}
			cell.WriteByte(b)

		default: // stateNormal
			switch b {
			case '"':
				if !endsWithBackslash(&cell) {
					state = stateQuoted
				}
				cell.WriteByte(b)
			case '(', '[':
				state = stateBracket
				cell.WriteByte(b)
			case ',':
				partial := strings.TrimSpace(cell.String())
				if cellIndex == 1 && partial == CmdScrag {
					scragCmd = true
				}
				// Named transition: entering (or continuing) the
				// back-reference sub-state keeps the comma inside the cell.
				// Once the full R<digits>,<digits> pattern is present the
				// comma separates again.
				switch {
				case scragCmd && cellIndex == 3 && refIncomplete.MatchString(partial):
					pendingRef = true
					cell.WriteByte(b)
				case pendingRef && !refComplete.MatchString(partial):
					cell.WriteByte(b)
				default:
					flush()
				}
			default:
				cell.WriteByte(b)
			}
		}
	}
	flush()

	for i := range cells {
		cells[i] = cleanCell(cells[i])
	}

	for len(cells) < NumColumns {
		cells = append(cells, "")
	}
	if len(cells) > NumColumns {
		// Never drop data: everything past the last column folds into it.
		cells = append(cells[:NumColumns-1], strings.Join(cells[NumColumns-1:], ", "))
	}
	return cells
}

// ParseRow tokenizes a row body and maps the cells onto the canonical schema.
func ParseRow(line string) CommandRow {
	return rowFromCells(SplitRow(line))
}

// cleanCell strips one surrounding quote pair, then one trailing comma left
// behind by an abandoned back-reference.
func cleanCell(c string) string {
	if strings.HasPrefix(c, `"`) && strings.HasSuffix(c, `"`) {
		if len(c) == 1 {
			c = ""
		} else {
			c = c[1 : len(c)-1]
		}
	}
	return strings.TrimSuffix(c, ",")
}

func endsWithBackslash(b *strings.Builder) bool {
	s := b.String()
	return len(s) > 0 && s[len(s)-1] == '\\'
}

package sequence

import (
	"encoding/json"
	"strings"

	"springnorm/internal/logging"
)

// Dispatch classifies one raw model response and routes it to the right
// decoder. The result always carries the conversational text; Rows is empty
// when no sequence data could be recovered.
//
// Decision order:
//  1. Both data markers present: split into before/data/after, keep the
//     prose as chat text, and dispatch the enclosed block by rules 2-3.
//  2. The stripped text looks like a JSON array: strict decode.
//  3. JSON failed: scan for bracket-notation lines, skipping anything else.
//  4. Nothing decoded: the whole response is chat.
//
// Dispatch never fails. A malformed response must still render as a chat
// message, so every decode error degrades to rule 4.
func Dispatch(raw string) *SequenceBlock {
	if start := strings.Index(raw, DataStartMarker); start >= 0 {
		if rest := raw[start+len(DataStartMarker):]; strings.Contains(rest, DataEndMarker) {
			end := strings.Index(rest, DataEndMarker)
			data := strings.TrimSpace(rest[:end])
			chat := strings.TrimSpace(raw[:start])
			if after := strings.TrimSpace(rest[end+len(DataEndMarker):]); after != "" {
				chat += "\n\n" + after
			}

			rows := decodeRows(data)
			if len(rows) == 0 {
				logging.Detector("hybrid block yielded no rows, degrading to chat-only")
				return newBlock(nil, raw)
			}
			logging.Detector("hybrid response: %d rows, %d chars chat", len(rows), len(chat))
			return newBlock(rows, chat)
		}
	}

	stripped := strings.TrimSpace(raw)
	if strings.HasPrefix(stripped, "[") && strings.HasSuffix(stripped, "]") {
		if rows := decodeRows(stripped); len(rows) > 0 {
			logging.Detector("sequence-only response: %d rows", len(rows))
			return newBlock(rows, "")
		}
	}

	logging.DetectorDebug("no sequence data found, chat-only response")
	return newBlock(nil, raw)
}

// decodeRows tries strict JSON first, then the bracket-per-line notation.
func decodeRows(data string) []CommandRow {
	stripped := strings.TrimSpace(data)
	if strings.HasPrefix(stripped, "[") && strings.HasSuffix(stripped, "]") {
		var objects []map[string]interface{}
		if err := json.Unmarshal([]byte(stripped), &objects); err == nil {
			logging.DetectorDebug("decoded %d JSON rows", len(objects))
			return Reconcile(objects)
		}
		logging.DetectorDebug("strict JSON decode failed, trying bracket notation")
	}
	return decodeBracketLines(data)
}

// decodeBracketLines parses each non-blank line of the form [cells...]
// independently. Lines of any other shape are skipped, not errors.
func decodeBracketLines(data string) []CommandRow {
	var rows []CommandRow
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 2 || !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}
		rows = append(rows, ParseRow(line[1:len(line)-1]))
	}
	if len(rows) > 0 {
		logging.DetectorDebug("parsed %d bracket-notation rows", len(rows))
	}
	return rows
}

// SanitizeResponse strips the markdown code fences some providers wrap
// around structured output. Applied before Dispatch by the generation
// service; Dispatch itself stays a pure function of its input.
func SanitizeResponse(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

package sequence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hybridResponse = "Here is your sequence.\n" +
	"---SEQUENCE_DATA_START---\n" +
	`[{"Row":"R00","CMD":"ZF","Description":"Zero Force","Condition":"","Unit":"","Tolerance":"","Speed rpm":""}]` + "\n" +
	"---SEQUENCE_DATA_END---\n" +
	"Let me know if needed."

func TestDispatchHybrid(t *testing.T) {
	block := Dispatch(hybridResponse)
	require.NotNil(t, block)
	require.Len(t, block.Rows, 1)
	assert.Equal(t, "ZF", block.Rows[0].CMD)
	assert.Equal(t, "R00", block.Rows[0].Row)
	assert.Contains(t, block.ChatText, "Here is your sequence.")
	assert.Contains(t, block.ChatText, "Let me know if needed.")
	assert.NotEmpty(t, block.ID)
}

func TestDispatchHybridBracketNotation(t *testing.T) {
	text := "Sequence below.\n" +
		"---SEQUENCE_DATA_START---\n" +
		"[R00, ZF, Zero Force, , , , ]\n" +
		"[R09, Scrag, Scragging, R03,2, , , ]\n" +
		"---SEQUENCE_DATA_END---"
	block := Dispatch(text)
	require.Len(t, block.Rows, 2)
	assert.Equal(t, "Scrag", block.Rows[1].CMD)
	assert.Equal(t, "R03,2", block.Rows[1].Condition)
	assert.Equal(t, "Sequence below.", block.ChatText)
}

func TestDispatchHybridEmptyBlockDegradesToChat(t *testing.T) {
	text := "Intro\n---SEQUENCE_DATA_START---\nnothing structured here\n---SEQUENCE_DATA_END---\nOutro"
	block := Dispatch(text)
	assert.Empty(t, block.Rows)
	// The whole response stays displayable.
	assert.Equal(t, text, block.ChatText)
}

func TestDispatchJSONOnly(t *testing.T) {
	text := `[{"Row":"R00","CMD":"ZF","Description":"Zero Force"},{"Row":"R01","CMD":"TH","Description":"Threshold"}]`
	block := Dispatch(text)
	require.Len(t, block.Rows, 2)
	assert.Equal(t, "TH", block.Rows[1].CMD)
	assert.Empty(t, block.ChatText)
	// Missing canonical columns come back as empty strings.
	assert.Equal(t, "", block.Rows[0].Tolerance)
}

func TestDispatchBracketLinesOnly(t *testing.T) {
	text := "[R00, ZF, Zero Force, , , , ]\n" +
		"not a data line\n" +
		"[R01, TH, Threshold, 10, N, , 30]"
	block := Dispatch(text)
	require.Len(t, block.Rows, 2)
	assert.Equal(t, "30", block.Rows[1].SpeedRPM)
}

func TestDispatchChatOnly(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain prose", "I cannot generate a sequence without a free length."},
		{"empty", ""},
		{"broken json", `[{"Row": "R00", ...`},
		{"lone start marker", "text ---SEQUENCE_DATA_START--- more text"},
		{"object not array", `{"Row":"R00"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := Dispatch(tt.text)
			require.NotNil(t, block)
			assert.Empty(t, block.Rows)
			assert.Equal(t, tt.text, block.ChatText)
		})
	}
}

// Dispatch must return a result for any input, however hostile.
func TestDispatchNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"\x00\xff\xfe",
		strings.Repeat("[", 10000),
		strings.Repeat("---SEQUENCE_DATA_START---", 50),
		"---SEQUENCE_DATA_END------SEQUENCE_DATA_START---",
		"[\"a\", \"b\"]", // valid JSON, but not objects
	}
	for _, in := range inputs {
		block := Dispatch(in)
		require.NotNil(t, block)
	}
}

func TestSanitizeResponse(t *testing.T) {
	in := "```json\n[{\"Row\":\"R00\"}]\n```"
	assert.Equal(t, `[{"Row":"R00"}]`, SanitizeResponse(in))
}

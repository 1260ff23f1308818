package sequence

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitRowAlwaysSevenCells(t *testing.T) {
	inputs := []string{
		"",
		"R00",
		"R00, ZF",
		"R00, ZF, Zero Force, , , , ",
		"a, b, c, d, e, f, g, h, i",
		`"unterminated, quote, swallows, the, rest`,
		"((((, , ,",
		strings.Repeat(",", 30),
		"R09, Scrag, Scragging, R03,2, , , ",
	}
	for _, in := range inputs {
		if got := SplitRow(in); len(got) != NumColumns {
			t.Errorf("SplitRow(%q) returned %d cells, want %d: %v", in, len(got), NumColumns, got)
		}
	}
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "empty line",
			line: "",
			want: []string{"", "", "", "", "", "", ""},
		},
		{
			name: "plain row",
			line: "R00, ZF, Zero Force, , , , ",
			want: []string{"R00", "ZF", "Zero Force", "", "", "", ""},
		},
		{
			name: "parenthesized tolerance commas survive",
			line: `R02, FL(P), Measure Free Length-Position, , mm, "58.0(57.9,58.1)", `,
			want: []string{"R02", "FL(P)", "Measure Free Length-Position", "", "mm", "58.0(57.9,58.1)", ""},
		},
		{
			name: "unquoted tolerance triple",
			line: "R04, Fr(P), Force @ Position, 40, N, 23.6(21.24,25.96), 30",
			want: []string{"R04", "Fr(P)", "Force @ Position", "40", "N", "23.6(21.24,25.96)", "30"},
		},
		{
			name: "scrag back-reference keeps its comma",
			line: "R09, Scrag, Scragging, R03,2, , , ",
			want: []string{"R09", "Scrag", "Scragging", "R03,2", "", "", ""},
		},
		{
			name: "quoted scrag reference",
			line: `R09, Scrag, Scragging, "R03,2", , , `,
			want: []string{"R09", "Scrag", "Scragging", "R03,2", "", "", ""},
		},
		{
			name: "back-reference rule only applies to condition column",
			line: "R01, TH, R03, thing, , , ",
			want: []string{"R01", "TH", "R03", "thing", "", "", ""},
		},
		{
			name: "back-reference rule only applies after Scrag command",
			line: "R09, Mv(P), Move, R03, 2, , ",
			want: []string{"R09", "Mv(P)", "Move", "R03", "2", "", ""},
		},
		{
			name: "short row padded",
			line: "R01, TD",
			want: []string{"R01", "TD", "", "", "", "", ""},
		},
		{
			name: "overlong row merges extras into the last cell",
			line: "R01, TH, desc, cond, N, tol, 30, extra, more",
			want: []string{"R01", "TH", "desc", "cond", "N", "tol", "30, extra, more"},
		},
		{
			name: "quoted cell with commas",
			line: `R05, PMsg, "Hold, then release", , , , `,
			want: []string{"R05", "PMsg", "Hold, then release", "", "", "", ""},
		},
		{
			name: "closing bracket always exits bracket mode",
			// The flag is not a depth counter: the first ) exits, so the
			// following comma separates even though one ( is still owed.
			line: "R01, Calc, a((b), c, , , ",
			want: []string{"R01", "Calc", "a((b)", "c", "", "", ""},
		},
		{
			name: "square brackets protect commas",
			line: "R01, Calc, [a, b], , , , ",
			want: []string{"R01", "Calc", "[a, b]", "", "", "", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRow(tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitRow(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestParseRow(t *testing.T) {
	row := ParseRow("R09, Scrag, Scragging, R03,2, , , ")
	if row.CMD != "Scrag" {
		t.Fatalf("CMD = %q, want Scrag", row.CMD)
	}
	if row.Condition != "R03,2" {
		t.Errorf("Condition = %q, want R03,2", row.Condition)
	}
	if !ValidScragRef(row.Condition) {
		t.Errorf("ValidScragRef(%q) = false, want true", row.Condition)
	}
}

func TestValidScragRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"R03,2", true},
		{"R0,1", true},
		{"R123,45", true},
		{"R03", false},
		{"R03,", false},
		{"03,2", false},
		{"R03,2,", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidScragRef(tt.ref); got != tt.want {
			t.Errorf("ValidScragRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

package render

import (
	"strings"
	"testing"

	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/digits"
)

func parse(rows ...string) [][]bool {
	out := make([][]bool, len(rows))
	for i, r := range rows {
		out[i] = make([]bool, len(r))
		for j, ch := range r {
			out[i][j] = ch == 'O'
		}
	}
	return out
}

func TestBlocks(t *testing.T) {
	got := Blocks(parse("O..", "...", ".O."))
	want := "█\n\n █"
	if got != want {
		t.Errorf("Blocks = %q, want %q", got, want)
	}
}

func TestDigitGlyphs(t *testing.T) {
	src, err := digits.New(20)
	if err != nil {
		t.Fatalf("digits: %v", err)
	}
	r := src.NewReader(0)

	// 1 4 1 5 9
	got := DigitGlyphs(parse("OOOOO"), r)
	if got != "░█░◆★" {
		t.Errorf("DigitGlyphs = %q", got)
	}
	if r.Position() != 5 {
		t.Errorf("reader position = %d, want 5", r.Position())
	}
}

func TestPathways(t *testing.T) {
	tests := []struct {
		name  string
		cells [][]bool
		want  string
	}{
		{"isolated", parse("...", ".O.", "..."), "\n ◉\n"},
		{"horizontal", parse("OOO"), "┣━┫"},
		{"vertical", parse("O", "O", "O"), "┳\n┃\n┻"},
		{"block", parse("OO", "OO"), "┼┼\n┼┼"},
		{"diagonal", parse("O.", ".O"), "●\n ●"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pathways(tt.cells); got != tt.want {
				t.Errorf("Pathways = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		if got, err := ParseMode(string(m)); err != nil || got != m {
			t.Errorf("ParseMode(%s) = %v, %v", m, got, err)
		}
	}
	if _, err := ParseMode("sparkles"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRenderer_CycleMode(t *testing.T) {
	r := NewRenderer(ModeBlocks, nil)
	seen := []Mode{r.CycleMode(), r.CycleMode(), r.CycleMode()}
	want := []Mode{ModeDigits, ModePathways, ModeBlocks}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("cycle %d = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestRenderer_DigitModeWithoutReader(t *testing.T) {
	r := NewRenderer(ModeDigits, nil)
	out := r.Render(automaton.Frame{Cells: parse("OO")})
	if out != "██" {
		t.Errorf("expected block fallback, got %q", out)
	}
}

func TestRenderer_LineCount(t *testing.T) {
	r := NewRenderer(ModePathways, nil)
	out := r.Cells(parse("O....", ".....", "....O", "....."))
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("expected 3 newlines, got %d", n)
	}
}

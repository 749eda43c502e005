package export

import (
	"strings"
	"testing"
)

func TestGridToSVG(t *testing.T) {
	cells := [][]bool{
		{true, false, false},
		{false, true, true},
	}
	svg := GridToSVG(cells, 10, "#00ff00")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete svg document")
	}
	if !strings.Contains(svg, `width="30" height="20"`) {
		t.Error("svg size should be columns and rows times scale")
	}
	// background plus one rect per live cell
	if n := strings.Count(svg, "<rect"); n != 4 {
		t.Errorf("expected 4 rects, got %d", n)
	}
	if !strings.Contains(svg, `x="11.0" y="11.0"`) {
		t.Error("cell (1,1) should be inset by a tenth of the scale")
	}
}

func TestGridToSVG_Empty(t *testing.T) {
	if GridToSVG(nil, 10, "#fff") != "" {
		t.Error("empty grid should give empty output")
	}
	if GridToSVG([][]bool{{true}}, 0, "#fff") != "" {
		t.Error("zero scale should give empty output")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("a single point cannot form a path")
	}

	svg := SeriesToSVG([]float64{3, 3, 3, 3}, 100, 50, "#ff00ff")
	if !strings.Contains(svg, `stroke="#ff00ff"`) {
		t.Error("stroke color missing")
	}
	if n := strings.Count(svg, " L"); n != 3 {
		t.Errorf("expected 3 line segments, got %d", n)
	}
	if strings.Contains(svg, "NaN") {
		t.Error("flat series produced NaN coordinates")
	}
}

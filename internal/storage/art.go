package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/asciilife/internal/analysis"
)

const ruleWidth = 80

// Art is a single rendered piece with the facts shown in its header.
type Art struct {
	Text      string
	Generated time.Time
	Steps     int
	Position  int
	Network   *analysis.Network
}

// WriteArt writes the piece framed by a header and footer.
func WriteArt(w io.Writer, a Art) error {
	rule := strings.Repeat("=", ruleWidth)

	var b strings.Builder
	b.WriteString("Non-Repeating ASCII Art Generator\n")
	fmt.Fprintf(&b, "Generated: %s\n", a.Generated.Format(time.RFC3339))
	fmt.Fprintf(&b, "Evolution Steps: %d\n", a.Steps)
	fmt.Fprintf(&b, "Sequence Position: %d\n", a.Position)
	b.WriteString(rule + "\n\n")
	b.WriteString(a.Text)
	b.WriteString("\n\n" + rule + "\n")
	if a.Network != nil {
		fmt.Fprintf(&b, "Network Density: %.4f\n", a.Network.Density)
		fmt.Fprintf(&b, "Cluster Count: %d\n", a.Network.ClusterCount)
		fmt.Fprintf(&b, "Largest Cluster: %d\n", a.Network.LargestCluster)
		fmt.Fprintf(&b, "Entropy: %.4f\n", a.Network.Entropy)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SaveArt writes the piece to path, or to ascii_art_<timestamp>.txt in dir
// when path is a directory.
func SaveArt(path string, a Art) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, fmt.Sprintf("ascii_art_%s.txt", a.Generated.Format("20060102_150405")))
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteArt(f, a); err != nil {
		return "", err
	}
	return path, nil
}

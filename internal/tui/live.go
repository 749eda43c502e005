package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/render"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws frames in place on a terminal. On anything that is
// not a terminal frames are written one after another without escapes.
type LiveRenderer struct {
	out       io.Writer
	renderer  *render.Renderer
	frameRate int
	lastFrame time.Time
	ansi      bool
}

// NewLiveRenderer draws to out at most frameRate times per second; a
// frameRate of 0 draws every frame.
func NewLiveRenderer(out io.Writer, r *render.Renderer, frameRate int) *LiveRenderer {
	ansi := false
	if f, ok := out.(*os.File); ok {
		ansi = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &LiveRenderer{out: out, renderer: r, frameRate: frameRate, ansi: ansi}
}

func (r *LiveRenderer) OnFrame(f automaton.Frame) {
	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}
	fmt.Fprint(r.out, r.Draw(f))
}

// Draw formats one frame with its header and status line.
func (r *LiveRenderer) Draw(f automaton.Frame) string {
	var b strings.Builder
	if r.ansi {
		b.WriteString(clearScreen)
	}

	width := max(f.Width, 20)
	b.WriteString(fmt.Sprintf("  asciilife  gen=%d  live=%d  digit=%d\n", f.Generation, f.LiveCells, f.DigitCursor))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, line := range strings.Split(r.renderer.Render(f), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString("  " + Status(f) + "\n")
	return b.String()
}

// Status summarises what the last step did.
func Status(f automaton.Frame) string {
	if f.Perturbed {
		return fmt.Sprintf("stagnant: %d cells perturbed (entropy %08x)", f.PerturbedCells, f.Entropy)
	}
	return "evolving"
}

func (r *LiveRenderer) Start() {
	if r.ansi {
		fmt.Fprint(r.out, hideCursor)
	}
}

func (r *LiveRenderer) Stop() {
	if r.ansi {
		fmt.Fprint(r.out, showCursor)
	}
}

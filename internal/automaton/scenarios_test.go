package automaton_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/digits"
)

var fixed = automaton.FixedClock{T: time.Unix(1_700_000_000, 0)}

func controller(w, h int, b automaton.Boundary, live ...automaton.Cell) *automaton.Controller {
	cfg := automaton.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Boundary = w, h, b
	cfg.DigitPrecision = 100

	ctrl, err := automaton.NewController(cfg, automaton.WithClock(fixed))
	Expect(err).NotTo(HaveOccurred())
	Expect(ctrl.Seed(func(g *automaton.Grid) error {
		for _, c := range live {
			if err := g.Set(c.Row, c.Col, true); err != nil {
				return err
			}
		}
		return nil
	})).To(Succeed())
	return ctrl
}

var _ = Describe("Controller", func() {
	Context("on an all-dead 3x3 torus", func() {
		It("reports stagnation on the first step without flipping any cell", func() {
			ctrl := controller(3, 3, automaton.BoundaryToroidal)

			frame, err := ctrl.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.Generation).To(Equal(1))
			Expect(frame.Stagnant).To(BeTrue())
			Expect(frame.Perturbed).To(BeTrue())
			Expect(frame.PerturbedCells).To(BeZero())
			Expect(frame.LiveCells).To(BeZero())
		})
	})

	Context("with a blinker on a 5x5 torus", func() {
		It("detects the oscillation and perturbs within K steps", func() {
			ctrl := controller(5, 5, automaton.BoundaryToroidal,
				automaton.Cell{Row: 1, Col: 2}, automaton.Cell{Row: 2, Col: 2}, automaton.Cell{Row: 3, Col: 2})
			k := ctrl.Config().HistoryCapacity

			var hit *automaton.Frame
			for i := 0; i < k && hit == nil; i++ {
				frame, err := ctrl.Step()
				Expect(err).NotTo(HaveOccurred())
				if frame.Stagnant {
					hit = &frame
				}
			}
			Expect(hit).NotTo(BeNil())
			Expect(hit.Perturbed).To(BeTrue())
			Expect(hit.PerturbedCells).To(BeNumerically("<=", 1))
		})
	})

	Context("with a glider on a large torus", func() {
		It("keeps progressing while the glider travels", func() {
			ctrl := controller(40, 40, automaton.BoundaryToroidal,
				automaton.Cell{Row: 0, Col: 1}, automaton.Cell{Row: 1, Col: 2},
				automaton.Cell{Row: 2, Col: 0}, automaton.Cell{Row: 2, Col: 1}, automaton.Cell{Row: 2, Col: 2})

			for i := 0; i < 20; i++ {
				frame, err := ctrl.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(frame.Stagnant).To(BeFalse())
				Expect(frame.LiveCells).To(Equal(5))
			}
		})
	})

	Context("on a clamped grid", func() {
		It("lets a glider die against the edge and then stagnates", func() {
			ctrl := controller(6, 6, automaton.BoundaryClamped,
				automaton.Cell{Row: 0, Col: 1}, automaton.Cell{Row: 1, Col: 2},
				automaton.Cell{Row: 2, Col: 0}, automaton.Cell{Row: 2, Col: 1}, automaton.Cell{Row: 2, Col: 2})

			stagnated := false
			for i := 0; i < 60 && !stagnated; i++ {
				frame, err := ctrl.Step()
				Expect(err).NotTo(HaveOccurred())
				stagnated = frame.Stagnant
			}
			Expect(stagnated).To(BeTrue())
		})
	})
})

var _ = Describe("Digit source", func() {
	It("starts after the leading three", func() {
		src, err := digits.New(50)
		Expect(err).NotTo(HaveOccurred())
		Expect(src.DigitAt(0)).To(Equal(1))
		Expect(src.Slice(0, 5)).To(Equal([]int{1, 4, 1, 5, 9}))
	})

	It("wraps positions modulo its length", func() {
		src, err := digits.New(50)
		Expect(err).NotTo(HaveOccurred())
		Expect(src.DigitAt(50)).To(Equal(src.DigitAt(0)))
		Expect(src.DigitAt(-1)).To(Equal(src.DigitAt(49)))
	})
})

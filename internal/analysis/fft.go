package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT transforms data zero-padded to a power of two length, so bin k of the
// result is period n/k for padded length n.
func FFT(data []float64) []complex128 {
	padded := make([]float64, nextPow2(len(data)))
	copy(padded, data)
	return fft.FFTReal(padded)
}

// PowerSpectrum returns the magnitudes of bins 0..n/2 of the transform of
// the mean-removed series, where n is the padded length.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	spectrum := FFT(centered)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the strongest oscillation period of a population
// series in generations. It returns 0 for a flat or too short series.
func DominantPeriod(series []float64) int {
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0
	}
	n := nextPow2(len(series))

	best, bestPower := 0, 1e-9
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPower {
			best, bestPower = k, ps[k]
		}
	}
	if best == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(best)))
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

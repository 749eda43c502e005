// Package digits computes a fixed run of decimal digits of π and serves
// indexed reads from it.
//
// The digits are produced once with Machin's formula
//
//	π = 16·arctan(1/5) − 4·arctan(1/239)
//
// evaluated on fixed-point big integers. The integer part is dropped, so the
// sequence starts 1, 4, 1, 5, 9, ... and DigitAt(0) is 1.
//
// A Source is immutable after New and safe to share between readers.
package digits

import (
	"errors"
	"math/big"
)

// DefaultPrecision is the number of digits computed when no precision is
// configured.
const DefaultPrecision = 500

// guardDigits are extra digits carried through the series so truncation
// error never reaches the digits that are kept.
const guardDigits = 20

// ErrPrecision is returned by New for a non-positive digit count.
var ErrPrecision = errors.New("digits: precision must be positive")

// Source holds N digits of π after the decimal point.
type Source struct {
	digits []uint8
}

// New computes precision digits of π.
func New(precision int) (*Source, error) {
	if precision <= 0 {
		return nil, ErrPrecision
	}
	return &Source{digits: computePi(precision)}, nil
}

// Len returns N, the length of the sequence.
func (s *Source) Len() int { return len(s.digits) }

// DigitAt returns the digit at position, wrapping modulo N.
func (s *Source) DigitAt(position int) int {
	n := len(s.digits)
	return int(s.digits[((position%n)+n)%n])
}

// Slice returns count digits starting at position, wrapping as needed.
func (s *Source) Slice(position, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = s.DigitAt(position + i)
	}
	return out
}

// String returns the digits as text.
func (s *Source) String() string {
	b := make([]byte, len(s.digits))
	for i, d := range s.digits {
		b[i] = '0' + d
	}
	return string(b)
}

// Reader walks a Source sequentially from a starting position.
type Reader struct {
	src *Source
	pos int
}

// NewReader returns a Reader positioned at start (normalised into [0, N)).
func (s *Source) NewReader(start int) *Reader {
	n := len(s.digits)
	return &Reader{src: s, pos: ((start % n) + n) % n}
}

// Next returns the next count digits and advances the reader.
func (r *Reader) Next(count int) []int {
	out := r.src.Slice(r.pos, count)
	r.pos = (r.pos + count) % r.src.Len()
	return out
}

// Position returns the index of the next digit to be read.
func (r *Reader) Position() int { return r.pos }

func computePi(precision int) []uint8 {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision+guardDigits)), nil)

	a := arctanInv(5, scale)
	b := arctanInv(239, scale)

	pi := new(big.Int).Mul(a, big.NewInt(16))
	pi.Sub(pi, new(big.Int).Mul(b, big.NewInt(4)))

	text := pi.String()
	// text is "3" followed by precision+guardDigits fractional digits.
	out := make([]uint8, precision)
	for i := range out {
		out[i] = text[i+1] - '0'
	}
	return out
}

// arctanInv returns arctan(1/x)·scale using the alternating Taylor series.
func arctanInv(x int64, scale *big.Int) *big.Int {
	bx := big.NewInt(x)
	x2 := big.NewInt(x * x)

	power := new(big.Int).Quo(scale, bx)
	sum := new(big.Int).Set(power)
	term := new(big.Int)

	for k := int64(1); ; k++ {
		power.Quo(power, x2)
		term.Quo(power, big.NewInt(2*k+1))
		if term.Sign() == 0 {
			break
		}
		if k%2 == 1 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
	}
	return sum
}

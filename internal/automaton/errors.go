package automaton

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrConfiguration indicates invalid construction parameters.
	ErrConfiguration = errors.New("automaton: invalid configuration")

	// ErrIndexOutOfRange indicates a cell address outside the grid.
	ErrIndexOutOfRange = errors.New("automaton: cell index out of range")

	// ErrPerturbationBound indicates more cell changes than the perturbation
	// limit allows.
	ErrPerturbationBound = errors.New("automaton: perturbation exceeds cell limit")

	// ErrDimensionMismatch indicates two grids of different sizes.
	ErrDimensionMismatch = errors.New("automaton: grid dimensions differ")
)

// ConfigError reports the offending configuration field.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("automaton: invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("automaton: invalid %s: %s", e.Field, e.Reason)
}

// Is matches ErrConfiguration so callers can test with errors.Is.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func (e *ConfigError) Unwrap() error { return e.Err }

// IndexError reports an out-of-bounds cell address.
type IndexError struct {
	Row, Col      int
	Width, Height int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("automaton: cell (%d,%d) outside %dx%d grid", e.Row, e.Col, e.Width, e.Height)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

package automaton

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/san-kum/asciilife/internal/digits"
)

// Boundary selects how neighbor lookups treat the grid edge.
type Boundary string

const (
	// BoundaryToroidal wraps edges so the grid is a torus.
	BoundaryToroidal Boundary = "toroidal"
	// BoundaryClamped treats cells beyond the edge as dead.
	BoundaryClamped Boundary = "clamped"
)

// ParseBoundary converts a user-supplied name into a Boundary.
func ParseBoundary(s string) (Boundary, error) {
	switch Boundary(s) {
	case BoundaryToroidal, BoundaryClamped:
		return Boundary(s), nil
	}
	return "", &ConfigError{Field: "Boundary", Reason: fmt.Sprintf("unknown mode %q", s)}
}

const (
	DefaultWidth                = 80
	DefaultHeight               = 24
	DefaultHistoryCapacity      = 5
	DefaultPerturbationFraction = 0.05
	DefaultDigitPrecision       = digits.DefaultPrecision
)

// Config holds the construction parameters of a Controller.
type Config struct {
	Width                int      `validate:"gt=0"`
	Height               int      `validate:"gt=0"`
	Boundary             Boundary `validate:"oneof=toroidal clamped"`
	HistoryCapacity      int      `validate:"gt=0"`
	PerturbationFraction float64  `validate:"gte=0,lte=1"`
	DigitPrecision       int      `validate:"gt=0"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Width:                DefaultWidth,
		Height:               DefaultHeight,
		Boundary:             BoundaryToroidal,
		HistoryCapacity:      DefaultHistoryCapacity,
		PerturbationFraction: DefaultPerturbationFraction,
		DigitPrecision:       DefaultDigitPrecision,
	}
}

var configValidate = validator.New()

// Validate checks every field and reports the first violation as a
// *ConfigError.
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ConfigError{
			Field:  fe.Field(),
			Reason: fmt.Sprintf("value %v fails %q", fe.Value(), constraint(fe)),
		}
	}
	return &ConfigError{Field: "Config", Reason: "validation failed", Err: err}
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

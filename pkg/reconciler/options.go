package reconciler

import (
	"github.com/acherm/PL-ultimate/pkg/authority"
	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/errors"
)

type options struct {
	authority  *authority.Authority
	threshold  float64
	fixedPoint bool
	workers    int
}

func defaultOptions() *options {
	return &options{
		authority: authority.New(),
		threshold: constants.FuzzyThreshold,
	}
}

// Option is a function that configures a reconciler stage.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithAuthority sets the per-field source priority.
func WithAuthority(a *authority.Authority) Option {
	return func(o *options) error {
		if a == nil {
			return &errors.ValidationError{
				Field:   "authority",
				Message: "cannot be nil",
			}
		}
		o.authority = a
		return nil
	}
}

// WithThreshold sets the similarity ratio at or above which two
// identifiers collapse.
func WithThreshold(t float64) Option {
	return func(o *options) error {
		if t <= 0 || t > 1 {
			return errors.NewValidationError("threshold", t, "must be within (0, 1]")
		}
		o.threshold = t
		return nil
	}
}

// WithFixedPoint repeats collapse passes until no identifier is remapped.
func WithFixedPoint(enabled bool) Option {
	return func(o *options) error {
		o.fixedPoint = enabled
		return nil
	}
}

// WithWorkers caps the number of buckets compared concurrently. Zero means
// no limit.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.NewValidationError("workers", n, "cannot be negative")
		}
		o.workers = n
		return nil
	}
}

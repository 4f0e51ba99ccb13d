package scheduler

import (
	"fmt"
	"time"

	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
)

var (
	// ErrInvalidDuration is returned for a negative task duration
	ErrInvalidDuration = fmt.Errorf("%w: duration must not be negative", apperrors.ErrInvalidInput)
	// ErrInvalidHorizon is returned for a negative look-ahead
	ErrInvalidHorizon = fmt.Errorf("%w: days ahead must not be negative", apperrors.ErrInvalidInput)
)

// Scheduler computes advisory slots and placements. It holds no mutable
// state; every call works on the snapshot it is given.
type Scheduler struct {
	now func() time.Time
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock injects the clock used to determine "now" and "today".
// The clock's location is treated as the user's timezone.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the scheduler's current time
func (s *Scheduler) Now() time.Time {
	return s.now()
}

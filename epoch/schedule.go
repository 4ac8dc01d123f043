package epoch

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSchedule is returned when a Schedule cannot describe any
// timestep.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule describes the timesteps of an observation: Count contiguous
// integrations of length Integration starting at Start.
type Schedule struct {
	Start       Epoch
	Integration time.Duration
	Count       int
}

// NewSchedule constructs a validated schedule.
func NewSchedule(start Epoch, integration time.Duration, count int) (Schedule, error) {
	s := Schedule{Start: start, Integration: integration, Count: count}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// Validate reports whether the schedule is usable.
func (s Schedule) Validate() error {
	if s.Integration <= 0 {
		return fmt.Errorf("%w: integration %s must be positive", ErrInvalidSchedule, s.Integration)
	}
	if s.Count <= 0 {
		return fmt.Errorf("%w: count %d must be positive", ErrInvalidSchedule, s.Count)
	}
	return nil
}

// Timestep returns the start of timestep i.
func (s Schedule) Timestep(i int) Epoch {
	return s.Start.AddSeconds(float64(i) * s.Integration.Seconds())
}

// Centroid returns the midpoint of timestep i, the instant UVWs are
// conventionally evaluated at.
func (s Schedule) Centroid(i int) Epoch {
	return s.Start.AddSeconds((float64(i) + 0.5) * s.Integration.Seconds())
}

// Timesteps returns the start of every timestep.
func (s Schedule) Timesteps() []Epoch {
	out := make([]Epoch, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		out = append(out, s.Timestep(i))
	}
	return out
}

// Centroids returns the midpoint of every timestep.
func (s Schedule) Centroids() []Epoch {
	out := make([]Epoch, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		out = append(out, s.Centroid(i))
	}
	return out
}

// End returns the instant the last integration finishes.
func (s Schedule) End() Epoch {
	return s.Timestep(s.Count)
}

// Duration returns the total span of the schedule.
func (s Schedule) Duration() time.Duration {
	return time.Duration(s.Count) * s.Integration
}

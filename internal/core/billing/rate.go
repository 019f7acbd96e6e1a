package billing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// ErrInvalidRate indicates a candidate rate that is not a positive number.
var ErrInvalidRate = errors.New("invalid rate")

// Rate holds the per-minute rate. The zero value is not usable; use NewRate.
type Rate struct {
	mu        sync.RWMutex
	perMinute float64
}

// NewRate creates a Rate starting at initial.
func NewRate(initial float64) (*Rate, error) {
	if err := ValidateRate(initial); err != nil {
		return nil, err
	}
	return &Rate{perMinute: initial}, nil
}

// Set replaces the rate. Invalid candidates are rejected and the previous
// rate is kept.
func (rate *Rate) Set(candidate float64) error {
	if err := ValidateRate(candidate); err != nil {
		return err
	}
	rate.mu.Lock()
	rate.perMinute = candidate
	rate.mu.Unlock()
	return nil
}

// PerMinute returns the current rate.
func (rate *Rate) PerMinute() float64 {
	rate.mu.RLock()
	defer rate.mu.RUnlock()
	return rate.perMinute
}

// ValidateRate returns ErrInvalidRate unless candidate is a finite positive
// number.
func ValidateRate(candidate float64) error {
	if math.IsNaN(candidate) || math.IsInf(candidate, 0) || candidate <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, candidate)
	}
	return nil
}

// ParseRate parses rate text typed into the settings form.
func ParseRate(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidRate, trimmed)
	}
	if err := ValidateRate(parsed); err != nil {
		return 0, err
	}
	return parsed, nil
}

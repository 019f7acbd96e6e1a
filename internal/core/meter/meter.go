// Package meter composes the stopwatch and the billing rate into the single
// object the user interface talks to.
package meter

import (
	"io"
	"time"

	"feemeter/internal/core/billing"
	"feemeter/internal/core/stopwatch"

	"github.com/sirupsen/logrus"
)

// Reading is a point-in-time view for presentation.
type Reading struct {
	ElapsedSeconds int
	Running        bool
	RatePerMinute  float64
	Fee            float64
}

// Meter owns one stopwatch and one rate.
type Meter struct {
	engine *stopwatch.Engine
	rate   *billing.Rate
	logger logrus.FieldLogger
}

// New creates a Meter. A nil logger discards output.
func New(engine *stopwatch.Engine, rate *billing.Rate, logger logrus.FieldLogger) *Meter {
	if logger == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		logger = silent
	}
	return &Meter{
		engine: engine,
		rate:   rate,
		logger: logger.WithField("component", "meter"),
	}
}

func (meter *Meter) Start() { meter.engine.Start() }

func (meter *Meter) Stop() { meter.engine.Stop() }

func (meter *Meter) Reset() { meter.engine.Reset() }

// Toggle starts a stopped meter or stops a running one, and reports whether
// the meter is running afterwards.
func (meter *Meter) Toggle() bool {
	if meter.engine.Snapshot().Running {
		meter.engine.Stop()
		return false
	}
	meter.engine.Start()
	return true
}

// DisplaySeconds returns the elapsed whole seconds.
func (meter *Meter) DisplaySeconds() int {
	return meter.engine.DisplaySeconds()
}

// Fee returns the fee at the current rate under policy.
func (meter *Meter) Fee(policy billing.RoundingPolicy) float64 {
	return meter.FeeAt(meter.rate.PerMinute(), policy)
}

// FeeAt returns the fee at ratePerMinute under policy.
func (meter *Meter) FeeAt(ratePerMinute float64, policy billing.RoundingPolicy) float64 {
	return billing.Round(billing.Fee(meter.engine.DisplaySeconds(), ratePerMinute), policy)
}

// SetRate replaces the per-minute rate. Elapsed time is not touched.
func (meter *Meter) SetRate(candidate float64) error {
	previous := meter.rate.PerMinute()
	if err := meter.rate.Set(candidate); err != nil {
		meter.logger.WithField("candidate", candidate).Warn("rejected rate")
		return err
	}
	meter.logger.WithFields(logrus.Fields{
		"previous": previous,
		"rate":     candidate,
	}).Info("rate changed")
	return nil
}

// RatePerMinute returns the current rate.
func (meter *Meter) RatePerMinute() float64 {
	return meter.rate.PerMinute()
}

// Read returns the elapsed time, running flag, rate and exact fee together.
func (meter *Meter) Read() Reading {
	elapsed := meter.engine.DisplaySeconds()
	rate := meter.rate.PerMinute()
	return Reading{
		ElapsedSeconds: elapsed,
		Running:        meter.engine.Snapshot().Running,
		RatePerMinute:  rate,
		Fee:            billing.Fee(elapsed, rate),
	}
}

func (meter *Meter) OnEnvironmentSuspend() { meter.engine.OnEnvironmentSuspend() }

func (meter *Meter) OnEnvironmentSuspendAt(at time.Time) { meter.engine.OnEnvironmentSuspendAt(at) }

func (meter *Meter) OnEnvironmentResume() { meter.engine.OnEnvironmentResume() }

// Subscribe forwards to the stopwatch event stream.
func (meter *Meter) Subscribe(buffer int) <-chan stopwatch.Event {
	return meter.engine.Subscribe(buffer)
}

// Close tears down the stopwatch.
func (meter *Meter) Close() {
	meter.engine.Close()
}

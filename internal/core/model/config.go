package model

import "time"

// StopwatchConfig contains runtime settings for the stopwatch engine.
type StopwatchConfig struct {
	// TickInterval is the nominal period of the advancement callback.
	TickInterval time.Duration
}

// ProbeConfig defines how often the host is checked for a missed wake-up.
type ProbeConfig struct {
	Interval  time.Duration
	Threshold time.Duration
}


package preferences

import (
	"time"

	"feemeter/internal/core/billing"
	"feemeter/internal/core/model"

	"github.com/sirupsen/logrus"
)

// Settings defines startup preferences.
type Settings struct {
	RatePerMinute float64
	Rounding      billing.RoundingPolicy

	TickInterval     time.Duration
	ProbeInterval    time.Duration
	SuspendThreshold time.Duration

	LogLevel logrus.Level
}

// DefaultSettings returns default settings for the fee meter.
func DefaultSettings() Settings {
	return Settings{
		RatePerMinute:    100,
		Rounding:         billing.RoundTwoDecimals,
		TickInterval:     time.Second,
		ProbeInterval:    2 * time.Second,
		SuspendThreshold: 5 * time.Second,
		LogLevel:         logrus.InfoLevel,
	}
}

// StopwatchConfig converts settings to the engine configuration.
func (settings Settings) StopwatchConfig() model.StopwatchConfig {
	return model.StopwatchConfig{TickInterval: settings.TickInterval}
}

// ProbeConfig converts settings to the suspend probe configuration.
func (settings Settings) ProbeConfig() model.ProbeConfig {
	return model.ProbeConfig{
		Interval:  settings.ProbeInterval,
		Threshold: settings.SuspendThreshold,
	}
}


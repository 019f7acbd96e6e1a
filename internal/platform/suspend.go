package platform

import (
	"io"
	"sync"
	"time"

	"feemeter/internal/core/clock"
	"feemeter/internal/core/model"

	"github.com/sirupsen/logrus"
)

// SuspendListener receives host suspension reports.
type SuspendListener interface {
	OnEnvironmentSuspendAt(at time.Time)
	OnEnvironmentResume()
}

// SuspendProbe detects that the host stopped running the process for a while
// (laptop lid closed, process frozen) by watching for wall-clock gaps between
// its own periodic callbacks.
type SuspendProbe struct {
	mu       sync.Mutex
	clock    clock.Clock
	config   model.ProbeConfig
	listener SuspendListener
	logger   logrus.FieldLogger
	timer    clock.Timer
	lastSeen time.Time
	running  bool
}

// NewSuspendProbe creates a stopped probe.
func NewSuspendProbe(clk clock.Clock, config model.ProbeConfig, listener SuspendListener, logger logrus.FieldLogger) *SuspendProbe {
	if clk == nil {
		clk = clock.Wall()
	}
	if config.Interval <= 0 {
		config.Interval = 2 * time.Second
	}
	if config.Threshold <= 0 {
		config.Threshold = 5 * time.Second
	}
	if logger == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		logger = silent
	}
	return &SuspendProbe{
		clock:    clk,
		config:   config,
		listener: listener,
		logger:   logger.WithField("component", "suspend_probe"),
	}
}

// Start begins probing.
func (probe *SuspendProbe) Start() {
	probe.mu.Lock()
	defer probe.mu.Unlock()
	if probe.running {
		return
	}
	probe.running = true
	probe.lastSeen = probe.clock.Now()
	probe.armLocked()
}

// Stop cancels probing.
func (probe *SuspendProbe) Stop() {
	probe.mu.Lock()
	defer probe.mu.Unlock()
	if !probe.running {
		return
	}
	probe.running = false
	if probe.timer != nil {
		probe.timer.Stop()
		probe.timer = nil
	}
}

func (probe *SuspendProbe) armLocked() {
	probe.timer = probe.clock.AfterFunc(probe.config.Interval, probe.check)
}

func (probe *SuspendProbe) check() {
	probe.mu.Lock()
	if !probe.running {
		probe.mu.Unlock()
		return
	}
	now := probe.clock.Now()
	lastSeen := probe.lastSeen
	probe.lastSeen = now
	probe.armLocked()
	probe.mu.Unlock()

	gap := now.Sub(lastSeen)
	if gap <= probe.config.Interval+probe.config.Threshold {
		return
	}

	probe.logger.WithFields(logrus.Fields{
		"last_seen": lastSeen.Format(time.RFC3339),
		"gap":       gap.String(),
	}).Info("host suspension detected")
	probe.listener.OnEnvironmentSuspendAt(lastSeen)
	probe.listener.OnEnvironmentResume()
}

package stopwatch

import (
	"io"
	"sync"
	"time"

	"feemeter/internal/core/clock"
	"feemeter/internal/core/model"

	"github.com/sirupsen/logrus"
)

// Config contains runtime options for Engine.
type Config struct {
	Clock  clock.Clock
	Logger logrus.FieldLogger
}

// Engine accumulates whole seconds of running time.
//
// Elapsed time is always derived from the anchor instant, so a late or missed
// callback never loses or double counts time. All methods are safe to call
// from any goroutine and none of them fail: calls that make no sense in the
// current state are no-ops.
type Engine struct {
	mu         sync.Mutex
	clock      clock.Clock
	logger     logrus.FieldLogger
	config     model.StopwatchConfig
	state      State
	timer      clock.Timer
	generation uint64
	events     []chan Event
	closed     bool
}

// New creates a stopped Engine with zero elapsed time.
func New(config model.StopwatchConfig, options Config) *Engine {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = clock.Wall()
	}
	if options.Logger == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		options.Logger = silent
	}

	return &Engine{
		clock:  options.Clock,
		logger: options.Logger.WithField("component", "stopwatch"),
		config: config,
	}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Start resumes counting from the current elapsed seconds.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.state.Running {
		return
	}

	now := engine.clock.Now()
	engine.state.Running = true
	engine.state.Anchor = now.Add(-time.Duration(engine.state.ElapsedSeconds) * time.Second)
	engine.state.SuspendedAt = time.Time{}
	engine.armLocked(now)

	engine.logger.WithField("elapsed_seconds", engine.state.ElapsedSeconds).Info("stopwatch started")
	engine.emitLocked(Event{
		Type:           EventStateChange,
		Running:        true,
		ElapsedSeconds: engine.state.ElapsedSeconds,
		At:             now,
	})
}

// Stop freezes the elapsed seconds. Time up to now is credited first,
// including a pending suspension gap.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || !engine.state.Running {
		return
	}

	now := engine.clock.Now()
	engine.cancelLocked()
	engine.syncLocked(now)
	engine.state.Running = false
	engine.state.Anchor = time.Time{}
	engine.state.SuspendedAt = time.Time{}

	engine.logger.WithField("elapsed_seconds", engine.state.ElapsedSeconds).Info("stopwatch stopped")
	engine.emitLocked(Event{
		Type:           EventStateChange,
		Running:        false,
		ElapsedSeconds: engine.state.ElapsedSeconds,
		At:             now,
	})
}

// Reset returns the stopwatch to zero and stopped, whatever its state.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}

	engine.cancelLocked()
	engine.state = State{}

	engine.logger.Info("stopwatch reset")
	engine.emitLocked(Event{
		Type: EventReset,
		At:   engine.clock.Now(),
	})
}

// OnEnvironmentSuspend records that the host stopped delivering callbacks now.
func (engine *Engine) OnEnvironmentSuspend() {
	engine.OnEnvironmentSuspendAt(engine.clock.Now())
}

// OnEnvironmentSuspendAt records that the host stopped delivering callbacks at
// the given instant. The stopwatch stays logically running. A second
// suspension before a resume is ignored.
func (engine *Engine) OnEnvironmentSuspendAt(at time.Time) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || !engine.state.Running || engine.state.Suspended() {
		return
	}

	engine.cancelLocked()
	engine.syncLocked(at)
	engine.state.SuspendedAt = at

	engine.logger.WithField("elapsed_seconds", engine.state.ElapsedSeconds).Debug("host suspended")
	engine.emitLocked(Event{
		Type:           EventSuspended,
		Running:        true,
		ElapsedSeconds: engine.state.ElapsedSeconds,
		At:             at,
	})
}

// OnEnvironmentResume credits the time spent suspended and re-arms ticking.
func (engine *Engine) OnEnvironmentResume() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || !engine.state.Running || !engine.state.Suspended() {
		return
	}

	now := engine.clock.Now()
	gap := now.Sub(engine.state.SuspendedAt)
	if gap < 0 {
		gap = 0
	}
	engine.state.SuspendedAt = time.Time{}
	engine.syncLocked(now)
	engine.armLocked(now)

	engine.logger.WithFields(logrus.Fields{
		"gap":             gap.String(),
		"elapsed_seconds": engine.state.ElapsedSeconds,
	}).Warn("recovered time while host was suspended")
	engine.emitLocked(Event{
		Type:           EventGapRecovered,
		Running:        true,
		ElapsedSeconds: engine.state.ElapsedSeconds,
		Gap:            gap,
		At:             now,
	})
}

// DisplaySeconds returns the elapsed whole seconds. While ticking normally the
// value is brought up to date from the anchor first.
func (engine *Engine) DisplaySeconds() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state.Running && !engine.state.Suspended() && !engine.closed {
		engine.syncLocked(engine.clock.Now())
	}
	return engine.state.ElapsedSeconds
}

// Snapshot returns a copy of the current state.
func (engine *Engine) Snapshot() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// Close cancels the scheduled callback and closes observers. Every later call
// is a no-op.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.cancelLocked()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if generation != engine.generation || engine.closed ||
		!engine.state.Running || engine.state.Suspended() {
		return
	}

	now := engine.clock.Now()
	engine.syncLocked(now)
	engine.armLocked(now)

	engine.emitLocked(Event{
		Type:           EventTick,
		Running:        true,
		ElapsedSeconds: engine.state.ElapsedSeconds,
		At:             now,
	})
}

// syncLocked recomputes elapsed seconds from the anchor. Elapsed time never
// goes backwards, even if the wall clock does.
func (engine *Engine) syncLocked(now time.Time) {
	derived := int(now.Sub(engine.state.Anchor) / time.Second)
	if derived < engine.state.ElapsedSeconds {
		engine.logger.WithFields(logrus.Fields{
			"derived": derived,
			"elapsed": engine.state.ElapsedSeconds,
		}).Warn("wall clock moved backwards")
		return
	}
	engine.state.ElapsedSeconds = derived
}

// armLocked cancels any previous callback and schedules the next one on the
// following period boundary measured from the anchor.
func (engine *Engine) armLocked(now time.Time) {
	engine.cancelLocked()

	period := engine.config.TickInterval
	sinceAnchor := now.Sub(engine.state.Anchor)
	delay := period - sinceAnchor%period
	if sinceAnchor < 0 {
		delay = period
	}

	generation := engine.generation
	engine.timer = engine.clock.AfterFunc(delay, func() {
		engine.tick(generation)
	})
}

func (engine *Engine) cancelLocked() {
	engine.generation++
	if engine.timer != nil {
		engine.timer.Stop()
		engine.timer = nil
	}
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

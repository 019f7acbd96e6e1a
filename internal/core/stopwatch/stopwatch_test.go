package stopwatch

import (
	"testing"
	"time"

	"feemeter/internal/core/clock/testutil"
	"feemeter/internal/core/model"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *testutil.FakeClock) {
	t.Helper()
	clk := testutil.NewFakeClock(epoch)
	engine := New(model.StopwatchConfig{TickInterval: time.Second}, Config{Clock: clk})
	t.Cleanup(engine.Close)
	return engine, clk
}

func TestStartWaitStop(t *testing.T) {
	engine, clk := newTestEngine(t)

	engine.Start()
	clk.Advance(5 * time.Second)
	engine.Stop()

	assert.Equal(t, 5, engine.DisplaySeconds())
	assert.False(t, engine.Snapshot().Running)
	assert.Equal(t, 0, clk.Pending())
}

func TestTicksAdvanceOncePerSecond(t *testing.T) {
	engine, clk := newTestEngine(t)
	events := engine.Subscribe(16)

	engine.Start()
	<-events

	for want := 1; want <= 3; want++ {
		clk.Advance(time.Second)
		event := <-events
		assert.Equal(t, EventTick, event.Type)
		assert.Equal(t, want, event.ElapsedSeconds)
	}
	assert.Equal(t, 3, engine.Snapshot().ElapsedSeconds)
}

func TestRedundantCallsWithoutElapsedTime(t *testing.T) {
	engine, clk := newTestEngine(t)
	engine.Start()
	clk.Advance(3 * time.Second)
	engine.Stop()

	engine.Start()
	engine.Start()
	engine.Stop()
	engine.Stop()
	engine.Start()
	engine.Stop()

	assert.Equal(t, 3, engine.DisplaySeconds())
}

func TestStopTwiceEqualsStopOnce(t *testing.T) {
	engine, clk := newTestEngine(t)
	engine.Start()
	clk.Advance(2500 * time.Millisecond)

	engine.Stop()
	once := engine.Snapshot()
	engine.Stop()

	assert.Equal(t, once, engine.Snapshot())
	assert.Equal(t, 2, once.ElapsedSeconds)
}

func TestResumeAfterPauseContinuesFromElapsed(t *testing.T) {
	engine, clk := newTestEngine(t)

	engine.Start()
	clk.Advance(3 * time.Second)
	engine.Stop()
	clk.Advance(time.Hour)
	engine.Start()
	clk.Advance(2 * time.Second)
	engine.Stop()

	assert.Equal(t, 5, engine.DisplaySeconds())
}

func TestResetFromAnyState(t *testing.T) {
	cases := map[string]func(*Engine, *testutil.FakeClock){
		"stopped": func(engine *Engine, clk *testutil.FakeClock) {
			engine.Start()
			clk.Advance(4 * time.Second)
			engine.Stop()
		},
		"running": func(engine *Engine, clk *testutil.FakeClock) {
			engine.Start()
			clk.Advance(7 * time.Second)
		},
		"suspended": func(engine *Engine, clk *testutil.FakeClock) {
			engine.Start()
			clk.Advance(2 * time.Second)
			engine.OnEnvironmentSuspend()
			clk.Jump(30 * time.Second)
		},
		"fresh": func(*Engine, *testutil.FakeClock) {},
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			engine, clk := newTestEngine(t)
			setup(engine, clk)

			engine.Reset()

			assert.Equal(t, State{}, engine.Snapshot())
			assert.Equal(t, 0, clk.Pending())
			clk.Advance(5 * time.Second)
			assert.Equal(t, 0, engine.DisplaySeconds())
		})
	}
}

func TestSuspendResumeRecoversGap(t *testing.T) {
	engine, clk := newTestEngine(t)

	engine.Start()
	engine.OnEnvironmentSuspend()
	assert.Equal(t, 0, clk.Pending())
	assert.True(t, engine.Snapshot().Suspended())

	clk.Jump(10 * time.Second)
	engine.OnEnvironmentResume()

	state := engine.Snapshot()
	assert.Equal(t, 10, state.ElapsedSeconds)
	assert.True(t, state.Running)
	assert.False(t, state.Suspended())
	assert.Equal(t, 1, clk.Pending())
}

func TestSuspendHooksAreIdempotent(t *testing.T) {
	engine, clk := newTestEngine(t)

	engine.OnEnvironmentSuspend()
	engine.OnEnvironmentResume()
	assert.Equal(t, State{}, engine.Snapshot())

	engine.Start()
	clk.Advance(time.Second)
	engine.OnEnvironmentSuspend()
	clk.Jump(4 * time.Second)
	engine.OnEnvironmentSuspend()
	clk.Jump(4 * time.Second)
	engine.OnEnvironmentResume()
	engine.OnEnvironmentResume()

	assert.Equal(t, 9, engine.DisplaySeconds())
}

func TestLateTickDoesNotDoubleCountGap(t *testing.T) {
	engine, clk := newTestEngine(t)
	engine.Start()
	clk.Advance(2 * time.Second)

	clk.Jump(10 * time.Second)
	clk.Advance(0)
	assert.Equal(t, 12, engine.Snapshot().ElapsedSeconds)

	engine.OnEnvironmentSuspendAt(epoch.Add(2 * time.Second))
	engine.OnEnvironmentResume()

	assert.Equal(t, 12, engine.DisplaySeconds())
	clk.Advance(time.Second)
	assert.Equal(t, 13, engine.Snapshot().ElapsedSeconds)
}

func TestStopDuringSuspensionCreditsGap(t *testing.T) {
	engine, clk := newTestEngine(t)
	engine.Start()
	clk.Advance(time.Second)
	engine.OnEnvironmentSuspend()
	clk.Jump(6 * time.Second)

	engine.Stop()

	state := engine.Snapshot()
	assert.Equal(t, 7, state.ElapsedSeconds)
	assert.False(t, state.Suspended())
	assert.True(t, state.Anchor.IsZero())
}

func TestDelayedTicksDoNotDrift(t *testing.T) {
	engine, clk := newTestEngine(t)
	engine.Start()

	for i := 0; i < 10; i++ {
		clk.Jump(1300 * time.Millisecond)
		clk.Advance(0)
	}

	assert.Equal(t, 13, engine.Snapshot().ElapsedSeconds)
}

func TestElapsedNeverGoesBackwards(t *testing.T) {
	engine, clk := newTestEngine(t)
	engine.Start()
	clk.Advance(5 * time.Second)

	clk.Jump(-3 * time.Second)

	assert.Equal(t, 5, engine.DisplaySeconds())
}

func TestAnchorSetOnlyWhileRunning(t *testing.T) {
	engine, clk := newTestEngine(t)
	assert.True(t, engine.Snapshot().Anchor.IsZero())

	engine.Start()
	assert.Equal(t, epoch, engine.Snapshot().Anchor)

	clk.Advance(3 * time.Second)
	engine.Stop()
	assert.True(t, engine.Snapshot().Anchor.IsZero())

	engine.Start()
	assert.Equal(t, clk.Now().Add(-3*time.Second), engine.Snapshot().Anchor)
}

func TestCloseStopsEverything(t *testing.T) {
	engine, clk := newTestEngine(t)
	events := engine.Subscribe(4)
	engine.Start()
	<-events

	engine.Close()
	_, open := <-events
	assert.False(t, open)
	assert.Equal(t, 0, clk.Pending())

	engine.Reset()
	engine.Start()
	assert.Equal(t, 0, clk.Pending())

	late := engine.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestResumeLogsRecoveredGap(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clk := testutil.NewFakeClock(epoch)
	engine := New(model.StopwatchConfig{}, Config{Clock: clk, Logger: logger})
	defer engine.Close()

	engine.Start()
	engine.OnEnvironmentSuspend()
	clk.Jump(42 * time.Second)
	engine.OnEnvironmentResume()

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "42s", entry.Data["gap"])
	assert.Equal(t, "stopwatch", entry.Data["component"])
}

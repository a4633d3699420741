package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mechsim/internal/core/events/bus"
	"github.com/zeusync/mechsim/internal/core/robot"
	phys "github.com/zeusync/mechsim/internal/core/systems/physics"
)

func wallScenario() (*phys.World, *phys.Body, *phys.Body) {
	w := phys.NewWorld()
	mover := w.NewBody(phys.Kinetic, 1, phys.NewCircle(0, 0, 5), phys.WithVelocity(phys.V(10, 0)))
	wall := w.NewBody(phys.Static, 1, phys.NewCircle(20, 0, 5))
	w.RegisterBody(mover)
	w.RegisterBody(wall)
	return w, mover, wall
}

func TestRunnerStaticWall(t *testing.T) {
	w, mover, wall := wallScenario()
	r := NewRunner(w, WithDT(0.1))

	require.NoError(t, r.Run(context.Background(), 30))

	assert.Equal(t, uint64(30), r.Ticks())
	assert.InDelta(t, 3, r.Elapsed(), 1e-9)
	assert.InDelta(t, -10, mover.Velocity().X, 1e-6)
	assert.Equal(t, phys.V(20, 0), wall.Position())

	s := r.Summary()
	assert.Equal(t, 2, s.Bodies)
	assert.Equal(t, uint64(1), s.Stats.Responses)
	assert.Equal(t, w.StateDigest(), s.Digest)
}

func TestRunnerIsDeterministic(t *testing.T) {
	run := func() uint64 {
		w, _, _ := wallScenario()
		r := NewRunner(w, WithDT(0.05))
		require.NoError(t, r.Run(context.Background(), 100))
		return r.Summary().Digest
	}
	assert.Equal(t, run(), run())
}

func TestRunnerUpdatesRobotBodiesOnce(t *testing.T) {
	w := phys.NewWorld()
	body := w.NewBody(phys.Kinetic, 1, phys.NewCircle(0, 0, 1), phys.WithVelocity(phys.V(1, 0)))
	rb := robot.New("bot", body)
	r := NewRunner(w, WithDT(0.5))

	require.NoError(t, r.AddRobot(rb))
	assert.True(t, body.Registered())

	require.NoError(t, r.Tick(context.Background()))
	assert.InDelta(t, 0.5, body.Position().X, 1e-9)
	assert.InDelta(t, 0.5, rb.Clock(), 1e-9)
	assert.Same(t, rb, r.Robot("bot"))
	assert.Len(t, r.Robots(), 1)
}

func TestAddRobotErrors(t *testing.T) {
	w := phys.NewWorld()
	r := NewRunner(w)

	foreign := robot.New("x", phys.NewWorld().NewBody(phys.Kinetic, 1, nil))
	assert.ErrorIs(t, r.AddRobot(foreign), ErrForeignRobot)

	require.NoError(t, r.AddRobot(robot.New("a", w.NewBody(phys.Kinetic, 1, nil))))
	assert.ErrorIs(t, r.AddRobot(robot.New("a", w.NewBody(phys.Kinetic, 1, nil))), ErrDuplicateRobot)
}

func TestRunnerAbortsOnRobotError(t *testing.T) {
	w := phys.NewWorld()
	rb := robot.New("bot", w.NewBody(phys.Kinetic, 1, nil), robot.WithController(robot.Cruise("missing", 1)))
	r := NewRunner(w)
	require.NoError(t, r.AddRobot(rb))

	err := r.Run(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick 1")
	assert.Zero(t, r.Ticks())
}

func TestRunnerCancellation(t *testing.T) {
	w, _, _ := wallScenario()
	r := NewRunner(w)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, r.Run(ctx, 0), context.Canceled)
	assert.Zero(t, r.Ticks())
}

func TestRunnerPacing(t *testing.T) {
	w, _, _ := wallScenario()
	r := NewRunner(w, WithRate(200))

	start := time.Now()
	require.NoError(t, r.Run(context.Background(), 4))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.Equal(t, uint64(4), r.Ticks())
}

func TestTickInterval(t *testing.T) {
	tests := []struct {
		rate float64
		want time.Duration
	}{
		{rate: 1, want: time.Second},
		{rate: 200, want: 5 * time.Millisecond},
		{rate: 2e9, want: time.Nanosecond},
		{rate: math.Inf(1), want: time.Nanosecond},
		{rate: 1e-300, want: time.Duration(math.MaxInt64)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tickInterval(tt.rate), "rate %g", tt.rate)
	}
}

func TestRunnerHugeRate(t *testing.T) {
	r := NewRunner(phys.NewWorld(), WithRate(2e9))
	assert.NotPanics(t, func() {
		require.NoError(t, r.Run(context.Background(), 3))
	})
	assert.Equal(t, uint64(3), r.Ticks())
}

func TestRunnerPublishesTicks(t *testing.T) {
	eb := bus.New()
	var ticks []uint64
	_, err := eb.Subscribe(EventTick, func(e bus.Event) error {
		ticks = append(ticks, e.Data().(TickInfo).Tick)
		return nil
	})
	require.NoError(t, err)

	w, _, _ := wallScenario()
	r := NewRunner(w, WithEventBus(eb))
	require.NoError(t, r.Run(context.Background(), 3))

	assert.Equal(t, []uint64{1, 2, 3}, ticks)
}

func TestRunnerOptions(t *testing.T) {
	r := NewRunner(phys.NewWorld(), WithDT(-1), WithRate(-5), WithLogger(nil))
	assert.Equal(t, DefaultDT, r.DT())
	assert.Zero(t, r.rate)
	assert.NotNil(t, r.logger)
}

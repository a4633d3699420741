package robot

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	phys "github.com/zeusync/mechsim/internal/core/systems/physics"
)

const tolerance = 1e-9

type countingSensor struct {
	name  string
	polls int
	err   error
}

func (s *countingSensor) Name() string { return s.name }

func (s *countingSensor) Poll(context.Context, *Robot, *Blackboard) error {
	s.polls++
	return s.err
}

func newArena(t *testing.T) (*phys.World, *Robot) {
	t.Helper()
	w := phys.NewWorld()
	body := w.NewBody(phys.Kinetic, 1, phys.NewCircle(0, 0, 1), phys.WithName("bot"))
	w.RegisterBody(body)
	return w, New("bot", body)
}

func TestBlackboard(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("range", 3.5)
	bb.Set("count", 2)
	bb.Set("hit", true)
	bb.Set("tag", "wall")

	f, ok := bb.GetFloat("range")
	assert.True(t, ok)
	assert.Equal(t, 3.5, f)
	f, ok = bb.GetFloat("count")
	assert.True(t, ok)
	assert.Equal(t, 2.0, f)
	_, ok = bb.GetFloat("tag")
	assert.False(t, ok)

	hit, ok := bb.GetBool("hit")
	assert.True(t, ok && hit)
	tag, ok := bb.GetString("tag")
	assert.True(t, ok)
	assert.Equal(t, "wall", tag)

	assert.Equal(t, []string{"count", "hit", "range", "tag"}, bb.Keys())
	assert.Equal(t, int64(4), bb.Version())

	bb.Delete("count")
	bb.Delete("missing")
	assert.False(t, bb.Has("count"))
	assert.Equal(t, int64(5), bb.Version())
	assert.Len(t, bb.Snapshot(), 3)
}

func TestSensorPollingInterval(t *testing.T) {
	_, r := newArena(t)
	slow := &countingSensor{name: "slow"}
	fast := &countingSensor{name: "fast"}
	require.NoError(t, r.AddSensor(slow, 0.25))
	require.NoError(t, r.AddSensor(fast, -3))

	for range 8 {
		require.NoError(t, r.Update(context.Background(), 0.1))
	}

	assert.Equal(t, 3, slow.polls)
	assert.Equal(t, 8, fast.polls)
	assert.InDelta(t, 0.8, r.Clock(), tolerance)
}

func TestDuplicateNames(t *testing.T) {
	_, r := newArena(t)
	require.NoError(t, r.AddSensor(NewRangeSensor("eye", 0), 0))
	assert.ErrorIs(t, r.AddSensor(NewTagSensor("eye", 0), 0), ErrDuplicateSensor)

	require.NoError(t, r.AddDevice(NewMotor("drive", 1, 0)))
	assert.ErrorIs(t, r.AddDevice(NewMotor("drive", 2, 0)), ErrDuplicateDevice)
}

func TestRangeAndTagSensors(t *testing.T) {
	w, r := newArena(t)
	wall := w.NewBody(phys.Static, 1, phys.NewRectangle(10, -5, 2, 10), phys.WithName("wall"))
	w.RegisterBody(wall)
	w.RegisterBody(w.NewBody(phys.Ghost, 1, phys.NewCircle(5, 0, 1), phys.WithName("ghost")))

	require.NoError(t, r.AddSensor(NewRangeSensor("ahead", 0), 0))
	require.NoError(t, r.AddSensor(NewRangeSensor("behind", math.Pi), 0))
	require.NoError(t, r.AddSensor(NewTagSensor("color", 0), 0))
	require.NoError(t, r.Update(context.Background(), 0.1))

	bb := r.Blackboard()
	ahead, _ := bb.GetFloat("ahead")
	assert.InDelta(t, 10, ahead, tolerance)
	behind, _ := bb.GetFloat("behind")
	assert.Equal(t, phys.NoHit, behind)
	tag, _ := bb.GetString("color")
	assert.Equal(t, "wall", tag)

	r.SetHeading(math.Pi / 2)
	require.NoError(t, r.Update(context.Background(), 0.1))
	tag, _ = bb.GetString("color")
	assert.Empty(t, tag)
}

func TestBumperSensor(t *testing.T) {
	w, r := newArena(t)
	bumper := NewBumperSensor("bump")
	require.NoError(t, r.AddSensor(bumper, 0))
	assert.Len(t, r.Body().Listeners(), 1)

	ghost := w.NewBody(phys.Ghost, 1, phys.NewCircle(1.5, 0, 1))
	w.RegisterBody(ghost)
	require.NoError(t, r.Update(context.Background(), 0))
	hit, _ := r.Blackboard().GetBool("bump")
	assert.False(t, hit, "ghost contacts do not trigger the bumper")

	w.UnregisterBody(ghost)
	w.RegisterBody(w.NewBody(phys.Static, 1, phys.NewCircle(0, 1.5, 1)))
	require.NoError(t, r.Update(context.Background(), 0))
	hit, _ = r.Blackboard().GetBool("bump")
	assert.True(t, hit)
}

func TestAccelerometerSensor(t *testing.T) {
	_, r := newArena(t)
	acc := NewAccelerometerSensor("ax", AxisX)
	require.NoError(t, r.AddSensor(acc, 0))
	require.NoError(t, r.AddSensor(NewAccelerometerSensor("ay", AxisY), 0))

	require.NoError(t, r.Update(context.Background(), 1))
	a, _ := r.Blackboard().GetFloat("ax")
	assert.Zero(t, a)

	r.Body().ApplyAcceleration(2, -1)
	require.NoError(t, r.Update(context.Background(), 1))
	a, _ = r.Blackboard().GetFloat("ax")
	assert.InDelta(t, 2, a, tolerance)
	a, _ = r.Blackboard().GetFloat("ay")
	assert.InDelta(t, -1, a, tolerance)
	assert.Equal(t, AxisX, acc.Axis())
}

func TestMotor(t *testing.T) {
	m := NewMotor("drive", -10, 0)
	assert.Equal(t, 10.0, m.MaxPower())

	m.Activate(2, 0.5)
	assert.Equal(t, 1.0, m.Power())
	assert.True(t, m.Active())

	w := phys.NewWorld()
	body := w.NewBody(phys.Kinetic, 2, phys.NewCircle(0, 0, 1))
	w.RegisterBody(body)
	r := New("bot", body)
	require.NoError(t, r.AddDevice(m))

	require.NoError(t, r.Update(context.Background(), 1))
	assert.InDelta(t, 2.5, body.Acceleration().X, tolerance, "half the tick at 10N on 2kg")
	assert.False(t, m.Active())

	require.NoError(t, r.Update(context.Background(), 1))
	assert.InDelta(t, 2.5, body.Velocity().X, tolerance)
	assert.Equal(t, phys.Vec2{}, body.Acceleration())

	m.Activate(-3, -1)
	assert.Equal(t, -1.0, m.Power())
	assert.Zero(t, m.Remaining())
}

func TestMotorFollowsHeading(t *testing.T) {
	_, r := newArena(t)
	m := NewMotor("drive", 4, math.Pi/2)
	require.NoError(t, r.AddDevice(m))
	r.SetHeading(math.Pi / 2)

	m.Activate(1, 10)
	require.NoError(t, r.Update(context.Background(), 0.5))

	acc := r.Body().Acceleration()
	assert.InDelta(t, -4, acc.X, tolerance)
	assert.InDelta(t, 0, acc.Y, tolerance)
	assert.InDelta(t, 9.5, m.Remaining(), tolerance)
}

func TestCruiseController(t *testing.T) {
	_, r := newArena(t)
	require.NoError(t, r.AddDevice(NewMotor("drive", 2, 0)))
	r.SetController(Cruise("drive", 0.5))

	for range 10 {
		require.NoError(t, r.Update(context.Background(), 0.1))
	}

	assert.InDelta(t, 0.9, r.Body().Velocity().X, 1e-9)
	assert.Greater(t, r.Body().Position().X, 0.0)
}

func TestAvoidController(t *testing.T) {
	w, r := newArena(t)
	w.RegisterBody(w.NewBody(phys.Static, 1, phys.NewRectangle(3, -5, 1, 10)))
	require.NoError(t, r.AddSensor(NewRangeSensor("eye", 0), 0))
	require.NoError(t, r.AddDevice(NewMotor("drive", 2, 0)))
	r.SetController(Avoid(AvoidConfig{Range: "eye", Motor: "drive", Power: 1, Threshold: 5, TurnRate: 1}))

	require.NoError(t, r.Update(context.Background(), 0.5))

	m, ok := r.Motor("drive")
	require.True(t, ok)
	assert.InDelta(t, 0.5, r.Heading(), tolerance)
	assert.Equal(t, -0.5, m.Power())
}

func TestControllerErrors(t *testing.T) {
	_, r := newArena(t)
	r.SetController(Cruise("missing", 1))

	err := r.Update(context.Background(), 0.1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown motor")
}

func TestSensorErrorsAreJoined(t *testing.T) {
	_, r := newArena(t)
	errA, errB := errors.New("a broke"), errors.New("b broke")
	require.NoError(t, r.AddSensor(&countingSensor{name: "a", err: errA}, 0))
	require.NoError(t, r.AddSensor(&countingSensor{name: "b", err: errB}, 0))

	called := false
	r.SetController(ControllerFunc(func(context.Context, *Robot, *Blackboard, float64) error {
		called = true
		return nil
	}))

	err := r.Update(context.Background(), 0.1)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.False(t, called)
}

func TestUpdateHonoursContext(t *testing.T) {
	_, r := newArena(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, r.Update(ctx, 0.1), context.Canceled)
	assert.Zero(t, r.Clock())
}

func TestHeadingWraps(t *testing.T) {
	_, r := newArena(t)
	r.SetHeading(3 * math.Pi)
	assert.InDelta(t, math.Pi, math.Abs(r.Heading()), tolerance)

	r.SetHeading(0)
	r.Turn(-math.Pi / 2)
	assert.InDelta(t, -math.Pi/2, r.Heading(), tolerance)
}

package robot

import (
	"context"
	"fmt"

	phys "github.com/zeusync/mechsim/internal/core/systems/physics"
)

// Sensor reads the world on behalf of a robot and writes the result to the
// blackboard, conventionally under its own name.
type Sensor interface {
	Name() string
	Poll(ctx context.Context, r *Robot, bb *Blackboard) error
}

// polled wraps a sensor with its polling schedule. A zero interval polls
// every tick.
type polled struct {
	sensor   Sensor
	interval float64
	timeLeft float64
}

func (p *polled) update(ctx context.Context, r *Robot, bb *Blackboard, dt float64) error {
	p.timeLeft -= dt
	if p.timeLeft > 0 {
		return nil
	}
	p.timeLeft = p.interval
	if err := p.sensor.Poll(ctx, r, bb); err != nil {
		return fmt.Errorf("sensor %s: %w", p.sensor.Name(), err)
	}
	return nil
}

// RangeSensor reports the distance to the nearest body straight ahead of the
// sensor, or phys.NoHit when nothing is in view.
type RangeSensor struct {
	name   string
	offset float64
}

// NewRangeSensor points the sensor offset radians away from the robot heading.
func NewRangeSensor(name string, offset float64) *RangeSensor {
	return &RangeSensor{name: name, offset: offset}
}

func (s *RangeSensor) Name() string { return s.name }

func (s *RangeSensor) Poll(_ context.Context, r *Robot, bb *Blackboard) error {
	_, d := r.look(s.offset)
	bb.Set(s.name, d)
	return nil
}

// TagSensor reports the name of the nearest body straight ahead, or the
// empty string. It stands in for a colour sensor: names are the tags.
type TagSensor struct {
	name   string
	offset float64
}

func NewTagSensor(name string, offset float64) *TagSensor {
	return &TagSensor{name: name, offset: offset}
}

func (s *TagSensor) Name() string { return s.name }

func (s *TagSensor) Poll(_ context.Context, r *Robot, bb *Blackboard) error {
	tag := ""
	if hit, _ := r.look(s.offset); hit != nil {
		tag = hit.Name()
	}
	bb.Set(s.name, tag)
	return nil
}

// BumperSensor reports whether the robot touched a non-Ghost body since the
// previous poll. It must be attached to its robot's body with Attach, which
// Robot.AddSensor does automatically.
type BumperSensor struct {
	name    string
	noticed bool
}

var _ phys.CollisionListener = (*BumperSensor)(nil)

func NewBumperSensor(name string) *BumperSensor {
	return &BumperSensor{name: name}
}

func (s *BumperSensor) Name() string { return s.name }

func (s *BumperSensor) Attach(b *phys.Body) { b.RegisterListener(s) }

func (s *BumperSensor) NotifyOfCollision(_, other *phys.Body) {
	if other.Kind() != phys.Ghost {
		s.noticed = true
	}
}

// Poll reports the latched contact and clears it. The body's collided flag is
// not consulted because it is also raised by Ghost contacts.
func (s *BumperSensor) Poll(_ context.Context, _ *Robot, bb *Blackboard) error {
	bb.Set(s.name, s.noticed)
	s.noticed = false
	return nil
}

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// AccelerometerSensor estimates acceleration along one world axis from the
// change in velocity between polls. The first poll reports 0.
type AccelerometerSensor struct {
	name   string
	axis   Axis
	last   float64
	lastAt float64
	primed bool
}

func NewAccelerometerSensor(name string, axis Axis) *AccelerometerSensor {
	return &AccelerometerSensor{name: name, axis: axis}
}

func (s *AccelerometerSensor) Name() string { return s.name }
func (s *AccelerometerSensor) Axis() Axis   { return s.axis }

func (s *AccelerometerSensor) Poll(_ context.Context, r *Robot, bb *Blackboard) error {
	v := r.body.Velocity().X
	if s.axis == AxisY {
		v = r.body.Velocity().Y
	}

	a := 0.0
	if elapsed := r.clock - s.lastAt; s.primed && elapsed > 0 {
		a = (v - s.last) / elapsed
	}
	s.last, s.lastAt, s.primed = v, r.clock, true
	bb.Set(s.name, a)
	return nil
}

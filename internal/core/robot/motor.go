package robot

import (
	"math"

	phys "github.com/zeusync/mechsim/internal/core/systems/physics"
)

// Device acts on the world after the controller has decided what to do.
type Device interface {
	Name() string
	Act(r *Robot, dt float64)
}

// Motor pushes the robot body along the robot heading plus a fixed offset.
type Motor struct {
	name     string
	maxPower float64
	offset   float64

	power     float64
	remaining float64
}

// NewMotor returns an idle motor. maxPower is the force at full power; its
// sign is ignored.
func NewMotor(name string, maxPower, offset float64) *Motor {
	return &Motor{name: name, maxPower: math.Abs(maxPower), offset: offset}
}

func (m *Motor) Name() string       { return m.name }
func (m *Motor) MaxPower() float64  { return m.maxPower }
func (m *Motor) Power() float64     { return m.power }
func (m *Motor) Remaining() float64 { return m.remaining }
func (m *Motor) Active() bool       { return m.remaining > 0 }

// Activate runs the motor at power, clamped to [-1,1], for duration seconds.
// A negative duration stops the motor.
func (m *Motor) Activate(power, duration float64) {
	m.power = max(-1, min(1, power))
	m.remaining = max(0, duration)
}

func (m *Motor) Stop() { m.remaining = 0 }

// Act applies the motor force for the share of dt it is still active.
func (m *Motor) Act(r *Robot, dt float64) {
	if m.remaining <= 0 || dt <= 0 {
		return
	}
	share := 1.0
	if m.remaining < dt {
		share = m.remaining / dt
		m.remaining = 0
	} else {
		m.remaining -= dt
	}

	f := phys.FromAngle(r.heading + m.offset).Scale(m.maxPower * m.power * share)
	r.body.ApplyForce(f.X, f.Y)
}

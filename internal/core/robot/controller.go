package robot

import (
	"context"
	"fmt"
	"math"
)

// Controller is the think step of a robot: it reads the blackboard and
// commands devices.
type Controller interface {
	Think(ctx context.Context, r *Robot, bb *Blackboard, dt float64) error
}

type ControllerFunc func(ctx context.Context, r *Robot, bb *Blackboard, dt float64) error

func (f ControllerFunc) Think(ctx context.Context, r *Robot, bb *Blackboard, dt float64) error {
	return f(ctx, r, bb, dt)
}

// Idle never commands anything.
func Idle() Controller {
	return ControllerFunc(func(context.Context, *Robot, *Blackboard, float64) error { return nil })
}

// Cruise keeps the named motor running at power.
func Cruise(motor string, power float64) Controller {
	return ControllerFunc(func(_ context.Context, r *Robot, _ *Blackboard, dt float64) error {
		m, ok := r.Motor(motor)
		if !ok {
			return fmt.Errorf("cruise: unknown motor %q", motor)
		}
		m.Activate(power, dt)
		return nil
	})
}

// AvoidConfig tunes the Avoid controller.
type AvoidConfig struct {
	// Range is the range sensor watched for obstacles; Bumper is optional.
	Range  string
	Bumper string
	Motor  string

	Power float64
	// Threshold is the distance under which the robot starts turning.
	Threshold float64
	// TurnRate is in radians per second.
	TurnRate float64
}

// Avoid drives forward until the range sensor sees something closer than
// Threshold or the bumper fires, then backs off at half power while turning.
func Avoid(cfg AvoidConfig) Controller {
	return ControllerFunc(func(_ context.Context, r *Robot, bb *Blackboard, dt float64) error {
		m, ok := r.Motor(cfg.Motor)
		if !ok {
			return fmt.Errorf("avoid: unknown motor %q", cfg.Motor)
		}

		blocked := false
		if d, ok := bb.GetFloat(cfg.Range); ok && d < cfg.Threshold {
			blocked = true
		}
		if cfg.Bumper != "" {
			if hit, _ := bb.GetBool(cfg.Bumper); hit {
				blocked = true
			}
		}

		if !blocked {
			m.Activate(cfg.Power, dt)
			return nil
		}
		r.Turn(cfg.TurnRate * dt)
		m.Activate(-math.Abs(cfg.Power)*0.5, dt)
		return nil
	})
}

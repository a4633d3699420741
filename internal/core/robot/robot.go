package robot

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/zeusync/mechsim/internal/core/observability/log"
	phys "github.com/zeusync/mechsim/internal/core/systems/physics"
)

var (
	ErrDuplicateSensor = errors.New("duplicate sensor name")
	ErrDuplicateDevice = errors.New("duplicate device name")
)

// Robot is a body driven by a sense, think, act loop. Every Update first
// advances the body, then polls the sensors that are due, runs the
// controller and finally lets every device act.
type Robot struct {
	name    string
	body    *phys.Body
	heading float64
	clock   float64

	sensors    []*polled
	devices    []Device
	controller Controller
	bb         *Blackboard

	logger log.Log
}

type Option func(*Robot)

// WithHeading sets the initial heading in radians.
func WithHeading(rad float64) Option {
	return func(r *Robot) { r.SetHeading(rad) }
}

func WithController(c Controller) Option {
	return func(r *Robot) { r.SetController(c) }
}

func WithLogger(l log.Log) Option {
	return func(r *Robot) {
		if l != nil {
			r.logger = l
		}
	}
}

// New wraps body. The body keeps its own world registration.
func New(name string, body *phys.Body, opts ...Option) *Robot {
	r := &Robot{
		name:       name,
		body:       body,
		controller: Idle(),
		bb:         NewBlackboard(),
		logger:     log.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(log.String("robot", name))
	return r
}

func (r *Robot) Name() string            { return r.name }
func (r *Robot) Body() *phys.Body        { return r.body }
func (r *Robot) Heading() float64        { return r.heading }
func (r *Robot) Blackboard() *Blackboard { return r.bb }
func (r *Robot) Controller() Controller  { return r.controller }

// Clock is the simulated time the robot has lived through.
func (r *Robot) Clock() float64 { return r.clock }

// SetHeading stores rad wrapped to [-pi, pi].
func (r *Robot) SetHeading(rad float64) {
	r.heading = math.Remainder(rad, 2*math.Pi)
}

func (r *Robot) Turn(delta float64) { r.SetHeading(r.heading + delta) }

// SetController replaces the controller; nil means Idle.
func (r *Robot) SetController(c Controller) {
	if c == nil {
		c = Idle()
	}
	r.controller = c
}

// AddSensor attaches s, polled every interval seconds. Negative intervals
// clamp to 0, which polls on every tick.
func (r *Robot) AddSensor(s Sensor, interval float64) error {
	if r.Sensor(s.Name()) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateSensor, s.Name())
	}
	if a, ok := s.(interface{ Attach(*phys.Body) }); ok {
		a.Attach(r.body)
	}
	r.sensors = append(r.sensors, &polled{sensor: s, interval: max(0, interval)})
	r.logger.Debug("sensor attached", log.String("sensor", s.Name()), log.Float64("interval", interval))
	return nil
}

func (r *Robot) AddDevice(d Device) error {
	if r.Device(d.Name()) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateDevice, d.Name())
	}
	r.devices = append(r.devices, d)
	r.logger.Debug("device attached", log.String("device", d.Name()))
	return nil
}

func (r *Robot) Sensor(name string) Sensor {
	for _, p := range r.sensors {
		if p.sensor.Name() == name {
			return p.sensor
		}
	}
	return nil
}

func (r *Robot) Device(name string) Device {
	for _, d := range r.devices {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// Motor looks up a device by name and reports whether it is a motor.
func (r *Robot) Motor(name string) (*Motor, bool) {
	m, ok := r.Device(name).(*Motor)
	return m, ok
}

// Update runs one sense, think, act cycle. Sensor errors are joined and
// returned before the controller runs.
func (r *Robot) Update(ctx context.Context, dt float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	r.body.Update(dt)
	r.clock += dt

	var errs []error
	for _, p := range r.sensors {
		if err := p.update(ctx, r, r.bb, dt); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("robot %s: %w", r.name, err)
	}

	if err := r.controller.Think(ctx, r, r.bb, dt); err != nil {
		return fmt.Errorf("robot %s: controller: %w", r.name, err)
	}

	for _, d := range r.devices {
		d.Act(r, dt)
	}
	return nil
}

// look casts a ray from the body centre along heading+offset and returns the
// nearest other non-Ghost body.
func (r *Robot) look(offset float64) (*phys.Body, float64) {
	w := r.body.World()
	if w == nil {
		return nil, phys.NoHit
	}
	ray := phys.NewRay(r.body.Center(), phys.FromAngle(r.heading+offset))
	return w.CastRay(ray, r.body)
}

package scenario

import (
	"fmt"
	"strings"

	"github.com/zeusync/mechsim/internal/core/events/bus"
	"github.com/zeusync/mechsim/internal/core/observability/log"
	"github.com/zeusync/mechsim/internal/core/robot"
	"github.com/zeusync/mechsim/internal/core/sim"
	phys "github.com/zeusync/mechsim/internal/core/systems/physics"
)

// Build validates c and assembles a world, its bodies and robots into a
// runner. eb may be nil; when set, both the world and the runner publish to it.
func (c *Config) Build(logger log.Log, eb bus.EventBus) (*sim.Runner, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}
	logger = logger.With(log.String("scenario", c.Name))

	model, _ := phys.ParseResponseModel(c.World.Response)
	restitution := 1.0
	if c.World.Restitution != nil {
		restitution = *c.World.Restitution
	}
	world := phys.NewWorld(
		phys.WithFriction(c.World.Friction),
		phys.WithRestitution(restitution),
		phys.WithResponseModel(model),
		phys.WithLogger(logger),
		phys.WithEventBus(eb),
	)

	named := make(map[string]*phys.Body, len(c.Bodies))
	for _, bc := range c.Bodies {
		b := bc.build(world)
		world.RegisterBody(b)
		if bc.Name != "" {
			named[bc.Name] = b
		}
	}

	opts := []sim.Option{sim.WithRate(c.Sim.Rate), sim.WithLogger(logger), sim.WithEventBus(eb)}
	if c.Sim.DT > 0 {
		opts = append(opts, sim.WithDT(c.Sim.DT))
	}
	runner := sim.NewRunner(world, opts...)

	for _, rc := range c.Robots {
		rb, err := rc.build(named[rc.Body], logger)
		if err != nil {
			return nil, err
		}
		if err = runner.AddRobot(rb); err != nil {
			return nil, err
		}
	}

	logger.Debug("scenario built",
		log.Int("bodies", world.Len()),
		log.Int("robots", len(c.Robots)),
		log.String("response", model.String()))
	return runner, nil
}

func (bc *BodyConfig) build(w *phys.World) *phys.Body {
	kind, _ := phys.ParseInteractionKind(bc.Kind)

	var bounds phys.Bounds
	s := bc.Shape
	if strings.EqualFold(s.Type, "circle") {
		bounds = phys.NewCircle(s.X, s.Y, s.Radius)
	} else {
		bounds = phys.NewRectangle(s.X, s.Y, s.Width, s.Height)
	}

	return w.NewBody(kind, bc.Mass, bounds,
		phys.WithName(bc.Name),
		phys.WithVelocity(phys.V(bc.Velocity.X, bc.Velocity.Y)))
}

func (rc *RobotConfig) build(body *phys.Body, logger log.Log) (*robot.Robot, error) {
	rb := robot.New(rc.Name, body, robot.WithHeading(rc.Heading), robot.WithLogger(logger))

	for _, sc := range rc.Sensors {
		var s robot.Sensor
		switch strings.ToLower(sc.Type) {
		case "range":
			s = robot.NewRangeSensor(sc.Name, sc.Offset)
		case "tag":
			s = robot.NewTagSensor(sc.Name, sc.Offset)
		case "bumper":
			s = robot.NewBumperSensor(sc.Name)
		case "accelerometer":
			axis, _ := parseAxis(sc.Axis)
			s = robot.NewAccelerometerSensor(sc.Name, axis)
		}
		if err := rb.AddSensor(s, sc.Interval); err != nil {
			return nil, fmt.Errorf("robot %s: %w", rc.Name, err)
		}
	}
	for _, mc := range rc.Motors {
		if err := rb.AddDevice(robot.NewMotor(mc.Name, mc.MaxPower, mc.Offset)); err != nil {
			return nil, fmt.Errorf("robot %s: %w", rc.Name, err)
		}
	}

	ctl := rc.Controller
	switch strings.ToLower(ctl.Type) {
	case "cruise":
		rb.SetController(robot.Cruise(ctl.Motor, ctl.Power))
	case "avoid":
		rb.SetController(robot.Avoid(robot.AvoidConfig{
			Range:     ctl.Range,
			Bumper:    ctl.Bumper,
			Motor:     ctl.Motor,
			Power:     ctl.Power,
			Threshold: ctl.Threshold,
			TurnRate:  ctl.TurnRate,
		}))
	default:
		rb.SetController(robot.Idle())
	}
	return rb, nil
}

func parseAxis(s string) (robot.Axis, error) {
	switch strings.ToLower(s) {
	case "", "x":
		return robot.AxisX, nil
	case "y":
		return robot.AxisY, nil
	default:
		return robot.AxisX, fmt.Errorf("unknown axis %q", s)
	}
}

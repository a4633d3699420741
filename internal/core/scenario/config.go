package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeusync/mechsim/internal/core/observability/log"
	phys "github.com/zeusync/mechsim/internal/core/systems/physics"
)

// Config describes a complete simulation: world coefficients, the bodies in
// it and the robots driving some of those bodies.
type Config struct {
	Name    string        `json:"name" yaml:"name"`
	World   WorldConfig   `json:"world" yaml:"world"`
	Sim     SimConfig     `json:"sim" yaml:"sim"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Bodies  []BodyConfig  `json:"bodies" yaml:"bodies"`
	Robots  []RobotConfig `json:"robots,omitempty" yaml:"robots,omitempty"`
}

type WorldConfig struct {
	// Friction is the fraction of velocity lost per second.
	Friction float64 `json:"friction" yaml:"friction"`
	// Restitution defaults to 1 when omitted.
	Restitution *float64 `json:"restitution,omitempty" yaml:"restitution,omitempty"`
	Response    string   `json:"response,omitempty" yaml:"response,omitempty"`
}

type SimConfig struct {
	DT    float64 `json:"dt" yaml:"dt"`
	Ticks uint64  `json:"ticks" yaml:"ticks"`
	Rate  float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
}

type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type BodyConfig struct {
	Name     string      `json:"name" yaml:"name"`
	Kind     string      `json:"kind" yaml:"kind"`
	Mass     float64     `json:"mass" yaml:"mass"`
	Shape    ShapeConfig `json:"shape" yaml:"shape"`
	Velocity Vec         `json:"velocity" yaml:"velocity"`
}

// ShapeConfig places a circle by its centre and a rectangle by its top-left
// corner.
type ShapeConfig struct {
	Type   string  `json:"type" yaml:"type"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

type RobotConfig struct {
	Name       string           `json:"name" yaml:"name"`
	Body       string           `json:"body" yaml:"body"`
	Heading    float64          `json:"heading" yaml:"heading"`
	Sensors    []SensorConfig   `json:"sensors,omitempty" yaml:"sensors,omitempty"`
	Motors     []MotorConfig    `json:"motors,omitempty" yaml:"motors,omitempty"`
	Controller ControllerConfig `json:"controller" yaml:"controller"`
}

type SensorConfig struct {
	Name     string  `json:"name" yaml:"name"`
	Type     string  `json:"type" yaml:"type"`
	Offset   float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
	Axis     string  `json:"axis,omitempty" yaml:"axis,omitempty"`
	Interval float64 `json:"interval,omitempty" yaml:"interval,omitempty"`
}

type MotorConfig struct {
	Name     string  `json:"name" yaml:"name"`
	MaxPower float64 `json:"max_power" yaml:"max_power"`
	Offset   float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

type ControllerConfig struct {
	Type      string  `json:"type" yaml:"type"`
	Motor     string  `json:"motor,omitempty" yaml:"motor,omitempty"`
	Power     float64 `json:"power,omitempty" yaml:"power,omitempty"`
	Range     string  `json:"range,omitempty" yaml:"range,omitempty"`
	Bumper    string  `json:"bumper,omitempty" yaml:"bumper,omitempty"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	TurnRate  float64 `json:"turn_rate,omitempty" yaml:"turn_rate,omitempty"`
}

var ErrInvalid = errors.New("invalid scenario")

// Validate reports every problem it finds, joined. Out-of-range numbers that
// the engine clamps are not errors.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if _, err := phys.ParseResponseModel(c.World.Response); err != nil {
		add("world: %w", err)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		add("logging: %w", err)
	}
	if c.Sim.DT < 0 {
		add("sim: dt must not be negative, got %v", c.Sim.DT)
	}
	if c.Sim.Rate < 0 {
		add("sim: rate must not be negative, got %v", c.Sim.Rate)
	}

	bodies := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		label := b.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if b.Name != "" {
			if bodies[b.Name] {
				add("body %s: duplicate name", label)
			}
			bodies[b.Name] = true
		}
		if _, err := phys.ParseInteractionKind(b.Kind); err != nil {
			add("body %s: %w", label, err)
		}
		switch strings.ToLower(b.Shape.Type) {
		case "circle", "rectangle", "rect":
		default:
			add("body %s: unknown shape %q", label, b.Shape.Type)
		}
	}

	robots := make(map[string]bool, len(c.Robots))
	driven := make(map[string]bool, len(c.Robots))
	for _, r := range c.Robots {
		if r.Name == "" {
			add("robot: name is required")
		} else if robots[r.Name] {
			add("robot %s: duplicate name", r.Name)
		}
		robots[r.Name] = true

		switch {
		case !bodies[r.Body]:
			add("robot %s: unknown body %q", r.Name, r.Body)
		case driven[r.Body]:
			add("robot %s: body %q already driven by another robot", r.Name, r.Body)
		}
		driven[r.Body] = true

		errs = append(errs, r.validate()...)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (r *RobotConfig) validate() []error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("robot %s: "+format, append([]any{r.Name}, args...)...))
	}

	sensors := make(map[string]string, len(r.Sensors))
	for _, s := range r.Sensors {
		if _, dup := sensors[s.Name]; dup {
			add("duplicate sensor %q", s.Name)
		}
		sensors[s.Name] = strings.ToLower(s.Type)
		switch strings.ToLower(s.Type) {
		case "range", "tag", "bumper":
		case "accelerometer":
			if _, err := parseAxis(s.Axis); err != nil {
				add("sensor %s: %w", s.Name, err)
			}
		default:
			add("sensor %s: unknown type %q", s.Name, s.Type)
		}
	}

	motors := make(map[string]bool, len(r.Motors))
	for _, m := range r.Motors {
		if motors[m.Name] {
			add("duplicate motor %q", m.Name)
		}
		motors[m.Name] = true
	}

	ctl := r.Controller
	switch strings.ToLower(ctl.Type) {
	case "", "idle":
	case "cruise":
		if !motors[ctl.Motor] {
			add("controller: unknown motor %q", ctl.Motor)
		}
	case "avoid":
		if !motors[ctl.Motor] {
			add("controller: unknown motor %q", ctl.Motor)
		}
		if sensors[ctl.Range] != "range" {
			add("controller: %q is not a range sensor", ctl.Range)
		}
		if ctl.Bumper != "" && sensors[ctl.Bumper] != "bumper" {
			add("controller: %q is not a bumper sensor", ctl.Bumper)
		}
	default:
		add("controller: unknown type %q", ctl.Type)
	}
	return errs
}

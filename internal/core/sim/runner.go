package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/zeusync/mechsim/internal/core/events/bus"
	"github.com/zeusync/mechsim/internal/core/observability/log"
	"github.com/zeusync/mechsim/internal/core/robot"
	phys "github.com/zeusync/mechsim/internal/core/systems/physics"
)

// EventTick is published on the runner's bus after every completed tick.
const EventTick = "sim.tick"

// DefaultDT is the fixed step used when none is configured.
const DefaultDT = 1.0 / 60

var (
	ErrForeignRobot   = errors.New("robot body belongs to another world")
	ErrDuplicateRobot = errors.New("duplicate robot name")
)

// Runner drives a World with a fixed time step. Each tick updates every
// registered body that is not owned by a robot, then every robot in the
// order they were added. A Runner is not safe for concurrent use.
type Runner struct {
	world  *phys.World
	robots []*robot.Robot

	dt   float64
	rate float64

	ticks   uint64
	elapsed float64

	logger log.Log
	bus    bus.EventBus
}

// TickInfo is the payload of EventTick events.
type TickInfo struct {
	Tick    uint64
	Elapsed float64
}

// Summary describes a runner's progress so far.
type Summary struct {
	Ticks   uint64
	Elapsed float64
	Bodies  int
	Robots  int
	Stats   phys.Stats
	Digest  uint64
}

type Option func(*Runner)

// WithDT sets the fixed step in seconds. Non-positive values are ignored.
func WithDT(dt float64) Option {
	return func(r *Runner) {
		if dt > 0 && !math.IsInf(dt, 0) {
			r.dt = dt
		}
	}
}

// WithRate paces Run to rate ticks per wall-clock second. Zero runs as fast
// as possible.
func WithRate(rate float64) Option {
	return func(r *Runner) { r.rate = max(0, rate) }
}

func WithLogger(l log.Log) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithEventBus(b bus.EventBus) Option {
	return func(r *Runner) { r.bus = b }
}

func NewRunner(world *phys.World, opts ...Option) *Runner {
	r := &Runner{
		world:  world,
		dt:     DefaultDT,
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) World() *phys.World { return r.world }
func (r *Runner) DT() float64        { return r.dt }
func (r *Runner) Ticks() uint64      { return r.ticks }
func (r *Runner) Elapsed() float64   { return r.elapsed }

func (r *Runner) Robots() []*robot.Robot { return slices.Clone(r.robots) }

func (r *Runner) Robot(name string) *robot.Robot {
	for _, rb := range r.robots {
		if rb.Name() == name {
			return rb
		}
	}
	return nil
}

// AddRobot registers rb's body with the world if needed and schedules rb
// after the plain bodies of every tick.
func (r *Runner) AddRobot(rb *robot.Robot) error {
	if rb.Body().World() != r.world {
		return fmt.Errorf("%w: %s", ErrForeignRobot, rb.Name())
	}
	if r.Robot(rb.Name()) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateRobot, rb.Name())
	}
	r.world.RegisterBody(rb.Body())
	r.robots = append(r.robots, rb)
	return nil
}

// Tick advances the simulation by one step.
func (r *Runner) Tick(ctx context.Context) error {
	owned := make(map[*phys.Body]struct{}, len(r.robots))
	for _, rb := range r.robots {
		owned[rb.Body()] = struct{}{}
	}

	for _, b := range r.world.Snapshot() {
		if _, ok := owned[b]; ok {
			continue
		}
		b.Update(r.dt)
	}
	for _, rb := range r.robots {
		if err := rb.Update(ctx, r.dt); err != nil {
			return fmt.Errorf("tick %d: %w", r.ticks+1, err)
		}
	}

	r.ticks++
	r.elapsed += r.dt
	r.publish()
	return nil
}

// tickInterval converts a rate in ticks per second to a ticker period of at
// least one nanosecond.
func tickInterval(rate float64) time.Duration {
	period := float64(time.Second) / rate
	if period >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return max(time.Nanosecond, time.Duration(period))
}

// Run executes ticks steps, or runs until ctx is cancelled when ticks is 0.
// Cancellation is checked between ticks; the error is ctx.Err().
func (r *Runner) Run(ctx context.Context, ticks uint64) error {
	var pace <-chan time.Time
	if r.rate > 0 {
		ticker := time.NewTicker(tickInterval(r.rate))
		defer ticker.Stop()
		pace = ticker.C
	}

	r.logger.Info("simulation started",
		log.Uint64("ticks", ticks),
		log.Float64("dt", r.dt),
		log.Float64("rate", r.rate),
		log.Int("bodies", r.world.Len()),
		log.Int("robots", len(r.robots)))
	start := time.Now()

	for i := uint64(0); ticks == 0 || i < ticks; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.Tick(ctx); err != nil {
			r.logger.Error("simulation aborted", log.Error(err))
			return err
		}
	}

	s := r.Summary()
	r.logger.Info("simulation finished",
		log.Uint64("ticks", s.Ticks),
		log.Float64("elapsed", s.Elapsed),
		log.Uint64("contacts", s.Stats.Contacts),
		log.Hex("digest", s.Digest),
		log.Duration("took", time.Since(start)))
	return nil
}

func (r *Runner) Summary() Summary {
	return Summary{
		Ticks:   r.ticks,
		Elapsed: r.elapsed,
		Bodies:  r.world.Len(),
		Robots:  len(r.robots),
		Stats:   r.world.Stats(),
		Digest:  r.world.StateDigest(),
	}
}

func (r *Runner) publish() {
	if r.bus == nil {
		return
	}
	ev := bus.NewEvent(EventTick, "sim", TickInfo{Tick: r.ticks, Elapsed: r.elapsed}, nil)
	if err := r.bus.Publish(ev); err != nil {
		r.logger.Warn("tick handler failed", log.Error(err))
	}
}

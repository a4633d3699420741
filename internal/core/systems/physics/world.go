package physics

import (
	"iter"
	"slices"

	"github.com/zeusync/mechsim/internal/core/events/bus"
	"github.com/zeusync/mechsim/internal/core/observability/log"
)

// EventContact is the bus event type published for every detected contact.
const EventContact = "physics.contact"

// World owns the registered body set and the global friction and
// restitution coefficients, and runs the exhaustive pairwise collision pass
// for any body that requests one. It is not safe for concurrent use: the
// registered set may only change between ticks.
type World struct {
	// retention is the fraction of velocity kept per unit time (1 - loss).
	retention   float64
	restitution float64
	model       ResponseModel

	bodies []*Body

	logger log.Log
	bus    bus.EventBus
	stats  Stats
}

// Stats counts collision work since the world was created. Responses only
// counts contacts that changed a velocity.
type Stats struct {
	Passes    uint64
	Tests     uint64
	Contacts  uint64
	Responses uint64
}

// Contact is the payload of EventContact events.
type Contact struct {
	Alpha, Beta *Body

	// Normal points from Beta towards Alpha; zero when either side is a Ghost
	// or neither side responds.
	Normal Vec2

	// Responded is set when a velocity impulse was applied.
	Responded bool
}

// Option configures a World.
type Option func(*World)

// WithFriction sets the fraction of velocity lost per unit time, clamped to [0,1].
func WithFriction(loss float64) Option {
	return func(w *World) { w.SetFriction(loss) }
}

// WithRestitution sets the coefficient of restitution, clamped to [0,1].
func WithRestitution(c float64) Option {
	return func(w *World) { w.SetCoefficientOfRestitution(c) }
}

func WithResponseModel(m ResponseModel) Option {
	return func(w *World) { w.model = m }
}

func WithLogger(l log.Log) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithEventBus publishes an EventContact event for every contact.
func WithEventBus(b bus.EventBus) Option {
	return func(w *World) { w.bus = b }
}

// NewWorld returns a world with no friction loss and perfectly elastic
// collisions.
func NewWorld(opts ...Option) *World {
	w := &World{
		retention:   1,
		restitution: 1,
		model:       ResponseNewtonian,
		logger:      log.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetFriction sets the fraction of velocity lost per unit time. The value is
// clamped to [0,1] and stored as the retained fraction.
func (w *World) SetFriction(loss float64) {
	w.retention = 1 - clamp(loss, 0, 1)
}

// Friction returns the loss fraction as last set.
func (w *World) Friction() float64 { return 1 - w.retention }

// Retention returns the fraction of velocity kept per unit time.
func (w *World) Retention() float64 { return w.retention }

// SetCoefficientOfRestitution clamps c to [0,1].
func (w *World) SetCoefficientOfRestitution(c float64) {
	w.restitution = clamp(c, 0, 1)
}

func (w *World) CoefficientOfRestitution() float64 { return w.restitution }
func (w *World) ResponseModel() ResponseModel      { return w.model }
func (w *World) Stats() Stats                      { return w.stats }
func (w *World) Len() int                          { return len(w.bodies) }

// NewBody is shorthand for NewBody(w, ...). The body is not registered.
func (w *World) NewBody(kind InteractionKind, mass float64, bounds Bounds, opts ...BodyOption) *Body {
	return NewBody(w, kind, mass, bounds, opts...)
}

// RegisterBody adds b to the active set. Already registered bodies and
// bodies bound to another world are ignored.
func (w *World) RegisterBody(b *Body) {
	if b == nil {
		return
	}
	if b.world != w {
		w.logger.Warn("refusing to register body owned by another world",
			log.String("body", b.id.String()), log.String("name", b.name))
		return
	}
	if w.IsRegistered(b) {
		return
	}
	w.bodies = append(w.bodies, b)
	w.logger.Debug("body registered",
		log.String("body", b.id.String()),
		log.String("name", b.name),
		log.String("kind", b.kind.String()),
		log.String("shape", b.bounds.Kind().String()))
}

// UnregisterBody removes b from the active set. Safe to call redundantly.
func (w *World) UnregisterBody(b *Body) {
	i := slices.Index(w.bodies, b)
	if i < 0 {
		return
	}
	w.bodies = slices.Delete(w.bodies, i, i+1)
	w.logger.Debug("body unregistered", log.String("body", b.id.String()), log.String("name", b.name))
}

func (w *World) IsRegistered(b *Body) bool {
	return slices.Contains(w.bodies, b)
}

// Bodies iterates the registered bodies in registration order.
func (w *World) Bodies() iter.Seq[*Body] {
	return func(yield func(*Body) bool) {
		for _, b := range w.bodies {
			if !yield(b) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the registered set.
func (w *World) Snapshot() []*Body {
	return slices.Clone(w.bodies)
}

// CastRay finds the nearest registered body hit by ray, skipping exclude and
// Ghost bodies. It returns (nil, NoHit) when nothing is hit.
func (w *World) CastRay(ray Ray, exclude *Body) (*Body, float64) {
	var nearest *Body
	best := NoHit
	for _, b := range w.bodies {
		if b == exclude || b.kind == Ghost {
			continue
		}
		if d := ray.DistanceTo(b.bounds); d >= 0 && d < best {
			nearest, best = b, d
		}
	}
	return nearest, best
}

// collideFor tests b against every other registered body once, including
// bodies that never initiate a pass themselves.
func (w *World) collideFor(b *Body) {
	w.stats.Passes++
	for _, other := range w.bodies {
		if other == b {
			continue
		}
		w.collide(b, other)
	}
}

// collide handles one ordered pair and reports whether they touched.
func (w *World) collide(alpha, beta *Body) bool {
	w.stats.Tests++
	if !alpha.bounds.Intersects(beta.bounds) {
		return false
	}
	w.stats.Contacts++

	contact := Contact{Alpha: alpha, Beta: beta}
	if alpha.kind != Ghost && beta.kind != Ghost {
		alphaResp, betaResp := alpha.kind.HasResponse(), beta.kind.HasResponse()

		// only one side is corrected so the same overlap is never resolved twice
		switch {
		case alphaResp:
			alpha.nudgeFrom(beta)
		case betaResp:
			beta.nudgeFrom(alpha)
		}

		if alphaResp || betaResp {
			contact.Normal = w.contactNormal(alpha, beta, alphaResp, betaResp)
			if w.respond(alpha, beta, contact.Normal, alphaResp, betaResp) {
				contact.Responded = true
				w.stats.Responses++
			}
		}
	}

	alpha.notify(beta)
	beta.notify(alpha)
	w.publish(contact)
	return true
}

func (w *World) publish(c Contact) {
	if w.bus == nil {
		return
	}
	ev := bus.NewEvent(EventContact, c.Alpha.id.String(), c, map[string]any{
		"alpha":     c.Alpha.name,
		"beta":      c.Beta.name,
		"responded": c.Responded,
	})
	if err := w.bus.Publish(ev); err != nil {
		w.logger.Warn("contact handler failed", log.Error(err))
	}
}

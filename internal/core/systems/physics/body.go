package physics

import (
	"math"
	"reflect"
	"slices"

	"github.com/google/uuid"
)

// Body is a simulated point mass with one collision shape. It is bound to
// the World it was created with for its whole lifetime, but only takes part
// in other bodies' collision passes while registered.
type Body struct {
	id    uuid.UUID
	name  string
	world *World
	kind  InteractionKind
	mass  float64

	bounds Bounds

	// pos is bookkeeping kept in step with the bounds' origin so callers can
	// resize or adjust the shape without losing continuity.
	pos Vec2
	vel Vec2
	acc Vec2

	collided  bool
	listeners []CollisionListener
}

// BodyOption configures a Body at construction.
type BodyOption func(*Body)

// WithName labels the body. Names are free-form and need not be unique.
func WithName(name string) BodyOption {
	return func(b *Body) { b.name = name }
}

// WithVelocity sets the initial velocity.
func WithVelocity(v Vec2) BodyOption {
	return func(b *Body) { b.vel = v }
}

// NewBody creates an unregistered body. Non-positive masses clamp to a small
// positive value; a nil bounds becomes a zero-radius circle at the origin.
func NewBody(w *World, kind InteractionKind, mass float64, bounds Bounds, opts ...BodyOption) *Body {
	if mass <= 0 || math.IsNaN(mass) {
		mass = minMass
	}
	if bounds == nil {
		bounds = NewCircle(0, 0, 0)
	}
	b := &Body{
		id:     uuid.New(),
		world:  w,
		kind:   kind,
		mass:   mass,
		bounds: bounds,
		pos:    bounds.Origin(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Body) ID() uuid.UUID          { return b.id }
func (b *Body) Name() string           { return b.name }
func (b *Body) World() *World          { return b.world }
func (b *Body) Kind() InteractionKind  { return b.kind }
func (b *Body) Mass() float64          { return b.mass }
func (b *Body) Bounds() Bounds         { return b.bounds }
func (b *Body) Position() Vec2         { return b.pos }
func (b *Body) Velocity() Vec2         { return b.vel }
func (b *Body) Acceleration() Vec2     { return b.acc }
func (b *Body) Center() Vec2           { return b.bounds.Center() }
func (b *Body) Min() Vec2              { return b.bounds.Min() }
func (b *Body) Max() Vec2              { return b.bounds.Max() }
func (b *Body) CollidedThisTick() bool { return b.collided }

// Position2 implements Transform using the world-space position.
func (b *Body) Position2() (x, y float64) { return b.pos.X, b.pos.Y }

// Registered reports whether the body is in its world's active set.
func (b *Body) Registered() bool { return b.world != nil && b.world.IsRegistered(b) }

// Intersects reports whether the two bodies' shapes overlap.
func (b *Body) Intersects(other *Body) bool { return b.bounds.Intersects(other.bounds) }

// SetPosition moves the body and its shape together.
func (b *Body) SetPosition(x, y float64) {
	b.bounds.Translate(x-b.pos.X, y-b.pos.Y)
	b.pos = Vec2{x, y}
}

func (b *Body) SetVelocity(vx, vy float64) { b.vel = Vec2{vx, vy} }

// SetAcceleration replaces the pending acceleration.
func (b *Body) SetAcceleration(ax, ay float64) { b.acc = Vec2{ax, ay} }

// ApplyForce accumulates f/mass into the pending acceleration.
func (b *Body) ApplyForce(fx, fy float64) {
	b.ApplyAcceleration(fx/b.mass, fy/b.mass)
}

// ApplyAcceleration accumulates into the pending acceleration, which is
// consumed and cleared by the next Update.
func (b *Body) ApplyAcceleration(ax, ay float64) {
	b.acc.X += ax
	b.acc.Y += ay
}

// Update advances the body by dt. Bodies that initiate, or that are moving,
// first collide against the world at their current position; the result is
// then integrated with semi-implicit Euler and damped by world friction.
// Negative dt is treated as zero.
func (b *Body) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	b.collided = false
	if b.world != nil && (b.kind.Initiates() || !b.vel.IsZero()) {
		b.world.collideFor(b)
	}

	d := b.vel.Scale(dt).Add(b.acc.Scale(0.5 * dt * dt))
	b.translate(d)

	retained := 1.0
	if b.world != nil {
		retained = math.Pow(b.world.retention, dt)
	}
	b.vel = b.vel.Scale(retained).Add(b.acc.Scale(dt))
	b.acc = Vec2{}
}

// translate moves both the shape and the position bookkeeping.
func (b *Body) translate(d Vec2) {
	if d.IsZero() {
		return
	}
	b.bounds.Translate(d.X, d.Y)
	b.pos = b.pos.Add(d)
}

// nudgeFrom separates b's shape from other and carries the shape's
// displacement over to the position bookkeeping.
func (b *Body) nudgeFrom(other *Body) Vec2 {
	before := b.bounds.Origin()
	b.bounds.NudgeFrom(other.bounds)
	moved := b.bounds.Origin().Sub(before)
	b.pos = b.pos.Add(moved)
	return moved
}

// RegisterListener subscribes l to this body's contacts. Listeners are
// notified in subscription order; registering the same listener twice is a
// no-op. Listeners of non-comparable types, such as func adapters, have no
// identity: each registration adds another entry and they cannot be
// unregistered. Use Subscribe for a cancellable func listener.
func (b *Body) RegisterListener(l CollisionListener) {
	if l == nil || listenerIndex(b.listeners, l) >= 0 {
		return
	}
	b.listeners = append(b.listeners, l)
}

// UnregisterListener removes l. Unknown listeners are ignored.
func (b *Body) UnregisterListener(l CollisionListener) {
	if i := listenerIndex(b.listeners, l); i >= 0 {
		b.listeners = slices.Delete(b.listeners, i, i+1)
	}
}

// listenerIndex finds l by identity, or -1 when l is nil or not comparable.
func listenerIndex(ls []CollisionListener, l CollisionListener) int {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return -1
	}
	return slices.Index(ls, l)
}

// Listeners returns the subscribed listeners in notification order.
func (b *Body) Listeners() []CollisionListener {
	return slices.Clone(b.listeners)
}

// Subscribe registers fn as a listener and returns a handle to cancel it.
func (b *Body) Subscribe(fn func(self, other *Body)) *Subscription {
	s := &Subscription{id: uuid.NewString(), body: b, fn: fn}
	b.RegisterListener(s)
	return s
}

func (b *Body) notify(other *Body) {
	b.collided = true
	// a listener may unsubscribe itself from inside the callback
	for _, l := range slices.Clone(b.listeners) {
		l.NotifyOfCollision(b, other)
	}
}

// Subscription is a function listener created by Body.Subscribe.
type Subscription struct {
	id   string
	body *Body
	fn   func(self, other *Body)
}

func (s *Subscription) ID() string { return s.id }

func (s *Subscription) NotifyOfCollision(self, other *Body) {
	if s.fn != nil {
		s.fn(self, other)
	}
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	return listenerIndex(s.body.listeners, s) >= 0
}

// Cancel unregisters the subscription. Multiple calls are safe.
func (s *Subscription) Cancel() {
	s.body.UnregisterListener(s)
}

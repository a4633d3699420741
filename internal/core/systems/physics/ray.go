package physics

import "math"

// rootTolerance absorbs rounding when the origin sits on a circle's surface.
const rootTolerance = 1e-9

// Ray is a half-line with a unit heading. Heading components smaller than
// Epsilon are snapped to zero so the slab test never divides by a
// near-zero component.
type Ray struct {
	origin  Vec2
	heading Vec2
}

// NewRay builds a ray from origin along heading. A zero heading yields a
// degenerate ray that hits nothing.
func NewRay(origin, heading Vec2) Ray {
	return Ray{origin: origin, heading: snapHeading(heading)}
}

// snapHeading snaps before and after normalising, so a component that only
// drops below Epsilon once the heading is unit length is zeroed as well.
func snapHeading(h Vec2) Vec2 {
	for i := 0; i < 2; i++ {
		if math.Abs(h.X) < Epsilon {
			h.X = 0
		}
		if math.Abs(h.Y) < Epsilon {
			h.Y = 0
		}
		h = h.Normalize()
	}
	return h
}

func (r Ray) Origin() Vec2  { return r.origin }
func (r Ray) Heading() Vec2 { return r.heading }

// Degenerate reports whether the ray has no direction.
func (r Ray) Degenerate() bool { return r.heading.IsZero() }

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec2 { return r.origin.Add(r.heading.Scale(t)) }

// Intersects reports whether the ray hits b at a non-negative distance.
func (r Ray) Intersects(b Bounds) bool {
	switch s := b.(type) {
	case *Circle:
		return r.IntersectsCircle(s)
	case *Rectangle:
		return r.IntersectsRect(s)
	default:
		return false
	}
}

// DistanceTo returns the distance from the origin to the first hit on b, or
// NoHit.
func (r Ray) DistanceTo(b Bounds) float64 {
	switch s := b.(type) {
	case *Circle:
		return r.DistanceToCircle(s)
	case *Rectangle:
		return r.DistanceToRect(s)
	default:
		return NoHit
	}
}

func (r Ray) IntersectsCircle(c *Circle) bool {
	return r.DistanceToCircle(c) != NoHit
}

func (r Ray) IntersectsRect(rc *Rectangle) bool {
	return r.DistanceToRect(rc) != NoHit
}

// DistanceToCircle solves |o + t*h - c|^2 = r^2 for the smallest t >= 0.
// Tangent rays miss. An origin inside the circle reports the exit distance.
func (r Ray) DistanceToCircle(c *Circle) float64 {
	if r.Degenerate() {
		return NoHit
	}
	diff := r.origin.Sub(c.Center())
	b := -diff.Dot(r.heading)
	det := b*b - diff.LenSq() + c.radius*c.radius
	if det <= 0 {
		return NoHit
	}
	det = math.Sqrt(det)
	if near := b - det; near >= -rootTolerance {
		return math.Max(near, 0)
	}
	if far := b + det; far >= 0 {
		return far
	}
	return NoHit
}

// DistanceToRect runs the slab test and returns the entry distance; an
// origin inside the rectangle reports 0.
func (r Ray) DistanceToRect(rc *Rectangle) float64 {
	if r.Degenerate() {
		return NoHit
	}
	enter, exit := 0.0, math.MaxFloat64
	var ok bool
	if enter, exit, ok = slab(r.origin.X, r.heading.X, rc.x, rc.right, enter, exit); !ok {
		return NoHit
	}
	if enter, _, ok = slab(r.origin.Y, r.heading.Y, rc.y, rc.bottom, enter, exit); !ok {
		return NoHit
	}
	return enter
}

// slab narrows [enter, exit] by one axis. A zero heading component requires
// the origin to lie within the span already.
func slab(origin, heading, lo, hi, enter, exit float64) (float64, float64, bool) {
	if heading == 0 {
		if origin < lo || origin > hi {
			return enter, exit, false
		}
		return enter, exit, true
	}
	t0 := (lo - origin) / heading
	t1 := (hi - origin) / heading
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	enter = math.Max(enter, t0)
	exit = math.Min(exit, t1)
	return enter, exit, enter <= exit
}

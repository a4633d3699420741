package physics

import "math"

const (
	// Epsilon is the tolerance used for edge coincidence and ray heading snapping.
	Epsilon = 1e-3

	// NoHit is the distance reported by ray queries that miss.
	NoHit = math.MaxFloat64

	// minMass replaces non-positive masses.
	minMass = 0.01

	oneOverSqrtTwo = 0.70710678118654752440
)

// Vec2 is a 2D vector value.
type Vec2 struct{ X, Y float64 }

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64         { return math.Sqrt(v.LenSq()) }
func (v Vec2) IsZero() bool         { return v.X == 0 && v.Y == 0 }
func (v Vec2) Neg() Vec2            { return Vec2{-v.X, -v.Y} }

// Position2 implements Transform.
func (v Vec2) Position2() (x, y float64) { return v.X, v.Y }

// Normalize returns the unit vector of v, or the zero vector when v is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// FromAngle returns the unit vector pointing at angle radians.
func FromAngle(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// Distance2 computes Euclidean distance between two 2D points.
func Distance2(x1, y1, x2, y2 float64) float64 { return math.Hypot(x2-x1, y2-y1) }

// DistanceT computes distance between two transforms.
func DistanceT(a, b Transform) float64 {
	x1, y1 := a.Position2()
	x2, y2 := b.Position2()
	return Distance2(x1, y1, x2, y2)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

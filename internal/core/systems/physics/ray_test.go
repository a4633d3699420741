package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRaySnapsHeading(t *testing.T) {
	r := NewRay(V(0, 0), V(0.0005, 2))
	assert.Equal(t, V(0, 1), r.Heading())

	// 1/sqrt(1000001) is under Epsilon only after normalising
	r = NewRay(V(0, 0), V(1000, 1))
	assert.Zero(t, r.Heading().Y)
	assert.InDelta(t, 1, r.Heading().X, tolerance)

	r = NewRay(V(0, 0), V(-2, -1500))
	assert.Zero(t, r.Heading().X)
	assert.InDelta(t, -1, r.Heading().Y, tolerance)

	r = NewRay(V(0, 0), V(3, 4))
	assert.InDelta(t, 0.6, r.Heading().X, tolerance)
	assert.InDelta(t, 0.8, r.Heading().Y, tolerance)

	r = NewRay(V(1, 1), V(0, 0))
	assert.True(t, r.Degenerate())
	assert.Equal(t, NoHit, r.DistanceTo(NewCircle(1, 1, 5)))
	assert.False(t, r.Intersects(NewRectangle(0, 0, 5, 5)))
}

func TestRayCircleSurfaceRoundTrip(t *testing.T) {
	c := NewCircle(10, -4, 5)
	for _, angle := range []float64{0, 0.3, math.Pi / 4, 2, math.Pi, 4.5} {
		surface := c.Center().Add(FromAngle(angle).Scale(c.Radius()))
		r := NewRay(surface, c.Center().Sub(surface))

		assert.InDelta(t, 0, r.DistanceTo(c), 1e-6, "angle %v", angle)
		assert.True(t, r.Intersects(c))
	}
}

func TestRayCircleDistance(t *testing.T) {
	c := NewCircle(10, 0, 5)

	assert.InDelta(t, 5, NewRay(V(0, 0), V(1, 0)).DistanceTo(c), tolerance)
	assert.InDelta(t, 15, NewRay(V(30, 0), V(-1, 0)).DistanceTo(c), tolerance)
	assert.InDelta(t, 5, NewRay(V(10, 0), V(0, 1)).DistanceTo(c), tolerance, "inside reports exit")
	assert.InDelta(t, 10-3, NewRay(V(0, 4), V(1, 0)).DistanceTo(c), tolerance, "chord at y=4")
}

func TestRayCircleMisses(t *testing.T) {
	c := NewCircle(10, 0, 5)

	assert.Equal(t, NoHit, NewRay(V(0, 20), V(1, 0)).DistanceTo(c))
	assert.Equal(t, NoHit, NewRay(V(0, 0), V(-1, 0)).DistanceTo(c), "behind the origin")
	assert.Equal(t, NoHit, NewRay(V(0, 5), V(1, 0)).DistanceTo(c), "tangent")
	assert.False(t, NewRay(V(0, 20), V(1, 0)).Intersects(c))
}

func TestRayRectangleSlab(t *testing.T) {
	rc := NewRectangle(10, 0, 10, 10)

	assert.InDelta(t, 10, NewRay(V(0, 5), V(1, 0)).DistanceTo(rc), tolerance)
	assert.InDelta(t, 0, NewRay(V(15, 5), V(1, 0)).DistanceTo(rc), tolerance, "origin inside")
	assert.InDelta(t, 5, NewRay(V(15, -5), V(0, 1)).DistanceTo(rc), tolerance)
	assert.InDelta(t, 10*math.Sqrt2, NewRay(V(0, -10), V(1, 1)).DistanceTo(rc), tolerance)
	assert.True(t, NewRay(V(0, 0), V(1, 0)).Intersects(rc), "grazing the top edge")
}

func TestRayRectangleMisses(t *testing.T) {
	rc := NewRectangle(10, 0, 10, 10)

	assert.Equal(t, NoHit, NewRay(V(0, 11), V(1, 0)).DistanceTo(rc), "parallel outside the span")
	assert.Equal(t, NoHit, NewRay(V(0, 5), V(-1, 0)).DistanceTo(rc), "pointing away")
	assert.Equal(t, NoHit, NewRay(V(0, 30), V(1, -0.1)).DistanceTo(rc), "passes below")
	assert.False(t, NewRay(V(0, 11), V(1, 0)).Intersects(rc))
}

func TestRayAt(t *testing.T) {
	r := NewRay(V(1, 2), V(0, -3))
	assert.Equal(t, V(1, -2), r.At(4))
	assert.Equal(t, V(1, 2), r.Origin())
}

package physics

// Circle is a circular collision shape. The radius is never negative.
type Circle struct {
	x, y   float64
	radius float64
}

var _ Bounds = (*Circle)(nil)

// NewCircle returns a circle centred at (x, y). A negative radius clamps to 0.
func NewCircle(x, y, radius float64) *Circle {
	return &Circle{x: x, y: y, radius: nonNegative(radius)}
}

func (c *Circle) sealed() {}

func (c *Circle) Kind() ShapeKind { return ShapeCircle }
func (c *Circle) X() float64      { return c.x }
func (c *Circle) Y() float64      { return c.y }
func (c *Circle) Radius() float64 { return c.radius }
func (c *Circle) Origin() Vec2    { return Vec2{c.x, c.y} }
func (c *Circle) Center() Vec2    { return Vec2{c.x, c.y} }
func (c *Circle) Min() Vec2       { return Vec2{c.x - c.radius, c.y - c.radius} }
func (c *Circle) Max() Vec2       { return Vec2{c.x + c.radius, c.y + c.radius} }

// SetCenter moves the circle without touching its radius.
func (c *Circle) SetCenter(x, y float64) {
	c.x, c.y = x, y
}

// SetRadius sets the radius, clamping negative values to 0.
func (c *Circle) SetRadius(radius float64) {
	c.radius = nonNegative(radius)
}

func (c *Circle) Translate(dx, dy float64) {
	c.x += dx
	c.y += dy
}

func (c *Circle) Intersects(other Bounds) bool {
	switch o := other.(type) {
	case *Circle:
		return c.intersectsCircle(o)
	case *Rectangle:
		return c.intersectsRect(o)
	default:
		return false
	}
}

func (c *Circle) NudgeFrom(other Bounds) {
	switch o := other.(type) {
	case *Circle:
		c.nudgeFromCircle(o)
	case *Rectangle:
		c.nudgeFromRect(o)
	}
}

func (c *Circle) intersectsCircle(o *Circle) bool {
	dx, dy := o.x-c.x, o.y-c.y
	r := c.radius + o.radius
	return dx*dx+dy*dy <= r*r
}

func (c *Circle) intersectsRect(r *Rectangle) bool {
	p := r.closestPoint(c.x, c.y)
	dx, dy := c.x-p.X, c.y-p.Y
	return dx*dx+dy*dy <= c.radius*c.radius
}

// nudgeFromCircle places c on the line through both centres at exactly the
// sum of the radii from o. Coincident centres separate along +X.
func (c *Circle) nudgeFromCircle(o *Circle) {
	d := Vec2{c.x - o.x, c.y - o.y}
	mag := d.Len()
	if mag == 0 {
		d, mag = Vec2{X: 1}, 1
	}
	sum := c.radius + o.radius
	c.x = o.x + d.X/mag*sum
	c.y = o.y + d.Y/mag*sum
}

// nudgeFromRect moves c along the vector from the rectangle's nearest
// boundary point until that vector is exactly one radius long. A centre
// inside the rectangle has no such vector and leaves through the nearest face.
func (c *Circle) nudgeFromRect(r *Rectangle) {
	p := r.closestPoint(c.x, c.y)
	d := Vec2{c.x - p.X, c.y - p.Y}
	if d.IsZero() {
		n, depth := r.exitNormal(c.x, c.y)
		c.x += n.X * (depth + c.radius)
		c.y += n.Y * (depth + c.radius)
		return
	}
	mult := c.radius / d.Len()
	c.x += d.X*mult - d.X
	c.y += d.Y*mult - d.Y
}

package physics

import "math"

// Rectangle is an axis-aligned collision shape anchored at its top-left
// corner. Right and bottom are derived and rewritten on every mutation.
type Rectangle struct {
	x, y          float64
	width, height float64
	right, bottom float64
}

var _ Bounds = (*Rectangle)(nil)

// NewRectangle returns a rectangle with top-left corner (x, y). Negative
// sizes clamp to 0.
func NewRectangle(x, y, width, height float64) *Rectangle {
	r := &Rectangle{x: x, y: y, width: nonNegative(width), height: nonNegative(height)}
	r.sync()
	return r
}

func (r *Rectangle) sealed() {}

func (r *Rectangle) Kind() ShapeKind { return ShapeRectangle }
func (r *Rectangle) X() float64      { return r.x }
func (r *Rectangle) Y() float64      { return r.y }
func (r *Rectangle) Left() float64   { return r.x }
func (r *Rectangle) Top() float64    { return r.y }
func (r *Rectangle) Right() float64  { return r.right }
func (r *Rectangle) Bottom() float64 { return r.bottom }
func (r *Rectangle) Width() float64  { return r.width }
func (r *Rectangle) Height() float64 { return r.height }
func (r *Rectangle) Origin() Vec2    { return Vec2{r.x, r.y} }
func (r *Rectangle) Min() Vec2       { return Vec2{r.x, r.y} }
func (r *Rectangle) Max() Vec2       { return Vec2{r.right, r.bottom} }

func (r *Rectangle) HalfExtents() Vec2 {
	return Vec2{r.width * 0.5, r.height * 0.5}
}

func (r *Rectangle) Center() Vec2 {
	return Vec2{r.x + r.width*0.5, r.y + r.height*0.5}
}

func (r *Rectangle) SetX(x float64) {
	r.x = x
	r.sync()
}

func (r *Rectangle) SetY(y float64) {
	r.y = y
	r.sync()
}

func (r *Rectangle) SetPosition(x, y float64) {
	r.x, r.y = x, y
	r.sync()
}

// SetWidth clamps negative widths to 0.
func (r *Rectangle) SetWidth(width float64) {
	r.width = nonNegative(width)
	r.sync()
}

// SetHeight clamps negative heights to 0.
func (r *Rectangle) SetHeight(height float64) {
	r.height = nonNegative(height)
	r.sync()
}

func (r *Rectangle) Translate(dx, dy float64) {
	r.x += dx
	r.y += dy
	r.sync()
}

func (r *Rectangle) Intersects(other Bounds) bool {
	switch o := other.(type) {
	case *Circle:
		return o.intersectsRect(r)
	case *Rectangle:
		return r.intersectsRect(o)
	default:
		return false
	}
}

func (r *Rectangle) NudgeFrom(other Bounds) {
	switch o := other.(type) {
	case *Circle:
		r.nudgeFromCircle(o)
	case *Rectangle:
		r.nudgeFromRect(o)
	}
}

func (r *Rectangle) sync() {
	r.right = r.x + r.width
	r.bottom = r.y + r.height
}

func (r *Rectangle) intersectsRect(o *Rectangle) bool {
	return !(r.x > o.right || r.right < o.x || r.y > o.bottom || r.bottom < o.y)
}

// closestPoint clamps (x, y) into the rectangle.
func (r *Rectangle) closestPoint(x, y float64) Vec2 {
	return Vec2{clamp(x, r.x, r.right), clamp(y, r.y, r.bottom)}
}

// exitNormal returns the outward normal of the face nearest to an interior
// point and the distance to that face.
func (r *Rectangle) exitNormal(x, y float64) (Vec2, float64) {
	n, depth := Vec2{X: -1}, x-r.x
	if d := r.right - x; d < depth {
		n, depth = Vec2{X: 1}, d
	}
	if d := y - r.y; d < depth {
		n, depth = Vec2{Y: -1}, d
	}
	if d := r.bottom - y; d < depth {
		n, depth = Vec2{Y: 1}, d
	}
	return n, depth
}

// nudgeFromCircle moves r directly away from the circle's centre until the
// nearest boundary point sits exactly one radius from it.
func (r *Rectangle) nudgeFromCircle(c *Circle) {
	p := r.closestPoint(c.x, c.y)
	d := Vec2{p.X - c.x, p.Y - c.y}
	if d.IsZero() {
		n, depth := r.exitNormal(c.x, c.y)
		r.Translate(-n.X*(depth+c.radius), -n.Y*(depth+c.radius))
		return
	}
	mult := c.radius / d.Len()
	r.Translate(d.X*mult-d.X, d.Y*mult-d.Y)
}

// nudgeFromRect resolves along the single axis of least penetration. Ties go
// to the Y axis.
func (r *Rectangle) nudgeFromRect(o *Rectangle) {
	dx := o.x + o.width*0.5 - r.x - r.width*0.5
	dy := o.y + o.height*0.5 - r.y - r.height*0.5

	halfW := (r.width + o.width) * 0.5
	halfH := (r.height + o.height) * 0.5
	if dx < 0 {
		dx += halfW
	} else {
		dx -= halfW
	}
	if dy < 0 {
		dy += halfH
	} else {
		dy -= halfH
	}

	if math.Abs(dx) < math.Abs(dy) {
		r.Translate(dx, 0)
	} else {
		r.Translate(0, dy)
	}
}

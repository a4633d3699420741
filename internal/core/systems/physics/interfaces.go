package physics

// Transform provides a 2D position. Body and Vec2 implement it, which lets
// sensing code measure distances without knowing the concrete type.
type Transform interface {
	Position2() (x, y float64)
}

// ShapeKind tags the active variant of a Bounds value.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRectangle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// Bounds is the collision shape of a body. It is sealed: the only variants
// are *Circle and *Rectangle, and every pairwise operation switches over both.
type Bounds interface {
	Kind() ShapeKind

	// Origin is the shape's own reference coordinate: the centre of a circle,
	// the top-left corner of a rectangle.
	Origin() Vec2
	Center() Vec2
	Min() Vec2
	Max() Vec2

	Translate(dx, dy float64)

	// Intersects reports overlap with other, touching included.
	Intersects(other Bounds) bool
	// NudgeFrom moves the receiver the minimum distance needed to stop
	// penetrating other. other is never modified.
	NudgeFrom(other Bounds)

	sealed()
}

// CollisionListener receives contact notifications for the body it is
// registered with. self is that body, other the body it touched.
type CollisionListener interface {
	NotifyOfCollision(self, other *Body)
}

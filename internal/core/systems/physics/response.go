package physics

import (
	"fmt"
	"math"
	"strings"
)

// ResponseModel selects the velocity response applied after two bodies have
// been separated.
type ResponseModel uint8

const (
	// ResponseNewtonian exchanges a momentum-conserving impulse
	// j = -(1+e)(v_rel·n) / (1/m_a + 1/m_b) along the contact normal while the
	// pair is approaching. Static sides contribute no inverse mass.
	ResponseNewtonian ResponseModel = iota
	// ResponseLegacy keeps the pre-impulse formulas: circle pairs exchange
	// e·sqrt(|v_rel·n|·m_a·m_b), every other pair reflects the velocity of
	// alpha (or of beta when alpha has no response) scaled by e. Only a
	// responsive rectangle alpha hands the mass-scaled opposite to beta; a
	// circle alpha bounces off a rectangle's edge and leaves the rectangle
	// untouched.
	ResponseLegacy
)

func (m ResponseModel) String() string {
	switch m {
	case ResponseNewtonian:
		return "newtonian"
	case ResponseLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("ResponseModel(%d)", uint8(m))
	}
}

func ParseResponseModel(s string) (ResponseModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newtonian":
		return ResponseNewtonian, nil
	case "legacy":
		return ResponseLegacy, nil
	default:
		return 0, fmt.Errorf("unknown response model %q", s)
	}
}

// contactNormal returns the unit normal pointing from beta towards alpha.
func (w *World) contactNormal(alpha, beta *Body, alphaResp, betaResp bool) Vec2 {
	switch a := alpha.bounds.(type) {
	case *Circle:
		switch b := beta.bounds.(type) {
		case *Circle:
			return centerNormal(a.Center(), b.Center())
		case *Rectangle:
			return circleRectNormal(a, b, w.mixedCentreNormal(false, alphaResp, betaResp))
		}
	case *Rectangle:
		switch b := beta.bounds.(type) {
		case *Circle:
			return circleRectNormal(b, a, w.mixedCentreNormal(true, alphaResp, betaResp)).Neg()
		case *Rectangle:
			return faceNormal(a, b)
		}
	}
	return Vec2{X: 1}
}

// centerNormal is the unit vector from -> to; coincident points use +X.
func centerNormal(to, from Vec2) Vec2 {
	n := to.Sub(from).Normalize()
	if n.IsZero() {
		return Vec2{X: 1}
	}
	return n
}

// faceNormal picks the face of b that a rests against, testing left, right,
// top and bottom contact in that order.
func faceNormal(a, b *Rectangle) Vec2 {
	switch {
	case math.Abs(a.right-b.x) <= Epsilon:
		return Vec2{X: -1}
	case math.Abs(b.right-a.x) <= Epsilon:
		return Vec2{X: 1}
	case math.Abs(a.bottom-b.y) <= Epsilon:
		return Vec2{Y: -1}
	default:
		return Vec2{Y: 1}
	}
}

// mixedCentreNormal reports whether a circle/rectangle pair uses the line
// between the centres rather than a rectangle edge. The Newtonian model uses
// the centres whenever the rectangle can move; the legacy model uses them
// when the reflected side is the rectangle.
func (w *World) mixedCentreNormal(rectIsAlpha, alphaResp, betaResp bool) bool {
	if w.model == ResponseLegacy {
		return rectIsAlpha == alphaResp
	}
	if rectIsAlpha {
		return alphaResp
	}
	return betaResp
}

// circleRectNormal returns the normal pointing from the rectangle towards
// the circle. With centre set the normal follows the line between the
// centres; otherwise the rectangle acts as a wall and the normal is the edge
// the circle's surface rests on, diagonal when it sits on a corner.
func circleRectNormal(c *Circle, r *Rectangle, centre bool) Vec2 {
	if centre {
		return centerNormal(c.Center(), r.Center())
	}
	var n Vec2
	switch {
	case math.Abs(c.x-r.x)-c.radius <= Epsilon && c.x <= r.x:
		n.X = -1
	case math.Abs(r.right-c.x)-c.radius <= Epsilon && c.x >= r.right:
		n.X = 1
	}
	switch {
	case math.Abs(c.y-r.y)-c.radius <= Epsilon && c.y <= r.y:
		n.Y = -1
	case math.Abs(r.bottom-c.y)-c.radius <= Epsilon && c.y >= r.bottom:
		n.Y = 1
	}
	switch {
	case n.X != 0 && n.Y != 0:
		return n.Scale(oneOverSqrtTwo)
	case n.IsZero():
		return centerNormal(c.Center(), r.Center())
	default:
		return n
	}
}

// respond updates the velocities of the responsive sides and reports whether
// an impulse was applied.
func (w *World) respond(alpha, beta *Body, n Vec2, alphaResp, betaResp bool) bool {
	if w.model == ResponseLegacy {
		_, circles := alpha.bounds.(*Circle)
		if _, ok := beta.bounds.(*Circle); circles && ok {
			w.legacyCircleImpulse(alpha, beta, n, alphaResp, betaResp)
			return true
		}
		w.legacyReflect(alpha, beta, n, alphaResp, betaResp, !circles)
		return true
	}

	var invA, invB float64
	if alphaResp {
		invA = 1 / alpha.mass
	}
	if betaResp {
		invB = 1 / beta.mass
	}
	if invA+invB == 0 {
		return false
	}
	vn := alpha.vel.Sub(beta.vel).Dot(n)
	if vn >= 0 {
		// resting or already separating
		return false
	}
	j := -(1 + w.restitution) * vn / (invA + invB)
	alpha.vel = alpha.vel.Add(n.Scale(j * invA))
	beta.vel = beta.vel.Sub(n.Scale(j * invB))
	return true
}

func (w *World) legacyCircleImpulse(alpha, beta *Body, n Vec2, alphaResp, betaResp bool) {
	impact := beta.vel.Sub(alpha.vel)
	mult := w.restitution * math.Sqrt(math.Abs(impact.Dot(n))*alpha.mass*beta.mass)
	impulse := n.Scale(mult)
	if alphaResp {
		alpha.vel = alpha.vel.Add(impulse.Scale(1 / alpha.mass))
	}
	if betaResp {
		beta.vel = beta.vel.Sub(impulse.Scale(1 / beta.mass))
	}
}

// legacyReflect reflects alpha, or beta when alpha has no response. With
// transfer set a responsive beta also receives alpha's mass-scaled reaction.
func (w *World) legacyReflect(alpha, beta *Body, n Vec2, alphaResp, betaResp, transfer bool) {
	switch {
	case alphaResp:
		scale := w.restitution * 2 * alpha.vel.Dot(n)
		alpha.vel = alpha.vel.Sub(n.Scale(scale))
		if betaResp && transfer {
			scale *= alpha.mass / beta.mass
			beta.vel = beta.vel.Add(n.Scale(scale))
		}
	case betaResp:
		scale := w.restitution * 2 * beta.vel.Dot(n)
		beta.vel = beta.vel.Sub(n.Scale(scale))
	}
}

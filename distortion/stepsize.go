package distortion

import (
	"math"

	"github.com/dbcode/uvgami/geom"
)

// MaxStepBeforeDegenerate returns the largest t >= 0 such that triangle
// (p0+t*d0, p1+t*d1, p2+t*d2) stays at strictly positive signed area for all
// s in [0,t]; it is the smallest positive root of the (at most quadratic)
// signed-area-vs-t polynomial, or +Inf if the area never reaches zero along
// the ray. Mirrors the per-triangle solve described for Energy::initStepSize.
func MaxStepBeforeDegenerate(p0, p1, p2, d0, d1, d2 geom.Vec2) float64 {
	b0a0 := p1.Sub(p0)
	c0a0 := p2.Sub(p0)
	d1v := d1.Sub(d0)
	d2v := d2.Sub(d0)

	a2 := 0.5 * geom.Cross2(d1v, d2v)
	a1 := 0.5 * (geom.Cross2(b0a0, d2v) + geom.Cross2(d1v, c0a0))
	a0 := 0.5 * geom.Cross2(b0a0, c0a0)

	const eps = 1e-300
	if math.Abs(a2) < eps {
		if math.Abs(a1) < eps {
			return math.Inf(1)
		}
		t := -a0 / a1
		if t > 0 {
			return t
		}
		return math.Inf(1)
	}

	disc := a1*a1 - 4*a2*a0
	if disc < 0 {
		return math.Inf(1)
	}
	sq := math.Sqrt(disc)
	t1 := (-a1 + sq) / (2 * a2)
	t2 := (-a1 - sq) / (2 * a2)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > 1e-12 {
		return t1
	}
	if t2 > 1e-12 {
		return t2
	}
	return math.Inf(1)
}

package distortion

import (
	"github.com/dbcode/uvgami/geom"
	"gonum.org/v1/gonum/mat"
)

// elemEnergyOfDofs evaluates the per-triangle symmetric Dirichlet energy
// (uniform per-triangle weight; the caller applies its own weight factor) as
// a function of the flattened degrees of freedom [p0x,p0y,p1x,p1y,p2x,p2y].
func elemEnergyOfDofs(u0, u1, u2 geom.Vec2, dofs [6]float64) float64 {
	p0 := geom.Vec2{X: dofs[0], Y: dofs[1]}
	p1 := geom.Vec2{X: dofs[2], Y: dofs[3]}
	p2 := geom.Vec2{X: dofs[4], Y: dofs[5]}
	return ElemEnergy(u0, u1, u2, p0, p1, p2, true)
}

// ElemGradHess computes the per-triangle gradient (length 6) and a
// projected-SPD Hessian (6x6) of the symmetric Dirichlet energy with
// respect to the current UV positions of the triangle's three vertices, by
// central finite differences of ElemEnergy followed by IglUtils-style
// eigenvalue clamping (see MakePD). Using numerical derivatives here trades
// a little performance for the ability to add/alter energy variants
// (engine/src/Energy/*) without re-deriving closed-form Jacobians by hand.
// uniformWeight mirrors ElemEnergy's: false (the chart's default) scales the
// whole per-triangle energy by its fixed rest-space area before
// differentiating, which is exact since the area depends only on the rest
// triangle (u0,u1,u2), not on the differentiated UV positions.
func ElemGradHess(u0, u1, u2 geom.Vec2, p0, p1, p2 geom.Vec2, uniformWeight bool) (grad [6]float64, hess *mat.SymDense) {
	x := [6]float64{p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y}
	const h = 1e-6

	w := 1.0
	if !uniformWeight {
		w = RestArea2D(u0, u1, u2)
	}
	f := func(x [6]float64) float64 { return w * elemEnergyOfDofs(u0, u1, u2, x) }

	for i := 0; i < 6; i++ {
		xp, xm := x, x
		xp[i] += h
		xm[i] -= h
		grad[i] = (f(xp) - f(xm)) / (2 * h)
	}

	dense := mat.NewSymDense(6, nil)
	f0 := f(x)
	for i := 0; i < 6; i++ {
		for j := i; j < 6; j++ {
			var v float64
			if i == j {
				xp, xm := x, x
				xp[i] += h
				xm[i] -= h
				v = (f(xp) - 2*f0 + f(xm)) / (h * h)
			} else {
				xpp, xpm, xmp, xmm := x, x, x, x
				xpp[i] += h
				xpp[j] += h
				xpm[i] += h
				xpm[j] -= h
				xmp[i] -= h
				xmp[j] += h
				xmm[i] -= h
				xmm[j] -= h
				v = (f(xpp) - f(xpm) - f(xmp) + f(xmm)) / (4 * h * h)
			}
			dense.SetSym(i, j, v)
		}
	}
	hess = MakePD(dense)
	return
}

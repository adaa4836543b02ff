// Package distortion implements the per-triangle symmetric Dirichlet energy
// and its derivatives, shared by the mesh package (for local topology-change
// estimates) and the energy package (for the full assembled objective).
// Grounded on engine/src/Utils/IglUtils.hpp (mapTriangleTo2D,
// computeDeformationGradient) and engine/src/Energy/SymDirichletEnergy.hpp.
package distortion

import (
	"math"

	"github.com/dbcode/uvgami/geom"
	"gonum.org/v1/gonum/mat"
)

// MapTriangleTo2D isometrically flattens a 3D rest triangle into the 2D
// plane, placing v0 at the origin and v1 on the positive x-axis. Mirrors
// IglUtils::mapTriangleTo2D.
func MapTriangleTo2D(v0, v1, v2 geom.Vec3) (u0, u1, u2 geom.Vec2) {
	e01 := v1.Sub(v0)
	e02 := v2.Sub(v0)
	len01 := e01.Norm()
	u0 = geom.Vec2{}
	u1 = geom.Vec2{X: len01}
	if len01 == 0 {
		return u0, u1, geom.Vec2{}
	}
	xDir := e01.Scale(1.0 / len01)
	proj := xDir.Dot(e02)
	perp := e02.Sub(xDir.Scale(proj))
	height := perp.Norm()
	u2 = geom.Vec2{X: proj, Y: height}
	return
}

// Jacobian2x2 is the 2x2 deformation gradient of the affine map taking the
// flattened rest triangle (u0,u1,u2) to the current UV triangle (p0,p1,p2).
// Mirrors IglUtils::computeDeformationGradient.
type Jacobian2x2 struct {
	A, B, C, D float64 // [[A,B],[C,D]]
}

func ComputeJacobian(u0, u1, u2 geom.Vec2, p0, p1, p2 geom.Vec2) (Jacobian2x2, bool) {
	// rest edge matrix Dm = [u1-u0, u2-u0], current edge matrix Ds = [p1-p0, p2-p0]
	dm00, dm01 := u1.X-u0.X, u2.X-u0.X
	dm10, dm11 := u1.Y-u0.Y, u2.Y-u0.Y
	detDm := dm00*dm11 - dm01*dm10
	if math.Abs(detDm) < 1e-300 {
		return Jacobian2x2{}, false
	}
	invDet := 1.0 / detDm
	// Dm^-1
	i00, i01 := dm11*invDet, -dm01*invDet
	i10, i11 := -dm10*invDet, dm00*invDet

	ds00, ds01 := p1.X-p0.X, p2.X-p0.X
	ds10, ds11 := p1.Y-p0.Y, p2.Y-p0.Y

	// J = Ds * Dm^-1
	return Jacobian2x2{
		A: ds00*i00 + ds01*i10,
		B: ds00*i01 + ds01*i11,
		C: ds10*i00 + ds11*i10,
		D: ds10*i01 + ds11*i11,
	}, true
}

func (j Jacobian2x2) Det() float64 { return j.A*j.D - j.B*j.C }

func (j Jacobian2x2) FrobNormSq() float64 {
	return j.A*j.A + j.B*j.B + j.C*j.C + j.D*j.D
}

func (j Jacobian2x2) Inverse() (Jacobian2x2, bool) {
	det := j.Det()
	if math.Abs(det) < 1e-300 {
		return Jacobian2x2{}, false
	}
	invDet := 1.0 / det
	return Jacobian2x2{
		A: j.D * invDet, B: -j.B * invDet,
		C: -j.C * invDet, D: j.A * invDet,
	}, true
}

// ElemEnergy returns the symmetric Dirichlet energy ||J||_F^2 + ||J^-1||_F^2
// of a single triangle, given its rest (3D, pre-flattened to 2D) and current
// UV vertices, weighted per uniformWeight: true substitutes an equal
// per-triangle weight of 1, false (the chart's own default) weights by the
// triangle's rest-space area so large and small triangles contribute to the
// sum in proportion to the surface they cover. Infinite (via math.Inf) when
// the rest or current triangle is degenerate (zero area); an inverted
// current triangle (negative area) yields a finite value.
func ElemEnergy(u0, u1, u2, p0, p1, p2 geom.Vec2, uniformWeight bool) float64 {
	j, ok := ComputeJacobian(u0, u1, u2, p0, p1, p2)
	if !ok {
		return math.Inf(1)
	}
	jInv, ok := j.Inverse()
	if !ok {
		return math.Inf(1)
	}
	e := j.FrobNormSq() + jInv.FrobNormSq()
	if uniformWeight {
		return e
	}
	return e * RestArea2D(u0, u1, u2)
}

// RestArea2D returns the rest-triangle's area in its flattened 2D form.
func RestArea2D(u0, u1, u2 geom.Vec2) float64 {
	return math.Abs(geom.SignedArea2(u0, u1, u2))
}

// MakePD projects a symmetric dense matrix onto the SPD cone by clamping
// negative eigenvalues to zero and reassembling, following
// IglUtils::makePD's eigendecomposition-and-clamp scheme, backed by gonum's
// EigenSym instead of Eigen's SelfAdjointEigenSolver.
func MakePD(sym *mat.SymDense) *mat.SymDense {
	n, _ := sym.Dims()
	var eig mat.EigenSym
	ok := eig.Factorize(sym, true)
	if !ok {
		// return the block unprojected; factorization failures here are
		// extremely rare for 6x6 physically-derived blocks.
		return sym
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	needsClamp := false
	for _, v := range vals {
		if v < 0 {
			needsClamp = true
			break
		}
	}
	if !needsClamp {
		return sym
	}

	clamped := make([]float64, n)
	for i, v := range vals {
		if v < 0 {
			clamped[i] = 0
		} else {
			clamped[i] = v
		}
	}

	// reassemble V * diag(clamped) * V^T
	var vd mat.Dense
	vd.Apply(func(i, j int, v float64) float64 { return v * clamped[j] }, &vecs)
	var out mat.Dense
	out.Mul(&vd, vecs.T())

	result := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			result.SetSym(i, j, out.At(i, j))
		}
	}
	return result
}

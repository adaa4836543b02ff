package energy

import (
	"math"

	"github.com/dbcode/uvgami/distortion"
	"github.com/dbcode/uvgami/geom"
	"github.com/dbcode/uvgami/mesh"
)

func init() {
	Register("sym-dirichlet", func() Term { return &SymDirichlet{} })
}

// SymDirichlet is the primary distortion term, E_SD = sum over faces of
// ||J||_F^2 + ||J^-1||_F^2, where J is the per-triangle deformation
// gradient from the isometrically-flattened rest triangle to its current UV
// triangle. Grounded on engine/src/Energy/SymDirichletEnergy.hpp, with the
// per-element derivatives computed by distortion.ElemGradHess. Per
// spec.md's energy contract, uniformWeight=false (the chart's own default)
// weights every triangle by its rest-space area; the scaffold package
// requests uniformWeight=true for the air mesh.
type SymDirichlet struct{}

func (*SymDirichlet) Name() string { return "sym-dirichlet" }

func (*SymDirichlet) EnergyVal(m *mesh.TriMesh, uniformWeight bool) float64 {
	total := 0.0
	for _, tri := range m.F {
		u0, u1, u2 := distortion.MapTriangleTo2D(m.VRest[tri[0]], m.VRest[tri[1]], m.VRest[tri[2]])
		total += distortion.ElemEnergy(u0, u1, u2, m.V[tri[0]], m.V[tri[1]], m.V[tri[2]], uniformWeight)
	}
	return total
}

func (*SymDirichlet) EnergyValPerElem(m *mesh.TriMesh, uniformWeight bool) []float64 {
	out := make([]float64, len(m.F))
	for t, tri := range m.F {
		u0, u1, u2 := distortion.MapTriangleTo2D(m.VRest[tri[0]], m.VRest[tri[1]], m.VRest[tri[2]])
		out[t] = distortion.ElemEnergy(u0, u1, u2, m.V[tri[0]], m.V[tri[1]], m.V[tri[2]], uniformWeight)
	}
	return out
}

func (*SymDirichlet) Gradient(m *mesh.TriMesh, uniformWeight bool, grad []float64) {
	for _, tri := range m.F {
		u0, u1, u2 := distortion.MapTriangleTo2D(m.VRest[tri[0]], m.VRest[tri[1]], m.VRest[tri[2]])
		g, _ := distortion.ElemGradHess(u0, u1, u2, m.V[tri[0]], m.V[tri[1]], m.V[tri[2]], uniformWeight)
		for k := 0; k < 3; k++ {
			grad[2*tri[k]] += g[2*k]
			grad[2*tri[k]+1] += g[2*k+1]
		}
	}
}

func (*SymDirichlet) Hessian(m *mesh.TriMesh, uniformWeight bool) (rows, cols []int, vals []float64) {
	for _, tri := range m.F {
		u0, u1, u2 := distortion.MapTriangleTo2D(m.VRest[tri[0]], m.VRest[tri[1]], m.VRest[tri[2]])
		_, h := distortion.ElemGradHess(u0, u1, u2, m.V[tri[0]], m.V[tri[1]], m.V[tri[2]], uniformWeight)
		r, c, v := denseFromTriplets(tri, h)
		rows = append(rows, r...)
		cols = append(cols, c...)
		vals = append(vals, v...)
	}
	return
}

// InitStepSize returns the largest step along searchDir that keeps every
// face's signed UV area strictly positive, mirroring
// Energy::initStepSize's per-triangle degenerate-area quadratic solve.
func (*SymDirichlet) InitStepSize(m *mesh.TriMesh, searchDir []float64) float64 {
	maxStep := math.Inf(1)
	for _, tri := range m.F {
		p0, p1, p2 := m.V[tri[0]], m.V[tri[1]], m.V[tri[2]]
		d0 := searchDirAt(searchDir, tri[0])
		d1 := searchDirAt(searchDir, tri[1])
		d2 := searchDirAt(searchDir, tri[2])
		t := distortion.MaxStepBeforeDegenerate(p0, p1, p2, d0, d1, d2)
		if t < maxStep {
			maxStep = t
		}
	}
	return maxStep
}

func searchDirAt(d []float64, v int) geom.Vec2 {
	return geom.Vec2{X: d[2*v], Y: d[2*v+1]}
}

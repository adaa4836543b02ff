package energy

import (
	"math"

	"github.com/dbcode/uvgami/mesh"
)

func init() {
	Register("seam-length", func() Term { return &SeamLength{} })
}

// SeamLength is E_se, the total cohesive-edge length normalized by the
// mesh's virtual radius. It depends only on rest-space (3D) positions and
// the current set of cohesive edges, not on the UV positions V, so it
// contributes nothing to the continuous optimizer's gradient/Hessian; it
// only changes across topology edits, which is where it actually enters the
// dual-variable score (optimize package). Registered as a Term mainly so
// EnergyVal has one uniform entry point alongside sym-dirichlet.
type SeamLength struct{}

func (*SeamLength) Name() string { return "seam-length" }

// EnergyVal ignores uniformWeight: the seam term has no per-triangle
// distribution to weight, area-based or otherwise.
func (*SeamLength) EnergyVal(m *mesh.TriMesh, uniformWeight bool) float64 {
	return m.ComputeSeamSparsity()
}

func (*SeamLength) EnergyValPerElem(m *mesh.TriMesh, uniformWeight bool) []float64 {
	return make([]float64, len(m.F))
}

func (*SeamLength) Gradient(m *mesh.TriMesh, uniformWeight bool, grad []float64) {}

func (*SeamLength) Hessian(m *mesh.TriMesh, uniformWeight bool) (rows, cols []int, vals []float64) {
	return
}

func (*SeamLength) InitStepSize(m *mesh.TriMesh, searchDir []float64) float64 {
	return math.Inf(1)
}

// Package scaffold implements the auxiliary "air mesh" triangulation placed
// around the UV chart. The air mesh holds its own copies of the chart's
// boundary vertices as separate degrees of freedom; nothing ties them to the
// chart's own vertices, so the air mesh adds its energy to the combined
// system but does not constrain how the chart boundary moves and does not
// keep it a simple polygon. The optimize package only talks to it through
// the augmentation methods below; it never inspects airMesh's own topology.
// Grounded on spec.md §4.4 and, for the coupling-without-knowing-internals
// shape, on how gofem's fem.Domain treats essential boundary conditions
// (essenbcs.go) as a bolt-on contributor to the global Jacobian/residual
// rather than a first-class element.
package scaffold

import (
	"math"

	"github.com/dbcode/uvgami/distortion"
	"github.com/dbcode/uvgami/energy"
	"github.com/dbcode/uvgami/geom"
	"github.com/dbcode/uvgami/mesh"
)

// Scaffold is the air mesh plus the bookkeeping needed to map its DoFs
// in/out of the chart's combined system.
type Scaffold struct {
	AirMesh   *mesh.TriMesh
	chartSize int    // len(chart.V) at construction, i.e. index offset for air-mesh vertices
	frameSize int     // number of fixed outer-frame vertices appended after the chart boundary
}

// outerFrame returns a square frame scaled relative to bbox, used as the
// fixed outer boundary of the air mesh.
func outerFrame(bbox geom.BBox3, margin float64) []geom.Vec2 {
	diag := bbox.Diag()
	r := diag * margin
	return []geom.Vec2{
		{X: -r, Y: -r}, {X: r, Y: -r}, {X: r, Y: r}, {X: -r, Y: r},
	}
}

// Build constructs a Scaffold around chart's current boundary loop, fanning
// a fixed outer square frame against it. The air mesh's own interior is a
// single layer of triangles connecting each chart boundary vertex to its
// two neighbors on the frame; this is a deliberate simplification of the
// original's constrained Delaunay retriangulation of the full complement
// (not available from the retrieved reference sources), giving the air
// mesh a single non-empty layer of triangles.
func Build(chart *mesh.TriMesh, boundaryLoop []int) *Scaffold {
	frame := outerFrame(chart.BBox, 3.0)
	n := len(boundaryLoop)
	vRest := make([]geom.Vec3, 0, n+len(frame))
	v := make([]geom.Vec2, 0, n+len(frame))
	for _, bv := range boundaryLoop {
		vRest = append(vRest, chart.VRest[bv])
		v = append(v, chart.V[bv])
	}
	frameStart := len(v)
	for _, p := range frame {
		vRest = append(vRest, geom.Vec3{X: p.X, Y: p.Y, Z: 0})
		v = append(v, p)
	}

	var f [][3]int
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		fa := frameStart + (i * len(frame) / n)
		fb := frameStart + ((i + 1) * len(frame) / n)
		f = append(f, [3]int{i, j, fb})
		if fa != fb {
			f = append(f, [3]int{i, fb, fa})
		}
	}

	fixed := make([]int, 0, len(frame))
	for i := 0; i < len(frame); i++ {
		fixed = append(fixed, frameStart+i)
	}

	air := mesh.New(vRest, f, v, fixed)
	return &Scaffold{AirMesh: air, chartSize: len(chart.V), frameSize: len(frame)}
}

// MergeVNeighbor extends chartNeighbor (indexed as the chart's own
// vertices) with the air mesh's adjacency, so the combined linear system
// sees a single DoF graph across both meshes.
func (s *Scaffold) MergeVNeighbor(chartNeighbor []map[int]bool) []map[int]bool {
	combined := make([]map[int]bool, len(chartNeighbor)+len(s.AirMesh.VRest))
	for i, nb := range chartNeighbor {
		cp := make(map[int]bool, len(nb))
		for k := range nb {
			cp[k] = true
		}
		combined[i] = cp
	}
	for i := len(chartNeighbor); i < len(combined); i++ {
		combined[i] = make(map[int]bool)
	}
	offset := len(chartNeighbor)
	for i, nb := range s.AirMesh.VNeighbor {
		for j := range nb {
			combined[offset+i][offset+j] = true
		}
	}
	return combined
}

// MergeFixedV extends chartFixed with the air mesh's fixed (outer-frame)
// vertices, translated to the combined index space.
func (s *Scaffold) MergeFixedV(chartFixed map[int]bool, chartVertCount int) map[int]bool {
	combined := make(map[int]bool, len(chartFixed)+len(s.AirMesh.FixedVert))
	for k := range chartFixed {
		combined[k] = true
	}
	for k := range s.AirMesh.FixedVert {
		combined[chartVertCount+k] = true
	}
	return combined
}

// scaffoldWeight is w_scaf = lambda * 0.01 / |F_airmesh| (spec.md §4.4).
func (s *Scaffold) scaffoldWeight(lambda float64) float64 {
	if len(s.AirMesh.F) == 0 {
		return 0
	}
	return lambda * 0.01 / float64(len(s.AirMesh.F))
}

// AugmentGradient adds the weighted air-mesh symmetric-Dirichlet gradient
// into combined, a buffer already sized 2*(chartVertCount+len(airMesh.V)).
func (s *Scaffold) AugmentGradient(combined []float64, chartVertCount int, lambda float64) {
	w := s.scaffoldWeight(lambda)
	term := &energy.SymDirichlet{}
	local := make([]float64, 2*len(s.AirMesh.V))
	term.Gradient(s.AirMesh, true, local)
	offset := 2 * chartVertCount
	for i, g := range local {
		combined[offset+i] += w * g
	}
}

// AugmentProxyMatrix appends the weighted air-mesh Hessian's triplets
// (translated into the combined index space) onto rows/cols/vals.
func (s *Scaffold) AugmentProxyMatrix(rows, cols []int, vals []float64, chartVertCount int, lambda float64) ([]int, []int, []float64) {
	w := s.scaffoldWeight(lambda)
	term := &energy.SymDirichlet{}
	r, c, v := term.Hessian(s.AirMesh, true)
	offset := 2 * chartVertCount
	for i := range v {
		rows = append(rows, r[i]+offset)
		cols = append(cols, c[i]+offset)
		vals = append(vals, w*v[i])
	}
	return rows, cols, vals
}

// WholeSearchDir2AirMesh restricts a combined search direction (sized
// 2*(chartVertCount+len(airMesh.V))) to the air mesh's own DoFs.
func (s *Scaffold) WholeSearchDir2AirMesh(whole []float64, chartVertCount int) []float64 {
	offset := 2 * chartVertCount
	return append([]float64(nil), whole[offset:offset+2*len(s.AirMesh.V)]...)
}

// StepForward advances the air mesh's vertices by step*airDir, mirroring
// how the chart itself advances inside the line search.
func (s *Scaffold) StepForward(v0 []geom.Vec2, airDir []float64, step float64) {
	for i := range s.AirMesh.V {
		s.AirMesh.V[i] = v0[i].Add(geom.Vec2{X: airDir[2*i] * step, Y: airDir[2*i+1] * step})
	}
}

// InitStepSize returns the air mesh's own inversion-safe step bound, to be
// combined (via min) with the chart's energy terms' bounds.
func (s *Scaffold) InitStepSize(airDir []float64) float64 {
	maxStep := math.Inf(1)
	for _, tri := range s.AirMesh.F {
		p0, p1, p2 := s.AirMesh.V[tri[0]], s.AirMesh.V[tri[1]], s.AirMesh.V[tri[2]]
		d0 := geom.Vec2{X: airDir[2*tri[0]], Y: airDir[2*tri[0]+1]}
		d1 := geom.Vec2{X: airDir[2*tri[1]], Y: airDir[2*tri[1]+1]}
		d2 := geom.Vec2{X: airDir[2*tri[2]], Y: airDir[2*tri[2]+1]}
		t := distortion.MaxStepBeforeDegenerate(p0, p1, p2, d0, d1, d2)
		if t < maxStep {
			maxStep = t
		}
	}
	return maxStep
}

// CheckInversion reports whether the air mesh itself stays locally
// injective, checked alongside the chart's own CheckInversion in the line
// search's assertion step.
func (s *Scaffold) CheckInversion() bool { return s.AirMesh.CheckInversion() }

// Rebuild reconstructs the air mesh against chart's current boundary loop,
// called whenever a topology operation changes the chart boundary.
func (s *Scaffold) Rebuild(chart *mesh.TriMesh, boundaryLoop []int) {
	*s = *Build(chart, boundaryLoop)
}

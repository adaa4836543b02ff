// Package mesh implements TriMesh, the topological and geometric state of
// the current UV chart: rest 3D positions, current 2D positions, the face
// table, vertex adjacency, boundary classification, cohesive-edge records,
// and the topology-modification primitives that keep all of it consistent.
// Grounded on gofem's fem.Domain (owner of mesh/equation state, mutated only
// through well-defined methods) and the data model of spec.md §3.
package mesh

import (
	"math"

	"github.com/dbcode/uvgami/geom"
)

// DirEdge is a directed edge key (i,j), distinct from (j,i).
type DirEdge struct{ U, V int }

// CohesiveEdge records a cut in 3D as two copies of the original edge in
// 2D: (A,B) and (C,D). Either side may be -1 to mark a non-cohesive
// (original mesh) boundary edge.
type CohesiveEdge struct{ A, B, C, D int }

// TriMesh is the UV chart's topological + geometric state (spec.md §3).
type TriMesh struct {
	VRest []geom.Vec3 // rest 3D positions, immutable during optimization
	V     []geom.Vec2 // current 2D (UV) positions

	F [][3]int // ordered triangles (vertex index triples)

	VNeighbor []map[int]bool // per-vertex adjacent-vertex sets
	FixedVert map[int]bool   // vertex indices pinned in UV space

	CohE []CohesiveEdge

	Edge2Tri map[DirEdge]int // directed edge -> unique incident triangle

	FracTail             map[int]bool // endpoints of interior cuts that may propagate
	CurInteriorFracTails [2]int
	CurFracTail          int

	TriNormal []geom.Vec3 // per-face outward 3D normal (visualization/tie-break only)

	VirtualRadius float64            // sqrt(totalRestArea / pi)
	VertWeight    []float64          // per-vertex seam-weight multiplier, >= 1
	BBox          geom.BBox3         // bounding box of VRest
	InitSeamLen   float64            // total cohesive-edge length at construction

	boundaryEdge map[DirEdge]bool // directed boundary edges (single incident tri)
}

// New builds a TriMesh from rest positions, faces, an initial 2D chart and
// the set of fixed (pinned) vertex indices. It computes all derived
// adjacency/topology structures; it does not validate local injectivity
// (call CheckInversion separately, per spec.md's InitialInversion error).
func New(vRest []geom.Vec3, f [][3]int, v []geom.Vec2, fixedVert []int) *TriMesh {
	m := &TriMesh{
		VRest:       append([]geom.Vec3(nil), vRest...),
		V:           append([]geom.Vec2(nil), v...),
		F:           append([][3]int(nil), f...),
		FixedVert:   make(map[int]bool, len(fixedVert)),
		FracTail:    make(map[int]bool),
		CurFracTail: -1,
		VertWeight:  make([]float64, len(vRest)),
	}
	for _, idx := range fixedVert {
		m.FixedVert[idx] = true
	}
	for i := range m.VertWeight {
		m.VertWeight[i] = 1.0
	}
	m.CurInteriorFracTails = [2]int{-1, -1}
	m.BBox = geom.BBoxOf3(m.VRest)
	m.ComputeFeatures()
	m.VirtualRadius = math.Sqrt(m.totalRestArea() / math.Pi)
	m.InitSeamLen = m.SeamLength()
	return m
}

// Clone returns a deep-enough copy of m: all slices/maps independent so
// mutating the clone never affects the original. Used by topology candidate
// evaluation (try-then-discard) and by the engine's best-feasible snapshot.
func (m *TriMesh) Clone() *TriMesh {
	c := &TriMesh{
		VRest:         append([]geom.Vec3(nil), m.VRest...),
		V:             append([]geom.Vec2(nil), m.V...),
		F:             append([][3]int(nil), m.F...),
		CohE:          append([]CohesiveEdge(nil), m.CohE...),
		TriNormal:     append([]geom.Vec3(nil), m.TriNormal...),
		VirtualRadius: m.VirtualRadius,
		VertWeight:    append([]float64(nil), m.VertWeight...),
		BBox:          m.BBox,
		InitSeamLen:   m.InitSeamLen,
		CurFracTail:   m.CurFracTail,
	}
	c.CurInteriorFracTails = m.CurInteriorFracTails
	c.FixedVert = make(map[int]bool, len(m.FixedVert))
	for k, v := range m.FixedVert {
		c.FixedVert[k] = v
	}
	c.FracTail = make(map[int]bool, len(m.FracTail))
	for k, v := range m.FracTail {
		c.FracTail[k] = v
	}
	c.Edge2Tri = make(map[DirEdge]int, len(m.Edge2Tri))
	for k, v := range m.Edge2Tri {
		c.Edge2Tri[k] = v
	}
	c.boundaryEdge = make(map[DirEdge]bool, len(m.boundaryEdge))
	for k, v := range m.boundaryEdge {
		c.boundaryEdge[k] = v
	}
	c.VNeighbor = make([]map[int]bool, len(m.VNeighbor))
	for i, nb := range m.VNeighbor {
		cp := make(map[int]bool, len(nb))
		for k, v := range nb {
			cp[k] = v
		}
		c.VNeighbor[i] = cp
	}
	return c
}

func (m *TriMesh) totalRestArea() float64 {
	total := 0.0
	for _, tri := range m.F {
		total += geom.TriangleArea3(m.VRest[tri[0]], m.VRest[tri[1]], m.VRest[tri[2]])
	}
	return total
}

// ComputeFeatures rebuilds Edge2Tri, VNeighbor, TriNormal and the boundary
// classification from scratch, following F. Called once at construction and
// after any operation that invalidates adjacency by more than a local patch
// (mirrors TriMesh::computeFeatures in the original).
func (m *TriMesh) ComputeFeatures() {
	n := len(m.VRest)
	m.VNeighbor = make([]map[int]bool, n)
	for i := range m.VNeighbor {
		m.VNeighbor[i] = make(map[int]bool)
	}
	m.Edge2Tri = make(map[DirEdge]int, len(m.F)*3)
	m.TriNormal = make([]geom.Vec3, len(m.F))
	for t, tri := range m.F {
		for k := 0; k < 3; k++ {
			i, j := tri[k], tri[(k+1)%3]
			m.Edge2Tri[DirEdge{i, j}] = t
			m.VNeighbor[i][j] = true
			m.VNeighbor[j][i] = true
		}
		m.TriNormal[t] = geom.TriangleNormal3(m.VRest[tri[0]], m.VRest[tri[1]], m.VRest[tri[2]])
	}
	m.recomputeBoundary()
}

// UpdateFeatures is called after local topology edits (splits, cuts,
// merges); rather than updating incrementally it re-derives everything via
// ComputeFeatures, which is always correct and
// for the chart sizes this engine targets is cheap enough to call after
// every operation (mirrors the original's per-operation updateFeatures()
// call, which likewise refreshes the full adjacency/boundary bookkeeping).
func (m *TriMesh) UpdateFeatures() {
	m.ComputeFeatures()
}

func (m *TriMesh) recomputeBoundary() {
	m.boundaryEdge = make(map[DirEdge]bool)
	for e := range m.Edge2Tri {
		rev := DirEdge{e.V, e.U}
		if _, ok := m.Edge2Tri[rev]; !ok {
			m.boundaryEdge[e] = true
		}
	}
}

// IsBoundaryEdge reports whether directed edge (u,v) (or its reverse) has
// only one incident triangle.
func (m *TriMesh) IsBoundaryEdge(u, v int) bool {
	return m.boundaryEdge[DirEdge{u, v}] || m.boundaryEdge[DirEdge{v, u}]
}

// IsBoundaryVert reports whether v has any incident boundary edge.
func (m *TriMesh) IsBoundaryVert(v int) bool {
	for nb := range m.VNeighbor[v] {
		if m.IsBoundaryEdge(v, nb) {
			return true
		}
	}
	return false
}

// CheckInversion reports whether every triangle has strictly positive
// signed 2D area (invariant 1 of spec.md §3).
func (m *TriMesh) CheckInversion() bool {
	for _, tri := range m.F {
		if geom.SignedArea2(m.V[tri[0]], m.V[tri[1]], m.V[tri[2]]) <= 0 {
			return false
		}
	}
	return true
}

// SeamLength returns the total length (in 3D rest space) of cohesive edges,
// i.e. E_se before normalization by VirtualRadius. Each edge's contribution
// is scaled by the mean of its two endpoints' VertWeight, so seams through
// vertices loaded from a higher-weight region cost more (spec.md §3/§6).
func (m *TriMesh) SeamLength() float64 {
	total := 0.0
	for _, ce := range m.CohE {
		w := (m.VertWeight[ce.A] + m.VertWeight[ce.B]) / 2
		total += w * m.VRest[ce.A].Sub(m.VRest[ce.B]).Norm()
	}
	return total
}

// ComputeSeamSparsity returns E_se, the total cohesive-edge length
// normalized by VirtualRadius.
func (m *TriMesh) ComputeSeamSparsity() float64 {
	if m.VirtualRadius == 0 {
		return 0
	}
	return m.SeamLength() / m.VirtualRadius
}

// MinEdgeLen returns the shortest rest-space edge length over F, used by the
// outer loop's oscillation epsilon window.
func (m *TriMesh) MinEdgeLen() float64 {
	min := math.Inf(1)
	for _, tri := range m.F {
		for k := 0; k < 3; k++ {
			l := m.VRest[tri[k]].Sub(m.VRest[tri[(k+1)%3]]).Norm()
			if l < min {
				min = l
			}
		}
	}
	return min
}

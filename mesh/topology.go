package mesh

import (
	"errors"

	"github.com/dbcode/uvgami/geom"
)

var (
	// ErrNotBoundaryEdge is returned when splitEdgeOnBoundary's precondition
	// (edge on the chart boundary) is violated.
	ErrNotBoundaryEdge = errors.New("mesh: edge is not on the chart boundary")
	// ErrSplitNotApplicable is returned when a boundary vertex has too few
	// incident triangles to admit an interior-reaching split.
	ErrSplitNotApplicable = errors.New("mesh: vertex fan too small to split")
	// ErrNotInteriorPath is returned when cutPath's precondition (v1
	// interior, both edges non-boundary) is violated.
	ErrNotInteriorPath = errors.New("mesh: path is not a valid interior chain")
	// ErrNotCohesivePair is returned when mergeBoundaryEdges cannot find
	// matching cohesive-edge records for both given edges.
	ErrNotCohesivePair = errors.New("mesh: edges are not a mergeable cohesive pair")
)

// SplitEdgeOnBoundary duplicates the boundary vertex v of boundary edge
// (u,v) into two copies, positioned at newPosKeep (v's new position) and
// newPosNew (the position of the newly appended copy), splitting v's
// triangle fan near its midpoint. See spec.md §4.3.
func (m *TriMesh) SplitEdgeOnBoundary(u, v int, newPosKeep, newPosNew geom.Vec2) error {
	if !m.boundaryEdge[DirEdge{u, v}] {
		return ErrNotBoundaryEdge
	}
	w := -1
	for nb := range m.VNeighbor[v] {
		if m.boundaryEdge[DirEdge{v, nb}] {
			w = nb
			break
		}
	}
	if w == -1 || w == u {
		return ErrNotBoundaryEdge
	}

	neighbors, trisBetween, closed := m.fanOrder(v, u)
	if closed || len(neighbors) < 3 {
		return ErrSplitNotApplicable
	}
	mid := (len(neighbors) - 1) / 2
	if mid < 1 {
		mid = 1
	}
	if mid > len(neighbors)-2 {
		return ErrSplitNotApplicable
	}
	pivot := neighbors[mid]

	vNew := len(m.VRest)
	m.VRest = append(m.VRest, m.VRest[v])
	m.V = append(m.V, newPosNew)
	m.V[v] = newPosKeep
	m.VertWeight = append(m.VertWeight, m.VertWeight[v])

	for _, t := range trisBetween[mid:] {
		for k := 0; k < 3; k++ {
			if m.F[t][k] == v {
				m.F[t][k] = vNew
			}
		}
	}

	m.CohE = append(m.CohE, CohesiveEdge{A: v, B: pivot, C: vNew, D: pivot})
	m.FracTail[pivot] = true
	m.CurFracTail = pivot
	m.CurInteriorFracTails = [2]int{-1, -1}

	m.UpdateFeatures()
	return nil
}

// CutPath opens an interior slit along the chain v0-v1-v2 by duplicating
// the interior vertex v1; v0 and v2 remain shared pinch points at the ends
// of the new seam and are recorded as the current interior fracture tails.
// See spec.md §4.3.
func (m *TriMesh) CutPath(v0, v1, v2 int, newVertPos geom.Vec2) error {
	if m.IsBoundaryVert(v1) || m.IsBoundaryEdge(v0, v1) || m.IsBoundaryEdge(v1, v2) {
		return ErrNotInteriorPath
	}
	neighbors, trisBetween, closed := m.fanOrder(v1, v0)
	if !closed {
		return ErrNotInteriorPath
	}
	idx2 := -1
	for i, n := range neighbors {
		if n == v2 {
			idx2 = i
			break
		}
	}
	if idx2 <= 0 || idx2 >= len(neighbors)-1 {
		return ErrNotInteriorPath
	}

	v1New := len(m.VRest)
	m.VRest = append(m.VRest, m.VRest[v1])
	m.V = append(m.V, newVertPos)
	m.VertWeight = append(m.VertWeight, m.VertWeight[v1])

	for _, t := range trisBetween[idx2:] {
		for k := 0; k < 3; k++ {
			if m.F[t][k] == v1 {
				m.F[t][k] = v1New
			}
		}
	}

	m.CohE = append(m.CohE, CohesiveEdge{A: v1, B: v0, C: v1New, D: v0})
	m.CohE = append(m.CohE, CohesiveEdge{A: v1, B: v2, C: v1New, D: v2})
	m.FracTail[v0] = true
	m.FracTail[v2] = true
	m.CurInteriorFracTails = [2]int{v0, v2}
	m.CurFracTail = -1

	m.UpdateFeatures()
	return nil
}

// findCohesive returns the index of a cohesive-edge record whose one side
// is the unordered pair {u,v}, and the other side's pair, or ok=false.
func (m *TriMesh) findCohesive(u, v int) (idx int, otherU, otherV int, ok bool) {
	for i, ce := range m.CohE {
		if (ce.A == u && ce.B == v) || (ce.A == v && ce.B == u) {
			return i, ce.C, ce.D, true
		}
		if (ce.C == u && ce.D == v) || (ce.C == v && ce.D == u) {
			return i, ce.A, ce.B, true
		}
	}
	return -1, 0, 0, false
}

// MergeBoundaryEdges welds the two cohesive boundary edges (a,b) and (b,c)
// (sharing corner b) back together by merging b's twin vertex into b,
// removing both cohesive-edge records, and placing the welded vertex at
// newPos. See spec.md §4.3.
func (m *TriMesh) MergeBoundaryEdges(a, b, c int, newPos geom.Vec2) error {
	idx1, twinA, twinB, ok1 := m.findCohesive(a, b)
	if !ok1 {
		return ErrNotCohesivePair
	}
	idx2, twinB2, twinC, ok2 := m.findCohesive(b, c)
	if !ok2 {
		return ErrNotCohesivePair
	}

	var b2 int
	switch {
	case twinB == twinB2:
		b2 = twinB
	case twinB == twinC:
		b2 = twinB
	case twinA == twinB2:
		b2 = twinB2
	default:
		return ErrNotCohesivePair
	}

	for t, tri := range m.F {
		for k := 0; k < 3; k++ {
			if tri[k] == b2 {
				m.F[t][k] = b
			}
		}
	}
	m.V[b] = newPos

	if idx1 > idx2 {
		idx1, idx2 = idx2, idx1
	}
	m.CohE = append(m.CohE[:idx2], m.CohE[idx2+1:]...)
	m.CohE = append(m.CohE[:idx1], m.CohE[idx1+1:]...)

	delete(m.FracTail, b2)
	m.UpdateFeatures()
	return nil
}

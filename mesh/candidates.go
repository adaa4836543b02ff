package mesh

import (
	"github.com/dbcode/uvgami/distortion"
	"github.com/dbcode/uvgami/geom"
)

// CandidateKind identifies which topology primitive a Candidate applies.
type CandidateKind int

const (
	BoundarySplit CandidateKind = iota
	InteriorCut
	BoundaryMerge
)

// Candidate is a trial topology edit paired with its estimated effect on the
// two objective terms (spec.md §4.1): a more negative DeltaESD lowers
// distortion, a more negative DeltaESe shortens the seam. The dual variable
// lambda combines them into a single acceptance score elsewhere (optimize
// package), so Candidate only carries the raw pair.
type Candidate struct {
	Kind     CandidateKind
	Path     [3]int // (u,v,-1) for BoundarySplit, (v0,v1,v2) for InteriorCut/BoundaryMerge
	NewPos   []geom.Vec2
	DeltaESD float64
	DeltaESe float64
}

// TotalDistortionEnergy sums the symmetric Dirichlet energy over every face
// of m at its current UV positions, area-weighted to match the chart's own
// EnergyVal default (uniformWeight=false).
func TotalDistortionEnergy(m *TriMesh) float64 {
	total := 0.0
	for _, tri := range m.F {
		u0, u1, u2 := distortion.MapTriangleTo2D(m.VRest[tri[0]], m.VRest[tri[1]], m.VRest[tri[2]])
		total += distortion.ElemEnergy(u0, u1, u2, m.V[tri[0]], m.V[tri[1]], m.V[tri[2]], false)
	}
	return total
}

// vertexDistortion returns the largest per-triangle symmetric Dirichlet
// energy among the triangles incident to v, used by the stressThres filter
// below: a vertex only offers candidates once some triangle touching it is
// distorted enough to be worth the topology edit's cost.
func (m *TriMesh) vertexDistortion(v int) float64 {
	max := 0.0
	for _, s := range m.vertexFanSteps(v) {
		tri := m.F[s.tri]
		u0, u1, u2 := distortion.MapTriangleTo2D(m.VRest[tri[0]], m.VRest[tri[1]], m.VRest[tri[2]])
		e := distortion.ElemEnergy(u0, u1, u2, m.V[tri[0]], m.V[tri[1]], m.V[tri[2]], false)
		if e > max {
			max = e
		}
	}
	return max
}

// tryCandidate clones m, applies apply, and returns the resulting (DeltaESD,
// DeltaESe, ok) triple; ok is false if apply errored or the result inverts
// any triangle (candidates that would break local injectivity are rejected
// outright, mirroring the original's per-candidate inversion check inside
// Optimizer::createFracture).
func tryCandidate(m *TriMesh, before float64, apply func(c *TriMesh) error) (dSD, dSe float64, ok bool) {
	c := m.Clone()
	if err := apply(c); err != nil {
		return 0, 0, false
	}
	if !c.CheckInversion() {
		return 0, 0, false
	}
	return TotalDistortionEnergy(c) - before, c.SeamLength() - m.SeamLength(), true
}

// GenerateBoundarySplitCandidates tries splitting every eligible boundary
// vertex's fan, placing the new copy of the split vertex at its current UV
// position plus a fixed offset of (1e-3, 1e-3); the offset is neither scaled
// to local edge length nor oriented along the boundary. The optimizer's
// subsequent line search is responsible for moving the new vertex to its
// energy-minimizing position, so the exact trial offset only needs to expose
// whether splitting here is promising. stressThres gates candidates to
// edges whose endpoint's current distortion exceeds it (spec.md §4.3).
func GenerateBoundarySplitCandidates(m *TriMesh, stressThres float64) []Candidate {
	before := TotalDistortionEnergy(m)
	var out []Candidate
	seen := make(map[DirEdge]bool)
	for e := range m.boundaryEdge {
		if seen[e] {
			continue
		}
		seen[e] = true
		u, v := e.U, e.V
		if m.vertexDistortion(u) <= stressThres && m.vertexDistortion(v) <= stressThres {
			continue
		}
		offset := geom.Vec2{X: 1e-3, Y: 1e-3}
		dSD, dSe, ok := tryCandidate(m, before, func(c *TriMesh) error {
			keep := c.V[v]
			return c.SplitEdgeOnBoundary(u, v, keep, keep.Add(offset))
		})
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Kind:     BoundarySplit,
			Path:     [3]int{u, v, -1},
			NewPos:   []geom.Vec2{m.V[v], m.V[v].Add(offset)},
			DeltaESD: dSD,
			DeltaESe: dSe,
		})
	}
	return out
}

// GenerateInteriorCutCandidates tries cutting a path from each interior
// vertex to two of its fan neighbors. Trying every neighbor pair is
// combinatorial in the fan size, so (absent the original TriMesh.cpp's own
// candidate-selection heuristic, which was not available as reference) this
// picks the two neighbors roughly opposite each other in fan order — the
// pair most likely to bisect the fan into two comparably sized arcs.
// stressThres gates candidates the same way as GenerateBoundarySplitCandidates;
// spec.md §4.3 names boundary vertices explicitly, but the same rationale
// (skip edits where nothing incident is actually distorted) applies to
// interior vertices and merges, so the filter is applied uniformly here.
func GenerateInteriorCutCandidates(m *TriMesh, stressThres float64) []Candidate {
	before := TotalDistortionEnergy(m)
	var out []Candidate
	for v1 := range m.VRest {
		if m.IsBoundaryVert(v1) {
			continue
		}
		if m.vertexDistortion(v1) <= stressThres {
			continue
		}
		start := -1
		for nb := range m.VNeighbor[v1] {
			start = nb
			break
		}
		if start == -1 {
			continue
		}
		neighbors, _, closed := m.fanOrder(v1, start)
		if !closed || len(neighbors) < 4 {
			continue
		}
		v0 := neighbors[0]
		v2 := neighbors[len(neighbors)/2]
		offset := geom.Vec2{X: 1e-3, Y: -1e-3}
		dSD, dSe, ok := tryCandidate(m, before, func(c *TriMesh) error {
			return c.CutPath(v0, v1, v2, c.V[v1].Add(offset))
		})
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Kind:     InteriorCut,
			Path:     [3]int{v0, v1, v2},
			NewPos:   []geom.Vec2{m.V[v1].Add(offset)},
			DeltaESD: dSD,
			DeltaESe: dSe,
		})
	}
	return out
}

// GenerateMergeCandidates tries welding every pair of cohesive edges that
// share a corner vertex back together. stressThres gates candidates on the
// shared corner's distortion, same rationale as the other two generators.
func GenerateMergeCandidates(m *TriMesh, stressThres float64) []Candidate {
	before := TotalDistortionEnergy(m)
	var out []Candidate
	type pair struct{ a, b, c int }
	seen := make(map[pair]bool)
	corners := func(ce CohesiveEdge) [2]int { return [2]int{ce.A, ce.B} }
	for i, ce1 := range m.CohE {
		p1 := corners(ce1)
		for j, ce2 := range m.CohE {
			if i == j {
				continue
			}
			p2 := corners(ce2)
			var shared, a, c int
			switch {
			case p1[1] == p2[0]:
				shared, a, c = p1[1], p1[0], p2[1]
			case p1[1] == p2[1]:
				shared, a, c = p1[1], p1[0], p2[0]
			case p1[0] == p2[0]:
				shared, a, c = p1[0], p1[1], p2[1]
			case p1[0] == p2[1]:
				shared, a, c = p1[0], p1[1], p2[0]
			default:
				continue
			}
			key := pair{a, shared, c}
			if seen[key] || a == c {
				continue
			}
			if m.vertexDistortion(shared) <= stressThres {
				continue
			}
			seen[key] = true
			mid := m.V[shared]
			dSD, dSe, ok := tryCandidate(m, before, func(cl *TriMesh) error {
				return cl.MergeBoundaryEdges(a, shared, c, mid)
			})
			if !ok {
				continue
			}
			out = append(out, Candidate{
				Kind:     BoundaryMerge,
				Path:     [3]int{a, shared, c},
				NewPos:   []geom.Vec2{mid},
				DeltaESD: dSD,
				DeltaESe: dSe,
			})
		}
	}
	return out
}

// GenerateCandidates returns every candidate topology edit currently
// available on m (spec.md §4.3's "candidate generation"), restricted to
// vertices whose current per-incident-triangle distortion exceeds
// stressThres.
func GenerateCandidates(m *TriMesh, stressThres float64) []Candidate {
	var out []Candidate
	out = append(out, GenerateBoundarySplitCandidates(m, stressThres)...)
	out = append(out, GenerateInteriorCutCandidates(m, stressThres)...)
	out = append(out, GenerateMergeCandidates(m, stressThres)...)
	return out
}

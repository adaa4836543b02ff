package mesh

import (
	"testing"

	"github.com/dbcode/uvgami/geom"
)

// squareMesh returns a unit-square 3D patch triangulated into two
// triangles, with a matching (already non-inverted) UV chart.
func squareMesh() *TriMesh {
	vRest := []geom.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	f := [][3]int{
		{0, 1, 2},
		{0, 2, 3},
	}
	v := []geom.Vec2{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}
	return New(vRest, f, v, []int{0})
}

func TestNewComputesPositiveAreaAndSeam(t *testing.T) {
	m := squareMesh()
	if !m.CheckInversion() {
		t.Fatal("expected square mesh to start uninverted")
	}
	if m.SeamLength() != 0 {
		t.Fatalf("expected zero seam length before any cut, got %v", m.SeamLength())
	}
	if m.VirtualRadius <= 0 {
		t.Fatalf("expected positive virtual radius, got %v", m.VirtualRadius)
	}
}

func TestBoundaryClassification(t *testing.T) {
	m := squareMesh()
	if !m.IsBoundaryEdge(0, 1) {
		t.Error("edge (0,1) should be boundary")
	}
	if m.IsBoundaryEdge(0, 2) {
		t.Error("diagonal edge (0,2) should be interior (shared by both triangles)")
	}
	if !m.IsBoundaryVert(1) {
		t.Error("vertex 1 touches only boundary edges and should be classified boundary")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := squareMesh()
	c := m.Clone()
	c.V[0] = geom.Vec2{X: 5, Y: 5}
	if m.V[0].X == 5 {
		t.Fatal("mutating clone's V affected the original")
	}
	c.FixedVert[1] = true
	if m.FixedVert[1] {
		t.Fatal("mutating clone's FixedVert affected the original")
	}
}

func TestSplitEdgeOnBoundaryRejectsInteriorEdge(t *testing.T) {
	m := squareMesh()
	if err := m.SplitEdgeOnBoundary(0, 2, m.V[2], m.V[2]); err == nil {
		t.Fatal("expected error splitting a non-boundary edge")
	}
}

// finerMesh is a 3x3 grid of vertices (a 2x2 grid of unit quads = 8
// triangles) with one interior vertex; boundary vertices 0, 1, 3, 5, 7 and 8
// have fans of at least two triangles, which SplitEdgeOnBoundary requires.
func finerMesh() *TriMesh {
	var vRest []geom.Vec3
	var v []geom.Vec2
	idx := func(i, j int) int { return i*3 + j }
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			vRest = append(vRest, geom.Vec3{X: float64(j), Y: float64(i), Z: 0})
			v = append(v, geom.Vec2{X: float64(j), Y: float64(i)})
		}
	}
	var f [][3]int
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			a, b, c, d := idx(i, j), idx(i, j+1), idx(i+1, j+1), idx(i+1, j)
			f = append(f, [3]int{a, b, c})
			f = append(f, [3]int{a, c, d})
		}
	}
	return New(vRest, f, v, []int{idx(0, 0)})
}

func TestCutPathOpensInteriorSeam(t *testing.T) {
	m := finerMesh()
	center := 4 // idx(1,1), the sole interior vertex
	if m.IsBoundaryVert(center) {
		t.Fatal("center vertex of a 3x3 grid should be interior")
	}
	nVertsBefore := len(m.VRest)
	nbs, _, closed := m.fanOrder(center, 0)
	if !closed {
		t.Fatalf("expected closed fan around interior vertex, neighbors=%v", nbs)
	}
	v0, v2 := nbs[0], nbs[len(nbs)/2]
	if err := m.CutPath(v0, center, v2, geom.Vec2{X: 1, Y: 1.01}); err != nil {
		t.Fatalf("CutPath failed: %v", err)
	}
	if len(m.VRest) != nVertsBefore+1 {
		t.Fatalf("expected one new vertex after cutPath, got %d -> %d", nVertsBefore, len(m.VRest))
	}
	if len(m.CohE) != 2 {
		t.Fatalf("expected 2 cohesive edge records after cutPath, got %d", len(m.CohE))
	}
	if m.CurInteriorFracTails != [2]int{v0, v2} {
		t.Fatalf("expected interior fracture tails (%d,%d), got %v", v0, v2, m.CurInteriorFracTails)
	}
	if !m.CheckInversion() {
		t.Fatal("cutPath produced an inverted triangle")
	}
}

func TestCandidateGenerationOnFinerMesh(t *testing.T) {
	m := finerMesh()
	// finerMesh is a perfectly isometric flat grid, so every vertex's
	// distortion is exactly 0; use a negative stressThres so the filter
	// still lets candidates through for this zero-distortion fixture.
	cands := GenerateCandidates(m, -1)
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate on a mesh with a splittable boundary and a cuttable interior vertex")
	}
	sawSplit, sawCut := false, false
	for _, c := range cands {
		switch c.Kind {
		case BoundarySplit:
			sawSplit = true
		case InteriorCut:
			sawCut = true
		}
	}
	if !sawSplit {
		t.Error("expected at least one boundary-split candidate")
	}
	if !sawCut {
		t.Error("expected at least one interior-cut candidate")
	}
}

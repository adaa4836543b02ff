package energy

import (
	"testing"

	"github.com/dbcode/uvgami/geom"
	"github.com/dbcode/uvgami/mesh"
)

func isometricSquare() *mesh.TriMesh {
	vRest := []geom.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	f := [][3]int{{0, 1, 2}, {0, 2, 3}}
	v := []geom.Vec2{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}
	return mesh.New(vRest, f, v, []int{0})
}

func TestSymDirichletMinimalAtIsometry(t *testing.T) {
	term := &SymDirichlet{}
	m := isometricSquare()
	val := term.EnergyVal(m, true)
	// each right triangle's J is a rotation (det=1, orthonormal), so
	// ||J||_F^2 = ||J^-1||_F^2 = 2 and per-face energy is 4; two faces.
	if val < 7.99 || val > 8.01 {
		t.Fatalf("expected EnergyVal close to 8 for an isometric square chart, got %v", val)
	}
}

func TestSymDirichletGradientNearZeroAtIsometry(t *testing.T) {
	term := &SymDirichlet{}
	m := isometricSquare()
	grad := make([]float64, 2*len(m.V))
	term.Gradient(m, true, grad)
	for i, g := range grad {
		if g > 1e-3 || g < -1e-3 {
			t.Fatalf("expected near-zero gradient at isometric minimum, grad[%d]=%v", i, g)
		}
	}
}

func TestSymDirichletIncreasesUnderStretch(t *testing.T) {
	term := &SymDirichlet{}
	m := isometricSquare()
	base := term.EnergyVal(m, true)
	m.V[1] = geom.Vec2{X: 3, Y: 0}
	m.V[2] = geom.Vec2{X: 3, Y: 1}
	stretched := term.EnergyVal(m, true)
	if stretched <= base {
		t.Fatalf("expected stretching to increase distortion energy: base=%v stretched=%v", base, stretched)
	}
}

func TestRegistryLookup(t *testing.T) {
	if _, ok := New("sym-dirichlet"); !ok {
		t.Fatal("expected sym-dirichlet to be registered")
	}
	if _, ok := New("seam-length"); !ok {
		t.Fatal("expected seam-length to be registered")
	}
	if _, ok := New("does-not-exist"); ok {
		t.Fatal("expected lookup of unregistered term to fail")
	}
}

func TestSeamLengthZeroBeforeAnyCut(t *testing.T) {
	term := &SeamLength{}
	m := isometricSquare()
	if v := term.EnergyVal(m, false); v != 0 {
		t.Fatalf("expected zero seam energy before any topology edit, got %v", v)
	}
}

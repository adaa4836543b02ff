package optimize

import (
	"testing"

	"github.com/dbcode/uvgami/energy"
	"github.com/dbcode/uvgami/geom"
	"github.com/dbcode/uvgami/mesh"
)

func isometricSquare() *mesh.TriMesh {
	vRest := []geom.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
	}
	f := [][3]int{{0, 1, 2}, {0, 2, 3}}
	v := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	return mesh.New(vRest, f, v, []int{0})
}

func squareOptimizer(t *testing.T) *Optimizer {
	t.Helper()
	m := isometricSquare()
	sd, _ := energy.New("sym-dirichlet")
	o, err := New(m, []WeightedTerm{{Term: sd, Alpha: 1}}, false, true, 0, 0.999)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := o.Precompute(); err != nil {
		t.Fatalf("Precompute failed: %v", err)
	}
	return o
}

func TestNewRejectsInvertedInitialUV(t *testing.T) {
	m := isometricSquare()
	m.V[1], m.V[2] = m.V[2], m.V[1] // flip winding of one vertex pair -> inversion
	sd, _ := energy.New("sym-dirichlet")
	if _, err := New(m, []WeightedTerm{{Term: sd, Alpha: 1}}, false, true, 0, 0.999); err == nil {
		t.Fatal("expected New to reject an inverted initial UV")
	}
}

func TestTargetGResMonotoneInVertexCount(t *testing.T) {
	o := squareOptimizer(t)
	small := o.targetGRes

	vRest := append([]geom.Vec3(nil), o.Result.VRest...)
	vRest = append(vRest, geom.Vec3{X: 2, Y: 0, Z: 0})
	f := append([][3]int(nil), o.Result.F...)
	f = append(f, [3]int{1, 4, 2})
	v := append([]geom.Vec2(nil), o.Result.V...)
	v = append(v, geom.Vec2{X: 2, Y: 0})
	bigger := mesh.New(vRest, f, v, []int{0})

	sd, _ := energy.New("sym-dirichlet")
	ob, err := New(bigger, []WeightedTerm{{Term: sd, Alpha: 1}}, false, true, 0, 0.999)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := ob.Precompute(); err != nil {
		t.Fatalf("Precompute failed: %v", err)
	}
	if ob.targetGRes <= small {
		t.Fatalf("expected targetGRes to grow with |V|: small=%v bigger=%v", small, ob.targetGRes)
	}
}

func TestSolveConvergesOnAlreadyIsometricSquare(t *testing.T) {
	o := squareOptimizer(t)
	status, err := o.Solve(5)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if status != Converged {
		t.Fatalf("expected Converged on an already-isometric square, got %v", status)
	}
	if !o.Result.CheckInversion() {
		t.Fatal("result has an inverted triangle after solve")
	}
}

func TestLineSearchNeverIncreasesEnergy(t *testing.T) {
	o := squareOptimizer(t)
	o.Result.V[2] = geom.Vec2{X: 1.3, Y: 1.1} // perturb away from the minimum
	before := o.energyVal()
	o.lastEnergyVal = before
	o.gradient = o.computeGradient()
	if _, err := o.solveOneStep(); err != nil {
		t.Fatalf("solveOneStep failed: %v", err)
	}
	if o.lastEnergyVal > before {
		t.Fatalf("line search increased energy: before=%v after=%v", before, o.lastEnergyVal)
	}
}

package linsolve

import "testing"

func TestTripletToDenseSumsDuplicates(t *testing.T) {
	var tr Triplet
	tr.Init(2)
	tr.Put(0, 0, 1)
	tr.Put(0, 0, 1)
	tr.Put(1, 1, 2)
	dense := tr.ToDense()
	if dense[0] != 2 {
		t.Fatalf("expected duplicate entries at (0,0) to sum to 2, got %v", dense[0])
	}
	if dense[3] != 2 {
		t.Fatalf("expected (1,1) to be 2, got %v", dense[3])
	}
}

func TestDenseSolverSolvesIdentity(t *testing.T) {
	var s DenseSolver
	a := []float64{1, 0, 0, 1}
	if err := s.Factorize(a, 2); err != nil {
		t.Fatalf("Factorize failed on identity: %v", err)
	}
	x, err := s.Solve([]float64{3, 4})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if x[0] != 3 || x[1] != 4 {
		t.Fatalf("expected solution (3,4) for identity system, got %v", x)
	}
}

func TestDenseSolverRejectsNonSPD(t *testing.T) {
	var s DenseSolver
	a := []float64{0, 1, 1, 0}
	if err := s.Factorize(a, 2); err == nil {
		t.Fatal("expected non-SPD matrix to be rejected")
	}
}

func TestSparseSolverHonorsPattern(t *testing.T) {
	var s SparseSolver
	s.SetPattern([][2]int{{0, 0}, {1, 1}})
	var tr Triplet
	tr.Init(2)
	tr.Put(0, 0, 2)
	tr.Put(1, 1, 2)
	if err := s.FactorizeTriplet(&tr); err != nil {
		t.Fatalf("FactorizeTriplet failed: %v", err)
	}
	x, err := s.Solve([]float64{4, 6})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if x[0] != 2 || x[1] != 3 {
		t.Fatalf("expected (2,3), got %v", x)
	}
}

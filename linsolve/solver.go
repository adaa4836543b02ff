package linsolve

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrNotSPD is returned by Factorize when the assembled matrix is not
// (numerically) symmetric positive definite.
var ErrNotSPD = errors.New("linsolve: matrix is not symmetric positive definite")

// Solver mirrors la.LinSol's Init/Fact/Solve/Free lifecycle: one Solver is
// built per distinct sparsity pattern and reused across the many linear
// solves a single optimization run performs, so Factorize can be called
// repeatedly as the Hessian's values (not its pattern) change each outer
// iteration.
type Solver interface {
	// Factorize prepares the solver for a as an n x n row-major dense
	// matrix (as produced by Triplet.ToDense). The examples retrieved for
	// this project carry no pure-Go sparse Cholesky implementation, so
	// both Solver implementations here route through gonum's dense
	// Cholesky; the distinction between them is only in how the caller is
	// expected to have assembled a (see DenseSolver vs SparseSolver docs).
	Factorize(a []float64, n int) error
	// Solve computes x such that a*x = b, using the most recent
	// Factorize.
	Solve(b []float64) ([]float64, error)
}

// DenseSolver solves the global system via gonum's Cholesky factorization,
// used when the assembled system is small enough (or dense enough, e.g. once
// the scaffold's augmentation couples most vertices together) that sparsity
// offers no benefit.
type DenseSolver struct {
	n    int
	chol mat.Cholesky
}

func (s *DenseSolver) Factorize(a []float64, n int) error {
	s.n = n
	sym := mat.NewSymDense(n, append([]float64(nil), a...))
	if !s.chol.Factorize(sym) {
		return ErrNotSPD
	}
	return nil
}

func (s *DenseSolver) Solve(b []float64) ([]float64, error) {
	var x mat.VecDense
	if err := s.chol.SolveVecTo(&x, mat.NewVecDense(s.n, b)); err != nil {
		return nil, err
	}
	return x.RawVector().Data, nil
}

// SparseSolver targets the pattern-based assembly path (spec.md §4.2's
// "pattern built once from vNeighbor, values refreshed per iteration"): it
// accepts the same COO triplet entries but only keeps off-diagonal entries
// present in the declared pattern when converting to its internal dense
// n x n buffer; the factorization underneath remains the dense Cholesky
// above.
type SparseSolver struct {
	DenseSolver
	pattern map[[2]int]bool
}

// SetPattern declares which (row, col) pairs the assembled matrix may ever
// populate, built once from a TriMesh's vertex adjacency (vNeighbor) plus
// any scaffold-augmented neighbors; mirrors la.Triplet's one-time
// AnalyzePattern-equivalent sizing pass in gofem's solver setup.
func (s *SparseSolver) SetPattern(pairs [][2]int) {
	s.pattern = make(map[[2]int]bool, len(pairs))
	for _, p := range pairs {
		s.pattern[p] = true
		s.pattern[[2]int{p[1], p[0]}] = true
	}
}

// FactorizeTriplet converts t to dense form and factorizes it. When a
// pattern has been set, off-diagonal entries outside it are skipped without
// error; diagonal entries are always kept.
func (s *SparseSolver) FactorizeTriplet(t *Triplet) error {
	n := t.Size()
	dense := make([]float64, n*n)
	for k := 0; k < t.Len(); k++ {
		r, c := t.rows[k], t.cols[k]
		if s.pattern != nil && !s.pattern[[2]int{r, c}] && r != c {
			continue
		}
		dense[r*n+c] += t.vals[k]
	}
	return s.Factorize(dense, n)
}

// Package linsolve assembles and solves the global symmetric linear system
// produced by summing the energy package's per-term Hessian triplets, plus
// whatever augmentation the scaffold package adds for bijectivity. Grounded
// on gofem's la.Triplet (sparse coordinate-format accumulation passed to
// AddToKb by every element) and la.LinSol (the solver handle returned by
// la.GetSolver and driven by Init/Fact/Solve), adapted from "assemble one
// element's stiffness at a time" to "assemble one energy term's Hessian at
// a time".
package linsolve

// Triplet accumulates (row, col, value) entries in coordinate format,
// mirroring la.Triplet's Init/Put/Start/len contract.
type Triplet struct {
	rows, cols []int
	vals       []float64
	n          int
}

// Init resets t to represent an n x n matrix with no entries yet.
func (t *Triplet) Init(n int) {
	t.rows, t.cols, t.vals = t.rows[:0], t.cols[:0], t.vals[:0]
	t.n = n
}

// Put appends one (row, col, value) entry; repeated entries at the same
// (row, col) accumulate additively when the triplet is converted to a dense
// matrix, matching la.Triplet's Put semantics.
func (t *Triplet) Put(row, col int, val float64) {
	t.rows = append(t.rows, row)
	t.cols = append(t.cols, col)
	t.vals = append(t.vals, val)
}

// PutAll appends every entry of parallel (rows, cols, vals) slices.
func (t *Triplet) PutAll(rows, cols []int, vals []float64) {
	t.rows = append(t.rows, rows...)
	t.cols = append(t.cols, cols...)
	t.vals = append(t.vals, vals...)
}

// Len returns the number of accumulated entries.
func (t *Triplet) Len() int { return len(t.vals) }

// Size returns the matrix dimension n.
func (t *Triplet) Size() int { return t.n }

// ToDense materializes the accumulated entries into a row-major dense
// n*n slice, summing duplicate (row,col) contributions.
func (t *Triplet) ToDense() []float64 {
	dense := make([]float64, t.n*t.n)
	for k := range t.vals {
		dense[t.rows[k]*t.n+t.cols[k]] += t.vals[k]
	}
	return dense
}

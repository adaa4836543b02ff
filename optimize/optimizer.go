// Package optimize implements the projected-Newton inner loop that drives a
// TriMesh's UV positions toward a local minimum of the weighted energy sum,
// subject to local injectivity and (optionally) scaffold-enforced global
// bijectivity. Grounded on spec.md §4.5 and, for the overall
// precompute/solve/oneStep split and the needRefactorize policy, on
// gofem's fem.Domain + fem.Solver.Run cycle (assemble -> factorize -> solve
// -> accept, repeated per time/load step).
package optimize

import (
	"errors"

	"github.com/dbcode/uvgami/energy"
	"github.com/dbcode/uvgami/geom"
	"github.com/dbcode/uvgami/linsolve"
	"github.com/dbcode/uvgami/mesh"
	"github.com/dbcode/uvgami/scaffold"
)

// Status is solve(maxIter)'s return code (spec.md §4.5).
type Status int

const (
	MaxIterExhausted Status = 0
	Converged        Status = 1
	SnapshotPoint    Status = 2
)

// ErrFactorization is returned when the (SPD-projected) Hessian still
// fails to factorize; per spec.md §7 this is fatal and not recovered from
// by step reduction.
var ErrFactorization = errors.New("optimize: linear solver failed to factorize Hessian")

const relGL2Tol = 1e-12

// WeightedTerm pairs a registered energy term with its scalar weight alpha_i.
type WeightedTerm struct {
	Term  energy.Term
	Alpha float64
}

// Optimizer owns one TriMesh's optimization state (spec.md §4.5's
// "Optimizer state").
type Optimizer struct {
	Result *mesh.TriMesh
	Terms  []WeightedTerm

	Scaffolding       bool
	Scaffold          *scaffold.Scaffold
	Dense             bool
	PropagateFracture int
	Mute              bool
	TopoIter          int
	Lambda            float64 // current dual variable, used for scaffold weighting

	solver linsolve.Solver

	gradient      []float64
	searchDir     []float64
	lastEnergyVal float64
	lastEDec      float64
	targetGRes    float64
	globalIterNum int

	needRefactorize  bool
	fractureJustHappened bool

	AllowEDecRelTol bool
}

// New constructs an Optimizer around an already locally-injective TriMesh.
// Returns an error satisfying spec.md §7's InitialInversion if it is not.
func New(m *mesh.TriMesh, terms []WeightedTerm, scaffolding bool, dense bool, propagateFracture int, lambda float64) (*Optimizer, error) {
	if !m.CheckInversion() {
		return nil, errors.New("optimize: initial UV has an inverted triangle")
	}
	o := &Optimizer{
		Result:            m,
		Terms:             terms,
		Scaffolding:       scaffolding,
		Dense:             dense,
		PropagateFracture: propagateFracture,
		Lambda:            lambda,
		AllowEDecRelTol:   true,
	}
	return o, nil
}

func (o *Optimizer) ndof() int { return 2 * len(o.Result.V) }

// updateTargetGRes sets targetGRes = (sum alpha_i) * (|V|-|fixedVert|)/|V| * relGL2Tol.
func (o *Optimizer) updateTargetGRes() {
	sumAlpha := 0.0
	for _, wt := range o.Terms {
		sumAlpha += wt.Alpha
	}
	n := len(o.Result.V)
	free := n - len(o.Result.FixedVert)
	if n == 0 {
		o.targetGRes = 0
		return
	}
	o.targetGRes = sumAlpha * (float64(free) / float64(n)) * relGL2Tol
}

// Precompute builds the scaffold (if enabled), picks a solver, determines
// the refactorization policy, and computes the initial energy value.
func (o *Optimizer) Precompute() error {
	if o.Scaffolding {
		loop := o.Result.BoundaryLoop()
		if loop == nil {
			o.Scaffolding = false
		} else {
			o.Scaffold = scaffold.Build(o.Result, loop)
		}
	}
	if o.Dense {
		o.solver = &linsolve.DenseSolver{}
	} else {
		s := &linsolve.SparseSolver{}
		neighbors := o.Result.VNeighbor
		if o.Scaffolding {
			neighbors = o.Scaffold.MergeVNeighbor(neighbors)
		}
		s.SetPattern(adjacencyPairs(neighbors))
		o.solver = s
	}

	// Per spec.md §4.5, symmetric Dirichlet sets needRefactorize=false: its
	// Hessian is reused as a fixed Gauss-Newton-style preconditioner rather
	// than rebuilt every inner iteration. No other term is currently
	// registered that would require per-step refactorization.
	o.needRefactorize = false

	o.updateTargetGRes()
	o.lastEnergyVal = o.energyVal()

	if !o.needRefactorize {
		if err := o.factorize(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Optimizer) energyVal() float64 {
	total := 0.0
	for _, wt := range o.Terms {
		total += wt.Alpha * wt.Term.EnergyVal(o.Result, false)
	}
	if o.Scaffolding {
		w := o.Lambda * 0.01
		if len(o.Scaffold.AirMesh.F) > 0 {
			w /= float64(len(o.Scaffold.AirMesh.F))
		}
		sd := &energy.SymDirichlet{}
		total += w * sd.EnergyVal(o.Scaffold.AirMesh, true)
	}
	return total
}

// DistortionEnergyVal returns the sym-dirichlet term's own unweighted
// (alpha=1) value on o.Result, i.e. E_SD before the dual-weight Alpha is
// applied — what the outer engine loop tracks as its own eSD.
func (o *Optimizer) DistortionEnergyVal() float64 {
	sd, ok := energy.New("sym-dirichlet")
	if !ok {
		return 0
	}
	return sd.EnergyVal(o.Result, false)
}

// LastEDec returns the energy decrease from the most recent line search
// step, used as the candidate-generation stressThres (mirrors the
// original's createFracture(lastEDec, propagateFracture) call).
func (o *Optimizer) LastEDec() float64 { return o.lastEDec }

// SetDualWeight sets Lambda and, per spec.md §4.6 step 1, also sets the
// sym-dirichlet term's own Alpha to lambda: the dual variable weights the
// distortion term's energy value itself
// (energyVal = energyParams[0] * energyVal_ET[0] in Optimizer.cpp),
// not just the scaffold's coupling weight.
func (o *Optimizer) SetDualWeight(lambda float64) {
	o.Lambda = lambda
	for i := range o.Terms {
		if o.Terms[i].Term.Name() == "sym-dirichlet" {
			o.Terms[i].Alpha = lambda
		}
	}
}

// computeGradient returns g = sum alpha_i * grad(E_i) [+ scaffold contribution].
func (o *Optimizer) computeGradient() []float64 {
	n := o.ndof()
	if o.Scaffolding {
		n += 2 * len(o.Scaffold.AirMesh.V)
	}
	grad := make([]float64, n)
	for _, wt := range o.Terms {
		local := make([]float64, o.ndof())
		wt.Term.Gradient(o.Result, false, local)
		for i, g := range local {
			grad[i] += wt.Alpha * g
		}
	}
	if o.Scaffolding {
		o.Scaffold.AugmentGradient(grad, len(o.Result.V), o.Lambda)
	}
	return grad
}

func (o *Optimizer) assembleHessian() *linsolve.Triplet {
	n := o.ndof()
	if o.Scaffolding {
		n += 2 * len(o.Scaffold.AirMesh.V)
	}
	var t linsolve.Triplet
	t.Init(n)
	for _, wt := range o.Terms {
		r, c, v := wt.Term.Hessian(o.Result, false)
		for i := range v {
			t.Put(r[i], c[i], wt.Alpha*v[i])
		}
	}
	if o.Scaffolding {
		var ar, ac []int
		var av []float64
		ar, ac, av = o.Scaffold.AugmentProxyMatrix(ar, ac, av, len(o.Result.V), o.Lambda)
		t.PutAll(ar, ac, av)
	}
	return &t
}

func (o *Optimizer) factorize() error {
	t := o.assembleHessian()
	switch s := o.solver.(type) {
	case *linsolve.SparseSolver:
		if err := s.FactorizeTriplet(t); err != nil {
			return ErrFactorization
		}
	default:
		if err := o.solver.Factorize(t.ToDense(), t.Size()); err != nil {
			return ErrFactorization
		}
	}
	return nil
}

// Solve runs up to maxIter inner iterations, returning the status code
// described by spec.md §4.5.
func (o *Optimizer) Solve(maxIter int) (Status, error) {
	for iter := 0; iter < maxIter; iter++ {
		o.gradient = o.computeGradient()
		gNormSq := 0.0
		for _, g := range o.gradient {
			gNormSq += g * g
		}
		if gNormSq < o.targetGRes {
			return Converged, nil
		}

		stopped, err := o.solveOneStep()
		if err != nil {
			return MaxIterExhausted, err
		}
		if stopped {
			return Converged, nil
		}
		o.globalIterNum++

		if o.PropagateFracture > 0 {
			happened := o.attemptCreateFracture()
			if !happened && o.fractureJustHappened {
				return SnapshotPoint, nil
			}
			o.fractureJustHappened = happened
		}
	}
	return MaxIterExhausted, nil
}

// solveOneStep (re)factorizes when required, solves H*d = -g, and runs the
// line search.
func (o *Optimizer) solveOneStep() (stopped bool, err error) {
	if o.needRefactorize || o.fractureJustHappened {
		if err := o.factorize(); err != nil {
			return false, err
		}
	}
	neg := make([]float64, len(o.gradient))
	for i, g := range o.gradient {
		neg[i] = -g
	}
	d, err := o.solver.Solve(neg)
	if err != nil {
		return false, ErrFactorization
	}
	o.searchDir = d
	return o.lineSearch(), nil
}

func (o *Optimizer) chartSearchDir() []float64 {
	return o.searchDir[:o.ndof()]
}

// lineSearch implements spec.md §4.5's Armijo-style backtracking.
func (o *Optimizer) lineSearch() (stopped bool) {
	chartDir := o.chartSearchDir()

	step := 1.0
	for _, wt := range o.Terms {
		t := wt.Term.InitStepSize(o.Result, chartDir)
		if t < step {
			step = t
		}
	}
	if o.Scaffolding {
		airDir := o.Scaffold.WholeSearchDir2AirMesh(o.searchDir, len(o.Result.V))
		if t := o.Scaffold.InitStepSize(airDir); t < step {
			step = t
		}
	}
	step *= 0.99

	v0 := append([]geom.Vec2(nil), o.Result.V...)
	var airV0 []geom.Vec2
	var airDir []float64
	if o.Scaffolding {
		airV0 = append([]geom.Vec2(nil), o.Scaffold.AirMesh.V...)
		airDir = o.Scaffold.WholeSearchDir2AirMesh(o.searchDir, len(o.Result.V))
	}

	advance := func(s float64) {
		for i := range o.Result.V {
			o.Result.V[i] = v0[i].Add(geom.Vec2{X: chartDir[2*i], Y: chartDir[2*i+1]}.Scale(s))
		}
		if o.Scaffolding {
			o.Scaffold.StepForward(airV0, airDir, s)
		}
	}

	advance(step)
	newE := o.energyVal()
	for newE > o.lastEnergyVal && step > 0 {
		step *= 0.5
		advance(step)
		newE = o.energyVal()
	}
	for (!o.Result.CheckInversion() || (o.Scaffolding && !o.Scaffold.CheckInversion())) && step > 0 {
		step *= 0.5
		advance(step)
		newE = o.energyVal()
	}

	o.lastEDec = o.lastEnergyVal - newE
	o.lastEnergyVal = newE

	if o.AllowEDecRelTol && o.lastEnergyVal != 0 &&
		o.lastEDec/o.lastEnergyVal < 1e-6*step && step > 1e-3 {
		return true
	}
	return false
}

// adjacencyPairs flattens a vNeighbor adjacency into (row,col) DoF pairs
// (each vertex expands to its x,y component pair) for SparseSolver.SetPattern.
func adjacencyPairs(neighbors []map[int]bool) [][2]int {
	var pairs [][2]int
	for i, nb := range neighbors {
		for _, c := range [2]int{2 * i, 2*i + 1} {
			pairs = append(pairs, [2]int{c, c})
		}
		for j := range nb {
			for _, ci := range [2]int{2 * i, 2*i + 1} {
				for _, cj := range [2]int{2 * j, 2*j + 1} {
					pairs = append(pairs, [2]int{ci, cj})
				}
			}
		}
	}
	return pairs
}

package engine

import (
	"math"

	"github.com/dbcode/uvgami/mesh"
	"github.com/dbcode/uvgami/optimize"
	"github.com/dbcode/uvgami/ulog"
)

// Result is the final status returned by Run.
type Result struct {
	Converged bool
	Mesh      *mesh.TriMesh
	OuterIter int
}

// Engine owns the full outer-loop state for one parameterization run: the
// chart, the inner optimizer, the dual variable and its bookkeeping, and
// the cross-thread Control flags. Replaces the original's viewer globals
// and free-function-consulted energyParams (spec.md §9's "Global mutable
// state in source" design note).
type Engine struct {
	Log     *ulog.Logger
	Control Control

	Optimizer *optimize.Optimizer

	Lambda            float64
	UpperBound        float64
	ConvTolUpperBound float64
	MaxSeamWeight     float64

	stationary *stationaryTable

	iterNumBestFeasible int
	bestFeasible        *mesh.TriMesh
	eSeBestFeasible      float64
}

// New constructs an Engine around an already-built Optimizer, with the
// dual variable initialized per the -L CLI flag (spec.md §6).
func New(opt *optimize.Optimizer, initialLambda, upperBound float64, mute bool) *Engine {
	return &Engine{
		Log:               ulog.New(mute),
		Optimizer:         opt,
		Lambda:            initialLambda,
		UpperBound:        upperBound,
		ConvTolUpperBound: 0.1,
		stationary:        newStationaryTable(),
		eSeBestFeasible:   math.Inf(1),
	}
}

const maxOuterIter = 1000
const maxInnerIterPerOuterStep = 1000

// Run executes the outer dual-update loop described in spec.md §4.6 until
// convergence, cancellation (Control.ForceQuit), or maxOuterIter is hit.
func (e *Engine) Run() (Result, error) {
	for outer := 0; outer < maxOuterIter; outer++ {
		if e.Control.ForceQuit.Load() {
			if e.Control.ForceQuitSave.Load() {
				return Result{Converged: false, Mesh: e.Optimizer.Result, OuterIter: outer}, nil
			}
			return Result{Converged: false, Mesh: nil, OuterIter: outer}, nil
		}

		e.Optimizer.SetDualWeight(e.Lambda)
		if err := e.Optimizer.Precompute(); err != nil {
			return Result{}, err
		}
		if _, err := e.Optimizer.Solve(maxInnerIterPerOuterStep); err != nil {
			return Result{}, err
		}

		eSD := e.Optimizer.DistortionEnergyVal()
		eSe := e.Optimizer.Result.ComputeSeamSparsity()

		epsESe := 1e-3 * e.Optimizer.Result.MinEdgeLen() / e.Optimizer.Result.VirtualRadius
		if cfg, ok := e.stationary.lookup(eSe, epsESe); ok {
			const epsLambda = 1e-3
			if math.Abs(cfg.lambda-e.Lambda) < epsLambda && math.Abs(cfg.eSD-eSD) < epsESe {
				e.Log.Warn("oscillation detected at outer iteration %d, rolling back to best feasible", outer)
				if e.bestFeasible != nil {
					return Result{Converged: true, Mesh: e.bestFeasible, OuterIter: outer}, nil
				}
				return Result{Converged: false, Mesh: e.Optimizer.Result, OuterIter: outer}, nil
			}
		}
		e.stationary.record(eSe, stationaryConfig{lambda: e.Lambda, eSD: eSD})

		if eSD <= e.UpperBound && eSe < e.eSeBestFeasible {
			e.iterNumBestFeasible = outer
			e.bestFeasible = e.Optimizer.Result.Clone()
			e.eSeBestFeasible = eSe
		}

		updated := dualUpdate(eSD, e.Lambda, e.UpperBound, e.ConvTolUpperBound)
		e.Lambda = clampLambda(updated, e.Lambda)

		cands := mesh.GenerateCandidates(e.Optimizer.Result, e.Optimizer.LastEDec())
		if len(cands) == 0 {
			e.Log.Info("no candidate topology edits available, treating as converged")
			return e.finish(outer, eSD), nil
		}
		e.Lambda = adjustToCriticalLambda(cands, e.Lambda, eSD, e.UpperBound)

		best, bestScore, ok := bestCandidate(cands, e.Lambda)
		if !ok || bestScore >= 0 {
			return e.finish(outer, eSD), nil
		}
		if !e.applyBest(best) {
			return e.finish(outer, eSD), nil
		}

		if eSD >= e.UpperBound-e.ConvTolUpperBound && eSD <= e.UpperBound {
			return e.finish(outer, eSD), nil
		}
	}
	return Result{Converged: false, Mesh: e.Optimizer.Result, OuterIter: maxOuterIter}, nil
}

func (e *Engine) finish(outer int, eSD float64) Result {
	if eSD <= e.UpperBound {
		return Result{Converged: true, Mesh: e.Optimizer.Result, OuterIter: outer}
	}
	if e.bestFeasible != nil {
		return Result{Converged: true, Mesh: e.bestFeasible, OuterIter: outer}
	}
	return Result{Converged: false, Mesh: e.Optimizer.Result, OuterIter: outer}
}

func (e *Engine) applyBest(c mesh.Candidate) bool {
	switch c.Kind {
	case mesh.BoundarySplit:
		return e.Optimizer.Result.SplitEdgeOnBoundary(c.Path[0], c.Path[1], c.NewPos[0], c.NewPos[1]) == nil
	case mesh.InteriorCut:
		return e.Optimizer.Result.CutPath(c.Path[0], c.Path[1], c.Path[2], c.NewPos[0]) == nil
	case mesh.BoundaryMerge:
		return e.Optimizer.Result.MergeBoundaryEdges(c.Path[0], c.Path[1], c.Path[2], c.NewPos[0]) == nil
	}
	return false
}

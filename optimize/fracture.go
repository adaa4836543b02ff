package optimize

import "github.com/dbcode/uvgami/mesh"

// weightedScore combines a candidate's predicted changes into the single
// score the outer loop (and this per-iteration propagation) minimizes:
// (1-lambda)*dE_SD + lambda*dE_se (spec.md §4.3/§4.6).
func weightedScore(c mesh.Candidate, lambda float64) float64 {
	return (1-lambda)*c.DeltaESD + lambda*c.DeltaESe
}

// attemptCreateFracture generates candidate topology edits, picks the one
// with the lowest weighted score, and applies it if that score is negative
// (i.e. the edit is predicted to improve the weighted objective). Returns
// whether an edit was actually applied. Mirrors
// Optimizer::solve's per-iteration "if (propagateFracture>0) createFracture(...)"
// call, generalized from the original's stress-threshold-gated single
// candidate search to scoring every candidate mesh.GenerateCandidates
// returns.
func (o *Optimizer) attemptCreateFracture() bool {
	cands := mesh.GenerateCandidates(o.Result, o.lastEDec)
	if len(cands) == 0 {
		return false
	}
	best := cands[0]
	bestScore := weightedScore(best, o.Lambda)
	for _, c := range cands[1:] {
		if s := weightedScore(c, o.Lambda); s < bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore >= 0 {
		return false
	}
	if !o.applyCandidate(best) {
		return false
	}
	if o.Scaffolding {
		loop := o.Result.BoundaryLoop()
		if loop != nil {
			o.Scaffold.Rebuild(o.Result, loop)
		}
	}
	o.fractureJustHappened = true
	return true
}

func (o *Optimizer) applyCandidate(c mesh.Candidate) bool {
	switch c.Kind {
	case mesh.BoundarySplit:
		return o.Result.SplitEdgeOnBoundary(c.Path[0], c.Path[1], c.NewPos[0], c.NewPos[1]) == nil
	case mesh.InteriorCut:
		return o.Result.CutPath(c.Path[0], c.Path[1], c.Path[2], c.NewPos[0]) == nil
	case mesh.BoundaryMerge:
		return o.Result.MergeBoundaryEdges(c.Path[0], c.Path[1], c.Path[2], c.NewPos[0]) == nil
	}
	return false
}

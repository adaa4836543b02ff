package engine

import "github.com/dbcode/uvgami/mesh"

func bestCandidate(cands []mesh.Candidate, lambda float64) (best mesh.Candidate, bestScore float64, ok bool) {
	if len(cands) == 0 {
		return mesh.Candidate{}, 0, false
	}
	best = cands[0]
	bestScore = (1-lambda)*best.DeltaESD + lambda*best.DeltaESe
	for _, c := range cands[1:] {
		s := (1-lambda)*c.DeltaESD + lambda*c.DeltaESe
		if s < bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore, true
}

// adjustToCriticalLambda implements spec.md §4.6 step 5: nudge lambda until
// the candidate kind minimizing the weighted score switches between split
// (boundary or interior) and merge, favoring splits when distortion is
// still above the upper bound (progress needs less distortion) and merges
// once it is within bounds (progress needs less seam). The retrieved
// reference sources do not carry the original's exact critical-lambda
// derivation, so this walks lambda toward the favored direction in bounded
// fractional steps until the argmin candidate's kind matches, or gives up
// after maxSteps (returning whatever lambda it reached).
func adjustToCriticalLambda(cands []mesh.Candidate, lambda, eSD, upperBound float64) float64 {
	wantSplit := eSD > upperBound
	const maxSteps = 50
	for step := 0; step < maxSteps; step++ {
		best, _, ok := bestCandidate(cands, lambda)
		if !ok {
			return lambda
		}
		isMerge := best.Kind == mesh.BoundaryMerge
		if wantSplit && !isMerge {
			return lambda
		}
		if !wantSplit && isMerge {
			return lambda
		}
		if wantSplit {
			lambda -= (lambda - 1e-3) * 0.1
		} else {
			lambda += (1 - 1e-3 - lambda) * 0.1
		}
	}
	return lambda
}

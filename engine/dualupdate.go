package engine

import "math"

// dualUpdate implements spec.md §4.6's step 4: given the current distortion
// measure E_SD and dual variable lambda, returns the updated lambda before
// clamping.
//
//	lambda' = max(0, kappa*(E_SD-(U-tau/2)) + kappa*lambda/(1-lambda))
//	lambda_new = lambda'/(1+lambda')
//
// with kappa=1, U=upperBound, tau=convTolUpperBound.
func dualUpdate(eSD, lambda, upperBound, convTolUpperBound float64) float64 {
	const kappa = 1.0
	lp := kappa*(eSD-(upperBound-convTolUpperBound/2)) + kappa*lambda/(1-lambda)
	if lp < 0 {
		lp = 0
	}
	return lp / (1 + lp)
}

// clampLambda enforces spec.md §4.6's "clamp lambda into [eps_lambda,
// 1-eps_lambda] where eps_lambda = min(1e-3, |dualUpdate-lambda|)".
func clampLambda(updated, previous float64) float64 {
	epsLambda := math.Abs(updated - previous)
	if epsLambda > 1e-3 {
		epsLambda = 1e-3
	}
	if updated < epsLambda {
		updated = epsLambda
	}
	if updated > 1-epsLambda {
		updated = 1 - epsLambda
	}
	return updated
}

// stationaryConfig is one entry of configs_stationaryV: the (lambda, E_SD)
// pair observed the last time the outer loop reached a given seam energy.
type stationaryConfig struct {
	lambda float64
	eSD    float64
}

// stationaryTable is an epsilon-windowed lookup keyed by seam energy
// (configs_stationaryV in spec.md §4.6), implemented as a linear scan with
// an epsilon tolerance (spec.md §9 allows either a sorted-map
// lower_bound scheme or explicit epsilon-bucketing; a scan is equivalent in
// behavior and the outer loop's per-step config count is always small).
type stationaryTable struct {
	entries map[float64]stationaryConfig
}

func newStationaryTable() *stationaryTable {
	return &stationaryTable{entries: make(map[float64]stationaryConfig)}
}

// lookup returns the nearest entry within eps of eSe, or ok=false.
func (t *stationaryTable) lookup(eSe, eps float64) (cfg stationaryConfig, ok bool) {
	best := math.Inf(1)
	for key, c := range t.entries {
		d := math.Abs(key - eSe)
		if d <= eps && d < best {
			best, cfg, ok = d, c, true
		}
	}
	return
}

func (t *stationaryTable) record(eSe float64, cfg stationaryConfig) {
	t.entries[eSe] = cfg
}

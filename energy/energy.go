// Package energy implements the objective terms assembled over a whole
// TriMesh: the symmetric Dirichlet distortion term and the seam-length
// term, plus a registry so additional distortion measures can be added
// without the optimizer package knowing their concrete type. Grounded on
// msolid's Model interface + allocators/GetModel registry idiom
// (github.com/cpmech/gosl-derived msolid.Model, msolid.GetModel) and on
// engine/src/Energy/Energy.hpp's EnergyVal/Gradient/Hessian/InitStepSize
// contract.
package energy

import (
	"log"

	"github.com/dbcode/uvgami/mesh"
	"gonum.org/v1/gonum/mat"
)

// Term is one assembled objective term over a whole mesh: the symmetric
// Dirichlet distortion energy, the seam-length term, or any future addition
// registered under a name (mirrors msolid.Model's role for constitutive
// models, generalized from per-Gauss-point stress update to per-triangle
// energy/gradient/Hessian).
type Term interface {
	// Name identifies the term for logging and registry lookup.
	Name() string
	// EnergyVal returns the term's scalar value on m at its current V.
	// uniformWeight substitutes an equal per-triangle weight; false (the
	// chart's own default) weights each triangle by its rest-space area.
	EnergyVal(m *mesh.TriMesh, uniformWeight bool) float64
	// EnergyValPerElem returns the term's value broken down per face.
	EnergyValPerElem(m *mesh.TriMesh, uniformWeight bool) []float64
	// Gradient accumulates d(term)/d(V) into grad, indexed by
	// 2*vertexIndex+{0,1}; grad must already be sized 2*len(m.V).
	Gradient(m *mesh.TriMesh, uniformWeight bool, grad []float64)
	// Hessian returns (row, col, value) triplets of d^2(term)/d(V)^2,
	// projected to the SPD cone per-element where applicable.
	Hessian(m *mesh.TriMesh, uniformWeight bool) (rows, cols []int, vals []float64)
	// InitStepSize returns the largest step along searchDir (same layout
	// as Gradient) that keeps every triangle the term cares about at
	// strictly positive signed area. Purely geometric: unaffected by
	// uniformWeight, which only scales energy magnitude, not where a
	// triangle degenerates.
	InitStepSize(m *mesh.TriMesh, searchDir []float64) float64
}

// allocators holds all registered term constructors; name -> allocator.
var allocators = map[string]func() Term{}

// Register makes a term constructor available under name. Call from an
// init() in the defining file, mirroring msolid's per-model
// allocators["..."] = ... registrations.
func Register(name string, alloc func() Term) {
	allocators[name] = alloc
}

// New returns a freshly allocated term registered under name, or
// ok=false if no such term was registered.
func New(name string) (term Term, ok bool) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, false
	}
	return alloc(), true
}

// LogTerms prints the names of every registered term.
func LogTerms() {
	l := "energy: available terms:"
	for name := range allocators {
		l += " " + name
	}
	log.Println(l)
}

// SumEnergyVals totals every term's EnergyVal on m.
func SumEnergyVals(m *mesh.TriMesh, terms []Term, uniformWeight bool) float64 {
	total := 0.0
	for _, t := range terms {
		total += t.EnergyVal(m, uniformWeight)
	}
	return total
}

// SumGradients accumulates every term's gradient into a single buffer sized
// 2*len(m.V).
func SumGradients(m *mesh.TriMesh, terms []Term, uniformWeight bool) []float64 {
	grad := make([]float64, 2*len(m.V))
	for _, t := range terms {
		t.Gradient(m, uniformWeight, grad)
	}
	return grad
}

// SumHessianTriplets concatenates every term's Hessian triplets.
func SumHessianTriplets(m *mesh.TriMesh, terms []Term, uniformWeight bool) (rows, cols []int, vals []float64) {
	for _, t := range terms {
		r, c, v := t.Hessian(m, uniformWeight)
		rows = append(rows, r...)
		cols = append(cols, c...)
		vals = append(vals, v...)
	}
	return
}

// denseFromTriplets is a small helper used by term implementations that
// build a local dense block before scattering it; kept here so every term
// shares the same scatter convention (global row = 2*vert+component).
func denseFromTriplets(vertIdx [3]int, local *mat.SymDense) (rows, cols []int, vals []float64) {
	n, _ := local.Dims()
	gidx := make([]int, n)
	for k := 0; k < n/2; k++ {
		gidx[2*k] = 2 * vertIdx[k]
		gidx[2*k+1] = 2*vertIdx[k] + 1
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := local.At(i, j)
			if v == 0 {
				continue
			}
			rows = append(rows, gidx[i])
			cols = append(cols, gidx[j])
			vals = append(vals, v)
			if i != j {
				rows = append(rows, gidx[j])
				cols = append(cols, gidx[i])
				vals = append(vals, v)
			}
		}
	}
	return
}

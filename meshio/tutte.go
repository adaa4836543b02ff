package meshio

import (
	"math"
	"sort"

	"github.com/dbcode/uvgami/geom"
)

// checkManifold verifies the triangle-soup (F, nv) satisfies: every edge is
// used by at most two oriented triangles in opposite directions (manifold
// edges), and every vertex's incident triangles form a single fan (manifold
// vertices). It returns the boundary loop's ordered vertex sequence (the
// disk case used by TutteEmbed) on success.
func checkManifold(f [][3]int, nv int) (boundary []int, err error) {
	type dirEdge struct{ u, v int }
	count := map[dirEdge]int{}
	for _, tri := range f {
		for k := 0; k < 3; k++ {
			count[dirEdge{tri[k], tri[(k+1)%3]}]++
		}
	}
	for e, c := range count {
		if c > 1 {
			return nil, ErrNonManifoldEdges
		}
		rev := dirEdge{e.v, e.u}
		if count[rev] > 1 {
			return nil, ErrNonManifoldEdges
		}
	}

	boundaryNext := map[int]int{}
	for e, c := range count {
		if c != 1 {
			continue
		}
		if _, hasRev := count[dirEdge{e.v, e.u}]; hasRev {
			continue
		}
		if _, dup := boundaryNext[e.u]; dup {
			return nil, ErrNonManifoldVertices
		}
		boundaryNext[e.u] = e.v
	}
	if len(boundaryNext) == 0 {
		return nil, nil // closed surface, no boundary to walk
	}
	start := -1
	for u := range boundaryNext {
		start = u
		break
	}
	loop := []int{start}
	cur := boundaryNext[start]
	for cur != start {
		loop = append(loop, cur)
		next, ok := boundaryNext[cur]
		if !ok {
			return nil, ErrNonManifoldVertices
		}
		cur = next
		if len(loop) > len(boundaryNext) {
			return nil, ErrNonManifoldVertices
		}
	}
	return loop, nil
}

// TutteEmbed computes a Tutte (uniform-weight harmonic) embedding of a disk
// mesh: the boundary loop is mapped to a circle, interior vertices solved
// via Gauss-Seidel relaxation of the uniform graph Laplacian (every
// neighbor weighted equally), iterating until the maximum per-vertex move
// falls below tol or maxIter is reached. This is the fallback chart used
// whenever the input carries no usable UV map (spec.md §6).
func TutteEmbed(vRest []geom.Vec3, f [][3]int) ([]geom.Vec2, error) {
	boundary, err := checkManifold(f, len(vRest))
	if err != nil {
		return nil, err
	}
	if boundary == nil {
		return nil, ErrInvalidUV
	}

	neighbors := make([]map[int]bool, len(vRest))
	for i := range neighbors {
		neighbors[i] = make(map[int]bool)
	}
	for _, tri := range f {
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			neighbors[a][b] = true
			neighbors[b][a] = true
		}
	}

	isBoundary := make([]bool, len(vRest))
	uv := make([]geom.Vec2, len(vRest))
	n := len(boundary)
	for i, bv := range boundary {
		isBoundary[bv] = true
		theta := 2 * math.Pi * float64(i) / float64(n)
		uv[bv] = geom.Vec2{X: math.Cos(theta), Y: math.Sin(theta)}
	}

	interior := make([]int, 0, len(vRest)-n)
	for v := 0; v < len(vRest); v++ {
		if !isBoundary[v] {
			interior = append(interior, v)
		}
	}
	sort.Ints(interior)

	const maxIter = 10000
	const tol = 1e-10
	for iter := 0; iter < maxIter; iter++ {
		maxMove := 0.0
		for _, v := range interior {
			sum := geom.Vec2{}
			deg := 0
			for nb := range neighbors[v] {
				sum = sum.Add(uv[nb])
				deg++
			}
			if deg == 0 {
				continue
			}
			avg := sum.Scale(1.0 / float64(deg))
			move := avg.Sub(uv[v]).Norm()
			if move > maxMove {
				maxMove = move
			}
			uv[v] = avg
		}
		if maxMove < tol {
			break
		}
	}
	return uv, nil
}

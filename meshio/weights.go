package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadSeamWeights parses the regional weights file: a single CSV line of
// (vertexIndex, normalizedWeight in [0,1]) pairs (spec.md §6). Entries for
// vertices not mentioned default to 0 (i.e. vertWeight 1, no amplification).
func ReadSeamWeights(r io.Reader, nv int) ([]float64, error) {
	w := make([]float64, nv)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	if !sc.Scan() {
		return w, nil
	}
	fields := strings.Split(strings.TrimSpace(sc.Text()), ",")
	if len(fields) < 2 {
		return w, nil
	}
	for i := 0; i+1 < len(fields); i += 2 {
		idx, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return nil, fmt.Errorf("meshio: malformed weights entry %q: %v", fields[i], err)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return nil, fmt.Errorf("meshio: malformed weights entry %q: %v", fields[i+1], err)
		}
		if idx < 0 || idx >= nv {
			continue
		}
		w[idx] = val
	}
	return w, nil
}

// ApplySeamWeights sets vertWeight[idx] = 1 + w*(maxSeamWeight-1) for every
// normalized weight produced by ReadSeamWeights.
func ApplySeamWeights(normalized []float64, maxSeamWeight float64) []float64 {
	out := make([]float64, len(normalized))
	for i, w := range normalized {
		out[i] = 1 + w*(maxSeamWeight-1)
	}
	return out
}

// SmoothVertWeights applies one step of Laplacian diffusion over vNeighbor,
// averaging each vertex's weight with its neighbors' (spec.md §6: "the
// field is then smoothed by one step of Laplacian diffusion over
// vNeighbor").
func SmoothVertWeights(w []float64, neighbors []map[int]bool) []float64 {
	out := make([]float64, len(w))
	copy(out, w)
	for v, nb := range neighbors {
		if len(nb) == 0 {
			continue
		}
		sum := w[v]
		for n := range nb {
			sum += w[n]
		}
		out[v] = sum / float64(len(nb)+1)
	}
	return out
}

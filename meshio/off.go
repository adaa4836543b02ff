// Package meshio reads and writes the OFF/OBJ mesh formats described in
// spec.md §6, computes an initial Tutte/harmonic UV chart when none is
// usable, and loads the optional regional seam-weights file. Grounded on
// gofem's inp package (file IO for simulation input) for the overall
// "read lines, validate, build in-memory struct" shape, adapted from JSON
// simulation files to geometry file formats.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dbcode/uvgami/geom"
)

// RawMesh is the plain triangle-soup form read from disk, before
// mesh.New's adjacency computation and manifold validation.
type RawMesh struct {
	VRest []geom.Vec3
	F     [][3]int
	UV    []geom.Vec2 // nil if the file carried no UV map
}

// ReadOFF parses the Object File Format: a header line "OFF", a counts line
// "nverts nfaces nedges", nverts vertex lines, then nfaces face lines of
// the form "3 i j k".
func ReadOFF(r io.Reader) (*RawMesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<20)

	readLine := func() (string, bool) {
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return line, true
		}
		return "", false
	}

	header, ok := readLine()
	if !ok || !strings.HasPrefix(header, "OFF") {
		return nil, fmt.Errorf("%w: missing OFF header", ErrUnknownFormat)
	}

	countsLine := strings.TrimSpace(strings.TrimPrefix(header, "OFF"))
	if countsLine == "" {
		countsLine, ok = readLine()
		if !ok {
			return nil, fmt.Errorf("%w: missing counts line", ErrFailedToLoadMesh)
		}
	}
	counts := strings.Fields(countsLine)
	if len(counts) < 2 {
		return nil, fmt.Errorf("%w: malformed counts line %q", ErrFailedToLoadMesh, countsLine)
	}
	nv, err := strconv.Atoi(counts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadMesh, err)
	}
	nf, err := strconv.Atoi(counts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadMesh, err)
	}

	m := &RawMesh{VRest: make([]geom.Vec3, 0, nv), F: make([][3]int, 0, nf)}
	for i := 0; i < nv; i++ {
		line, ok := readLine()
		if !ok {
			return nil, fmt.Errorf("%w: expected %d vertices, got %d", ErrFailedToLoadMesh, nv, i)
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: malformed vertex line %q", ErrFailedToLoadMesh, line)
		}
		x, _ := strconv.ParseFloat(fields[0], 64)
		y, _ := strconv.ParseFloat(fields[1], 64)
		z, _ := strconv.ParseFloat(fields[2], 64)
		m.VRest = append(m.VRest, geom.Vec3{X: x, Y: y, Z: z})
	}
	for i := 0; i < nf; i++ {
		line, ok := readLine()
		if !ok {
			return nil, fmt.Errorf("%w: expected %d faces, got %d", ErrFailedToLoadMesh, nf, i)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: malformed face line %q", ErrFailedToLoadMesh, line)
		}
		n, _ := strconv.Atoi(fields[0])
		if n != 3 {
			return nil, fmt.Errorf("%w: only triangles are supported, got %d-gon", ErrFailedToLoadMesh, n)
		}
		a, _ := strconv.Atoi(fields[1])
		b, _ := strconv.Atoi(fields[2])
		c, _ := strconv.Atoi(fields[3])
		m.F = append(m.F, [3]int{a, b, c})
	}
	return m, nil
}

// WriteOFF writes m in the OFF format (no UV; OFF carries no texture
// coordinates, matching spec.md §6's "Output mesh: OBJ with the final UV
// map" — OFF output exists only for round-tripping geometry-only meshes).
func WriteOFF(w io.Writer, m *RawMesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "OFF")
	fmt.Fprintf(bw, "%d %d 0\n", len(m.VRest), len(m.F))
	for _, v := range m.VRest {
		fmt.Fprintf(bw, "%.17g %.17g %.17g\n", v.X, v.Y, v.Z)
	}
	for _, f := range m.F {
		fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2])
	}
	return bw.Flush()
}

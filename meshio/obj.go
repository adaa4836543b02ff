package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dbcode/uvgami/geom"
)

// ReadOBJ parses a minimal Wavefront OBJ: "v x y z" vertices, "vt u v"
// texture coordinates, and "f a/ta b/tb c/tc" (or "f a b c" with no UVs)
// triangle faces. Only what spec.md §6 requires is supported: triangles,
// one UV per face-vertex reference.
func ReadOBJ(r io.Reader) (*RawMesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<20)

	m := &RawMesh{}
	var vt []geom.Vec2
	haveUV := false
	uvPerVertex := map[int]geom.Vec2{}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: malformed vertex line %q", ErrFailedToLoadMesh, line)
			}
			x, _ := strconv.ParseFloat(fields[1], 64)
			y, _ := strconv.ParseFloat(fields[2], 64)
			z, _ := strconv.ParseFloat(fields[3], 64)
			m.VRest = append(m.VRest, geom.Vec3{X: x, Y: y, Z: z})
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: malformed texcoord line %q", ErrFailedToLoadMesh, line)
			}
			u, _ := strconv.ParseFloat(fields[1], 64)
			v, _ := strconv.ParseFloat(fields[2], 64)
			vt = append(vt, geom.Vec2{X: u, Y: v})
			haveUV = true
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: only triangular faces are supported: %q", ErrFailedToLoadMesh, line)
			}
			var tri [3]int
			for k := 0; k < 3; k++ {
				parts := strings.Split(fields[k+1], "/")
				vi, err := strconv.Atoi(parts[0])
				if err != nil {
					return nil, fmt.Errorf("%w: malformed face reference %q", ErrFailedToLoadMesh, fields[k+1])
				}
				vi--
				tri[k] = vi
				if len(parts) > 1 && parts[1] != "" {
					ti, err := strconv.Atoi(parts[1])
					if err == nil {
						ti--
						if ti >= 0 && ti < len(vt) {
							uvPerVertex[vi] = vt[ti]
						}
					}
				}
			}
			m.F = append(m.F, tri)
		}
	}

	if haveUV {
		m.UV = make([]geom.Vec2, len(m.VRest))
		for i := range m.UV {
			m.UV[i] = uvPerVertex[i]
		}
	}
	return m, nil
}

// WriteOBJ writes m with its UV map (one "vt" per vertex, faces referencing
// matching position/texcoord indices), per spec.md §6's output contract.
func WriteOBJ(w io.Writer, m *RawMesh) error {
	if m.UV == nil {
		return fmt.Errorf("meshio: WriteOBJ requires a UV map")
	}
	bw := bufio.NewWriter(w)
	for _, v := range m.VRest {
		fmt.Fprintf(bw, "v %.17g %.17g %.17g\n", v.X, v.Y, v.Z)
	}
	for _, uv := range m.UV {
		fmt.Fprintf(bw, "vt %.17g %.17g\n", uv.X, uv.Y)
	}
	for _, f := range m.F {
		fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", f[0]+1, f[0]+1, f[1]+1, f[1]+1, f[2]+1, f[2]+1)
	}
	return bw.Flush()
}

// Command uvgami runs the automatic UV-parameterization engine end to end:
// load a mesh, build (or fall back to) an initial chart, run the
// dual-update / topology-evolution loop, and write the result. Grounded on
// gofem's cmd/gofem main.go: parse flags into a config struct, build the
// domain, run, map errors to process exit codes.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dbcode/uvgami/config"
	"github.com/dbcode/uvgami/energy"
	"github.com/dbcode/uvgami/engine"
	"github.com/dbcode/uvgami/mesh"
	"github.com/dbcode/uvgami/meshio"
	"github.com/dbcode/uvgami/optimize"
	"github.com/dbcode/uvgami/ulog"
)

// Exit codes, matching spec.md §6's UVGAMI_RC_* taxonomy.
const (
	rcOK                   = 0
	rcUnknownMeshFormat    = 1
	rcFailedToLoadMesh     = 2
	rcNonManifoldVertices  = 3
	rcNonManifoldEdges     = 4
	rcInvalidUV            = 5
	rcElementInversion     = 6
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rcFailedToLoadMesh
	}
	log := ulog.New(cfg.Mode == config.ModeHeadless)

	raw, err := loadMesh(cfg.InputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}

	uv := raw.UV
	if cfg.IgnoreInputUV || uv == nil || !locallyInjective(raw) {
		tutte, err := meshio.TutteEmbed(raw.VRest, raw.F)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeFor(err)
		}
		uv = tutte
	}

	m := mesh.New(raw.VRest, raw.F, uv, nil)
	if !m.CheckInversion() {
		fmt.Fprintln(os.Stderr, "uvgami: initial UV has an inverted triangle")
		return rcElementInversion
	}

	if err := applyRegionalWeights(m, cfg.InputPath, cfg.MaxSeamWeight); err != nil {
		log.Warn("could not load regional weights: %v", err)
	}

	sd, _ := energy.New("sym-dirichlet")
	// Alpha starts at 1 as a placeholder only: Engine.Run calls
	// SetDualWeight(e.Lambda) before the first Precompute, which overwrites
	// this term's Alpha to the real initial lambda.
	opt, err := optimize.New(m, []optimize.WeightedTerm{{Term: sd, Alpha: 1}}, true, len(m.V) < 2000, 1, cfg.InitialLambda)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rcElementInversion
	}

	eng := engine.New(opt, cfg.InitialLambda, cfg.UpperBound, cfg.Mode == config.ModeHeadless)
	if cfg.Mode == config.ModeInteractive {
		eng.Control.Commands(os.Stdin)
	}

	res, err := eng.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rcElementInversion
	}
	if res.Mesh == nil {
		return rcOK // cancelled without save
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rcFailedToLoadMesh
	}
	outPath := filepath.Join(cfg.OutputDir, strings.TrimSuffix(filepath.Base(cfg.InputPath), filepath.Ext(cfg.InputPath))+"_uv.obj")
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rcFailedToLoadMesh
	}
	defer f.Close()
	if err := meshio.WriteOBJ(f, &meshio.RawMesh{VRest: res.Mesh.VRest, F: res.Mesh.F, UV: res.Mesh.V}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rcFailedToLoadMesh
	}
	log.Success("wrote %s (%d outer iterations)", outPath, res.OuterIter)
	return rcOK
}

func loadMesh(path string) (*meshio.RawMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", meshio.ErrFailedToLoadMesh, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".off":
		return meshio.ReadOFF(f)
	case ".obj":
		return meshio.ReadOBJ(f)
	default:
		return nil, meshio.ErrUnknownFormat
	}
}

func locallyInjective(raw *meshio.RawMesh) bool {
	if raw.UV == nil {
		return false
	}
	for _, tri := range raw.F {
		a, b, c := raw.UV[tri[0]], raw.UV[tri[1]], raw.UV[tri[2]]
		area := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		if area <= 0 {
			return false
		}
	}
	return true
}

func applyRegionalWeights(m *mesh.TriMesh, meshPath string, maxSeamWeight float64) error {
	dir, base := filepath.Split(meshPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	wpath := filepath.Join(dir, name+"_weights")
	f, err := os.Open(wpath)
	if err != nil {
		return nil // absent weights file is not an error
	}
	defer f.Close()

	normalized, err := meshio.ReadSeamWeights(f, len(m.VRest))
	if err != nil {
		return err
	}
	w := meshio.ApplySeamWeights(normalized, maxSeamWeight)
	w = meshio.SmoothVertWeights(w, m.VNeighbor)
	copy(m.VertWeight, w)
	return nil
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, meshio.ErrUnknownFormat):
		return rcUnknownMeshFormat
	case errors.Is(err, meshio.ErrNonManifoldVertices):
		return rcNonManifoldVertices
	case errors.Is(err, meshio.ErrNonManifoldEdges):
		return rcNonManifoldEdges
	case errors.Is(err, meshio.ErrInvalidUV):
		return rcInvalidUV
	default:
		return rcFailedToLoadMesh
	}
}

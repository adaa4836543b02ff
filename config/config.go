// Package config holds one run's configuration, parsed from the CLI flags
// described in spec.md §6. Grounded on gofem's inp.Data/inp.Simulation
// (a single struct holding every run-wide option, built once at startup and
// passed down by reference) though, unlike inp.Simulation, this run config
// is built from flags rather than a JSON file since the engine has no
// multi-stage simulation file format to parse.
package config

import (
	"flag"
	"fmt"
)

// Mode is the `-p` CLI flag's run mode.
type Mode int

const (
	ModeInteractive Mode = 10
	ModeHeadless    Mode = 100
)

// RunConfig mirrors the CLI surface of spec.md §6.
type RunConfig struct {
	Mode           Mode    // -p: 10 interactive, 100 headless
	InputPath      string  // -i: input mesh path
	OutputDir      string  // -o: output directory
	InitialLambda  float64 // -L: initial dual variable (default 0.999)
	UpperBound     float64 // -u: distortion upper bound (default 4.1)
	MaxSeamWeight  float64 // -s: max seam weight (default 100)
	IgnoreInputUV  bool    // -g: ignore input UV, force Tutte
	Mute           bool    // suppress progress logging
}

// Default returns the CLI's documented defaults.
func Default() RunConfig {
	return RunConfig{
		Mode:          ModeHeadless,
		InitialLambda: 0.999,
		UpperBound:    4.1,
		MaxSeamWeight: 100,
	}
}

// Parse populates a RunConfig from args (typically os.Args[1:]), applying
// spec.md §6's flag semantics: an out-of-range -L falls back to the default
// rather than erroring, since the original treats it as "ignored if not in
// [0,1)".
func Parse(args []string) (RunConfig, error) {
	cfg := Default()
	fs := flag.NewFlagSet("uvgami", flag.ContinueOnError)

	mode := fs.Int("p", int(ModeHeadless), "run mode: 10 interactive, 100 headless")
	fs.StringVar(&cfg.InputPath, "i", "", "input mesh path")
	fs.StringVar(&cfg.OutputDir, "o", "", "output directory")
	fs.Float64Var(&cfg.InitialLambda, "L", cfg.InitialLambda, "initial dual variable lambda")
	fs.Float64Var(&cfg.UpperBound, "u", cfg.UpperBound, "distortion upper bound")
	fs.Float64Var(&cfg.MaxSeamWeight, "s", cfg.MaxSeamWeight, "maximum seam weight")
	fs.BoolVar(&cfg.IgnoreInputUV, "g", false, "ignore input UV map, start from Tutte embedding")

	if err := fs.Parse(args); err != nil {
		return RunConfig{}, err
	}
	cfg.Mode = Mode(*mode)

	if cfg.InitialLambda < 0 || cfg.InitialLambda >= 1 {
		cfg.InitialLambda = Default().InitialLambda
	}
	if cfg.InputPath == "" {
		return RunConfig{}, fmt.Errorf("config: -i input mesh path is required")
	}
	if cfg.OutputDir == "" {
		return RunConfig{}, fmt.Errorf("config: -o output directory is required")
	}
	return cfg, nil
}

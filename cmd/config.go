package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/tower-sim/sim"
	"github.com/inference-sim/tower-sim/sim/trace"
)

// FileConfig represents the full run configuration YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type FileConfig struct {
	Input         string         `yaml:"input"`   // jet pattern file, relative to the working directory
	Targets       []int64        `yaml:"targets"` // object counts, each simulated independently
	Chamber       ChamberSection `yaml:"chamber"`
	Shapes        []ShapeSection `yaml:"shapes"` // replaces the default catalog when non-empty
	DetectCycles  *bool          `yaml:"detect_cycles"`
	ConfirmCycles *bool          `yaml:"confirm_cycles"`
	Trace         string         `yaml:"trace"`
	Parallel      int            `yaml:"parallel"`
}

// ChamberSection holds chamber geometry. Nil fields keep the defaults.
type ChamberSection struct {
	Width    *int `yaml:"width"`
	SpawnX   *int `yaml:"spawn_x"`
	SpawnGap *int `yaml:"spawn_gap"`
}

// ShapeSection describes one catalog shape as a picture, top row first.
type ShapeSection struct {
	Name string   `yaml:"name"`
	Rows []string `yaml:"rows"`
}

// LoadFileConfig parses a run configuration file.
// Uses strict field checking: typos must cause errors.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg FileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return &cfg, nil
}

// Apply overlays the file's settings onto base and returns the result.
func (fc *FileConfig) Apply(base sim.SimConfig) (sim.SimConfig, error) {
	out := base
	if fc.Chamber.Width != nil {
		out.Chamber.Width = *fc.Chamber.Width
	}
	if fc.Chamber.SpawnX != nil {
		out.Chamber.SpawnX = *fc.Chamber.SpawnX
	}
	if fc.Chamber.SpawnGap != nil {
		out.Chamber.SpawnGap = *fc.Chamber.SpawnGap
	}
	if len(fc.Shapes) > 0 {
		catalog := make([]sim.Shape, 0, len(fc.Shapes))
		for i, s := range fc.Shapes {
			name := s.Name
			if name == "" {
				name = fmt.Sprintf("shape%d", i)
			}
			shape, err := sim.ParseShape(name, s.Rows)
			if err != nil {
				return sim.SimConfig{}, err
			}
			catalog = append(catalog, shape)
		}
		out.Catalog = catalog
	}
	if fc.DetectCycles != nil {
		out.DetectCycles = *fc.DetectCycles
	}
	if fc.ConfirmCycles != nil {
		out.ConfirmCycles = *fc.ConfirmCycles
	}
	if fc.Trace != "" {
		if !trace.IsValidTraceLevel(fc.Trace) {
			return sim.SimConfig{}, fmt.Errorf("unknown trace level %q: %w", fc.Trace, sim.ErrConfiguration)
		}
		out.Trace = trace.TraceConfig{Level: trace.TraceLevel(fc.Trace)}
	}
	return out, nil
}

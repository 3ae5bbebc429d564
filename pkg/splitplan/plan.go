// Package splitplan handles jsplit.toml split-plan configuration. The plan
// is produced by the split-point planner upstream; this package only loads
// and validates it.
package splitplan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// PlanFile is the canonical plan file name.
const PlanFile = "jsplit.toml"

// Plan describes one code-splitting run: where the compiled program archive
// lives, where fragments and the report go, and the ordered split points.
type Plan struct {
	Program     ProgramConfig `toml:"program"`
	Output      OutputConfig  `toml:"output"`
	SplitPoints []SplitPoint  `toml:"split-point"`

	// Dir is the directory containing the plan file (set at load time).
	Dir string `toml:"-"`
}

// ProgramConfig locates the compiled program.
type ProgramConfig struct {
	Archive string `toml:"archive"`
}

// OutputConfig configures fragment and report output.
type OutputConfig struct {
	Dir    string `toml:"dir"`
	Report string `toml:"report"`
}

// SplitPoint is one planned fragment boundary. Plan order is load order:
// the liveness sets the archive carries for split point N assume split
// points 1..N-1 have already been downloaded.
type SplitPoint struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`
}

// Load parses a jsplit.toml file from the given directory.
func Load(dir string) (*Plan, error) {
	path := filepath.Join(dir, PlanFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var p Plan
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	p.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if p.Output.Dir == "" {
		p.Output.Dir = "fragments"
	}

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid plan in %s: %w", path, err)
	}

	return &p, nil
}

// FindAndLoad walks up from startDir to find a jsplit.toml file, then loads
// and returns the plan. Returns nil if no plan is found.
func FindAndLoad(startDir string) (*Plan, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, PlanFile)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (p *Plan) validate() error {
	if p.Program.Archive == "" {
		return fmt.Errorf("program.archive is required")
	}
	seen := make(map[int]bool, len(p.SplitPoints))
	for _, sp := range p.SplitPoints {
		if sp.ID <= 0 {
			return fmt.Errorf("split point %q: id must be positive, got %d", sp.Name, sp.ID)
		}
		if seen[sp.ID] {
			return fmt.Errorf("split point id %d appears twice", sp.ID)
		}
		seen[sp.ID] = true
	}
	return nil
}

// ArchivePath returns the program archive path resolved against the plan
// directory.
func (p *Plan) ArchivePath() string {
	return p.resolve(p.Program.Archive)
}

// OutputDir returns the fragment output directory resolved against the
// plan directory.
func (p *Plan) OutputDir() string {
	return p.resolve(p.Output.Dir)
}

// ReportPath returns the report database path resolved against the plan
// directory, or "" when no report was configured.
func (p *Plan) ReportPath() string {
	if p.Output.Report == "" {
		return ""
	}
	return p.resolve(p.Output.Report)
}

func (p *Plan) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Dir, path)
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
log_level: debug
requirement:
  required_load: 16000
  required_speed_index: 160
families:
  - name: bias-narrow
    construction: bias
    overall_diameter: {min: 18, max: 30, step: 1}
    section_width: {min: 5, max: 10, step: 0.25}
    rim_diameter: {min: 8, max: 16, step: 1}
    ply_rating: {min: 6, max: 24, step: 2}
solver:
  tolerance: 1e-5
  relative: true
  max_iterations: 80
optimizer:
  backend: pso
  max_evaluations: 5000
  seed: 42
  max_runtime: 30s
catalogs:
  - name: michelin-bias
    path: testdata/michelin_bias.csv
    construction: bias
metric_conversion: nearest-quarter
`

func TestParseValid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level debug, got %q", cfg.LogLevel)
	}
	if cfg.Requirement == nil || cfg.Requirement.RequiredLoad != 16000 {
		t.Errorf("requirement not parsed: %+v", cfg.Requirement)
	}
	if len(cfg.Families) != 1 || cfg.Families[0].Name != "bias-narrow" {
		t.Fatalf("families not parsed: %+v", cfg.Families)
	}
	if got := cfg.Families[0].SectionWidth.Step; got != 0.25 {
		t.Errorf("expected section width step 0.25, got %v", got)
	}
	if cfg.Solver.Tolerance != 1e-5 || cfg.Solver.MaxIterations != 80 {
		t.Errorf("solver settings not parsed: %+v", cfg.Solver)
	}
	// Unset solver fields pick up defaults.
	if cfg.Solver.InitialPressure != 100 {
		t.Errorf("expected default initial pressure 100, got %v", cfg.Solver.InitialPressure)
	}
	if cfg.Optimizer.Backend != "pso" || cfg.Optimizer.Seed != 42 {
		t.Errorf("optimizer settings not parsed: %+v", cfg.Optimizer)
	}
	d, err := cfg.Optimizer.GetMaxRuntime()
	if err != nil {
		t.Fatalf("GetMaxRuntime failed: %v", err)
	}
	if d != 30*time.Second {
		t.Errorf("expected 30s runtime bound, got %v", d)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log_level info, got %q", cfg.LogLevel)
	}
	if len(cfg.Families) != 1 || cfg.Families[0].Name != "bias-standard" {
		t.Errorf("expected default bias family, got %+v", cfg.Families)
	}
	if cfg.Solver.MaxIterations != 50 {
		t.Errorf("expected default max_iterations 50, got %d", cfg.Solver.MaxIterations)
	}
	if cfg.Optimizer.Backend != "grid" {
		t.Errorf("expected default backend grid, got %q", cfg.Optimizer.Backend)
	}
	if cfg.MetricConversion != "exact" {
		t.Errorf("expected default metric_conversion exact, got %q", cfg.MetricConversion)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "bad log level",
			yaml:    `log_level: verbose`,
			wantErr: "invalid log_level",
		},
		{
			name: "negative required load",
			yaml: `
requirement:
  required_load: -1
  required_speed_index: 160
`,
			wantErr: "required_load must be positive",
		},
		{
			name: "inverted range",
			yaml: `
families:
  - name: bad
    overall_diameter: {min: 30, max: 18}
    section_width: {min: 5, max: 10}
    rim_diameter: {min: 8, max: 16}
    ply_rating: {min: 6, max: 24}
`,
			wantErr: "min 30 exceeds max 18",
		},
		{
			name: "duplicate family",
			yaml: `
families:
  - name: dup
    overall_diameter: {min: 18, max: 30}
    section_width: {min: 5, max: 10}
    rim_diameter: {min: 8, max: 16}
    ply_rating: {min: 6, max: 24}
  - name: dup
    overall_diameter: {min: 18, max: 30}
    section_width: {min: 5, max: 10}
    rim_diameter: {min: 8, max: 16}
    ply_rating: {min: 6, max: 24}
`,
			wantErr: "duplicate family name",
		},
		{
			name: "unknown backend",
			yaml: `
optimizer:
  backend: annealing
`,
			wantErr: "invalid optimizer backend",
		},
		{
			name: "bad runtime",
			yaml: `
optimizer:
  max_runtime: soon
`,
			wantErr: "max_runtime",
		},
		{
			name: "catalog without path",
			yaml: `
catalogs:
  - name: orphan
`,
			wantErr: "path is required",
		},
		{
			name:    "bad conversion policy",
			yaml:    `metric_conversion: truncate`,
			wantErr: "metric_conversion",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Optimizer.MaxEvaluations != 5000 {
		t.Errorf("expected max_evaluations 5000, got %d", cfg.Optimizer.MaxEvaluations)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 4, Max: 21}
	if !r.Contains(4) || !r.Contains(21) || !r.Contains(10) {
		t.Error("expected boundary and interior values to be contained")
	}
	if r.Contains(3.9) || r.Contains(21.1) {
		t.Error("expected out-of-range values to be rejected")
	}
}

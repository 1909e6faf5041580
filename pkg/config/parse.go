package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/TireMDO-25-26/sizing-core/pkg/units"
)

// Parse decodes a selection configuration from YAML, applies defaults and
// validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Solver == nil {
		cfg.Solver = DefaultSolverSettings()
	} else {
		d := DefaultSolverSettings()
		if cfg.Solver.Tolerance == 0 {
			cfg.Solver.Tolerance = d.Tolerance
		}
		if cfg.Solver.MaxIterations == 0 {
			cfg.Solver.MaxIterations = d.MaxIterations
		}
		if cfg.Solver.InitialPressure == 0 {
			cfg.Solver.InitialPressure = d.InitialPressure
		}
	}
	if cfg.Optimizer == nil {
		cfg.Optimizer = DefaultOptimizerSettings()
	} else {
		d := DefaultOptimizerSettings()
		if cfg.Optimizer.Backend == "" {
			cfg.Optimizer.Backend = d.Backend
		}
		if cfg.Optimizer.MaxEvaluations == 0 {
			cfg.Optimizer.MaxEvaluations = d.MaxEvaluations
		}
		if cfg.Optimizer.Population == 0 {
			cfg.Optimizer.Population = d.Population
		}
		if cfg.Optimizer.StepSize == 0 {
			cfg.Optimizer.StepSize = d.StepSize
		}
	}
	if len(cfg.Families) == 0 {
		cfg.Families = []Family{DefaultBiasFamily()}
	}
	if cfg.MetricConversion == "" {
		cfg.MetricConversion = string(units.PolicyExact)
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}

	if cfg.Requirement != nil {
		if cfg.Requirement.RequiredLoad <= 0 {
			return fmt.Errorf("requirement.required_load must be positive, got %v", cfg.Requirement.RequiredLoad)
		}
		if cfg.Requirement.RequiredSpeedIndex <= 0 {
			return fmt.Errorf("requirement.required_speed_index must be positive, got %v", cfg.Requirement.RequiredSpeedIndex)
		}
	}

	seen := make(map[string]bool, len(cfg.Families))
	for i := range cfg.Families {
		if err := validateFamily(&cfg.Families[i]); err != nil {
			return fmt.Errorf("family %d: %w", i, err)
		}
		if seen[cfg.Families[i].Name] {
			return fmt.Errorf("duplicate family name %q", cfg.Families[i].Name)
		}
		seen[cfg.Families[i].Name] = true
	}

	if err := validateSolver(cfg.Solver); err != nil {
		return err
	}
	if err := validateOptimizer(cfg.Optimizer); err != nil {
		return err
	}

	for i, cat := range cfg.Catalogs {
		if cat.Path == "" {
			return fmt.Errorf("catalog %d: path is required", i)
		}
		switch cat.Construction {
		case "", "bias", "radial":
		default:
			return fmt.Errorf("catalog %d: invalid construction %q", i, cat.Construction)
		}
	}

	if _, err := units.ParseConversionPolicy(cfg.MetricConversion); err != nil {
		return fmt.Errorf("metric_conversion: %w", err)
	}
	return nil
}

func validateFamily(f *Family) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch f.Construction {
	case "", "bias", "radial":
	default:
		return fmt.Errorf("invalid construction %q", f.Construction)
	}
	for _, rn := range []struct {
		name string
		r    Range
	}{
		{"overall_diameter", f.OverallDiameter},
		{"section_width", f.SectionWidth},
		{"rim_diameter", f.RimDiameter},
		{"ply_rating", f.PlyRating},
	} {
		if rn.r.Min <= 0 || rn.r.Max <= 0 {
			return fmt.Errorf("%s bounds must be positive", rn.name)
		}
		if rn.r.Min > rn.r.Max {
			return fmt.Errorf("%s: min %v exceeds max %v", rn.name, rn.r.Min, rn.r.Max)
		}
		if rn.r.Step < 0 {
			return fmt.Errorf("%s: step must be non-negative", rn.name)
		}
	}
	return nil
}

func validateSolver(s *SolverSettings) error {
	if s.Tolerance <= 0 {
		return fmt.Errorf("solver.tolerance must be positive, got %v", s.Tolerance)
	}
	if s.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations must be positive, got %d", s.MaxIterations)
	}
	if s.InitialPressure <= 0 {
		return fmt.Errorf("solver.initial_pressure must be positive, got %v", s.InitialPressure)
	}
	return nil
}

func validateOptimizer(o *OptimizerSettings) error {
	switch o.Backend {
	case "grid", "random", "hillclimb", "pso":
	default:
		return fmt.Errorf("invalid optimizer backend %q", o.Backend)
	}
	if o.MaxEvaluations <= 0 {
		return fmt.Errorf("optimizer.max_evaluations must be positive, got %d", o.MaxEvaluations)
	}
	if o.Population <= 0 {
		return fmt.Errorf("optimizer.population must be positive, got %d", o.Population)
	}
	if o.StepSize <= 0 {
		return fmt.Errorf("optimizer.step_size must be positive, got %v", o.StepSize)
	}
	if _, err := o.GetMaxRuntime(); err != nil {
		return fmt.Errorf("optimizer.max_runtime: %w", err)
	}
	return nil
}

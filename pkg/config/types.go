package config

import (
	"time"

	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

// Config is the root selection configuration document.
type Config struct {
	LogLevel         string              `yaml:"log_level"`
	Requirement      *models.Requirement `yaml:"requirement,omitempty"`
	Families         []Family            `yaml:"families"`
	Solver           *SolverSettings     `yaml:"solver,omitempty"`
	Optimizer        *OptimizerSettings  `yaml:"optimizer,omitempty"`
	Catalogs         []Catalog           `yaml:"catalogs,omitempty"`
	MetricConversion string              `yaml:"metric_conversion,omitempty"` // units.ConversionPolicy name
}

// Range bounds one design variable. A zero Step means the variable is
// continuous; grid-style backends fall back to a documented default step.
type Range struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step,omitempty"`
}

// Contains reports whether v lies inside the closed interval [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Family is one named candidate tire family: a region of the design space
// the selector searches independently.
type Family struct {
	Name         string `yaml:"name"`
	Prefix       string `yaml:"prefix,omitempty"`       // size-designation prefix, e.g. "H"
	Construction string `yaml:"construction,omitempty"` // bias or radial

	OverallDiameter Range `yaml:"overall_diameter"` // M, in
	SectionWidth    Range `yaml:"section_width"`    // N, in
	RimDiameter     Range `yaml:"rim_diameter"`     // D, in
	PlyRating       Range `yaml:"ply_rating"`       // PR
}

// SolverSettings configures the geometry coupling solver.
type SolverSettings struct {
	// Tolerance is the convergence tolerance applied to both coupling
	// variables simultaneously.
	Tolerance float64 `yaml:"tolerance,omitempty"`
	// Relative selects relative (true) or absolute (false) tolerance.
	Relative bool `yaml:"relative,omitempty"`
	// MaxIterations bounds the fixed-point sweep count before the solver
	// declares divergence.
	MaxIterations int `yaml:"max_iterations,omitempty"`
	// InitialPressure seeds the coupling loop, psi.
	InitialPressure float64 `yaml:"initial_pressure,omitempty"`
}

// DefaultSolverSettings returns the documented solver defaults.
func DefaultSolverSettings() *SolverSettings {
	return &SolverSettings{
		Tolerance:       1e-4,
		Relative:        true,
		MaxIterations:   50,
		InitialPressure: 100, // typical bias-catalog rated pressure
	}
}

// OptimizerSettings configures the search backend shared by all families.
type OptimizerSettings struct {
	// Backend names the search strategy: grid, random, hillclimb or pso.
	Backend string `yaml:"backend,omitempty"`
	// MaxEvaluations bounds the number of objective evaluations per family.
	MaxEvaluations int `yaml:"max_evaluations,omitempty"`
	// MaxRuntime optionally bounds wall-clock time per family, e.g. "30s".
	MaxRuntime string `yaml:"max_runtime,omitempty"`
	// Seed makes stochastic backends reproducible; 0 means time-seeded.
	Seed int64 `yaml:"seed,omitempty"`
	// Population sizes population-based backends (pso).
	Population int `yaml:"population,omitempty"`
	// StepSize scales neighbor generation for the hillclimb backend.
	StepSize float64 `yaml:"step_size,omitempty"`
}

// DefaultOptimizerSettings returns the documented optimizer defaults.
func DefaultOptimizerSettings() *OptimizerSettings {
	return &OptimizerSettings{
		Backend:        "grid",
		MaxEvaluations: 20000,
		Population:     20,
		StepSize:       1.0,
	}
}

// GetMaxRuntime parses the runtime bound; zero means unbounded.
func (o *OptimizerSettings) GetMaxRuntime() (time.Duration, error) {
	if o.MaxRuntime == "" {
		return 0, nil
	}
	return time.ParseDuration(o.MaxRuntime)
}

// Catalog references one manufacturer databook file used by the validation
// collaborator.
type Catalog struct {
	Name         string `yaml:"name"`
	Path         string `yaml:"path"`
	Construction string `yaml:"construction,omitempty"` // bias or radial
}

// DefaultBiasFamily returns the bias-tire search region used when no
// families are configured. Bounds follow the synthetic design-space ranges
// (M 12-56, N 4-21, D 4-24, PR 4-38).
func DefaultBiasFamily() Family {
	return Family{
		Name:            "bias-standard",
		Construction:    "bias",
		OverallDiameter: Range{Min: 12, Max: 56, Step: 1},
		SectionWidth:    Range{Min: 4, Max: 21, Step: 0.5},
		RimDiameter:     Range{Min: 4, Max: 24, Step: 1},
		PlyRating:       Range{Min: 4, Max: 38, Step: 2},
	}
}

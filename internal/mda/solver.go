// Package mda couples the load and mechanical disciplines of the tire
// sizing model. Inflation pressure and cord tension depend on each other
// through carcass growth, so the solver sweeps the two relations in a
// Gauss-Seidel fixed point until both residuals fall below tolerance.
package mda

import (
	"context"
	"fmt"
	"math"

	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
	"github.com/TireMDO-25-26/sizing-core/pkg/utils"
)

// State is the lifecycle state of one coupling solve.
type State string

const (
	StateInitialized State = "initialized"
	StateIterating   State = "iterating"
	StateConverged   State = "converged"
	StateDiverged    State = "diverged"
)

// DivergedError reports a candidate whose coupling loop failed to reach a
// fixed point. The design point is not evaluable; this is distinct from an
// evaluable but infeasible point.
type DivergedError struct {
	Design     models.DesignVector
	Iterations int
	Reason     string
}

func (e *DivergedError) Error() string {
	return fmt.Sprintf("coupling diverged for %s after %d iterations: %s",
		e.Design.Designation(), e.Iterations, e.Reason)
}

// Config tunes the coupling solver.
type Config struct {
	// Tolerance applies to both coupling residuals simultaneously.
	Tolerance float64
	// Relative selects relative (true) or absolute (false) residuals.
	Relative bool
	// MaxIterations bounds the sweep count before declaring divergence.
	MaxIterations int
	// InitialPressure seeds the loop, psi.
	InitialPressure float64
}

// DefaultConfig returns the solver defaults.
func DefaultConfig() Config {
	return Config{
		Tolerance:       1e-4,
		Relative:        true,
		MaxIterations:   50,
		InitialPressure: 100,
	}
}

// Solution is one converged coupling solve.
type Solution struct {
	Geometry   models.GeometricState
	Coupling   models.CouplingVariables
	Iterations int
	State      State
}

// Solver runs the fixed-point sweep for one sizing model. It is stateless
// and safe for concurrent use.
type Solver struct {
	cfg   Config
	model *tiremodel.Model
}

// New returns a Solver over the given model.
func New(model *tiremodel.Model, cfg Config) *Solver {
	return &Solver{cfg: cfg, model: model}
}

// Solve derives the geometry for a design and iterates the coupling until
// inflation pressure and cord tension are mutually consistent. It returns
// tiremodel.InvalidDesignError for out-of-envelope designs and
// DivergedError when no fixed point is found within the iteration bound.
func (s *Solver) Solve(ctx context.Context, d models.DesignVector) (*Solution, error) {
	base, err := s.model.Geometry(d)
	if err != nil {
		return nil, err
	}

	ip := s.cfg.InitialPressure
	tension := 0.0
	var residuals []float64

	for iter := 1; iter <= s.cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Tension grows the carcass; pressure and tension are then
		// re-evaluated on the grown section.
		eff := base
		s.model.ApplyGrowth(&eff, tension)
		eff.MeanOverallDiameter = eff.GrownDiameter
		eff.MeanSectionWidth = eff.GrownWidth

		newIP := s.model.RatedPressure(d, eff)
		newTension := s.model.CordTension(d, eff, newIP)

		if math.IsNaN(newIP) || math.IsInf(newIP, 0) ||
			math.IsNaN(newTension) || math.IsInf(newTension, 0) {
			return nil, &DivergedError{Design: d, Iterations: iter, Reason: "non-finite coupling value"}
		}

		resIP := s.residual(ip, newIP)
		resTension := s.residual(tension, newTension)
		residuals = append(residuals, resIP+resTension)
		ip, tension = newIP, newTension

		if resIP <= s.cfg.Tolerance && resTension <= s.cfg.Tolerance {
			sol := &Solution{
				Geometry:   base,
				Coupling:   models.CouplingVariables{InflationPressure: ip, CordTension: tension},
				Iterations: iter,
				State:      StateConverged,
			}
			s.model.ApplyGrowth(&sol.Geometry, tension)
			return sol, nil
		}

		if residualDiverging(residuals) {
			return nil, &DivergedError{Design: d, Iterations: iter, Reason: "oscillating residual"}
		}
	}
	return nil, &DivergedError{Design: d, Iterations: s.cfg.MaxIterations, Reason: "iteration limit reached"}
}

func (s *Solver) residual(prev, next float64) float64 {
	if s.cfg.Relative {
		return utils.RelDiff(prev, next)
	}
	return math.Abs(next - prev)
}

// residualDiverging reports three consecutive growing residuals, the
// signature of an oscillating or runaway sweep.
func residualDiverging(residuals []float64) bool {
	n := len(residuals)
	if n < 4 {
		return false
	}
	for i := n - 3; i < n; i++ {
		if residuals[i] <= residuals[i-1] {
			return false
		}
	}
	return true
}

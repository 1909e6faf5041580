// Package disciplines evaluates a converged candidate against the load,
// mechanical, and mass disciplines and aggregates the verdict into a
// FeasibilityResult.
package disciplines

import (
	"context"
	"fmt"

	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

// Input is the converged state one evaluator judges.
type Input struct {
	Design      models.DesignVector
	Geometry    models.GeometricState
	Coupling    models.CouplingVariables
	Requirement models.Requirement
}

// Evaluator is one discipline. Evaluators fill their slice of the shared
// FeasibilityResult and append any violated constraints.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, in Input, out *models.FeasibilityResult) error
}

// Suite runs all registered evaluators in a fixed order.
type Suite struct {
	evaluators []Evaluator
}

// NewSuite returns a Suite with the standard discipline set.
func NewSuite(model *tiremodel.Model) *Suite {
	return &Suite{
		evaluators: []Evaluator{
			&LoadCapacity{model: model},
			&MechanicalFeasibility{model: model},
			&Mass{model: model},
			&GeometricEnvelope{},
		},
	}
}

// Evaluate runs every discipline and returns the aggregated result.
// A candidate is feasible when no discipline records a violation.
func (s *Suite) Evaluate(ctx context.Context, in Input) (models.FeasibilityResult, error) {
	res := models.FeasibilityResult{
		InflationPressure: in.Coupling.InflationPressure,
		CordTension:       in.Coupling.CordTension,
	}
	for _, ev := range s.evaluators {
		if err := ctx.Err(); err != nil {
			return models.FeasibilityResult{}, err
		}
		if err := ev.Evaluate(ctx, in, &res); err != nil {
			return models.FeasibilityResult{}, fmt.Errorf("discipline %s: %w", ev.Name(), err)
		}
	}
	res.Feasible = len(res.Violated) == 0
	return res, nil
}

// LoadCapacity judges the rated load at the converged inflation pressure
// against the required load.
type LoadCapacity struct {
	model *tiremodel.Model
}

func (e *LoadCapacity) Name() string { return "load_capacity" }

func (e *LoadCapacity) Evaluate(_ context.Context, in Input, out *models.FeasibilityResult) error {
	out.RatedLoad = e.model.LoadCapacity(in.Geometry, in.Coupling.InflationPressure)
	out.LoadMargin = out.RatedLoad - in.Requirement.RequiredLoad
	if out.LoadMargin < 0 {
		out.Violated = append(out.Violated, models.ConstraintLoadCapacity)
	}
	return nil
}

// MechanicalFeasibility judges the converged cord tension against the
// speed-derated material limit.
type MechanicalFeasibility struct {
	model *tiremodel.Model
}

func (e *MechanicalFeasibility) Name() string { return "mechanical" }

func (e *MechanicalFeasibility) Evaluate(_ context.Context, in Input, out *models.FeasibilityResult) error {
	limit := e.model.MaterialLimit(in.Requirement.RequiredSpeedIndex)
	out.CordTensionMargin = limit - in.Coupling.CordTension
	if out.CordTensionMargin < 0 {
		out.Violated = append(out.Violated, models.ConstraintMechanical)
	}
	return nil
}

// Mass estimates the inflation medium mass. Mass carries no constraint of
// its own; it is the minimization objective.
type Mass struct {
	model *tiremodel.Model
}

func (e *Mass) Name() string { return "mass" }

func (e *Mass) Evaluate(_ context.Context, in Input, out *models.FeasibilityResult) error {
	out.MassEstimate = e.model.GasMass(in.Geometry, in.Coupling.InflationPressure)
	return nil
}

// Practical envelope bounds from the tire and rim association tables.
const (
	minFlangeSpan  = 4.5 // Dm - DF, in
	maxFlangeSpan  = 32.0
	minFlangeStand = 1.0 // DF - D, in
	maxFlangeStand = 4.5
	minCatalogAR   = 0.5
	maxCatalogAR   = 1.0
)

// GeometricEnvelope rejects candidates whose derived geometry falls
// outside the standardized catalog envelope.
type GeometricEnvelope struct{}

func (e *GeometricEnvelope) Name() string { return "geometric_envelope" }

func (e *GeometricEnvelope) Evaluate(_ context.Context, in Input, out *models.FeasibilityResult) error {
	g := in.Geometry
	span := g.MeanOverallDiameter - g.OuterFlangeDiameter
	stand := g.OuterFlangeDiameter - in.Design.RimDiameter
	if span < minFlangeSpan || span > maxFlangeSpan ||
		stand < minFlangeStand || stand > maxFlangeStand {
		out.Violated = append(out.Violated, models.ConstraintFlange)
	}
	if g.AspectRatio < minCatalogAR || g.AspectRatio > maxCatalogAR {
		out.Violated = append(out.Violated, models.ConstraintAspectRatio)
	}
	return nil
}

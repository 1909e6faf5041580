package optimize

import (
	"context"
	"errors"
	"math"

	"github.com/TireMDO-25-26/sizing-core/internal/disciplines"
	"github.com/TireMDO-25-26/sizing-core/internal/mda"
	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

// Penalty scaling for the constrained minimization. Any violation puts the
// cost far above every feasible mass estimate, and the magnitude terms keep
// the penalized surface ordered so hill climbers can descend toward
// feasibility.
const (
	penaltyBase   = 1e3
	penaltyWeight = 1e3
)

// worstCost is assigned to points that cannot be evaluated at all, either
// outside the model envelope or with a diverged coupling loop.
const worstCost = math.MaxFloat64 / 4

// Evaluation is one scored design point.
type Evaluation struct {
	Design    models.DesignVector
	Geometry  models.GeometricState
	Result    models.FeasibilityResult
	Cost      float64
	Evaluable bool
}

// Observer receives per-evaluation outcomes, e.g. for metrics export.
type Observer interface {
	ObserveEvaluation(feasible bool)
	ObserveDivergence()
	ObserveSolveIterations(n int)
}

// Objective scores design points for minimization: inflation medium mass
// plus penalties for violated constraints. It is safe for concurrent use.
type Objective struct {
	solver      *mda.Solver
	suite       *disciplines.Suite
	requirement models.Requirement
	observer    Observer
}

// NewObjective builds the penalized mass objective for one requirement.
func NewObjective(solver *mda.Solver, suite *disciplines.Suite, req models.Requirement) *Objective {
	return &Objective{solver: solver, suite: suite, requirement: req}
}

// WithObserver attaches an evaluation observer.
func (o *Objective) WithObserver(obs Observer) *Objective {
	o.observer = obs
	return o
}

// Evaluate solves the coupling for a design and scores it. Non-evaluable
// points (invalid design, diverged coupling) come back with Evaluable
// false and the worst cost rather than an error; only context failure is
// returned as an error.
func (o *Objective) Evaluate(ctx context.Context, d models.DesignVector) (Evaluation, error) {
	sol, err := o.solver.Solve(ctx, d)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Evaluation{}, ctxErr
		}
		var invalid *tiremodel.InvalidDesignError
		var diverged *mda.DivergedError
		switch {
		case errors.As(err, &invalid):
		case errors.As(err, &diverged):
			if o.observer != nil {
				o.observer.ObserveDivergence()
			}
		default:
			return Evaluation{}, err
		}
		if o.observer != nil {
			o.observer.ObserveEvaluation(false)
		}
		return Evaluation{Design: d, Cost: worstCost}, nil
	}

	in := disciplines.Input{
		Design:      d,
		Geometry:    sol.Geometry,
		Coupling:    sol.Coupling,
		Requirement: o.requirement,
	}
	res, err := o.suite.Evaluate(ctx, in)
	if err != nil {
		return Evaluation{}, err
	}

	if o.observer != nil {
		o.observer.ObserveSolveIterations(sol.Iterations)
		o.observer.ObserveEvaluation(res.Feasible)
	}
	return Evaluation{
		Design:    d,
		Geometry:  sol.Geometry,
		Result:    res,
		Cost:      o.cost(res),
		Evaluable: true,
	}, nil
}

func (o *Objective) cost(res models.FeasibilityResult) float64 {
	cost := res.MassEstimate
	if res.Feasible {
		return cost
	}
	for _, kind := range res.Violated {
		cost += penaltyBase
		switch kind {
		case models.ConstraintLoadCapacity:
			if o.requirement.RequiredLoad > 0 {
				cost += penaltyWeight * -res.LoadMargin / o.requirement.RequiredLoad
			}
		case models.ConstraintMechanical:
			cost += penaltyWeight * math.Abs(res.CordTensionMargin) / (math.Abs(res.CordTension) + 1)
		}
	}
	return cost
}

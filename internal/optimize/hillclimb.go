package optimize

import (
	"context"
	"time"

	"github.com/TireMDO-25-26/sizing-core/pkg/utils"
)

// HillClimb runs best-improvement hill climbing with random restarts. From
// the current point it evaluates one neighbor per coordinate direction,
// moves to the best improving neighbor, and restarts from a fresh random
// point when no neighbor improves.
type HillClimb struct {
	seed        int64
	stepSize    float64
	convergence ConvergenceStrategy
}

// NewHillClimb returns the hill-climbing backend. stepSize scales the
// per-coordinate grid steps used for neighbor generation.
func NewHillClimb(seed int64, stepSize float64) *HillClimb {
	if stepSize <= 0 {
		stepSize = 1.0
	}
	return &HillClimb{
		seed:        seed,
		stepSize:    stepSize,
		convergence: NewNoImprovement(DefaultConvergenceConfig()),
	}
}

// WithConvergence sets a custom convergence strategy.
func (h *HillClimb) WithConvergence(s ConvergenceStrategy) *HillClimb {
	h.convergence = s
	return h
}

func (h *HillClimb) Name() string { return "hillclimb" }

func (h *HillClimb) Search(ctx context.Context, space Space, obj *Objective, budget Budget) (*Result, error) {
	if budget.MaxEvaluations <= 0 && budget.MaxRuntime <= 0 {
		budget.MaxEvaluations = 1000
	}
	rng := utils.NewRandSource(h.seed)
	start := time.Now()
	col := newCollector()
	evaluations := 0
	var history []Step

	evaluate := func(x [4]float64) (Evaluation, bool, error) {
		if budget.Exhausted(evaluations, start) {
			return Evaluation{}, false, nil
		}
		ev, err := obj.Evaluate(ctx, space.Design(x))
		if err != nil {
			return Evaluation{}, false, err
		}
		evaluations++
		col.add(ev)
		return ev, true, nil
	}

	current := space.Center()
	currentEv, ok, err := evaluate(current)
	if err != nil {
		return nil, err
	}
	if !ok {
		return col.result(evaluations, false, "budget exhausted"), nil
	}
	bestCost := currentEv.Cost
	round := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		round++

		improvedCost := currentEv.Cost
		var improvedPoint [4]float64
		improved := false

		for _, neighbor := range h.neighbors(space, current) {
			ev, ok, err := evaluate(neighbor)
			if err != nil {
				return nil, err
			}
			if !ok {
				return col.result(evaluations, false, "budget exhausted"), nil
			}
			if ev.Cost < improvedCost {
				improvedCost = ev.Cost
				improvedPoint = neighbor
				improved = true
			}
		}

		if improved {
			current = improvedPoint
			currentEv.Cost = improvedCost
		} else {
			// Local optimum: restart from a random point.
			current = space.Sample(rng)
			ev, ok, err := evaluate(current)
			if err != nil {
				return nil, err
			}
			if !ok {
				return col.result(evaluations, false, "budget exhausted"), nil
			}
			currentEv = ev
		}

		if currentEv.Cost < bestCost {
			bestCost = currentEv.Cost
		}
		history = append(history, Step{Round: round, Cost: bestCost})
		if done, reason := h.convergence.Check(history); done {
			return col.result(evaluations, true, reason), nil
		}
	}
}

// neighbors generates one step in each coordinate direction, clamped to
// the space bounds.
func (h *HillClimb) neighbors(space Space, x [4]float64) [][4]float64 {
	steps := space.steps()
	out := make([][4]float64, 0, 8)
	for i := range x {
		for _, dir := range []float64{-1, 1} {
			n := x
			n[i] += dir * h.stepSize * steps[i]
			n = space.Clamp(n)
			if n != x {
				out = append(out, n)
			}
		}
	}
	return out
}

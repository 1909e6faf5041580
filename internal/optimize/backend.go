package optimize

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/TireMDO-25-26/sizing-core/pkg/config"
)

// ErrNoFeasibleSolution reports a search that finished within budget
// without finding any feasible design. An over-constrained requirement is
// a normal outcome, not a failure.
var ErrNoFeasibleSolution = errors.New("no feasible solution in search space")

// Result is the outcome of one backend run over one space.
type Result struct {
	// Feasible holds every distinct feasible design the backend saw,
	// sorted by ascending cost.
	Feasible []Evaluation
	// Evaluations counts objective evaluations spent.
	Evaluations int
	// Converged indicates the backend stopped on its own criterion
	// rather than budget exhaustion.
	Converged bool
	// StopReason describes why the run ended.
	StopReason string
}

// Best returns the lowest-cost feasible evaluation, or
// ErrNoFeasibleSolution when the run found none.
func (r *Result) Best() (Evaluation, error) {
	if len(r.Feasible) == 0 {
		return Evaluation{}, ErrNoFeasibleSolution
	}
	return r.Feasible[0], nil
}

// Backend is one search strategy over a design space.
type Backend interface {
	Name() string
	Search(ctx context.Context, space Space, obj *Objective, budget Budget) (*Result, error)
}

// NewBackend builds the backend named by the optimizer settings.
func NewBackend(cfg *config.OptimizerSettings) (Backend, error) {
	switch cfg.Backend {
	case "grid":
		return NewGrid(), nil
	case "random":
		return NewRandom(cfg.Seed), nil
	case "hillclimb":
		return NewHillClimb(cfg.Seed, cfg.StepSize), nil
	case "pso":
		return NewSwarm(cfg.Seed, cfg.Population), nil
	default:
		return nil, fmt.Errorf("unknown optimizer backend %q", cfg.Backend)
	}
}

// collector accumulates distinct feasible evaluations during a run.
type collector struct {
	seen     map[string]bool
	feasible []Evaluation
}

func newCollector() *collector {
	return &collector{seen: make(map[string]bool)}
}

func (c *collector) add(ev Evaluation) {
	if !ev.Evaluable || !ev.Result.Feasible {
		return
	}
	key := ev.Design.Designation()
	key = fmt.Sprintf("%s/PR%d", key, ev.Design.PlyRating)
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.feasible = append(c.feasible, ev)
}

// result finalizes the run: feasible evaluations sorted by ascending cost,
// ties broken by descending load margin for a stable order.
func (c *collector) result(evaluations int, converged bool, reason string) *Result {
	sort.SliceStable(c.feasible, func(i, j int) bool {
		if c.feasible[i].Cost != c.feasible[j].Cost {
			return c.feasible[i].Cost < c.feasible[j].Cost
		}
		return c.feasible[i].Result.LoadMargin > c.feasible[j].Result.LoadMargin
	})
	return &Result{
		Feasible:    c.feasible,
		Evaluations: evaluations,
		Converged:   converged,
		StopReason:  reason,
	}
}

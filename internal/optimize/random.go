package optimize

import (
	"context"
	"time"

	"github.com/TireMDO-25-26/sizing-core/pkg/utils"
)

// Random samples the space uniformly until the budget is spent. With a
// fixed seed the sample sequence, and therefore the result, is
// reproducible.
type Random struct {
	seed int64
}

// NewRandom returns the random-search backend.
func NewRandom(seed int64) *Random {
	return &Random{seed: seed}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Search(ctx context.Context, space Space, obj *Objective, budget Budget) (*Result, error) {
	if budget.MaxEvaluations <= 0 && budget.MaxRuntime <= 0 {
		budget.MaxEvaluations = 1000
	}
	rng := utils.NewRandSource(r.seed)
	start := time.Now()
	col := newCollector()
	evaluations := 0

	for !budget.Exhausted(evaluations, start) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ev, err := obj.Evaluate(ctx, space.Design(space.Sample(rng)))
		if err != nil {
			return nil, err
		}
		evaluations++
		col.add(ev)
	}
	return col.result(evaluations, false, "budget exhausted"), nil
}

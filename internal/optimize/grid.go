package optimize

import (
	"context"
	"time"
)

// Grid exhaustively sweeps the space on its configured steps in a fixed
// deterministic order. It is the reference backend: two runs over the same
// space and requirement produce identical rankings.
type Grid struct{}

// NewGrid returns the exhaustive grid backend.
func NewGrid() *Grid {
	return &Grid{}
}

func (g *Grid) Name() string { return "grid" }

func (g *Grid) Search(ctx context.Context, space Space, obj *Objective, budget Budget) (*Result, error) {
	start := time.Now()
	col := newCollector()
	evaluations := 0

	r := space.ranges()
	steps := space.steps()

	for m := r[0].Min; m <= r[0].Max+1e-9; m += steps[0] {
		for n := r[1].Min; n <= r[1].Max+1e-9; n += steps[1] {
			for d := r[2].Min; d <= r[2].Max+1e-9; d += steps[2] {
				for pr := r[3].Min; pr <= r[3].Max+1e-9; pr += steps[3] {
					if err := ctx.Err(); err != nil {
						return nil, err
					}
					if budget.Exhausted(evaluations, start) {
						return col.result(evaluations, false, "budget exhausted"), nil
					}
					ev, err := obj.Evaluate(ctx, space.Design([4]float64{m, n, d, pr}))
					if err != nil {
						return nil, err
					}
					evaluations++
					col.add(ev)
				}
			}
		}
	}
	return col.result(evaluations, true, "grid swept"), nil
}

package optimize

import (
	"context"
	"math"
	"time"

	"github.com/TireMDO-25-26/sizing-core/pkg/utils"
)

// Particle swarm coefficients: standard constricted settings.
const (
	swarmInertia   = 0.7
	swarmCognitive = 1.5
	swarmSocial    = 1.5
)

// Swarm runs particle swarm optimization: a population of candidate points
// moves through the space pulled toward each particle's own best and the
// swarm's global best.
type Swarm struct {
	seed        int64
	population  int
	convergence ConvergenceStrategy
}

// NewSwarm returns the particle swarm backend.
func NewSwarm(seed int64, population int) *Swarm {
	if population <= 0 {
		population = 20
	}
	return &Swarm{
		seed:        seed,
		population:  population,
		convergence: NewPlateau(DefaultConvergenceConfig()),
	}
}

// WithConvergence sets a custom convergence strategy.
func (s *Swarm) WithConvergence(c ConvergenceStrategy) *Swarm {
	s.convergence = c
	return s
}

func (s *Swarm) Name() string { return "pso" }

type particle struct {
	position [4]float64
	velocity [4]float64
	best     [4]float64
	bestCost float64
}

func (s *Swarm) Search(ctx context.Context, space Space, obj *Objective, budget Budget) (*Result, error) {
	if budget.MaxEvaluations <= 0 && budget.MaxRuntime <= 0 {
		budget.MaxEvaluations = 2000
	}
	rng := utils.NewRandSource(s.seed)
	start := time.Now()
	col := newCollector()
	evaluations := 0
	var history []Step

	r := space.ranges()
	var span [4]float64
	for i := range span {
		span[i] = r[i].Max - r[i].Min
	}

	particles := make([]particle, s.population)
	for i := range particles {
		particles[i].position = space.Sample(rng)
		for j := range particles[i].velocity {
			particles[i].velocity[j] = rng.UniformFloat64(-span[j], span[j]) * 0.1
		}
		particles[i].best = particles[i].position
		particles[i].bestCost = math.MaxFloat64
	}

	var globalBest [4]float64
	globalBestCost := math.MaxFloat64

	round := 0
	for {
		round++
		for i := range particles {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if budget.Exhausted(evaluations, start) {
				return col.result(evaluations, false, "budget exhausted"), nil
			}
			p := &particles[i]
			ev, err := obj.Evaluate(ctx, space.Design(p.position))
			if err != nil {
				return nil, err
			}
			evaluations++
			col.add(ev)

			if ev.Cost < p.bestCost {
				p.bestCost = ev.Cost
				p.best = p.position
			}
			if ev.Cost < globalBestCost {
				globalBestCost = ev.Cost
				globalBest = p.position
			}
		}

		for i := range particles {
			p := &particles[i]
			for j := range p.position {
				rc, rs := rng.Float64(), rng.Float64()
				p.velocity[j] = swarmInertia*p.velocity[j] +
					swarmCognitive*rc*(p.best[j]-p.position[j]) +
					swarmSocial*rs*(globalBest[j]-p.position[j])
				// Keep a particle from crossing the whole space in one step.
				p.velocity[j] = utils.ClampFloat64(p.velocity[j], -span[j]/2, span[j]/2)
				p.position[j] += p.velocity[j]
			}
			p.position = space.Clamp(p.position)
		}

		history = append(history, Step{Round: round, Cost: globalBestCost})
		if done, reason := s.convergence.Check(history); done {
			return col.result(evaluations, true, reason), nil
		}
	}
}

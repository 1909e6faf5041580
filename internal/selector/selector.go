// Package selector runs the full recommendation pipeline: one optimizer
// search per candidate family, merged into a single ranking of feasible
// designs.
package selector

import (
	"context"
	"fmt"
	"sort"

	"github.com/TireMDO-25-26/sizing-core/internal/disciplines"
	"github.com/TireMDO-25-26/sizing-core/internal/mda"
	"github.com/TireMDO-25-26/sizing-core/internal/metrics"
	"github.com/TireMDO-25-26/sizing-core/internal/optimize"
	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/pkg/config"
	"github.com/TireMDO-25-26/sizing-core/pkg/logger"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

const defaultMaxParallel = 4

// Selector evaluates selection requests against the configured families.
// It is safe for concurrent use.
type Selector struct {
	cfg         *config.Config
	model       *tiremodel.Model
	solver      *mda.Solver
	suite       *disciplines.Suite
	backend     optimize.Backend
	collector   *metrics.Collector
	maxParallel int
}

// New builds a Selector from configuration.
func New(cfg *config.Config) (*Selector, error) {
	backend, err := optimize.NewBackend(cfg.Optimizer)
	if err != nil {
		return nil, err
	}
	model := tiremodel.New(tiremodel.DefaultConfig())
	solverCfg := mda.Config{
		Tolerance:       cfg.Solver.Tolerance,
		Relative:        cfg.Solver.Relative,
		MaxIterations:   cfg.Solver.MaxIterations,
		InitialPressure: cfg.Solver.InitialPressure,
	}
	return &Selector{
		cfg:         cfg,
		model:       model,
		solver:      mda.New(model, solverCfg),
		suite:       disciplines.NewSuite(model),
		backend:     backend,
		maxParallel: defaultMaxParallel,
	}, nil
}

// WithCollector attaches a metrics collector.
func (s *Selector) WithCollector(c *metrics.Collector) *Selector {
	s.collector = c
	return s
}

// WithMaxParallel bounds the number of families searched concurrently.
func (s *Selector) WithMaxParallel(n int) *Selector {
	if n > 0 {
		s.maxParallel = n
	}
	return s
}

// Backend returns the configured search backend name.
func (s *Selector) Backend() string {
	return s.backend.Name()
}

// Select searches every requested family and returns all feasible designs
// ranked best-first: ascending cost, ties broken by descending load margin.
// An empty ranking means the requirement is not satisfiable within the
// configured families, which is a normal outcome.
func (s *Selector) Select(ctx context.Context, req models.Requirement, familyNames []string) ([]models.RankedDesign, error) {
	if req.RequiredLoad <= 0 {
		return nil, fmt.Errorf("required load must be positive, got %v", req.RequiredLoad)
	}
	if req.RequiredSpeedIndex <= 0 {
		return nil, fmt.Errorf("required speed index must be positive, got %v", req.RequiredSpeedIndex)
	}
	families, err := s.resolveFamilies(familyNames)
	if err != nil {
		return nil, err
	}

	maxRuntime, err := s.cfg.Optimizer.GetMaxRuntime()
	if err != nil {
		return nil, err
	}
	budget := optimize.Budget{
		MaxEvaluations: s.cfg.Optimizer.MaxEvaluations,
		MaxRuntime:     maxRuntime,
	}

	results, err := s.searchFamilies(ctx, req, families, budget)
	if err != nil {
		return nil, err
	}

	var ranked []models.RankedDesign
	for _, fr := range results {
		logger.Info("family search finished",
			"family", fr.family.Name,
			"backend", s.backend.Name(),
			"evaluations", fr.result.Evaluations,
			"feasible", len(fr.result.Feasible),
			"stop", fr.result.StopReason)
		for _, ev := range fr.result.Feasible {
			ranked = append(ranked, models.RankedDesign{
				Family:   fr.family.Name,
				Design:   ev.Design,
				Geometry: ev.Geometry,
				Result:   ev.Result,
				Cost:     ev.Cost,
			})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Cost != ranked[j].Cost {
			return ranked[i].Cost < ranked[j].Cost
		}
		return ranked[i].Result.LoadMargin > ranked[j].Result.LoadMargin
	})
	if len(ranked) == 0 {
		logger.Warn("no feasible design for requirement",
			"required_load", req.RequiredLoad,
			"required_speed_index", req.RequiredSpeedIndex)
	}
	return ranked, nil
}

func (s *Selector) resolveFamilies(names []string) ([]config.Family, error) {
	if len(names) == 0 {
		return s.cfg.Families, nil
	}
	byName := make(map[string]config.Family, len(s.cfg.Families))
	for _, f := range s.cfg.Families {
		byName[f.Name] = f
	}
	out := make([]config.Family, 0, len(names))
	for _, name := range names {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown family %q", name)
		}
		out = append(out, f)
	}
	return out, nil
}

// objective builds the scoring function for one requirement, wired to the
// metrics collector when one is attached.
func (s *Selector) objective(req models.Requirement) *optimize.Objective {
	obj := optimize.NewObjective(s.solver, s.suite, req)
	if s.collector != nil {
		obj = obj.WithObserver(s.collector.Backend(s.backend.Name()))
	}
	return obj
}

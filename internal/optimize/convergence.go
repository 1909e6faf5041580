package optimize

import (
	"fmt"
	"math"
	"strings"
)

// Step records the best cost after one search round.
type Step struct {
	Round int
	Cost  float64
}

// ConvergenceStrategy decides when an iterative backend should stop early.
type ConvergenceStrategy interface {
	// Check inspects the per-round history and reports convergence.
	Check(history []Step) (bool, string)
	Name() string
}

// ConvergenceConfig tunes convergence detection.
type ConvergenceConfig struct {
	// NoImprovementRounds is the number of rounds without improvement
	// before stopping.
	NoImprovementRounds int
	// Tolerance is the absolute cost change below which two rounds are
	// considered equal.
	Tolerance float64
	// MinRounds is the minimum history length before convergence can be
	// declared.
	MinRounds int
}

// DefaultConvergenceConfig returns the defaults shared by the iterative
// backends.
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		NoImprovementRounds: 5,
		Tolerance:           1e-6,
		MinRounds:           3,
	}
}

// Threshold stops as soon as the best cost drops to or below a target value.
type Threshold struct {
	cfg    ConvergenceConfig
	target float64
}

// NewThreshold returns the threshold strategy for the given target cost.
func NewThreshold(cfg ConvergenceConfig, target float64) *Threshold {
	return &Threshold{cfg: cfg, target: target}
}

func (s *Threshold) Name() string { return "threshold" }

func (s *Threshold) Check(history []Step) (bool, string) {
	if len(history) < s.cfg.MinRounds {
		return false, ""
	}
	last := history[len(history)-1]
	if last.Cost <= s.target+s.cfg.Tolerance {
		return true, fmt.Sprintf("cost %g reached target %g", last.Cost, s.target)
	}
	return false, ""
}

// Combined stops when every wrapped strategy agrees.
type Combined struct {
	strategies []ConvergenceStrategy
}

// NewCombined returns a strategy that requires all given strategies to report
// convergence.
func NewCombined(strategies ...ConvergenceStrategy) *Combined {
	return &Combined{strategies: strategies}
}

func (s *Combined) Name() string { return "combined" }

func (s *Combined) Check(history []Step) (bool, string) {
	if len(s.strategies) == 0 {
		return false, ""
	}
	reasons := make([]string, 0, len(s.strategies))
	for _, strat := range s.strategies {
		ok, reason := strat.Check(history)
		if !ok {
			return false, ""
		}
		reasons = append(reasons, reason)
	}
	return true, strings.Join(reasons, "; ")
}

// NoImprovement stops when the best cost has not improved for N rounds.
type NoImprovement struct {
	cfg ConvergenceConfig
}

// NewNoImprovement returns the no-improvement strategy.
func NewNoImprovement(cfg ConvergenceConfig) *NoImprovement {
	return &NoImprovement{cfg: cfg}
}

func (s *NoImprovement) Name() string { return "no_improvement" }

func (s *NoImprovement) Check(history []Step) (bool, string) {
	if len(history) < s.cfg.MinRounds {
		return false, ""
	}
	best := math.MaxFloat64
	bestRound := -1
	for i, step := range history {
		if step.Cost < best-s.cfg.Tolerance {
			best = step.Cost
			bestRound = i
		}
	}
	since := len(history) - 1 - bestRound
	if since >= s.cfg.NoImprovementRounds {
		return true, fmt.Sprintf("no improvement for %d rounds", since)
	}
	return false, ""
}

// Plateau stops when the last N round costs stay within tolerance of each
// other.
type Plateau struct {
	cfg ConvergenceConfig
}

// NewPlateau returns the plateau strategy.
func NewPlateau(cfg ConvergenceConfig) *Plateau {
	return &Plateau{cfg: cfg}
}

func (s *Plateau) Name() string { return "plateau" }

func (s *Plateau) Check(history []Step) (bool, string) {
	window := s.cfg.NoImprovementRounds
	if len(history) < s.cfg.MinRounds || len(history) < window {
		return false, ""
	}
	tail := history[len(history)-window:]
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, step := range tail {
		lo = math.Min(lo, step.Cost)
		hi = math.Max(hi, step.Cost)
	}
	if hi-lo <= s.cfg.Tolerance {
		return true, fmt.Sprintf("cost plateau over %d rounds", window)
	}
	return false, ""
}

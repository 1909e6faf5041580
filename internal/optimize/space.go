package optimize

import (
	"math"
	"time"

	"github.com/TireMDO-25-26/sizing-core/pkg/config"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
	"github.com/TireMDO-25-26/sizing-core/pkg/utils"
)

// Default grid steps for variables configured without one.
const (
	defaultDiameterStep  = 1.0
	defaultWidthStep     = 0.5
	defaultRimStep       = 1.0
	defaultPlyRatingStep = 2.0
)

// Space is the bounded design region one backend searches. Design vectors
// are handled as four continuous coordinates (M, N, D, PR); PR is rounded
// to an integer when a coordinate tuple is turned into a DesignVector.
type Space struct {
	Prefix     models.SizePrefix
	SpeedIndex float64

	OverallDiameter config.Range
	SectionWidth    config.Range
	RimDiameter     config.Range
	PlyRating       config.Range
}

// SpaceFromFamily builds the search space for one configured family at the
// given speed rating.
func SpaceFromFamily(f config.Family, speedIndex float64) Space {
	return Space{
		Prefix:          models.SizePrefix(f.Prefix),
		SpeedIndex:      speedIndex,
		OverallDiameter: f.OverallDiameter,
		SectionWidth:    f.SectionWidth,
		RimDiameter:     f.RimDiameter,
		PlyRating:       f.PlyRating,
	}
}

// ranges returns the coordinate bounds in vector order.
func (s Space) ranges() [4]config.Range {
	return [4]config.Range{s.OverallDiameter, s.SectionWidth, s.RimDiameter, s.PlyRating}
}

// steps returns the grid step per coordinate, substituting defaults for
// unconfigured ones.
func (s Space) steps() [4]float64 {
	defaults := [4]float64{defaultDiameterStep, defaultWidthStep, defaultRimStep, defaultPlyRatingStep}
	r := s.ranges()
	var out [4]float64
	for i := range r {
		out[i] = r[i].Step
		if out[i] <= 0 {
			out[i] = defaults[i]
		}
	}
	return out
}

// Clamp projects a coordinate tuple onto the space bounds.
func (s Space) Clamp(x [4]float64) [4]float64 {
	r := s.ranges()
	for i := range x {
		x[i] = utils.ClampFloat64(x[i], r[i].Min, r[i].Max)
	}
	return x
}

// Sample draws a uniform random coordinate tuple from the space.
func (s Space) Sample(rng *utils.RandSource) [4]float64 {
	r := s.ranges()
	var x [4]float64
	for i := range x {
		x[i] = rng.UniformFloat64(r[i].Min, r[i].Max)
	}
	return x
}

// Center returns the midpoint of the space.
func (s Space) Center() [4]float64 {
	r := s.ranges()
	var x [4]float64
	for i := range x {
		x[i] = (r[i].Min + r[i].Max) / 2
	}
	return x
}

// Design converts a coordinate tuple into a DesignVector, clamping to the
// bounds and rounding the ply rating.
func (s Space) Design(x [4]float64) models.DesignVector {
	x = s.Clamp(x)
	return models.DesignVector{
		Prefix:                 s.Prefix,
		NominalOverallDiameter: x[0],
		NominalSectionWidth:    x[1],
		RimDiameter:            x[2],
		PlyRating:              int(math.Round(x[3])),
		SpeedIndex:             s.SpeedIndex,
	}
}

// Budget bounds one backend run.
type Budget struct {
	MaxEvaluations int
	MaxRuntime     time.Duration
}

// Exhausted reports whether the budget is spent.
func (b Budget) Exhausted(evaluations int, start time.Time) bool {
	if b.MaxEvaluations > 0 && evaluations >= b.MaxEvaluations {
		return true
	}
	if b.MaxRuntime > 0 && time.Since(start) >= b.MaxRuntime {
		return true
	}
	return false
}

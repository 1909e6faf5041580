// Package tiremodel implements the empirical aircraft tire sizing relations:
// dimensional derivation from a size designation, rated load capacity from
// inflation pressure and contact geometry, carcass cord tension from the
// netting analysis, and inflation medium mass.
package tiremodel

import (
	"math"

	"github.com/TireMDO-25-26/sizing-core/pkg/models"
	"github.com/TireMDO-25-26/sizing-core/pkg/units"
	"github.com/TireMDO-25-26/sizing-core/pkg/utils"
)

// Dimensional coefficients, calibrated against published bias-tire tables.
const (
	// outsideDiaMinShrink scales the allowed new-tire diameter tolerance
	// as a fraction of section height.
	outsideDiaMinShrink = 0.06
	// widthMinFactor relates minimum to maximum section width.
	widthMinFactor = 0.96
	// shoulderDiaFactor places the shoulder diameter above the rim.
	shoulderDiaFactor = 1.7
	// shoulderWidthFactor relates shoulder width to section width.
	shoulderWidthFactor = 0.875
	// flangeHeightFactor is the flange height fraction of section height.
	flangeHeightFactor = 0.18
	// rimWidthFactor relates rim width between flanges to section width.
	rimWidthFactor = 0.75
	// treadGaugeFactor is the tread gauge fraction of section height.
	treadGaugeFactor = 0.25
	// deflectionRated and deflectionBottoming are the fractional radial
	// deflections at rated and bottoming load.
	deflectionRated     = 0.32
	deflectionBottoming = 0.84
)

// Load and structural coefficients.
const (
	// pressureCoefficient maps ply rating and section width to rated
	// inflation pressure: IP = pressureCoefficient * PR / Wm, psi.
	pressureCoefficient = 95.0
	// contactCoefficient scales the elliptic contact patch area.
	contactCoefficient = 2.3
	// bottomingLoadFactor relates bottoming load to rated load.
	bottomingLoadFactor = 3.0
	// cordDiameter is the nominal carcass cord diameter, in.
	cordDiameter = 0.04
	// cordPacking is the cord packing density across the section.
	cordPacking = 0.9
	// biasAngleDeg is the crown angle of a bias carcass.
	biasAngleDeg = 38.0
	// growthCoefficient scales tension-induced carcass growth.
	growthCoefficient = 0.04
)

// Inflation medium constants (dry nitrogen at standard temperature).
const (
	nitrogenMolarMass = 0.028    // kg/mol
	gasConstant       = 8.314462 // J/(mol K)
	standardTempK     = 288.15
)

// Config tunes the sizing model.
type Config struct {
	// CordBreakLoad is the unworn cord breaking strength, N.
	CordBreakLoad float64
	// LoadRoundingStep rounds computed rated loads to the given step in
	// lbf, matching catalog granularity. Zero disables rounding.
	LoadRoundingStep float64
	// MaxAspectRatio bounds the physical validity envelope.
	MaxAspectRatio float64
}

// DefaultConfig returns the model defaults used by the selector.
func DefaultConfig() Config {
	return Config{
		CordBreakLoad:    1200,
		LoadRoundingStep: 0,
		MaxAspectRatio:   1.2,
	}
}

// Model evaluates the sizing relations for one configuration. It is
// stateless and safe for concurrent use.
type Model struct {
	cfg Config
}

// New returns a Model with the given configuration.
func New(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// Geometry derives the full dimensional state from a design vector.
// It returns an InvalidDesignError when the vector lies outside the
// physical validity envelope.
func (m *Model) Geometry(d models.DesignVector) (models.GeometricState, error) {
	if err := m.validate(d); err != nil {
		return models.GeometricState{}, err
	}

	sh := (d.NominalOverallDiameter - d.RimDiameter) / 2

	g := models.GeometricState{
		OutsideDiameterMax: d.NominalOverallDiameter,
		OutsideDiameterMin: d.NominalOverallDiameter - outsideDiaMinShrink*sh,
		SectionWidthMax:    d.NominalSectionWidth,
		SectionWidthMin:    widthMinFactor * d.NominalSectionWidth,
		SectionHeight:      sh,
	}
	g.MeanOverallDiameter = (g.OutsideDiameterMax + g.OutsideDiameterMin) / 2
	g.MeanSectionWidth = (g.SectionWidthMax + g.SectionWidthMin) / 2
	g.AspectRatio = (g.MeanOverallDiameter - d.RimDiameter) / 2 / g.MeanSectionWidth

	g.ShoulderDiameterMax = d.RimDiameter + shoulderDiaFactor*sh
	g.ShoulderWidthMax = shoulderWidthFactor * g.SectionWidthMax

	g.FlangeHeight = flangeHeightFactor * sh
	g.OuterFlangeDiameter = d.RimDiameter + 2*g.FlangeHeight
	g.RimWidthBetweenFlanges = rimWidthFactor * d.NominalSectionWidth
	g.TreadGauge = treadGaugeFactor * sh

	halfSpan := (g.MeanOverallDiameter - g.OuterFlangeDiameter) / 2
	g.StaticLoadedRadiusRated = g.MeanOverallDiameter/2 - deflectionRated*halfSpan
	g.StaticLoadedRadiusBottoming = g.MeanOverallDiameter/2 - deflectionBottoming*halfSpan

	if g.AspectRatio <= 0 || g.AspectRatio >= m.cfg.MaxAspectRatio {
		return models.GeometricState{}, &InvalidDesignError{
			Design: d,
			Field:  "aspect_ratio",
			Reason: "outside physical envelope",
		}
	}
	return g, nil
}

func (m *Model) validate(d models.DesignVector) error {
	switch {
	case d.NominalOverallDiameter <= 0:
		return &InvalidDesignError{Design: d, Field: "overall_diameter", Reason: "must be positive"}
	case d.NominalSectionWidth <= 0:
		return &InvalidDesignError{Design: d, Field: "section_width", Reason: "must be positive"}
	case d.RimDiameter <= 0:
		return &InvalidDesignError{Design: d, Field: "rim_diameter", Reason: "must be positive"}
	case d.PlyRating < 1:
		return &InvalidDesignError{Design: d, Field: "ply_rating", Reason: "must be at least 1"}
	case d.NominalOverallDiameter <= d.RimDiameter:
		return &InvalidDesignError{Design: d, Field: "overall_diameter", Reason: "must exceed rim diameter"}
	}
	return nil
}

// RatedPressure returns the rated inflation pressure for a design, psi.
func (m *Model) RatedPressure(d models.DesignVector, g models.GeometricState) float64 {
	return pressureCoefficient * float64(d.PlyRating) / g.MeanSectionWidth
}

// ContactArea returns the rated contact patch area, in^2. The patch is an
// ellipse spanned by the radial deflection at rated load.
func (m *Model) ContactArea(g models.GeometricState) float64 {
	deflection := g.MeanOverallDiameter/2 - g.StaticLoadedRadiusRated
	return contactCoefficient * math.Sqrt(g.MeanSectionWidth*g.MeanOverallDiameter) * deflection
}

// LoadCapacity returns the rated load at the given inflation pressure, lbf.
// Load capacity is strictly increasing in pressure for a fixed geometry.
func (m *Model) LoadCapacity(g models.GeometricState, inflationPressure float64) float64 {
	lm := inflationPressure * m.ContactArea(g)
	if m.cfg.LoadRoundingStep > 0 {
		lm = utils.RoundToStep(lm, m.cfg.LoadRoundingStep)
	}
	return lm
}

// BottomingLoad returns the bottoming load for a rated load, lbf.
func (m *Model) BottomingLoad(ratedLoad float64) float64 {
	return bottomingLoadFactor * ratedLoad
}

// FiberCount returns the number of load-bearing cords across the carcass
// crown, from the packing density and nominal cord diameter.
func (m *Model) FiberCount(g models.GeometricState) float64 {
	return cordPacking * g.MeanSectionWidth / cordDiameter
}

// CordTension returns the tension in a single carcass cord under the given
// inflation pressure, N. The netting analysis distributes the pressure
// acting on the annulus between crown and flange over the cord count of
// every ply, resolved along the bias angle.
func (m *Model) CordTension(d models.DesignVector, g models.GeometricState, inflationPressure float64) float64 {
	annulus := (math.Pi / 4) * (g.MeanOverallDiameter*g.MeanOverallDiameter -
		g.OuterFlangeDiameter*g.OuterFlangeDiameter)
	cords := float64(d.PlyRating) * m.FiberCount(g)
	tensionLbf := inflationPressure * annulus / (cords * math.Cos(biasAngleDeg*math.Pi/180))
	return tensionLbf * units.LbfToNewton
}

// MaterialLimit returns the allowable cord tension at the given speed
// index, N. Cyclic heating derates the break load linearly with speed.
func (m *Model) MaterialLimit(speedIndex float64) float64 {
	return m.cfg.CordBreakLoad * (1 - speedIndex/1000)
}

// GasMass returns the mass of the nitrogen charge at the given gauge
// pressure, kg. The chamber is modeled as a torus on the mean dimensions.
func (m *Model) GasMass(g models.GeometricState, inflationPressure float64) float64 {
	ringRadius := (g.MeanOverallDiameter - g.MeanSectionWidth) / 2
	tubeRadius := g.MeanSectionWidth / 2
	volumeIn3 := 2 * math.Pi * math.Pi * ringRadius * tubeRadius * tubeRadius
	volumeM3 := units.CubicInchToCubicMeter(volumeIn3)

	pAbs := units.PsigToPaAbsolute(inflationPressure)
	moles := pAbs * volumeM3 / (gasConstant * standardTempK)
	return moles * nitrogenMolarMass
}

// ApplyGrowth fills the grown dimensions from the converged cord tension.
// Growth scales with the tension fraction of the unworn break load; the
// section grows at half the diametral rate.
func (m *Model) ApplyGrowth(g *models.GeometricState, cordTension float64) {
	frac := growthCoefficient * cordTension / m.cfg.CordBreakLoad
	g.GrownDiameter = g.MeanOverallDiameter * (1 + frac)
	g.GrownWidth = g.MeanSectionWidth * (1 + 0.5*frac)
	g.GrownShoulderDiameter = g.ShoulderDiameterMax * (1 + frac)
	g.GrownShoulderWidth = g.ShoulderWidthMax * (1 + 0.5*frac)
}

package validation

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/TireMDO-25-26/sizing-core/internal/mda"
	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/pkg/logger"
)

// FieldError summarizes the model error on one catalog column.
type FieldError struct {
	Field        string  `json:"field"`
	Count        int     `json:"count"`
	MeanAbsolute float64 `json:"mean_absolute"`
	MeanRelative float64 `json:"mean_relative"`
	MaxRelative  float64 `json:"max_relative"`
}

// LoadFit is the linear regression of predicted against published rated
// load across the catalog.
type LoadFit struct {
	Alpha    float64 `json:"alpha"`
	Beta     float64 `json:"beta"`
	RSquared float64 `json:"r_squared"`
}

// Report aggregates a model-versus-catalog comparison.
type Report struct {
	Records int          `json:"records"`
	Skipped int          `json:"skipped"`
	Fields  []FieldError `json:"fields"`
	LoadFit LoadFit      `json:"load_fit"`
}

// fieldSample accumulates prediction errors for one column.
type fieldSample struct {
	name     string
	absolute []float64
	relative []float64
}

func (s *fieldSample) add(predicted, actual float64) {
	if actual == 0 {
		return
	}
	diff := math.Abs(predicted - actual)
	s.absolute = append(s.absolute, diff)
	s.relative = append(s.relative, diff/math.Abs(actual))
}

func (s *fieldSample) summary() FieldError {
	out := FieldError{Field: s.name, Count: len(s.absolute)}
	if out.Count == 0 {
		return out
	}
	out.MeanAbsolute = stat.Mean(s.absolute, nil)
	out.MeanRelative = stat.Mean(s.relative, nil)
	for _, r := range s.relative {
		out.MaxRelative = math.Max(out.MaxRelative, r)
	}
	return out
}

// Compare runs the sizing model over every catalog record and reports the
// prediction error per published column. Records the model cannot evaluate
// are counted as skipped.
func Compare(ctx context.Context, model *tiremodel.Model, solver *mda.Solver, records []ManufacturerRecord) (*Report, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no catalog records to compare")
	}

	samples := []*fieldSample{
		{name: "Lm"}, {name: "IP"}, {name: "DoMin"}, {name: "WMin"},
		{name: "DsMax"}, {name: "WsMax"}, {name: "AR"}, {name: "LR_RL"},
		{name: "LR_BL"}, {name: "A"}, {name: "FH"}, {name: "G"}, {name: "DF"},
	}
	byName := make(map[string]*fieldSample, len(samples))
	for _, s := range samples {
		byName[s.name] = s
	}

	var predictedLoads, actualLoads []float64
	report := &Report{}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := rec.Design()
		sol, err := solver.Solve(ctx, d)
		if err != nil {
			logger.Warn("skipping catalog record", "design", d.Designation(), "error", err)
			report.Skipped++
			continue
		}
		report.Records++
		g := sol.Geometry

		predictedLoad := model.LoadCapacity(g, sol.Coupling.InflationPressure)
		byName["Lm"].add(predictedLoad, rec.RatedLoad)
		byName["IP"].add(sol.Coupling.InflationPressure, rec.RatedPressure)
		byName["DoMin"].add(g.OutsideDiameterMin, rec.OutsideDiameterMin)
		byName["WMin"].add(g.SectionWidthMin, rec.SectionWidthMin)
		byName["DsMax"].add(g.ShoulderDiameterMax, rec.ShoulderDiameter)
		byName["WsMax"].add(g.ShoulderWidthMax, rec.ShoulderWidth)
		byName["AR"].add(g.AspectRatio, rec.AspectRatio)
		byName["LR_RL"].add(g.StaticLoadedRadiusRated, rec.LoadedRadiusRated)
		byName["LR_BL"].add(g.StaticLoadedRadiusBottoming, rec.LoadedRadiusBottom)
		byName["A"].add(g.RimWidthBetweenFlanges, rec.RimWidth)
		byName["FH"].add(g.FlangeHeight, rec.FlangeHeight)
		byName["G"].add(g.TreadGauge, rec.TreadGauge)
		byName["DF"].add(g.OuterFlangeDiameter, rec.FlangeDiameter)

		predictedLoads = append(predictedLoads, predictedLoad)
		actualLoads = append(actualLoads, rec.RatedLoad)
	}

	if report.Records == 0 {
		return nil, fmt.Errorf("no catalog records could be evaluated")
	}

	for _, s := range samples {
		report.Fields = append(report.Fields, s.summary())
	}
	if len(actualLoads) >= 2 {
		alpha, beta := stat.LinearRegression(actualLoads, predictedLoads, nil, false)
		report.LoadFit = LoadFit{
			Alpha:    alpha,
			Beta:     beta,
			RSquared: stat.RSquared(actualLoads, predictedLoads, nil, alpha, beta),
		}
	}
	return report, nil
}

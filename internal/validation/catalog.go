// Package validation ingests manufacturer databook catalogs and compares
// the sizing model's predictions against the published entries.
package validation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/TireMDO-25-26/sizing-core/pkg/logger"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
	"github.com/TireMDO-25-26/sizing-core/pkg/units"
)

// ManufacturerRecord is one databook row. Required fields are always set;
// optional dimensional columns are zero when the catalog omits them.
type ManufacturerRecord struct {
	Prefix       models.SizePrefix
	Construction string

	OverallDiameter float64 // M, in
	SectionWidth    float64 // N, in
	RimDiameter     float64 // D, in
	PlyRating       int
	SpeedIndex      float64 // mph

	RatedLoad     float64 // Lm, lbf
	RatedPressure float64 // IP, psi
	BottomingLoad float64 // BL, lbf

	OutsideDiameterMax float64
	OutsideDiameterMin float64
	SectionWidthMax    float64
	SectionWidthMin    float64
	ShoulderDiameter   float64
	ShoulderWidth      float64
	AspectRatio        float64
	LoadedRadiusRated  float64
	LoadedRadiusBottom float64
	RimWidth           float64
	FlangeHeight       float64
	TreadGauge         float64
	FlangeDiameter     float64

	// Grown dimensions, published for radial catalogs.
	GrownDiameter         float64
	GrownWidth            float64
	GrownShoulderDiameter float64
	GrownShoulderWidth    float64
}

// Design returns the record's independent design vector.
func (r ManufacturerRecord) Design() models.DesignVector {
	return models.DesignVector{
		Prefix:                 r.Prefix,
		NominalOverallDiameter: r.OverallDiameter,
		NominalSectionWidth:    r.SectionWidth,
		RimDiameter:            r.RimDiameter,
		PlyRating:              r.PlyRating,
		SpeedIndex:             r.SpeedIndex,
	}
}

// LoadStats reports how a catalog load went.
type LoadStats struct {
	Parsed  int
	Skipped int
}

// requiredColumns must be present in every catalog header.
var requiredColumns = []string{"M", "N", "D", "PR", "SI", "Lm", "IP"}

// LoadCatalog reads a databook CSV. Malformed rows are logged and skipped;
// only structural failures (missing file, unusable header) are errors.
// Metric-prefixed sizes are converted to inches under the given policy.
func LoadCatalog(path, construction string, policy units.ConversionPolicy) ([]ManufacturerRecord, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()

	records, stats, err := ReadCatalog(f, construction, policy)
	if err != nil {
		return nil, stats, fmt.Errorf("catalog %s: %w", path, err)
	}
	return records, stats, nil
}

// ReadCatalog parses databook CSV content.
func ReadCatalog(r io.Reader, construction string, policy units.ConversionPolicy) ([]ManufacturerRecord, LoadStats, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, LoadStats{}, fmt.Errorf("missing required column %q", name)
		}
	}

	var out []ManufacturerRecord
	var stats LoadStats
	line := 1
	for {
		line++
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("skipping malformed catalog row", "line", line, "error", err)
			stats.Skipped++
			continue
		}
		rec, err := parseRecord(cols, row, construction, policy)
		if err != nil {
			logger.Warn("skipping malformed catalog row", "line", line, "error", err)
			stats.Skipped++
			continue
		}
		out = append(out, rec)
		stats.Parsed++
	}
	return out, stats, nil
}

func parseRecord(cols map[string]int, row []string, construction string, policy units.ConversionPolicy) (ManufacturerRecord, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	reqFloat := func(name string) (float64, error) {
		s := field(name)
		if s == "" {
			return 0, fmt.Errorf("column %s is empty", name)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", name, err)
		}
		return v, nil
	}
	optFloat := func(name string) float64 {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			return 0
		}
		return v
	}

	var rec ManufacturerRecord
	rec.Construction = construction
	rec.Prefix = models.SizePrefix(field("Pre"))

	var err error
	if rec.OverallDiameter, err = reqFloat("M"); err != nil {
		return rec, err
	}
	if rec.SectionWidth, err = reqFloat("N"); err != nil {
		return rec, err
	}
	if rec.RimDiameter, err = reqFloat("D"); err != nil {
		return rec, err
	}
	pr, err := reqFloat("PR")
	if err != nil {
		return rec, err
	}
	rec.PlyRating = int(pr)
	// Metric designations publish overall diameter and section width in
	// millimeters; the rim diameter is already in inches.
	if rec.Prefix == models.PrefixMetric {
		rec.OverallDiameter = policy.MetricToInch(rec.OverallDiameter)
		rec.SectionWidth = policy.MetricToInch(rec.SectionWidth)
	}
	if rec.SpeedIndex, err = units.ParseSpeedIndex(field("SI")); err != nil {
		return rec, fmt.Errorf("column SI: %w", err)
	}
	if rec.RatedLoad, err = reqFloat("Lm"); err != nil {
		return rec, err
	}
	if rec.RatedPressure, err = reqFloat("IP"); err != nil {
		return rec, err
	}
	if rec.OverallDiameter <= rec.RimDiameter {
		return rec, fmt.Errorf("overall diameter %v not above rim diameter %v", rec.OverallDiameter, rec.RimDiameter)
	}
	if rec.RatedLoad <= 0 || rec.RatedPressure <= 0 {
		return rec, fmt.Errorf("non-positive rating: Lm=%v IP=%v", rec.RatedLoad, rec.RatedPressure)
	}

	rec.BottomingLoad = optFloat("BL")
	rec.OutsideDiameterMax = optFloat("DoMax")
	rec.OutsideDiameterMin = optFloat("DoMin")
	rec.SectionWidthMax = optFloat("WMax")
	rec.SectionWidthMin = optFloat("WMin")
	rec.ShoulderDiameter = optFloat("DsMax")
	rec.ShoulderWidth = optFloat("WsMax")
	rec.AspectRatio = optFloat("AR")
	rec.LoadedRadiusRated = optFloat("LR_RL")
	rec.LoadedRadiusBottom = optFloat("LR_BL")
	rec.RimWidth = optFloat("A")
	rec.FlangeHeight = optFloat("FH")
	rec.TreadGauge = optFloat("G")
	rec.FlangeDiameter = optFloat("DF")
	rec.GrownDiameter = optFloat("DG")
	rec.GrownWidth = optFloat("WG")
	rec.GrownShoulderDiameter = optFloat("DSG")
	rec.GrownShoulderWidth = optFloat("WSG")
	return rec, nil
}

package validation

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/TireMDO-25-26/sizing-core/internal/mda"
	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/pkg/units"
)

const sampleCatalog = `Pre,M,N,D,PR,SI,Lm,IP,BL,DoMax,DoMin,WMax,WMin,DsMax,WsMax,AR,LR_RL,LR_BL,A,FH,G,DF
,21.25,7.20,10,10,210,5150,135,15450,21.25,20.60,7.20,6.80,19.25,6.35,0.78,9,6.8,5.50,1,1.4,12
,40,14,16,24,225,26000,165,78000,40,39.28,14,13.44,36.4,12.25,0.86,18.1,13.6,10.5,2.16,3,20.3
,not-a-number,14,16,24,225,26000,165,,,,,,,,,,,,,,
,15,5.5,6,8,195kt,2800,130,,,,,,,,,,,,,,
`

func TestReadCatalog(t *testing.T) {
	records, stats, err := ReadCatalog(strings.NewReader(sampleCatalog), "bias", units.PolicyExact)
	if err != nil {
		t.Fatalf("ReadCatalog failed: %v", err)
	}
	if stats.Parsed != 3 || stats.Skipped != 1 {
		t.Fatalf("expected 3 parsed and 1 skipped, got %+v", stats)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.OverallDiameter != 21.25 || first.PlyRating != 10 || first.RatedLoad != 5150 {
		t.Errorf("first record fields wrong: %+v", first)
	}
	if first.Construction != "bias" {
		t.Errorf("expected construction bias, got %q", first.Construction)
	}
	if first.FlangeDiameter != 12 {
		t.Errorf("optional column DF not parsed: %v", first.FlangeDiameter)
	}
	if d := first.Design().Designation(); d != "21.25x7.2-10" {
		t.Errorf("unexpected designation %q", d)
	}

	// Knot-rated speed indexes convert to mph.
	if si := records[2].SpeedIndex; si < 224 || si > 225 {
		t.Errorf("expected 195kt near 224.4 mph, got %v", si)
	}
}

func TestReadCatalogMetricConversion(t *testing.T) {
	// 615x225-10: overall diameter and section width published in mm,
	// rim diameter in inches.
	const metricRow = "Pre,M,N,D,PR,SI,Lm,IP\n*,615,225,10,14,210,9650,180\n"

	records, _, err := ReadCatalog(strings.NewReader(metricRow), "radial", units.PolicyNearestQuarter)
	if err != nil {
		t.Fatalf("ReadCatalog failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.OverallDiameter != 24.25 || rec.SectionWidth != 8.75 {
		t.Errorf("expected 615x225 rounded to 24.25x8.75 in, got %vx%v",
			rec.OverallDiameter, rec.SectionWidth)
	}
	if rec.RimDiameter != 10 {
		t.Errorf("rim diameter must stay in inches, got %v", rec.RimDiameter)
	}

	exact, _, err := ReadCatalog(strings.NewReader(metricRow), "radial", units.PolicyExact)
	if err != nil {
		t.Fatalf("ReadCatalog failed: %v", err)
	}
	if d := exact[0].OverallDiameter; math.Abs(d-615/25.4) > 1e-9 {
		t.Errorf("exact policy must not round: got %v", d)
	}
}

func TestReadCatalogMissingColumn(t *testing.T) {
	_, _, err := ReadCatalog(strings.NewReader("Pre,M,N,D\n,21,7,10\n"), "bias", units.PolicyExact)
	if err == nil || !strings.Contains(err.Error(), "missing required column") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	records, _, err := ReadCatalog(strings.NewReader(sampleCatalog), "bias", units.PolicyExact)
	if err != nil {
		t.Fatalf("ReadCatalog failed: %v", err)
	}

	model := tiremodel.New(tiremodel.DefaultConfig())
	solver := mda.New(model, mda.DefaultConfig())
	report, err := Compare(context.Background(), model, solver, records)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if report.Records != 3 {
		t.Fatalf("expected 3 compared records, got %d", report.Records)
	}

	var load *FieldError
	for i := range report.Fields {
		if report.Fields[i].Field == "Lm" {
			load = &report.Fields[i]
		}
	}
	if load == nil || load.Count == 0 {
		t.Fatal("expected rated load errors in report")
	}
	if load.MeanRelative > 0.15 {
		t.Errorf("rated load mean relative error %v exceeds 15%%", load.MeanRelative)
	}
	if report.LoadFit.Beta <= 0 {
		t.Errorf("expected positive load regression slope, got %v", report.LoadFit.Beta)
	}
}

func TestCompareEmpty(t *testing.T) {
	model := tiremodel.New(tiremodel.DefaultConfig())
	solver := mda.New(model, mda.DefaultConfig())
	if _, err := Compare(context.Background(), model, solver, nil); err == nil {
		t.Fatal("expected error for empty record set")
	}
}

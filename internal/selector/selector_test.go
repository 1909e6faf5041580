package selector

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/internal/validation"
	"github.com/TireMDO-25-26/sizing-core/pkg/config"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
	"github.com/TireMDO-25-26/sizing-core/pkg/units"
)

// testConfig keeps the search space small enough for fast exhaustive runs.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Families = []config.Family{
		{
			Name:            "bias-small",
			Construction:    "bias",
			OverallDiameter: config.Range{Min: 18, Max: 24, Step: 2},
			SectionWidth:    config.Range{Min: 6, Max: 8, Step: 1},
			RimDiameter:     config.Range{Min: 8, Max: 12, Step: 2},
			PlyRating:       config.Range{Min: 8, Max: 12, Step: 2},
		},
		{
			Name:            "bias-large",
			Construction:    "bias",
			OverallDiameter: config.Range{Min: 36, Max: 44, Step: 4},
			SectionWidth:    config.Range{Min: 12, Max: 16, Step: 2},
			RimDiameter:     config.Range{Min: 14, Max: 18, Step: 2},
			PlyRating:       config.Range{Min: 16, Max: 28, Step: 4},
		},
	}
	return cfg
}

func TestSelectRanksAcrossFamilies(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	req := models.Requirement{RequiredLoad: 4000, RequiredSpeedIndex: 210}
	ranked, err := s.Select(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(ranked) == 0 {
		t.Fatal("expected feasible designs")
	}
	families := make(map[string]bool)
	for i, rd := range ranked {
		families[rd.Family] = true
		if rd.Result.RatedLoad < req.RequiredLoad {
			t.Errorf("ranked design %s rated %v below requirement", rd.Design.Designation(), rd.Result.RatedLoad)
		}
		if i > 0 && rd.Cost < ranked[i-1].Cost {
			t.Fatalf("ranking not sorted at %d", i)
		}
	}
	// Both regions carry 4000 lbf, so both families contribute.
	if !families["bias-small"] || !families["bias-large"] {
		t.Errorf("expected designs from both families, got %v", families)
	}
	// Small tires are lighter; the best design must come from them.
	if ranked[0].Family != "bias-small" {
		t.Errorf("expected bias-small to win on mass, got %s", ranked[0].Family)
	}
}

func TestSelectDeterministicWithGrid(t *testing.T) {
	req := models.Requirement{RequiredLoad: 8000, RequiredSpeedIndex: 200}
	run := func() []models.RankedDesign {
		t.Helper()
		s, err := New(testConfig())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		ranked, err := s.Select(context.Background(), req, nil)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		return ranked
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("grid selection must be deterministic (-first +second):\n%s", diff)
	}
}

func TestSelectEmptyResultIsNormal(t *testing.T) {
	cfg := testConfig()
	cfg.Families = cfg.Families[:1] // small tires only
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ranked, err := s.Select(context.Background(), models.Requirement{
		RequiredLoad:       60000,
		RequiredSpeedIndex: 200,
	}, nil)
	if err != nil {
		t.Fatalf("Select must not fail on an over-constrained requirement: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected empty ranking, got %d designs", len(ranked))
	}
}

func TestSelectFamilyFilter(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	req := models.Requirement{RequiredLoad: 4000, RequiredSpeedIndex: 210}
	ranked, err := s.Select(context.Background(), req, []string{"bias-large"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	for _, rd := range ranked {
		if rd.Family != "bias-large" {
			t.Fatalf("unexpected family %s in filtered selection", rd.Family)
		}
	}

	if _, err := s.Select(context.Background(), req, []string{"no-such-family"}); err == nil {
		t.Error("expected error for unknown family")
	}
}

func TestSelectRejectsBadRequirement(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := s.Select(context.Background(), models.Requirement{RequiredLoad: -1, RequiredSpeedIndex: 100}, nil); err == nil {
		t.Error("expected error for negative load")
	}
	if _, err := s.Select(context.Background(), models.Requirement{RequiredLoad: 1000}, nil); err == nil {
		t.Error("expected error for missing speed index")
	}
}

func TestSearchDatabook(t *testing.T) {
	records, _, err := validation.ReadCatalog(strings.NewReader(
		"Pre,M,N,D,PR,SI,Lm,IP\n"+
			",21.25,7.20,10,10,210,5150,135\n"+
			",40,14,16,24,225,26000,165\n"+
			",15,5.5,6,8,160,2800,130\n"), "bias", units.PolicyExact)
	if err != nil {
		t.Fatalf("ReadCatalog failed: %v", err)
	}

	model := tiremodel.New(tiremodel.DefaultConfig())
	matches := SearchDatabook(model, records, models.Requirement{RequiredLoad: 5000, RequiredSpeedIndex: 200})
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	// Lightest inflation charge first: the 21 in tire, not the 40 in one.
	if matches[0].Record.RatedLoad != 5150 {
		t.Errorf("expected 5150 lbf entry first, got %v", matches[0].Record.RatedLoad)
	}
	if matches[0].GasMass <= 0 || matches[0].GasMass >= matches[1].GasMass {
		t.Errorf("matches must rank by ascending gas mass, got %v then %v",
			matches[0].GasMass, matches[1].GasMass)
	}
	if matches[0].LoadMargin != 150 {
		t.Errorf("expected load margin 150, got %v", matches[0].LoadMargin)
	}

	if got := SearchDatabook(model, records, models.Requirement{RequiredLoad: 50000, RequiredSpeedIndex: 200}); len(got) != 0 {
		t.Errorf("expected no matches for 50000 lbf, got %d", len(got))
	}
}

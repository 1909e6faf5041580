package disciplines

import (
	"context"
	"testing"

	"github.com/TireMDO-25-26/sizing-core/internal/mda"
	"github.com/TireMDO-25-26/sizing-core/internal/tiremodel"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

func solvedInput(t *testing.T, d models.DesignVector, req models.Requirement) Input {
	t.Helper()
	model := tiremodel.New(tiremodel.DefaultConfig())
	sol, err := mda.New(model, mda.DefaultConfig()).Solve(context.Background(), d)
	if err != nil {
		t.Fatalf("coupling solve failed: %v", err)
	}
	return Input{Design: d, Geometry: sol.Geometry, Coupling: sol.Coupling, Requirement: req}
}

func TestSuiteFeasibleCandidate(t *testing.T) {
	d := models.DesignVector{
		NominalOverallDiameter: 21.25,
		NominalSectionWidth:    7.20,
		RimDiameter:            10,
		PlyRating:              10,
		SpeedIndex:             210,
	}
	req := models.Requirement{RequiredLoad: 4000, RequiredSpeedIndex: 210}
	in := solvedInput(t, d, req)

	suite := NewSuite(tiremodel.New(tiremodel.DefaultConfig()))
	res, err := suite.Evaluate(context.Background(), in)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !res.Feasible {
		t.Fatalf("expected feasible candidate, violated: %v", res.Violated)
	}
	if res.RatedLoad < req.RequiredLoad {
		t.Errorf("rated load %v below requirement %v", res.RatedLoad, req.RequiredLoad)
	}
	if res.LoadMargin != res.RatedLoad-req.RequiredLoad {
		t.Errorf("load margin mismatch: %v", res.LoadMargin)
	}
	if res.MassEstimate <= 0 {
		t.Errorf("expected positive mass estimate, got %v", res.MassEstimate)
	}
	if res.CordTensionMargin <= 0 {
		t.Errorf("expected positive tension margin, got %v", res.CordTensionMargin)
	}
}

func TestSuiteLoadViolation(t *testing.T) {
	d := models.DesignVector{
		NominalOverallDiameter: 21.25,
		NominalSectionWidth:    7.20,
		RimDiameter:            10,
		PlyRating:              10,
		SpeedIndex:             210,
	}
	// A requirement no 21 in tire can carry.
	req := models.Requirement{RequiredLoad: 50000, RequiredSpeedIndex: 210}
	in := solvedInput(t, d, req)

	suite := NewSuite(tiremodel.New(tiremodel.DefaultConfig()))
	res, err := suite.Evaluate(context.Background(), in)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Feasible {
		t.Fatal("expected infeasible candidate")
	}
	if !res.Violates(models.ConstraintLoadCapacity) {
		t.Errorf("expected load_capacity violation, got %v", res.Violated)
	}
	if res.LoadMargin >= 0 {
		t.Errorf("expected negative load margin, got %v", res.LoadMargin)
	}
}

func TestSuiteMechanicalViolation(t *testing.T) {
	d := models.DesignVector{
		NominalOverallDiameter: 40,
		NominalSectionWidth:    14,
		RimDiameter:            16,
		PlyRating:              4, // thin carcass on a large section
		SpeedIndex:             225,
	}
	req := models.Requirement{RequiredLoad: 1000, RequiredSpeedIndex: 950}
	in := solvedInput(t, d, req)

	suite := NewSuite(tiremodel.New(tiremodel.DefaultConfig()))
	res, err := suite.Evaluate(context.Background(), in)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	// At 950 mph the derated limit is 60 N, below any realistic tension.
	if !res.Violates(models.ConstraintMechanical) {
		t.Errorf("expected mechanical violation, got %v", res.Violated)
	}
	if res.Feasible {
		t.Error("expected infeasible candidate")
	}
}

func TestGeometricEnvelope(t *testing.T) {
	ev := &GeometricEnvelope{}
	tests := []struct {
		name     string
		geometry models.GeometricState
		design   models.DesignVector
		want     []models.ConstraintKind
	}{
		{
			name: "inside envelope",
			geometry: models.GeometricState{
				MeanOverallDiameter: 21.0,
				OuterFlangeDiameter: 12.0,
				AspectRatio:         0.78,
			},
			design: models.DesignVector{RimDiameter: 10},
			want:   nil,
		},
		{
			name: "flange span too small",
			geometry: models.GeometricState{
				MeanOverallDiameter: 14.0,
				OuterFlangeDiameter: 12.0,
				AspectRatio:         0.78,
			},
			design: models.DesignVector{RimDiameter: 10},
			want:   []models.ConstraintKind{models.ConstraintFlange},
		},
		{
			name: "aspect ratio below catalog range",
			geometry: models.GeometricState{
				MeanOverallDiameter: 21.0,
				OuterFlangeDiameter: 12.0,
				AspectRatio:         0.35,
			},
			design: models.DesignVector{RimDiameter: 10},
			want:   []models.ConstraintKind{models.ConstraintAspectRatio},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res models.FeasibilityResult
			in := Input{Design: tt.design, Geometry: tt.geometry}
			if err := ev.Evaluate(context.Background(), in, &res); err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if len(res.Violated) != len(tt.want) {
				t.Fatalf("expected violations %v, got %v", tt.want, res.Violated)
			}
			for i, k := range tt.want {
				if res.Violated[i] != k {
					t.Errorf("expected violation %s, got %s", k, res.Violated[i])
				}
			}
		})
	}
}

func TestEvaluatorNames(t *testing.T) {
	model := tiremodel.New(tiremodel.DefaultConfig())
	suite := NewSuite(model)
	seen := make(map[string]bool)
	for _, ev := range suite.evaluators {
		if ev.Name() == "" {
			t.Error("evaluator with empty name")
		}
		if seen[ev.Name()] {
			t.Errorf("duplicate evaluator name %s", ev.Name())
		}
		seen[ev.Name()] = true
	}
}

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector()
	obs := c.Backend("grid")
	obs.ObserveEvaluation(true)
	obs.ObserveEvaluation(false)
	obs.ObserveDivergence()
	obs.ObserveSolveIterations(4)
	c.ObserveSelection("completed", 250*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`tired_evaluations_total{backend="grid",feasible="true"} 1`,
		`tired_evaluations_total{backend="grid",feasible="false"} 1`,
		`tired_coupling_divergences_total{backend="grid"} 1`,
		`tired_selections_total{status="completed"} 1`,
		"tired_coupling_iterations",
		"tired_selection_duration_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollectorIsolatedRegistries(t *testing.T) {
	// Two collectors must not share state through a default registry.
	a, b := NewCollector(), NewCollector()
	a.Backend("grid").ObserveEvaluation(true)

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if strings.Contains(rec.Body.String(), `backend="grid"`) {
		t.Error("collector state leaked across registries")
	}
}

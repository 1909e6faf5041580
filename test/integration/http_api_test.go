//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TireMDO-25-26/sizing-core/internal/metrics"
	"github.com/TireMDO-25-26/sizing-core/internal/selector"
	"github.com/TireMDO-25-26/sizing-core/internal/tired"
	"github.com/TireMDO-25-26/sizing-core/pkg/config"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

// TestIntegration_HTTPSelectionRoundTrip drives the daemon API end to end
// against a live test server.
func TestIntegration_HTTPSelectionRoundTrip(t *testing.T) {
	cfg := loadRepoConfig(t)
	cfg.Families = []config.Family{{
		Name:            "bias-standard",
		Construction:    "bias",
		OverallDiameter: config.Range{Min: 18, Max: 26, Step: 2},
		SectionWidth:    config.Range{Min: 6, Max: 9, Step: 1},
		RimDiameter:     config.Range{Min: 8, Max: 14, Step: 2},
		PlyRating:       config.Range{Min: 8, Max: 16, Step: 2},
	}}

	sel, err := selector.New(cfg)
	if err != nil {
		t.Fatalf("selector.New failed: %v", err)
	}
	collector := metrics.NewCollector()
	sel = sel.WithCollector(collector)
	store := tired.NewJobStore()
	executor := tired.NewExecutor(store, sel).WithCollector(collector)
	srv := httptest.NewServer(tired.NewHTTPServer(store, executor, sel).WithMetrics(collector).Handler())
	defer srv.Close()

	body, _ := json.Marshal(map[string]any{
		"requirement": map[string]any{
			"required_load":        4500,
			"required_speed_index": 200,
		},
	})
	resp, err := http.Post(srv.URL+"/v1/selections", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/selections failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	var created struct {
		Job models.SelectionJob `json:"job"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	var job models.SelectionJob
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		r, err := http.Get(srv.URL + "/v1/selections/" + created.Job.ID)
		if err != nil {
			t.Fatalf("GET job failed: %v", err)
		}
		var fetched struct {
			Job models.SelectionJob `json:"job"`
		}
		err = json.NewDecoder(r.Body).Decode(&fetched)
		r.Body.Close()
		if err != nil {
			t.Fatalf("decoding job: %v", err)
		}
		job = fetched.Job
		if job.Status.Terminal() {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if job.Status != models.JobStatusCompleted {
		t.Fatalf("expected completed job, got %s (%s)", job.Status, job.Error)
	}
	if len(job.Rankings) == 0 {
		t.Fatal("expected rankings on completed job")
	}

	// Published baseline for the same requirement.
	reqBody, _ := json.Marshal(models.Requirement{RequiredLoad: 4500, RequiredSpeedIndex: 200})
	dbResp, err := http.Post(srv.URL+"/v1/databook/search", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /v1/databook/search failed: %v", err)
	}
	defer dbResp.Body.Close()
	if dbResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", dbResp.StatusCode)
	}
	var db struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(dbResp.Body).Decode(&db); err != nil {
		t.Fatalf("decoding databook response: %v", err)
	}
	if db.Count == 0 {
		t.Error("expected databook matches for 4500 lbf at 200 mph")
	}

	// The run leaves traces on /metrics.
	mResp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer mResp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(mResp.Body); err != nil {
		t.Fatalf("reading metrics: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("tired_evaluations_total")) {
		t.Error("metrics output missing evaluation counters")
	}
}

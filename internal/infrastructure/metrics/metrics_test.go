package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSimulation(t *testing.T) {
	m := New()
	m.ObserveSimulation("AR", OutcomeOK, 12)
	m.ObserveSimulation("AR", OutcomeOK, 24)
	m.ObserveSimulation("AR", OutcomeRejected, 0)

	if got := testutil.ToFloat64(m.simulations.WithLabelValues("AR", OutcomeOK)); got != 2 {
		t.Errorf("ok simulations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.simulations.WithLabelValues("AR", OutcomeRejected)); got != 1 {
		t.Errorf("rejected simulations = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.options); n != 1 {
		t.Errorf("options histogram series = %d, want 1", n)
	}
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodPost, "/financing-simulations", http.StatusCreated, 15*time.Millisecond)

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/financing-simulations", "201")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSimulation("CL", OutcomeOK, 9)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `kavak_credito_simulations_total{country="CL",outcome="ok"} 1`) {
		t.Fatalf("exposition missing simulation counter:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("runtime collector not registered")
	}
}

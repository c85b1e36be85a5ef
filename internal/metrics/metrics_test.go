package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape returned %d", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("reading scrape: %v", err)
	}
	return string(body)
}

func TestObserveReport(t *testing.T) {
	m := New()
	m.ObserveReport(analysis.FilterStats{analysis.Accepted: 3, analysis.RejectWrongYear: 2}, 0.01)
	m.ObserveReport(analysis.FilterStats{analysis.Accepted: 1}, 0.01)

	out := scrape(t, m)
	for _, want := range []string{
		`ytm_wrapped_events_total{verdict="accepted"} 4`,
		`ytm_wrapped_events_total{verdict="wrong_year"} 2`,
		`ytm_wrapped_reports_built_total 2`,
		`ytm_wrapped_report_build_seconds_count 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in scrape", want)
		}
	}
}

func TestInstrumentHandler(t *testing.T) {
	m := New()
	h := m.InstrumentHandler("wrapped", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/wrapped", nil))

	m.ObserveArtwork("itunes", "hit")

	out := scrape(t, m)
	for _, want := range []string{
		`ytm_wrapped_http_requests_total{code="400",handler="wrapped"} 1`,
		`ytm_wrapped_http_request_duration_seconds_count{handler="wrapped"} 1`,
		`ytm_wrapped_artwork_lookups_total{result="hit",source="itunes"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in scrape", want)
		}
	}
}

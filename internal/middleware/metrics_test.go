package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrument_LabelsUseRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument)
	r.Get("/api/tickets/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/api/tickets/t1", "/api/tickets/t2", "/api/tickets/t3"} {
		req := httptest.NewRequest("GET", path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/tickets/{id}", "200"))
	if got != 3 {
		t.Errorf("pattern-labelled count = %v; want 3", got)
	}

	// Raw ids must never become label values.
	for _, path := range []string{"/api/tickets/t1", "/api/tickets/t2", "/api/tickets/t3"} {
		if n := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", path, "200")); n != 0 {
			t.Errorf("raw path %q recorded %v times as a label", path, n)
		}
	}
}

func TestInstrument_UnroutedRequestFoldsIntoOneLabel(t *testing.T) {
	plain := Instrument(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	plain.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nope/a", nil))
	plain.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nope/b", nil))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	if got != 2 {
		t.Errorf("unmatched count = %v; want 2", got)
	}
}

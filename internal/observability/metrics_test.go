package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/recipebook-backend/internal/domain"
)

func TestObserveLookupCountsMissing(t *testing.T) {
	m := NewMetrics()
	m.ObserveLookup(domain.KindIngredient, 3, 2)
	m.ObserveLookup(domain.KindIngredient, 1, 1)

	if got := testutil.ToFloat64(m.refLookups.WithLabelValues("ingredient")); got != 2 {
		t.Fatalf("lookups = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.refRequested.WithLabelValues("ingredient")); got != 4 {
		t.Fatalf("requested = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.refMissing.WithLabelValues("ingredient")); got != 1 {
		t.Fatalf("missing = %v, want 1", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI(http.MethodGet, "/api/recipes", domain.KindRecipe, "200", "", 5*time.Millisecond)
	m.ObserveAPI(http.MethodPost, "/api/recipes", domain.KindRecipe, "400", "missing_references", time.Millisecond)
	m.ObserveOperation(domain.KindRecipe, "list", "ok", time.Millisecond)
	m.ObserveChange(domain.Change{Kind: domain.KindRecipe, Action: domain.ChangeCreated}, errors.New("down"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`recipebook_http_requests_total{kind="recipe",method="GET",route="/api/recipes",status="200"} 1`,
		`recipebook_http_error_responses_total{code="missing_references",kind="recipe"} 1`,
		`recipebook_catalog_operations_total{kind="recipe",op="list",outcome="ok"} 1`,
		`recipebook_change_events_total{action="created",kind="recipe",outcome="failed"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "", "200", "", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.IncRateLimited()
	m.ObserveLookup(domain.KindRecipe, 1, 0)
	m.ObserveOperation(domain.KindRecipe, "get", "ok", time.Millisecond)
	m.ObserveChange(domain.Change{}, nil)
}

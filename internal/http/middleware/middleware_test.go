package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/platform/apierr"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

func serve(r *gin.Engine, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitRejectsOverBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(0.001, 1, observability.NewMetrics()))
	r.GET("/api/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })

	if rec := serve(r, http.MethodGet, "/api/recipes", nil); rec.Code != http.StatusOK {
		t.Fatalf("first request: got=%d want=%d", rec.Code, http.StatusOK)
	}
	rec := serve(r, http.MethodGet, "/api/recipes", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got=%d want=%d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if !strings.Contains(rec.Body.String(), `"code":"rate_limited"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(0, 0, nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		if rec := serve(r, http.MethodGet, "/x", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: got=%d", i, rec.Code)
		}
	}
}

func TestTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext(), NoStore())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, http.MethodGet, "/x", map[string]string{headerRequestID: "req-1"})
	if got := rec.Header().Get(headerRequestID); got != "req-1" {
		t.Fatalf("request id: got=%q", got)
	}
	if rec.Header().Get(headerTraceID) == "" {
		t.Fatalf("expected a generated trace id")
	}
	if rec.Header().Get("Cache-Control") != "no-store" || rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing cache headers: %v", rec.Header())
	}
}

func TestTraceContextTagsSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	r := gin.New()
	r.Use(otelgin.Middleware("recipebook-test", otelgin.WithTracerProvider(tp)), AttachTraceContext())
	r.GET("/api/ingredients/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, http.MethodGet, "/api/ingredients/abc", map[string]string{headerRequestID: "req-7"})
	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[attrRequestID] != "req-7" || attrs[attrCatalogKind] != "ingredient" {
		t.Fatalf("unexpected span attributes %v", attrs)
	}
	if got := rec.Header().Get(headerTraceID); got != spans[0].SpanContext().TraceID().String() {
		t.Fatalf("trace id header %q does not match span %s", got, spans[0].SpanContext().TraceID())
	}
}

func TestRouteKind(t *testing.T) {
	tests := map[string]domain.Kind{
		"/api/recipes":         domain.KindRecipe,
		"/api/recipes/:id":     domain.KindRecipe,
		"/api/ingredients/:id": domain.KindIngredient,
		"/api/nutritions":      domain.KindNutrition,
		"/api/unknown":         "",
		"/graphql":             "",
		"":                     "",
	}
	for route, want := range tests {
		if got := routeKind(route); got != want {
			t.Fatalf("routeKind(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestMetricsLabelsKindAndErrorCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/recipes", func(c *gin.Context) {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeReferential, errors.New("missing ingredients"))
	})

	serve(r, http.MethodGet, "/api/recipes", nil)
	serve(r, http.MethodPost, "/api/recipes", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`recipebook_http_requests_total{kind="recipe",method="GET",route="/api/recipes",status="200"} 1`,
		`recipebook_http_requests_total{kind="recipe",method="POST",route="/api/recipes",status="400"} 1`,
		`recipebook_http_error_responses_total{code="missing_references",kind="recipe"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestRequestLoggerLevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestLogger(logger.NewFromCore(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, http.MethodGet, "/ok", nil)
	serve(r, http.MethodGet, "/missing", nil)
	serve(r, http.MethodGet, "/boom", nil)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("entry %d: level=%s want=%s", i, e.Level, want[i])
		}
	}
}

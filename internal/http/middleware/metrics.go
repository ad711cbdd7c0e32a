package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/observability"
)

var catalogKinds = []domain.Kind{domain.KindRecipe, domain.KindIngredient, domain.KindNutrition}

// Metrics records request counts and latency per route and catalog kind, and
// counts error responses by their envelope code.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.ObserveAPI(
			c.Request.Method,
			route,
			routeKind(route),
			strconv.Itoa(c.Writer.Status()),
			c.GetString(response.ErrorCodeKey),
			time.Since(start),
		)
	}
}

// routeKind maps a REST route pattern such as /api/recipes/:id to its
// catalog kind. Other routes have no kind.
func routeKind(route string) domain.Kind {
	rest, ok := strings.CutPrefix(route, "/api/")
	if !ok {
		return ""
	}
	collection, _, _ := strings.Cut(rest, "/")
	for _, k := range catalogKinds {
		if k.Collection() == collection {
			return k
		}
	}
	return ""
}

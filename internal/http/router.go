package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/recipebook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/recipebook-backend/internal/http/middleware"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	RecipeHandler     *httpH.RecipeHandler
	IngredientHandler *httpH.IngredientHandler
	NutritionHandler  *httpH.NutritionHandler
	GraphQLHandler    *httpH.GraphQLHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.NoStore())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Metrics
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	limited := r.Group("/")
	limited.Use(httpMW.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Metrics))

	// GraphQL
	if cfg.GraphQLHandler != nil {
		limited.GET("/graphql", cfg.GraphQLHandler.Serve)
		limited.POST("/graphql", cfg.GraphQLHandler.Serve)
	}

	api := limited.Group("/api")
	{
		// Recipes
		if cfg.RecipeHandler != nil {
			api.GET("/recipes", cfg.RecipeHandler.List)
			api.POST("/recipes", cfg.RecipeHandler.Create)
			api.GET("/recipes/:id", cfg.RecipeHandler.Get)
			api.PUT("/recipes/:id", cfg.RecipeHandler.Replace)
			api.PATCH("/recipes/:id", cfg.RecipeHandler.Update)
			api.DELETE("/recipes/:id", cfg.RecipeHandler.Delete)
		}

		// Ingredients
		if cfg.IngredientHandler != nil {
			api.GET("/ingredients", cfg.IngredientHandler.List)
			api.POST("/ingredients", cfg.IngredientHandler.Create)
			api.GET("/ingredients/:id", cfg.IngredientHandler.Get)
			api.PUT("/ingredients/:id", cfg.IngredientHandler.Replace)
			api.PATCH("/ingredients/:id", cfg.IngredientHandler.Update)
			api.DELETE("/ingredients/:id", cfg.IngredientHandler.Delete)
		}

		// Nutritions
		if cfg.NutritionHandler != nil {
			api.GET("/nutritions", cfg.NutritionHandler.List)
			api.POST("/nutritions", cfg.NutritionHandler.Create)
			api.GET("/nutritions/:id", cfg.NutritionHandler.Get)
			api.PUT("/nutritions/:id", cfg.NutritionHandler.Replace)
			api.PATCH("/nutritions/:id", cfg.NutritionHandler.Update)
			api.DELETE("/nutritions/:id", cfg.NutritionHandler.Delete)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
	})

	return r
}

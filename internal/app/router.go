package app

import (
	apphttp "github.com/yungbote/recipebook-backend/internal/http"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.Otel.ServiceName,
		TracingEnabled:    cfg.Otel.Enabled,
		AllowedOrigins:    cfg.AllowedOrigins,
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
		RecipeHandler:     handlers.Recipe,
		IngredientHandler: handlers.Ingredient,
		NutritionHandler:  handlers.Nutrition,
		GraphQLHandler:    handlers.GraphQL,
		HealthHandler:     handlers.Health,
	})
}

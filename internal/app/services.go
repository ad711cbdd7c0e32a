package app

import (
	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/query"
	"github.com/yungbote/recipebook-backend/internal/resolve"
	"github.com/yungbote/recipebook-backend/internal/services"
)

type Services struct {
	Recipes     services.RecipeService
	Ingredients services.IngredientService
	Nutritions  services.NutritionService
}

func wireServices(log *logger.Logger, cfg Config, set repos.Set, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	opts := []resolve.Option{
		resolve.WithDefaultDepth(cfg.ResolveDepth),
		resolve.WithMaxDepth(cfg.ResolveMaxDepth),
	}
	if metrics != nil {
		opts = append(opts, resolve.WithObserver(metrics))
	}

	deps := services.Deps{
		Repos:    set,
		Resolver: resolve.New(resolve.StoreSource(set), log, opts...),
		Compiler: query.NewCompiler(query.WithStrictNumbers(cfg.FilterStrictNumbers)),
		Metrics:  metrics,
	}
	if clients.ChangeBus != nil {
		deps.Publisher = clients.ChangeBus
	}

	return Services{
		Recipes:     services.NewRecipeService(log, deps),
		Ingredients: services.NewIngredientService(log, deps),
		Nutritions:  services.NewNutritionService(log, deps),
	}
}

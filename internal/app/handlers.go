package app

import (
	"context"
	"fmt"

	"github.com/yungbote/recipebook-backend/internal/graphql"
	httpH "github.com/yungbote/recipebook-backend/internal/http/handlers"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

type Handlers struct {
	Recipe     *httpH.RecipeHandler
	Ingredient *httpH.IngredientHandler
	Nutrition  *httpH.NutritionHandler
	GraphQL    *httpH.GraphQLHandler
	Health     *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, svc Services, health func(ctx context.Context) error) (Handlers, error) {
	log.Info("Wiring handlers...")

	schema, err := graphql.NewSchema(graphql.Services{
		Recipes:     svc.Recipes,
		Ingredients: svc.Ingredients,
		Nutritions:  svc.Nutritions,
	})
	if err != nil {
		return Handlers{}, fmt.Errorf("build graphql schema: %w", err)
	}

	return Handlers{
		Recipe:     httpH.NewRecipeHandler(log, svc.Recipes),
		Ingredient: httpH.NewIngredientHandler(log, svc.Ingredients),
		Nutrition:  httpH.NewNutritionHandler(log, svc.Nutritions),
		GraphQL:    httpH.NewGraphQLHandler(log, schema),
		Health:     httpH.NewHealthHandler(health),
	}, nil
}

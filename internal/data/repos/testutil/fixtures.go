package testutil

import (
	"context"
	"testing"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/domain"
)

func SeedNutrition(tb testing.TB, ctx context.Context, set repos.Set, id int64, calories string) *domain.Nutrition {
	tb.Helper()
	n, err := set.Nutritions.Insert(ctx, &domain.Nutrition{
		DomainID:      id,
		Calories:      calories,
		Protein:       "5 g",
		Fat:           "1 g",
		Carbohydrates: "30 g",
	})
	if err != nil {
		tb.Fatalf("seed nutrition %d: %v", id, err)
	}
	return n
}

func SeedIngredient(tb testing.TB, ctx context.Context, set repos.Set, id int64, name string, nutrition int64, recipes ...int64) *domain.Ingredient {
	tb.Helper()
	in, err := set.Ingredients.Insert(ctx, &domain.Ingredient{
		DomainID:  id,
		Name:      name,
		Quantity:  2,
		Unit:      domain.UnitCups,
		Nutrition: nutrition,
		Recipes:   recipes,
	})
	if err != nil {
		tb.Fatalf("seed ingredient %d: %v", id, err)
	}
	return in
}

func SeedRecipe(tb testing.TB, ctx context.Context, set repos.Set, id int64, name string, ingredients ...int64) *domain.Recipe {
	tb.Helper()
	r, err := set.Recipes.Insert(ctx, &domain.Recipe{
		DomainID:     id,
		Name:         name,
		Description:  "A recipe used by tests",
		Ingredients:  ingredients,
		Instructions: []string{"Mix", "Cook"},
		CookingTime:  "30 minutes",
		Category:     domain.CategoryDinner,
	})
	if err != nil {
		tb.Fatalf("seed recipe %d: %v", id, err)
	}
	return r
}

// SeedBread stores the Bread(1) -> Flour(10) -> Nutrition(100) chain.
func SeedBread(tb testing.TB, ctx context.Context, set repos.Set) (*domain.Recipe, *domain.Ingredient, *domain.Nutrition) {
	tb.Helper()
	n := SeedNutrition(tb, ctx, set, 100, "200 kcal")
	in := SeedIngredient(tb, ctx, set, 10, "Flour", 100, 1)
	r := SeedRecipe(tb, ctx, set, 1, "Bread", 10)
	return r, in, n
}

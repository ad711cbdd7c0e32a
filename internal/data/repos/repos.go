package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

type RecipeRepo = Store[*domain.Recipe]
type IngredientRepo = Store[*domain.Ingredient]
type NutritionRepo = Store[*domain.Nutrition]

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return newGormStore(db, baseLog.With("repo", "RecipeRepo"), func() *domain.Recipe { return &domain.Recipe{} })
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return newGormStore(db, baseLog.With("repo", "IngredientRepo"), func() *domain.Ingredient { return &domain.Ingredient{} })
}

func NewNutritionRepo(db *gorm.DB, baseLog *logger.Logger) NutritionRepo {
	return newGormStore(db, baseLog.With("repo", "NutritionRepo"), func() *domain.Nutrition { return &domain.Nutrition{} })
}

func NewMemoryRecipeRepo(baseLog *logger.Logger) RecipeRepo {
	return newMemoryStore[*domain.Recipe](baseLog.With("repo", "MemoryRecipeRepo"))
}

func NewMemoryIngredientRepo(baseLog *logger.Logger) IngredientRepo {
	return newMemoryStore[*domain.Ingredient](baseLog.With("repo", "MemoryIngredientRepo"))
}

func NewMemoryNutritionRepo(baseLog *logger.Logger) NutritionRepo {
	return newMemoryStore[*domain.Nutrition](baseLog.With("repo", "MemoryNutritionRepo"))
}

// Set bundles the three collections of one backend.
type Set struct {
	Recipes     RecipeRepo
	Ingredients IngredientRepo
	Nutritions  NutritionRepo
}

func NewGormSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Recipes:     NewRecipeRepo(db, baseLog),
		Ingredients: NewIngredientRepo(db, baseLog),
		Nutritions:  NewNutritionRepo(db, baseLog),
	}
}

func NewMemorySet(baseLog *logger.Logger) Set {
	return Set{
		Recipes:     NewMemoryRecipeRepo(baseLog),
		Ingredients: NewMemoryIngredientRepo(baseLog),
		Nutritions:  NewMemoryNutritionRepo(baseLog),
	}
}

package domain

import "github.com/yungbote/recipebook-backend/internal/domain/catalog"

type Kind = catalog.Kind

const (
	KindRecipe     = catalog.KindRecipe
	KindIngredient = catalog.KindIngredient
	KindNutrition  = catalog.KindNutrition
)

type Category = catalog.Category

const (
	CategoryBreakfast = catalog.CategoryBreakfast
	CategoryLunch     = catalog.CategoryLunch
	CategoryDinner    = catalog.CategoryDinner
	CategoryDessert   = catalog.CategoryDessert
	CategorySnack     = catalog.CategorySnack
)

type Unit = catalog.Unit

const (
	UnitGrams  = catalog.UnitGrams
	UnitML     = catalog.UnitML
	UnitPieces = catalog.UnitPieces
	UnitCups   = catalog.UnitCups
)

type Document = catalog.Document

type Recipe = catalog.Recipe
type Ingredient = catalog.Ingredient
type Nutrition = catalog.Nutrition

type Change = catalog.Change
type ChangeAction = catalog.ChangeAction

const (
	ChangeCreated  = catalog.ChangeCreated
	ChangeReplaced = catalog.ChangeReplaced
	ChangeUpdated  = catalog.ChangeUpdated
	ChangeDeleted  = catalog.ChangeDeleted
)

type FieldError = catalog.FieldError
type ValidationError = catalog.ValidationError
type NotFoundError = catalog.NotFoundError
type ReferentialError = catalog.ReferentialError
type ImmutableFieldError = catalog.ImmutableFieldError

var (
	Categories         = catalog.Categories
	Units              = catalog.Units
	NewChange          = catalog.NewChange
	NewValidationError = catalog.NewValidationError
	ParseCalories      = catalog.ParseCalories
	ParseGrams         = catalog.ParseGrams
	Fold               = catalog.Fold
)

// AllModels lists every persisted catalog type, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&catalog.Nutrition{},
		&catalog.Ingredient{},
		&catalog.Recipe{},
	}
}

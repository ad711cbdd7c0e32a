package catalog

import "strings"

// Kind names one of the three catalog collections.
type Kind string

const (
	KindRecipe     Kind = "recipe"
	KindIngredient Kind = "ingredient"
	KindNutrition  Kind = "nutrition"
)

func (k Kind) Title() string {
	switch k {
	case KindRecipe:
		return "Recipe"
	case KindIngredient:
		return "Ingredient"
	case KindNutrition:
		return "Nutrition"
	default:
		return string(k)
	}
}

// Collection is the plural used by the REST routes and table names.
func (k Kind) Collection() string {
	switch k {
	case KindRecipe:
		return "recipes"
	case KindIngredient:
		return "ingredients"
	case KindNutrition:
		return "nutritions"
	default:
		return string(k) + "s"
	}
}

type Category string

const (
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategoryDessert   Category = "Dessert"
	CategorySnack     Category = "Snack"
)

var categories = []Category{CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryDessert, CategorySnack}

func Categories() []Category { return append([]Category(nil), categories...) }

func (c Category) Valid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

type Unit string

const (
	UnitGrams  Unit = "grams"
	UnitML     Unit = "ml"
	UnitPieces Unit = "pieces"
	UnitCups   Unit = "cups"
)

var units = []Unit{UnitGrams, UnitML, UnitPieces, UnitCups}

func Units() []Unit { return append([]Unit(nil), units...) }

func (u Unit) Valid() bool {
	for _, v := range units {
		if v == u {
			return true
		}
	}
	return false
}

func joinCategories() string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}

func joinUnits() string {
	parts := make([]string, 0, len(units))
	for _, u := range units {
		parts = append(parts, string(u))
	}
	return strings.Join(parts, ", ")
}

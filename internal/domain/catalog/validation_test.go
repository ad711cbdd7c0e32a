package catalog

import (
	"errors"
	"strings"
	"testing"
)

func validRecipe() *Recipe {
	return &Recipe{
		DomainID:     1,
		Name:         "Bread",
		Description:  "A simple loaf of bread",
		Ingredients:  []int64{10},
		Instructions: []string{"Mix", "Bake"},
		CookingTime:  "45 minutes",
		Category:     CategoryBreakfast,
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestRecipeValidate(t *testing.T) {
	if err := validRecipe().Validate(); err != nil {
		t.Fatalf("valid recipe rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(r *Recipe)
		field  string
		msg    string
	}{
		{"missing id", func(r *Recipe) { r.DomainID = 0 }, "id", "ID is required"},
		{"negative id", func(r *Recipe) { r.DomainID = -3 }, "id", "ID must be a positive number"},
		{"short name", func(r *Recipe) { r.Name = "ab" }, "name", "Name must be at least 3 characters long"},
		{"long name", func(r *Recipe) { r.Name = strings.Repeat("x", 101) }, "name", "Name must be less than 100 characters long"},
		{"short description", func(r *Recipe) { r.Description = "tiny" }, "description", "Description must be at least 10 characters long"},
		{"no ingredients", func(r *Recipe) { r.Ingredients = nil }, "ingredients", "Ingredients must be a non-empty array"},
		{"bad ingredient id", func(r *Recipe) { r.Ingredients = []int64{1, 0} }, "ingredients[1]", "Ingredient IDs must be positive numbers"},
		{"no instructions", func(r *Recipe) { r.Instructions = nil }, "instructions", "Instructions cannot be empty"},
		{"blank instruction", func(r *Recipe) { r.Instructions = []string{"Mix", " "} }, "instructions[1]", "Instructions cannot be empty"},
		{"cooking time format", func(r *Recipe) { r.CookingTime = "45 mins" }, "cookingTime", `Cooking time must be in the format "X minutes"`},
		{"bad category", func(r *Recipe) { r.Category = "Brunch" }, "category", "Brunch is not a valid category. Valid categories are: Breakfast, Lunch, Dinner, Dessert, Snack."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecipe()
			tt.mutate(r)
			fields := fieldsOf(t, r.Validate())
			if got := fields[tt.field]; got != tt.msg {
				t.Fatalf("field %s: got %q want %q (all=%v)", tt.field, got, tt.msg, fields)
			}
		})
	}
}

func TestIngredientValidate(t *testing.T) {
	ok := &Ingredient{DomainID: 10, Name: "Flour", Quantity: 2, Unit: UnitCups, Nutrition: 100}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid ingredient rejected: %v", err)
	}

	bad := &Ingredient{DomainID: 10, Name: "Fl", Quantity: 11, Unit: "spoons"}
	fields := fieldsOf(t, bad.Validate())
	want := map[string]string{
		"name":      "Name must be at least 3 characters long",
		"quantity":  "Quantity cannot be more than 10",
		"unit":      "spoons is not a valid unit. Valid units are: grams, ml, pieces, cups.",
		"nutrition": "Nutrition value is required",
	}
	for field, msg := range want {
		if fields[field] != msg {
			t.Fatalf("field %s: got %q want %q", field, fields[field], msg)
		}
	}

	low := &Ingredient{DomainID: 10, Name: "Flour", Quantity: 0.5, Unit: UnitCups, Nutrition: 100}
	if got := fieldsOf(t, low.Validate())["quantity"]; got != "Quantity must be greater than or equal to 1" {
		t.Fatalf("low quantity message: %q", got)
	}
}

func TestNutritionValidateAndPrepare(t *testing.T) {
	n := &Nutrition{DomainID: 100, Calories: "200 kcal", Protein: "7.5 g", Fat: "1g", Carbohydrates: "40 g"}
	if err := n.Validate(); err != nil {
		t.Fatalf("valid nutrition rejected: %v", err)
	}
	n.Prepare()
	if n.CaloriesKcal != 200 || n.ProteinGrams != 7.5 || n.FatGrams != 1 || n.CarbohydratesGrams != 40 {
		t.Fatalf("derived amounts wrong: %+v", n)
	}

	bad := &Nutrition{DomainID: 100, Calories: "200", Protein: "7.5 grams", Fat: "1g"}
	fields := fieldsOf(t, bad.Validate())
	if fields["calories"] != `Calories must be a number followed by "kcal"` {
		t.Fatalf("calories message: %q", fields["calories"])
	}
	if fields["protein"] != `Protein must be a number followed by "g"` {
		t.Fatalf("protein message: %q", fields["protein"])
	}
	if fields["carbohydrates"] != "Carbohydrates is required" {
		t.Fatalf("carbohydrates message: %q", fields["carbohydrates"])
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	r := validRecipe()
	c := r.Clone()
	c.Ingredients[0] = 99
	c.Instructions[0] = "changed"
	if r.Ingredients[0] != 10 || r.Instructions[0] != "Mix" {
		t.Fatalf("clone aliases source slices")
	}
}

func TestReferentialErrorMessage(t *testing.T) {
	err := &ReferentialError{Kind: KindRecipe, Field: "ingredients", Target: KindIngredient, Missing: []int64{12, 3}}
	want := "Ingredient IDs 3, 12 not found (referenced by Recipe.ingredients)"
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}

package graphql

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/query"
	"github.com/yungbote/recipebook-backend/internal/services"
)

func storageIDArg(kind domain.Kind, v interface{}) (uuid.UUID, error) {
	s := strings.TrimSpace(fmt.Sprint(v))
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &domain.NotFoundError{Kind: kind, StorageID: s}
	}
	return id, nil
}

func domainIDValue(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func domainIDArg(kind domain.Kind, field string, v interface{}) (int64, error) {
	n, ok := domainIDValue(v)
	if !ok {
		return 0, domain.NewValidationError(kind, field, "IDs must be integers", v)
	}
	return n, nil
}

func domainIDsArg(kind domain.Kind, field string, v interface{}) ([]int64, error) {
	items, _ := v.([]interface{})
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		n, err := domainIDArg(kind, field, item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func optionalDomainID(kind domain.Kind, m map[string]interface{}) (*int64, error) {
	v, ok := m["id"]
	if !ok || v == nil {
		return nil, nil
	}
	n, err := domainIDArg(kind, "id", v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func stringsArg(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func strPtr(m map[string]interface{}, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func floatArg(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}

func inputArg(args map[string]interface{}) map[string]interface{} {
	m, _ := args["input"].(map[string]interface{})
	if m == nil {
		m = map[string]interface{}{}
	}
	return m
}

// pageArgs reads page and limit. Limit defaults to 0, which returns every
// match.
func pageArgs(args map[string]interface{}) (query.Page, error) {
	number := 1
	if v, ok := args["page"].(int); ok {
		number = v
	}
	limit := 0
	if v, ok := args["limit"].(int); ok {
		limit = v
	}
	return query.NewPage(number, limit)
}

func depthOpts(args map[string]interface{}) []services.ReadOption {
	if v, ok := args["depth"].(int); ok && v >= 0 {
		return []services.ReadOption{services.WithDepth(v)}
	}
	return nil
}

// filterArg converts a GraphQL filter input object into filter expressions.
// Operator objects carry {operator, value}; enum fields are a bare value.
// Fields are visited in name order.
func filterArg(args map[string]interface{}) query.Filter {
	m, _ := args["filter"].(map[string]interface{})
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	var filter query.Filter
	for _, field := range fields {
		raw := m[field]
		if raw == nil {
			continue
		}
		expr := query.Expression{Field: field}
		if obj, ok := raw.(map[string]interface{}); ok {
			if op, ok := obj["operator"].(string); ok {
				expr.Operator = query.Operator(op)
			}
			expr.Value = obj["value"]
		} else {
			expr.Value = raw
		}
		filter = append(filter, expr)
	}
	return filter
}

func recipeInput(m map[string]interface{}) (services.RecipeInput, error) {
	id, err := optionalDomainID(domain.KindRecipe, m)
	if err != nil {
		return services.RecipeInput{}, err
	}
	ingredients, err := domainIDsArg(domain.KindRecipe, "ingredients", m["ingredients"])
	if err != nil {
		return services.RecipeInput{}, err
	}
	return services.RecipeInput{
		ID:           id,
		Name:         str(m, "name"),
		Description:  str(m, "description"),
		Ingredients:  ingredients,
		Instructions: stringsArg(m["instructions"]),
		CookingTime:  str(m, "cookingTime"),
		Category:     domain.Category(str(m, "category")),
	}, nil
}

func recipePatch(m map[string]interface{}) (services.RecipePatch, error) {
	patch := services.RecipePatch{
		Name:        strPtr(m, "name"),
		Description: strPtr(m, "description"),
		CookingTime: strPtr(m, "cookingTime"),
	}
	if v, ok := m["id"]; ok && v != nil {
		patch.ID = v
	}
	if v, ok := m["ingredients"]; ok && v != nil {
		ids, err := domainIDsArg(domain.KindRecipe, "ingredients", v)
		if err != nil {
			return services.RecipePatch{}, err
		}
		patch.Ingredients = &ids
	}
	if v, ok := m["instructions"]; ok && v != nil {
		steps := stringsArg(v)
		patch.Instructions = &steps
	}
	if s, ok := m["category"].(string); ok {
		c := domain.Category(s)
		patch.Category = &c
	}
	return patch, nil
}

func ingredientInput(m map[string]interface{}) (services.IngredientInput, error) {
	id, err := optionalDomainID(domain.KindIngredient, m)
	if err != nil {
		return services.IngredientInput{}, err
	}
	recipes, err := domainIDsArg(domain.KindIngredient, "recipes", m["recipes"])
	if err != nil {
		return services.IngredientInput{}, err
	}
	var nutrition int64
	if v, ok := m["nutrition"]; ok && v != nil {
		if nutrition, err = domainIDArg(domain.KindIngredient, "nutrition", v); err != nil {
			return services.IngredientInput{}, err
		}
	}
	quantity, _ := floatArg(m["quantity"])
	return services.IngredientInput{
		ID:        id,
		Recipes:   recipes,
		Name:      str(m, "name"),
		Quantity:  quantity,
		Unit:      domain.Unit(str(m, "unit")),
		Nutrition: nutrition,
	}, nil
}

func ingredientPatch(m map[string]interface{}) (services.IngredientPatch, error) {
	patch := services.IngredientPatch{Name: strPtr(m, "name")}
	if v, ok := m["id"]; ok && v != nil {
		patch.ID = v
	}
	if v, ok := m["recipes"]; ok && v != nil {
		ids, err := domainIDsArg(domain.KindIngredient, "recipes", v)
		if err != nil {
			return services.IngredientPatch{}, err
		}
		patch.Recipes = &ids
	}
	if q, ok := floatArg(m["quantity"]); ok {
		patch.Quantity = &q
	}
	if s, ok := m["unit"].(string); ok {
		u := domain.Unit(s)
		patch.Unit = &u
	}
	if v, ok := m["nutrition"]; ok && v != nil {
		n, err := domainIDArg(domain.KindIngredient, "nutrition", v)
		if err != nil {
			return services.IngredientPatch{}, err
		}
		patch.Nutrition = &n
	}
	return patch, nil
}

func nutritionInput(m map[string]interface{}) (services.NutritionInput, error) {
	id, err := optionalDomainID(domain.KindNutrition, m)
	if err != nil {
		return services.NutritionInput{}, err
	}
	return services.NutritionInput{
		ID:            id,
		Calories:      str(m, "calories"),
		Protein:       str(m, "protein"),
		Fat:           str(m, "fat"),
		Carbohydrates: str(m, "carbohydrates"),
	}, nil
}

func nutritionPatch(m map[string]interface{}) services.NutritionPatch {
	patch := services.NutritionPatch{
		Calories:      strPtr(m, "calories"),
		Protein:       strPtr(m, "protein"),
		Fat:           strPtr(m, "fat"),
		Carbohydrates: strPtr(m, "carbohydrates"),
	}
	if v, ok := m["id"]; ok && v != nil {
		patch.ID = v
	}
	return patch
}

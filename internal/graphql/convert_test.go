package graphql

import (
	"errors"
	"testing"

	"github.com/graphql-go/graphql/language/ast"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/query"
)

func TestDomainIDValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{in: 7, want: 7, ok: true},
		{in: float64(12), want: 12, ok: true},
		{in: " 42 ", want: 42, ok: true},
		{in: 1.5, ok: false},
		{in: "abc", ok: false},
		{in: nil, ok: false},
	}
	for _, tt := range tests {
		got, ok := domainIDValue(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("domainIDValue(%v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFilterArg(t *testing.T) {
	filter := filterArg(map[string]interface{}{
		"filter": map[string]interface{}{
			"name":     map[string]interface{}{"operator": "CONTAINS", "value": "flo"},
			"unit":     "cups",
			"quantity": nil,
		},
	})
	if len(filter) != 2 {
		t.Fatalf("expected 2 expressions, got %+v", filter)
	}
	byField := map[string]query.Expression{}
	for _, e := range filter {
		byField[e.Field] = e
	}
	if e := byField["name"]; e.Operator != query.OpContains || e.Value != "flo" {
		t.Fatalf("unexpected name expression %+v", e)
	}
	if e := byField["unit"]; e.Operator != "" || e.Value != "cups" {
		t.Fatalf("unexpected unit expression %+v", e)
	}
}

func TestFilterArgFieldOrder(t *testing.T) {
	args := map[string]interface{}{
		"filter": map[string]interface{}{
			"unit":     "cups",
			"quantity": map[string]interface{}{"operator": "GREATER_THAN", "value": 2},
			"name":     map[string]interface{}{"operator": "CONTAINS", "value": "flo"},
			"id":       map[string]interface{}{"operator": "EQUALS", "value": 1},
		},
	}
	want := []string{"id", "name", "quantity", "unit"}
	for i := 0; i < 20; i++ {
		filter := filterArg(args)
		if len(filter) != len(want) {
			t.Fatalf("expected %d expressions, got %+v", len(want), filter)
		}
		for j, e := range filter {
			if e.Field != want[j] {
				t.Fatalf("run %d: field %d = %q, want %q", i, j, e.Field, want[j])
			}
		}
	}
}

func TestPageArgs(t *testing.T) {
	page, err := pageArgs(map[string]interface{}{})
	if err != nil || page.Number != 1 || !page.Unlimited() {
		t.Fatalf("unexpected default page %+v (%v)", page, err)
	}
	if _, err := pageArgs(map[string]interface{}{"page": 0}); err == nil {
		t.Fatalf("expected page 0 to be rejected")
	}
}

func TestRecipeInputRejectsNonIntegerIngredients(t *testing.T) {
	_, err := recipeInput(map[string]interface{}{
		"id":          "1",
		"ingredients": []interface{}{"10", "x"},
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPatchKeepsIdentityForRejection(t *testing.T) {
	patch, err := ingredientPatch(map[string]interface{}{"id": "9", "quantity": 3})
	if err != nil {
		t.Fatalf("ingredientPatch: %v", err)
	}
	if patch.ID == nil || patch.Quantity == nil || *patch.Quantity != 3 {
		t.Fatalf("unexpected patch %+v", patch)
	}
}

func TestAmountScalars(t *testing.T) {
	calories := newCaloriesScalar()
	if v := calories.ParseValue("200 kcal"); v != "200 kcal" {
		t.Fatalf("expected valid calories, got %v", v)
	}
	if v := calories.ParseValue("lots"); v != nil {
		t.Fatalf("expected invalid calories to parse as nil, got %v", v)
	}
	grams := newGramsScalar()
	if v := grams.ParseLiteral(&ast.StringValue{Value: "7.5 g"}); v != "7.5 g" {
		t.Fatalf("expected valid grams literal, got %v", v)
	}
	if v := grams.ParseLiteral(&ast.IntValue{Value: "7"}); v != nil {
		t.Fatalf("expected non-string literal to be rejected, got %v", v)
	}
}

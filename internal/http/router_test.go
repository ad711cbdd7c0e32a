package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	"github.com/yungbote/recipebook-backend/internal/graphql"
	httpH "github.com/yungbote/recipebook-backend/internal/http/handlers"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/services"
)

type testAPI struct {
	engine *gin.Engine
	set    repos.Set
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.Logger(t)
	set := repos.NewMemorySet(log)
	deps := services.Deps{Repos: set}
	recipes := services.NewRecipeService(log, deps)
	ingredients := services.NewIngredientService(log, deps)
	nutritions := services.NewNutritionService(log, deps)
	schema, err := graphql.NewSchema(graphql.Services{Recipes: recipes, Ingredients: ingredients, Nutritions: nutritions})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	engine := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           observability.NewMetrics(),
		RecipeHandler:     httpH.NewRecipeHandler(log, recipes),
		IngredientHandler: httpH.NewIngredientHandler(log, ingredients),
		NutritionHandler:  httpH.NewNutritionHandler(log, nutritions),
		GraphQLHandler:    httpH.NewGraphQLHandler(log, schema),
		HealthHandler:     httpH.NewHealthHandler(nil),
	})
	return &testAPI{engine: engine, set: set}
}

func (a *testAPI) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRESTBreadScenario(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/nutritions", map[string]any{
		"id": 1, "calories": "200 kcal", "protein": "5 g", "fat": "2 g", "carbohydrates": "30 g",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create nutrition: %d %s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, http.MethodPost, "/api/ingredients", map[string]any{
		"id": 1, "name": "Flour", "quantity": 2, "unit": "cups", "nutrition": 1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create ingredient: %d %s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, http.MethodPost, "/api/ingredients", map[string]any{
		"id": 2, "name": "Sugar", "quantity": 1, "unit": "cups", "nutrition": 42,
	})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"missing_references"`) || !strings.Contains(rec.Body.String(), "42") {
		t.Fatalf("unknown nutrition: %d %s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, http.MethodPost, "/api/recipes", map[string]any{
		"id": 1, "name": "Bread", "description": "Simple bread", "ingredients": []int{1},
		"instructions": []string{"Mix", "Bake"}, "cookingTime": "60 minutes", "category": "Breakfast",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create recipe: %d %s", rec.Code, rec.Body.String())
	}
	created := decode(t, rec)
	storageID, _ := created["_id"].(string)
	if storageID == "" || rec.Header().Get("Location") != "/api/recipes/"+storageID {
		t.Fatalf("unexpected location %q for %v", rec.Header().Get("Location"), created["_id"])
	}

	rec = api.do(t, http.MethodGet, "/api/recipes/"+storageID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get recipe: %d %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	ingredients := body["ingredients"].([]any)
	flour := ingredients[0].(map[string]any)
	nutrition := flour["nutrition"].(map[string]any)
	if nutrition["calories"] != "200 kcal" {
		t.Fatalf("unexpected nutrition: %v", nutrition)
	}
	if links, ok := body["links"].([]any); !ok || len(links) != 5 {
		t.Fatalf("expected 5 links, got %v", body["links"])
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("missing no-store header")
	}

	rec = api.do(t, http.MethodGet, "/api/recipes/"+storageID+"?depth=0", nil)
	body = decode(t, rec)
	if ids := body["ingredients"].([]any); ids[0] != float64(1) {
		t.Fatalf("depth=0 should return raw ids, got %v", ids)
	}
}

func TestRESTListAndErrors(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	testutil.SeedNutrition(t, ctx, api.set, 100, "200 kcal")
	testutil.SeedIngredient(t, ctx, api.set, 10, "Tomato", 100)
	testutil.SeedIngredient(t, ctx, api.set, 11, "Basil", 100)
	flour := testutil.SeedIngredient(t, ctx, api.set, 12, "Cherry tomato", 100)

	rec := api.do(t, http.MethodGet, "/api/ingredients?name=tom&name_op=CONTAINS&limit=1&page=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	items := body["items"].([]any)
	if body["total"] != float64(2) || len(items) != 1 || items[0].(map[string]any)["id"] != float64(12) {
		t.Fatalf("unexpected list: %v", body)
	}
	if rec.Header().Get("X-Total-Count") != "2" {
		t.Fatalf("unexpected total header %q", rec.Header().Get("X-Total-Count"))
	}

	rec = api.do(t, http.MethodGet, "/api/ingredients?page=0", nil)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"validation_failed"`) {
		t.Fatalf("page=0: %d %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodPatch, "/api/ingredients/"+flour.StorageID.String(), map[string]any{"id": 99})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "You cannot change the 'id' field of a Ingredient.") {
		t.Fatalf("patch id: %d %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/api/recipes", map[string]any{
		"id": 1, "name": "Soup", "description": "A warm tomato soup", "ingredients": []int{3, 12},
		"instructions": []string{"Boil"}, "cookingTime": "20 minutes", "category": "Lunch",
	})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"missing_references"`) {
		t.Fatalf("missing refs: %d %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodGet, "/api/recipes/not-a-uuid", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("bad id: %d %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodDelete, "/api/ingredients/"+flour.StorageID.String(), nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Ingredient with id 12 deleted") {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
}

func TestGraphQLQueriesAndErrors(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	bread, _, _ := testutil.SeedBread(t, ctx, api.set)

	rec := api.do(t, http.MethodPost, "/graphql", map[string]any{
		"query": `query($id: ID!) { getRecipe(_id: $id) { id name ingredientIds ingredients { name nutrition { calories } } } }`,
		"variables": map[string]any{"id": bread.StorageID.String()},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("graphql: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"calories":"200 kcal"`) {
		t.Fatalf("unexpected graphql body: %s", rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/graphql", map[string]any{
		"query": `{ getAllIngredients(filter: {name: {operator: CONTAINS, value: "FLO"}}) { id unit recipeIds } }`,
	})
	if !strings.Contains(rec.Body.String(), `"unit":"cups"`) || !strings.Contains(rec.Body.String(), `"recipeIds":[1]`) {
		t.Fatalf("unexpected filter result: %s", rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/graphql", map[string]any{
		"query": `mutation($id: ID!) { updateRecipe(input: {_id: $id, id: "7", name: "Toast"}) { id } }`,
		"variables": map[string]any{"id": bread.StorageID.String()},
	})
	if !strings.Contains(rec.Body.String(), `"code":"immutable_field"`) {
		t.Fatalf("expected immutable_field extension: %s", rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/graphql", map[string]any{
		"query": `mutation { createNutrition(input: {id: "5", calories: "lots", protein: "1 g", fat: "1 g", carbohydrates: "1 g"}) { id } }`,
	})
	if !strings.Contains(rec.Body.String(), `"errors"`) {
		t.Fatalf("invalid Calories literal should be rejected: %s", rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/graphql", map[string]any{"query": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty query: %d", rec.Code)
	}
}

func TestGraphQLGetRejectsMutations(t *testing.T) {
	api := newTestAPI(t)

	mutation := `mutation { createNutrition(input: {id: "5", calories: "100 kcal", protein: "1 g", fat: "1 g", carbohydrates: "1 g"}) { id } }`
	rec := api.do(t, http.MethodGet, "/graphql?"+url.Values{"query": {mutation}}.Encode(), nil)
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("GET mutation: %d %s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, http.MethodGet, "/api/nutritions", nil)
	if body := decode(t, rec); body["total"] != float64(0) {
		t.Fatalf("GET mutation must not write, got %v", body)
	}

	rec = api.do(t, http.MethodGet, "/graphql?"+url.Values{"query": {`{ getAllNutritions { id } }`}}.Encode(), nil)
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), `"errors"`) {
		t.Fatalf("GET query: %d %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/graphql", map[string]any{"query": mutation})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"5"`) {
		t.Fatalf("POST mutation: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)
	if rec := api.do(t, http.MethodGet, "/healthcheck", nil); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	api.do(t, http.MethodGet, "/api/recipes", nil)
	rec := api.do(t, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `recipebook_http_requests_total{kind="recipe",method="GET",route="/api/recipes",status="200"} 1`) {
		t.Fatalf("metrics: %d %s", rec.Code, rec.Body.String())
	}
}

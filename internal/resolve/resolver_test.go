package resolve

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	"github.com/yungbote/recipebook-backend/internal/domain"
)

type countingSource struct {
	Source
	mu    sync.Mutex
	calls map[domain.Kind]int
}

func newCountingSource(set repos.Set) *countingSource {
	return &countingSource{Source: StoreSource(set), calls: map[domain.Kind]int{}}
}

func (c *countingSource) inc(k domain.Kind) {
	c.mu.Lock()
	c.calls[k]++
	c.mu.Unlock()
}

func (c *countingSource) Recipes(ctx context.Context, ids []int64) ([]*domain.Recipe, error) {
	c.inc(domain.KindRecipe)
	return c.Source.Recipes(ctx, ids)
}

func (c *countingSource) Ingredients(ctx context.Context, ids []int64) ([]*domain.Ingredient, error) {
	c.inc(domain.KindIngredient)
	return c.Source.Ingredients(ctx, ids)
}

func (c *countingSource) Nutritions(ctx context.Context, ids []int64) ([]*domain.Nutrition, error) {
	c.inc(domain.KindNutrition)
	return c.Source.Nutritions(ctx, ids)
}

func TestBreadResolvesToCalories(t *testing.T) {
	ctx := context.Background()
	set := repos.NewMemorySet(testutil.Logger(t))
	bread, _, _ := testutil.SeedBread(t, ctx, set)
	r := New(StoreSource(set), testutil.Logger(t))

	view, err := r.Recipe(ctx, bread, -1)
	if err != nil {
		t.Fatalf("Recipe: %v", err)
	}
	if len(view.Ingredients) != 1 || !view.Ingredients[0].Resolved() {
		t.Fatalf("ingredient not hydrated: %+v", view.Ingredients)
	}
	flour := view.Ingredients[0].Value
	if flour.Name != "Flour" || !flour.Nutrition.Resolved() {
		t.Fatalf("nutrition not hydrated: %+v", flour)
	}
	if got := flour.Nutrition.Value.Calories; got != "200 kcal" {
		t.Fatalf("calories: got %q want %q", got, "200 kcal")
	}
	// depth 2 reaches the back-reference, whose own refs stay raw
	if len(flour.Recipes) != 1 || !flour.Recipes[0].Resolved() {
		t.Fatalf("back-reference not hydrated at depth 2: %+v", flour.Recipes)
	}
	if back := flour.Recipes[0].Value; back.Ingredients[0].State != RefRaw || back.Ingredients[0].ID != 10 {
		t.Fatalf("expected raw ingredient id at depth 3, got %+v", back.Ingredients[0])
	}
}

func TestDepthBound(t *testing.T) {
	ctx := context.Background()
	set := repos.NewMemorySet(testutil.Logger(t))
	bread, _, _ := testutil.SeedBread(t, ctx, set)
	r := New(StoreSource(set), testutil.Logger(t))

	v1, err := r.Recipe(ctx, bread, 1)
	if err != nil {
		t.Fatalf("Recipe depth 1: %v", err)
	}
	if !v1.Ingredients[0].Resolved() {
		t.Fatalf("depth 1 should hydrate ingredients")
	}
	if st := v1.Ingredients[0].Value.Nutrition.State; st != RefRaw {
		t.Fatalf("depth 1 nutrition state = %v, want raw", st)
	}

	v0, err := r.Recipe(ctx, bread, 0)
	if err != nil {
		t.Fatalf("Recipe depth 0: %v", err)
	}
	raw, _ := json.Marshal(v0)
	if !strings.Contains(string(raw), `"ingredients":[10]`) {
		t.Fatalf("depth 0 should leave raw ids: %s", raw)
	}
}

func TestMissingReferenceIsMarked(t *testing.T) {
	ctx := context.Background()
	set := repos.NewMemorySet(testutil.Logger(t))
	testutil.SeedNutrition(t, ctx, set, 100, "200 kcal")
	testutil.SeedIngredient(t, ctx, set, 10, "Flour", 100)
	rec := testutil.SeedRecipe(t, ctx, set, 1, "Bread", 10, 77)
	r := New(StoreSource(set), testutil.Logger(t))

	view, err := r.Recipe(ctx, rec, 2)
	if err != nil {
		t.Fatalf("Recipe: %v", err)
	}
	if view.Ingredients[1].State != RefUnresolved || view.Ingredients[1].ID != 77 {
		t.Fatalf("expected unresolved marker, got %+v", view.Ingredients[1])
	}
	raw, _ := json.Marshal(view.Ingredients[1])
	if string(raw) != `{"id":77,"unresolved":true}` {
		t.Fatalf("unexpected marker JSON: %s", raw)
	}
}

func TestResolutionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	set := repos.NewMemorySet(testutil.Logger(t))
	bread, _, _ := testutil.SeedBread(t, ctx, set)
	r := New(StoreSource(set), testutil.Logger(t))

	first, err := r.Recipe(ctx, bread, 2)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := r.Recipe(ctx, bread, 2)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("resolution not idempotent:\n%s\n%s", a, b)
	}
	if first == second || first.Ingredients[0].Value == second.Ingredients[0].Value {
		t.Fatalf("views must be rebuilt per call")
	}
}

func TestOneLookupPerCollectionPerHop(t *testing.T) {
	ctx := context.Background()
	set := repos.NewMemorySet(testutil.Logger(t))
	testutil.SeedNutrition(t, ctx, set, 100, "200 kcal")
	testutil.SeedNutrition(t, ctx, set, 101, "50 kcal")
	testutil.SeedIngredient(t, ctx, set, 10, "Flour", 100, 1, 2)
	testutil.SeedIngredient(t, ctx, set, 11, "Water", 101, 2)
	r1 := testutil.SeedRecipe(t, ctx, set, 1, "Bread", 10)
	r2 := testutil.SeedRecipe(t, ctx, set, 2, "Flatbread", 10, 11)

	src := newCountingSource(set)
	r := New(src, testutil.Logger(t))
	views, err := r.Recipes(ctx, []*domain.Recipe{r1, r2}, 2)
	if err != nil {
		t.Fatalf("Recipes: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	// hop 1 loads ingredients, hop 2 loads nutritions; recipes 1 and 2 are roots
	if src.calls[domain.KindIngredient] != 1 || src.calls[domain.KindNutrition] != 1 || src.calls[domain.KindRecipe] != 0 {
		t.Fatalf("unexpected lookup counts: %v", src.calls)
	}
}

func TestCycleTerminatesAtAnyDepth(t *testing.T) {
	ctx := context.Background()
	set := repos.NewMemorySet(testutil.Logger(t))
	bread, _, _ := testutil.SeedBread(t, ctx, set)
	r := New(StoreSource(set), testutil.Logger(t), WithMaxDepth(8))

	view, err := r.Recipe(ctx, bread, 8)
	if err != nil {
		t.Fatalf("Recipe: %v", err)
	}
	hops := 0
	for cur := view; cur != nil && len(cur.Ingredients) > 0 && cur.Ingredients[0].Resolved(); hops++ {
		ing := cur.Ingredients[0].Value
		if len(ing.Recipes) == 0 || !ing.Recipes[0].Resolved() {
			break
		}
		cur = ing.Recipes[0].Value
	}
	if hops != 4 {
		t.Fatalf("expected 4 recipe->ingredient->recipe round trips at depth 8, got %d", hops)
	}
}

func TestDepthClamp(t *testing.T) {
	r := New(nil, testutil.Logger(t), WithDefaultDepth(2), WithMaxDepth(3))
	if r.Depth(-1) != 2 || r.Depth(9) != 3 || r.Depth(0) != 0 {
		t.Fatalf("unexpected depth mapping: %d %d %d", r.Depth(-1), r.Depth(9), r.Depth(0))
	}
}

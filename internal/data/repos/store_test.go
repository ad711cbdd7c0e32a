package repos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/query"
)

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) repos.Set {
		return repos.NewMemorySet(testutil.Logger(t))
	})
}

func TestGormStoreSQLite(t *testing.T) {
	runStoreContract(t, func(t *testing.T) repos.Set {
		return repos.NewGormSet(testutil.SQLite(t), testutil.Logger(t))
	})
}

func TestGormStorePostgres(t *testing.T) {
	runStoreContract(t, func(t *testing.T) repos.Set {
		tx := testutil.Tx(t, testutil.Postgres(t))
		return repos.NewGormSet(tx, testutil.Logger(t))
	})
}

func runStoreContract(t *testing.T, newSet func(t *testing.T) repos.Set) {
	t.Run("insert assigns storage id and rejects duplicate domain id", func(t *testing.T) {
		ctx := context.Background()
		set := newSet(t)
		n := testutil.SeedNutrition(t, ctx, set, 100, "200 kcal")
		if n.StorageID == uuid.Nil {
			t.Fatalf("expected storage id to be assigned")
		}
		if n.CreatedAt.IsZero() {
			t.Fatalf("expected created timestamp")
		}
		_, err := set.Nutritions.Insert(ctx, &domain.Nutrition{DomainID: 100, Calories: "1 kcal", Protein: "1 g", Fat: "1 g", Carbohydrates: "1 g"})
		if !errors.Is(err, repos.ErrDuplicateDomainID) {
			t.Fatalf("expected ErrDuplicateDomainID, got %v", err)
		}
	})

	t.Run("find by storage id returns independent copies", func(t *testing.T) {
		ctx := context.Background()
		set := newSet(t)
		r := testutil.SeedRecipe(t, ctx, set, 1, "Bread", 10, 11)
		got, err := set.Recipes.FindByStorageID(ctx, r.StorageID)
		if err != nil {
			t.Fatalf("FindByStorageID: %v", err)
		}
		if got.Name != "Bread" || len(got.Ingredients) != 2 || got.Ingredients[1] != 11 {
			t.Fatalf("unexpected recipe: %+v", got)
		}
		got.Name = "Changed"
		again, _ := set.Recipes.FindByStorageID(ctx, r.StorageID)
		if again.Name != "Bread" {
			t.Fatalf("store shares state with callers")
		}
		if _, err := set.Recipes.FindByStorageID(ctx, uuid.New()); !errors.Is(err, repos.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("find applies predicate, order and window", func(t *testing.T) {
		ctx := context.Background()
		set := newSet(t)
		testutil.SeedIngredient(t, ctx, set, 3, "Tomato", 100)
		testutil.SeedIngredient(t, ctx, set, 1, "Flour", 100)
		testutil.SeedIngredient(t, ctx, set, 2, "Cherry tomatoes", 100)
		testutil.SeedIngredient(t, ctx, set, 4, "Salt_50%", 100)

		pred, err := query.NewCompiler().Compile(domain.KindIngredient, query.Filter{{Field: "name", Operator: query.OpContains, Value: "TOM"}})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		n, err := set.Ingredients.Count(ctx, pred)
		if err != nil || n != 2 {
			t.Fatalf("Count: n=%d err=%v", n, err)
		}
		rows, err := set.Ingredients.Find(ctx, pred, 0, 0)
		if err != nil || len(rows) != 2 || rows[0].DomainID != 2 || rows[1].DomainID != 3 {
			t.Fatalf("Find: err=%v rows=%v", err, ids(rows))
		}

		all, _ := set.Ingredients.Find(ctx, query.Predicate{}, 1, 2)
		if got := ids(all); len(got) != 2 || got[0] != 2 || got[1] != 3 {
			t.Fatalf("window: got %v", got)
		}
		past, _ := set.Ingredients.Find(ctx, query.Predicate{}, 10, 2)
		if len(past) != 0 {
			t.Fatalf("expected empty window past end, got %v", ids(past))
		}

		literal, _ := query.NewCompiler().Compile(domain.KindIngredient, query.Filter{{Field: "name", Operator: query.OpContains, Value: "_50%"}})
		if rows, _ := set.Ingredients.Find(ctx, literal, 0, 0); len(rows) != 1 || rows[0].DomainID != 4 {
			t.Fatalf("LIKE wildcards not escaped: %v", ids(rows))
		}
	})

	t.Run("contains folds non-ASCII letters", func(t *testing.T) {
		ctx := context.Background()
		set := newSet(t)
		testutil.SeedIngredient(t, ctx, set, 1, "Żurek", 100)
		testutil.SeedIngredient(t, ctx, set, 2, "Crème fraîche", 100)
		testutil.SeedIngredient(t, ctx, set, 3, "Rye flour", 100)

		contains, _ := query.NewCompiler().Compile(domain.KindIngredient, query.Filter{{Field: "name", Operator: query.OpContains, Value: "żUR"}})
		if rows, err := set.Ingredients.Find(ctx, contains, 0, 0); err != nil || len(rows) != 1 || rows[0].DomainID != 1 {
			t.Fatalf("CONTAINS żUR: err=%v rows=%v", err, ids(rows))
		}
		accented, _ := query.NewCompiler().Compile(domain.KindIngredient, query.Filter{{Field: "name", Operator: query.OpContains, Value: "CRÈME"}})
		if rows, err := set.Ingredients.Find(ctx, accented, 0, 0); err != nil || len(rows) != 1 || rows[0].DomainID != 2 {
			t.Fatalf("CONTAINS CRÈME: err=%v rows=%v", err, ids(rows))
		}
		excluded, _ := query.NewCompiler().Compile(domain.KindIngredient, query.Filter{{Field: "name", Operator: query.OpNotContains, Value: "Ż"}})
		if n, err := set.Ingredients.Count(ctx, excluded); err != nil || n != 2 {
			t.Fatalf("NOT_CONTAINS Ż: n=%d err=%v", n, err)
		}
	})

	t.Run("numeric shadow columns are filterable", func(t *testing.T) {
		ctx := context.Background()
		set := newSet(t)
		testutil.SeedNutrition(t, ctx, set, 1, "150 kcal")
		testutil.SeedNutrition(t, ctx, set, 2, "450 kcal")
		pred, _ := query.NewCompiler().Compile(domain.KindNutrition, query.Filter{{Field: "calories", Operator: query.OpGreaterThan, Value: 200}})
		rows, err := set.Nutritions.Find(ctx, pred, 0, 0)
		if err != nil || len(rows) != 1 || rows[0].DomainID != 2 {
			t.Fatalf("calories > 200: err=%v rows=%v", err, ids(rows))
		}
	})

	t.Run("domain id lookup ignores missing ids", func(t *testing.T) {
		ctx := context.Background()
		set := newSet(t)
		testutil.SeedNutrition(t, ctx, set, 7, "10 kcal")
		rows, err := repos.FindByDomainIDs(ctx, set.Nutritions, []int64{7, 8})
		if err != nil || len(rows) != 1 || rows[0].DomainID != 7 {
			t.Fatalf("FindByDomainIDs: err=%v rows=%v", err, ids(rows))
		}
	})

	t.Run("update keeps identity and delete removes", func(t *testing.T) {
		ctx := context.Background()
		set := newSet(t)
		in := testutil.SeedIngredient(t, ctx, set, 5, "Sugar", 100)
		next := in.Clone()
		next.DomainID = 999
		next.Name = "Brown sugar"
		next.Quantity = 3
		updated, err := set.Ingredients.UpdateByStorageID(ctx, in.StorageID, next)
		if err != nil {
			t.Fatalf("UpdateByStorageID: %v", err)
		}
		if updated.DomainID != 5 || updated.Name != "Brown sugar" || updated.Quantity != 3 {
			t.Fatalf("unexpected update result: %+v", updated)
		}
		if _, err := set.Ingredients.UpdateByStorageID(ctx, uuid.New(), next); !errors.Is(err, repos.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on update, got %v", err)
		}

		removed, err := set.Ingredients.DeleteByStorageID(ctx, in.StorageID)
		if err != nil || removed.DomainID != 5 {
			t.Fatalf("DeleteByStorageID: err=%v removed=%+v", err, removed)
		}
		if _, err := set.Ingredients.DeleteByStorageID(ctx, in.StorageID); !errors.Is(err, repos.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
		if n, _ := set.Ingredients.Count(ctx, query.Predicate{}); n != 0 {
			t.Fatalf("expected empty collection, got %d", n)
		}
	})
}

func ids[D domain.Document](rows []D) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.GetDomainID())
	}
	return out
}

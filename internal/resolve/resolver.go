package resolve

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

const DefaultDepth = 2

var tracer = otel.Tracer("recipebook/resolve")

// Source batch-loads records by domain id. Ids that do not exist are left
// out of the result.
type Source interface {
	Recipes(ctx context.Context, ids []int64) ([]*domain.Recipe, error)
	Ingredients(ctx context.Context, ids []int64) ([]*domain.Ingredient, error)
	Nutritions(ctx context.Context, ids []int64) ([]*domain.Nutrition, error)
}

type storeSource struct {
	set repos.Set
}

// StoreSource adapts a repo set to Source.
func StoreSource(set repos.Set) Source { return storeSource{set: set} }

func (s storeSource) Recipes(ctx context.Context, ids []int64) ([]*domain.Recipe, error) {
	return repos.FindByDomainIDs(ctx, s.set.Recipes, ids)
}

func (s storeSource) Ingredients(ctx context.Context, ids []int64) ([]*domain.Ingredient, error) {
	return repos.FindByDomainIDs(ctx, s.set.Ingredients, ids)
}

func (s storeSource) Nutritions(ctx context.Context, ids []int64) ([]*domain.Nutrition, error) {
	return repos.FindByDomainIDs(ctx, s.set.Nutritions, ids)
}

// Observer receives per-hop lookup statistics.
type Observer interface {
	ObserveLookup(kind domain.Kind, requested, found int)
}

type Resolver struct {
	src          Source
	log          *logger.Logger
	defaultDepth int
	maxDepth     int
	observer     Observer
}

type Option func(*Resolver)

func WithDefaultDepth(d int) Option {
	return func(r *Resolver) {
		if d >= 0 {
			r.defaultDepth = d
		}
	}
}

// WithMaxDepth caps per-call depth overrides.
func WithMaxDepth(d int) Option {
	return func(r *Resolver) {
		if d >= 0 {
			r.maxDepth = d
		}
	}
}

func WithObserver(o Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

func New(src Source, baseLog *logger.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		src:          src,
		log:          baseLog.With("component", "Resolver"),
		defaultDepth: DefaultDepth,
		maxDepth:     4,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.defaultDepth > r.maxDepth {
		r.maxDepth = r.defaultDepth
	}
	return r
}

// Depth maps a requested depth to the one actually used: negative means the
// default, and anything above the cap is clamped.
func (r *Resolver) Depth(requested int) int {
	switch {
	case requested < 0:
		return r.defaultDepth
	case requested > r.maxDepth:
		return r.maxDepth
	default:
		return requested
	}
}

func (r *Resolver) Recipes(ctx context.Context, docs []*domain.Recipe, depth int) ([]*RecipeView, error) {
	depth = r.Depth(depth)
	a := newArena()
	f := newFrontier()
	for _, d := range docs {
		a.recipes[d.DomainID] = d
		f.addRecipeRefs(d)
	}
	if err := r.load(ctx, a, f, depth); err != nil {
		return nil, err
	}
	b := builder{arena: a, maxDepth: depth}
	out := make([]*RecipeView, 0, len(docs))
	for _, d := range docs {
		out = append(out, b.recipe(d, 0))
	}
	return out, nil
}

func (r *Resolver) Ingredients(ctx context.Context, docs []*domain.Ingredient, depth int) ([]*IngredientView, error) {
	depth = r.Depth(depth)
	a := newArena()
	f := newFrontier()
	for _, d := range docs {
		a.ingredients[d.DomainID] = d
		f.addIngredientRefs(d)
	}
	if err := r.load(ctx, a, f, depth); err != nil {
		return nil, err
	}
	b := builder{arena: a, maxDepth: depth}
	out := make([]*IngredientView, 0, len(docs))
	for _, d := range docs {
		out = append(out, b.ingredient(d, 0))
	}
	return out, nil
}

// Nutritions has no outgoing references, so it only converts.
func (r *Resolver) Nutritions(_ context.Context, docs []*domain.Nutrition, _ int) ([]*NutritionView, error) {
	out := make([]*NutritionView, 0, len(docs))
	for _, d := range docs {
		out = append(out, newNutritionView(d))
	}
	return out, nil
}

func (r *Resolver) Recipe(ctx context.Context, doc *domain.Recipe, depth int) (*RecipeView, error) {
	views, err := r.Recipes(ctx, []*domain.Recipe{doc}, depth)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (r *Resolver) Ingredient(ctx context.Context, doc *domain.Ingredient, depth int) (*IngredientView, error) {
	views, err := r.Ingredients(ctx, []*domain.Ingredient{doc}, depth)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (r *Resolver) Nutrition(ctx context.Context, doc *domain.Nutrition, _ int) (*NutritionView, error) {
	return newNutritionView(doc), nil
}

// load walks the reference graph breadth first. Each hop issues at most one
// lookup per collection, for ids the arena has not seen yet. Records found at
// the last hop are stored but their own references are not followed.
func (r *Resolver) load(ctx context.Context, a *arena, f *frontier, depth int) error {
	for hop := 1; hop <= depth && !f.empty(); hop++ {
		recipeIDs := a.unseenRecipes(f.recipes)
		ingredientIDs := a.unseenIngredients(f.ingredients)
		nutritionIDs := a.unseenNutritions(f.nutritions)
		if len(recipeIDs)+len(ingredientIDs)+len(nutritionIDs) == 0 {
			return nil
		}

		hopCtx, span := tracer.Start(ctx, "resolve.hop")
		span.SetAttributes(
			attribute.Int("hop", hop),
			attribute.Int("recipes", len(recipeIDs)),
			attribute.Int("ingredients", len(ingredientIDs)),
			attribute.Int("nutritions", len(nutritionIDs)),
		)

		var (
			recipes     []*domain.Recipe
			ingredients []*domain.Ingredient
			nutritions  []*domain.Nutrition
		)
		g, gctx := errgroup.WithContext(hopCtx)
		if len(recipeIDs) > 0 {
			g.Go(func() error {
				var err error
				recipes, err = r.src.Recipes(gctx, recipeIDs)
				return err
			})
		}
		if len(ingredientIDs) > 0 {
			g.Go(func() error {
				var err error
				ingredients, err = r.src.Ingredients(gctx, ingredientIDs)
				return err
			})
		}
		if len(nutritionIDs) > 0 {
			g.Go(func() error {
				var err error
				nutritions, err = r.src.Nutritions(gctx, nutritionIDs)
				return err
			})
		}
		err := g.Wait()
		span.End()
		if err != nil {
			r.log.Error("Reference lookup failed", "hop", hop, "error", err)
			return err
		}

		r.observe(domain.KindRecipe, len(recipeIDs), len(recipes))
		r.observe(domain.KindIngredient, len(ingredientIDs), len(ingredients))
		r.observe(domain.KindNutrition, len(nutritionIDs), len(nutritions))

		expand := hop < depth
		next := newFrontier()
		for _, d := range recipes {
			a.recipes[d.DomainID] = d
			if expand {
				next.addRecipeRefs(d)
			}
		}
		for _, d := range ingredients {
			a.ingredients[d.DomainID] = d
			if expand {
				next.addIngredientRefs(d)
			}
		}
		for _, d := range nutritions {
			a.nutritions[d.DomainID] = d
		}
		a.markMissing(domain.KindRecipe, recipeIDs)
		a.markMissing(domain.KindIngredient, ingredientIDs)
		a.markMissing(domain.KindNutrition, nutritionIDs)
		f = next
	}
	return nil
}

func (r *Resolver) observe(kind domain.Kind, requested, found int) {
	if r.observer == nil || requested == 0 {
		return
	}
	r.observer.ObserveLookup(kind, requested, found)
}

type key struct {
	kind domain.Kind
	id   int64
}

// arena holds every record loaded for one resolution, keyed by domain id.
type arena struct {
	recipes     map[int64]*domain.Recipe
	ingredients map[int64]*domain.Ingredient
	nutritions  map[int64]*domain.Nutrition
	missing     map[key]struct{}
}

func newArena() *arena {
	return &arena{
		recipes:     map[int64]*domain.Recipe{},
		ingredients: map[int64]*domain.Ingredient{},
		nutritions:  map[int64]*domain.Nutrition{},
		missing:     map[key]struct{}{},
	}
}

func (a *arena) unseenRecipes(ids map[int64]struct{}) []int64 {
	return a.unseen(domain.KindRecipe, ids, func(id int64) bool { _, ok := a.recipes[id]; return ok })
}

func (a *arena) unseenIngredients(ids map[int64]struct{}) []int64 {
	return a.unseen(domain.KindIngredient, ids, func(id int64) bool { _, ok := a.ingredients[id]; return ok })
}

func (a *arena) unseenNutritions(ids map[int64]struct{}) []int64 {
	return a.unseen(domain.KindNutrition, ids, func(id int64) bool { _, ok := a.nutritions[id]; return ok })
}

func (a *arena) unseen(kind domain.Kind, ids map[int64]struct{}, loaded func(int64) bool) []int64 {
	out := make([]int64, 0, len(ids))
	for id := range ids {
		if loaded(id) {
			continue
		}
		if _, gone := a.missing[key{kind, id}]; gone {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (a *arena) markMissing(kind domain.Kind, requested []int64) {
	for _, id := range requested {
		var ok bool
		switch kind {
		case domain.KindRecipe:
			_, ok = a.recipes[id]
		case domain.KindIngredient:
			_, ok = a.ingredients[id]
		case domain.KindNutrition:
			_, ok = a.nutritions[id]
		}
		if !ok {
			a.missing[key{kind, id}] = struct{}{}
		}
	}
}

type frontier struct {
	recipes     map[int64]struct{}
	ingredients map[int64]struct{}
	nutritions  map[int64]struct{}
}

func newFrontier() *frontier {
	return &frontier{
		recipes:     map[int64]struct{}{},
		ingredients: map[int64]struct{}{},
		nutritions:  map[int64]struct{}{},
	}
}

func (f *frontier) empty() bool {
	return len(f.recipes) == 0 && len(f.ingredients) == 0 && len(f.nutritions) == 0
}

func (f *frontier) addRecipeRefs(d *domain.Recipe) {
	for _, id := range d.Ingredients {
		f.ingredients[id] = struct{}{}
	}
}

func (f *frontier) addIngredientRefs(d *domain.Ingredient) {
	for _, id := range d.Recipes {
		f.recipes[id] = struct{}{}
	}
	if d.Nutrition != 0 {
		f.nutritions[d.Nutrition] = struct{}{}
	}
}

// builder turns arena records into fresh view trees. A node at depth d has
// its references hydrated only while d+1 <= maxDepth.
type builder struct {
	arena    *arena
	maxDepth int
}

func (b builder) recipe(d *domain.Recipe, depth int) *RecipeView {
	v := &RecipeView{
		StorageID:    d.StorageID,
		ID:           d.DomainID,
		Name:         d.Name,
		Description:  d.Description,
		Ingredients:  make([]Ref[IngredientView], 0, len(d.Ingredients)),
		Instructions: append([]string{}, d.Instructions...),
		CookingTime:  d.CookingTime,
		Category:     d.Category,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, id := range d.Ingredients {
		v.Ingredients = append(v.Ingredients, b.ingredientRef(id, depth+1))
	}
	return v
}

func (b builder) ingredient(d *domain.Ingredient, depth int) *IngredientView {
	v := &IngredientView{
		StorageID: d.StorageID,
		ID:        d.DomainID,
		Recipes:   make([]Ref[RecipeView], 0, len(d.Recipes)),
		Name:      d.Name,
		Quantity:  d.Quantity,
		Unit:      d.Unit,
		Nutrition: b.nutritionRef(d.Nutrition, depth+1),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, id := range d.Recipes {
		v.Recipes = append(v.Recipes, b.recipeRef(id, depth+1))
	}
	return v
}

func (b builder) recipeRef(id int64, depth int) Ref[RecipeView] {
	if depth > b.maxDepth {
		return Ref[RecipeView]{ID: id, State: RefRaw}
	}
	d, ok := b.arena.recipes[id]
	if !ok {
		return Ref[RecipeView]{ID: id, State: RefUnresolved}
	}
	return Ref[RecipeView]{ID: id, State: RefResolved, Value: b.recipe(d, depth)}
}

func (b builder) ingredientRef(id int64, depth int) Ref[IngredientView] {
	if depth > b.maxDepth {
		return Ref[IngredientView]{ID: id, State: RefRaw}
	}
	d, ok := b.arena.ingredients[id]
	if !ok {
		return Ref[IngredientView]{ID: id, State: RefUnresolved}
	}
	return Ref[IngredientView]{ID: id, State: RefResolved, Value: b.ingredient(d, depth)}
}

func (b builder) nutritionRef(id int64, depth int) Ref[NutritionView] {
	if depth > b.maxDepth {
		return Ref[NutritionView]{ID: id, State: RefRaw}
	}
	d, ok := b.arena.nutritions[id]
	if !ok {
		return Ref[NutritionView]{ID: id, State: RefUnresolved}
	}
	return Ref[NutritionView]{ID: id, State: RefResolved, Value: newNutritionView(d)}
}

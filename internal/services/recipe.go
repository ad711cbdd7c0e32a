package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/query"
	"github.com/yungbote/recipebook-backend/internal/resolve"
)

// RecipeInput is a complete recipe as supplied to create and replace.
type RecipeInput struct {
	ID           *int64          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Ingredients  []int64         `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	CookingTime  string          `json:"cookingTime"`
	Category     domain.Category `json:"category"`
}

func (in RecipeInput) toRecipe() *domain.Recipe {
	return &domain.Recipe{
		DomainID:     domainIDOf(in.ID),
		Name:         in.Name,
		Description:  in.Description,
		Ingredients:  append([]int64(nil), in.Ingredients...),
		Instructions: append([]string(nil), in.Instructions...),
		CookingTime:  in.CookingTime,
		Category:     in.Category,
	}
}

// RecipePatch carries the fields of a partial update. Identity fields are
// accepted only so that supplying them can be rejected.
type RecipePatch struct {
	StorageID    any              `json:"_id"`
	ID           any              `json:"id"`
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Ingredients  *[]int64         `json:"ingredients"`
	Instructions *[]string        `json:"instructions"`
	CookingTime  *string          `json:"cookingTime"`
	Category     *domain.Category `json:"category"`
}

func (p RecipePatch) apply(r *domain.Recipe) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = append([]int64(nil), (*p.Ingredients)...)
	}
	if p.Instructions != nil {
		r.Instructions = append([]string(nil), (*p.Instructions)...)
	}
	if p.CookingTime != nil {
		r.CookingTime = *p.CookingTime
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
}

type RecipeService interface {
	Get(ctx context.Context, id uuid.UUID, opts ...ReadOption) (*resolve.RecipeView, error)
	List(ctx context.Context, filter query.Filter, page query.Page, opts ...ReadOption) ([]*resolve.RecipeView, int64, error)
	Create(ctx context.Context, in RecipeInput) (*resolve.RecipeView, error)
	Replace(ctx context.Context, id uuid.UUID, in RecipeInput) (*resolve.RecipeView, error)
	Update(ctx context.Context, id uuid.UUID, patch RecipePatch) (*resolve.RecipeView, error)
	Remove(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)
}

type recipeService struct {
	core
}

func NewRecipeService(baseLog *logger.Logger, deps Deps) RecipeService {
	serviceLog := baseLog.With("service", "RecipeService")
	return &recipeService{core: newCore(serviceLog, domain.KindRecipe, deps)}
}

func (s *recipeService) Get(ctx context.Context, id uuid.UUID, opts ...ReadOption) (view *resolve.RecipeView, err error) {
	ctx, done := s.begin(ctx, "get")
	defer func() { done(err) }()

	doc, err := s.repos.Recipes.FindByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	return s.resolver.Recipe(ctx, doc, readDepth(opts))
}

func (s *recipeService) List(ctx context.Context, filter query.Filter, page query.Page, opts ...ReadOption) (views []*resolve.RecipeView, total int64, err error) {
	ctx, done := s.begin(ctx, "list")
	defer func() { done(err) }()

	docs, total, err := listPage(ctx, &s.core, s.repos.Recipes, filter, page)
	if err != nil {
		return nil, 0, err
	}
	views, err = s.resolver.Recipes(ctx, docs, readDepth(opts))
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *recipeService) Create(ctx context.Context, in RecipeInput) (view *resolve.RecipeView, err error) {
	ctx, done := s.begin(ctx, "create")
	defer func() { done(err) }()

	doc := in.toRecipe()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkIngredients(ctx, doc.Ingredients); err != nil {
		return nil, err
	}
	saved, err := s.repos.Recipes.Insert(ctx, doc)
	if err != nil {
		return nil, s.storeErr(err, uuid.Nil, doc.DomainID)
	}
	s.publish(ctx, saved, domain.ChangeCreated)
	return s.resolver.Recipe(ctx, saved, -1)
}

func (s *recipeService) Replace(ctx context.Context, id uuid.UUID, in RecipeInput) (view *resolve.RecipeView, err error) {
	ctx, done := s.begin(ctx, "replace")
	defer func() { done(err) }()

	doc := in.toRecipe()
	if err := validateReplacement(doc, in.ID != nil); err != nil {
		return nil, err
	}
	current, err := s.repos.Recipes.FindByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	if in.ID == nil {
		doc.DomainID = current.DomainID
	}
	if doc.DomainID != current.DomainID {
		return nil, &domain.ImmutableFieldError{Kind: domain.KindRecipe, Field: "id"}
	}
	if err := s.checkIngredients(ctx, doc.Ingredients); err != nil {
		return nil, err
	}
	saved, err := s.repos.Recipes.UpdateByStorageID(ctx, id, doc)
	if err != nil {
		return nil, s.storeErr(err, id, doc.DomainID)
	}
	s.publish(ctx, saved, domain.ChangeReplaced)
	return s.resolver.Recipe(ctx, saved, -1)
}

func (s *recipeService) Update(ctx context.Context, id uuid.UUID, patch RecipePatch) (view *resolve.RecipeView, err error) {
	ctx, done := s.begin(ctx, "update")
	defer func() { done(err) }()

	if err := checkImmutable(domain.KindRecipe, patch.StorageID, patch.ID); err != nil {
		return nil, err
	}
	current, err := s.repos.Recipes.FindByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	merged := current.Clone()
	patch.apply(merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if patch.Ingredients != nil {
		if err := s.checkIngredients(ctx, merged.Ingredients); err != nil {
			return nil, err
		}
	}
	saved, err := s.repos.Recipes.UpdateByStorageID(ctx, id, merged)
	if err != nil {
		return nil, s.storeErr(err, id, merged.DomainID)
	}
	s.publish(ctx, saved, domain.ChangeUpdated)
	return s.resolver.Recipe(ctx, saved, -1)
}

func (s *recipeService) Remove(ctx context.Context, id uuid.UUID) (removed *domain.Recipe, err error) {
	ctx, done := s.begin(ctx, "remove")
	defer func() { done(err) }()

	removed, err = s.repos.Recipes.DeleteByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	s.publish(ctx, removed, domain.ChangeDeleted)
	return removed, nil
}

func (s *recipeService) checkIngredients(ctx context.Context, ids []int64) error {
	return checkRefs(ctx, s.repos.Ingredients, domain.KindRecipe, "ingredients", domain.KindIngredient, ids)
}

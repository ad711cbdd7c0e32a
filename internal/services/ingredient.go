package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/query"
	"github.com/yungbote/recipebook-backend/internal/resolve"
)

type IngredientInput struct {
	ID        *int64      `json:"id"`
	Recipes   []int64     `json:"recipes"`
	Name      string      `json:"name"`
	Quantity  float64     `json:"quantity"`
	Unit      domain.Unit `json:"unit"`
	Nutrition int64       `json:"nutrition"`
}

func (in IngredientInput) toIngredient() *domain.Ingredient {
	return &domain.Ingredient{
		DomainID:  domainIDOf(in.ID),
		Recipes:   append([]int64(nil), in.Recipes...),
		Name:      in.Name,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		Nutrition: in.Nutrition,
	}
}

type IngredientPatch struct {
	StorageID any          `json:"_id"`
	ID        any          `json:"id"`
	Recipes   *[]int64     `json:"recipes"`
	Name      *string      `json:"name"`
	Quantity  *float64     `json:"quantity"`
	Unit      *domain.Unit `json:"unit"`
	Nutrition *int64       `json:"nutrition"`
}

func (p IngredientPatch) apply(i *domain.Ingredient) {
	if p.Recipes != nil {
		i.Recipes = append([]int64(nil), (*p.Recipes)...)
	}
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		i.Unit = *p.Unit
	}
	if p.Nutrition != nil {
		i.Nutrition = *p.Nutrition
	}
}

type IngredientService interface {
	Get(ctx context.Context, id uuid.UUID, opts ...ReadOption) (*resolve.IngredientView, error)
	List(ctx context.Context, filter query.Filter, page query.Page, opts ...ReadOption) ([]*resolve.IngredientView, int64, error)
	Create(ctx context.Context, in IngredientInput) (*resolve.IngredientView, error)
	Replace(ctx context.Context, id uuid.UUID, in IngredientInput) (*resolve.IngredientView, error)
	Update(ctx context.Context, id uuid.UUID, patch IngredientPatch) (*resolve.IngredientView, error)
	Remove(ctx context.Context, id uuid.UUID) (*domain.Ingredient, error)
}

type ingredientService struct {
	core
}

func NewIngredientService(baseLog *logger.Logger, deps Deps) IngredientService {
	serviceLog := baseLog.With("service", "IngredientService")
	return &ingredientService{core: newCore(serviceLog, domain.KindIngredient, deps)}
}

func (s *ingredientService) Get(ctx context.Context, id uuid.UUID, opts ...ReadOption) (view *resolve.IngredientView, err error) {
	ctx, done := s.begin(ctx, "get")
	defer func() { done(err) }()

	doc, err := s.repos.Ingredients.FindByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	return s.resolver.Ingredient(ctx, doc, readDepth(opts))
}

func (s *ingredientService) List(ctx context.Context, filter query.Filter, page query.Page, opts ...ReadOption) (views []*resolve.IngredientView, total int64, err error) {
	ctx, done := s.begin(ctx, "list")
	defer func() { done(err) }()

	docs, total, err := listPage(ctx, &s.core, s.repos.Ingredients, filter, page)
	if err != nil {
		return nil, 0, err
	}
	views, err = s.resolver.Ingredients(ctx, docs, readDepth(opts))
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *ingredientService) Create(ctx context.Context, in IngredientInput) (view *resolve.IngredientView, err error) {
	ctx, done := s.begin(ctx, "create")
	defer func() { done(err) }()

	doc := in.toIngredient()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkNutrition(ctx, doc.Nutrition); err != nil {
		return nil, err
	}
	saved, err := s.repos.Ingredients.Insert(ctx, doc)
	if err != nil {
		return nil, s.storeErr(err, uuid.Nil, doc.DomainID)
	}
	s.publish(ctx, saved, domain.ChangeCreated)
	return s.resolver.Ingredient(ctx, saved, -1)
}

func (s *ingredientService) Replace(ctx context.Context, id uuid.UUID, in IngredientInput) (view *resolve.IngredientView, err error) {
	ctx, done := s.begin(ctx, "replace")
	defer func() { done(err) }()

	doc := in.toIngredient()
	if err := validateReplacement(doc, in.ID != nil); err != nil {
		return nil, err
	}
	current, err := s.repos.Ingredients.FindByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	if in.ID == nil {
		doc.DomainID = current.DomainID
	}
	if doc.DomainID != current.DomainID {
		return nil, &domain.ImmutableFieldError{Kind: domain.KindIngredient, Field: "id"}
	}
	if err := s.checkNutrition(ctx, doc.Nutrition); err != nil {
		return nil, err
	}
	saved, err := s.repos.Ingredients.UpdateByStorageID(ctx, id, doc)
	if err != nil {
		return nil, s.storeErr(err, id, doc.DomainID)
	}
	s.publish(ctx, saved, domain.ChangeReplaced)
	return s.resolver.Ingredient(ctx, saved, -1)
}

func (s *ingredientService) Update(ctx context.Context, id uuid.UUID, patch IngredientPatch) (view *resolve.IngredientView, err error) {
	ctx, done := s.begin(ctx, "update")
	defer func() { done(err) }()

	if err := checkImmutable(domain.KindIngredient, patch.StorageID, patch.ID); err != nil {
		return nil, err
	}
	current, err := s.repos.Ingredients.FindByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	merged := current.Clone()
	patch.apply(merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if patch.Nutrition != nil {
		if err := s.checkNutrition(ctx, merged.Nutrition); err != nil {
			return nil, err
		}
	}
	saved, err := s.repos.Ingredients.UpdateByStorageID(ctx, id, merged)
	if err != nil {
		return nil, s.storeErr(err, id, merged.DomainID)
	}
	s.publish(ctx, saved, domain.ChangeUpdated)
	return s.resolver.Ingredient(ctx, saved, -1)
}

func (s *ingredientService) Remove(ctx context.Context, id uuid.UUID) (removed *domain.Ingredient, err error) {
	ctx, done := s.begin(ctx, "remove")
	defer func() { done(err) }()

	removed, err = s.repos.Ingredients.DeleteByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	s.publish(ctx, removed, domain.ChangeDeleted)
	return removed, nil
}

// Recipe back-references are a hint and are not checked.
func (s *ingredientService) checkNutrition(ctx context.Context, id int64) error {
	return checkRefs(ctx, s.repos.Nutritions, domain.KindIngredient, "nutrition", domain.KindNutrition, []int64{id})
}

package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/query"
	"github.com/yungbote/recipebook-backend/internal/resolve"
)

type NutritionInput struct {
	ID            *int64 `json:"id"`
	Calories      string `json:"calories"`
	Protein       string `json:"protein"`
	Fat           string `json:"fat"`
	Carbohydrates string `json:"carbohydrates"`
}

func (in NutritionInput) toNutrition() *domain.Nutrition {
	return &domain.Nutrition{
		DomainID:      domainIDOf(in.ID),
		Calories:      in.Calories,
		Protein:       in.Protein,
		Fat:           in.Fat,
		Carbohydrates: in.Carbohydrates,
	}
}

type NutritionPatch struct {
	StorageID     any     `json:"_id"`
	ID            any     `json:"id"`
	Calories      *string `json:"calories"`
	Protein       *string `json:"protein"`
	Fat           *string `json:"fat"`
	Carbohydrates *string `json:"carbohydrates"`
}

func (p NutritionPatch) apply(n *domain.Nutrition) {
	if p.Calories != nil {
		n.Calories = *p.Calories
	}
	if p.Protein != nil {
		n.Protein = *p.Protein
	}
	if p.Fat != nil {
		n.Fat = *p.Fat
	}
	if p.Carbohydrates != nil {
		n.Carbohydrates = *p.Carbohydrates
	}
}

type NutritionService interface {
	Get(ctx context.Context, id uuid.UUID, opts ...ReadOption) (*resolve.NutritionView, error)
	List(ctx context.Context, filter query.Filter, page query.Page, opts ...ReadOption) ([]*resolve.NutritionView, int64, error)
	Create(ctx context.Context, in NutritionInput) (*resolve.NutritionView, error)
	Replace(ctx context.Context, id uuid.UUID, in NutritionInput) (*resolve.NutritionView, error)
	Update(ctx context.Context, id uuid.UUID, patch NutritionPatch) (*resolve.NutritionView, error)
	Remove(ctx context.Context, id uuid.UUID) (*domain.Nutrition, error)
}

type nutritionService struct {
	core
}

func NewNutritionService(baseLog *logger.Logger, deps Deps) NutritionService {
	serviceLog := baseLog.With("service", "NutritionService")
	return &nutritionService{core: newCore(serviceLog, domain.KindNutrition, deps)}
}

func (s *nutritionService) Get(ctx context.Context, id uuid.UUID, opts ...ReadOption) (view *resolve.NutritionView, err error) {
	ctx, done := s.begin(ctx, "get")
	defer func() { done(err) }()

	doc, err := s.repos.Nutritions.FindByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	return s.resolver.Nutrition(ctx, doc, readDepth(opts))
}

func (s *nutritionService) List(ctx context.Context, filter query.Filter, page query.Page, opts ...ReadOption) (views []*resolve.NutritionView, total int64, err error) {
	ctx, done := s.begin(ctx, "list")
	defer func() { done(err) }()

	docs, total, err := listPage(ctx, &s.core, s.repos.Nutritions, filter, page)
	if err != nil {
		return nil, 0, err
	}
	views, err = s.resolver.Nutritions(ctx, docs, readDepth(opts))
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *nutritionService) Create(ctx context.Context, in NutritionInput) (view *resolve.NutritionView, err error) {
	ctx, done := s.begin(ctx, "create")
	defer func() { done(err) }()

	doc := in.toNutrition()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	saved, err := s.repos.Nutritions.Insert(ctx, doc)
	if err != nil {
		return nil, s.storeErr(err, uuid.Nil, doc.DomainID)
	}
	s.publish(ctx, saved, domain.ChangeCreated)
	return s.resolver.Nutrition(ctx, saved, -1)
}

func (s *nutritionService) Replace(ctx context.Context, id uuid.UUID, in NutritionInput) (view *resolve.NutritionView, err error) {
	ctx, done := s.begin(ctx, "replace")
	defer func() { done(err) }()

	doc := in.toNutrition()
	if err := validateReplacement(doc, in.ID != nil); err != nil {
		return nil, err
	}
	current, err := s.repos.Nutritions.FindByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	if in.ID == nil {
		doc.DomainID = current.DomainID
	}
	if doc.DomainID != current.DomainID {
		return nil, &domain.ImmutableFieldError{Kind: domain.KindNutrition, Field: "id"}
	}
	saved, err := s.repos.Nutritions.UpdateByStorageID(ctx, id, doc)
	if err != nil {
		return nil, s.storeErr(err, id, doc.DomainID)
	}
	s.publish(ctx, saved, domain.ChangeReplaced)
	return s.resolver.Nutrition(ctx, saved, -1)
}

func (s *nutritionService) Update(ctx context.Context, id uuid.UUID, patch NutritionPatch) (view *resolve.NutritionView, err error) {
	ctx, done := s.begin(ctx, "update")
	defer func() { done(err) }()

	if err := checkImmutable(domain.KindNutrition, patch.StorageID, patch.ID); err != nil {
		return nil, err
	}
	current, err := s.repos.Nutritions.FindByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	merged := current.Clone()
	patch.apply(merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	saved, err := s.repos.Nutritions.UpdateByStorageID(ctx, id, merged)
	if err != nil {
		return nil, s.storeErr(err, id, merged.DomainID)
	}
	s.publish(ctx, saved, domain.ChangeUpdated)
	return s.resolver.Nutrition(ctx, saved, -1)
}

func (s *nutritionService) Remove(ctx context.Context, id uuid.UUID) (removed *domain.Nutrition, err error) {
	ctx, done := s.begin(ctx, "remove")
	defer func() { done(err) }()

	removed, err = s.repos.Nutritions.DeleteByStorageID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, id, 0)
	}
	s.publish(ctx, removed, domain.ChangeDeleted)
	return removed, nil
}

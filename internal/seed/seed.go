// Package seed loads a catalog fixture through the services so every record
// is validated and reference-checked exactly like an API write.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/query"
	"github.com/yungbote/recipebook-backend/internal/services"
)

type Fixture struct {
	Nutritions  []NutritionFixture  `yaml:"nutritions"`
	Ingredients []IngredientFixture `yaml:"ingredients"`
	Recipes     []RecipeFixture     `yaml:"recipes"`
}

type NutritionFixture struct {
	ID            int64  `yaml:"id"`
	Calories      string `yaml:"calories"`
	Protein       string `yaml:"protein"`
	Fat           string `yaml:"fat"`
	Carbohydrates string `yaml:"carbohydrates"`
}

type IngredientFixture struct {
	ID        int64   `yaml:"id"`
	Name      string  `yaml:"name"`
	Quantity  float64 `yaml:"quantity"`
	Unit      string  `yaml:"unit"`
	Nutrition int64   `yaml:"nutrition"`
	Recipes   []int64 `yaml:"recipes"`
}

type RecipeFixture struct {
	ID           int64    `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Ingredients  []int64  `yaml:"ingredients"`
	Instructions []string `yaml:"instructions"`
	CookingTime  string   `yaml:"cookingTime"`
	Category     string   `yaml:"category"`
}

// Decode reads a YAML fixture.
func Decode(r io.Reader) (Fixture, error) {
	var f Fixture
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("failed to decode YAML: %w", err)
	}
	return f, nil
}

type Services struct {
	Recipes     services.RecipeService
	Ingredients services.IngredientService
	Nutritions  services.NutritionService
}

type Result struct {
	Purged      int
	Nutritions  int
	Ingredients int
	Recipes     int
}

type Seeder struct {
	log *logger.Logger
	svc Services
}

func NewSeeder(baseLog *logger.Logger, svc Services) *Seeder {
	return &Seeder{log: baseLog.With("component", "Seeder"), svc: svc}
}

// Apply inserts nutritions, then ingredients, then recipes, so that forward
// references always point at records that already exist. With purge set the
// catalog is emptied first. Apply stops at the first rejected record.
func (s *Seeder) Apply(ctx context.Context, f Fixture, purge bool) (Result, error) {
	var res Result
	if purge {
		n, err := s.purge(ctx)
		if err != nil {
			return res, err
		}
		res.Purged = n
	}

	for _, n := range f.Nutritions {
		id := n.ID
		if _, err := s.svc.Nutritions.Create(ctx, services.NutritionInput{
			ID:            &id,
			Calories:      n.Calories,
			Protein:       n.Protein,
			Fat:           n.Fat,
			Carbohydrates: n.Carbohydrates,
		}); err != nil {
			return res, fmt.Errorf("seed nutrition %d: %w", n.ID, err)
		}
		res.Nutritions++
	}
	for _, in := range f.Ingredients {
		id := in.ID
		if _, err := s.svc.Ingredients.Create(ctx, services.IngredientInput{
			ID:        &id,
			Recipes:   in.Recipes,
			Name:      in.Name,
			Quantity:  in.Quantity,
			Unit:      domain.Unit(in.Unit),
			Nutrition: in.Nutrition,
		}); err != nil {
			return res, fmt.Errorf("seed ingredient %d: %w", in.ID, err)
		}
		res.Ingredients++
	}
	for _, r := range f.Recipes {
		id := r.ID
		if _, err := s.svc.Recipes.Create(ctx, services.RecipeInput{
			ID:           &id,
			Name:         r.Name,
			Description:  r.Description,
			Ingredients:  r.Ingredients,
			Instructions: r.Instructions,
			CookingTime:  r.CookingTime,
			Category:     domain.Category(r.Category),
		}); err != nil {
			return res, fmt.Errorf("seed recipe %d: %w", r.ID, err)
		}
		res.Recipes++
	}

	s.log.Info("Seed applied",
		"purged", res.Purged,
		"nutritions", res.Nutritions,
		"ingredients", res.Ingredients,
		"recipes", res.Recipes,
	)
	return res, nil
}

// purge removes recipes, then ingredients, then nutritions.
func (s *Seeder) purge(ctx context.Context) (int, error) {
	all, err := query.NewPage(1, 0)
	if err != nil {
		return 0, err
	}
	removed := 0

	recipes, _, err := s.svc.Recipes.List(ctx, nil, all, services.WithDepth(0))
	if err != nil {
		return removed, fmt.Errorf("list recipes: %w", err)
	}
	for _, r := range recipes {
		if _, err := s.svc.Recipes.Remove(ctx, r.StorageID); err != nil {
			return removed, fmt.Errorf("remove recipe %d: %w", r.ID, err)
		}
		removed++
	}

	ingredients, _, err := s.svc.Ingredients.List(ctx, nil, all, services.WithDepth(0))
	if err != nil {
		return removed, fmt.Errorf("list ingredients: %w", err)
	}
	for _, in := range ingredients {
		if _, err := s.svc.Ingredients.Remove(ctx, in.StorageID); err != nil {
			return removed, fmt.Errorf("remove ingredient %d: %w", in.ID, err)
		}
		removed++
	}

	nutritions, _, err := s.svc.Nutritions.List(ctx, nil, all, services.WithDepth(0))
	if err != nil {
		return removed, fmt.Errorf("list nutritions: %w", err)
	}
	for _, n := range nutritions {
		if _, err := s.svc.Nutritions.Remove(ctx, n.StorageID); err != nil {
			return removed, fmt.Errorf("remove nutrition %d: %w", n.ID, err)
		}
		removed++
	}
	return removed, nil
}

//go:embed catalog.yaml
var defaultFixture []byte

// Default returns the bundled sample catalog.
func Default() (Fixture, error) {
	return Decode(bytes.NewReader(defaultFixture))
}

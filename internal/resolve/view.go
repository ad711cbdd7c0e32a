package resolve

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/domain"
)

type RefState int

const (
	// RefRaw is a reference left as a bare domain id because the depth limit
	// was reached.
	RefRaw RefState = iota
	RefResolved
	// RefUnresolved points at a domain id that does not exist.
	RefUnresolved
)

func (s RefState) String() string {
	switch s {
	case RefResolved:
		return "resolved"
	case RefUnresolved:
		return "unresolved"
	default:
		return "raw"
	}
}

// Ref is one reference slot of a view.
type Ref[T any] struct {
	ID    int64
	State RefState
	Value *T
}

func (r Ref[T]) Resolved() bool { return r.State == RefResolved && r.Value != nil }

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	switch r.State {
	case RefResolved:
		if r.Value != nil {
			return json.Marshal(r.Value)
		}
	case RefUnresolved:
		return json.Marshal(struct {
			ID         int64 `json:"id"`
			Unresolved bool  `json:"unresolved"`
		}{ID: r.ID, Unresolved: true})
	}
	return json.Marshal(r.ID)
}

type RecipeView struct {
	StorageID    uuid.UUID             `json:"_id"`
	ID           int64                 `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Ingredients  []Ref[IngredientView] `json:"ingredients"`
	Instructions []string              `json:"instructions"`
	CookingTime  string                `json:"cookingTime"`
	Category     domain.Category       `json:"category"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

type IngredientView struct {
	StorageID uuid.UUID          `json:"_id"`
	ID        int64              `json:"id"`
	Recipes   []Ref[RecipeView]  `json:"recipes"`
	Name      string             `json:"name"`
	Quantity  float64            `json:"quantity"`
	Unit      domain.Unit        `json:"unit"`
	Nutrition Ref[NutritionView] `json:"nutrition"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type NutritionView struct {
	StorageID     uuid.UUID `json:"_id"`
	ID            int64     `json:"id"`
	Calories      string    `json:"calories"`
	Protein       string    `json:"protein"`
	Fat           string    `json:"fat"`
	Carbohydrates string    `json:"carbohydrates"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func newNutritionView(n *domain.Nutrition) *NutritionView {
	return &NutritionView{
		StorageID:     n.StorageID,
		ID:            n.DomainID,
		Calories:      n.Calories,
		Protein:       n.Protein,
		Fat:           n.Fat,
		Carbohydrates: n.Carbohydrates,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

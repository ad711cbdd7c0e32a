package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Nutrition keeps the human-readable amounts as entered ("200 kcal", "7.5 g")
// plus numeric shadow columns so range filters can run in SQL.
type Nutrition struct {
	StorageID     uuid.UUID `gorm:"column:storage_id;type:uuid;primaryKey" json:"_id"`
	DomainID      int64     `gorm:"column:domain_id;not null;uniqueIndex" json:"id"`
	Calories      string    `gorm:"column:calories;not null" json:"calories"`
	Protein       string    `gorm:"column:protein;not null" json:"protein"`
	Fat           string    `gorm:"column:fat;not null" json:"fat"`
	Carbohydrates string    `gorm:"column:carbohydrates;not null" json:"carbohydrates"`

	CaloriesKcal       float64 `gorm:"column:calories_kcal;index" json:"-"`
	ProteinGrams       float64 `gorm:"column:protein_g" json:"-"`
	FatGrams           float64 `gorm:"column:fat_g" json:"-"`
	CarbohydratesGrams float64 `gorm:"column:carbohydrates_g" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Nutrition) TableName() string { return "nutritions" }

func (n *Nutrition) Kind() Kind                          { return KindNutrition }
func (n *Nutrition) GetStorageID() uuid.UUID             { return n.StorageID }
func (n *Nutrition) SetStorageID(id uuid.UUID)           { n.StorageID = id }
func (n *Nutrition) GetDomainID() int64                  { return n.DomainID }
func (n *Nutrition) SetDomainID(id int64)                { n.DomainID = id }
func (n *Nutrition) Timestamps() (time.Time, time.Time) { return n.CreatedAt, n.UpdatedAt }
func (n *Nutrition) SetTimestamps(created, updated time.Time) {
	n.CreatedAt, n.UpdatedAt = created, updated
}

func (n *Nutrition) Prepare() {
	n.Calories = strings.TrimSpace(n.Calories)
	n.Protein = strings.TrimSpace(n.Protein)
	n.Fat = strings.TrimSpace(n.Fat)
	n.Carbohydrates = strings.TrimSpace(n.Carbohydrates)
	n.CaloriesKcal, _ = ParseCalories(n.Calories)
	n.ProteinGrams, _ = ParseGrams(n.Protein)
	n.FatGrams, _ = ParseGrams(n.Fat)
	n.CarbohydratesGrams, _ = ParseGrams(n.Carbohydrates)
}

func (n *Nutrition) FieldValue(column string) (any, bool) {
	switch column {
	case "domain_id":
		return n.DomainID, true
	case "calories_kcal":
		f, _ := ParseCalories(n.Calories)
		return f, true
	case "protein_g":
		f, _ := ParseGrams(n.Protein)
		return f, true
	case "fat_g":
		f, _ := ParseGrams(n.Fat)
		return f, true
	case "carbohydrates_g":
		f, _ := ParseGrams(n.Carbohydrates)
		return f, true
	default:
		return nil, false
	}
}

func (n *Nutrition) Validate() error {
	v := &ValidationError{Kind: KindNutrition}
	checkDomainID(v, n.DomainID)

	if strings.TrimSpace(n.Calories) == "" {
		v.Add("calories", "Calories are required", nil)
	} else if _, ok := ParseCalories(n.Calories); !ok {
		v.Add("calories", `Calories must be a number followed by "kcal"`, n.Calories)
	}
	checkGrams(v, "protein", "Protein", n.Protein)
	checkGrams(v, "fat", "Fat", n.Fat)
	checkGrams(v, "carbohydrates", "Carbohydrates", n.Carbohydrates)
	return v.OrNil()
}

func checkGrams(v *ValidationError, field, label, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, label+" is required", nil)
		return
	}
	if _, ok := ParseGrams(value); !ok {
		v.Add(field, label+` must be a number followed by "g"`, value)
	}
}

func (n *Nutrition) CloneDocument() Document { return n.Clone() }

func (n *Nutrition) Clone() *Nutrition {
	if n == nil {
		return nil
	}
	out := *n
	return &out
}

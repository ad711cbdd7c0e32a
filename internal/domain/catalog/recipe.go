package catalog

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Recipe struct {
	StorageID    uuid.UUID                   `gorm:"column:storage_id;type:uuid;primaryKey" json:"_id"`
	DomainID     int64                       `gorm:"column:domain_id;not null;uniqueIndex" json:"id"`
	Name         string                      `gorm:"column:name;not null" json:"name"`
	Description  string                      `gorm:"column:description;type:text;not null" json:"description"`
	Ingredients  datatypes.JSONSlice[int64]  `gorm:"column:ingredients" json:"ingredients"`
	Instructions datatypes.JSONSlice[string] `gorm:"column:instructions" json:"instructions"`
	CookingTime  string                      `gorm:"column:cooking_time;not null" json:"cookingTime"`
	Category     Category                    `gorm:"column:category;not null;index" json:"category"`

	NameFolded        string `gorm:"column:name_folded" json:"-"`
	DescriptionFolded string `gorm:"column:description_folded;type:text" json:"-"`
	CookingTimeFolded string `gorm:"column:cooking_time_folded" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Recipe) TableName() string { return "recipes" }

func (r *Recipe) Kind() Kind                          { return KindRecipe }
func (r *Recipe) GetStorageID() uuid.UUID             { return r.StorageID }
func (r *Recipe) SetStorageID(id uuid.UUID)           { r.StorageID = id }
func (r *Recipe) GetDomainID() int64                  { return r.DomainID }
func (r *Recipe) SetDomainID(id int64)                { r.DomainID = id }
func (r *Recipe) Timestamps() (time.Time, time.Time) { return r.CreatedAt, r.UpdatedAt }
func (r *Recipe) SetTimestamps(created, updated time.Time) {
	r.CreatedAt, r.UpdatedAt = created, updated
}

func (r *Recipe) Prepare() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.CookingTime = strings.TrimSpace(r.CookingTime)
	r.NameFolded = Fold(r.Name)
	r.DescriptionFolded = Fold(r.Description)
	r.CookingTimeFolded = Fold(r.CookingTime)
	if r.Ingredients == nil {
		r.Ingredients = datatypes.JSONSlice[int64]{}
	}
	if r.Instructions == nil {
		r.Instructions = datatypes.JSONSlice[string]{}
	}
}

func (r *Recipe) FieldValue(column string) (any, bool) {
	switch column {
	case "domain_id":
		return r.DomainID, true
	case "name":
		return r.Name, true
	case "description":
		return r.Description, true
	case "cooking_time":
		return r.CookingTime, true
	case "category":
		return string(r.Category), true
	default:
		return nil, false
	}
}

func (r *Recipe) Validate() error {
	v := &ValidationError{Kind: KindRecipe}
	checkDomainID(v, r.DomainID)
	checkName(v, r.Name)

	switch n := utf8.RuneCountInString(strings.TrimSpace(r.Description)); {
	case n == 0:
		v.Add("description", "Description is required", r.Description)
	case n < minDescriptionLen:
		v.Add("description", "Description must be at least 10 characters long", r.Description)
	}

	if len(r.Ingredients) == 0 {
		v.Add("ingredients", "Ingredients must be a non-empty array", nil)
	}
	checkRefIDs(v, "ingredients", "Ingredient", r.Ingredients)

	if len(r.Instructions) == 0 {
		v.Add("instructions", "Instructions cannot be empty", nil)
	}
	for i, step := range r.Instructions {
		if strings.TrimSpace(step) == "" {
			v.Add("instructions["+strconv.Itoa(i)+"]", "Instructions cannot be empty", step)
		}
	}

	ct := strings.TrimSpace(r.CookingTime)
	switch {
	case ct == "":
		v.Add("cookingTime", "Cooking time is required", r.CookingTime)
	case !cookingTimePattern.MatchString(ct):
		v.Add("cookingTime", `Cooking time must be in the format "X minutes"`, r.CookingTime)
	}

	switch {
	case r.Category == "":
		v.Add("category", "Category is required", nil)
	case !r.Category.Valid():
		v.Add("category", string(r.Category)+" is not a valid category. Valid categories are: "+joinCategories()+".", string(r.Category))
	}
	return v.OrNil()
}

func (r *Recipe) CloneDocument() Document { return r.Clone() }

func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	out := *r
	out.Ingredients = append(datatypes.JSONSlice[int64]{}, r.Ingredients...)
	out.Instructions = append(datatypes.JSONSlice[string]{}, r.Instructions...)
	return &out
}

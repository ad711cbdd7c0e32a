package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Ingredient struct {
	StorageID uuid.UUID                  `gorm:"column:storage_id;type:uuid;primaryKey" json:"_id"`
	DomainID  int64                      `gorm:"column:domain_id;not null;uniqueIndex" json:"id"`
	Recipes   datatypes.JSONSlice[int64] `gorm:"column:recipes" json:"recipes"`
	Name      string                     `gorm:"column:name;not null" json:"name"`
	Quantity  float64                    `gorm:"column:quantity;not null" json:"quantity"`
	Unit      Unit                       `gorm:"column:unit;not null;index" json:"unit"`
	Nutrition int64                      `gorm:"column:nutrition;not null;index" json:"nutrition"`

	NameFolded string `gorm:"column:name_folded" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Ingredient) TableName() string { return "ingredients" }

func (i *Ingredient) Kind() Kind                          { return KindIngredient }
func (i *Ingredient) GetStorageID() uuid.UUID             { return i.StorageID }
func (i *Ingredient) SetStorageID(id uuid.UUID)           { i.StorageID = id }
func (i *Ingredient) GetDomainID() int64                  { return i.DomainID }
func (i *Ingredient) SetDomainID(id int64)                { i.DomainID = id }
func (i *Ingredient) Timestamps() (time.Time, time.Time) { return i.CreatedAt, i.UpdatedAt }
func (i *Ingredient) SetTimestamps(created, updated time.Time) {
	i.CreatedAt, i.UpdatedAt = created, updated
}

func (i *Ingredient) Prepare() {
	i.Name = strings.TrimSpace(i.Name)
	i.NameFolded = Fold(i.Name)
	if i.Recipes == nil {
		i.Recipes = datatypes.JSONSlice[int64]{}
	}
}

func (i *Ingredient) FieldValue(column string) (any, bool) {
	switch column {
	case "domain_id":
		return i.DomainID, true
	case "name":
		return i.Name, true
	case "quantity":
		return i.Quantity, true
	case "unit":
		return string(i.Unit), true
	case "nutrition":
		return i.Nutrition, true
	default:
		return nil, false
	}
}

func (i *Ingredient) Validate() error {
	v := &ValidationError{Kind: KindIngredient}
	checkDomainID(v, i.DomainID)
	checkName(v, i.Name)

	switch {
	case !validQuantity(i.Quantity):
		v.Add("quantity", "Quantity must be a number", nil)
	case i.Quantity < minQuantity:
		v.Add("quantity", "Quantity must be greater than or equal to 1", i.Quantity)
	case i.Quantity > maxQuantity:
		v.Add("quantity", "Quantity cannot be more than 10", i.Quantity)
	}

	switch {
	case i.Unit == "":
		v.Add("unit", "Unit is required", nil)
	case !i.Unit.Valid():
		v.Add("unit", string(i.Unit)+" is not a valid unit. Valid units are: "+joinUnits()+".", string(i.Unit))
	}

	switch {
	case i.Nutrition == 0:
		v.Add("nutrition", "Nutrition value is required", nil)
	case i.Nutrition < 0:
		v.Add("nutrition", "Nutrition ID must be a positive number", i.Nutrition)
	}

	checkRefIDs(v, "recipes", "Recipe", i.Recipes)
	return v.OrNil()
}

func (i *Ingredient) CloneDocument() Document { return i.Clone() }

func (i *Ingredient) Clone() *Ingredient {
	if i == nil {
		return nil
	}
	out := *i
	out.Recipes = append(datatypes.JSONSlice[int64]{}, i.Recipes...)
	return &out
}

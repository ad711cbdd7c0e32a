package graphql

import (
	"fmt"

	gql "github.com/graphql-go/graphql"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/query"
	"github.com/yungbote/recipebook-backend/internal/resolve"
	"github.com/yungbote/recipebook-backend/internal/services"
)

// Services are the catalog façades the schema resolves against.
type Services struct {
	Recipes     services.RecipeService
	Ingredients services.IngredientService
	Nutritions  services.NutritionService
}

type types struct {
	calories     *gql.Scalar
	grams        *gql.Scalar
	category     *gql.Enum
	unit         *gql.Enum
	stringOp     *gql.Enum
	numberOp     *gql.Enum
	stringFilter *gql.InputObject
	numFilter    *gql.InputObject
	recipe       *gql.Object
	ingredient   *gql.Object
	nutr         *gql.Object
}

func NewSchema(svc Services) (gql.Schema, error) {
	t := &types{
		calories: newCaloriesScalar(),
		grams:    newGramsScalar(),
		category: newCategoryEnum(),
		unit:     newUnitEnum(),
		stringOp: operatorEnum("StringFilterOperator", query.StringOperators),
		numberOp: operatorEnum("NumberFilterOperator", query.NumberOperators),
	}
	t.stringFilter = gql.NewInputObject(gql.InputObjectConfig{
		Name: "StringFilter",
		Fields: gql.InputObjectConfigFieldMap{
			"operator": &gql.InputObjectFieldConfig{Type: t.stringOp},
			"value":    &gql.InputObjectFieldConfig{Type: gql.String},
		},
	})
	t.numFilter = gql.NewInputObject(gql.InputObjectConfig{
		Name: "NumberFilter",
		Fields: gql.InputObjectConfigFieldMap{
			"operator": &gql.InputObjectFieldConfig{Type: t.numberOp},
			"value":    &gql.InputObjectFieldConfig{Type: gql.Float},
		},
	})
	t.buildObjects()

	return gql.NewSchema(gql.SchemaConfig{
		Query:    t.queryType(svc),
		Mutation: t.mutationType(svc),
	})
}

func (t *types) buildObjects() {
	t.nutr = gql.NewObject(gql.ObjectConfig{
		Name: "Nutrition",
		Fields: gql.Fields{
			"_id": &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return p.Source.(*resolve.NutritionView).StorageID.String(), nil
			}},
			"id": &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return p.Source.(*resolve.NutritionView).ID, nil
			}},
			"calories": &gql.Field{Type: gql.NewNonNull(t.calories), Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return p.Source.(*resolve.NutritionView).Calories, nil
			}},
			"protein": &gql.Field{Type: gql.NewNonNull(t.grams), Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return p.Source.(*resolve.NutritionView).Protein, nil
			}},
			"fat": &gql.Field{Type: gql.NewNonNull(t.grams), Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return p.Source.(*resolve.NutritionView).Fat, nil
			}},
			"carbohydrates": &gql.Field{Type: gql.NewNonNull(t.grams), Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return p.Source.(*resolve.NutritionView).Carbohydrates, nil
			}},
		},
	})

	// Recipe and Ingredient reference each other, so their fields are thunks.
	t.recipe = gql.NewObject(gql.ObjectConfig{
		Name: "Recipe",
		Fields: (gql.FieldsThunk)(func() gql.Fields {
			return gql.Fields{
				"_id": &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.RecipeView).StorageID.String(), nil
				}},
				"id": &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.RecipeView).ID, nil
				}},
				"name": &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.RecipeView).Name, nil
				}},
				"description": &gql.Field{Type: gql.String, Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.RecipeView).Description, nil
				}},
				"ingredients": &gql.Field{Type: gql.NewNonNull(gql.NewList(t.ingredient)), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return hydrated(p.Source.(*resolve.RecipeView).Ingredients), nil
				}},
				"ingredientIds": &gql.Field{Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(gql.Int))), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return refIDs(p.Source.(*resolve.RecipeView).Ingredients), nil
				}},
				"instructions": &gql.Field{Type: gql.NewList(gql.String), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.RecipeView).Instructions, nil
				}},
				"cookingTime": &gql.Field{Type: gql.String, Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.RecipeView).CookingTime, nil
				}},
				"category": &gql.Field{Type: t.category, Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return string(p.Source.(*resolve.RecipeView).Category), nil
				}},
			}
		}),
	})

	t.ingredient = gql.NewObject(gql.ObjectConfig{
		Name: "Ingredient",
		Fields: (gql.FieldsThunk)(func() gql.Fields {
			return gql.Fields{
				"_id": &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.IngredientView).StorageID.String(), nil
				}},
				"id": &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.IngredientView).ID, nil
				}},
				"recipes": &gql.Field{Type: gql.NewList(t.recipe), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return hydrated(p.Source.(*resolve.IngredientView).Recipes), nil
				}},
				"recipeIds": &gql.Field{Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(gql.Int))), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return refIDs(p.Source.(*resolve.IngredientView).Recipes), nil
				}},
				"name": &gql.Field{Type: gql.NewNonNull(gql.String), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.IngredientView).Name, nil
				}},
				"quantity": &gql.Field{Type: gql.NewNonNull(gql.Float), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.IngredientView).Quantity, nil
				}},
				"unit": &gql.Field{Type: t.unit, Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return string(p.Source.(*resolve.IngredientView).Unit), nil
				}},
				"nutrition": &gql.Field{Type: t.nutr, Resolve: func(p gql.ResolveParams) (interface{}, error) {
					ref := p.Source.(*resolve.IngredientView).Nutrition
					if !ref.Resolved() {
						return nil, nil
					}
					return ref.Value, nil
				}},
				"nutritionId": &gql.Field{Type: gql.NewNonNull(gql.Int), Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(*resolve.IngredientView).Nutrition.ID, nil
				}},
			}
		}),
	})
}

// hydrated lists the resolved values of refs, with nil for raw or dangling
// slots so positions line up with the id list.
func hydrated[T any](refs []resolve.Ref[T]) []interface{} {
	out := make([]interface{}, 0, len(refs))
	for _, r := range refs {
		if r.Resolved() {
			out = append(out, r.Value)
		} else {
			out = append(out, nil)
		}
	}
	return out
}

func refIDs[T any](refs []resolve.Ref[T]) []int64 {
	out := make([]int64, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}

// filterInput derives a filter input type from the filterable fields of kind.
func (t *types) filterInput(kind domain.Kind, name string) *gql.InputObject {
	fields := gql.InputObjectConfigFieldMap{}
	schema := query.SchemaFor(kind)
	for _, field := range schema.Names() {
		var typ gql.Input
		switch schema[field].Kind {
		case query.FieldString:
			typ = t.stringFilter
		case query.FieldNumber:
			typ = t.numFilter
		case query.FieldEnum:
			switch field {
			case "category":
				typ = t.category
			case "unit":
				typ = t.unit
			default:
				typ = gql.String
			}
		}
		fields[field] = &gql.InputObjectFieldConfig{Type: typ}
	}
	return gql.NewInputObject(gql.InputObjectConfig{Name: name, Fields: fields})
}

func listArgs(filter *gql.InputObject) gql.FieldConfigArgument {
	args := gql.FieldConfigArgument{
		"page":  &gql.ArgumentConfig{Type: gql.Int},
		"limit": &gql.ArgumentConfig{Type: gql.Int},
		"depth": &gql.ArgumentConfig{Type: gql.Int},
	}
	if filter != nil {
		args["filter"] = &gql.ArgumentConfig{Type: filter}
	}
	return args
}

func getArgs() gql.FieldConfigArgument {
	return gql.FieldConfigArgument{
		"_id":   &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
		"depth": &gql.ArgumentConfig{Type: gql.Int},
	}
}

func (t *types) queryType(svc Services) *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"getRecipe": &gql.Field{
				Type: t.recipe,
				Args: getArgs(),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, err := storageIDArg(domain.KindRecipe, p.Args["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Recipes.Get(p.Context, id, depthOpts(p.Args)...)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"getIngredient": &gql.Field{
				Type: t.ingredient,
				Args: getArgs(),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, err := storageIDArg(domain.KindIngredient, p.Args["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Ingredients.Get(p.Context, id, depthOpts(p.Args)...)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"getNutrition": &gql.Field{
				Type: t.nutr,
				Args: getArgs(),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, err := storageIDArg(domain.KindNutrition, p.Args["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Nutritions.Get(p.Context, id)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"getAllRecipes": &gql.Field{
				Type: gql.NewList(t.recipe),
				Args: listArgs(t.filterInput(domain.KindRecipe, "RecipeFilter")),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					page, err := pageArgs(p.Args)
					if err != nil {
						return nil, wrapErr(err)
					}
					views, _, err := svc.Recipes.List(p.Context, filterArg(p.Args), page, depthOpts(p.Args)...)
					if err != nil {
						return nil, wrapErr(err)
					}
					return views, nil
				},
			},
			"getAllIngredients": &gql.Field{
				Type: gql.NewList(t.ingredient),
				Args: listArgs(t.filterInput(domain.KindIngredient, "IngredientFilter")),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					page, err := pageArgs(p.Args)
					if err != nil {
						return nil, wrapErr(err)
					}
					views, _, err := svc.Ingredients.List(p.Context, filterArg(p.Args), page, depthOpts(p.Args)...)
					if err != nil {
						return nil, wrapErr(err)
					}
					return views, nil
				},
			},
			"getAllNutritions": &gql.Field{
				Type: gql.NewList(t.nutr),
				Args: listArgs(t.filterInput(domain.KindNutrition, "NutritionFilter")),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					page, err := pageArgs(p.Args)
					if err != nil {
						return nil, wrapErr(err)
					}
					views, _, err := svc.Nutritions.List(p.Context, filterArg(p.Args), page)
					if err != nil {
						return nil, wrapErr(err)
					}
					return views, nil
				},
			},
		},
	})
}

func (t *types) mutationType(svc Services) *gql.Object {
	idList := gql.NewList(gql.NewNonNull(gql.ID))
	recipeFields := func(required bool, withStorageID bool) gql.InputObjectConfigFieldMap {
		req := func(typ gql.Input) gql.Input {
			if required {
				return gql.NewNonNull(typ)
			}
			return typ
		}
		fields := gql.InputObjectConfigFieldMap{
			"id":           &gql.InputObjectFieldConfig{Type: gql.ID},
			"name":         &gql.InputObjectFieldConfig{Type: req(gql.String)},
			"description":  &gql.InputObjectFieldConfig{Type: req(gql.String)},
			"ingredients":  &gql.InputObjectFieldConfig{Type: req(idList)},
			"instructions": &gql.InputObjectFieldConfig{Type: req(gql.NewList(gql.NewNonNull(gql.String)))},
			"cookingTime":  &gql.InputObjectFieldConfig{Type: req(gql.String)},
			"category":     &gql.InputObjectFieldConfig{Type: req(t.category)},
		}
		if withStorageID {
			fields["_id"] = &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.ID)}
		}
		return fields
	}
	ingredientFields := func(required bool, withStorageID bool) gql.InputObjectConfigFieldMap {
		req := func(typ gql.Input) gql.Input {
			if required {
				return gql.NewNonNull(typ)
			}
			return typ
		}
		fields := gql.InputObjectConfigFieldMap{
			"id":        &gql.InputObjectFieldConfig{Type: gql.ID},
			"recipes":   &gql.InputObjectFieldConfig{Type: idList},
			"name":      &gql.InputObjectFieldConfig{Type: req(gql.String)},
			"quantity":  &gql.InputObjectFieldConfig{Type: req(gql.Float)},
			"unit":      &gql.InputObjectFieldConfig{Type: req(t.unit)},
			"nutrition": &gql.InputObjectFieldConfig{Type: req(gql.ID)},
		}
		if withStorageID {
			fields["_id"] = &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.ID)}
		}
		return fields
	}
	nutritionFields := func(required bool, withStorageID bool) gql.InputObjectConfigFieldMap {
		req := func(typ gql.Input) gql.Input {
			if required {
				return gql.NewNonNull(typ)
			}
			return typ
		}
		fields := gql.InputObjectConfigFieldMap{
			"id":            &gql.InputObjectFieldConfig{Type: gql.ID},
			"calories":      &gql.InputObjectFieldConfig{Type: req(t.calories)},
			"protein":       &gql.InputObjectFieldConfig{Type: req(t.grams)},
			"fat":           &gql.InputObjectFieldConfig{Type: req(t.grams)},
			"carbohydrates": &gql.InputObjectFieldConfig{Type: req(t.grams)},
		}
		if withStorageID {
			fields["_id"] = &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.ID)}
		}
		return fields
	}
	input := func(name string, fields gql.InputObjectConfigFieldMap) gql.FieldConfigArgument {
		obj := gql.NewInputObject(gql.InputObjectConfig{Name: name, Fields: fields})
		return gql.FieldConfigArgument{"input": &gql.ArgumentConfig{Type: gql.NewNonNull(obj)}}
	}
	deleteArgs := gql.FieldConfigArgument{"_id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)}}

	return gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"createRecipe": &gql.Field{
				Type: t.recipe,
				Args: input("CreateRecipeInput", recipeFields(true, false)),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					in, err := recipeInput(inputArg(p.Args))
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Recipes.Create(p.Context, in)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"replaceRecipe": &gql.Field{
				Type: t.recipe,
				Args: input("ReplaceRecipeInput", recipeFields(true, true)),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					m := inputArg(p.Args)
					id, err := storageIDArg(domain.KindRecipe, m["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					in, err := recipeInput(m)
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Recipes.Replace(p.Context, id, in)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"updateRecipe": &gql.Field{
				Type: t.recipe,
				Args: input("UpdateRecipeInput", recipeFields(false, true)),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					m := inputArg(p.Args)
					id, err := storageIDArg(domain.KindRecipe, m["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					patch, err := recipePatch(m)
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Recipes.Update(p.Context, id, patch)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"deleteRecipe": &gql.Field{
				Type: gql.String,
				Args: deleteArgs,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, err := storageIDArg(domain.KindRecipe, p.Args["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					if _, err := svc.Recipes.Remove(p.Context, id); err != nil {
						return nil, wrapErr(err)
					}
					return deletedMessage(domain.KindRecipe, id), nil
				},
			},

			"createIngredient": &gql.Field{
				Type: t.ingredient,
				Args: input("CreateIngredientInput", ingredientFields(true, false)),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					in, err := ingredientInput(inputArg(p.Args))
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Ingredients.Create(p.Context, in)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"replaceIngredient": &gql.Field{
				Type: t.ingredient,
				Args: input("ReplaceIngredientInput", ingredientFields(true, true)),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					m := inputArg(p.Args)
					id, err := storageIDArg(domain.KindIngredient, m["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					in, err := ingredientInput(m)
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Ingredients.Replace(p.Context, id, in)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"updateIngredient": &gql.Field{
				Type: t.ingredient,
				Args: input("UpdateIngredientInput", ingredientFields(false, true)),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					m := inputArg(p.Args)
					id, err := storageIDArg(domain.KindIngredient, m["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					patch, err := ingredientPatch(m)
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Ingredients.Update(p.Context, id, patch)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"deleteIngredient": &gql.Field{
				Type: gql.String,
				Args: deleteArgs,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, err := storageIDArg(domain.KindIngredient, p.Args["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					if _, err := svc.Ingredients.Remove(p.Context, id); err != nil {
						return nil, wrapErr(err)
					}
					return deletedMessage(domain.KindIngredient, id), nil
				},
			},

			"createNutrition": &gql.Field{
				Type: t.nutr,
				Args: input("CreateNutritionInput", nutritionFields(true, false)),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					in, err := nutritionInput(inputArg(p.Args))
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Nutritions.Create(p.Context, in)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"replaceNutrition": &gql.Field{
				Type: t.nutr,
				Args: input("ReplaceNutritionInput", nutritionFields(true, true)),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					m := inputArg(p.Args)
					id, err := storageIDArg(domain.KindNutrition, m["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					in, err := nutritionInput(m)
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Nutritions.Replace(p.Context, id, in)
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"updateNutrition": &gql.Field{
				Type: t.nutr,
				Args: input("UpdateNutritionInput", nutritionFields(false, true)),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					m := inputArg(p.Args)
					id, err := storageIDArg(domain.KindNutrition, m["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					v, err := svc.Nutritions.Update(p.Context, id, nutritionPatch(m))
					if err != nil {
						return nil, wrapErr(err)
					}
					return v, nil
				},
			},
			"deleteNutrition": &gql.Field{
				Type: gql.String,
				Args: deleteArgs,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, err := storageIDArg(domain.KindNutrition, p.Args["_id"])
					if err != nil {
						return nil, wrapErr(err)
					}
					if _, err := svc.Nutritions.Remove(p.Context, id); err != nil {
						return nil, wrapErr(err)
					}
					return deletedMessage(domain.KindNutrition, id), nil
				},
			},
		},
	})
}

func deletedMessage(kind domain.Kind, id fmt.Stringer) string {
	return fmt.Sprintf("%s with ID %s has been successfully deleted", kind.Title(), id)
}

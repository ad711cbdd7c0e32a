package graphql

import (
	gql "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/query"
)

// amountScalar accepts only strings that parse under the given rule. Stored
// values are serialized as they are.
func amountScalar(name, description string, valid func(string) bool) *gql.Scalar {
	parse := func(v interface{}) interface{} {
		s, ok := v.(string)
		if !ok || !valid(s) {
			return nil
		}
		return s
	}
	return gql.NewScalar(gql.ScalarConfig{
		Name:        name,
		Description: description,
		Serialize: func(v interface{}) interface{} {
			if s, ok := v.(string); ok {
				return s
			}
			return nil
		},
		ParseValue: parse,
		ParseLiteral: func(valueAST ast.Value) interface{} {
			sv, ok := valueAST.(*ast.StringValue)
			if !ok {
				return nil
			}
			return parse(sv.Value)
		},
	})
}

func newCaloriesScalar() *gql.Scalar {
	return amountScalar("Calories", `Calorie value such as "200 kcal".`, func(s string) bool {
		_, ok := domain.ParseCalories(s)
		return ok
	})
}

func newGramsScalar() *gql.Scalar {
	return amountScalar("ValueWithGrams", `Weight in grams such as "7.5 g".`, func(s string) bool {
		_, ok := domain.ParseGrams(s)
		return ok
	})
}

func newCategoryEnum() *gql.Enum {
	values := gql.EnumValueConfigMap{}
	for _, c := range domain.Categories() {
		values[string(c)] = &gql.EnumValueConfig{Value: string(c)}
	}
	return gql.NewEnum(gql.EnumConfig{Name: "Category", Values: values})
}

func newUnitEnum() *gql.Enum {
	values := gql.EnumValueConfigMap{}
	for _, u := range domain.Units() {
		values[string(u)] = &gql.EnumValueConfig{Value: string(u)}
	}
	return gql.NewEnum(gql.EnumConfig{Name: "Unit", Values: values})
}

func operatorEnum(name string, ops []query.Operator) *gql.Enum {
	values := gql.EnumValueConfigMap{}
	for _, op := range ops {
		values[string(op)] = &gql.EnumValueConfig{Value: string(op)}
	}
	return gql.NewEnum(gql.EnumConfig{Name: name, Values: values})
}

package query

import (
	"math"
	"sort"
	"strings"

	"github.com/yungbote/recipebook-backend/internal/domain"
)

// Expression is one `{field, operator, value}` entry as received from a
// transport. An empty operator means EQUALS.
type Expression struct {
	Field    string
	Operator Operator
	Value    any
}

// Filter is a conjunction of expressions.
type Filter []Expression

type FieldSpec struct {
	Name         string
	Column       string
	FoldedColumn string // case-folded copy of a string column
	Kind         FieldKind
	Enum         []string
}

type Schema map[string]FieldSpec

var schemas = map[domain.Kind]Schema{
	domain.KindRecipe: newSchema(
		FieldSpec{Name: "id", Column: "domain_id", Kind: FieldNumber},
		FieldSpec{Name: "name", Column: "name", FoldedColumn: "name_folded", Kind: FieldString},
		FieldSpec{Name: "description", Column: "description", FoldedColumn: "description_folded", Kind: FieldString},
		FieldSpec{Name: "cookingTime", Column: "cooking_time", FoldedColumn: "cooking_time_folded", Kind: FieldString},
		FieldSpec{Name: "category", Column: "category", Kind: FieldEnum, Enum: categoryNames()},
	),
	domain.KindIngredient: newSchema(
		FieldSpec{Name: "id", Column: "domain_id", Kind: FieldNumber},
		FieldSpec{Name: "name", Column: "name", FoldedColumn: "name_folded", Kind: FieldString},
		FieldSpec{Name: "quantity", Column: "quantity", Kind: FieldNumber},
		FieldSpec{Name: "unit", Column: "unit", Kind: FieldEnum, Enum: unitNames()},
		FieldSpec{Name: "nutrition", Column: "nutrition", Kind: FieldNumber},
	),
	domain.KindNutrition: newSchema(
		FieldSpec{Name: "id", Column: "domain_id", Kind: FieldNumber},
		FieldSpec{Name: "calories", Column: "calories_kcal", Kind: FieldNumber},
		FieldSpec{Name: "protein", Column: "protein_g", Kind: FieldNumber},
		FieldSpec{Name: "fat", Column: "fat_g", Kind: FieldNumber},
		FieldSpec{Name: "carbohydrates", Column: "carbohydrates_g", Kind: FieldNumber},
	),
}

func newSchema(specs ...FieldSpec) Schema {
	s := make(Schema, len(specs))
	for _, spec := range specs {
		s[spec.Name] = spec
	}
	return s
}

// SchemaFor returns the filterable fields of kind.
func SchemaFor(kind domain.Kind) Schema { return schemas[kind] }

// Names lists the filterable field names in a stable order.
func (s Schema) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type Compiler struct {
	strictNumbers bool
}

type CompilerOption func(*Compiler)

// WithStrictNumbers rejects numeric filters whose value is not a finite
// number instead of ignoring them.
func WithStrictNumbers(strict bool) CompilerOption {
	return func(c *Compiler) { c.strictNumbers = strict }
}

func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile validates filter against the field table of kind and returns a
// store-evaluable predicate.
func (c *Compiler) Compile(kind domain.Kind, filter Filter) (Predicate, error) {
	schema, ok := schemas[kind]
	if !ok {
		return Predicate{}, domain.NewValidationError(kind, "filter", "unknown collection", string(kind))
	}
	verr := &domain.ValidationError{Kind: kind}
	var conds []Condition
	for _, expr := range filter {
		field := "filter." + expr.Field
		spec, ok := schema[expr.Field]
		if !ok {
			verr.Add(field, "Unknown filter field. Valid fields are: "+strings.Join(schema.Names(), ", "), expr.Field)
			continue
		}
		op := Operator(strings.ToUpper(strings.TrimSpace(string(expr.Operator))))
		if op == "" {
			op = OpEquals
		}
		if expr.Value == nil {
			continue
		}
		switch spec.Kind {
		case FieldString:
			if !containsOp(StringOperators, op) {
				verr.Add(field, "Invalid operator "+string(op)+" for a string field", string(op))
				continue
			}
			s, ok := expr.Value.(string)
			if !ok {
				verr.Add(field, "Filter value must be a string", expr.Value)
				continue
			}
			if s == "" {
				continue
			}
			conds = append(conds, Condition{Column: spec.Column, FoldedColumn: spec.FoldedColumn, Kind: FieldString, Operator: op, Value: s})
		case FieldEnum:
			if op != OpEquals {
				verr.Add(field, "Only EQUALS is supported for "+spec.Name, string(op))
				continue
			}
			s, ok := expr.Value.(string)
			if !ok || !containsString(spec.Enum, s) {
				verr.Add(field, "Invalid value for "+spec.Name+". Valid values are: "+strings.Join(spec.Enum, ", "), expr.Value)
				continue
			}
			conds = append(conds, Condition{Column: spec.Column, Kind: FieldEnum, Operator: OpEquals, Value: s})
		case FieldNumber:
			if !containsOp(NumberOperators, op) {
				verr.Add(field, "Invalid operator "+string(op)+" for a number field", string(op))
				continue
			}
			f, ok := toFloat(expr.Value)
			if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
				if c.strictNumbers {
					verr.Add(field, "Filter value must be a finite number", expr.Value)
				}
				continue
			}
			conds = append(conds, Condition{Column: spec.Column, Kind: FieldNumber, Operator: op, Value: f})
		}
	}
	if err := verr.OrNil(); err != nil {
		return Predicate{}, err
	}
	return Predicate{Conditions: conds}, nil
}

func containsOp(ops []Operator, op Operator) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func categoryNames() []string {
	out := []string{}
	for _, c := range domain.Categories() {
		out = append(out, string(c))
	}
	return out
}

func unitNames() []string {
	out := []string{}
	for _, u := range domain.Units() {
		out = append(out, string(u))
	}
	return out
}

package query

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/recipebook-backend/internal/domain"
)

type Operator string

const (
	OpEquals             Operator = "EQUALS"
	OpContains           Operator = "CONTAINS"
	OpNotEquals          Operator = "NOT_EQUALS"
	OpNotContains        Operator = "NOT_CONTAINS"
	OpGreaterThan        Operator = "GREATER_THAN"
	OpLessThan           Operator = "LESS_THAN"
	OpGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
	OpLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"

	// opIn is only produced internally for domain id lookups.
	opIn Operator = "IN"
)

var (
	StringOperators = []Operator{OpEquals, OpContains, OpNotEquals, OpNotContains}
	NumberOperators = []Operator{OpEquals, OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual}
)

type FieldKind int

const (
	FieldString FieldKind = iota
	FieldNumber
	FieldEnum
)

func (k FieldKind) String() string {
	switch k {
	case FieldString:
		return "string"
	case FieldNumber:
		return "number"
	case FieldEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Condition is one compiled constraint on a store column. Value is a string
// for string and enum fields, a float64 for numbers, and []int64 for IN.
//
// CONTAINS and NOT_CONTAINS run against FoldedColumn in SQL when it is set;
// in memory both sides are folded with domain.Fold.
type Condition struct {
	Column       string
	FoldedColumn string
	Kind         FieldKind
	Operator     Operator
	Value        any
}

// Record is anything the in-memory store can evaluate a Condition against.
type Record interface {
	FieldValue(column string) (any, bool)
}

// Predicate is an AND of conditions. The zero value matches everything.
type Predicate struct {
	Conditions []Condition
}

func (p Predicate) Empty() bool { return len(p.Conditions) == 0 }

func (p Predicate) And(conds ...Condition) Predicate {
	out := make([]Condition, 0, len(p.Conditions)+len(conds))
	out = append(out, p.Conditions...)
	out = append(out, conds...)
	return Predicate{Conditions: out}
}

// DomainIDIn matches records whose domain id is one of ids.
func DomainIDIn(ids []int64) Condition {
	return Condition{Column: "domain_id", Kind: FieldNumber, Operator: opIn, Value: append([]int64(nil), ids...)}
}

func (p Predicate) Matches(r Record) bool {
	for _, c := range p.Conditions {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}

func (c Condition) Matches(r Record) bool {
	raw, ok := r.FieldValue(c.Column)
	if !ok {
		return false
	}
	if c.Operator == opIn {
		id, ok := toInt64(raw)
		if !ok {
			return false
		}
		for _, want := range c.Value.([]int64) {
			if want == id {
				return true
			}
		}
		return false
	}
	switch c.Kind {
	case FieldNumber:
		have, ok := toFloat(raw)
		want, ok2 := c.Value.(float64)
		if !ok || !ok2 {
			return false
		}
		switch c.Operator {
		case OpEquals:
			return have == want
		case OpGreaterThan:
			return have > want
		case OpLessThan:
			return have < want
		case OpGreaterThanOrEqual:
			return have >= want
		case OpLessThanOrEqual:
			return have <= want
		}
		return false
	default:
		have, _ := raw.(string)
		want, _ := c.Value.(string)
		switch c.Operator {
		case OpEquals:
			return have == want
		case OpNotEquals:
			return have != want
		case OpContains:
			return strings.Contains(domain.Fold(have), domain.Fold(want))
		case OpNotContains:
			return !strings.Contains(domain.Fold(have), domain.Fold(want))
		}
		return false
	}
}

// Scope renders the predicate onto a gorm query. Column names come from the
// field tables, never from request input, and are quoted by gorm.
func (p Predicate) Scope(db *gorm.DB) *gorm.DB {
	for _, c := range p.Conditions {
		db = db.Where(c.expr())
	}
	return db
}

func (c Condition) expr() clause.Expression {
	col := clause.Column{Name: c.Column}
	switch c.Operator {
	case opIn:
		ids := c.Value.([]int64)
		if len(ids) == 0 {
			return clause.Expr{SQL: "1 = 0"}
		}
		vals := make([]interface{}, 0, len(ids))
		for _, id := range ids {
			vals = append(vals, id)
		}
		return clause.IN{Column: col, Values: vals}
	case OpContains, OpNotContains:
		sql := "? LIKE ? ESCAPE '\\'"
		if c.Operator == OpNotContains {
			sql = "? NOT LIKE ? ESCAPE '\\'"
		}
		if c.FoldedColumn != "" {
			return clause.Expr{SQL: sql, Vars: []interface{}{clause.Column{Name: c.FoldedColumn}, likePattern(c.Value)}}
		}
		return clause.Expr{SQL: sql, Vars: []interface{}{clause.Expr{SQL: "LOWER(?)", Vars: []interface{}{col}}, likePattern(c.Value)}}
	case OpNotEquals:
		return clause.Neq{Column: col, Value: c.Value}
	case OpGreaterThan:
		return clause.Gt{Column: col, Value: c.Value}
	case OpLessThan:
		return clause.Lt{Column: col, Value: c.Value}
	case OpGreaterThanOrEqual:
		return clause.Gte{Column: col, Value: c.Value}
	case OpLessThanOrEqual:
		return clause.Lte{Column: col, Value: c.Value}
	default:
		return clause.Eq{Column: col, Value: c.Value}
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(v any) string {
	s, _ := v.(string)
	return "%" + likeEscaper.Replace(domain.Fold(s)) + "%"
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}

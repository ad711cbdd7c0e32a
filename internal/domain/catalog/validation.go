package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	cookingTimePattern = regexp.MustCompile(`^\d+ minutes$`)
	caloriesPattern    = regexp.MustCompile(`^\d+\s?kcal$`)
	gramsPattern       = regexp.MustCompile(`^\d+(\.\d+)?\s?g$`)
)

const (
	minNameLen        = 3
	maxNameLen        = 100
	minDescriptionLen = 10
	minQuantity       = 1
	maxQuantity       = 10
)

func checkDomainID(v *ValidationError, id int64) {
	switch {
	case id == 0:
		v.Add("id", "ID is required", id)
	case id < 0:
		v.Add("id", "ID must be a positive number", id)
	}
}

func checkName(v *ValidationError, name string) {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		v.Add("name", "Name is required", name)
	case n < minNameLen:
		v.Add("name", "Name must be at least 3 characters long", name)
	case n > maxNameLen:
		v.Add("name", "Name must be less than 100 characters long", name)
	}
}

func checkRefIDs(v *ValidationError, field, label string, ids []int64) {
	for i, id := range ids {
		if id < 1 {
			v.Add(field+"["+strconv.Itoa(i)+"]", label+" IDs must be positive numbers", id)
		}
	}
}

func validQuantity(q float64) bool {
	return !math.IsNaN(q) && !math.IsInf(q, 0)
}

// ParseCalories extracts the numeric part of a "<n> kcal" string.
func ParseCalories(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !caloriesPattern.MatchString(s) {
		return 0, false
	}
	return parseAmount(strings.TrimSuffix(s, "kcal"))
}

// ParseGrams extracts the numeric part of a "<n> g" string.
func ParseGrams(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !gramsPattern.MatchString(s) {
		return 0, false
	}
	return parseAmount(strings.TrimSuffix(s, "g"))
}

func parseAmount(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

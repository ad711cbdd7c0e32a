package handlers

import (
	"testing"

	"github.com/graphql-go/graphql/language/ast"
)

func TestOperationType(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		operationName string
		want          string
	}{
		{name: "shorthand", query: `{ getAllRecipes { id } }`, want: ast.OperationTypeQuery},
		{name: "mutation", query: `mutation { deleteRecipe(_id: "x") { id } }`, want: ast.OperationTypeMutation},
		{name: "named mutation", query: `query A { getAllRecipes { id } } mutation B { deleteRecipe(_id: "x") { id } }`, operationName: "B", want: ast.OperationTypeMutation},
		{name: "named query", query: `query A { getAllRecipes { id } } mutation B { deleteRecipe(_id: "x") { id } }`, operationName: "A", want: ast.OperationTypeQuery},
		{name: "ambiguous", query: `query A { getAllRecipes { id } } mutation B { deleteRecipe(_id: "x") { id } }`, want: ""},
		{name: "syntax error", query: `mutation {`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := operationType(tt.query, tt.operationName); got != tt.want {
				t.Fatalf("operationType = %q, want %q", got, tt.want)
			}
		})
	}
}

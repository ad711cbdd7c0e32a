package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gql "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/platform/apierr"
	"github.com/yungbote/recipebook-backend/internal/platform/ctxutil"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

type graphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type GraphQLHandler struct {
	log    *logger.Logger
	schema gql.Schema
}

func NewGraphQLHandler(log *logger.Logger, schema gql.Schema) *GraphQLHandler {
	return &GraphQLHandler{
		log:    log.With("handler", "GraphQLHandler"),
		schema: schema,
	}
}

// GET|POST /graphql
func (h *GraphQLHandler) Serve(c *gin.Context) {
	var req graphQLRequest
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, fmt.Errorf("variables must be a JSON object"))
				return
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, fmt.Errorf("invalid GraphQL request body"))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, fmt.Errorf("query is required"))
		return
	}
	if c.Request.Method == http.MethodGet && operationType(req.Query, req.OperationName) == ast.OperationTypeMutation {
		c.Header("Allow", http.MethodPost)
		response.RespondError(c, http.StatusMethodNotAllowed, apierr.CodeBadRequest, fmt.Errorf("mutations must be sent with POST"))
		return
	}

	result := gql.Do(gql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})
	if result.HasErrors() {
		fields := append([]interface{}{"operation", req.OperationName, "errors", len(result.Errors)}, ctxutil.LogFields(c.Request.Context())...)
		h.log.Debug("GraphQL request returned errors", fields...)
	}
	c.JSON(http.StatusOK, result)
}

// operationType reports the type of the operation a request would execute.
// Unparseable documents and unknown operation names return "" and are left
// for the executor to report.
func operationType(query, operationName string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return ""
	}
	var ops []*ast.OperationDefinition
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			ops = append(ops, op)
		}
	}
	if operationName == "" {
		if len(ops) == 1 {
			return ops[0].Operation
		}
		return ""
	}
	for _, op := range ops {
		if op.Name != nil && op.Name.Value == operationName {
			return op.Operation
		}
	}
	return ""
}

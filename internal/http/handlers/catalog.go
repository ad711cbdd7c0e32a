package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/platform/apierr"
	"github.com/yungbote/recipebook-backend/internal/query"
	"github.com/yungbote/recipebook-backend/internal/services"
)

// Link is one hypermedia control attached to a resource.
type Link struct {
	Rel    string `json:"rel"`
	Method string `json:"method"`
	Href   string `json:"href"`
}

func collectionPath(kind domain.Kind) string {
	return "/api/" + kind.Collection()
}

func resourceLinks(kind domain.Kind, id uuid.UUID) []Link {
	base := collectionPath(kind)
	self := base + "/" + id.String()
	return []Link{
		{Rel: "self", Method: http.MethodGet, Href: self},
		{Rel: "update", Method: http.MethodPatch, Href: self},
		{Rel: "replace", Method: http.MethodPut, Href: self},
		{Rel: "delete", Method: http.MethodDelete, Href: self},
		{Rel: "all", Method: http.MethodGet, Href: base},
	}
}

func collectionLinks(kind domain.Kind) []Link {
	base := collectionPath(kind)
	return []Link{
		{Rel: "self", Method: http.MethodGet, Href: base},
		{Rel: "create", Method: http.MethodPost, Href: base},
	}
}

type listEnvelope[T any] struct {
	Items []T    `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Links []Link `json:"links"`
}

type deleteEnvelope struct {
	Message string `json:"message"`
	Links   []Link `json:"links"`
}

func respondList[T any](c *gin.Context, kind domain.Kind, items []T, total int64, page query.Page) {
	if items == nil {
		items = []T{}
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	response.RespondOK(c, listEnvelope[T]{
		Items: items,
		Total: total,
		Page:  page.Number,
		Limit: page.Limit,
		Links: collectionLinks(kind),
	})
}

func respondDeleted(c *gin.Context, kind domain.Kind, domainID int64) {
	response.RespondOK(c, deleteEnvelope{
		Message: fmt.Sprintf("%s with id %d deleted", kind.Title(), domainID),
		Links:   collectionLinks(kind),
	})
}

// storageIDParam reads ":id". A malformed id cannot name a stored record, so
// it is reported as not found.
func storageIDParam(c *gin.Context, kind domain.Kind) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &domain.NotFoundError{Kind: kind, StorageID: raw}
	}
	return id, nil
}

// bindBody decodes the JSON body into dst.
func bindBody(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierr.New(http.StatusBadRequest, apierr.CodeBadRequest, fmt.Errorf("request body is required"))
		}
		return apierr.New(http.StatusBadRequest, apierr.CodeBadRequest, fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}

// listParams turns the query string into a filter, page and read options.
// Every filterable field may appear as "<field>=<value>" with an optional
// "<field>_op=<OPERATOR>".
func listParams(c *gin.Context, kind domain.Kind) (query.Filter, query.Page, []services.ReadOption, error) {
	verr := &domain.ValidationError{Kind: kind}

	pageNum := 1
	if raw, ok := c.GetQuery("page"); ok && strings.TrimSpace(raw) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			verr.Add("page", "Page must be an integer", raw)
		} else {
			pageNum = n
		}
	}
	limit := 0
	if raw, ok := c.GetQuery("limit"); ok && strings.TrimSpace(raw) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			verr.Add("limit", "Limit must be an integer", raw)
		} else {
			limit = n
		}
	}
	var opts []services.ReadOption
	if raw, ok := c.GetQuery("depth"); ok && strings.TrimSpace(raw) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			verr.Add("depth", "Depth must be a non-negative integer", raw)
		} else {
			opts = append(opts, services.WithDepth(n))
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, query.Page{}, nil, err
	}

	page, err := query.NewPage(pageNum, limit)
	if err != nil {
		return nil, query.Page{}, nil, err
	}

	schema := query.SchemaFor(kind)
	var filter query.Filter
	for _, name := range schema.Names() {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		expr := query.Expression{
			Field:    name,
			Operator: query.Operator(c.Query(name + "_op")),
			Value:    raw,
		}
		if schema[name].Kind == query.FieldNumber {
			if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				expr.Value = f
			}
		}
		filter = append(filter, expr)
	}
	return filter, page, opts, nil
}

// depthOption reads the optional "depth" parameter of single-record reads.
func depthOption(c *gin.Context, kind domain.Kind) ([]services.ReadOption, error) {
	raw, ok := c.GetQuery("depth")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return nil, domain.NewValidationError(kind, "depth", "Depth must be a non-negative integer", raw)
	}
	return []services.ReadOption{services.WithDepth(n)}, nil
}

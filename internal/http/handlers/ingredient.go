package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/resolve"
	"github.com/yungbote/recipebook-backend/internal/services"
)

type ingredientResource struct {
	*resolve.IngredientView
	Links []Link `json:"links"`
}

func newIngredientResource(v *resolve.IngredientView) ingredientResource {
	return ingredientResource{IngredientView: v, Links: resourceLinks(domain.KindIngredient, v.StorageID)}
}

type IngredientHandler struct {
	log           *logger.Logger
	ingredientService services.IngredientService
}

func NewIngredientHandler(log *logger.Logger, ingredientService services.IngredientService) *IngredientHandler {
	return &IngredientHandler{
		log:           log.With("handler", "IngredientHandler"),
		ingredientService: ingredientService,
	}
}

// GET /api/ingredients
func (h *IngredientHandler) List(c *gin.Context) {
	filter, page, opts, err := listParams(c, domain.KindIngredient)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	views, total, err := h.ingredientService.List(c.Request.Context(), filter, page, opts...)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	items := make([]ingredientResource, 0, len(views))
	for _, v := range views {
		items = append(items, newIngredientResource(v))
	}
	respondList(c, domain.KindIngredient, items, total, page)
}

// GET /api/ingredients/:id
func (h *IngredientHandler) Get(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindIngredient)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	opts, err := depthOption(c, domain.KindIngredient)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.ingredientService.Get(c.Request.Context(), id, opts...)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newIngredientResource(view))
}

// POST /api/ingredients
func (h *IngredientHandler) Create(c *gin.Context) {
	var in services.IngredientInput
	if err := bindBody(c, &in); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.ingredientService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res := newIngredientResource(view)
	response.RespondCreated(c, res.Links[0].Href, res)
}

// PUT /api/ingredients/:id
func (h *IngredientHandler) Replace(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindIngredient)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var in services.IngredientInput
	if err := bindBody(c, &in); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.ingredientService.Replace(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newIngredientResource(view))
}

// PATCH /api/ingredients/:id
func (h *IngredientHandler) Update(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindIngredient)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var patch services.IngredientPatch
	if err := bindBody(c, &patch); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.ingredientService.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newIngredientResource(view))
}

// DELETE /api/ingredients/:id
func (h *IngredientHandler) Delete(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindIngredient)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	removed, err := h.ingredientService.Remove(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	h.log.Info("Ingredient deleted", "id", removed.DomainID, "_id", removed.StorageID)
	respondDeleted(c, domain.KindIngredient, removed.DomainID)
}

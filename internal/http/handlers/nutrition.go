package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/resolve"
	"github.com/yungbote/recipebook-backend/internal/services"
)

type nutritionResource struct {
	*resolve.NutritionView
	Links []Link `json:"links"`
}

func newNutritionResource(v *resolve.NutritionView) nutritionResource {
	return nutritionResource{NutritionView: v, Links: resourceLinks(domain.KindNutrition, v.StorageID)}
}

type NutritionHandler struct {
	log           *logger.Logger
	nutritionService services.NutritionService
}

func NewNutritionHandler(log *logger.Logger, nutritionService services.NutritionService) *NutritionHandler {
	return &NutritionHandler{
		log:           log.With("handler", "NutritionHandler"),
		nutritionService: nutritionService,
	}
}

// GET /api/nutritions
func (h *NutritionHandler) List(c *gin.Context) {
	filter, page, opts, err := listParams(c, domain.KindNutrition)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	views, total, err := h.nutritionService.List(c.Request.Context(), filter, page, opts...)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	items := make([]nutritionResource, 0, len(views))
	for _, v := range views {
		items = append(items, newNutritionResource(v))
	}
	respondList(c, domain.KindNutrition, items, total, page)
}

// GET /api/nutritions/:id
func (h *NutritionHandler) Get(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindNutrition)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	opts, err := depthOption(c, domain.KindNutrition)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.nutritionService.Get(c.Request.Context(), id, opts...)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newNutritionResource(view))
}

// POST /api/nutritions
func (h *NutritionHandler) Create(c *gin.Context) {
	var in services.NutritionInput
	if err := bindBody(c, &in); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.nutritionService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res := newNutritionResource(view)
	response.RespondCreated(c, res.Links[0].Href, res)
}

// PUT /api/nutritions/:id
func (h *NutritionHandler) Replace(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindNutrition)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var in services.NutritionInput
	if err := bindBody(c, &in); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.nutritionService.Replace(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newNutritionResource(view))
}

// PATCH /api/nutritions/:id
func (h *NutritionHandler) Update(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindNutrition)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var patch services.NutritionPatch
	if err := bindBody(c, &patch); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.nutritionService.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newNutritionResource(view))
}

// DELETE /api/nutritions/:id
func (h *NutritionHandler) Delete(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindNutrition)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	removed, err := h.nutritionService.Remove(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	h.log.Info("Nutrition deleted", "id", removed.DomainID, "_id", removed.StorageID)
	respondDeleted(c, domain.KindNutrition, removed.DomainID)
}

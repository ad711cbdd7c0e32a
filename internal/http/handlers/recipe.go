package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/resolve"
	"github.com/yungbote/recipebook-backend/internal/services"
)

type recipeResource struct {
	*resolve.RecipeView
	Links []Link `json:"links"`
}

func newRecipeResource(v *resolve.RecipeView) recipeResource {
	return recipeResource{RecipeView: v, Links: resourceLinks(domain.KindRecipe, v.StorageID)}
}

type RecipeHandler struct {
	log           *logger.Logger
	recipeService services.RecipeService
}

func NewRecipeHandler(log *logger.Logger, recipeService services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		log:           log.With("handler", "RecipeHandler"),
		recipeService: recipeService,
	}
}

// GET /api/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	filter, page, opts, err := listParams(c, domain.KindRecipe)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	views, total, err := h.recipeService.List(c.Request.Context(), filter, page, opts...)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	items := make([]recipeResource, 0, len(views))
	for _, v := range views {
		items = append(items, newRecipeResource(v))
	}
	respondList(c, domain.KindRecipe, items, total, page)
}

// GET /api/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindRecipe)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	opts, err := depthOption(c, domain.KindRecipe)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.recipeService.Get(c.Request.Context(), id, opts...)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newRecipeResource(view))
}

// POST /api/recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	var in services.RecipeInput
	if err := bindBody(c, &in); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.recipeService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res := newRecipeResource(view)
	response.RespondCreated(c, res.Links[0].Href, res)
}

// PUT /api/recipes/:id
func (h *RecipeHandler) Replace(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindRecipe)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var in services.RecipeInput
	if err := bindBody(c, &in); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.recipeService.Replace(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newRecipeResource(view))
}

// PATCH /api/recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindRecipe)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var patch services.RecipePatch
	if err := bindBody(c, &patch); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	view, err := h.recipeService.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newRecipeResource(view))
}

// DELETE /api/recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := storageIDParam(c, domain.KindRecipe)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	removed, err := h.recipeService.Remove(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	h.log.Info("Recipe deleted", "id", removed.DomainID, "_id", removed.StorageID)
	respondDeleted(c, domain.KindRecipe, removed.DomainID)
}

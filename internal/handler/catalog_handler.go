package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ratehub/internal/dto"
	"ratehub/internal/middleware"
	"ratehub/internal/service"
)

// SlugHandler serves one named-slug collection; categories and genres are two
// instances over the same code.
type SlugHandler struct {
	slugService service.SlugService
	path        string
}

func NewCategoryHandler(categoryService service.SlugService) *SlugHandler {
	return &SlugHandler{slugService: categoryService, path: "/categories"}
}

func NewGenreHandler(genreService service.SlugService) *SlugHandler {
	return &SlugHandler{slugService: genreService, path: "/genres"}
}

func (h *SlugHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group(h.path)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.DELETE("/:slug", h.Delete)
	}
}

// List returns the collection, open to everyone
// GET /api/v1/categories?search=&page=1&page_size=20
func (h *SlugHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	entities, err := h.slugService.List(c.Request.Context(), search, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entities)
}

// Create adds an entry, admin only
// POST /api/v1/categories
func (h *SlugHandler) Create(c *gin.Context) {
	var req dto.CreateSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entity, err := h.slugService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity)
}

// Delete removes an entry by slug, admin only. Titles that referenced a
// deleted category survive with the reference cleared.
// DELETE /api/v1/categories/:slug
func (h *SlugHandler) Delete(c *gin.Context) {
	if err := h.slugService.Delete(c.Request.Context(), middleware.Actor(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

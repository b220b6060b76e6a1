package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ratehub/internal/dto"
	"ratehub/internal/middleware"
	"ratehub/internal/models"
	"ratehub/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user administration and the self-profile alias.
// All user routes need an authenticated actor; /me resolves to it.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	users := router.Group("/users", requireAuth)
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/me", h.GetSelf)
		users.PATCH("/me", h.UpdateSelf)
		users.GET("/:username", h.Get)
		users.PATCH("/:username", h.Update)
		users.DELETE("/:username", h.Delete)
	}
}

// List returns users, admin only
// GET /api/v1/users?search=&page=1&page_size=20
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	users, err := h.userService.List(c.Request.Context(), middleware.Actor(c), search, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create adds a user with an arbitrary role, admin only
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetSelf returns the acting user's profile
// GET /api/v1/users/me
func (h *UserHandler) GetSelf(c *gin.Context) {
	h.get(c, models.SelfAlias)
}

// Get returns a profile by username, admin or owner
// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	h.get(c, c.Param("username"))
}

func (h *UserHandler) get(c *gin.Context, username string) {
	user, err := h.userService.Get(c.Request.Context(), middleware.Actor(c), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateSelf patches the acting user's profile; the role field is dropped
// unless the actor is an admin
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateSelf(c *gin.Context) {
	h.update(c, models.SelfAlias)
}

// Update patches a profile by username, admin or owner
// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	h.update(c, c.Param("username"))
}

func (h *UserHandler) update(c *gin.Context, username string) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), middleware.Actor(c), username, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user, admin only
// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), middleware.Actor(c), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

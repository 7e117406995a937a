package handlers

import (
	"net/http"

	"tesla-crm/internal/dto"
	"tesla-crm/internal/middleware"
	"tesla-crm/internal/models"
	"tesla-crm/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// User Handler
// User management for the dashboard. Listing and self-updates are open
// to any authenticated user; create/delete and role or status changes
// are restricted inside the service.
// ===========================================================================

// UserHandler handles user endpoints
type UserHandler struct {
	userService services.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes mounts the user endpoints on a protected group.
// Create and delete also pass the admin gate at the router level; the
// service enforces the same rules again.
func (h *UserHandler) RegisterRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.POST("", middleware.RequireAdmin(), h.Create)
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.PATCH("/:id", h.Update)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
	}
}

// Create adds a user account. Admin only.
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	acting, ok := h.actingUser(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req, acting, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(toUserResponse(user)))
}

// List returns users, paginated
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var page dto.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		respondBindError(c, err)
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = toUserResponse(&users[i])
	}

	c.JSON(http.StatusOK, dto.SuccessWithMeta(responses, total, page.PageNumber(), page.PageSize()))
}

// Get returns one user
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toUserResponse(user)))
}

// Update applies a partial update. Users can edit themselves; editing
// others or changing role and status needs the admin role.
// PATCH /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	acting, ok := h.actingUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req, acting, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toUserResponse(user)))
}

// Delete removes a user account. Admin only.
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	acting, ok := h.actingUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id, acting, actorFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(gin.H{"deleted": true}))
}

// actingUser loads the authenticated user making the call, answering
// the error response itself when that fails
func (h *UserHandler) actingUser(c *gin.Context) (*models.User, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("UNAUTHORIZED", "Authentication required"))
		return nil, false
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}

	return user, true
}

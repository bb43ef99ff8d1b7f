package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockk_backend/middleware"
	"stockk_backend/repository"
	"stockk_backend/schemas"
)

// UserController serves the local user accounts provisioned from the
// identity provider.
type UserController struct {
	users  *repository.UserRepository
	logger *zap.Logger
}

// NewUserController creates a new user controller
func NewUserController(users *repository.UserRepository, logger *zap.Logger) *UserController {
	return &UserController{users: users, logger: logger}
}

// pageParams reads page/size pagination with sane bounds
func pageParams(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("size", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return page, limit, (page - 1) * limit
}

// ListUsers returns a page of users
// GET /api/v0/users?page=&size=
func (ctl *UserController) ListUsers(c *gin.Context) {
	page, limit, offset := pageParams(c)

	users, err := ctl.users.List(c.Request.Context(), offset, limit)
	if err != nil {
		ctl.logger.Error("failed to list users", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load users")
		return
	}
	total, err := ctl.users.Count(c.Request.Context())
	if err != nil {
		ctl.logger.Error("failed to count users", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load users")
		return
	}
	respondOK(c, schemas.NewPage(users, total, page, limit))
}

// GetMe returns the authenticated user
// GET /api/v0/users/me
func (ctl *UserController) GetMe(c *gin.Context) {
	respondOK(c, middleware.CurrentUser(c))
}

// GetOIDCMe returns the raw claims the identity provider reported for
// this request's token.
// GET /api/v0/users/oidc_me
func (ctl *UserController) GetOIDCMe(c *gin.Context) {
	respondOK(c, middleware.CurrentClaims(c))
}

// UpdateMe updates the authenticated user's own profile
// PUT /api/v0/users/me
func (ctl *UserController) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var payload schemas.UserUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	// Users may not flip their own active flag
	payload.IsActive = nil

	if patch := payload.Patch(); len(patch) > 0 {
		if err := ctl.users.Update(c.Request.Context(), user, patch); err != nil {
			ctl.logger.Error("failed to update user", zap.Uint("id", user.ID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to update user")
			return
		}
	}
	respondOK(c, user)
}

// GetUser returns one user by id
// GET /api/v0/users/:id
func (ctl *UserController) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return
	}

	user, err := ctl.users.Get(c.Request.Context(), uint(id))
	if err != nil {
		ctl.logger.Error("failed to load user", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respondOK(c, user)
}

// UpdateUser updates one user by id
// PUT /api/v0/users/:id
func (ctl *UserController) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return
	}

	var payload schemas.UserUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ctl.users.Get(c.Request.Context(), uint(id))
	if err != nil {
		ctl.logger.Error("failed to load user", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	if patch := payload.Patch(); len(patch) > 0 {
		if err := ctl.users.Update(c.Request.Context(), user, patch); err != nil {
			ctl.logger.Error("failed to update user", zap.Uint("id", user.ID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to update user")
			return
		}
	}
	respondOK(c, user)
}

// DeleteUser removes one user by id
// DELETE /api/v0/users/:id
func (ctl *UserController) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return
	}

	if err := ctl.users.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		ctl.logger.Error("failed to delete user", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	respondOK(c, schemas.StatusResponse{Status: schemas.StatusOK})
}

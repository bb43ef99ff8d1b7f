package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockk_backend/middleware"
	"stockk_backend/models"
	"stockk_backend/repository"
	"stockk_backend/schemas"
)

// ItemController is CRUD over the authenticated user's own items
type ItemController struct {
	items  *repository.ItemRepository
	logger *zap.Logger
}

// NewItemController creates a new item controller
func NewItemController(items *repository.ItemRepository, logger *zap.Logger) *ItemController {
	return &ItemController{items: items, logger: logger}
}

// CreateItem adds an item owned by the authenticated user
// POST /api/v0/items
func (ctl *ItemController) CreateItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var payload schemas.ItemCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	item := &models.Item{Title: payload.Title, Description: payload.Description}
	if err := ctl.items.CreateWithOwner(c.Request.Context(), item, user.ID); err != nil {
		ctl.logger.Error("failed to create item", zap.Uint("owner_id", user.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to create item")
		return
	}
	respondOK(c, item)
}

// ListItems returns a page of the authenticated user's items
// GET /api/v0/items
func (ctl *ItemController) ListItems(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, limit, offset := pageParams(c)

	items, err := ctl.items.ListByOwner(c.Request.Context(), user.ID, offset, limit)
	if err != nil {
		ctl.logger.Error("failed to list items", zap.Uint("owner_id", user.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load items")
		return
	}
	total, err := ctl.items.CountByOwner(c.Request.Context(), user.ID)
	if err != nil {
		ctl.logger.Error("failed to count items", zap.Uint("owner_id", user.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load items")
		return
	}
	respondOK(c, schemas.NewPage(items, total, page, limit))
}

// getOwnedItem loads an item and enforces ownership
func (ctl *ItemController) getOwnedItem(c *gin.Context) (*models.Item, bool) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return nil, false
	}

	item, err := ctl.items.Get(c.Request.Context(), uint(id))
	if err != nil {
		ctl.logger.Error("failed to load item", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load item")
		return nil, false
	}
	if item == nil || item.OwnerID != user.ID {
		respondError(c, http.StatusNotFound, "Item not found")
		return nil, false
	}
	return item, true
}

// GetItem returns one of the user's items by id
// GET /api/v0/items/:id
func (ctl *ItemController) GetItem(c *gin.Context) {
	item, ok := ctl.getOwnedItem(c)
	if !ok {
		return
	}
	respondOK(c, item)
}

// UpdateItem updates one of the user's items by id
// PUT /api/v0/items/:id
func (ctl *ItemController) UpdateItem(c *gin.Context) {
	item, ok := ctl.getOwnedItem(c)
	if !ok {
		return
	}

	var payload schemas.ItemUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	if patch := payload.Patch(); len(patch) > 0 {
		if err := ctl.items.Update(c.Request.Context(), item, patch); err != nil {
			ctl.logger.Error("failed to update item", zap.Uint("id", item.ID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to update item")
			return
		}
	}
	respondOK(c, item)
}

// DeleteItem removes one of the user's items by id
// DELETE /api/v0/items/:id
func (ctl *ItemController) DeleteItem(c *gin.Context) {
	item, ok := ctl.getOwnedItem(c)
	if !ok {
		return
	}

	if err := ctl.items.Delete(c.Request.Context(), item.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Item not found")
			return
		}
		ctl.logger.Error("failed to delete item", zap.Uint("id", item.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	respondOK(c, schemas.StatusResponse{Status: schemas.StatusOK})
}

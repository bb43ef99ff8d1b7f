package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockk_backend/models"
	"stockk_backend/repository"
	"stockk_backend/schemas"
)

// IndustryController is plain CRUD over the industry reference table
type IndustryController struct {
	industries *repository.IndustryRepository
	logger     *zap.Logger
}

// NewIndustryController creates a new industry controller
func NewIndustryController(industries *repository.IndustryRepository, logger *zap.Logger) *IndustryController {
	return &IndustryController{industries: industries, logger: logger}
}

// CreateIndustry adds an industry row under its provider-assigned id
// POST /api/v0/industries
func (ctl *IndustryController) CreateIndustry(c *gin.Context) {
	var payload schemas.IndustryCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	industry := &models.Industry{ID: payload.ID, Name: payload.Name, EnName: payload.EnName}
	if err := ctl.industries.Create(c.Request.Context(), industry); err != nil {
		ctl.logger.Error("failed to create industry", zap.Uint("id", payload.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to create industry")
		return
	}
	respondOK(c, industry)
}

// ListIndustries returns a page of industries
// GET /api/v0/industries?page=&size=
func (ctl *IndustryController) ListIndustries(c *gin.Context) {
	page, limit, offset := pageParams(c)

	industries, err := ctl.industries.List(c.Request.Context(), offset, limit)
	if err != nil {
		ctl.logger.Error("failed to list industries", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load industries")
		return
	}
	total, err := ctl.industries.Count(c.Request.Context())
	if err != nil {
		ctl.logger.Error("failed to count industries", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load industries")
		return
	}
	respondOK(c, schemas.NewPage(industries, total, page, limit))
}

// GetIndustry returns one industry by id
// GET /api/v0/industries/:id
func (ctl *IndustryController) GetIndustry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return
	}

	industry, err := ctl.industries.Get(c.Request.Context(), uint(id))
	if err != nil {
		ctl.logger.Error("failed to load industry", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load industry")
		return
	}
	if industry == nil {
		respondError(c, http.StatusNotFound, "Industry not found")
		return
	}
	respondOK(c, industry)
}

// UpdateIndustry updates one industry by id
// PUT /api/v0/industries/:id
func (ctl *IndustryController) UpdateIndustry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return
	}

	var payload schemas.IndustryUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	industry, err := ctl.industries.Get(c.Request.Context(), uint(id))
	if err != nil {
		ctl.logger.Error("failed to load industry", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to update industry")
		return
	}
	if industry == nil {
		respondError(c, http.StatusNotFound, "Industry not found")
		return
	}

	if patch := payload.Patch(); len(patch) > 0 {
		if err := ctl.industries.Update(c.Request.Context(), industry, patch); err != nil {
			ctl.logger.Error("failed to update industry", zap.Uint("id", industry.ID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to update industry")
			return
		}
	}
	respondOK(c, industry)
}

// DeleteIndustry removes one industry by id
// DELETE /api/v0/industries/:id
func (ctl *IndustryController) DeleteIndustry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return
	}

	if err := ctl.industries.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Industry not found")
			return
		}
		ctl.logger.Error("failed to delete industry", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete industry")
		return
	}
	respondOK(c, schemas.StatusResponse{Status: schemas.StatusOK})
}

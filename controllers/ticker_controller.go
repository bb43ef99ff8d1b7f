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

// TickerController is plain CRUD over the ticker catalog, used by admin
// tooling; the crawl keeps the catalog current in normal operation.
type TickerController struct {
	tickers *repository.TickerRepository
	logger  *zap.Logger
}

// NewTickerController creates a new ticker controller
func NewTickerController(tickers *repository.TickerRepository, logger *zap.Logger) *TickerController {
	return &TickerController{tickers: tickers, logger: logger}
}

// CreateTicker adds a catalog entry
// POST /api/v0/tickers
func (ctl *TickerController) CreateTicker(c *gin.Context) {
	var payload schemas.TickerCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	if payload.Exchange != "" && !models.IsValidExchange(payload.Exchange) {
		respondError(c, http.StatusUnprocessableEntity, "unknown exchange")
		return
	}

	ticker := &models.Ticker{
		Ticker:     payload.Ticker,
		Exchange:   payload.Exchange,
		Name:       payload.Name,
		FullName:   payload.FullName,
		ShortName:  payload.ShortName,
		Type:       payload.Type,
		IndustryID: payload.IndustryID,
	}
	if err := ctl.tickers.Create(c.Request.Context(), ticker); err != nil {
		ctl.logger.Error("failed to create ticker", zap.String("ticker", payload.Ticker), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to create ticker")
		return
	}
	respondOK(c, ticker)
}

// ListTickers returns a page of catalog entries
// GET /api/v0/tickers?page=&size=
func (ctl *TickerController) ListTickers(c *gin.Context) {
	page, limit, offset := pageParams(c)

	tickers, err := ctl.tickers.List(c.Request.Context(), offset, limit)
	if err != nil {
		ctl.logger.Error("failed to list tickers", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load tickers")
		return
	}
	total, err := ctl.tickers.Count(c.Request.Context())
	if err != nil {
		ctl.logger.Error("failed to count tickers", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load tickers")
		return
	}
	respondOK(c, schemas.NewPage(tickers, total, page, limit))
}

// GetTicker returns one catalog entry by id
// GET /api/v0/tickers/:id
func (ctl *TickerController) GetTicker(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return
	}

	ticker, err := ctl.tickers.Get(c.Request.Context(), uint(id))
	if err != nil {
		ctl.logger.Error("failed to load ticker", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load ticker")
		return
	}
	if ticker == nil {
		respondError(c, http.StatusNotFound, "Ticker not found")
		return
	}
	respondOK(c, ticker)
}

// UpdateTicker updates one catalog entry by id
// PUT /api/v0/tickers/:id
func (ctl *TickerController) UpdateTicker(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return
	}

	var payload schemas.TickerUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	if payload.Exchange != nil && *payload.Exchange != "" && !models.IsValidExchange(*payload.Exchange) {
		respondError(c, http.StatusUnprocessableEntity, "unknown exchange")
		return
	}

	ticker, err := ctl.tickers.Get(c.Request.Context(), uint(id))
	if err != nil {
		ctl.logger.Error("failed to load ticker", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to update ticker")
		return
	}
	if ticker == nil {
		respondError(c, http.StatusNotFound, "Ticker not found")
		return
	}

	if patch := payload.Patch(); len(patch) > 0 {
		if err := ctl.tickers.Update(c.Request.Context(), ticker, patch); err != nil {
			ctl.logger.Error("failed to update ticker", zap.Uint("id", ticker.ID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to update ticker")
			return
		}
	}
	respondOK(c, ticker)
}

// DeleteTicker removes one catalog entry by id
// DELETE /api/v0/tickers/:id
func (ctl *TickerController) DeleteTicker(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return
	}

	if err := ctl.tickers.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Ticker not found")
			return
		}
		ctl.logger.Error("failed to delete ticker", zap.Uint64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete ticker")
		return
	}
	respondOK(c, schemas.StatusResponse{Status: schemas.StatusOK})
}

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"stockk_backend/models"
	"stockk_backend/repository"
	"stockk_backend/schemas"
)

// ChartController implements the TradingView chart-storage protocol for
// saved chart layouts. Ownership is the (client, user) query pair sent by
// the charting library on every request.
type ChartController struct {
	charts *repository.ChartRepository
	logger *zap.Logger
}

// NewChartController creates a new chart controller
func NewChartController(charts *repository.ChartRepository, logger *zap.Logger) *ChartController {
	return &ChartController{charts: charts, logger: logger}
}

// ownerParams reads the mandatory client/user owner pair
func ownerParams(c *gin.Context) (string, string, bool) {
	clientID := c.Query("client")
	userID := c.Query("user")
	if clientID == "" || userID == "" {
		respondError(c, http.StatusBadRequest, "client and user are required")
		return "", "", false
	}
	return clientID, userID, true
}

// SaveChart creates a chart, or updates one when chartId is present
// POST /api/v0/charts?client=&user=[&chartId=]
func (ctl *ChartController) SaveChart(c *gin.Context) {
	clientID, userID, ok := ownerParams(c)
	if !ok {
		return
	}

	name := c.PostForm("name")
	symbol := c.PostForm("symbol")
	resolution := c.PostForm("resolution")
	content := c.PostForm("content")
	if name == "" || symbol == "" || resolution == "" || content == "" {
		respondError(c, http.StatusBadRequest, "name, symbol, resolution and content are required")
		return
	}
	if !json.Valid([]byte(content)) {
		respondError(c, http.StatusBadRequest, "content must be valid JSON")
		return
	}

	chartID := c.Query("chartId")
	if chartID == "" {
		chart := &models.Chart{
			OwnerSource: clientID,
			OwnerID:     userID,
			Name:        name,
			Symbol:      symbol,
			Resolution:  resolution,
			Content:     datatypes.JSON(content),
		}
		if err := ctl.charts.Create(c.Request.Context(), chart); err != nil {
			ctl.logger.Error("failed to create chart", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to save chart")
			return
		}
		c.JSON(http.StatusOK, schemas.ChartCreatedResponse{Status: schemas.StatusOK, ID: chart.ID})
		return
	}

	id, err := strconv.ParseUint(chartID, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "chartId must be an integer")
		return
	}
	chart, err := ctl.charts.GetByIDAndOwner(c.Request.Context(), uint(id), clientID, userID)
	if err != nil {
		ctl.logger.Error("failed to load chart", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to save chart")
		return
	}
	if chart == nil {
		respondError(c, http.StatusNotFound, "Chart not found")
		return
	}

	patch := map[string]any{
		"name":       name,
		"symbol":     symbol,
		"resolution": resolution,
		"content":    datatypes.JSON(content),
	}
	if err := ctl.charts.Update(c.Request.Context(), chart, patch); err != nil {
		ctl.logger.Error("failed to update chart", zap.Uint("id", chart.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to save chart")
		return
	}
	c.JSON(http.StatusOK, schemas.StatusResponse{Status: schemas.StatusOK})
}

// GetCharts lists the owner's charts, or returns one when chartId is set
// GET /api/v0/charts?client=&user=[&chartId=]
func (ctl *ChartController) GetCharts(c *gin.Context) {
	clientID, userID, ok := ownerParams(c)
	if !ok {
		return
	}

	chartID := c.Query("chartId")
	if chartID == "" {
		charts, err := ctl.charts.ListByOwner(c.Request.Context(), clientID, userID)
		if err != nil {
			ctl.logger.Error("failed to list charts", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to load charts")
			return
		}
		items := make([]schemas.ChartListItem, 0, len(charts))
		for _, chart := range charts {
			items = append(items, schemas.ChartListItem{
				ID:         chart.ID,
				Name:       chart.Name,
				Timestamp:  chart.LastModified.Unix(),
				Symbol:     chart.Symbol,
				Resolution: chart.Resolution,
			})
		}
		respondOK(c, items)
		return
	}

	id, err := strconv.ParseUint(chartID, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "chartId must be an integer")
		return
	}
	chart, err := ctl.charts.GetByIDAndOwner(c.Request.Context(), uint(id), clientID, userID)
	if err != nil {
		ctl.logger.Error("failed to load chart", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load chart")
		return
	}
	if chart == nil {
		respondError(c, http.StatusNotFound, "Chart not found")
		return
	}
	respondOK(c, schemas.ChartDetail{
		ID:         chart.ID,
		Name:       chart.Name,
		Timestamp:  chart.LastModified.Unix(),
		Symbol:     chart.Symbol,
		Resolution: chart.Resolution,
		Content:    json.RawMessage(chart.Content),
	})
}

// DeleteChart removes one of the owner's charts
// DELETE /api/v0/charts?client=&user=&chartId=
func (ctl *ChartController) DeleteChart(c *gin.Context) {
	clientID, userID, ok := ownerParams(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Query("chartId"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "chartId must be an integer")
		return
	}
	chart, err := ctl.charts.GetByIDAndOwner(c.Request.Context(), uint(id), clientID, userID)
	if err != nil {
		ctl.logger.Error("failed to load chart", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete chart")
		return
	}
	if chart == nil {
		respondError(c, http.StatusNotFound, "Chart not found")
		return
	}
	if err := ctl.charts.Delete(c.Request.Context(), chart.ID); err != nil {
		ctl.logger.Error("failed to delete chart", zap.Uint("id", chart.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete chart")
		return
	}
	c.JSON(http.StatusOK, schemas.StatusResponse{Status: schemas.StatusOK})
}

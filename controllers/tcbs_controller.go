package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockk_backend/services"
)

// TCBSController proxies the public TCBS search API
type TCBSController struct {
	tcbs   *services.TCBSService
	logger *zap.Logger
}

// NewTCBSController creates a new TCBS proxy controller
func NewTCBSController(tcbs *services.TCBSService, logger *zap.Logger) *TCBSController {
	return &TCBSController{tcbs: tcbs, logger: logger}
}

// Search forwards a search query to TCBS and relays the raw payload
// GET /api/v0/tcbs/search?key=[&page=&pageSize=]
func (ctl *TCBSController) Search(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		respondError(c, http.StatusBadRequest, "key is required")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	result, err := ctl.tcbs.Search(c.Request.Context(), key, page, pageSize)
	if err != nil {
		var upstream *services.UpstreamError
		if errors.As(err, &upstream) {
			respondError(c, upstream.StatusCode, upstream.Message)
			return
		}
		ctl.logger.Error("tcbs search failed", zap.String("key", key), zap.Error(err))
		respondError(c, http.StatusBadGateway, "Search failed")
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

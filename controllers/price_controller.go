package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockk_backend/services"
)

// PriceController serves price-board snapshots over HTTP and WebSocket
type PriceController struct {
	board   *services.PriceBoardService
	archive *services.PriceArchive
	logger  *zap.Logger
}

// NewPriceController creates a new price-board controller
func NewPriceController(board *services.PriceBoardService, archive *services.PriceArchive, logger *zap.Logger) *PriceController {
	return &PriceController{board: board, archive: archive, logger: logger}
}

// GetPrices returns the latest snapshot, optionally filtered by symbols.
// Falls back to the archive when the in-memory cache is still cold.
// GET /api/v0/prices[?symbols=AAA,BBB]
func (ctl *PriceController) GetPrices(c *gin.Context) {
	var symbols []string
	if raw := c.Query("symbols"); raw != "" {
		symbols = strings.Split(raw, ",")
	}

	snapshot := ctl.board.Snapshot(symbols)
	if snapshot == nil {
		archived, err := ctl.archive.Latest(c.Request.Context())
		if err != nil {
			ctl.logger.Warn("failed to read archived snapshot", zap.Error(err))
		}
		if archived == nil {
			respondError(c, http.StatusServiceUnavailable, "Price board not synced yet")
			return
		}
		snapshot = archived
	}
	respondOK(c, snapshot)
}

// StreamPrices upgrades to WebSocket and pushes snapshots on every sync
// GET /api/v0/ws/prices
func (ctl *PriceController) StreamPrices(c *gin.Context) {
	ctl.board.HandleWS(c.Writer, c.Request)
}

package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"stockk_backend/repository"
	"stockk_backend/schemas"
)

// DrawingTemplateController stores per-owner drawing tool presets keyed
// by name, with list views filtered by tool.
type DrawingTemplateController struct {
	templates *repository.DrawingTemplateRepository
	logger    *zap.Logger
}

// NewDrawingTemplateController creates a new drawing template controller
func NewDrawingTemplateController(templates *repository.DrawingTemplateRepository, logger *zap.Logger) *DrawingTemplateController {
	return &DrawingTemplateController{templates: templates, logger: logger}
}

// SaveTemplate upserts a drawing template by (owner, name)
// POST /api/v0/drawing_templates?client=&user=&name=&tool= with JSON body content
func (ctl *DrawingTemplateController) SaveTemplate(c *gin.Context) {
	clientID, userID, ok := ownerParams(c)
	if !ok {
		return
	}
	name := c.Query("name")
	tool := c.Query("tool")
	if name == "" || tool == "" {
		respondError(c, http.StatusBadRequest, "name and tool are required")
		return
	}

	content, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(content) {
		respondError(c, http.StatusBadRequest, "content must be valid JSON")
		return
	}

	template, created, err := ctl.templates.GetOrCreate(
		c.Request.Context(), clientID, userID, name, tool, datatypes.JSON(content))
	if err != nil {
		ctl.logger.Error("failed to upsert drawing template", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to save drawing template")
		return
	}
	if !created {
		patch := map[string]any{"tool": tool, "content": datatypes.JSON(content)}
		if err := ctl.templates.Update(c.Request.Context(), template, patch); err != nil {
			ctl.logger.Error("failed to update drawing template",
				zap.Uint("id", template.ID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to save drawing template")
			return
		}
	}
	c.JSON(http.StatusOK, schemas.StatusResponse{Status: schemas.StatusOK})
}

// GetTemplates lists template names for a tool, or returns one by name
// GET /api/v0/drawing_templates?client=&user=&tool=[&name=]
func (ctl *DrawingTemplateController) GetTemplates(c *gin.Context) {
	clientID, userID, ok := ownerParams(c)
	if !ok {
		return
	}
	tool := c.Query("tool")
	if tool == "" {
		respondError(c, http.StatusBadRequest, "tool is required")
		return
	}

	name := c.Query("name")
	if name == "" {
		templates, err := ctl.templates.ListByOwnerAndTool(c.Request.Context(), clientID, userID, tool)
		if err != nil {
			ctl.logger.Error("failed to list drawing templates", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to load drawing templates")
			return
		}
		names := make([]string, 0, len(templates))
		for _, template := range templates {
			names = append(names, template.Name)
		}
		respondOK(c, names)
		return
	}

	template, err := ctl.templates.GetByOwnerToolName(c.Request.Context(), clientID, userID, tool, name)
	if err != nil {
		ctl.logger.Error("failed to load drawing template", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load drawing template")
		return
	}
	if template == nil {
		respondError(c, http.StatusNotFound, "Drawing template not found")
		return
	}
	respondOK(c, schemas.TemplateDetail{
		Name:    template.Name,
		Content: json.RawMessage(template.Content),
	})
}

// DeleteTemplate removes a drawing template by name
// DELETE /api/v0/drawing_templates?client=&user=&name=
func (ctl *DrawingTemplateController) DeleteTemplate(c *gin.Context) {
	clientID, userID, ok := ownerParams(c)
	if !ok {
		return
	}
	name := c.Query("name")
	if name == "" {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}

	template, err := ctl.templates.GetByOwnerName(c.Request.Context(), clientID, userID, name)
	if err != nil {
		ctl.logger.Error("failed to load drawing template", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete drawing template")
		return
	}
	if template == nil {
		respondError(c, http.StatusNotFound, "Drawing template not found")
		return
	}
	if err := ctl.templates.Delete(c.Request.Context(), template.ID); err != nil {
		ctl.logger.Error("failed to delete drawing template",
			zap.Uint("id", template.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete drawing template")
		return
	}
	c.JSON(http.StatusOK, schemas.StatusResponse{Status: schemas.StatusOK})
}

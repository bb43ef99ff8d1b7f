package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"stockk_backend/repository"
	"stockk_backend/schemas"
)

// studyTemplatePayload is the save body: template name plus free-form
// indicator content.
type studyTemplatePayload struct {
	Name    string          `json:"name" binding:"required"`
	Content json.RawMessage `json:"content" binding:"required"`
}

// studyTemplateName is a list entry; the charting library expects objects
// here, unlike drawing templates which list bare names.
type studyTemplateName struct {
	Name string `json:"name"`
}

// StudyTemplateController stores per-owner indicator presets keyed by name
type StudyTemplateController struct {
	templates *repository.StudyTemplateRepository
	logger    *zap.Logger
}

// NewStudyTemplateController creates a new study template controller
func NewStudyTemplateController(templates *repository.StudyTemplateRepository, logger *zap.Logger) *StudyTemplateController {
	return &StudyTemplateController{templates: templates, logger: logger}
}

// SaveTemplate upserts a study template by (owner, name)
// POST /api/v0/study_templates?client=&user= with JSON body {name, content}
func (ctl *StudyTemplateController) SaveTemplate(c *gin.Context) {
	clientID, userID, ok := ownerParams(c)
	if !ok {
		return
	}

	var payload studyTemplatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	template, created, err := ctl.templates.GetOrCreate(
		c.Request.Context(), clientID, userID, payload.Name, datatypes.JSON(payload.Content))
	if err != nil {
		ctl.logger.Error("failed to upsert study template", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to save study template")
		return
	}
	if !created {
		patch := map[string]any{"content": datatypes.JSON(payload.Content)}
		if err := ctl.templates.Update(c.Request.Context(), template, patch); err != nil {
			ctl.logger.Error("failed to update study template",
				zap.Uint("id", template.ID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to save study template")
			return
		}
	}
	c.JSON(http.StatusOK, schemas.StatusResponse{Status: schemas.StatusOK})
}

// GetTemplates lists the owner's template names, or returns one by name
// GET /api/v0/study_templates?client=&user=[&template=]
func (ctl *StudyTemplateController) GetTemplates(c *gin.Context) {
	clientID, userID, ok := ownerParams(c)
	if !ok {
		return
	}

	name := c.Query("template")
	if name == "" {
		templates, err := ctl.templates.ListByOwner(c.Request.Context(), clientID, userID)
		if err != nil {
			ctl.logger.Error("failed to list study templates", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to load study templates")
			return
		}
		names := make([]studyTemplateName, 0, len(templates))
		for _, template := range templates {
			names = append(names, studyTemplateName{Name: template.Name})
		}
		respondOK(c, names)
		return
	}

	template, err := ctl.templates.GetByOwnerName(c.Request.Context(), clientID, userID, name)
	if err != nil {
		ctl.logger.Error("failed to load study template", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load study template")
		return
	}
	if template == nil {
		respondError(c, http.StatusNotFound, "Study template not found")
		return
	}
	respondOK(c, schemas.TemplateDetail{
		Name:    template.Name,
		Content: json.RawMessage(template.Content),
	})
}

// DeleteTemplate removes a study template by name
// DELETE /api/v0/study_templates?client=&user=&template=
func (ctl *StudyTemplateController) DeleteTemplate(c *gin.Context) {
	clientID, userID, ok := ownerParams(c)
	if !ok {
		return
	}
	name := c.Query("template")
	if name == "" {
		respondError(c, http.StatusBadRequest, "template is required")
		return
	}

	template, err := ctl.templates.GetByOwnerName(c.Request.Context(), clientID, userID, name)
	if err != nil {
		ctl.logger.Error("failed to load study template", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete study template")
		return
	}
	if template == nil {
		respondError(c, http.StatusNotFound, "Study template not found")
		return
	}
	if err := ctl.templates.Delete(c.Request.Context(), template.ID); err != nil {
		ctl.logger.Error("failed to delete study template",
			zap.Uint("id", template.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete study template")
		return
	}
	c.JSON(http.StatusOK, schemas.StatusResponse{Status: schemas.StatusOK})
}

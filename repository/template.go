package repository

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockk_backend/models"
)

// DrawingTemplateRepository adds owner+name keyed access for drawing
// templates, with tool as an extra list/lookup dimension
type DrawingTemplateRepository struct {
	*Repository[models.DrawingTemplate]
}

// NewDrawingTemplateRepository creates a drawing template repository
func NewDrawingTemplateRepository(db *gorm.DB) *DrawingTemplateRepository {
	return &DrawingTemplateRepository{Repository: NewRepository[models.DrawingTemplate](db)}
}

// ListByOwnerAndTool returns the owner's templates for one tool, without
// the content column
func (r *DrawingTemplateRepository) ListByOwnerAndTool(ctx context.Context, ownerSource, ownerID, tool string) ([]models.DrawingTemplate, error) {
	var templates []models.DrawingTemplate
	err := r.DB().WithContext(ctx).
		Select("id", "owner_source", "owner_id", "name", "tool").
		Where("owner_source = ? AND owner_id = ? AND tool = ?", ownerSource, ownerID, tool).
		Order("id asc").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// GetByOwnerToolName returns the single matching template or nil
func (r *DrawingTemplateRepository) GetByOwnerToolName(ctx context.Context, ownerSource, ownerID, tool, name string) (*models.DrawingTemplate, error) {
	var template models.DrawingTemplate
	err := r.DB().WithContext(ctx).
		Where("owner_source = ? AND owner_id = ? AND tool = ? AND name = ?", ownerSource, ownerID, tool, name).
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// GetByOwnerName returns the single template with the owner's name or nil
func (r *DrawingTemplateRepository) GetByOwnerName(ctx context.Context, ownerSource, ownerID, name string) (*models.DrawingTemplate, error) {
	var template models.DrawingTemplate
	err := r.DB().WithContext(ctx).
		Where("owner_source = ? AND owner_id = ? AND name = ?", ownerSource, ownerID, name).
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// GetOrCreate returns the existing template for (owner, name) or inserts a
// new one. Two concurrent creators may both reach the insert; the loser's
// ON CONFLICT DO NOTHING is followed by a fresh read of the winner's row.
// created reports whether this call performed the insert.
func (r *DrawingTemplateRepository) GetOrCreate(ctx context.Context, ownerSource, ownerID, name, tool string, content datatypes.JSON) (*models.DrawingTemplate, bool, error) {
	if existing, err := r.GetByOwnerName(ctx, ownerSource, ownerID, name); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	template := models.DrawingTemplate{
		OwnerSource: ownerSource,
		OwnerID:     ownerID,
		Name:        name,
		Tool:        tool,
		Content:     content,
	}
	res := r.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_source"}, {Name: "owner_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(&template)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &template, true, nil
	}

	// Lost the race; the row now exists.
	existing, err := r.GetByOwnerName(ctx, ownerSource, ownerID, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// StudyTemplateRepository adds owner+name keyed access for study templates
type StudyTemplateRepository struct {
	*Repository[models.StudyTemplate]
}

// NewStudyTemplateRepository creates a study template repository
func NewStudyTemplateRepository(db *gorm.DB) *StudyTemplateRepository {
	return &StudyTemplateRepository{Repository: NewRepository[models.StudyTemplate](db)}
}

// ListByOwner returns the owner's templates without the content column
func (r *StudyTemplateRepository) ListByOwner(ctx context.Context, ownerSource, ownerID string) ([]models.StudyTemplate, error) {
	var templates []models.StudyTemplate
	err := r.DB().WithContext(ctx).
		Select("id", "owner_source", "owner_id", "name").
		Where("owner_source = ? AND owner_id = ?", ownerSource, ownerID).
		Order("id asc").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// GetByOwnerName returns the single matching template or nil
func (r *StudyTemplateRepository) GetByOwnerName(ctx context.Context, ownerSource, ownerID, name string) (*models.StudyTemplate, error) {
	var template models.StudyTemplate
	err := r.DB().WithContext(ctx).
		Where("owner_source = ? AND owner_id = ? AND name = ?", ownerSource, ownerID, name).
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// GetOrCreate mirrors DrawingTemplateRepository.GetOrCreate without the
// tool dimension
func (r *StudyTemplateRepository) GetOrCreate(ctx context.Context, ownerSource, ownerID, name string, content datatypes.JSON) (*models.StudyTemplate, bool, error) {
	if existing, err := r.GetByOwnerName(ctx, ownerSource, ownerID, name); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	template := models.StudyTemplate{
		OwnerSource: ownerSource,
		OwnerID:     ownerID,
		Name:        name,
		Content:     content,
	}
	res := r.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_source"}, {Name: "owner_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(&template)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &template, true, nil
	}

	existing, err := r.GetByOwnerName(ctx, ownerSource, ownerID, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

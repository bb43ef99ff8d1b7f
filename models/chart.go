package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Chart is a saved chart layout owned by an (ownerSource, ownerId) pair.
// The owner pair identifies an external client/user combination and is not
// a foreign key to User. Names are not unique; one owner may keep several
// charts under the same name.
type Chart struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OwnerSource  string         `gorm:"index" json:"ownerSource"`
	OwnerID      string         `gorm:"index;column:owner_id" json:"ownerId"`
	Name         string         `json:"name"`
	Symbol       string         `json:"symbol"`
	Resolution   string         `json:"resolution"`
	LastModified time.Time      `gorm:"autoUpdateTime" json:"lastModified"`
	Content      datatypes.JSON `json:"content"`
}

// DrawingTemplate is a per-owner named drawing tool preset. One row per
// (ownerSource, ownerId, name); concurrent creates for the same key are
// resolved in the repository, not by failing the request.
type DrawingTemplate struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerSource string         `gorm:"index;uniqueIndex:idx_drawing_owner_name" json:"ownerSource"`
	OwnerID     string         `gorm:"index;uniqueIndex:idx_drawing_owner_name;column:owner_id" json:"ownerId"`
	Name        string         `gorm:"uniqueIndex:idx_drawing_owner_name" json:"name"`
	Tool        string         `json:"tool"`
	Content     datatypes.JSON `json:"content"`
}

// StudyTemplate is a per-owner named indicator preset, keyed like
// DrawingTemplate but without the tool dimension.
type StudyTemplate struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerSource string         `gorm:"index;uniqueIndex:idx_study_owner_name" json:"ownerSource"`
	OwnerID     string         `gorm:"index;uniqueIndex:idx_study_owner_name;column:owner_id" json:"ownerId"`
	Name        string         `gorm:"uniqueIndex:idx_study_owner_name" json:"name"`
	Content     datatypes.JSON `json:"content"`
}

// MigrateChartModels runs database migrations for chart-storage models
func MigrateChartModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&Chart{},
		&DrawingTemplate{},
		&StudyTemplate{},
	)
}

// MigrateUserModels runs database migrations for account models
func MigrateUserModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Item{},
	)
}

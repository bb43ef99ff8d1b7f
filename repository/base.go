package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by Delete when no row matched the given id.
// Lookups signal absence with a nil result instead.
var ErrNotFound = errors.New("record not found")

// Repository is the generic CRUD base. Resource repositories compose it by
// embedding; each call is its own transaction — nothing here spans calls.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a generic repository for the model type T
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB exposes the underlying handle for resource-specific queries
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

// Get returns the row with the given primary key, or nil when absent
func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	var obj T
	err := r.db.WithContext(ctx).First(&obj, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// List returns rows ordered by primary key ascending
func (r *Repository[T]) List(ctx context.Context, offset, limit int) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: clause.PrimaryKey}}).
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// All returns every row ordered by primary key ascending
func (r *Repository[T]) All(ctx context.Context) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: clause.PrimaryKey}}).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the total row count as a separate aggregate query
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	var model T
	if err := r.db.WithContext(ctx).Model(&model).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Create persists obj and fills server-assigned fields (id, timestamps)
func (r *Repository[T]) Create(ctx context.Context, obj *T) error {
	return r.db.WithContext(ctx).Create(obj).Error
}

// Update applies only the fields present in patch; absent fields are left
// untouched. obj is refreshed in place, including auto-update timestamps.
func (r *Repository[T]) Update(ctx context.Context, obj *T, patch map[string]any) error {
	return r.db.WithContext(ctx).Model(obj).Updates(patch).Error
}

// Delete removes the row with the given id. Deleting a missing id is a
// hard error (ErrNotFound), never a silent no-op.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	var model T
	res := r.db.WithContext(ctx).Delete(&model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

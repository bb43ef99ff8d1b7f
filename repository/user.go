package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockk_backend/models"
)

// UserRepository adds email-keyed lookup and provisioning
type UserRepository struct {
	*Repository[models.User]
}

// NewUserRepository creates a user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: NewRepository[models.User](db)}
}

// GetByEmail returns the user with the given email, or nil
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB().WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateByEmail provisions a local account on first sight of an
// identity. Two concurrent first logins for the same email both succeed;
// the losing insert re-reads the winner's row. created reports whether this
// call inserted the user.
func (r *UserRepository) GetOrCreateByEmail(ctx context.Context, email, fullName string) (*models.User, bool, error) {
	if existing, err := r.GetByEmail(ctx, email); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	user := models.User{Email: email, FullName: fullName, IsActive: true}
	res := r.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(&user)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &user, true, nil
	}

	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// ItemRepository adds User-owned access for items
type ItemRepository struct {
	*Repository[models.Item]
}

// NewItemRepository creates an item repository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{Repository: NewRepository[models.Item](db)}
}

// CreateWithOwner persists the item under the given user id
func (r *ItemRepository) CreateWithOwner(ctx context.Context, item *models.Item, ownerID uint) error {
	item.OwnerID = ownerID
	return r.DB().WithContext(ctx).Create(item).Error
}

// ListByOwner returns a page of the user's items ordered by id ascending
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]models.Item, error) {
	var items []models.Item
	err := r.DB().WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CountByOwner counts the user's items
func (r *ItemRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var total int64
	err := r.DB().WithContext(ctx).
		Model(&models.Item{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error
	return total, err
}

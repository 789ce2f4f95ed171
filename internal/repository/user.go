package repository

import (
	"context"
	"fmt"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("gorm: create user %q: %w", user.Email, translate(err))
	}
	return nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Model(user).
		Select("Email", "Username", "Avatar", "PasswordHash", "IsActive", "IsStaff", "UpdatedAt").
		Updates(user).Error
	if err != nil {
		return fmt.Errorf("gorm: update user %d: %w", user.ID, translate(err))
	}
	return nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).Where("created_by_id = ?", id).Update("created_by_id", nil)
		if res.Error != nil {
			return translate(res.Error)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Wishlist{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RecipeRating{}).Error; err != nil {
			return translate(err)
		}
		res = tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

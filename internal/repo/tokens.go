package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vkhromov/retail_orders/internal/models"
)

// GetOrCreateConfirmToken returns the user's confirmation token, creating
// one with a fresh key if none exists yet.
func (r *GormRepo) GetOrCreateConfirmToken(ctx context.Context, userID uint) (*models.ConfirmEmailToken, error) {
	token := models.ConfirmEmailToken{UserID: userID}
	tx := r.DB.WithContext(ctx).Where("user_id = ?", userID).FirstOrCreate(&token)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &token, nil
}

// ConfirmEmail activates the account that owns the given (email, key) pair.
// The token row is left in place.
func (r *GormRepo) ConfirmEmail(ctx context.Context, email, key string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var token models.ConfirmEmailToken
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND key = ?", user.ID, key).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: wrong token", ErrValidation)
		}
		return nil, err
	}

	if err := r.DB.WithContext(ctx).Model(user).Update("is_active", true).Error; err != nil {
		return nil, err
	}
	user.IsActive = true
	return user, nil
}

// FindTokenByKey resolves an opaque key back to its token, for the password
// reset confirmation path.
func (r *GormRepo) FindTokenByKey(ctx context.Context, key string) (*models.ConfirmEmailToken, error) {
	var token models.ConfirmEmailToken
	if err := r.DB.WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: token", ErrNotFound)
		}
		return nil, err
	}
	return &token, nil
}

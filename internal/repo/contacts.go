package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vkhromov/retail_orders/internal/models"
)

func (r *GormRepo) CreateContact(ctx context.Context, contact *models.Contact) error {
	if contact.City == "" || contact.Street == "" || contact.Phone == "" {
		return fmt.Errorf("%w: city, street and phone are required", ErrValidation)
	}
	return r.DB.WithContext(ctx).Create(contact).Error
}

func (r *GormRepo) ListContacts(ctx context.Context, userID uint) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *GormRepo) GetContact(ctx context.Context, userID, id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contact %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &contact, nil
}

func (r *GormRepo) UpdateContact(ctx context.Context, userID, id uint, updates map[string]any) (*models.Contact, error) {
	contact, err := r.GetContact(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(contact).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetContact(ctx, userID, id)
}

func (r *GormRepo) DeleteContact(ctx context.Context, userID, id uint) error {
	tx := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Contact{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: contact %d", ErrNotFound, id)
	}
	return nil
}

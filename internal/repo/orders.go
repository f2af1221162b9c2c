package repo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/vkhromov/retail_orders/internal/models"
)

// GetOrCreateBasket returns the user's order in status "new", creating an
// empty one if needed.
func (r *GormRepo) GetOrCreateBasket(ctx context.Context, userID uint) (*models.Order, error) {
	order := models.Order{UserID: userID, Status: models.OrderStatusNew}
	tx := r.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.OrderStatusNew).
		FirstOrCreate(&order)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &order, nil
}

// AddOrderItem attaches a listing to an order. A second row for the same
// (order, listing) pair is rejected by the unique constraint.
func (r *GormRepo) AddOrderItem(ctx context.Context, orderID, productInfoID, quantity uint) (*models.OrderItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	item := models.OrderItem{
		OrderID:       orderID,
		ProductInfoID: productInfoID,
		Quantity:      quantity,
	}
	if err := r.DB.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: listing %d already in order %d", ErrConflict, productInfoID, orderID)
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteOrderItem(ctx context.Context, orderID, itemID uint) error {
	tx := r.DB.WithContext(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Delete(&models.OrderItem{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: order item %d", ErrNotFound, itemID)
	}
	return nil
}

func (r *GormRepo) ListOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, error) {
	db := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ConfirmOrder attaches a delivery contact and moves the order to
// "confirmed". No check is made on the previous status.
func (r *GormRepo) ConfirmOrder(ctx context.Context, userID, orderID, contactID uint) (*models.Order, error) {
	order, err := r.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	var contact models.Contact
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", contactID, userID).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contact %d", ErrNotFound, contactID)
		}
		return nil, err
	}

	updates := map[string]any{
		"status":     models.OrderStatusConfirmed,
		"contact_id": contact.ID,
	}
	if err := r.DB.WithContext(ctx).Model(order).Updates(updates).Error; err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusConfirmed
	order.ContactID = &contact.ID
	return order, nil
}

// SetOrderStatus writes any known status value. Transitions are not
// constrained: "new" may go straight to "delivered".
func (r *GormRepo) SetOrderStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !slices.Contains(models.OrderStatuses, status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}

	if err := r.DB.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}
	order.Status = status
	return &order, nil
}

// ListShopOrders returns orders containing at least one listing belonging
// to the given shop user's shop.
func (r *GormRepo) ListShopOrders(ctx context.Context, shopUserID uint, offset, limit int) ([]models.Order, int64, error) {
	db := r.DB.WithContext(ctx).Model(&models.Order{}).
		Distinct("orders.*").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.user_id = ?", shopUserID)

	var total int64
	if err := db.Session(&gorm.Session{}).Distinct("orders.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := db.Order("orders.created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

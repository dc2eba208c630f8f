package repositories

import (
	"context"

	"MusicStore/models"

	"gorm.io/gorm"
)

// OrderRepository reads placed orders. Orders are written by the cart
// checkout through CartRepository.CreateOrder.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ListByUsername returns the user's orders, newest first, without details.
func (r *OrderRepository) ListByUsername(ctx context.Context, username string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("order_date DESC, id DESC").
		Find(&orders).
		Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns one order with its details and albums. Orders of other users
// are reported as not found.
func (r *OrderRepository) Get(ctx context.Context, username string, orderID uint) (models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND username = ?", orderID, username).
		Preload("OrderDetails").
		Preload("OrderDetails.Album").
		First(&order).
		Error
	if err != nil {
		return models.Order{}, translateError(err)
	}
	return order, nil
}

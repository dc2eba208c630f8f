package repositories

import (
	"context"
	"time"

	"MusicStore/cart"
	"MusicStore/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository stores cart rows and orders with GORM. It implements
// cart.Store.
type CartRepository struct {
	db *gorm.DB
	// set inside Transaction, reads then take row locks
	locking bool
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

var _ cart.Store = (*CartRepository)(nil)

type cartRow struct {
	RecordID    uint
	CartID      string
	AlbumID     uint
	Quantity    int
	DateCreated time.Time
	Title       string
	Price       decimal.Decimal
}

func (r cartRow) lineItem() cart.LineItem {
	return cart.LineItem{
		RecordID:  r.RecordID,
		OwnerKey:  r.CartID,
		AlbumID:   r.AlbumID,
		Title:     r.Title,
		UnitPrice: r.Price,
		Quantity:  r.Quantity,
		CreatedAt: r.DateCreated,
	}
}

func (r *CartRepository) Transaction(ctx context.Context, fn func(tx cart.Store) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CartRepository{db: tx, locking: true})
	})
	return translateError(err)
}

func (r *CartRepository) rows(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("carts").
		Select("carts.record_id, carts.cart_id, carts.album_id, carts.quantity, carts.date_created, albums.title, albums.price").
		Joins("JOIN albums ON albums.id = carts.album_id")
	if r.locking {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

func (r *CartRepository) ListItems(ctx context.Context, ownerKey string) ([]cart.LineItem, error) {
	var rows []cartRow
	err := r.rows(ctx).
		Where("carts.cart_id = ?", ownerKey).
		Order("carts.record_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, translateError(err)
	}

	items := make([]cart.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.lineItem())
	}
	return items, nil
}

func (r *CartRepository) FindItem(ctx context.Context, ownerKey string, recordID uint) (cart.LineItem, error) {
	var rows []cartRow
	err := r.rows(ctx).
		Where("carts.record_id = ? AND carts.cart_id = ?", recordID, ownerKey).
		Limit(1).
		Scan(&rows).
		Error
	if err != nil {
		return cart.LineItem{}, translateError(err)
	}
	if len(rows) == 0 {
		return cart.LineItem{}, cart.ErrNotFound
	}
	return rows[0].lineItem(), nil
}

// IncrementItem is a single INSERT ... ON DUPLICATE KEY UPDATE relying on the
// (cart_id, album_id) unique index.
func (r *CartRepository) IncrementItem(ctx context.Context, ownerKey string, albumID uint, now time.Time) error {
	item := models.CartItem{
		CartID:      ownerKey,
		AlbumID:     albumID,
		Quantity:    1,
		DateCreated: now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "album_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("quantity + 1")}),
		}).
		Omit("Album").
		Create(&item).
		Error
	return translateError(err)
}

func (r *CartRepository) SetQuantity(ctx context.Context, recordID uint, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("record_id = ?", recordID).
		Update("quantity", quantity)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return cart.ErrNotFound
	}
	return nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, recordID uint) error {
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Delete(&models.CartItem{}).
		Error
	return translateError(err)
}

func (r *CartRepository) DeleteItems(ctx context.Context, ownerKey string) error {
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", ownerKey).
		Delete(&models.CartItem{}).
		Error
	return translateError(err)
}

func (r *CartRepository) RekeyItem(ctx context.Context, recordID uint, newOwnerKey string) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("record_id = ?", recordID).
		Update("cart_id", newOwnerKey)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return cart.ErrNotFound
	}
	return nil
}

func (r *CartRepository) CreateOrder(ctx context.Context, order *cart.Order) error {
	details := make([]models.OrderDetail, 0, len(order.Lines))
	for _, line := range order.Lines {
		details = append(details, models.OrderDetail{
			AlbumID:   line.AlbumID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	newOrder := models.Order{
		Username:     order.Username,
		FirstName:    order.FirstName,
		LastName:     order.LastName,
		Address:      order.Address,
		City:         order.City,
		State:        order.State,
		PostalCode:   order.PostalCode,
		Country:      order.Country,
		Phone:        order.Phone,
		Email:        order.Email,
		Total:        order.Total,
		OrderDate:    order.OrderDate,
		OrderDetails: details,
	}
	err := r.db.WithContext(ctx).Create(&newOrder).Error
	if err != nil {
		return translateError(err)
	}

	order.ID = newOrder.ID
	return nil
}

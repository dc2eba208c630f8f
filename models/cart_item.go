package models

import "time"

// CartItem is one album row of a cart. CartID holds the owner key, either a
// user name or an anonymous UUID. Rows are hard-deleted.
type CartItem struct {
	RecordID    uint      `gorm:"primaryKey;autoIncrement"`
	CartID      string    `gorm:"size:191;not null;uniqueIndex:idx_cart_album"`
	AlbumID     uint      `gorm:"not null;uniqueIndex:idx_cart_album"`
	Album       Album
	Quantity    int       `gorm:"not null"`
	DateCreated time.Time `gorm:"not null"`
}

func (CartItem) TableName() string {
	return "carts"
}

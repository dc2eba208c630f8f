package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	Username     string          `gorm:"size:191;index;not null"`
	FirstName    string          `gorm:"size:160;not null"`
	LastName     string          `gorm:"size:160;not null"`
	Address      string          `gorm:"size:70;not null"`
	City         string          `gorm:"size:40;not null"`
	State        string          `gorm:"size:40;not null"`
	PostalCode   string          `gorm:"size:10;not null"`
	Country      string          `gorm:"size:40;not null"`
	Phone        string          `gorm:"size:24;not null"`
	Email        string          `gorm:"not null"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	OrderDate    time.Time       `gorm:"not null"`
	OrderDetails []OrderDetail
}

// OrderDetail keeps the unit price the album had when the order was placed.
type OrderDetail struct {
	gorm.Model
	OrderID   uint            `gorm:"index;not null"`
	AlbumID   uint            `gorm:"not null"`
	Album     Album
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

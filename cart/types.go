package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one album row of an owner's cart. Title and UnitPrice are read
// from the catalog when the row is loaded and are never written back.
type LineItem struct {
	RecordID  uint
	OwnerKey  string
	AlbumID   uint
	Title     string
	UnitPrice decimal.Decimal
	Quantity  int
	CreatedAt time.Time
}

// LineTotal returns Quantity × UnitPrice.
func (it LineItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type Album struct {
	ID    uint
	Title string
	Price decimal.Decimal
}

type OrderLine struct {
	AlbumID   uint
	UnitPrice decimal.Decimal
	Quantity  int
}

// Order is filled in by the caller (shipping details) and completed by
// CreateOrder (Lines, Total, ID).
type Order struct {
	ID         uint
	Username   string
	FirstName  string
	LastName   string
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
	Email      string
	OrderDate  time.Time
	Total      decimal.Decimal
	Lines      []OrderLine
}

type Summary struct {
	Items []LineItem
	Count int
	Total decimal.Decimal
}

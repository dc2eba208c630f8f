package cart

import (
	"context"
	"time"
)

// Store persists line items and orders. Implementations must make every
// method called inside Transaction part of one commit and must lock the rows
// returned by ListItems/FindItem while a transaction is open.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	ListItems(ctx context.Context, ownerKey string) ([]LineItem, error)
	// FindItem returns ErrNotFound when the record is missing or belongs to
	// another owner.
	FindItem(ctx context.Context, ownerKey string, recordID uint) (LineItem, error)
	// IncrementItem inserts (ownerKey, albumID) with quantity 1 or adds 1 to
	// the existing row in a single atomic statement.
	IncrementItem(ctx context.Context, ownerKey string, albumID uint, now time.Time) error
	SetQuantity(ctx context.Context, recordID uint, quantity int) error
	DeleteItem(ctx context.Context, recordID uint) error
	DeleteItems(ctx context.Context, ownerKey string) error
	RekeyItem(ctx context.Context, recordID uint, newOwnerKey string) error

	// CreateOrder persists the order and its lines and sets order.ID.
	CreateOrder(ctx context.Context, order *Order) error
}

type Catalog interface {
	// GetAlbum returns ErrNotFound when no album has this id.
	GetAlbum(ctx context.Context, id uint) (Album, error)
}

// Session is the per-visitor slot storage plus the authenticated user name,
// empty for anonymous visitors.
type Session interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	UserName() string
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

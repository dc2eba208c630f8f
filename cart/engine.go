package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Engine implements the cart operations on top of a Store and a Catalog.
// Every operation takes the owner key explicitly; session handling lives in
// ResolveOwnerKey.
//
// Line item transitions:
//
//	{absent}  --add-->    {qty=1}
//	{qty=n}   --add-->    {qty=n+1}
//	{qty=n>1} --remove--> {qty=n-1}
//	{qty=1}   --remove--> {absent}
type Engine struct {
	store   Store
	catalog Catalog
	clock   Clock
}

func NewEngine(store Store, catalog Catalog) *Engine {
	return &Engine{
		store:   store,
		catalog: catalog,
		clock:   systemClock{},
	}
}

// NewEngineWithClock is useful for tests.
func NewEngineWithClock(store Store, catalog Catalog, clock Clock) *Engine {
	if clock == nil {
		clock = systemClock{}
	}
	return &Engine{store: store, catalog: catalog, clock: clock}
}

func validOwner(ownerKey string) error {
	if strings.TrimSpace(ownerKey) == "" {
		return fmt.Errorf("owner key is empty: %w", ErrValidation)
	}
	return nil
}

// retryOnConflict runs fn again once if it failed with ErrConflict.
func retryOnConflict(fn func() error) error {
	err := fn()
	if errors.Is(err, ErrConflict) {
		err = fn()
	}
	return err
}

func (e *Engine) AddItem(ctx context.Context, ownerKey string, albumID uint) error {
	if err := validOwner(ownerKey); err != nil {
		return err
	}

	album, err := e.catalog.GetAlbum(ctx, albumID)
	if err != nil {
		return fmt.Errorf("album %d: %w", albumID, err)
	}

	return retryOnConflict(func() error {
		return e.store.IncrementItem(ctx, ownerKey, album.ID, e.clock.Now())
	})
}

// RemoveItem takes one unit of the record away and returns how many are left.
// Zero means the row is gone.
func (e *Engine) RemoveItem(ctx context.Context, ownerKey string, recordID uint) (int, error) {
	if err := validOwner(ownerKey); err != nil {
		return 0, err
	}

	var remaining int
	err := retryOnConflict(func() error {
		return e.store.Transaction(ctx, func(tx Store) error {
			item, err := tx.FindItem(ctx, ownerKey, recordID)
			if err != nil {
				return err
			}

			if item.Quantity > 1 {
				remaining = item.Quantity - 1
				return tx.SetQuantity(ctx, item.RecordID, remaining)
			}

			remaining = 0
			return tx.DeleteItem(ctx, item.RecordID)
		})
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func (e *Engine) GetItem(ctx context.Context, ownerKey string, recordID uint) (LineItem, error) {
	if err := validOwner(ownerKey); err != nil {
		return LineItem{}, err
	}
	return e.store.FindItem(ctx, ownerKey, recordID)
}

func (e *Engine) ListItems(ctx context.Context, ownerKey string) ([]LineItem, error) {
	if err := validOwner(ownerKey); err != nil {
		return nil, err
	}
	items, err := e.store.ListItems(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []LineItem{}
	}
	return items, nil
}

func (e *Engine) Count(ctx context.Context, ownerKey string) (int, error) {
	items, err := e.ListItems(ctx, ownerKey)
	if err != nil {
		return 0, err
	}
	return countOf(items), nil
}

func (e *Engine) Total(ctx context.Context, ownerKey string) (decimal.Decimal, error) {
	items, err := e.ListItems(ctx, ownerKey)
	if err != nil {
		return decimal.Zero, err
	}
	return totalOf(items), nil
}

// Summary returns items, count and total computed from the same read.
func (e *Engine) Summary(ctx context.Context, ownerKey string) (Summary, error) {
	items, err := e.ListItems(ctx, ownerKey)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Items: items,
		Count: countOf(items),
		Total: totalOf(items),
	}, nil
}

func countOf(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (e *Engine) EmptyCart(ctx context.Context, ownerKey string) error {
	if err := validOwner(ownerKey); err != nil {
		return err
	}
	return e.store.DeleteItems(ctx, ownerKey)
}

// MigrateCart moves every row of ownerKey to newOwnerKey. A row for an album
// the target already holds is folded into the target row by summing
// quantities, so the target never ends up with two rows for one album.
func (e *Engine) MigrateCart(ctx context.Context, ownerKey, newOwnerKey string) error {
	if err := validOwner(ownerKey); err != nil {
		return err
	}
	if strings.TrimSpace(newOwnerKey) == "" {
		return fmt.Errorf("migrate target is empty: %w", ErrValidation)
	}
	if ownerKey == newOwnerKey {
		return nil
	}

	return e.store.Transaction(ctx, func(tx Store) error {
		from, err := tx.ListItems(ctx, ownerKey)
		if err != nil {
			return err
		}
		if len(from) == 0 {
			return nil
		}

		to, err := tx.ListItems(ctx, newOwnerKey)
		if err != nil {
			return err
		}
		existing := make(map[uint]LineItem, len(to))
		for _, it := range to {
			existing[it.AlbumID] = it
		}

		for _, it := range from {
			target, ok := existing[it.AlbumID]
			if !ok {
				if err := tx.RekeyItem(ctx, it.RecordID, newOwnerKey); err != nil {
					return err
				}
				continue
			}

			target.Quantity += it.Quantity
			if err := tx.SetQuantity(ctx, target.RecordID, target.Quantity); err != nil {
				return err
			}
			if err := tx.DeleteItem(ctx, it.RecordID); err != nil {
				return err
			}
			existing[it.AlbumID] = target
		}
		return nil
	})
}

// CreateOrder turns the owner's cart into order lines, sets order.Total,
// stores the order and empties the cart, all in one transaction. It returns
// the new order id. A failure leaves both the cart and the order tables
// untouched.
func (e *Engine) CreateOrder(ctx context.Context, ownerKey string, order *Order) (uint, error) {
	if err := validOwner(ownerKey); err != nil {
		return 0, err
	}
	if order == nil {
		return 0, fmt.Errorf("order is nil: %w", ErrValidation)
	}

	draft := *order
	err := e.store.Transaction(ctx, func(tx Store) error {
		items, err := tx.ListItems(ctx, ownerKey)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		orderTotal := decimal.Zero
		draft.Lines = make([]OrderLine, 0, len(items))
		for _, it := range items {
			draft.Lines = append(draft.Lines, OrderLine{
				AlbumID:   it.AlbumID,
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
			})
			orderTotal = orderTotal.Add(it.LineTotal())
		}
		draft.Total = orderTotal
		if draft.OrderDate.IsZero() {
			draft.OrderDate = e.clock.Now()
		}

		if err := tx.CreateOrder(ctx, &draft); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := tx.DeleteItems(ctx, ownerKey); err != nil {
			return fmt.Errorf("empty cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	*order = draft
	return order.ID, nil
}

package cart

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrEmptyCart  = fmt.Errorf("cart is empty: %w", ErrValidation)
)

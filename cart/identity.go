package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// OwnerKeySlot is the session slot holding the active cart owner key.
const OwnerKeySlot = "CartId"

// ResolveOwnerKey returns the session's cart owner key, binding one on first
// use: the authenticated user name when there is one, otherwise a random
// UUID. An existing key is returned unchanged.
func ResolveOwnerKey(ctx context.Context, s Session) (string, error) {
	key, err := s.Get(ctx, OwnerKeySlot)
	if err != nil {
		return "", err
	}
	if key != "" {
		return key, nil
	}

	if name := strings.TrimSpace(s.UserName()); name != "" {
		key = name
	} else {
		key = uuid.NewString()
	}

	if err := s.Set(ctx, OwnerKeySlot, key); err != nil {
		return "", err
	}
	return key, nil
}

// BindOwnerKey points the session at newOwnerKey, used after MigrateCart
// moved the anonymous cart to the signed-in user.
func BindOwnerKey(ctx context.Context, s Session, newOwnerKey string) error {
	if strings.TrimSpace(newOwnerKey) == "" {
		return ErrValidation
	}
	return s.Set(ctx, OwnerKeySlot, newOwnerKey)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable checkout responses per cashier
type IdempotencyRepository interface {
	// Find returns the live key a cashier stored, or nil when there is none
	// or it has expired.
	Find(ctx context.Context, userID uuid.UUID, key string) (*entity.IdempotencyKey, error)
	// Save stores the key, replacing an expired record for the same cashier
	// and key string.
	Save(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired purges expired keys and reports how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

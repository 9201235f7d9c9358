package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/pos-api/internal/domain/entity"
)

const checkoutEndpoint = "POST /api/v1/carts/8d3c/checkout"

func TestIdempotencyKeyLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	user := uuid.New()

	require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
		Key:          "checkout-1",
		UserID:       user,
		Endpoint:     checkoutEndpoint,
		ResponseCode: 201,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
		Key:       "stale",
		UserID:    user,
		Endpoint:  checkoutEndpoint,
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	got, err := repo.Find(ctx, user, "checkout-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)

	other, err := repo.Find(ctx, uuid.New(), "checkout-1")
	require.NoError(t, err)
	assert.Nil(t, other)

	stale, err := repo.Find(ctx, user, "stale")
	require.NoError(t, err)
	assert.Nil(t, stale, "expired keys are not replayed")

	purged, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var count int64
	db.Model(&entity.IdempotencyKey{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIdempotencyKeySameStringForTwoCashiers(t *testing.T) {
	repo := NewIdempotencyRepository(newTestDB(t))
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	for i, user := range []uuid.UUID{first, second} {
		require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
			Key:          "till-0001",
			UserID:       user,
			Endpoint:     checkoutEndpoint,
			ResponseCode: 201,
			ResponseBody: []string{`{"n":1}`, `{"n":2}`}[i],
			ExpiresAt:    time.Now().Add(time.Hour),
		}))
	}

	a, err := repo.Find(ctx, first, "till-0001")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.JSONEq(t, `{"n":1}`, a.ResponseBody)

	b, err := repo.Find(ctx, second, "till-0001")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.JSONEq(t, `{"n":2}`, b.ResponseBody)
}

func TestIdempotencyKeySaveReplacesExpiredRecord(t *testing.T) {
	repo := NewIdempotencyRepository(newTestDB(t))
	ctx := context.Background()
	user := uuid.New()

	require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
		Key:          "till-0002",
		UserID:       user,
		Endpoint:     checkoutEndpoint,
		ResponseCode: 201,
		ResponseBody: `{"old":true}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))
	require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
		Key:          "till-0002",
		UserID:       user,
		Endpoint:     checkoutEndpoint,
		ResponseCode: 201,
		ResponseBody: `{"old":false}`,
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	got, err := repo.Find(ctx, user, "till-0002")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"old":false}`, got.ResponseBody)
}

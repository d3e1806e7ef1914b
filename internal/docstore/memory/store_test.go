package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/oakline/storefront/pkg/errors"

	"github.com/oakline/storefront/internal/domain"
)

func TestCreateAssignsID(t *testing.T) {
	store := New()

	created, err := store.Create(context.Background(), &domain.Address{
		Email:     "a@x.com",
		City:      "Izmir",
		Default:   true,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	fetched, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", fetched.Email)
	assert.True(t, fetched.Default)
}

func TestGetNotFound(t *testing.T) {
	store := New()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListByEmailNewestFirst(t *testing.T) {
	store := New()
	base := time.Now().UTC()

	for i := 0; i < 3; i++ {
		_, err := store.Create(context.Background(), &domain.Address{
			Email:     "a@x.com",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := store.Create(context.Background(), &domain.Address{Email: "b@x.com", CreatedAt: base})
	require.NoError(t, err)

	list, err := store.ListByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
	assert.True(t, list[1].CreatedAt.After(list[2].CreatedAt))
}

func TestQueryDefaultIDsExcludes(t *testing.T) {
	store := New()
	ctx := context.Background()

	d1, err := store.Create(ctx, &domain.Address{Email: "a@x.com", Default: true})
	require.NoError(t, err)
	d2, err := store.Create(ctx, &domain.Address{Email: "a@x.com", Default: true})
	require.NoError(t, err)
	_, err = store.Create(ctx, &domain.Address{Email: "a@x.com", Default: false})
	require.NoError(t, err)
	_, err = store.Create(ctx, &domain.Address{Email: "b@x.com", Default: true})
	require.NoError(t, err)

	ids, err := store.QueryDefaultIDs(ctx, "a@x.com", d2.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{d1.ID}, ids)
}

func TestClearDefault(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.Create(ctx, &domain.Address{Email: "a@x.com", Default: true})
	require.NoError(t, err)

	require.NoError(t, store.ClearDefault(ctx, created.ID))

	fetched, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Default)

	// Unknown id is a no-op.
	assert.NoError(t, store.ClearDefault(ctx, "missing"))
}

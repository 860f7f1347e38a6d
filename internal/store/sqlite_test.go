package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "risk-engine/internal/errors"
)

type fakeRequest struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type fakeResult struct {
	Total float64 `json:"total"`
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	request := fakeRequest{Name: "ns1", Value: 1_000_000}
	result := fakeResult{Total: 80_000}

	id, err := store.Save(ctx, "im", request, result)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	record, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, "im", record.Kind)
	assert.JSONEq(t, `{"name":"ns1","value":1000000}`, string(record.Request))
	assert.JSONEq(t, `{"total":80000}`, string(record.Result))
	assert.False(t, record.CreatedAt.IsZero())
}

func TestGetUnknownID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)
}

func TestListFiltersAndLimits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Save(ctx, "var", fakeRequest{Name: "v"}, fakeResult{Total: float64(i)})
		require.NoError(t, err)
	}
	_, err := store.Save(ctx, "saccr", fakeRequest{Name: "s"}, fakeResult{})
	require.NoError(t, err)

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	vars, err := store.List(ctx, "var", 0)
	require.NoError(t, err)
	assert.Len(t, vars, 3)
	for _, record := range vars {
		assert.Equal(t, "var", record.Kind)
	}

	limited, err := store.List(ctx, "var", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/fulfillment/internal/storage"
)

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	placedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("missing file reads as empty collections", func(t *testing.T) {
		fs, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "data.json"))
		require.NoError(t, err)

		orders, err := fs.ReadOrders(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)

		returns, err := fs.ReadReturns(ctx)
		require.NoError(t, err)
		assert.Empty(t, returns)
	})

	t.Run("write then read round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		fs, err := storage.NewFileStorage(path)
		require.NoError(t, err)

		orders := map[string][]storage.Order{
			"user-1": {{
				ID:       "order-1",
				UserID:   "user-1",
				PlacedAt: placedAt,
				Status:   "Processing",
				History: []storage.HistoryEntry{
					{Stage: "Processing", Timestamp: placedAt, Message: "Order placed"},
				},
			}},
		}
		require.NoError(t, fs.WriteOrders(ctx, orders))

		// A fresh handle sees the persisted state.
		reopened, err := storage.NewFileStorage(path)
		require.NoError(t, err)

		got, err := reopened.ReadOrders(ctx)
		require.NoError(t, err)
		require.Len(t, got["user-1"], 1)
		assert.Equal(t, "order-1", got["user-1"][0].ID)
		require.Len(t, got["user-1"][0].History, 1)
		assert.True(t, got["user-1"][0].History[0].Timestamp.Equal(placedAt))
	})

	t.Run("returns persist independently of orders", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		fs, err := storage.NewFileStorage(path)
		require.NoError(t, err)

		returns := map[string][]storage.ReturnRequest{
			"user-1": {{
				ID:          "return-1",
				OrderID:     "order-1",
				UserID:      "user-1",
				Type:        "refund",
				RequestedAt: placedAt,
				Status:      "Pending",
				History: []storage.HistoryEntry{
					{Stage: "Pending", Timestamp: placedAt},
				},
			}},
		}
		require.NoError(t, fs.WriteReturns(ctx, returns))

		got, err := fs.ReadReturns(ctx)
		require.NoError(t, err)
		require.Len(t, got["user-1"], 1)
		assert.Equal(t, "refund", got["user-1"][0].Type)

		orders, err := fs.ReadOrders(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

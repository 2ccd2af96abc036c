package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/shopfront/fulfillment/internal/db/mocks"
	"github.com/shopfront/fulfillment/internal/repository"
	"github.com/shopfront/fulfillment/internal/repository/postgresql"
	"github.com/shopfront/fulfillment/internal/storage"
)

func newPostgresStorage(db *mock_database.MockDB) *storage.PostgresStorage {
	return storage.NewPostgresStorage(
		db,
		postgresql.NewOrderRepo(db),
		postgresql.NewReturnRepo(db),
		postgresql.NewHistoryRepo(db),
	)
}

func TestPostgresStorage_ReadOrders(t *testing.T) {
	ctx := context.Background()
	placedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	store := newPostgresStorage(mockDB)

	mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dest *[]*repository.Order, _ string, _ ...interface{}) error {
			*dest = []*repository.Order{
				{ID: "order-1", UserID: "user-1", PlacedAt: placedAt, Status: "Packed"},
			}
			return nil
		})
	mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dest *[]*repository.HistoryEntry, _ string, _ ...interface{}) error {
			*dest = []*repository.HistoryEntry{
				{ID: 1, RecordID: "order-1", Stage: "Processing", OccurredAt: placedAt},
				{ID: 2, RecordID: "order-1", Stage: "Packed", OccurredAt: placedAt.Add(10 * time.Second)},
			}
			return nil
		})

	orders, err := store.ReadOrders(ctx)
	require.NoError(t, err)

	require.Len(t, orders["user-1"], 1)
	order := orders["user-1"][0]
	assert.Equal(t, "Packed", order.Status)
	require.Len(t, order.History, 2)
	assert.Equal(t, "Processing", order.History[0].Stage)
	assert.Equal(t, "Packed", order.History[1].Stage)
}

func TestPostgresStorage_WriteOrders(t *testing.T) {
	ctx := context.Background()
	placedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	orders := map[string][]storage.Order{
		"user-1": {{
			ID:       "order-1",
			UserID:   "user-1",
			PlacedAt: placedAt,
			Status:   "Packed",
			History: []storage.HistoryEntry{
				{Stage: "Processing", Timestamp: placedAt},
				{Stage: "Packed", Timestamp: placedAt.Add(10 * time.Second)},
			},
		}},
	}

	t.Run("upserts the record and appends history in one transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		store := newPostgresStorage(mockDB)

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		// One order upsert plus two history appends.
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(errors.New("tx closed")).AnyTimes()

		err := store.WriteOrders(ctx, orders)
		assert.NoError(t, err)
	})

	t.Run("upsert failure rolls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		store := newPostgresStorage(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, expectedErr)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		err := store.WriteOrders(ctx, orders)
		assert.ErrorIs(t, err, expectedErr)
	})
}

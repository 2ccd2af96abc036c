package postgresql_test

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
)

func TestHistoryRepo_AppendTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		entry := &repository.HistoryEntry{
			RecordID:   "order-1",
			Stage:      "Packed",
			Message:    "Order has been packed",
			OccurredAt: placedAt,
		}
		mockTx.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(entry.RecordID),
			gomock.Eq(entry.Stage),
			gomock.Eq(entry.Message),
			gomock.Eq(entry.OccurredAt),
		).Return(nil, nil)

		err := repo.AppendTx(ctx, mockTx, entry)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		expectedErr := errors.New("database error")
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)

		err := repo.AppendTx(ctx, mockTx, &repository.HistoryEntry{RecordID: "order-1"})
		assert.Equal(t, expectedErr, err)
	})
}

func TestHistoryRepo_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	repo := postgresql.NewHistoryRepo(mockDB)

	expected := []*repository.HistoryEntry{
		{ID: 1, RecordID: "order-1", Stage: "Processing", OccurredAt: placedAt},
		{ID: 2, RecordID: "order-1", Stage: "Packed", OccurredAt: placedAt.Add(10 * time.Second)},
	}
	mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dest *[]*repository.HistoryEntry, _ string, _ ...interface{}) error {
			*dest = expected
			return nil
		})

	entries, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, entries)
}

package storage

import (
	"context"
	"fmt"

	"github.com/shopfront/fulfillment/internal/db"
	"github.com/shopfront/fulfillment/internal/repository"
)

type OrderRepository interface {
	GetAll(ctx context.Context) ([]*repository.Order, error)
	UpsertTx(ctx context.Context, tx db.Tx, order *repository.Order) error
}

type ReturnRepository interface {
	GetAll(ctx context.Context) ([]*repository.ReturnRequest, error)
	UpsertTx(ctx context.Context, tx db.Tx, ret *repository.ReturnRequest) error
}

type HistoryRepository interface {
	GetAll(ctx context.Context) ([]*repository.HistoryEntry, error)
	AppendTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error
}

// PostgresStorage serves the same owner-keyed read/replace contract as
// FileStorage, but against real tables with per-record upserts instead of
// a whole-blob rewrite. History rows are append-once at the database level
// too: the (record_id, stage) conflict target makes a concurrent duplicate
// write land as a no-op, preserving the engine's invariants.
type PostgresStorage struct {
	db          db.DB
	orderRepo   OrderRepository
	returnRepo  ReturnRepository
	historyRepo HistoryRepository
}

func NewPostgresStorage(db db.DB, orderRepo OrderRepository, returnRepo ReturnRepository, historyRepo HistoryRepository) *PostgresStorage {
	return &PostgresStorage{
		db:          db,
		orderRepo:   orderRepo,
		returnRepo:  returnRepo,
		historyRepo: historyRepo,
	}
}

func (s *PostgresStorage) ReadOrders(ctx context.Context) (map[string][]Order, error) {
	repoOrders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	history, err := s.historyByRecord(ctx)
	if err != nil {
		return nil, err
	}

	orders := make(map[string][]Order)
	for _, ro := range repoOrders {
		orders[ro.UserID] = append(orders[ro.UserID], Order{
			ID:          ro.ID,
			UserID:      ro.UserID,
			PlacedAt:    ro.PlacedAt,
			Status:      ro.Status,
			History:     history[ro.ID],
			DeliveredAt: ro.DeliveredAt,
		})
	}
	return orders, nil
}

func (s *PostgresStorage) WriteOrders(ctx context.Context, orders map[string][]Order) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, list := range orders {
		for i := range list {
			o := &list[i]
			err := s.orderRepo.UpsertTx(ctx, tx, &repository.Order{
				ID:          o.ID,
				UserID:      o.UserID,
				PlacedAt:    o.PlacedAt,
				Status:      o.Status,
				DeliveredAt: o.DeliveredAt,
			})
			if err != nil {
				return fmt.Errorf("failed to upsert order %s: %w", o.ID, err)
			}
			if err := s.appendHistoryTx(ctx, tx, o.ID, o.History); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStorage) ReadReturns(ctx context.Context) (map[string][]ReturnRequest, error) {
	repoReturns, err := s.returnRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read returns: %w", err)
	}
	history, err := s.historyByRecord(ctx)
	if err != nil {
		return nil, err
	}

	returns := make(map[string][]ReturnRequest)
	for _, rr := range repoReturns {
		returns[rr.UserID] = append(returns[rr.UserID], ReturnRequest{
			ID:          rr.ID,
			OrderID:     rr.OrderID,
			UserID:      rr.UserID,
			Type:        rr.Type,
			RequestedAt: rr.RequestedAt,
			Status:      rr.Status,
			History:     history[rr.ID],
		})
	}
	return returns, nil
}

func (s *PostgresStorage) WriteReturns(ctx context.Context, returns map[string][]ReturnRequest) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, list := range returns {
		for i := range list {
			r := &list[i]
			err := s.returnRepo.UpsertTx(ctx, tx, &repository.ReturnRequest{
				ID:          r.ID,
				OrderID:     r.OrderID,
				UserID:      r.UserID,
				Type:        r.Type,
				RequestedAt: r.RequestedAt,
				Status:      r.Status,
			})
			if err != nil {
				return fmt.Errorf("failed to upsert return %s: %w", r.ID, err)
			}
			if err := s.appendHistoryTx(ctx, tx, r.ID, r.History); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStorage) historyByRecord(ctx context.Context) (map[string][]HistoryEntry, error) {
	entries, err := s.historyRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	grouped := make(map[string][]HistoryEntry)
	for _, e := range entries {
		grouped[e.RecordID] = append(grouped[e.RecordID], HistoryEntry{
			Stage:     e.Stage,
			Timestamp: e.OccurredAt,
			Message:   e.Message,
		})
	}
	return grouped, nil
}

func (s *PostgresStorage) appendHistoryTx(ctx context.Context, tx db.Tx, recordID string, history []HistoryEntry) error {
	for _, h := range history {
		err := s.historyRepo.AppendTx(ctx, tx, &repository.HistoryEntry{
			RecordID:   recordID,
			Stage:      h.Stage,
			Message:    h.Message,
			OccurredAt: h.Timestamp,
		})
		if err != nil {
			return fmt.Errorf("failed to append history for %s: %w", recordID, err)
		}
	}
	return nil
}

package postgresql

import (
	"context"

	"github.com/shopfront/fulfillment/internal/db"
	"github.com/shopfront/fulfillment/internal/repository"
)

type HistoryRepo struct {
	db db.DB
}

func NewHistoryRepo(db db.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) GetAll(ctx context.Context) ([]*repository.HistoryEntry, error) {
	var entries []*repository.HistoryEntry
	err := r.db.Select(ctx, &entries, `
        SELECT * FROM fulfillment_history
        ORDER BY record_id, occurred_at ASC, id ASC
    `)
	return entries, err
}

func (r *HistoryRepo) GetByRecordID(ctx context.Context, recordID string) ([]*repository.HistoryEntry, error) {
	var entries []*repository.HistoryEntry
	err := r.db.Select(ctx, &entries, `
        SELECT * FROM fulfillment_history
        WHERE record_id = $1
        ORDER BY occurred_at ASC, id ASC
    `, recordID)
	return entries, err
}

// AppendTx inserts one history row; a stage already recorded for the
// record is silently kept as-is, matching the engine's append-once rule.
func (r *HistoryRepo) AppendTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO fulfillment_history (
            record_id, stage, message, occurred_at
        ) VALUES ($1, $2, $3, $4)
        ON CONFLICT (record_id, stage) DO NOTHING
    `, entry.RecordID, entry.Stage, entry.Message, entry.OccurredAt)
	return err
}

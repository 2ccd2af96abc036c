package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

type Order struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	PlacedAt    time.Time  `db:"placed_at"`
	Status      string     `db:"status"`
	DeliveredAt *time.Time `db:"delivered_at"`
}

type ReturnRequest struct {
	ID          string    `db:"id"`
	OrderID     string    `db:"order_id"`
	UserID      string    `db:"user_id"`
	Type        string    `db:"type"`
	RequestedAt time.Time `db:"requested_at"`
	Status      string    `db:"status"`
}

// HistoryEntry rows are shared by orders and returns; RecordID points at
// whichever record the entry belongs to. (record_id, stage) is unique so
// re-inserting an already recorded stage is a no-op.
type HistoryEntry struct {
	ID         int64     `db:"id"`
	RecordID   string    `db:"record_id"`
	Stage      string    `db:"stage"`
	Message    string    `db:"message"`
	OccurredAt time.Time `db:"occurred_at"`
}

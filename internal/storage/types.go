package storage

import "time"

// HistoryEntry is one line of a record's fulfillment audit log. History is
// append-only: entries are never reordered or removed once written.
type HistoryEntry struct {
	Stage     string    `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

type Order struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	PlacedAt    time.Time      `json:"placed_at"`
	Status      string         `json:"status"`
	History     []HistoryEntry `json:"history"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
}

type ReturnRequest struct {
	ID          string         `json:"id"`
	OrderID     string         `json:"order_id"`
	UserID      string         `json:"user_id"`
	Type        string         `json:"type"`
	RequestedAt time.Time      `json:"requested_at"`
	Status      string         `json:"status"`
	History     []HistoryEntry `json:"history"`
}

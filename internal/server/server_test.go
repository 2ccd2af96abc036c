package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/fulfillment/internal/fulfillment"
	"github.com/shopfront/fulfillment/internal/kafka"
	"github.com/shopfront/fulfillment/internal/lifecycle"
	"github.com/shopfront/fulfillment/internal/storage"
)

func newTestServer(t *testing.T, now *time.Time) http.Handler {
	t.Helper()

	store, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)

	svc := fulfillment.NewService(store, lifecycle.NewEngine(), zap.NewNop(), func() time.Time {
		return *now
	})

	audit := NewAuditManager(kafka.NewConsoleProducer("audit_logs"), 1, 10, time.Second)
	srv := New(svc, audit, zap.NewNop())
	return srv.setupRoutes()
}

func TestServer_OrderLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	handler := newTestServer(t, &now)

	// Place an order.
	body, _ := json.Marshal(map[string]string{"user_id": "user-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed storage.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	assert.Equal(t, lifecycle.StageProcessing, placed.Status)

	// Nothing progresses before the first threshold.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/user-1/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []storage.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, lifecycle.StageProcessing, orders[0].Status)

	// Advance the clock past two thresholds and list again.
	now = now.Add(25 * time.Second)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/user-1/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, lifecycle.StageShipped, orders[0].Status)
	assert.Len(t, orders[0].History, 3)

	// History endpoint agrees.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/user-1/orders/"+placed.ID+"/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var history []storage.HistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 3)
}

func TestServer_UpdateOrderStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	handler := newTestServer(t, &now)

	body, _ := json.Marshal(map[string]string{"user_id": "user-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed storage.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	// Operator override marks it Shipped ahead of schedule.
	body, _ = json.Marshal(map[string]string{"stage": lifecycle.StageShipped, "message": "expedited"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/users/user-1/orders/"+placed.ID+"/status", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated storage.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, lifecycle.StageShipped, updated.Status)
	assert.Len(t, updated.History, 2)

	t.Run("missing order is 404", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"stage": lifecycle.StagePacked})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/users/user-1/orders/nope/status", bytes.NewReader(body)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Returns(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	handler := newTestServer(t, &now)

	body, _ := json.Marshal(map[string]string{
		"user_id":  "user-1",
		"order_id": "order-1",
		"type":     lifecycle.ReturnTypeReplace,
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/returns", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var ret storage.ReturnRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ret))
	assert.Equal(t, lifecycle.StagePending, ret.Status)

	// The replacement graph runs with time.
	now = now.Add(22 * time.Second)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/user-1/returns", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var returns []storage.ReturnRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &returns))
	require.Len(t, returns, 1)
	assert.Equal(t, lifecycle.StageDispatched, returns[0].Status)
	assert.Len(t, returns[0].History, 5)

	t.Run("unknown type is rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"user_id":  "user-1",
			"order_id": "order-1",
			"type":     "exchange",
		})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/returns", bytes.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejection freezes the request", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"stage": lifecycle.StageRejected, "message": "outside return window"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/users/user-1/returns/"+ret.ID+"/status", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)

		now = now.Add(time.Hour)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/user-1/returns", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var frozen []storage.ReturnRequest
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &frozen))
		require.Len(t, frozen, 1)
		assert.Equal(t, lifecycle.StageRejected, frozen[0].Status)
		assert.Len(t, frozen[0].History, 5)
	})
}

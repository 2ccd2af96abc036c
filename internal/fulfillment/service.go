//go:generate mockgen -source ./service.go -destination=./mocks/store.go -package=fulfillment_mocks
package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfront/fulfillment/internal/lifecycle"
	"github.com/shopfront/fulfillment/internal/metrics"
	"github.com/shopfront/fulfillment/internal/storage"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrReturnNotFound = errors.New("return request not found")
)

// Store is the persistence contract the service drives: whole collections
// keyed by owner, read and replaced as a unit. The engine does not care
// whether the backing is a JSON blob or a database as long as these
// semantics hold.
type Store interface {
	ReadOrders(ctx context.Context) (map[string][]storage.Order, error)
	WriteOrders(ctx context.Context, orders map[string][]storage.Order) error
	ReadReturns(ctx context.Context) (map[string][]storage.ReturnRequest, error)
	WriteReturns(ctx context.Context, returns map[string][]storage.ReturnRequest) error
}

// RefreshIssue reports one record that could not be refreshed. The record
// is left unchanged and the batch carries on without it.
type RefreshIssue struct {
	UserID   string
	RecordID string
	Err      error
}

// Service runs lazy stage progression over the order and return
// collections. There is no background scheduler: every list read refreshes
// the whole collection in line and persists only when something actually
// crossed a threshold, so repeated reads stay write-free.
type Service struct {
	store  Store
	engine *lifecycle.Engine
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, engine *lifecycle.Engine, logger *zap.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:  store,
		engine: engine,
		logger: logger,
		now:    now,
	}
}

// GetOrders refreshes the order collection and returns the owner's slice.
func (s *Service) GetOrders(ctx context.Context, userID string) ([]storage.Order, error) {
	orders, err := s.store.ReadOrders(ctx)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("get_orders").Inc()
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	changed, issues := s.refreshOrders(orders)
	s.reportIssues("orders", issues)

	if changed {
		if err := s.store.WriteOrders(ctx, orders); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("get_orders").Inc()
			return nil, fmt.Errorf("failed to persist refreshed orders: %w", err)
		}
		metrics.RefreshWritesTotal.WithLabelValues("orders").Inc()
	} else {
		metrics.RefreshSuppressedTotal.WithLabelValues("orders").Inc()
	}

	return orders[userID], nil
}

// GetReturns refreshes the return collection and returns the owner's slice.
func (s *Service) GetReturns(ctx context.Context, userID string) ([]storage.ReturnRequest, error) {
	returns, err := s.store.ReadReturns(ctx)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("get_returns").Inc()
		return nil, fmt.Errorf("failed to read returns: %w", err)
	}

	changed, issues := s.refreshReturns(returns)
	s.reportIssues("returns", issues)

	if changed {
		if err := s.store.WriteReturns(ctx, returns); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("get_returns").Inc()
			return nil, fmt.Errorf("failed to persist refreshed returns: %w", err)
		}
		metrics.RefreshWritesTotal.WithLabelValues("returns").Inc()
	} else {
		metrics.RefreshSuppressedTotal.WithLabelValues("returns").Inc()
	}

	return returns[userID], nil
}

// refreshOrders advances every record in place. Per-record failures are
// collected rather than aborting the batch; a malformed record simply
// stops advancing and is surfaced to the caller.
func (s *Service) refreshOrders(orders map[string][]storage.Order) (bool, []RefreshIssue) {
	now := s.now()
	anyChanged := false
	var issues []RefreshIssue

	for userID, list := range orders {
		for i := range list {
			changed, err := s.engine.AdvanceOrder(&list[i], now)
			if err != nil {
				issues = append(issues, RefreshIssue{UserID: userID, RecordID: list[i].ID, Err: err})
				continue
			}
			if changed {
				metrics.StagesAdvancedTotal.WithLabelValues("orders").Inc()
				anyChanged = true
			}
		}
	}
	return anyChanged, issues
}

func (s *Service) refreshReturns(returns map[string][]storage.ReturnRequest) (bool, []RefreshIssue) {
	now := s.now()
	anyChanged := false
	var issues []RefreshIssue

	for userID, list := range returns {
		for i := range list {
			changed, err := s.engine.AdvanceReturn(&list[i], now)
			if err != nil {
				issues = append(issues, RefreshIssue{UserID: userID, RecordID: list[i].ID, Err: err})
				continue
			}
			if changed {
				metrics.StagesAdvancedTotal.WithLabelValues("returns").Inc()
				anyChanged = true
			}
		}
	}
	return anyChanged, issues
}

func (s *Service) reportIssues(collection string, issues []RefreshIssue) {
	for _, issue := range issues {
		metrics.MalformedRecordsTotal.WithLabelValues(collection).Inc()
		s.logger.Warn("record skipped during refresh",
			zap.String("collection", collection),
			zap.String("user_id", issue.UserID),
			zap.String("record_id", issue.RecordID),
			zap.Error(issue.Err),
		)
	}
}

// PlaceOrder creates an order with its initial history entry already
// populated, the way the storefront's checkout does.
func (s *Service) PlaceOrder(ctx context.Context, userID string) (*storage.Order, error) {
	orders, err := s.store.ReadOrders(ctx)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("place_order").Inc()
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	first := s.engine.Orders[0]
	placedAt := s.now().UTC()
	order := storage.Order{
		ID:       uuid.NewString(),
		UserID:   userID,
		PlacedAt: placedAt,
		Status:   first.Stage,
		History: []storage.HistoryEntry{
			{Stage: first.Stage, Timestamp: placedAt, Message: first.Message},
		},
	}

	orders[userID] = append(orders[userID], order)
	if err := s.store.WriteOrders(ctx, orders); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("place_order").Inc()
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	metrics.OrdersPlacedTotal.Inc()
	s.logger.Info("order placed", zap.String("order_id", order.ID), zap.String("user_id", userID))
	return &order, nil
}

// CreateReturn creates a refund or replacement request against an order.
func (s *Service) CreateReturn(ctx context.Context, userID, orderID, returnType string) (*storage.ReturnRequest, error) {
	graph, err := lifecycle.ReturnGraphFor(returnType)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_return").Inc()
		return nil, err
	}

	returns, err := s.store.ReadReturns(ctx)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_return").Inc()
		return nil, fmt.Errorf("failed to read returns: %w", err)
	}

	first := graph[0]
	requestedAt := s.now().UTC()
	ret := storage.ReturnRequest{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		UserID:      userID,
		Type:        returnType,
		RequestedAt: requestedAt,
		Status:      first.Stage,
		History: []storage.HistoryEntry{
			{Stage: first.Stage, Timestamp: requestedAt, Message: first.Message},
		},
	}

	returns[userID] = append(returns[userID], ret)
	if err := s.store.WriteReturns(ctx, returns); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_return").Inc()
		return nil, fmt.Errorf("failed to persist return request: %w", err)
	}

	metrics.ReturnsRequestedTotal.Inc()
	s.logger.Info("return requested",
		zap.String("return_id", ret.ID),
		zap.String("order_id", orderID),
		zap.String("type", returnType),
	)
	return &ret, nil
}

// UpdateOrderStatus is the manual override path: it sets the stage
// directly, appends a history entry only when the last entry differs, and
// honors the once-only rule for DeliveredAt. The engine treats the new
// stage as a floor on subsequent refreshes.
func (s *Service) UpdateOrderStatus(ctx context.Context, userID, orderID, stage, message string) (*storage.Order, error) {
	orders, err := s.store.ReadOrders(ctx)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("update_order_status").Inc()
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	list, ok := orders[userID]
	if !ok {
		return nil, ErrOrderNotFound
	}

	for i := range list {
		if list[i].ID != orderID {
			continue
		}
		order := &list[i]
		order.Status = stage

		ts := s.now().UTC()
		if n := len(order.History); n == 0 || order.History[n-1].Stage != stage {
			order.History = append(order.History, storage.HistoryEntry{
				Stage:     stage,
				Timestamp: ts,
				Message:   message,
			})
		}
		if stage == lifecycle.StageDelivered && order.DeliveredAt == nil {
			order.DeliveredAt = &ts
		}

		if err := s.store.WriteOrders(ctx, orders); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("update_order_status").Inc()
			return nil, fmt.Errorf("failed to persist order: %w", err)
		}
		s.logger.Info("order status overridden",
			zap.String("order_id", orderID),
			zap.String("stage", stage),
		)
		return order, nil
	}
	return nil, ErrOrderNotFound
}

// UpdateReturnStatus is the override path for return requests. Setting
// Rejected freezes the record: the status flips but no history entry is
// written, since Rejected is not a graph stage and the history records
// graph progression only.
func (s *Service) UpdateReturnStatus(ctx context.Context, userID, returnID, stage, message string) (*storage.ReturnRequest, error) {
	returns, err := s.store.ReadReturns(ctx)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("update_return_status").Inc()
		return nil, fmt.Errorf("failed to read returns: %w", err)
	}

	list, ok := returns[userID]
	if !ok {
		return nil, ErrReturnNotFound
	}

	for i := range list {
		if list[i].ID != returnID {
			continue
		}
		ret := &list[i]
		ret.Status = stage

		if stage != lifecycle.StageRejected {
			if n := len(ret.History); n == 0 || ret.History[n-1].Stage != stage {
				ret.History = append(ret.History, storage.HistoryEntry{
					Stage:     stage,
					Timestamp: s.now().UTC(),
					Message:   message,
				})
			}
		}

		if err := s.store.WriteReturns(ctx, returns); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("update_return_status").Inc()
			return nil, fmt.Errorf("failed to persist return request: %w", err)
		}
		s.logger.Info("return status overridden",
			zap.String("return_id", returnID),
			zap.String("stage", stage),
		)
		return ret, nil
	}
	return nil, ErrReturnNotFound
}

// GetOrderHistory returns the audit log for one of the owner's orders,
// refreshing the collection first so the log reflects the current time.
func (s *Service) GetOrderHistory(ctx context.Context, userID, orderID string) ([]storage.HistoryEntry, error) {
	orders, err := s.GetOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return o.History, nil
		}
	}
	return nil, ErrOrderNotFound
}

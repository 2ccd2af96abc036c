package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/shopfront/fulfillment/internal/storage"
)

// Fulfillment is the slice of the service layer the HTTP surface needs.
type Fulfillment interface {
	GetOrders(ctx context.Context, userID string) ([]storage.Order, error)
	GetReturns(ctx context.Context, userID string) ([]storage.ReturnRequest, error)
	GetOrderHistory(ctx context.Context, userID, orderID string) ([]storage.HistoryEntry, error)
	PlaceOrder(ctx context.Context, userID string) (*storage.Order, error)
	CreateReturn(ctx context.Context, userID, orderID, returnType string) (*storage.ReturnRequest, error)
	UpdateOrderStatus(ctx context.Context, userID, orderID, stage, message string) (*storage.Order, error)
	UpdateReturnStatus(ctx context.Context, userID, returnID, stage, message string) (*storage.ReturnRequest, error)
}

type Server struct {
	service Fulfillment
	audit   *AuditManager
	logger  *zap.Logger
	server  *http.Server
}

func New(service Fulfillment, audit *AuditManager, logger *zap.Logger) *Server {
	return &Server{
		service: service,
		audit:   audit,
		logger:  logger,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// flushes the audit pipeline.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.audit.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", zap.String("addr", addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.audit.Shutdown(ctx)
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	r := mux.NewRouter()
	// Registered via Use so route vars are resolved by the time the
	// middleware runs.
	r.Use(s.auditLogMiddleware)

	r.HandleFunc("/orders", s.handlePlaceOrder).Methods(http.MethodPost)
	r.HandleFunc("/returns", s.handleCreateReturn).Methods(http.MethodPost)

	r.HandleFunc("/users/{userID}/orders", s.handleListOrders).Methods(http.MethodGet)
	r.HandleFunc("/users/{userID}/returns", s.handleListReturns).Methods(http.MethodGet)
	r.HandleFunc("/users/{userID}/orders/{orderID}/history", s.handleOrderHistory).Methods(http.MethodGet)
	r.HandleFunc("/users/{userID}/orders/{orderID}/status", s.handleUpdateOrderStatus).Methods(http.MethodPut)
	r.HandleFunc("/users/{userID}/returns/{returnID}/status", s.handleUpdateReturnStatus).Methods(http.MethodPut)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	return r
}

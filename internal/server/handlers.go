package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/shopfront/fulfillment/internal/fulfillment"
	"github.com/shopfront/fulfillment/internal/lifecycle"
	"github.com/shopfront/fulfillment/internal/storage"
)

type placeOrderRequest struct {
	UserID string `json:"user_id"`
}

type createReturnRequest struct {
	UserID  string `json:"user_id"`
	OrderID string `json:"order_id"`
	Type    string `json:"type"`
}

type updateStatusRequest struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	order, err := s.service.PlaceOrder(r.Context(), req.UserID)
	if err != nil {
		s.logger.Error("place order failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to place order")
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (s *Server) handleCreateReturn(w http.ResponseWriter, r *http.Request) {
	var req createReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "user_id and order_id are required")
		return
	}

	ret, err := s.service.CreateReturn(r.Context(), req.UserID, req.OrderID, req.Type)
	if err != nil {
		if errors.Is(err, lifecycle.ErrUnknownReturnType) {
			respondError(w, http.StatusBadRequest, "type must be refund or replace")
			return
		}
		s.logger.Error("create return failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create return request")
		return
	}
	respondJSON(w, http.StatusCreated, ret)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	orders, err := s.service.GetOrders(r.Context(), userID)
	if err != nil {
		s.logger.Error("list orders failed", zap.String("user_id", userID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []storage.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleListReturns(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	returns, err := s.service.GetReturns(r.Context(), userID)
	if err != nil {
		s.logger.Error("list returns failed", zap.String("user_id", userID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list returns")
		return
	}
	if returns == nil {
		returns = []storage.ReturnRequest{}
	}
	respondJSON(w, http.StatusOK, returns)
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	history, err := s.service.GetOrderHistory(r.Context(), vars["userID"], vars["orderID"])
	if err != nil {
		if errors.Is(err, fulfillment.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.Error("order history failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load order history")
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stage == "" {
		respondError(w, http.StatusBadRequest, "stage is required")
		return
	}

	order, err := s.service.UpdateOrderStatus(r.Context(), vars["userID"], vars["orderID"], req.Stage, req.Message)
	if err != nil {
		if errors.Is(err, fulfillment.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.Error("update order status failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleUpdateReturnStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stage == "" {
		respondError(w, http.StatusBadRequest, "stage is required")
		return
	}

	ret, err := s.service.UpdateReturnStatus(r.Context(), vars["userID"], vars["returnID"], req.Stage, req.Message)
	if err != nil {
		if errors.Is(err, fulfillment.ErrReturnNotFound) {
			respondError(w, http.StatusNotFound, "return request not found")
			return
		}
		s.logger.Error("update return status failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to update return status")
		return
	}
	respondJSON(w, http.StatusOK, ret)
}

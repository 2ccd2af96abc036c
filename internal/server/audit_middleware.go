package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		entry := AuditLogEntry{
			Timestamp: time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
			UserID:    vars["userID"],
		}
		if id, ok := vars["orderID"]; ok {
			entry.RecordID = id
		} else if id, ok := vars["returnID"]; ok {
			entry.RecordID = id
		}

		var requestBody []byte
		if r.Body != nil {
			requestBody, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = string(requestBody)

			if entry.RecordID != "" && strings.HasSuffix(r.URL.Path, "/status") {
				var statusRequest struct {
					Stage string `json:"stage"`
				}
				if err := json.Unmarshal(requestBody, &statusRequest); err == nil {
					entry.NewStage = statusRequest.Stage
					entry.OldStage = s.currentStage(r.Context(), entry.UserID, entry.RecordID, r.URL.Path)
				}
			}
		}

		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		entry.StatusCode = wrw.statusCode
		entry.Response = wrw.buffer.String()

		s.audit.LogEntry(r.Context(), entry)
	})
}

// currentStage looks up the pre-override stage for audit purposes; a miss
// just leaves the field empty.
func (s *Server) currentStage(ctx context.Context, userID, recordID, path string) string {
	if strings.Contains(path, "/orders/") {
		orders, err := s.service.GetOrders(ctx, userID)
		if err != nil {
			return ""
		}
		for _, o := range orders {
			if o.ID == recordID {
				return o.Status
			}
		}
		return ""
	}
	returns, err := s.service.GetReturns(ctx, userID)
	if err != nil {
		return ""
	}
	for _, ret := range returns {
		if ret.ID == recordID {
			return ret.Status
		}
	}
	return ""
}

package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"retailsage/internal/middleware"
	"retailsage/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Reconciler lists checkout attempts that never got a confirmation.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]*repository.JournalEntry, error)
}

// ReconcileHandler exposes the pending sale journal to operators. Entries
// here are sales that may or may not exist on the backend; an operator
// resolves them against the backend's sales list by idempotency key.
type ReconcileHandler struct {
	checkout Reconciler
	logger   *zap.Logger
}

func NewReconcileHandler(checkout Reconciler, logger *zap.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		checkout: checkout,
		logger:   logger,
	}
}

// RegisterRoutes registers the reconcile route
func (h *ReconcileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/reconcile", h.Reconcile)
}

type pendingAttempt struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Total          float64         `json:"total"`
	Items          json.RawMessage `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Reconcile handles GET /admin/reconcile: pending checkout attempts, oldest
// first.
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	entries, err := h.checkout.Reconcile(r.Context())
	if err != nil {
		h.logger.Error("Failed to list pending checkout attempts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list pending checkout attempts")
		return
	}

	pending := make([]pendingAttempt, 0, len(entries))
	for _, entry := range entries {
		pending = append(pending, pendingAttempt{
			IdempotencyKey: entry.IdempotencyKey.String(),
			Total:          entry.Total,
			Items:          json.RawMessage(entry.ItemsJSON),
			CreatedAt:      entry.CreatedAt,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"pending": pending})
}

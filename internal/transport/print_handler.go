package transport

import (
	"context"
	"errors"
	"net/http"

	"retailsage/internal/backend"
	"retailsage/internal/middleware"
	"retailsage/internal/receipt"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SaleGetter is the slice of the backend client the print routes need. The
// read is anonymous: the printing app fetches this route without a session
// token.
type SaleGetter interface {
	GetSale(ctx context.Context, id string) (*backend.SaleRecord, error)
}

// PrintHandler serves the print surface: the proxy route the printing app
// fetches, and the URI route terminals call to get the scheme link that
// hands a sale to the printing app.
type PrintHandler struct {
	sales  SaleGetter
	sink   receipt.Sink
	logger *zap.Logger
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(sales SaleGetter, sink receipt.Sink, logger *zap.Logger) *PrintHandler {
	return &PrintHandler{
		sales:  sales,
		sink:   sink,
		logger: logger,
	}
}

// RegisterRoutes registers the print routes
func (h *PrintHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/print", h.Print)
	r.Get("/api/print-uri", h.PrintURI)
}

// Print handles GET /api/print?saleId=<id>. Response shapes match what the
// external printing app expects, including errors.
func (h *PrintHandler) Print(w http.ResponseWriter, r *http.Request) {
	// The printing app fetches from an arbitrary origin.
	w.Header().Set("Access-Control-Allow-Origin", "*")

	record, ok := h.fetchSale(w, r)
	if !ok {
		return
	}

	payload := receipt.BuildPrintPayload(record.Sale, record.Business)

	h.logger.Info("Print payload served",
		zap.String("sale_id", record.Sale.ID),
		zap.Int("entries", len(payload)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, payload)
}

// PrintURI handles GET /api/print-uri?saleId=<id>: it returns the custom
// scheme URI a terminal navigates to so the printing app picks up the sale.
// Navigation fails silently when the app is not installed, so the raw URI
// doubles as the manual copy fallback.
func (h *PrintHandler) PrintURI(w http.ResponseWriter, r *http.Request) {
	record, ok := h.fetchSale(w, r)
	if !ok {
		return
	}

	uri, err := h.sink.PrintURI(record.Sale, record.Business)
	if err != nil {
		h.logger.Error("Failed to build print URI",
			zap.String("sale_id", record.Sale.ID),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build print URI")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"uri": uri})
}

// fetchSale resolves the saleId query parameter to a sale record, writing
// the error response itself when the lookup fails.
func (h *PrintHandler) fetchSale(w http.ResponseWriter, r *http.Request) (*backend.SaleRecord, bool) {
	raw := r.URL.Query().Get("saleId")
	if raw == "" {
		middleware.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "No saleId provided"})
		return nil, false
	}

	saleID := receipt.DigitsOf(raw)
	if saleID == "" {
		middleware.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid saleId format"})
		return nil, false
	}

	record, err := h.sales.GetSale(r.Context(), saleID)
	if err != nil {
		var be *backend.Error
		if errors.Is(err, backend.ErrSaleNotFound) ||
			(errors.As(err, &be) && be.StatusCode == http.StatusNotFound) {
			middleware.RespondWithJSON(w, http.StatusNotFound, map[string]interface{}{"error": "Sale not found"})
			return nil, false
		}

		h.logger.Error("Failed to fetch sale",
			zap.String("sale_id", saleID),
			zap.Error(err),
		)
		middleware.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   true,
			"message": err.Error(),
		})
		return nil, false
	}

	return record, true
}

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"retailsage/internal/ai"
	"retailsage/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Adviser is the slice of the AI advisor the handler needs.
type Adviser interface {
	SuggestProductDetails(ctx context.Context, input ai.SuggestProductDetailsInput) (*ai.SuggestProductDetailsOutput, error)
	AnalyzeRisk(ctx context.Context, input ai.AnalyzeRiskInput) (*ai.AnalyzeRiskOutput, error)
}

// AIHandler serves the two advisory routes. It is only registered when a
// Gemini API key is configured.
type AIHandler struct {
	advisor Adviser
	logger  *zap.Logger
}

func NewAIHandler(advisor Adviser, logger *zap.Logger) *AIHandler {
	return &AIHandler{advisor: advisor, logger: logger}
}

// RegisterRoutes registers the AI advisory routes
func (h *AIHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/ai/suggest-product-details", h.SuggestProductDetails)
	r.Post("/api/ai/analyze-risk", h.AnalyzeRisk)
}

type suggestProductDetailsRequest struct {
	ProductName string `json:"product_name"`
}

// SuggestProductDetails handles POST /api/ai/suggest-product-details
func (h *AIHandler) SuggestProductDetails(w http.ResponseWriter, r *http.Request) {
	var req suggestProductDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.advisor.SuggestProductDetails(r.Context(), ai.SuggestProductDetailsInput{
		ProductName: req.ProductName,
	})
	if err != nil {
		h.respondAIError(w, "suggest product details", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, out)
}

type analyzeRiskRequest struct {
	SalesData    string `json:"sales_data"`
	StockLevels  string `json:"stock_levels"`
	SpoilageData string `json:"spoilage_data"`
}

// AnalyzeRisk handles POST /api/ai/analyze-risk
func (h *AIHandler) AnalyzeRisk(w http.ResponseWriter, r *http.Request) {
	var req analyzeRiskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.advisor.AnalyzeRisk(r.Context(), ai.AnalyzeRiskInput{
		SalesData:    req.SalesData,
		StockLevels:  req.StockLevels,
		SpoilageData: req.SpoilageData,
	})
	if err != nil {
		h.respondAIError(w, "analyze risk", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, out)
}

func (h *AIHandler) respondAIError(w http.ResponseWriter, op string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("AI flow failed", zap.String("flow", op), zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, "advisory request failed")
}

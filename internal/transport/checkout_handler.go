package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"retailsage/internal/backend"
	"retailsage/internal/cart"
	"retailsage/internal/checkout"
	"retailsage/internal/domain"
	"retailsage/internal/middleware"
	"retailsage/internal/receipt"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ProductSource resolves product ids against the cached catalog.
type ProductSource interface {
	Get(id int) (domain.Product, bool)
}

// Committer runs the sale commit workflow.
type Committer interface {
	Commit(ctx context.Context, c *cart.Cart) (*checkout.Receipt, error)
}

// ProfileSource reads the cached merchant profile for receipt building.
type ProfileSource interface {
	BusinessProfile(ctx context.Context) (domain.BusinessProfile, error)
}

// CheckoutHandler serves the terminal-facing checkout route: it builds a
// cart from the cached catalog, commits the sale, and hands back the receipt
// with the print URI.
type CheckoutHandler struct {
	products ProductSource
	checkout Committer
	profiles ProfileSource
	sink     receipt.Sink
	taxRate  float64
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCheckoutHandler(products ProductSource, committer Committer, profiles ProfileSource, sink receipt.Sink, taxRate float64, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		products: products,
		checkout: committer,
		profiles: profiles,
		sink:     sink,
		taxRate:  taxRate,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the checkout route
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/checkout", h.Checkout)
}

type checkoutItem struct {
	ProductID int `json:"product_id" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,min=1"`
}

type checkoutRequest struct {
	Items []checkoutItem `json:"items" validate:"required,min=1,dive"`
}

type checkoutResponse struct {
	SaleID   string            `json:"sale_id"`
	Items    []domain.SaleItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Tax      float64           `json:"tax"`
	Total    float64           `json:"total"`
	PrintURI string            `json:"print_uri,omitempty"`
}

// Checkout handles POST /api/checkout. Quantities beyond the cached stock
// are clamped, not rejected; the receipt reflects what was actually sold.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "items are required, each with a product_id and a quantity of at least 1")
		return
	}

	c := cart.New(h.taxRate)
	for _, item := range req.Items {
		p, ok := h.products.Get(item.ProductID)
		if !ok {
			middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "unknown product", map[string]interface{}{
				"product_id": item.ProductID,
			})
			return
		}
		c.AddLine(p)
		c.SetLineQuantity(p.ID, item.Quantity)
	}

	rcpt, err := h.checkout.Commit(r.Context(), c)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			// Every requested product was out of stock.
			middleware.RespondWithError(w, http.StatusBadRequest, "no sellable items in request")
			return
		}
		status := http.StatusInternalServerError
		if _, ok := backend.KindOf(err); ok {
			status = http.StatusBadGateway
		}
		h.logger.Error("Checkout failed", zap.Error(err))
		middleware.RespondWithError(w, status, err.Error())
		return
	}

	resp := checkoutResponse{
		SaleID:   rcpt.SaleID,
		Items:    rcpt.Items,
		Subtotal: rcpt.Subtotal,
		Tax:      rcpt.Tax,
		Total:    rcpt.Total,
	}

	profile, err := h.profiles.BusinessProfile(r.Context())
	if err != nil {
		h.logger.Warn("Failed to read business profile for receipt", zap.Error(err))
		profile = domain.BusinessProfile{}
	}
	uri, err := h.sink.PrintURI(domain.Sale{
		ID:       rcpt.SaleID,
		Items:    rcpt.Items,
		Subtotal: rcpt.Subtotal,
		Tax:      rcpt.Tax,
		Total:    rcpt.Total,
		Date:     rcpt.Date,
	}, profile)
	if err != nil {
		// The sale is committed; a missing print URI is not a checkout
		// failure.
		h.logger.Warn("Failed to build print URI", zap.String("sale_id", rcpt.SaleID), zap.Error(err))
	} else {
		resp.PrintURI = uri
	}

	middleware.RespondWithJSON(w, http.StatusCreated, resp)
}

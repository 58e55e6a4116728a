package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"retailsage/internal/backend"
	"retailsage/internal/cart"
	"retailsage/internal/domain"
	"retailsage/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
)

// SaleCreator is the slice of the backend client Commit needs.
type SaleCreator interface {
	CreateSale(ctx context.Context, total float64, items []backend.SaleLine, idempotencyKey string) (string, error)
}

// CatalogRefresher re-fetches authoritative stock counts after a commit.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// Receipt is the descriptor handed to the print bridge after a successful
// commit.
type Receipt struct {
	SaleID   string            `json:"sale_id"`
	Items    []domain.SaleItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Tax      float64           `json:"tax"`
	Total    float64           `json:"total"`
	Date     time.Time         `json:"date"`
}

// Service defines the sale commit workflow.
type Service interface {
	// Commit persists the cart as a sale. On success the cart is cleared
	// and the catalog refreshed; on any failure the cart is left untouched
	// and no cached stock changes. Never retried automatically.
	Commit(ctx context.Context, c *cart.Cart) (*Receipt, error)
	// Reconcile returns checkout attempts that never got a confirmation,
	// oldest first. These are sales that may or may not exist on the
	// backend and need operator review against their idempotency keys.
	Reconcile(ctx context.Context) ([]*repository.JournalEntry, error)
}

type service struct {
	creator SaleCreator
	catalog CatalogRefresher
	journal repository.SaleJournalRepository
	logger  *zap.Logger
}

// NewService creates the checkout service.
func NewService(creator SaleCreator, catalog CatalogRefresher, journal repository.SaleJournalRepository, logger *zap.Logger) Service {
	return &service{
		creator: creator,
		catalog: catalog,
		journal: journal,
		logger:  logger,
	}
}

func (s *service) Commit(ctx context.Context, c *cart.Cart) (*Receipt, error) {
	if c.Len() == 0 {
		// No network call for an empty cart.
		return nil, ErrEmptyCart
	}

	lines := c.Lines()
	items := make([]backend.SaleLine, 0, len(lines))
	receiptItems := make([]domain.SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, backend.SaleLine{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
		receiptItems = append(receiptItems, domain.SaleItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}

	subtotal := c.Subtotal()
	tax := c.Tax()
	total := c.Total()
	key := uuid.New()

	if err := s.journalAttempt(ctx, key, total, receiptItems); err != nil {
		// The journal is a safety net, not a gate: a journaling failure
		// must not block taking payment.
		s.logger.Warn("Failed to journal checkout attempt", zap.Error(err))
	}

	saleID, err := s.creator.CreateSale(ctx, total, items, key.String())
	if err != nil {
		s.resolveAttempt(ctx, key, "", err)
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	s.resolveAttempt(ctx, key, saleID, nil)

	c.Clear()
	if err := s.catalog.Refresh(ctx); err != nil {
		// The sale is committed; a failed refresh only leaves stale stock
		// counts until the next load.
		s.logger.Warn("Catalog refresh after commit failed", zap.Error(err))
	}

	s.logger.Info("Sale committed",
		zap.String("sale_id", saleID),
		zap.String("idempotency_key", key.String()),
		zap.Float64("total", total),
	)

	return &Receipt{
		SaleID:   saleID,
		Items:    receiptItems,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
		Date:     time.Now(),
	}, nil
}

func (s *service) Reconcile(ctx context.Context) ([]*repository.JournalEntry, error) {
	if s.journal == nil {
		return nil, nil
	}
	entries, err := s.journal.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending attempts: %w", err)
	}
	return entries, nil
}

func (s *service) journalAttempt(ctx context.Context, key uuid.UUID, total float64, items []domain.SaleItem) error {
	if s.journal == nil {
		return nil
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode journal items: %w", err)
	}
	now := time.Now()
	return s.journal.Create(ctx, &repository.JournalEntry{
		ID:             uuid.New(),
		IdempotencyKey: key,
		Status:         repository.StatusPending,
		Total:          total,
		ItemsJSON:      itemsJSON,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (s *service) resolveAttempt(ctx context.Context, key uuid.UUID, saleID string, commitErr error) {
	if s.journal == nil {
		return
	}
	var err error
	switch {
	case commitErr == nil:
		err = s.journal.MarkCommitted(ctx, key, saleID)
	case isDefinitiveRejection(commitErr):
		err = s.journal.MarkFailed(ctx, key, commitErr.Error())
	default:
		// Network and malformed-response outcomes are indeterminate: the
		// sale may have committed with the confirmation lost on the wire.
		// The entry stays pending so Reconcile surfaces it.
		s.logger.Warn("Checkout outcome indeterminate, journal entry left pending",
			zap.String("idempotency_key", key.String()),
			zap.Error(commitErr),
		)
		return
	}
	if err != nil && !errors.Is(err, repository.ErrJournalEntryNotFound) {
		s.logger.Warn("Failed to resolve journal entry",
			zap.String("idempotency_key", key.String()),
			zap.Error(err),
		)
	}
}

// isDefinitiveRejection reports whether the backend definitively refused the
// sale, meaning it cannot have been committed.
func isDefinitiveRejection(err error) bool {
	kind, ok := backend.KindOf(err)
	if !ok {
		return false
	}
	return kind == backend.ErrKindBackendRejected || kind == backend.ErrKindAuth
}

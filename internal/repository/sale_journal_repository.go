package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrJournalEntryNotFound = errors.New("journal entry not found")
	ErrDuplicateAttempt     = errors.New("checkout attempt with this idempotency key already exists")
)

// JournalStatus is the lifecycle state of a checkout attempt.
type JournalStatus string

const (
	StatusPending   JournalStatus = "pending"
	StatusCommitted JournalStatus = "committed"
	StatusFailed    JournalStatus = "failed"
)

// JournalEntry records one checkout attempt. Entries are written before the
// network call and resolved after it, so a confirmation lost on the wire
// leaves a pending row to reconcile instead of a silent double-charge.
type JournalEntry struct {
	ID             uuid.UUID
	IdempotencyKey uuid.UUID
	Status         JournalStatus
	BackendSaleID  string
	Total          float64
	ItemsJSON      []byte
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaleJournalRepository defines the interface for checkout-attempt persistence.
type SaleJournalRepository interface {
	Create(ctx context.Context, entry *JournalEntry) error
	MarkCommitted(ctx context.Context, idempotencyKey uuid.UUID, backendSaleID string) error
	MarkFailed(ctx context.Context, idempotencyKey uuid.UUID, reason string) error
	FindByIdempotencyKey(ctx context.Context, idempotencyKey uuid.UUID) (*JournalEntry, error)
	ListPending(ctx context.Context) ([]*JournalEntry, error)
}

type saleJournalRepository struct {
	db *sql.DB
}

// NewSaleJournalRepository creates a new instance of SaleJournalRepository
func NewSaleJournalRepository(db *sql.DB) SaleJournalRepository {
	return &saleJournalRepository{db: db}
}

// Create inserts a pending checkout attempt using parameterized queries
func (r *saleJournalRepository) Create(ctx context.Context, entry *JournalEntry) error {
	query := `
		INSERT INTO sale_journal (id, idempotency_key, status, backend_sale_id, total, items_json, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.IdempotencyKey,
		entry.Status,
		entry.BackendSaleID,
		entry.Total,
		entry.ItemsJSON,
		entry.FailureReason,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcodeUniqueViolation {
			return ErrDuplicateAttempt
		}
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	return nil
}

// pgerrcodeUniqueViolation is the postgres error code for unique-constraint
// violations.
const pgerrcodeUniqueViolation = "23505"

// MarkCommitted resolves a pending attempt with the backend-assigned sale id
func (r *saleJournalRepository) MarkCommitted(ctx context.Context, idempotencyKey uuid.UUID, backendSaleID string) error {
	query := `
		UPDATE sale_journal
		SET status = $2, backend_sale_id = $3, updated_at = $4
		WHERE idempotency_key = $1
	`

	result, err := r.db.ExecContext(ctx, query, idempotencyKey, StatusCommitted, backendSaleID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark journal entry committed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrJournalEntryNotFound
	}

	return nil
}

// MarkFailed resolves a pending attempt with the failure reason
func (r *saleJournalRepository) MarkFailed(ctx context.Context, idempotencyKey uuid.UUID, reason string) error {
	query := `
		UPDATE sale_journal
		SET status = $2, failure_reason = $3, updated_at = $4
		WHERE idempotency_key = $1
	`

	result, err := r.db.ExecContext(ctx, query, idempotencyKey, StatusFailed, reason, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark journal entry failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrJournalEntryNotFound
	}

	return nil
}

// FindByIdempotencyKey retrieves an attempt by its idempotency key
func (r *saleJournalRepository) FindByIdempotencyKey(ctx context.Context, idempotencyKey uuid.UUID) (*JournalEntry, error) {
	query := `
		SELECT id, idempotency_key, status, backend_sale_id, total, items_json, failure_reason, created_at, updated_at
		FROM sale_journal
		WHERE idempotency_key = $1
	`

	entry := &JournalEntry{}
	err := r.db.QueryRowContext(ctx, query, idempotencyKey).Scan(
		&entry.ID,
		&entry.IdempotencyKey,
		&entry.Status,
		&entry.BackendSaleID,
		&entry.Total,
		&entry.ItemsJSON,
		&entry.FailureReason,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrJournalEntryNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry: %w", err)
	}

	return entry, nil
}

// ListPending retrieves attempts that were never resolved, oldest first
func (r *saleJournalRepository) ListPending(ctx context.Context) ([]*JournalEntry, error) {
	query := `
		SELECT id, idempotency_key, status, backend_sale_id, total, items_json, failure_reason, created_at, updated_at
		FROM sale_journal
		WHERE status = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending journal entries: %w", err)
	}
	defer rows.Close()

	entries := []*JournalEntry{}
	for rows.Next() {
		entry := &JournalEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.IdempotencyKey,
			&entry.Status,
			&entry.BackendSaleID,
			&entry.Total,
			&entry.ItemsJSON,
			&entry.FailureReason,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}

	return entries, nil
}

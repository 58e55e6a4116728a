package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS sale_journal (
			id UUID PRIMARY KEY,
			idempotency_key UUID UNIQUE NOT NULL,
			status VARCHAR(20) NOT NULL,
			backend_sale_id VARCHAR(64) NOT NULL DEFAULT '',
			total NUMERIC(12,2) NOT NULL,
			items_json JSONB NOT NULL,
			failure_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func newPendingEntry(total float64) *JournalEntry {
	now := time.Now()
	return &JournalEntry{
		ID:             uuid.New(),
		IdempotencyKey: uuid.New(),
		Status:         StatusPending,
		Total:          total,
		ItemsJSON:      []byte(`[{"product_id":5,"quantity":3,"price":2.75}]`),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreateAndFindByIdempotencyKey(t *testing.T) {
	repo := NewSaleJournalRepository(testDB)
	ctx := context.Background()

	entry := newPendingEntry(8.25)
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.FindByIdempotencyKey(ctx, entry.IdempotencyKey)
	if err != nil {
		t.Fatalf("FindByIdempotencyKey: %v", err)
	}
	if found.ID != entry.ID {
		t.Errorf("id = %v, want %v", found.ID, entry.ID)
	}
	if found.Status != StatusPending {
		t.Errorf("status = %v, want pending", found.Status)
	}
	if found.Total != 8.25 {
		t.Errorf("total = %v, want 8.25", found.Total)
	}
}

func TestFindByIdempotencyKeyNotFound(t *testing.T) {
	repo := NewSaleJournalRepository(testDB)

	_, err := repo.FindByIdempotencyKey(context.Background(), uuid.New())
	if !errors.Is(err, ErrJournalEntryNotFound) {
		t.Errorf("err = %v, want ErrJournalEntryNotFound", err)
	}
}

func TestCreateRejectsDuplicateIdempotencyKey(t *testing.T) {
	repo := NewSaleJournalRepository(testDB)
	ctx := context.Background()

	entry := newPendingEntry(5.00)
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := newPendingEntry(5.00)
	dup.IdempotencyKey = entry.IdempotencyKey
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicateAttempt) {
		t.Errorf("err = %v, want ErrDuplicateAttempt", err)
	}
}

func TestMarkCommitted(t *testing.T) {
	repo := NewSaleJournalRepository(testDB)
	ctx := context.Background()

	entry := newPendingEntry(8.25)
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.MarkCommitted(ctx, entry.IdempotencyKey, "101"); err != nil {
		t.Fatalf("MarkCommitted: %v", err)
	}

	found, err := repo.FindByIdempotencyKey(ctx, entry.IdempotencyKey)
	if err != nil {
		t.Fatalf("FindByIdempotencyKey: %v", err)
	}
	if found.Status != StatusCommitted {
		t.Errorf("status = %v, want committed", found.Status)
	}
	if found.BackendSaleID != "101" {
		t.Errorf("backend sale id = %q, want 101", found.BackendSaleID)
	}

	if err := repo.MarkCommitted(ctx, uuid.New(), "102"); !errors.Is(err, ErrJournalEntryNotFound) {
		t.Errorf("MarkCommitted on unknown key: err = %v, want ErrJournalEntryNotFound", err)
	}
}

func TestMarkFailed(t *testing.T) {
	repo := NewSaleJournalRepository(testDB)
	ctx := context.Background()

	entry := newPendingEntry(3.50)
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.MarkFailed(ctx, entry.IdempotencyKey, "backend returned status 500"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	found, err := repo.FindByIdempotencyKey(ctx, entry.IdempotencyKey)
	if err != nil {
		t.Fatalf("FindByIdempotencyKey: %v", err)
	}
	if found.Status != StatusFailed {
		t.Errorf("status = %v, want failed", found.Status)
	}
	if found.FailureReason != "backend returned status 500" {
		t.Errorf("failure reason = %q", found.FailureReason)
	}
}

func TestListPendingReturnsOldestFirst(t *testing.T) {
	repo := NewSaleJournalRepository(testDB)
	ctx := context.Background()

	if _, err := testDB.Exec("DELETE FROM sale_journal"); err != nil {
		t.Fatalf("reset table: %v", err)
	}

	older := newPendingEntry(1.00)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newPendingEntry(2.00)
	resolved := newPendingEntry(3.00)

	for _, e := range []*JournalEntry{newer, older, resolved} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.MarkCommitted(ctx, resolved.IdempotencyKey, "7"); err != nil {
		t.Fatalf("MarkCommitted: %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending entries, want 2", len(pending))
	}
	if pending[0].IdempotencyKey != older.IdempotencyKey {
		t.Errorf("first pending = %v, want oldest entry", pending[0].IdempotencyKey)
	}
	if pending[1].IdempotencyKey != newer.IdempotencyKey {
		t.Errorf("second pending = %v, want newer entry", pending[1].IdempotencyKey)
	}
}

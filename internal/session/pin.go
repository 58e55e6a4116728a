package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for PIN hashing
const BcryptCost = 10

var (
	ErrNoPIN      = errors.New("no PIN configured")
	ErrInvalidPIN = errors.New("invalid PIN")
)

// PinService gates the POS screen behind a short PIN. Only the bcrypt hash
// is ever stored, never the raw PIN.
type PinService struct {
	store Store
}

func NewPinService(store Store) *PinService {
	return &PinService{store: store}
}

// SetPIN hashes and stores the PIN.
func (p *PinService) SetPIN(ctx context.Context, pin string) error {
	if pin == "" {
		return fmt.Errorf("PIN must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	return p.store.Set(ctx, keyUserPIN, string(hash))
}

// VerifyPIN checks a PIN attempt against the stored hash.
func (p *PinService) VerifyPIN(ctx context.Context, pin string) error {
	hash, err := p.store.Get(ctx, keyUserPIN)
	if errors.Is(err, ErrKeyNotFound) {
		return ErrNoPIN
	}
	if err != nil {
		return fmt.Errorf("failed to read PIN hash: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrInvalidPIN
	}
	return nil
}

// ClearPIN removes the stored PIN.
func (p *PinService) ClearPIN(ctx context.Context) error {
	return p.store.Delete(ctx, keyUserPIN)
}

// HasPIN reports whether a PIN is configured.
func (p *PinService) HasPIN(ctx context.Context) (bool, error) {
	_, err := p.store.Get(ctx, keyUserPIN)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

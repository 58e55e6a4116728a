package session

import (
	"context"
	"errors"
	"fmt"

	"retailsage/internal/domain"
)

// Storage keys. These mirror the browser app's storage layout so a
// migration maps one to one.
const (
	keyUserToken       = "user-token"
	keyShopType        = "shopType"
	keyBusinessName    = "businessName"
	keyBusinessAddress = "businessAddress"
	keyRCNumber        = "rcNumber"
	keyPhoneNumber     = "phoneNumber"
	keyUserPIN         = "user-pin"
)

var (
	ErrNotLoggedIn = errors.New("no active session")
)

// Service provides typed access to session and settings state. It is also
// the checkout workflow's bearer-token source.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Token returns the backend session token. Satisfies backend.TokenSource.
func (s *Service) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, keyUserToken)
	if errors.Is(err, ErrKeyNotFound) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

// SetToken stores the backend session token after login or signup.
func (s *Service) SetToken(ctx context.Context, token string) error {
	return s.store.Set(ctx, keyUserToken, token)
}

// ClearToken ends the session.
func (s *Service) ClearToken(ctx context.Context) error {
	return s.store.Delete(ctx, keyUserToken)
}

// BusinessProfile reads the cached merchant details. Every field is
// optional; absent fields come back empty.
func (s *Service) BusinessProfile(ctx context.Context) (domain.BusinessProfile, error) {
	var profile domain.BusinessProfile
	fields := []struct {
		key string
		dst *string
	}{
		{keyShopType, &profile.ShopType},
		{keyBusinessName, &profile.BusinessName},
		{keyBusinessAddress, &profile.BusinessAddress},
		{keyRCNumber, &profile.RCNumber},
		{keyPhoneNumber, &profile.PhoneNumber},
	}
	for _, f := range fields {
		val, err := s.store.Get(ctx, f.key)
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return domain.BusinessProfile{}, fmt.Errorf("failed to read %s: %w", f.key, err)
		}
		*f.dst = val
	}
	return profile, nil
}

// SetBusinessProfile caches the merchant details, typically from a login
// response. Empty fields clear the stored value.
func (s *Service) SetBusinessProfile(ctx context.Context, profile domain.BusinessProfile) error {
	fields := []struct {
		key string
		val string
	}{
		{keyShopType, profile.ShopType},
		{keyBusinessName, profile.BusinessName},
		{keyBusinessAddress, profile.BusinessAddress},
		{keyRCNumber, profile.RCNumber},
		{keyPhoneNumber, profile.PhoneNumber},
	}
	for _, f := range fields {
		var err error
		if f.val == "" {
			err = s.store.Delete(ctx, f.key)
		} else {
			err = s.store.Set(ctx, f.key, f.val)
		}
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", f.key, err)
		}
	}
	return nil
}

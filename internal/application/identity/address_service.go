package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/infrastructure/geo"
)

// AddressService manages a user's saved addresses
type AddressService struct {
	addressRepo identity.AddressRepository
	locator     geo.Locator
	logger      *zap.Logger
}

// NewAddressService creates a new address service. The locator may be
// nil when geolocation prefill is disabled.
func NewAddressService(addressRepo identity.AddressRepository, locator geo.Locator, logger *zap.Logger) *AddressService {
	return &AddressService{
		addressRepo: addressRepo,
		locator:     locator,
		logger:      logger,
	}
}

// List returns the user's saved addresses
func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]*AddressResponse, error) {
	addresses, err := s.addressRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]*AddressResponse, len(addresses))
	for i, a := range addresses {
		responses[i] = toAddressResponse(a)
	}
	return responses, nil
}

// Create saves a new address. The user's first address becomes the
// default automatically.
func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	address, err := identity.NewAddress(userID, req.Label, req.Line1, req.City, req.Country)
	if err != nil {
		return nil, err
	}
	address.Line2 = req.Line2
	address.State = req.State
	address.PostalCode = req.PostalCode

	if _, derr := s.addressRepo.FindDefault(ctx, userID); errors.Is(derr, shared.ErrNotFound) {
		address.IsDefault = true
	} else if derr != nil {
		return nil, derr
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}
	return toAddressResponse(address), nil
}

// Update modifies one of the user's addresses
func (s *AddressService) Update(ctx context.Context, userID, addressID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if err := address.Update(req.Label, req.Line1, req.Line2, req.City, req.State, req.Country, req.PostalCode); err != nil {
		return nil, err
	}
	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, err
	}
	return toAddressResponse(address), nil
}

// Delete removes one of the user's addresses
func (s *AddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	return s.addressRepo.Delete(ctx, address.ID)
}

// SetDefault marks one of the user's addresses as the default
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.SetDefault(ctx, userID, addressID)
}

// Prefill resolves the client IP to an approximate location for the
// address form. Lookup failures yield an empty prefill, never an error.
func (s *AddressService) Prefill(ctx context.Context, clientIP string) *AddressPrefillResponse {
	if s.locator == nil || clientIP == "" {
		return &AddressPrefillResponse{}
	}
	loc, err := s.locator.Locate(ctx, clientIP)
	if err != nil {
		s.logger.Debug("address prefill lookup failed", zap.String("ip", clientIP), zap.Error(err))
		return &AddressPrefillResponse{}
	}
	return &AddressPrefillResponse{
		City:       loc.City,
		State:      loc.Region,
		Country:    loc.Country,
		PostalCode: loc.PostalCode,
	}
}

func (s *AddressService) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*identity.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, shared.ErrForbidden
	}
	return address, nil
}

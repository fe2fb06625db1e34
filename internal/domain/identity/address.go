package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// Address is a saved shipping address. One address per user may be the
// default; checkout falls back to it when no address is given.
type Address struct {
	shared.BaseEntity
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Label      string    `gorm:"type:varchar(50)"`
	Line1      string    `gorm:"type:varchar(200);not null"`
	Line2      string    `gorm:"type:varchar(200)"`
	City       string    `gorm:"type:varchar(100);not null"`
	State      string    `gorm:"type:varchar(100)"`
	Country    string    `gorm:"type:varchar(100);not null"`
	PostalCode string    `gorm:"type:varchar(20)"`
	IsDefault  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// NewAddress creates a saved address for a user
func NewAddress(userID uuid.UUID, label, line1, city, country string) (*Address, error) {
	if strings.TrimSpace(line1) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address line cannot be empty")
	}
	if strings.TrimSpace(city) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	if strings.TrimSpace(country) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Country cannot be empty")
	}

	return &Address{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Label:      label,
		Line1:      line1,
		City:       city,
		Country:    country,
	}, nil
}

// Update updates the address fields
func (a *Address) Update(label, line1, line2, city, state, country, postalCode string) error {
	if strings.TrimSpace(line1) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line cannot be empty")
	}
	if strings.TrimSpace(city) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	if strings.TrimSpace(country) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Country cannot be empty")
	}

	a.Label = label
	a.Line1 = line1
	a.Line2 = line2
	a.City = city
	a.State = state
	a.Country = country
	a.PostalCode = postalCode
	a.UpdatedAt = time.Now()
	return nil
}

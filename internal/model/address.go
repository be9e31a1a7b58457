package model

import (
	"time"

	"github.com/google/uuid"
)

// Address is a shipping address owned by exactly one user.
type Address struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Address   string    `json:"address" db:"address"`
	City      string    `json:"city" db:"city"`
	Pincode   string    `json:"pincode" db:"pincode"`
	Phone     string    `json:"phone" db:"phone"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Snapshot copies the address by value for embedding into an order.
func (a *Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		AddressID: a.ID,
		Address:   a.Address,
		City:      a.City,
		Pincode:   a.Pincode,
		Phone:     a.Phone,
		Notes:     a.Notes,
	}
}

// AddressSnapshot is the address as it was at checkout time.
type AddressSnapshot struct {
	AddressID uuid.UUID `json:"addressId"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Pincode   string    `json:"pincode"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
}

// AddressRequest is the payload for creating or editing an address.
type AddressRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

// MaxAddressesPerUser caps the address book size.
const MaxAddressesPerUser = 3

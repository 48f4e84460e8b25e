package model

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer groups touched by checkout.
const (
	GroupNotYetOrdered = "notyetordered"
	GroupCustomer      = "customer"
)

type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	FullName  string     `json:"full_name" db:"full_name"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	Billing   Address    `json:"billing"`
	Groups    []string   `json:"groups"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Address is a billing or delivery address.
type Address struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Company   string    `json:"company,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Street    string    `json:"street"`
	StreetNo  string    `json:"street_no"`
	Zip       string    `json:"zip"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Encoded is a stable fingerprint of the address fields. The order page
// embeds it so a change between render and submit can be detected.
func (a Address) Encoded() string {
	raw := strings.Join([]string{
		a.Company, a.FirstName, a.LastName, a.Street, a.StreetNo, a.Zip, a.City, a.Country,
	}, "|")
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// DeliveryAddressHash fingerprints the address an order ships to: the
// billing address plus the selected delivery address, if any.
func DeliveryAddressHash(billing Address, delivery *Address) string {
	hash := billing.Encoded()
	if delivery != nil {
		hash += delivery.Encoded()
	}
	return hash
}

func (u *User) InGroup(group string) bool {
	for _, g := range u.Groups {
		if g == group {
			return true
		}
	}
	return false
}

package models

import "time"

type AddressType string

const (
	AddressShipping AddressType = "shipping"
	AddressBilling  AddressType = "billing"
)

// Address belongs to a user. At most one default per (user, address_type);
// the create/update paths clear the previous default inside the same
// transaction rather than relying on a uniqueness constraint.
type Address struct {
	ID             uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint        `gorm:"index;not null" json:"user_id"`
	AddressType    AddressType `gorm:"type:VARCHAR(10);default:'shipping'" json:"address_type"`
	RecipientName  string      `gorm:"not null" json:"recipient_name"`
	Phone          string      `gorm:"not null" json:"phone"`
	StreetAddress  string      `gorm:"not null" json:"street_address"`
	District       string      `json:"district"`
	City           string      `json:"city"`
	Province       string      `json:"province"`
	PostalCode     string      `json:"postal_code"`
	AdditionalInfo string      `json:"additional_info,omitempty"`
	IsDefault      bool        `json:"is_default"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Vendor is a registered merchant. Only verified and active vendors may
// receive VendorPay orders.
type Vendor struct {
	Address common.Address

	// Identifier is the lowercased human-readable name, e.g. "coffee.tapngo.eth".
	Identifier string

	Verified  bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Eligible reports whether the vendor can receive VendorPay orders.
func (v *Vendor) Eligible() bool {
	return v.Verified && v.Active
}

package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Receipt is the immutable record of a completed settlement.
// It is written once, in the same transaction that completes its Order.
type Receipt struct {
	OrderID             common.Hash
	RecipientIdentifier string
	Sender              common.Address
	Recipient           common.Address
	AmountFiat          uint64
	AmountToken         uint64
	FXRate              uint64

	// PlatformFee is the part of AmountToken credited to FeeRecipient.
	PlatformFee uint64
	// RecipientAmount is AmountToken minus PlatformFee.
	RecipientAmount uint64
	FeeRecipient    common.Address

	PaymentType     PaymentType
	Status          OrderStatus
	Metadata        string
	IsVendorPayment bool
	Timestamp       time.Time
}

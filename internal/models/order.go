package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// OrderStatus is the lifecycle state of an Order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
	OrderExpired   OrderStatus = "expired"
)

// PaymentType distinguishes peer-to-peer payments from payments to vendors.
type PaymentType string

const (
	PaymentP2P    PaymentType = "p2p"
	PaymentVendor PaymentType = "vendor"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	return t == PaymentP2P || t == PaymentVendor
}

// Order represents a payment intent created by a payer.
// AmountToken and FXRate are fixed when the order is created and are never
// recomputed, even if the oracle rate moves before completion.
type Order struct {
	// ID is the Keccak-256 hash of payer, recipient, a random nonce and the creation time.
	ID common.Hash

	// Payer is the address that will be debited on completion.
	Payer common.Address

	// Recipient is the resolved receiving address.
	Recipient common.Address

	// RecipientIdentifier is the identifier the payer supplied (address or vendor name).
	RecipientIdentifier string

	// AmountFiat is the requested fiat amount (6 decimals).
	AmountFiat uint64

	// AmountToken is the token amount owed, floor(AmountFiat / FXRate) at creation.
	AmountToken uint64

	// FXRate is the fiat-per-token rate (8 decimals) used to compute AmountToken.
	FXRate uint64

	// RateSource names the oracle source that supplied FXRate.
	RateSource string

	PaymentType PaymentType
	Metadata    string
	Status      OrderStatus

	CreatedAt time.Time
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// ExpiredAt reports whether a pending order is past its completion window at now.
func (o *Order) ExpiredAt(now time.Time) bool {
	return o.Status == OrderPending && now.After(o.ExpiresAt)
}

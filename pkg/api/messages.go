package api

import "time"

// Order is the wire form of a payment order.
type Order struct {
	OrderID             string    `json:"order_id"`
	Payer               string    `json:"payer"`
	Recipient           string    `json:"recipient"`
	RecipientIdentifier string    `json:"recipient_identifier"`
	AmountFiat          uint64    `json:"amount_fiat,string"`
	AmountToken         uint64    `json:"amount_token,string"`
	FXRate              string    `json:"fx_rate"`
	RateSource          string    `json:"rate_source,omitempty"`
	PaymentType         string    `json:"payment_type"`
	Metadata            string    `json:"metadata,omitempty"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	ExpiresAt           time.Time `json:"expires_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Receipt is the wire form of a settlement receipt.
type Receipt struct {
	OrderID             string    `json:"order_id"`
	RecipientIdentifier string    `json:"recipient_identifier"`
	Sender              string    `json:"sender"`
	Recipient           string    `json:"recipient"`
	AmountFiat          uint64    `json:"amount_fiat,string"`
	AmountToken         uint64    `json:"amount_token,string"`
	FXRate              string    `json:"fx_rate"`
	PlatformFee         uint64    `json:"platform_fee,string"`
	RecipientAmount     uint64    `json:"recipient_amount,string"`
	FeeRecipient        string    `json:"fee_recipient"`
	PaymentType         string    `json:"payment_type"`
	Status              string    `json:"status"`
	Metadata            string    `json:"metadata,omitempty"`
	IsVendorPayment     bool      `json:"is_vendor_payment"`
	Timestamp           time.Time `json:"timestamp"`
}

// Vendor is the wire form of a directory entry.
type Vendor struct {
	Address    string    `json:"address"`
	Identifier string    `json:"identifier"`
	Verified   bool      `json:"verified"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PaymentService messages.

type CreateOrderRequest struct {
	Recipient   string `json:"recipient"`
	AmountFiat  uint64 `json:"amount_fiat,string"`
	PaymentType string `json:"payment_type"`
	Metadata    string `json:"metadata,omitempty"`
}

type CreateOrderResponse struct {
	Order Order `json:"order"`
}

type CompletePaymentRequest struct {
	OrderID string `json:"order_id"`
}

type CompletePaymentResponse struct {
	Receipt Receipt `json:"receipt"`
}

type CancelOrderRequest struct {
	OrderID string `json:"order_id"`
}

type CancelOrderResponse struct {
	Order Order `json:"order"`
}

type GetOrderRequest struct {
	OrderID string `json:"order_id"`
}

type GetOrderResponse struct {
	Order Order `json:"order"`
}

type GetReceiptRequest struct {
	OrderID string `json:"order_id"`
}

type GetReceiptResponse struct {
	Receipt Receipt `json:"receipt"`
}

type ListReceiptsRequest struct {
	Address string `json:"address"`
	Offset  int    `json:"offset,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

type ListReceiptsResponse struct {
	Receipts []Receipt `json:"receipts"`
	// NextOffset is the offset of the following page, or 0 when this page was the last.
	NextOffset int `json:"next_offset,omitempty"`
}

type CalculateTokenAmountRequest struct {
	AmountFiat uint64 `json:"amount_fiat,string"`
}

type CalculateTokenAmountResponse struct {
	AmountFiat    uint64    `json:"amount_fiat,string"`
	AmountToken   uint64    `json:"amount_token,string"`
	Rate          string    `json:"rate"`
	RateSource    string    `json:"rate_source"`
	RateTimestamp time.Time `json:"rate_timestamp"`
}

// TokenService messages.

type GetBalanceRequest struct {
	Address string `json:"address"`
}

type GetBalanceResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance,string"`
}

type GetSupplyRequest struct{}

type GetSupplyResponse struct {
	TotalSupply uint64 `json:"total_supply,string"`
	MaxSupply   uint64 `json:"max_supply,string"`
	Decimals    int    `json:"decimals"`
	Paused      bool   `json:"paused"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount,string"`
}

type TransferResponse struct {
	Balance uint64 `json:"balance,string"`
}

type ClaimFaucetRequest struct{}

type ClaimFaucetResponse struct {
	Amount      uint64    `json:"amount,string"`
	Balance     uint64    `json:"balance,string"`
	NextClaimAt time.Time `json:"next_claim_at"`
}

type CanClaimFaucetRequest struct {
	Address string `json:"address"`
}

type CanClaimFaucetResponse struct {
	CanClaim         bool  `json:"can_claim"`
	RemainingSeconds int64 `json:"remaining_seconds"`
}

type MintRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount,string"`
}

type MintResponse struct {
	TotalSupply uint64 `json:"total_supply,string"`
}

type BurnRequest struct {
	From   string `json:"from"`
	Amount uint64 `json:"amount,string"`
}

type BurnResponse struct {
	TotalSupply uint64 `json:"total_supply,string"`
}

type PauseRequest struct{}

type PauseResponse struct {
	Paused bool `json:"paused"`
}

// VendorService messages.

type ResolveRecipientRequest struct {
	Identifier string `json:"identifier"`
}

type ResolveRecipientResponse struct {
	Address    string `json:"address"`
	Identifier string `json:"identifier"`
	IsVendor   bool   `json:"is_vendor"`
	Eligible   bool   `json:"eligible"`
}

type RegisterVendorRequest struct {
	Address    string `json:"address"`
	Identifier string `json:"identifier"`
}

type RegisterVendorResponse struct {
	Vendor Vendor `json:"vendor"`
}

type SetVendorStatusRequest struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
	Active   bool   `json:"active"`
}

type SetVendorStatusResponse struct {
	Vendor Vendor `json:"vendor"`
}

// AuthService messages.

type ChallengeRequest struct {
	Address string `json:"address"`
}

type ChallengeResponse struct {
	Message   string    `json:"message"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

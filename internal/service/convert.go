package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/henrysammarfo/tapngo/internal/auth"
	"github.com/henrysammarfo/tapngo/internal/middleware"
	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/oracle"
	"github.com/henrysammarfo/tapngo/pkg/api"
)

// requireCaller returns the authenticated address or an Unauthenticated error.
func requireCaller(ctx context.Context) (common.Address, error) {
	caller, ok := middleware.CallerFrom(ctx)
	if !ok {
		cerr := connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
		cerr.Meta().Set(ReasonHeader, "Unauthenticated")
		return common.Address{}, cerr
	}
	return caller, nil
}

func parseAddress(field, s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, invalidArgument("InvalidAddress", fmt.Errorf("%s: %q is not an address", field, s))
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, invalidArgument("InvalidAddress", fmt.Errorf("%s: zero address", field))
	}
	return addr, nil
}

func parseOrderID(s string) (common.Hash, error) {
	b, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, invalidArgument("InvalidOrderID", errors.New("order_id must be 0x-prefixed 32-byte hex"))
	}
	return common.BytesToHash(b), nil
}

func toAPIOrder(o *models.Order) api.Order {
	return api.Order{
		OrderID:             o.ID.Hex(),
		Payer:               o.Payer.Hex(),
		Recipient:           o.Recipient.Hex(),
		RecipientIdentifier: o.RecipientIdentifier,
		AmountFiat:          o.AmountFiat,
		AmountToken:         o.AmountToken,
		FXRate:              oracle.FormatRate(o.FXRate),
		RateSource:          o.RateSource,
		PaymentType:         string(o.PaymentType),
		Metadata:            o.Metadata,
		Status:              string(o.Status),
		CreatedAt:           o.CreatedAt,
		ExpiresAt:           o.ExpiresAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func toAPIReceipt(r *models.Receipt) api.Receipt {
	return api.Receipt{
		OrderID:             r.OrderID.Hex(),
		RecipientIdentifier: r.RecipientIdentifier,
		Sender:              r.Sender.Hex(),
		Recipient:           r.Recipient.Hex(),
		AmountFiat:          r.AmountFiat,
		AmountToken:         r.AmountToken,
		FXRate:              oracle.FormatRate(r.FXRate),
		PlatformFee:         r.PlatformFee,
		RecipientAmount:     r.RecipientAmount,
		FeeRecipient:        r.FeeRecipient.Hex(),
		PaymentType:         string(r.PaymentType),
		Status:              string(r.Status),
		Metadata:            r.Metadata,
		IsVendorPayment:     r.IsVendorPayment,
		Timestamp:           r.Timestamp,
	}
}

func toAPIVendor(v *models.Vendor) api.Vendor {
	return api.Vendor{
		Address:    v.Address.Hex(),
		Identifier: v.Identifier,
		Verified:   v.Verified,
		Active:     v.Active,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/henrysammarfo/tapngo/internal/auth"
	"github.com/henrysammarfo/tapngo/internal/directory"
	"github.com/henrysammarfo/tapngo/internal/payments"
	"github.com/henrysammarfo/tapngo/internal/token"
)

const (
	// ReasonHeader carries the stable error kind, e.g. "SupplyCapExceeded".
	ReasonHeader = "X-Error-Reason"
	// CauseHeader carries the ledger error kind behind a SettlementFailed.
	CauseHeader = "X-Error-Cause"
)

type errorKind struct {
	err    error
	code   connect.Code
	reason string
}

// errorKinds is checked in order; the first match wins.
var errorKinds = []errorKind{
	{payments.ErrInvalidAmount, connect.CodeInvalidArgument, "InvalidAmount"},
	{token.ErrInvalidAmount, connect.CodeInvalidArgument, "InvalidAmount"},
	{payments.ErrInvalidFee, connect.CodeFailedPrecondition, "InvalidFee"},
	{payments.ErrInvalidAddress, connect.CodeInvalidArgument, "InvalidAddress"},
	{token.ErrInvalidAddress, connect.CodeInvalidArgument, "InvalidAddress"},
	{directory.ErrInvalidAddress, connect.CodeInvalidArgument, "InvalidAddress"},
	{directory.ErrInvalidIdentifier, connect.CodeInvalidArgument, "InvalidIdentifier"},
	{payments.ErrInvalidMetadata, connect.CodeInvalidArgument, "InvalidMetadata"},
	{payments.ErrInvalidPaymentType, connect.CodeInvalidArgument, "InvalidPaymentType"},
	{payments.ErrInvalidRecipient, connect.CodeInvalidArgument, "InvalidRecipient"},

	{payments.ErrRecipientNotFound, connect.CodeNotFound, "RecipientNotFound"},
	{directory.ErrRecipientNotFound, connect.CodeNotFound, "RecipientNotFound"},
	{directory.ErrVendorNotFound, connect.CodeNotFound, "VendorNotFound"},
	{payments.ErrOrderNotFound, connect.CodeNotFound, "OrderNotFound"},
	{payments.ErrReceiptNotFound, connect.CodeNotFound, "ReceiptNotFound"},

	{directory.ErrVendorExists, connect.CodeAlreadyExists, "VendorExists"},
	{directory.ErrIdentifierTaken, connect.CodeAlreadyExists, "IdentifierTaken"},

	{payments.ErrOrderNotPending, connect.CodeFailedPrecondition, "OrderNotPending"},
	{payments.ErrOrderExpired, connect.CodeFailedPrecondition, "OrderExpired"},
	{payments.ErrVendorNotEligible, connect.CodeFailedPrecondition, "VendorNotEligible"},
	{token.ErrInsufficientBalance, connect.CodeFailedPrecondition, "InsufficientBalance"},
	{token.ErrCooldownActive, connect.CodeFailedPrecondition, "CooldownActive"},
	{token.ErrPaused, connect.CodeFailedPrecondition, "Paused"},
	{token.ErrNotPaused, connect.CodeFailedPrecondition, "NotPaused"},
	{payments.ErrStaleRate, connect.CodeUnavailable, "StaleRate"},

	{token.ErrSupplyCapExceeded, connect.CodeResourceExhausted, "SupplyCapExceeded"},

	{payments.ErrUnauthorized, connect.CodePermissionDenied, "Unauthorized"},
	{token.ErrUnauthorized, connect.CodePermissionDenied, "Unauthorized"},
	{directory.ErrUnauthorized, connect.CodePermissionDenied, "Unauthorized"},

	{auth.ErrInvalidSignature, connect.CodeUnauthenticated, "InvalidSignature"},
	{auth.ErrChallengeNotFound, connect.CodeUnauthenticated, "ChallengeNotFound"},
	{auth.ErrMissingToken, connect.CodeUnauthenticated, "Unauthenticated"},
	{auth.ErrInvalidToken, connect.CodeUnauthenticated, "Unauthenticated"},
}

func classify(err error) (connect.Code, string, bool) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.code, k.reason, true
		}
	}
	return connect.CodeInternal, "Internal", false
}

// toConnectError maps a domain error to a *connect.Error with its reason
// attached. Unrecognised errors are logged and returned as a bare Internal.
func toConnectError(procedure string, err error) error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	code, reason, known := classify(err)
	if errors.Is(err, payments.ErrSettlementFailed) {
		cerr := connect.NewError(code, err)
		if !known {
			cerr = connect.NewError(connect.CodeInternal, payments.ErrSettlementFailed)
			slog.Error("Settlement failed", "procedure", procedure, "error", err)
		}
		cerr.Meta().Set(ReasonHeader, "SettlementFailed")
		cerr.Meta().Set(CauseHeader, reason)
		return cerr
	}
	if !known {
		slog.Error("Internal error", "procedure", procedure, "error", err)
		cerr := connect.NewError(connect.CodeInternal, errors.New("internal error"))
		cerr.Meta().Set(ReasonHeader, reason)
		return cerr
	}

	cerr := connect.NewError(code, err)
	cerr.Meta().Set(ReasonHeader, reason)
	return cerr
}

// invalidArgument builds a request validation error with reason attached.
func invalidArgument(reason string, err error) error {
	cerr := connect.NewError(connect.CodeInvalidArgument, err)
	cerr.Meta().Set(ReasonHeader, reason)
	return cerr
}

// ReasonOf returns the X-Error-Reason of err, or "" when absent.
func ReasonOf(err error) string {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce.Meta().Get(ReasonHeader)
	}
	return ""
}

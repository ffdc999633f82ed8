package auth

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Challenge is a one-time message a wallet must sign to log in.
type Challenge struct {
	Address   common.Address
	Nonce     string
	Message   string
	ExpiresAt time.Time
}

// Authenticator proves control of an address.
type Authenticator interface {
	// Challenge issues a fresh message for addr to sign. Any earlier
	// challenge for addr is discarded.
	Challenge(ctx context.Context, addr common.Address) (*Challenge, error)

	// Authenticate checks signature against the outstanding challenge for
	// addr and consumes it. It returns the proven address.
	Authenticate(ctx context.Context, addr common.Address, signature string) (common.Address, error)
}

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrChallengeNotFound = errors.New("no outstanding challenge")
)

// DefaultChallengeTTL bounds how long a login message stays signable.
const DefaultChallengeTTL = 5 * time.Minute

// WalletAuthenticator implements personal-sign (EIP-191) login for EVM wallets.
type WalletAuthenticator struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	pending map[common.Address]*Challenge
}

// NewWalletAuthenticator creates an authenticator whose challenges expire after ttl.
func NewWalletAuthenticator(ttl time.Duration, now func() time.Time) *WalletAuthenticator {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	if now == nil {
		now = time.Now
	}
	return &WalletAuthenticator{
		ttl:     ttl,
		now:     now,
		pending: make(map[common.Address]*Challenge),
	}
}

// Challenge issues a fresh nonce for addr.
func (a *WalletAuthenticator) Challenge(ctx context.Context, addr common.Address) (*Challenge, error) {
	if addr == (common.Address{}) {
		return nil, fmt.Errorf("%w: zero address", ErrInvalidSignature)
	}

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(raw)
	now := a.now()

	c := &Challenge{
		Address:   addr,
		Nonce:     nonce,
		Message:   challengeMessage(addr, nonce, now),
		ExpiresAt: now.Add(a.ttl),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.prune(now)
	a.pending[addr] = c
	return c, nil
}

// Authenticate verifies signature over the outstanding challenge for addr.
// A challenge is consumed by the first attempt, successful or not.
func (a *WalletAuthenticator) Authenticate(ctx context.Context, addr common.Address, signature string) (common.Address, error) {
	a.mu.Lock()
	c, ok := a.pending[addr]
	delete(a.pending, addr)
	a.mu.Unlock()

	if !ok || a.now().After(c.ExpiresAt) {
		return common.Address{}, ErrChallengeNotFound
	}

	signer, err := RecoverSigner(c.Message, signature)
	if err != nil {
		return common.Address{}, err
	}
	if signer != addr {
		return common.Address{}, fmt.Errorf("%w: signed by %s", ErrInvalidSignature, signer.Hex())
	}
	return signer, nil
}

// RecoverSigner returns the address that personal-signed message.
// signature is 0x-prefixed hex of r || s || v, with v in {0, 1, 27, 28}.
func RecoverSigner(message, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSignature, crypto.SignatureLength, len(sig))
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func challengeMessage(addr common.Address, nonce string, issued time.Time) string {
	return fmt.Sprintf("TapNGo Authentication\nAddress: %s\nNonce: %s\nIssued: %d", addr.Hex(), nonce, issued.Unix())
}

// prune drops expired challenges. Caller holds a.mu.
func (a *WalletAuthenticator) prune(now time.Time) {
	for addr, c := range a.pending {
		if now.After(c.ExpiresAt) {
			delete(a.pending, addr)
		}
	}
}

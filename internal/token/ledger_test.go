package token

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/storage"
	"github.com/henrysammarfo/tapngo/internal/storage/sqlite"
)

var (
	owner = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type adminSet map[common.Address]bool

func (a adminSet) IsAdmin(addr common.Address) bool { return a[addr] }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testLedger struct {
	*Ledger
	store *sqlite.SQLiteStore
	clock *fakeClock
	bus   *events.Bus
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tapngo-token-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	bus := events.NewBus()
	t.Cleanup(bus.Close)

	l := NewLedger(store, adminSet{owner: true}, WithClock(clock.Now), WithPublisher(bus))
	return &testLedger{Ledger: l, store: store, clock: clock, bus: bus}
}

func (tl *testLedger) mustBalance(t *testing.T, addr common.Address) uint64 {
	t.Helper()
	bal, err := tl.BalanceOf(context.Background(), addr)
	if err != nil {
		t.Fatalf("BalanceOf failed: %v", err)
	}
	return bal
}

func (tl *testLedger) mustAudit(t *testing.T) {
	t.Helper()
	if _, err := tl.Audit(context.Background()); err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
}

func TestMint(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  common.Address
		to      common.Address
		amount  uint64
		wantErr error
	}{
		{"admin mints", owner, alice, 1_000 * Unit, nil},
		{"non-admin rejected", alice, alice, 1, ErrUnauthorized},
		{"zero amount rejected", owner, alice, 0, ErrInvalidAmount},
		{"zero address rejected", owner, common.Address{}, 1, ErrInvalidAddress},
		{"above cap rejected", owner, alice, MaxSupply + 1, ErrSupplyCapExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := newTestLedger(t)
			err := tl.Mint(ctx, tt.caller, tt.to, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Mint() error = %v, want %v", err, tt.wantErr)
			}
			want := uint64(0)
			if tt.wantErr == nil {
				want = tt.amount
			}
			if got := tl.mustBalance(t, alice); got != want {
				t.Errorf("balance = %d, want %d", got, want)
			}
			tl.mustAudit(t)
		})
	}
}

func TestMintCapBoundary(t *testing.T) {
	ctx := context.Background()
	tl := newTestLedger(t)

	if err := tl.Mint(ctx, owner, alice, MaxSupply-1); err != nil {
		t.Fatalf("Mint below cap failed: %v", err)
	}
	if err := tl.Mint(ctx, owner, bob, 1); err != nil {
		t.Fatalf("Mint up to exactly the cap failed: %v", err)
	}
	if err := tl.Mint(ctx, owner, bob, 1); !errors.Is(err, ErrSupplyCapExceeded) {
		t.Fatalf("expected ErrSupplyCapExceeded one unit past the cap, got %v", err)
	}

	supply, err := tl.TotalSupply(ctx)
	if err != nil {
		t.Fatalf("TotalSupply failed: %v", err)
	}
	if supply != MaxSupply {
		t.Errorf("supply = %d, want %d", supply, MaxSupply)
	}
	tl.mustAudit(t)
}

func TestBurn(t *testing.T) {
	ctx := context.Background()
	tl := newTestLedger(t)

	if err := tl.Mint(ctx, owner, alice, 100); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if err := tl.Burn(ctx, alice, alice, 10); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := tl.Burn(ctx, owner, alice, 101); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	if err := tl.Burn(ctx, owner, alice, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if err := tl.Burn(ctx, owner, alice, 40); err != nil {
		t.Fatalf("Burn failed: %v", err)
	}

	if got := tl.mustBalance(t, alice); got != 60 {
		t.Errorf("balance = %d, want 60", got)
	}
	if supply, _ := tl.TotalSupply(ctx); supply != 60 {
		t.Errorf("supply = %d, want 60", supply)
	}
	tl.mustAudit(t)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	tl := newTestLedger(t)
	if err := tl.Mint(ctx, owner, alice, 100); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	t.Run("moves funds", func(t *testing.T) {
		if err := tl.Transfer(ctx, alice, bob, 30); err != nil {
			t.Fatalf("Transfer failed: %v", err)
		}
		if a, b := tl.mustBalance(t, alice), tl.mustBalance(t, bob); a != 70 || b != 30 {
			t.Errorf("balances = %d/%d, want 70/30", a, b)
		}
	})

	t.Run("insufficient balance changes nothing", func(t *testing.T) {
		err := tl.Transfer(ctx, bob, alice, 31)
		if !errors.Is(err, ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
		if a, b := tl.mustBalance(t, alice), tl.mustBalance(t, bob); a != 70 || b != 30 {
			t.Errorf("balances = %d/%d, want 70/30", a, b)
		}
	})

	t.Run("self transfer is a no-op", func(t *testing.T) {
		if err := tl.Transfer(ctx, alice, alice, 70); err != nil {
			t.Fatalf("Transfer failed: %v", err)
		}
		if a := tl.mustBalance(t, alice); a != 70 {
			t.Errorf("balance = %d, want 70", a)
		}
	})

	t.Run("validation", func(t *testing.T) {
		if err := tl.Transfer(ctx, alice, bob, 0); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
		if err := tl.Transfer(ctx, alice, common.Address{}, 1); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("expected ErrInvalidAddress, got %v", err)
		}
	})

	t.Run("paused blocks transfers", func(t *testing.T) {
		if err := tl.Pause(ctx, owner); err != nil {
			t.Fatalf("Pause failed: %v", err)
		}
		defer tl.Unpause(ctx, owner)

		if err := tl.Transfer(ctx, alice, bob, 1); !errors.Is(err, ErrPaused) {
			t.Errorf("expected ErrPaused, got %v", err)
		}
	})

	tl.mustAudit(t)
}

func TestSettle(t *testing.T) {
	ctx := context.Background()
	feeRecipient := common.HexToAddress("0x000000000000000000000000000000000000fee0")

	t.Run("splits one debit across credits", func(t *testing.T) {
		tl := newTestLedger(t)
		tl.Mint(ctx, owner, alice, 1_000)

		committed := false
		err := tl.Settle(ctx, "order-1", alice, []Credit{{To: bob, Amount: 99}, {To: feeRecipient, Amount: 1}}, func(tx storage.Tx) error {
			committed = true
			return nil
		})
		if err != nil {
			t.Fatalf("Settle failed: %v", err)
		}
		if !committed {
			t.Error("expected commit hook to run")
		}
		if a, b, f := tl.mustBalance(t, alice), tl.mustBalance(t, bob), tl.mustBalance(t, feeRecipient); a != 900 || b != 99 || f != 1 {
			t.Errorf("balances = %d/%d/%d, want 900/99/1", a, b, f)
		}
		tl.mustAudit(t)
	})

	t.Run("failed commit rolls back every leg", func(t *testing.T) {
		tl := newTestLedger(t)
		tl.Mint(ctx, owner, alice, 1_000)

		boom := errors.New("receipt write failed")
		err := tl.Settle(ctx, "order-2", alice, []Credit{{To: bob, Amount: 500}}, func(tx storage.Tx) error {
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected commit error, got %v", err)
		}
		if a, b := tl.mustBalance(t, alice), tl.mustBalance(t, bob); a != 1_000 || b != 0 {
			t.Errorf("balances = %d/%d, want 1000/0", a, b)
		}
		tl.mustAudit(t)
	})

	t.Run("zero fee leg is skipped", func(t *testing.T) {
		tl := newTestLedger(t)
		tl.Mint(ctx, owner, alice, 10)

		sub := tl.bus.Subscribe(8, func(e events.Event) bool { return e.Type == events.TokenTransferred })
		defer sub.Close()

		if err := tl.Settle(ctx, "order-3", alice, []Credit{{To: bob, Amount: 10}, {To: feeRecipient, Amount: 0}}, nil); err != nil {
			t.Fatalf("Settle failed: %v", err)
		}
		if n := len(sub.C); n != 1 {
			t.Errorf("expected 1 transfer event, got %d", n)
		}
	})
}

func TestFaucet(t *testing.T) {
	ctx := context.Background()

	t.Run("cooldown boundary", func(t *testing.T) {
		tl := newTestLedger(t)

		if err := tl.ClaimFaucet(ctx, alice); err != nil {
			t.Fatalf("first claim failed: %v", err)
		}

		tl.clock.Advance(23*time.Hour + 59*time.Minute + 59*time.Second)
		if err := tl.ClaimFaucet(ctx, alice); !errors.Is(err, ErrCooldownActive) {
			t.Fatalf("expected ErrCooldownActive at 23h59m59s, got %v", err)
		}
		ok, remaining, err := tl.CanClaimFaucet(ctx, alice)
		if err != nil || ok || remaining != time.Second {
			t.Errorf("CanClaimFaucet = %v, %s, %v; want false, 1s", ok, remaining, err)
		}

		tl.clock.Advance(time.Second)
		if err := tl.ClaimFaucet(ctx, alice); err != nil {
			t.Fatalf("claim at exactly 24h failed: %v", err)
		}

		next, err := tl.NextFaucetClaim(ctx, alice)
		if err != nil {
			t.Fatalf("NextFaucetClaim failed: %v", err)
		}
		if want := tl.clock.Now().Add(FaucetCooldown); !next.Equal(want) {
			t.Errorf("next claim = %s, want %s", next, want)
		}

		if got := tl.mustBalance(t, alice); got != 2*FaucetAmount {
			t.Errorf("balance = %d, want %d", got, 2*FaucetAmount)
		}
		tl.mustAudit(t)
	})

	t.Run("never claimed can claim", func(t *testing.T) {
		tl := newTestLedger(t)
		ok, remaining, err := tl.CanClaimFaucet(ctx, bob)
		if err != nil || !ok || remaining != 0 {
			t.Errorf("CanClaimFaucet = %v, %s, %v; want true, 0", ok, remaining, err)
		}
		next, err := tl.NextFaucetClaim(ctx, bob)
		if err != nil || !next.Equal(tl.clock.Now()) {
			t.Errorf("NextFaucetClaim = %s, %v; want now", next, err)
		}
	})

	t.Run("paused blocks faucet", func(t *testing.T) {
		tl := newTestLedger(t)
		if err := tl.Pause(ctx, owner); err != nil {
			t.Fatalf("Pause failed: %v", err)
		}
		if err := tl.ClaimFaucet(ctx, alice); !errors.Is(err, ErrPaused) {
			t.Errorf("expected ErrPaused, got %v", err)
		}
		// a rejected claim does not start the cooldown
		if ok, _, _ := tl.CanClaimFaucet(ctx, alice); !ok {
			t.Error("expected rejected claim to leave the faucet available")
		}
	})

	t.Run("claim respects the supply cap", func(t *testing.T) {
		tl := newTestLedger(t)
		if err := tl.Mint(ctx, owner, bob, MaxSupply-FaucetAmount+1); err != nil {
			t.Fatalf("Mint failed: %v", err)
		}
		if err := tl.ClaimFaucet(ctx, alice); !errors.Is(err, ErrSupplyCapExceeded) {
			t.Errorf("expected ErrSupplyCapExceeded, got %v", err)
		}
		if ok, _, _ := tl.CanClaimFaucet(ctx, alice); !ok {
			t.Error("expected failed claim to leave the faucet available")
		}
		tl.mustAudit(t)
	})
}

func TestPause(t *testing.T) {
	ctx := context.Background()
	tl := newTestLedger(t)

	if err := tl.Pause(ctx, alice); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := tl.Unpause(ctx, owner); !errors.Is(err, ErrNotPaused) {
		t.Errorf("expected ErrNotPaused, got %v", err)
	}
	if err := tl.Pause(ctx, owner); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := tl.Pause(ctx, owner); !errors.Is(err, ErrPaused) {
		t.Errorf("expected ErrPaused when pausing twice, got %v", err)
	}

	// admin issuance is not gated by pause
	if err := tl.Mint(ctx, owner, alice, 5); err != nil {
		t.Errorf("Mint while paused failed: %v", err)
	}
	if err := tl.Burn(ctx, owner, alice, 5); err != nil {
		t.Errorf("Burn while paused failed: %v", err)
	}

	if paused, _ := tl.Paused(ctx); !paused {
		t.Error("expected ledger to report paused")
	}
	if err := tl.Unpause(ctx, owner); err != nil {
		t.Fatalf("Unpause failed: %v", err)
	}
	if paused, _ := tl.Paused(ctx); paused {
		t.Error("expected ledger to report unpaused")
	}
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	tl := newTestLedger(t)

	applied, err := tl.Bootstrap(ctx, owner, 1_000_000*Unit)
	if err != nil || !applied {
		t.Fatalf("Bootstrap = %v, %v; want applied", applied, err)
	}
	applied, err = tl.Bootstrap(ctx, owner, 1_000_000*Unit)
	if err != nil || applied {
		t.Fatalf("second Bootstrap = %v, %v; want no-op", applied, err)
	}

	if got := tl.mustBalance(t, owner); got != 1_000_000*Unit {
		t.Errorf("owner balance = %d, want %d", got, 1_000_000*Unit)
	}

	if _, err := tl.Bootstrap(ctx, common.Address{}, 1); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
	tl.mustAudit(t)
}

func TestAuditDetectsDrift(t *testing.T) {
	ctx := context.Background()
	tl := newTestLedger(t)
	tl.Mint(ctx, owner, alice, 100)

	// corrupt a balance behind the ledger's back
	err := tl.store.InTx(ctx, func(tx storage.Tx) error {
		return tx.SetBalance(ctx, bob, 1)
	})
	if err != nil {
		t.Fatalf("InTx failed: %v", err)
	}

	r, err := tl.Audit(ctx)
	if !errors.Is(err, ErrInvariantViolated) {
		t.Fatalf("expected ErrInvariantViolated, got %v", err)
	}
	if r.Sum.Uint64() != 101 || r.TotalSupply != 100 {
		t.Errorf("unexpected report: sum %s supply %d", r.Sum, r.TotalSupply)
	}
}

func TestConcurrentTransfersPreserveSupply(t *testing.T) {
	ctx := context.Background()
	tl := newTestLedger(t)
	tl.Mint(ctx, owner, alice, 1_000)
	tl.Mint(ctx, owner, bob, 1_000)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tl.Transfer(ctx, alice, bob, 7)
		}()
		go func() {
			defer wg.Done()
			tl.Transfer(ctx, bob, alice, 3)
		}()
	}
	wg.Wait()

	if a, b := tl.mustBalance(t, alice), tl.mustBalance(t, bob); a+b != 2_000 || a != 1_000-20*4 {
		t.Errorf("balances = %d/%d, want %d/%d", a, b, 1_000-20*4, 1_000+20*4)
	}
	tl.mustAudit(t)
}

package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/models"
	"github.com/henrysammarfo/tapngo/internal/storage"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x00000000000000000000000000000000000ca201")
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "tapngo-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testOrder(id byte, payer, recipient common.Address, createdAt time.Time) *models.Order {
	return &models.Order{
		ID:                  common.BytesToHash([]byte{id}),
		Payer:               payer,
		Recipient:           recipient,
		RecipientIdentifier: recipient.Hex(),
		AmountFiat:          1_500_000,
		AmountToken:         1_000_000,
		FXRate:              150_000_000,
		RateSource:          "static",
		PaymentType:         models.PaymentP2P,
		Metadata:            "coffee",
		Status:              models.OrderPending,
		CreatedAt:           createdAt,
		ExpiresAt:           createdAt.Add(15 * time.Minute),
		UpdatedAt:           createdAt,
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("unknown address has zero balance", func(t *testing.T) {
		bal, err := store.Balance(ctx, carol)
		if err != nil {
			t.Fatalf("Balance failed: %v", err)
		}
		if bal != 0 {
			t.Errorf("Expected 0, got %d", bal)
		}
	})

	t.Run("SetBalance persists and zero removes", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.SetBalance(ctx, alice, 42); err != nil {
				return err
			}
			return tx.SetBalance(ctx, bob, 7)
		})
		if err != nil {
			t.Fatalf("InTx failed: %v", err)
		}

		all, err := store.Balances(ctx)
		if err != nil {
			t.Fatalf("Balances failed: %v", err)
		}
		if all[alice] != 42 || all[bob] != 7 {
			t.Errorf("Unexpected balances: %v", all)
		}

		err = store.InTx(ctx, func(tx storage.Tx) error {
			return tx.SetBalance(ctx, bob, 0)
		})
		if err != nil {
			t.Fatalf("InTx failed: %v", err)
		}
		all, _ = store.Balances(ctx)
		if _, ok := all[bob]; ok {
			t.Errorf("Expected bob to be removed, got %v", all)
		}
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.SetBalance(ctx, alice, 1_000); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Expected boom, got %v", err)
		}

		bal, _ := store.Balance(ctx, alice)
		if bal != 42 {
			t.Errorf("Expected balance to stay 42, got %d", bal)
		}
	})

	t.Run("ledger state and faucet claims", func(t *testing.T) {
		if _, ok, err := store.LedgerState(ctx, storage.StatePaused); err != nil || ok {
			t.Fatalf("Expected no paused state, got ok=%v err=%v", ok, err)
		}

		at := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.SetLedgerState(ctx, storage.StatePaused, "true"); err != nil {
				return err
			}
			return tx.SetFaucetClaim(ctx, carol, at)
		})
		if err != nil {
			t.Fatalf("InTx failed: %v", err)
		}

		v, ok, err := store.LedgerState(ctx, storage.StatePaused)
		if err != nil || !ok || v != "true" {
			t.Errorf("Expected paused=true, got %q ok=%v err=%v", v, ok, err)
		}

		got, ok, err := store.LastFaucetClaim(ctx, carol)
		if err != nil || !ok {
			t.Fatalf("LastFaucetClaim failed: ok=%v err=%v", ok, err)
		}
		if !got.Equal(at) {
			t.Errorf("Expected %v, got %v", at, got)
		}
	})
}

func TestOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	order := testOrder(1, alice, bob, now)
	if err := store.InTx(ctx, func(tx storage.Tx) error { return tx.CreateOrder(ctx, order) }); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	t.Run("GetOrder round trips", func(t *testing.T) {
		got, err := store.GetOrder(ctx, order.ID)
		if err != nil {
			t.Fatalf("GetOrder failed: %v", err)
		}
		if got.Payer != alice || got.Recipient != bob {
			t.Errorf("Unexpected parties: %s -> %s", got.Payer.Hex(), got.Recipient.Hex())
		}
		if got.AmountToken != order.AmountToken || got.FXRate != order.FXRate {
			t.Errorf("Expected %d @ %d, got %d @ %d", order.AmountToken, order.FXRate, got.AmountToken, got.FXRate)
		}
		if !got.ExpiresAt.Equal(order.ExpiresAt) {
			t.Errorf("Expected expiry %v, got %v", order.ExpiresAt, got.ExpiresAt)
		}
	})

	t.Run("GetOrder unknown returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetOrder(ctx, common.HexToHash("0xdead"))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateOrderStatus only moves from the expected status", func(t *testing.T) {
		var first, second bool
		err := store.InTx(ctx, func(tx storage.Tx) error {
			var err error
			if first, err = tx.UpdateOrderStatus(ctx, order.ID, models.OrderPending, models.OrderCancelled, now); err != nil {
				return err
			}
			second, err = tx.UpdateOrderStatus(ctx, order.ID, models.OrderPending, models.OrderCompleted, now)
			return err
		})
		if err != nil {
			t.Fatalf("InTx failed: %v", err)
		}
		if !first || second {
			t.Errorf("Expected first=true second=false, got %v %v", first, second)
		}
	})

	t.Run("ExpirePending flips only overdue pending orders", func(t *testing.T) {
		overdue := testOrder(2, alice, bob, now.Add(-time.Hour))
		fresh := testOrder(3, alice, bob, now)
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.CreateOrder(ctx, overdue); err != nil {
				return err
			}
			return tx.CreateOrder(ctx, fresh)
		})
		if err != nil {
			t.Fatalf("InTx failed: %v", err)
		}

		ids, err := store.ExpirePending(ctx, now)
		if err != nil {
			t.Fatalf("ExpirePending failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != overdue.ID {
			t.Fatalf("Expected [%s], got %v", overdue.ID.Hex(), ids)
		}

		got, _ := store.GetOrder(ctx, fresh.ID)
		if got.Status != models.OrderPending {
			t.Errorf("Expected fresh order to stay pending, got %s", got.Status)
		}
	})
}

func TestReceipts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// alice pays bob three times, carol pays alice once
	err := store.InTx(ctx, func(tx storage.Tx) error {
		for i, p := range []struct{ from, to common.Address }{{alice, bob}, {alice, bob}, {carol, alice}, {alice, bob}} {
			o := testOrder(byte(10+i), p.from, p.to, base.Add(time.Duration(i)*time.Minute))
			if err := tx.CreateOrder(ctx, o); err != nil {
				return err
			}
			r := &models.Receipt{
				OrderID:         o.ID,
				Sender:          p.from,
				Recipient:       p.to,
				AmountFiat:      o.AmountFiat,
				AmountToken:     o.AmountToken,
				FXRate:          o.FXRate,
				PlatformFee:     0,
				RecipientAmount: o.AmountToken,
				PaymentType:     models.PaymentP2P,
				Status:          models.OrderCompleted,
				Timestamp:       o.CreatedAt,
			}
			if err := tx.CreateReceipt(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seeding receipts failed: %v", err)
	}

	tests := []struct {
		name   string
		addr   common.Address
		offset int
		limit  int
		want   []byte
	}{
		{"all for alice", alice, 0, 10, []byte{10, 11, 12, 13}},
		{"first page", alice, 0, 2, []byte{10, 11}},
		{"second page", alice, 2, 2, []byte{12, 13}},
		{"past the end", alice, 4, 2, nil},
		{"carol only sees her own", carol, 0, 10, []byte{12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListReceiptsByAddress(ctx, tt.addr, tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("ListReceiptsByAddress failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d receipts, got %d", len(tt.want), len(got))
			}
			for i, r := range got {
				if r.OrderID != common.BytesToHash([]byte{tt.want[i]}) {
					t.Errorf("receipt %d: expected order %d, got %s", i, tt.want[i], r.OrderID.Hex())
				}
			}
		})
	}

	t.Run("GetReceipt unknown returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetReceipt(ctx, common.HexToHash("0xbeef"))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestVendors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	v := &models.Vendor{Address: bob, Identifier: "bobs-coffee", Verified: true, Active: true, CreatedAt: now, UpdatedAt: now}
	if err := store.InTx(ctx, func(tx storage.Tx) error { return tx.CreateVendor(ctx, v) }); err != nil {
		t.Fatalf("CreateVendor failed: %v", err)
	}

	t.Run("lookup by address and identifier", func(t *testing.T) {
		byAddr, err := store.GetVendor(ctx, bob)
		if err != nil {
			t.Fatalf("GetVendor failed: %v", err)
		}
		byName, err := store.GetVendorByIdentifier(ctx, "bobs-coffee")
		if err != nil {
			t.Fatalf("GetVendorByIdentifier failed: %v", err)
		}
		if byAddr.Address != byName.Address || !byAddr.Eligible() {
			t.Errorf("Unexpected vendor records: %+v %+v", byAddr, byName)
		}
	})

	t.Run("duplicate identifier is rejected", func(t *testing.T) {
		dup := &models.Vendor{Address: carol, Identifier: "bobs-coffee", CreatedAt: now, UpdatedAt: now}
		if err := store.InTx(ctx, func(tx storage.Tx) error { return tx.CreateVendor(ctx, dup) }); err == nil {
			t.Error("Expected duplicate identifier to fail")
		}
	})

	t.Run("UpdateVendor changes flags", func(t *testing.T) {
		v.Active = false
		if err := store.InTx(ctx, func(tx storage.Tx) error { return tx.UpdateVendor(ctx, v) }); err != nil {
			t.Fatalf("UpdateVendor failed: %v", err)
		}
		got, _ := store.GetVendor(ctx, bob)
		if got.Active || !got.Verified {
			t.Errorf("Expected verified inactive vendor, got %+v", got)
		}
	})

	t.Run("unknown vendor returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetVendor(ctx, alice)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		missing := &models.Vendor{Address: alice, UpdatedAt: now}
		err = store.InTx(ctx, func(tx storage.Tx) error { return tx.UpdateVendor(ctx, missing) })
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound from UpdateVendor, got %v", err)
		}
	})
}

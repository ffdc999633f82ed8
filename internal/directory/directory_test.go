package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/events"
	"github.com/henrysammarfo/tapngo/internal/storage/sqlite"
)

var (
	admin  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice  = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	coffee = common.HexToAddress("0x000000000000000000000000000000000000c0fe")
)

type adminSet map[common.Address]bool

func (a adminSet) IsAdmin(addr common.Address) bool { return a[addr] }

func newTestDirectory(t *testing.T) (*Directory, *events.Bus) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tapngo-directory-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bus := events.NewBus()
	t.Cleanup(bus.Close)
	return New(store, adminSet{admin: true}, bus), bus
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	d, bus := newTestDirectory(t)
	sub := bus.Subscribe(8, nil)

	v, err := d.Register(ctx, admin, coffee, "  Coffee.TapNGo.eth ")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if v.Identifier != "coffee.tapngo.eth" {
		t.Errorf("identifier = %q, want lowercased", v.Identifier)
	}
	if v.Verified || !v.Active {
		t.Errorf("expected active unverified vendor, got %+v", v)
	}
	if e := <-sub.C; e.Type != events.VendorRegistered || !e.Touches(coffee) {
		t.Errorf("unexpected event %+v", e)
	}

	tests := []struct {
		name       string
		caller     common.Address
		addr       common.Address
		identifier string
		wantErr    error
	}{
		{"non-admin", alice, alice, "alice-shop", ErrUnauthorized},
		{"zero address", admin, common.Address{}, "nobody", ErrInvalidAddress},
		{"same address twice", admin, coffee, "other-name", ErrVendorExists},
		{"identifier taken", admin, alice, "COFFEE.tapngo.eth", ErrIdentifierTaken},
		{"too short", admin, alice, "ab", ErrInvalidIdentifier},
		{"spaces inside", admin, alice, "alice shop", ErrInvalidIdentifier},
		{"looks like an address", admin, alice, strings.ToLower(coffee.Hex()), ErrInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Register(ctx, tt.caller, tt.addr, tt.identifier)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDirectory(t)
	if _, err := d.Register(ctx, admin, coffee, "coffee.tapngo.eth"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name       string
		identifier string
		want       common.Address
		wantVendor bool
		wantErr    error
	}{
		{"vendor by name", "coffee.tapngo.eth", coffee, true, nil},
		{"vendor by name any case", "Coffee.TAPNGO.eth", coffee, true, nil},
		{"vendor by address", coffee.Hex(), coffee, true, nil},
		{"plain address", alice.Hex(), alice, false, nil},
		{"lowercase address", strings.ToLower(alice.Hex()), alice, false, nil},
		{"unknown name", "tea.tapngo.eth", common.Address{}, false, ErrRecipientNotFound},
		{"empty", "  ", common.Address{}, false, ErrRecipientNotFound},
		{"zero address", common.Address{}.Hex(), common.Address{}, false, ErrRecipientNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Resolve(ctx, tt.identifier)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
			if got.Address != tt.want || got.IsVendor != tt.wantVendor {
				t.Errorf("Resolve() = %s vendor=%v, want %s vendor=%v", got.Address.Hex(), got.IsVendor, tt.want.Hex(), tt.wantVendor)
			}
		})
	}
}

func TestVendorStatus(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDirectory(t)
	if _, err := d.Register(ctx, admin, coffee, "coffee.tapngo.eth"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	check := func(t *testing.T, wantVendor, wantActive bool) {
		t.Helper()
		isVendor, err := d.IsVendor(ctx, coffee)
		if err != nil {
			t.Fatalf("IsVendor failed: %v", err)
		}
		active, err := d.IsActiveVendor(ctx, coffee)
		if err != nil {
			t.Fatalf("IsActiveVendor failed: %v", err)
		}
		if isVendor != wantVendor || active != wantActive {
			t.Errorf("vendor=%v active=%v, want %v %v", isVendor, active, wantVendor, wantActive)
		}
	}

	// registered but unverified
	check(t, true, false)

	if _, err := d.SetStatus(ctx, admin, coffee, true, true); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	check(t, true, true)

	if _, err := d.SetStatus(ctx, admin, coffee, true, false); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	check(t, true, false)

	if _, err := d.SetStatus(ctx, alice, coffee, true, true); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := d.SetStatus(ctx, admin, alice, true, true); !errors.Is(err, ErrVendorNotFound) {
		t.Errorf("expected ErrVendorNotFound, got %v", err)
	}

	if active, _ := d.IsActiveVendor(ctx, alice); active {
		t.Error("plain address reported as active vendor")
	}
}

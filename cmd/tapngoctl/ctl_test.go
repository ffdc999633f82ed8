package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henrysammarfo/tapngo/internal/auth"
	"github.com/henrysammarfo/tapngo/internal/storage/sqlite"
	"github.com/henrysammarfo/tapngo/internal/token"
)

func TestTokenCmd(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000a11ce")

	var out bytes.Buffer
	cmd := tokenCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{addr.Hex(), "--secret", "test-secret", "--ttl", "1h", "--role", "admin"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("token command failed: %v", err)
	}

	claims, err := auth.NewJWTManager("test-secret", time.Hour).Validate(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Address != addr.Hex() || claims.Role != "admin" {
		t.Errorf("unexpected claims %+v", claims)
	}

	bad := tokenCmd()
	bad.SetOut(&bytes.Buffer{})
	bad.SetErr(&bytes.Buffer{})
	bad.SetArgs([]string{"not-an-address", "--secret", "x"})
	if err := bad.Execute(); err == nil {
		t.Error("expected error for malformed address")
	}
}

func TestAuditCmd(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "tapngoctl-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)
	dbPath := filepath.Join(tempDir, "test.db")

	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	store, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if _, err := token.NewLedger(store, auth.NewAdminSet(owner)).Bootstrap(context.Background(), owner, 1_500*token.Unit); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	store.Close()

	var out bytes.Buffer
	cmd := auditCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--db", dbPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("audit failed: %v\n%s", err, out.String())
	}

	got := out.String()
	for _, want := range []string{"1500.000000", owner.Hex(), "Status: OK"} {
		if !strings.Contains(got, want) {
			t.Errorf("audit output missing %q:\n%s", want, got)
		}
	}
}

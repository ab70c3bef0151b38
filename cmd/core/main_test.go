package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/sqlite"
)

func TestRunFailsOnBadConfig(t *testing.T) {
	err := run(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("run should fail when the config file is missing")
	}
}

func TestOpenMemoryWithCustomers(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Driver:         config.DriverMemory,
			CheckCustomers: true,
			Customers:      []config.CustomerSeed{{ID: 7, Name: "Ada"}},
		},
		WAL: config.WALConfig{Dir: t.TempDir(), NodeID: 1},
	}
	store, err := openBackend(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer store.close()

	if store.customers == nil {
		t.Fatal("customer directory not wired for the memory driver")
	}
	if ok, _ := store.customers.CustomerExists(ctx, 7); !ok {
		t.Fatal("seeded customer 7 missing")
	}
	if ok, _ := store.customers.CustomerExists(ctx, 8); ok {
		t.Fatal("customer 8 should not exist")
	}
}

func TestOpenSQLiteSeedsCustomers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Driver:         config.DriverSQLite,
			CheckCustomers: true,
			Customers:      []config.CustomerSeed{{ID: 3, Name: "Grace"}},
		},
		SQLite: sqlite.Config{Path: filepath.Join(dir, "ledger.db"), LogLevel: "silent"},
	}
	store, err := openBackend(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer store.close()
	if ok, err := store.customers.CustomerExists(ctx, 3); err != nil || !ok {
		t.Fatalf("CustomerExists=%v err=%v", ok, err)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAMLWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  addr: ":6000"
storage:
  driver: sqlite
sqlite:
  path: /tmp/x.db
reconcile:
  interval: 250ms
`)
	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":6000" || cfg.Storage.Driver != DriverSQLite || cfg.SQLite.Path != "/tmp/x.db" {
		t.Fatalf("yaml values not loaded: %+v", cfg)
	}
	if cfg.Reconcile.Interval != 250*time.Millisecond {
		t.Fatalf("interval=%v", cfg.Reconcile.Interval)
	}
	if cfg.Transfer.CommitTimeout != 5*time.Second || cfg.WAL.Dir != "data" || cfg.MySQL.MaxOpenConns != 100 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Discord.Enabled() {
		t.Fatal("discord should be disabled without token")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "test.env", "LEDGER_DISCORD_TOKEN=from-dotenv\nLEDGER_DISCORD_CHANNEL_ID=ops\n")
	t.Setenv("LEDGER_STORAGE_DRIVER", "mysql")
	t.Setenv("LEDGER_MYSQL_HOST", "db")
	t.Setenv("LEDGER_MYSQL_PORT", "3307")
	t.Setenv("LEDGER_MYSQL_DB_NAME", "bank")
	// godotenv 寫入的變數在測試結束後清掉
	t.Setenv("LEDGER_DISCORD_TOKEN", "")
	t.Setenv("LEDGER_DISCORD_CHANNEL_ID", "")
	os.Unsetenv("LEDGER_DISCORD_TOKEN")
	os.Unsetenv("LEDGER_DISCORD_CHANNEL_ID")

	cfg, err := Load("", envFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Driver != DriverMySQL || cfg.MySQL.Host != "db" || cfg.MySQL.Port != 3307 || cfg.MySQL.DBName != "bank" {
		t.Fatalf("env overrides not applied: %+v", cfg.MySQL)
	}
	if !cfg.Discord.Enabled() || cfg.Discord.Token != "from-dotenv" {
		t.Fatalf("dotenv not applied: %+v", cfg.Discord)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	noEnv := filepath.Join(dir, "missing.env")
	tests := []struct {
		name, yaml, wantErr string
	}{
		{"driver", "storage:\n  driver: redis\n", "unknown storage driver"},
		{"node", "wal:\n  node_id: 5000\n", "out of range"},
		{"mysql", "storage:\n  driver: mysql\n", "mysql.host"},
		{"memory customers", "storage:\n  check_customers: true\n", "requires storage.customers"},
		{"duplicate customer", "storage:\n  customers:\n    - id: 1\n    - id: 1\n", "duplicate id 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".yaml", tt.yaml)
			_, err := Load(path, noEnv)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err=%v want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCustomerSeeds(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
storage:
  check_customers: true
  customers:
    - id: 1
      name: Ada
      email: ada@example.com
    - id: 2
      name: Grace
`)
	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Driver != DriverMemory || !cfg.Storage.CheckCustomers || len(cfg.Storage.Customers) != 2 {
		t.Fatalf("storage=%+v", cfg.Storage)
	}
	if c := cfg.Storage.Customers[0]; c.ID != 1 || c.Name != "Ada" || c.Email != "ada@example.com" {
		t.Fatalf("customer=%+v", c)
	}
}

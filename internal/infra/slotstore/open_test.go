//go:build !integration

package slotstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"pitwall-gateway/internal/config"
	"pitwall-gateway/internal/infra/slotstore"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	for _, driver := range []string{"memory", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Driver = driver
			cfg.Store.Path = filepath.Join(t.TempDir(), "slot.db")

			slot, closeFn, err := slotstore.Open(ctx, cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer closeFn()

			if err := slot.Save(ctx, "session_id:test", "abc123"); err != nil {
				t.Fatalf("save: %v", err)
			}
			if got, err := slot.Load(ctx, "session_id:test"); err != nil || got != "abc123" {
				t.Fatalf("load = %q, %v", got, err)
			}
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "etcd"
	if _, _, err := slotstore.Open(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

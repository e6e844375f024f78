// Package slotstore picks the session slot backend named by store.driver.
package slotstore

import (
	"context"
	"fmt"

	"pitwall-gateway/internal/config"
	"pitwall-gateway/internal/domain/ports/repository"
	"pitwall-gateway/internal/infra/memstore"
	red "pitwall-gateway/internal/infra/redis"
	"pitwall-gateway/internal/infra/sqlite"
)

// Open returns the configured slot and a closer for its resources.
func Open(ctx context.Context, cfg *config.Config) (repository.SessionSlot, func() error, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		s, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		return s, s.Close, nil
	case "redis":
		cli, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return red.NewSessionSlot(cli), cli.Close, nil
	case "memory":
		return memstore.NewSessionSlot(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store.driver %q", cfg.Store.Driver)
	}
}

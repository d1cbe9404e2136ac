package kv

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"studydesk/internal/platform/clock"
	"studydesk/internal/platform/config"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/platform/events"
)

// Open builds the configured backend. A backend that cannot be opened does
// not fail startup: the store starts degraded on its memory mirror. A bolt
// file locked by another process is the exception; writes made in memory
// would silently be lost, so that fails with ErrStoreBusy.
func Open(ctx context.Context, cfg config.StoreConfig, clk clock.Clock, logger *zap.Logger, publisher events.Publisher) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []Option{WithLogger(logger.Named("kv")), WithClock(clk)}
	if publisher != nil {
		opts = append(opts, WithPublisher(publisher))
	}

	backend, err := openBackend(ctx, cfg, clk)
	if errors.Is(err, apperrors.ErrStoreBusy) {
		return nil, err
	}
	if err != nil {
		store := New(unavailable{name: cfg.Backend, err: err}, cfg.Namespace, opts...)
		store.MarkDegraded(err)
		return store, nil
	}
	return New(backend, cfg.Namespace, opts...), nil
}

func openBackend(ctx context.Context, cfg config.StoreConfig, clk clock.Clock) (Backend, error) {
	switch cfg.Backend {
	case "bolt", "":
		return OpenBolt(cfg.BoltPath)
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath, clk)
	case "redis":
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// unavailable stands in for a backend that failed to open.
type unavailable struct {
	name string
	err  error
}

func (u unavailable) Name() string { return u.name }

func (u unavailable) Load(context.Context, string) ([]byte, bool, error) { return nil, false, u.err }

func (u unavailable) Save(context.Context, string, []byte) error { return u.err }

func (u unavailable) Delete(context.Context, string) error { return u.err }

func (u unavailable) Close() error { return nil }

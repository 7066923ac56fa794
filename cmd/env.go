package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/stock-screener/internal/report"
	"github.com/sells-group/stock-screener/internal/resilience"
	"github.com/sells-group/stock-screener/internal/store"
)

// appEnv holds the store and report service shared by the build, import and
// serve commands.
type appEnv struct {
	Store  store.Store
	Report *report.Service
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv validates config for mode, opens and migrates the store and builds
// the report service. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	return &appEnv{
		Store: st,
		Report: report.New(st, report.Options{
			SheetName:     cfg.Sheet.SheetName,
			ValuationRows: cfg.Sheet.ValuationRows,
		}),
	}, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	retry := resilience.FromStoreConfig(cfg.Store.RetryAttempts, cfg.Store.RetryBackoffMs)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "screener.db"
		}
		st, err := store.NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return st.WithRetry(retry), nil
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
			Retry:    retry,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

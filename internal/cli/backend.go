package cli

import (
	"context"
	"io"

	"todo/internal/backend/file"
	"todo/internal/backend/googletasks"
	"todo/internal/backend/sqlite"
	"todo/internal/config"
	"todo/internal/store"
)

// OpenStore opens a store over the backend selected in cfg.
func OpenStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	p, err := openProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, p)
	if err != nil {
		if c, ok := p.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return st, nil
}

func openProvider(ctx context.Context, cfg *config.Config) (store.Provider, error) {
	logger := cfg.Logger()

	switch cfg.BackendName() {
	case config.BackendSQLite:
		logger.Printf("backend sqlite at %s", cfg.DataPath())
		return sqlite.Open(ctx, cfg.DataPath())
	case config.BackendGoogleTasks:
		logger.Printf("backend googletasks list %q", cfg.List())
		return googletasks.New(ctx, cfg)
	default:
		logger.Printf("backend file at %s", cfg.DataPath())
		return file.New(cfg.DataPath()), nil
	}
}

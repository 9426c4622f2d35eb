package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leengari/table-algebra/internal/config"
	"github.com/leengari/table-algebra/internal/domain/transaction"
	"github.com/leengari/table-algebra/internal/logging"
	"github.com/leengari/table-algebra/internal/manager"
	"github.com/leengari/table-algebra/internal/storage"
)

// session is one loaded database and one transaction over it.
type session struct {
	logger  *slog.Logger
	db      *storage.Database
	tx      *transaction.Transaction
	tables  *manager.TableManager
	closeFn func()
}

func openSession(ctx context.Context, cfg config.Config) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeFn, err := logging.SetupLogger(cfg)
	if err != nil {
		return nil, err
	}

	db, err := storage.LoadDatabase(ctx, cfg.DataDir, logger, cfg.NameCacheSize,
		storage.WithIgnoreIdentifierCase(cfg.IgnoreIdentifierCase))
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to load database: %w", err)
	}

	tx := transaction.New(db)
	tm := manager.New(tx,
		manager.WithProvider(manager.NewSystemTablesProvider(db)),
		manager.WithIgnoreCase(cfg.IgnoreIdentifierCase),
		manager.WithLogger(logger),
	)
	tm.AddObserver(manager.NewLoggingObserver(logger))

	return &session{logger: logger, db: db, tx: tx, tables: tm, closeFn: closeFn}, nil
}

func (s *session) Close() {
	s.tx.Close()
	s.logger.Debug("transaction closed",
		slog.String("tx_id", s.tx.ID),
		slog.Int("changes", len(s.tx.Changes)))
	s.closeFn()
}

package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"markread_demo/internal/config"
	"markread_demo/internal/repository"
	"markread_demo/internal/store/memory"
	"markread_demo/internal/store/mysql"
)

// NewStore returns the seeded in-memory store unless a MySQL DSN is configured.
func NewStore(cfg *config.Config, logger *zap.Logger) (repository.NotificationRepository, error) {
	if cfg.MySQLDSN == "" {
		logger.Info("using in-memory notification store")
		return memory.New(logger), nil
	}
	sqlDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Error("mysql open failed", zap.Error(err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("mysql ping failed", zap.Error(err))
		_ = sqlDB.Close()
		return nil, err
	}

	store := mysql.New(sqlDB, logger)
	if err := store.Seed(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("using mysql notification store")
	return store, nil
}

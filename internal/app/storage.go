// Package app wires storage, services and HTTP handlers from configuration.
// It is shared by the API server and the rentctl operator tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/handler"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/infrastructure/redis"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/reliability/retry"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/repository"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/repository/memory"
	"github.com/Spectronyx/rent-manager-app-sub000/pkg/config"
	"github.com/Spectronyx/rent-manager-app-sub000/pkg/database"
)

// Storage holds one implementation of every repository plus the
// generation lock
type Storage struct {
	Users     domain.UserRepository
	Buildings domain.BuildingRepository
	Rooms     domain.RoomRepository
	Tenants   domain.TenantRepository
	Bills     domain.BillRepository
	Payments  domain.PaymentRepository
	Expenses  domain.ExpenseRepository
	Locker    domain.Locker

	// Checks probe the backing stores for /readyz
	Checks map[string]handler.Check

	closers []func() error
}

// OpenStorage connects the configured driver. Postgres is retried while the
// database comes up and migrated before use. With a Redis URL the
// generation lock is shared across instances; otherwise it is process-local.
func OpenStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Storage, error) {
	s := &Storage{Checks: map[string]handler.Check{}}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn("using in-memory storage; data is lost on restart")
		s.Users = memory.NewUserRepository()
		s.Buildings = memory.NewBuildingRepository()
		s.Rooms = memory.NewRoomRepository()
		s.Tenants = memory.NewTenantRepository()
		s.Bills = memory.NewBillRepository()
		s.Payments = memory.NewPaymentRepository()
		s.Expenses = memory.NewExpenseRepository()

	case config.StoragePostgres:
		pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect postgres",
			func(ctx context.Context) (*database.ConnectionPool, error) {
				return database.NewConnectionPool(ctx, database.DefaultConfig(cfg.DatabaseURL), log)
			})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		db := pool.GetDB()
		if err := database.Migrate(ctx, db, log); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		s.Users = repository.NewPostgresUserRepository(db, log)
		s.Buildings = repository.NewPostgresBuildingRepository(db, log)
		s.Rooms = repository.NewPostgresRoomRepository(db, log)
		s.Tenants = repository.NewPostgresTenantRepository(db, log)
		s.Bills = repository.NewPostgresBillRepository(db, log)
		s.Payments = repository.NewPostgresPaymentRepository(db, log)
		s.Expenses = repository.NewPostgresExpenseRepository(db, log)
		s.Checks["database"] = pool.Health

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.RedisURL == "" {
		s.Locker = memory.NewLocker()
		return s, nil
	}
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.closers = append(s.closers, client.Close)
	s.Locker = redis.NewLocker(client, log)
	s.Checks["redis"] = client.Ping
	log.Info("generation lock backed by redis")
	return s, nil
}

// Close releases every connection opened by OpenStorage
func (s *Storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

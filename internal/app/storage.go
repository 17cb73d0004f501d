package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"parcel-dispatch/internal/config"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/repository"
	"parcel-dispatch/internal/repository/memory"
	"parcel-dispatch/internal/service/dispatch"
	"parcel-dispatch/internal/service/location"
	"parcel-dispatch/internal/service/orders"
)

// Storage is the persistence shared by every service.
type Storage interface {
	orders.Store
	dispatch.Store
	location.Store
	SetAvailability(ctx context.Context, courierID uuid.UUID, status domain.AvailabilityStatus, maxOrders *int, at time.Time) (*domain.CourierAvailability, error)
}

var (
	_ Storage = (*repository.Store)(nil)
	_ Storage = (*memory.Store)(nil)
)

type storageOut struct {
	dig.Out
	Store Storage
	// Pool is nil with the in-memory driver.
	Pool *pgxpool.Pool
}

func storageProvider(dbConnect dbConnectFunc) func(context.Context, *config.Config, logx.Logger) (storageOut, error) {
	return func(ctx context.Context, cfg *config.Config, logger logx.Logger) (storageOut, error) {
		switch cfg.Storage {
		case config.StorageMemory:
			logger.Warn("using in-memory storage, state is lost on restart",
				logx.String("event", "storage_memory"),
			)
			return storageOut{Store: memory.New()}, nil
		case config.StoragePostgres:
			pool, err := dbConnect(ctx, logger, cfg.DB.DSN(), dbConnectRetries, dbConnectDelay)
			if err != nil {
				return storageOut{}, err
			}
			if err := repository.Migrate(ctx, pool); err != nil {
				pool.Close()
				return storageOut{}, fmt.Errorf("migrate: %w", err)
			}
			return storageOut{Store: repository.NewStore(pool), Pool: pool}, nil
		default:
			return storageOut{}, fmt.Errorf("unknown storage driver %q", cfg.Storage)
		}
	}
}

// Package app wires configuration into concrete adapters. It is shared by
// the server and the routectl CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-timing-service/internal/adapters/cache"
	"route-timing-service/internal/adapters/directions"
	"route-timing-service/internal/adapters/notify"
	"route-timing-service/internal/adapters/repositories"
	"route-timing-service/internal/config"
	"route-timing-service/internal/platform/db"
	"route-timing-service/internal/ports"
	"route-timing-service/internal/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Storage holds the open persistence handles. The SQLite database always
// backs the directory; the route store follows cfg.StoreDriver.
type Storage struct {
	SQLite    *sql.DB
	Postgres  *sql.DB
	Redis     *redis.Client
	Directory ports.Directory
	Routes    ports.RouteStore
	Geocodes  ports.GeocodeCache
}

// OpenStorage opens every database the configured drivers need and makes
// sure their schemas exist.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	sqlite, err := db.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	s := &Storage{SQLite: sqlite}

	if err := repositories.InitSchema(ctx, sqlite); err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Directory = repositories.NewSqliteDirectory(sqlite, logger)
	s.Geocodes = cache.NewSqliteGeocodeCache(sqlite, logger)

	switch cfg.StoreDriver {
	case "postgres":
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Postgres = pg
		if err := repositories.InitPostgresSchema(ctx, pg); err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Routes = repositories.NewSQLRouteStore(pg, logger)
		s.Geocodes = cache.NewSQLGeocodeCache(pg, logger)

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		s.Redis = client
		if err := client.Ping(ctx).Err(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open storage: ping redis %s: %w", cfg.RedisAddr, err)
		}
		s.Routes = repositories.NewRedisRouteStore(client, cfg.RedisPrefix, logger)

	default:
		s.Routes = repositories.NewSqliteRouteStore(sqlite, logger)
	}

	return s, nil
}

func (s *Storage) Close() error {
	var errs []error
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	if s.Postgres != nil {
		errs = append(errs, s.Postgres.Close())
	}
	if s.SQLite != nil {
		errs = append(errs, s.SQLite.Close())
	}
	return errors.Join(errs...)
}

// NewGateway builds the configured directions provider.
func NewGateway(cfg *config.Config, geocodes ports.GeocodeCache, logger *zap.Logger) (ports.DirectionsGateway, error) {
	dc := directions.Config{
		Timeout:   cfg.DirectionsTimeout,
		RateLimit: cfg.DirectionsRateLimit,
		Logger:    logger,
	}

	switch cfg.DirectionsProvider {
	case "ors":
		dc.APIKey = cfg.ORSAPIKey
		gw, err := directions.NewORSGateway(dc, geocodes)
		if err != nil {
			return nil, fmt.Errorf("new gateway: %w", err)
		}
		return gw, nil
	default:
		dc.APIKey = cfg.GoogleMapsAPIKey
		gw, err := directions.NewGoogleGateway(dc)
		if err != nil {
			return nil, fmt.Errorf("new gateway: %w", err)
		}
		return gw, nil
	}
}

// NewDayRoutes assembles the day route facade. gateway may be nil for
// callers that only read or edit stop sequences.
func NewDayRoutes(cfg *config.Config, s *Storage, gateway ports.DirectionsGateway, logger *zap.Logger) (*services.DayRoutes, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	orch := services.NewOrchestrator(gateway, notify.NewLogNotifier(logger), cfg.ServiceDurations(),
		services.WithLogger(logger))

	return &services.DayRoutes{
		Directory:    s.Directory,
		Store:        s.Routes,
		Orchestrator: orch,
		HomeAddress:  cfg.HomeAddress,
		Location:     loc,
		Logger:       logger,
	}, nil
}

// Seed loads the seed file into the directory when path is set.
func Seed(ctx context.Context, cfg *config.Config, s *Storage, path string) error {
	if path == "" {
		return nil
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if err := repositories.SeedFromFile(ctx, s.SQLite, path, loc); err != nil {
		return fmt.Errorf("seed %q: %w", path, err)
	}
	return nil
}

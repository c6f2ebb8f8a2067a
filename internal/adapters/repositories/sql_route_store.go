package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/platform/obs"
	"route-timing-service/internal/ports"

	"go.uber.org/zap"
)

// SQLRouteStore is the Postgres implementation of the RouteStore port.
type SQLRouteStore struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewSQLRouteStore(db *sql.DB, logger *zap.Logger) *SQLRouteStore {
	return &SQLRouteStore{DB: db, Logger: logger}
}

func (s *SQLRouteStore) Load(ctx context.Context, day string) (_ domain.SavedRoute, err error) {
	defer obs.Time(ctx, s.Logger, "routes.postgres.Load", ports.ErrRouteNotFound)(&err)

	if s.DB == nil {
		return nil, errors.New("sql route store: DB is nil")
	}

	var raw []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT stops_json
	FROM saved_routes
	WHERE route_date = $1;
	`, day).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load route %s: %w", day, err)
	}

	return decodeRoute(day, raw)
}

func (s *SQLRouteStore) Save(ctx context.Context, day string, route domain.SavedRoute) (err error) {
	defer obs.Time(ctx, s.Logger, "routes.postgres.Save")(&err)

	if s.DB == nil {
		return errors.New("sql route store: DB is nil")
	}

	b, err := encodeRoute(day, route)
	if err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO saved_routes (route_date, stops_json, updated_at)
	VALUES ($1, $2::jsonb, now())
	ON CONFLICT (route_date) DO UPDATE
	SET stops_json = EXCLUDED.stops_json,
		updated_at = EXCLUDED.updated_at;
	`, day, string(b)); err != nil {
		return fmt.Errorf("save route %s: %w", day, err)
	}
	return nil
}

func (s *SQLRouteStore) Clear(ctx context.Context, day string) (err error) {
	defer obs.Time(ctx, s.Logger, "routes.postgres.Clear")(&err)

	if s.DB == nil {
		return errors.New("sql route store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM saved_routes WHERE route_date = $1;`, day); err != nil {
		return fmt.Errorf("clear route %s: %w", day, err)
	}
	return nil
}

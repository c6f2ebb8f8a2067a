package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/platform/obs"
	"route-timing-service/internal/ports"
	"time"

	"go.uber.org/zap"
)

// SqliteRouteStore persists saved routes as JSON documents keyed by day.
type SqliteRouteStore struct {
	DB     *sql.DB
	Logger *zap.Logger
	now    func() time.Time
}

func NewSqliteRouteStore(db *sql.DB, logger *zap.Logger) *SqliteRouteStore {
	return &SqliteRouteStore{DB: db, Logger: logger, now: time.Now}
}

func (s *SqliteRouteStore) Load(ctx context.Context, day string) (_ domain.SavedRoute, err error) {
	defer obs.Time(ctx, s.Logger, "routes.sqlite.Load", ports.ErrRouteNotFound)(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite route store: DB is nil")
	}

	var raw string
	err = s.DB.QueryRowContext(ctx, `
	SELECT stops_json
	FROM saved_routes
	WHERE route_date = ?;
	`, day).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load route %s: %w", day, err)
	}

	return decodeRoute(day, []byte(raw))
}

func (s *SqliteRouteStore) Save(ctx context.Context, day string, route domain.SavedRoute) (err error) {
	defer obs.Time(ctx, s.Logger, "routes.sqlite.Save")(&err)

	if s.DB == nil {
		return errors.New("sqlite route store: DB is nil")
	}

	b, err := encodeRoute(day, route)
	if err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO saved_routes (route_date, stops_json, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(route_date) DO UPDATE SET
		stops_json = excluded.stops_json,
		updated_at = excluded.updated_at;
	`, day, string(b), s.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save route %s: %w", day, err)
	}
	return nil
}

func (s *SqliteRouteStore) Clear(ctx context.Context, day string) (err error) {
	defer obs.Time(ctx, s.Logger, "routes.sqlite.Clear")(&err)

	if s.DB == nil {
		return errors.New("sqlite route store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM saved_routes WHERE route_date = ?;`, day); err != nil {
		return fmt.Errorf("clear route %s: %w", day, err)
	}
	return nil
}

func encodeRoute(day string, route domain.SavedRoute) ([]byte, error) {
	if route == nil {
		route = domain.SavedRoute{}
	}
	b, err := json.Marshal(route)
	if err != nil {
		return nil, fmt.Errorf("encode route %s: %w", day, err)
	}
	return b, nil
}

func decodeRoute(day string, b []byte) (domain.SavedRoute, error) {
	var route domain.SavedRoute
	if err := json.Unmarshal(b, &route); err != nil {
		return nil, fmt.Errorf("decode route %s: %w", day, err)
	}
	return route, nil
}

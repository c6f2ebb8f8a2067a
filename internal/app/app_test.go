package app

import (
	"context"
	"os"
	"path/filepath"
	"route-timing-service/internal/adapters/directions"
	"route-timing-service/internal/adapters/repositories"
	"route-timing-service/internal/config"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, overrides map[string]any) *config.Config {
	t.Helper()
	base := map[string]any{
		"db_path":      filepath.Join(t.TempDir(), "app.db"),
		"home_address": "1 Home St",
		"timezone":     "UTC",
	}
	for k, v := range overrides {
		base[k] = v
	}
	cfg, err := config.Load(base)
	require.NoError(t, err)
	return cfg
}

func TestOpenStorageSqlite(t *testing.T) {
	cfg := testConfig(t, nil)
	ctx := context.Background()

	s, err := OpenStorage(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.IsType(t, &repositories.SqliteRouteStore{}, s.Routes)

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("contacts:\n  - id: c1\n    name: A\n    address: 2 St\n"), 0o600))
	require.NoError(t, Seed(ctx, cfg, s, seed))

	contacts, err := s.Directory.ListContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)

	routes, err := NewDayRoutes(cfg, s, nil, nil)
	require.NoError(t, err)
	_, stops, err := routes.Stops(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Len(t, stops, 2)
}

func TestOpenStorageRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, map[string]any{"store_driver": "redis", "redis_addr": mr.Addr()})

	s, err := OpenStorage(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.IsType(t, &repositories.RedisRouteStore{}, s.Routes)
}

func TestNewGateway(t *testing.T) {
	cfg := testConfig(t, map[string]any{"google_maps_api_key": "g"})
	gw, err := NewGateway(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &directions.GoogleGateway{}, gw)

	cfg = testConfig(t, map[string]any{"directions_provider": "ors", "ors_api_key": "o"})
	gw, err = NewGateway(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &directions.ORSGateway{}, gw)

	cfg = testConfig(t, map[string]any{"google_maps_api_key": ""})
	_, err = NewGateway(cfg, nil, nil)
	require.Error(t, err, "missing api key")
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"route-timing-service/internal/api/dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
contacts:
  - id: c1
    name: Ada
    address: 10 A St
jobs:
  - id: j1
    contact_id: c1
    history:
      - status: Scheduled
        at: "2026-03-02 09:00"
        recorded_at: "2026-02-27 10:00"
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoutectl(t *testing.T) {
	t.Setenv("HOME_ADDRESS", "1 Home St")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("STORE_DRIVER", "sqlite")

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")
	seed := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(seedYAML), 0o600))

	out, err := runCLI(t, "--db", dbPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "schema ready")

	out, err = runCLI(t, "--db", dbPath, "seed", "--file", seed)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 contacts, 0 suppliers, 1 jobs")

	out, err = runCLI(t, "--db", dbPath, "stops", "--date", "2026-03-02")
	require.NoError(t, err)
	var res dto.StopsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Stops, 3)
	assert.Equal(t, "job-j1-1", res.Stops[1].ID)

	out, err = runCLI(t, "--db", dbPath, "route", "show", "--date", "2026-03-02")
	require.NoError(t, err)
	assert.Contains(t, out, "no saved route")

	out, err = runCLI(t, "--db", dbPath, "route", "clear", "--date", "2026-03-02")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared saved route for 2026-03-02")

	_, err = runCLI(t, "--db", dbPath, "route", "clear", "--date", "March 2")
	require.Error(t, err)
}

func TestRoutectlSeedRequiresFile(t *testing.T) {
	t.Setenv("SEED_PATH", "")
	_, err := runCLI(t, "--db", filepath.Join(t.TempDir(), "cli.db"), "seed")
	require.Error(t, err)
}

package repositories

import (
	"context"
	"os"
	"path/filepath"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSeed = `
contacts:
  - id: c1
    name: Ada Lovelace
    address: 12 Analytical Rd
  - id: c2
    name: Grace Hopper
    address: 4 Compiler Ct
suppliers:
  - id: s1
    name: Lumber Yard
    address: 77 Timber Ln
jobs:
  - id: j1
    contact_id: c1
    title: Deck repair
    history:
      - status: Estimate Scheduled
        at: "2026-03-01 09:00"
        recorded_at: "2026-02-20 10:00"
      - status: Scheduled
        at: "2026-03-02 10:30"
        duration_minutes: 90
        recorded_at: "2026-03-01 12:00"
  - id: j2
    contact_id: c2
    title: Quote
    history:
      - status: Quote Sent
        recorded_at: "2026-02-21T08:00:00Z"
`

func TestSeedAndListDirectory(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	loc := time.UTC

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlSeed), 0o600))
	require.NoError(t, SeedFromFile(ctx, conn, path, loc))

	dir := NewSqliteDirectory(conn, nil)

	contacts, err := dir.ListContacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Contact{
		{ID: "c1", Name: "Ada Lovelace", Address: "12 Analytical Rd"},
		{ID: "c2", Name: "Grace Hopper", Address: "4 Compiler Ct"},
	}, contacts)

	suppliers, err := dir.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 1)

	sup, err := dir.GetSupplier(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "77 Timber Ln", sup.Address)

	_, err = dir.GetSupplier(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrEntityNotFound)

	jobs, err := dir.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	j1 := jobs[0]
	assert.Equal(t, "j1", j1.ID)
	require.Len(t, j1.History, 2)
	assert.Equal(t, domain.StatusScheduled, j1.History[1].Status)
	require.NotNil(t, j1.History[1].At)
	assert.True(t, j1.History[1].At.Equal(time.Date(2026, 3, 2, 10, 30, 0, 0, loc)))
	require.NotNil(t, j1.History[1].DurationMinutes)
	assert.Equal(t, 90, *j1.History[1].DurationMinutes)
	assert.Nil(t, j1.History[0].DurationMinutes)

	j2 := jobs[1]
	require.Len(t, j2.History, 1)
	assert.Nil(t, j2.History[0].At)
}

func TestSeedReplacesHistory(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	first := Seed{
		Contacts: []EntitySeed{{ID: "c1", Name: "A", Address: "1 St"}},
		Jobs: []JobSeed{{ID: "j1", ContactID: "c1", History: []StatusSeed{
			{Status: "Lead", RecordedAt: "2026-01-01 08:00"},
			{Status: "Scheduled", At: "2026-01-02 09:00", RecordedAt: "2026-01-01 09:00"},
		}}},
	}
	require.NoError(t, ApplySeed(ctx, conn, first, time.UTC))

	second := first
	second.Jobs = []JobSeed{{ID: "j1", ContactID: "c1", History: []StatusSeed{
		{Status: "Paid", RecordedAt: "2026-01-05 08:00"},
	}}}
	require.NoError(t, ApplySeed(ctx, conn, second, time.UTC))

	jobs, err := NewSqliteDirectory(conn, nil).ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Len(t, jobs[0].History, 1)
	assert.Equal(t, domain.StatusPaid, jobs[0].History[0].Status)
}

func TestSeedJSON(t *testing.T) {
	conn := openTestDB(t)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"contacts": [{"id": "c1", "name": "A", "address": "1 St"}],
		"suppliers": [{"id": "s1", "name": "Depot", "address": "2 St"}]
	}`), 0o600))

	require.NoError(t, SeedFromFile(context.Background(), conn, path, nil))

	sup, err := NewSqliteDirectory(conn, nil).GetSupplier(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Depot", sup.Name)
}

func TestSeedRejectsInvalid(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := ApplySeed(ctx, conn, Seed{Contacts: []EntitySeed{{Name: "no id"}}}, time.UTC)
	require.Error(t, err)

	err = ApplySeed(ctx, conn, Seed{Jobs: []JobSeed{{ID: "j1", ContactID: "c1", History: []StatusSeed{
		{Status: "Lead", RecordedAt: "yesterday"},
	}}}}, time.UTC)
	require.Error(t, err)
}

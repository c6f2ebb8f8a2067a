package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"route-timing-service/internal/adapters/directions"
	"route-timing-service/internal/adapters/repositories"
	"route-timing-service/internal/api/dto"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/platform/db"
	"route-timing-service/internal/services"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (http.Handler, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(ctx, conn))

	require.NoError(t, repositories.ApplySeed(ctx, conn, repositories.Seed{
		Contacts:  []repositories.EntitySeed{{ID: "c1", Name: "Ada", Address: "B"}},
		Suppliers: []repositories.EntitySeed{{ID: "s1", Name: "Depot", Address: "S"}},
		Jobs: []repositories.JobSeed{{ID: "j1", ContactID: "c1", History: []repositories.StatusSeed{
			{Status: "Scheduled", At: "2026-03-02 09:00", RecordedAt: "2026-02-20 10:00"},
		}}},
	}, time.UTC))

	gw := directions.NewMockGateway([]directions.MockPair{
		{From: "A", To: "B", Meters: 8000, Seconds: 20 * 60},
		{From: "B", To: "A", Meters: 9000, Seconds: 25 * 60},
		{From: "B", To: "S", Meters: 1000, Seconds: 5 * 60},
		{From: "S", To: "A", Meters: 1000, Seconds: 5 * 60},
	})
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	routes := &services.DayRoutes{
		Directory: repositories.NewSqliteDirectory(conn, nil),
		Store:     repositories.NewSqliteRouteStore(conn, nil),
		Orchestrator: services.NewOrchestrator(gw, nil, domain.DefaultServiceDurations(),
			services.WithClock(func() time.Time { return now })),
		HomeAddress: "A",
		Location:    time.UTC,
	}
	return NewRouter(routes, nil), conn
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestStopsEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/routes/2026-03-02/stops", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.StopsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Stops, 3)
	assert.Equal(t, "home", res.Stops[0].Type)
	assert.Equal(t, "job-j1-1", res.Stops[1].ID)
	assert.Equal(t, "09:00", res.Stops[1].AppointmentTime)
	assert.Equal(t, "Ada", res.Stops[1].ContactName)

	rec = do(t, h, http.MethodGet, "/routes/tomorrow/stops", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/routes/2026-03-02/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.MetricsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "success", res.State)
	require.NotNil(t, res.LeaveBy)
	assert.Equal(t, "08:40", *res.LeaveBy)
	assert.Equal(t, "09:00", res.Metrics["job-j1-1"].ETA)
	assert.Equal(t, "10:25", res.Metrics[domain.HomeEndID].ETA, "60 minute default job duration")
	assert.Equal(t, 2700, res.Totals.TimeSeconds)
	assert.Empty(t, res.Notices)
}

func TestMetricsEndpointWithoutAppointments(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/routes/2026-03-05/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "leave_by")
	assert.Nil(t, raw["leave_by"])
}

func TestRouteEditingEndpoints(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/routes/2026-03-02/suppliers", `{"supplier_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.StopsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Stops, 4)
	assert.Equal(t, "supplier", res.Stops[2].Type, "omitted position goes before the final home stop")
	supplierID := res.Stops[2].ID

	rec = do(t, h, http.MethodGet, "/routes/2026-03-02/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var m dto.MetricsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "10:05", m.Metrics[supplierID].ETA)

	rec = do(t, h, http.MethodPost, "/routes/2026-03-02/suppliers", `{"supplier_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/routes/2026-03-02/places", `{"name":"Lunch","address":"L","position":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/routes/2026-03-02/stops/"+supplierID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Stops, 4)

	rec = do(t, h, http.MethodDelete, "/routes/2026-03-02/stops/"+domain.HomeEndID, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodDelete, "/routes/2026-03-02/stops/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/routes/2026-03-02/saved", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/routes/2026-03-02/stops", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Stops, 3)
}

func TestSaveRouteEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	body := `[
		{"type":"home","label":"Start"},
		{"type":"supplier","supplierId":"s1","id":"x1"},
		{"type":"job","jobId":"j1","contactId":"c1"},
		{"type":"home","label":"End"}
	]`
	rec := do(t, h, http.MethodPut, "/routes/2026-03-02/saved", body)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/routes/2026-03-02/stops", "")
	var res dto.StopsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Stops, 4)
	assert.Equal(t, "x1", res.Stops[1].ID)

	rec = do(t, h, http.MethodPut, "/routes/2026-03-02/saved", `[{"type":"job","jobId":"j1"}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/routes/2026-03-02/saved", `[{"type":"home","label":"Start","extra":1}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/routes/2026-03-02/saved", `[
		{"type":"home","label":"Start"},
		{"type":"supplier","supplierId":"s1","id":"x1"},
		{"type":"place","id":"x1","address":"B"},
		{"type":"home","label":"End"}
	]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate stop id")

	rec = do(t, h, http.MethodPut, "/routes/2026-03-02/saved", `[
		{"type":"home","label":"Start"},
		{"type":"home","label":"End"},
		{"type":"supplier","supplierId":"s1","id":"x1"},
		{"type":"home","label":"End"}
	]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/platform/obs"
	"route-timing-service/internal/ports"
	"time"

	"go.uber.org/zap"
)

// SQLite-backed implementation of the Directory port.
type SqliteDirectory struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewSqliteDirectory(db *sql.DB, logger *zap.Logger) *SqliteDirectory {
	return &SqliteDirectory{DB: db, Logger: logger}
}

// Return every job with its status history in recorded order.
func (s *SqliteDirectory) ListJobs(ctx context.Context) (_ []domain.Job, err error) {
	defer obs.Time(ctx, s.Logger, "directory.ListJobs")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite directory: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, contact_id, title
	FROM jobs
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: query jobs table: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0, 64)
	index := make(map[string]int)
	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(&j.ID, &j.ContactID, &j.Title); err != nil {
			return nil, fmt.Errorf("list jobs: scan row: %w", err)
		}
		index[j.ID] = len(jobs)
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: row iteration: %w", err)
	}

	events, err := s.DB.QueryContext(ctx, `
	SELECT job_id, status, at, duration_minutes, recorded_at
	FROM job_status_events
	ORDER BY job_id, seq;
	`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: query job_status_events table: %w", err)
	}
	defer events.Close()

	for events.Next() {
		var (
			jobID, status, recorded string
			at                      sql.NullString
			dur                     sql.NullInt64
		)
		if err := events.Scan(&jobID, &status, &at, &dur, &recorded); err != nil {
			return nil, fmt.Errorf("list jobs: scan event: %w", err)
		}
		i, ok := index[jobID]
		if !ok {
			continue
		}

		ev := domain.StatusEvent{Status: domain.JobStatus(status)}
		if ev.RecordedAt, err = time.Parse(time.RFC3339, recorded); err != nil {
			return nil, fmt.Errorf("list jobs: job %q: recorded_at: %w", jobID, err)
		}
		if at.Valid {
			t, err := time.Parse(time.RFC3339, at.String)
			if err != nil {
				return nil, fmt.Errorf("list jobs: job %q: at: %w", jobID, err)
			}
			ev.At = &t
		}
		if dur.Valid {
			m := int(dur.Int64)
			ev.DurationMinutes = &m
		}
		jobs[i].History = append(jobs[i].History, ev)
	}
	if err := events.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: event iteration: %w", err)
	}

	return jobs, nil
}

func (s *SqliteDirectory) ListContacts(ctx context.Context) (_ []domain.Contact, err error) {
	defer obs.Time(ctx, s.Logger, "directory.ListContacts")(&err)

	rows, err := s.queryEntities(ctx, "contacts", "")
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out := make([]domain.Contact, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Contact{ID: r.id, Name: r.name, Address: r.address})
	}
	return out, nil
}

func (s *SqliteDirectory) ListSuppliers(ctx context.Context) (_ []domain.Supplier, err error) {
	defer obs.Time(ctx, s.Logger, "directory.ListSuppliers")(&err)

	rows, err := s.queryEntities(ctx, "suppliers", "")
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	out := make([]domain.Supplier, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Supplier{ID: r.id, Name: r.name, Address: r.address})
	}
	return out, nil
}

// GetSupplier returns ports.ErrEntityNotFound for an unknown id.
func (s *SqliteDirectory) GetSupplier(ctx context.Context, id string) (_ domain.Supplier, err error) {
	defer obs.Time(ctx, s.Logger, "directory.GetSupplier")(&err)

	rows, err := s.queryEntities(ctx, "suppliers", id)
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("get supplier %q: %w", id, err)
	}
	if len(rows) == 0 {
		return domain.Supplier{}, fmt.Errorf("get supplier %q: %w", id, ports.ErrEntityNotFound)
	}
	r := rows[0]
	return domain.Supplier{ID: r.id, Name: r.name, Address: r.address}, nil
}

type entityRow struct {
	id, name, address string
}

// queryEntities reads (id, name, address) rows from table, optionally
// restricted to one id. table is never caller input.
func (s *SqliteDirectory) queryEntities(ctx context.Context, table, id string) ([]entityRow, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite directory: DB is nil")
	}

	q := fmt.Sprintf(`SELECT id, name, address FROM %s`, table)
	var args []any
	if id != "" {
		q += ` WHERE id = ?`
		args = append(args, id)
	}
	q += ` ORDER BY id;`

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s table: %w", table, err)
	}
	defer rows.Close()

	var out []entityRow
	for rows.Next() {
		var r entityRow
		if err := rows.Scan(&r.id, &r.name, &r.address); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s row iteration: %w", table, err)
	}
	return out, nil
}

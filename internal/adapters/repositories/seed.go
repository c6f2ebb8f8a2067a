package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Seed is the on-disk shape of a directory seed file (JSON or YAML).
type Seed struct {
	Contacts  []EntitySeed `json:"contacts" yaml:"contacts"`
	Suppliers []EntitySeed `json:"suppliers" yaml:"suppliers"`
	Jobs      []JobSeed    `json:"jobs" yaml:"jobs"`
}

type EntitySeed struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
}

type JobSeed struct {
	ID        string       `json:"id" yaml:"id"`
	ContactID string       `json:"contact_id" yaml:"contact_id"`
	Title     string       `json:"title" yaml:"title"`
	History   []StatusSeed `json:"history" yaml:"history"`
}

// StatusSeed times are RFC 3339 or "2006-01-02 15:04" in the seed location.
type StatusSeed struct {
	Status          string `json:"status" yaml:"status"`
	At              string `json:"at,omitempty" yaml:"at,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
	RecordedAt      string `json:"recorded_at" yaml:"recorded_at"`
}

var seedTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"}

func parseSeedTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range seedTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// ReadSeed parses a seed file, choosing YAML or JSON by extension.
func ReadSeed(path string) (Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %q: %w", path, err)
	}

	var s Seed
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &s); err != nil {
			return Seed{}, fmt.Errorf("read seed: parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(b, &s); err != nil {
			return Seed{}, fmt.Errorf("read seed: parse json: %w", err)
		}
	}
	return s, nil
}

// SeedFromFile loads contacts, suppliers and jobs from path into the SQLite
// directory tables. Existing rows with the same ids are replaced, along with
// the status history of every seeded job.
func SeedFromFile(ctx context.Context, db *sql.DB, path string, loc *time.Location) error {
	s, err := ReadSeed(path)
	if err != nil {
		return err
	}
	return ApplySeed(ctx, db, s, loc)
}

func ApplySeed(ctx context.Context, db *sql.DB, s Seed, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	for i, c := range s.Contacts {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("seed: contact at index %d: id cannot be empty", i)
		}
	}
	for i, sp := range s.Suppliers {
		if strings.TrimSpace(sp.ID) == "" {
			return fmt.Errorf("seed: supplier at index %d: id cannot be empty", i)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range s.Contacts {
		if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO contacts (id, name, address)
		VALUES (?, ?, ?);
		`, c.ID, c.Name, strings.TrimSpace(c.Address)); err != nil {
			return fmt.Errorf("seed: insert contact id=%q: %w", c.ID, err)
		}
	}

	for _, sp := range s.Suppliers {
		if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO suppliers (id, name, address)
		VALUES (?, ?, ?);
		`, sp.ID, sp.Name, strings.TrimSpace(sp.Address)); err != nil {
			return fmt.Errorf("seed: insert supplier id=%q: %w", sp.ID, err)
		}
	}

	for i, j := range s.Jobs {
		if strings.TrimSpace(j.ID) == "" || strings.TrimSpace(j.ContactID) == "" {
			return fmt.Errorf("seed: job at index %d: id and contact_id are required", i)
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO jobs (id, contact_id, title)
		VALUES (?, ?, ?);
		`, j.ID, j.ContactID, j.Title); err != nil {
			return fmt.Errorf("seed: insert job id=%q: %w", j.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM job_status_events WHERE job_id = ?;`, j.ID); err != nil {
			return fmt.Errorf("seed: reset history job id=%q: %w", j.ID, err)
		}

		for seq, ev := range j.History {
			var at any
			if ev.At != "" {
				t, err := parseSeedTime(ev.At, loc)
				if err != nil {
					return fmt.Errorf("seed: job id=%q event %d: at: %w", j.ID, seq, err)
				}
				at = t.Format(time.RFC3339)
			}
			var dur any
			if ev.DurationMinutes != nil {
				dur = *ev.DurationMinutes
			}
			recorded, err := parseSeedTime(ev.RecordedAt, loc)
			if err != nil {
				return fmt.Errorf("seed: job id=%q event %d: recorded_at: %w", j.ID, seq, err)
			}

			if _, err := tx.ExecContext(ctx, `
			INSERT INTO job_status_events (job_id, seq, status, at, duration_minutes, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?);
			`, j.ID, seq, ev.Status, at, dur, recorded.Format(time.RFC3339)); err != nil {
				return fmt.Errorf("seed: insert event job id=%q seq=%d: %w", j.ID, seq, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}
	return nil
}

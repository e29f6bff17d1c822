// Package storage persists an audit trail of extraction runs. It is an
// optional component: when no database URL is configured the service runs
// without it and the API records nothing.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobsift/jdextract/models"
	"github.com/jobsift/jdextract/textsig"
)

// AuditEntry is one recorded extraction run.
type AuditEntry struct {
	URL         string
	FinalURL    string
	Status      models.Status
	Method      string
	HTTPStatus  int
	Duration    time.Duration
	Fingerprint uint64
}

// Recorder is the audit-log capability.
type Recorder interface {
	// Record inserts one run into the audit trail.
	Record(ctx context.Context, e AuditEntry) error

	// RecentDuplicate reports whether a successful run with a
	// near-identical text fingerprint was recorded within the window.
	RecentDuplicate(ctx context.Context, fp uint64, window time.Duration) bool
}

// Postgres is a Recorder backed by a PostgreSQL pool.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres connects to the database at connStr and ensures the audit
// table exists.
func NewPostgres(ctx context.Context, connStr string) (*Postgres, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS extraction_runs (
			id           BIGSERIAL PRIMARY KEY,
			url          TEXT NOT NULL,
			final_url    TEXT NOT NULL,
			status       TEXT NOT NULL,
			method       TEXT,
			http_status  INT,
			duration_ms  BIGINT NOT NULL,
			fingerprint  BIGINT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create audit table: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Ping verifies the connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.db.Close()
}

// Record inserts one audit row. The fingerprint is stored as a signed
// 64-bit value; callers compare with textsig after casting back.
func (p *Postgres) Record(ctx context.Context, e AuditEntry) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO extraction_runs (url, final_url, status, method, http_status, duration_ms, fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.URL, e.FinalURL, string(e.Status), e.Method, e.HTTPStatus,
		e.Duration.Milliseconds(), int64(e.Fingerprint),
	)
	return err
}

// RecentDuplicate reports whether a posting with a near-identical text
// fingerprint was recorded within the window. Errors are reported as no
// match; the audit log never blocks an extraction.
func (p *Postgres) RecentDuplicate(ctx context.Context, fp uint64, window time.Duration) bool {
	rows, err := p.db.Query(ctx, `
		SELECT fingerprint FROM extraction_runs
		WHERE status = $1 AND created_at > NOW() - $2::interval`,
		string(models.StatusSuccess),
		fmt.Sprintf("%d milliseconds", window.Milliseconds()),
	)
	if err != nil {
		slog.Warn("duplicate lookup failed", "error", err)
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var stored int64
		if err := rows.Scan(&stored); err != nil {
			continue
		}
		if textsig.Similar(uint64(stored), fp, textsig.DefaultThreshold) {
			return true
		}
	}
	return false
}

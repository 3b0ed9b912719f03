// Package postgres persists the decision ledger: one row per routed
// intake path. The primary key on path is what makes at-least-once
// intake notifications idempotent across workers.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/autofiler/autofiler/internal/core/domain"
)

type DecisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DecisionRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across watcher/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS decisions (
	path TEXT PRIMARY KEY,
	sha256 TEXT NOT NULL,
	decision TEXT NOT NULL,
	type_id TEXT,
	score DOUBLE PRECISION NOT NULL DEFAULT 0,
	reason TEXT,
	destination TEXT,
	resolved BOOLEAN NOT NULL DEFAULT FALSE,
	decided_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_decision ON decisions(decision);
CREATE INDEX IF NOT EXISTS idx_decisions_decided_at ON decisions(decided_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DecisionRepository) Record(ctx context.Context, rec *domain.DecisionRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO decisions (path, sha256, decision, type_id, score, reason, destination, resolved, decided_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		rec.Path, rec.SHA256, string(rec.Decision), rec.TypeID, rec.Score,
		rec.Reason, rec.Destination, rec.Resolved, rec.DecidedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrConflict, "record decision",
				fmt.Errorf("path %s already decided", rec.Path))
		}
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func (r *DecisionRepository) FindByPath(ctx context.Context, path string) (*domain.DecisionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT path, sha256, decision, type_id, score, reason, destination, resolved, decided_at
FROM decisions
WHERE path = $1
`, path)

	var rec domain.DecisionRecord
	var decision string
	var typeID, reason, destination sql.NullString

	err := row.Scan(&rec.Path, &rec.SHA256, &decision, &typeID, &rec.Score,
		&reason, &destination, &rec.Resolved, &rec.DecidedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "find decision",
				fmt.Errorf("path %s", path))
		}
		return nil, fmt.Errorf("scan decision: %w", err)
	}
	rec.Decision = domain.DecisionKind(decision)
	rec.TypeID = typeID.String
	rec.Reason = reason.String
	rec.Destination = destination.String
	return &rec, nil
}

func (r *DecisionRepository) MarkResolved(ctx context.Context, path, typeID, destination string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE decisions
SET resolved = TRUE, type_id = $2, destination = $3
WHERE path = $1
`, path, typeID, destination)
	if err != nil {
		return fmt.Errorf("update decision resolution: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.WrapError(domain.ErrNotFound, "mark decision resolved",
			fmt.Errorf("path %s", path))
	}
	return nil
}

func (r *DecisionRepository) List(ctx context.Context, limit int) ([]domain.DecisionRecord, error) {
	query := `
SELECT path, sha256, decision, type_id, score, reason, destination, resolved, decided_at
FROM decisions
ORDER BY decided_at DESC
`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+`LIMIT $1`, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []domain.DecisionRecord
	for rows.Next() {
		var rec domain.DecisionRecord
		var decision string
		var typeID, reason, destination sql.NullString
		if err := rows.Scan(&rec.Path, &rec.SHA256, &decision, &typeID, &rec.Score,
			&reason, &destination, &rec.Resolved, &rec.DecidedAt); err != nil {
			return nil, fmt.Errorf("scan decision row: %w", err)
		}
		rec.Decision = domain.DecisionKind(decision)
		rec.TypeID = typeID.String
		rec.Reason = reason.String
		rec.Destination = destination.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

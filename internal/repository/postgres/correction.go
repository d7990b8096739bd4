package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/autoeq/internal/repository"
	"github.com/RMahshie/autoeq/pkg/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS correction_runs (
	id               UUID PRIMARY KEY,
	measurement_keys TEXT[] NOT NULL,
	target_key       TEXT NOT NULL,
	output_key       TEXT,
	status           TEXT NOT NULL,
	point_count      INTEGER NOT NULL DEFAULT 0,
	peak_gain        DOUBLE PRECISION,
	error_message    TEXT,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	completed_at     TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS correction_runs_created_at_idx ON correction_runs (created_at DESC);

CREATE TABLE IF NOT EXISTS correction_curves (
	id         UUID PRIMARY KEY,
	run_id     UUID NOT NULL UNIQUE REFERENCES correction_runs (id) ON DELETE CASCADE,
	points     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);`

const runColumns = `id, measurement_keys, target_key, output_key, status, point_count, peak_gain, error_message, created_at, updated_at, completed_at`

// PostgresCorrectionRepository implements CorrectionRepository for PostgreSQL
type PostgresCorrectionRepository struct {
	db *sql.DB
}

var _ repository.CorrectionRepository = (*PostgresCorrectionRepository)(nil)

// NewPostgresCorrectionRepository creates a new PostgreSQL correction repository
func NewPostgresCorrectionRepository(db *sql.DB) *PostgresCorrectionRepository {
	return &PostgresCorrectionRepository{db: db}
}

// Open connects to databaseURL and verifies the connection
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates the schema if it does not exist
func (r *PostgresCorrectionRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Create inserts a new correction run record
func (r *PostgresCorrectionRepository) Create(ctx context.Context, run *models.CorrectionRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	now := time.Now()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = now
	}

	query := `
		INSERT INTO correction_runs (id, measurement_keys, target_key, output_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		pq.Array(run.MeasurementKeys),
		run.TargetKey,
		run.OutputKey,
		run.Status,
		run.CreatedAt,
		run.UpdatedAt)

	return err
}

// GetByID retrieves a correction run by ID
func (r *PostgresCorrectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CorrectionRun, error) {
	query := `SELECT ` + runColumns + ` FROM correction_runs WHERE id = $1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("correction run %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List retrieves the most recent correction runs
func (r *PostgresCorrectionRepository) List(ctx context.Context, limit int) ([]*models.CorrectionRun, error) {
	query := `SELECT ` + runColumns + ` FROM correction_runs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*models.CorrectionRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// UpdateStatus updates the status of a correction run
func (r *PostgresCorrectionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE correction_runs
		SET status = $1, updated_at = NOW()
		WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

// UpdateError marks a correction run as failed with errorMsg
func (r *PostgresCorrectionRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE correction_runs
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, errorMsg, id)
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

// StoreCurve stores the correction curve and completes its run
func (r *PostgresCorrectionRepository) StoreCurve(ctx context.Context, curve *models.CorrectionCurve, peakGain float64, outputKey *string) error {
	points, err := json.Marshal(curve.Points)
	if err != nil {
		return fmt.Errorf("failed to marshal curve points: %w", err)
	}
	if curve.ID == "" {
		curve.ID = uuid.New().String()
	}
	if curve.CreatedAt.IsZero() {
		curve.CreatedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO correction_curves (id, run_id, points, created_at)
		VALUES ($1, $2, $3, $4)`,
		curve.ID,
		curve.RunID,
		string(points),
		curve.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert curve: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE correction_runs
		SET status = 'completed', point_count = $1, peak_gain = $2, output_key = $3,
		    updated_at = NOW(), completed_at = NOW()
		WHERE id = $4`,
		len(curve.Points),
		peakGain,
		outputKey,
		curve.RunID)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	return tx.Commit()
}

// GetCurve retrieves the correction curve of a run
func (r *PostgresCorrectionRepository) GetCurve(ctx context.Context, runID uuid.UUID) (*models.CorrectionCurve, error) {
	query := `
		SELECT id, run_id, points, created_at
		FROM correction_curves
		WHERE run_id = $1`

	var curve models.CorrectionCurve
	var points []byte

	err := r.db.QueryRowContext(ctx, query, runID).Scan(
		&curve.ID,
		&curve.RunID,
		&points,
		&curve.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("curve for run %s: %w", runID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(points, &curve.Points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal curve points: %w", err)
	}

	return &curve, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.CorrectionRun, error) {
	var run models.CorrectionRun
	var outputKey, errorMsg sql.NullString
	var peakGain sql.NullFloat64
	var completedAt sql.NullTime

	err := row.Scan(
		&run.ID,
		pq.Array(&run.MeasurementKeys),
		&run.TargetKey,
		&outputKey,
		&run.Status,
		&run.PointCount,
		&peakGain,
		&errorMsg,
		&run.CreatedAt,
		&run.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if outputKey.Valid {
		run.OutputKey = &outputKey.String
	}
	if peakGain.Valid {
		run.PeakGain = &peakGain.Float64
	}
	if errorMsg.Valid {
		run.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return &run, nil
}

func requireAffected(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("correction run %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

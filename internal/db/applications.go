package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-match-engine/internal/types"
)

// CreateApplication creates an application record with its first history
// entry in one transaction, so no application ever exists without a trail.
func (db *DB) CreateApplication(ctx context.Context, app *types.ApplicationRecord, note string) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO application_records
		   (job_id, resume_version_id, cover_letter_id, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		app.JobID, app.ResumeVersionID, app.CoverLetterID, app.Status,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create application: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO status_history (application_id, status, note)
		 VALUES ($1, $2, $3)`,
		id, app.Status, note,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to append initial history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit application: %w", err)
	}
	return id, nil
}

// GetApplication retrieves an application record by ID. Returns nil if not found.
func (db *DB) GetApplication(ctx context.Context, appID uuid.UUID) (*types.ApplicationRecord, error) {
	var app types.ApplicationRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_id, resume_version_id, cover_letter_id, status, created_at, updated_at
		 FROM application_records WHERE id = $1`,
		appID,
	).Scan(&app.ID, &app.JobID, &app.ResumeVersionID, &app.CoverLetterID,
		&app.Status, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// ListApplicationsByStatus retrieves applications currently in a status.
func (db *DB) ListApplicationsByStatus(ctx context.Context, status string) ([]types.ApplicationRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_id, resume_version_id, cover_letter_id, status, created_at, updated_at
		 FROM application_records WHERE status = $1 ORDER BY updated_at ASC`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.ApplicationRecord
	for rows.Next() {
		var app types.ApplicationRecord
		if err := rows.Scan(&app.ID, &app.JobID, &app.ResumeVersionID,
			&app.CoverLetterID, &app.Status, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// AppendTransition writes the status update and its history entry in one
// transaction. History rows are insert-only; the status column is the only
// mutable projection.
func (db *DB) AppendTransition(ctx context.Context, appID uuid.UUID, status, note string) (*types.StatusHistoryEntry, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	result, err := tx.Exec(ctx,
		`UPDATE application_records SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, appID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("application not found: %s", appID)
	}

	var entry types.StatusHistoryEntry
	err = tx.QueryRow(ctx,
		`INSERT INTO status_history (application_id, status, note)
		 VALUES ($1, $2, $3)
		 RETURNING id, application_id, status, note, created_at`,
		appID, status, note,
	).Scan(&entry.ID, &entry.ApplicationID, &entry.Status, &entry.Note, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}
	return &entry, nil
}

// GetHistory retrieves an application's full history, oldest first.
func (db *DB) GetHistory(ctx context.Context, appID uuid.UUID) ([]types.StatusHistoryEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, application_id, status, note, created_at
		 FROM status_history WHERE application_id = $1
		 ORDER BY created_at ASC, id ASC`,
		appID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var entries []types.StatusHistoryEntry
	for rows.Next() {
		var e types.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.Status, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ListHistorySince retrieves status history entries across all applications
// created after the given instant, oldest first.
func (db *DB) ListHistorySince(ctx context.Context, since time.Time) ([]types.StatusHistoryEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, application_id, status, note, created_at
		 FROM status_history WHERE created_at > $1
		 ORDER BY created_at ASC, id ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history since: %w", err)
	}
	defer rows.Close()

	var entries []types.StatusHistoryEntry
	for rows.Next() {
		var e types.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.Status, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LatestHistoryAt returns the timestamp of the most recent history entry.
// Returns the zero time if the application has no history.
func (db *DB) LatestHistoryAt(ctx context.Context, appID uuid.UUID) (time.Time, error) {
	var latest time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(created_at), 'epoch') FROM status_history WHERE application_id = $1`,
		appID,
	).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest history timestamp: %w", err)
	}
	return latest, nil
}

package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-match-engine/internal/types"
)

// CreateJob inserts a new canonical job record and returns its ID.
func (db *DB) CreateJob(ctx context.Context, job *types.JobRecord) (uuid.UUID, error) {
	sources, err := json.Marshal(job.Sources)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal sources: %w", err)
	}
	comp, err := json.Marshal(job.Compensation)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal compensation: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_records
		   (sources, title, company, location, location_kind, compensation,
		    required_skills, nice_to_have_skills, years_min, posted_at, description, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		sources, job.Title, job.Company, job.Location, job.LocationKind, comp,
		job.Required, job.NiceToHave, job.YearsMin, job.PostedAt, job.Description,
		job.Status,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// GetJob retrieves a canonical job record by ID. Returns nil if not found.
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*types.JobRecord, error) {
	var (
		job     types.JobRecord
		sources []byte
		comp    []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, sources, title, company, location, location_kind, compensation,
		        required_skills, nice_to_have_skills, years_min, posted_at, description,
		        status, created_at
		 FROM job_records WHERE id = $1`,
		jobID,
	).Scan(&job.ID, &sources, &job.Title, &job.Company, &job.Location,
		&job.LocationKind, &comp, &job.Required, &job.NiceToHave, &job.YearsMin,
		&job.PostedAt, &job.Description, &job.Status, &job.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if err := unmarshalJobColumns(&job, sources, comp); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobsByCompany retrieves non-archived jobs for a company. The dedup pass
// uses this as its candidate pool.
func (db *DB) ListJobsByCompany(ctx context.Context, company string) ([]types.JobRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, sources, title, company, location, location_kind, compensation,
		        required_skills, nice_to_have_skills, years_min, posted_at, description,
		        status, created_at
		 FROM job_records WHERE company ILIKE $1 AND status != $2
		 ORDER BY posted_at DESC`,
		company, types.JobStatusArchived,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by company: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

// ListOpenJobs retrieves all open job records.
func (db *DB) ListOpenJobs(ctx context.Context) ([]types.JobRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, sources, title, company, location, location_kind, compensation,
		        required_skills, nice_to_have_skills, years_min, posted_at, description,
		        status, created_at
		 FROM job_records WHERE status = $1
		 ORDER BY posted_at DESC`,
		types.JobStatusOpen,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

// UpdateJobStatus changes a job's status. Jobs are archived, never deleted.
func (db *DB) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE job_records SET status = $1 WHERE id = $2`,
		status, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

// MergeJobSources replaces a canonical record's source set and posted date
// after a dedup merge. These are the only mutable fields besides status.
func (db *DB) MergeJobSources(ctx context.Context, job *types.JobRecord) error {
	sources, err := json.Marshal(job.Sources)
	if err != nil {
		return fmt.Errorf("failed to marshal sources: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE job_records SET sources = $1, posted_at = $2 WHERE id = $3`,
		sources, job.PostedAt, job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to merge job sources: %w", err)
	}
	return nil
}

func scanJobs(rows pgx.Rows) ([]types.JobRecord, error) {
	var jobs []types.JobRecord
	for rows.Next() {
		var (
			job     types.JobRecord
			sources []byte
			comp    []byte
		)
		if err := rows.Scan(&job.ID, &sources, &job.Title, &job.Company,
			&job.Location, &job.LocationKind, &comp, &job.Required, &job.NiceToHave,
			&job.YearsMin, &job.PostedAt, &job.Description, &job.Status,
			&job.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if err := unmarshalJobColumns(&job, sources, comp); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func unmarshalJobColumns(job *types.JobRecord, sources, comp []byte) error {
	if len(sources) > 0 {
		if err := json.Unmarshal(sources, &job.Sources); err != nil {
			return fmt.Errorf("failed to unmarshal sources: %w", err)
		}
	}
	if len(comp) > 0 && string(comp) != "null" {
		if err := json.Unmarshal(comp, &job.Compensation); err != nil {
			return fmt.Errorf("failed to unmarshal compensation: %w", err)
		}
	}
	return nil
}

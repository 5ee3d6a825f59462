package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-match-engine/internal/types"
)

// AppendWeightVector stores a new weight vector version. Versions are
// insert-only; retraining never touches prior rows.
func (db *DB) AppendWeightVector(ctx context.Context, w *types.WeightVector) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO weight_vectors
		   (version, skill_overlap, seniority_fit, location_fit, compensation_fit,
		    historical_success, trained_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.Version, w.SkillOverlap, w.SeniorityFit, w.LocationFit,
		w.CompensationFit, w.HistoricalSuccess, w.TrainedOn,
	)
	if err != nil {
		return fmt.Errorf("failed to append weight vector: %w", err)
	}
	return nil
}

// GetWeightVector retrieves a specific version. Returns nil if not found.
func (db *DB) GetWeightVector(ctx context.Context, version int) (*types.WeightVector, error) {
	var w types.WeightVector
	err := db.pool.QueryRow(ctx,
		`SELECT version, skill_overlap, seniority_fit, location_fit,
		        compensation_fit, historical_success, trained_on, created_at
		 FROM weight_vectors WHERE version = $1`,
		version,
	).Scan(&w.Version, &w.SkillOverlap, &w.SeniorityFit, &w.LocationFit,
		&w.CompensationFit, &w.HistoricalSuccess, &w.TrainedOn, &w.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get weight vector: %w", err)
	}
	return &w, nil
}

// CurrentWeightVector retrieves the highest stored version. Returns the
// cold-start default when no version has been trained yet.
func (db *DB) CurrentWeightVector(ctx context.Context) (*types.WeightVector, error) {
	var w types.WeightVector
	err := db.pool.QueryRow(ctx,
		`SELECT version, skill_overlap, seniority_fit, location_fit,
		        compensation_fit, historical_success, trained_on, created_at
		 FROM weight_vectors ORDER BY version DESC LIMIT 1`,
	).Scan(&w.Version, &w.SkillOverlap, &w.SeniorityFit, &w.LocationFit,
		&w.CompensationFit, &w.HistoricalSuccess, &w.TrainedOn, &w.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.DefaultWeightVector(), nil
		}
		return nil, fmt.Errorf("failed to get current weight vector: %w", err)
	}
	return &w, nil
}

// CountWeightVectors returns the number of stored versions.
func (db *DB) CountWeightVectors(ctx context.Context) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM weight_vectors`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count weight vectors: %w", err)
	}
	return count, nil
}

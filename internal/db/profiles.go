package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-match-engine/internal/types"
)

// SaveProfile stores an immutable skill profile snapshot. Reparsing a resume
// inserts a new snapshot; existing rows are never updated.
func (db *DB) SaveProfile(ctx context.Context, profile *types.SkillProfile) (uuid.UUID, error) {
	skills, err := json.Marshal(profile.Skills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	pref, err := json.Marshal(profile.PreferredRange)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal preferred range: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO skill_profiles
		   (resume_version_id, skills, total_years, preferred_range, location_pref)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		profile.ResumeVersionID, skills, profile.TotalYears, pref, profile.LocationPref,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return id, nil
}

// GetProfileByResumeVersion retrieves the latest profile snapshot for a
// resume version. Returns nil if the resume has not been parsed yet.
func (db *DB) GetProfileByResumeVersion(ctx context.Context, resumeVersionID uuid.UUID) (*types.SkillProfile, error) {
	var (
		profile types.SkillProfile
		skills  []byte
		pref    []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, resume_version_id, skills, total_years, preferred_range,
		        location_pref, created_at
		 FROM skill_profiles WHERE resume_version_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		resumeVersionID,
	).Scan(&profile.ID, &profile.ResumeVersionID, &skills, &profile.TotalYears,
		&pref, &profile.LocationPref, &profile.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &profile.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
		}
	}
	if len(pref) > 0 && string(pref) != "null" {
		if err := json.Unmarshal(pref, &profile.PreferredRange); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferred range: %w", err)
		}
	}
	return &profile, nil
}

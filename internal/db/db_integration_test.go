//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-match-engine/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := Connect(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean up test data before each test
	ctx := context.Background()
	_, _ = db.pool.Exec(ctx, "DELETE FROM status_history WHERE note LIKE 'inttest%'")
	_, _ = db.pool.Exec(ctx, "DELETE FROM application_records WHERE id IN (SELECT application_id FROM status_history WHERE note LIKE 'inttest%')")
	_, _ = db.pool.Exec(ctx, "DELETE FROM job_records WHERE company LIKE 'IntTest%'")

	return db
}

func intTestJob() *types.JobRecord {
	return &types.JobRecord{
		Sources:  []types.SourceRef{{Source: "linkedin", ExternalID: uuid.NewString()}},
		Title:    "Backend Engineer",
		Company:  "IntTest Corp",
		Location: "Berlin",
		Required: []string{"Go", "PostgreSQL"},
		PostedAt: time.Now().Add(-72 * time.Hour),
		Status:   types.JobStatusOpen,
	}
}

func TestIntegration_Job_CreateGetMerge(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job := intTestJob()
	id, err := db.CreateJob(ctx, job)
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	got, err := db.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got == nil || got.Title != "Backend Engineer" {
		t.Fatalf("GetJob returned %+v", got)
	}

	got.Sources = append(got.Sources, types.SourceRef{Source: "greenhouse", ExternalID: "g-1"})
	got.PostedAt = got.PostedAt.Add(-24 * time.Hour)
	if err := db.MergeJobSources(ctx, got); err != nil {
		t.Fatalf("MergeJobSources failed: %v", err)
	}

	merged, err := db.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("GetJob after merge failed: %v", err)
	}
	if len(merged.Sources) != 2 {
		t.Errorf("expected 2 sources after merge, got %d", len(merged.Sources))
	}
}

func TestIntegration_Application_TransitionAppendsHistory(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	jobID, err := db.CreateJob(ctx, intTestJob())
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	app := &types.ApplicationRecord{
		JobID:           jobID,
		ResumeVersionID: uuid.New(),
		Status:          types.StatusSaved,
	}
	appID, err := db.CreateApplication(ctx, app, "inttest created")
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	if _, err := db.AppendTransition(ctx, appID, types.StatusApplied, "inttest applied"); err != nil {
		t.Fatalf("AppendTransition failed: %v", err)
	}

	history, err := db.GetHistory(ctx, appID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[1].Status != types.StatusApplied {
		t.Errorf("latest entry status = %q, want applied", history[1].Status)
	}

	got, err := db.GetApplication(ctx, appID)
	if err != nil {
		t.Fatalf("GetApplication failed: %v", err)
	}
	if got.Status != types.StatusApplied {
		t.Errorf("application status = %q, want applied", got.Status)
	}
}

func TestIntegration_WeightVectors_AppendOnly(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	before, err := db.CountWeightVectors(ctx)
	if err != nil {
		t.Fatalf("CountWeightVectors failed: %v", err)
	}

	current, err := db.CurrentWeightVector(ctx)
	if err != nil {
		t.Fatalf("CurrentWeightVector failed: %v", err)
	}

	next := current.WithVector(current.AsVector())
	next.Version = current.Version + 1
	next.TrainedOn = 12
	if err := db.AppendWeightVector(ctx, next); err != nil {
		t.Fatalf("AppendWeightVector failed: %v", err)
	}

	after, err := db.CountWeightVectors(ctx)
	if err != nil {
		t.Fatalf("CountWeightVectors failed: %v", err)
	}
	if after <= before {
		t.Errorf("version count did not grow: before=%d after=%d", before, after)
	}
}

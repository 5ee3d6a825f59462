package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-match-engine/internal/types"
)

type fakeSignals struct {
	signals []types.FeedbackSignal

	// sinceCount is what CountFeedbackSince reports; -1 means "all signals".
	sinceCount int
}

func (f *fakeSignals) ListFeedback(_ context.Context) ([]types.FeedbackSignal, error) {
	return f.signals, nil
}

func (f *fakeSignals) CountFeedbackSince(_ context.Context, _ int) (int, error) {
	if f.sinceCount < 0 {
		return len(f.signals), nil
	}
	return f.sinceCount, nil
}

type fakeWeights struct {
	versions []types.WeightVector
}

func (f *fakeWeights) CurrentWeightVector(_ context.Context) (*types.WeightVector, error) {
	if len(f.versions) == 0 {
		return types.DefaultWeightVector(), nil
	}
	w := f.versions[len(f.versions)-1]
	return &w, nil
}

func (f *fakeWeights) AppendWeightVector(_ context.Context, w *types.WeightVector) error {
	f.versions = append(f.versions, *w)
	return nil
}

type fakeFeatures struct {
	byJob map[uuid.UUID]*types.SubScores
}

func (f *fakeFeatures) LatestSubScoresForJob(_ context.Context, jobID uuid.UUID) (*types.SubScores, error) {
	return f.byJob[jobID], nil
}

func passedSignal(jobID uuid.UUID) types.FeedbackSignal {
	return types.FeedbackSignal{JobID: jobID, Action: types.ActionPassed}
}

func interviewSignal(jobID uuid.UUID) types.FeedbackSignal {
	return types.FeedbackSignal{
		JobID:            jobID,
		Action:           types.ActionInterviewOutcome,
		Outcome:          types.StatusInterview,
		ReachedInterview: true,
	}
}

func TestActive_ColdStartIsDefault(t *testing.T) {
	l := New(&fakeSignals{}, &fakeWeights{}, &fakeFeatures{}, 10, 0.1, nil)

	w, err := l.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, w.Version)
	assert.Equal(t, 1.0, w.SkillOverlap)
}

func TestRetrain_InsufficientSignals(t *testing.T) {
	jobID := uuid.New()
	signals := &fakeSignals{signals: []types.FeedbackSignal{passedSignal(jobID)}}
	weights := &fakeWeights{}
	features := &fakeFeatures{byJob: map[uuid.UUID]*types.SubScores{
		jobID: {SkillOverlap: 0.5},
	}}

	l := New(signals, weights, features, 10, 0.1, nil)
	_, err := l.Retrain(context.Background())
	assert.ErrorIs(t, err, ErrInsufficientSignals)
	assert.Empty(t, weights.versions, "no version produced below the signal floor")
}

func TestRetrain_NeutralSignalsExcluded(t *testing.T) {
	jobID := uuid.New()
	signals := &fakeSignals{signals: []types.FeedbackSignal{
		{JobID: jobID, Action: types.ActionInterested},
		{JobID: jobID, Action: types.ActionApplied},
	}}
	features := &fakeFeatures{byJob: map[uuid.UUID]*types.SubScores{
		jobID: {SkillOverlap: 0.9},
	}}

	l := New(signals, &fakeWeights{}, features, 1, 0.1, nil)
	_, err := l.Retrain(context.Background())
	assert.ErrorIs(t, err, ErrInsufficientSignals, "neutral-only log trains nothing")
}

func TestRetrain_AppendsVersionWithoutMutatingHistory(t *testing.T) {
	jobA, jobB := uuid.New(), uuid.New()
	signals := &fakeSignals{signals: []types.FeedbackSignal{
		passedSignal(jobA),
		interviewSignal(jobB),
	}}
	weights := &fakeWeights{}
	features := &fakeFeatures{byJob: map[uuid.UUID]*types.SubScores{
		jobA: {SkillOverlap: 0.2, SeniorityFit: 0.3, LocationFit: 0.1, CompensationFit: 0.4, HistoricalSuccess: 0.5},
		jobB: {SkillOverlap: 0.9, SeniorityFit: 0.8, LocationFit: 1.0, CompensationFit: 0.7, HistoricalSuccess: 0.5},
	}}

	l := New(signals, weights, features, 2, 0.1, nil)
	ctx := context.Background()

	first, err := l.Retrain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Version)
	assert.Equal(t, 2, first.TrainedOn)
	require.Len(t, weights.versions, 1)

	snapshot := weights.versions[0]

	second, err := l.Retrain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Version)
	require.Len(t, weights.versions, 2)
	assert.Equal(t, snapshot, weights.versions[0], "existing versions are never mutated")
}

func TestRetrain_SwapsActivePointer(t *testing.T) {
	jobA, jobB := uuid.New(), uuid.New()
	signals := &fakeSignals{signals: []types.FeedbackSignal{
		passedSignal(jobA),
		interviewSignal(jobB),
	}}
	features := &fakeFeatures{byJob: map[uuid.UUID]*types.SubScores{
		jobA: {SkillOverlap: 0.2},
		jobB: {SkillOverlap: 0.9},
	}}

	l := New(signals, &fakeWeights{}, features, 2, 0.1, nil)
	ctx := context.Background()

	before, err := l.Active(ctx)
	require.NoError(t, err)

	next, err := l.Retrain(ctx)
	require.NoError(t, err)

	after, err := l.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, next.Version, after.Version)
	assert.Greater(t, after.Version, before.Version)
}

func TestRetrain_WeightsStayBounded(t *testing.T) {
	// Many strongly negative examples drag weights toward, but never past,
	// the floor.
	signals := &fakeSignals{}
	features := &fakeFeatures{byJob: map[uuid.UUID]*types.SubScores{}}
	for i := 0; i < 50; i++ {
		jobID := uuid.New()
		signals.signals = append(signals.signals, passedSignal(jobID))
		features.byJob[jobID] = &types.SubScores{
			SkillOverlap: 1.0, SeniorityFit: 1.0, LocationFit: 1.0,
			CompensationFit: 1.0, HistoricalSuccess: 1.0,
		}
	}

	l := New(signals, &fakeWeights{}, features, 2, 0.5, nil)
	w, err := l.Retrain(context.Background())
	require.NoError(t, err)

	for i, x := range w.AsVector() {
		assert.GreaterOrEqual(t, x, 0.05, types.FeatureNames[i])
		assert.LessOrEqual(t, x, 5.0, types.FeatureNames[i])
	}
}

func TestShouldRetrain_BelowFloorIsFalse(t *testing.T) {
	signals := &fakeSignals{sinceCount: 4}
	l := New(signals, &fakeWeights{}, &fakeFeatures{}, 10, 0.1, nil)

	due, err := l.ShouldRetrain(context.Background())
	require.NoError(t, err)
	assert.False(t, due)
}

func TestShouldRetrain_AtFloorIsTrue(t *testing.T) {
	signals := &fakeSignals{sinceCount: 10}
	l := New(signals, &fakeWeights{}, &fakeFeatures{}, 10, 0.1, nil)

	due, err := l.ShouldRetrain(context.Background())
	require.NoError(t, err)
	assert.True(t, due)
}

func TestHistoricalSuccess_NoPositivesIsNeutral(t *testing.T) {
	l := New(&fakeSignals{}, &fakeWeights{}, &fakeFeatures{}, 2, 0.1, nil)
	got, err := l.HistoricalSuccess(context.Background(), JobFeatures{0.9, 0.8, 1.0, 0.7})
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)
}

func TestHistoricalSuccess_FavorsJobsResemblingPositives(t *testing.T) {
	// Job B was passed on; job C reached an interview. Jobs resembling C
	// should correlate higher than jobs resembling B.
	jobB, jobC := uuid.New(), uuid.New()
	signals := &fakeSignals{signals: []types.FeedbackSignal{
		passedSignal(jobB),
		interviewSignal(jobC),
	}}
	features := &fakeFeatures{byJob: map[uuid.UUID]*types.SubScores{
		jobB: {SkillOverlap: 0.1, SeniorityFit: 0.9, LocationFit: 0.1, CompensationFit: 0.8},
		jobC: {SkillOverlap: 0.9, SeniorityFit: 0.3, LocationFit: 1.0, CompensationFit: 0.2},
	}}

	l := New(signals, &fakeWeights{}, features, 2, 0.1, nil)
	ctx := context.Background()

	likeC, err := l.HistoricalSuccess(ctx, JobFeatures{0.85, 0.35, 0.95, 0.25})
	require.NoError(t, err)
	likeB, err := l.HistoricalSuccess(ctx, JobFeatures{0.15, 0.85, 0.15, 0.75})
	require.NoError(t, err)

	assert.Greater(t, likeC, likeB)
}

func TestGradientStep_PositiveExampleRaisesMatchedWeights(t *testing.T) {
	start := types.DefaultWeightVector().AsVector()
	ex := example{features: types.FeatureVector{0.9, 0.1, 0.1, 0.1, 0.1}, label: 1.0}

	next := gradientStep(start, ex, 0.1)
	assert.Greater(t, next[0], start[0], "strong feature on a positive example gains weight")
}

func TestGradientStep_NegativeExampleLowersMatchedWeights(t *testing.T) {
	start := types.DefaultWeightVector().AsVector()
	ex := example{features: types.FeatureVector{0.9, 0.1, 0.1, 0.1, 0.1}, label: 0.0}

	next := gradientStep(start, ex, 0.1)
	assert.Less(t, next[0], start[0], "strong feature on a negative example loses weight")
}

func TestGradientStep_StepIsCapped(t *testing.T) {
	start := types.DefaultWeightVector().AsVector()
	ex := example{features: types.FeatureVector{1, 1, 1, 1, 1}, label: 0.0}

	next := gradientStep(start, ex, 10.0) // absurd learning rate
	for i := range next {
		assert.LessOrEqual(t, start[i]-next[i], maxStep+1e-9)
	}
}

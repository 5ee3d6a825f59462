package learning

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-match-engine/internal/logger"
	"github.com/jonathan/job-match-engine/internal/types"
)

// maxStep caps how far one training example can move a single weight, so the
// vector shifts gradually and every weight stays traceable to its feature.
const maxStep = 0.1

// Weight bounds. The floor keeps every named feature alive in the score; the
// ceiling keeps a single feature from dominating.
const (
	minWeight = 0.05
	maxWeight = 5.0
)

// SignalStore reads the append-only feedback log. The learner only ever
// reads it; signals are never mutated.
type SignalStore interface {
	ListFeedback(ctx context.Context) ([]types.FeedbackSignal, error)
	CountFeedbackSince(ctx context.Context, weightVersion int) (int, error)
}

// WeightStore persists versioned weight vectors.
type WeightStore interface {
	CurrentWeightVector(ctx context.Context) (*types.WeightVector, error)
	AppendWeightVector(ctx context.Context, w *types.WeightVector) error
}

// FeatureSource looks up a job's most recently computed sub-scores.
type FeatureSource interface {
	LatestSubScoresForJob(ctx context.Context, jobID uuid.UUID) (*types.SubScores, error)
}

// Learner retrains the weight vector from the feedback log. The active
// vector is an immutable versioned value behind a current pointer: readers
// are never blocked during retraining, and the pointer swaps only after the
// new version is committed.
type Learner struct {
	signals      SignalStore
	weights      WeightStore
	features     FeatureSource
	minSignals   int
	learningRate float64
	log          *zap.Logger

	mu     sync.RWMutex
	active *types.WeightVector
}

// New creates a learner. minSignals is the labeled-example floor below which
// Retrain declines to produce a new version.
func New(signals SignalStore, weights WeightStore, features FeatureSource, minSignals int, learningRate float64, log *zap.Logger) *Learner {
	if minSignals <= 0 {
		minSignals = 10
	}
	if learningRate <= 0 {
		learningRate = 0.1
	}
	return &Learner{
		signals:      signals,
		weights:      weights,
		features:     features,
		minSignals:   minSignals,
		learningRate: learningRate,
		log:          logger.OrNop(log),
	}
}

// Active returns the weight vector scoring should use right now. Before any
// retrain this is the stored current version, or the cold-start default.
func (l *Learner) Active(ctx context.Context) (*types.WeightVector, error) {
	l.mu.RLock()
	if l.active != nil {
		w := l.active
		l.mu.RUnlock()
		return w, nil
	}
	l.mu.RUnlock()

	w, err := l.weights.CurrentWeightVector(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load current weight vector: %w", err)
	}

	l.mu.Lock()
	if l.active == nil {
		l.active = w
	}
	w = l.active
	l.mu.Unlock()
	return w, nil
}

// ShouldRetrain reports whether at least minSignals new signals have arrived
// since the active vector was trained. Scheduled retraining checks this first
// so the log is not re-walked when nothing meaningful changed.
func (l *Learner) ShouldRetrain(ctx context.Context) (bool, error) {
	current, err := l.Active(ctx)
	if err != nil {
		return false, err
	}
	count, err := l.signals.CountFeedbackSince(ctx, current.Version)
	if err != nil {
		return false, fmt.Errorf("failed to count new signals: %w", err)
	}
	return count >= l.minSignals, nil
}

// example is one labeled training pair.
type example struct {
	features types.FeatureVector
	label    float64 // 1 for positive outcomes, 0 for negative
}

// Retrain produces a new weight vector version from the accumulated feedback
// log. Returns ErrInsufficientSignals without a new version when fewer than
// minSignals labeled examples exist. Prior versions are never modified.
func (l *Learner) Retrain(ctx context.Context) (*types.WeightVector, error) {
	examples, err := l.collectExamples(ctx)
	if err != nil {
		return nil, err
	}
	if len(examples) < l.minSignals {
		l.log.Info("skipping retrain",
			zap.Int("labeled_examples", len(examples)),
			zap.Int("min_signals", l.minSignals))
		return nil, ErrInsufficientSignals
	}

	current, err := l.Active(ctx)
	if err != nil {
		return nil, err
	}

	weights := current.AsVector()
	for _, ex := range examples {
		weights = gradientStep(weights, ex, l.learningRate)
	}

	next := current.WithVector(weights)
	next.Version = current.Version + 1
	next.TrainedOn = len(examples)

	if err := l.weights.AppendWeightVector(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to commit weight vector: %w", err)
	}

	l.mu.Lock()
	l.active = next
	l.mu.Unlock()

	l.log.Info("retrained weight vector",
		zap.Int("version", next.Version),
		zap.Int("examples", next.TrainedOn))
	return next, nil
}

// HistoricalSuccess scores how closely a job's feature vector resembles jobs
// with positive outcomes, in [0,1]. With no positive history the score is a
// neutral 0.5, leaving cold-start rankings untouched.
func (l *Learner) HistoricalSuccess(ctx context.Context, features JobFeatures) (float64, error) {
	positives, err := l.positiveFeatures(ctx)
	if err != nil {
		return 0, err
	}
	if len(positives) == 0 {
		return 0.5, nil
	}

	total := 0.0
	for _, p := range positives {
		total += Cosine(features, p)
	}
	return total / float64(len(positives)), nil
}

// collectExamples collapses the signal log into one labeled example per job.
// The latest labeled signal for a job wins; neutral signals are excluded.
func (l *Learner) collectExamples(ctx context.Context) ([]example, error) {
	signals, err := l.signals.ListFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback log: %w", err)
	}

	// Signals arrive in chronological order, so overwriting keeps the latest.
	labelByJob := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0, len(signals))
	for i := range signals {
		label := signals[i].Label()
		if label == types.LabelNeutral {
			continue
		}
		if _, seen := labelByJob[signals[i].JobID]; !seen {
			order = append(order, signals[i].JobID)
		}
		labelByJob[signals[i].JobID] = label
	}

	var examples []example
	for _, jobID := range order {
		subScores, err := l.features.LatestSubScoresForJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if subScores == nil {
			// Never scored; nothing to learn from.
			continue
		}
		y := 0.0
		if labelByJob[jobID] == types.LabelPositive {
			y = 1.0
		}
		examples = append(examples, example{features: subScores.AsVector(), label: y})
	}
	return examples, nil
}

// positiveFeatures returns the input-derived feature vectors of jobs whose
// latest labeled outcome was positive.
func (l *Learner) positiveFeatures(ctx context.Context) ([]JobFeatures, error) {
	signals, err := l.signals.ListFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback log: %w", err)
	}

	labelByJob := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0, len(signals))
	for i := range signals {
		label := signals[i].Label()
		if label == types.LabelNeutral {
			continue
		}
		if _, seen := labelByJob[signals[i].JobID]; !seen {
			order = append(order, signals[i].JobID)
		}
		labelByJob[signals[i].JobID] = label
	}

	var positives []JobFeatures
	for _, jobID := range order {
		if labelByJob[jobID] != types.LabelPositive {
			continue
		}
		subScores, err := l.features.LatestSubScoresForJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if subScores == nil {
			continue
		}
		positives = append(positives, JobFeatures{
			subScores.SkillOverlap,
			subScores.SeniorityFit,
			subScores.LocationFit,
			subScores.CompensationFit,
		})
	}
	return positives, nil
}

// gradientStep applies one bounded logistic-loss gradient update. Features
// with high values on positive examples gain weight; on negative examples
// they lose it.
func gradientStep(weights types.FeatureVector, ex example, learningRate float64) types.FeatureVector {
	z := 0.0
	for i := range weights {
		z += weights[i] * ex.features[i]
	}
	p := 1.0 / (1.0 + math.Exp(-z))

	for i := range weights {
		step := learningRate * (p - ex.label) * ex.features[i]
		if step > maxStep {
			step = maxStep
		}
		if step < -maxStep {
			step = -maxStep
		}
		weights[i] = clampWeight(weights[i] - step)
	}
	return weights
}

func clampWeight(w float64) float64 {
	if w < minWeight {
		return minWeight
	}
	if w > maxWeight {
		return maxWeight
	}
	return w
}

package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"student-success-api/ml"
	"student-success-api/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// EnsembleSize and RandomSeed are fixed so retraining over the same
	// dataset reproduces the same ensemble bit for bit.
	EnsembleSize = 100
	RandomSeed   = 42
)

// ErrEmptyDataset is returned by Train when there is nothing to fit.
var ErrEmptyDataset = errors.New("not trained: empty dataset")

var (
	trainingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studentapi_model_trainings_total",
		Help: "Total number of successful model training runs.",
	})
	trainingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "studentapi_model_training_duration_seconds",
		Help:    "Duration of a full scaler+forest training run.",
		Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	})
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studentapi_predictions_total",
		Help: "Total number of predictions served, by path.",
	}, []string{"mode"})
)

// Artifact is a fitted (scaler, forest) pair. Its presence or absence is the
// only thing separating the trained path from the formula fallback.
type Artifact struct {
	Scaler *ml.StandardScaler
	Forest *ml.ForestRegressor
}

// ModelService owns the model lifecycle: it trains synchronously during
// ingestion, persists artifacts, and serves predictions. The artifact
// pointer is swapped wholesale under a write lock so concurrent predictions
// see either the old model or the new one, never a half-replaced pair.
type ModelService struct {
	mu          sync.RWMutex
	artifact    *Artifact
	artifactDir string
}

func NewModelService(artifactDir string) *ModelService {
	svc := &ModelService{artifactDir: artifactDir}

	scaler, forest, err := ml.LoadArtifacts(artifactDir)
	if err != nil {
		log.Printf("model artifacts unreadable, starting untrained: %v", err)
		return svc
	}
	if scaler != nil && forest != nil {
		svc.artifact = &Artifact{Scaler: scaler, Forest: forest}
		log.Printf("model artifacts loaded from %s", artifactDir)
	}
	return svc
}

// Current returns the active artifact, or ok=false when the service is
// untrained and predictions fall back to the closed-form formula.
func (s *ModelService) Current() (*Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifact, s.artifact != nil
}

// Train fits a fresh scaler and forest over the full dataset, persists both
// artifacts, then swaps them in. Runs inline with the upload request; large
// datasets block the caller for the full fit.
func (s *ModelService) Train(records []models.StudentRecord) error {
	if len(records) == 0 {
		return ErrEmptyDataset
	}

	start := time.Now()

	X := make([][]float64, len(records))
	y := make([]float64, len(records))
	for i, r := range records {
		features := r.Features()
		X[i] = features[:]
		y[i] = r.Performance
	}

	scaler := ml.NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		return fmt.Errorf("fit scaler: %w", err)
	}

	forest := ml.NewForestRegressor(EnsembleSize, RandomSeed)
	if err := forest.Fit(scaled, y); err != nil {
		return fmt.Errorf("fit forest: %w", err)
	}

	if err := ml.SaveArtifacts(s.artifactDir, scaler, forest); err != nil {
		return fmt.Errorf("persist artifacts: %w", err)
	}

	s.mu.Lock()
	s.artifact = &Artifact{Scaler: scaler, Forest: forest}
	s.mu.Unlock()

	trainingsTotal.Inc()
	trainingDuration.Observe(time.Since(start).Seconds())
	log.Printf("model trained: %d records, %d trees (%.2fs)",
		len(records), EnsembleSize, time.Since(start).Seconds())
	return nil
}

// Predict scores one canonical feature vector. With a trained artifact the
// input is scaled and run through the forest; untrained, the derived-label
// formula answers instead. Both paths clip at 100 on the upper bound only.
func (s *ModelService) Predict(features [models.FeatureCount]float64) (float64, error) {
	if artifact, ok := s.Current(); ok {
		scaled, err := artifact.Scaler.TransformOne(features[:])
		if err != nil {
			return 0, fmt.Errorf("scale features: %w", err)
		}
		predictionsTotal.WithLabelValues("model").Inc()
		return math.Min(artifact.Forest.Predict(scaled), 100), nil
	}

	score := models.PerformanceScore(features[0], features[1], features[2], features[3], features[4])
	predictionsTotal.WithLabelValues("formula").Inc()
	return math.Min(score, 100), nil
}

// Importances maps canonical feature names to the trained ensemble's
// relative split contributions; empty when untrained.
func (s *ModelService) Importances() map[string]float64 {
	artifact, ok := s.Current()
	if !ok {
		return map[string]float64{}
	}

	values := artifact.Forest.Importances()
	out := make(map[string]float64, len(values))
	for j, name := range models.FeatureNames {
		if j < len(values) {
			out[name] = values[j]
		}
	}
	return out
}

package training

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lox/faixaclima/internal/dataset"
	"github.com/lox/faixaclima/internal/metrics"
	"github.com/lox/faixaclima/internal/ml"
	"github.com/lox/faixaclima/internal/models"
)

// Result is one fitted and evaluated pipeline.
type Result struct {
	FeatureSet models.FeatureSet
	Pipeline   *ml.Pipeline
	Report     models.Report
	// Rows is the number of cleaned rows the split was drawn from.
	Rows     int
	Duration time.Duration
}

type cacheKey struct {
	dataset  uuid.UUID
	features string
	seed     uint64
}

type entry struct {
	once   sync.Once
	result *Result
	err    error
}

// Trainer fits pipelines at most once per dataset, feature set and seed for
// the life of the process.
type Trainer struct {
	params ml.Params

	mu      sync.Mutex
	entries map[cacheKey]*entry
}

func New(params ml.Params) *Trainer {
	return &Trainer{
		params:  params,
		entries: make(map[cacheKey]*entry),
	}
}

func (t *Trainer) Params() ml.Params { return t.params }

// Full fits the complete feature set on tbl. The dataset id keys the cache.
func (t *Trainer) Full(id uuid.UUID, tbl *dataset.Table) (*Result, error) {
	return t.fit(id, models.FullFeatures, tbl)
}

// Reduced fits the ablated feature set on the same rows as full and returns
// its held-out accuracy together with the row count it trained from.
func (t *Trainer) Reduced(id uuid.UUID, full *dataset.Table) (float64, int, error) {
	reduced, err := full.Project(models.ReducedFeatures.Columns)
	if err != nil {
		return 0, 0, fmt.Errorf("project reduced features: %w", err)
	}
	res, err := t.fit(id, models.ReducedFeatures, reduced)
	if err != nil {
		return 0, 0, err
	}
	return res.Report.Accuracy, res.Rows, nil
}

func (t *Trainer) fit(id uuid.UUID, fs models.FeatureSet, tbl *dataset.Table) (*Result, error) {
	key := cacheKey{dataset: id, features: fs.Name, seed: t.params.Seed}

	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok {
		e = &entry{}
		t.entries[key] = e
	}
	t.mu.Unlock()

	if ok {
		metrics.TrainingCacheHits.Inc()
	}
	e.once.Do(func() {
		e.result, e.err = t.train(fs, tbl)
	})
	return e.result, e.err
}

func (t *Trainer) train(fs models.FeatureSet, tbl *dataset.Table) (*Result, error) {
	if got := tbl.Features(); !slices.Equal(got, fs.Columns) {
		return nil, fmt.Errorf("train %s: table has columns %v, want %v", fs.Name, got, fs.Columns)
	}

	start := time.Now()
	pipe, report, err := ml.Fit(fs.Columns, tbl.X(), tbl.Y(), t.params)
	elapsed := time.Since(start)
	if err != nil {
		metrics.TrainingRuns.WithLabelValues(fs.Name, "error").Inc()
		return nil, fmt.Errorf("train %s: %w", fs.Name, err)
	}

	metrics.TrainingRuns.WithLabelValues(fs.Name, "ok").Inc()
	metrics.TrainingDuration.WithLabelValues(fs.Name).Observe(elapsed.Seconds())
	metrics.ModelAccuracy.WithLabelValues(fs.Name).Set(report.Accuracy)

	log.Info().
		Str("feature_set", fs.Name).
		Int("rows", tbl.Len()).
		Int("train", report.TrainRows).
		Int("test", report.TestRows).
		Float64("accuracy", report.Accuracy).
		Dur("took", elapsed).
		Msg("pipeline trained")

	return &Result{
		FeatureSet: fs,
		Pipeline:   pipe,
		Report:     report,
		Rows:       tbl.Len(),
		Duration:   elapsed,
	}, nil
}

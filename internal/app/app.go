// Package app holds the process-wide state of the dashboard: the loaded
// dataset, its cleaned selection and the pipelines fitted on it. Everything
// is computed in New and read-only afterwards.
package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lox/faixaclima/internal/band"
	"github.com/lox/faixaclima/internal/config"
	"github.com/lox/faixaclima/internal/dataset"
	"github.com/lox/faixaclima/internal/metrics"
	"github.com/lox/faixaclima/internal/models"
	"github.com/lox/faixaclima/internal/training"
)

// ErrOutOfRange is returned when a prediction input lies outside the range
// observed in the cleaned dataset.
var ErrOutOfRange = errors.New("value out of range")

// sampleRows is how many rows the dataset preview shows.
const sampleRows = 5

type App struct {
	ds      *dataset.Dataset
	table   *dataset.Table
	trainer *training.Trainer

	full        *training.Result
	reducedAcc  float64
	reducedRows int
	ranges      []models.FeatureRange
}

// New loads the configured source and trains both pipelines before
// returning.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	ds, err := dataset.Load(ctx, cfg.Data, dataset.Options{DeriveLabels: cfg.DeriveLabels})
	if err != nil {
		return nil, err
	}
	return FromDataset(ds, training.New(cfg.Params()))
}

// FromDataset builds the application state from an already loaded dataset.
func FromDataset(ds *dataset.Dataset, trainer *training.Trainer) (*App, error) {
	table, err := ds.Select(models.FullFeatures.Columns, models.Target)
	if err != nil {
		return nil, fmt.Errorf("select features: %w", err)
	}

	full, err := trainer.Full(ds.ID(), table)
	if err != nil {
		return nil, err
	}
	reducedAcc, reducedRows, err := trainer.Reduced(ds.ID(), table)
	if err != nil {
		return nil, err
	}

	a := &App{
		ds:          ds,
		table:       table,
		trainer:     trainer,
		full:        full,
		reducedAcc:  reducedAcc,
		reducedRows: reducedRows,
		ranges:      table.Ranges(),
	}
	log.Info().
		Int("rows", ds.Rows()).
		Int("clean_rows", table.Len()).
		Float64("accuracy", full.Report.Accuracy).
		Float64("reduced_accuracy", reducedAcc).
		Msg("models ready")
	return a, nil
}

func (a *App) Dataset() models.DatasetInfo {
	return models.DatasetInfo{
		Source:      a.ds.Source(),
		Fingerprint: a.ds.ID().String(),
		Rows:        a.ds.Rows(),
		CleanRows:   a.table.Len(),
		Columns:     a.ds.Columns(),
		Sample:      a.ds.Head(sampleRows),
	}
}

func (a *App) Report() models.Report { return a.full.Report }

// Comparison reports full and reduced accuracy over the same cleaned rows.
func (a *App) Comparison() models.Comparison {
	return models.Comparison{
		FullAccuracy:    a.full.Report.Accuracy,
		ReducedAccuracy: a.reducedAcc,
		Rows:            a.reducedRows,
	}
}

func (a *App) Importances() ([]models.Importance, error) {
	return a.full.Pipeline.Importances()
}

func (a *App) Ranges() []models.FeatureRange { return a.ranges }

func (a *App) Classes() []string { return a.full.Pipeline.Classes() }

// Defaults returns the reading every slider starts at: feature medians and
// noon.
func (a *App) Defaults() models.Reading {
	vals := make(map[string]float64, len(a.ranges))
	for _, r := range a.ranges {
		vals[r.Feature] = r.Default
	}
	return models.Reading{
		TempC:     vals[models.ColTemp],
		Humidity:  vals[models.ColHumidity],
		Precip:    vals[models.ColPrecip],
		Radiation: vals[models.ColRadiation],
		Wind:      vals[models.ColWind],
		Pressure:  vals[models.ColPressure],
		Hour:      int(vals[models.ColHour]),
	}
}

// Validate checks every value of r against the observed feature ranges.
func (a *App) Validate(r models.Reading) error {
	vals := r.Values()
	for _, fr := range a.ranges {
		v := vals[fr.Feature]
		if math.IsNaN(v) || v < fr.Min || v > fr.Max {
			return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrOutOfRange, fr.Feature, v, fr.Min, fr.Max)
		}
	}
	return nil
}

// Predict classifies one reading with the full pipeline. Probabilities are
// sorted most likely first.
func (a *App) Predict(r models.Reading) (*models.Prediction, error) {
	if err := a.Validate(r); err != nil {
		metrics.PredictionsRejected.Inc()
		return nil, err
	}

	label, probs, err := a.full.Pipeline.Predict(r.Vector())
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	p := &models.Prediction{
		ID:            uuid.NewString(),
		Label:         label,
		Probabilities: make([]models.ClassProbability, 0, len(probs)),
		RuleBand:      band.Classify(r.TempC, r.Precip).String(),
	}
	for l, v := range probs {
		p.Probabilities = append(p.Probabilities, models.ClassProbability{Label: l, Probability: v})
	}
	sort.Slice(p.Probabilities, func(i, j int) bool {
		pi, pj := p.Probabilities[i], p.Probabilities[j]
		if pi.Probability != pj.Probability {
			return pi.Probability > pj.Probability
		}
		return pi.Label < pj.Label
	})

	metrics.PredictionsTotal.WithLabelValues(label).Inc()
	log.Debug().
		Str("id", p.ID).
		Str("label", label).
		Str("rule_band", p.RuleBand).
		Msg("prediction")
	return p, nil
}

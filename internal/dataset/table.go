package dataset

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/rs/zerolog/log"

	"github.com/lox/faixaclima/internal/metrics"
	"github.com/lox/faixaclima/internal/models"
)

// ErrNoCompleteRows is returned when every row misses at least one selected
// column.
var ErrNoCompleteRows = errors.New("no complete rows")

// Table is a cleaned selection: the feature columns and target of every
// row that had no missing value in any of them, in source order.
type Table struct {
	features []string
	target   string
	df       dataframe.DataFrame
	x        [][]float64
	y        []string
}

// Select keeps features and target and drops rows with a missing value in
// any of those columns.
func (d *Dataset) Select(features []string, target string) (*Table, error) {
	cols := append(append([]string(nil), features...), target)
	names := d.df.Names()
	for _, col := range cols {
		if !slices.Contains(names, col) {
			return nil, fmt.Errorf("select: missing column %s", col)
		}
	}

	df := d.df.Select(cols)
	if df.Err != nil {
		return nil, fmt.Errorf("select: %w", df.Err)
	}

	keep := completeRows(df, features, target)
	if len(keep) == 0 {
		return nil, fmt.Errorf("select %d rows: %w", df.Nrow(), ErrNoCompleteRows)
	}
	if len(keep) != df.Nrow() {
		df = df.Subset(keep)
		if df.Err != nil {
			return nil, fmt.Errorf("select: %w", df.Err)
		}
	}
	t := newTable(df, features, target)
	metrics.DatasetRows.WithLabelValues("clean").Set(float64(t.Len()))
	log.Debug().
		Strs("features", features).
		Int("rows", d.df.Nrow()).
		Int("dropped", d.df.Nrow()-t.Len()).
		Msg("selected complete rows")
	return t, nil
}

func completeRows(df dataframe.DataFrame, features []string, target string) []int {
	missing := make([]bool, df.Nrow())
	for _, col := range features {
		for i, v := range df.Col(col).Float() {
			if math.IsNaN(v) {
				missing[i] = true
			}
		}
	}
	labels := df.Col(target)
	nan := labels.IsNaN()
	for i, rec := range labels.Records() {
		if nan[i] || rec == "" || rec == "NaN" {
			missing[i] = true
		}
	}

	keep := make([]int, 0, len(missing))
	for i, m := range missing {
		if !m {
			keep = append(keep, i)
		}
	}
	return keep
}

func newTable(df dataframe.DataFrame, features []string, target string) *Table {
	t := &Table{
		features: append([]string(nil), features...),
		target:   target,
		df:       df,
		x:        make([][]float64, df.Nrow()),
		y:        df.Col(target).Records(),
	}
	cols := make([][]float64, len(features))
	for j, col := range features {
		cols[j] = df.Col(col).Float()
	}
	for i := range t.x {
		row := make([]float64, len(features))
		for j := range features {
			row[j] = cols[j][i]
		}
		t.x[i] = row
	}
	return t
}

// Project narrows an already-cleaned table to fewer feature columns. Rows
// are not re-filtered, so the projection has exactly the same rows.
func (t *Table) Project(features []string) (*Table, error) {
	for _, col := range features {
		if !slices.Contains(t.features, col) {
			return nil, fmt.Errorf("project: column %s not in table", col)
		}
	}
	df := t.df.Select(append(append([]string(nil), features...), t.target))
	if df.Err != nil {
		return nil, fmt.Errorf("project: %w", df.Err)
	}
	return newTable(df, features, t.target), nil
}

func (t *Table) Len() int { return len(t.y) }

func (t *Table) Features() []string { return t.features }

func (t *Table) Target() string { return t.target }

// X returns the feature matrix, one row per observation in Features order.
func (t *Table) X() [][]float64 { return t.x }

func (t *Table) Y() []string { return t.y }

// Classes returns the distinct labels with their row counts.
func (t *Table) Classes() map[string]int {
	out := make(map[string]int)
	for _, l := range t.y {
		out[l]++
	}
	return out
}

// Column returns the float values of one feature column.
func (t *Table) Column(name string) ([]float64, error) {
	j := slices.Index(t.features, name)
	if j < 0 {
		return nil, fmt.Errorf("column %s not in table", name)
	}
	out := make([]float64, len(t.x))
	for i, row := range t.x {
		out[i] = row[j]
	}
	return out, nil
}

// slider describes how a feature is presented as an input control.
type slider struct {
	label string
	step  float64
}

var sliders = map[string]slider{
	models.ColTemp:      {"Temperatura (°C)", 0.1},
	models.ColHumidity:  {"Umidade relativa (%)", 1.0},
	models.ColPrecip:    {"Precipitação na última hora (mm)", 0.1},
	models.ColRadiation: {"Radiação global (kJ/m²)", 1.0},
	models.ColWind:      {"Velocidade do vento (m/s)", 0.1},
	models.ColPressure:  {"Pressão atmosférica (mB)", 0.1},
}

// Ranges reports the observed min, max and median of every feature, which
// bound and seed the prediction inputs. The hour is always 0..23 with 12 as
// its default.
func (t *Table) Ranges() []models.FeatureRange {
	out := make([]models.FeatureRange, 0, len(t.features))
	for _, col := range t.features {
		if col == models.ColHour {
			out = append(out, models.FeatureRange{
				Feature: col, Label: "Hora do dia (0–23)", Min: 0, Max: 23, Default: 12, Step: 1,
			})
			continue
		}
		s := t.df.Col(col)
		sl, ok := sliders[col]
		if !ok {
			sl = slider{label: col, step: 0.1}
		}
		out = append(out, models.FeatureRange{
			Feature: col,
			Label:   sl.label,
			Min:     s.Min(),
			Max:     s.Max(),
			Default: s.Median(),
			Step:    sl.step,
		})
	}
	return out
}

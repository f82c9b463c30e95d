package dataset

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lox/faixaclima/internal/band"
	"github.com/lox/faixaclima/internal/metrics"
	"github.com/lox/faixaclima/internal/models"
)

// fingerprintNS namespaces dataset content fingerprints.
var fingerprintNS = uuid.MustParse("6f1c9a52-3d0e-4f7b-9a43-0b1de7c2a8f1")

// Values treated as missing when parsing.
var nanValues = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

type Options struct {
	// DeriveLabels fills the target column from the band rules when the
	// source has no faixa_climatica column.
	DeriveLabels bool
}

// Dataset is an immutable table loaded from one source.
type Dataset struct {
	source string
	id     uuid.UUID
	df     dataframe.DataFrame
}

// Load reads source (CSV path, file://, sqlite://, ftp:// or http(s)://)
// into memory. A missing source yields an error wrapping ErrSourceNotFound.
func Load(ctx context.Context, source string, opts Options) (*Dataset, error) {
	kind := sourceKind(source)

	var df dataframe.DataFrame
	switch kind {
	case "sqlite":
		records, err := readSQLite(ctx, source)
		if err != nil {
			return nil, err
		}
		df = dataframe.LoadRecords(records, loadOptions()...)
	default:
		var (
			data []byte
			err  error
		)
		switch kind {
		case "ftp":
			data, err = readFTP(ctx, source)
		case "http":
			data, err = readHTTP(ctx, source)
		default:
			data, err = readFile(source)
		}
		if err != nil {
			return nil, err
		}
		df = dataframe.ReadCSV(bytes.NewReader(data), loadOptions()...)
	}
	if df.Err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, df.Err)
	}

	ds, err := fromDataFrame(source, df, opts)
	if err != nil {
		return nil, err
	}
	metrics.DatasetRows.WithLabelValues("raw").Set(float64(ds.Rows()))
	log.Info().
		Str("source", source).
		Str("kind", kind).
		Int("rows", ds.Rows()).
		Int("columns", len(ds.Columns())).
		Str("fingerprint", ds.ID().String()).
		Msg("dataset loaded")
	return ds, nil
}

// FromRecords builds a dataset from in-memory records whose first row is
// the header.
func FromRecords(source string, records [][]string, opts Options) (*Dataset, error) {
	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, df.Err)
	}
	return fromDataFrame(source, df, opts)
}

func loadOptions() []dataframe.LoadOption {
	types := make(map[string]series.Type, len(models.FullFeatures.Columns)+1)
	for _, col := range models.FullFeatures.Columns {
		types[col] = series.Float
	}
	types[models.Target] = series.String
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(types),
		dataframe.NaNValues(nanValues),
	}
}

func fromDataFrame(source string, df dataframe.DataFrame, opts Options) (*Dataset, error) {
	if opts.DeriveLabels && !slices.Contains(df.Names(), models.Target) {
		derived, err := deriveLabels(df)
		if err != nil {
			return nil, err
		}
		df = derived
	}
	return &Dataset{source: source, id: fingerprint(df), df: df}, nil
}

// deriveLabels adds the target column computed from temperature and
// precipitation. Rows missing either input get a missing label.
func deriveLabels(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	names := df.Names()
	for _, col := range []string{models.ColTemp, models.ColPrecip} {
		if !slices.Contains(names, col) {
			return df, fmt.Errorf("derive labels: missing column %s", col)
		}
	}
	temps := df.Col(models.ColTemp).Float()
	precips := df.Col(models.ColPrecip).Float()
	labels := make([]string, len(temps))
	for i := range temps {
		if math.IsNaN(temps[i]) || math.IsNaN(precips[i]) {
			labels[i] = "NaN"
			continue
		}
		labels[i] = band.Classify(temps[i], precips[i]).String()
	}
	out := df.Mutate(series.New(labels, series.String, models.Target))
	if out.Err != nil {
		return df, fmt.Errorf("derive labels: %w", out.Err)
	}
	log.Debug().Int("rows", len(labels)).Msg("derived climate band labels")
	return out, nil
}

func fingerprint(df dataframe.DataFrame) uuid.UUID {
	var b strings.Builder
	for _, rec := range df.Records() {
		b.WriteString(strings.Join(rec, "\x1f"))
		b.WriteByte('\n')
	}
	return uuid.NewSHA1(fingerprintNS, []byte(b.String()))
}

func (d *Dataset) Source() string { return d.source }

// ID identifies the dataset content. Equal content gives equal IDs.
func (d *Dataset) ID() uuid.UUID { return d.id }

func (d *Dataset) Rows() int { return d.df.Nrow() }

func (d *Dataset) Columns() []string { return d.df.Names() }

// Head returns up to n rows as strings, header first.
func (d *Dataset) Head(n int) [][]string {
	if n > d.df.Nrow() {
		n = d.df.Nrow()
	}
	if n <= 0 {
		return [][]string{d.df.Names()}
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return d.df.Subset(idx).Records()
}

package training

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/faixaclima/internal/dataset"
	"github.com/lox/faixaclima/internal/dataset/datasettest"
	"github.com/lox/faixaclima/internal/ml"
	"github.com/lox/faixaclima/internal/models"
)

func testParams() ml.Params {
	p := ml.DefaultParams()
	p.Forest.Trees = 20
	return p
}

func loadTable(t *testing.T, n int) (*dataset.Dataset, *dataset.Table) {
	t.Helper()
	ds, err := dataset.FromRecords("synthetic", datasettest.Records(n, 7), dataset.Options{})
	require.NoError(t, err)
	tbl, err := ds.Select(models.FullFeatures.Columns, models.Target)
	require.NoError(t, err)
	return ds, tbl
}

func TestFullTrainsOnce(t *testing.T) {
	ds, tbl := loadTable(t, 300)
	tr := New(testParams())

	first, err := tr.Full(ds.ID(), tbl)
	require.NoError(t, err)
	second, err := tr.Full(ds.ID(), tbl)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first.Pipeline, second.Pipeline)
	assert.Equal(t, 300, first.Rows)
	assert.Equal(t, 90, first.Report.TestRows)
	assert.Equal(t, 210, first.Report.TrainRows)
	assert.Greater(t, first.Report.Accuracy, 0.7)
	assert.Len(t, tr.entries, 1)
}

func TestFullConcurrentCallersShareResult(t *testing.T) {
	ds, tbl := loadTable(t, 200)
	tr := New(testParams())

	results := make([]*Result, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := tr.Full(ds.ID(), tbl)
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	wg.Wait()

	for _, r := range results[1:] {
		assert.Same(t, results[0], r)
	}
}

func TestDeterministicAcrossTrainers(t *testing.T) {
	ds, tbl := loadTable(t, 250)

	a, err := New(testParams()).Full(ds.ID(), tbl)
	require.NoError(t, err)
	b, err := New(testParams()).Full(ds.ID(), tbl)
	require.NoError(t, err)

	assert.Equal(t, a.Report, b.Report)

	ia, err := a.Pipeline.Importances()
	require.NoError(t, err)
	ib, err := b.Pipeline.Importances()
	require.NoError(t, err)
	assert.Equal(t, ia, ib)
}

func TestReducedUsesSameRows(t *testing.T) {
	records := datasettest.Records(200, 11)
	// Blank the pressure of one row: both selections must drop it.
	records[5][5] = ""
	ds, err := dataset.FromRecords("synthetic", records, dataset.Options{})
	require.NoError(t, err)
	tbl, err := ds.Select(models.FullFeatures.Columns, models.Target)
	require.NoError(t, err)
	require.Equal(t, 199, tbl.Len())

	tr := New(testParams())
	full, err := tr.Full(ds.ID(), tbl)
	require.NoError(t, err)
	acc, rows, err := tr.Reduced(ds.ID(), tbl)
	require.NoError(t, err)

	assert.Equal(t, full.Rows, rows)
	assert.Len(t, tr.entries, 2)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
	// Without temperature and precipitation the labels are much harder to
	// recover.
	assert.Less(t, acc, full.Report.Accuracy)
}

func TestFullRejectsWrongColumns(t *testing.T) {
	ds, tbl := loadTable(t, 50)
	reduced, err := tbl.Project(models.ReducedFeatures.Columns)
	require.NoError(t, err)

	_, err = New(testParams()).Full(ds.ID(), reduced)
	assert.Error(t, err)
}

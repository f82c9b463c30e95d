package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/faixaclima/internal/models"
)

func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inmet.db")
	s, err := Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func f64(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func TestInsertAndReadTable(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	err := s.InsertObservations(ctx, []models.Observation{
		{
			Station: "A895", TempC: f64(21.5), Humidity: f64(80), Precip: f64(0),
			Radiation: f64(1200), Wind: f64(2.1), Pressure: f64(951.3),
			Hour: sql.NullInt64{Int64: 14, Valid: true}, Band: sql.NullString{String: "Ameno_Seco", Valid: true},
		},
		{
			Station: "A895", TempC: f64(9), Humidity: f64(95), Precip: f64(1.4),
			Radiation: f64(0), Wind: f64(0.8),
			Hour: sql.NullInt64{Int64: 3, Valid: true}, Band: sql.NullString{String: "Frio_Chuvoso", Valid: true},
		},
	})
	require.NoError(t, err)

	n, err := s.CountObservations()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cols, records, err := s.ReadTable(ctx, "observacoes")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"id", "estacao", "temp_c", "umidade_pct", "precipitacao_mm", "radiacao_kj",
		"vento_vel_ms", "pressao_mb", "hora", "faixa_climatica",
	}, cols)
	require.Len(t, records, 2)
	assert.Equal(t, "21.5", records[0][2])
	assert.Equal(t, "14", records[0][8])
	assert.Equal(t, "Ameno_Seco", records[0][9])
	// NULL pressure reads back empty.
	assert.Equal(t, "", records[1][7])
}

func TestMigrateIsIdempotent(t *testing.T) {
	s, _ := setupTestStore(t)
	require.NoError(t, s.Migrate())
	require.NoError(t, s.Migrate())

	var version int
	require.NoError(t, s.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version))
	assert.Equal(t, len(migrations), version)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadTable_Errors(t *testing.T) {
	s, path := setupTestStore(t)
	ctx := context.Background()

	_, _, err := s.ReadTable(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = s.ReadTable(ctx, `observacoes"; DROP TABLE observacoes; --`)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	ro, err := Open(path)
	require.NoError(t, err)
	defer ro.Close()
	_, records, err := ro.ReadTable(ctx, "observacoes")
	require.NoError(t, err)
	assert.Empty(t, records)
}

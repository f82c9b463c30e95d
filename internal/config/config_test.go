package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/faixaclima/internal/ml"
)

func TestDefaultsMatchPipelineDefaults(t *testing.T) {
	t.Setenv("FAIXACLIMA_DATA", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PORT", "")

	cfg, err := Load("", true)
	require.NoError(t, err)

	assert.Equal(t, DefaultDataFile, cfg.Data)
	assert.Equal(t, ":8080", cfg.Addr)
	if diff := cmp.Diff(ml.DefaultParams(), cfg.Params()); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("FAIXACLIMA_DATA", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), "faixaclima.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data: sqlite://inmet.db?table=observacoes
derive_labels: true
training:
  trees: 50
  seed: 7
`), 0o644))

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "sqlite://inmet.db?table=observacoes", cfg.Data)
	assert.True(t, cfg.DeriveLabels)
	p := cfg.Params()
	assert.Equal(t, 50, p.Forest.Trees)
	assert.Equal(t, uint64(7), p.Seed)
	assert.Equal(t, uint64(7), p.Forest.Seed)
	// Unset keys keep their defaults.
	assert.Equal(t, 0.30, p.TestSize)
	assert.Equal(t, 20, p.Forest.MaxDepth)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "faixaclima.yaml")

	_, err := Load(missing, true)
	assert.NoError(t, err)

	_, err = Load(missing, false)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FAIXACLIMA_DATA", "https://example.org/clima.csv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "9090")

	cfg, err := Load("", true)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/clima.csv", cfg.Data)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.Addr)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FAIXACLIMA_DATA=from-dotenv.csv\n"), 0o644))
	t.Setenv("FAIXACLIMA_DATA", "")
	os.Unsetenv("FAIXACLIMA_DATA")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-dotenv.csv", os.Getenv("FAIXACLIMA_DATA"))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data", func(c *Config) { c.Data = "" }},
		{"test size zero", func(c *Config) { c.Training.TestSize = 0 }},
		{"test size one", func(c *Config) { c.Training.TestSize = 1 }},
		{"no trees", func(c *Config) { c.Training.Trees = 0 }},
		{"min split", func(c *Config) { c.Training.MinSamplesSplit = 1 }},
		{"min leaf", func(c *Config) { c.Training.MinSamplesLeaf = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

// Package config loads faixaclima settings from an optional YAML file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lox/faixaclima/internal/ml"
)

// DefaultDataFile is looked up next to the binary when no source is set.
const DefaultDataFile = "clima_inmet_oeste_2024.csv"

type Config struct {
	Data         string       `yaml:"data"`
	DeriveLabels bool         `yaml:"derive_labels"`
	Addr         string       `yaml:"addr"`
	LogLevel     string       `yaml:"log_level"`
	Training     TrainingConf `yaml:"training"`
}

type TrainingConf struct {
	TestSize        float64 `yaml:"test_size"`
	Seed            uint64  `yaml:"seed"`
	Trees           int     `yaml:"trees"`
	MaxDepth        int     `yaml:"max_depth"`
	MinSamplesSplit int     `yaml:"min_samples_split"`
	MinSamplesLeaf  int     `yaml:"min_samples_leaf"`
	Workers         int     `yaml:"workers"`
}

func Default() *Config {
	p := ml.DefaultParams()
	return &Config{
		Data:     DefaultDataFile,
		Addr:     ":8080",
		LogLevel: "info",
		Training: TrainingConf{
			TestSize:        p.TestSize,
			Seed:            p.Seed,
			Trees:           p.Forest.Trees,
			MaxDepth:        p.Forest.MaxDepth,
			MinSamplesSplit: p.Forest.MinSamplesSplit,
			MinSamplesLeaf:  p.Forest.MinSamplesLeaf,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set, so the stock faixaclima.yaml can be absent.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && optional:
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs into the process environment without
// overriding variables that are already set. A missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FAIXACLIMA_DATA"); v != "" {
		c.Data = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		c.Addr = v
	}
}

func (c *Config) Validate() error {
	t := c.Training
	switch {
	case c.Data == "":
		return errors.New("config: data source is empty")
	case t.TestSize <= 0 || t.TestSize >= 1:
		return fmt.Errorf("config: test_size %v must be in (0, 1)", t.TestSize)
	case t.Trees < 1:
		return fmt.Errorf("config: trees %d must be positive", t.Trees)
	case t.MinSamplesSplit < 2:
		return fmt.Errorf("config: min_samples_split %d must be at least 2", t.MinSamplesSplit)
	case t.MinSamplesLeaf < 1:
		return fmt.Errorf("config: min_samples_leaf %d must be at least 1", t.MinSamplesLeaf)
	}
	return nil
}

// Params converts the training section into pipeline parameters. The split
// and the forest share one seed.
func (c *Config) Params() ml.Params {
	t := c.Training
	return ml.Params{
		TestSize: t.TestSize,
		Seed:     t.Seed,
		Forest: ml.ForestParams{
			Trees:           t.Trees,
			MaxDepth:        t.MaxDepth,
			MinSamplesSplit: t.MinSamplesSplit,
			MinSamplesLeaf:  t.MinSamplesLeaf,
			Seed:            t.Seed,
			Workers:         t.Workers,
		},
	}
}

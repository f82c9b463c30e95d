package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/faixaclima/internal/config"
	"github.com/lox/faixaclima/internal/dataset"
)

type Globals struct {
	Config   string `help:"YAML configuration file." default:"faixaclima.yaml" type:"path"`
	Data     string `help:"Dataset source: CSV path, sqlite://, ftp:// or http(s):// URL." short:"d"`
	LogLevel string `help:"Log level (debug, info, warn, error)." name:"log-level"`
	EnvFile  string `help:"Dotenv file loaded before reading the environment." default:".env" name:"env-file" type:"path"`
}

type CLI struct {
	Globals

	Serve        ServeCmd        `cmd:"" default:"withargs" help:"Train the models and serve the dashboard."`
	Report       ReportCmd       `cmd:"" help:"Print the evaluation report and the ablation comparison."`
	Predict      PredictCmd      `cmd:"" help:"Classify one reading."`
	Importances  ImportancesCmd  `cmd:"" help:"Print the feature importance ranking."`
	ImportSQLite ImportSQLiteCmd `cmd:"" name:"import-sqlite" help:"Copy a dataset into a SQLite database for the sqlite:// source."`
}

// load resolves configuration from defaults, the YAML file, the environment
// and finally the command line, then configures logging.
func (g *Globals) load() (*config.Config, error) {
	if err := config.LoadEnvFile(g.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(g.Config, true)
	if err != nil {
		return nil, err
	}
	if g.Data != "" {
		cfg.Data = g.Data
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		return nil, err
	}
	log.Debug().Str("data", cfg.Data).Str("config", g.Config).Msg("configuration loaded")
	return cfg, nil
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("faixaclima"),
		kong.Description("Climate band classifier for INMET hourly readings (Oeste de SC, 2024)."),
		kong.UsageOnError(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	err := kctx.Run(&cli.Globals)
	if errors.Is(err, dataset.ErrSourceNotFound) {
		fmt.Fprintf(os.Stderr, "Arquivo de dados não encontrado: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "Coloque o CSV tratado (%s) na mesma pasta do executável ou ajuste a origem com --data ou FAIXACLIMA_DATA.\n", config.DefaultDataFile)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("faixaclima")
	}
}

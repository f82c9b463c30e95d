package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/lox/faixaclima/internal/api"
	"github.com/lox/faixaclima/internal/app"
	"github.com/lox/faixaclima/internal/dataset"
	"github.com/lox/faixaclima/internal/models"
	"github.com/lox/faixaclima/internal/store"
)

type ServeCmd struct {
	Addr string `help:"Listen address (default from config or PORT)."`
}

func (c *ServeCmd) Run(g *Globals, ctx context.Context) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	return api.NewServer(a, cfg.Addr).Run(ctx)
}

type ReportCmd struct{}

func (c *ReportCmd) Run(g *Globals, ctx context.Context) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	info := a.Dataset()
	report := a.Report()
	cmp := a.Comparison()

	fmt.Printf("Dataset: %s (%d linhas, %d completas)\n", info.Source, info.Rows, info.CleanRows)
	fmt.Printf("Acurácia no conjunto de teste: %.3f\n\n", report.Accuracy)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tprecision\trecall\tf1-score\tsupport\t")
	row := func(m models.ClassMetrics) {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%d\t\n", m.Label, m.Precision, m.Recall, m.F1, m.Support)
	}
	for _, m := range report.Classes {
		row(m)
	}
	fmt.Fprintf(tw, "accuracy\t\t\t%.3f\t%d\t\n", report.Accuracy, report.TestRows)
	row(report.MacroAvg)
	row(report.WeightedAvg)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nAcurácia modelo completo: %.3f\n", cmp.FullAccuracy)
	fmt.Printf("Acurácia sem temp/chuva:  %.3f\n", cmp.ReducedAccuracy)
	return nil
}

// PredictCmd takes each feature as an optional flag. Unset values fall back
// to the dataset median, and the hour to noon.
type PredictCmd struct {
	TempC     *float64 `name:"temp-c" help:"Temperatura (°C)."`
	Humidity  *float64 `name:"umidade" help:"Umidade relativa (%)."`
	Precip    *float64 `name:"precipitacao" help:"Precipitação na última hora (mm)."`
	Radiation *float64 `name:"radiacao" help:"Radiação global (kJ/m²)."`
	Wind      *float64 `name:"vento" help:"Velocidade do vento (m/s)."`
	Pressure  *float64 `name:"pressao" help:"Pressão atmosférica (mB)."`
	Hour      *int     `name:"hora" help:"Hora do dia (0-23)."`
}

func (c *PredictCmd) reading(base models.Reading) models.Reading {
	r := base
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&r.TempC, c.TempC)
	set(&r.Humidity, c.Humidity)
	set(&r.Precip, c.Precip)
	set(&r.Radiation, c.Radiation)
	set(&r.Wind, c.Wind)
	set(&r.Pressure, c.Pressure)
	if c.Hour != nil {
		r.Hour = *c.Hour
	}
	return r
}

func (c *PredictCmd) Run(g *Globals, ctx context.Context) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	r := c.reading(a.Defaults())
	pred, err := a.Predict(r)
	if err != nil {
		return err
	}

	fmt.Printf("Faixa climática prevista: %s (regra: %s)\n\n", pred.Label, pred.RuleBand)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "faixa_climatica\tprobabilidade")
	for _, p := range pred.Probabilities {
		fmt.Fprintf(tw, "%s\t%.3f\t%s\n", p.Label, p.Probability, strings.Repeat("#", int(p.Probability*40+0.5)))
	}
	return tw.Flush()
}

type ImportancesCmd struct{}

func (c *ImportancesCmd) Run(g *Globals, ctx context.Context) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	imps, err := a.Importances()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "variavel\timportancia")
	for _, imp := range imps {
		fmt.Fprintf(tw, "%s\t%.4f\n", imp.Feature, imp.Score)
	}
	return tw.Flush()
}

type ImportSQLiteCmd struct {
	Database string `arg:"" help:"SQLite database to create or append to." type:"path"`
	Station  string `help:"Station code stored with every row." default:"A000"`
}

func (c *ImportSQLiteCmd) Run(g *Globals, ctx context.Context) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ds, err := dataset.Load(ctx, cfg.Data, dataset.Options{DeriveLabels: cfg.DeriveLabels})
	if err != nil {
		return err
	}

	st, err := store.Create(c.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	obs := ds.Observations(c.Station)
	if err := st.InsertObservations(ctx, obs); err != nil {
		return err
	}
	total, err := st.CountObservations()
	if err != nil {
		return err
	}
	log.Info().
		Str("database", c.Database).
		Int("inserted", len(obs)).
		Int("total", total).
		Msg("import complete")
	fmt.Printf("Fonte para --data: sqlite://%s\n", c.Database)
	return nil
}

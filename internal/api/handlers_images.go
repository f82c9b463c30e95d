package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lox/faixaclima/internal/app"
	"github.com/lox/faixaclima/internal/chart"
)

func (s *Server) handleImportancesChart(w http.ResponseWriter, r *http.Request) {
	data, err := s.charts.Render("importances", "importances", func() ([]byte, error) {
		imps, err := s.app.Importances()
		if err != nil {
			return nil, err
		}
		bars := make([]chart.Bar, len(imps))
		for i, imp := range imps {
			bars[i] = chart.Bar{Label: imp.Feature, Value: imp.Score}
		}
		return chart.Bars("Importancia das variaveis", bars)
	})
	if err != nil {
		log.Error().Err(err).Msg("render importances chart")
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}
	servePNG(w, data)
}

// handlePredictionChart draws the class probabilities for the reading in
// the query string. Missing values take their slider defaults.
func (s *Server) handlePredictionChart(w http.ResponseWriter, r *http.Request) {
	reading, err := parseReading(r.URL.Query(), s.app.Defaults())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := s.charts.Render("prediction?"+readingQuery(reading), "prediction", func() ([]byte, error) {
		pred, err := s.app.Predict(reading)
		if err != nil {
			return nil, err
		}
		bars := make([]chart.Bar, len(pred.Probabilities))
		for i, p := range pred.Probabilities {
			bars[i] = chart.Bar{Label: p.Label, Value: p.Probability}
		}
		return chart.Bars("Probabilidade por faixa: "+pred.Label, bars)
	})
	switch {
	case errors.Is(err, app.ErrOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Error().Err(err).Msg("render prediction chart")
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}
	servePNG(w, data)
}

func servePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

package api

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	imps, err := s.app.Importances()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := IndexData{
		Dataset:     s.app.Dataset(),
		Report:      s.app.Report(),
		Comparison:  s.app.Comparison(),
		Importances: imps,
	}

	q := r.URL.Query()
	reading, err := parseReading(q, s.app.Defaults())
	if err != nil {
		data.PredictErr = err.Error()
	} else if q.Has("prever") {
		pred, err := s.app.Predict(reading)
		if err != nil {
			data.PredictErr = err.Error()
		} else {
			data.Prediction = pred
			data.ChartURL = template.URL("/charts/prediction.png?" + readingQuery(reading))
		}
	}
	data.Sliders = sliders(s.app.Ranges(), reading)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Error().Err(err).Msg("render index")
	}
}

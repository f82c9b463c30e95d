package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lox/faixaclima/internal/app"
	"github.com/lox/faixaclima/internal/models"
)

// maxPredictBody bounds POST /api/predict request bodies.
const maxPredictBody = 1 << 14

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write json response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type HealthStatus struct {
	Status      string  `json:"status"`
	Fingerprint string  `json:"fingerprint"`
	Rows        int     `json:"rows"`
	Accuracy    float64 `json:"accuracy"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := s.app.Dataset()
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:      "ok",
		Fingerprint: info.Fingerprint,
		Rows:        info.CleanRows,
		Accuracy:    s.app.Report().Accuracy,
	})
}

func (s *Server) handleAPIDataset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Dataset())
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Report())
}

func (s *Server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Comparison())
}

func (s *Server) handleAPIRanges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Ranges())
}

func (s *Server) handleAPIImportances(w http.ResponseWriter, r *http.Request) {
	imps, err := s.app.Importances()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, imps)
}

// handleAPIPredict classifies a JSON reading. Omitted fields take their
// slider defaults.
func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	reading := s.app.Defaults()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&reading); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	pred, err := s.app.Predict(reading)
	switch {
	case errors.Is(err, app.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		log.Error().Err(err).Msg("predict")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*models.Prediction
		Input models.Reading `json:"input"`
	}{pred, reading})
}

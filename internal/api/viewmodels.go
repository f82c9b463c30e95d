package api

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/lox/faixaclima/internal/models"
)

// IndexData contains everything the dashboard page renders.
type IndexData struct {
	Dataset     models.DatasetInfo
	Report      models.Report
	Comparison  models.Comparison
	Importances []models.Importance
	Sliders     []SliderView

	// Prediction is set when the form was submitted.
	Prediction *models.Prediction
	PredictErr string
	ChartURL   template.URL
}

// SliderView is one prediction input with its current value.
type SliderView struct {
	models.FeatureRange
	Value float64
}

func sliders(ranges []models.FeatureRange, r models.Reading) []SliderView {
	vals := r.Values()
	out := make([]SliderView, len(ranges))
	for i, fr := range ranges {
		out[i] = SliderView{FeatureRange: fr, Value: vals[fr.Feature]}
	}
	return out
}

// parseReading overlays query values named after the feature columns onto
// base.
func parseReading(q url.Values, base models.Reading) (models.Reading, error) {
	r := base
	floats := map[string]*float64{
		models.ColTemp:      &r.TempC,
		models.ColHumidity:  &r.Humidity,
		models.ColPrecip:    &r.Precip,
		models.ColRadiation: &r.Radiation,
		models.ColWind:      &r.Wind,
		models.ColPressure:  &r.Pressure,
	}
	for col, dst := range floats {
		raw := q.Get(col)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return base, fmt.Errorf("parse %s: %w", col, err)
		}
		*dst = v
	}
	if raw := q.Get(models.ColHour); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil {
			return base, fmt.Errorf("parse %s: %w", models.ColHour, err)
		}
		r.Hour = h
	}
	return r, nil
}

// readingQuery encodes r with the same keys parseReading reads. Encode
// sorts keys, so equal readings give equal strings.
func readingQuery(r models.Reading) string {
	q := url.Values{}
	for col, v := range r.Values() {
		if col == models.ColHour {
			q.Set(col, strconv.Itoa(r.Hour))
			continue
		}
		q.Set(col, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return q.Encode()
}

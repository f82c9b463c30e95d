package dataset

import (
	"database/sql"
	"math"
	"slices"

	"github.com/lox/faixaclima/internal/models"
)

// Observations converts every row into a storable observation. Missing
// values and absent columns become NULL.
func (d *Dataset) Observations(station string) []models.Observation {
	n := d.df.Nrow()
	floats := func(col string) []float64 {
		if !slices.Contains(d.df.Names(), col) {
			out := make([]float64, n)
			for i := range out {
				out[i] = math.NaN()
			}
			return out
		}
		return d.df.Col(col).Float()
	}
	nullable := func(v float64) sql.NullFloat64 {
		if math.IsNaN(v) {
			return sql.NullFloat64{}
		}
		return sql.NullFloat64{Float64: v, Valid: true}
	}

	temp := floats(models.ColTemp)
	hum := floats(models.ColHumidity)
	precip := floats(models.ColPrecip)
	rad := floats(models.ColRadiation)
	wind := floats(models.ColWind)
	press := floats(models.ColPressure)
	hour := floats(models.ColHour)

	var labels []string
	var labelNaN []bool
	if slices.Contains(d.df.Names(), models.Target) {
		col := d.df.Col(models.Target)
		labels, labelNaN = col.Records(), col.IsNaN()
	}

	out := make([]models.Observation, n)
	for i := range out {
		o := models.Observation{
			Station:   station,
			TempC:     nullable(temp[i]),
			Humidity:  nullable(hum[i]),
			Precip:    nullable(precip[i]),
			Radiation: nullable(rad[i]),
			Wind:      nullable(wind[i]),
			Pressure:  nullable(press[i]),
		}
		if !math.IsNaN(hour[i]) {
			o.Hour = sql.NullInt64{Int64: int64(hour[i]), Valid: true}
		}
		if labels != nil && !labelNaN[i] && labels[i] != "" {
			o.Band = sql.NullString{String: labels[i], Valid: true}
		}
		out[i] = o
	}
	return out
}

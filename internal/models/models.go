package models

import "database/sql"

// Column names as they appear in the INMET export.
const (
	ColTemp      = "temp_c"
	ColHumidity  = "umidade_pct"
	ColPrecip    = "precipitacao_mm"
	ColRadiation = "radiacao_kj"
	ColWind      = "vento_vel_ms"
	ColPressure  = "pressao_mb"
	ColHour      = "hora"

	// Target is the climate band label column.
	Target = "faixa_climatica"
)

type FeatureSet struct {
	Name    string
	Columns []string
}

var FullFeatures = FeatureSet{
	Name: "completo",
	Columns: []string{
		ColTemp,
		ColHumidity,
		ColPrecip,
		ColRadiation,
		ColWind,
		ColPressure,
		ColHour,
	},
}

// ReducedFeatures drops temperature and precipitation for the ablation model.
var ReducedFeatures = FeatureSet{
	Name: "reduzido",
	Columns: []string{
		ColHumidity,
		ColRadiation,
		ColWind,
		ColPressure,
		ColHour,
	},
}

// Reading is one manually entered set of sensor values.
type Reading struct {
	TempC     float64 `json:"temp_c"`
	Humidity  float64 `json:"umidade_pct"`
	Precip    float64 `json:"precipitacao_mm"`
	Radiation float64 `json:"radiacao_kj"`
	Wind      float64 `json:"vento_vel_ms"`
	Pressure  float64 `json:"pressao_mb"`
	Hour      int     `json:"hora"`
}

// Vector returns the reading in FullFeatures column order.
func (r Reading) Vector() []float64 {
	return []float64{r.TempC, r.Humidity, r.Precip, r.Radiation, r.Wind, r.Pressure, float64(r.Hour)}
}

// Values returns the reading keyed by column name.
func (r Reading) Values() map[string]float64 {
	v := r.Vector()
	out := make(map[string]float64, len(v))
	for i, col := range FullFeatures.Columns {
		out[col] = v[i]
	}
	return out
}

type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

type Report struct {
	Accuracy    float64        `json:"accuracy"`
	Classes     []ClassMetrics `json:"classes"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	TrainRows   int            `json:"train_rows"`
	TestRows    int            `json:"test_rows"`
}

type Prediction struct {
	ID            string             `json:"id"`
	Label         string             `json:"label"`
	Probabilities []ClassProbability `json:"probabilities"`
	RuleBand      string             `json:"rule_band"`
}

type ClassProbability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

type Importance struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// FeatureRange bounds one prediction input to what the cleaned dataset observed.
type FeatureRange struct {
	Feature string  `json:"feature"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Comparison holds the ablation result next to the full model.
type Comparison struct {
	FullAccuracy    float64 `json:"full_accuracy"`
	ReducedAccuracy float64 `json:"reduced_accuracy"`
	Rows            int     `json:"rows"`
}

// Observation is one hourly reading as stored in SQLite. Any column may be
// NULL; rows with gaps are dropped at selection time.
type Observation struct {
	ID        int64
	Station   string
	TempC     sql.NullFloat64
	Humidity  sql.NullFloat64
	Precip    sql.NullFloat64
	Radiation sql.NullFloat64
	Wind      sql.NullFloat64
	Pressure  sql.NullFloat64
	Hour      sql.NullInt64
	Band      sql.NullString
}

// DatasetInfo summarizes the loaded dataset for the dashboard sidebar.
type DatasetInfo struct {
	Source      string     `json:"source"`
	Fingerprint string     `json:"fingerprint"`
	Rows        int        `json:"rows"`
	CleanRows   int        `json:"clean_rows"`
	Columns     []string   `json:"columns"`
	Sample      [][]string `json:"sample"`
}

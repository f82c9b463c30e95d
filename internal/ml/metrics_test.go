package ml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lox/faixaclima/internal/models"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []string
		yPred []string
		want  models.Report
	}{
		{
			name:  "two classes",
			yTrue: []string{"a", "a", "b", "b"},
			yPred: []string{"a", "b", "b", "b"},
			want: models.Report{
				Accuracy: 0.75,
				TestRows: 4,
				Classes: []models.ClassMetrics{
					{Label: "a", Precision: 1, Recall: 0.5, F1: 2.0 / 3, Support: 2},
					{Label: "b", Precision: 2.0 / 3, Recall: 1, F1: 0.8, Support: 2},
				},
				MacroAvg:    models.ClassMetrics{Label: "macro avg", Precision: 5.0 / 6, Recall: 0.75, F1: (2.0/3 + 0.8) / 2, Support: 4},
				WeightedAvg: models.ClassMetrics{Label: "weighted avg", Precision: 5.0 / 6, Recall: 0.75, F1: (2.0/3 + 0.8) / 2, Support: 4},
			},
		},
		{
			name:  "predicted-only class has zero support",
			yTrue: []string{"a", "a"},
			yPred: []string{"a", "c"},
			want: models.Report{
				Accuracy: 0.5,
				TestRows: 2,
				Classes: []models.ClassMetrics{
					{Label: "a", Precision: 1, Recall: 0.5, F1: 2.0 / 3, Support: 2},
					{Label: "c", Precision: 0, Recall: 0, F1: 0, Support: 0},
				},
				MacroAvg:    models.ClassMetrics{Label: "macro avg", Precision: 0.5, Recall: 0.25, F1: 1.0 / 3, Support: 2},
				WeightedAvg: models.ClassMetrics{Label: "weighted avg", Precision: 1, Recall: 0.5, F1: 2.0 / 3, Support: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.yTrue, tt.yPred)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

package ml

import (
	"sort"

	"github.com/sjwhitworth/golearn/evaluation"

	"github.com/lox/faixaclima/internal/models"
)

// Evaluate builds a confusion matrix over the union of true and predicted
// labels and reports accuracy plus per-class precision, recall, F1 and
// support. Undefined ratios (0/0) are reported as 0.
func Evaluate(yTrue, yPred []string) models.Report {
	labelSet := make(map[string]struct{})
	for _, l := range yTrue {
		labelSet[l] = struct{}{}
	}
	for _, l := range yPred {
		labelSet[l] = struct{}{}
	}
	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	cm := make(evaluation.ConfusionMatrix, len(labels))
	for _, l := range labels {
		cm[l] = make(map[string]int, len(labels))
	}
	for i := range yTrue {
		cm[yTrue[i]][yPred[i]]++
	}

	report := models.Report{TestRows: len(yTrue)}
	if len(yTrue) == 0 {
		return report
	}
	report.Accuracy = evaluation.GetAccuracy(cm)

	var macro, weighted models.ClassMetrics
	for _, l := range labels {
		tp := evaluation.GetTruePositives(l, cm)
		fp := evaluation.GetFalsePositives(l, cm)
		fn := evaluation.GetFalseNegatives(l, cm)

		m := models.ClassMetrics{
			Label:     l,
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   int(tp + fn),
		}
		m.F1 = ratio(2*m.Precision*m.Recall, m.Precision+m.Recall)
		report.Classes = append(report.Classes, m)

		macro.Precision += m.Precision
		macro.Recall += m.Recall
		macro.F1 += m.F1
		w := float64(m.Support)
		weighted.Precision += w * m.Precision
		weighted.Recall += w * m.Recall
		weighted.F1 += w * m.F1
	}

	k := float64(len(labels))
	report.MacroAvg = models.ClassMetrics{
		Label:     "macro avg",
		Precision: macro.Precision / k,
		Recall:    macro.Recall / k,
		F1:        macro.F1 / k,
		Support:   len(yTrue),
	}
	total := float64(len(yTrue))
	report.WeightedAvg = models.ClassMetrics{
		Label:     "weighted avg",
		Precision: weighted.Precision / total,
		Recall:    weighted.Recall / total,
		F1:        weighted.F1 / total,
		Support:   len(yTrue),
	}
	return report
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

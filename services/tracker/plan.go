package tracker

import "strings"

// PlannedScore sums the potential points of every tracking row named
// by the training plan.
func PlannedScore(rows []TrackingRow, plan *TrainingPlan) float64 {
	if plan == nil {
		return 0
	}
	total := 0.0
	for _, row := range rows {
		for _, planned := range plan.Competencies {
			if planned != "" && strings.Contains(row.Name, planned) {
				total += row.MaxUploadedScore
				break
			}
		}
	}
	return total
}

package tracker

import (
	"log/slog"
	"time"
)

// TrackingRow is one competency's contribution to the points model.
// Rows are derived fresh from a dataset plus the static weight tables
// on every call, never persisted, so the weighting policy can change
// without migrating stored data.
type TrackingRow struct {
	Name string
	// module.category.level prefix of the name
	Category string
	Weight   float64
	// Score * Weight
	WeightedScore float64
	// what a fully-uploaded-but-ungraded item contributes
	MaxUploadedScore float64
	SubmissionStatus string
	GradingStatus    string
	LastModified     *time.Time
	GradeDate        *time.Time
}

// level multipliers split a category's weight across its three
// competency levels
var levelMultipliers = map[byte]float64{
	'1': 0.2,
	'2': 0.5,
	'3': 0.3,
}

// Modules 1, 7 and 8 don't distribute competencies evenly across
// levels, these groups carry fixed per-level splits instead.
var unevenLevelMultipliers = map[string]float64{
	"1.1.1": 0.8,
	"1.1.2": 0.2,
	"1.2.1": 0.4,
	"1.2.2": 0.6,
	"7.2.1": 0.6,
	"7.2.2": 0.4,
	"7.4.1": 0.3,
	"7.4.2": 0.7,
}

func usesUnevenLevels(module byte) bool {
	return module == '1' || module == '7' || module == '8'
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func rowWeight(name string) float64 {
	weight, ok := resolvedWeights[prefix(name, 3)]
	if !ok {
		slog.Warn("competency has no configured weight", "name", name)
		return 0
	}

	category := prefix(name, 5)
	if m, ok := unevenLevelMultipliers[category]; ok {
		return weight * m
	}
	if len(name) >= 5 && !usesUnevenLevels(name[0]) {
		if m, ok := levelMultipliers[name[4]]; ok {
			weight *= m
		}
	}
	return weight
}

// GenerateTracking converts a dataset into tracking rows. Pure and
// stateless, safe to re-run whenever the caller mutates the dataset.
func GenerateTracking(ds *CompetencyDataset) []TrackingRow {
	rows := make([]TrackingRow, 0, len(ds.Competencies))
	siblings := map[string]int{}

	for _, c := range ds.Competencies {
		category := prefix(c.Name, 5)
		siblings[category]++
		rows = append(rows, TrackingRow{
			Name:             c.Name,
			Category:         category,
			Weight:           rowWeight(c.Name),
			SubmissionStatus: c.SubmissionStatus,
			GradingStatus:    c.GradingStatus,
			LastModified:     c.LastModified,
			GradeDate:        c.GradeDate,
		})
	}

	// a category's total weight is invariant to how many
	// competencies compose it
	for i := range rows {
		rows[i].Weight /= float64(siblings[rows[i].Category])
		rows[i].MaxUploadedScore = rows[i].Weight
		rows[i].WeightedScore = ds.Competencies[i].Score * rows[i].Weight
	}

	return rows
}

package tracker

import (
	_ "embed"
	"strings"

	"github.com/titanous/json5"
)

//go:embed teapdata.json5
var teapDataFile []byte

type referenceData struct {
	BaseWeights    map[string]float64   `json:"base_weights"`
	ModulePoints   map[string]float64   `json:"module_points"`
	ExpectedPoints map[string][]float64 `json:"expected_points"`
}

var refData referenceData
var resolvedWeights map[string]float64

func init() {
	err := json5.Unmarshal(teapDataFile, &refData)
	if err != nil {
		panic(err)
	}
	resolvedWeights = resolveWeights(refData.BaseWeights, refData.ModulePoints)
}

// resolveWeights scales each category's base weight so that the
// categories of a module sum to that module's reference total points.
// The result is computed once from the two static tables and never
// mutated.
func resolveWeights(base map[string]float64, totals map[string]float64) map[string]float64 {
	resolved := make(map[string]float64, len(base))
	for key, weight := range base {
		if !strings.Contains(key, ".") {
			continue
		}
		module := key[:1]
		resolved[key] = weight * totals[module] / base[module]
	}
	return resolved
}

// ModuleTotalPoints is the configured reference total for a module, 0
// for an unknown module.
func ModuleTotalPoints(module string) float64 {
	return refData.ModulePoints[module]
}

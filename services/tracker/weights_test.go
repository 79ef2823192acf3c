package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveWeights(t *testing.T) {
	resolved := resolveWeights(
		map[string]float64{
			"3.1": 1.4,
			"3.2": 0.4,
			"3":   4.2,
		},
		map[string]float64{"3": 80},
	)

	require.InDelta(t, 1.4*80/4.2, resolved["3.1"], 1e-9)
	require.InDelta(t, 0.4*80/4.2, resolved["3.2"], 1e-9)
	// whole-module keys are scaling inputs, not categories
	require.NotContains(t, resolved, "3")
}

func TestEmbeddedReferenceData(t *testing.T) {
	// every category key must have a module total to scale against
	for key := range refData.BaseWeights {
		require.Contains(t, refData.ModulePoints, key[:1], key)
	}
	require.Equal(t, 35.0, ModuleTotalPoints("6"))
	require.Equal(t, 0.0, ModuleTotalPoints("9"))

	for years, anchors := range refData.ExpectedPoints {
		require.NotEmpty(t, anchors, years)
		require.InDelta(t, 400, anchors[len(anchors)-1], 1e-9, years)
	}
}

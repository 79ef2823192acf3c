package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSqueeze(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "  Jane\n\tCitizen ", expected: "Jane Citizen"},
		{input: "already clean", expected: "already clean"},
		{input: "", expected: ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, Squeeze(test.input), test.input)
	}
}

func TestStripLabel(t *testing.T) {
	require.Equal(
		t,
		"3.2 total\n0.8",
		StripLabel("Mean of grades 3.2 total\n0.8", "Mean of grades"),
	)
	require.Equal(t, "untouched", StripLabel("untouched", "missing label"))
}

package timezone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	require.NotNil(t, Location)
	require.Equal(t, "Australia/Sydney", Location.String())
	require.Equal(t, Location, Now().Location())
}

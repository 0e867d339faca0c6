package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFoldAccents(t *testing.T) {
	require.Equal(t, "decembre", FoldAccents("Décembre"))
	require.Equal(t, "fevrier aout", FoldAccents("février août"))
	require.Equal(t, "plain", FoldAccents("PLAIN"))
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("  Play Station 5 ", []string{"playstation"}))
	require.False(t, MatchName("Xbox", []string{"playstation"}))
}

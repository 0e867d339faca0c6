package jv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateURL(t *testing.T) {
	cases := []struct {
		month    int
		year     int
		platform Platform
		expect   string
	}{
		{10, 2025, PC, "https://www.jeuxvideo.com/jeux/sorties/machine-10/annee-2025/mois-10/"},
		{1, 2026, PS5, "https://www.jeuxvideo.com/jeux/sorties/machine-22/annee-2026/mois-1/"},
		{2, 2026, Switch, "https://www.jeuxvideo.com/jeux/sorties/machine-42/annee-2026/mois-2/"},
		{3, 2026, Xbox, "https://www.jeuxvideo.com/jeux/sorties/machine-32/annee-2026/mois-3/"},
		{12, 2025, All, "https://www.jeuxvideo.com/jeux/sorties/annee-2025/mois-12/"},
	}
	for _, test := range cases {
		got, err := GenerateURL(SiteBase+"/", test.month, test.year, test.platform)
		require.NoError(t, err)
		require.Equal(t, test.expect, got)
	}
}

func TestGenerateURLRejects(t *testing.T) {
	_, err := GenerateURL(SiteBase, 13, 2025, PC)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = GenerateURL(SiteBase, 0, 2025, PC)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = GenerateURL(SiteBase, 5, 2025, Platform{Name: "Dreamcast", Machine: 99})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNextMonth(t *testing.T) {
	m, y := NextMonth(12, 2025)
	require.Equal(t, 1, m)
	require.Equal(t, 2026, y)
	m, y = NextMonth(6, 2025)
	require.Equal(t, 7, m)
	require.Equal(t, 2025, y)
}

func TestParsePlatform(t *testing.T) {
	cases := []struct {
		input  string
		expect Platform
	}{
		{"PS5", PS5},
		{"playstation 5", PS5},
		{"Toutes", All},
		{"switch", Switch},
		{"Nintendo Switch", Switch},
		{"xbox", Xbox},
		{"pc", PC},
		// typo
		{"playstaton5", PS5},
	}
	for _, test := range cases {
		got, err := ParsePlatform(test.input)
		require.NoError(t, err, test.input)
		require.Equal(t, test.expect, got, test.input)
	}

	_, err := ParsePlatform("dreamcast")
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ParsePlatform("  ")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSwitchCoverageGap(t *testing.T) {
	require.NotEmpty(t, Switch.CoverageNote)
	for _, p := range []Platform{All, PS5, Xbox, PC} {
		require.Empty(t, p.CoverageNote)
	}
}

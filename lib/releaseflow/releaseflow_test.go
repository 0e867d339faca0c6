package releaseflow

import (
	"fmt"
	"testing"

	"barman/lib/scrapers/jv"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFlowTransitions(t *testing.T) {
	f := New()
	require.Equal(t, AwaitingPlatform, f.State())

	_, err := f.SelectWindow(jv.Week)
	require.ErrorIs(t, err, ErrPlatformRequired)

	require.NoError(t, f.SelectPlatform(jv.PS5))
	require.Equal(t, AwaitingWindow, f.State())

	q, err := f.SelectWindow(jv.Week)
	require.NoError(t, err)
	require.Equal(t, Query{Platform: jv.PS5, Window: jv.Week}, q)
	require.Equal(t, Rendering, f.State())

	_, err = f.SelectWindow(jv.Month)
	require.ErrorIs(t, err, ErrBusy)
	require.ErrorIs(t, f.SelectPlatform(jv.PC), ErrBusy)

	f.Done()
	require.Equal(t, AwaitingWindow, f.State())

	q, err = f.SelectWindow(jv.Month)
	require.NoError(t, err)
	require.Equal(t, jv.PS5, q.Platform)
}

func releases(n int, platforms string) []jv.Release {
	var out []jv.Release
	for i := range n {
		out = append(out, jv.Release{
			Name:        fmt.Sprintf("Game %d", i),
			ReleaseText: "Sortie : 1 janvier 2026",
			Platforms:   platforms,
			URL:         fmt.Sprintf("https://www.jeuxvideo.com/jeux/%d/", i),
		})
	}
	return out
}

func TestPages(t *testing.T) {
	q := Query{Platform: jv.PS5, Window: jv.Week}
	pages := Pages(releases(51, "PS5"), q)

	require.Len(t, pages, 3)
	require.Equal(t, "Releases of the week on PS5", pages[0].Title)
	require.Equal(t, ContinuedTitle, pages[1].Title)
	require.Equal(t, ContinuedTitle, pages[2].Title)
	require.Len(t, pages[0].Entries, 25)
	require.Len(t, pages[1].Entries, 25)
	require.Len(t, pages[2].Entries, 1)

	expect := Entry{
		Name: "Game 0",
		Lines: []string{
			"Sortie : 1 janvier 2026",
			"Platforms: PS5",
			"https://www.jeuxvideo.com/jeux/0/",
		},
	}
	if diff := cmp.Diff(expect, pages[0].Entries[0]); diff != "" {
		t.Fatal(diff)
	}
}

func TestPagesWithoutPlatform(t *testing.T) {
	pages := Pages(releases(1, jv.NoPlatform), Query{Platform: jv.All, Window: jv.Day})
	require.Len(t, pages, 1)
	require.Equal(t, "Releases of the day", pages[0].Title)
	require.Equal(t, []string{"Sortie : 1 janvier 2026", "https://www.jeuxvideo.com/jeux/0/"}, pages[0].Entries[0].Lines)
}

func TestPagesEmpty(t *testing.T) {
	pages := Pages(nil, Query{Platform: jv.Xbox, Window: jv.Month})
	require.Len(t, pages, 1)
	require.Empty(t, pages[0].Entries)
	require.Equal(t, "Releases of the month on Xbox", pages[0].Title)
}

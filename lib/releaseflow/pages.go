package releaseflow

import (
	"fmt"

	"barman/lib/scrapers/jv"
)

const (
	MaxEntriesPerPage = 25
	ContinuedTitle    = "Continued"
)

type Entry struct {
	Name  string
	Lines []string
}

type Page struct {
	Title   string
	Entries []Entry
}

// Title is the heading of the first page of a listing.
func (q Query) Title() string {
	if q.Platform == jv.All {
		return q.Window.Title()
	}
	return fmt.Sprintf("%s on %s", q.Window.Title(), q.Platform.Name)
}

func entry(r jv.Release) Entry {
	lines := []string{r.ReleaseText}
	if r.HasPlatform() {
		lines = append(lines, "Platforms: "+r.Platforms)
	}
	lines = append(lines, r.URL)
	return Entry{Name: r.Name, Lines: lines}
}

// Pages splits releases into display pages of at most MaxEntriesPerPage
// entries. There is always at least one page so an empty listing still
// shows its title.
func Pages(releases []jv.Release, q Query) []Page {
	pages := []Page{{Title: q.Title()}}
	for _, r := range releases {
		current := &pages[len(pages)-1]
		if len(current.Entries) >= MaxEntriesPerPage {
			pages = append(pages, Page{Title: ContinuedTitle})
			current = &pages[len(pages)-1]
		}
		current.Entries = append(current.Entries, entry(r))
	}
	return pages
}

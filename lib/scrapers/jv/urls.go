package jv

import (
	"errors"
	"fmt"
	"strings"

	"barman/lib/textutil"

	"github.com/antzucaro/matchr"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Platform is a console filter of the release calendar.
type Platform struct {
	Name string
	// site identifier, 0 means every platform
	Machine int
	// CoverageNote describes releases the filter is known to miss.
	CoverageNote string
}

var (
	All    = Platform{Name: "All"}
	PS5    = Platform{Name: "PS5", Machine: 22}
	Xbox   = Platform{Name: "Xbox", Machine: 32}
	Switch = Platform{Name: "Switch", Machine: 42, CoverageNote: "only lists Switch 2 releases, original Switch titles are missing"}
	PC     = Platform{Name: "PC", Machine: 10}
)

var Platforms = []Platform{All, PS5, Xbox, Switch, PC}

var platformAliases = map[string]Platform{
	"toutes":         All,
	"all":            All,
	"ps5":            PS5,
	"playstation5":   PS5,
	"xbox":           Xbox,
	"xboxseries":     Xbox,
	"xboxseriesx":    Xbox,
	"switch":         Switch,
	"switch2":        Switch,
	"nintendoswitch": Switch,
	"pc":             PC,
	"windows":        PC,
}

const platformMatchThreshold = 0.85

// ParsePlatform resolves free-form user input to a platform, tolerating
// small typos.
func ParsePlatform(input string) (Platform, error) {
	name := textutil.NormalizeName(textutil.FoldAccents(input))
	if name == "" {
		return Platform{}, fmt.Errorf("%w: empty platform", ErrInvalidArgument)
	}
	if p, ok := platformAliases[name]; ok {
		return p, nil
	}

	var best Platform
	bestScore := 0.0
	for alias, p := range platformAliases {
		score := matchr.JaroWinkler(name, alias, false)
		if score > bestScore {
			best = p
			bestScore = score
		}
	}
	if bestScore < platformMatchThreshold {
		return Platform{}, fmt.Errorf("%w: unknown platform %q", ErrInvalidArgument, input)
	}
	return best, nil
}

func knownPlatform(p Platform) bool {
	for _, known := range Platforms {
		if known == p {
			return true
		}
	}
	return false
}

// GenerateURL builds the calendar url listing a month of releases.
func GenerateURL(base string, month, year int, platform Platform) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month %d", ErrInvalidArgument, month)
	}
	if !knownPlatform(platform) {
		return "", fmt.Errorf("%w: unknown platform %q", ErrInvalidArgument, platform.Name)
	}
	base = strings.TrimSuffix(base, "/")
	if platform.Machine == 0 {
		return fmt.Sprintf("%s/jeux/sorties/annee-%d/mois-%d/", base, year, month), nil
	}
	return fmt.Sprintf("%s/jeux/sorties/machine-%d/annee-%d/mois-%d/", base, platform.Machine, year, month), nil
}

func NextMonth(month, year int) (int, int) {
	if month == 12 {
		return 1, year + 1
	}
	return month + 1, year
}

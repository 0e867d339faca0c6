package render

import (
	"fmt"
	"strings"
)

// Profile selects the page format and colour theme of a document.
type Profile struct {
	Mobile bool
	Dark   bool
}

var Modes = []string{"Normal Light", "Normal Dark", "Mobile Light", "Mobile Dark"}

// ParseMode reads one of Modes, the french "Clair" spelling is accepted
// for light.
func ParseMode(mode string) (Profile, error) {
	if strings.TrimSpace(mode) == "" {
		return Profile{}, nil
	}
	fields := strings.Fields(strings.ToLower(mode))
	if len(fields) != 2 {
		return Profile{}, fmt.Errorf("unknown mode %q, expected one of %s", mode, strings.Join(Modes, ", "))
	}

	var p Profile
	switch fields[0] {
	case "normal":
	case "mobile":
		p.Mobile = true
	default:
		return Profile{}, fmt.Errorf("unknown mode %q, expected one of %s", mode, strings.Join(Modes, ", "))
	}
	switch fields[1] {
	case "light", "clair":
	case "dark":
		p.Dark = true
	default:
		return Profile{}, fmt.Errorf("unknown mode %q, expected one of %s", mode, strings.Join(Modes, ", "))
	}
	return p, nil
}

func (p Profile) String() string {
	format := "Normal"
	if p.Mobile {
		format = "Mobile"
	}
	theme := "Light"
	if p.Dark {
		theme = "Dark"
	}
	return format + " " + theme
}

// PageOptions is what the converter needs to lay out a document.
type PageOptions struct {
	PageSize string
	// paper dimensions in inches
	PaperWidth  float64
	PaperHeight float64
	MarginMM    float64
	PaddingMM   float64
	Encoding    string
	// the pdf outline is never generated
	Outline bool
	// documents reference images by url but are loaded from disk
	LocalFileAccess bool
}

const mmPerInch = 25.4

func (o PageOptions) MarginInches() float64 {
	return o.MarginMM / mmPerInch
}

// Options resolves a profile to its page layout. Dark documents move the
// margin into body padding so the background reaches the page edge.
func (p Profile) Options() PageOptions {
	opts := PageOptions{
		PageSize:        "A4",
		PaperWidth:      8.27,
		PaperHeight:     11.69,
		Encoding:        "UTF-8",
		LocalFileAccess: true,
	}
	space := 20.0
	if p.Mobile {
		opts.PageSize = "A6"
		opts.PaperWidth = 4.13
		opts.PaperHeight = 5.83
		space = 7
	}
	if p.Dark {
		opts.PaddingMM = space
	} else {
		opts.MarginMM = space
	}
	return opts
}

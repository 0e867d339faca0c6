package releaseflow

import (
	"errors"
	"fmt"
	"sync"

	"barman/lib/scrapers/jv"
)

type State int

const (
	AwaitingPlatform State = iota
	AwaitingWindow
	Rendering
)

func (s State) String() string {
	switch s {
	case AwaitingPlatform:
		return "awaiting platform"
	case AwaitingWindow:
		return "awaiting window"
	case Rendering:
		return "rendering"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrPlatformRequired = errors.New("choose a platform first")
	ErrBusy             = errors.New("a listing is already being rendered")
)

// Query is the work a window selection asks the caller to perform.
type Query struct {
	Platform jv.Platform
	Window   jv.Window
}

// Flow tracks one user's progress through the release view: pick a
// platform, pick a window, wait for the listing, pick another window.
type Flow struct {
	mutex    sync.Mutex
	state    State
	platform jv.Platform
}

func New() *Flow {
	return &Flow{state: AwaitingPlatform}
}

func (f *Flow) State() State {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.state
}

// SelectPlatform may be called any time nothing is rendering, it replaces
// the previous choice.
func (f *Flow) SelectPlatform(p jv.Platform) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.state == Rendering {
		return ErrBusy
	}
	f.platform = p
	f.state = AwaitingWindow
	return nil
}

// SelectWindow moves to Rendering and returns the query to run.
func (f *Flow) SelectWindow(w jv.Window) (Query, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	switch f.state {
	case AwaitingPlatform:
		return Query{}, ErrPlatformRequired
	case Rendering:
		return Query{}, ErrBusy
	}
	f.state = Rendering
	return Query{Platform: f.platform, Window: w}, nil
}

// Done is called once the listing was shown, another window may then be
// chosen for the same platform.
func (f *Flow) Done() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.state == Rendering {
		f.state = AwaitingWindow
	}
}

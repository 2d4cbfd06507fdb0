// Package sidebar holds the navigation menu and its open/collapsed state.
package sidebar

// MobileBreakpoint is the viewport width below which the menu is a drawer.
const MobileBreakpoint = 1024

type Route struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Icon string `json:"icon"`
}

// Routes are the menu entries. Prescriptions live inside the patient view.
var Routes = []Route{
	{Name: "Dashboard", Path: "/", Icon: "layout-dashboard"},
	{Name: "Pacientes", Path: "/pacientes", Icon: "users"},
}

type Item struct {
	Route
	Active bool `json:"active"`
}

// Items returns Routes with the entry for path marked active. Matching is exact.
func Items(path string) []Item {
	items := make([]Item, len(Routes))
	for i, r := range Routes {
		items[i] = Item{Route: r, Active: r.Path == path}
	}
	return items
}

// State is the menu state. IsOpen only matters on mobile, where the menu is a
// drawer; IsCollapsed only on desktop, where the menu narrows to icons.
type State struct {
	IsOpen      bool `json:"is_open"`
	IsCollapsed bool `json:"is_collapsed"`
	IsMobile    bool `json:"is_mobile"`
}

// New returns the initial state for a viewport of width pixels.
func New(width int) State {
	var s State
	s.Resize(width)
	return s
}

func (s *State) Toggle() { s.IsOpen = !s.IsOpen }

// Close shuts the drawer, as a backdrop click or a link click does.
func (s *State) Close() { s.IsOpen = false }

func (s *State) PointerEnter() {
	if !s.IsMobile {
		s.IsCollapsed = false
	}
}

func (s *State) PointerLeave() {
	if !s.IsMobile {
		s.IsCollapsed = true
	}
}

// Resize records the viewport width. A mobile viewport is never collapsed.
func (s *State) Resize(width int) {
	s.IsMobile = width < MobileBreakpoint
	if s.IsMobile {
		s.IsCollapsed = false
	}
}

// Event names accepted by Apply.
const (
	EventToggle       = "toggle"
	EventClose        = "close"
	EventPointerEnter = "pointer-enter"
	EventPointerLeave = "pointer-leave"
	EventResize       = "resize"
	EventNavigate     = "navigate"
)

// Apply dispatches a named event and reports whether the name was known.
// width is only read by resize.
func (s *State) Apply(event string, width int) bool {
	switch event {
	case EventToggle:
		s.Toggle()
	case EventClose, EventNavigate:
		s.Close()
	case EventPointerEnter:
		s.PointerEnter()
	case EventPointerLeave:
		s.PointerLeave()
	case EventResize:
		s.Resize(width)
	default:
		return false
	}
	return true
}

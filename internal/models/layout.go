package models

// LayoutMode selects which screen the UI shows
type LayoutMode int

const (
	// LayoutInitial is the landing screen shown before the first prompt
	LayoutInitial LayoutMode = iota
	// LayoutDashboard is the split chat + visualization screen
	LayoutDashboard
)

// String returns the mode name
func (l LayoutMode) String() string {
	switch l {
	case LayoutInitial:
		return "initial"
	case LayoutDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// Advance returns the mode after a submission. The only transition is
// initial -> dashboard; every other mode maps to itself.
func (l LayoutMode) Advance() LayoutMode {
	if l == LayoutInitial {
		return LayoutDashboard
	}
	return l
}

package model

// Mode is one public-transport mode relevant to this pipeline.
type Mode string

const (
	ModeSubway    Mode = "subway"
	ModeLightRail Mode = "light_rail"
	ModeTram      Mode = "tram"
	ModeTrain     Mode = "train"
)

// ModeSet is an unordered set of Modes.
type ModeSet map[Mode]bool

func NewModeSet(modes ...Mode) ModeSet {
	s := make(ModeSet, len(modes))
	for _, m := range modes {
		s[m] = true
	}
	return s
}

// Intersects reports whether the two mode sets share any mode.
func (s ModeSet) Intersects(other ModeSet) bool {
	for m := range s {
		if other[m] {
			return true
		}
	}
	return false
}

// Station is a rail/tram stop element accepted by the classifier.
// A Station is owned by exactly one City.
type Station struct {
	ID        ID
	Element   *Element
	Modes     ModeSet
	Name      string
	IntName   string
	Colour    string // validated CSS colour, normalised, no leading '#'
	Center    Point
	IsNode    bool // false ⇒ a warning was recorded; the station is still used
}

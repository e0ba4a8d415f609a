// Package topology implements station classification, stop-area
// assembly, route-variant construction (track stitching, stop
// extraction, projection/order checking) and route-master aggregation.
package topology

import (
	"strings"

	"github.com/transitmap/topology/model"
)

// railTypes are the railway=* values treated as track for stitching
// and for detecting "tracks in a stop area".
var railTypes = map[string]bool{
	"rail":      true,
	"subway":    true,
	"light_rail": true,
	"tram":      true,
	"monorail":  true,
	"funicular": true,
}

// IsTrack reports whether an element is a track way for stitching
// purposes.
func IsTrack(e *model.Element) bool {
	if e == nil || e.ID.Kind != model.KindWay {
		return false
	}
	return railTypes[e.Tag("railway")]
}

// IsConstruction reports whether an element carries a construction or
// proposed tag.
func IsConstruction(e *model.Element) bool {
	if e == nil {
		return false
	}
	for k := range e.Tags {
		if strings.HasPrefix(k, "construction") || strings.HasPrefix(k, "proposed") {
			return true
		}
	}
	return e.Tag("railway") == "construction" || e.Tag("railway") == "proposed"
}

// IsStationTag reports whether the element carries the rail-station tag
// (railway=station/halt) or, when tram mode is active, the tram-stop
// tag (railway=tram_stop)
func IsStationTag(e *model.Element, tramActive bool) bool {
	railway := e.Tag("railway")
	if railway == "station" || railway == "halt" {
		return true
	}
	if tramActive && railway == "tram_stop" {
		return true
	}
	return false
}

// IsStopPosition reports whether the element is a stop-position node.
func IsStopPosition(e *model.Element) bool {
	return e.Tag("railway") == "stop" || e.Tag("public_transport") == "stop_position"
}

// IsPlatform reports whether the element is a platform way or node.
func IsPlatform(e *model.Element) bool {
	return e.Tag("railway") == "platform" || e.Tag("public_transport") == "platform"
}

// IsSubwayEntrance reports whether the element is a subway-entrance
// node.
func IsSubwayEntrance(e *model.Element) bool {
	return e.HasTag("railway") && e.Tag("railway") == "subway_entrance"
}

// ElementModes returns the union of {station=*} and any per-mode
// {mode=yes} tag
func ElementModes(e *model.Element) model.ModeSet {
	modes := model.ModeSet{}
	if s := e.Tag("station"); s != "" {
		modes[model.Mode(s)] = true
	}
	for _, m := range []model.Mode{model.ModeSubway, model.ModeLightRail, model.ModeTram, model.ModeTrain} {
		if e.Tag(string(m)) == "yes" {
			modes[m] = true
		}
	}
	return modes
}

// RoleQualifier extracts the entry_only/exit_only/backward qualifier
// suffix from a member role, e.g. "stop_entry_only" -> "entry_only".
func RoleQualifier(role string) string {
	switch {
	case strings.HasSuffix(role, "entry_only"):
		return "entry_only"
	case strings.HasSuffix(role, "exit_only"):
		return "exit_only"
	case role == "backward":
		return "backward"
	case role == "forward":
		return "forward"
	default:
		return ""
	}
}

// RoleBase strips a known qualifier suffix, e.g. "stop_entry_only" ->
// "stop", "platform_exit_only" -> "platform".
func RoleBase(role string) string {
	for _, suffix := range []string{"_entry_only", "_exit_only"} {
		if strings.HasSuffix(role, suffix) {
			return strings.TrimSuffix(role, suffix)
		}
	}
	return role
}

// HasRolePrefix reports whether a role starts with a given base
// ("platform" matches "platform", "platform_exit_only").
func HasRolePrefix(role, base string) bool {
	return strings.HasPrefix(role, base)
}

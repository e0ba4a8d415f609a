package topology

import (
	"github.com/transitmap/topology/colour"
	"github.com/transitmap/topology/elementstore"
	"github.com/transitmap/topology/model"
)

// ClassifyStation decides whether element is a transit station for the
// city's active mode set. Returns ok=false when the element is
// not a station at all (should be skipped silently); diagnostics cover
// the "not a node" warning and an unparseable-colour warning, neither of
// which disqualifies the station.
func ClassifyStation(e *model.Element, store *elementstore.Store, activeModes model.ModeSet) (*model.Station, []model.Diagnostic, bool) {
	tramActive := activeModes[model.ModeTram]
	if !IsStationTag(e, tramActive) {
		return nil, nil, false
	}
	if IsConstruction(e) {
		return nil, nil, false
	}

	modes := ElementModes(e)
	if !modes.Intersects(activeModes) {
		return nil, nil, false
	}

	var diags []model.Diagnostic

	isNode := e.ID.Kind == model.KindNode
	if !isNode {
		diags = append(diags, model.NewWarning(refOf(e), "station element is not a node"))
	}

	center, ok := store.Center(e.ID)
	if !ok {
		center, _ = elementstore.Center(e)
	}

	colourStr, colourOK := colour.Normalise(e.Tag("colour"))
	if !colourOK && e.Tag("colour") != "" {
		diags = append(diags, model.NewWarning(refOf(e), "unparseable colour %q", e.Tag("colour")))
	}

	st := &model.Station{
		ID:      e.ID,
		Element: e,
		Modes:   modes,
		Name:    e.Tag("name"),
		IntName: e.Tag("int_name"),
		Colour:  colourStr,
		Center:  center,
		IsNode:  isNode,
	}
	return st, diags, true
}

func refOf(e *model.Element) model.ElementRef {
	return model.ElementRef{Kind: e.ID.Kind, ID: e.ID.Num, Name: e.Tag("name")}
}

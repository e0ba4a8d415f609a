package recovery

import "github.com/transitmap/topology/model"

// BuildData captures every route variant of every good city just
// built as a recovery itinerary, keyed by (colour, ref), so the next
// run's order-recovery step has something to compare against. Cities
// that failed validation are skipped: their stop ordering may itself
// be broken, and writing it forward would poison future recovery.
func BuildData(cities []*model.City) *model.RecoveryData {
	data := &model.RecoveryData{ByKey: map[model.RecoveryKey][]model.RecoveryItinerary{}}

	for _, city := range cities {
		if city == nil || !city.Good() {
			continue
		}
		for _, rm := range city.RouteMasters {
			for _, variant := range rm.Variants {
				if len(variant.Stops) == 0 {
					continue
				}
				key := model.RecoveryKey{Colour: variant.Colour, Ref: variant.Ref}
				data.ByKey[key] = append(data.ByKey[key], itineraryFor(variant))
			}
		}
	}

	return data
}

func itineraryFor(route *model.Route) model.RecoveryItinerary {
	itin := model.RecoveryItinerary{
		Name: route.Name,
		From: route.From,
		To:   route.To,
	}
	for _, rs := range route.Stops {
		if rs.StopArea == nil || rs.StopArea.Station == nil {
			continue
		}
		name := rs.StopArea.Name
		if name == "" && rs.StopArea.IntName != "" {
			name = rs.StopArea.IntName
		}
		itin.Stations = append(itin.Stations, model.RecoveryStation{
			OSMID:  rs.StopArea.Station.ID.Num,
			Name:   name,
			Center: rs.StopArea.Center,
		})
	}
	return itin
}

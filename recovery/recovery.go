// Package recovery persists the stop itineraries produced by a prior
// run, keyed by (colour, ref), so a later run's order-recovery step
// has something to compare against when a route's stops
// cannot be ordered from geometry alone. It is not a source of truth:
// only used to break ties in favour of what was previously output.
package recovery

import "github.com/transitmap/topology/model"

// Store is implemented by every recovery backend.
type Store interface {
	Load() (*model.RecoveryData, error)
	Save(data *model.RecoveryData) error
	Close() error
}

// Package pipeline wires the whole system together: take the parsed
// city catalogue, process every city concurrently, resolve cross-city
// transfers, and produce the final export with cache substitution.
// Cities are independent units of work and are processed in parallel.
package pipeline

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/transitmap/topology/cache"
	"github.com/transitmap/topology/catalogue"
	"github.com/transitmap/topology/config"
	"github.com/transitmap/topology/export"
	"github.com/transitmap/topology/model"
	"github.com/transitmap/topology/recovery"
	"github.com/transitmap/topology/snapshot"
	"github.com/transitmap/topology/transfer"
	"github.com/transitmap/topology/validate"
)

// Result is the outcome of running the full pipeline.
type Result struct {
	Export model.Export
	Cities []*model.City
}

// Run builds every city of the already-parsed catalogue concurrently
// (one goroutine per city), resolves cross-city transfers, and assembles the
// final export, substituting cached good exports per city where the
// current run produced errors. recoveryStore may be nil, in which case
// route ordering gets no prior-run assistance and nothing is persisted
// for the next run.
func Run(catalogueCities []catalogue.City, tunables config.Tunables, cacheStore cache.Store, recoveryStore recovery.Store) (*Result, error) {
	var recoveryData *model.RecoveryData
	if recoveryStore != nil {
		data, err := recoveryStore.Load()
		if err != nil {
			return nil, errors.Wrap(err, "loading recovery store")
		}
		recoveryData = data
	}

	cities := make([]*model.City, len(catalogueCities))
	cityElements := make([][]*model.Element, len(catalogueCities))
	groupInputs := map[model.ID]*transfer.GroupInput{}
	var groupMu sync.Mutex

	var wg sync.WaitGroup
	errs := make(chan error, len(catalogueCities))

	for i, c := range catalogueCities {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()

			elements, err := loadSnapshot(c.SnapshotPath)
			if err != nil {
				errs <- errors.Wrapf(err, "loading snapshot for %s", c.Meta.ID)
				return
			}

			city := validate.BuildCity(validate.CityInput{
				Meta:     c.Meta,
				Elements: elements,
				Tunables: tunables,
				Recovery: recoveryData,
			})
			cities[i] = city
			cityElements[i] = elements
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for i, city := range cities {
		if city != nil {
			collectStopAreaGroups(cityElements[i], city, &groupMu, groupInputs)
		}
	}

	if recoveryStore != nil {
		if err := recoveryStore.Save(recovery.BuildData(cities)); err != nil {
			return nil, errors.Wrap(err, "saving recovery store")
		}
	}

	var result model.Export
	for _, city := range cities {
		if city == nil {
			continue
		}
		cityExport := export.BuildCity(city, tunables)
		if cacheStore != nil {
			substituted, err := export.SubstituteCached(city, cityExport, cacheStore, "", tunables)
			if err != nil {
				return nil, errors.Wrapf(err, "substituting cache for %s", city.Meta.ID)
			}
			cityExport = substituted
		}
		result.Stops = append(result.Stops, cityExport.Stops...)
		result.Networks = append(result.Networks, cityExport.Networks...)
	}

	groups := make([]transfer.GroupInput, 0, len(groupInputs))
	for _, g := range groupInputs {
		groups = append(groups, *g)
	}
	usedByID := usedStopAreasAcrossCities(cities)
	transfers := transfer.Resolve(groups, usedByID)
	result.Transfers = export.BuildTransfers(transfers, tunables)

	return &Result{Export: result, Cities: cities}, nil
}

func loadSnapshot(path string) ([]*model.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return snapshot.Load(f)
}

// collectStopAreaGroups scans a city's raw elements for
// stop_area_group relations and notes which of this city's StopAreas
// each one references, so groups can be merged across cities once all
// cities have finished building.
func collectStopAreaGroups(elements []*model.Element, city *model.City, mu *sync.Mutex, groups map[model.ID]*transfer.GroupInput) {
	byOSMID := map[int64]*model.StopArea{}
	for _, areas := range city.StationIndex {
		for _, sa := range areas {
			byOSMID[sa.ID.Num] = sa
			byOSMID[sa.Station.ID.Num] = sa
			for id := range sa.StopPositions {
				byOSMID[id] = sa
			}
			for id := range sa.Platforms {
				byOSMID[id] = sa
			}
		}
	}

	for _, e := range elements {
		if e.ID.Kind != model.KindRelation || e.Tag("type") != "public_transport" || e.Tag("public_transport") != "stop_area_group" {
			continue
		}

		mu.Lock()
		g, ok := groups[e.ID]
		if !ok {
			g = &transfer.GroupInput{GroupID: e.ID}
			groups[e.ID] = g
		}
		for _, m := range e.Members {
			if sa := byOSMID[m.Ref.Num]; sa != nil {
				g.StopAreas = append(g.StopAreas, sa)
			}
		}
		mu.Unlock()
	}
}

func usedStopAreasAcrossCities(cities []*model.City) map[*model.StopArea]bool {
	used := map[*model.StopArea]bool{}
	for _, city := range cities {
		if city == nil {
			continue
		}
		for sa := range transfer.UsedStopAreas(city) {
			used[sa] = true
		}
	}
	return used
}

package agency

import (
	"sort"
	"time"

	"github.com/mtransitapps/gtfs"
	"github.com/rs/zerolog"
)

type ProcessOptions struct {
	// Logger receives progress and summary lines. Nil disables logging.
	Logger *zerolog.Logger
}

func (opts ProcessOptions) logger() *zerolog.Logger {
	if opts.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return opts.Logger
}

type directionKey struct {
	routeId     int64
	directionId int
}

// Process walks a parsed feed and builds the agency's normalized dataset.
//
// The first fatal error returned by tools aborts processing and no dataset is returned.
func Process(static *gtfs.Static, tools Tools, opts ProcessOptions) (*gtfs.Dataset, error) {
	log := opts.logger()
	start := time.Now()
	ds := &gtfs.Dataset{
		Agency: gtfs.NormalizedAgency{
			Id:        agencyId(static),
			Color:     tools.AgencyColor(),
			RouteType: tools.AgencyRouteType(),
		},
	}
	log.Info().Str("agency", ds.Agency.Id).Msg("Generating agency data...")
	if tools.ShouldExcludeEverything() {
		log.Warn().Str("agency", ds.Agency.Id).Msg("No relevant service; excluding the whole feed")
		return ds, nil
	}

	for i := range static.Services {
		if !tools.ShouldExcludeCalendar(&static.Services[i]) {
			ds.Services = append(ds.Services, static.Services[i])
		}
	}
	for i := range static.CalendarDates {
		if !tools.ShouldExcludeCalendarDate(&static.CalendarDates[i]) {
			ds.CalendarDates = append(ds.CalendarDates, static.CalendarDates[i])
		}
	}

	rawRouteIdToId, err := processRoutes(static, tools, ds)
	if err != nil {
		return nil, err
	}
	keptTrips, err := processTrips(static, tools, rawRouteIdToId, ds, log)
	if err != nil {
		return nil, err
	}
	if err := processStops(static, tools, keptTrips, ds); err != nil {
		return nil, err
	}

	sortDataset(ds)
	log.Info().
		Str("agency", ds.Agency.Id).
		Int("routes", len(ds.Routes)).
		Int("trips", len(ds.Trips)).
		Int("stops", len(ds.Stops)).
		Int("services", len(ds.Services)).
		Int("calendar_dates", len(ds.CalendarDates)).
		Dur("duration", time.Since(start)).
		Msg("Generating agency data... DONE")
	return ds, nil
}

func agencyId(static *gtfs.Static) string {
	if len(static.Agencies) == 0 {
		return ""
	}
	return static.Agencies[0].Id
}

func processRoutes(static *gtfs.Static, tools Tools, ds *gtfs.Dataset) (map[string]int64, error) {
	rawRouteIdToId := map[string]int64{}
	idToIndex := map[int64]int{}
	for i := range static.Routes {
		route := &static.Routes[i]
		if tools.ShouldExcludeRoute(route) {
			continue
		}
		id, err := tools.RouteId(route)
		if err != nil {
			return nil, err
		}
		shortName, err := tools.RouteShortName(route)
		if err != nil {
			return nil, err
		}
		rawRouteIdToId[route.Id] = id
		normalized := gtfs.NormalizedRoute{
			Id:        id,
			ShortName: shortName,
			LongName:  tools.RouteLongName(route),
			Color:     tools.RouteColor(route),
		}
		// Several raw spellings of one route collapse into a single output route.
		if j, ok := idToIndex[id]; ok {
			if ds.Routes[j].ShortName != normalized.ShortName {
				return nil, Fatalf(KindConfigMismatch, route,
					"route id %d already used by short name %q", id, ds.Routes[j].ShortName)
			}
			if ds.Routes[j].LongName == "" {
				ds.Routes[j].LongName = normalized.LongName
			}
			continue
		}
		idToIndex[id] = len(ds.Routes)
		ds.Routes = append(ds.Routes, normalized)
	}
	return rawRouteIdToId, nil
}

func processTrips(static *gtfs.Static, tools Tools, rawRouteIdToId map[string]int64, ds *gtfs.Dataset, log *zerolog.Logger) (map[string]bool, error) {
	keptTrips := map[string]bool{}
	directions := map[directionKey]*gtfs.Direction{}
	var numOrphans, numExcluded int
	for i := range static.Trips {
		trip := &static.Trips[i]
		routeId, ok := rawRouteIdToId[trip.RouteID]
		if !ok {
			numOrphans++
			continue
		}
		if tools.ShouldExcludeTrip(trip) {
			numExcluded++
			continue
		}
		headsign, err := tools.SetTripHeadsign(routeId, trip)
		if err != nil {
			return nil, err
		}
		normalized := gtfs.NormalizedTrip{
			Id:          trip.ID,
			RouteId:     routeId,
			ServiceId:   trip.ServiceID,
			DirectionId: headsign.DirectionId,
			Headsign:    headsign.Headsign,
			Bound:       headsign.Bound,
		}
		key := directionKey{routeId: routeId, directionId: headsign.DirectionId}
		if direction, ok := directions[key]; !ok {
			directions[key] = &gtfs.Direction{
				RouteId:     routeId,
				DirectionId: headsign.DirectionId,
				Headsign:    headsign.Headsign,
				Bound:       headsign.Bound,
			}
		} else if direction.Headsign != normalized.Headsign {
			merged, err := tools.MergeHeadsign(direction, &normalized)
			if err != nil {
				return nil, err
			}
			if !merged {
				return nil, Fatalf(KindUnexpectedMerge, trip,
					"cannot merge headsign %q into %q", normalized.Headsign, direction.Headsign)
			}
		}
		keptTrips[trip.ID] = true
		ds.Trips = append(ds.Trips, normalized)
	}
	log.Debug().
		Int("not_on_kept_route", numOrphans).
		Int("excluded", numExcluded).
		Msg("Skipped trips")

	// Every trip shows the final headsign of its direction.
	for i := range ds.Trips {
		trip := &ds.Trips[i]
		trip.Headsign = directions[directionKey{routeId: trip.RouteId, directionId: trip.DirectionId}].Headsign
	}
	for _, direction := range directions {
		ds.Directions = append(ds.Directions, *direction)
	}
	return keptTrips, nil
}

func processStops(static *gtfs.Static, tools Tools, keptTrips map[string]bool, ds *gtfs.Dataset) error {
	var usedStops map[string]bool
	if static.HasStopTimes {
		usedStops = map[string]bool{}
		for _, stopTime := range static.StopTimes {
			if keptTrips[stopTime.TripID] {
				usedStops[stopTime.StopID] = true
			}
		}
	}
	idToIndex := map[int]int{}
	for i := range static.Stops {
		stop := &static.Stops[i]
		if usedStops != nil && !usedStops[stop.Id] {
			continue
		}
		id, err := tools.StopId(stop)
		if err != nil {
			return err
		}
		normalized := gtfs.NormalizedStop{
			Id:        id,
			Code:      stop.Code,
			Name:      tools.CleanStopName(stop.Name),
			Latitude:  stop.Latitude,
			Longitude: stop.Longitude,
		}
		if j, ok := idToIndex[id]; ok {
			if ds.Stops[j].Name != normalized.Name {
				return Fatalf(KindConfigMismatch, stop,
					"stop id %d already used by %q", id, ds.Stops[j].Name)
			}
			continue
		}
		idToIndex[id] = len(ds.Stops)
		ds.Stops = append(ds.Stops, normalized)
	}
	return nil
}

func sortDataset(ds *gtfs.Dataset) {
	sort.Slice(ds.Routes, func(i, j int) bool {
		return ds.Routes[i].Id < ds.Routes[j].Id
	})
	sort.Slice(ds.Directions, func(i, j int) bool {
		a, b := ds.Directions[i], ds.Directions[j]
		if a.RouteId != b.RouteId {
			return a.RouteId < b.RouteId
		}
		return a.DirectionId < b.DirectionId
	})
	sort.Slice(ds.Trips, func(i, j int) bool {
		return ds.Trips[i].Id < ds.Trips[j].Id
	})
	sort.Slice(ds.Stops, func(i, j int) bool {
		return ds.Stops[i].Id < ds.Stops[j].Id
	})
	sort.Slice(ds.Services, func(i, j int) bool {
		return ds.Services[i].Id < ds.Services[j].Id
	})
	sort.SliceStable(ds.CalendarDates, func(i, j int) bool {
		a, b := ds.CalendarDates[i], ds.CalendarDates[j]
		if a.ServiceID != b.ServiceID {
			return a.ServiceID < b.ServiceID
		}
		return a.Date.Before(b.Date)
	})
}

// Package agency defines the callbacks an agency implements to turn a raw GTFS static feed into
// its normalized dataset, and the driver that invokes them.
package agency

import (
	"strconv"

	"github.com/mtransitapps/gtfs"
	"github.com/mtransitapps/gtfs/clean"
)

// Tools is the contract between the driver and a single agency.
//
// Methods returning an error only ever return a *FatalError. The driver stops at the first one.
type Tools interface {
	// ShouldExcludeEverything is true when the agency contributes nothing to this run.
	ShouldExcludeEverything() bool

	ShouldExcludeRoute(route *gtfs.Route) bool
	ShouldExcludeTrip(trip *gtfs.Trip) bool
	ShouldExcludeCalendar(service *gtfs.Service) bool
	ShouldExcludeCalendarDate(calendarDate *gtfs.CalendarDate) bool

	RouteId(route *gtfs.Route) (int64, error)
	RouteShortName(route *gtfs.Route) (string, error)
	RouteLongName(route *gtfs.Route) string

	AgencyColor() string
	// RouteColor returns the empty string when the route inherits the agency color.
	RouteColor(route *gtfs.Route) string
	AgencyRouteType() gtfs.RouteType

	StopId(stop *gtfs.Stop) (int, error)

	CleanTripHeadsign(tripHeadsign string) string
	CleanStopName(stopName string) string

	// SetTripHeadsign returns the direction and display headsign of a trip on the given output route.
	SetTripHeadsign(routeId int64, trip *gtfs.Trip) (TripHeadsign, error)

	// MergeHeadsign is called when a trip's headsign differs from the one already chosen for its
	// route and direction. On success the merged headsign is written to existing.
	MergeHeadsign(existing *gtfs.Direction, candidate *gtfs.NormalizedTrip) (bool, error)
}

type TripHeadsign struct {
	DirectionId int
	Headsign    string
	Bound       gtfs.Bound
}

// Default returns permissive tools that keep every record and only apply generic cleanup.
func Default() Tools {
	return DefaultTools{}
}

// DefaultTools is the behavior used when an agency has no specific rules.
type DefaultTools struct{}

func (DefaultTools) ShouldExcludeEverything() bool { return false }

func (DefaultTools) ShouldExcludeRoute(*gtfs.Route) bool { return false }

func (DefaultTools) ShouldExcludeTrip(*gtfs.Trip) bool { return false }

func (DefaultTools) ShouldExcludeCalendar(*gtfs.Service) bool { return false }

func (DefaultTools) ShouldExcludeCalendarDate(*gtfs.CalendarDate) bool { return false }

func (DefaultTools) RouteId(route *gtfs.Route) (int64, error) {
	id, err := strconv.ParseInt(route.Id, 10, 64)
	if err != nil {
		return 0, &FatalError{Kind: KindMalformedNumber, Record: route, Err: err}
	}
	return id, nil
}

func (DefaultTools) RouteShortName(route *gtfs.Route) (string, error) {
	return route.ShortName, nil
}

func (DefaultTools) RouteLongName(route *gtfs.Route) string {
	return clean.Label(clean.FoldShouting(route.LongName))
}

func (DefaultTools) AgencyColor() string { return "000000" }

func (DefaultTools) RouteColor(route *gtfs.Route) string { return route.Color }

func (DefaultTools) AgencyRouteType() gtfs.RouteType { return gtfs.RouteType_Bus }

func (DefaultTools) StopId(stop *gtfs.Stop) (int, error) {
	id, err := strconv.Atoi(stop.Id)
	if err != nil {
		return 0, &FatalError{Kind: KindMalformedNumber, Record: stop, Err: err}
	}
	return id, nil
}

func (DefaultTools) CleanTripHeadsign(tripHeadsign string) string {
	return clean.Label(clean.FoldShouting(tripHeadsign))
}

func (DefaultTools) CleanStopName(stopName string) string {
	return clean.Label(clean.FoldShouting(stopName))
}

func (d DefaultTools) SetTripHeadsign(routeId int64, trip *gtfs.Trip) (TripHeadsign, error) {
	return TripHeadsign{
		DirectionId: trip.DirectionID.Int(),
		Headsign:    d.CleanTripHeadsign(trip.Headsign),
	}, nil
}

func (DefaultTools) MergeHeadsign(existing *gtfs.Direction, candidate *gtfs.NormalizedTrip) (bool, error) {
	existing.Headsign = MergeHeadsigns(existing.Headsign, candidate.Headsign)
	return true, nil
}

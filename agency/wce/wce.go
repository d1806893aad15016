// Package wce contains the rules for the West Coast Express commuter rail feed.
//
// The agency publishes one rail route with two directions inside a regional feed that also
// carries bus routes and the TrainBus replacement service. Only the rail route is kept.
package wce

import (
	"strconv"
	"strings"

	"github.com/mtransitapps/gtfs"
	"github.com/mtransitapps/gtfs/agency"
	"github.com/mtransitapps/gtfs/clean"
)

// Tools implements agency.Tools for the West Coast Express.
type Tools struct {
	cfg        Config
	serviceIds agency.ServiceIDSet
	rules      rules
}

var _ agency.Tools = (*Tools)(nil)

// New builds the agency tools from a validated config and the precomputed service ids.
func New(cfg Config, serviceIds agency.ServiceIDSet) (*Tools, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := newRules(cfg)
	if err != nil {
		return nil, err
	}
	return &Tools{cfg: cfg, serviceIds: serviceIds, rules: r}, nil
}

// ForFeed computes the service ids of the feed and builds the agency tools.
func ForFeed(cfg Config, static *gtfs.Static) (*Tools, error) {
	return New(cfg, ServiceIDs(cfg, static))
}

// ServiceIDs returns the service ids used by rail trips of the agency's route.
func ServiceIDs(cfg Config, static *gtfs.Static) agency.ServiceIDSet {
	return agency.ComputeServiceIDs(static, cfg.isRouteRelevant, cfg.isSubstitution)
}

func (cfg Config) isRouteRelevant(route *gtfs.Route) bool {
	return cfg.isVariant(route.ShortName)
}

// isSubstitution is true for TrainBus trips: a bus, not a train, even though it shares the route.
func (cfg Config) isSubstitution(trip *gtfs.Trip) bool {
	return strings.Contains(strings.ToLower(trip.Headsign), strings.ToLower(cfg.SubstitutionMarker))
}

func (t *Tools) ServiceIDs() agency.ServiceIDSet {
	return t.serviceIds
}

func (t *Tools) ShouldExcludeEverything() bool {
	return t.serviceIds.Empty()
}

func (t *Tools) ShouldExcludeRoute(route *gtfs.Route) bool {
	return !t.cfg.isRouteRelevant(route)
}

func (t *Tools) ShouldExcludeTrip(trip *gtfs.Trip) bool {
	if t.cfg.isSubstitution(trip) {
		return true
	}
	return t.serviceIds.ExcludesTrip(trip)
}

func (t *Tools) ShouldExcludeCalendar(service *gtfs.Service) bool {
	return t.serviceIds.ExcludesCalendar(service)
}

func (t *Tools) ShouldExcludeCalendarDate(calendarDate *gtfs.CalendarDate) bool {
	return t.serviceIds.ExcludesCalendarDate(calendarDate)
}

func (t *Tools) RouteId(route *gtfs.Route) (int64, error) {
	if clean.IsDigitsOnly(route.ShortName) {
		id, err := strconv.ParseInt(route.ShortName, 10, 64)
		if err != nil {
			return 0, &agency.FatalError{Kind: agency.KindMalformedNumber, Record: route, Err: err}
		}
		return id, nil
	}
	if t.cfg.isVariant(route.ShortName) {
		return t.cfg.RouteId, nil
	}
	return 0, agency.Fatalf(agency.KindConfigMismatch, route, "unexpected route short name %q", route.ShortName)
}

func (t *Tools) RouteShortName(route *gtfs.Route) (string, error) {
	if t.cfg.isVariant(route.ShortName) {
		return t.cfg.ShortName, nil
	}
	return "", agency.Fatalf(agency.KindConfigMismatch, route, "unexpected route short name %q", route.ShortName)
}

func (t *Tools) RouteLongName(route *gtfs.Route) string {
	return t.rules.routeLongName.Apply(route.LongName)
}

func (t *Tools) AgencyColor() string {
	return t.cfg.AgencyColor
}

// RouteColor always inherits the agency color.
func (t *Tools) RouteColor(*gtfs.Route) string {
	return ""
}

func (t *Tools) AgencyRouteType() gtfs.RouteType {
	return gtfs.RouteType_Rail
}

// StopId uses the stop code when it is numeric, and otherwise offsets the raw stop id so it
// cannot collide with a stop code.
func (t *Tools) StopId(stop *gtfs.Stop) (int, error) {
	if clean.IsDigitsOnly(stop.Code) {
		id, err := strconv.Atoi(stop.Code)
		if err != nil {
			return 0, &agency.FatalError{Kind: agency.KindMalformedNumber, Record: stop, Err: err}
		}
		return id, nil
	}
	id, err := strconv.Atoi(stop.Id)
	if err != nil {
		return 0, &agency.FatalError{Kind: agency.KindMalformedNumber, Record: stop, Err: err}
	}
	return t.cfg.StopIdOffset + id, nil
}

func (t *Tools) CleanTripHeadsign(tripHeadsign string) string {
	return t.rules.tripHeadsign.Apply(tripHeadsign)
}

func (t *Tools) CleanStopName(stopName string) string {
	return t.rules.stopName.Apply(stopName)
}

func (t *Tools) SetTripHeadsign(routeId int64, trip *gtfs.Trip) (agency.TripHeadsign, error) {
	if routeId != t.cfg.RouteId {
		return agency.TripHeadsign{}, agency.Fatalf(agency.KindUnexpectedTrip, trip, "unexpected route id %d", routeId)
	}
	directionId := trip.DirectionID.Int()
	bound, ok := gtfs.ParseBound(t.cfg.Directions[directionId])
	if !ok {
		return agency.TripHeadsign{}, agency.Fatalf(agency.KindUnexpectedTrip, trip, "unexpected direction %d", directionId)
	}
	return agency.TripHeadsign{
		DirectionId: directionId,
		Headsign:    t.CleanTripHeadsign(trip.Headsign),
		Bound:       bound,
	}, nil
}

// MergeHeadsign fails unless the deployment accepts good-enough merges: with one route and
// two directions, a second headsign in one direction means the feed changed shape.
func (t *Tools) MergeHeadsign(existing *gtfs.Direction, candidate *gtfs.NormalizedTrip) (bool, error) {
	if t.cfg.AcceptGoodEnoughMerge {
		return agency.DefaultTools{}.MergeHeadsign(existing, candidate)
	}
	return false, agency.Fatalf(agency.KindUnexpectedMerge, nil,
		"%d: unexpected trips to merge: %+v and %+v", existing.RouteId, *existing, *candidate)
}

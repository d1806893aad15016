package agency

import (
	"sort"

	"github.com/mtransitapps/gtfs"
)

// ServiceIDSet is the set of service ids referenced by the trips an agency keeps.
//
// It is computed once per run, before any output filtering, and is read-only afterwards.
type ServiceIDSet struct {
	ids map[string]struct{}
}

func NewServiceIDSet(ids ...string) ServiceIDSet {
	s := ServiceIDSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s ServiceIDSet) Contains(serviceId string) bool {
	_, ok := s.ids[serviceId]
	return ok
}

func (s ServiceIDSet) Len() int {
	return len(s.ids)
}

func (s ServiceIDSet) Empty() bool {
	return len(s.ids) == 0
}

// Sorted returns the ids in lexical order.
func (s ServiceIDSet) Sorted() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RouteFilter reports whether a route belongs to the agency.
type RouteFilter func(route *gtfs.Route) bool

// TripFilter reports whether a trip is excluded for reasons that do not depend on its service id.
type TripFilter func(trip *gtfs.Trip) bool

// ComputeServiceIDs collects the service ids of every trip whose route is relevant and which is
// not excluded by isTripExcluded.
//
// The filters must not consult a ServiceIDSet themselves, since this is the function that builds it.
func ComputeServiceIDs(static *gtfs.Static, isRouteRelevant RouteFilter, isTripExcluded TripFilter) ServiceIDSet {
	relevantRoutes := map[string]bool{}
	for i := range static.Routes {
		route := &static.Routes[i]
		if isRouteRelevant(route) {
			relevantRoutes[route.Id] = true
		}
	}
	s := NewServiceIDSet()
	for i := range static.Trips {
		trip := &static.Trips[i]
		if !relevantRoutes[trip.RouteID] {
			continue
		}
		if isTripExcluded(trip) {
			continue
		}
		s.ids[trip.ServiceID] = struct{}{}
	}
	return s
}

// ExcludesCalendar reports whether a calendar.txt entry is unused by the agency.
func (s ServiceIDSet) ExcludesCalendar(service *gtfs.Service) bool {
	return !s.Contains(service.Id)
}

// ExcludesCalendarDate reports whether a calendar_dates.txt entry is unused by the agency.
func (s ServiceIDSet) ExcludesCalendarDate(calendarDate *gtfs.CalendarDate) bool {
	return !s.Contains(calendarDate.ServiceID)
}

// ExcludesTrip reports whether a trip runs on a service the agency does not use.
func (s ServiceIDSet) ExcludesTrip(trip *gtfs.Trip) bool {
	return !s.Contains(trip.ServiceID)
}

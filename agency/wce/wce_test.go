package wce

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mtransitapps/gtfs"
	"github.com/mtransitapps/gtfs/agency"
	"github.com/mtransitapps/gtfs/internal/testutil"
)

func newTools(t *testing.T, serviceIds ...string) *Tools {
	t.Helper()
	tools, err := New(DefaultConfig(), agency.NewServiceIDSet(serviceIds...))
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	return tools
}

func TestRouteId(t *testing.T) {
	tools := newTools(t, "1")
	for _, tc := range []struct {
		shortName         string
		expectedId        int64
		expectedShortName string
		expectedKind      agency.Kind
	}{
		{shortName: "WCE", expectedId: 997, expectedShortName: "WCE"},
		{shortName: "997", expectedId: 997, expectedShortName: "WCE"},
		{shortName: "WEST COAST EXPRESS", expectedId: 997, expectedShortName: "WCE"},
		{shortName: "099", expectedId: 99, expectedKind: agency.KindConfigMismatch},
		{shortName: "wce", expectedKind: agency.KindConfigMismatch},
		{shortName: "R5", expectedKind: agency.KindConfigMismatch},
		{shortName: "", expectedKind: agency.KindConfigMismatch},
	} {
		t.Run(tc.shortName, func(t *testing.T) {
			route := &gtfs.Route{Id: "30052", ShortName: tc.shortName}

			id, err := tools.RouteId(route)
			if tc.expectedId == 0 {
				if got := agency.KindOf(err); got != tc.expectedKind {
					t.Errorf("RouteId() err = %v, want kind %s", err, tc.expectedKind)
				}
			} else if err != nil || id != tc.expectedId {
				t.Errorf("RouteId() = %d, %v, want %d", id, err, tc.expectedId)
			}

			shortName, err := tools.RouteShortName(route)
			if tc.expectedShortName == "" {
				if got := agency.KindOf(err); got != agency.KindConfigMismatch {
					t.Errorf("RouteShortName() err = %v, want config mismatch", err)
				}
			} else if err != nil || shortName != tc.expectedShortName {
				t.Errorf("RouteShortName() = %q, %v, want %q", shortName, err, tc.expectedShortName)
			}
		})
	}
}

func TestStopId(t *testing.T) {
	tools := newTools(t, "1")
	for _, tc := range []struct {
		desc     string
		stop     gtfs.Stop
		expected int
		fatal    bool
	}{
		{
			desc:     "numeric code",
			stop:     gtfs.Stop{Id: "8040", Code: "50020"},
			expected: 50020,
		},
		{
			desc:     "no code",
			stop:     gtfs.Stop{Id: "8041"},
			expected: 1008041,
		},
		{
			desc:     "same id with code",
			stop:     gtfs.Stop{Id: "500", Code: "500"},
			expected: 500,
		},
		{
			desc:     "same id without code",
			stop:     gtfs.Stop{Id: "500"},
			expected: 1000500,
		},
		{
			desc:     "non-numeric code",
			stop:     gtfs.Stop{Id: "12", Code: "WF"},
			expected: 1000012,
		},
		{
			desc:  "non-numeric id",
			stop:  gtfs.Stop{Id: "WF1"},
			fatal: true,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			id, err := tools.StopId(&tc.stop)
			if tc.fatal {
				if agency.KindOf(err) != agency.KindMalformedNumber {
					t.Errorf("StopId() err = %v, want malformed number", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("StopId() err = %v", err)
			}
			if id != tc.expected {
				t.Errorf("StopId() = %d, want %d", id, tc.expected)
			}
		})
	}
}

func TestExclusions(t *testing.T) {
	tools := newTools(t, "1")
	for _, tc := range []struct {
		trip     gtfs.Trip
		expected bool
	}{
		{gtfs.Trip{ID: "a", ServiceID: "1", Headsign: "Waterfront"}, false},
		{gtfs.Trip{ID: "b", ServiceID: "2", Headsign: "Waterfront"}, true},
		{gtfs.Trip{ID: "c", ServiceID: "1", Headsign: "TRAINBUS TO MISSION CITY"}, true},
		{gtfs.Trip{ID: "d", ServiceID: "1", Headsign: "Mission City TrainBus"}, true},
	} {
		if got := tools.ShouldExcludeTrip(&tc.trip); got != tc.expected {
			t.Errorf("ShouldExcludeTrip(%s) = %t, want %t", tc.trip.ID, got, tc.expected)
		}
	}
	if tools.ShouldExcludeCalendar(&gtfs.Service{Id: "1"}) {
		t.Errorf("ShouldExcludeCalendar(1) = true, want false")
	}
	if !tools.ShouldExcludeCalendarDate(&gtfs.CalendarDate{ServiceID: "3"}) {
		t.Errorf("ShouldExcludeCalendarDate(3) = false, want true")
	}
	if tools.ShouldExcludeRoute(&gtfs.Route{ShortName: "997"}) {
		t.Errorf("ShouldExcludeRoute(997) = true, want false")
	}
	if !tools.ShouldExcludeRoute(&gtfs.Route{ShortName: "099"}) {
		t.Errorf("ShouldExcludeRoute(099) = false, want true")
	}
}

func TestExcludeEverythingWithoutService(t *testing.T) {
	tools := newTools(t)
	if !tools.ShouldExcludeEverything() {
		t.Errorf("ShouldExcludeEverything() = false, want true")
	}
	if !tools.ShouldExcludeCalendar(&gtfs.Service{Id: "1"}) {
		t.Errorf("ShouldExcludeCalendar(1) = false, want true")
	}
	if !tools.ShouldExcludeCalendarDate(&gtfs.CalendarDate{ServiceID: "1"}) {
		t.Errorf("ShouldExcludeCalendarDate(1) = false, want true")
	}
	if tools := newTools(t, "1"); tools.ShouldExcludeEverything() {
		t.Errorf("ShouldExcludeEverything() = true, want false")
	}
}

func TestServiceIDs(t *testing.T) {
	static, err := gtfs.ParseStatic(testutil.WestCoastExpressFeed().Build(), gtfs.ParseStaticOptions{})
	if err != nil {
		t.Fatalf("ParseStatic() err = %v", err)
	}

	got := ServiceIDs(DefaultConfig(), static).Sorted()

	// Service 2 only runs TrainBus trips and service 3 only runs a bus route.
	if diff := cmp.Diff([]string{"1"}, got); diff != "" {
		t.Errorf("ServiceIDs() diff (-want +got):\n%s", diff)
	}
}

func TestSetTripHeadsign(t *testing.T) {
	tools := newTools(t, "1")
	for _, tc := range []struct {
		desc     string
		routeId  int64
		trip     gtfs.Trip
		expected agency.TripHeadsign
		fatal    bool
	}{
		{
			desc:    "westbound",
			routeId: 997,
			trip:    gtfs.Trip{Headsign: "WEST COAST EXPRESS TRAIN TO WATERFRONT", DirectionID: gtfs.DirectionID_True},
			expected: agency.TripHeadsign{
				DirectionId: 1,
				Headsign:    "Waterfront",
				Bound:       gtfs.Bound_West,
			},
		},
		{
			desc:    "eastbound",
			routeId: 997,
			trip:    gtfs.Trip{Headsign: "West Coast Express Train To Mission City", DirectionID: gtfs.DirectionID_False},
			expected: agency.TripHeadsign{
				DirectionId: 0,
				Headsign:    "Mission City",
				Bound:       gtfs.Bound_East,
			},
		},
		{
			desc:    "unspecified direction",
			routeId: 997,
			trip:    gtfs.Trip{Headsign: "Mission City"},
			expected: agency.TripHeadsign{
				DirectionId: 0,
				Headsign:    "Mission City",
				Bound:       gtfs.Bound_East,
			},
		},
		{
			desc:    "other route",
			routeId: 99,
			trip:    gtfs.Trip{Headsign: "UBC"},
			fatal:   true,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := tools.SetTripHeadsign(tc.routeId, &tc.trip)
			if tc.fatal {
				if agency.KindOf(err) != agency.KindUnexpectedTrip {
					t.Errorf("SetTripHeadsign() err = %v, want unexpected trip", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetTripHeadsign() err = %v", err)
			}
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("SetTripHeadsign() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeHeadsign(t *testing.T) {
	existing := &gtfs.Direction{RouteId: 997, DirectionId: 1, Headsign: "Waterfront", Bound: gtfs.Bound_West}
	candidate := &gtfs.NormalizedTrip{Id: "t9", RouteId: 997, DirectionId: 1, Headsign: "Port Moody"}

	merged, err := newTools(t, "1").MergeHeadsign(existing, candidate)
	if merged || agency.KindOf(err) != agency.KindUnexpectedMerge {
		t.Errorf("MergeHeadsign() = %t, %v, want unexpected merge", merged, err)
	}
	if existing.Headsign != "Waterfront" {
		t.Errorf("MergeHeadsign() changed headsign to %q", existing.Headsign)
	}

	cfg := DefaultConfig()
	cfg.AcceptGoodEnoughMerge = true
	tools, err := New(cfg, agency.NewServiceIDSet("1"))
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	merged, err = tools.MergeHeadsign(existing, candidate)
	if !merged || err != nil {
		t.Fatalf("MergeHeadsign() = %t, %v, want merged", merged, err)
	}
	if existing.Headsign != "Port Moody / Waterfront" {
		t.Errorf("MergeHeadsign() headsign = %q, want %q", existing.Headsign, "Port Moody / Waterfront")
	}
}

func TestProcess(t *testing.T) {
	static, err := gtfs.ParseStatic(testutil.WestCoastExpressFeed().Build(), gtfs.ParseStaticOptions{})
	if err != nil {
		t.Fatalf("ParseStatic() err = %v", err)
	}
	tools, err := ForFeed(DefaultConfig(), static)
	if err != nil {
		t.Fatalf("ForFeed() err = %v", err)
	}

	got, err := agency.Process(static, tools, agency.ProcessOptions{})
	if err != nil {
		t.Fatalf("Process() err = %v", err)
	}

	expected := &gtfs.Dataset{
		Agency: gtfs.NormalizedAgency{Id: "TL", Color: "711E8C", RouteType: gtfs.RouteType_Rail},
		Routes: []gtfs.NormalizedRoute{{Id: 997, ShortName: "WCE"}},
		Directions: []gtfs.Direction{
			{RouteId: 997, DirectionId: 0, Headsign: "Mission City", Bound: gtfs.Bound_East},
			{RouteId: 997, DirectionId: 1, Headsign: "Waterfront", Bound: gtfs.Bound_West},
		},
		Trips: []gtfs.NormalizedTrip{
			{Id: "t1", RouteId: 997, ServiceId: "1", DirectionId: 1, Headsign: "Waterfront", Bound: gtfs.Bound_West},
			{Id: "t2", RouteId: 997, ServiceId: "1", DirectionId: 1, Headsign: "Waterfront", Bound: gtfs.Bound_West},
			{Id: "t3", RouteId: 997, ServiceId: "1", DirectionId: 0, Headsign: "Mission City", Bound: gtfs.Bound_East},
		},
		Stops: []gtfs.NormalizedStop{
			{Id: 50020, Code: "50020", Name: "Waterfront", Latitude: ptr(49.285962), Longitude: ptr(-123.111901)},
			{Id: 50021, Code: "50021", Name: "Mission City", Latitude: ptr(49.133654), Longitude: ptr(-122.304488)},
			{Id: 1008041, Name: "Port Moody", Latitude: ptr(49.277858), Longitude: ptr(-122.845794)},
		},
		Services:      []gtfs.Service{static.Services[0]},
		CalendarDates: []gtfs.CalendarDate{static.CalendarDates[0]},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Process() diff (-want +got):\n%s", diff)
	}
}

func TestProcessWithoutRailService(t *testing.T) {
	feed := testutil.WestCoastExpressFeed().Add(
		"trips.txt",
		"route_id,service_id,trip_id,trip_headsign,direction_id",
		"30052,2,t4,TRAINBUS TO MISSION CITY,0",
		"6626,3,t5,UBC,0",
	)
	static, err := gtfs.ParseStatic(feed.Build(), gtfs.ParseStaticOptions{})
	if err != nil {
		t.Fatalf("ParseStatic() err = %v", err)
	}
	tools, err := ForFeed(DefaultConfig(), static)
	if err != nil {
		t.Fatalf("ForFeed() err = %v", err)
	}

	got, err := agency.Process(static, tools, agency.ProcessOptions{})
	if err != nil {
		t.Fatalf("Process() err = %v", err)
	}
	if !got.Empty() {
		t.Errorf("Process() = %+v, want an empty dataset", got)
	}
}

func TestProcessUnexpectedMerge(t *testing.T) {
	feed := testutil.WestCoastExpressFeed().Add(
		"trips.txt",
		"route_id,service_id,trip_id,trip_headsign,direction_id",
		"30052,1,t1,WEST COAST EXPRESS TRAIN TO WATERFRONT,1",
		"30052,1,t2,WEST COAST EXPRESS TRAIN TO PORT MOODY,1",
	)
	static, err := gtfs.ParseStatic(feed.Build(), gtfs.ParseStaticOptions{})
	if err != nil {
		t.Fatalf("ParseStatic() err = %v", err)
	}
	tools, err := ForFeed(DefaultConfig(), static)
	if err != nil {
		t.Fatalf("ForFeed() err = %v", err)
	}

	ds, err := agency.Process(static, tools, agency.ProcessOptions{})
	if ds != nil || agency.KindOf(err) != agency.KindUnexpectedMerge {
		t.Errorf("Process() = %v, %v, want an unexpected merge", ds, err)
	}
}

func ptr[T any](t T) *T {
	return &t
}

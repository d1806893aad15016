package gtfs

// DirectionID is a mechanism for distinguishing between trips going in the opposite direction.
type DirectionID uint8

const (
	DirectionID_Unspecified DirectionID = 0
	DirectionID_True        DirectionID = 1
	DirectionID_False       DirectionID = 2
)

func parseDirectionID(s string) DirectionID {
	switch s {
	case "0":
		return DirectionID_False
	case "1":
		return DirectionID_True
	default:
		return DirectionID_Unspecified
	}
}

// Int returns the numeric value used in trips.txt. An unspecified direction defaults to 0.
func (d DirectionID) Int() int {
	if d == DirectionID_True {
		return 1
	}
	return 0
}

func (d DirectionID) String() string {
	switch d {
	case DirectionID_True:
		return "TRUE"
	case DirectionID_False:
		return "FALSE"
	default:
		return "UNSPECIFIED"
	}
}

// RouteType describes the type of a route.
//
// This is a Go representation of the enum described in the `route_type` field of `routes.txt`.
type RouteType int32

const (
	RouteType_Tram       RouteType = 0
	RouteType_Subway     RouteType = 1
	RouteType_Rail       RouteType = 2
	RouteType_Bus        RouteType = 3
	RouteType_Ferry      RouteType = 4
	RouteType_CableTram  RouteType = 5
	RouteType_AerialLift RouteType = 6
	RouteType_Funicular  RouteType = 7
	RouteType_TrolleyBus RouteType = 11
	RouteType_Monorail   RouteType = 12

	RouteType_Unknown RouteType = 10000
)

func parseRouteType(s string) RouteType {
	switch s {
	case "0":
		return RouteType_Tram
	case "1":
		return RouteType_Subway
	case "2":
		return RouteType_Rail
	case "3":
		return RouteType_Bus
	case "4":
		return RouteType_Ferry
	case "5":
		return RouteType_CableTram
	case "6":
		return RouteType_AerialLift
	case "7":
		return RouteType_Funicular
	case "11":
		return RouteType_TrolleyBus
	case "12":
		return RouteType_Monorail
	default:
		return RouteType_Unknown
	}
}

func (t RouteType) String() string {
	switch t {
	case RouteType_Tram:
		return "TRAM"
	case RouteType_Subway:
		return "SUBWAY"
	case RouteType_Rail:
		return "RAIL"
	case RouteType_Bus:
		return "BUS"
	case RouteType_Ferry:
		return "FERRY"
	case RouteType_CableTram:
		return "CABLE_TRAM"
	case RouteType_AerialLift:
		return "AERIAL_LIFT"
	case RouteType_Funicular:
		return "FUNICULAR"
	case RouteType_TrolleyBus:
		return "TROLLEY_BUS"
	case RouteType_Monorail:
		return "MONORAIL"
	default:
		return "UNKNOWN"
	}
}

// ExceptionType describes whether a calendar date adds or removes service.
//
// This is a Go representation of the enum described in the `exception_type` field of `calendar_dates.txt`.
type ExceptionType int32

const (
	ExceptionType_Added   ExceptionType = 1
	ExceptionType_Removed ExceptionType = 2
)

func parseExceptionType(s string) (ExceptionType, bool) {
	switch s {
	case "1":
		return ExceptionType_Added, true
	case "2":
		return ExceptionType_Removed, true
	default:
		return 0, false
	}
}

func (t ExceptionType) String() string {
	switch t {
	case ExceptionType_Added:
		return "ADDED"
	case ExceptionType_Removed:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// Bound is the compass heading shown to riders for a trip direction.
type Bound string

const (
	Bound_Unknown Bound = ""
	Bound_East    Bound = "EAST"
	Bound_West    Bound = "WEST"
	Bound_North   Bound = "NORTH"
	Bound_South   Bound = "SOUTH"
)

// ParseBound accepts the upper-case compass names.
func ParseBound(s string) (Bound, bool) {
	switch b := Bound(s); b {
	case Bound_East, Bound_West, Bound_North, Bound_South:
		return b, true
	default:
		return Bound_Unknown, false
	}
}

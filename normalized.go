package gtfs

// Dataset is the agency-specific output of the normalization pipeline.
type Dataset struct {
	Agency        NormalizedAgency
	Routes        []NormalizedRoute
	Directions    []Direction
	Trips         []NormalizedTrip
	Stops         []NormalizedStop
	Services      []Service
	CalendarDates []CalendarDate
}

// Empty reports whether the agency contributed nothing to the dataset.
func (d *Dataset) Empty() bool {
	return len(d.Routes) == 0 && len(d.Trips) == 0 && len(d.Stops) == 0 &&
		len(d.Services) == 0 && len(d.CalendarDates) == 0
}

type NormalizedAgency struct {
	Id        string
	Color     string
	RouteType RouteType
}

type NormalizedRoute struct {
	Id        int64
	ShortName string
	LongName  string
	// Color is empty when the route inherits the agency color.
	Color string
}

// Direction is the single headsign shown for all trips of a route going one way.
type Direction struct {
	RouteId     int64
	DirectionId int
	Headsign    string
	Bound       Bound
}

type NormalizedTrip struct {
	Id          string
	RouteId     int64
	ServiceId   string
	DirectionId int
	Headsign    string
	Bound       Bound
}

type NormalizedStop struct {
	Id        int
	Code      string
	Name      string
	Latitude  *float64
	Longitude *float64
}

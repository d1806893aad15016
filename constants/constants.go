package constants

type StaticFile string

const (
	AgencyFile        StaticFile = "agency.txt"
	RoutesFile        StaticFile = "routes.txt"
	StopsFile         StaticFile = "stops.txt"
	TripsFile         StaticFile = "trips.txt"
	StopTimesFile     StaticFile = "stop_times.txt"
	CalendarFile      StaticFile = "calendar.txt"
	CalendarDatesFile StaticFile = "calendar_dates.txt"
)

// Required reports whether a feed without this file should be rejected.
func (f StaticFile) Required() bool {
	switch f {
	case AgencyFile, RoutesFile, StopsFile, TripsFile:
		return true
	default:
		return false
	}
}

type ScheduleEntity string

const (
	Agency       ScheduleEntity = "agency"
	Route        ScheduleEntity = "route"
	Stop         ScheduleEntity = "stop"
	Trip         ScheduleEntity = "trip"
	StopTime     ScheduleEntity = "stop_time"
	Service      ScheduleEntity = "service"
	CalendarDate ScheduleEntity = "calendar_date"
)

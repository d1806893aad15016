// Package gtfs contains the GTFS static parser and the normalized records produced for a single agency.
package gtfs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mtransitapps/gtfs/constants"
	"github.com/mtransitapps/gtfs/csv"
	"github.com/mtransitapps/gtfs/warnings"
)

// Static contains the parsed content for a single GTFS static message.
type Static struct {
	Agencies      []Agency
	Routes        []Route
	Stops         []Stop
	Trips         []Trip
	StopTimes     []StopTime
	Services      []Service
	CalendarDates []CalendarDate

	// HasStopTimes is false when the feed has no stop_times.txt file.
	HasStopTimes bool

	Warnings []warnings.StaticWarning
}

// Agency corresponds to a single row in the agency.txt file.
type Agency struct {
	Id       string
	Name     string
	Url      string
	Timezone string
	Language string
	Phone    string
}

// Route corresponds to a single row in the routes.txt file.
type Route struct {
	Id          string
	AgencyId    string
	Color       string
	TextColor   string
	ShortName   string
	LongName    string
	Description string
	Type        RouteType
}

func (r Route) String() string {
	return fmt.Sprintf("Route{Id:%q ShortName:%q LongName:%q AgencyId:%q}", r.Id, r.ShortName, r.LongName, r.AgencyId)
}

// Stop corresponds to a single row in the stops.txt file.
type Stop struct {
	Id        string
	Code      string
	Name      string
	Latitude  *float64
	Longitude *float64
	ParentId  string
}

func (s Stop) String() string {
	return fmt.Sprintf("Stop{Id:%q Code:%q Name:%q}", s.Id, s.Code, s.Name)
}

// Trip corresponds to a single row in the trips.txt file.
type Trip struct {
	ID          string
	RouteID     string
	ServiceID   string
	Headsign    string
	DirectionID DirectionID
}

func (t Trip) String() string {
	return fmt.Sprintf("Trip{ID:%q RouteID:%q ServiceID:%q Headsign:%q DirectionID:%s}",
		t.ID, t.RouteID, t.ServiceID, t.Headsign, t.DirectionID)
}

// StopTime corresponds to a single row in the stop_times.txt file.
//
// Only the fields needed to find the stops served by a trip are retained.
type StopTime struct {
	TripID       string
	StopID       string
	StopSequence int
}

// Service corresponds to a single row in the calendar.txt file.
type Service struct {
	Id        string
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool
	Sunday    bool
	StartDate time.Time
	EndDate   time.Time
}

// CalendarDate corresponds to a single row in the calendar_dates.txt file.
type CalendarDate struct {
	ServiceID string
	Date      time.Time
	Exception ExceptionType
}

type ParseStaticOptions struct {
	// If true, routes belonging to an agency that is not in agency.txt are kept.
	KeepOrphanRoutes bool
}

// ParseStatic parses the content as a GTFS static feed.
func ParseStatic(content []byte, opts ParseStaticOptions) (*Static, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	result := &Static{}
	fileNameToFile := map[string]*zip.File{}
	for _, file := range reader.File {
		fileNameToFile[file.Name] = file
	}
	for _, table := range []struct {
		file   constants.StaticFile
		action func(file *csv.File)
	}{
		{
			file: constants.AgencyFile,
			action: func(file *csv.File) {
				result.Agencies = parseAgencies(file, result)
			},
		},
		{
			file: constants.RoutesFile,
			action: func(file *csv.File) {
				result.Routes = parseRoutes(file, result, opts)
			},
		},
		{
			file: constants.StopsFile,
			action: func(file *csv.File) {
				result.Stops = parseStops(file, result)
			},
		},
		{
			file: constants.CalendarFile,
			action: func(file *csv.File) {
				result.Services = parseCalendar(file, result)
			},
		},
		{
			file: constants.CalendarDatesFile,
			action: func(file *csv.File) {
				result.CalendarDates = parseCalendarDates(file, result)
			},
		},
		{
			file: constants.TripsFile,
			action: func(file *csv.File) {
				result.Trips = parseTrips(file, result)
			},
		},
		{
			file: constants.StopTimesFile,
			action: func(file *csv.File) {
				result.HasStopTimes = true
				result.StopTimes = parseStopTimes(file, result)
			},
		},
	} {
		zipFile := fileNameToFile[string(table.file)]
		if zipFile == nil {
			if table.file.Required() {
				return nil, fmt.Errorf("no %q file in GTFS static feed", table.file)
			}
			result.warn(warnings.MissingFile{StaticFile: table.file})
			continue
		}
		file, err := readCsvFile(zipFile, table.file)
		if err != nil {
			return nil, err
		}
		table.action(file)
		if err := file.Close(); err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", table.file, err)
		}
		// Columns are declared inside the action, so this can only be checked afterwards.
		if missing := file.MissingRequiredColumns(); len(missing) > 0 {
			return nil, fmt.Errorf("%s is missing required columns %s", table.file, missing)
		}
	}
	return result, nil
}

func readCsvFile(zipFile *zip.File, fileName constants.StaticFile) (*csv.File, error) {
	content, err := zipFile.Open()
	if err != nil {
		return nil, err
	}
	f, err := csv.New(fileName, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", fileName, err)
	}
	return f, nil
}

func (s *Static) warn(w warnings.StaticWarning) {
	s.Warnings = append(s.Warnings, w)
}

// skipRow records a warning and returns true if the current row is missing required values.
func (s *Static) skipRow(file *csv.File) bool {
	missingKeys := file.MissingRowKeys()
	if len(missingKeys) == 0 {
		return false
	}
	s.warn(warnings.MissingColumns{
		StaticFile:  file.Name(),
		RowNumber:   file.RowNumber(),
		MissingKeys: append([]string(nil), missingKeys...),
	})
	return true
}

func parseAgencies(file *csv.File, s *Static) []Agency {
	var agencies []Agency
	idColumn := file.OptionalColumn("agency_id")
	nameColumn := file.RequiredColumn("agency_name")
	urlColumn := file.RequiredColumn("agency_url")
	timezoneColumn := file.RequiredColumn("agency_timezone")
	languageColumn := file.OptionalColumn("agency_lang")
	phoneColumn := file.OptionalColumn("agency_phone")
	for file.NextRow() {
		agency := Agency{
			Name:     nameColumn.Read(),
			Url:      urlColumn.Read(),
			Timezone: timezoneColumn.Read(),
			Language: languageColumn.Read(),
			Phone:    phoneColumn.Read(),
		}
		// A single-agency feed may omit agency_id.
		agency.Id = idColumn.ReadOr(agency.Name)
		if s.skipRow(file) {
			continue
		}
		agencies = append(agencies, agency)
	}
	return agencies
}

func parseRoutes(file *csv.File, s *Static, opts ParseStaticOptions) []Route {
	agencyIds := map[string]bool{}
	for _, agency := range s.Agencies {
		agencyIds[agency.Id] = true
	}
	var routes []Route
	idColumn := file.RequiredColumn("route_id")
	agencyIdColumn := file.OptionalColumn("agency_id")
	colorColumn := file.OptionalColumn("route_color")
	textColorColumn := file.OptionalColumn("route_text_color")
	shortNameColumn := file.OptionalColumn("route_short_name")
	longNameColumn := file.OptionalColumn("route_long_name")
	descriptionColumn := file.OptionalColumn("route_desc")
	typeColumn := file.RequiredColumn("route_type")
	for file.NextRow() {
		route := Route{
			Id:          idColumn.Read(),
			AgencyId:    agencyIdColumn.Read(),
			Color:       colorColumn.ReadOr("FFFFFF"),
			TextColor:   textColorColumn.ReadOr("000000"),
			ShortName:   shortNameColumn.Read(),
			LongName:    longNameColumn.Read(),
			Description: descriptionColumn.Read(),
			Type:        parseRouteType(typeColumn.Read()),
		}
		if s.skipRow(file) {
			continue
		}
		if route.AgencyId == "" && len(s.Agencies) == 1 {
			// In GTFS static if there is a single agency, a route's agency ID field can be omitted in
			// which case the route's agency is the unique agency in the feed.
			route.AgencyId = s.Agencies[0].Id
		}
		if !agencyIds[route.AgencyId] && !opts.KeepOrphanRoutes {
			s.warn(warnings.DanglingReference{
				StaticFile: file.Name(),
				RowNumber:  file.RowNumber(),
				Entity:     constants.Agency,
				ID:         route.AgencyId,
			})
			continue
		}
		routes = append(routes, route)
	}
	return routes
}

func parseStops(file *csv.File, s *Static) []Stop {
	var stops []Stop
	idColumn := file.RequiredColumn("stop_id")
	codeColumn := file.OptionalColumn("stop_code")
	nameColumn := file.OptionalColumn("stop_name")
	latColumn := file.OptionalColumn("stop_lat")
	lonColumn := file.OptionalColumn("stop_lon")
	parentColumn := file.OptionalColumn("parent_station")
	for file.NextRow() {
		stop := Stop{
			Id:        idColumn.Read(),
			Code:      codeColumn.Read(),
			Name:      nameColumn.Read(),
			Latitude:  parseFloat64(latColumn.Read()),
			Longitude: parseFloat64(lonColumn.Read()),
			ParentId:  parentColumn.Read(),
		}
		if s.skipRow(file) {
			continue
		}
		stops = append(stops, stop)
	}
	return stops
}

func parseTrips(file *csv.File, s *Static) []Trip {
	routeIds := map[string]bool{}
	for _, route := range s.Routes {
		routeIds[route.Id] = true
	}
	var trips []Trip
	idColumn := file.RequiredColumn("trip_id")
	routeIdColumn := file.RequiredColumn("route_id")
	serviceIdColumn := file.RequiredColumn("service_id")
	headsignColumn := file.OptionalColumn("trip_headsign")
	directionIdColumn := file.OptionalColumn("direction_id")
	for file.NextRow() {
		trip := Trip{
			ID:          idColumn.Read(),
			RouteID:     routeIdColumn.Read(),
			ServiceID:   serviceIdColumn.Read(),
			Headsign:    headsignColumn.Read(),
			DirectionID: parseDirectionID(directionIdColumn.Read()),
		}
		if s.skipRow(file) {
			continue
		}
		if !routeIds[trip.RouteID] {
			s.warn(warnings.DanglingReference{
				StaticFile: file.Name(),
				RowNumber:  file.RowNumber(),
				Entity:     constants.Route,
				ID:         trip.RouteID,
			})
			continue
		}
		trips = append(trips, trip)
	}
	return trips
}

func parseStopTimes(file *csv.File, s *Static) []StopTime {
	var stopTimes []StopTime
	tripIdColumn := file.RequiredColumn("trip_id")
	stopIdColumn := file.RequiredColumn("stop_id")
	sequenceColumn := file.RequiredColumn("stop_sequence")
	for file.NextRow() {
		stopTime := StopTime{
			TripID: tripIdColumn.Read(),
			StopID: stopIdColumn.Read(),
		}
		rawSequence := sequenceColumn.Read()
		if s.skipRow(file) {
			continue
		}
		sequence, err := strconv.Atoi(rawSequence)
		if err != nil {
			s.warn(warnings.InvalidValue{
				StaticFile: file.Name(),
				RowNumber:  file.RowNumber(),
				Column:     "stop_sequence",
				Value:      rawSequence,
			})
			continue
		}
		stopTime.StopSequence = sequence
		stopTimes = append(stopTimes, stopTime)
	}
	return stopTimes
}

func parseCalendar(file *csv.File, s *Static) []Service {
	var services []Service
	idColumn := file.RequiredColumn("service_id")
	var dayColumns [7]csv.RequiredColumn
	for i, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		dayColumns[i] = file.RequiredColumn(day)
	}
	startDateColumn := file.RequiredColumn("start_date")
	endDateColumn := file.RequiredColumn("end_date")
	for file.NextRow() {
		service := Service{Id: idColumn.Read()}
		var days [7]bool
		for i, column := range dayColumns {
			days[i] = column.Read() == "1"
		}
		service.Monday, service.Tuesday, service.Wednesday, service.Thursday = days[0], days[1], days[2], days[3]
		service.Friday, service.Saturday, service.Sunday = days[4], days[5], days[6]
		rawStartDate := startDateColumn.Read()
		rawEndDate := endDateColumn.Read()
		if s.skipRow(file) {
			continue
		}
		var ok bool
		if service.StartDate, ok = s.parseDate(file, "start_date", rawStartDate); !ok {
			continue
		}
		if service.EndDate, ok = s.parseDate(file, "end_date", rawEndDate); !ok {
			continue
		}
		services = append(services, service)
	}
	return services
}

func parseCalendarDates(file *csv.File, s *Static) []CalendarDate {
	var calendarDates []CalendarDate
	serviceIdColumn := file.RequiredColumn("service_id")
	dateColumn := file.RequiredColumn("date")
	exceptionTypeColumn := file.RequiredColumn("exception_type")
	for file.NextRow() {
		calendarDate := CalendarDate{ServiceID: serviceIdColumn.Read()}
		rawDate := dateColumn.Read()
		rawExceptionType := exceptionTypeColumn.Read()
		if s.skipRow(file) {
			continue
		}
		var ok bool
		if calendarDate.Date, ok = s.parseDate(file, "date", rawDate); !ok {
			continue
		}
		if calendarDate.Exception, ok = parseExceptionType(rawExceptionType); !ok {
			s.warn(warnings.InvalidValue{
				StaticFile: file.Name(),
				RowNumber:  file.RowNumber(),
				Column:     "exception_type",
				Value:      rawExceptionType,
			})
			continue
		}
		calendarDates = append(calendarDates, calendarDate)
	}
	return calendarDates
}

func (s *Static) parseDate(file *csv.File, column, raw string) (time.Time, bool) {
	t, err := time.Parse("20060102", raw)
	if err != nil {
		s.warn(warnings.InvalidValue{
			StaticFile: file.Name(),
			RowNumber:  file.RowNumber(),
			Column:     column,
			Value:      raw,
		})
		return time.Time{}, false
	}
	return t, true
}

func parseFloat64(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

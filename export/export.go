// Package export writes a normalized dataset as CSV files or into a SQLite database.
package export

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/mtransitapps/gtfs"
)

//go:embed agency.csv.tmpl
var agencyCsvTmpl string

//go:embed routes.csv.tmpl
var routesCsvTmpl string

//go:embed directions.csv.tmpl
var directionsCsvTmpl string

//go:embed trips.csv.tmpl
var tripsCsvTmpl string

//go:embed stops.csv.tmpl
var stopsCsvTmpl string

//go:embed calendar.csv.tmpl
var calendarCsvTmpl string

//go:embed calendar_dates.csv.tmpl
var calendarDatesCsvTmpl string

var funcMap = template.FuncMap{
	"Quote": quote,
	"NullableFloat": func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	},
	"Bit": func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	},
	"FormatDate": func(t time.Time) string {
		return t.Format("20060102")
	},
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcMap).Parse(text))
}

var (
	agencyCsv        = mustParse("agency.csv.tmpl", agencyCsvTmpl)
	routesCsv        = mustParse("routes.csv.tmpl", routesCsvTmpl)
	directionsCsv    = mustParse("directions.csv.tmpl", directionsCsvTmpl)
	tripsCsv         = mustParse("trips.csv.tmpl", tripsCsvTmpl)
	stopsCsv         = mustParse("stops.csv.tmpl", stopsCsvTmpl)
	calendarCsv      = mustParse("calendar.csv.tmpl", calendarCsvTmpl)
	calendarDatesCsv = mustParse("calendar_dates.csv.tmpl", calendarDatesCsvTmpl)
)

// quote wraps a field in double quotes when it contains a separator, a quote or a line break.
func quote(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CSVExport contains the CSV files of a dataset.
type CSVExport struct {
	AgencyCsv        []byte
	RoutesCsv        []byte
	DirectionsCsv    []byte
	TripsCsv         []byte
	StopsCsv         []byte
	CalendarCsv      []byte
	CalendarDatesCsv []byte
}

// Files maps each output file name to its content.
func (e *CSVExport) Files() map[string][]byte {
	return map[string][]byte{
		"agency.csv":         e.AgencyCsv,
		"routes.csv":         e.RoutesCsv,
		"directions.csv":     e.DirectionsCsv,
		"trips.csv":          e.TripsCsv,
		"stops.csv":          e.StopsCsv,
		"calendar.csv":       e.CalendarCsv,
		"calendar_dates.csv": e.CalendarDatesCsv,
	}
}

func ToCSV(ds *gtfs.Dataset) (*CSVExport, error) {
	var e CSVExport
	for _, f := range []struct {
		tmpl *template.Template
		data any
		out  *[]byte
	}{
		{agencyCsv, ds.Agency, &e.AgencyCsv},
		{routesCsv, ds.Routes, &e.RoutesCsv},
		{directionsCsv, ds.Directions, &e.DirectionsCsv},
		{tripsCsv, ds.Trips, &e.TripsCsv},
		{stopsCsv, ds.Stops, &e.StopsCsv},
		{calendarCsv, ds.Services, &e.CalendarCsv},
		{calendarDatesCsv, ds.CalendarDates, &e.CalendarDatesCsv},
	} {
		var b bytes.Buffer
		if err := f.tmpl.Execute(&b, f.data); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", f.tmpl.Name(), err)
		}
		*f.out = b.Bytes()
	}
	return &e, nil
}

// WriteCSVDir renders the dataset and writes one file per table into dir, creating it if needed.
func WriteCSVDir(dir string, ds *gtfs.Dataset) error {
	e, err := ToCSV(ds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, content := range e.Files() {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// Hash returns the hex-encoded SHA-256 of the dataset.
func Hash(ds *gtfs.Dataset) string {
	h := sha256.New()
	ds.Hash(h)
	return hex.EncodeToString(h.Sum(nil))
}

package export

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/mtransitapps/gtfs"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// WriteSQLite stores the dataset in the SQLite database at path under the given run id.
//
// The database is created if it does not exist. All rows of a run are written in one transaction.
func WriteSQLite(ctx context.Context, path string, ds *gtfs.Dataset, runID string) error {
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, agency_id, dataset_hash, created_at) VALUES (?, ?, ?, ?)",
		runID, ds.Agency.Id, Hash(ds), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	for _, table := range []struct {
		name   string
		insert string
		rows   int
		args   func(i int) []any
	}{
		{
			name:   "routes",
			insert: "INSERT INTO routes (run_id, route_id, short_name, long_name, color) VALUES (?, ?, ?, ?, ?)",
			rows:   len(ds.Routes),
			args: func(i int) []any {
				r := &ds.Routes[i]
				return []any{runID, r.Id, r.ShortName, r.LongName, r.Color}
			},
		},
		{
			name:   "directions",
			insert: "INSERT INTO directions (run_id, route_id, direction_id, headsign, bound) VALUES (?, ?, ?, ?, ?)",
			rows:   len(ds.Directions),
			args: func(i int) []any {
				d := &ds.Directions[i]
				return []any{runID, d.RouteId, d.DirectionId, d.Headsign, string(d.Bound)}
			},
		},
		{
			name:   "trips",
			insert: "INSERT INTO trips (run_id, trip_id, route_id, service_id, direction_id, headsign) VALUES (?, ?, ?, ?, ?, ?)",
			rows:   len(ds.Trips),
			args: func(i int) []any {
				t := &ds.Trips[i]
				return []any{runID, t.Id, t.RouteId, t.ServiceId, t.DirectionId, t.Headsign}
			},
		},
		{
			name:   "stops",
			insert: "INSERT INTO stops (run_id, stop_id, stop_code, name, latitude, longitude) VALUES (?, ?, ?, ?, ?, ?)",
			rows:   len(ds.Stops),
			args: func(i int) []any {
				s := &ds.Stops[i]
				return []any{runID, s.Id, s.Code, s.Name, s.Latitude, s.Longitude}
			},
		},
		{
			name:   "services",
			insert: "INSERT INTO services (run_id, service_id, days, start_date, end_date) VALUES (?, ?, ?, ?, ?)",
			rows:   len(ds.Services),
			args: func(i int) []any {
				s := &ds.Services[i]
				return []any{runID, s.Id, weekdays(s), s.StartDate.Format("20060102"), s.EndDate.Format("20060102")}
			},
		},
		{
			name:   "calendar_dates",
			insert: "INSERT INTO calendar_dates (run_id, service_id, date, exception_type) VALUES (?, ?, ?, ?)",
			rows:   len(ds.CalendarDates),
			args: func(i int) []any {
				c := &ds.CalendarDates[i]
				return []any{runID, c.ServiceID, c.Date.Format("20060102"), int32(c.Exception)}
			},
		},
	} {
		if err := insertAll(ctx, tx, table.insert, table.rows, table.args); err != nil {
			return fmt.Errorf("failed to insert %s: %w", table.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertAll(ctx context.Context, tx *sql.Tx, insert string, rows int, args func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < rows; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

// weekdays encodes the days of a service as seven 0/1 characters starting on Monday.
func weekdays(s *gtfs.Service) string {
	var b strings.Builder
	for _, day := range []bool{s.Monday, s.Tuesday, s.Wednesday, s.Thursday, s.Friday, s.Saturday, s.Sunday} {
		if day {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

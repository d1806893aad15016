// Package testutil builds in-memory GTFS static archives for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"strings"
)

type ZipBuilder struct {
	m map[string]string
}

// NewZipBuilder returns a builder holding the required files with headers only.
func NewZipBuilder() *ZipBuilder {
	return (&ZipBuilder{m: map[string]string{}}).Add(
		"agency.txt", "agency_id,agency_name,agency_url,agency_timezone",
	).Add(
		"routes.txt", "route_id,route_type",
	).Add(
		"stops.txt", "stop_id",
	).Add(
		"trips.txt", "route_id,service_id,trip_id",
	)
}

// Add sets the content of a file, one line per argument.
func (z *ZipBuilder) Add(fileName string, lines ...string) *ZipBuilder {
	z.m[fileName] = strings.Join(lines, "\n")
	return z
}

// Remove drops a file from the archive.
func (z *ZipBuilder) Remove(fileName string) *ZipBuilder {
	delete(z.m, fileName)
	return z
}

func (z *ZipBuilder) Build() []byte {
	fileNames := make([]string, 0, len(z.m))
	for fileName := range z.m {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)
	var b bytes.Buffer
	zipWriter := zip.NewWriter(&b)
	for _, fileName := range fileNames {
		fileWriter, err := zipWriter.Create(fileName)
		if err != nil {
			panic(err)
		}
		if _, err := io.Copy(fileWriter, bytes.NewBufferString(z.m[fileName])); err != nil {
			panic(err)
		}
	}
	if err := zipWriter.Close(); err != nil {
		panic(err)
	}
	return b.Bytes()
}

// WestCoastExpressFeed is a small regional feed: the rail route under two of its spellings, a
// bus route, TrainBus replacement trips and a service used only by buses.
func WestCoastExpressFeed() *ZipBuilder {
	return NewZipBuilder().Add(
		"agency.txt",
		"agency_id,agency_name,agency_url,agency_timezone",
		"TL,TransLink,https://www.translink.ca,America/Vancouver",
	).Add(
		"routes.txt",
		"route_id,agency_id,route_short_name,route_long_name,route_type,route_color",
		`30052,TL,WCE,"WEST COAST EXPRESS",2,711E8C`,
		"30053,TL,997,West Coast Express,2,711E8C",
		"6626,TL,099,Commercial-Broadway/UBC (B-Line),3,0F5EAA",
	).Add(
		"stops.txt",
		"stop_id,stop_code,stop_name,stop_lat,stop_lon",
		"8040,50020,WATERFRONT STATION,49.285962,-123.111901",
		"8041,,Port Moody Station - Unloading Only,49.277858,-122.845794",
		"8042,50021,Mission City Station,49.133654,-122.304488",
		"11,51111,UBC Exchange Bay 7,49.267,-123.247",
	).Add(
		"calendar.txt",
		"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
		"1,1,1,1,1,1,0,0,20240101,20241231",
		"2,0,0,0,0,0,1,1,20240101,20241231",
		"3,1,1,1,1,1,1,1,20240101,20241231",
	).Add(
		"calendar_dates.txt",
		"service_id,date,exception_type",
		"1,20240101,2",
		"2,20240101,1",
		"3,20240101,2",
	).Add(
		"trips.txt",
		"route_id,service_id,trip_id,trip_headsign,direction_id",
		"30052,1,t1,WEST COAST EXPRESS TRAIN TO WATERFRONT,1",
		"30053,1,t2,West Coast Express Train To Waterfront,1",
		"30052,1,t3,WEST COAST EXPRESS TRAIN TO MISSION CITY,0",
		"30052,2,t4,TRAINBUS TO MISSION CITY,0",
		"6626,3,t5,UBC,0",
	).Add(
		"stop_times.txt",
		"trip_id,stop_id,stop_sequence",
		"t1,8042,1",
		"t1,8041,2",
		"t1,8040,3",
		"t2,8042,1",
		"t2,8040,2",
		"t3,8040,1",
		"t3,8042,2",
		"t4,8040,1",
		"t5,11,1",
	)
}

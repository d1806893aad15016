package main

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mtransitapps/gtfs"
	"github.com/mtransitapps/gtfs/agency"
	"github.com/mtransitapps/gtfs/agency/wce"
	"github.com/mtransitapps/gtfs/internal/testutil"
)

func TestFormatInspectionAndDataset(t *testing.T) {
	color.NoColor = true
	static, err := gtfs.ParseStatic(testutil.WestCoastExpressFeed().Build(), gtfs.ParseStaticOptions{})
	if err != nil {
		t.Fatalf("ParseStatic() err = %v", err)
	}
	tools, err := wce.ForFeed(wce.DefaultConfig(), static)
	if err != nil {
		t.Fatalf("ForFeed() err = %v", err)
	}

	inspection := formatInspection(static, tools)
	for _, want := range []string{
		"Service ids: 1\n",
		"keep  RouteID 30052  ShortName WCE",
		"Trips 2 kept / 1 excluded",
		"skip  RouteID 6626",
	} {
		if !strings.Contains(inspection, want) {
			t.Errorf("formatInspection() = %q, want it to contain %q", inspection, want)
		}
	}

	ds, err := agency.Process(static, tools, agency.ProcessOptions{})
	if err != nil {
		t.Fatalf("Process() err = %v", err)
	}
	summary := formatDataset(ds)
	for _, want := range []string{
		"Route 997  ShortName WCE",
		"Direction 1  WEST  Headsign Waterfront",
		"3 trips  3 stops  1 services  1 calendar dates",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("formatDataset() = %q, want it to contain %q", summary, want)
		}
	}
}

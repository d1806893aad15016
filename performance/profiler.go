package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/mtransitapps/gtfs"
	"github.com/mtransitapps/gtfs/agency"
	"github.com/mtransitapps/gtfs/agency/wce"
)

var out = flag.String("out", "wce_profile.pb.gz", "file path to output the profile to")

func main() {
	if err := run(); err != nil {
		fmt.Println("failed:", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	gtfsFiles := flag.Args()
	var gtfsBytes [][]byte
	for _, gtfsFile := range gtfsFiles {
		b, err := os.ReadFile(gtfsFile)
		if err != nil {
			return err
		}
		gtfsBytes = append(gtfsBytes, b)
	}

	fmt.Println("starting profile")
	var profile bytes.Buffer
	if err := pprof.StartCPUProfile(&profile); err != nil {
		return err
	}
	for i, in := range gtfsBytes {
		fmt.Printf("normalizing file %d/%d\n", i+1, len(gtfsBytes))
		static, err := gtfs.ParseStatic(in, gtfs.ParseStaticOptions{})
		if err != nil {
			return err
		}
		tools, err := wce.ForFeed(wce.DefaultConfig(), static)
		if err != nil {
			return err
		}
		if _, err := agency.Process(static, tools, agency.ProcessOptions{}); err != nil {
			return err
		}
	}
	pprof.StopCPUProfile()

	fmt.Println("writing profile to", *out)
	return os.WriteFile(*out, profile.Bytes(), 0644)
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mtransitapps/gtfs"
	"github.com/mtransitapps/gtfs/agency"
	"github.com/mtransitapps/gtfs/agency/wce"
	"github.com/mtransitapps/gtfs/export"
	"github.com/mtransitapps/gtfs/internal/logging"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Println("Error: failed to load .env:", err)
		os.Exit(1)
	}
	configFlag := &cli.StringFlag{
		Name:    "config",
		Usage:   "YAML file overriding the default agency configuration",
		EnvVars: []string{"WCE_CONFIG"},
	}
	app := &cli.App{
		Name:  "wce",
		Usage: "normalize the West Coast Express GTFS static feed",
		Commands: []*cli.Command{
			{
				Name:      "normalize",
				Usage:     "build the normalized dataset and export it",
				ArgsUsage: "feed.zip",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "out-dir",
						Usage:   "directory to write the CSV files to",
						EnvVars: []string{"WCE_OUT_DIR"},
					},
					&cli.StringFlag{
						Name:    "sqlite",
						Usage:   "SQLite database to append the run to",
						EnvVars: []string{"WCE_SQLITE"},
					},
					&cli.StringFlag{
						Name:    "log-level",
						Value:   "info",
						Usage:   "trace, debug, info, warn or error",
						EnvVars: []string{"WCE_LOG_LEVEL"},
					},
					&cli.StringFlag{
						Name:    "log-file",
						Usage:   "also write JSON logs to this rotated file",
						EnvVars: []string{"WCE_LOG_FILE"},
					},
				},
				Action: normalize,
			},
			{
				Name:      "inspect",
				Usage:     "show which records of the feed the agency keeps",
				ArgsUsage: "feed.zip",
				Flags:     []cli.Flag{configFlag},
				Action:    inspect,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func readFeed(ctx *cli.Context) (*gtfs.Static, error) {
	if ctx.Args().Len() == 0 {
		return nil, fmt.Errorf("a path to the GTFS static feed was not provided")
	}
	path := ctx.Args().First()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	static, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse GTFS static data: %w", err)
	}
	return static, nil
}

func loadConfig(ctx *cli.Context) (wce.Config, error) {
	path := ctx.String("config")
	if path == "" {
		return wce.DefaultConfig(), nil
	}
	return wce.LoadConfig(path)
}

func normalize(ctx *cli.Context) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = ctx.String("log-level")
	logCfg.FilePath = ctx.String("log-file")
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	runID := uuid.New().String()
	logger = logger.With().Str("run_id", runID).Logger()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	static, err := readFeed(ctx)
	if err != nil {
		return err
	}
	logWarnings(&logger, static)

	tools, err := wce.ForFeed(cfg, static)
	if err != nil {
		return err
	}
	logger.Debug().Strs("service_ids", tools.ServiceIDs().Sorted()).Msg("Computed service ids")
	ds, err := agency.Process(static, tools, agency.ProcessOptions{Logger: &logger})
	if err != nil {
		if agency.IsFatal(err) {
			logger.Error().Err(err).Stringer("kind", agency.KindOf(err)).Msg("Aborting run")
		}
		return err
	}

	if dir := ctx.String("out-dir"); dir != "" {
		if err := export.WriteCSVDir(dir, ds); err != nil {
			return err
		}
		logger.Info().Str("dir", dir).Msg("Wrote CSV files")
	}
	if path := ctx.String("sqlite"); path != "" {
		if err := export.WriteSQLite(ctx.Context, path, ds, runID); err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("Wrote SQLite run")
	}
	fmt.Print(formatDataset(ds))
	return nil
}

func logWarnings(logger *zerolog.Logger, static *gtfs.Static) {
	for _, w := range static.Warnings {
		logger.Debug().Str("file", string(w.File())).Msg(w.Error())
	}
	if len(static.Warnings) > 0 {
		logger.Info().Int("warnings", len(static.Warnings)).Msg("Parsed feed with warnings (show with --log-level debug)")
	}
}

func inspect(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	static, err := readFeed(ctx)
	if err != nil {
		return err
	}
	tools, err := wce.ForFeed(cfg, static)
	if err != nil {
		return err
	}
	fmt.Print(formatInspection(static, tools))
	return nil
}

func formatInspection(static *gtfs.Static, tools *wce.Tools) string {
	var b strings.Builder
	tc := color.New(color.FgCyan)
	kc := color.New(color.FgGreen)
	xc := color.New(color.FgRed)
	fmt.Fprintf(&b, "Feed: %s agencies  %s routes  %s trips  %s stops  %s services  %s calendar dates  %s warnings\n",
		tc.Sprint(len(static.Agencies)),
		tc.Sprint(len(static.Routes)),
		tc.Sprint(len(static.Trips)),
		tc.Sprint(len(static.Stops)),
		tc.Sprint(len(static.Services)),
		tc.Sprint(len(static.CalendarDates)),
		tc.Sprint(len(static.Warnings)),
	)
	fmt.Fprintf(&b, "Service ids: %s\n", tc.Sprint(strings.Join(tools.ServiceIDs().Sorted(), ", ")))
	if tools.ShouldExcludeEverything() {
		fmt.Fprintf(&b, "%s\n", xc.Sprint("No rail service: the whole feed would be excluded"))
	}

	kept := map[string]int{}
	excluded := map[string]int{}
	for i := range static.Trips {
		trip := &static.Trips[i]
		if tools.ShouldExcludeTrip(trip) {
			excluded[trip.RouteID]++
		} else {
			kept[trip.RouteID]++
		}
	}
	fmt.Fprintf(&b, "Routes:\n")
	for i := range static.Routes {
		route := &static.Routes[i]
		status := kc.Sprint("keep")
		if tools.ShouldExcludeRoute(route) {
			status = xc.Sprint("skip")
		}
		fmt.Fprintf(&b, "  %s  RouteID %s  ShortName %s  LongName %q  Trips %d kept / %d excluded\n",
			status,
			tc.Sprint(route.Id),
			tc.Sprint(route.ShortName),
			route.LongName,
			kept[route.Id],
			excluded[route.Id],
		)
	}
	return b.String()
}

func formatDataset(ds *gtfs.Dataset) string {
	var b strings.Builder
	tc := color.New(color.FgCyan)
	vc := color.New(color.FgMagenta)
	fmt.Fprintf(&b, "Agency %s  Color %s  Hash %s\n", tc.Sprint(ds.Agency.Id), tc.Sprint(ds.Agency.Color), vc.Sprint(export.Hash(ds)))
	for _, route := range ds.Routes {
		fmt.Fprintf(&b, "Route %s  ShortName %s  LongName %q\n", tc.Sprint(route.Id), tc.Sprint(route.ShortName), route.LongName)
	}
	for _, direction := range ds.Directions {
		fmt.Fprintf(&b, "  Direction %s  %s  Headsign %s\n",
			tc.Sprint(direction.DirectionId),
			tc.Sprint(direction.Bound),
			vc.Sprint(direction.Headsign),
		)
	}
	fmt.Fprintf(&b, "%d trips  %d stops  %d services  %d calendar dates\n",
		len(ds.Trips), len(ds.Stops), len(ds.Services), len(ds.CalendarDates))
	return b.String()
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/samirrijal/trailmatch/internal/adapters/google"
	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
	"github.com/samirrijal/trailmatch/internal/pkg/config"
	"github.com/samirrijal/trailmatch/internal/pkg/geospatial"
	"github.com/samirrijal/trailmatch/internal/pkg/logging"
)

const usage = `usage: trailsearch [flags] <location text>
       trailsearch [flags] <lat> <lon>`

func main() {
	radius := flag.Int("radius", 0, "search radius in meters (default from config)")
	keyword := flag.String("keyword", "", "places keyword (default from config)")
	limit := flag.Int("n", 20, "maximum trails to print")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load("trailsearch")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Keep stdout for the table.
	slog.SetDefault(logging.New(os.Stderr, "warn", "text"))

	req := parseArgs(flag.Args())
	req.RadiusMeters = *radius
	req.Keyword = *keyword

	gc := google.NewClient(cfg.Google.APIKey,
		google.WithBaseURL(cfg.Google.BaseURL),
		google.WithRateLimit(cfg.Google.QPS, cfg.Google.Burst),
	)
	geo := usecases.NewGeoResolver(google.NewGeocoder(gc), nil, cfg.Search.CallTimeout())
	trails := usecases.NewTrailService(geo, google.NewPlaces(gc), nil, nil, usecases.SearchOptions{
		DefaultRadius:  cfg.Search.DefaultRadius,
		DefaultKeyword: cfg.Search.DefaultKeyword,
		CallTimeout:    cfg.Search.CallTimeout(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := trails.Search(ctx, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
	printResult(os.Stdout, res, *limit)
}

// parseArgs treats exactly two numeric arguments as a coordinate and anything
// else as location text.
func parseArgs(args []string) usecases.SearchRequest {
	if len(args) == 2 {
		lat, errLat := strconv.ParseFloat(args[0], 64)
		lon, errLon := strconv.ParseFloat(args[1], 64)
		if errLat == nil && errLon == nil {
			return usecases.SearchRequest{Device: &domain.Coordinate{Lat: lat, Lon: lon}}
		}
	}
	return usecases.SearchRequest{Location: strings.Join(args, " ")}
}

func describe(err error) string {
	switch domain.StateOf(err) {
	case domain.StateLocationNotFound:
		return "Location not found. Try a different search. (" + err.Error() + ")"
	default:
		if errors.Is(err, domain.ErrRateLimited) {
			return "Provider quota exhausted, try again shortly."
		}
		return "Failed to fetch trails: " + err.Error()
	}
}

func printResult(w io.Writer, res *usecases.SearchResult, limit int) {
	origin := res.Origin.DisplayName
	if origin == "" {
		origin = res.Origin.Coordinate.String()
	}
	fmt.Fprintf(w, "Trails near %s (%d found)\n\n", origin, len(res.Trails))
	if len(res.Trails) == 0 {
		fmt.Fprintln(w, "No trails found. Try a larger radius.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tDISTANCE\tRATING\tTAGS\tLOCATION")
	for i, t := range res.Trails {
		if limit > 0 && i >= limit {
			break
		}
		rating := "-"
		if t.Rating != nil {
			rating = strconv.FormatFloat(*t.Rating, 'f', 1, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%.1f mi\t%s\t%s\t%s\n",
			i+1, t.Name, geospatial.KmToMiles(t.DistanceKm), rating, strings.Join(t.Tags, ", "), t.Vicinity)
	}
	tw.Flush()
}

// Command seeder loads demo roster data from a JSON file into the
// database through the registry service. It is intended to be run
// offline against an empty database, not as part of the main server.
//
// Flags:
//
//	--file          path to the demo data JSON file (required)
//	--skip-geocode  register records without resolving coordinates
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/meadowmind/carematch-backend/internal/adapter/identity"
	"github.com/meadowmind/carematch-backend/internal/adapter/postgres"
	clientrepo "github.com/meadowmind/carematch-backend/internal/adapter/postgres/client"
	therapistrepo "github.com/meadowmind/carematch-backend/internal/adapter/postgres/therapist"
	"github.com/meadowmind/carematch-backend/internal/adapter/provider/azmaps"
	"github.com/meadowmind/carematch-backend/internal/app"
	"github.com/meadowmind/carematch-backend/internal/config"
	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/internal/seeder"
	"github.com/meadowmind/carematch-backend/internal/service/registry"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

// skipGeocoder fails every lookup so the registry stores records without
// coordinates. Matching geocodes them on demand later.
type skipGeocoder struct{}

func (skipGeocoder) Geocode(_ context.Context, addr domain.Address) (geo.Point, error) {
	return geo.Point{}, domain.NewGeocodingError(addr.NormalizedKey(), "geocoding disabled for seeding", nil)
}

func main() {
	fileFlag := flag.String("file", "", "path to the demo data JSON file")
	skipGeocodeFlag := flag.Bool("skip-geocode", false, "register records without resolving coordinates")
	flag.Parse()

	if *fileFlag == "" {
		log.Fatal("--file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	f, err := os.Open(*fileFlag)
	if err != nil {
		logger.Error("open demo data file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	data, err := seeder.Parse(f)
	if err != nil {
		logger.Error("parse demo data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	clients := clientrepo.New(pool)
	therapists := therapistrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	var registrySvc *registry.Service
	if *skipGeocodeFlag {
		registrySvc = registry.NewService(logger, clients, therapists, skipGeocoder{}, txManager)
	} else {
		tokens := identity.NewProvider(cfg.Identity, logger)
		geocoder := azmaps.New(cfg.Maps, tokens, logger)
		registrySvc = registry.NewService(logger, clients, therapists, geocoder, txManager)
	}

	res, err := seeder.New(registrySvc, logger).Run(ctx, data)
	if err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if res.Failed > 0 {
		logger.Warn("seeding completed with skipped records", slog.Int("failed", res.Failed))
		os.Exit(1)
	}
}

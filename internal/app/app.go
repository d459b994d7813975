package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/meadowmind/carematch-backend/internal/adapter/identity"
	"github.com/meadowmind/carematch-backend/internal/adapter/postgres"
	clientrepo "github.com/meadowmind/carematch-backend/internal/adapter/postgres/client"
	therapistrepo "github.com/meadowmind/carematch-backend/internal/adapter/postgres/therapist"
	"github.com/meadowmind/carematch-backend/internal/adapter/provider/azmaps"
	"github.com/meadowmind/carematch-backend/internal/config"
	"github.com/meadowmind/carematch-backend/internal/service/matching"
	"github.com/meadowmind/carematch-backend/internal/service/registry"
	"github.com/meadowmind/carematch-backend/internal/transport/middleware"
	"github.com/meadowmind/carematch-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// adapters and services together, and serves HTTP until the context is
// cancelled or a termination signal arrives.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	clients := clientrepo.New(pool)
	therapists := therapistrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	tokens := identity.NewProvider(cfg.Identity, logger)
	geocoder := azmaps.New(cfg.Maps, tokens, logger)

	registrySvc := registry.NewService(logger, clients, therapists, geocoder, txManager)
	matchingSvc := matching.NewService(logger, cfg.Matching, clients, therapists, geocoder, txManager)

	mux := rest.NewRouter(rest.RouterDeps{
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
		Clients:   rest.NewClientHandler(registrySvc, logger),
		Therapist: rest.NewTherapistHandler(registrySvc, logger),
		Matching:  rest.NewMatchingHandler(matchingSvc, logger),
		Geocode:   rest.NewGeocodeHandler(geocoder, logger),
	})

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimitPerMin),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped cleanly")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"travel-nav-service/internal/adapters/device"
	"travel-nav-service/internal/adapters/geocode"
	"travel-nav-service/internal/adapters/notify"
	"travel-nav-service/internal/adapters/routing"
	"travel-nav-service/internal/adapters/store"
	"travel-nav-service/internal/api"
	"travel-nav-service/internal/config"
	"travel-nav-service/internal/navigation"
	"travel-nav-service/internal/platform/db"
	"travel-nav-service/internal/platform/logger"
	"travel-nav-service/internal/ports"
)

// main is the application composition root. It wires concrete adapters
// (geocoding providers, routing provider, Redis cache, Postgres store,
// device locator) behind ports and starts the HTTP server.
func main() {
	// Missing .env is fine; environment variables are used directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Destination store. The engine only reads it at session start; losing
	// it loses destination recall, not navigation, so it stays optional.
	var destStore *store.PostgresDestinationStore
	pool, err := db.Open(ctx, cfg.Postgres.DSN(), cfg.Postgres.MaxConns)
	if err != nil {
		log.Warn("postgres unavailable, destination recall disabled", zap.Error(err))
	} else {
		defer pool.Close()
		if err := store.InitSchema(ctx, pool); err != nil {
			log.Fatal("init destination schema", zap.Error(err))
		}
		destStore = store.NewPostgresDestinationStore(pool)
	}

	// Geocode cache avoids repeated provider calls for the same query.
	geocoderOpts := []navigation.GeocoderOption{}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, geocode cache disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		geocoderOpts = append(geocoderOpts,
			navigation.WithGeocodeCache(geocode.NewRedisCache(rdb, cfg.Geocoding.CacheTTL)))
	}
	cancel()

	primary := geocode.NewPrimaryProvider(cfg.Geocoding.PrimaryBaseURL, cfg.Geocoding.PrimaryAPIKey)
	fallback := geocode.NewNominatimSearcher(cfg.Geocoding.FallbackBaseURL, cfg.Geocoding.UserAgent)
	geocoder := navigation.NewGeocoder(primary, fallback, log, geocoderOpts...)

	directions := routing.NewDirectionsProvider(cfg.Routing.BaseURL, cfg.Routing.APIKey, cfg.Routing.Timeout)
	calculator := navigation.NewRouteCalculator(directions, log)

	var fixes []device.ScriptFix
	if cfg.Device.ReplayPath != "" {
		fixes, err = device.LoadScript(cfg.Device.ReplayPath)
		if err != nil {
			log.Fatal("load device replay script", zap.Error(err))
		}
	}
	locator := device.NewReplayLocator(fixes, cfg.Device.ReplayInterval)

	sessions := navigation.NewManager(
		geocoder,
		locator,
		calculator,
		&notify.LogNotifier{Log: log},
		navigation.SessionConfig{
			TrafficInterval: cfg.Navigation.TrafficInterval,
			Watch: navigation.WatchConfig{
				ManualTimeout:  cfg.Navigation.ManualFixTimeout,
				WatchTimeout:   cfg.Navigation.WatchFixTimeout,
				ReverseTimeout: cfg.Navigation.ReverseTimeout,
			},
		},
		log,
	)

	// Keep the interface nil when the store is absent so handlers skip it.
	var storePort ports.DestinationStore
	if destStore != nil {
		storePort = destStore
	}
	router := api.NewRouter(sessions, storePort, log)

	srv := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", zap.Error(err))
	}

	// Teardown releases every session's watch and traffic timer.
	sessions.CloseAll()
}

package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"daywise/internal/platform/config"
	"daywise/internal/platform/httpserver"
	"daywise/internal/platform/logger"
	"daywise/internal/platform/middleware"
	platformredis "daywise/internal/platform/redis"
	"daywise/internal/residency/handler"
	"daywise/internal/residency/metrics"
	"daywise/internal/residency/models"
	"daywise/internal/residency/ports"
	"daywise/internal/residency/service"
	"daywise/internal/residency/service/sweep"
	"daywise/internal/residency/store/stay"
	"daywise/internal/residency/store/statuscache"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the residency packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	// Stay store: postgres when DATABASE_URL is set, in-memory otherwise.
	var stays ports.StayStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		stays = stay.NewPostgresStayStore(db)
		log.Info("using postgres stay store")
	} else {
		stays = stay.NewInMemoryStayStore()
		log.Warn("DATABASE_URL not set, using in-memory stay store")
	}

	m := metrics.New()

	svcOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithCacheTTL(cfg.CacheTTL),
		service.WithDefaults(calcDefaults(cfg)),
	}

	// Status cache: redis when configured, otherwise none.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		svcOpts = append(svcOpts, service.WithCache(statuscache.NewRedisStatusCache(redisClient.Client)))
		log.Info("status cache enabled")
	}

	svc, err := service.New(stays, svcOpts...)
	if err != nil {
		log.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	sweeper, err := sweep.New(svc,
		sweep.WithLogger(log),
		sweep.WithMetrics(m),
		sweep.WithWorkers(cfg.SweepWorkers),
	)
	if err != nil {
		log.Error("failed to build sweeper", "error", err)
		os.Exit(1)
	}

	h := handler.New(svc, sweeper, log)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)

	h.Register(router)
	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(cfg.AdminToken, log))
		h.RegisterAdmin(r)
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting daywise", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// calcDefaults translates env overrides into engine defaults.
func calcDefaults(cfg config.Server) models.CalcConfig {
	territories := models.DefaultTerritories()
	if len(cfg.Territories) > 0 {
		territories = models.NewTerritorySet(cfg.Territories...)
	}
	defaults := models.NewCalcConfig(0, territories)
	if cfg.DayLimit > 0 {
		defaults.DayLimit = cfg.DayLimit
	}
	if cfg.WindowSize > 0 {
		defaults.WindowSize = cfg.WindowSize
	}
	if cfg.AmberThresholdDays > 0 {
		defaults.AmberThresholdDays = cfg.AmberThresholdDays
	}
	return defaults
}

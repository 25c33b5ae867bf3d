package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"conforma/internal/auditfeed"
	"conforma/internal/catalog"
	cataloghandler "conforma/internal/catalog/handler"
	"conforma/internal/changelog"
	evalhandler "conforma/internal/evaluation/handler"
	evalmetrics "conforma/internal/evaluation/metrics"
	evalservice "conforma/internal/evaluation/service"
	"conforma/internal/jwtauth"
	"conforma/internal/platform/config"
	"conforma/internal/platform/httpserver"
	"conforma/internal/platform/logger"
	"conforma/internal/platform/metrics"
	"conforma/internal/platform/middleware"
	"conforma/internal/platform/postgres"
	"conforma/internal/project"
	projecthandler "conforma/internal/project/handler"
	projectservice "conforma/internal/project/service"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	library, err := catalog.Load()
	if err != nil {
		log.Error("failed to load certification catalogs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var (
		projectStore   project.Store
		changelogStore changelog.Store
		storeTx        evalservice.StoreTx
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
		projectStore = project.NewPostgres(db)
		changelogStore = changelog.NewPostgres(db)
		storeTx = evalservice.NewSQLTx(db)
		log.Info("using postgres stores")
	} else {
		projectStore = project.NewInMemoryStore()
		changelogStore = changelog.NewInMemoryStore()
		storeTx = evalservice.NewMemoryTx()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var evalOpts []evalservice.Option
	if len(cfg.KafkaBrokers) > 0 {
		feed, err := auditfeed.New(ctx, cfg.KafkaBrokers, cfg.AuditFeedTopic, log)
		if err != nil {
			log.Error("failed to connect audit feed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer feed.Close()
		evalOpts = append(evalOpts, evalservice.WithAuditFeed(feed))
		log.Info("audit feed enabled", slog.String("topic", cfg.AuditFeedTopic))
	}

	evalSvc := evalservice.NewService(
		projectStore, changelogStore, library, storeTx,
		evalmetrics.New(), log, evalOpts...,
	)
	projectSvc := projectservice.NewService(projectStore, library, log)
	jwtService := jwtauth.NewJWTService(cfg.JWTSigningKey, "conforma")

	httpMetrics := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.ClientMetadata)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.Latency(httpMetrics))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	// Catalog reads are public; everything touching project data requires an
	// authenticated actor for changelog attribution.
	cataloghandler.New(library, log).Register(router)
	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireActor(jwtService, log))
		projecthandler.New(projectSvc, log).Register(r)
		evalhandler.New(evalSvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting conforma", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

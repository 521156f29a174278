// Package main provides the estimator API server entry point. It hosts the
// three estimation engines, the snapshot and project registries, and the
// reference-data administration routes under a single process.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang/glog"
	"gorm.io/gorm"

	"github.com/fieldstone-env/estimator/pkg/audit"
	"github.com/fieldstone-env/estimator/pkg/config"
	"github.com/fieldstone-env/estimator/pkg/db"
	"github.com/fieldstone-env/estimator/pkg/hrs"
	"github.com/fieldstone-env/estimator/pkg/labfees"
	"github.com/fieldstone-env/estimator/pkg/logistics"
	"github.com/fieldstone-env/estimator/pkg/project"
	"github.com/fieldstone-env/estimator/pkg/rates"
	"github.com/fieldstone-env/estimator/pkg/seed"
	"github.com/fieldstone-env/estimator/pkg/snapshot"
)

func main() {
	var (
		listenAddr    string
		databaseType  string
		databaseDSN   string
		referencePath string
		seedOnStart   bool
	)

	flag.StringVar(&listenAddr, "listen", envOrDefault("ESTIMATOR_LISTEN", ":8080"), "Address to listen on")
	flag.StringVar(&databaseType, "db-type", envOrDefault("ESTIMATOR_DB_TYPE", "sqlite"), "Database type (postgres, mysql, or sqlite)")
	flag.StringVar(&databaseDSN, "db-dsn", envOrDefault("ESTIMATOR_DB_DSN", "estimator.db"), "Database connection string")
	flag.StringVar(&referencePath, "reference", os.Getenv("ESTIMATOR_REFERENCE"), "Path to reference-data YAML (default: built-in dataset)")
	flag.BoolVar(&seedOnStart, "seed", false, "Seed reference data before serving")
	flag.Parse()

	// Initialize glog for backwards compatibility
	_ = flag.Set("logtostderr", "true")

	// Set up structured logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting estimator server", "listen", listenAddr, "dbType", databaseType)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Reference dataset: built-in unless an override file is given.
	ref := config.Default()
	if referencePath != "" {
		loaded, err := config.Load(referencePath)
		if err != nil {
			glog.Fatalf("Failed to load reference data: %v", err)
		}
		ref = loaded
		logger.Info("loaded reference data", "path", referencePath)
	}

	gormDB, err := db.Open(databaseType, databaseDSN)
	if err != nil {
		glog.Fatalf("Failed to connect to database: %v", err)
	}

	auditCfg := audit.ConfigFromEnv()
	eventStore := audit.NewEventStore(gormDB)

	// The event store is always migrated so history survives toggling the
	// audit flag; engines only write to it when auditing is enabled.
	var events *audit.EventStore
	if auditCfg.Enabled {
		events = eventStore
	}

	projectStore := project.NewStore(gormDB)
	summaryStore := project.NewSummaryStore(gormDB)
	snapshotStore := snapshot.NewStore(gormDB, events)
	rateStore := rates.NewStore(gormDB)
	labStore := labfees.NewStore(gormDB)
	hrsEngine := hrs.NewEngine(gormDB, rateStore, events)
	labEngine := labfees.NewEngine(gormDB, labStore, rateStore, events)
	logisticsEngine := logistics.NewEngine(gormDB, rateStore, events)

	if err := migrateAll(
		projectStore.AutoMigrate,
		snapshotStore.AutoMigrate,
		rateStore.AutoMigrate,
		labStore.AutoMigrate,
		hrsEngine.AutoMigrate,
		logisticsEngine.AutoMigrate,
		eventStore.AutoMigrate,
	); err != nil {
		glog.Fatalf("Failed to migrate database: %v", err)
	}

	seeder := seed.NewSeeder(gormDB, rateStore, labStore)
	if seedOnStart {
		summary, err := seeder.Apply(ref)
		if err != nil {
			glog.Fatalf("Failed to seed reference data: %v", err)
		}
		logger.Info("seeded reference data on start",
			"laborRates", summary.LaborRates, "tests", summary.Tests, "labRates", summary.LabRates)
	}

	// Retention sweeps for the estimate event log.
	if events != nil {
		go audit.NewRetentionWorker(events, auditCfg.RetentionDays, logger).Run(ctx)
	}

	router := mountRoutes(gormDB, serverStores{
		projects:  projectStore,
		summaries: summaryStore,
		snapshots: snapshotStore,
		rates:     rateStore,
		labs:      labStore,
		hrs:       hrsEngine,
		lab:       labEngine,
		logistics: logisticsEngine,
		events:    events,
		seeder:    seeder,
		reference: ref,
	})

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Fatalf("HTTP server error: %v", err)
		}
	}()

	logger.Info("estimator server ready", "listen", listenAddr)

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("estimator server stopped")
}

type serverStores struct {
	projects  *project.Store
	summaries *project.SummaryStore
	snapshots *snapshot.Store
	rates     *rates.Store
	labs      *labfees.Store
	hrs       *hrs.Engine
	lab       *labfees.Engine
	logistics *logistics.Engine
	events    *audit.EventStore
	seeder    *seed.Seeder
	reference *config.ReferenceData
}

// mountRoutes creates the HTTP router with all estimator routes mounted.
func mountRoutes(gormDB *gorm.DB, s serverStores) chi.Router {
	r := chi.NewRouter()

	// Add common middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(api chi.Router) {
		project.RegisterRoutes(api, s.projects, s.summaries, s.snapshots.DiscardByID)
		snapshot.RegisterRoutes(api, s.snapshots, s.projects)
		rates.RegisterRoutes(api, s.rates)
		hrs.RegisterRoutes(api, s.hrs)
		labfees.RegisterRoutes(api, s.lab, s.labs)
		logistics.RegisterRoutes(api, s.logistics)
		if s.events != nil {
			audit.RegisterRoutes(api, s.events)
		}
		seed.RegisterRoutes(api, s.seeder, s.reference)
	})

	// Add health endpoints
	r.Get("/healthz", healthHandler(gormDB))
	r.Get("/readyz", healthHandler(gormDB))

	return r
}

func healthHandler(gormDB *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		sqlDB, err := gormDB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func migrateAll(migrations ...func() error) error {
	for _, migrate := range migrations {
		if err := migrate(); err != nil {
			return err
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

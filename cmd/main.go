package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/biddersportal/tender-backend/internal/cache"
	"github.com/biddersportal/tender-backend/internal/db"
	"github.com/biddersportal/tender-backend/internal/handlers"
	"github.com/biddersportal/tender-backend/internal/ingest"
	"github.com/biddersportal/tender-backend/internal/repository"
	"github.com/biddersportal/tender-backend/internal/router"
	"github.com/biddersportal/tender-backend/internal/router/config"
	"github.com/biddersportal/tender-backend/internal/scheduler"
	"github.com/biddersportal/tender-backend/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	tenderRepo := repository.NewPostgresTenderRepository(dbPool)
	accessRepo := repository.NewPostgresAccessRepository(dbPool)

	queryCache := cache.NewQueryCache(cfg.CacheTTL)

	var notifier services.EmailNotifier = services.NoopNotifier{}
	if cfg.EmailAPIURL != "" {
		notifier = services.NewHTTPEmailNotifier(cfg.EmailAPIURL, cfg.EmailAPIToken)
	}

	tenderService := services.NewTenderService(tenderRepo, queryCache)
	accessService := services.NewAccessService(tenderRepo, accessRepo, notifier, logger)

	feedClient := ingest.NewClient(cfg.FeedURL, cfg.FeedTimeout)
	ingestService := services.NewIngestService(feedClient, tenderRepo, queryCache, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(cfg.SyncInterval, logger)
	go sched.Run(ctx, "tender-import", ingestService.Run)

	tenderHandler := handlers.NewTenderHandler(tenderService, accessService, logger, 5*time.Second)
	paymentHandler := handlers.NewPaymentHandler(accessService, logger, 5*time.Second)

	routes := router.InitRoutes(tenderHandler, paymentHandler)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}

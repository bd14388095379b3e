package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/config"
	"github.com/mamadbah2/linetrack/internal/i18n"
	"github.com/mamadbah2/linetrack/internal/repository"
	"github.com/mamadbah2/linetrack/internal/repository/memory"
	"github.com/mamadbah2/linetrack/internal/repository/mongodb"
	"github.com/mamadbah2/linetrack/internal/repository/sheets"
	"github.com/mamadbah2/linetrack/internal/scheduler"
	"github.com/mamadbah2/linetrack/internal/server/handlers"
	"github.com/mamadbah2/linetrack/internal/server/router"
	"github.com/mamadbah2/linetrack/internal/service/export"
	"github.com/mamadbah2/linetrack/internal/service/live"
	productionsvc "github.com/mamadbah2/linetrack/internal/service/production"
	stopsvc "github.com/mamadbah2/linetrack/internal/service/stops"
	whatsappsvc "github.com/mamadbah2/linetrack/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/linetrack/pkg/clients/whatsapp"
	"github.com/mamadbah2/linetrack/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store   *repository.Store
		archive repository.ReportArchive
	)
	switch cfg.Store.Backend {
	case config.BackendMemory:
		store = memory.NewStore(cfg.Store.SeedDefaults)
		baseLogger.Warn("using in-memory store, records are lost on restart")
	default:
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.MongoDB.PollInterval, logger.Named(baseLogger, "repo.mongodb"))
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		if cfg.Store.SeedDefaults {
			if err := mongoRepo.Seed(ctx); err != nil {
				baseLogger.Fatal("failed to seed default catalog", zap.Error(err))
			}
		}
		store = mongoRepo.Store()
		archive = mongoRepo
	}

	hub := live.NewHub(store, logger.Named(baseLogger, "live"))
	if err := hub.Start(ctx); err != nil {
		baseLogger.Fatal("failed to load initial snapshot", zap.Error(err))
	}

	loc := cfg.Location()
	productionSvc := productionsvc.NewService(store, hub, loc, logger.Named(baseLogger, "svc.production"))
	stopSvc := stopsvc.NewService(hub, store.Stops, loc, logger.Named(baseLogger, "svc.stops"))
	bundle := i18n.MustNew(cfg.Reporting.Locale)

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	} else {
		baseLogger.Warn("google sheets credentials missing, spreadsheet export disabled")
	}
	exporter := export.NewExporter(sheetsRepo, logger.Named(baseLogger, "svc.export"))
	baseLogger.Info("report exporter ready", zap.Bool("spreadsheet", exporter.SpreadsheetEnabled()))

	var messagingSvc whatsappsvc.MessagingService
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc = whatsappsvc.NewMetaWhatsAppService(whatsClient, cfg.WhatsApp.Recipient, logger.Named(baseLogger, "svc.whatsapp"))
	} else {
		baseLogger.Warn("whatsapp settings incomplete, daily summary will only be archived")
	}

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, productionSvc, archive, messagingSvc, bundle.Localizer(), logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Production: handlers.NewProductionHandler(productionSvc, logger.Named(baseLogger, "handlers.production")),
		Stops:      handlers.NewStopHandler(stopSvc, productionSvc, logger.Named(baseLogger, "handlers.stops")),
		Reports:    handlers.NewReportHandler(productionSvc, exporter, bundle, loc, logger.Named(baseLogger, "handlers.reports")),
		Stream:     handlers.NewStreamHandler(hub, 0, logger.Named(baseLogger, "handlers.stream")),
	}, logger.Named(baseLogger, "router"))

	// No write timeout: the snapshot stream stays open for the whole session.
	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

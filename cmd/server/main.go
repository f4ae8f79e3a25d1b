package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/stitchline/stitchline/internal/cache"
	"github.com/stitchline/stitchline/internal/config"
	"github.com/stitchline/stitchline/internal/repository"
	"github.com/stitchline/stitchline/internal/repository/memory"
	"github.com/stitchline/stitchline/internal/repository/mongodb"
	"github.com/stitchline/stitchline/internal/repository/postgrest"
	"github.com/stitchline/stitchline/internal/repository/sheets"
	"github.com/stitchline/stitchline/internal/scheduler"
	"github.com/stitchline/stitchline/internal/server/handlers"
	"github.com/stitchline/stitchline/internal/server/router"
	dashboardsvc "github.com/stitchline/stitchline/internal/service/dashboard"
	summarysvc "github.com/stitchline/stitchline/internal/service/summary"
	workerssvc "github.com/stitchline/stitchline/internal/service/workers"
	workflowsvc "github.com/stitchline/stitchline/internal/service/workflow"
	"github.com/stitchline/stitchline/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store repository.Store
	switch cfg.Store.Driver {
	case config.DriverMongoDB:
		mongoStore, err := mongodb.NewMongoDBStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
		}
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store = mongoStore
	case config.DriverPostgREST:
		store = postgrest.NewPostgRESTStore(cfg.PostgREST)
	case config.DriverMemory:
		baseLogger.Warn("using in-memory store, data will not survive a restart")
		store = memory.NewMemoryStore()
	}

	overviewCache, err := cache.New(context.Background(), cfg.Cache.RedisAddr, baseLogger.Named("cache"))
	if err != nil {
		baseLogger.Warn("overview cache disabled", zap.Error(err))
		overviewCache = nil
	}
	defer func() { _ = overviewCache.Close() }()

	var sink summarysvc.Sink
	if cfg.SheetsExportEnabled() {
		sheetSink, err := sheets.NewGoogleSheetSink(context.Background(), cfg.Sheets, baseLogger.Named("sink.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets export", zap.Error(err))
		}
		sink = sheetSink
		baseLogger.Info("spreadsheet summary export enabled")
	}

	workflowService := workflowsvc.NewService(store, overviewCache, cfg.Workflow.StrictTransitions, baseLogger.Named("svc.workflow"))
	workersService := workerssvc.NewService(store, baseLogger.Named("svc.workers"))
	dashboardService := dashboardsvc.NewService(store, overviewCache, baseLogger.Named("svc.dashboard"))
	summaryService := summarysvc.NewService(store, sink, baseLogger.Named("svc.summary"))

	workersHandler := handlers.NewWorkersHandler(workersService, baseLogger.Named("handlers.workers"))
	productionHandler := handlers.NewProductionHandler(workflowService, dashboardService, baseLogger.Named("handlers.production"))
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, baseLogger.Named("handlers.dashboard"))
	engine := router.New(workersHandler, productionHandler, dashboardHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Summary, summaryService, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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

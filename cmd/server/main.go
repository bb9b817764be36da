package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/eventdash/internal/config"
	"github.com/mamadbah2/eventdash/internal/etl"
	"github.com/mamadbah2/eventdash/internal/locale"
	"github.com/mamadbah2/eventdash/internal/repository/httpcsv"
	"github.com/mamadbah2/eventdash/internal/repository/mongodb"
	"github.com/mamadbah2/eventdash/internal/repository/sheets"
	"github.com/mamadbah2/eventdash/internal/scheduler"
	"github.com/mamadbah2/eventdash/internal/server/handlers"
	"github.com/mamadbah2/eventdash/internal/server/router"
	datasetsvc "github.com/mamadbah2/eventdash/internal/service/dataset"
	reportingsvc "github.com/mamadbah2/eventdash/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/eventdash/pkg/clients/whatsapp"
	"github.com/mamadbah2/eventdash/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.NewWithLevel(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	format := locale.Resolve(cfg.Pipeline.LocaleChain...)
	baseLogger.Info("locale resolved", zap.String("tag", format.Tag().String()))

	pipeOpts := etl.Options{
		LegacyVenue: cfg.Pipeline.LegacyVenue,
		DatePolicy:  etl.FutureOffset{Days: cfg.Pipeline.PlaceholderDays, Now: time.Now},
		Formatting:  &format,
	}
	if cfg.Pipeline.MenuVocabularyPath != "" {
		vocab, err := etl.LoadMenuVocabulary(cfg.Pipeline.MenuVocabularyPath)
		if err != nil {
			baseLogger.Fatal("failed to load menu vocabulary", zap.Error(err))
		}
		pipeOpts.Vocabulary = &vocab
	}
	pipeline, err := etl.NewPipeline(pipeOpts, baseLogger.Named("etl"))
	if err != nil {
		baseLogger.Fatal("failed to init pipeline", zap.Error(err))
	}

	sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets.CredentialsPath, baseLogger.Named("repo.sheets"))
	if err != nil {
		baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
	}

	current := sheets.Source{Repo: sheetsRepo, SpreadsheetID: cfg.Sheets.CurrentSpreadsheetID, Range: cfg.Sheets.CurrentRange}

	var legacy etl.TableSource
	switch {
	case !cfg.Sheets.HasLegacy():
		baseLogger.Warn("no legacy sheet configured, serving current sheet only")
	case cfg.Sheets.LegacySpreadsheetID != "":
		legacy = sheets.Source{Repo: sheetsRepo, SpreadsheetID: cfg.Sheets.LegacySpreadsheetID, Range: cfg.Sheets.LegacyRange}
	default:
		legacy = httpcsv.NewSource(cfg.Sheets.LegacyCSVURL, 30*time.Second, baseLogger.Named("repo.httpcsv"))
	}

	datasetSvc := datasetsvc.NewService(pipeline, datasetsvc.Options{
		Current: current,
		Legacy:  legacy,
		MinYear: cfg.Pipeline.MinYear,
		TTL:     cfg.Pipeline.CacheTTL,
	}, baseLogger.Named("svc.dataset"))

	reportingSvc := reportingsvc.NewService(datasetSvc, time.Now, baseLogger.Named("svc.reporting"))

	deps := scheduler.Deps{Refresher: datasetSvc, Summarizer: reportingSvc}
	var archive handlers.ArchiveReader

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		deps.Archive = mongoRepo
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, monthly summaries will not be archived")
	}

	if cfg.WhatsApp.Enabled() {
		deps.Notifier = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp notifier enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, monthly summaries will not be sent")
	}

	reportHandler := handlers.NewReportHandler(reportingSvc, datasetSvc, archive, baseLogger.Named("handlers.report"))
	engine := router.New(reportHandler, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, deps, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := datasetSvc.Refresh(warmCtx); err != nil {
			baseLogger.Error("initial dataset build failed", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-printer/api/handlers"
	"github.com/feichai0017/document-printer/api/routes"
	"github.com/feichai0017/document-printer/config"
	"github.com/feichai0017/document-printer/internal/agent"
	"github.com/feichai0017/document-printer/internal/printer"
	"github.com/feichai0017/document-printer/internal/service/document"
	"github.com/feichai0017/document-printer/internal/service/spool"
	"github.com/feichai0017/document-printer/internal/utils/validator"
	"github.com/feichai0017/document-printer/pkg/logger"
	"github.com/feichai0017/document-printer/pkg/queue"
	"github.com/feichai0017/document-printer/pkg/storage"
	"github.com/feichai0017/document-printer/pkg/worker"
)

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		panic(err)
	}

	// init logger
	log, err := logger.NewLogger(
		logger.WithConfig(cfg.Log),
		logger.WithInitialFields(map[string]interface{}{"service": "server"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.NewStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", logger.Error(err))
	}

	q := queue.NewAsynqQueue(cfg.Redis, cfg.Queue)
	defer q.Close()

	// The server process owns the printer: it prints through the embedded
	// worker and exposes status and shutdown over HTTP.
	printers := printer.NewProvider(cfg.Printer, log)
	defer printers.Close()

	docService := document.NewService(agent.NewParserFactory(log), log)
	spoolService := spool.NewService(
		printers,
		q,
		store,
		validator.NewDocumentValidator(log, cfg.Server.MaxUploadSize),
		log,
	)

	printWorker := worker.NewPrintWorker(&worker.Config{
		Redis:       queue.RedisClientOpt(cfg.Redis),
		Concurrency: cfg.Queue.Concurrency,
		Queues:      cfg.Queue.Queues,
	}, spoolService, log)
	if err := printWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start print worker", logger.Error(err))
	}
	defer printWorker.Stop()

	go spoolService.RunCleanup(ctx, cfg.Storage.CleanupInterval, cfg.Storage.Retention)

	h := handlers.NewHandlers(docService, spoolService, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h, log)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info("Server starting", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}

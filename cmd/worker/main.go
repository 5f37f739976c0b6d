package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/feichai0017/document-printer/config"
	"github.com/feichai0017/document-printer/internal/printer"
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

	// 初始化日志
	log, err := logger.NewLogger(
		logger.WithConfig(cfg.Log),
		logger.WithInitialFields(map[string]interface{}{"service": "worker"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.NewStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("Failed to initialize storage", logger.Error(err))
		os.Exit(1)
	}

	q := queue.NewAsynqQueue(cfg.Redis, cfg.Queue)
	defer q.Close()

	// 进程内唯一的打印机，由 worker 持有并注入
	printers := printer.NewProvider(cfg.Printer, log)

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
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	go spoolService.RunCleanup(ctx, cfg.Storage.CleanupInterval, cfg.Storage.Retention)

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	// 优雅关闭：先停止消费，再关闭打印机
	log.Info("Shutting down worker...")
	cancel()
	printWorker.Stop()
	printers.Close()
	log.Info("Worker stopped")
}

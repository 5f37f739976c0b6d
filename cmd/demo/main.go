package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/feichai0017/document-printer/config"
	"github.com/feichai0017/document-printer/internal/agent"
	"github.com/feichai0017/document-printer/internal/printer"
	"github.com/feichai0017/document-printer/pkg/logger"
)

var sampleDocuments = []string{"document.pdf", "report.docx", "data.xlsx", "presentation.odp"}

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(logger.WithConfig(cfg.Log))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runParserDemo(ctx, agent.NewParserFactory(log), log); err != nil {
		log.Error("Parser demo failed", logger.Error(err))
		os.Exit(1)
	}

	provider := printer.NewProvider(cfg.Printer, log)
	if err := runPrinterDemo(ctx, provider, log); err != nil {
		log.Error("Printer demo failed", logger.Error(err))
		os.Exit(1)
	}
}

// runParserDemo parses the sample names in order; an unsupported format ends
// the run after being reported.
func runParserDemo(ctx context.Context, factory *agent.ParserFactory, log logger.Logger) error {
	for _, name := range sampleDocuments {
		result, err := factory.Parse(ctx, name)
		if err != nil {
			if errors.Is(err, agent.ErrUnsupportedFormat) {
				log.Error("Error: "+err.Error(), logger.String("file", name))
				return nil
			}
			return err
		}
		log.Info(result.Content, logger.String("file", name))
	}
	return nil
}

func runPrinterDemo(ctx context.Context, provider *printer.Provider, log logger.Logger) error {
	pr := provider.Get()

	// 两个并发打印，打印机内部串行
	g, gctx := errgroup.WithContext(ctx)
	for _, doc := range []string{"Resume.pdf", "Contract.docx"} {
		doc := doc
		g.Go(func() error {
			return pr.Print(gctx, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	pr.Shutdown()

	if err := pr.Print(ctx, "LateDocument.txt"); err != nil && !errors.Is(err, printer.ErrOffline) {
		return err
	}
	log.Info("Demo finished", logger.String("printer", provider.State().String()))
	return nil
}

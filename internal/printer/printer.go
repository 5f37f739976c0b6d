package printer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/feichai0017/document-printer/internal/metrics"
	"github.com/feichai0017/document-printer/pkg/logger"
)

// ErrOffline is returned by Print once the printer has been shut down.
var ErrOffline = errors.New("printer offline")

// State 打印机状态
type State int

const (
	StateUninitialized State = iota
	StateOnline
	StateOffline
)

func (s State) String() string {
	switch s {
	case StateOnline:
		return "online"
	case StateOffline:
		return "offline"
	default:
		return "uninitialized"
	}
}

// Config 模拟硬件的耗时配置
type Config struct {
	InitDelay  time.Duration `yaml:"init_delay"`
	PrintDelay time.Duration `yaml:"print_delay"`
}

func DefaultConfig() Config {
	return Config{
		InitDelay:  time.Second,
		PrintDelay: 500 * time.Millisecond,
	}
}

// SleepFunc simulates hardware work. It returns early with ctx.Err() when ctx
// is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Printer is the shared hardware handle. Every read or write of its state and
// every simulated operation happens under mu.
type Printer struct {
	mu     sync.Mutex
	online bool
	cfg    Config
	sleep  SleepFunc
	logger logger.Logger
}

// Print 独占打印机执行一次打印；离线时直接返回 ErrOffline
func (p *Printer) Print(ctx context.Context, doc string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := logger.FromContext(ctx, p.logger)
	if !p.online {
		log.Error("Error: Printer offline", logger.String("document", doc))
		metrics.PrintJobsTotal.WithLabelValues(metrics.OutcomeOffline).Inc()
		return ErrOffline
	}

	start := time.Now()
	defer func() {
		metrics.PrintDuration.Observe(time.Since(start).Seconds())
	}()

	log.Info("Processing", logger.String("document", doc))
	if err := p.sleep(ctx, p.cfg.PrintDelay); err != nil {
		log.Warn("Print interrupted",
			logger.String("document", doc),
			logger.Error(err),
		)
		metrics.PrintJobsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return fmt.Errorf("print %s interrupted: %w", doc, err)
	}
	log.Info("Completed", logger.String("document", doc))
	metrics.PrintJobsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return nil
}

// Shutdown takes the printer offline for good.
func (p *Printer) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Info("Shutting down...")
	p.online = false
	metrics.PrinterOnline.Set(0)
}

func (p *Printer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.online {
		return StateOnline
	}
	return StateOffline
}

package printer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/feichai0017/document-printer/internal/metrics"
	"github.com/feichai0017/document-printer/pkg/logger"
)

// Provider owns the single Printer of an application. The printer is
// connected lazily on the first Get; concurrent first callers wait for that
// one initialization and share its result.
type Provider struct {
	once    sync.Once
	ready   atomic.Bool
	printer *Printer

	// mu orders Close against the end of connect
	mu     sync.Mutex
	closed bool

	cfg    Config
	sleep  SleepFunc
	logger logger.Logger
}

type Option func(*Provider)

// WithSleep replaces the simulated hardware delay.
func WithSleep(fn SleepFunc) Option {
	return func(p *Provider) {
		p.sleep = fn
	}
}

func NewProvider(cfg Config, log logger.Logger, opts ...Option) *Provider {
	p := &Provider{
		cfg:    cfg,
		sleep:  sleep,
		logger: log.Named("printer"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get 返回共享的打印机，首次调用时完成硬件初始化
func (p *Provider) Get() *Printer {
	p.once.Do(func() {
		pr := p.connect()

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed {
			pr.online = false
			metrics.PrinterOnline.Set(0)
			p.logger.Warn("Provider closed during initialization, printer stays offline")
		}
		p.printer = pr
		p.ready.Store(true)
	})
	return p.printer
}

func (p *Provider) connect() *Printer {
	p.logger.Info("Connecting to printer...")

	// 初始化不可取消，与硬件握手必须完成
	if err := p.sleep(context.Background(), p.cfg.InitDelay); err != nil {
		p.logger.Warn("Printer initialization delay cut short", logger.Error(err))
	}

	pr := &Printer{
		online: true,
		cfg:    p.cfg,
		sleep:  p.sleep,
		logger: p.logger,
	}
	metrics.PrinterOnline.Set(1)
	p.logger.Info("Ready")
	return pr
}

// State reports StateUninitialized until the first Get has completed.
func (p *Provider) State() State {
	if !p.ready.Load() {
		return StateUninitialized
	}
	return p.printer.State()
}

// Close shuts the printer down if it was ever connected. A Get that is still
// connecting when Close runs brings the printer up offline; Close never waits
// for the connection itself.
func (p *Provider) Close() {
	p.mu.Lock()
	p.closed = true
	ready := p.ready.Load()
	p.mu.Unlock()

	if ready {
		p.printer.Shutdown()
	}
}

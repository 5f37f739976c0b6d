package printer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-printer/internal/metrics"
	"github.com/feichai0017/document-printer/pkg/logger"
)

// recordingSleep tracks how many simulated operations run at once.
type recordingSleep struct {
	active    atomic.Int32
	maxActive atomic.Int32
	calls     atomic.Int32
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.calls.Add(1)
	n := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		cur := r.maxActive.Load()
		if n <= cur || r.maxActive.CompareAndSwap(cur, n) {
			break
		}
	}
	return sleep(ctx, d)
}

func testConfig() Config {
	return Config{InitDelay: 20 * time.Millisecond, PrintDelay: 10 * time.Millisecond}
}

func TestProviderInitializesOnce(t *testing.T) {
	tl := logger.NewTestLogger()
	p := NewProvider(testConfig(), tl)
	assert.Equal(t, StateUninitialized, p.State())

	const callers = 32
	got := make([]*Printer, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			got[i] = p.Get()
		}(i)
	}
	close(start)
	wg.Wait()

	for i := range got {
		require.NotNil(t, got[i])
		assert.Same(t, got[0], got[i])
	}
	assert.Equal(t, 1, tl.Count("Connecting to printer..."))
	assert.Equal(t, 1, tl.Count("Ready"))
	assert.Equal(t, StateOnline, p.State())
}

func TestPrintIsSerialized(t *testing.T) {
	rec := &recordingSleep{}
	p := NewProvider(testConfig(), logger.NewTestLogger(), WithSleep(rec.sleep))
	pr := p.Get()

	var wg sync.WaitGroup
	for _, doc := range []string{"Resume.pdf", "Contract.docx", "Invoice.xlsx", "Memo.doc"} {
		wg.Add(1)
		go func(doc string) {
			defer wg.Done()
			assert.NoError(t, pr.Print(context.Background(), doc))
		}(doc)
	}
	wg.Wait()

	assert.EqualValues(t, 1, rec.maxActive.Load())
	// one init delay plus four print delays
	assert.EqualValues(t, 5, rec.calls.Load())
}

func TestPrintLogsProcessingThenCompleted(t *testing.T) {
	tl := logger.NewTestLogger()
	pr := NewProvider(testConfig(), tl).Get()

	require.NoError(t, pr.Print(context.Background(), "Resume.pdf"))

	var msgs []string
	for _, e := range tl.GetEntries() {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"Connecting to printer...", "Ready", "Processing", "Completed"}, msgs)
}

func TestPrintAfterShutdown(t *testing.T) {
	tl := logger.NewTestLogger()
	rec := &recordingSleep{}
	p := NewProvider(testConfig(), tl, WithSleep(rec.sleep))
	pr := p.Get()

	pr.Shutdown()
	assert.Equal(t, StateOffline, pr.State())
	calls := rec.calls.Load()

	err := pr.Print(context.Background(), "LateDocument.txt")
	assert.ErrorIs(t, err, ErrOffline)
	assert.Equal(t, calls, rec.calls.Load(), "offline print must not simulate work")
	assert.Equal(t, 1, tl.Count("Shutting down..."))
	assert.Equal(t, 1, tl.Count("Error: Printer offline"))
	assert.Zero(t, tl.Count("Processing"))

	// Get after shutdown hands back the same offline printer.
	assert.Same(t, pr, p.Get())
	assert.Equal(t, StateOffline, p.State())
}

func TestPrintCancelledReleasesLock(t *testing.T) {
	pr := NewProvider(Config{PrintDelay: time.Hour}, logger.NewTestLogger()).Get()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := pr.Print(ctx, "Stuck.pdf")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrOffline)

	done := make(chan struct{})
	go func() {
		pr.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock still held after cancelled print")
	}
}

func TestProviderCloseBeforeGet(t *testing.T) {
	tl := logger.NewTestLogger()
	p := NewProvider(testConfig(), tl)
	p.Close()
	assert.Zero(t, tl.Count("Connecting to printer..."))
	assert.Zero(t, tl.Count("Shutting down..."))
	assert.Equal(t, StateUninitialized, p.State())
}

func TestProviderCloseDuringInit(t *testing.T) {
	tl := logger.NewTestLogger()
	entered := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once
	blockingSleep := func(ctx context.Context, d time.Duration) error {
		first.Do(func() {
			close(entered)
			<-release
		})
		return nil
	}
	p := NewProvider(testConfig(), tl, WithSleep(blockingSleep))

	got := make(chan *Printer)
	go func() { got <- p.Get() }()

	<-entered
	p.Close()
	close(release)

	pr := <-got
	assert.Equal(t, StateOffline, pr.State())
	assert.Equal(t, StateOffline, p.State())
	assert.ErrorIs(t, pr.Print(context.Background(), "Late.pdf"), ErrOffline)
}

func printDurationSamples(t *testing.T) uint64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, metrics.PrintDuration.Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestPrintDurationCountsOnlyPrints(t *testing.T) {
	pr := NewProvider(testConfig(), logger.NewTestLogger()).Get()

	before := printDurationSamples(t)
	require.NoError(t, pr.Print(context.Background(), "Resume.pdf"))
	assert.Equal(t, before+1, printDurationSamples(t))

	pr.Shutdown()
	require.ErrorIs(t, pr.Print(context.Background(), "LateDocument.txt"), ErrOffline)
	assert.Equal(t, before+1, printDurationSamples(t), "offline short-circuit is not timed")
}

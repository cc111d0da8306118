// Package poller drives the long-polling transport: it pulls updates from the
// Bot API in a loop and feeds them to the dialogue controller.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"catan-results-bot/internal/dialog"
	"catan-results-bot/internal/logging"
	"catan-results-bot/internal/metrics"
	"catan-results-bot/internal/telegram"
)

const (
	defaultPollTimeout = 30 * time.Second

	// Pause before retrying after a failed poll so a dead API or bad token
	// does not spin the loop.
	errorBackoff = 3 * time.Second
)

// UpdateSource long-polls Telegram for updates past an offset.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
}

// Dispatcher consumes dialogue events produced from updates.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev dialog.Event)
}

// Poller long-polls for updates until stopped, acknowledging each batch by
// advancing the offset past the highest update ID seen.
type Poller struct {
	source     UpdateSource
	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Recorder
	timeout    time.Duration
	backoff    time.Duration

	offset int64

	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the polling loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the poller has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(source UpdateSource, dispatcher Dispatcher, logger *slog.Logger, recorder *metrics.Recorder, timeout time.Duration) *Poller {
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	return &Poller{
		source:     source,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    recorder,
		timeout:    timeout,
		backoff:    errorBackoff,
		done:       make(chan struct{}),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	go func() {
		logging.Info(p.logger, "poller started",
			slog.Int64(logging.FieldDurationMS, p.timeout.Milliseconds()))
		for {
			select {
			case <-ctx.Done():
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				logging.Info(p.logger, "poller stopped")
				return
			default:
			}

			if err := p.pollOnce(ctx); err != nil {
				select {
				case <-ctx.Done():
				case <-p.done:
				case <-time.After(p.backoff):
				}
			}
		}
	}()
}

// Stop halts the polling loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
	})
	return nil
}

func (p *Poller) pollOnce(ctx context.Context) error {
	start := time.Now()
	p.recordAttempt(start)

	updates, err := p.source.GetUpdates(ctx, p.offset, p.timeout)
	p.metrics.RecordPollerCycle(time.Since(start), err)
	if err != nil {
		if ctx.Err() == nil {
			logging.Error(p.logger, "poll failed", err,
				slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		}
		p.recordFailure(err, start)
		return err
	}

	for _, update := range updates {
		if update.UpdateID >= p.offset {
			p.offset = update.UpdateID + 1
		}
		ev, ok := telegram.EventFromUpdate(update)
		if !ok {
			continue
		}
		p.dispatcher.Dispatch(ctx, ev)
	}

	p.recordSuccess(start)
	if len(updates) > 0 {
		logging.Info(p.logger, "updates processed",
			slog.Int(logging.FieldCount, len(updates)),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		)
	}
	return nil
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

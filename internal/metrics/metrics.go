package metrics

import (
	"sync"
	"time"
)

type storeStats struct {
	calls       int
	errors      int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics and mirrors them to otel
// instruments when telemetry is enabled. It is nil-safe so callers never need
// to guard.
type Recorder struct {
	mu       sync.Mutex
	stores   map[string]*storeStats
	apiCalls map[string]int
	apiErrs  map[string]int
	sessions map[string]int
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stores:   make(map[string]*storeStats),
		apiCalls: make(map[string]int),
		apiErrs:  make(map[string]int),
		sessions: make(map[string]int),
		otel:     otel,
	}
}

// RecordStoreCall tracks one persistence operation against a backend.
func (r *Recorder) RecordStoreCall(backend, op string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.stores[backend]
	if !ok {
		stats = &storeStats{}
		r.stores[backend] = stats
	}
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreCall(backend, op, duration, err)
	}
}

// RecordTelegramCall tracks one Bot API method invocation.
func (r *Recorder) RecordTelegramCall(method string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.apiCalls[method]++
	if err != nil {
		r.apiErrs[method]++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordTelegramCall(method, duration, err)
	}
}

// RecordSession tracks a session lifecycle event (started, finalized, ...).
func (r *Recorder) RecordSession(event string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.sessions[event]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSession(event)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics for the webhook server.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks update-poll cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// StoreCalls returns the total operations recorded for a backend.
func (r *Recorder) StoreCalls(backend string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.stores[backend]; ok {
		return stats.calls
	}
	return 0
}

// StoreErrors returns the failed operations recorded for a backend.
func (r *Recorder) StoreErrors(backend string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.stores[backend]; ok {
		return stats.errors
	}
	return 0
}

// TelegramCalls returns the total invocations recorded for a Bot API method.
func (r *Recorder) TelegramCalls(method string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apiCalls[method]
}

// SessionEvents returns how many times a session lifecycle event occurred.
func (r *Recorder) SessionEvents(event string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[event]
}

package mirror

import (
	"context"
	"log"
	"sync"
	"time"

	"tillpos/internal/till"
)

// DefaultDebounce is the quiescence window that coalesces rapid local changes
// into one remote write.
const DefaultDebounce = 1600 * time.Millisecond

// Status is the queryable sync state. Failures surface here and in the log,
// never as rolled-back local mutations.
type Status struct {
	AutosyncEnabled bool       `json:"autosyncEnabled"`
	RealtimeEnabled bool       `json:"realtimeEnabled"`
	InFlight        bool       `json:"inFlight"`
	LastPushAt      *time.Time `json:"lastPushAt"`
	LastPullAt      *time.Time `json:"lastPullAt"`
	LastError       string     `json:"lastError"`
}

// Engine is the background reconciler: a debounced full-state pusher plus
// best-effort per-order mirroring and the optional realtime order stream.
// It implements till.Mirror.
type Engine struct {
	store    Store
	debounce time.Duration

	mu       sync.Mutex
	pending  *till.State
	timer    *time.Timer
	status   Status
	attach   func(orderNo int, remoteID string)
	replace  func(orders []till.Order)
	rtCancel context.CancelFunc
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDebounce overrides the coalescing window, for tests.
func WithDebounce(d time.Duration) EngineOption {
	return func(e *Engine) { e.debounce = d }
}

// NewEngine starts with autosync enabled and realtime off.
func NewEngine(store Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    store,
		debounce: DefaultDebounce,
	}
	e.status.AutosyncEnabled = true
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bind wires the callbacks into the till: remote-id attachment after an order
// write lands, and the order-list replacement used by the realtime stream.
func (e *Engine) Bind(attach func(orderNo int, remoteID string), replace func(orders []till.Order)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attach = attach
	e.replace = replace
}

// Status returns a copy of the current sync state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// SetAutosync toggles the debounced pusher. Disabling drops any pending push.
func (e *Engine) SetAutosync(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.AutosyncEnabled = enabled
	if !enabled {
		e.pending = nil
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
	}
}

func (e *Engine) recordError(err error) {
	e.mu.Lock()
	e.status.LastError = err.Error()
	e.mu.Unlock()
	log.Printf("mirror: %v", err)
}

// StateChanged implements till.Mirror: keep only the latest snapshot and
// restart the quiet-window timer. One write per burst of changes.
func (e *Engine) StateChanged(s till.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.status.AutosyncEnabled {
		return
	}
	e.pending = &s
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, e.flush)
}

func (e *Engine) flush() {
	e.mu.Lock()
	state := e.pending
	e.pending = nil
	e.timer = nil
	if state == nil {
		e.mu.Unlock()
		return
	}
	e.status.InFlight = true
	e.mu.Unlock()

	err := e.store.MergeState(context.Background(), *state)

	e.mu.Lock()
	e.status.InFlight = false
	if err != nil {
		e.status.LastError = err.Error()
	} else {
		now := time.Now()
		e.status.LastPushAt = &now
		e.status.LastError = ""
	}
	e.mu.Unlock()
	if err != nil {
		log.Printf("mirror: state push failed: %v", err)
	}
}

// PushNow writes the given state immediately, bypassing the debounce.
func (e *Engine) PushNow(ctx context.Context, s till.State) error {
	err := e.store.MergeState(ctx, s)
	e.mu.Lock()
	if err != nil {
		e.status.LastError = err.Error()
	} else {
		now := time.Now()
		e.status.LastPushAt = &now
		e.status.LastError = ""
	}
	e.mu.Unlock()
	return err
}

// Pull point-reads the remote full-state document for a manual restore.
func (e *Engine) Pull(ctx context.Context) (till.State, bool, error) {
	s, ok, err := e.store.LoadState(ctx)
	e.mu.Lock()
	if err != nil {
		e.status.LastError = err.Error()
	} else {
		now := time.Now()
		e.status.LastPullAt = &now
		e.status.LastError = ""
	}
	e.mu.Unlock()
	return s, ok, err
}

// OrderCommitted implements till.Mirror: fire-and-forget create, attaching
// the generated remote id to the local order on success.
func (e *Engine) OrderCommitted(o till.Order) {
	go func() {
		id, err := e.store.CreateOrder(context.Background(), o)
		if err != nil {
			e.recordError(err)
			return
		}
		e.mu.Lock()
		attach := e.attach
		e.status.LastError = ""
		e.mu.Unlock()
		if attach != nil {
			attach(o.OrderNo, id)
		}
	}()
}

// OrderSettled implements till.Mirror: mirror a done/void transition. When
// the local order never learned its remote id, fall back to a lookup by
// order number before giving up on this mutation's mirror.
func (e *Engine) OrderSettled(o till.Order) {
	go func() {
		ctx := context.Background()
		id := o.RemoteID
		if id == "" {
			found, err := e.store.FindOrderByNo(ctx, o.OrderNo)
			if err != nil {
				e.recordError(err)
				return
			}
			id = found
			e.mu.Lock()
			attach := e.attach
			e.mu.Unlock()
			if attach != nil {
				attach(o.OrderNo, id)
			}
		}
		if err := e.store.UpdateOrder(ctx, id, o); err != nil {
			e.recordError(err)
		}
	}()
}

// SetRealtime toggles the live order stream. While enabled, every remote
// change replaces the entire local order list; local-only orders not yet
// mirrored are overwritten.
func (e *Engine) SetRealtime(enabled bool) error {
	e.mu.Lock()
	if enabled == e.status.RealtimeEnabled {
		e.mu.Unlock()
		return nil
	}
	if !enabled {
		if e.rtCancel != nil {
			e.rtCancel()
			e.rtCancel = nil
		}
		e.status.RealtimeEnabled = false
		e.mu.Unlock()
		return nil
	}
	replace := e.replace
	e.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := e.store.SubscribeOrders(ctx)
	if err != nil {
		cancel()
		e.recordError(err)
		return err
	}

	e.mu.Lock()
	e.rtCancel = cancel
	e.status.RealtimeEnabled = true
	e.mu.Unlock()

	go func() {
		for orders := range ch {
			if replace != nil {
				replace(orders)
			}
		}
	}()
	return nil
}

// Close stops the realtime stream and drops any pending push.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rtCancel != nil {
		e.rtCancel()
		e.rtCancel = nil
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = nil
}

package till

import (
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Settings are the editable option lists and defaults.
type Settings struct {
	Workers            []string        `json:"workers"`
	PaymentMethods     []string        `json:"paymentMethods"`
	OrderTypes         []string        `json:"orderTypes"`
	DefaultDeliveryFee decimal.Decimal `json:"defaultDeliveryFee"`
}

// DeliveryOrderType is the order type that carries a delivery fee.
const DeliveryOrderType = "Delivery"

// DefaultSettings seeds a fresh till.
func DefaultSettings() Settings {
	return Settings{
		Workers:            []string{},
		PaymentMethods:     []string{"Cash", "Card", "Instapay"},
		OrderTypes:         []string{"Take-Away", "Dine-in", DeliveryOrderType},
		DefaultDeliveryFee: decimal.NewFromInt(20),
	}
}

// Mirror receives local commits for best-effort remote mirroring. Calls must
// not block and their failures never roll back local state.
type Mirror interface {
	// OrderCommitted mirrors a fresh order to the remote collection.
	OrderCommitted(o Order)
	// OrderSettled mirrors a done/void transition.
	OrderSettled(o Order)
	// StateChanged feeds the debounced full-state push.
	StateChanged(s State)
}

// Reporter turns a day summary into a persisted document. Failures are
// surfaced to the caller, never swallowed.
type Reporter interface {
	Generate(s DaySummary) error
}

// Till is the single-device transaction engine: one mutex, one logical writer.
// All mutations run to completion before the next user action; only the
// mirror and report calls leave the process.
type Till struct {
	mu sync.Mutex

	Catalog   Catalog
	Inventory Inventory
	Cart      Cart
	Ledger    OrderLedger
	Day       DayMeta
	Bank      Bank
	Expenses  Expenses
	Pins      AdminPins
	Settings  Settings

	mirror   Mirror
	reporter Reporter
	now      func() time.Time
}

// Option configures a Till.
type Option func(*Till)

// WithMirror attaches the sync engine.
func WithMirror(m Mirror) Option {
	return func(t *Till) { t.mirror = m }
}

// WithReporter attaches the end-of-day report generator.
func WithReporter(r Reporter) Option {
	return func(t *Till) { t.reporter = r }
}

// WithClock overrides wall time, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Till) { t.now = now }
}

// New builds a till with default pins and settings.
func New(opts ...Option) *Till {
	t := &Till{
		Ledger:   NewOrderLedger(),
		Pins:     DefaultAdminPins(),
		Settings: DefaultSettings(),
		now:      time.Now,
	}
	t.Day.Clear()
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do runs fn under the till lock and feeds the resulting state to the mirror.
// Every external mutation goes through here.
func (t *Till) Do(fn func(*Till) error) error {
	t.mu.Lock()
	err := fn(t)
	var state State
	if t.mirror != nil {
		state = t.packStateLocked()
	}
	t.mu.Unlock()
	if t.mirror != nil {
		t.mirror.StateChanged(state)
	}
	return err
}

// View runs fn under the till lock without notifying the mirror.
func (t *Till) View(fn func(*Till)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t)
}

// CheckoutParams carries the operator selections for one commit.
type CheckoutParams struct {
	Worker      string
	Payment     string
	OrderType   string
	DeliveryFee decimal.Decimal
	Note        string
}

// Checkout validates every precondition before touching any ledger, reserves
// stock atomically, commits the order and clears the cart. The mirror call is
// fire-and-forget; its failure does not roll back the local commit.
func (t *Till) Checkout(p CheckoutParams) (Order, error) {
	t.mu.Lock()
	order, state, err := t.checkoutLocked(p)
	t.mu.Unlock()
	if err != nil {
		return Order{}, err
	}
	if t.mirror != nil {
		t.mirror.OrderCommitted(order)
		t.mirror.StateChanged(state)
	}
	return order, nil
}

func (t *Till) checkoutLocked(p CheckoutParams) (Order, State, error) {
	if !t.Day.Active() {
		return Order{}, State{}, errNoActiveShift()
	}
	if len(t.Cart.Lines) == 0 {
		return Order{}, State{}, errIncompleteOrder("a non-empty cart")
	}
	if strings.TrimSpace(p.Worker) == "" {
		return Order{}, State{}, errIncompleteOrder("worker")
	}
	if strings.TrimSpace(p.Payment) == "" {
		return Order{}, State{}, errIncompleteOrder("payment method")
	}
	if strings.TrimSpace(p.OrderType) == "" {
		return Order{}, State{}, errIncompleteOrder("order type")
	}

	if err := t.Inventory.Reserve(t.Cart.RequiredStock()); err != nil {
		return Order{}, State{}, err
	}

	itemsTotal := t.Cart.ItemsTotal()
	fee := decimal.Zero
	if p.OrderType == DeliveryOrderType && p.DeliveryFee.IsPositive() {
		fee = p.DeliveryFee
	}

	order := Order{
		OrderNo:     t.Ledger.NextNo,
		Date:        t.now(),
		Worker:      normName(p.Worker),
		Payment:     p.Payment,
		OrderType:   p.OrderType,
		DeliveryFee: fee,
		ItemsTotal:  itemsTotal,
		Total:       itemsTotal.Add(fee),
		Cart:        t.Cart.Lines,
		Note:        strings.TrimSpace(p.Note),
		State:       OrderOpen,
	}
	t.Ledger.Append(order)
	t.Cart.Clear()
	return order, t.packStateLocked(), nil
}

// MarkDone fulfils an open order and mirrors the transition.
func (t *Till) MarkDone(orderNo int) error {
	t.mu.Lock()
	err := t.Ledger.MarkDone(orderNo)
	var settled Order
	var state State
	if err == nil {
		settled, _ = t.Ledger.Get(orderNo)
		state = t.packStateLocked()
	}
	t.mu.Unlock()
	if err != nil {
		return err
	}
	if t.mirror != nil {
		t.mirror.OrderSettled(settled)
		t.mirror.StateChanged(state)
	}
	return nil
}

// VoidAndRestock cancels an open order, gives its own stored recipe
// aggregation back to the inventory and mirrors the transition.
func (t *Till) VoidAndRestock(orderNo int) error {
	t.mu.Lock()
	voided, err := t.Ledger.Void(orderNo, t.now())
	var settled Order
	var state State
	if err == nil {
		t.Inventory.Release(voided.RequiredStock())
		settled = *voided
		state = t.packStateLocked()
	}
	t.mu.Unlock()
	if err != nil {
		return err
	}
	if t.mirror != nil {
		t.mirror.OrderSettled(settled)
		t.mirror.StateChanged(state)
	}
	return nil
}

// StartShiftResult reports whether a start-of-day inventory lock is on offer.
type StartShiftResult struct {
	OfferInventoryLock bool `json:"offerInventoryLock"`
}

// StartShift begins the day. The inventory lock is offered, not forced.
func (t *Till) StartShift(worker string) (StartShiftResult, error) {
	var res StartShiftResult
	err := t.Do(func(t *Till) error {
		if err := t.Day.Start(worker, t.now()); err != nil {
			return err
		}
		res.OfferInventoryLock = !t.Inventory.Locked && len(t.Inventory.Items) > 0
		return nil
	})
	return res, err
}

// ChangeShift hands the active shift to a new worker.
func (t *Till) ChangeShift(confirmCurrent, next string) error {
	return t.Do(func(t *Till) error {
		return t.Day.Handover(confirmCurrent, next, t.now())
	})
}

// EndDay settles the day: the report is generated from a view of the day
// being closed, the margin is posted to the bank, and only then are the
// ledgers reset. A report failure is returned but does not gate the reset;
// losing a PDF is recoverable, losing the reset is not.
func (t *Till) EndDay(endedBy string) (DaySummary, error) {
	t.mu.Lock()
	summary, reportErr, err := t.endDayLocked(endedBy)
	var state State
	if err == nil && t.mirror != nil {
		state = t.packStateLocked()
	}
	t.mu.Unlock()
	if err != nil {
		return DaySummary{}, err
	}
	if t.mirror != nil {
		t.mirror.StateChanged(state)
	}
	return summary, reportErr
}

func (t *Till) endDayLocked(endedBy string) (DaySummary, error, error) {
	if t.Day.StartedAt == nil {
		return DaySummary{}, nil, errNoActiveShift()
	}
	name := normName(endedBy)
	if name == "" {
		return DaySummary{}, nil, errIncompleteOrder("name")
	}

	now := t.now()
	view := t.Day.ReportView(name, now)
	summary := t.buildSummaryLocked(view)

	var reportErr error
	if t.reporter != nil {
		if err := t.reporter.Generate(summary); err != nil {
			reportErr = &TillError{Code: ErrCodeReportFailure, Message: err.Error()}
		} else {
			t.Day.LastReportAt = &now
		}
	}

	margin := summary.Totals.Margin
	switch {
	case margin.IsPositive():
		_ = t.Bank.Post(BankInit, margin, name, "Auto init from day margin", now)
	case margin.IsNegative():
		_ = t.Bank.Post(BankAdjustDown, margin.Abs(), name, "Auto adjust down (negative margin)", now)
	}

	t.Ledger.Reset()
	t.Inventory.Unlock()
	t.Inventory.LockedAt = nil
	t.Day.Clear()
	return summary, reportErr, nil
}

// UnlockInventory clears the day lock after a gate challenge for that admin.
func (t *Till) UnlockInventory(gate Gate, adminNo int, pin string) error {
	return t.Do(func(t *Till) error {
		if !t.Inventory.Locked {
			return errValidation("inventory is already unlocked")
		}
		if _, err := gate.Challenge("inventory-unlock", adminNo, pin); err != nil {
			return err
		}
		t.Inventory.Unlock()
		return nil
	})
}

// AddCartLine resolves catalog ids and appends a priced line to the cart.
func (t *Till) AddCartLine(itemID int, extraIDs []int) error {
	return t.Do(func(t *Till) error {
		item, ok := t.Catalog.MenuItem(itemID)
		if !ok {
			return errNotFound("menu item")
		}
		extras := make([]Item, 0, len(extraIDs))
		for _, id := range extraIDs {
			ex, ok := t.Catalog.Extra(id)
			if !ok {
				return errNotFound("extra")
			}
			extras = append(extras, ex)
		}
		t.Cart.AddLine(item, extras)
		return nil
	})
}

// Totals rolls up the day so far.
func (t *Till) Totals() Totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Ledger.ComputeTotals(t.Settings.PaymentMethods, t.Settings.OrderTypes, t.Expenses.Total())
}

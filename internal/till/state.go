package till

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the full-state document: every named value that the local snapshot
// persists and the remote mirror merges. Dates serialize as RFC 3339 strings.
type State struct {
	Version            int             `json:"version"`
	Menu               []Item          `json:"menu"`
	Extras             []Item          `json:"extras"`
	Orders             []Order         `json:"orders"`
	NextOrderNo        int             `json:"nextOrderNo"`
	Inventory          []InvItem       `json:"inventory"`
	InventoryLocked    bool            `json:"inventoryLocked"`
	InventorySnapshot  []SnapshotRow   `json:"inventorySnapshot"`
	InventoryLockedAt  *time.Time      `json:"inventoryLockedAt"`
	Workers            []string        `json:"workers"`
	PaymentMethods     []string        `json:"paymentMethods"`
	OrderTypes         []string        `json:"orderTypes"`
	DefaultDeliveryFee decimal.Decimal `json:"defaultDeliveryFee"`
	AdminPins          map[int]string  `json:"adminPins"`
	Expenses           []Expense       `json:"expenses"`
	DayMeta            DayMeta         `json:"dayMeta"`
	BankTx             []BankTx        `json:"bankTx"`
}

func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func (t *Till) packStateLocked() State {
	pins := make(map[int]string, len(t.Pins.Pins))
	for k, v := range t.Pins.Pins {
		pins[k] = v
	}
	day := t.Day
	day.ShiftChanges = copySlice(t.Day.ShiftChanges)
	return State{
		Version:            1,
		Menu:               copySlice(t.Catalog.Menu),
		Extras:             copySlice(t.Catalog.Extras),
		Orders:             copySlice(t.Ledger.Orders),
		NextOrderNo:        t.Ledger.NextNo,
		Inventory:          copySlice(t.Inventory.Items),
		InventoryLocked:    t.Inventory.Locked,
		InventorySnapshot:  copySlice(t.Inventory.Snapshot),
		InventoryLockedAt:  t.Inventory.LockedAt,
		Workers:            copySlice(t.Settings.Workers),
		PaymentMethods:     copySlice(t.Settings.PaymentMethods),
		OrderTypes:         copySlice(t.Settings.OrderTypes),
		DefaultDeliveryFee: t.Settings.DefaultDeliveryFee,
		AdminPins:          pins,
		Expenses:           copySlice(t.Expenses.List),
		DayMeta:            day,
		BankTx:             copySlice(t.Bank.Transactions),
	}
}

// PackState snapshots the full state under the lock.
func (t *Till) PackState() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.packStateLocked()
}

// RestoreState loads a persisted or pulled state into the till wholesale.
// The load is tolerant field by field: zero-value sections leave the
// defaults in place, so a partial document never wipes a working till.
func (t *Till) RestoreState(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.Menu != nil {
		t.Catalog.Menu = s.Menu
	}
	if s.Extras != nil {
		t.Catalog.Extras = s.Extras
	}
	if s.Orders != nil {
		t.Ledger.Orders = s.Orders
	}
	if s.NextOrderNo > 0 {
		t.Ledger.NextNo = s.NextOrderNo
	}
	if s.Inventory != nil {
		t.Inventory.Items = s.Inventory
	}
	t.Inventory.Locked = s.InventoryLocked
	if s.InventorySnapshot != nil {
		t.Inventory.Snapshot = s.InventorySnapshot
	}
	if s.InventoryLockedAt != nil {
		t.Inventory.LockedAt = s.InventoryLockedAt
	}
	if s.Workers != nil {
		t.Settings.Workers = s.Workers
	}
	if s.PaymentMethods != nil {
		t.Settings.PaymentMethods = s.PaymentMethods
	}
	if s.OrderTypes != nil {
		t.Settings.OrderTypes = s.OrderTypes
	}
	if s.DefaultDeliveryFee.IsPositive() {
		t.Settings.DefaultDeliveryFee = s.DefaultDeliveryFee
	}
	if s.AdminPins != nil {
		merged := DefaultAdminPins().Pins
		for k, v := range s.AdminPins {
			merged[k] = v
		}
		t.Pins.Pins = merged
	}
	if s.Expenses != nil {
		t.Expenses.List = s.Expenses
	}
	if s.DayMeta.StartedAt != nil || s.DayMeta.StartedBy != "" || len(s.DayMeta.ShiftChanges) > 0 {
		t.Day = s.DayMeta
	}
	if s.BankTx != nil {
		t.Bank.Transactions = s.BankTx
	}
}

// ReplaceOrders swaps the whole order list from the realtime stream. This is
// a destructive overwrite: local orders not yet mirrored are discarded.
func (t *Till) ReplaceOrders(orders []Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Ledger.Replace(orders)
}

// AttachRemoteID records the mirror document id for an order.
func (t *Till) AttachRemoteID(orderNo int, remoteID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Ledger.SetRemoteID(orderNo, remoteID)
}

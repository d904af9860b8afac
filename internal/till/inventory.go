package till

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvItem is one stocked ingredient. Qty may be fractional but never negative.
type InvItem struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Unit string          `json:"unit"`
	Qty  decimal.Decimal `json:"qty"`
}

// SnapshotRow is one line of the start-of-day snapshot, frozen at lock time.
type SnapshotRow struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	QtyAtLock decimal.Decimal `json:"qtyAtLock"`
}

// Inventory is the stock ledger plus the day lock and its snapshot. The
// snapshot, once captured, is never mutated; it is only replaced by the next
// Lock call.
type Inventory struct {
	Items    []InvItem     `json:"items"`
	Locked   bool          `json:"locked"`
	Snapshot []SnapshotRow `json:"snapshot"`
	LockedAt *time.Time    `json:"lockedAt"`
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(s, "-")
}

// Item returns a copy of the inventory item with the given id.
func (inv *Inventory) Item(id string) (InvItem, bool) {
	for _, it := range inv.Items {
		if it.ID == id {
			return it, true
		}
	}
	return InvItem{}, false
}

// AddItem registers a new ingredient with a stable slug id derived from its
// name. Blocked while the ledger is locked.
func (inv *Inventory) AddItem(name, unit string, qty decimal.Decimal) (string, error) {
	if inv.Locked {
		return "", errInventoryLocked("unlock inventory before adding items")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errValidation("inventory item name must not be empty")
	}
	id := slugify(name)
	if id == "" {
		return "", errValidation("inventory item name must contain letters or digits")
	}
	if _, exists := inv.Item(id); exists {
		return "", errValidation("inventory item already exists: " + id)
	}
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	inv.Items = append(inv.Items, InvItem{ID: id, Name: name, Unit: unit, Qty: qty})
	return id, nil
}

// DeleteItem removes an ingredient. Blocked while the ledger is locked.
func (inv *Inventory) DeleteItem(id string) error {
	if inv.Locked {
		return errInventoryLocked("unlock inventory before deleting items")
	}
	for i := range inv.Items {
		if inv.Items[i].ID == id {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return nil
		}
	}
	return errNotFound("inventory item")
}

// SetQty overwrites the stock level of one item, clamped at zero. A locked
// ledger makes this a silent no-op: the day's counts are frozen.
func (inv *Inventory) SetQty(id string, qty decimal.Decimal) {
	if inv.Locked {
		return
	}
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	for i := range inv.Items {
		if inv.Items[i].ID == id {
			inv.Items[i].Qty = qty
			return
		}
	}
}

// Lock captures the start-of-day snapshot and freezes structural edits.
// Requires at least one item and an explicit confirmation from the caller.
// Already-locked ledgers are left untouched.
func (inv *Inventory) Lock(confirm bool, at time.Time) error {
	if inv.Locked {
		return nil
	}
	if len(inv.Items) == 0 {
		return errValidation("add at least one inventory item before locking")
	}
	if !confirm {
		return errValidation("locking inventory requires confirmation")
	}
	snap := make([]SnapshotRow, len(inv.Items))
	for i, it := range inv.Items {
		snap[i] = SnapshotRow{ID: it.ID, Name: it.Name, Unit: it.Unit, QtyAtLock: it.Qty}
	}
	inv.Snapshot = snap
	inv.Locked = true
	inv.LockedAt = &at
	return nil
}

// Unlock clears the lock flag. The snapshot is kept for reporting; it is
// superseded at the next Lock. Authorization is the caller's concern.
func (inv *Inventory) Unlock() {
	inv.Locked = false
}

// Reserve atomically checks and deducts the required quantities. If any item
// is short the whole reservation fails with the first shortfall and no
// deduction happens. Ids not present in the ledger are skipped; recipe edits
// validate ids so those cannot normally occur.
func (inv *Inventory) Reserve(required map[string]decimal.Decimal) error {
	for i := range inv.Items {
		need, ok := required[inv.Items[i].ID]
		if !ok || !need.IsPositive() {
			continue
		}
		if inv.Items[i].Qty.LessThan(need) {
			return errInsufficientStock(inv.Items[i].ID, inv.Items[i].Name, need, inv.Items[i].Qty)
		}
	}
	for i := range inv.Items {
		need, ok := required[inv.Items[i].ID]
		if !ok || !need.IsPositive() {
			continue
		}
		inv.Items[i].Qty = inv.Items[i].Qty.Sub(need)
	}
	return nil
}

// Release adds quantities back, used by void/restock. Amounts released equal
// amounts previously reserved for the same order, so this never fails.
func (inv *Inventory) Release(giveBack map[string]decimal.Decimal) {
	for i := range inv.Items {
		back, ok := giveBack[inv.Items[i].ID]
		if !ok || !back.IsPositive() {
			continue
		}
		inv.Items[i].Qty = inv.Items[i].Qty.Add(back)
	}
}

// UsageRow is one line of the start-vs-now report table.
type UsageRow struct {
	Name  string          `json:"name"`
	Unit  string          `json:"unit"`
	Start decimal.Decimal `json:"start"`
	Now   decimal.Decimal `json:"now"`
	Used  decimal.Decimal `json:"used"`
}

// UsageRows compares the snapshot against current stock. Empty without a
// snapshot. Used never reports negative (restocks mid-day read as zero use).
func (inv *Inventory) UsageRows() []UsageRow {
	if len(inv.Snapshot) == 0 {
		return nil
	}
	snapByID := make(map[string]SnapshotRow, len(inv.Snapshot))
	for _, s := range inv.Snapshot {
		snapByID[s.ID] = s
	}
	rows := make([]UsageRow, 0, len(inv.Items))
	for _, it := range inv.Items {
		start := decimal.Zero
		if s, ok := snapByID[it.ID]; ok {
			start = s.QtyAtLock
		}
		used := start.Sub(it.Qty)
		if used.IsNegative() {
			used = decimal.Zero
		}
		rows = append(rows, UsageRow{Name: it.Name, Unit: it.Unit, Start: start, Now: it.Qty, Used: used})
	}
	return rows
}

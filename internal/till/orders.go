package till

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderState is the three-state order lifecycle. DONE and VOIDED are terminal
// and mutually exclusive.
type OrderState string

const (
	OrderOpen   OrderState = "OPEN"
	OrderDone   OrderState = "DONE"
	OrderVoided OrderState = "VOIDED"
)

// Order is one committed sale. Cart lines are value snapshots: catalog edits
// after checkout never change what an order consumed or cost.
type Order struct {
	OrderNo     int             `json:"orderNo"`
	Date        time.Time       `json:"date"`
	Worker      string          `json:"worker"`
	Payment     string          `json:"payment"`
	OrderType   string          `json:"orderType"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	ItemsTotal  decimal.Decimal `json:"itemsTotal"`
	Total       decimal.Decimal `json:"total"`
	Cart        []CartLine      `json:"cart"`
	Note        string          `json:"note"`
	State       OrderState      `json:"state"`
	RestockedAt *time.Time      `json:"restockedAt,omitempty"`
	RemoteID    string          `json:"remoteId,omitempty"`
}

// RequiredStock recomputes the order's own aggregated recipe from its stored
// cart snapshot, not from the live catalog. This is what restock gives back.
func (o *Order) RequiredStock() map[string]decimal.Decimal {
	required := map[string]decimal.Decimal{}
	for _, line := range o.Cart {
		for k, v := range line.Uses {
			required[k] = required[k].Add(v)
		}
	}
	return required
}

// OrderLedger holds the day's committed orders, most-recent-first, and the
// next order number. The counter resets to 1 only at day end.
type OrderLedger struct {
	Orders []Order `json:"orders"`
	NextNo int     `json:"nextOrderNo"`
}

// NewOrderLedger starts numbering at 1.
func NewOrderLedger() OrderLedger {
	return OrderLedger{NextNo: 1}
}

func (l *OrderLedger) find(orderNo int) *Order {
	for i := range l.Orders {
		if l.Orders[i].OrderNo == orderNo {
			return &l.Orders[i]
		}
	}
	return nil
}

// Get returns a copy of the order with the given number.
func (l *OrderLedger) Get(orderNo int) (Order, bool) {
	if o := l.find(orderNo); o != nil {
		return *o, true
	}
	return Order{}, false
}

// Append commits an order at the front of the list and advances the counter.
func (l *OrderLedger) Append(o Order) {
	l.Orders = append([]Order{o}, l.Orders...)
	if l.NextNo == 0 {
		l.NextNo = 1
	}
	l.NextNo++
}

// MarkDone transitions OPEN→DONE. Marking a DONE order again is a no-op;
// marking a VOIDED order fails with InvalidTransition.
func (l *OrderLedger) MarkDone(orderNo int) error {
	o := l.find(orderNo)
	if o == nil {
		return errNotFound("order")
	}
	switch o.State {
	case OrderDone:
		return nil
	case OrderVoided:
		return errInvalidTransition(orderNo, "voided orders cannot be marked done")
	}
	o.State = OrderDone
	return nil
}

// Void transitions OPEN→VOIDED and stamps RestockedAt. Settled orders fail
// with AlreadyTerminal. The caller releases stock using the returned order's
// own recipe aggregation.
func (l *OrderLedger) Void(orderNo int, at time.Time) (*Order, error) {
	o := l.find(orderNo)
	if o == nil {
		return nil, errNotFound("order")
	}
	switch o.State {
	case OrderDone:
		return nil, errAlreadyTerminal(orderNo, "done orders cannot be voided")
	case OrderVoided:
		return nil, errAlreadyTerminal(orderNo, "order is already voided and restocked")
	}
	o.State = OrderVoided
	o.RestockedAt = &at
	return o, nil
}

// SetRemoteID attaches the mirror document id once the remote write lands.
func (l *OrderLedger) SetRemoteID(orderNo int, remoteID string) {
	if o := l.find(orderNo); o != nil {
		o.RemoteID = remoteID
	}
}

// Replace swaps the entire order list, preserving the counter. Used by the
// realtime stream: local-only orders not yet mirrored are overwritten.
func (l *OrderLedger) Replace(orders []Order) {
	l.Orders = orders
}

// Reset clears the ledger and restarts numbering at 1. Day end only.
func (l *OrderLedger) Reset() {
	l.Orders = nil
	l.NextNo = 1
}

// SortCriterion selects the ordering of Sorted.
type SortCriterion string

const (
	SortDateDesc SortCriterion = "date-desc"
	SortDateAsc  SortCriterion = "date-asc"
	SortWorker   SortCriterion = "worker"
	SortPayment  SortCriterion = "payment"
)

// Sorted returns a stably sorted copy; the ledger itself is untouched.
func (l *OrderLedger) Sorted(by SortCriterion) []Order {
	out := make([]Order, len(l.Orders))
	copy(out, l.Orders)
	switch by {
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	case SortWorker:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Worker) < strings.ToLower(out[j].Worker)
		})
	case SortPayment:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Payment) < strings.ToLower(out[j].Payment)
		})
	default: // date-desc
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	}
	return out
}

// Totals is the day's financial rollup. Voided orders are excluded from every
// aggregate, and revenue counts item prices only; delivery fees are tracked
// separately and never folded into revenue.
type Totals struct {
	RevenueTotal      decimal.Decimal            `json:"revenueTotal"`
	ByPayment         map[string]decimal.Decimal `json:"byPayment"`
	ByOrderType       map[string]decimal.Decimal `json:"byOrderType"`
	DeliveryFeesTotal decimal.Decimal            `json:"deliveryFeesTotal"`
	ExpensesTotal     decimal.Decimal            `json:"expensesTotal"`
	Margin            decimal.Decimal            `json:"margin"`
}

// ComputeTotals rolls up non-voided orders against the configured payment and
// order-type option lists (zero rows included for unused options).
func (l *OrderLedger) ComputeTotals(paymentMethods, orderTypes []string, expensesTotal decimal.Decimal) Totals {
	t := Totals{
		RevenueTotal:      decimal.Zero,
		ByPayment:         map[string]decimal.Decimal{},
		ByOrderType:       map[string]decimal.Decimal{},
		DeliveryFeesTotal: decimal.Zero,
		ExpensesTotal:     expensesTotal,
	}
	for _, p := range paymentMethods {
		t.ByPayment[p] = decimal.Zero
	}
	for _, ot := range orderTypes {
		t.ByOrderType[ot] = decimal.Zero
	}
	for _, o := range l.Orders {
		if o.State == OrderVoided {
			continue
		}
		t.RevenueTotal = t.RevenueTotal.Add(o.ItemsTotal)
		t.ByPayment[o.Payment] = t.ByPayment[o.Payment].Add(o.ItemsTotal)
		t.ByOrderType[o.OrderType] = t.ByOrderType[o.OrderType].Add(o.ItemsTotal)
		t.DeliveryFeesTotal = t.DeliveryFeesTotal.Add(o.DeliveryFee)
	}
	t.Margin = t.RevenueTotal.Sub(expensesTotal)
	return t
}

// FrequencyRow counts sales and revenue for one catalog item or extra.
type FrequencyRow struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SalesFrequency tallies non-voided orders per item and per extra, sorted by
// count then revenue descending.
func (l *OrderLedger) SalesFrequency() (items, extras []FrequencyRow) {
	itemMap := map[int]*FrequencyRow{}
	extraMap := map[int]*FrequencyRow{}
	bump := func(m map[int]*FrequencyRow, id int, name string, revenue decimal.Decimal) {
		row, ok := m[id]
		if !ok {
			row = &FrequencyRow{ID: id, Name: name, Revenue: decimal.Zero}
			m[id] = row
		}
		row.Count++
		row.Revenue = row.Revenue.Add(revenue)
	}
	for _, o := range l.Orders {
		if o.State == OrderVoided {
			continue
		}
		for _, line := range o.Cart {
			bump(itemMap, line.ID, line.Name, line.Price)
			for _, ex := range line.Extras {
				bump(extraMap, ex.ID, ex.Name, ex.Price)
			}
		}
	}
	collect := func(m map[int]*FrequencyRow) []FrequencyRow {
		out := make([]FrequencyRow, 0, len(m))
		for _, row := range m {
			out = append(out, *row)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Count != out[j].Count {
				return out[i].Count > out[j].Count
			}
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		})
		return out
	}
	return collect(itemMap), collect(extraMap)
}

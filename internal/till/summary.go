package till

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaySummary is the value object handed to the report generator: the shift
// timeline, the order list, the computed totals, the sales-frequency tables,
// the inventory start/now/used table and the expense list, frozen at the
// moment the day closes.
type DaySummary struct {
	Meta        DayMeta         `json:"meta"`
	Orders      []Order         `json:"orders"`
	Totals      Totals          `json:"totals"`
	ItemSales   []FrequencyRow  `json:"itemSales"`
	ExtraSales  []FrequencyRow  `json:"extraSales"`
	Usage       []UsageRow      `json:"usage"`
	Expenses    []Expense       `json:"expenses"`
	BankBalance decimal.Decimal `json:"bankBalance"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

func (t *Till) buildSummaryLocked(meta DayMeta) DaySummary {
	items, extras := t.Ledger.SalesFrequency()
	return DaySummary{
		Meta:        meta,
		Orders:      t.Ledger.Sorted(SortDateDesc),
		Totals:      t.Ledger.ComputeTotals(t.Settings.PaymentMethods, t.Settings.OrderTypes, t.Expenses.Total()),
		ItemSales:   items,
		ExtraSales:  extras,
		Usage:       t.Inventory.UsageRows(),
		Expenses:    copySlice(t.Expenses.List),
		BankBalance: t.Bank.Balance(),
		GeneratedAt: t.now(),
	}
}

// BuildSummary assembles the current day's summary without closing it, for
// the mid-shift report download.
func (t *Till) BuildSummary() DaySummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	meta := t.Day
	meta.ShiftChanges = copySlice(t.Day.ShiftChanges)
	return t.buildSummaryLocked(meta)
}

// Package report turns a day summary into a persisted shift-report document.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"tillpos/internal/till"
)

// FileGenerator writes shift reports as plain-text documents under Dir. It
// implements till.Reporter; generation failures are returned to the caller.
type FileGenerator struct {
	Dir      string
	ShopName string
}

// Generate renders the summary and persists it as one file per day end.
func (g *FileGenerator) Generate(s till.DaySummary) error {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	name := fmt.Sprintf("shift_report_%s.txt", s.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(g.Dir, name)
	body := g.render(s)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

func fmtTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func (g *FileGenerator) render(s till.DaySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - Shift Report\n\n", g.ShopName)
	fmt.Fprintf(&b, "Started by: %s at %s\n", orDash(s.Meta.StartedBy), fmtTime(s.Meta.StartedAt))
	fmt.Fprintf(&b, "Ended by:   %s at %s\n\n", orDash(s.Meta.EndedBy), fmtTime(s.Meta.EndedAt))

	b.WriteString("Shift Timeline\n")
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Started\t%s\t%s\n", fmtTime(s.Meta.StartedAt), orDash(firstWorker(s.Meta)))
	for i, c := range s.Meta.ShiftChanges {
		fmt.Fprintf(tw, "Changed #%d\t%s\t%s -> %s\n", i+1, c.At.Format("2006-01-02 15:04:05"), c.From, c.To)
	}
	fmt.Fprintf(tw, "Day Ended\t%s\t%s\n", fmtTime(s.Meta.EndedAt), orDash(s.Meta.EndedBy))
	tw.Flush()

	b.WriteString("\nOrders\n")
	tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDate\tWorker\tPayment\tType\tDelivery\tTotal\tState")
	for _, o := range s.Orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.OrderNo, o.Date.Format("15:04:05"), o.Worker, o.Payment, o.OrderType,
			o.DeliveryFee.StringFixed(2), o.Total.StringFixed(2), o.State)
	}
	tw.Flush()

	b.WriteString("\nTotals (excluding voided)\n")
	tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Revenue (excl. delivery)\t%s\n", s.Totals.RevenueTotal.StringFixed(2))
	fmt.Fprintf(tw, "Delivery fees (not in revenue)\t%s\n", s.Totals.DeliveryFeesTotal.StringFixed(2))
	fmt.Fprintf(tw, "Expenses\t%s\n", s.Totals.ExpensesTotal.StringFixed(2))
	fmt.Fprintf(tw, "Margin\t%s\n", s.Totals.Margin.StringFixed(2))
	for _, p := range sortedKeys(s.Totals.ByPayment) {
		fmt.Fprintf(tw, "By payment: %s\t%s\n", p, s.Totals.ByPayment[p].StringFixed(2))
	}
	for _, t := range sortedKeys(s.Totals.ByOrderType) {
		fmt.Fprintf(tw, "By order type: %s\t%s\n", t, s.Totals.ByOrderType[t].StringFixed(2))
	}
	tw.Flush()

	b.WriteString("\nItems - Times Ordered\n")
	tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, r := range s.ItemSales {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Name, r.Count, r.Revenue.StringFixed(2))
	}
	tw.Flush()

	b.WriteString("\nExtras - Times Ordered\n")
	tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, r := range s.ExtraSales {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Name, r.Count, r.Revenue.StringFixed(2))
	}
	tw.Flush()

	b.WriteString("\nInventory - Start vs Now\n")
	if len(s.Usage) == 0 {
		b.WriteString("No inventory snapshot; lock inventory to capture start-of-day.\n")
	} else {
		tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Item\tUnit\tStart\tNow\tUsed")
		for _, r := range s.Usage {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Unit, r.Start.String(), r.Now.String(), r.Used.String())
		}
		tw.Flush()
	}

	b.WriteString("\nExpenses\n")
	tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, e := range s.Expenses {
		fmt.Fprintf(tw, "%s\t%s x %s\t%s\t%s\n", e.Name, e.Qty.String(), e.UnitPrice.StringFixed(2), e.Total().StringFixed(2), e.Note)
	}
	tw.Flush()

	fmt.Fprintf(&b, "\nBank balance: %s\n", s.BankBalance.StringFixed(2))
	fmt.Fprintf(&b, "Generated: %s\n", s.GeneratedAt.Format(time.RFC3339))
	return b.String()
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func firstWorker(m till.DayMeta) string {
	if len(m.ShiftChanges) > 0 {
		return m.ShiftChanges[0].From
	}
	return m.StartedBy
}

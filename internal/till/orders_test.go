package till

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(no int, date time.Time, worker, payment, orderType string, itemsTotal, fee string) Order {
	it := dec(itemsTotal)
	f := dec(fee)
	return Order{
		OrderNo:     no,
		Date:        date,
		Worker:      worker,
		Payment:     payment,
		OrderType:   orderType,
		DeliveryFee: f,
		ItemsTotal:  it,
		Total:       it.Add(f),
		State:       OrderOpen,
	}
}

func TestOrderLedger_SortedVariants(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewOrderLedger()
	l.Append(testOrder(1, base, "Ziad", "Card", "Dine-in", "50", "0"))
	l.Append(testOrder(2, base.Add(time.Hour), "Aly", "Cash", "Take-Away", "80", "0"))
	l.Append(testOrder(3, base.Add(2*time.Hour), "Hassan", "Instapay", "Delivery", "30", "0"))

	byDate := l.Sorted(SortDateDesc)
	assert.Equal(t, []int{3, 2, 1}, orderNos(byDate))

	byDateAsc := l.Sorted(SortDateAsc)
	assert.Equal(t, []int{1, 2, 3}, orderNos(byDateAsc))

	byWorker := l.Sorted(SortWorker)
	assert.Equal(t, "Aly", byWorker[0].Worker)

	byPayment := l.Sorted(SortPayment)
	assert.Equal(t, "Card", byPayment[0].Payment)

	// The ledger itself keeps insertion order (most recent first).
	assert.Equal(t, 3, l.Orders[0].OrderNo)
}

func orderNos(orders []Order) []int {
	nos := make([]int, len(orders))
	for i, o := range orders {
		nos[i] = o.OrderNo
	}
	return nos
}

func TestComputeTotals_ExcludesVoidedAndDeliveryFees(t *testing.T) {
	now := time.Now()
	l := NewOrderLedger()
	l.Append(testOrder(1, now, "Hassan", "Cash", "Take-Away", "100", "0"))
	l.Append(testOrder(2, now, "Hassan", "Card", DeliveryOrderType, "200", "20"))
	l.Append(testOrder(3, now, "Hassan", "Cash", "Dine-in", "75", "0"))
	_, err := l.Void(3, now)
	require.NoError(t, err)

	totals := l.ComputeTotals([]string{"Cash", "Card", "Instapay"}, []string{"Take-Away", "Dine-in", DeliveryOrderType}, dec("40"))

	assert.True(t, totals.RevenueTotal.Equal(dec("300")), "revenue excludes the voided order and all delivery fees")
	assert.True(t, totals.DeliveryFeesTotal.Equal(dec("20")))
	assert.True(t, totals.ByPayment["Cash"].Equal(dec("100")))
	assert.True(t, totals.ByPayment["Card"].Equal(dec("200")))
	assert.True(t, totals.ByPayment["Instapay"].IsZero(), "unused options still get a zero row")
	assert.True(t, totals.ByOrderType["Dine-in"].IsZero())
	assert.True(t, totals.Margin.Equal(dec("260")))
}

func TestSalesFrequency_CountsNonVoided(t *testing.T) {
	now := time.Now()
	burger := Item{ID: 1, Name: "Burger", Price: dec("90")}
	fries := Item{ID: 2, Name: "Fries", Price: dec("30")}
	cheese := Item{ID: 3, Name: "Cheese", Price: dec("10")}

	l := NewOrderLedger()
	o1 := testOrder(1, now, "Hassan", "Cash", "Take-Away", "220", "0")
	o1.Cart = []CartLine{
		{Item: burger, Extras: []Item{cheese}},
		{Item: burger},
		{Item: fries},
	}
	l.Append(o1)

	o2 := testOrder(2, now, "Hassan", "Cash", "Take-Away", "90", "0")
	o2.Cart = []CartLine{{Item: burger}}
	l.Append(o2)
	_, err := l.Void(2, now)
	require.NoError(t, err)

	items, extras := l.SalesFrequency()
	require.Len(t, items, 2)
	assert.Equal(t, "Burger", items[0].Name)
	assert.Equal(t, 2, items[0].Count, "voided order does not count")
	assert.True(t, items[0].Revenue.Equal(dec("180")))
	assert.Equal(t, "Fries", items[1].Name)

	require.Len(t, extras, 1)
	assert.Equal(t, "Cheese", extras[0].Name)
	assert.Equal(t, 1, extras[0].Count)
}

func TestOrderLedger_ResetRestartsNumbering(t *testing.T) {
	l := NewOrderLedger()
	l.Append(testOrder(1, time.Now(), "Hassan", "Cash", "Take-Away", "10", "0"))
	l.Append(testOrder(2, time.Now(), "Hassan", "Cash", "Take-Away", "10", "0"))
	require.Equal(t, 3, l.NextNo)

	l.Reset()
	assert.Empty(t, l.Orders)
	assert.Equal(t, 1, l.NextNo)
}

func TestOrder_RequiredStockFromStoredCart(t *testing.T) {
	o := Order{Cart: []CartLine{
		{Uses: map[string]decimal.Decimal{"meat": dec("0.2"), "bun": dec("1")}},
		{Uses: map[string]decimal.Decimal{"meat": dec("0.2")}},
	}}

	got := o.RequiredStock()
	assert.True(t, got["meat"].Equal(dec("0.4")))
	assert.True(t, got["bun"].Equal(dec("1")))
}

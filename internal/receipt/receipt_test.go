package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillpos/internal/till"
)

func sampleOrder(state till.OrderState) till.Order {
	price := decimal.NewFromInt(90)
	extra := decimal.NewFromInt(10)
	return till.Order{
		OrderNo:    7,
		Date:       time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC),
		Worker:     "Hassan",
		Payment:    "Cash",
		OrderType:  "Take-Away",
		ItemsTotal: price.Add(extra),
		Total:      price.Add(extra),
		Cart: []till.CartLine{{
			Item:   till.Item{ID: 1, Name: "Burger", Price: price},
			Extras: []till.Item{{ID: 2, Name: "Cheese", Price: extra}},
		}},
		State: state,
	}
}

func TestRender_CustomerTicket(t *testing.T) {
	text, err := Render(sampleOrder(till.OrderOpen), 58, Customer, "TUX - Burger Truck")
	require.NoError(t, err)

	assert.Contains(t, text, "TUX - Burger Truck")
	assert.Contains(t, text, "Customer Copy")
	assert.Contains(t, text, "Order #7")
	assert.Contains(t, text, "Burger")
	assert.Contains(t, text, "Cheese")
	assert.Contains(t, text, "TOTAL")
	assert.Contains(t, text, "100.00")
	assert.Contains(t, text, "Thank you!")
	assert.NotContains(t, text, "Delivery Fee", "no fee line for non-delivery types")

	for _, line := range strings.Split(text, "\n") {
		assert.LessOrEqual(t, len(line), 32, "58mm paper is 32 columns")
	}
}

func TestRender_DeliveryFeeLine(t *testing.T) {
	o := sampleOrder(till.OrderOpen)
	o.OrderType = till.DeliveryOrderType
	o.DeliveryFee = decimal.NewFromInt(20)
	o.Total = o.ItemsTotal.Add(o.DeliveryFee)

	text, err := Render(o, 80, Customer, "TUX")
	require.NoError(t, err)
	assert.Contains(t, text, "Delivery Fee: 20.00")
	assert.Contains(t, text, "120.00")
}

func TestRender_NoteBlock(t *testing.T) {
	o := sampleOrder(till.OrderOpen)
	o.Note = "extra spicy, no pickles"

	text, err := Render(o, 58, Kitchen, "TUX")
	require.NoError(t, err)
	assert.Contains(t, text, "NOTE:")
	assert.Contains(t, text, "extra spicy")
}

func TestRender_RefusesVoidedOrders(t *testing.T) {
	_, err := Render(sampleOrder(till.OrderVoided), 58, Customer, "TUX")
	assert.ErrorIs(t, err, ErrVoidedOrder)

	_, err = Render(sampleOrder(till.OrderVoided), 58, Kitchen, "TUX")
	assert.ErrorIs(t, err, ErrVoidedOrder)
}

func TestRender_RefusesKitchenCopyWhenDone(t *testing.T) {
	_, err := Render(sampleOrder(till.OrderDone), 58, Kitchen, "TUX")
	assert.ErrorIs(t, err, ErrKitchenDone)

	// The customer copy of a done order still prints, stamped DONE.
	text, err := Render(sampleOrder(till.OrderDone), 58, Customer, "TUX")
	require.NoError(t, err)
	assert.Contains(t, text, "DONE")
}

func TestRender_RejectsUnknownWidth(t *testing.T) {
	_, err := Render(sampleOrder(till.OrderOpen), 60, Customer, "TUX")
	assert.ErrorIs(t, err, ErrBadWidth)
}

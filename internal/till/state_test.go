package till

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackRestore_RoundTrip(t *testing.T) {
	src := newTestTill(t)
	startShift(t, src, "Hassan")
	require.NoError(t, src.Inventory.Lock(true, time.Now()))
	addSandwich(t, src)
	_, err := src.Checkout(CheckoutParams{Worker: "Hassan", Payment: "Cash", OrderType: "Take-Away"})
	require.NoError(t, err)
	require.NoError(t, src.Pins.Change(2, "2222", "8080"))
	_, err = src.Expenses.Add("Bread", "bag", dec("1"), dec("15"), "", time.Now())
	require.NoError(t, err)

	state := src.PackState()

	dst := New()
	dst.RestoreState(state)

	assert.Len(t, dst.Catalog.Menu, 1)
	assert.Len(t, dst.Catalog.Extras, 1)
	assert.Len(t, dst.Ledger.Orders, 1)
	assert.Equal(t, 2, dst.Ledger.NextNo)
	assert.True(t, dst.Inventory.Locked)
	require.Len(t, dst.Inventory.Snapshot, 2)
	assert.True(t, dst.Day.Active())
	assert.Equal(t, "Hassan", dst.Day.StartedBy)
	assert.Len(t, dst.Expenses.List, 1)
	require.NoError(t, dst.Pins.Verify(2, "8080"))
	require.NoError(t, dst.Pins.Verify(1, "1111"))
}

func TestRestoreState_ZeroSectionsKeepDefaults(t *testing.T) {
	dst := New()
	dst.RestoreState(State{})

	assert.Equal(t, 1, dst.Ledger.NextNo)
	assert.Equal(t, DefaultSettings().PaymentMethods, dst.Settings.PaymentMethods)
	require.NoError(t, dst.Pins.Verify(1, "1111"))
	assert.False(t, dst.Day.Active())
}

func TestRestoreState_PartialPinsMergeOverDefaults(t *testing.T) {
	dst := New()
	dst.RestoreState(State{AdminPins: map[int]string{3: "9090"}})

	require.NoError(t, dst.Pins.Verify(3, "9090"))
	require.NoError(t, dst.Pins.Verify(1, "1111"), "unlisted slots keep their defaults")
}

func TestPackState_IsASnapshot(t *testing.T) {
	src := newTestTill(t)
	startShift(t, src, "Hassan")

	state := src.PackState()

	// Later mutations must not leak into the packed copy.
	addSandwich(t, src)
	_, err := src.Checkout(CheckoutParams{Worker: "Hassan", Payment: "Cash", OrderType: "Take-Away"})
	require.NoError(t, err)

	assert.Empty(t, state.Orders)
	assert.Equal(t, 1, state.NextOrderNo)
}

func TestReplaceOrders_KeepsCounter(t *testing.T) {
	tll := newTestTill(t)
	startShift(t, tll, "Hassan")
	addSandwich(t, tll)
	_, err := tll.Checkout(CheckoutParams{Worker: "Hassan", Payment: "Cash", OrderType: "Take-Away"})
	require.NoError(t, err)

	remote := []Order{{OrderNo: 7, Worker: "Aly", State: OrderOpen}}
	tll.ReplaceOrders(remote)

	require.Len(t, tll.Ledger.Orders, 1)
	assert.Equal(t, 7, tll.Ledger.Orders[0].OrderNo)
	assert.Equal(t, 2, tll.Ledger.NextNo, "stream replaces orders, never the counter")
}

func TestAttachRemoteID(t *testing.T) {
	tll := newTestTill(t)
	startShift(t, tll, "Hassan")
	addSandwich(t, tll)
	order, err := tll.Checkout(CheckoutParams{Worker: "Hassan", Payment: "Cash", OrderType: "Take-Away"})
	require.NoError(t, err)

	tll.AttachRemoteID(order.OrderNo, "o42")
	got, _ := tll.Ledger.Get(order.OrderNo)
	assert.Equal(t, "o42", got.RemoteID)
}

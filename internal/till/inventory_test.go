package till

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_AddItemSlugsAndRejectsDuplicates(t *testing.T) {
	inv := &Inventory{}

	id, err := inv.AddItem("Minced Meat", "kg", dec("2"))
	require.NoError(t, err)
	assert.Equal(t, "minced-meat", id)

	_, err = inv.AddItem("  minced MEAT ", "kg", dec("1"))
	require.Error(t, err, "same slug is the same item")
}

func TestInventory_LockTakesSnapshot(t *testing.T) {
	inv := &Inventory{}
	_, err := inv.AddItem("Meat", "kg", dec("2"))
	require.NoError(t, err)

	err = inv.Lock(false, time.Now())
	assert.Equal(t, ErrCodeValidation, CodeOf(err), "lock needs explicit confirmation")

	at := time.Now()
	require.NoError(t, inv.Lock(true, at))
	assert.True(t, inv.Locked)
	require.Len(t, inv.Snapshot, 1)
	assert.True(t, inv.Snapshot[0].QtyAtLock.Equal(dec("2")))

	// Locking again is a no-op; the snapshot is not retaken.
	inv.Items[0].Qty = dec("1")
	require.NoError(t, inv.Lock(true, time.Now()))
	assert.True(t, inv.Snapshot[0].QtyAtLock.Equal(dec("2")))
}

func TestInventory_LockedBlocksStructuralEdits(t *testing.T) {
	inv := &Inventory{}
	id, err := inv.AddItem("Meat", "kg", dec("2"))
	require.NoError(t, err)
	require.NoError(t, inv.Lock(true, time.Now()))

	_, err = inv.AddItem("Cheese", "kg", dec("1"))
	assert.Equal(t, ErrCodeInventoryLocked, CodeOf(err))

	err = inv.DeleteItem(id)
	assert.Equal(t, ErrCodeInventoryLocked, CodeOf(err))

	// Manual quantity edits are silently ignored while locked.
	inv.SetQty(id, dec("50"))
	got, _ := inv.Item(id)
	assert.True(t, got.Qty.Equal(dec("2")))
}

func TestInventory_SetQtyClampsAtZero(t *testing.T) {
	inv := &Inventory{}
	id, err := inv.AddItem("Meat", "kg", dec("2"))
	require.NoError(t, err)

	inv.SetQty(id, dec("-3"))
	got, _ := inv.Item(id)
	assert.True(t, got.Qty.IsZero())
}

func TestInventory_ReserveAndRelease(t *testing.T) {
	inv := &Inventory{}
	meat, err := inv.AddItem("Meat", "kg", dec("1"))
	require.NoError(t, err)
	cheese, err := inv.AddItem("Cheese", "kg", dec("1"))
	require.NoError(t, err)

	require.NoError(t, inv.Reserve(map[string]decimal.Decimal{meat: dec("0.4"), cheese: dec("0.1")}))

	gotMeat, _ := inv.Item(meat)
	assert.True(t, gotMeat.Qty.Equal(dec("0.6")))

	inv.Release(map[string]decimal.Decimal{meat: dec("0.4"), cheese: dec("0.1")})
	gotMeat, _ = inv.Item(meat)
	assert.True(t, gotMeat.Qty.Equal(dec("1")))

	// Unknown ids are skipped on both sides.
	require.NoError(t, inv.Reserve(map[string]decimal.Decimal{"ghost": dec("9")}))
	inv.Release(map[string]decimal.Decimal{"ghost": dec("9")})
}

func TestInventory_UsageRows(t *testing.T) {
	inv := &Inventory{}
	id, err := inv.AddItem("Meat", "kg", dec("2"))
	require.NoError(t, err)
	require.NoError(t, inv.Lock(true, time.Now()))

	require.NoError(t, inv.Reserve(map[string]decimal.Decimal{id: dec("0.5")}))

	rows := inv.UsageRows()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Start.Equal(dec("2")))
	assert.True(t, rows[0].Now.Equal(dec("1.5")))
	assert.True(t, rows[0].Used.Equal(dec("0.5")))

	// Restocking above the lock point never reports negative usage.
	inv.Release(map[string]decimal.Decimal{id: dec("2")})
	rows = inv.UsageRows()
	assert.True(t, rows[0].Used.IsZero())
}

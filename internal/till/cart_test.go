package till

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddLineMergesRecipes(t *testing.T) {
	burger := Item{ID: 1, Name: "Burger", Price: dec("90"), Recipe: map[string]decimal.Decimal{
		"meat": dec("0.2"), "bun": dec("1"),
	}}
	doubleMeat := Item{ID: 2, Name: "Double Meat", Price: dec("30"), Recipe: map[string]decimal.Decimal{
		"meat": dec("0.2"),
	}}

	var c Cart
	c.AddLine(burger, []Item{doubleMeat})

	require.Len(t, c.Lines, 1)
	line := c.Lines[0]
	assert.True(t, line.Uses["meat"].Equal(dec("0.4")), "overlapping ingredients add up")
	assert.True(t, line.Uses["bun"].Equal(dec("1")))
}

func TestCart_ItemsTotalIncludesExtras(t *testing.T) {
	burger := Item{ID: 1, Name: "Burger", Price: dec("90")}
	cheese := Item{ID: 2, Name: "Cheese", Price: dec("10")}

	var c Cart
	c.AddLine(burger, []Item{cheese})
	c.AddLine(burger, nil)

	assert.True(t, c.ItemsTotal().Equal(dec("190")))
}

func TestCart_RemoveLineIgnoresOutOfRange(t *testing.T) {
	burger := Item{ID: 1, Name: "Burger", Price: dec("90")}

	var c Cart
	c.AddLine(burger, nil)

	c.RemoveLine(-1)
	c.RemoveLine(5)
	assert.Len(t, c.Lines, 1)

	c.RemoveLine(0)
	assert.Empty(t, c.Lines)
}

func TestCart_RequiredStockAggregatesLines(t *testing.T) {
	burger := Item{ID: 1, Name: "Burger", Price: dec("90"), Recipe: map[string]decimal.Decimal{"meat": dec("0.2")}}

	var c Cart
	c.AddLine(burger, nil)
	c.AddLine(burger, nil)

	need := c.RequiredStock()
	assert.True(t, need["meat"].Equal(dec("0.4")))
}

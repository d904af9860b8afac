package till

import "github.com/shopspring/decimal"

// CartLine is one selected menu item plus its chosen extras. Item fields are
// copied by value so later catalog edits never rewrite a pending line. Uses
// holds the merged recipe of the base item and every extra.
type CartLine struct {
	Item
	Extras []Item                     `json:"extras"`
	Uses   map[string]decimal.Decimal `json:"usesTotal"`
}

// Cart accumulates lines prior to checkout. It holds no inventory locks;
// stock sufficiency is only checked at commit time.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// AddLine merges the base recipe with each extra's recipe (overlapping keys
// add) and appends the priced line.
func (c *Cart) AddLine(item Item, extras []Item) {
	uses := make(map[string]decimal.Decimal, len(item.Recipe))
	for k, v := range item.Recipe {
		uses[k] = v
	}
	copied := make([]Item, len(extras))
	for i, ex := range extras {
		copied[i] = ex.clone()
		for k, v := range ex.Recipe {
			uses[k] = uses[k].Add(v)
		}
	}
	line := CartLine{Item: item.clone(), Extras: copied, Uses: uses}
	c.Lines = append(c.Lines, line)
}

// RemoveLine drops the line at index, ignoring out-of-range indexes.
func (c *Cart) RemoveLine(index int) {
	if index < 0 || index >= len(c.Lines) {
		return
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
}

// Clear empties the cart. Called after a successful checkout.
func (c *Cart) Clear() {
	c.Lines = nil
}

// ItemsTotal is the sum of line base prices plus all extras prices. The
// delivery fee is not part of this; checkout adds it for Delivery orders.
func (c *Cart) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Price)
		for _, ex := range line.Extras {
			total = total.Add(ex.Price)
		}
	}
	return total
}

// RequiredStock aggregates the merged recipes of every line.
func (c *Cart) RequiredStock() map[string]decimal.Decimal {
	required := map[string]decimal.Decimal{}
	for _, line := range c.Lines {
		for k, v := range line.Uses {
			required[k] = required[k].Add(v)
		}
	}
	return required
}

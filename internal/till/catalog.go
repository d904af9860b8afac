package till

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Item is a sellable catalog entry: a menu item or an extra. Both share the
// same shape. Recipe maps inventory ids to the quantity consumed per sale.
type Item struct {
	ID     int                        `json:"id"`
	Name   string                     `json:"name"`
	Price  decimal.Decimal            `json:"price"`
	Recipe map[string]decimal.Decimal `json:"uses"`
}

func (it Item) clone() Item {
	out := it
	out.Recipe = make(map[string]decimal.Decimal, len(it.Recipe))
	for k, v := range it.Recipe {
		out.Recipe[k] = v
	}
	return out
}

// Catalog holds the menu and extras registries. Ids are unique across both
// sets so a cart line can reference either without ambiguity.
type Catalog struct {
	Menu   []Item `json:"menu"`
	Extras []Item `json:"extras"`
}

func (c *Catalog) nextID() int {
	max := 0
	for _, it := range c.Menu {
		if it.ID > max {
			max = it.ID
		}
	}
	for _, it := range c.Extras {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}

func (c *Catalog) find(id int) *Item {
	for i := range c.Menu {
		if c.Menu[i].ID == id {
			return &c.Menu[i]
		}
	}
	for i := range c.Extras {
		if c.Extras[i].ID == id {
			return &c.Extras[i]
		}
	}
	return nil
}

// MenuItem returns a value copy of the menu item with the given id.
func (c *Catalog) MenuItem(id int) (Item, bool) {
	for i := range c.Menu {
		if c.Menu[i].ID == id {
			return c.Menu[i].clone(), true
		}
	}
	return Item{}, false
}

// Extra returns a value copy of the extra with the given id.
func (c *Catalog) Extra(id int) (Item, bool) {
	for i := range c.Extras {
		if c.Extras[i].ID == id {
			return c.Extras[i].clone(), true
		}
	}
	return Item{}, false
}

// AddMenuItem appends a new menu item and returns its assigned id.
func (c *Catalog) AddMenuItem(name string, price decimal.Decimal) (int, error) {
	return c.add(&c.Menu, name, price)
}

// AddExtra appends a new extra and returns its assigned id.
func (c *Catalog) AddExtra(name string, price decimal.Decimal) (int, error) {
	return c.add(&c.Extras, name, price)
}

func (c *Catalog) add(set *[]Item, name string, price decimal.Decimal) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errValidation("item name must not be empty")
	}
	if price.IsNegative() {
		return 0, errValidation("item price must not be negative")
	}
	id := c.nextID()
	*set = append(*set, Item{
		ID:     id,
		Name:   name,
		Price:  price,
		Recipe: map[string]decimal.Decimal{},
	})
	return id, nil
}

// Rename changes an item's display name in place.
func (c *Catalog) Rename(id int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errValidation("item name must not be empty")
	}
	it := c.find(id)
	if it == nil {
		return errNotFound("catalog item")
	}
	it.Name = name
	return nil
}

// Reprice changes an item's price in place. Historical orders are unaffected
// because orders store value copies of their lines.
func (c *Catalog) Reprice(id int, price decimal.Decimal) error {
	if price.IsNegative() {
		return errValidation("item price must not be negative")
	}
	it := c.find(id)
	if it == nil {
		return errNotFound("catalog item")
	}
	it.Price = price
	return nil
}

// SetRecipeEntry sets the consumption of one inventory item per sale of the
// catalog item. A zero quantity removes the entry, keeping the map sparse.
// The inventory id is validated against the live ledger so a typo fails here
// rather than at checkout.
func (c *Catalog) SetRecipeEntry(id int, inv *Inventory, invID string, qty decimal.Decimal) error {
	if qty.IsNegative() {
		return errValidation("recipe quantity must not be negative")
	}
	it := c.find(id)
	if it == nil {
		return errNotFound("catalog item")
	}
	if _, ok := inv.Item(invID); !ok {
		return errNotFound("inventory item")
	}
	if it.Recipe == nil {
		it.Recipe = map[string]decimal.Decimal{}
	}
	if qty.IsZero() {
		delete(it.Recipe, invID)
		return nil
	}
	it.Recipe[invID] = qty
	return nil
}

// Delete removes an item from whichever set holds it.
func (c *Catalog) Delete(id int) error {
	for i := range c.Menu {
		if c.Menu[i].ID == id {
			c.Menu = append(c.Menu[:i], c.Menu[i+1:]...)
			return nil
		}
	}
	for i := range c.Extras {
		if c.Extras[i].ID == id {
			c.Extras = append(c.Extras[:i], c.Extras[i+1:]...)
			return nil
		}
	}
	return errNotFound("catalog item")
}

package engine

import (
	"sync"

	"github.com/google/uuid"

	"dinehall-order-service/internal/catalog"
)

// CartLine is one staged menu selection. Lines live only inside a cart;
// placing the order turns them into ledger-owned order items.
type CartLine struct {
	MenuItemID          uuid.UUID `json:"menu_item_id"`
	Name                string    `json:"name"`
	UnitPrice           float64   `json:"unit_price"`
	Quantity            int       `json:"quantity"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
	IsPriority          bool      `json:"is_priority,omitempty"`
}

// Cart is the pre-submission staging area for one ordering session. It is
// draft state: nothing in a cart is visible to the kitchen or to billing.
type Cart struct {
	mu    sync.Mutex
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add stages one unit of the given menu item, merging into an existing line
// when present.
func (c *Cart) Add(snap catalog.Snapshot) {
	c.AddLine(CartLine{
		MenuItemID: snap.MenuItemID,
		Name:       snap.Name,
		UnitPrice:  snap.UnitPrice,
		Quantity:   1,
	})
}

// AddLine merges a line into the cart by menu item. A line with quantity <= 0
// is ignored.
func (c *Cart) AddLine(line CartLine) {
	if line.Quantity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].MenuItemID == line.MenuItemID {
			c.lines[i].Quantity += line.Quantity
			if line.SpecialInstructions != "" {
				c.lines[i].SpecialInstructions = line.SpecialInstructions
			}
			if line.IsPriority {
				c.lines[i].IsPriority = true
			}
			return
		}
	}
	c.lines = append(c.lines, line)
}

// SetQuantity sets the quantity of an existing line. n <= 0 removes the line.
// A missing line is a no-op.
func (c *Cart) SetQuantity(menuItemID uuid.UUID, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 {
		c.removeLocked(menuItemID)
		return
	}
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines[i].Quantity = n
			return
		}
	}
}

// Remove drops the line for the given menu item. A missing line is a no-op.
func (c *Cart) Remove(menuItemID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(menuItemID)
}

func (c *Cart) removeLocked(menuItemID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// take drains the cart in one step, so a line can only ever be submitted by
// one caller. A concurrent submission of the same cart finds it empty.
func (c *Cart) take() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := c.lines
	c.lines = nil
	return lines
}

// restore puts drained lines back, ahead of anything staged since, after a
// failed submission.
func (c *Cart) restore(lines []CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(lines, c.lines...)
}

// Total is the sum of unit_price * quantity over all lines.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, line := range c.lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// Lines returns a copy of the staged lines in insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

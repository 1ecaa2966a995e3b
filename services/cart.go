package services

import (
	"sync"

	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
)

// Cart aggregates menu items for one buyer chat. Lines are unique by menu
// item id; repeat adds bump the quantity. Everything lives in memory — an
// order is the only durable form of a cart.
type Cart struct {
	mu    sync.Mutex
	lines []models.OrderItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Add appends a new line with quantity 1, or increments the existing line for
// the same menu item. Line order is preserved; new lines go at the end.
func (c *Cart) Add(item models.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].MenuItemID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, models.OrderItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   1,
	})
}

// SetQuantity sets the line's quantity; n <= 0 removes the line.
func (c *Cart) SetQuantity(menuItemID string, n int) {
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

// Adjust shifts the line's quantity by delta; dropping to zero removes it.
// Unknown ids are a no-op.
func (c *Cart) Adjust(menuItemID string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			q := c.lines[i].Quantity + delta
			if q <= 0 {
				c.removeLocked(menuItemID)
			} else {
				c.lines[i].Quantity = q
			}
			return
		}
	}
}

func (c *Cart) Remove(menuItemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(menuItemID)
}

func (c *Cart) removeLocked(menuItemID string) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total is the sum of price x quantity over all lines; 0 for an empty cart.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, l := range c.lines {
		total += l.LineTotal()
	}
	return total
}

// Lines returns a copy safe to render or submit.
func (c *Cart) Lines() []models.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.OrderItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Clear empties the cart; called after a successful order submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

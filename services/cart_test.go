package services

import (
	"testing"

	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
)

var (
	idliItem = models.MenuItem{ID: "m1", Name: "Idli", Price: 30, Category: "Idli", Available: true}
	vadaItem = models.MenuItem{ID: "m2", Name: "Vada", Price: 25, Category: "Snacks", Available: true}
)

func TestCart_AddMergesByMenuItem(t *testing.T) {
	c := NewCart()
	c.Add(idliItem)
	c.Add(vadaItem)
	c.Add(idliItem)

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("Lines() = %d lines, want 2", len(lines))
	}
	if lines[0].MenuItemID != "m1" || lines[0].Quantity != 2 {
		t.Errorf("first line = %s qty %d, want m1 qty 2", lines[0].MenuItemID, lines[0].Quantity)
	}
	if lines[1].MenuItemID != "m2" || lines[1].Quantity != 1 {
		t.Errorf("second line = %s qty %d, want m2 qty 1", lines[1].MenuItemID, lines[1].Quantity)
	}
}

func TestCart_SetQuantity(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantLen int
		wantQty int
	}{
		{"set positive", 5, 1, 5},
		{"zero removes", 0, 0, 0},
		{"negative removes", -3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCart()
			c.Add(idliItem)
			c.SetQuantity("m1", tt.n)
			if got := c.Len(); got != tt.wantLen {
				t.Fatalf("Len() = %d, want %d", got, tt.wantLen)
			}
			if tt.wantLen > 0 && c.Lines()[0].Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", c.Lines()[0].Quantity, tt.wantQty)
			}
		})
	}
}

func TestCart_AdjustRemovesAtZero(t *testing.T) {
	c := NewCart()
	c.Add(idliItem)
	c.Add(idliItem)

	c.Adjust("m1", -1)
	if c.Lines()[0].Quantity != 1 {
		t.Errorf("quantity after -1 = %d, want 1", c.Lines()[0].Quantity)
	}
	c.Adjust("m1", -1)
	if !c.IsEmpty() {
		t.Error("cart should be empty after quantity reaches zero")
	}
	// unknown id is a no-op
	c.Adjust("nope", 1)
	if !c.IsEmpty() {
		t.Error("adjusting an unknown id must not create a line")
	}
}

func TestCart_Total(t *testing.T) {
	c := NewCart()
	if c.Total() != 0 {
		t.Errorf("empty cart Total() = %v, want 0", c.Total())
	}
	c.Add(idliItem)
	c.Add(idliItem)
	c.Add(vadaItem)
	if got, want := c.Total(), 2*30.0+25.0; got != want {
		t.Errorf("Total() = %v, want %v", got, want)
	}
	c.Remove("m1")
	c.Remove("m2")
	if c.Total() != 0 {
		t.Errorf("Total() after removing everything = %v, want 0", c.Total())
	}
}

func TestCart_LinesIsACopy(t *testing.T) {
	c := NewCart()
	c.Add(idliItem)
	lines := c.Lines()
	lines[0].Quantity = 99
	if c.Lines()[0].Quantity != 1 {
		t.Error("mutating the returned slice must not change the cart")
	}
}

func TestCart_Clear(t *testing.T) {
	c := NewCart()
	c.Add(idliItem)
	c.Add(vadaItem)
	c.Clear()
	if !c.IsEmpty() {
		t.Error("Clear() should leave the cart empty")
	}
}

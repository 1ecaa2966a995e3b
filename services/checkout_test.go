package services

import (
	"strings"
	"testing"
)

func TestCheckoutInfo_Validate(t *testing.T) {
	tests := []struct {
		name string
		info CheckoutInfo
		want int // number of problems
	}{
		{"all valid", CheckoutInfo{Name: "Anand", Phone: "9876543210", Description: "Two plates, no chutney"}, 0},
		{"short name", CheckoutInfo{Name: "A", Phone: "9876543210", Description: "Two plates"}, 1},
		{"short phone", CheckoutInfo{Name: "Anand", Phone: "12345", Description: "Two plates"}, 1},
		{"short description", CheckoutInfo{Name: "Anand", Phone: "9876543210", Description: "ok"}, 1},
		{"whitespace only", CheckoutInfo{Name: "   ", Phone: "   ", Description: "   "}, 3},
		{"all empty", CheckoutInfo{}, 3},
		// lengths are characters, not bytes: "я" is 2 bytes but 1 character
		{"one multibyte char name", CheckoutInfo{Name: "я", Phone: "9876543210", Description: "Two plates"}, 1},
		{"multibyte description still short", CheckoutInfo{Name: "Дима", Phone: "9876543210", Description: "идли"}, 1},
		{"multibyte all valid", CheckoutInfo{Name: "Дима", Phone: "9876543210", Description: "Две тарелки"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.info.Validate()
			if len(got) != tt.want {
				t.Errorf("Validate() = %d problems %v, want %d", len(got), got, tt.want)
			}
		})
	}
}

func TestBuildOrder_EmptyCart(t *testing.T) {
	info := CheckoutInfo{Name: "Anand", Phone: "9876543210", Description: "Two plates"}
	_, err := BuildOrder(NewCart(), info)
	if err == nil || !strings.Contains(err.Error(), "cart is empty") {
		t.Errorf("BuildOrder(empty cart) error = %v, want cart is empty", err)
	}
}

func TestBuildOrder_InvalidForm(t *testing.T) {
	c := NewCart()
	c.Add(idliItem)
	_, err := BuildOrder(c, CheckoutInfo{Name: "A", Phone: "1", Description: ""})
	if err == nil {
		t.Fatal("BuildOrder with invalid form should fail")
	}
	if c.Len() != 1 {
		t.Error("a failed BuildOrder must not touch the cart")
	}
}

func TestBuildOrder_Payload(t *testing.T) {
	c := NewCart()
	c.Add(idliItem)
	c.Add(idliItem)
	c.Add(vadaItem)

	in, err := BuildOrder(c, CheckoutInfo{Name: " Anand ", Phone: "9876543210", Description: "Extra sambar please"})
	if err != nil {
		t.Fatalf("BuildOrder() error = %v", err)
	}
	if len(in.Items) != 2 {
		t.Fatalf("payload items = %d, want 2", len(in.Items))
	}
	if in.Total != 85 {
		t.Errorf("payload total = %v, want 85", in.Total)
	}
	if in.CustomerName != "Anand" {
		t.Errorf("customer name = %q, want trimmed %q", in.CustomerName, "Anand")
	}
	if c.Len() != 2 {
		t.Error("BuildOrder must not consume the cart; it is cleared only after the API accepts the order")
	}
}

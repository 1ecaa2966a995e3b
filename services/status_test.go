package services

import "testing"

func TestValidOrderStatus(t *testing.T) {
	for _, s := range AllOrderStatuses {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "delivered", "Pending", "PREPARING"} {
		if ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = true, want false", s)
		}
	}
}

func TestShortOrderID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"", "N/A"},
		{"abc", "ABC"},
		{"64f1a2b3c4d5e6f7a8b9c0d1", "B9C0D1"},
		{"123456", "123456"},
	}
	for _, tt := range tests {
		if got := ShortOrderID(tt.id); got != tt.want {
			t.Errorf("ShortOrderID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestStatusLabel_UnknownFallsBack(t *testing.T) {
	if got := StatusLabel("weird"); got != "WEIRD" {
		t.Errorf("StatusLabel(weird) = %q, want WEIRD", got)
	}
	if got := StatusLabel(OrderStatusReady); got == "READY" {
		t.Error("known statuses should have their own label, not the uppercase fallback")
	}
}

package services

import "strings"

// Order statuses as the remote API defines them. Sellers may move an order to
// any of these; the server owns whatever transition rules it cares about.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

var AllOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func ValidOrderStatus(s string) bool {
	for _, st := range AllOrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func StatusLabel(s string) string {
	switch s {
	case OrderStatusPending:
		return "⏳ Pending"
	case OrderStatusPreparing:
		return "🍳 Preparing"
	case OrderStatusReady:
		return "✅ Ready"
	case OrderStatusCompleted:
		return "🎉 Completed"
	case OrderStatusCancelled:
		return "❌ Cancelled"
	default:
		return strings.ToUpper(s)
	}
}

// ShortOrderID is the display form of an order id: last six characters,
// uppercased. Empty ids render as N/A.
func ShortOrderID(id string) string {
	if id == "" {
		return "N/A"
	}
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}

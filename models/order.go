package models

// OrderItem is one line of an order: a menu item plus its requested quantity.
// The cart uses the same shape, so a checkout sends cart lines verbatim.
type OrderItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is a row from GET /orders. The item list is immutable after creation;
// only the status changes, and only by a seller.
type Order struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Description   string      `json:"description"`
	Status        string      `json:"status"`
	CreatedAt     string      `json:"created_at"`
}

type CreateOrderInput struct {
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Description   string      `json:"description"`
}

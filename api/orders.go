package api

import (
	"context"
	"net/http"

	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
)

// ListOrders is role-scoped server-side: buyers get their own orders, sellers
// get all of them.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CreateOrder(ctx context.Context, in models.CreateOrderInput) (models.Order, error) {
	var o models.Order
	err := c.doJSON(ctx, http.MethodPost, "/orders", in, &o)
	return o, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	return c.doJSON(ctx, http.MethodPut, "/orders/"+orderID+"/status", body, nil)
}

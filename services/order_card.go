package services

import (
	"fmt"
	"strings"

	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
)

// OrderCardButton is one inline button (text + callback_data).
type OrderCardButton struct {
	Text         string
	CallbackData string
}

// OrderCardContent is the text and optional inline keyboard for an order card.
// The bot layer converts it to Telegram markup.
type OrderCardContent struct {
	Text    string
	Buttons [][]OrderCardButton
}

func orderLines(o models.Order) string {
	var b strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %s x %d — Rs. %.2f\n", it.Name, it.Quantity, it.LineTotal())
	}
	return b.String()
}

// BuildBuyerOrderCard renders an order for the buyer's "My Orders" view.
func BuildBuyerOrderCard(o models.Order) OrderCardContent {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%s — %s\n\n", ShortOrderID(o.ID), StatusLabel(o.Status))
	b.WriteString(orderLines(o))
	fmt.Fprintf(&b, "\nTotal: Rs. %.2f", o.Total)
	if o.Description != "" {
		fmt.Fprintf(&b, "\nDescription: %s", o.Description)
	}
	if o.CreatedAt != "" {
		fmt.Fprintf(&b, "\nPlaced: %s", o.CreatedAt)
	}
	return OrderCardContent{Text: b.String()}
}

// BuildSellerOrderCard renders an order with customer details and one button
// per status the order is not already in.
func BuildSellerOrderCard(o models.Order) OrderCardContent {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%s — %s\n\n", ShortOrderID(o.ID), StatusLabel(o.Status))
	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", o.CustomerPhone)
	if o.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", o.Description)
	}
	b.WriteString("\n")
	b.WriteString(orderLines(o))
	fmt.Fprintf(&b, "\nTotal: Rs. %.2f", o.Total)
	if o.CreatedAt != "" {
		fmt.Fprintf(&b, "\nPlaced: %s", o.CreatedAt)
	}

	var row []OrderCardButton
	var buttons [][]OrderCardButton
	for _, st := range AllOrderStatuses {
		if st == o.Status {
			continue
		}
		row = append(row, OrderCardButton{
			Text:         StatusLabel(st),
			CallbackData: "status:" + o.ID + ":" + st,
		})
		if len(row) == 2 {
			buttons = append(buttons, row)
			row = nil
		}
	}
	if len(row) > 0 {
		buttons = append(buttons, row)
	}
	return OrderCardContent{Text: b.String(), Buttons: buttons}
}

package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
)

const (
	MinCustomerNameLen  = 2
	MinCustomerPhoneLen = 10
	MinDescriptionLen   = 5
)

// CheckoutInfo is what the checkout form collects before an order is placed.
type CheckoutInfo struct {
	Name        string
	Phone       string
	Description string
}

// Validate runs the client-side checks. The order request is only sent when
// this returns nil, so an empty name never costs a network round trip.
// Minimum lengths are in characters, not bytes.
func (ci CheckoutInfo) Validate() []string {
	var problems []string
	if utf8.RuneCountInString(strings.TrimSpace(ci.Name)) < MinCustomerNameLen {
		problems = append(problems, fmt.Sprintf("name must be at least %d characters", MinCustomerNameLen))
	}
	if utf8.RuneCountInString(strings.TrimSpace(ci.Phone)) < MinCustomerPhoneLen {
		problems = append(problems, fmt.Sprintf("phone must be at least %d characters", MinCustomerPhoneLen))
	}
	if utf8.RuneCountInString(strings.TrimSpace(ci.Description)) < MinDescriptionLen {
		problems = append(problems, fmt.Sprintf("order description must be at least %d characters", MinDescriptionLen))
	}
	return problems
}

// BuildOrder assembles the creation payload from the cart and the checkout
// form. It returns an error for an empty cart or an invalid form; the cart is
// never mutated here.
func BuildOrder(cart *Cart, info CheckoutInfo) (models.CreateOrderInput, error) {
	if cart.IsEmpty() {
		return models.CreateOrderInput{}, fmt.Errorf("your cart is empty")
	}
	if problems := info.Validate(); len(problems) > 0 {
		return models.CreateOrderInput{}, fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return models.CreateOrderInput{
		Items:         cart.Lines(),
		Total:         cart.Total(),
		CustomerName:  strings.TrimSpace(info.Name),
		CustomerPhone: strings.TrimSpace(info.Phone),
		Description:   strings.TrimSpace(info.Description),
	}, nil
}

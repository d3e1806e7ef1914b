package domain

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
)

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// Order represents a customer order as read from the order store.
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	CustomerID  string      `json:"customer_id"`
	Email       string      `json:"email"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	// Subtotal and Total may be zero on legacy rows; the summary derivation
	// falls back to computing them from the line items.
	Subtotal   float64   `json:"subtotal"`
	Discount   float64   `json:"discount"`
	Total      float64   `json:"total"`
	Currency   string    `json:"currency"`
	InvoiceURL string    `json:"invoice_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OrderItem is one purchased line within an order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// ValidOrderStatuses returns all valid order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusPaid,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCanceled,
	}
}

// IsValidOrderStatus checks if a status string is valid.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsPaid reports whether the order has reached a paid state. The invoice
// link is only exposed for paid orders.
func (o *Order) IsPaid() bool {
	switch o.Status {
	case OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// CheckoutPolicy holds the pricing rules applied when deriving an order
// summary.
type CheckoutPolicy struct {
	ShippingFee           float64
	FreeShippingThreshold float64
	SupportPhone          string
}

// OrderSummary is the derived money breakdown shown to the shopper.
type OrderSummary struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Summarize derives the displayed totals for an order. A missing stored
// subtotal falls back to the sum of line items; shipping is free above the
// threshold; a missing stored total falls back to the rounded sum of the
// discounted product total and shipping.
func (o *Order) Summarize(policy CheckoutPolicy) OrderSummary {
	subtotal := o.Subtotal
	if subtotal == 0 {
		for _, item := range o.Items {
			subtotal += item.Price * float64(item.Quantity)
		}
	}

	productsTotal := subtotal - o.Discount
	if productsTotal < 0 {
		productsTotal = 0
	}

	shipping := policy.ShippingFee
	if productsTotal >= policy.FreeShippingThreshold {
		shipping = 0
	}

	total := o.Total
	if total == 0 {
		total = math.Round(productsTotal + shipping)
	}

	return OrderSummary{
		Subtotal: subtotal,
		Discount: o.Discount,
		Shipping: shipping,
		Total:    total,
	}
}

// SupportLink builds a WhatsApp deep link prefilled with the order number,
// or empty when no support phone is configured.
func (o *Order) SupportLink(policy CheckoutPolicy) string {
	if policy.SupportPhone == "" {
		return ""
	}
	phone := strings.TrimPrefix(policy.SupportPhone, "+")
	msg := fmt.Sprintf("Hello, I need help with my order %s.", o.OrderNumber)
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(msg)
}

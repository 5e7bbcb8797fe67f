package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the immutable result of a successful checkout. It is never stored;
// its lifetime ends once the notification channel accepts it.
type Order struct {
	OrderNumber     string          `json:"orderNumber"`
	CustomerInfo    CustomerInfo    `json:"customerInfo"`
	ShippingAddress ShippingAddress `json:"shippingInfo"`
	ShippingOption  ShippingOption  `json:"shippingType"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Items           []CartLineItem  `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Timestamp       time.Time       `json:"timestamp"`
}

// ItemCount sums the quantities of the ordered items.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Confirmation is returned to the caller once an order has been accepted.
type Confirmation struct {
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	Timestamp   time.Time       `json:"timestamp"`
}

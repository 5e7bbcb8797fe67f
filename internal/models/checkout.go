package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CustomerInfo identifies who placed the order.
type CustomerInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,basic_email"`
	Phone     string `json:"phone" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// ShippingAddress is where the order is delivered.
type ShippingAddress struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// CheckoutRequest is the user input collected by the checkout form.
type CheckoutRequest struct {
	CustomerInfo    CustomerInfo    `json:"customerInfo"`
	ShippingAddress ShippingAddress `json:"shippingInfo"`
	ShippingType    ShippingTier    `json:"shippingType" validate:"required,shipping_tier"`
	PaymentMethod   string          `json:"paymentMethod" validate:"required,payment_method"`
}

// Normalize trims surrounding whitespace from every free-text field.
func (r *CheckoutRequest) Normalize() {
	for _, f := range []*string{
		&r.CustomerInfo.FirstName, &r.CustomerInfo.LastName, &r.CustomerInfo.Email,
		&r.CustomerInfo.Phone, &r.CustomerInfo.Country,
		&r.ShippingAddress.Address, &r.ShippingAddress.City, &r.ShippingAddress.State,
		&r.ShippingAddress.ZipCode, &r.ShippingAddress.Country,
		&r.PaymentMethod,
	} {
		*f = strings.TrimSpace(*f)
	}
	r.ShippingType = ShippingTier(strings.TrimSpace(string(r.ShippingType)))
}

// ShippingTier identifies a shipping option.
type ShippingTier string

const (
	ShippingStandard  ShippingTier = "standard"
	ShippingExpress   ShippingTier = "express"
	ShippingOvernight ShippingTier = "overnight"
)

// ShippingOption is one entry of the fixed shipping price list.
type ShippingOption struct {
	ID    ShippingTier    `json:"id"`
	Name  string          `json:"name"`
	Time  string          `json:"time"`
	Price decimal.Decimal `json:"price"`
}

// ShippingOptions returns the shipping price list in display order.
func ShippingOptions() []ShippingOption {
	return []ShippingOption{
		{ID: ShippingStandard, Name: "Standard Shipping", Time: "5-7 business days", Price: decimal.RequireFromString("9.99")},
		{ID: ShippingExpress, Name: "Express Shipping", Time: "2-3 business days", Price: decimal.RequireFromString("19.99")},
		{ID: ShippingOvernight, Name: "Overnight Shipping", Time: "1 business day", Price: decimal.RequireFromString("39.99")},
	}
}

// LookupShippingOption finds a shipping option by tier.
func LookupShippingOption(tier ShippingTier) (ShippingOption, bool) {
	for _, opt := range ShippingOptions() {
		if opt.ID == tier {
			return opt, true
		}
	}
	return ShippingOption{}, false
}

// PaymentMethod is an external payment channel. Selection is informational only.
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PaymentMethods returns the accepted payment channels in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: "apple-pay", Name: "Apple Pay"},
		{ID: "paypal", Name: "PayPal"},
		{ID: "cashapp", Name: "Cash App"},
		{ID: "zelle", Name: "Zelle"},
		{ID: "venmo", Name: "Venmo"},
		{ID: "chime", Name: "Chime"},
		{ID: "bitcoin", Name: "Bitcoin"},
		{ID: "bank-transfer", Name: "Direct Bank Transfer"},
	}
}

// LookupPaymentMethod finds a payment method by id.
func LookupPaymentMethod(id string) (PaymentMethod, bool) {
	for _, pm := range PaymentMethods() {
		if pm.ID == id {
			return pm, true
		}
	}
	return PaymentMethod{}, false
}

// Quote is the price breakdown shown before an order is submitted.
type Quote struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	ItemCount    int             `json:"itemCount"`
}

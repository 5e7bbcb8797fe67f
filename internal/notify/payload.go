package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// CustomerPayload mirrors models.CustomerInfo on the wire.
type CustomerPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}

// ShippingInfoPayload mirrors models.ShippingAddress on the wire.
type ShippingInfoPayload struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// ShippingTypePayload describes the chosen shipping option.
type ShippingTypePayload struct {
	Name  string  `json:"name"`
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// ItemPayload is one ordered line with the full product details.
type ItemPayload struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Series          string   `json:"series,omitempty"`
	SelectedColor   string   `json:"selectedColor,omitempty"`
	Quantity        int      `json:"quantity"`
	OriginalPrice   float64  `json:"originalPrice"`
	DiscountedPrice float64  `json:"discountedPrice"`
	Discount        int      `json:"discount"`
	Description     string   `json:"description"`
	Features        []string `json:"features"`
	Colors          []string `json:"colors"`
	InStock         bool     `json:"inStock"`
	Image           string   `json:"image"`
}

// OrderPayload is the order notification body.
type OrderPayload struct {
	OrderNumber   string              `json:"orderNumber"`
	CustomerInfo  CustomerPayload     `json:"customerInfo"`
	ShippingInfo  ShippingInfoPayload `json:"shippingInfo"`
	ShippingType  ShippingTypePayload `json:"shippingType"`
	PaymentMethod string              `json:"paymentMethod"`
	Items         []ItemPayload       `json:"items"`
	Subtotal      float64             `json:"subtotal"`
	ShippingCost  float64             `json:"shippingCost"`
	TotalAmount   float64             `json:"totalAmount"`
	Timestamp     string              `json:"timestamp"`
}

// ContactPayload is the contact notification body.
type ContactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// NewOrderPayload converts an order into its wire shape.
func NewOrderPayload(o models.Order) OrderPayload {
	items := make([]ItemPayload, len(o.Items))
	for i, it := range o.Items {
		p := it.Product
		items[i] = ItemPayload{
			ID:              p.ID,
			Name:            p.Name,
			Category:        string(p.Category),
			Series:          p.Series,
			SelectedColor:   it.SelectedColor,
			Quantity:        it.Quantity,
			OriginalPrice:   p.OriginalPrice.InexactFloat64(),
			DiscountedPrice: p.DiscountedPrice.InexactFloat64(),
			Discount:        p.Discount,
			Description:     p.Description,
			Features:        orEmpty(p.Features),
			Colors:          orEmpty(p.Colors),
			InStock:         p.InStock,
			Image:           p.Image,
		}
	}
	return OrderPayload{
		OrderNumber: o.OrderNumber,
		CustomerInfo: CustomerPayload{
			FirstName: o.CustomerInfo.FirstName,
			LastName:  o.CustomerInfo.LastName,
			Email:     o.CustomerInfo.Email,
			Phone:     o.CustomerInfo.Phone,
			Country:   o.CustomerInfo.Country,
		},
		ShippingInfo: ShippingInfoPayload{
			Address: o.ShippingAddress.Address,
			City:    o.ShippingAddress.City,
			State:   o.ShippingAddress.State,
			ZipCode: o.ShippingAddress.ZipCode,
			Country: o.ShippingAddress.Country,
		},
		ShippingType: ShippingTypePayload{
			Name:  o.ShippingOption.Name,
			Time:  o.ShippingOption.Time,
			Price: o.ShippingOption.Price.InexactFloat64(),
		},
		PaymentMethod: o.PaymentMethod.Name,
		Items:         items,
		Subtotal:      o.Subtotal.InexactFloat64(),
		ShippingCost:  o.ShippingCost.InexactFloat64(),
		TotalAmount:   o.TotalAmount.InexactFloat64(),
		Timestamp:     o.Timestamp.UTC().Format(TimestampLayout),
	}
}

// ItemCount sums the quantities in the payload.
func (p OrderPayload) ItemCount() int {
	n := 0
	for _, it := range p.Items {
		n += it.Quantity
	}
	return n
}

// ParsedTimestamp parses the payload timestamp.
func (p OrderPayload) ParsedTimestamp() (time.Time, error) {
	return time.Parse(TimestampLayout, p.Timestamp)
}

// NewOrderNotification wraps an order into a Notification.
func NewOrderNotification(o models.Order) (Notification, error) {
	return newNotification(TemplateOrder, NewOrderPayload(o))
}

// NewContactNotification wraps a contact message into a Notification.
func NewContactNotification(m models.ContactMessage) (Notification, error) {
	return newNotification(TemplateContact, ContactPayload{Name: m.Name, Email: m.Email, Message: m.Message})
}

func newNotification(t Template, payload interface{}) (Notification, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Notification{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	return Notification{Template: t, Payload: body}, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

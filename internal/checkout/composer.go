// Package checkout turns validated checkout input and a cart snapshot into a priced Order.
package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/models"
	"storefront/internal/validation"
	"storefront/pkg/apperrors"
)

// DefaultOrderPrefix starts every generated order number.
const DefaultOrderPrefix = "RGA"

const suffixLen = 9

// Composer validates checkout input and composes orders.
type Composer struct {
	validate *validator.Validate
	prefix   string
	now      func() time.Time
	suffix   func() string
}

// Option configures a Composer.
type Option func(*Composer)

// WithOrderPrefix overrides the order number prefix.
func WithOrderPrefix(prefix string) Option {
	return func(c *Composer) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithClock overrides the time source used for timestamps and order numbers.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithSuffixSource overrides the random part of order numbers.
func WithSuffixSource(suffix func() string) Option {
	return func(c *Composer) { c.suffix = suffix }
}

// NewComposer creates a Composer.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		validate: validation.New(),
		prefix:   DefaultOrderPrefix,
		now:      time.Now,
		suffix:   randomSuffix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate normalizes req in place and returns the first failing field as a
// *apperrors.ValidationError. Customer fields are checked before shipping fields,
// then the shipping option and the payment method.
func (c *Composer) Validate(req *models.CheckoutRequest) error {
	req.Normalize()
	return validation.First(c.validate, req)
}

// ValidateAll is Validate but reports every failing field.
func (c *Composer) ValidateAll(req *models.CheckoutRequest) []*apperrors.ValidationError {
	req.Normalize()
	return validation.All(c.validate, req)
}

// Quote prices the snapshot with the given shipping tier without creating an order.
func (c *Composer) Quote(tier models.ShippingTier, snap models.CartSnapshot) (models.Quote, error) {
	if snap.IsEmpty() {
		return models.Quote{}, apperrors.ErrEmptyCart
	}
	opt, ok := models.LookupShippingOption(tier)
	if !ok {
		return models.Quote{}, apperrors.NewValidationError("shippingType", "shipping_tier", "Please choose a shipping option.")
	}
	return models.Quote{
		Subtotal:     snap.Total,
		ShippingCost: opt.Price,
		TotalAmount:  snap.Total.Add(opt.Price),
		ItemCount:    snap.ItemCount,
	}, nil
}

// Compose builds an immutable Order from validated input and a cart snapshot.
// The order shares no memory with snap.
func (c *Composer) Compose(req models.CheckoutRequest, snap models.CartSnapshot) (models.Order, error) {
	if snap.IsEmpty() {
		return models.Order{}, apperrors.ErrEmptyCart
	}
	shipping, ok := models.LookupShippingOption(req.ShippingType)
	if !ok {
		return models.Order{}, apperrors.NewValidationError("shippingType", "shipping_tier", "Please choose a shipping option.")
	}
	payment, ok := models.LookupPaymentMethod(req.PaymentMethod)
	if !ok {
		return models.Order{}, apperrors.NewValidationError("paymentMethod", "payment_method", "Please choose a payment method.")
	}

	items := make([]models.CartLineItem, len(snap.Items))
	subtotal := decimal.Zero
	for i, it := range snap.Items {
		items[i] = it.Clone()
		subtotal = subtotal.Add(it.LineTotal())
	}
	if !subtotal.Equal(snap.Total) {
		return models.Order{}, fmt.Errorf("cart total %s does not match its lines (%s)",
			snap.Total.StringFixed(2), subtotal.StringFixed(2))
	}

	now := c.now().UTC()
	return models.Order{
		OrderNumber:     c.orderNumber(now),
		CustomerInfo:    req.CustomerInfo,
		ShippingAddress: req.ShippingAddress,
		ShippingOption:  shipping,
		PaymentMethod:   payment,
		Items:           items,
		Subtotal:        snap.Total,
		ShippingCost:    shipping.Price,
		TotalAmount:     snap.Total.Add(shipping.Price),
		Timestamp:       now,
	}, nil
}

// orderNumber is <prefix>-<unix millis>-<random>. Uniqueness is advisory only.
func (c *Composer) orderNumber(at time.Time) string {
	return fmt.Sprintf("%s-%d-%s", c.prefix, at.UnixMilli(), c.suffix())
}

func randomSuffix() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:suffixLen])
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/repositories"
	"storefront/pkg/apperrors"
)

// OrderService turns a session's cart and checkout form into an order and
// hands it to the notification channel.
type OrderService struct {
	carts    repositories.CartRepository
	composer *checkout.Composer
	sender   sender
	inflight *inflight
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService. timeout bounds each call to the channel.
func NewOrderService(carts repositories.CartRepository, composer *checkout.Composer, channel notify.Channel, timeout time.Duration, logger *zap.Logger) *OrderService {
	return &OrderService{
		carts:    carts,
		composer: composer,
		sender:   sender{channel: channel, timeout: timeout, logger: logger},
		inflight: newInflight(),
		logger:   logger,
	}
}

// Validate reports every invalid field of the checkout form, in form order.
func (s *OrderService) Validate(req models.CheckoutRequest) []*apperrors.ValidationError {
	return s.composer.ValidateAll(&req)
}

// Quote prices the session's cart with the given shipping tier.
func (s *OrderService) Quote(sessionID string, tier models.ShippingTier) (models.Quote, error) {
	snap, err := s.snapshot(sessionID)
	if err != nil {
		return models.Quote{}, err
	}
	return s.composer.Quote(tier, snap)
}

// Submit validates the request, composes the order from the session's cart and
// sends it. The ordered lines are removed from the cart only after the channel
// accepted the order.
func (s *OrderService) Submit(ctx context.Context, sessionID string, req models.CheckoutRequest) (*models.Confirmation, error) {
	release, err := s.inflight.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.composer.Validate(&req); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(sessionID)
	if err != nil {
		return nil, err
	}

	order, err := s.compose(req, snap)
	if err != nil {
		return nil, err
	}

	n, err := notify.NewOrderNotification(order)
	if err != nil {
		return nil, &apperrors.SubmissionError{Op: "order", UserMessage: orderFailureMessage, Err: err}
	}
	if err := s.sender.send(ctx, "order", orderFailureMessage, n); err != nil {
		s.logger.Warn("order not submitted, cart kept",
			zap.String("order_number", order.OrderNumber),
			zap.String("session_id", sessionID),
		)
		return nil, err
	}

	// Only the ordered lines leave the cart; items added while sending stay.
	if err := s.carts.Update(sessionID, func(st *cart.Store) error {
		st.Deduct(snap.Items)
		return nil
	}); err != nil {
		// The order has been sent; a failed cleanup is only logged.
		s.logger.Error("failed to remove ordered items from cart", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	s.logger.Info("order submitted",
		zap.String("order_number", order.OrderNumber),
		zap.Int("item_count", order.ItemCount()),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.String("payment_method", order.PaymentMethod.ID),
	)

	return &models.Confirmation{
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		ItemCount:   order.ItemCount(),
		Timestamp:   order.Timestamp,
	}, nil
}

// compose builds the order, converting unexpected failures into a SubmissionError.
func (s *OrderService) compose(req models.CheckoutRequest, snap models.CartSnapshot) (order models.Order, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while composing order", zap.Any("panic", r), zap.Stack("stack"))
			err = &apperrors.SubmissionError{Op: "order", UserMessage: orderFailureMessage, Err: fmt.Errorf("compose panicked: %v", r)}
		}
	}()

	order, err = s.composer.Compose(req, snap)
	if err == nil {
		return order, nil
	}
	if errors.Is(err, apperrors.ErrEmptyCart) {
		return order, err
	}
	if _, ok := apperrors.IsValidation(err); ok {
		return order, err
	}
	return order, &apperrors.SubmissionError{Op: "order", UserMessage: orderFailureMessage, Err: err}
}

func (s *OrderService) snapshot(sessionID string) (models.CartSnapshot, error) {
	var snap models.CartSnapshot
	err := s.carts.View(sessionID, func(st *cart.Store) error {
		snap = st.Snapshot()
		return nil
	})
	return snap, err
}

package services_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockChannel is a mock implementation of notify.Channel
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Send(ctx context.Context, n notify.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type orderFixture struct {
	carts   *repositories.MemoryCartRepository
	cart    *services.CartService
	channel *MockChannel
	orders  *services.OrderService
}

func newOrderFixture(t *testing.T, opts ...checkout.Option) orderFixture {
	carts := repositories.NewMemoryCartRepository()
	channel := new(MockChannel)
	return orderFixture{
		carts:   carts,
		cart:    services.NewCartService(carts, seededProducts(t)),
		channel: channel,
		orders:  services.NewOrderService(carts, checkout.NewComposer(opts...), channel, time.Second, zap.NewNop()),
	}
}

func (f orderFixture) fillScenarioA(t *testing.T, session string) {
	_, err := f.cart.AddItem(session, "iphone-15", "Blue", 1)
	require.NoError(t, err)
	_, err = f.cart.AddItem(session, "case", "Black", 2)
	require.NoError(t, err)
}

func checkoutRequest() models.CheckoutRequest {
	return models.CheckoutRequest{
		CustomerInfo: models.CustomerInfo{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555-0100", Country: "US",
		},
		ShippingAddress: models.ShippingAddress{
			Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US",
		},
		ShippingType:  models.ShippingStandard,
		PaymentMethod: "paypal",
	}
}

func TestOrderService_Submit_ClearsCartOnSuccess(t *testing.T) {
	f := newOrderFixture(t)
	f.fillScenarioA(t, "s1")

	f.channel.On("Send", mock.Anything, mock.MatchedBy(func(n notify.Notification) bool {
		return n.Template == notify.TemplateOrder
	})).Return(nil).Once()

	conf, err := f.orders.Submit(context.Background(), "s1", checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, "668.99", conf.TotalAmount.StringFixed(2))
	assert.Equal(t, 3, conf.ItemCount)
	assert.Regexp(t, regexp.MustCompile(`^RGA-\d{13}-[0-9A-F]{9}$`), conf.OrderNumber)

	snap, err := f.cart.Get("s1")
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	f.channel.AssertExpectations(t)
}

func TestOrderService_Submit_KeepsItemsAddedDuringSend(t *testing.T) {
	f := newOrderFixture(t)
	f.fillScenarioA(t, "s1")

	f.channel.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		// Another tab adds to the cart while the order is in flight.
		_, err := f.cart.AddItem("s1", "airpods-pro", "", 1)
		require.NoError(t, err)
		_, err = f.cart.AddItem("s1", "case", "Black", 1)
		require.NoError(t, err)
	}).Return(nil).Once()

	conf, err := f.orders.Submit(context.Background(), "s1", checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, conf.ItemCount)

	snap, err := f.cart.Get("s1")
	require.NoError(t, err)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "case-black", snap.Items[0].Key)
	assert.Equal(t, 1, snap.Items[0].Quantity)
	assert.Equal(t, "airpods-pro", snap.Items[1].Key)
	assert.Equal(t, 2, snap.ItemCount)
	f.channel.AssertExpectations(t)
}

func TestOrderService_Submit_KeepsCartOnFailure(t *testing.T) {
	f := newOrderFixture(t)
	f.fillScenarioA(t, "s1")
	before, _ := f.cart.Get("s1")

	f.channel.On("Send", mock.Anything, mock.Anything).Return(errors.New("resend returned status 500")).Once()

	conf, err := f.orders.Submit(context.Background(), "s1", checkoutRequest())
	assert.Nil(t, conf)
	se, ok := apperrors.IsSubmission(err)
	require.True(t, ok)
	assert.Equal(t, "Failed to submit order. Please try again or contact us directly.", se.UserMessage)

	after, _ := f.cart.Get("s1")
	assert.Equal(t, before.Items, after.Items)
	assert.True(t, before.Total.Equal(after.Total))
}

func TestOrderService_Submit_ValidatesBeforeSending(t *testing.T) {
	f := newOrderFixture(t)
	f.fillScenarioA(t, "s1")

	req := checkoutRequest()
	req.ShippingAddress.ZipCode = "  "
	_, err := f.orders.Submit(context.Background(), "s1", req)

	ve, ok := apperrors.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "zipCode", ve.Field)
	f.channel.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestOrderService_Submit_EmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.orders.Submit(context.Background(), "s1", checkoutRequest())
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
	f.channel.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestOrderService_Submit_PanicBecomesSubmissionError(t *testing.T) {
	f := newOrderFixture(t, checkout.WithSuffixSource(func() string { panic("entropy exhausted") }))
	f.fillScenarioA(t, "s1")

	_, err := f.orders.Submit(context.Background(), "s1", checkoutRequest())
	se, ok := apperrors.IsSubmission(err)
	require.True(t, ok)
	assert.NotContains(t, se.UserMessage, "entropy")

	snap, _ := f.cart.Get("s1")
	assert.Equal(t, 3, snap.ItemCount)
}

func TestOrderService_Submit_TimesOut(t *testing.T) {
	carts := repositories.NewMemoryCartRepository()
	cartSvc := services.NewCartService(carts, seededProducts(t))
	_, err := cartSvc.AddItem("s1", "case", "Black", 1)
	require.NoError(t, err)

	channel := new(MockChannel)
	channel.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Return(context.DeadlineExceeded).Once()

	orders := services.NewOrderService(carts, checkout.NewComposer(), channel, 20*time.Millisecond, zap.NewNop())
	_, err = orders.Submit(context.Background(), "s1", checkoutRequest())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, ok := apperrors.IsSubmission(err)
	assert.True(t, ok)
}

func TestOrderService_Submit_RejectsConcurrentSubmission(t *testing.T) {
	f := newOrderFixture(t)
	f.fillScenarioA(t, "s1")

	entered := make(chan struct{})
	proceed := make(chan struct{})
	f.channel.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-proceed
	}).Return(nil).Once()

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = f.orders.Submit(context.Background(), "s1", checkoutRequest())
	}()

	<-entered
	_, err := f.orders.Submit(context.Background(), "s1", checkoutRequest())
	assert.ErrorIs(t, err, apperrors.ErrSubmissionInProgress)

	close(proceed)
	wg.Wait()
	assert.NoError(t, firstErr)
}

func TestOrderService_Quote(t *testing.T) {
	f := newOrderFixture(t)
	f.fillScenarioA(t, "s1")

	q, err := f.orders.Quote("s1", models.ShippingOvernight)
	require.NoError(t, err)
	assert.Equal(t, "659.00", q.Subtotal.StringFixed(2))
	assert.Equal(t, "698.99", q.TotalAmount.StringFixed(2))

	_, err = f.orders.Quote("empty", models.ShippingStandard)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
}

func TestOrderService_Validate(t *testing.T) {
	f := newOrderFixture(t)
	errs := f.orders.Validate(models.CheckoutRequest{})
	require.NotEmpty(t, errs)
	assert.Equal(t, "firstName", errs[0].Field)
	assert.Empty(t, f.orders.Validate(checkoutRequest()))
}

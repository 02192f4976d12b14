package usecase

import (
	"context"
	"errors"
	"testing"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/dto/request"
	"hotel-booking/pkg/cache"
	"hotel-booking/pkg/payment"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	store     *memStore
	cart      CartService
	checkout  CheckoutService
	publisher *fakePublisher
	gateway   *fakeGateway
	user      *entity.User
	customer  *entity.Customer
	room      *entity.Room
	category  *entity.RoomCategory
}

func testConfig() *utils.Config {
	return &utils.Config{
		Payment: utils.PaymentConfig{
			Currency:   "eur",
			SuccessURL: "https://hotel.example/paid",
			CancelURL:  "https://hotel.example/cart",
		},
	}
}

// newCheckoutFixture seeds one customer and one room at the given nightly
// rate, and puts a one-night stay in the customer's cart.
func newCheckoutFixture(t *testing.T, rate entity.Money, points int) *checkoutFixture {
	t.Helper()

	store := newMemStore()
	category, rooms := store.seedCategory("Deluxe", rate, 1)
	user, customer := store.seedCustomer("alice@example.com", points)

	f := &checkoutFixture{
		store:     store,
		publisher: &fakePublisher{},
		gateway:   &fakeGateway{session: &payment.Session{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}},
		user:      user,
		customer:  customer,
		room:      rooms[0],
		category:  category,
	}
	repo := store.repository()
	f.cart = NewCartService(repo, zap.NewNop())
	f.checkout = NewCheckoutService(repo, Integrations{
		Receipts:    f.publisher,
		Payments:    f.gateway,
		Idempotency: cache.NewMemoryIdempotencyStore(),
	}, testConfig(), zap.NewNop())

	_, err := f.cart.AddRoom(context.Background(), user.ID.String(), &request.AddRoomRequest{
		CategoryID: category.ID.String(), StartDate: "2024-06-01", EndDate: "2024-06-02",
	})
	require.NoError(t, err)
	return f
}

func (f *checkoutFixture) pendingStay(t *testing.T) entity.RoomStay {
	t.Helper()
	cart, ok := f.store.cartOf(f.customer.ID)
	require.True(t, ok)
	stays, err := f.store.repository().RoomStay.FindByCart(context.Background(), cart.ID)
	require.NoError(t, err)
	require.Len(t, stays, 1)
	return *stays[0]
}

func TestCheckoutRedeemsAndEarns(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 20)

	receipt, err := f.checkout.Checkout(context.Background(), f.user.ID.String(), 20, "")
	require.NoError(t, err)

	assert.Equal(t, entity.Units(100), receipt.Subtotal)
	assert.Equal(t, 20, receipt.PointsUsed)
	assert.Equal(t, entity.Units(80), receipt.AmountPaid)
	assert.Equal(t, 4, receipt.PointsEarned)
	assert.Equal(t, 4, receipt.PointsBalance)
	assert.Equal(t, "Payment completed successfully", receipt.Message)

	assert.Equal(t, 4, f.store.customer(f.customer.ID).PointsBalance)

	cart, _ := f.store.cartOf(f.customer.ID)
	assert.Equal(t, entity.CartStatusPaid, cart.Status)
	assert.Equal(t, entity.Units(100), cart.Total)
	assert.Equal(t, entity.LineStatusConfirmed, f.pendingStay(t).Status)
	assert.Equal(t, entity.RoomStateReserved, f.store.room(f.room.ID).State)

	paid, err := f.store.repository().Payment.FindByCartID(context.Background(), cart.ID)
	require.NoError(t, err)
	require.NotNil(t, paid)
	assert.Equal(t, entity.PaymentMethodDirect, paid.Method)
	assert.Equal(t, entity.PaymentStatusCompleted, paid.Status)

	require.Len(t, f.publisher.sent, 1)
	msg := f.publisher.sent[0]
	assert.Equal(t, cart.ID.String(), msg.CartID)
	assert.Equal(t, "alice@example.com", msg.Email)
	assert.Equal(t, int64(8000), msg.AmountPaidCents)
	assert.Equal(t, 1, msg.RoomStays)

	// The cart is gone; a second checkout has nothing to settle.
	_, err = f.checkout.Checkout(context.Background(), f.user.ID.String(), 0, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutWithoutPoints(t *testing.T) {
	f := newCheckoutFixture(t, entity.Money(4550), 3)

	receipt, err := f.checkout.Checkout(context.Background(), f.user.ID.String(), 0, "")
	require.NoError(t, err)
	assert.Equal(t, entity.Money(4550), receipt.AmountPaid)
	assert.Equal(t, 2, receipt.PointsEarned)
	assert.Equal(t, 5, receipt.PointsBalance)
}

func TestCheckoutPointsExceedTotal(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(120), 150)

	_, err := f.checkout.Checkout(context.Background(), f.user.ID.String(), 130, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPointsExceedTotal)
	assert.EqualError(t, err, "cannot use more points than total")

	assert.Equal(t, 150, f.store.customer(f.customer.ID).PointsBalance)
	cart, _ := f.store.cartOf(f.customer.ID)
	assert.Equal(t, entity.CartStatusActive, cart.Status)
	assert.Equal(t, entity.LineStatusPending, f.pendingStay(t).Status)
	assert.Empty(t, f.publisher.sent)
}

func TestCheckoutRejections(t *testing.T) {
	t.Run("insufficient points", func(t *testing.T) {
		f := newCheckoutFixture(t, entity.Units(100), 10)
		_, err := f.checkout.Checkout(context.Background(), f.user.ID.String(), 20, "")
		assert.ErrorIs(t, err, ErrInsufficientPoints)
		assert.Equal(t, 10, f.store.customer(f.customer.ID).PointsBalance)
	})

	t.Run("negative points", func(t *testing.T) {
		f := newCheckoutFixture(t, entity.Units(100), 10)
		_, err := f.checkout.Checkout(context.Background(), f.user.ID.String(), -1, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty cart", func(t *testing.T) {
		store := newMemStore()
		user, _ := store.seedCustomer("bob@example.com", 50)
		svc := NewCheckoutService(store.repository(), Integrations{}, testConfig(), zap.NewNop())
		_, err := svc.Checkout(context.Background(), user.ID.String(), 0, "")
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("staff without customer profile", func(t *testing.T) {
		f := newCheckoutFixture(t, entity.Units(100), 0)
		_, err := f.checkout.Checkout(context.Background(), uuid.NewString(), 0, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestCheckoutRollsBackOnFailure(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 20)
	f.store.failures["customer.credit"] = errors.New("connection reset")

	_, err := f.checkout.Checkout(context.Background(), f.user.ID.String(), 20, "")
	require.Error(t, err)

	assert.Equal(t, 20, f.store.customer(f.customer.ID).PointsBalance, "deducted points restored")
	assert.Equal(t, entity.LineStatusPending, f.pendingStay(t).Status)
	assert.Equal(t, entity.RoomStateAvailable, f.store.room(f.room.ID).State)
	cart, _ := f.store.cartOf(f.customer.ID)
	assert.Equal(t, entity.CartStatusActive, cart.Status)
	assert.Empty(t, f.publisher.sent)

	// Once the store recovers the same cart settles.
	delete(f.store.failures, "customer.credit")
	receipt, err := f.checkout.Checkout(context.Background(), f.user.ID.String(), 20, "")
	require.NoError(t, err)
	assert.Equal(t, entity.Units(80), receipt.AmountPaid)
}

func TestCheckoutIdempotentReplay(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 0)
	ctx := context.Background()

	first, err := f.checkout.Checkout(ctx, f.user.ID.String(), 0, "retry-1")
	require.NoError(t, err)

	second, err := f.checkout.Checkout(ctx, f.user.ID.String(), 0, "retry-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, f.publisher.sent, 1, "replay does not settle again")

	_, err = f.checkout.Checkout(ctx, f.user.ID.String(), 0, "retry-2")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutFailedAttemptReleasesKey(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 5)
	ctx := context.Background()

	_, err := f.checkout.Checkout(ctx, f.user.ID.String(), 50, "retry-1")
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	receipt, err := f.checkout.Checkout(ctx, f.user.ID.String(), 5, "retry-1")
	require.NoError(t, err)
	assert.Equal(t, entity.Units(95), receipt.AmountPaid)
}

func TestCheckoutPublisherFailureIsSwallowed(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 0)
	f.publisher.err = errors.New("broker down")

	receipt, err := f.checkout.Checkout(context.Background(), f.user.ID.String(), 0, "")
	require.NoError(t, err)
	assert.Equal(t, 5, receipt.PointsEarned)

	cart, _ := f.store.cartOf(f.customer.ID)
	assert.Equal(t, entity.CartStatusPaid, cart.Status)
}

func TestCheckoutSessionFlow(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 30)
	spa := f.store.seedService("Spa", moneyPtr(entity.Money(2550)))
	ctx := context.Background()

	_, err := f.cart.AddService(ctx, f.user.ID.String(), &request.AddServiceRequest{
		ServiceID: spa.ID.String(), Date: "2024-06-01", Time: "16:00",
	})
	require.NoError(t, err)

	session, err := f.checkout.CreateCheckoutSession(ctx, f.user.ID.String(), 25)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.SessionID)
	assert.Equal(t, "https://pay.example/cs_test_1", session.URL)

	manifest := f.gateway.got
	assert.Equal(t, "eur", manifest.Currency)
	assert.Equal(t, int64(2500), manifest.DiscountCents)
	assert.Equal(t, "alice@example.com", manifest.CustomerEmail)
	require.Len(t, manifest.LineItems, 2)
	assert.Equal(t, int64(10000), manifest.LineItems[0].UnitAmount)
	assert.Equal(t, int64(2550), manifest.LineItems[1].UnitAmount)
	assert.Contains(t, manifest.LineItems[1].Name, "Spa")
	assert.Equal(t, "25", manifest.Metadata["points_used"])

	// Nothing is settled until the session is confirmed.
	assert.Equal(t, 30, f.store.customer(f.customer.ID).PointsBalance)

	// Another customer cannot confirm the session.
	mallory, _ := f.store.seedCustomer("mallory@example.com", 0)
	_, err = f.checkout.ConfirmCheckoutSession(ctx, mallory.ID.String(), "cs_test_1")
	assert.ErrorIs(t, err, ErrNotFound)

	receipt, err := f.checkout.ConfirmCheckoutSession(ctx, f.user.ID.String(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, entity.Money(12550), receipt.Subtotal)
	assert.Equal(t, entity.Money(10050), receipt.AmountPaid)
	assert.Equal(t, 5, receipt.PointsEarned)
	assert.Equal(t, 10, receipt.PointsBalance)

	payment, err := f.store.repository().Payment.FindByExternalRef(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, entity.PaymentMethodGateway, payment.Method)

	_, err = f.checkout.ConfirmCheckoutSession(ctx, f.user.ID.String(), "cs_test_1")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCheckoutSessionGatewayFailure(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 0)
	f.gateway.err = payment.ErrGateway

	_, err := f.checkout.CreateCheckoutSession(context.Background(), f.user.ID.String(), 0)
	assert.ErrorIs(t, err, ErrExternal)

	cart, _ := f.store.cartOf(f.customer.ID)
	p, err := f.store.repository().Payment.FindByCartID(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestCheckoutSessionWithoutGateway(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 0)
	svc := NewCheckoutService(f.store.repository(), Integrations{}, testConfig(), zap.NewNop())

	_, err := svc.CreateCheckoutSession(context.Background(), f.user.ID.String(), 0)
	assert.ErrorIs(t, err, ErrExternal)
}

func TestConfirmSessionRejectsStalePoints(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 30)
	ctx := context.Background()

	_, err := f.checkout.CreateCheckoutSession(ctx, f.user.ID.String(), 30)
	require.NoError(t, err)

	// Points spent elsewhere between session creation and confirmation.
	_, err = f.store.repository().Customer.DeductPoints(ctx, f.customer.ID, 20)
	require.NoError(t, err)

	_, err = f.checkout.ConfirmCheckoutSession(ctx, f.user.ID.String(), "cs_test_1")
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	p, err := f.store.repository().Payment.FindByExternalRef(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, p.Status)
	assert.Equal(t, entity.LineStatusPending, f.pendingStay(t).Status)
}

func TestConfirmSessionRejectsChangedCart(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 0)
	ctx := context.Background()

	_, err := f.checkout.CreateCheckoutSession(ctx, f.user.ID.String(), 0)
	require.NoError(t, err)
	require.Len(t, f.gateway.got.LineItems, 1)
	assert.Equal(t, int64(10000), f.gateway.got.LineItems[0].UnitAmount)

	// A room added after the customer was sent to the gateway was never charged.
	suite, _ := f.store.seedCategory("Suite", entity.Units(500), 1)
	_, err = f.cart.AddRoom(ctx, f.user.ID.String(), &request.AddRoomRequest{
		CategoryID: suite.ID.String(), StartDate: "2024-06-01", EndDate: "2024-06-03",
	})
	require.NoError(t, err)

	_, err = f.checkout.ConfirmCheckoutSession(ctx, f.user.ID.String(), "cs_test_1")
	assert.ErrorIs(t, err, ErrCartChanged)
	assert.ErrorIs(t, err, ErrConflict)

	p, err := f.store.repository().Payment.FindByExternalRef(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, p.Status)
	assert.Equal(t, entity.Units(100), p.AmountPaid)
	assert.Equal(t, 0, p.PointsEarned)

	cart, ok := f.store.activeCartOf(f.customer.ID)
	require.True(t, ok)
	stays, err := f.store.repository().RoomStay.FindByCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, stays, 2)
	for _, stay := range stays {
		assert.Equal(t, entity.LineStatusPending, stay.Status)
	}
	assert.Equal(t, 0, f.store.customer(f.customer.ID).PointsBalance)
	assert.Empty(t, f.publisher.sent)
}

func TestCheckoutLosesRaceToConcurrentSettlement(t *testing.T) {
	f := newCheckoutFixture(t, entity.Units(100), 20)
	cart, ok := f.store.activeCartOf(f.customer.ID)
	require.True(t, ok)

	// Another request settles the cart between prepare and the transaction.
	f.store.beforeTx = func() { f.store.markCartPaid(cart.ID) }

	_, err := f.checkout.Checkout(context.Background(), f.user.ID.String(), 20, "")
	assert.ErrorIs(t, err, ErrAlreadySettled)

	assert.Equal(t, 20, f.store.customer(f.customer.ID).PointsBalance)
	assert.Equal(t, entity.LineStatusPending, f.pendingStay(t).Status)
	assert.Empty(t, f.publisher.sent)
}

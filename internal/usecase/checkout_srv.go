package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/cache"
	"hotel-booking/pkg/metrics"
	"hotel-booking/pkg/payment"
	"hotel-booking/pkg/queue"
	"hotel-booking/pkg/tracing"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

type CheckoutService interface {
	// Checkout settles the active cart directly. A non-empty idempotency key
	// makes retries return the first receipt.
	Checkout(ctx context.Context, userID string, pointsUsed int, idempotencyKey string) (*response.Receipt, error)
	CreateCheckoutSession(ctx context.Context, userID string, pointsUsed int) (*response.CheckoutSessionResponse, error)
	// ConfirmCheckoutSession settles the cart behind a paid gateway session.
	ConfirmCheckoutSession(ctx context.Context, userID, sessionID string) (*response.Receipt, error)
}

type checkoutService struct {
	repo        *repository.Repository
	receipts    ReceiptPublisher
	gateway     PaymentGateway
	idempotency IdempotencyStore
	config      *utils.Config
	log         *zap.Logger
}

func NewCheckoutService(repo *repository.Repository, integrations Integrations, config *utils.Config, log *zap.Logger) CheckoutService {
	return &checkoutService{
		repo:        repo,
		receipts:    integrations.Receipts,
		gateway:     integrations.Payments,
		idempotency: integrations.Idempotency,
		config:      config,
		log:         log.With(zap.String("service", "checkout")),
	}
}

func (s *checkoutService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config != nil && s.config.Checkout.Timeout > 0 {
		return context.WithTimeout(ctx, s.config.Checkout.Timeout)
	}
	return context.WithCancel(ctx)
}

func (s *checkoutService) Checkout(ctx context.Context, userID string, pointsUsed int, idempotencyKey string) (receipt *response.Receipt, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "checkout.direct",
		trace.WithAttributes(attribute.Int("points_used", pointsUsed)))
	defer func() { endSpan(span, err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := resolveCustomer(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	if idempotencyKey != "" && s.idempotency != nil {
		key := customer.ID.String() + ":" + idempotencyKey
		replay, owned, kerr := s.reserveKey(ctx, key)
		if kerr != nil {
			return nil, kerr
		}
		if replay != nil {
			span.SetAttributes(attribute.Bool("idempotent_replay", true))
			return replay, nil
		}
		if owned {
			defer func() { s.finishKey(ctx, key, receipt, err) }()
		}
	}

	defer func() { countCheckout(entity.PaymentMethodDirect, err) }()

	cart, err := s.prepare(ctx, customer, pointsUsed)
	if err != nil {
		return nil, err
	}

	receipt, paid, err := s.settle(ctx, customer, cart, pointsUsed, nil)
	if err != nil {
		return nil, err
	}

	s.publishReceipt(ctx, customer, cart, paid, receipt)
	return receipt, nil
}

func (s *checkoutService) CreateCheckoutSession(ctx context.Context, userID string, pointsUsed int) (resp *response.CheckoutSessionResponse, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "checkout.create_session",
		trace.WithAttributes(attribute.Int("points_used", pointsUsed)))
	defer func() { endSpan(span, err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if s.gateway == nil {
		return nil, newError(ErrExternal, "payment gateway is not configured")
	}

	customer, err := resolveCustomer(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	cart, err := s.prepare(ctx, customer, pointsUsed)
	if err != nil {
		return nil, err
	}

	manifest, err := s.buildManifest(ctx, customer, cart, pointsUsed)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateSession(ctx, manifest)
	if err != nil {
		s.log.Error("Payment gateway failed to create session",
			zap.Error(err),
			zap.String("cart_id", cart.ID.String()),
		)
		return nil, fmt.Errorf("%w: %v", ErrExternal, err)
	}

	now := time.Now()
	pending := &entity.Payment{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		CartID:       cart.ID,
		CustomerID:   customer.ID,
		Method:       entity.PaymentMethodGateway,
		Subtotal:     cart.Total,
		PointsUsed:   pointsUsed,
		AmountPaid:   (cart.Total - PointsValue(pointsUsed)).FloorZero(),
		Status:       entity.PaymentStatusPending,
		ExternalRef:  &session.ID,
	}
	if err := s.repo.Payment.Create(ctx, pending); err != nil {
		return nil, fmt.Errorf("record pending payment: %w", err)
	}

	s.log.Info("Checkout session created",
		zap.String("cart_id", cart.ID.String()),
		zap.String("session_id", session.ID),
		zap.String("amount", pending.AmountPaid.String()),
	)

	return &response.CheckoutSessionResponse{SessionID: session.ID, URL: session.URL}, nil
}

func (s *checkoutService) ConfirmCheckoutSession(ctx context.Context, userID, sessionID string) (receipt *response.Receipt, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "checkout.confirm_session")
	defer func() { endSpan(span, err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := resolveCustomer(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.Payment.FindByExternalRef(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("find payment for session %s: %w", sessionID, err)
	}
	if pending == nil || pending.CustomerID != customer.ID {
		return nil, notFound("checkout session")
	}
	if pending.Status != entity.PaymentStatusPending {
		return nil, newError(ErrConflict, "checkout session already "+string(pending.Status))
	}

	defer func() { countCheckout(entity.PaymentMethodGateway, err) }()

	cart, err := s.repo.Cart.FindByID(ctx, pending.CartID)
	if err != nil {
		return nil, fmt.Errorf("find cart %s: %w", pending.CartID, err)
	}
	if cart == nil {
		return nil, notFound("cart")
	}
	if cart.Status != entity.CartStatusActive {
		return nil, ErrAlreadySettled
	}

	receipt, paid, err := s.settle(ctx, customer, cart, pending.PointsUsed, pending)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			if uerr := s.repo.Payment.UpdateStatus(ctx, pending.ID, entity.PaymentStatusFailed); uerr != nil {
				s.log.Error("Failed to mark payment failed", zap.Error(uerr), zap.String("payment_id", pending.ID.String()))
			}
		}
		return nil, err
	}

	s.publishReceipt(ctx, customer, cart, paid, receipt)
	return receipt, nil
}

// prepare loads the active cart and checks everything that can be checked
// before any mutation. Points are measured against the recomputed total.
func (s *checkoutService) prepare(ctx context.Context, customer *entity.Customer, pointsUsed int) (*entity.Cart, error) {
	if pointsUsed < 0 {
		return nil, validationError("pointsUsed must not be negative")
	}

	cart, err := s.repo.Cart.FindActiveByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("find active cart: %w", err)
	}
	if cart == nil {
		return nil, ErrEmptyCart
	}
	if err := loadCartItems(ctx, s.repo, cart); err != nil {
		return nil, err
	}

	if err := checkRedemption(customer, cart, pointsUsed); err != nil {
		s.log.Warn("Checkout rejected",
			zap.Error(err),
			zap.String("cart_id", cart.ID.String()),
			zap.Int("points_used", pointsUsed),
			zap.Int("balance", customer.PointsBalance),
			zap.String("total", cart.Total.String()),
		)
		return nil, err
	}
	return cart, nil
}

// checkRedemption reconciles the cart total and validates the points request.
func checkRedemption(customer *entity.Customer, cart *entity.Cart, pointsUsed int) error {
	if cart.IsEmpty() {
		return ErrEmptyCart
	}
	cart.Reconcile()
	if pointsUsed > customer.PointsBalance {
		return ErrInsufficientPoints
	}
	if PointsValue(pointsUsed) > cart.Total {
		return ErrPointsExceedTotal
	}
	return nil
}

// settle applies the whole settlement in one transaction. pending is the
// gateway payment to complete, or nil for a direct checkout.
func (s *checkoutService) settle(ctx context.Context, customer *entity.Customer, cart *entity.Cart, pointsUsed int, pending *entity.Payment) (*response.Receipt, *entity.Payment, error) {
	var (
		paid    *entity.Payment
		balance int
	)

	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// The row lock keeps cart edits out until commit.
		locked, err := s.repo.Cart.LockActive(ctx, cart.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrAlreadySettled
		}

		// Re-read inside the transaction; the cart may have changed since prepare.
		if err := loadCartItems(ctx, s.repo, cart); err != nil {
			return err
		}
		if err := checkRedemption(customer, cart, pointsUsed); err != nil {
			return err
		}
		// A gateway session settles exactly what it charged.
		if pending != nil && cart.Total != pending.Subtotal {
			return ErrCartChanged
		}

		if pointsUsed > 0 {
			if _, err := s.repo.Customer.DeductPoints(ctx, customer.ID, pointsUsed); err != nil {
				if errors.Is(err, repository.ErrInsufficientPoints) {
					return ErrInsufficientPoints
				}
				return err
			}
		}

		for _, stay := range cart.RoomStays {
			if err := s.confirmStay(ctx, stay); err != nil {
				return err
			}
		}
		for _, booking := range cart.Services {
			if err := s.confirmService(ctx, booking); err != nil {
				return err
			}
		}

		subtotal := cart.Total
		amountPaid := (subtotal - PointsValue(pointsUsed)).FloorZero()
		earned := PointsEarned(amountPaid)

		balance, err = s.repo.Customer.CreditPoints(ctx, customer.ID, earned)
		if err != nil {
			return err
		}

		paid, err = s.recordPayment(ctx, customer, cart, pointsUsed, subtotal, amountPaid, earned, pending)
		if err != nil {
			return err
		}

		if err := s.repo.Cart.UpdateTotal(ctx, cart.ID, subtotal); err != nil {
			return err
		}
		if err := s.repo.Cart.MarkPaid(ctx, cart.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAlreadySettled
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			s.log.Error("Checkout settlement failed",
				zap.Error(err),
				zap.String("cart_id", cart.ID.String()),
			)
		}
		return nil, nil, err
	}

	cart.Status = entity.CartStatusPaid
	customer.PointsBalance = balance

	metrics.PointsRedeemed.Add(float64(pointsUsed))
	metrics.PointsEarned.Add(float64(paid.PointsEarned))

	s.log.Info("Cart settled",
		zap.String("cart_id", cart.ID.String()),
		zap.String("method", string(paid.Method)),
		zap.String("subtotal", paid.Subtotal.String()),
		zap.Int("points_used", paid.PointsUsed),
		zap.String("amount_paid", paid.AmountPaid.String()),
		zap.Int("points_earned", paid.PointsEarned),
	)

	return &response.Receipt{
		CartID:        cart.ID.String(),
		Subtotal:      paid.Subtotal,
		PointsUsed:    paid.PointsUsed,
		AmountPaid:    paid.AmountPaid,
		PointsEarned:  paid.PointsEarned,
		PointsBalance: balance,
		Message:       "Payment completed successfully",
	}, paid, nil
}

func (s *checkoutService) confirmStay(ctx context.Context, stay *entity.RoomStay) error {
	next, err := stay.Status.Transition(entity.LineStatusConfirmed)
	if err != nil {
		return transitionError(err)
	}
	if err := s.repo.RoomStay.UpdateStatus(ctx, stay.ID, stay.Status, next); err != nil {
		return err
	}
	stay.Status = next
	return s.repo.Room.UpdateState(ctx, stay.RoomID, entity.RoomStateReserved)
}

func (s *checkoutService) confirmService(ctx context.Context, booking *entity.ServiceBooking) error {
	next, err := booking.Status.Transition(entity.LineStatusConfirmed)
	if err != nil {
		return transitionError(err)
	}
	if err := s.repo.ServiceBooking.UpdateStatus(ctx, booking.ID, booking.Status, next); err != nil {
		return err
	}
	booking.Status = next
	return nil
}

func (s *checkoutService) recordPayment(ctx context.Context, customer *entity.Customer, cart *entity.Cart, pointsUsed int, subtotal, amountPaid entity.Money, earned int, pending *entity.Payment) (*entity.Payment, error) {
	if pending != nil {
		pending.Subtotal = subtotal
		pending.PointsUsed = pointsUsed
		pending.AmountPaid = amountPaid
		pending.PointsEarned = earned
		if err := s.repo.Payment.Complete(ctx, pending); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, newError(ErrConflict, "checkout session already settled")
			}
			return nil, err
		}
		return pending, nil
	}

	now := time.Now()
	paid := &entity.Payment{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		CartID:       cart.ID,
		CustomerID:   customer.ID,
		Method:       entity.PaymentMethodDirect,
		Subtotal:     subtotal,
		PointsUsed:   pointsUsed,
		AmountPaid:   amountPaid,
		PointsEarned: earned,
		Status:       entity.PaymentStatusCompleted,
	}
	if err := s.repo.Payment.Create(ctx, paid); err != nil {
		return nil, err
	}
	return paid, nil
}

// buildManifest lists every line item in cents and turns points into a discount.
func (s *checkoutService) buildManifest(ctx context.Context, customer *entity.Customer, cart *entity.Cart, pointsUsed int) (payment.SessionRequest, error) {
	req := payment.SessionRequest{
		Currency:      s.config.Payment.Currency,
		DiscountCents: PointsValue(pointsUsed).Cents(),
		SuccessURL:    s.config.Payment.SuccessURL,
		CancelURL:     s.config.Payment.CancelURL,
		Metadata: map[string]string{
			"cart_id":     cart.ID.String(),
			"customer_id": customer.ID.String(),
			"points_used": strconv.Itoa(pointsUsed),
		},
	}

	if user, err := s.repo.User.FindByID(ctx, customer.UserID); err == nil && user != nil {
		req.CustomerEmail = user.Email
	}

	for _, stay := range cart.RoomStays {
		name := fmt.Sprintf("Room stay %s to %s", utils.FormatDate(stay.StartDate), utils.FormatDate(stay.EndDate))
		if room, err := s.repo.Room.FindByID(ctx, stay.RoomID); err == nil && room != nil {
			name = fmt.Sprintf("Room %s, %s to %s", room.Number, utils.FormatDate(stay.StartDate), utils.FormatDate(stay.EndDate))
		}
		req.LineItems = append(req.LineItems, payment.LineItem{Name: name, UnitAmount: stay.Price.Cents(), Quantity: 1})
	}

	for _, booking := range cart.Services {
		service, err := s.repo.Service.FindByID(ctx, booking.ServiceID)
		if err != nil {
			return payment.SessionRequest{}, fmt.Errorf("find service %s: %w", booking.ServiceID, err)
		}
		name := "Service"
		if service != nil {
			name = service.Name
		}
		name = fmt.Sprintf("%s, %s %s", name, utils.FormatDate(booking.Date), booking.Time)
		req.LineItems = append(req.LineItems, payment.LineItem{Name: name, UnitAmount: booking.Price.Cents(), Quantity: 1})
	}

	return req, nil
}

// publishReceipt runs after commit. A failure is logged and never surfaced.
func (s *checkoutService) publishReceipt(ctx context.Context, customer *entity.Customer, cart *entity.Cart, paid *entity.Payment, receipt *response.Receipt) {
	if s.receipts == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg := queue.ReceiptMessage{
		CartID:          cart.ID.String(),
		PaymentID:       paid.ID.String(),
		CustomerID:      customer.ID.String(),
		CustomerName:    customer.FullName(),
		Method:          string(paid.Method),
		SubtotalCents:   paid.Subtotal.Cents(),
		PointsUsed:      paid.PointsUsed,
		AmountPaidCents: paid.AmountPaid.Cents(),
		PointsEarned:    paid.PointsEarned,
		PointsBalance:   receipt.PointsBalance,
		RoomStays:       len(cart.RoomStays),
		ServiceBookings: len(cart.Services),
		SettledAt:       time.Now().UTC(),
	}
	if user, err := s.repo.User.FindByID(ctx, customer.UserID); err == nil && user != nil {
		msg.Email = user.Email
	}

	if err := s.receipts.PublishReceipt(ctx, msg); err != nil {
		s.log.Warn("Receipt notification failed", zap.Error(err), zap.String("cart_id", msg.CartID))
	}
}

// reserveKey returns a replayed receipt, or owned=true when this request
// now holds the key. Store outages degrade to no deduplication.
func (s *checkoutService) reserveKey(ctx context.Context, key string) (*response.Receipt, bool, error) {
	stored, err := s.idempotency.Reserve(ctx, key)
	if errors.Is(err, cache.ErrInProgress) {
		return nil, false, ErrCheckoutInProgress
	}
	if err != nil {
		s.log.Warn("Idempotency store unavailable", zap.Error(err))
		return nil, false, nil
	}
	if stored == nil {
		return nil, true, nil
	}

	var receipt response.Receipt
	if err := json.Unmarshal(stored, &receipt); err != nil {
		return nil, false, fmt.Errorf("decode stored receipt: %w", err)
	}
	return &receipt, false, nil
}

func (s *checkoutService) finishKey(ctx context.Context, key string, receipt *response.Receipt, err error) {
	ctx = context.WithoutCancel(ctx)
	if err != nil || receipt == nil {
		if ferr := s.idempotency.MarkFailure(ctx, key); ferr != nil {
			s.log.Warn("Failed to release idempotency key", zap.Error(ferr))
		}
		return
	}

	raw, merr := json.Marshal(receipt)
	if merr != nil {
		s.log.Error("Failed to encode receipt", zap.Error(merr))
		return
	}
	if serr := s.idempotency.MarkSuccess(ctx, key, raw); serr != nil {
		s.log.Warn("Failed to store receipt for idempotency", zap.Error(serr))
	}
}

func countCheckout(method entity.PaymentMethod, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrConflict):
		result = "rejected"
	case errors.Is(err, ErrValidation):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.CheckoutTotal.WithLabelValues(string(method), result).Inc()
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

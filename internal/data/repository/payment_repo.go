package repository

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByCartID(ctx context.Context, cartID uuid.UUID) (*entity.Payment, error)
	FindByExternalRef(ctx context.Context, ref string) (*entity.Payment, error)

	// Complete writes the settled amounts of a pending payment.
	Complete(ctx context.Context, payment *entity.Payment) error
	UpdateStatus(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, cart_id, customer_id, method, subtotal_cents, points_used, amount_paid_cents,
		       points_earned, status, external_ref, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.CartID,
		&p.CustomerID,
		&p.Method,
		&p.Subtotal,
		&p.PointsUsed,
		&p.AmountPaid,
		&p.PointsEarned,
		&p.Status,
		&p.ExternalRef,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, cart_id, customer_id, method, subtotal_cents, points_used,
		                      amount_paid_cents, points_earned, status, external_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		payment.ID,
		payment.CartID,
		payment.CustomerID,
		payment.Method,
		payment.Subtotal,
		payment.PointsUsed,
		payment.AmountPaid,
		payment.PointsEarned,
		payment.Status,
		payment.ExternalRef,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("cart_id", payment.CartID.String()),
			zap.String("method", string(payment.Method)),
		)
		return fmt.Errorf("create payment for cart %s: %w", payment.CartID.String(), mapPgError(err))
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.findOne(ctx, "find payment by ID", query, id)
}

func (r *paymentRepository) FindByCartID(ctx context.Context, cartID uuid.UUID) (*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE cart_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.findOne(ctx, "find payment by cart ID", query, cartID)
}

func (r *paymentRepository) FindByExternalRef(ctx context.Context, ref string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_ref = $1`
	return r.findOne(ctx, "find payment by external ref", query, ref)
}

func (r *paymentRepository) findOne(ctx context.Context, op, query string, arg any) (*entity.Payment, error) {
	payment, err := scanPayment(database.Conn(ctx, r.db).QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.Any("key", arg))
		return nil, fmt.Errorf("%s %v: %w", op, arg, err)
	}
	return payment, nil
}

func (r *paymentRepository) Complete(ctx context.Context, payment *entity.Payment) error {
	query := `
		UPDATE payments
		SET subtotal_cents = $2, points_used = $3, amount_paid_cents = $4,
		    points_earned = $5, status = 'completed', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		payment.ID,
		payment.Subtotal,
		payment.PointsUsed,
		payment.AmountPaid,
		payment.PointsEarned,
	)
	if err != nil {
		r.log.Error("Failed to complete payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return fmt.Errorf("complete payment %s: %w", payment.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pending payment %s: %w", payment.ID.String(), ErrNotFound)
	}

	payment.Status = entity.PaymentStatusCompleted
	return nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus) error {
	query := `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, paymentID, status)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment %s status to %s: %w", paymentID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s: %w", paymentID.String(), ErrNotFound)
	}

	return nil
}

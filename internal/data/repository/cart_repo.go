package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CartRepository stores cart headers. Line items live in their own tables.
type CartRepository interface {
	// GetOrCreateActive returns the customer's active cart, creating it when
	// missing, and locks it for the rest of the transaction. The partial
	// unique index keeps it to one per customer.
	GetOrCreateActive(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error)
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error)
	// LockActive and LockActiveByCustomer take the cart row lock. They return
	// nil when the cart is no longer active once the lock is granted.
	LockActive(ctx context.Context, id uuid.UUID) (*entity.Cart, error)
	LockActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error)
	// UpdateTotal only touches active carts; anything else is ErrNotFound.
	UpdateTotal(ctx context.Context, id uuid.UUID, total entity.Money) error
	MarkPaid(ctx context.Context, id uuid.UUID) error
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

const cartColumns = `id, customer_id, status, total_cents, created_at, updated_at`

func scanCart(row pgx.Row) (*entity.Cart, error) {
	var cart entity.Cart
	err := row.Scan(
		&cart.ID,
		&cart.CustomerID,
		&cart.Status,
		&cart.Total,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetOrCreateActive(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	insert := `
		INSERT INTO carts (id, customer_id, status, total_cents, created_at, updated_at)
		VALUES ($1, $2, 'active', 0, $3, $3)
		ON CONFLICT (customer_id) WHERE status = 'active' DO NOTHING
	`

	conn := database.Conn(ctx, r.db)
	// A second pass covers a cart that was settled while we waited for its lock.
	for attempt := 0; attempt < 2; attempt++ {
		if _, err := conn.Exec(ctx, insert, uuid.New(), customerID, time.Now()); err != nil {
			r.log.Error("Failed to create active cart",
				zap.Error(err),
				zap.String("customer_id", customerID.String()),
			)
			return nil, fmt.Errorf("create active cart for customer %s: %w", customerID.String(), err)
		}

		cart, err := r.LockActiveByCustomer(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}
	}

	return nil, fmt.Errorf("active cart for customer %s: %w", customerID.String(), ErrNotFound)
}

func (r *cartRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE customer_id = $1 AND status = 'active'`

	cart, err := scanCart(database.Conn(ctx, r.db).QueryRow(ctx, query, customerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active cart",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("find active cart for customer %s: %w", customerID.String(), err)
	}

	return cart, nil
}

func (r *cartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE id = $1`

	cart, err := scanCart(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart", zap.Error(err), zap.String("cart_id", id.String()))
		return nil, fmt.Errorf("find cart %s: %w", id.String(), err)
	}

	return cart, nil
}

func (r *cartRepository) LockActive(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE id = $1 AND status = 'active' FOR UPDATE`

	cart, err := scanCart(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock cart", zap.Error(err), zap.String("cart_id", id.String()))
		return nil, fmt.Errorf("lock cart %s: %w", id.String(), err)
	}

	return cart, nil
}

func (r *cartRepository) LockActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE customer_id = $1 AND status = 'active' FOR UPDATE`

	cart, err := scanCart(database.Conn(ctx, r.db).QueryRow(ctx, query, customerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock active cart",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("lock active cart for customer %s: %w", customerID.String(), err)
	}

	return cart, nil
}

func (r *cartRepository) UpdateTotal(ctx context.Context, id uuid.UUID, total entity.Money) error {
	query := `UPDATE carts SET total_cents = $2, updated_at = NOW() WHERE id = $1 AND status = 'active'`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, total)
	if err != nil {
		r.log.Error("Failed to update cart total",
			zap.Error(err),
			zap.String("cart_id", id.String()),
			zap.String("total", total.String()),
		)
		return fmt.Errorf("update cart %s total: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("active cart %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

// MarkPaid moves an active cart to paid. A cart that is not active is
// reported as not found so a second settlement cannot slip through.
func (r *cartRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE carts SET status = 'paid', updated_at = NOW() WHERE id = $1 AND status = 'active'`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark cart paid", zap.Error(err), zap.String("cart_id", id.String()))
		return fmt.Errorf("mark cart %s paid: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("active cart %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
